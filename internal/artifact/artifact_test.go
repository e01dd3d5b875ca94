package artifact

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/nikhilbhutani/lingua/internal/storage"
)

type recordingExpirer struct {
	mu  sync.Mutex
	ids []string
}

func (e *recordingExpirer) ScheduleExpiry(_ context.Context, id, bucket, path string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ids = append(e.ids, id)
	return nil
}

func TestRegistry_CreateOpenRelease(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStorage()
	exp := &recordingExpirer{}
	reg := NewRegistry(store, "audio", exp)

	a, err := reg.Create(ctx, "client-1", []byte("RIFF"), "audio/wav")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if a.URL != "/audio/"+a.ID || a.Size != 4 {
		t.Errorf("Create() = %+v", a)
	}
	if !strings.HasSuffix(a.path, ".wav") {
		t.Errorf("path = %q, want .wav suffix", a.path)
	}
	if len(exp.ids) != 1 || exp.ids[0] != a.ID {
		t.Errorf("expiry scheduled for %v", exp.ids)
	}

	rc, got, err := reg.Open(ctx, a.ID, "client-1")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	data, _ := io.ReadAll(rc)
	rc.Close()
	if string(data) != "RIFF" || got.ContentType != "audio/wav" {
		t.Errorf("Open() = %q, %+v", data, got)
	}

	if _, _, err := reg.Open(ctx, a.ID, "someone-else"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Open() by another client = %v, want ErrNotFound", err)
	}

	if err := reg.Release(ctx, a.ID); err != nil {
		t.Fatalf("Release() error = %v", err)
	}
	if store.Len() != 0 {
		t.Errorf("storage holds %d objects after Release", store.Len())
	}
	if _, _, err := reg.Open(ctx, a.ID, "client-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Open() after Release = %v, want ErrNotFound", err)
	}
	if err := reg.Release(ctx, a.ID); err != nil {
		t.Errorf("second Release() = %v, want nil", err)
	}
}

func TestRegistry_OpenExpired(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStorage()
	reg := NewRegistry(store, "audio", nil)

	a, _ := reg.Create(ctx, "c", []byte("x"), "audio/mpeg")
	_ = store.Delete(ctx, "audio", a.path)

	if _, _, err := reg.Open(ctx, a.ID, "c"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Open() = %v, want ErrNotFound", err)
	}
	if reg.Live("c") != 0 {
		t.Errorf("Live() = %d after expiry, want 0", reg.Live("c"))
	}
}

func TestSlot_AtMostOneLive(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStorage()
	reg := NewRegistry(store, "audio", nil)
	slot := reg.NewSlot("c")

	first, _ := slot.Put(ctx, []byte("1"), "audio/wav")
	second, _ := slot.Put(ctx, []byte("2"), "audio/wav")

	if reg.Live("c") != 1 || store.Len() != 1 {
		t.Fatalf("live = %d, stored = %d; want 1, 1", reg.Live("c"), store.Len())
	}
	if _, _, err := reg.Open(ctx, first.ID, "c"); !errors.Is(err, ErrNotFound) {
		t.Errorf("superseded artifact still readable: %v", err)
	}
	cur, ok := slot.Current()
	if !ok || cur.ID != second.ID {
		t.Errorf("Current() = %+v, %v", cur, ok)
	}

	_ = slot.ReleaseIf(ctx, first.ID)
	if reg.Live("c") != 1 {
		t.Error("ReleaseIf with stale id released the current artifact")
	}
	_ = slot.ReleaseIf(ctx, second.ID)
	if reg.Live("c") != 0 {
		t.Error("ReleaseIf with current id kept the artifact")
	}
	if _, ok := slot.Current(); ok {
		t.Error("Current() after release reported ok")
	}
}

func TestSlot_ConcurrentPuts(t *testing.T) {
	ctx := context.Background()
	reg := NewRegistry(storage.NewMemoryStorage(), "audio", nil)
	slot := reg.NewSlot("c")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = slot.Put(ctx, []byte("x"), "audio/wav")
		}()
	}
	wg.Wait()

	if reg.Live("c") != 1 {
		t.Errorf("Live() = %d, want 1", reg.Live("c"))
	}
}
