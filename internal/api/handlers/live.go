package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/nikhilbhutani/lingua/internal/multimodal/stt"
	"github.com/nikhilbhutani/lingua/internal/observe"
)

const (
	liveWriteWait  = 10 * time.Second
	liveMaxMessage = 4 << 20
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// liveView is a view that takes audio and announces state changes.
type liveView interface {
	Subscribe() (<-chan struct{}, func())
	Feed(ctx context.Context, audio []byte) error
}

type liveControls struct {
	view  liveView
	state func() any
	start func(ctx context.Context) error
	stop  func()
	reset func(ctx context.Context)
	// seen runs on every frame received.
	seen func()
}

type liveCommand struct {
	Type string `json:"type"`
}

type liveMessage struct {
	Type  string `json:"type"`
	State any    `json:"state,omitempty"`
	Error string `json:"error,omitempty"`
}

// serveLive runs the audio websocket for a listening view. Binary frames
// are utterances; text frames are {"type": "start"|"stop"|"reset"}. The
// view's state is pushed after every change. Closing the socket stops
// listening.
func serveLive(w http.ResponseWriter, r *http.Request, c liveControls) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(liveMaxMessage)

	ctx, cancel := context.WithCancel(context.WithoutCancel(r.Context()))
	defer cancel()

	var writeMu sync.Mutex
	send := func(msg liveMessage) error {
		writeMu.Lock()
		defer writeMu.Unlock()
		conn.SetWriteDeadline(time.Now().Add(liveWriteWait))
		return conn.WriteJSON(msg)
	}

	changes, unsubscribe := c.view.Subscribe()
	defer unsubscribe()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case <-changes:
				if err := send(liveMessage{Type: "state", State: c.state()}); err != nil {
					cancel()
					return
				}
			}
		}
	}()
	defer wg.Wait()
	defer cancel()
	defer c.stop()

	if err := send(liveMessage{Type: "state", State: c.state()}); err != nil {
		return
	}

	for {
		mt, data, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				slog.Debug("websocket read ended", "error", err)
			}
			return
		}
		if c.seen != nil {
			c.seen()
		}
		switch mt {
		case websocket.BinaryMessage:
			if err := c.view.Feed(ctx, data); err != nil {
				if !errors.Is(err, stt.ErrClosed) {
					observe.Error(ctx, "failed to feed audio", err)
				}
				send(liveMessage{Type: "error", Error: "not listening"})
			}
		case websocket.TextMessage:
			var cmd liveCommand
			if err := json.Unmarshal(data, &cmd); err != nil {
				send(liveMessage{Type: "error", Error: "invalid command"})
				continue
			}
			switch cmd.Type {
			case "start":
				if err := c.start(ctx); err != nil {
					send(liveMessage{Type: "error", Error: err.Error(), State: c.state()})
				}
			case "stop":
				c.stop()
			case "reset":
				c.reset(ctx)
			default:
				send(liveMessage{Type: "error", Error: "unknown command " + cmd.Type})
			}
		}
	}
}
