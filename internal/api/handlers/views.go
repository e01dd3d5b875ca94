package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"

	"github.com/nikhilbhutani/lingua/internal/session"
	"github.com/nikhilbhutani/lingua/internal/workspace"
)

// maxUpload bounds text uploads for the text views.
const maxUpload = 10 << 20

// viewResponse carries a view's state, plus an error message when the
// action that produced it was refused.
type viewResponse struct {
	State any    `json:"state"`
	Error string `json:"error,omitempty"`
}

func writeView(w http.ResponseWriter, status int, state any, msg string) {
	writeJSON(w, status, viewResponse{State: state, Error: msg})
}

func decodeJSON(r *http.Request, dest any) error {
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(dest); err != nil {
		return fmt.Errorf("decode body: %w", err)
	}
	return nil
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
}

// workspaceFor returns the caller's workspace.
func workspaceFor(spaces *workspace.Registry, r *http.Request) *workspace.Workspace {
	return spaces.Get(session.ClientID(r.Context()))
}

// leaseWorkspace holds the caller's workspace for a long-lived connection.
func leaseWorkspace(spaces *workspace.Registry, r *http.Request) *workspace.Lease {
	return spaces.Acquire(session.ClientID(r.Context()))
}

// readUpload pulls the "file" part out of a multipart upload. The file
// name decides the type, or the part's Content-Type when the name has no
// extension.
func readUpload(w http.ResponseWriter, r *http.Request) (kind string, data []byte, err error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUpload)
	f, hdr, err := r.FormFile("file")
	if err != nil {
		return "", nil, fmt.Errorf("read upload: %w", err)
	}
	defer f.Close()

	data, err = io.ReadAll(f)
	if err != nil {
		return "", nil, fmt.Errorf("read upload: %w", err)
	}
	kind = hdr.Filename
	if filepath.Ext(kind) == "" {
		kind = hdr.Header.Get("Content-Type")
	}
	if kind == "" {
		return "", nil, errors.New("read upload: unknown file type")
	}
	return kind, data, nil
}
