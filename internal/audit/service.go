package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"net/netip"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	ActionLogin       = "login"
	ActionLoginFailed = "login_failed"
	ActionLogout      = "logout"
)

type Entry struct {
	Action    string
	Email     string
	ClientID  string
	Details   map[string]any
	IPAddress string
}

// Recorder stores audit entries.
type Recorder interface {
	Log(ctx context.Context, entry Entry) error
}

type Service struct {
	db *pgxpool.Pool
}

// NewService returns a Service writing to db. A nil db makes Log a no-op so
// the API can run without Postgres.
func NewService(db *pgxpool.Pool) *Service {
	return &Service{db: db}
}

func (s *Service) Log(ctx context.Context, entry Entry) error {
	if s == nil || s.db == nil {
		return nil
	}

	details, err := json.Marshal(entry.Details)
	if err != nil {
		return fmt.Errorf("marshal audit details: %w", err)
	}

	_, err = s.db.Exec(ctx,
		`INSERT INTO audit_logs (action, email, client_id, details, ip_address)
		 VALUES ($1, $2, $3, $4, $5)`,
		entry.Action, entry.Email, entry.ClientID, details, parseIP(entry.IPAddress),
	)
	if err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	return nil
}

func parseIP(s string) *netip.Addr {
	if s == "" {
		return nil
	}
	if ap, err := netip.ParseAddrPort(s); err == nil {
		a := ap.Addr()
		return &a
	}
	if a, err := netip.ParseAddr(s); err == nil {
		return &a
	}
	return nil
}
