package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/openbizreg/service-directory-go/internal/complaint/entity"
)

// Sentinel errors translated from Postgres constraint violations so the
// service can surface precise user-facing messages without leaking driver
// detail.
var (
	ErrBusinessMissing = errors.New("referenced business does not exist")
	ErrDuplicate       = errors.New("duplicate complaint")
)

// Repo provides data access for the complaints table using sqlx.
type Repo struct {
	db *sqlx.DB
}

func NewRepo(db *sqlx.DB) *Repo { return &Repo{db: db} }

// EnsureTable creates the complaints table and its indexes if absent
// (idempotent).
func (r *Repo) EnsureTable(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS complaints (
  id varchar(32) PRIMARY KEY,
  business_id varchar(32) NOT NULL REFERENCES businesses (id),
  type TEXT NOT NULL,
  description TEXT NOT NULL,
  username TEXT,
  user_phone TEXT,
  evidence_url TEXT,
  source TEXT NOT NULL DEFAULT 'web',
  status TEXT NOT NULL DEFAULT 'pending',
  created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_complaints_business_id ON complaints (business_id);
CREATE INDEX IF NOT EXISTS idx_complaints_status ON complaints (status);
`
	_, err := r.db.ExecContext(ctx, ddl)
	return err
}

// Insert writes one complaint row. A foreign-key violation on business_id
// becomes ErrBusinessMissing, a uniqueness violation ErrDuplicate; other
// driver errors propagate wrapped.
func (r *Repo) Insert(ctx context.Context, c *entity.Complaint) error {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	const q = `INSERT INTO complaints (id, business_id, type, description, username, user_phone, evidence_url, source, status, created_at)
  VALUES (:id, :business_id, :type, :description, :username, :user_phone, :evidence_url, :source, :status, :created_at)`
	params := map[string]any{
		"id":           c.ID,
		"business_id":  c.BusinessID,
		"type":         c.Type,
		"description":  c.Description,
		"username":     c.Username,
		"user_phone":   c.UserPhone,
		"evidence_url": c.EvidenceURL,
		"source":       c.Source,
		"status":       c.Status,
		"created_at":   c.CreatedAt,
	}
	if _, err := r.db.NamedExecContext(ctx, q, params); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			switch pqErr.Code {
			case "23503": // foreign_key_violation
				return ErrBusinessMissing
			case "23505": // unique_violation
				return ErrDuplicate
			}
		}
		return fmt.Errorf("insert complaint: %w", err)
	}
	return nil
}
