package thread

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusArchived Status = "archived"
)

// Thread represents the threads table. A user has at most one active thread
// at a time; forcing an ensure archives the current one.
type Thread struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	Title      sql.NullString
	Status     Status
	CreatedAt  time.Time
	UpdatedAt  time.Time
	ArchivedAt sql.NullTime
}

// Profile mirrors the Supabase auth user into the application schema.
type Profile struct {
	ID        uuid.UUID
	Email     sql.NullString
	CreatedAt time.Time
	UpdatedAt time.Time
}
