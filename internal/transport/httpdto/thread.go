package httpdto

import (
	"time"

	"threadline/internal/domain/thread"
)

type ThreadResponse struct {
	ID         string     `json:"id"`
	UserID     string     `json:"user_id"`
	Title      string     `json:"title,omitempty"`
	Status     string     `json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	ArchivedAt *time.Time `json:"archived_at,omitempty"`
}

type ListThreadsResponse struct {
	Threads []ThreadResponse `json:"threads"`
	Total   int64            `json:"total"`
}

func FromThread(t thread.Thread) ThreadResponse {
	resp := ThreadResponse{
		ID:        t.ID.String(),
		UserID:    t.UserID.String(),
		Status:    string(t.Status),
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
	if t.Title.Valid {
		resp.Title = t.Title.String
	}
	if t.ArchivedAt.Valid {
		archivedAt := t.ArchivedAt.Time
		resp.ArchivedAt = &archivedAt
	}
	return resp
}

func FromThreadSlice(threads []thread.Thread) []ThreadResponse {
	out := make([]ThreadResponse, 0, len(threads))
	for _, t := range threads {
		out = append(out, FromThread(t))
	}
	return out
}
