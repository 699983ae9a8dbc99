package models

import "time"

// WorkItem represents a named deliverable category teachers submit files against.
// Headmaster-created items are mandatory for every teacher; teachers may add
// their own optional items.
type WorkItem struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	IsRequired    bool      `json:"is_required"`
	CreatedByRole Role      `json:"created_by_role"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
