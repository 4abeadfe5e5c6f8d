// Package jobs provides the background queue: promotion of uploaded files
// into permanent storage with derivative generation, asynchronous file
// destruction, and tip notifications. Jobs are fire-and-forget with
// at-least-once delivery, so every handler tolerates re-execution.
package jobs

import "github.com/google/uuid"

type Type string

const (
	TypePromoteImage    Type = "promote_image"
	TypeDestroyFiles    Type = "destroy_files"
	TypeTipNotification Type = "tip_notification"
)

// Job is the JSON payload pushed onto the queue.
type Job struct {
	Type     Type      `json:"type"`
	Entity   string    `json:"entity,omitempty"`
	RecordID uuid.UUID `json:"record_id,omitempty"`
	Paths    []string  `json:"paths,omitempty"`
	TipID    uuid.UUID `json:"tip_id,omitempty"`
}

// Scheduler is what the persistence layer calls instead of wiring implicit
// save hooks: one operation to promote a fresh upload, one to destroy
// detached files, and one to notify about a new tip.
type Scheduler interface {
	SchedulePromotion(entity string, recordID uuid.UUID) error
	ScheduleDestruction(paths []string) error
	ScheduleTipNotification(tipID uuid.UUID) error
}
