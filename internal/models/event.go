package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Event struct {
	ID          uuid.UUID   `gorm:"type:uuid;primary_key" json:"id"`
	Title       string      `gorm:"not null" json:"title"`
	Description string      `json:"description"`
	Date        time.Time   `gorm:"not null;index" json:"date"`
	Location    string      `gorm:"not null" json:"location"`
	Users       []User      `gorm:"many2many:event_users;" json:"users,omitempty"`
	Performers  []Performer `json:"performers,omitempty"`
	Tips        []Tip       `json:"tips,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

func (event *Event) BeforeCreate(tx *gorm.DB) (err error) {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	return
}

// Validate returns a human-readable message for every failed rule.
func (event *Event) Validate() []string {
	var errs []string
	if event.Title == "" {
		errs = append(errs, "Title can't be blank")
	}
	if event.Date.IsZero() {
		errs = append(errs, "Date can't be blank")
	}
	if event.Location == "" {
		errs = append(errs, "Location can't be blank")
	}
	return errs
}
