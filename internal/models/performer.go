package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Performer is its own collection with an optional link to the event it
// plays at. Deleting an event detaches its performers, it does not destroy
// them.
type Performer struct {
	ID        uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	Name      string     `gorm:"not null" json:"name"`
	Genre     string     `gorm:"not null" json:"genre"`
	Bio       string     `json:"bio,omitempty"`
	Contact   string     `json:"contact,omitempty"`
	EventID   *uuid.UUID `gorm:"type:uuid;index" json:"event_id,omitempty"`
	Event     *Event     `json:"event,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (performer *Performer) BeforeCreate(tx *gorm.DB) (err error) {
	if performer.ID == uuid.Nil {
		performer.ID = uuid.New()
	}
	return
}

func (performer *Performer) Validate() []string {
	var errs []string
	if performer.Name == "" {
		errs = append(errs, "Name can't be blank")
	}
	if performer.Genre == "" {
		errs = append(errs, "Genre can't be blank")
	}
	return errs
}
