package models

import (
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const DefaultCurrency = "USD"

type Tip struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Amount    float64   `gorm:"type:decimal(10,2);not null" json:"amount"`
	Currency  string    `gorm:"not null;default:'USD'" json:"currency"`
	Message   string    `json:"message,omitempty"`
	EventID   uuid.UUID `gorm:"type:uuid;not null;index" json:"event_id"`
	Event     *Event    `json:"event,omitempty"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User      *User     `json:"user,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (tip *Tip) BeforeCreate(tx *gorm.DB) (err error) {
	if tip.ID == uuid.Nil {
		tip.ID = uuid.New()
	}
	if tip.Currency == "" {
		tip.Currency = DefaultCurrency
	}
	return
}

func (tip *Tip) Validate() []string {
	var errs []string
	if tip.Amount <= 0 {
		errs = append(errs, "Amount must be greater than 0")
	}
	if tip.Currency == "" {
		errs = append(errs, "Currency can't be blank")
	}
	if tip.EventID == uuid.Nil {
		errs = append(errs, "Event can't be blank")
	}
	if tip.UserID == uuid.Nil {
		errs = append(errs, "User can't be blank")
	}
	return errs
}

// FormattedAmount renders "USD 25.5" style strings, trimming trailing
// zeroes the way the public pages display amounts.
func (tip *Tip) FormattedAmount() string {
	return fmt.Sprintf("%s %s", tip.Currency, strconv.FormatFloat(tip.Amount, 'f', -1, 64))
}
