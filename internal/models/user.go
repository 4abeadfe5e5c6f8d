package models

import (
	"regexp"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Image attachment lifecycle. A freshly uploaded original sits in the cache
// area until a promotion job moves it to the store and writes derivatives.
const (
	ImageStatusPending = "pending"
	ImageStatusStored  = "stored"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name         string    `gorm:"not null" json:"name"`
	Email        string    `gorm:"unique;not null" json:"email"`
	Phone        string    `json:"phone,omitempty"`
	Admin        bool      `gorm:"not null;default:false" json:"admin"`
	PasswordHash string    `json:"-"`
	Events       []Event   `gorm:"many2many:event_users;" json:"events,omitempty"`
	Tips         []Tip     `json:"tips,omitempty"`

	ImageOriginal string `json:"-"`
	ImageThumb    string `json:"-"`
	ImageMedium   string `json:"-"`
	ImageStatus   string `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (user *User) BeforeCreate(tx *gorm.DB) (err error) {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	return
}

// Validate checks presence and shape rules. Email uniqueness needs the
// collection, so it is checked separately with ValidateUnique.
func (user *User) Validate() []string {
	var errs []string
	if user.Name == "" {
		errs = append(errs, "Name can't be blank")
	}
	if user.Email == "" {
		errs = append(errs, "Email can't be blank")
	} else if !emailPattern.MatchString(user.Email) {
		errs = append(errs, "Email is invalid")
	}
	return errs
}

// ValidateUnique reports a conflict when another user already owns the email.
func (user *User) ValidateUnique(db *gorm.DB) []string {
	if user.Email == "" {
		return nil
	}
	var count int64
	db.Model(&User{}).Where("email = ? AND id <> ?", user.Email, user.ID).Count(&count)
	if count > 0 {
		return []string{"Email has already been taken"}
	}
	return nil
}

// HasImage reports whether any attachment is present.
func (user *User) HasImage() bool {
	return user.ImageOriginal != ""
}
