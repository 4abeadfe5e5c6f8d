// Package serializers maps persisted entities into the JSON shapes the API
// exposes. Every endpoint, list or single, uses the same per-item shape.
package serializers

import (
	"time"

	"github.com/google/uuid"

	"github.com/rob-j-au/djtip/internal/models"
)

type EventJSON struct {
	ID          uuid.UUID       `json:"id"`
	Title       string          `json:"title"`
	Date        time.Time       `json:"date"`
	Location    string          `json:"location"`
	Description string          `json:"description"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	Users       []UserJSON      `json:"users,omitempty"`
	Performers  []PerformerJSON `json:"performers,omitempty"`
	Tips        []TipJSON       `json:"tips,omitempty"`
}

type UserJSON struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Admin     bool      `json:"admin"`
	ImageURLs *ImageSet `json:"image_urls,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Tips      []TipJSON `json:"tips,omitempty"`
}

// ImageSet carries the derivative URLs for an attached image. Thumb and
// medium stay empty until the promotion job has run.
type ImageSet struct {
	Original string `json:"original"`
	Thumb    string `json:"thumb,omitempty"`
	Medium   string `json:"medium,omitempty"`
}

type PerformerJSON struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Bio       string     `json:"bio"`
	Genre     string     `json:"genre"`
	Contact   string     `json:"contact"`
	EventID   *uuid.UUID `json:"event_id,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	Event     *EventJSON `json:"event,omitempty"`
}

type TipJSON struct {
	ID              uuid.UUID  `json:"id"`
	Amount          float64    `json:"amount"`
	Currency        string     `json:"currency"`
	Message         string     `json:"message"`
	FormattedAmount string     `json:"formatted_amount"`
	EventID         uuid.UUID  `json:"event_id"`
	UserID          uuid.UUID  `json:"user_id"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	Event           *EventJSON `json:"event,omitempty"`
	User            *UserJSON  `json:"user,omitempty"`
}

// ImageURLResolver turns stored attachment paths into servable URLs. The
// uploads package provides the signing implementation.
type ImageURLResolver func(path string) string

// NewEvent serializes an event with whatever related collections were
// preloaded on it.
func NewEvent(event *models.Event) EventJSON {
	out := EventJSON{
		ID:          event.ID,
		Title:       event.Title,
		Date:        event.Date,
		Location:    event.Location,
		Description: event.Description,
		CreatedAt:   event.CreatedAt,
		UpdatedAt:   event.UpdatedAt,
	}
	for i := range event.Users {
		out.Users = append(out.Users, NewUser(&event.Users[i], nil))
	}
	for i := range event.Performers {
		out.Performers = append(out.Performers, NewPerformer(&event.Performers[i], false))
	}
	for i := range event.Tips {
		out.Tips = append(out.Tips, NewTip(&event.Tips[i], false))
	}
	return out
}

func NewEvents(events []models.Event) []EventJSON {
	out := make([]EventJSON, 0, len(events))
	for i := range events {
		out = append(out, NewEvent(&events[i]))
	}
	return out
}

func NewUser(user *models.User, resolve ImageURLResolver) UserJSON {
	out := UserJSON{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Admin:     user.Admin,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
	if user.HasImage() && resolve != nil {
		set := &ImageSet{Original: resolve(user.ImageOriginal)}
		if user.ImageThumb != "" {
			set.Thumb = resolve(user.ImageThumb)
		}
		if user.ImageMedium != "" {
			set.Medium = resolve(user.ImageMedium)
		}
		out.ImageURLs = set
	}
	for i := range user.Tips {
		out.Tips = append(out.Tips, NewTip(&user.Tips[i], false))
	}
	return out
}

func NewUsers(users []models.User, resolve ImageURLResolver) []UserJSON {
	out := make([]UserJSON, 0, len(users))
	for i := range users {
		out = append(out, NewUser(&users[i], resolve))
	}
	return out
}

func NewPerformer(performer *models.Performer, includeEvent bool) PerformerJSON {
	out := PerformerJSON{
		ID:        performer.ID,
		Name:      performer.Name,
		Bio:       performer.Bio,
		Genre:     performer.Genre,
		Contact:   performer.Contact,
		EventID:   performer.EventID,
		CreatedAt: performer.CreatedAt,
		UpdatedAt: performer.UpdatedAt,
	}
	if includeEvent && performer.Event != nil {
		event := NewEvent(performer.Event)
		out.Event = &event
	}
	return out
}

func NewPerformers(performers []models.Performer, includeEvent bool) []PerformerJSON {
	out := make([]PerformerJSON, 0, len(performers))
	for i := range performers {
		out = append(out, NewPerformer(&performers[i], includeEvent))
	}
	return out
}

// NewTip serializes a tip. FormattedAmount is derived here, never stored.
func NewTip(tip *models.Tip, includeRelated bool) TipJSON {
	out := TipJSON{
		ID:              tip.ID,
		Amount:          tip.Amount,
		Currency:        tip.Currency,
		Message:         tip.Message,
		FormattedAmount: tip.FormattedAmount(),
		EventID:         tip.EventID,
		UserID:          tip.UserID,
		CreatedAt:       tip.CreatedAt,
		UpdatedAt:       tip.UpdatedAt,
	}
	if includeRelated {
		if tip.Event != nil {
			event := NewEvent(tip.Event)
			out.Event = &event
		}
		if tip.User != nil {
			user := NewUser(tip.User, nil)
			out.User = &user
		}
	}
	return out
}

func NewTips(tips []models.Tip, includeRelated bool) []TipJSON {
	out := make([]TipJSON, 0, len(tips))
	for i := range tips {
		out = append(out, NewTip(&tips[i], includeRelated))
	}
	return out
}
