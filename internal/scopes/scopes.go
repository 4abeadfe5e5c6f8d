// Package scopes composes the search and filter predicates used by the
// admin listing screens. Every function returns a gorm scope so handlers
// can chain them and apply ordering last.
package scopes

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rob-j-au/djtip/internal/models"
)

// Search narrows a collection by a case-insensitive substring match OR-ed
// across the given text fields. A blank query is a no-op.
func Search(query string, fields ...string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		query = strings.TrimSpace(query)
		if query == "" || len(fields) == 0 {
			return db
		}
		pattern := "%" + strings.ToLower(query) + "%"
		conditions := make([]string, 0, len(fields))
		args := make([]interface{}, 0, len(fields))
		for _, field := range fields {
			conditions = append(conditions, fmt.Sprintf("LOWER(%s) LIKE ?", field))
			args = append(args, pattern)
		}
		return db.Where(strings.Join(conditions, " OR "), args...)
	}
}

// EventDateFilter maps the admin date filter values onto date predicates.
// Unknown values leave the collection untouched.
func EventDateFilter(kind string, now time.Time) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		switch kind {
		case "upcoming":
			return db.Where("date >= ?", now)
		case "past":
			return db.Where("date < ?", now)
		case "this_month":
			start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
			end := start.AddDate(0, 1, 0)
			return db.Where("date >= ? AND date < ?", start, end)
		default:
			return db
		}
	}
}

func AmountAtLeast(min float64) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("amount >= ?", min)
	}
}

func AmountAtMost(max float64) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("amount <= ?", max)
	}
}

func CreatedFrom(from time.Time) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("created_at >= ?", from)
	}
}

func CreatedTo(to time.Time) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("created_at < ?", to.AddDate(0, 0, 1))
	}
}

func ByEvent(eventID uuid.UUID) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("event_id = ?", eventID)
	}
}

func ByUser(userID uuid.UUID) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id = ?", userID)
	}
}

// AdminFilter handles the users listing "admins"/"regular" toggle.
func AdminFilter(kind string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		switch kind {
		case "admins":
			return db.Where("admin = ?", true)
		case "regular":
			return db.Where("admin = ?", false)
		default:
			return db
		}
	}
}

// TipSearch matches a tip when the text appears in its own message, in the
// tipping user's name, or in the tipped event's title. Matching ids are
// resolved in the related collections first and unioned with the direct
// message match.
func TipSearch(db *gorm.DB, query string) func(*gorm.DB) *gorm.DB {
	return func(scoped *gorm.DB) *gorm.DB {
		query = strings.TrimSpace(query)
		if query == "" {
			return scoped
		}
		pattern := "%" + strings.ToLower(query) + "%"

		var userIDs []uuid.UUID
		db.Model(&models.User{}).Where("LOWER(name) LIKE ?", pattern).Pluck("id", &userIDs)

		var eventIDs []uuid.UUID
		db.Model(&models.Event{}).Where("LOWER(title) LIKE ?", pattern).Pluck("id", &eventIDs)

		clause := "LOWER(message) LIKE ?"
		args := []interface{}{pattern}
		if len(userIDs) > 0 {
			clause += " OR user_id IN ?"
			args = append(args, userIDs)
		}
		if len(eventIDs) > 0 {
			clause += " OR event_id IN ?"
			args = append(args, eventIDs)
		}
		return scoped.Where(clause, args...)
	}
}
