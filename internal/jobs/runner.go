package jobs

import (
	"context"
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/rob-j-au/djtip/internal/models"
	"github.com/rob-j-au/djtip/internal/uploads"
)

// Runner executes queued jobs against the database and the file store.
type Runner struct {
	db    *gorm.DB
	store *uploads.Store
}

func NewRunner(db *gorm.DB, store *uploads.Store) *Runner {
	return &Runner{db: db, store: store}
}

func (r *Runner) Handle(ctx context.Context, job Job) error {
	switch job.Type {
	case TypePromoteImage:
		return r.promoteImage(ctx, job)
	case TypeDestroyFiles:
		return r.store.Remove(job.Paths...)
	case TypeTipNotification:
		return r.notifyTip(ctx, job)
	default:
		return fmt.Errorf("unknown job type %q", job.Type)
	}
}

// promoteImage moves a cached original into permanent storage and writes
// the derivative set. The record may have been deleted, or the job
// re-delivered after a previous run finished; both cases are no-ops.
// Derivative failures are logged and leave the record with the original.
func (r *Runner) promoteImage(ctx context.Context, job Job) error {
	if job.Entity != "user" {
		return fmt.Errorf("unknown promotion entity %q", job.Entity)
	}

	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", job.RecordID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if !user.HasImage() {
		return nil
	}

	stored, err := r.store.Promote(user.ImageOriginal)
	if err != nil {
		return err
	}

	updates := map[string]interface{}{
		"image_original": stored,
		"image_status":   models.ImageStatusStored,
	}
	if set, err := r.store.GenerateDerivatives(stored); err != nil {
		log.Printf("failed to create image derivatives for user %s: %v", user.ID, err)
	} else {
		updates["image_thumb"] = set.Thumb
		updates["image_medium"] = set.Medium
	}

	return r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", user.ID).Updates(updates).Error
}

func (r *Runner) notifyTip(ctx context.Context, job Job) error {
	var tip models.Tip
	if err := r.db.WithContext(ctx).Preload("Event").First(&tip, "id = ?", job.TipID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	title := ""
	if tip.Event != nil {
		title = tip.Event.Title
	}
	// Delivery stub: this is where mail or push would hook in.
	log.Printf("processing tip notification for tip %s: %s for event %q", tip.ID, tip.FormattedAmount(), title)
	return nil
}
