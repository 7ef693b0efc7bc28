package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/burakc/scholarhub/internal/app/models"
	"github.com/burakc/scholarhub/internal/app/services"
)

// ScholarshipSource lists scholarships whose deadline falls inside a window.
type ScholarshipSource interface {
	GetExpiringBetween(ctx context.Context, from, to time.Time) ([]*models.Scholarship, error)
}

// SaverSource lists the users who bookmarked a scholarship.
type SaverSource interface {
	GetSaverIDs(ctx context.Context, scholarshipID int64) ([]int64, error)
}

// UserSource loads a user to check their notification preferences.
type UserSource interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

// ReminderLedger records which (user, scholarship) pairs were already reminded.
type ReminderLedger interface {
	ReminderExists(ctx context.Context, userID, scholarshipID int64) (bool, error)
	RecordReminder(ctx context.Context, userID, scholarshipID int64) error
}

// DeadlineReminder periodically notifies users about saved scholarships
// whose deadline is approaching. Each (user, scholarship) pair is reminded
// at most once.
type DeadlineReminder struct {
	scholarships  ScholarshipSource
	savers        SaverSource
	users         UserSource
	ledger        ReminderLedger
	notifications services.NotificationService
	interval      time.Duration
	window        time.Duration
	logger        zerolog.Logger
	now           func() time.Time
}

func NewDeadlineReminder(
	scholarships ScholarshipSource,
	savers SaverSource,
	users UserSource,
	ledger ReminderLedger,
	notifications services.NotificationService,
	interval, window time.Duration,
	logger zerolog.Logger,
) *DeadlineReminder {
	return &DeadlineReminder{
		scholarships:  scholarships,
		savers:        savers,
		users:         users,
		ledger:        ledger,
		notifications: notifications,
		interval:      interval,
		window:        window,
		logger:        logger.With().Str("job", "deadline_reminder").Logger(),
		now:           time.Now,
	}
}

// Run blocks until ctx is cancelled, executing one sweep immediately and
// then one per interval. Intended to be launched in its own goroutine.
func (j *DeadlineReminder) Run(ctx context.Context) {
	j.logger.Info().
		Dur("interval", j.interval).
		Dur("window", j.window).
		Msg("Deadline reminder job started")

	j.sweep(ctx)

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			j.logger.Info().Msg("Deadline reminder job stopped")
			return
		case <-ticker.C:
			j.sweep(ctx)
		}
	}
}

// sweep finds scholarships expiring inside the window and reminds every
// opted-in saver that has not been reminded yet.
func (j *DeadlineReminder) sweep(ctx context.Context) {
	now := j.now()
	expiring, err := j.scholarships.GetExpiringBetween(ctx, now, now.Add(j.window))
	if err != nil {
		j.logger.Error().Err(err).Msg("Failed to list expiring scholarships")
		return
	}

	sent := 0
	for _, scholarship := range expiring {
		if scholarship.Status != models.ScholarshipActive {
			continue
		}
		sent += j.remindSavers(ctx, scholarship, now)
	}
	if sent > 0 {
		j.logger.Info().Int("reminders", sent).Msg("Deadline reminders sent")
	}
}

func (j *DeadlineReminder) remindSavers(ctx context.Context, scholarship *models.Scholarship, now time.Time) int {
	saverIDs, err := j.savers.GetSaverIDs(ctx, scholarship.ID)
	if err != nil {
		j.logger.Error().Err(err).Int64("scholarshipId", scholarship.ID).Msg("Failed to list savers")
		return 0
	}

	sent := 0
	for _, userID := range saverIDs {
		ok, err := j.remindUser(ctx, userID, scholarship, now)
		if err != nil {
			j.logger.Warn().Err(err).
				Int64("userId", userID).
				Int64("scholarshipId", scholarship.ID).
				Msg("Failed to send deadline reminder")
			continue
		}
		if ok {
			sent++
		}
	}
	return sent
}

func (j *DeadlineReminder) remindUser(ctx context.Context, userID int64, scholarship *models.Scholarship, now time.Time) (bool, error) {
	already, err := j.ledger.ReminderExists(ctx, userID, scholarship.ID)
	if err != nil || already {
		return false, err
	}

	user, err := j.users.GetByID(ctx, userID)
	if err != nil {
		return false, err
	}
	if user.Blocked || !user.Preferences.DeadlineReminders {
		return false, nil
	}

	daysLeft := int(scholarship.Deadline.Sub(now).Hours() / 24)
	message := fmt.Sprintf("%q closes in %d day(s). Submit your application before %s.",
		scholarship.Title, daysLeft, scholarship.Deadline.Format("Jan 2, 2006"))
	if err := j.notifications.Emit(ctx, userID, models.NotificationDeadlineReminder, "Deadline approaching", message); err != nil {
		return false, err
	}

	// Record after a successful emit so a failed send retries next sweep.
	if err := j.ledger.RecordReminder(ctx, userID, scholarship.ID); err != nil {
		return true, err
	}
	return true, nil
}
