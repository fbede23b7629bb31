// Package migration copies users and their history between two data stores.
package migration

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/diet-tracker/backend/internal/application/adapter"
	"github.com/diet-tracker/backend/internal/domain/entity"
	domainerror "github.com/diet-tracker/backend/internal/domain/error"
)

const defaultMaxRetries = 5

// Options tunes a copy run.
type Options struct {
	// DryRun only reads. The summary reports what a real run would write.
	DryRun bool
	// MaxRetries bounds retries of a single call that failed with ErrBackendUnavailable.
	MaxRetries uint64
	// NewBackOff builds the wait policy between retries. Defaults to exponential.
	NewBackOff func() backoff.BackOff
}

// Summary counts what was (or would be) written to the destination.
type Summary struct {
	Users         int
	ReplacedUsers int
	Entries       int
	Goals         int
}

// Copier replays every user of the source onto the destination.
// The source is authoritative: identifiers are preserved and entries and goals are
// written through the regular upserts, so a run can be repeated safely.
type Copier struct {
	source      adapter.DataStore
	destination adapter.DataStore
	opts        Options
}

// NewCopier creates a new Copier.
func NewCopier(source, destination adapter.DataStore, opts Options) *Copier {
	if opts.MaxRetries == 0 {
		opts.MaxRetries = defaultMaxRetries
	}
	if opts.NewBackOff == nil {
		opts.NewBackOff = func() backoff.BackOff {
			exp := backoff.NewExponentialBackOff()
			exp.InitialInterval = 200 * time.Millisecond
			exp.MaxInterval = 5 * time.Second
			return exp
		}
	}
	return &Copier{source: source, destination: destination, opts: opts}
}

// Run copies all users. It stops at the first error that survives retries.
func (c *Copier) Run(ctx context.Context) (*Summary, error) {
	users, err := retryValue(ctx, c, func() ([]*entity.User, error) {
		return c.source.ListUsers(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list source users: %w", err)
	}

	summary := &Summary{}
	for _, user := range users {
		if err := c.copyUser(ctx, user, summary); err != nil {
			return summary, fmt.Errorf("failed to copy user %s: %w", user.Email, err)
		}
		slog.Info("User copied", "user_id", user.ID, "email", user.Email, "dry_run", c.opts.DryRun)
	}
	return summary, nil
}

func (c *Copier) copyUser(ctx context.Context, user *entity.User, summary *Summary) error {
	exists, err := c.prepareUser(ctx, user, summary)
	if err != nil {
		return err
	}
	summary.Users++

	if !c.opts.DryRun {
		if exists {
			err = c.retry(ctx, func() error {
				_, err := c.destination.UpdateUser(ctx, user.ID, profileOf(user))
				return err
			})
		} else {
			err = c.retry(ctx, func() error {
				_, err := c.destination.CreateUser(ctx, user)
				return err
			})
		}
		if err != nil {
			return fmt.Errorf("failed to write user: %w", err)
		}
	}

	entries, err := retryValue(ctx, c, func() ([]*entity.DailyEntry, error) {
		return c.source.GetEntries(ctx, user.ID)
	})
	if err != nil {
		return fmt.Errorf("failed to read entries: %w", err)
	}
	for _, e := range entries {
		if !c.opts.DryRun {
			input := entity.EntryInput{
				UserID: user.ID,
				Date:   e.Date,
				Weight: e.Weight,
				Notes:  e.Notes,
				Meals:  e.Meals,
				Habits: e.Habits,
			}
			if err := c.retry(ctx, func() error {
				_, err := c.destination.SaveEntry(ctx, input)
				return err
			}); err != nil {
				return fmt.Errorf("failed to write entry %s: %w", e.Date, err)
			}
		}
		summary.Entries++
	}

	goal, err := retryValue(ctx, c, func() (*entity.Goal, error) {
		return c.source.GetGoal(ctx, user.ID)
	})
	if err != nil {
		return fmt.Errorf("failed to read goal: %w", err)
	}
	if goal != nil {
		if !c.opts.DryRun {
			if err := c.retry(ctx, func() error {
				return c.destination.SaveGoal(ctx, goal)
			}); err != nil {
				return fmt.Errorf("failed to write goal: %w", err)
			}
		}
		summary.Goals++
	}

	return nil
}

// prepareUser clears destination users that collide with user on email or id
// and reports whether user itself already exists there.
func (c *Copier) prepareUser(ctx context.Context, user *entity.User, summary *Summary) (bool, error) {
	byEmail, err := retryValue(ctx, c, func() (*entity.User, error) {
		return c.destination.GetUserByEmail(ctx, user.Email)
	})
	if err != nil {
		return false, fmt.Errorf("failed to look up destination email: %w", err)
	}
	if byEmail != nil && byEmail.ID != user.ID {
		if err := c.replace(ctx, byEmail, summary); err != nil {
			return false, err
		}
	}

	byID, err := retryValue(ctx, c, func() (*entity.User, error) {
		return c.destination.GetUserByID(ctx, user.ID)
	})
	if err != nil {
		return false, fmt.Errorf("failed to look up destination id: %w", err)
	}
	if byID != nil && byID.Email != entity.NormalizeEmail(user.Email) {
		if err := c.replace(ctx, byID, summary); err != nil {
			return false, err
		}
		return false, nil
	}
	return byID != nil, nil
}

func (c *Copier) replace(ctx context.Context, stale *entity.User, summary *Summary) error {
	summary.ReplacedUsers++
	slog.Info("Replacing conflicting destination user",
		"user_id", stale.ID, "email", stale.Email, "dry_run", c.opts.DryRun)
	if c.opts.DryRun {
		return nil
	}
	if err := c.retry(ctx, func() error {
		return c.destination.DeleteUser(ctx, stale.ID)
	}); err != nil {
		return fmt.Errorf("failed to delete conflicting user %s: %w", stale.ID, err)
	}
	return nil
}

func profileOf(user *entity.User) entity.UserUpdate {
	return entity.UserUpdate{
		Name:         &user.Name,
		PasswordHash: &user.PasswordHash,
		Phone:        user.Phone,
		HeightCm:     user.HeightCm,
		DateOfBirth:  user.DateOfBirth,
		Gender:       user.Gender,
		AvatarID:     user.AvatarID,
	}
}

func (c *Copier) policy(ctx context.Context) backoff.BackOff {
	return backoff.WithContext(backoff.WithMaxRetries(c.opts.NewBackOff(), c.opts.MaxRetries), ctx)
}

// retry runs op again only while the store reports it is unreachable.
func (c *Copier) retry(ctx context.Context, op func() error) error {
	return backoff.Retry(func() error {
		return retryable(op())
	}, c.policy(ctx))
}

func retryValue[T any](ctx context.Context, c *Copier, op func() (T, error)) (T, error) {
	return backoff.RetryWithData(func() (T, error) {
		v, err := op()
		return v, retryable(err)
	}, c.policy(ctx))
}

func retryable(err error) error {
	if err == nil || domainerror.IsBackendUnavailable(err) {
		return err
	}
	return backoff.Permanent(err)
}
