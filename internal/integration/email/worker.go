package email

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/diet-tracker/backend/internal/application/adapter"
	"github.com/diet-tracker/backend/internal/domain/entity"
	domainerror "github.com/diet-tracker/backend/internal/domain/error"
	"github.com/diet-tracker/backend/internal/integration/email/templates"
)

// WorkerConfig holds configuration for the email worker.
type WorkerConfig struct {
	PollInterval time.Duration
	BatchSize    int
	// RetentionDays is how long sent jobs are kept. Zero disables cleanup.
	RetentionDays int
}

// DefaultWorkerConfig returns the default worker configuration.
func DefaultWorkerConfig() WorkerConfig {
	return WorkerConfig{
		PollInterval:  5 * time.Second,
		BatchSize:     10,
		RetentionDays: 30,
	}
}

// Worker drains the email_queue table: it claims due jobs, sends them and
// records the outcome so failed jobs are retried with backoff.
type Worker struct {
	queue           adapter.EmailQueueRepository
	sender          adapter.EmailSender
	renderer        *templates.Renderer
	cfg             WorkerConfig
	cleanupInterval time.Duration
}

// NewWorker creates a new email worker.
func NewWorker(queue adapter.EmailQueueRepository, sender adapter.EmailSender, renderer *templates.Renderer, cfg WorkerConfig) *Worker {
	return &Worker{
		queue:           queue,
		sender:          sender,
		renderer:        renderer,
		cfg:             cfg,
		cleanupInterval: 24 * time.Hour,
	}
}

// Start runs the poll loop until ctx is cancelled.
func (w *Worker) Start(ctx context.Context) {
	slog.Info("Email worker started",
		"poll_interval", w.cfg.PollInterval,
		"batch_size", w.cfg.BatchSize,
	)

	poll := time.NewTicker(w.cfg.PollInterval)
	defer poll.Stop()
	cleanup := time.NewTicker(w.cleanupInterval)
	defer cleanup.Stop()

	w.drain(ctx)
	for {
		select {
		case <-ctx.Done():
			slog.Info("Email worker shutting down")
			return
		case <-poll.C:
			w.drain(ctx)
		case <-cleanup.C:
			w.purgeSent(ctx)
		}
	}
}

// ProcessNow drains one batch synchronously.
func (w *Worker) ProcessNow(ctx context.Context) {
	w.drain(ctx)
}

func (w *Worker) purgeSent(ctx context.Context) {
	if w.cfg.RetentionDays <= 0 {
		return
	}
	removed, err := w.queue.DeleteOldSentJobs(ctx, w.cfg.RetentionDays)
	if err != nil {
		slog.Error("Failed to clean up sent email jobs", "error", err)
		return
	}
	if removed > 0 {
		slog.Info("Cleaned up sent email jobs", "count", removed)
	}
}

func (w *Worker) drain(ctx context.Context) {
	jobs, err := w.queue.GetPendingJobs(ctx, w.cfg.BatchSize)
	if err != nil {
		slog.Error("Failed to get pending email jobs", "error", err)
		return
	}
	if len(jobs) > 0 {
		slog.Debug("Processing email batch", "count", len(jobs))
	}

	for _, job := range jobs {
		if ctx.Err() != nil {
			return
		}
		w.handle(ctx, job)
	}
}

func (w *Worker) handle(ctx context.Context, job *entity.EmailJob) {
	logger := slog.With("job_id", job.ID, "template", job.TemplateType)

	job.MarkProcessing()
	if err := w.queue.Update(ctx, job); err != nil {
		logger.Error("Failed to claim email job", "error", err)
		return
	}

	resendID, err := deliver(ctx, w.sender, w.renderer, job)
	if err != nil {
		logger.Error("Failed to send email", "error", err)
		job.MarkFailed(err, isPermanent(err))
	} else {
		job.MarkSent(resendID)
	}

	w.settle(ctx, logger, job)
}

// settle persists the job after an attempt and logs where it ended up.
func (w *Worker) settle(ctx context.Context, logger *slog.Logger, job *entity.EmailJob) {
	if err := w.queue.Update(ctx, job); err != nil {
		logger.Error("Failed to record email job outcome", "status", job.Status, "error", err)
		return
	}

	switch job.Status {
	case entity.EmailStatusSent:
		logger.Info("Email sent", "resend_id", job.ResendID)
	case entity.EmailStatusFailed:
		logger.Warn("Email job gave up", "attempts", job.Attempts, "last_error", job.LastError)
	default:
		logger.Info("Email job scheduled for retry", "attempts", job.Attempts, "scheduled_at", job.ScheduledAt)
	}
}

// deliver renders job and hands it to sender. Render failures are permanent.
func deliver(ctx context.Context, sender adapter.EmailSender, renderer *templates.Renderer, job *entity.EmailJob) (string, error) {
	html, text, err := renderJob(renderer, job)
	if err != nil {
		return "", domainerror.NewEmailError(domainerror.ErrCodeTemplateRenderFailed, "failed to render "+string(job.TemplateType)+" email", err)
	}

	result, err := sender.Send(ctx, adapter.SendEmailInput{
		To:      job.RecipientEmail,
		Name:    job.RecipientName,
		Subject: job.Subject,
		HTML:    html,
		Text:    text,
	})
	if err != nil {
		return "", err
	}
	return result.ResendID, nil
}

func isPermanent(err error) bool {
	var emailErr *domainerror.EmailError
	if !errors.As(err, &emailErr) {
		return false
	}
	switch emailErr.Code {
	case domainerror.ErrCodePermanentEmailFailure, domainerror.ErrCodeTemplateRenderFailed, domainerror.ErrCodeInvalidTemplate:
		return true
	}
	return false
}

func renderJob(renderer *templates.Renderer, job *entity.EmailJob) (string, string, error) {
	field := func(key string) string {
		s, _ := job.TemplateData[key].(string)
		return s
	}

	var data any
	switch job.TemplateType {
	case entity.TemplatePasswordReset:
		data = templates.PasswordResetData{
			UserName:  field("user_name"),
			ResetURL:  field("reset_url"),
			ExpiresIn: field("expires_in"),
		}
	case entity.TemplateWelcome:
		data = templates.WelcomeData{
			UserName: field("user_name"),
			AppURL:   field("app_url"),
		}
	default:
		return "", "", domainerror.NewEmailError(
			domainerror.ErrCodeInvalidTemplate,
			"unknown template type",
			domainerror.ErrInvalidTemplate,
		)
	}
	return renderer.Render(string(job.TemplateType), data)
}
