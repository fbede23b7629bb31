// Package email provides email delivery through Resend.
package email

import (
	"context"

	"github.com/diet-tracker/backend/internal/application/adapter"
	"github.com/diet-tracker/backend/internal/domain/entity"
	domainerror "github.com/diet-tracker/backend/internal/domain/error"
	"github.com/diet-tracker/backend/internal/integration/email/templates"
)

const (
	passwordResetSubject = "Reset your password - Diet Tracker"
	welcomeSubject       = "Welcome to Diet Tracker"
)

// message is a job description before it becomes an entity.EmailJob.
type message struct {
	template entity.EmailTemplateType
	to       string
	name     string
	subject  string
	data     map[string]any
}

func (m message) job() *entity.EmailJob {
	return entity.NewEmailJob(m.template, m.to, m.name, m.subject, m.data)
}

func passwordResetMessage(input adapter.PasswordResetEmailInput) message {
	return message{
		template: entity.TemplatePasswordReset,
		to:       input.UserEmail,
		name:     input.UserName,
		subject:  passwordResetSubject,
		data: map[string]any{
			"user_name":  input.UserName,
			"reset_url":  input.ResetURL,
			"expires_in": input.ExpiresIn,
		},
	}
}

func welcomeMessage(input adapter.WelcomeEmailInput) message {
	return message{
		template: entity.TemplateWelcome,
		to:       input.UserEmail,
		name:     input.UserName,
		subject:  welcomeSubject,
		data: map[string]any{
			"user_name": input.UserName,
			"app_url":   input.AppURL,
		},
	}
}

// QueuedService stores emails in the queue table for the Worker to send.
// Used when the data store is a SQL database.
type QueuedService struct {
	queue adapter.EmailQueueRepository
}

// NewQueuedService creates a new queue backed email service.
func NewQueuedService(queue adapter.EmailQueueRepository) *QueuedService {
	return &QueuedService{queue: queue}
}

// SendPasswordResetEmail queues a password reset email.
func (s *QueuedService) SendPasswordResetEmail(ctx context.Context, input adapter.PasswordResetEmailInput) error {
	return s.enqueue(ctx, passwordResetMessage(input))
}

// SendWelcomeEmail queues the post-registration greeting.
func (s *QueuedService) SendWelcomeEmail(ctx context.Context, input adapter.WelcomeEmailInput) error {
	return s.enqueue(ctx, welcomeMessage(input))
}

func (s *QueuedService) enqueue(ctx context.Context, msg message) error {
	if err := s.queue.Create(ctx, msg.job()); err != nil {
		return domainerror.NewEmailError(
			domainerror.ErrCodeEmailQueueFailed,
			"failed to queue "+string(msg.template)+" email",
			err,
		)
	}
	return nil
}

// DirectService renders and sends emails synchronously.
// Used with the hosted store, where there is no local queue table.
type DirectService struct {
	sender   adapter.EmailSender
	renderer *templates.Renderer
}

// NewDirectService creates a new synchronous email service.
func NewDirectService(sender adapter.EmailSender, renderer *templates.Renderer) *DirectService {
	return &DirectService{
		sender:   sender,
		renderer: renderer,
	}
}

// SendPasswordResetEmail renders and sends a password reset email right away.
func (s *DirectService) SendPasswordResetEmail(ctx context.Context, input adapter.PasswordResetEmailInput) error {
	return s.send(ctx, passwordResetMessage(input))
}

// SendWelcomeEmail renders and sends the greeting right away.
func (s *DirectService) SendWelcomeEmail(ctx context.Context, input adapter.WelcomeEmailInput) error {
	return s.send(ctx, welcomeMessage(input))
}

func (s *DirectService) send(ctx context.Context, msg message) error {
	_, err := deliver(ctx, s.sender, s.renderer, msg.job())
	return err
}

var (
	_ adapter.EmailService = (*QueuedService)(nil)
	_ adapter.EmailService = (*DirectService)(nil)
)
