package adapter

import (
	"context"
)

// SendEmailInput represents the input for sending an email.
type SendEmailInput struct {
	To      string
	Name    string
	Subject string
	HTML    string
	Text    string
}

// SendEmailResult represents the result of sending an email.
type SendEmailResult struct {
	ResendID string
}

// EmailSender defines the interface for sending emails via an external provider.
type EmailSender interface {
	// Send sends an email via the email provider (e.g., Resend).
	Send(ctx context.Context, input SendEmailInput) (*SendEmailResult, error)
}

// EmailService delivers transactional emails. Depending on the storage mode
// the mail is either queued for the background worker or sent right away.
type EmailService interface {
	// SendPasswordResetEmail delivers a password reset email.
	SendPasswordResetEmail(ctx context.Context, input PasswordResetEmailInput) error

	// SendWelcomeEmail greets a newly registered user.
	SendWelcomeEmail(ctx context.Context, input WelcomeEmailInput) error
}

// PasswordResetEmailInput represents the input for a password reset email.
type PasswordResetEmailInput struct {
	UserID    string
	UserEmail string
	UserName  string
	ResetURL  string
	ExpiresIn string
}

// WelcomeEmailInput represents the input for the registration welcome email.
type WelcomeEmailInput struct {
	UserEmail string
	UserName  string
	AppURL    string
}
