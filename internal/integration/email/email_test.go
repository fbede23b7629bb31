package email

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/diet-tracker/backend/internal/application/adapter"
	"github.com/diet-tracker/backend/internal/domain/entity"
	"github.com/diet-tracker/backend/internal/integration/email/templates"
	"github.com/diet-tracker/backend/internal/integration/persistence"
	"github.com/diet-tracker/backend/internal/integration/persistence/persistencetest"
)

func newTestQueue(t *testing.T) adapter.EmailQueueRepository {
	t.Helper()
	return persistence.NewEmailQueueRepository(persistencetest.NewDB(t))
}

func newTestRenderer(t *testing.T) *templates.Renderer {
	t.Helper()
	r, err := templates.NewRenderer()
	if err != nil {
		t.Fatalf("failed to create renderer: %v", err)
	}
	return r
}

func resetInput() adapter.PasswordResetEmailInput {
	return adapter.PasswordResetEmailInput{
		UserEmail: "a@x.com",
		UserName:  "Ana",
		ResetURL:  "http://localhost:5173/reset-password?token=abc",
		ExpiresIn: "1 hour",
	}
}

func TestQueuedService_WorkerSendsQueuedEmail(t *testing.T) {
	ctx := context.Background()
	queue := newTestQueue(t)
	sender := NewMockEmailSender()

	service := NewQueuedService(queue)
	if err := service.SendPasswordResetEmail(ctx, resetInput()); err != nil {
		t.Fatalf("SendPasswordResetEmail() error = %v", err)
	}

	worker := NewWorker(queue, sender, newTestRenderer(t), DefaultWorkerConfig())
	worker.ProcessNow(ctx)

	sent := sender.Sent()
	if len(sent) != 1 {
		t.Fatalf("expected 1 email sent, got %d", len(sent))
	}
	if sent[0].To != "a@x.com" || sent[0].Subject != passwordResetSubject {
		t.Errorf("unexpected email: %+v", sent[0])
	}
	if !strings.Contains(sent[0].HTML, "reset-password?token=abc") {
		t.Errorf("expected reset url in HTML body")
	}
	if !strings.Contains(sent[0].Text, "Hi Ana") {
		t.Errorf("expected greeting in text body, got %q", sent[0].Text)
	}

	jobs, err := queue.GetByRecipient(ctx, "a@x.com")
	if err != nil {
		t.Fatalf("GetByRecipient() error = %v", err)
	}
	if len(jobs) != 1 || jobs[0].Status != entity.EmailStatusSent {
		t.Errorf("expected one sent job, got %+v", jobs)
	}
}

func TestWorker_PermanentFailureStopsRetries(t *testing.T) {
	ctx := context.Background()
	queue := newTestQueue(t)
	sender := NewMockEmailSender()
	sender.SetFailure(errors.New("422 validation error"), true)

	if err := NewQueuedService(queue).SendPasswordResetEmail(ctx, resetInput()); err != nil {
		t.Fatalf("SendPasswordResetEmail() error = %v", err)
	}

	NewWorker(queue, sender, newTestRenderer(t), DefaultWorkerConfig()).ProcessNow(ctx)

	jobs, err := queue.GetByRecipient(ctx, "a@x.com")
	if err != nil {
		t.Fatalf("GetByRecipient() error = %v", err)
	}
	if len(jobs) != 1 {
		t.Fatalf("expected 1 job, got %d", len(jobs))
	}
	if jobs[0].Status != entity.EmailStatusFailed {
		t.Errorf("expected failed status, got %s", jobs[0].Status)
	}
	if jobs[0].Attempts != 1 {
		t.Errorf("expected 1 attempt, got %d", jobs[0].Attempts)
	}
}

func TestWorker_TemporaryFailureIsRescheduled(t *testing.T) {
	ctx := context.Background()
	queue := newTestQueue(t)
	sender := NewMockEmailSender()
	sender.SetFailure(errors.New("503 service unavailable"), false)

	if err := NewQueuedService(queue).SendPasswordResetEmail(ctx, resetInput()); err != nil {
		t.Fatalf("SendPasswordResetEmail() error = %v", err)
	}

	NewWorker(queue, sender, newTestRenderer(t), DefaultWorkerConfig()).ProcessNow(ctx)

	jobs, _ := queue.GetByRecipient(ctx, "a@x.com")
	if len(jobs) != 1 || jobs[0].Status != entity.EmailStatusPending {
		t.Fatalf("expected job back to pending, got %+v", jobs)
	}
	if jobs[0].LastError == "" {
		t.Error("expected last error to be recorded")
	}
}

func TestDirectService_SendsImmediately(t *testing.T) {
	sender := NewMockEmailSender()
	service := NewDirectService(sender, newTestRenderer(t))

	if err := service.SendPasswordResetEmail(context.Background(), resetInput()); err != nil {
		t.Fatalf("SendPasswordResetEmail() error = %v", err)
	}

	sent := sender.Sent()
	if len(sent) != 1 {
		t.Fatalf("expected 1 email sent, got %d", len(sent))
	}
	if !strings.Contains(sent[0].HTML, "1 hour") {
		t.Error("expected expiry in HTML body")
	}
}

func TestDirectService_PropagatesSendError(t *testing.T) {
	sender := NewMockEmailSender()
	sender.SetFailure(errors.New("boom"), false)

	err := NewDirectService(sender, newTestRenderer(t)).SendPasswordResetEmail(context.Background(), resetInput())
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestRenderJob_UnknownTemplate(t *testing.T) {
	job := entity.NewEmailJob("newsletter", "a@x.com", "Ana", "Hi", nil)
	if _, _, err := renderJob(newTestRenderer(t), job); err == nil {
		t.Fatal("expected error for unknown template")
	}
}

func TestQueuedService_WelcomeEmail(t *testing.T) {
	ctx := context.Background()
	queue := newTestQueue(t)
	sender := NewMockEmailSender()

	err := NewQueuedService(queue).SendWelcomeEmail(ctx, adapter.WelcomeEmailInput{
		UserEmail: "new@x.com",
		UserName:  "Bea",
		AppURL:    "http://localhost:5173",
	})
	if err != nil {
		t.Fatalf("SendWelcomeEmail() error = %v", err)
	}

	NewWorker(queue, sender, newTestRenderer(t), DefaultWorkerConfig()).ProcessNow(ctx)

	sent := sender.Sent()
	if len(sent) != 1 {
		t.Fatalf("expected 1 email sent, got %d", len(sent))
	}
	if sent[0].Subject != welcomeSubject {
		t.Errorf("subject = %q", sent[0].Subject)
	}
	if !strings.Contains(sent[0].HTML, "Welcome, Bea!") || !strings.Contains(sent[0].HTML, "http://localhost:5173") {
		t.Errorf("unexpected HTML body: %s", sent[0].HTML)
	}
	if !strings.Contains(sent[0].Text, "weight") {
		t.Errorf("unexpected text body: %s", sent[0].Text)
	}
}

func TestDirectService_WelcomeEmailWithoutName(t *testing.T) {
	sender := NewMockEmailSender()
	err := NewDirectService(sender, newTestRenderer(t)).SendWelcomeEmail(context.Background(), adapter.WelcomeEmailInput{
		UserEmail: "anon@x.com",
	})
	if err != nil {
		t.Fatalf("SendWelcomeEmail() error = %v", err)
	}
	if sent := sender.Sent(); len(sent) != 1 || !strings.Contains(sent[0].Text, "Welcome, friend!") {
		t.Errorf("unexpected emails: %+v", sent)
	}
}

func TestWorker_UnknownTemplateFailsPermanently(t *testing.T) {
	ctx := context.Background()
	queue := newTestQueue(t)
	job := entity.NewEmailJob("newsletter", "a@x.com", "Ana", "Hi", nil)
	if err := queue.Create(ctx, job); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	NewWorker(queue, NewMockEmailSender(), newTestRenderer(t), DefaultWorkerConfig()).ProcessNow(ctx)

	jobs, _ := queue.GetByRecipient(ctx, "a@x.com")
	if len(jobs) != 1 || jobs[0].Status != entity.EmailStatusFailed {
		t.Fatalf("expected failed job, got %+v", jobs)
	}
}
