package goal

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/diet-tracker/backend/internal/domain/entity"
	domainerror "github.com/diet-tracker/backend/internal/domain/error"
	"github.com/diet-tracker/backend/internal/integration/persistence"
	"github.com/diet-tracker/backend/internal/integration/persistence/persistencetest"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestGoalLifecycle(t *testing.T) {
	ctx := context.Background()
	store := persistence.NewDataStore(persistencetest.NewDB(t), nil)
	user, err := store.CreateUser(ctx, entity.NewUser("a@x.com", "Ana", "hash"))
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}

	get := NewGetGoalUseCase(store)
	out, err := get.Execute(ctx, GetGoalInput{UserID: user.ID})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if out.Goal != nil || out.Progress != nil {
		t.Fatalf("expected no goal, got %+v", out)
	}

	save := NewSaveGoalUseCase(store)
	if _, err := save.Execute(ctx, SaveGoalInput{
		UserID:       user.ID,
		StartWeight:  d("80"),
		TargetWeight: d("70"),
		StartDate:    "2024-01-01",
	}); err != nil {
		t.Fatalf("save: %v", err)
	}

	out, err = get.Execute(ctx, GetGoalInput{UserID: user.ID})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if out.Goal == nil || !out.Goal.TargetWeight.Equal(d("70")) {
		t.Fatalf("unexpected goal %+v", out.Goal)
	}
	if out.Progress != nil {
		t.Error("expected no progress without weights")
	}

	for date, w := range map[string]string{"2024-01-05": "78", "2024-01-10": "76"} {
		if _, err := store.SaveEntry(ctx, entity.EntryInput{
			UserID: user.ID,
			Date:   date,
			Weight: decimal.NewNullDecimal(d(w)),
		}); err != nil {
			t.Fatalf("SaveEntry: %v", err)
		}
	}

	out, err = get.Execute(ctx, GetGoalInput{UserID: user.ID})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if out.Progress == nil {
		t.Fatal("expected progress")
	}
	if !out.Progress.CurrentWeight.Equal(d("76")) || !out.Progress.Change.Equal(d("4")) {
		t.Errorf("unexpected progress %+v", out.Progress)
	}
	if !out.Progress.Percent.Equal(d("40")) || !out.Progress.Remaining.Equal(d("6")) {
		t.Errorf("unexpected progress %+v", out.Progress)
	}

	// Saving again overwrites.
	if _, err := save.Execute(ctx, SaveGoalInput{UserID: user.ID, StartWeight: d("76"), TargetWeight: d("72"), StartDate: "2024-02-01"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	out, _ = get.Execute(ctx, GetGoalInput{UserID: user.ID})
	if out.Goal.StartDate != "2024-02-01" || !out.Goal.StartWeight.Equal(d("76")) {
		t.Errorf("expected overwritten goal, got %+v", out.Goal)
	}
}

func TestSaveGoal_Validation(t *testing.T) {
	store := persistence.NewDataStore(persistencetest.NewDB(t), nil)
	save := NewSaveGoalUseCase(store)

	tests := []struct {
		name  string
		input SaveGoalInput
		want  domainerror.GoalErrorCode
	}{
		{"zero start", SaveGoalInput{StartWeight: d("0"), TargetWeight: d("70"), StartDate: "2024-01-01"}, domainerror.ErrCodeInvalidGoalWeight},
		{"negative target", SaveGoalInput{StartWeight: d("80"), TargetWeight: d("-1"), StartDate: "2024-01-01"}, domainerror.ErrCodeInvalidGoalWeight},
		{"missing date", SaveGoalInput{StartWeight: d("80"), TargetWeight: d("70")}, domainerror.ErrCodeMissingGoalFields},
		{"bad date", SaveGoalInput{StartWeight: d("80"), TargetWeight: d("70"), StartDate: "Jan 1"}, domainerror.ErrCodeInvalidGoalDate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := save.Execute(context.Background(), tt.input)
			var goalErr *domainerror.GoalError
			if !errors.As(err, &goalErr) || goalErr.Code != tt.want {
				t.Errorf("err = %v, want code %q", err, tt.want)
			}
		})
	}
}
