package entity

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Goal is the weight goal of a user. There is at most one per user.
type Goal struct {
	UserID       uuid.UUID
	StartWeight  decimal.Decimal
	TargetWeight decimal.Decimal
	StartDate    string
}

// GoalProgress summarizes how far a user is toward the target weight.
type GoalProgress struct {
	CurrentWeight decimal.Decimal
	Change        decimal.Decimal // positive when moving toward the target
	Remaining     decimal.Decimal
	Percent       decimal.Decimal // clamped to [0, 100]
}

// Progress computes the progress toward the goal given the latest recorded weight.
// Works for both loss and gain goals.
func (g *Goal) Progress(current decimal.Decimal) GoalProgress {
	total := g.TargetWeight.Sub(g.StartWeight)
	moved := current.Sub(g.StartWeight)

	p := GoalProgress{
		CurrentWeight: current,
		Remaining:     g.TargetWeight.Sub(current).Abs(),
		Percent:       decimal.Zero,
	}

	if total.IsZero() {
		p.Percent = decimal.NewFromInt(100)
		return p
	}

	// Same sign as total means progress toward the target.
	if total.IsNegative() {
		p.Change = moved.Neg()
	} else {
		p.Change = moved
	}

	pct := moved.Div(total).Mul(decimal.NewFromInt(100))
	if pct.IsNegative() {
		pct = decimal.Zero
	}
	if pct.GreaterThan(decimal.NewFromInt(100)) {
		pct = decimal.NewFromInt(100)
	}
	p.Percent = pct.Round(1)
	return p
}
