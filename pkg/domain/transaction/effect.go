package transaction

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Delta is a signed change to one account's balance.
type Delta struct {
	AccountID uuid.UUID
	Amount    decimal.Decimal
}

// Effect is the balance change a transaction causes. Target is nil unless
// the transaction is a transfer.
type Effect struct {
	Source Delta
	Target *Delta
}

// EffectOf computes the effect of a transaction of the given type and amount.
// Expenses debit the source, incomes credit it, transfers debit the source and
// credit the target by the same amount.
func EffectOf(t Type, amount decimal.Decimal, source uuid.UUID, target *uuid.UUID) (Effect, error) {
	if !amount.IsPositive() {
		return Effect{}, ErrAmountMustBePositive
	}
	switch t {
	case Expense:
		return Effect{Source: Delta{AccountID: source, Amount: amount.Neg()}}, nil
	case Income:
		return Effect{Source: Delta{AccountID: source, Amount: amount}}, nil
	case Transfer:
		if target == nil || *target == uuid.Nil {
			return Effect{}, ErrTargetRequired
		}
		if *target == source {
			return Effect{}, ErrSameAccount
		}
		return Effect{
			Source: Delta{AccountID: source, Amount: amount.Neg()},
			Target: &Delta{AccountID: *target, Amount: amount},
		}, nil
	}
	return Effect{}, ErrInvalidType
}

// Reverse negates every delta.
func (e Effect) Reverse() Effect {
	r := Effect{Source: Delta{AccountID: e.Source.AccountID, Amount: e.Source.Amount.Neg()}}
	if e.Target != nil {
		r.Target = &Delta{AccountID: e.Target.AccountID, Amount: e.Target.Amount.Neg()}
	}
	return r
}

// Deltas returns the per-account changes, source first.
func (e Effect) Deltas() []Delta {
	out := []Delta{e.Source}
	if e.Target != nil {
		out = append(out, *e.Target)
	}
	return out
}

// Minus returns e - other per account, in first-seen order over e then
// other. Accounts whose net change is zero are dropped.
func (e Effect) Minus(other Effect) []Delta {
	var order []uuid.UUID
	net := make(map[uuid.UUID]decimal.Decimal)
	add := func(d Delta) {
		if _, ok := net[d.AccountID]; !ok {
			order = append(order, d.AccountID)
			net[d.AccountID] = decimal.Zero
		}
		net[d.AccountID] = net[d.AccountID].Add(d.Amount)
	}
	for _, d := range e.Deltas() {
		add(d)
	}
	for _, d := range other.Reverse().Deltas() {
		add(d)
	}

	out := make([]Delta, 0, len(order))
	for _, id := range order {
		if amt := net[id]; !amt.IsZero() {
			out = append(out, Delta{AccountID: id, Amount: amt})
		}
	}
	return out
}

// Accounts returns the IDs the effect touches.
func (e Effect) Accounts() []uuid.UUID {
	ids := []uuid.UUID{e.Source.AccountID}
	if e.Target != nil {
		ids = append(ids, e.Target.AccountID)
	}
	return ids
}
