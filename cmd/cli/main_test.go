package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	infraeventbus "github.com/wealthdash/wealthdash/infra/eventbus"
	"github.com/wealthdash/wealthdash/infra/repository/memory"
	"github.com/wealthdash/wealthdash/pkg/domain/account"
	accountsvc "github.com/wealthdash/wealthdash/pkg/service/account"
)

type fixture struct {
	uow     *memory.UoW
	svc     *accountsvc.Service
	userID  uuid.UUID
	account *account.Account
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	uow := memory.NewUoW(memory.NewStore())
	svc := accountsvc.New(uow, infraeventbus.NewWithMemory(logger), nil, logger)
	userID := uuid.New()
	a, err := svc.CreateAccount(context.Background(), userID, accountsvc.CreateParams{
		Name:   "Main",
		Type:   account.Bank,
		Amount: decimal.NewFromInt(100),
	})
	require.NoError(t, err)
	return &fixture{uow: uow, svc: svc, userID: userID, account: a}
}

func (f *fixture) drift(t *testing.T, delta int64) {
	t.Helper()
	repo, err := f.uow.AccountRepository()
	require.NoError(t, err)
	require.NoError(t, repo.AdjustBalance(context.Background(), f.account.ID, decimal.NewFromInt(delta)))
}

func (f *fixture) cli(in string, interactive bool) (*CLI, *bytes.Buffer) {
	out := &bytes.Buffer{}
	return &CLI{Accounts: f.svc, In: strings.NewReader(in), Out: out, Interactive: interactive}, out
}

func TestRunUsage(t *testing.T) {
	f := newFixture(t)
	c, _ := f.cli("", false)
	assert.ErrorIs(t, c.Run(context.Background(), nil), errUsage)
	assert.ErrorIs(t, c.Run(context.Background(), []string{"verify", "nope"}), errUsage)
	assert.ErrorIs(t, c.Run(context.Background(), []string{"explode", f.userID.String()}), errUsage)
}

func TestRunNetWorth(t *testing.T) {
	f := newFixture(t)
	c, out := f.cli("", false)
	require.NoError(t, c.Run(context.Background(), []string{"networth", f.userID.String()}))
	assert.Contains(t, out.String(), "100.00 across 1 accounts")
}

func TestRunVerifyReportsDrift(t *testing.T) {
	f := newFixture(t)
	f.drift(t, 7)
	c, out := f.cli("", false)
	require.NoError(t, c.Run(context.Background(), []string{"verify", f.userID.String()}))
	assert.Contains(t, out.String(), f.account.ID.String())
	assert.Contains(t, out.String(), "drift 7.00")
}

func TestRunResync(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		input       string
		interactive bool
		wantErr     error
		wantBalance string
	}{
		{"no terminal needs --yes", nil, "", false, errAborted, "107"},
		{"declined", nil, "n\n", true, errAborted, "107"},
		{"confirmed", nil, "y\n", true, nil, "100"},
		{"forced", []string{"--yes"}, "", false, nil, "100"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.drift(t, 7)
			c, out := f.cli(tt.input, tt.interactive)
			args := append([]string{"resync", f.userID.String()}, tt.args...)
			err := c.Run(context.Background(), args)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Contains(t, out.String(), "1 account(s) corrected")
			}
			got, err := f.svc.GetAccount(context.Background(), f.userID, f.account.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.wantBalance, got.Balance.String())
		})
	}
}

func TestRunResyncInSyncSkipsPrompt(t *testing.T) {
	f := newFixture(t)
	c, out := f.cli("", false)
	require.NoError(t, c.Run(context.Background(), []string{"resync", f.userID.String()}))
	assert.NotContains(t, out.String(), "[y/N]")
}
