package wallet

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fadedpez/cardtable/pkg/entities"
	walletRepo "github.com/fadedpez/cardtable/pkg/repositories/wallet"
)

func newTestService() *Service {
	return NewService(walletRepo.NewMemoryRepository(), zerolog.Nop())
}

func TestGetOrCreateWallet(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	wallet, created, err := svc.GetOrCreateWallet(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, int64(StartingBalance), wallet.Balance)

	// Second call finds the existing wallet.
	wallet, created, err = svc.GetOrCreateWallet(ctx, "alice")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, int64(StartingBalance), wallet.Balance)

	txs, err := svc.GetRecentTransactions(ctx, "alice", 10)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, entities.TransactionTypeGrant, txs[0].Type)
}

func TestAddAndRemoveFunds(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, _, err := svc.GetOrCreateWallet(ctx, "alice")
	require.NoError(t, err)

	require.NoError(t, svc.AddFunds(ctx, "alice", 50, entities.TransactionTypePayout, "game1", "blackjack payout"))

	balance, err := svc.GetBalance(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(150), balance)

	require.NoError(t, svc.RemoveFunds(ctx, "alice", 30, entities.TransactionTypeBet, "game2", "blackjack bet"))

	balance, err = svc.GetBalance(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(120), balance)

	txs, err := svc.GetRecentTransactions(ctx, "alice", 10)
	require.NoError(t, err)
	require.Len(t, txs, 3)
	// Newest first.
	assert.Equal(t, int64(-30), txs[0].Amount)
	assert.Equal(t, int64(120), txs[0].BalanceAfter)
}

func TestRemoveFundsInsufficient(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, _, err := svc.GetOrCreateWallet(ctx, "alice")
	require.NoError(t, err)

	err = svc.RemoveFunds(ctx, "alice", 500, entities.TransactionTypeBet, "", "too big a bet")
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	// Balance untouched after the failed debit.
	balance, err := svc.GetBalance(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(StartingBalance), balance)
}

func TestAmountValidation(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, _, err := svc.GetOrCreateWallet(ctx, "alice")
	require.NoError(t, err)

	assert.ErrorIs(t, svc.AddFunds(ctx, "alice", 0, entities.TransactionTypeGrant, "", ""), ErrNegativeAmount)
	assert.ErrorIs(t, svc.RemoveFunds(ctx, "alice", -5, entities.TransactionTypeBet, "", ""), ErrNegativeAmount)
}

func TestGetBalanceUnknownUser(t *testing.T) {
	svc := newTestService()

	_, err := svc.GetBalance(context.Background(), "nobody")
	assert.ErrorIs(t, err, walletRepo.ErrWalletNotFound)
}
