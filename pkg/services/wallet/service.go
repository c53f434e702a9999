package wallet

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/fadedpez/cardtable/pkg/entities"
	walletRepo "github.com/fadedpez/cardtable/pkg/repositories/wallet"
)

var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrNegativeAmount    = errors.New("amount must be positive")
)

// StartingBalance is granted to every new wallet
const StartingBalance = 100

// Service handles wallet business logic
type Service struct {
	repo walletRepo.Repository
	log  zerolog.Logger
}

// NewService creates a new wallet service
func NewService(repo walletRepo.Repository, log zerolog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log.With().Str("service", "wallet").Logger(),
	}
}

// GetOrCreateWallet retrieves a wallet or creates a new one if it doesn't
// exist. The bool reports whether a new wallet was created.
func (s *Service) GetOrCreateWallet(ctx context.Context, userID string) (*entities.Wallet, bool, error) {
	wallet, err := s.repo.GetWallet(ctx, userID)
	if err == nil {
		return wallet, false, nil
	}
	if !errors.Is(err, walletRepo.ErrWalletNotFound) {
		return nil, false, err
	}

	newWallet := &entities.Wallet{
		UserID:      userID,
		Balance:     StartingBalance,
		LastUpdated: time.Now(),
	}
	if err := s.repo.SaveWallet(ctx, newWallet); err != nil {
		return nil, false, err
	}

	s.log.Info().Str("user_id", userID).Int64("balance", newWallet.Balance).
		Msg("created wallet")

	if err := s.repo.AddTransaction(ctx, &entities.Transaction{
		ID:           uuid.New().String(),
		UserID:       userID,
		Amount:       StartingBalance,
		Type:         entities.TransactionTypeGrant,
		Description:  "starting balance",
		Timestamp:    time.Now(),
		BalanceAfter: newWallet.Balance,
	}); err != nil {
		s.log.Error().Err(err).Str("user_id", userID).Msg("recording grant transaction")
	}

	return newWallet, true, nil
}

// GetBalance returns the current balance for a user
func (s *Service) GetBalance(ctx context.Context, userID string) (int64, error) {
	wallet, err := s.repo.GetWallet(ctx, userID)
	if err != nil {
		return 0, err
	}
	return wallet.Balance, nil
}

// AddFunds credits a user's wallet and records the transaction
func (s *Service) AddFunds(ctx context.Context, userID string, amount int64, txType entities.TransactionType, referenceID, description string) error {
	if amount <= 0 {
		return ErrNegativeAmount
	}

	wallet, err := s.repo.GetWallet(ctx, userID)
	if err != nil {
		return err
	}

	wallet.Balance += amount
	wallet.LastUpdated = time.Now()
	if err := s.repo.SaveWallet(ctx, wallet); err != nil {
		return err
	}

	s.log.Info().Str("user_id", userID).Int64("amount", amount).
		Int64("balance", wallet.Balance).Str("type", string(txType)).
		Msg("added funds")

	return s.repo.AddTransaction(ctx, &entities.Transaction{
		ID:           uuid.New().String(),
		UserID:       userID,
		Amount:       amount,
		Type:         txType,
		ReferenceID:  referenceID,
		Description:  description,
		Timestamp:    time.Now(),
		BalanceAfter: wallet.Balance,
	})
}

// RemoveFunds debits a user's wallet if sufficient funds exist
func (s *Service) RemoveFunds(ctx context.Context, userID string, amount int64, txType entities.TransactionType, referenceID, description string) error {
	if amount <= 0 {
		return ErrNegativeAmount
	}

	wallet, err := s.repo.GetWallet(ctx, userID)
	if err != nil {
		return err
	}
	if wallet.Balance < amount {
		return ErrInsufficientFunds
	}

	wallet.Balance -= amount
	wallet.LastUpdated = time.Now()
	if err := s.repo.SaveWallet(ctx, wallet); err != nil {
		return err
	}

	s.log.Info().Str("user_id", userID).Int64("amount", amount).
		Int64("balance", wallet.Balance).Str("type", string(txType)).
		Msg("removed funds")

	return s.repo.AddTransaction(ctx, &entities.Transaction{
		ID:           uuid.New().String(),
		UserID:       userID,
		Amount:       -amount,
		Type:         txType,
		ReferenceID:  referenceID,
		Description:  description,
		Timestamp:    time.Now(),
		BalanceAfter: wallet.Balance,
	})
}

// GetRecentTransactions retrieves recent transactions for a user
func (s *Service) GetRecentTransactions(ctx context.Context, userID string, limit int) ([]*entities.Transaction, error) {
	return s.repo.GetTransactions(ctx, userID, limit)
}
