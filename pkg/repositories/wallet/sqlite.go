package wallet

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/fadedpez/cardtable/pkg/entities"
)

const (
	createWalletsTableSQL = `
	CREATE TABLE IF NOT EXISTS wallets (
		user_id TEXT PRIMARY KEY,
		balance INTEGER NOT NULL DEFAULT 0,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`

	createTransactionsTableSQL = `
	CREATE TABLE IF NOT EXISTS transactions (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		amount INTEGER NOT NULL,
		type TEXT NOT NULL,
		reference_id TEXT,
		description TEXT,
		timestamp TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		balance_after INTEGER NOT NULL,
		FOREIGN KEY (user_id) REFERENCES wallets(user_id)
	)`

	createTransactionIndexesSQL = `
	CREATE INDEX IF NOT EXISTS idx_transactions_user_id ON transactions(user_id);
	CREATE INDEX IF NOT EXISTS idx_transactions_timestamp ON transactions(timestamp DESC)
	`
)

// timeFormat is the SQLite default timestamp layout
const timeFormat = "2006-01-02 15:04:05"

// SQLiteRepository implements Repository using SQLite
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite wallet repository
func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	dbDir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, fmt.Errorf("error creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	for _, stmt := range []string{createWalletsTableSQL, createTransactionsTableSQL, createTransactionIndexesSQL} {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("error creating wallet schema: %w", err)
		}
	}

	return &SQLiteRepository{db: db}, nil
}

// GetWallet retrieves a wallet by user ID
func (r *SQLiteRepository) GetWallet(ctx context.Context, userID string) (*entities.Wallet, error) {
	query := `SELECT user_id, balance, updated_at FROM wallets WHERE user_id = ?`

	var wallet entities.Wallet
	var updatedAt string

	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&wallet.UserID,
		&wallet.Balance,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrWalletNotFound
		}
		return nil, fmt.Errorf("error getting wallet: %w", err)
	}

	wallet.LastUpdated, err = parseTimestamp(updatedAt)
	if err != nil {
		return nil, err
	}
	return &wallet, nil
}

// SaveWallet creates or updates a wallet
func (r *SQLiteRepository) SaveWallet(ctx context.Context, wallet *entities.Wallet) error {
	if wallet.LastUpdated.IsZero() {
		wallet.LastUpdated = time.Now()
	}

	query := `
	INSERT INTO wallets (user_id, balance, updated_at)
	VALUES (?, ?, ?)
	ON CONFLICT(user_id) DO UPDATE SET
		balance = excluded.balance,
		updated_at = excluded.updated_at`

	_, err := r.db.ExecContext(ctx, query,
		wallet.UserID,
		wallet.Balance,
		wallet.LastUpdated.Format(timeFormat),
	)
	if err != nil {
		return fmt.Errorf("error saving wallet: %w", err)
	}
	return nil
}

// UpdateBalance atomically updates a wallet's balance
func (r *SQLiteRepository) UpdateBalance(ctx context.Context, userID string, amount int64) error {
	query := `UPDATE wallets SET balance = balance + ?, updated_at = ? WHERE user_id = ?`

	result, err := r.db.ExecContext(ctx, query, amount, time.Now().Format(timeFormat), userID)
	if err != nil {
		return fmt.Errorf("error updating balance: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking update result: %w", err)
	}
	if rows == 0 {
		return ErrWalletNotFound
	}
	return nil
}

// AddTransaction records a new transaction
func (r *SQLiteRepository) AddTransaction(ctx context.Context, transaction *entities.Transaction) error {
	if transaction.ID == "" {
		transaction.ID = uuid.New().String()
	}
	if transaction.Timestamp.IsZero() {
		transaction.Timestamp = time.Now()
	}

	query := `
	INSERT INTO transactions (id, user_id, amount, type, reference_id, description, timestamp, balance_after)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		transaction.ID,
		transaction.UserID,
		transaction.Amount,
		string(transaction.Type),
		transaction.ReferenceID,
		transaction.Description,
		transaction.Timestamp.Format(timeFormat),
		transaction.BalanceAfter,
	)
	if err != nil {
		return fmt.Errorf("error adding transaction: %w", err)
	}
	return nil
}

// GetTransactions retrieves recent transactions for a user, newest first
func (r *SQLiteRepository) GetTransactions(ctx context.Context, userID string, limit int) ([]*entities.Transaction, error) {
	query := `
	SELECT id, user_id, amount, type, reference_id, description, timestamp, balance_after
	FROM transactions
	WHERE user_id = ?
	ORDER BY timestamp DESC
	LIMIT ?`

	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("error getting transactions: %w", err)
	}
	defer rows.Close()

	transactions := make([]*entities.Transaction, 0, limit)
	for rows.Next() {
		var tx entities.Transaction
		var txType, timestamp string

		err := rows.Scan(
			&tx.ID,
			&tx.UserID,
			&tx.Amount,
			&txType,
			&tx.ReferenceID,
			&tx.Description,
			&timestamp,
			&tx.BalanceAfter,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning transaction: %w", err)
		}

		tx.Type = entities.TransactionType(txType)
		tx.Timestamp, err = parseTimestamp(timestamp)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, &tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}
	return transactions, nil
}

// Close closes the database connection
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// parseTimestamp handles the layouts SQLite may hand back depending on
// how the value was written
func parseTimestamp(value string) (time.Time, error) {
	formats := []string{
		timeFormat,
		time.RFC3339,
		"2006-01-02T15:04:05Z",
	}

	var parseErr error
	for _, format := range formats {
		t, err := time.Parse(format, value)
		if err == nil {
			return t, nil
		}
		parseErr = err
	}
	return time.Time{}, fmt.Errorf("error parsing timestamp %q: %w", value, parseErr)
}
