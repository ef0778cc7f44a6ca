package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore persists the ledger in PostgreSQL. A single-row ledger_state
// table carries the id counter and held balance; mutations lock that row so
// they serialize exactly like the in-memory store. The counter is a plain
// column rather than a sequence because ids must be gapless 1..N and
// sequences leave holes on rollback.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore constructs a Postgres-backed ledger store.
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

const lockStateQuery = `SELECT tx_count, balance, withdrawal_count FROM ledger_state WHERE id = 1 FOR UPDATE`

// EnsureState guarantees the singleton state row exists.
func (s *PostgresStore) EnsureState(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `INSERT INTO ledger_state (id, tx_count, balance, withdrawal_count)
        VALUES (1, 0, 0, 0) ON CONFLICT (id) DO NOTHING`)
	return err
}

// Deposit records a payment inside one transaction holding the state row lock.
func (s *PostgresStore) Deposit(ctx context.Context, payer string, amount int64, reference string) (Transaction, error) {
	if amount <= 0 {
		return Transaction{}, ErrInvalidAmount
	}

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Transaction{}, err
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	var count, withdrawalCount uint64
	var balance int64
	if err := tx.QueryRow(ctx, lockStateQuery).Scan(&count, &balance, &withdrawalCount); err != nil {
		return Transaction{}, fmt.Errorf("lock ledger state: %w", err)
	}

	record := Transaction{
		ID:        count + 1,
		Payer:     payer,
		Amount:    amount,
		Reference: reference,
		Status:    StatusPaid,
		CreatedAt: time.Now().UTC(),
	}

	if _, err := tx.Exec(ctx, `INSERT INTO payments (id, payer, amount, reference, status, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)`,
		record.ID, record.Payer, record.Amount, record.Reference, record.Status.String(), record.CreatedAt); err != nil {
		return Transaction{}, err
	}

	if _, err := tx.Exec(ctx, `UPDATE ledger_state SET tx_count = $1, balance = balance + $2 WHERE id = 1`,
		record.ID, amount); err != nil {
		return Transaction{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Transaction{}, err
	}

	return record, nil
}

// Refund settles a Paid payment back to its payer.
func (s *PostgresStore) Refund(ctx context.Context, id uint64) (Transaction, error) {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Transaction{}, err
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	var count, withdrawalCount uint64
	var balance int64
	if err := tx.QueryRow(ctx, lockStateQuery).Scan(&count, &balance, &withdrawalCount); err != nil {
		return Transaction{}, fmt.Errorf("lock ledger state: %w", err)
	}

	row := tx.QueryRow(ctx, `SELECT id, payer, amount, reference, status, created_at
        FROM payments WHERE id = $1 FOR UPDATE`, id)
	record, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Transaction{}, ErrNotFound
		}
		return Transaction{}, err
	}
	if record.Status != StatusPaid {
		return Transaction{}, ErrAlreadySettled
	}

	record.Status = StatusRefunded
	if _, err := tx.Exec(ctx, `UPDATE payments SET status = $1 WHERE id = $2`,
		record.Status.String(), record.ID); err != nil {
		return Transaction{}, err
	}
	if _, err := tx.Exec(ctx, `UPDATE ledger_state SET balance = balance - $1 WHERE id = 1`,
		record.Amount); err != nil {
		return Transaction{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Transaction{}, err
	}

	return record, nil
}

// Withdraw sweeps the whole balance into a withdrawal record.
func (s *PostgresStore) Withdraw(ctx context.Context, requestedBy string) (Withdrawal, error) {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Withdrawal{}, err
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	var count, withdrawalCount uint64
	var balance int64
	if err := tx.QueryRow(ctx, lockStateQuery).Scan(&count, &balance, &withdrawalCount); err != nil {
		return Withdrawal{}, fmt.Errorf("lock ledger state: %w", err)
	}
	if balance == 0 {
		return Withdrawal{}, ErrNothingToWithdraw
	}

	w := Withdrawal{
		ID:          withdrawalCount + 1,
		Amount:      balance,
		RequestedBy: requestedBy,
		CreatedAt:   time.Now().UTC(),
	}

	if _, err := tx.Exec(ctx, `INSERT INTO withdrawals (id, amount, requested_by, created_at)
        VALUES ($1, $2, $3, $4)`, w.ID, w.Amount, w.RequestedBy, w.CreatedAt); err != nil {
		return Withdrawal{}, err
	}
	if _, err := tx.Exec(ctx, `UPDATE ledger_state SET balance = 0, withdrawal_count = $1 WHERE id = 1`,
		w.ID); err != nil {
		return Withdrawal{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Withdrawal{}, err
	}

	return w, nil
}

// Balance reads the held balance from the state row.
func (s *PostgresStore) Balance(ctx context.Context) (int64, error) {
	var balance int64
	err := s.db.QueryRow(ctx, `SELECT balance FROM ledger_state WHERE id = 1`).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	return balance, err
}

// Count reads the transaction counter from the state row.
func (s *PostgresStore) Count(ctx context.Context) (uint64, error) {
	var count uint64
	err := s.db.QueryRow(ctx, `SELECT tx_count FROM ledger_state WHERE id = 1`).Scan(&count)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	return count, err
}

// Recent returns the trailing window of payments ordered oldest first.
func (s *PostgresStore) Recent(ctx context.Context, limit int) ([]Transaction, error) {
	if limit <= 0 {
		return nil, nil
	}
	rows, err := s.db.Query(ctx, `SELECT id, payer, amount, reference, status, created_at FROM (
            SELECT id, payer, amount, reference, status, created_at
            FROM payments ORDER BY id DESC LIMIT $1
        ) latest ORDER BY id ASC`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTransactions(rows)
}

// ByPayer returns the payer's full history in creation order.
func (s *PostgresStore) ByPayer(ctx context.Context, payer string) ([]Transaction, error) {
	rows, err := s.db.Query(ctx, `SELECT id, payer, amount, reference, status, created_at
        FROM payments WHERE payer = $1 ORDER BY id ASC`, payer)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTransactions(rows)
}

// Withdrawals returns every withdrawal in creation order.
func (s *PostgresStore) Withdrawals(ctx context.Context) ([]Withdrawal, error) {
	rows, err := s.db.Query(ctx, `SELECT id, amount, requested_by, created_at
        FROM withdrawals ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Withdrawal
	for rows.Next() {
		var w Withdrawal
		var createdAt time.Time
		if err := rows.Scan(&w.ID, &w.Amount, &w.RequestedBy, &createdAt); err != nil {
			return nil, err
		}
		w.CreatedAt = createdAt.UTC()
		out = append(out, w)
	}
	return out, rows.Err()
}

func scanTransaction(row pgx.Row) (Transaction, error) {
	var record Transaction
	var status string
	var createdAt time.Time
	if err := row.Scan(&record.ID, &record.Payer, &record.Amount, &record.Reference, &status, &createdAt); err != nil {
		return Transaction{}, err
	}
	parsed, err := ParseStatus(status)
	if err != nil {
		return Transaction{}, err
	}
	record.Status = parsed
	record.CreatedAt = createdAt.UTC()
	return record, nil
}

func collectTransactions(rows pgx.Rows) ([]Transaction, error) {
	var out []Transaction
	for rows.Next() {
		record, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, record)
	}
	return out, rows.Err()
}
