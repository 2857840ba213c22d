package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/waryduchess/NorthwestBank-Backend/internal/apperrors"
	"github.com/waryduchess/NorthwestBank-Backend/internal/models"
	"github.com/waryduchess/NorthwestBank-Backend/internal/repository"
)

type AccountRepo struct {
	DB DBTX
}

const accountColumns = `id, usuario_id, numero_cuenta, tipo, saldo, limite_credito, moneda, estado, created_at`

const createAccount = `-- name: CreateAccount
INSERT INTO cuentas (usuario_id, numero_cuenta, tipo, limite_credito, moneda)
VALUES ($1, $2, $3, $4, $5)
RETURNING ` + accountColumns

func (r *AccountRepo) Create(ctx context.Context, arg repository.CreateAccountParams) (models.Account, error) {
	rows, _ := r.DB.Query(ctx, createAccount, arg.UserID, arg.Number, arg.Type, arg.CreditLimit, arg.Currency)
	account, err := pgx.CollectOneRow(rows, rowToAccount)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return account, apperrors.ErrAccountNumberTaken
		}
		return account, fmt.Errorf("db error: %w", err)
	}

	return account, nil
}

// The FOR UPDATE lock is held until the enclosing transaction finishes, so no
// concurrent movement can read-for-update or mutate the row meanwhile.
const lockAccountByNumber = `-- name: LockAccountByNumber
SELECT ` + accountColumns + `
FROM cuentas
WHERE numero_cuenta = $1 AND estado = 'activa'
FOR UPDATE
`

func (r *AccountRepo) LockByNumber(ctx context.Context, number string) (models.Account, error) {
	rows, _ := r.DB.Query(ctx, lockAccountByNumber, number)
	return collectAccount(rows)
}

const lockAccountByID = `-- name: LockAccountByID
SELECT ` + accountColumns + `
FROM cuentas
WHERE id = $1 AND estado = 'activa'
FOR UPDATE
`

func (r *AccountRepo) LockByID(ctx context.Context, id int64) (models.Account, error) {
	rows, _ := r.DB.Query(ctx, lockAccountByID, id)
	return collectAccount(rows)
}

const lockAccountOwned = `-- name: LockAccountOwned
SELECT ` + accountColumns + `
FROM cuentas
WHERE id = $1 AND usuario_id = $2 AND estado = 'activa'
FOR UPDATE
`

func (r *AccountRepo) LockOwned(ctx context.Context, id int64, userID int64) (models.Account, error) {
	rows, _ := r.DB.Query(ctx, lockAccountOwned, id, userID)
	return collectAccount(rows)
}

// Balance moves by delta, never by writing back a previously read value.
// Sufficiency is the caller's business, checked under the row lock.
const applyDelta = `-- name: ApplyDelta
UPDATE cuentas
SET saldo = saldo + $2
WHERE id = $1
`

func (r *AccountRepo) ApplyDelta(ctx context.Context, accountID int64, delta decimal.Decimal) error {
	tag, err := r.DB.Exec(ctx, applyDelta, accountID, delta)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrAccountNotFound
	}

	return nil
}

const getAccountOwned = `-- name: GetAccountOwned
SELECT ` + accountColumns + `
FROM cuentas
WHERE id = $1 AND usuario_id = $2
`

func (r *AccountRepo) GetOwned(ctx context.Context, id int64, userID int64) (models.Account, error) {
	rows, _ := r.DB.Query(ctx, getAccountOwned, id, userID)
	return collectAccount(rows)
}

const getAccountIDByNumber = `-- name: GetAccountIDByNumber
SELECT id FROM cuentas
WHERE numero_cuenta = $1 AND estado = 'activa'
`

func (r *AccountRepo) GetIDByNumber(ctx context.Context, number string) (int64, error) {
	var id int64
	err := r.DB.QueryRow(ctx, getAccountIDByNumber, number).Scan(&id)

	switch {
	case err == nil:
		return id, nil
	case errors.Is(err, pgx.ErrNoRows):
		return 0, apperrors.ErrAccountNotFound
	default:
		return 0, fmt.Errorf("db error: %w", err)
	}
}

const listAccountsByUser = `-- name: ListAccountsByUser
SELECT ` + accountColumns + `
FROM cuentas
WHERE usuario_id = $1
ORDER BY created_at, id
`

func (r *AccountRepo) ListByUser(ctx context.Context, userID int64) ([]models.Account, error) {
	rows, _ := r.DB.Query(ctx, listAccountsByUser, userID)
	accounts, err := pgx.CollectRows(rows, rowToAccount)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return accounts, nil
}

func collectAccount(rows pgx.Rows) (models.Account, error) {
	account, err := pgx.CollectOneRow(rows, rowToAccount)

	switch {
	case err == nil:
		return account, nil
	case errors.Is(err, pgx.ErrNoRows):
		return account, apperrors.ErrAccountNotFound
	default:
		return account, fmt.Errorf("db error: %w", err)
	}
}

func rowToAccount(row pgx.CollectableRow) (models.Account, error) {
	var a models.Account
	err := row.Scan(&a.ID, &a.UserID, &a.Number, &a.Type, &a.Balance, &a.CreditLimit, &a.Currency, &a.Status, &a.CreatedAt)
	return a, err
}
