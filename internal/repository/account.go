package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/waryduchess/NorthwestBank-Backend/internal/models"
)

type CreateAccountParams struct {
	UserID      int64
	Number      string
	Type        string
	CreditLimit *decimal.Decimal
	Currency    string
}

// AccountRepo persists accounts.
//
// The Lock* methods select the row FOR UPDATE and must be called inside
// Storage.InTx: the exclusive row lock is what serializes concurrent
// movements against the same account and it lives until the transaction
// commits or rolls back. All of them match active accounts only and return
// apperrors.ErrAccountNotFound for missing and inactive rows alike.
type AccountRepo interface {
	// Create account with zero balance and active status
	// If the number is already taken has to return apperrors.ErrAccountNumberTaken
	Create(ctx context.Context, arg CreateAccountParams) (models.Account, error)

	LockByNumber(ctx context.Context, number string) (models.Account, error)
	LockByID(ctx context.Context, id int64) (models.Account, error)

	// Lock account only if it belongs to the user
	LockOwned(ctx context.Context, id int64, userID int64) (models.Account, error)

	// ApplyDelta adds delta to the account balance. It never checks
	// sufficiency: the caller validates under the row lock before calling.
	ApplyDelta(ctx context.Context, accountID int64, delta decimal.Decimal) error

	// Read paths, no locking
	GetOwned(ctx context.Context, id int64, userID int64) (models.Account, error)
	GetIDByNumber(ctx context.Context, number string) (int64, error)
	ListByUser(ctx context.Context, userID int64) ([]models.Account, error)
}
