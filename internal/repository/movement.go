package repository

import (
	"context"

	"github.com/waryduchess/NorthwestBank-Backend/internal/models"
)

type MovementRepo interface {
	// Append one ledger entry. Must be called inside the same transaction as
	// the balance deltas it documents.
	// If the reference is already taken has to return apperrors.ErrReferenceTaken
	Create(ctx context.Context, movement models.Movement) (models.Movement, error)

	// List movements where the user owns either side, newest first,
	// with counterpart account numbers joined in
	ListByUser(ctx context.Context, userID int64) ([]models.Movement, error)
}
