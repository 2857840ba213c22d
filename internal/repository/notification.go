package repository

import (
	"context"

	"github.com/waryduchess/NorthwestBank-Backend/internal/models"
)

type NotificationRepo interface {
	// Create notification record. Called inside the movement transaction, so
	// a failure here aborts the whole unit of work.
	Create(ctx context.Context, n models.Notification) (models.Notification, error)

	// Delivery worker queries, oldest first
	ListUnsent(ctx context.Context, limit int) ([]models.Notification, error)
	MarkSent(ctx context.Context, id int64) error
}
