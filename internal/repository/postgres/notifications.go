package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/waryduchess/NorthwestBank-Backend/internal/models"
)

type NotificationRepo struct {
	DB DBTX
}

const createNotification = `-- name: CreateNotification
INSERT INTO notificaciones (usuario_id, titulo, mensaje)
VALUES ($1, $2, $3)
RETURNING id, usuario_id, titulo, mensaje, enviada, created_at
`

func (r *NotificationRepo) Create(ctx context.Context, n models.Notification) (models.Notification, error) {
	rows, _ := r.DB.Query(ctx, createNotification, n.UserID, n.Title, n.Message)
	created, err := pgx.CollectOneRow(rows, rowToNotification)
	if err != nil {
		return created, fmt.Errorf("db error: %w", err)
	}

	return created, nil
}

const listUnsentNotifications = `-- name: ListUnsentNotifications
SELECT id, usuario_id, titulo, mensaje, enviada, created_at
FROM notificaciones
WHERE NOT enviada
ORDER BY created_at, id
LIMIT $1
`

func (r *NotificationRepo) ListUnsent(ctx context.Context, limit int) ([]models.Notification, error) {
	rows, _ := r.DB.Query(ctx, listUnsentNotifications, limit)
	notifications, err := pgx.CollectRows(rows, rowToNotification)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return notifications, nil
}

const markNotificationSent = `-- name: MarkNotificationSent
UPDATE notificaciones
SET enviada = true
WHERE id = $1
`

func (r *NotificationRepo) MarkSent(ctx context.Context, id int64) error {
	_, err := r.DB.Exec(ctx, markNotificationSent, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func rowToNotification(row pgx.CollectableRow) (models.Notification, error) {
	var n models.Notification
	err := row.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &n.Sent, &n.CreatedAt)
	return n, err
}
