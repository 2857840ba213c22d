package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/waryduchess/NorthwestBank-Backend/internal/apperrors"
	"github.com/waryduchess/NorthwestBank-Backend/internal/models"
)

type MovementRepo struct {
	DB DBTX
}

const createMovement = `-- name: CreateMovement
INSERT INTO transacciones (cuenta_origen_id, cuenta_destino_id, tipo, monto, descripcion, referencia, estado)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id, created_at
`

func (r *MovementRepo) Create(ctx context.Context, m models.Movement) (models.Movement, error) {
	err := r.DB.QueryRow(ctx, createMovement,
		m.OriginID, m.DestinationID, m.Kind, m.Amount, m.Description, m.Reference, m.Status,
	).Scan(&m.ID, &m.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation && pgErr.ConstraintName == "transacciones_referencia_key" {
			return m, apperrors.ErrReferenceTaken
		}
		return m, fmt.Errorf("db error: %w", err)
	}

	return m, nil
}

const listMovementsByUser = `-- name: ListMovementsByUser
SELECT t.id, t.cuenta_origen_id, t.cuenta_destino_id, t.tipo, t.monto, t.descripcion, t.referencia, t.estado, t.created_at,
       co.numero_cuenta, cd.numero_cuenta
FROM transacciones t
LEFT JOIN cuentas co ON co.id = t.cuenta_origen_id
LEFT JOIN cuentas cd ON cd.id = t.cuenta_destino_id
WHERE co.usuario_id = $1 OR cd.usuario_id = $1
ORDER BY t.created_at DESC, t.id DESC
`

func (r *MovementRepo) ListByUser(ctx context.Context, userID int64) ([]models.Movement, error) {
	rows, _ := r.DB.Query(ctx, listMovementsByUser, userID)
	movements, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Movement, error) {
		var m models.Movement
		err := row.Scan(
			&m.ID, &m.OriginID, &m.DestinationID, &m.Kind, &m.Amount, &m.Description, &m.Reference, &m.Status, &m.CreatedAt,
			&m.OriginNumber, &m.DestinationNumber,
		)
		return m, err
	})
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return movements, nil
}
