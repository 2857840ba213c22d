package repository

import (
	"context"
)

// Storage gives access to all repositories sharing one database handle.
// Inside InTx every repository obtained from the passed Storage runs on the
// same transaction, so a unit of work commits or rolls back as a whole.
type Storage interface {
	User() UserRepo
	RefreshToken() RefreshTokenRepo
	Account() AccountRepo
	Movement() MovementRepo
	Notification() NotificationRepo

	// InTx runs fn inside a database transaction
	// Commits if fn returns nil, rolls back everything otherwise
	InTx(ctx context.Context, fn func(Storage) error) error
}
