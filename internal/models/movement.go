package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	MovementCharge   = "compra"
	MovementDeposit  = "deposito"
	MovementTransfer = "transferencia"
)

const (
	MovementStatusCompleted = "completada"
	MovementStatusFailed    = "fallida"
)

// Movement is one immutable ledger entry. Amount is always positive, the
// direction is encoded by Kind and by which account side is populated:
// charges have the origin only, deposits the destination only, transfers both.
type Movement struct {
	ID            int64
	OriginID      *int64
	DestinationID *int64
	Kind          string
	Amount        decimal.Decimal
	Description   string
	Reference     string
	Status        string
	CreatedAt     time.Time

	// Counterpart account numbers, populated by history reads only
	OriginNumber      *string
	DestinationNumber *string
}
