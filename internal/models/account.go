package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Debit account types and credit card tiers
const (
	AccountTypeSavings     = "ahorro"
	AccountTypeChecking    = "corriente"
	AccountTypeOrbe        = "orbe"
	AccountTypeSilverstone = "silverstone"
	AccountTypeImperium    = "imperium"
)

const (
	AccountStatusActive   = "activa"
	AccountStatusInactive = "inactiva"
)

// Account balance semantics depend on the type: for debit accounts (savings,
// checking) Balance is available funds and must never go negative. For credit
// cards Balance is accumulated debt and must never exceed CreditLimit.
type Account struct {
	ID          int64
	UserID      int64
	Number      string
	Type        string
	Balance     decimal.Decimal
	CreditLimit *decimal.Decimal // nil for debit accounts and for imperium cards
	Currency    string
	Status      string
	CreatedAt   time.Time
}

func (a *Account) IsCreditCard() bool {
	switch a.Type {
	case AccountTypeOrbe, AccountTypeSilverstone, AccountTypeImperium:
		return true
	}
	return false
}

// AvailableCredit returns limit minus current debt.
// It is defined only for credit cards with a finite limit, nil otherwise.
func (a *Account) AvailableCredit() *decimal.Decimal {
	if !a.IsCreditCard() || a.CreditLimit == nil {
		return nil
	}
	available := a.CreditLimit.Sub(a.Balance)
	return &available
}
