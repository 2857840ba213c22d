package apperrors

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrUserNotFound      = errors.New("user not found")

	ErrRefreshTokenNotFound = errors.New("refresh token not found")
	ErrRefreshTokenIsUsed   = errors.New("refresh token is used")
	ErrRefreshTokenExpired  = errors.New("refresh token is expired")

	// Returned for accounts that don't exist and for inactive ones alike, so
	// callers can't probe whether a closed account number is real
	ErrAccountNotFound = errors.New("account not found or inactive")

	ErrAccountTypeInvalid  = errors.New("account type is invalid")
	ErrAccountNumberTaken  = errors.New("account number already exists")
	ErrInsufficientFunds   = errors.New("insufficient funds")
	ErrCreditLimitExceeded = errors.New("credit limit exceeded")
	ErrSameAccount         = errors.New("origin and destination accounts are the same")
	ErrReferenceTaken      = errors.New("movement reference already exists")
)

// CreditLimitExceededError carries the credit still available on the card, so
// the rejection response can include it. Unwraps to ErrCreditLimitExceeded.
type CreditLimitExceededError struct {
	AvailableCredit decimal.Decimal
}

func (e *CreditLimitExceededError) Error() string {
	return fmt.Sprintf("credit limit exceeded, available credit %s", e.AvailableCredit)
}

func (e *CreditLimitExceededError) Unwrap() error {
	return ErrCreditLimitExceeded
}
