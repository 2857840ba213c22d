package account

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"

	"github.com/waryduchess/NorthwestBank-Backend/internal/apperrors"
	"github.com/waryduchess/NorthwestBank-Backend/internal/models"
	"github.com/waryduchess/NorthwestBank-Backend/internal/repository"
)

const defaultCurrency = "MXN"

// How many fresh numbers to try before giving up on a unique violation
const maxNumberAttempts = 5

// Credit limits per card tier. Debit types and imperium have no entry:
// debit accounts carry no limit, imperium is unlimited.
var cardLimits = map[string]decimal.Decimal{
	models.AccountTypeOrbe:        decimal.NewFromInt(50_000),
	models.AccountTypeSilverstone: decimal.NewFromInt(150_000),
}

var validTypes = map[string]bool{
	models.AccountTypeSavings:     true,
	models.AccountTypeChecking:    true,
	models.AccountTypeOrbe:        true,
	models.AccountTypeSilverstone: true,
	models.AccountTypeImperium:    true,
}

type AccountService struct {
	storage repository.Storage
}

func NewService(storage repository.Storage) *AccountService {
	return &AccountService{storage: storage}
}

// Open creates an account of the requested type for the user: zero balance,
// active, with a freshly issued unique 16 digit number
func (s *AccountService) Open(ctx context.Context, userID int64, accountType string) (models.Account, error) {
	if !validTypes[accountType] {
		return models.Account{}, apperrors.ErrAccountTypeInvalid
	}

	var creditLimit *decimal.Decimal
	if limit, ok := cardLimits[accountType]; ok {
		creditLimit = &limit
	}

	// The number space is large enough that collisions are vanishingly rare,
	// but uniqueness is guaranteed by the db constraint, so retry on conflict
	for range maxNumberAttempts {
		number, err := newAccountNumber()
		if err != nil {
			return models.Account{}, fmt.Errorf("can't issue account number. Err: %w", err)
		}

		account, err := s.storage.Account().Create(ctx, repository.CreateAccountParams{
			UserID:      userID,
			Number:      number,
			Type:        accountType,
			CreditLimit: creditLimit,
			Currency:    defaultCurrency,
		})
		if errors.Is(err, apperrors.ErrAccountNumberTaken) {
			continue
		}

		return account, err
	}

	return models.Account{}, errors.New("could not allocate a unique account number")
}

func (s *AccountService) List(ctx context.Context, userID int64) ([]models.Account, error) {
	return s.storage.Account().ListByUser(ctx, userID)
}

func (s *AccountService) Get(ctx context.Context, id int64, userID int64) (models.Account, error) {
	return s.storage.Account().GetOwned(ctx, id, userID)
}

var accountNumberSpace = big.NewInt(1_000_000_000_000_000) // 10^15

// Account numbers are 16 digits, first digit fixed by the issuance scheme
func newAccountNumber() (string, error) {
	n, err := rand.Int(rand.Reader, accountNumberSpace)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("4%015d", n), nil
}
