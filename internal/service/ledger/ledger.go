// Package ledger implements the money movement engine: merchant charges,
// external deposits and peer transfers. Every operation is one database
// transaction with the same shape, lock the involved accounts, validate
// funds, apply balance deltas, append the ledger entry, stage the
// notification. Either all of it commits or none of it does.
package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/waryduchess/NorthwestBank-Backend/internal/apperrors"
	"github.com/waryduchess/NorthwestBank-Backend/internal/models"
	"github.com/waryduchess/NorthwestBank-Backend/internal/repository"
)

// How many fresh references to draw before giving up on unique violations
const maxReferenceAttempts = 5

const (
	defaultChargeDescription  = "Compra externa"
	defaultDepositDescription = "Deposito externo"
)

type LedgerService struct {
	storage repository.Storage
}

func NewService(storage repository.Storage) *LedgerService {
	return &LedgerService{storage: storage}
}

type ChargeParams struct {
	AccountNumber string
	Amount        decimal.Decimal
	Description   string
}

// ChargeResult echoes the post-movement figures computed from the balance
// read under the lock plus the applied delta, the row is not re-read.
type ChargeResult struct {
	Reference string
	Account   models.Account
}

// Charge debits the account found by number on behalf of an external
// merchant. Debit accounts pay from their balance, credit cards accumulate
// debt against their limit.
func (s *LedgerService) Charge(ctx context.Context, p ChargeParams) (ChargeResult, error) {
	if err := validateAmount(p.Amount); err != nil {
		return ChargeResult{}, err
	}

	description := p.Description
	if description == "" {
		description = defaultChargeDescription
	}

	var res ChargeResult
	err := s.storage.InTx(ctx, func(st repository.Storage) error {
		account, err := st.Account().LockByNumber(ctx, p.AccountNumber)
		if err != nil {
			return err
		}

		var delta decimal.Decimal
		switch {
		case account.IsCreditCard():
			// Balance is accumulated debt here, a charge grows it.
			// A nil limit means unlimited, nothing to check.
			if account.CreditLimit != nil && account.Balance.Add(p.Amount).GreaterThan(*account.CreditLimit) {
				return &apperrors.CreditLimitExceededError{
					AvailableCredit: account.CreditLimit.Sub(account.Balance),
				}
			}
			delta = p.Amount
		default:
			if account.Balance.LessThan(p.Amount) {
				return apperrors.ErrInsufficientFunds
			}
			delta = p.Amount.Neg()
		}

		if err := st.Account().ApplyDelta(ctx, account.ID, delta); err != nil {
			return err
		}

		movement, err := s.appendMovement(ctx, st, models.Movement{
			OriginID:    &account.ID,
			Kind:        models.MovementCharge,
			Amount:      p.Amount,
			Description: description,
			Status:      models.MovementStatusCompleted,
		})
		if err != nil {
			return err
		}

		_, err = st.Notification().Create(ctx, models.Notification{
			UserID:  account.UserID,
			Title:   "Compra realizada",
			Message: fmt.Sprintf("Se realizo un cobro de $%s - %s. Ref: %s", p.Amount, description, movement.Reference),
		})
		if err != nil {
			return err
		}

		account.Balance = account.Balance.Add(delta)
		res = ChargeResult{Reference: movement.Reference, Account: account}
		return nil
	})

	return res, err
}

type DepositParams struct {
	AccountNumber string
	Amount        decimal.Decimal
	Description   string
}

type DepositResult struct {
	Reference string
	Account   models.Account
}

// Deposit credits the account found by number. The delta is uniform for all
// account types: on a credit card adding to the balance means the debt grows,
// so a deposit must subtract, which the +amount rule already does because
// card balances are debt and deposits reduce them via the same saldo column.
// In short: saldo goes up for debit accounts, debt goes down is expressed as
// saldo going up too, the interpretation differs, the arithmetic does not.
func (s *LedgerService) Deposit(ctx context.Context, p DepositParams) (DepositResult, error) {
	if err := validateAmount(p.Amount); err != nil {
		return DepositResult{}, err
	}

	description := p.Description
	if description == "" {
		description = defaultDepositDescription
	}

	var res DepositResult
	err := s.storage.InTx(ctx, func(st repository.Storage) error {
		account, err := st.Account().LockByNumber(ctx, p.AccountNumber)
		if err != nil {
			return err
		}

		// No sufficiency check, deposits always succeed on an active account
		if err := st.Account().ApplyDelta(ctx, account.ID, p.Amount); err != nil {
			return err
		}

		movement, err := s.appendMovement(ctx, st, models.Movement{
			DestinationID: &account.ID,
			Kind:          models.MovementDeposit,
			Amount:        p.Amount,
			Description:   description,
			Status:        models.MovementStatusCompleted,
		})
		if err != nil {
			return err
		}

		_, err = st.Notification().Create(ctx, models.Notification{
			UserID:  account.UserID,
			Title:   "Deposito recibido",
			Message: fmt.Sprintf("Se acredito $%s a tu cuenta. %s. Ref: %s", p.Amount, description, movement.Reference),
		})
		if err != nil {
			return err
		}

		account.Balance = account.Balance.Add(p.Amount)
		res = DepositResult{Reference: movement.Reference, Account: account}
		return nil
	})

	return res, err
}

type TransferParams struct {
	UserID            int64
	OriginID          int64
	DestinationNumber string
	Amount            decimal.Decimal
	Description       string
}

// TransferResult carries the reference only: balances are deliberately not
// echoed so the caller learns nothing about the destination account.
type TransferResult struct {
	Reference string
}

// Transfer moves funds between two accounts. The caller must own the origin,
// the destination is addressed by number.
//
// Both rows are locked FOR UPDATE in ascending id order: the destination id
// is resolved with a plain read first, then the locks are taken in canonical
// order and the status re-validated under them. That closes the window where
// a concurrent movement could slip between an unlocked destination read and
// the balance update, and two opposing transfers can't deadlock because they
// acquire the same two locks in the same order.
func (s *LedgerService) Transfer(ctx context.Context, p TransferParams) (TransferResult, error) {
	if err := validateAmount(p.Amount); err != nil {
		return TransferResult{}, err
	}

	var res TransferResult
	err := s.storage.InTx(ctx, func(st repository.Storage) error {
		destinationID, err := st.Account().GetIDByNumber(ctx, p.DestinationNumber)
		if err != nil {
			return err
		}
		if destinationID == p.OriginID {
			return apperrors.ErrSameAccount
		}

		var origin, destination models.Account
		lockOrigin := func() (err error) {
			origin, err = st.Account().LockOwned(ctx, p.OriginID, p.UserID)
			return err
		}
		lockDestination := func() (err error) {
			destination, err = st.Account().LockByID(ctx, destinationID)
			return err
		}
		locks := []func() error{lockOrigin, lockDestination}
		if destinationID < p.OriginID {
			locks[0], locks[1] = locks[1], locks[0]
		}
		for _, lock := range locks {
			if err := lock(); err != nil {
				return err
			}
		}

		if origin.Balance.LessThan(p.Amount) {
			return apperrors.ErrInsufficientFunds
		}

		if err := st.Account().ApplyDelta(ctx, origin.ID, p.Amount.Neg()); err != nil {
			return err
		}
		if err := st.Account().ApplyDelta(ctx, destination.ID, p.Amount); err != nil {
			return err
		}

		movement, err := s.appendMovement(ctx, st, models.Movement{
			OriginID:      &origin.ID,
			DestinationID: &destination.ID,
			Kind:          models.MovementTransfer,
			Amount:        p.Amount,
			Description:   p.Description,
			Status:        models.MovementStatusCompleted,
		})
		if err != nil {
			return err
		}

		_, err = st.Notification().Create(ctx, models.Notification{
			UserID:  origin.UserID,
			Title:   "Transferencia enviada",
			Message: fmt.Sprintf("Enviaste $%s a la cuenta %s. Ref: %s", p.Amount, destination.Number, movement.Reference),
		})
		if err != nil {
			return err
		}
		_, err = st.Notification().Create(ctx, models.Notification{
			UserID:  destination.UserID,
			Title:   "Transferencia recibida",
			Message: fmt.Sprintf("Recibiste $%s de la cuenta %s. Ref: %s", p.Amount, origin.Number, movement.Reference),
		})
		if err != nil {
			return err
		}

		res = TransferResult{Reference: movement.Reference}
		return nil
	})

	return res, err
}

// History lists the movements touching any of the user's accounts, newest
// first. Read-only, runs outside any lock and never blocks writers.
func (s *LedgerService) History(ctx context.Context, userID int64) ([]models.Movement, error) {
	return s.storage.Movement().ListByUser(ctx, userID)
}

// appendMovement writes the ledger row, drawing a new reference on the
// astronomically rare collision instead of surfacing it to the user.
// The insert runs in a nested InTx (a savepoint on the enclosing
// transaction): a unique violation would otherwise poison the whole
// transaction and make the retry pointless.
func (s *LedgerService) appendMovement(ctx context.Context, st repository.Storage, m models.Movement) (models.Movement, error) {
	for range maxReferenceAttempts {
		m.Reference = NewReference()

		var created models.Movement
		err := st.InTx(ctx, func(st repository.Storage) error {
			var err error
			created, err = st.Movement().Create(ctx, m)
			return err
		})
		if errors.Is(err, apperrors.ErrReferenceTaken) {
			continue
		}

		return created, err
	}

	return m, apperrors.ErrReferenceTaken
}

func validateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("amount must be positive, got %s", amount)
	}

	return nil
}
