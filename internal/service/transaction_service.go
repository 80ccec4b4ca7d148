package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"financetracker/internal/auth"
	apperrors "financetracker/internal/errors"
	"financetracker/internal/model"
	"financetracker/internal/repository"
)

// TransactionInput holds the client-controlled fields of a transaction. The
// owner is never part of it.
type TransactionInput struct {
	Description string
	Amount      decimal.Decimal
	OccurredAt  time.Time
	CategoryID  uint
}

// TransactionService handles transactions. Every operation is scoped to the
// calling user.
type TransactionService interface {
	Create(ctx context.Context, caller *auth.Identity, in TransactionInput) (*model.Transaction, error)
	List(ctx context.Context, caller *auth.Identity, filter repository.TransactionFilter) ([]model.Transaction, error)
	Get(ctx context.Context, caller *auth.Identity, id uint) (*model.Transaction, error)
	Update(ctx context.Context, caller *auth.Identity, id uint, in TransactionInput) (*model.Transaction, error)
	Delete(ctx context.Context, caller *auth.Identity, id uint) error
}

type transactionService struct {
	transactions repository.TransactionRepository
	categories   repository.CategoryRepository
	guard        *auth.Guard
	now          func() time.Time
}

// NewTransactionService creates a new transaction service.
func NewTransactionService(transactions repository.TransactionRepository, categories repository.CategoryRepository, guard *auth.Guard) TransactionService {
	return &transactionService{
		transactions: transactions,
		categories:   categories,
		guard:        guard,
		now:          time.Now,
	}
}

// Create records a transaction owned by the caller.
func (s *transactionService) Create(ctx context.Context, caller *auth.Identity, in TransactionInput) (*model.Transaction, error) {
	if caller == nil {
		return nil, apperrors.ErrUnauthenticated
	}
	category, err := s.validate(ctx, &in)
	if err != nil {
		return nil, err
	}

	txn := &model.Transaction{
		Description: in.Description,
		Amount:      in.Amount,
		OccurredAt:  in.OccurredAt,
		UserID:      caller.ID,
		CategoryID:  category.ID,
	}
	if err := s.transactions.Create(ctx, txn); err != nil {
		return nil, fmt.Errorf("create transaction: %w", err)
	}
	txn.Category = *category
	return txn, nil
}

func (s *transactionService) List(ctx context.Context, caller *auth.Identity, filter repository.TransactionFilter) ([]model.Transaction, error) {
	if caller == nil {
		return nil, apperrors.ErrUnauthenticated
	}
	return s.transactions.ListByUser(ctx, caller.ID, filter)
}

func (s *transactionService) Get(ctx context.Context, caller *auth.Identity, id uint) (*model.Transaction, error) {
	if err := s.guard.AuthorizeResource(ctx, caller, s.transactions, id); err != nil {
		return nil, err
	}
	return s.transactions.FindByID(ctx, id)
}

// Update replaces the client-controlled fields. Ownership never changes.
func (s *transactionService) Update(ctx context.Context, caller *auth.Identity, id uint, in TransactionInput) (*model.Transaction, error) {
	if err := s.guard.AuthorizeResource(ctx, caller, s.transactions, id); err != nil {
		return nil, err
	}
	category, err := s.validate(ctx, &in)
	if err != nil {
		return nil, err
	}

	txn, err := s.transactions.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	txn.Description = in.Description
	txn.Amount = in.Amount
	txn.OccurredAt = in.OccurredAt
	txn.CategoryID = category.ID
	if err := s.transactions.Update(ctx, txn); err != nil {
		return nil, fmt.Errorf("update transaction %d: %w", id, err)
	}
	txn.Category = *category
	return txn, nil
}

func (s *transactionService) Delete(ctx context.Context, caller *auth.Identity, id uint) error {
	if err := s.guard.AuthorizeResource(ctx, caller, s.transactions, id); err != nil {
		return err
	}
	return s.transactions.Delete(ctx, id)
}

// validate normalises in and resolves its category.
func (s *transactionService) validate(ctx context.Context, in *TransactionInput) (*model.Category, error) {
	in.Description = strings.TrimSpace(in.Description)
	if in.Description == "" {
		return nil, apperrors.Invalid("description is required")
	}
	in.Amount = in.Amount.Round(2)
	if in.Amount.IsZero() {
		return nil, apperrors.ErrInvalidAmount
	}
	if in.OccurredAt.IsZero() {
		in.OccurredAt = s.now().UTC()
	}

	category, err := s.categories.FindByID(ctx, in.CategoryID)
	if errors.Is(err, apperrors.ErrCategoryNotFound) {
		return nil, apperrors.ErrUnknownCategory
	}
	if err != nil {
		return nil, fmt.Errorf("find category %d: %w", in.CategoryID, err)
	}
	return category, nil
}
