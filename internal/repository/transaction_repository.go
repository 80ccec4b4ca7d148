package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"financetracker/internal/auth"
	apperrors "financetracker/internal/errors"
	"financetracker/internal/model"
)

// TransactionFilter narrows a transaction listing. Zero values match everything.
type TransactionFilter struct {
	CategoryID uint
}

// TransactionRepository defines transaction persistence operations.
type TransactionRepository interface {
	auth.OwnerLookup
	Create(ctx context.Context, txn *model.Transaction) error
	Update(ctx context.Context, txn *model.Transaction) error
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (*model.Transaction, error)
	ListByUser(ctx context.Context, userID uint, filter TransactionFilter) ([]model.Transaction, error)
}

type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new transaction repository.
func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

// Create creates a new transaction record.
func (r *transactionRepository) Create(ctx context.Context, txn *model.Transaction) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(txn).Error
}

// Update saves every column of txn; associations are left untouched.
func (r *transactionRepository) Update(ctx context.Context, txn *model.Transaction) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(txn).Error
}

// Delete removes a transaction.
func (r *transactionRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&model.Transaction{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrTransactionNotFound
	}
	return nil
}

// FindByID finds a transaction by ID with its category loaded.
func (r *transactionRepository) FindByID(ctx context.Context, id uint) (*model.Transaction, error) {
	var txn model.Transaction
	if err := r.db.WithContext(ctx).Preload("Category").First(&txn, id).Error; err != nil {
		return nil, notFound(err, apperrors.ErrTransactionNotFound)
	}
	return &txn, nil
}

// ListByUser returns the user's transactions, newest first.
func (r *transactionRepository) ListByUser(ctx context.Context, userID uint, filter TransactionFilter) ([]model.Transaction, error) {
	q := r.db.WithContext(ctx).Preload("Category").Where("user_id = ?", userID)
	if filter.CategoryID != 0 {
		q = q.Where("category_id = ?", filter.CategoryID)
	}

	var txns []model.Transaction
	if err := q.Order("occurred_at DESC, id DESC").Find(&txns).Error; err != nil {
		return nil, err
	}
	return txns, nil
}

// OwnerOf returns the id of the user owning the transaction.
func (r *transactionRepository) OwnerOf(ctx context.Context, id uint) (uint, error) {
	var txn model.Transaction
	if err := r.db.WithContext(ctx).Select("id", "user_id").First(&txn, id).Error; err != nil {
		return 0, notFound(err, apperrors.ErrTransactionNotFound)
	}
	return txn.UserID, nil
}
