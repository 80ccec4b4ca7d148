package repository

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"financetracker/internal/auth"
	"financetracker/internal/db"
	apperrors "financetracker/internal/errors"
	"financetracker/internal/model"
)

type RepositorySuite struct {
	suite.Suite
	db           *gorm.DB
	ctx          context.Context
	users        UserRepository
	categories   CategoryRepository
	transactions TransactionRepository
	identities   auth.IdentityStore
}

func TestRepositorySuite(t *testing.T) {
	suite.Run(t, new(RepositorySuite))
}

func (s *RepositorySuite) SetupTest() {
	gdb, err := db.NewSQLite(":memory:")
	s.Require().NoError(err)
	s.Require().NoError(db.Migrate(gdb))

	s.db = gdb
	s.ctx = context.Background()
	s.users = NewUserRepository(gdb)
	s.categories = NewCategoryRepository(gdb)
	s.transactions = NewTransactionRepository(gdb)
	s.identities = NewIdentityStore(gdb)
}

func (s *RepositorySuite) TearDownTest() {
	sqlDB, err := s.db.DB()
	s.Require().NoError(err)
	s.NoError(sqlDB.Close())
}

func (s *RepositorySuite) createUser(username string) *model.User {
	u := &model.User{Username: username, Email: username + "@example.com", PasswordHash: "x"}
	s.Require().NoError(s.users.Create(s.ctx, u))
	return u
}

func (s *RepositorySuite) createCategory(name string) *model.Category {
	c := &model.Category{Name: name}
	s.Require().NoError(s.categories.Create(s.ctx, c))
	return c
}

func (s *RepositorySuite) createTransaction(owner *model.User, cat *model.Category, amount string, at time.Time) *model.Transaction {
	txn := &model.Transaction{
		Description: "entry",
		Amount:      decimal.RequireFromString(amount),
		OccurredAt:  at,
		UserID:      owner.ID,
		CategoryID:  cat.ID,
	}
	s.Require().NoError(s.transactions.Create(s.ctx, txn))
	return txn
}

func (s *RepositorySuite) TestUser_UniqueConstraints() {
	s.createUser("alice")

	err := s.users.Create(s.ctx, &model.User{Username: "alice", Email: "other@example.com", PasswordHash: "x"})
	s.ErrorIs(err, apperrors.ErrUsernameTaken)

	err = s.users.Create(s.ctx, &model.User{Username: "alice2", Email: "alice@example.com", PasswordHash: "x"})
	s.ErrorIs(err, apperrors.ErrEmailTaken)
}

func (s *RepositorySuite) TestUser_TranslatedDuplicateResolvesColumn() {
	alice := s.createUser("alice")
	tx := s.db.WithContext(s.ctx)

	err := translateUserWriteError(tx, &model.User{Username: "alice", Email: "new@example.com"}, gorm.ErrDuplicatedKey)
	s.ErrorIs(err, apperrors.ErrUsernameTaken)

	err = translateUserWriteError(tx, &model.User{Username: "carol", Email: "alice@example.com"}, gorm.ErrDuplicatedKey)
	s.ErrorIs(err, apperrors.ErrEmailTaken)

	err = translateUserWriteError(tx, alice, gorm.ErrDuplicatedKey)
	s.ErrorIs(err, apperrors.ErrConflict)
	s.NotErrorIs(err, apperrors.ErrUsernameTaken)
}

func (s *RepositorySuite) TestUser_Lookups() {
	alice := s.createUser("alice")

	byName, err := s.users.FindByUsername(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(alice.ID, byName.ID)

	byEmail, err := s.users.FindByEmail(s.ctx, "alice@example.com")
	s.Require().NoError(err)
	s.Equal(alice.ID, byEmail.ID)

	_, err = s.users.FindByID(s.ctx, alice.ID+100)
	s.ErrorIs(err, apperrors.ErrUserNotFound)
}

func (s *RepositorySuite) TestUser_DeleteCascadesTransactions() {
	alice := s.createUser("alice")
	bob := s.createUser("bob")
	food := s.createCategory("Food")
	s.createTransaction(alice, food, "-12.50", time.Now())
	bobs := s.createTransaction(bob, food, "-3.00", time.Now())

	s.Require().NoError(s.users.Delete(s.ctx, alice.ID))

	_, err := s.users.FindByID(s.ctx, alice.ID)
	s.ErrorIs(err, apperrors.ErrUserNotFound)

	var remaining int64
	s.Require().NoError(s.db.Model(&model.Transaction{}).Count(&remaining).Error)
	s.Equal(int64(1), remaining)

	_, err = s.transactions.FindByID(s.ctx, bobs.ID)
	s.NoError(err)

	s.ErrorIs(s.users.Delete(s.ctx, alice.ID), apperrors.ErrUserNotFound)
}

func (s *RepositorySuite) TestIdentityStore() {
	alice := s.createUser("alice")

	id, err := s.identities.FindByUsername(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(auth.Identity{ID: alice.ID, Username: "alice"}, *id)

	id, err = s.identities.FindByID(s.ctx, alice.ID)
	s.Require().NoError(err)
	s.Equal("alice", id.Username)

	_, err = s.identities.FindByUsername(s.ctx, "ghost")
	s.ErrorIs(err, auth.ErrIdentityNotFound)
}

func (s *RepositorySuite) TestCategory_DeleteInUse() {
	alice := s.createUser("alice")
	food := s.createCategory("Food")
	rent := s.createCategory("Rent")
	s.createTransaction(alice, food, "-8.00", time.Now())

	s.ErrorIs(s.categories.Delete(s.ctx, food.ID), apperrors.ErrCategoryInUse)
	s.NoError(s.categories.Delete(s.ctx, rent.ID))
	s.ErrorIs(s.categories.Delete(s.ctx, rent.ID), apperrors.ErrCategoryNotFound)

	list, err := s.categories.List(s.ctx)
	s.Require().NoError(err)
	s.Len(list, 1)
	s.Equal("Food", list[0].Name)
}

func (s *RepositorySuite) TestCategory_FindByName() {
	s.createCategory("Salary")

	found, err := s.categories.FindByName(s.ctx, "Salary")
	s.Require().NoError(err)
	s.Equal("Salary", found.Name)

	_, err = s.categories.FindByName(s.ctx, "Missing")
	s.ErrorIs(err, apperrors.ErrCategoryNotFound)
}

func (s *RepositorySuite) TestTransaction_ListByUserNewestFirst() {
	alice := s.createUser("alice")
	bob := s.createUser("bob")
	food := s.createCategory("Food")
	rent := s.createCategory("Rent")

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	older := s.createTransaction(alice, food, "-5.00", base)
	newer := s.createTransaction(alice, rent, "-900.00", base.Add(24*time.Hour))
	s.createTransaction(bob, food, "-1.00", base)

	txns, err := s.transactions.ListByUser(s.ctx, alice.ID, TransactionFilter{})
	s.Require().NoError(err)
	s.Require().Len(txns, 2)
	s.Equal(newer.ID, txns[0].ID)
	s.Equal(older.ID, txns[1].ID)
	s.Equal("Rent", txns[0].Category.Name)

	filtered, err := s.transactions.ListByUser(s.ctx, alice.ID, TransactionFilter{CategoryID: food.ID})
	s.Require().NoError(err)
	s.Require().Len(filtered, 1)
	s.Equal(older.ID, filtered[0].ID)
}

func (s *RepositorySuite) TestTransaction_UpdateAndOwner() {
	alice := s.createUser("alice")
	food := s.createCategory("Food")
	rent := s.createCategory("Rent")
	txn := s.createTransaction(alice, food, "-5.00", time.Now())

	loaded, err := s.transactions.FindByID(s.ctx, txn.ID)
	s.Require().NoError(err)
	loaded.CategoryID = rent.ID
	loaded.Amount = decimal.RequireFromString("-7.25")
	s.Require().NoError(s.transactions.Update(s.ctx, loaded))

	reloaded, err := s.transactions.FindByID(s.ctx, txn.ID)
	s.Require().NoError(err)
	s.Equal(rent.ID, reloaded.CategoryID)
	s.Equal("Rent", reloaded.Category.Name)
	s.True(decimal.RequireFromString("-7.25").Equal(reloaded.Amount))

	owner, err := s.transactions.OwnerOf(s.ctx, txn.ID)
	s.Require().NoError(err)
	s.Equal(alice.ID, owner)

	_, err = s.transactions.OwnerOf(s.ctx, txn.ID+50)
	s.ErrorIs(err, apperrors.ErrTransactionNotFound)

	s.NoError(s.transactions.Delete(s.ctx, txn.ID))
	s.ErrorIs(s.transactions.Delete(s.ctx, txn.ID), apperrors.ErrTransactionNotFound)
}
