package creatorconnect_test

import (
	"context"
	"database/sql"
	"time"

	creatorconnect "github.com/creatorconnect/server"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/uptrace/bun"
)

type testLogger struct{}

func (testLogger) Debug(string, ...any) {}
func (testLogger) Info(string, ...any)  {}
func (testLogger) Error(string, ...any) {}

// MockRepositoryManager implements creatorconnect.RepositoryManager
type MockRepositoryManager struct {
	mock.Mock
}

func (m *MockRepositoryManager) Validate() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockRepositoryManager) MustValidate() {
	m.Called()
}

// RunInTx invokes the closure with a zero bun.Tx so handlers exercise
// their transactional path, and propagates the closure's error the way
// a rolled-back transaction would.
func (m *MockRepositoryManager) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	args := m.Called(ctx, opts, f)
	if err := args.Error(0); err != nil {
		return err
	}
	var tx bun.Tx
	return f(ctx, tx)
}

func (m *MockRepositoryManager) Accounts() creatorconnect.Accounts {
	args := m.Called()
	return args.Get(0).(creatorconnect.Accounts)
}

func (m *MockRepositoryManager) Creators() creatorconnect.Creators {
	args := m.Called()
	return args.Get(0).(creatorconnect.Creators)
}

func (m *MockRepositoryManager) Brands() creatorconnect.Brands {
	args := m.Called()
	return args.Get(0).(creatorconnect.Brands)
}

func (m *MockRepositoryManager) Categories() creatorconnect.Categories {
	args := m.Called()
	return args.Get(0).(creatorconnect.Categories)
}

func expectRunInTx(repo *MockRepositoryManager) *mock.Call {
	return repo.On("RunInTx", mock.Anything, (*sql.TxOptions)(nil), mock.Anything).
		Return(nil)
}

// MockAccounts implements creatorconnect.Accounts
type MockAccounts struct {
	mock.Mock
}

func (m *MockAccounts) GetByID(ctx context.Context, id string, criteria ...repository.SelectCriteria) (*creatorconnect.Account, error) {
	args := m.Called(ctx, id)
	return accountResult(args)
}

func (m *MockAccounts) GetByEmail(ctx context.Context, email string, criteria ...repository.SelectCriteria) (*creatorconnect.Account, error) {
	args := m.Called(ctx, email)
	return accountResult(args)
}

func (m *MockAccounts) GetByEmailTx(ctx context.Context, tx bun.IDB, email string, criteria ...repository.SelectCriteria) (*creatorconnect.Account, error) {
	args := m.Called(ctx, tx, email)
	return accountResult(args)
}

func (m *MockAccounts) GetByVerificationToken(ctx context.Context, token string) (*creatorconnect.Account, error) {
	args := m.Called(ctx, token)
	return accountResult(args)
}

func (m *MockAccounts) GetByVerificationTokenTx(ctx context.Context, tx bun.IDB, token string) (*creatorconnect.Account, error) {
	args := m.Called(ctx, tx, token)
	return accountResult(args)
}

// Create echoes the input record when no explicit return is configured
func (m *MockAccounts) Create(ctx context.Context, record *creatorconnect.Account, criteria ...repository.InsertCriteria) (*creatorconnect.Account, error) {
	args := m.Called(ctx, record)
	return createdAccount(args, record)
}

func (m *MockAccounts) CreateTx(ctx context.Context, tx bun.IDB, record *creatorconnect.Account, criteria ...repository.InsertCriteria) (*creatorconnect.Account, error) {
	args := m.Called(ctx, tx, record)
	return createdAccount(args, record)
}

func createdAccount(args mock.Arguments, record *creatorconnect.Account) (*creatorconnect.Account, error) {
	if created, ok := args.Get(0).(*creatorconnect.Account); ok {
		return created, args.Error(1)
	}
	if args.Error(1) == nil {
		return record, nil
	}
	return nil, args.Error(1)
}

func (m *MockAccounts) MarkVerifiedTx(ctx context.Context, tx bun.IDB, id uuid.UUID) (*creatorconnect.Account, error) {
	args := m.Called(ctx, tx, id)
	return accountResult(args)
}

func (m *MockAccounts) RotateVerificationTokenTx(ctx context.Context, tx bun.IDB, id uuid.UUID, token string, sentAt time.Time) (*creatorconnect.Account, error) {
	args := m.Called(ctx, tx, id, token, sentAt)
	return accountResult(args)
}

func (m *MockAccounts) SetProfileReferenceTx(ctx context.Context, tx bun.IDB, id uuid.UUID, reference string) (*creatorconnect.Account, error) {
	args := m.Called(ctx, tx, id, reference)
	return accountResult(args)
}

func (m *MockAccounts) TrackLogin(ctx context.Context, account *creatorconnect.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccounts) TrackLoginTx(ctx context.Context, tx bun.IDB, account *creatorconnect.Account) error {
	args := m.Called(ctx, tx, account)
	return args.Error(0)
}

func accountResult(args mock.Arguments) (*creatorconnect.Account, error) {
	if record, ok := args.Get(0).(*creatorconnect.Account); ok {
		return record, args.Error(1)
	}
	return nil, args.Error(1)
}

// MockCreators implements creatorconnect.Creators
type MockCreators struct {
	mock.Mock
}

func (m *MockCreators) GetBySlug(ctx context.Context, slug string) (*creatorconnect.CreatorProfile, error) {
	args := m.Called(ctx, slug)
	return creatorResult(args)
}

func (m *MockCreators) GetBySlugTx(ctx context.Context, tx bun.IDB, slug string) (*creatorconnect.CreatorProfile, error) {
	args := m.Called(ctx, tx, slug)
	return creatorResult(args)
}

func (m *MockCreators) Create(ctx context.Context, record *creatorconnect.CreatorProfile, criteria ...repository.InsertCriteria) (*creatorconnect.CreatorProfile, error) {
	args := m.Called(ctx, record)
	return createdCreator(args, record)
}

func (m *MockCreators) CreateTx(ctx context.Context, tx bun.IDB, record *creatorconnect.CreatorProfile, criteria ...repository.InsertCriteria) (*creatorconnect.CreatorProfile, error) {
	args := m.Called(ctx, tx, record)
	return createdCreator(args, record)
}

func createdCreator(args mock.Arguments, record *creatorconnect.CreatorProfile) (*creatorconnect.CreatorProfile, error) {
	if created, ok := args.Get(0).(*creatorconnect.CreatorProfile); ok {
		return created, args.Error(1)
	}
	if args.Error(1) == nil {
		return record, nil
	}
	return nil, args.Error(1)
}

func (m *MockCreators) SlugExists(ctx context.Context, slug string) (bool, error) {
	args := m.Called(ctx, slug)
	return args.Bool(0), args.Error(1)
}

func creatorResult(args mock.Arguments) (*creatorconnect.CreatorProfile, error) {
	if record, ok := args.Get(0).(*creatorconnect.CreatorProfile); ok {
		return record, args.Error(1)
	}
	return nil, args.Error(1)
}

// MockBrands implements creatorconnect.Brands
type MockBrands struct {
	mock.Mock
}

func (m *MockBrands) GetBySlug(ctx context.Context, slug string) (*creatorconnect.BrandProfile, error) {
	args := m.Called(ctx, slug)
	return brandResult(args)
}

func (m *MockBrands) GetBySlugTx(ctx context.Context, tx bun.IDB, slug string) (*creatorconnect.BrandProfile, error) {
	args := m.Called(ctx, tx, slug)
	return brandResult(args)
}

func (m *MockBrands) Create(ctx context.Context, record *creatorconnect.BrandProfile, criteria ...repository.InsertCriteria) (*creatorconnect.BrandProfile, error) {
	args := m.Called(ctx, record)
	return createdBrand(args, record)
}

func (m *MockBrands) CreateTx(ctx context.Context, tx bun.IDB, record *creatorconnect.BrandProfile, criteria ...repository.InsertCriteria) (*creatorconnect.BrandProfile, error) {
	args := m.Called(ctx, tx, record)
	return createdBrand(args, record)
}

func createdBrand(args mock.Arguments, record *creatorconnect.BrandProfile) (*creatorconnect.BrandProfile, error) {
	if created, ok := args.Get(0).(*creatorconnect.BrandProfile); ok {
		return created, args.Error(1)
	}
	if args.Error(1) == nil {
		return record, nil
	}
	return nil, args.Error(1)
}

func (m *MockBrands) SlugExists(ctx context.Context, slug string) (bool, error) {
	args := m.Called(ctx, slug)
	return args.Bool(0), args.Error(1)
}

func brandResult(args mock.Arguments) (*creatorconnect.BrandProfile, error) {
	if record, ok := args.Get(0).(*creatorconnect.BrandProfile); ok {
		return record, args.Error(1)
	}
	return nil, args.Error(1)
}

// MockCategories implements creatorconnect.Categories
type MockCategories struct {
	mock.Mock
}

func (m *MockCategories) List(ctx context.Context) ([]*creatorconnect.Category, error) {
	args := m.Called(ctx)
	if records, ok := args.Get(0).([]*creatorconnect.Category); ok {
		return records, args.Error(1)
	}
	return nil, args.Error(1)
}

// MockMailer implements creatorconnect.Mailer
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) SendVerification(ctx context.Context, to, token string) error {
	args := m.Called(ctx, to, token)
	return args.Error(0)
}

func (m *MockMailer) SendContact(ctx context.Context, msg creatorconnect.ContactMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}
