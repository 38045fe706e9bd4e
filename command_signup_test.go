package creatorconnect_test

import (
	"context"
	"errors"
	"testing"

	creatorconnect "github.com/creatorconnect/server"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func signupTokenService() creatorconnect.TokenService {
	return creatorconnect.NewTokenService([]byte("test-signing-key"), 168, "creatorconnect", nil, nil)
}

func TestSignupHandlerCreatesUnverifiedAccount(t *testing.T) {
	ctx := context.Background()
	repo := &MockRepositoryManager{}
	accounts := &MockAccounts{}
	mailer := &MockMailer{}
	tokens := signupTokenService()

	repo.On("Accounts").Return(accounts)
	expectRunInTx(repo).Once()

	accounts.On("GetByEmailTx", mock.Anything, mock.Anything, "New@Example.com").
		Return(nil, repository.NewRecordNotFound()).Once()

	var created *creatorconnect.Account
	accounts.On("CreateTx", mock.Anything, mock.Anything, mock.AnythingOfType("*creatorconnect.Account")).
		Return(nil, nil).
		Run(func(args mock.Arguments) {
			created = args.Get(2).(*creatorconnect.Account)
		}).Once()

	mailer.On("SendVerification", mock.Anything, "New@Example.com", mock.AnythingOfType("string")).
		Return(nil).Once()

	handler := creatorconnect.NewSignupHandler(repo, tokens, mailer).WithLogger(testLogger{})

	var res *creatorconnect.SignupResponse
	err := handler.Execute(ctx, creatorconnect.SignupMessage{
		Email:       "  New@Example.com  ",
		Password:    "password123",
		AccountType: creatorconnect.KindContentCreator,
		OnResponse: func(r *creatorconnect.SignupResponse) {
			res = r
		},
	})

	require.NoError(t, err)
	require.NotNil(t, res)
	require.NotNil(t, created)

	// Trimmed, casing stored verbatim.
	assert.Equal(t, "New@Example.com", created.Email)
	assert.False(t, created.EmailVerified)
	assert.NotEmpty(t, created.VerificationToken)
	assert.NotNil(t, created.VerificationSentAt)
	assert.NotEqual(t, "password123", created.PasswordHash)
	assert.NoError(t, creatorconnect.ComparePasswordAndHash("password123", created.PasswordHash))

	assert.Equal(t, "New@Example.com", res.Account.Email)
	assert.False(t, res.Account.EmailVerified)

	claims, err := tokens.Validate(res.Token)
	require.NoError(t, err)
	assert.Equal(t, created.ID.String(), claims.UserID())
	assert.Equal(t, creatorconnect.KindContentCreator, claims.AccountType())

	repo.AssertExpectations(t)
	accounts.AssertExpectations(t)
	mailer.AssertExpectations(t)
}

func TestSignupHandlerRejectsDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	repo := &MockRepositoryManager{}
	accounts := &MockAccounts{}
	mailer := &MockMailer{}

	repo.On("Accounts").Return(accounts)
	expectRunInTx(repo).Once()

	accounts.On("GetByEmailTx", mock.Anything, mock.Anything, "taken@example.com").
		Return(&creatorconnect.Account{Email: "taken@example.com"}, nil).Once()

	handler := creatorconnect.NewSignupHandler(repo, signupTokenService(), mailer).WithLogger(testLogger{})

	err := handler.Execute(ctx, creatorconnect.SignupMessage{
		Email:       "taken@example.com",
		Password:    "password123",
		AccountType: creatorconnect.KindProductCreator,
	})

	require.Error(t, err)
	assert.True(t, goerrors.Is(err, creatorconnect.ErrAccountExists))
	assert.Equal(t, 409, creatorconnect.HTTPStatus(err))

	mailer.AssertNotCalled(t, "SendVerification", mock.Anything, mock.Anything, mock.Anything)
	repo.AssertExpectations(t)
	accounts.AssertExpectations(t)
}

func TestSignupHandlerSurvivesMailerFailure(t *testing.T) {
	ctx := context.Background()
	repo := &MockRepositoryManager{}
	accounts := &MockAccounts{}
	mailer := &MockMailer{}
	tokens := signupTokenService()

	repo.On("Accounts").Return(accounts)
	expectRunInTx(repo).Once()

	accounts.On("GetByEmailTx", mock.Anything, mock.Anything, "new@example.com").
		Return(nil, repository.NewRecordNotFound()).Once()
	accounts.On("CreateTx", mock.Anything, mock.Anything, mock.AnythingOfType("*creatorconnect.Account")).
		Return(nil, nil).Once()

	mailer.On("SendVerification", mock.Anything, "new@example.com", mock.AnythingOfType("string")).
		Return(errors.New("smtp unavailable")).Once()

	handler := creatorconnect.NewSignupHandler(repo, tokens, mailer).WithLogger(testLogger{})

	var res *creatorconnect.SignupResponse
	err := handler.Execute(ctx, creatorconnect.SignupMessage{
		Email:       "new@example.com",
		Password:    "password123",
		AccountType: creatorconnect.KindContentCreator,
		OnResponse: func(r *creatorconnect.SignupResponse) {
			res = r
		},
	})

	require.NoError(t, err)
	require.NotNil(t, res)
	assert.NotEmpty(t, res.Token)

	repo.AssertExpectations(t)
	accounts.AssertExpectations(t)
	mailer.AssertExpectations(t)
}

func TestSignupHandlerRejectsUnknownAccountType(t *testing.T) {
	ctx := context.Background()
	repo := &MockRepositoryManager{}
	mailer := &MockMailer{}

	handler := creatorconnect.NewSignupHandler(repo, signupTokenService(), mailer).WithLogger(testLogger{})

	err := handler.Execute(ctx, creatorconnect.SignupMessage{
		Email:       "new@example.com",
		Password:    "password123",
		AccountType: "moderator",
	})

	require.Error(t, err)
	assert.Equal(t, 400, creatorconnect.HTTPStatus(err))
	assert.Contains(t, err.Error(), "Invalid account type")

	repo.AssertNotCalled(t, "RunInTx", mock.Anything, mock.Anything, mock.Anything)
	mailer.AssertNotCalled(t, "SendVerification", mock.Anything, mock.Anything, mock.Anything)
}

func TestSignupHandlerRejectsEmptyPassword(t *testing.T) {
	ctx := context.Background()
	repo := &MockRepositoryManager{}
	accounts := &MockAccounts{}
	mailer := &MockMailer{}

	repo.On("Accounts").Return(accounts)
	expectRunInTx(repo).Once()

	accounts.On("GetByEmailTx", mock.Anything, mock.Anything, "new@example.com").
		Return(nil, repository.NewRecordNotFound()).Once()

	handler := creatorconnect.NewSignupHandler(repo, signupTokenService(), mailer).WithLogger(testLogger{})

	err := handler.Execute(ctx, creatorconnect.SignupMessage{
		Email:       "new@example.com",
		Password:    "",
		AccountType: creatorconnect.KindContentCreator,
	})

	require.Error(t, err)
	assert.Equal(t, 400, creatorconnect.HTTPStatus(err))

	accounts.AssertNotCalled(t, "CreateTx", mock.Anything, mock.Anything, mock.Anything)
}
