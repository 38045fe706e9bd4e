package creatorconnect_test

import (
	"context"
	"database/sql"
	"testing"

	creatorconnect "github.com/creatorconnect/server"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func setupDatabase(t *testing.T) (creatorconnect.RepositoryManager, *bun.DB) {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { db.Close() })

	require.NoError(t, creatorconnect.SetupSchema(context.Background(), db))

	return creatorconnect.NewRepositoryManager(db), db
}

func quietMailer() *MockMailer {
	mailer := &MockMailer{}
	mailer.On("SendVerification", mock.Anything, mock.Anything, mock.Anything).
		Return(nil)
	return mailer
}

func signupAgainstDatabase(t *testing.T, repo creatorconnect.RepositoryManager, email string) *creatorconnect.Account {
	t.Helper()

	handler := creatorconnect.NewSignupHandler(repo, signupTokenService(), quietMailer()).
		WithLogger(testLogger{})

	err := handler.Execute(context.Background(), creatorconnect.SignupMessage{
		Email:       email,
		Password:    "password123",
		AccountType: creatorconnect.KindContentCreator,
	})
	require.NoError(t, err)

	account, err := repo.Accounts().GetByEmail(context.Background(), email)
	require.NoError(t, err)

	return account
}

func TestDatabaseSignupEnforcesUniqueEmail(t *testing.T) {
	ctx := context.Background()
	repo, db := setupDatabase(t)

	account := signupAgainstDatabase(t, repo, "jane@example.com")
	assert.False(t, account.EmailVerified)
	assert.NotEmpty(t, account.VerificationToken)
	require.NotNil(t, account.VerificationSentAt)

	handler := creatorconnect.NewSignupHandler(repo, signupTokenService(), quietMailer()).
		WithLogger(testLogger{})
	err := handler.Execute(ctx, creatorconnect.SignupMessage{
		Email:       "jane@example.com",
		Password:    "other-password",
		AccountType: creatorconnect.KindContentCreator,
	})
	require.Error(t, err)
	assert.True(t, goerrors.Is(err, creatorconnect.ErrAccountExists))

	// The constraint holds even when the existence check is bypassed.
	dup := &creatorconnect.Account{
		ID:           uuid.New(),
		Email:        "jane@example.com",
		PasswordHash: "x",
		AccountType:  creatorconnect.KindContentCreator,
	}
	_, err = db.NewInsert().Model(dup).Exec(ctx)
	require.Error(t, err)

	count, err := db.NewSelect().Model((*creatorconnect.Account)(nil)).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestDatabaseVerificationConsumesToken(t *testing.T) {
	ctx := context.Background()
	repo, _ := setupDatabase(t)

	account := signupAgainstDatabase(t, repo, "jane@example.com")
	token := account.VerificationToken

	handler := creatorconnect.NewVerifyEmailHandler(repo)
	require.NoError(t, handler.Execute(ctx, creatorconnect.VerifyEmailMessage{Token: token}))

	verified, err := repo.Accounts().GetByEmail(ctx, "jane@example.com")
	require.NoError(t, err)
	assert.True(t, verified.EmailVerified)
	assert.Empty(t, verified.VerificationToken)
	assert.Nil(t, verified.VerificationSentAt)

	err = handler.Execute(ctx, creatorconnect.VerifyEmailMessage{Token: token})
	require.Error(t, err)
	assert.True(t, goerrors.Is(err, creatorconnect.ErrInvalidVerificationToken))
}

func TestDatabaseResendRotatesToken(t *testing.T) {
	ctx := context.Background()
	repo, _ := setupDatabase(t)

	account := signupAgainstDatabase(t, repo, "jane@example.com")
	oldToken := account.VerificationToken

	resend := creatorconnect.NewResendVerificationHandler(repo, quietMailer()).
		WithLogger(testLogger{})
	require.NoError(t, resend.Execute(ctx, creatorconnect.ResendVerificationMessage{Email: "jane@example.com"}))

	rotated, err := repo.Accounts().GetByEmail(ctx, "jane@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, rotated.VerificationToken)
	assert.NotEqual(t, oldToken, rotated.VerificationToken)

	verify := creatorconnect.NewVerifyEmailHandler(repo)

	err = verify.Execute(ctx, creatorconnect.VerifyEmailMessage{Token: oldToken})
	require.Error(t, err)
	assert.True(t, goerrors.Is(err, creatorconnect.ErrInvalidVerificationToken))

	require.NoError(t, verify.Execute(ctx, creatorconnect.VerifyEmailMessage{Token: rotated.VerificationToken}))
}

func TestDatabaseLoginStampsLastLogin(t *testing.T) {
	ctx := context.Background()
	repo, _ := setupDatabase(t)

	account := signupAgainstDatabase(t, repo, "jane@example.com")
	require.Nil(t, account.LastLoginAt)

	tokens := signupTokenService()
	login := creatorconnect.NewLoginHandler(repo, tokens).WithLogger(testLogger{})

	var res *creatorconnect.LoginResponse
	err := login.Execute(ctx, creatorconnect.LoginMessage{
		Email:    "jane@example.com",
		Password: "password123",
		OnResponse: func(r *creatorconnect.LoginResponse) {
			res = r
		},
	})
	require.NoError(t, err)
	require.NotNil(t, res)

	claims, err := tokens.Validate(res.Token)
	require.NoError(t, err)
	assert.Equal(t, account.ID.String(), claims.UserID())

	stamped, err := repo.Accounts().GetByEmail(ctx, "jane@example.com")
	require.NoError(t, err)
	assert.NotNil(t, stamped.LastLoginAt)
}

func TestDatabaseProvisioningBacklinksAccount(t *testing.T) {
	ctx := context.Background()
	repo, _ := setupDatabase(t)

	account := signupAgainstDatabase(t, repo, "jane@example.com")

	handler := creatorconnect.NewProvisionProfileHandler(repo, creatorconnect.PlaceholderUploadStore{}).
		WithLogger(testLogger{})

	var res *creatorconnect.ProvisionProfileResponse
	err := handler.Execute(ctx, creatorconnect.ProvisionProfileMessage{
		AccountType: creatorconnect.KindContentCreator,
		UserID:      account.ID.String(),
		Form: creatorconnect.ProfileForm{
			CreatorName:           "Jane Doe",
			Bio:                   "Food and travel videos",
			ContentCategoriesJSON: `["food-drink", "travel"]`,
			FollowerRange:         "mid-tier",
		},
		OnResponse: func(r *creatorconnect.ProvisionProfileResponse) {
			res = r
		},
	})
	require.NoError(t, err)
	require.NotNil(t, res)
	require.NotEmpty(t, res.Slug)

	profile, err := repo.Creators().GetBySlug(ctx, res.Slug)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", profile.CreatorName)
	assert.Equal(t, []string{"food-drink", "travel"}, profile.ContentCategories)
	assert.Equal(t, "mid-tier", profile.FollowerRange.Key)

	backlinked, err := repo.Accounts().GetByEmail(ctx, "jane@example.com")
	require.NoError(t, err)
	assert.Equal(t, res.Slug, backlinked.ProfileReference)
}

func TestDatabaseSeedsCategories(t *testing.T) {
	ctx := context.Background()
	repo, db := setupDatabase(t)

	// Seeding twice must not duplicate rows.
	require.NoError(t, creatorconnect.SetupSchema(ctx, db))

	records, err := repo.Categories().List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 9)

	slugs := make([]string, 0, len(records))
	for _, record := range records {
		slugs = append(slugs, record.Slug)
	}
	assert.Contains(t, slugs, "food-drink")
	assert.Contains(t, slugs, "tech")
}
