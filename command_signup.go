package creatorconnect

import (
	"context"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/uptrace/bun"
)

type SignupMessage struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	AccountType string `json:"accountType"`
	OnResponse  func(r *SignupResponse)
}

func (e SignupMessage) Type() string { return "account.signup" }

type SignupResponse struct {
	Account *AccountSummary `json:"user"`
	Token   string          `json:"token"`
}

type SignupHandler struct {
	repo   RepositoryManager
	tokens TokenService
	mailer Mailer
	logger Logger
}

func NewSignupHandler(repo RepositoryManager, tokens TokenService, mailer Mailer) *SignupHandler {
	return &SignupHandler{
		repo:   repo,
		tokens: tokens,
		mailer: mailer,
		logger: defLogger{},
	}
}

func (h *SignupHandler) WithLogger(logger Logger) *SignupHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

func (h *SignupHandler) Execute(ctx context.Context, event SignupMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during signup",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *SignupHandler) execute(ctx context.Context, event SignupMessage) error {
	if !ValidAccountKind(event.AccountType) {
		return goerrors.New("Invalid account type", goerrors.CategoryValidation).
			WithCode(goerrors.CodeBadRequest)
	}

	account := &Account{}
	// Casing is preserved, the stored email is the lookup key verbatim.
	email := strings.TrimSpace(event.Email)

	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	err := h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		_, err := h.repo.Accounts().GetByEmailTx(ctx, tx, email)
		if err == nil {
			return ErrAccountExists
		}
		if !repository.IsRecordNotFound(err) {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to check for existing account")
		}

		hash, err := HashPassword(event.Password)
		if err != nil {
			var richErr *goerrors.Error
			if goerrors.As(err, &richErr) {
				return goerrors.Wrap(richErr, goerrors.CategoryValidation, "invalid password provided")
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
		}

		now := time.Now()
		account.Email = email
		account.PasswordHash = hash
		account.AccountType = event.AccountType
		account.EmailVerified = false
		account.VerificationToken = NewVerificationToken()
		account.VerificationSentAt = &now

		if id, err := hashid.NewUUID(email); err == nil {
			account.ID = id
		}

		if account, err = h.repo.Accounts().CreateTx(ctx, tx, account); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryConflict, "could not create account")
		}

		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "signup transaction failed")
	}

	// A failed delivery never rolls back the account, the token can be
	// re-sent through the verification endpoint.
	if err := h.mailer.SendVerification(ctx, account.Email, account.VerificationToken); err != nil {
		h.logger.Error("signup could not deliver verification email", "email", account.Email, "error", err)
	}

	token, err := h.tokens.Generate(account)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to issue session token")
	}

	if event.OnResponse != nil {
		summary := account.Summary()
		event.OnResponse(&SignupResponse{
			Account: &summary,
			Token:   token,
		})
	}

	return nil
}
