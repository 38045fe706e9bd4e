package creatorconnect

import (
	"context"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
)

type LoginMessage struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	OnResponse func(r *LoginResponse)
}

func (e LoginMessage) Type() string { return "account.login" }

type LoginResponse struct {
	Account *AccountSummary `json:"user"`
	Token   string          `json:"token"`
}

type LoginHandler struct {
	repo   RepositoryManager
	tokens TokenService
	logger Logger
}

func NewLoginHandler(repo RepositoryManager, tokens TokenService) *LoginHandler {
	return &LoginHandler{
		repo:   repo,
		tokens: tokens,
		logger: defLogger{},
	}
}

func (h *LoginHandler) WithLogger(logger Logger) *LoginHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

func (h *LoginHandler) Execute(ctx context.Context, event LoginMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during login",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *LoginHandler) execute(ctx context.Context, event LoginMessage) error {
	email := strings.TrimSpace(event.Email)

	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	account, err := h.repo.Accounts().GetByEmail(ctx, email)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return ErrAccountNotFound
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to look up account")
	}

	if err := ComparePasswordAndHash(event.Password, account.PasswordHash); err != nil {
		return ErrIncorrectPassword
	}

	// Stamp is informational, a failed write never blocks the login.
	if err := h.repo.Accounts().TrackLogin(ctx, account); err != nil {
		h.logger.Error("login could not record login timestamp", "email", account.Email, "error", err)
	}

	token, err := h.tokens.Generate(account)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to issue session token")
	}

	if event.OnResponse != nil {
		summary := account.Summary()
		event.OnResponse(&LoginResponse{
			Account: &summary,
			Token:   token,
		})
	}

	return nil
}
