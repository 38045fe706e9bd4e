package creatorconnect

import (
	"context"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"
)

type VerifyEmailMessage struct {
	Token      string `json:"token"`
	OnResponse func(r *VerifyEmailResponse)
}

func (e VerifyEmailMessage) Type() string { return "account.verify_email" }

type VerifyEmailResponse struct {
	Account *AccountSummary `json:"user"`
}

type VerifyEmailHandler struct {
	repo RepositoryManager
}

func NewVerifyEmailHandler(repo RepositoryManager) *VerifyEmailHandler {
	return &VerifyEmailHandler{repo: repo}
}

func (h *VerifyEmailHandler) Execute(ctx context.Context, event VerifyEmailMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during email verification",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *VerifyEmailHandler) execute(ctx context.Context, event VerifyEmailMessage) error {
	token := strings.TrimSpace(event.Token)
	if token == "" {
		return ErrInvalidVerificationToken
	}

	account := &Account{}

	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	err := h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		record, err := h.repo.Accounts().GetByVerificationTokenTx(ctx, tx, token)
		if err != nil {
			if repository.IsRecordNotFound(err) {
				return ErrInvalidVerificationToken
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to look up verification token")
		}

		if record.EmailVerified {
			return ErrAlreadyVerified
		}

		if record.VerificationSentAt != nil {
			expired, err := IsOutsideThresholdPeriod(*record.VerificationSentAt, VerificationTokenTTL)
			if err != nil {
				return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to check token expiration period")
			}
			if expired {
				return ErrInvalidVerificationToken
			}
		}

		if account, err = h.repo.Accounts().MarkVerifiedTx(ctx, tx, record.ID); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to mark account verified")
		}

		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "email verification transaction failed")
	}

	if event.OnResponse != nil {
		summary := account.Summary()
		event.OnResponse(&VerifyEmailResponse{Account: &summary})
	}

	return nil
}

type ResendVerificationMessage struct {
	Email      string `json:"email"`
	OnResponse func(r *ResendVerificationResponse)
}

func (e ResendVerificationMessage) Type() string { return "account.resend_verification" }

type ResendVerificationResponse struct {
	Email string `json:"email"`
}

type ResendVerificationHandler struct {
	repo   RepositoryManager
	mailer Mailer
	logger Logger
}

func NewResendVerificationHandler(repo RepositoryManager, mailer Mailer) *ResendVerificationHandler {
	return &ResendVerificationHandler{
		repo:   repo,
		mailer: mailer,
		logger: defLogger{},
	}
}

func (h *ResendVerificationHandler) WithLogger(logger Logger) *ResendVerificationHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

func (h *ResendVerificationHandler) Execute(ctx context.Context, event ResendVerificationMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during verification resend",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *ResendVerificationHandler) execute(ctx context.Context, event ResendVerificationMessage) error {
	email := strings.TrimSpace(event.Email)
	account := &Account{}

	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	err := h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		record, err := h.repo.Accounts().GetByEmailTx(ctx, tx, email)
		if err != nil {
			if repository.IsRecordNotFound(err) {
				return ErrUserNotFound
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to look up account")
		}

		if record.EmailVerified {
			return ErrAlreadyVerified
		}

		// Rotating the token invalidates any previously mailed link.
		if account, err = h.repo.Accounts().RotateVerificationTokenTx(ctx, tx, record.ID, NewVerificationToken(), time.Now()); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to rotate verification token")
		}

		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "verification resend transaction failed")
	}

	if err := h.mailer.SendVerification(ctx, account.Email, account.VerificationToken); err != nil {
		h.logger.Error("could not deliver verification email", "email", account.Email, "error", err)
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to send verification email")
	}

	if event.OnResponse != nil {
		event.OnResponse(&ResendVerificationResponse{Email: account.Email})
	}

	return nil
}
