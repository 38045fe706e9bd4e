package creatorconnect

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
)

type ContactCreatorMessage struct {
	CreatorID   string `json:"creatorId"`
	Subject     string `json:"subject"`
	Message     string `json:"message"`
	CompanyName string `json:"companyName"`
	Email       string `json:"email"`
	OnResponse  func(r *ContactCreatorResponse)
}

func (e ContactCreatorMessage) Type() string { return "creator.contact" }

type ContactCreatorResponse struct {
	Success bool `json:"success"`
}

type ContactCreatorHandler struct {
	repo   RepositoryManager
	mailer Mailer
	logger Logger
}

func NewContactCreatorHandler(repo RepositoryManager, mailer Mailer) *ContactCreatorHandler {
	return &ContactCreatorHandler{
		repo:   repo,
		mailer: mailer,
		logger: defLogger{},
	}
}

func (h *ContactCreatorHandler) WithLogger(logger Logger) *ContactCreatorHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

func (h *ContactCreatorHandler) Execute(ctx context.Context, event ContactCreatorMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during creator contact",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *ContactCreatorHandler) execute(ctx context.Context, event ContactCreatorMessage) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	creator, err := h.repo.Creators().GetBySlug(ctx, event.CreatorID)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return ErrCreatorNotFound
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to look up creator")
	}

	msg := ContactMessage{
		CreatorSlug:  creator.Slug,
		CreatorEmail: creator.Email,
		SenderName:   event.CompanyName,
		SenderEmail:  event.Email,
		Subject:      event.Subject,
		Body:         event.Message,
	}

	if err := h.mailer.SendContact(ctx, msg); err != nil {
		h.logger.Error("could not deliver partnership email", "creator", creator.Slug, "error", err)
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to send message")
	}

	if event.OnResponse != nil {
		event.OnResponse(&ContactCreatorResponse{Success: true})
	}

	return nil
}
