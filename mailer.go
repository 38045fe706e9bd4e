package creatorconnect

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/django/v3"
	goerrors "github.com/goliatone/go-errors"
	"github.com/resend/resend-go/v2"
	"github.com/sethvargo/go-retry"
)

//go:embed templates/emails/*.html
var emailTemplatesFS embed.FS

const (
	verificationSubject   = "Verify your email address"
	contactSubjectPrefix  = "New Partnership Opportunity: "
	verificationTemplate  = "verification"
	contactTemplate       = "contact"
	deliveryRetryAttempts = 3
)

// ResendMailer delivers transactional email through the Resend API,
// rendering bodies with the django template engine.
type ResendMailer struct {
	client *resend.Client
	engine *django.Engine
	from   string
	appURL string
	logger Logger
}

var _ Mailer = (*ResendMailer)(nil)

func NewResendMailer(apiKey, from, appURL string, logger Logger) (*ResendMailer, error) {
	if logger == nil {
		logger = defLogger{}
	}

	sub, err := fs.Sub(emailTemplatesFS, "templates/emails")
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to mount email templates")
	}

	engine := django.NewFileSystem(http.FS(sub), ".html")
	if err := engine.Load(); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to load email templates")
	}

	return &ResendMailer{
		client: resend.NewClient(apiKey),
		engine: engine,
		from:   from,
		appURL: strings.TrimRight(appURL, "/"),
		logger: logger,
	}, nil
}

func (m *ResendMailer) SendVerification(ctx context.Context, to, token string) error {
	verificationURL := fmt.Sprintf("%s/auth/verify-email?token=%s", m.appURL, token)

	html, err := m.render(verificationTemplate, fiber.Map{
		"verification_url": verificationURL,
	})
	if err != nil {
		return err
	}

	return m.deliver(ctx, &resend.SendEmailRequest{
		From:    m.from,
		To:      []string{to},
		Subject: verificationSubject,
		Html:    html,
	})
}

func (m *ResendMailer) SendContact(ctx context.Context, msg ContactMessage) error {
	html, err := m.render(contactTemplate, fiber.Map{
		"company_name": msg.SenderName,
		"sender_email": msg.SenderEmail,
		"subject":      msg.Subject,
		"message":      msg.Body,
	})
	if err != nil {
		return err
	}

	return m.deliver(ctx, &resend.SendEmailRequest{
		From:    m.from,
		To:      []string{msg.CreatorEmail},
		ReplyTo: msg.SenderEmail,
		Subject: contactSubjectPrefix + msg.Subject,
		Html:    html,
	})
}

func (m *ResendMailer) render(name string, binding fiber.Map) (string, error) {
	var buf bytes.Buffer
	if err := m.engine.Render(&buf, name, binding); err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to render email template")
	}
	return buf.String(), nil
}

func (m *ResendMailer) deliver(ctx context.Context, params *resend.SendEmailRequest) error {
	backoff := retry.WithMaxRetries(deliveryRetryAttempts, retry.NewExponential(500*time.Millisecond))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		if _, err := m.client.Emails.SendWithContext(ctx, params); err != nil {
			m.logger.Debug("email delivery attempt failed", "to", params.To, "error", err)
			return retry.RetryableError(err)
		}
		return nil
	})

	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "email delivery failed")
	}

	return nil
}

// ConsoleMailer prints outgoing mail instead of delivering it, used
// when no API key is configured.
type ConsoleMailer struct {
	AppURL string
}

var _ Mailer = ConsoleMailer{}

func (m ConsoleMailer) SendVerification(ctx context.Context, to, token string) error {
	fmt.Println("====== SENDING EMAIL NOTIFICATION =======")
	fmt.Printf("to: %s\n", to)
	fmt.Printf(
		"link: %s/auth/verify-email?token=%s\n",
		strings.TrimRight(m.AppURL, "/"),
		token,
	)
	return nil
}

func (m ConsoleMailer) SendContact(ctx context.Context, msg ContactMessage) error {
	fmt.Println("====== SENDING EMAIL NOTIFICATION =======")
	fmt.Printf("to: %s\n", msg.CreatorEmail)
	fmt.Printf("reply-to: %s\n", msg.SenderEmail)
	fmt.Printf("subject: %s%s\n", contactSubjectPrefix, msg.Subject)
	return nil
}
