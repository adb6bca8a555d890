package sendgrid

import (
	"context"
	"fmt"

	"github.com/revorbit/auto-frames/internal/models"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type EmailService interface {
	Send(ctx context.Context, req *models.EmailNotificationRequest) error
}

type Option func(*emailService)

// WithBaseURL replaces the full mail/send endpoint URL. Empty keeps the default.
func WithBaseURL(url string) Option {
	return func(e *emailService) {
		if url != "" {
			e.client.Request.BaseURL = url
		}
	}
}

func WithReplyTo(address string) Option {
	return func(e *emailService) {
		e.replyTo = address
	}
}

type emailService struct {
	client    *sendgrid.Client
	fromEmail string
	fromName  string
	replyTo   string
}

func NewEmailService(apiKey, fromEmail, fromName string, opts ...Option) EmailService {
	e := &emailService{client: sendgrid.NewSendClient(apiKey), fromEmail: fromEmail, fromName: fromName}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *emailService) Send(ctx context.Context, req *models.EmailNotificationRequest) error {

	message := mail.NewV3Mail()
	message.SetFrom(mail.NewEmail(e.fromName, e.fromEmail))

	if e.replyTo != "" {
		message.SetReplyTo(mail.NewEmail(e.fromName, e.replyTo))
	}

	personalization := mail.NewPersonalization()
	personalization.AddTos(mail.NewEmail("", req.To))
	personalization.Subject = req.Subject

	if req.OrderID != "" {
		personalization.SetCustomArg("order_id", req.OrderID)
	}

	message.AddPersonalizations(personalization)

	if req.Category != "" {
		message.AddCategories(req.Category)
	}

	// text/plain must come first
	message.AddContent(mail.NewContent("text/plain", req.Content))
	if req.HTMLContent != "" {
		message.AddContent(mail.NewContent("text/html", req.HTMLContent))
	}

	resp, err := e.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sending %q to %s: %w", req.Subject, req.To, err)
	}

	if resp.StatusCode >= 400 {
		return fmt.Errorf("mail api rejected %q: status %d", req.Subject, resp.StatusCode)
	}

	return nil
}
