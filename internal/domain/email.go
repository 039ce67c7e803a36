package domain

import (
	"context"
	"time"
)

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(ctx context.Context, to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// WelcomeMessageEmailData holds data for the welcome email.
type WelcomeMessageEmailData struct {
	Email string
	Name  string
}

// TicketConfirmationEmailData holds data for the ticket purchase confirmation.
type TicketConfirmationEmailData struct {
	Email     string
	Name      string
	TicketID  int64
	EventName string
	StartedAt time.Time
	EndedAt   time.Time
	Price     float64
}

// EmailService defines the contract for sending domain-level emails.
type EmailService interface {
	SendWelcomeMessage(ctx context.Context, data *WelcomeMessageEmailData) error
	SendTicketConfirmation(ctx context.Context, data *TicketConfirmationEmailData) error
}
