package email

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"eventhub/internal/domain"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestTemplateRenderer_Welcome(t *testing.T) {
	r := NewTemplateRenderer()
	subject, html, text, err := r.Render("welcome", &domain.WelcomeMessageEmailData{Email: "ada@example.com", Name: "Ada <script>"})
	require.NoError(t, err)
	assert.Equal(t, "Welcome to EventHub, Ada <script>", subject)
	assert.Contains(t, html, "Ada &lt;script&gt;")
	assert.Contains(t, text, "ada@example.com")
}

func TestTemplateRenderer_TicketConfirmation(t *testing.T) {
	r := NewTemplateRenderer()
	data := &domain.TicketConfirmationEmailData{
		Email:     "ada@example.com",
		Name:      "Ada",
		TicketID:  17,
		EventName: "GopherCon",
		StartedAt: time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC),
		EndedAt:   time.Date(2025, 7, 1, 17, 0, 0, 0, time.UTC),
		Price:     25,
	}
	subject, html, text, err := r.Render("ticket_confirmation", data)
	require.NoError(t, err)
	assert.Equal(t, "Your ticket for GopherCon", subject)
	assert.Contains(t, text, "#17")
	assert.Contains(t, text, "Tue, 01 Jul 2025 09:00 UTC")
	assert.Contains(t, text, "25.00")
	assert.Contains(t, html, "GopherCon")
}

func TestTemplateRenderer_UnknownTemplate(t *testing.T) {
	_, _, _, err := NewTemplateRenderer().Render("missing", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown email template "missing"`)
}

type fakeSES struct {
	input *ses.SendEmailInput
	err   error
}

func (f *fakeSES) SendEmail(_ context.Context, in *ses.SendEmailInput, _ ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	f.input = in
	if f.err != nil {
		return nil, f.err
	}
	return &ses.SendEmailOutput{MessageId: aws.String("msg-1")}, nil
}

func TestSESMailer_Send(t *testing.T) {
	client := &fakeSES{}
	m := newSESMailer(client, "noreply@example.com", "EventHub", discard())

	require.NoError(t, m.Send(context.Background(), "ada@example.com", "Hi", "<p>hi</p>", ""))
	assert.Equal(t, "EventHub <noreply@example.com>", aws.ToString(client.input.Source))
	assert.Equal(t, []string{"ada@example.com"}, client.input.Destination.ToAddresses)
	assert.Equal(t, "Hi", aws.ToString(client.input.Message.Subject.Data))
	require.NotNil(t, client.input.Message.Body.Html)
	assert.Nil(t, client.input.Message.Body.Text)

	client.err = errors.New("throttled")
	require.Error(t, m.Send(context.Background(), "ada@example.com", "Hi", "", "hi"))
}

func TestNewMailer(t *testing.T) {
	m, err := NewMailer(MailerConfig{Provider: "noop"}, discard())
	require.NoError(t, err)
	require.NoError(t, m.Send(context.Background(), "a@example.com", "s", "", "t"))

	m, err = NewMailer(MailerConfig{Provider: "carrier-pigeon"}, discard())
	require.NoError(t, err)
	assert.IsType(t, &noopMailer{}, m)

	_, err = NewMailer(MailerConfig{Provider: "ses", FromAddress: "a@example.com"}, discard())
	require.Error(t, err)

	m, err = NewMailer(MailerConfig{Provider: "ses", FromAddress: "a@example.com", SES: SESConfig{Region: "eu-west-1"}}, discard())
	require.NoError(t, err)
	assert.IsType(t, &sesMailer{}, m)
}
