package mail

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomail "github.com/wneessen/go-mail"

	"blog_backend/internal/platform/config"
)

type fakeSMTP struct {
	sent []*gomail.Msg
	err  error
}

func (f *fakeSMTP) DialAndSendWithContext(ctx context.Context, messages ...*gomail.Msg) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, messages...)
	return nil
}

type recordingMailer struct {
	to, subject, body string
}

func (r *recordingMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	r.to, r.subject, r.body = to, subject, htmlBody
	return nil
}

func TestSMTPMailer_Send(t *testing.T) {
	t.Parallel()

	client := &fakeSMTP{}
	m := NewSMTPMailerWithClient(client, "no-reply@blog.local")

	err := m.Send(context.Background(), "a@x.com", "Hello", "<p>hi</p>")
	require.NoError(t, err)
	require.Len(t, client.sent, 1)

	msg := client.sent[0]
	assert.Equal(t, []string{"Hello"}, msg.GetGenHeader(gomail.HeaderSubject))
	to := msg.GetToString()
	require.Len(t, to, 1)
	assert.Contains(t, to[0], "a@x.com")
}

func TestSMTPMailer_Send_Errors(t *testing.T) {
	t.Parallel()

	t.Run("invalid recipient", func(t *testing.T) {
		m := NewSMTPMailerWithClient(&fakeSMTP{}, "no-reply@blog.local")
		assert.Error(t, m.Send(context.Background(), "not an address", "s", "b"))
	})

	t.Run("relay failure", func(t *testing.T) {
		m := NewSMTPMailerWithClient(&fakeSMTP{err: errors.New("550 rejected")}, "no-reply@blog.local")
		assert.ErrorContains(t, m.Send(context.Background(), "a@x.com", "s", "b"), "550 rejected")
	})
}

func TestLogMailer_Send(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	m := NewLogMailer(slog.New(slog.NewTextHandler(&buf, nil)))

	require.NoError(t, m.Send(context.Background(), "a@x.com", "Subject", "<p>body</p>"))
	assert.Contains(t, buf.String(), "a@x.com")
}

func TestNew_WithoutHostUsesLogMailer(t *testing.T) {
	t.Parallel()

	m, err := New(config.Mail{})
	require.NoError(t, err)
	assert.IsType(t, &LogMailer{}, m)
}

func TestOTPMailer_SendOTP(t *testing.T) {
	t.Parallel()

	rec := &recordingMailer{}
	m := NewOTPMailer(rec)

	exp := time.Date(2026, 6, 1, 12, 10, 0, 0, time.UTC)
	require.NoError(t, m.SendOTP(context.Background(), "a@x.com", "<Ann>", "01234567", exp))

	assert.Equal(t, "a@x.com", rec.to)
	assert.Equal(t, otpSubject, rec.subject)
	assert.Contains(t, rec.body, "01234567")
	assert.Contains(t, rec.body, "2026-06-01 12:10")
	assert.Contains(t, rec.body, "&lt;Ann&gt;", "name is HTML escaped")
}
