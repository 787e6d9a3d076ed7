package mail

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"
)

const otpSubject = "Verify your email address"

var otpTemplate = template.Must(template.New("otp").Parse(`<!DOCTYPE html>
<html>
<body>
<p>Hi {{.Name}},</p>
<p>Your verification code is:</p>
<p style="font-size:24px;letter-spacing:4px"><strong>{{.Code}}</strong></p>
<p>The code expires at {{.ExpiresAt}} (UTC).</p>
<p>If you did not sign up, you can ignore this email.</p>
</body>
</html>
`))

// OTPMailer renders and sends email verification codes.
type OTPMailer struct {
	mailer Mailer
}

// NewOTPMailer creates an OTPMailer.
func NewOTPMailer(mailer Mailer) *OTPMailer {
	return &OTPMailer{mailer: mailer}
}

// SendOTP renders the verification mail for code and sends it to to.
func (m *OTPMailer) SendOTP(ctx context.Context, to, fullName, code string, expiresAt time.Time) error {
	var buf bytes.Buffer
	err := otpTemplate.Execute(&buf, struct {
		Name      string
		Code      string
		ExpiresAt string
	}{
		Name:      fullName,
		Code:      code,
		ExpiresAt: expiresAt.UTC().Format("2006-01-02 15:04"),
	})
	if err != nil {
		return fmt.Errorf("failed to render otp mail: %w", err)
	}
	return m.mailer.Send(ctx, to, otpSubject, buf.String())
}
