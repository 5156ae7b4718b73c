// Package mailer delivers transactional e-mail over SMTP.
package mailer

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"gopkg.in/gomail.v2"

	"github.com/backbencherstudio/danielpurcaru-project-mgt-backend/internal/config"
)

type Credentials struct {
	Email    string
	Name     string
	Username string
	Password string
	LoginURL string
}

type Mailer interface {
	SendEmployeeCredentials(ctx context.Context, credentials Credentials) error
}

var credentialsTemplate = template.Must(template.New("credentials").Parse(`<p>Hello {{.Name}},</p>
<p>An account has been created for you.</p>
<p>Username: <strong>{{.Username}}</strong><br>
E-mail: <strong>{{.Email}}</strong><br>
Password: <strong>{{.Password}}</strong></p>
{{if .LoginURL}}<p>Sign in at <a href="{{.LoginURL}}">{{.LoginURL}}</a>.</p>{{end}}
<p>Please change your password after the first login.</p>`))

type SMTP struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTP(cfg config.SMTPConfig) *SMTP {
	from := cfg.From
	if from == "" {
		from = cfg.Username
	}
	return &SMTP{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   from,
	}
}

func (m *SMTP) SendEmployeeCredentials(ctx context.Context, credentials Credentials) error {
	body, err := RenderCredentials(credentials)
	if err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", credentials.Email)
	msg.SetHeader("Subject", "Your employee account")
	msg.SetBody("text/html", body)

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send credentials to %s: %w", credentials.Email, err)
	}
	return nil
}

func RenderCredentials(credentials Credentials) (string, error) {
	var buf bytes.Buffer
	if err := credentialsTemplate.Execute(&buf, credentials); err != nil {
		return "", fmt.Errorf("render credentials mail: %w", err)
	}
	return buf.String(), nil
}

// Noop drops every message. Used when SMTP is not configured.
type Noop struct{}

func (Noop) SendEmployeeCredentials(ctx context.Context, credentials Credentials) error {
	return nil
}
