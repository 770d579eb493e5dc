package mailservice

import (
	"fmt"
	"time"

	"github.com/go-mail/mail/v2"
)

func NewMailer(host string, port int, username, password, sender string, renderer Renderer) *Mail {
	dialer := mail.NewDialer(host, port, username, password)
	dialer.Timeout = 5 * time.Second

	return &Mail{
		dialer:   dialer,
		sender:   sender,
		renderer: renderer,
	}
}

// sendWelcome renders the welcome email for data and delivers it as plain text with an html
// alternative.
func (m *Mail) sendWelcome(recipient string, data WelcomeData) error {
	rendered, err := m.renderer.RenderWelcome(data)
	if err != nil {
		return err
	}

	msg := mail.NewMessage()
	msg.SetHeader("From", m.sender)
	msg.SetHeader("To", recipient)
	msg.SetHeader("Subject", rendered.Subject)
	msg.SetBody("text/plain", rendered.PlainBody)
	msg.AddAlternative("text/html", rendered.HTMLBody)

	// one SMTP conversation at a time per dialer
	m.mu.Lock()
	defer m.mu.Unlock()

	err = m.dialer.DialAndSend(msg)
	if err != nil {
		return fmt.Errorf("send welcome email to %s: %w", recipient, err)
	}

	return nil
}
