package mailservice

import (
	"context"
	"html/template"
	"sync"
	"time"

	"github.com/go-mail/mail/v2"

	"github.com/sushihentaime/nightblog/internal/common"
)

const (
	WelcomeTemplate = "welcome_email.html"
	maxRetries      = 5
)

type MailService struct {
	mb        common.MessageConsumer
	m         Mailer
	logger    MailLogger
	baseDelay time.Duration
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

type MailLogger interface {
	Error(msg string, args ...any)
	Info(msg string, args ...any)
}

type Mail struct {
	mu       sync.Mutex
	dialer   Dialer
	renderer Renderer
	sender   string
}

type Mailer interface {
	sendWelcome(recipient string, data WelcomeData) error
}

// Template holds the parsed welcome email.
type Template struct {
	welcome *template.Template
}

type Dialer interface {
	DialAndSend(m ...*mail.Message) error
}

type Renderer interface {
	RenderWelcome(data WelcomeData) (*Message, error)
}

// Message is a rendered email.
type Message struct {
	Subject   string
	PlainBody string
	HTMLBody  string
}

// WelcomeData is the template payload of the welcome email.
type WelcomeData struct {
	Name     string
	Username string
}
