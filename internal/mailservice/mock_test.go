package mailservice

import (
	"sync"

	"github.com/go-mail/mail/v2"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/mock"

	"github.com/sushihentaime/nightblog/internal/common"
)

type MockRenderer struct {
	mock.Mock
}

func (m *MockRenderer) RenderWelcome(data WelcomeData) (*Message, error) {
	args := m.Called(data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Message), args.Error(1)
}

type MockDialer struct {
	mock.Mock
}

func (d *MockDialer) DialAndSend(m ...*mail.Message) error {
	args := d.Called(m)
	return args.Error(0)
}

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) sendWelcome(recipient string, data WelcomeData) error {
	args := m.Called(recipient, data)
	return args.Error(0)
}

type MockLogger struct {
	mu   sync.Mutex
	msgs []string
}

func (l *MockLogger) Info(msg string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.msgs = append(l.msgs, msg)
}

func (l *MockLogger) Error(msg string, args ...any) {
	l.Info(msg, args...)
}

func (l *MockLogger) messages() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.msgs...)
}

// MockMessageConsumer hands out the deliveries it was built with and then keeps the channel
// open, like a live queue.
type MockMessageConsumer struct {
	mock.Mock
	deliveries []amqp.Delivery
}

func (m *MockMessageConsumer) Consume(key common.BindingKey, exchange common.Exchange, queue common.Queue) (<-chan amqp.Delivery, error) {
	args := m.Called(key, exchange, queue)
	if err := args.Error(0); err != nil {
		return nil, err
	}

	msgs := make(chan amqp.Delivery, len(m.deliveries))
	for _, d := range m.deliveries {
		msgs <- d
	}

	return msgs, nil
}

type fakeAcknowledger struct {
	mu    sync.Mutex
	acked []uint64
}

func (a *fakeAcknowledger) Ack(tag uint64, multiple bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.acked = append(a.acked, tag)
	return nil
}

func (a *fakeAcknowledger) Nack(tag uint64, multiple, requeue bool) error {
	return nil
}

func (a *fakeAcknowledger) Reject(tag uint64, requeue bool) error {
	return nil
}

func (a *fakeAcknowledger) count() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.acked)
}
