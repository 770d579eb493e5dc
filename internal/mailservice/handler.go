package mailservice

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"golang.org/x/exp/rand"

	"github.com/sushihentaime/nightblog/internal/common"
)

func NewMailService(mb common.MessageConsumer, host, username, password, sender string, port int, logger *slog.Logger) (*MailService, error) {
	tp, err := NewTemplate()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &MailService{
		mb:        mb,
		m:         NewMailer(host, port, username, password, sender, tp),
		logger:    logger,
		baseDelay: 500 * time.Millisecond,
		ctx:       ctx,
		cancel:    cancel,
	}, nil
}

// SendWelcomeEmail starts consuming user.created events and mails each new user. It returns
// once the consumer is registered; delivery happens in a background goroutine until Close.
func (s *MailService) SendWelcomeEmail() error {
	msgs, err := s.mb.Consume(common.UserCreatedKey, common.UserExchange, common.UserCreatedQueue)
	if err != nil {
		s.logger.Error("could not consume message", slog.String("error", err.Error()))
		return err
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		for {
			select {
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				s.handleUserCreated(msg)

			case <-s.ctx.Done():
				s.logger.Info("stopping SendWelcomeEmail due to context cancellation")
				return
			}
		}
	}()

	return nil
}

// handleUserCreated sends one welcome email. The delivery is acked whether or not the send
// succeeded, so a bad address never blocks the queue.
func (s *MailService) handleUserCreated(msg amqp.Delivery) {
	defer msg.Ack(false)

	var event common.UserCreatedEvent
	err := json.Unmarshal(msg.Body, &event)
	if err != nil || event.Email == "" {
		s.logger.Error("could not unmarshal message", slog.String("body", string(msg.Body)))
		return
	}

	payload := WelcomeData{Name: event.Name, Username: event.Username}
	if payload.Name == "" {
		payload.Name = event.Username
	}

	// using exponential backoff with jitter
	for attempt := 0; attempt < maxRetries; attempt++ {
		err = s.m.sendWelcome(event.Email, payload)
		if err == nil {
			s.logger.Info("welcome email sent", slog.String("email", event.Email))
			return
		}

		delay := time.Duration(rand.Int63n(int64(s.baseDelay)<<uint(attempt) + 1))
		s.logger.Info("delaying welcome email", slog.String("email", event.Email), slog.Int("attempt", attempt), slog.Duration("delay", delay))

		select {
		case <-time.After(delay):
		case <-s.ctx.Done():
			return
		}
	}

	s.logger.Error("could not send welcome email", slog.String("email", event.Email), slog.String("error", err.Error()))
}

// Close stops the consumer goroutine and waits for an in-flight email to finish.
func (s *MailService) Close() {
	s.cancel()
	s.wg.Wait()
}
