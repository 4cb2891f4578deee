// Package notify delivers email-verification links to users.
package notify

import (
	"context"
	"fmt"
	"time"

	"tunebox/internal/models"

	"github.com/charmbracelet/log"
)

// Notifier sends a verification link to a user. Delivery is best effort; callers log
// failures and carry on.
type Notifier interface {
	SendVerification(ctx context.Context, user *models.User, link string) error
}

// ConsoleNotifier writes verification links to the log instead of sending mail.
type ConsoleNotifier struct {
	logger *log.Logger
}

// NewConsoleNotifier creates a ConsoleNotifier.
func NewConsoleNotifier(logger *log.Logger) *ConsoleNotifier {
	return &ConsoleNotifier{logger: logger}
}

func (n *ConsoleNotifier) SendVerification(_ context.Context, user *models.User, link string) error {
	n.logger.Info(fmt.Sprintf("[EMAIL VERIFY] %s -> %s", user.Email, link))
	return nil
}

// Publisher is the subset of *rabbitmq.Client the queue notifier needs.
type Publisher interface {
	PublishJSON(queue string, payload any) error
}

// VerificationMessage is the body published for the mail worker.
type VerificationMessage struct {
	UserID   string    `json:"user_id"`
	Email    string    `json:"email"`
	Username string    `json:"username"`
	Link     string    `json:"link"`
	SentAt   time.Time `json:"sent_at"`
}

// QueueNotifier hands verification mail to a worker through a message queue.
type QueueNotifier struct {
	pub   Publisher
	queue string
	now   func() time.Time
}

// NewQueueNotifier creates a QueueNotifier publishing to queue.
func NewQueueNotifier(pub Publisher, queue string) *QueueNotifier {
	return &QueueNotifier{pub: pub, queue: queue, now: time.Now}
}

func (n *QueueNotifier) SendVerification(ctx context.Context, user *models.User, link string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := VerificationMessage{
		UserID:   user.ID,
		Email:    user.Email,
		Username: user.Username,
		Link:     link,
		SentAt:   n.now().UTC(),
	}
	if err := n.pub.PublishJSON(n.queue, msg); err != nil {
		return fmt.Errorf("failed to queue verification mail for %s: %w", user.Email, err)
	}
	return nil
}
