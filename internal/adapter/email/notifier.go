// Package email provides an SMTP-based notifier for task outcome delivery.
package email

import (
	"context"
	"fmt"
	"net/smtp"

	"github.com/mindhq/mindcore/internal/domain/task"
	"github.com/mindhq/mindcore/internal/port/notifier"
)

const providerName = "email"

// SMTPConfig holds the configuration for SMTP connections.
type SMTPConfig struct {
	Host     string
	Port     int
	From     string
	Password string
}

// Notifier sends outcome emails via SMTP.
type Notifier struct {
	cfg SMTPConfig
}

// NewNotifier creates a new email notifier.
func NewNotifier(cfg SMTPConfig) *Notifier {
	return &Notifier{cfg: cfg}
}

func (n *Notifier) Name() string { return providerName }

// Send emails the task outcome to the requester's contact address.
func (n *Notifier) Send(_ context.Context, note notifier.Notification) error {
	if n.cfg.Host == "" || n.cfg.From == "" {
		return notifier.ErrNotConfigured
	}
	if note.Contact == "" {
		return fmt.Errorf("email: notification has no contact address")
	}

	addr := fmt.Sprintf("%s:%d", n.cfg.Host, n.cfg.Port)
	subject := subjectFor(note)
	body := renderBody(note)

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s",
		n.cfg.From, note.Contact, subject, body)

	var auth smtp.Auth
	if n.cfg.Password != "" {
		auth = smtp.PlainAuth("", n.cfg.From, n.cfg.Password, n.cfg.Host)
	}

	return smtp.SendMail(addr, auth, n.cfg.From, []string{note.Contact}, []byte(msg))
}

func subjectFor(note notifier.Notification) string {
	switch note.Status {
	case task.StatusCompleted:
		return "Task completed: " + note.Title
	case task.StatusFailed:
		return "Task failed: " + note.Title
	case task.StatusCancelled:
		return "Task cancelled: " + note.Title
	default:
		return "Task update: " + note.Title
	}
}
