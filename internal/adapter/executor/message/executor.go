// Package message implements the message executor. It is also the default
// executor for categories without a dedicated one.
package message

import (
	"context"
	"regexp"
	"time"

	"github.com/mindhq/mindcore/internal/adapter/executor/extract"
	"github.com/mindhq/mindcore/internal/domain/task"
	"github.com/mindhq/mindcore/internal/port/executor"
)

const defaultSubject = "Automated message"

var emailRe = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)

// OutboundMessage is one message handed to the sending capability.
type OutboundMessage struct {
	Recipients []string
	Subject    string
	Body       string
}

// Receipt reports what the capability did with the message.
type Receipt struct {
	MessageID string
	Provider  string
	Real      bool
}

// Sender is the external capability that delivers messages. It may be a real
// integration or a simulated stand-in; the executor does not care which.
type Sender interface {
	Send(ctx context.Context, msg OutboundMessage) (Receipt, error)
}

// Executor prepares and sends messages extracted from the interpretation.
type Executor struct {
	sender Sender
}

// New creates a message executor with the given sending capability.
func New(sender Sender) *Executor {
	return &Executor{sender: sender}
}

// Category returns the category this executor handles.
func (e *Executor) Category() task.Category { return task.CategoryMessage }

// Execute extracts message details from the interpretation and hands them to
// the sender. Capability failures become a failed outcome; extraction never
// fails, it degrades to keyword scanning and then to defaults.
func (e *Executor) Execute(ctx context.Context, req executor.Request) executor.Outcome {
	msg := parseMessage(req.Interpretation, req.RequesterContact)

	receipt, err := e.sender.Send(ctx, msg)
	if err != nil {
		return executor.Failure("send message: " + err.Error())
	}

	action := "message_prepared"
	if receipt.Real {
		action = "message_sent"
	}

	return executor.SuccessFrom(map[string]any{
		"action":     action,
		"recipients": msg.Recipients,
		"subject":    msg.Subject,
		"message":    msg.Body,
		"message_id": receipt.MessageID,
		"provider":   receipt.Provider,
		"real":       receipt.Real,
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
	})
}

// parseMessage runs the two-phase extraction: structured JSON first, then
// regex over the raw text, then hard defaults.
func parseMessage(interpretation, fallbackRecipient string) OutboundMessage {
	var msg OutboundMessage

	if fields, ok := extract.JSONBlock(interpretation); ok {
		msg.Recipients = extract.StringList(fields, "recipients", "to")
		msg.Subject = extract.String(fields, "subject")
		msg.Body = extract.String(fields, "content", "message", "body")
	}

	if len(msg.Recipients) == 0 {
		msg.Recipients = emailRe.FindAllString(interpretation, -1)
	}
	if len(msg.Recipients) == 0 {
		msg.Recipients = []string{fallbackRecipient}
	}
	if msg.Subject == "" {
		msg.Subject = defaultSubject
	}
	if msg.Body == "" {
		msg.Body = interpretation
	}

	return msg
}
