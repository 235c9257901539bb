package orchestrators

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"strings"

	"matchhub/internal/adapters/email"
	"matchhub/internal/domain/account"
)

// AccountLister lists all accounts.
type AccountLister interface {
	List(ctx context.Context) ([]account.Account, error)
}

// NotifyPartnerInput describes what the user just did.
type NotifyPartnerInput struct {
	User    string // username of the actor
	Subject string
	Body    string // plain text, one paragraph per line
	Link    string // absolute URL to the page, optional
}

// NotifyPartnerDeps holds dependencies for NotifyPartner.
type NotifyPartnerDeps struct {
	Accounts AccountLister
	Sender   email.Sender // nil disables notifications
}

// NotifyPartnerResult lists who was notified.
type NotifyPartnerResult struct {
	Recipients []string
	MessageID  string
}

// ExecuteNotifyPartner emails every other account with an address.
// PRE: User is the actor's username
// POST: at most one message is sent; nothing is sent without a sender or recipients
func ExecuteNotifyPartner(ctx context.Context, input NotifyPartnerInput, deps NotifyPartnerDeps) (NotifyPartnerResult, error) {
	if deps.Sender == nil {
		return NotifyPartnerResult{}, nil
	}

	accounts, err := deps.Accounts.List(ctx)
	if err != nil {
		return NotifyPartnerResult{}, err
	}
	actor := input.User
	var to []string
	for _, a := range accounts {
		if a.Username == input.User {
			actor = a.DisplayName()
			continue
		}
		if a.Email != "" {
			to = append(to, a.Email)
		}
	}
	if len(to) == 0 {
		slog.Info("notify_event", "event", "notify_skipped", "user", input.User, "reason", "no_recipients")
		return NotifyPartnerResult{}, nil
	}

	msg := email.Message{
		To:      to,
		Subject: fmt.Sprintf("[MatchHub] %s: %s", actor, input.Subject),
		Text:    notifyText(actor, input),
		HTML:    notifyHTML(actor, input),
	}
	receipt, err := deps.Sender.Send(ctx, msg)
	if err != nil {
		return NotifyPartnerResult{}, fmt.Errorf("send notification: %w", err)
	}

	slog.Info("notify_event", "event", "partner_notified", "user", input.User, "recipients", len(to), "message_id", receipt.MessageID)
	return NotifyPartnerResult{Recipients: to, MessageID: receipt.MessageID}, nil
}

func notifyText(actor string, input NotifyPartnerInput) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: %s\n\n", actor, input.Subject)
	if input.Body != "" {
		sb.WriteString(input.Body)
		sb.WriteString("\n\n")
	}
	if input.Link != "" {
		sb.WriteString(input.Link)
		sb.WriteString("\n")
	}
	return sb.String()
}

func notifyHTML(actor string, input NotifyPartnerInput) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "<p><strong>%s</strong>: %s</p>", html.EscapeString(actor), html.EscapeString(input.Subject))
	for _, line := range strings.Split(input.Body, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		fmt.Fprintf(&sb, "<p>%s</p>", html.EscapeString(line))
	}
	if input.Link != "" {
		fmt.Fprintf(&sb, `<p><a href="%s">In MatchHub öffnen</a></p>`, html.EscapeString(input.Link))
	}
	return sb.String()
}
