// Package notify delivers failure alerts over SMTP. Delivery is
// best-effort: callers log the returned error and move on.
package notify

import (
	"fmt"
	"mirrorsync/internal/config"
	"mirrorsync/internal/model"
	"mirrorsync/internal/secret"
	"net/smtp"
	"strings"
	"time"
)

type Notifier interface {
	Notify(result model.RunResult) error
}

// Noop is used when no notification channel is configured.
type Noop struct{}

func (Noop) Notify(model.RunResult) error { return nil }

type SMTPNotifier struct {
	cfg     config.Notification
	secrets secret.Provider

	// send is swapped out in tests.
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// New picks the SMTP notifier when a channel is configured, Noop otherwise.
func New(cfg config.Notification, secrets secret.Provider) Notifier {
	if !cfg.Configured() {
		return Noop{}
	}

	return &SMTPNotifier{
		cfg:     cfg,
		secrets: secrets,
		send:    smtp.SendMail,
	}
}

func (n *SMTPNotifier) Notify(result model.RunResult) error {
	pass, err := n.secrets.Resolve(n.cfg.SMTPPass)
	if err != nil {
		return fmt.Errorf("failed to resolve smtp password: %w", err)
	}

	addr := fmt.Sprintf("%s:%d", n.cfg.SMTPServer, n.cfg.SMTPPort)
	auth := smtp.PlainAuth("", n.cfg.SMTPUser, pass, n.cfg.SMTPServer)
	msg := composeMessage(n.cfg.SMTPUser, n.cfg.Email, result)

	if err := n.send(addr, auth, n.cfg.SMTPUser, []string{n.cfg.Email}, msg); err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}

	return nil
}

func composeMessage(from, to string, result model.RunResult) []byte {
	var b strings.Builder

	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: Backup sync failed: %s\r\n", result.JobName)
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "Sync job %q failed.\n\n", result.JobName)
	fmt.Fprintf(&b, "Source:      %s\n", result.Source)
	fmt.Fprintf(&b, "Destination: %s\n", result.Destination)
	fmt.Fprintf(&b, "Started:     %s\n", result.StartedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "Exit code:   %d\n", result.ExitCode)

	if result.ErrorExcerpt != "" {
		fmt.Fprintf(&b, "\nError output:\n%s\n", result.ErrorExcerpt)
	}

	return []byte(b.String())
}
