package mail

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/sirupsen/logrus"

	"devfolio/internal/domain"
)

type sender interface {
	SendWithContext(ctx context.Context, email *sgmail.SGMailV3) (*rest.Response, error)
}

// SendGridNotifier mails contact submissions to the site owner.
type SendGridNotifier struct {
	client sender
	from   *sgmail.Email
	to     *sgmail.Email
}

func NewSendGridNotifier(apiKey, from, to string) *SendGridNotifier {
	return &SendGridNotifier{
		client: sendgrid.NewSendClient(apiKey),
		from:   sgmail.NewEmail("Portfolio contact form", from),
		to:     sgmail.NewEmail("", to),
	}
}

func (n *SendGridNotifier) Notify(ctx context.Context, msg domain.ContactMessage) error {
	email := buildEmail(n.from, n.to, msg)
	resp, err := n.client.SendWithContext(ctx, email)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid send: status %d: %s", resp.StatusCode, strings.TrimSpace(resp.Body))
	}
	return nil
}

func buildEmail(from, to *sgmail.Email, msg domain.ContactMessage) *sgmail.SGMailV3 {
	subject := "New contact message from " + msg.Name
	if msg.ProjectType != "" {
		subject += " (" + msg.ProjectType + ")"
	}

	plain := fmt.Sprintf("Name: %s\nEmail: %s\nProject type: %s\n\n%s",
		msg.Name, msg.Email, msg.ProjectType, msg.Message)
	rich := fmt.Sprintf("<p><strong>%s</strong> &lt;%s&gt;</p><p>Project type: %s</p><p>%s</p>",
		html.EscapeString(msg.Name),
		html.EscapeString(msg.Email),
		html.EscapeString(msg.ProjectType),
		strings.ReplaceAll(html.EscapeString(msg.Message), "\n", "<br>"),
	)

	email := sgmail.NewSingleEmail(from, subject, to, plain, rich)
	email.SetReplyTo(sgmail.NewEmail(msg.Name, msg.Email))
	return email
}

// LogNotifier only records submissions in the log.
type LogNotifier struct {
	logger logrus.FieldLogger
}

func NewLogNotifier(logger logrus.FieldLogger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(_ context.Context, msg domain.ContactMessage) error {
	n.logger.WithFields(logrus.Fields{
		"name":         msg.Name,
		"email":        msg.Email,
		"project_type": msg.ProjectType,
	}).Info("contact form submission")
	return nil
}
