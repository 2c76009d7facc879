package notify

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"text/template"

	"github.com/Softwarehamid/auto-shop-booking/pkg/utils"
)

type Sender interface {
	Send(to string, subject string, body string) error
}

// SMTPSender sends plain text mail. Auth is used only when a user is configured.
type SMTPSender struct {
	addr string
	from string
	auth smtp.Auth
}

func NewSMTPSender(config utils.EmailConfig) *SMTPSender {
	host := strings.TrimSpace(config.Host)
	from := strings.TrimSpace(config.From)
	if from == "" {
		from = "no-reply@auto-shop.local"
	}

	var auth smtp.Auth
	if config.User != "" {
		auth = smtp.PlainAuth("", config.User, config.Password, host)
	}

	return &SMTPSender{
		addr: net.JoinHostPort(host, strconv.Itoa(config.Port)),
		from: from,
		auth: auth,
	}
}

func (s *SMTPSender) Send(to string, subject string, body string) error {
	msg := buildMessage(s.from, to, subject, body)
	return smtp.SendMail(s.addr, s.auth, s.from, []string{to}, []byte(msg))
}

func buildMessage(from, to, subject, body string) string {
	return fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s\r\n",
		from,
		to,
		subject,
		body,
	)
}

const (
	confirmedBody = `Hi {{.CustomerName}},

Your {{.ServiceName}} with {{.StaffName}} is booked for {{.StartTime.Format "Monday, 02 Jan 2006 15:04 MST"}}.

Booking reference: {{.BookingID}}

Need to cancel? Use this link. It is the only way to manage your booking, so keep it private:
{{.CancelURL}}
`

	cancelledBody = `Hi {{.CustomerName}},

Your {{.ServiceName}} with {{.StaffName}} on {{.StartTime.Format "Monday, 02 Jan 2006 15:04 MST"}} has been cancelled.

Booking reference: {{.BookingID}}
`
)

var emailTemplates = func() *template.Template {
	t := template.Must(template.New("confirmed").Parse(confirmedBody))
	template.Must(t.New("cancelled").Parse(cancelledBody))
	return t
}()

// EmailNotifier mails the customer. Only confirmation mails carry the cancel link.
type EmailNotifier struct {
	sender Sender
}

func NewEmailNotifier(sender Sender) *EmailNotifier {
	return &EmailNotifier{sender: sender}
}

func (n *EmailNotifier) Name() string { return "email" }

func (n *EmailNotifier) Notify(ctx context.Context, event Event) error {
	subject, body, err := renderEmail(event)
	if err != nil {
		return err
	}

	done := make(chan error, 1)
	go func() { done <- n.sender.Send(event.CustomerEmail, subject, body) }()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func renderEmail(event Event) (subject, body string, err error) {
	name := "confirmed"
	subject = "Your booking is confirmed"
	if event.Type == EventBookingCancelled {
		name = "cancelled"
		subject = "Your booking has been cancelled"
	}

	var buf bytes.Buffer
	if err := emailTemplates.ExecuteTemplate(&buf, name, event); err != nil {
		return "", "", fmt.Errorf("render %s email: %w", name, err)
	}
	return subject, buf.String(), nil
}
