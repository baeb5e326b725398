// Package mailer delivers rendered reports over SMTP. It sits off the
// sale/stock path; a delivery failure never affects transactional state.
package mailer

import (
	"fmt"
	"io"

	"gopkg.in/gomail.v2"

	"github.com/mlipovsek/tillpoint/internal/config"
)

// Mailer sends report emails using the SMTP settings injected at startup.
type Mailer struct {
	cfg config.SMTP
}

// New creates a Mailer from the given SMTP settings.
func New(cfg config.SMTP) *Mailer {
	return &Mailer{cfg: cfg}
}

// Attachment is a file to attach to a report email.
type Attachment struct {
	Filename string
	Data     []byte
}

// SendReport sends an HTML report to the given recipient.
func (m *Mailer) SendReport(to, subject string, htmlBody []byte, attachments ...Attachment) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", string(htmlBody))

	for _, a := range attachments {
		data := a.Data
		msg.Attach(a.Filename, gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(data)
			return err
		}))
	}

	dialer := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.Username, m.cfg.Password)
	if err := dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("sending report email: %w", err)
	}
	return nil
}
