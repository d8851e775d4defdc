package jobs

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"

	"gopkg.in/gomail.v2"
)

// SMTPConfig carries the outbound mail settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
	SSL      bool
}

// Mailer delivers a rendered quotation.
type Mailer interface {
	SendQuotation(ctx context.Context, to, leadID string, pdf []byte) error
}

type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPMailer sends quotations through an SMTP relay.
type SMTPMailer struct {
	dialer   dialer
	from     string
	fromName string
}

// NewSMTPMailer builds a mailer from cfg.
func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	d.SSL = cfg.SSL
	if !cfg.SSL {
		d.TLSConfig = &tls.Config{ServerName: cfg.Host, MinVersion: tls.VersionTLS12}
	}
	return &SMTPMailer{dialer: d, from: cfg.From, fromName: cfg.FromName}
}

// SendQuotation mails pdf as <leadID>.pdf to the requester.
func (m *SMTPMailer) SendQuotation(ctx context.Context, to, leadID string, pdf []byte) error {
	msg := quotationMessage(m.from, m.fromName, to, leadID, pdf)
	errCh := make(chan error, 1)
	go func() {
		errCh <- m.dialer.DialAndSend(msg)
	}()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("smtp send to %s: %w", to, err)
		}
		return nil
	}
}

func quotationMessage(from, fromName, to, leadID string, pdf []byte) *gomail.Message {
	msg := gomail.NewMessage()
	if fromName != "" {
		msg.SetAddressHeader("From", from, fromName)
	} else {
		msg.SetHeader("From", from)
	}
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Your quotation "+leadID)
	msg.SetBody("text/plain", "Please find your quotation attached.\n\nQuotation ID: "+leadID+"\n")
	msg.Attach(leadID+".pdf",
		gomail.SetHeader(map[string][]string{"Content-Type": {"application/pdf"}}),
		gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(pdf)
			return err
		}),
	)
	return msg
}
