package mail

import (
	"bytes"
	"fmt"
	"html/template"
	"path/filepath"

	"gopkg.in/gomail.v2"
)

func NewEmailSender(host string, port int, user, password, from string) *EmailSender {
	return &EmailSender{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
		From:     from,
	}
}

// SendOrderConfirmation mails the buyer after fulfillment, referencing the
// invoice number. Amounts arrive pre-computed; this layer only formats.
func (s *EmailSender) SendOrderConfirmation(to, companyName, invoiceNumber string, total float64, leadCount int) error {
	data := orderConfirmationData{
		CompanyName:   companyName,
		InvoiceNumber: invoiceNumber,
		Total:         fmt.Sprintf("%.2f €", total),
		LeadCount:     leadCount,
	}

	tmplPath := filepath.Join("templates", "order_confirmation.html")
	t, err := template.ParseFiles(tmplPath)
	if err != nil {
		return fmt.Errorf("failed to read email template: %w", err)
	}

	var body bytes.Buffer
	if err := t.Execute(&body, data); err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", fmt.Sprintf("Ihre Bestellung %s bei Poolbau Vergleich", invoiceNumber))
	m.SetBody("text/html", body.String())

	d := gomail.NewDialer(s.Host, s.Port, s.User, s.Password)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send SMTP mail: %w", err)
	}

	return nil
}
