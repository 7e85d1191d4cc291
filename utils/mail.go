package utils

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/smtp"
)

//go:embed templates/*.html
var mailTemplates embed.FS

type MailConfig struct {
	Address  string
	Host     string
	From     string
	Password string
}

// Enabled reports whether enough SMTP settings are present to send mail.
func (c MailConfig) Enabled() bool {
	return c.Address != "" && c.From != ""
}

type OrderEmailItem struct {
	Name     string
	Quantity int
	Price    string
	Total    string
}

type OrderEmailData struct {
	Name    string
	Message string
	Items   []OrderEmailItem
	Total   string
	Address string
}

func RenderOrderConfirmation(data OrderEmailData) (string, error) {
	tmpl, err := template.ParseFS(mailTemplates, "templates/order_confirmation.html")
	if err != nil {
		return "", fmt.Errorf("template parse error: %w", err)
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return "", fmt.Errorf("template execution error: %w", err)
	}
	return body.String(), nil
}

func SendEmail(cfg MailConfig, emailTo, emailSubject, htmlBody string) error {
	message := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-version: 1.0;\r\nContent-Type: text/html; charset=\"UTF-8\";\r\n\r\n%s",
		cfg.From,
		emailTo,
		emailSubject,
		htmlBody,
	)

	var auth smtp.Auth
	if cfg.Password != "" {
		auth = smtp.PlainAuth("", cfg.From, cfg.Password, cfg.Host)
	}

	if err := smtp.SendMail(cfg.Address, auth, cfg.From, []string{emailTo}, []byte(message)); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
