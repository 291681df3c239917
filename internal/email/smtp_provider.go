package email

import (
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strings"
)

// SMTPProvider реализует Provider для SMTP
type SMTPProvider struct {
	config *SMTPConfig
	auth   smtp.Auth
}

// NewSMTPProvider создает новый SMTP провайдер
func NewSMTPProvider(config *SMTPConfig) *SMTPProvider {
	var auth smtp.Auth
	if config.Username != "" && config.Password != "" {
		auth = smtp.PlainAuth("", config.Username, config.Password, config.Host)
	}

	return &SMTPProvider{
		config: config,
		auth:   auth,
	}
}

// Send отправляет email сообщение
func (p *SMTPProvider) Send(email *Email) error {
	if err := p.Validate(); err != nil {
		return err
	}

	if email.From == "" {
		email.From = p.config.FromEmail
	}

	message := p.buildMessage(email)
	addr := fmt.Sprintf("%s:%d", p.config.Host, p.config.Port)

	if p.config.UseTLS {
		tlsConfig := &tls.Config{
			ServerName: p.config.Host,
		}

		conn, err := tls.Dial("tcp", addr, tlsConfig)
		if err != nil {
			return fmt.Errorf("failed to dial TLS: %w", err)
		}
		defer conn.Close()

		client, err := smtp.NewClient(conn, p.config.Host)
		if err != nil {
			return fmt.Errorf("failed to create client: %w", err)
		}
		defer client.Close()

		return p.sendWithClient(client, email, message)
	}

	return smtp.SendMail(addr, p.auth, email.From, email.To, message)
}

// SendVerification отправляет письмо верификации аккаунта
func (p *SMTPProvider) SendVerification(to string, token string) error {
	link := fmt.Sprintf("%s?token=%s", p.config.VerifyURL, token)

	body, err := renderVerificationEmail(link)
	if err != nil {
		return err
	}

	return p.Send(&Email{
		To:       []string{to},
		Subject:  "Verify your SMA Daily Assist account",
		HTMLBody: body,
	})
}

// SendUrgentRequestAlert уведомляет опекуна о срочной заявке
func (p *SMTPProvider) SendUrgentRequestAlert(to string, patientName, buttonLabel string) error {
	body, err := renderUrgentAlertEmail(patientName, buttonLabel)
	if err != nil {
		return err
	}

	return p.Send(&Email{
		To:       []string{to},
		Subject:  fmt.Sprintf("URGENT: %s needs help", patientName),
		HTMLBody: body,
	})
}

// Validate проверяет конфигурацию SMTP
func (p *SMTPProvider) Validate() error {
	if p.config.Host == "" {
		return fmt.Errorf("SMTP host is required")
	}
	if p.config.FromEmail == "" {
		return fmt.Errorf("from email is required")
	}
	return nil
}

func (p *SMTPProvider) sendWithClient(client *smtp.Client, email *Email, message []byte) error {
	if p.auth != nil {
		if err := client.Auth(p.auth); err != nil {
			return fmt.Errorf("failed to authenticate: %w", err)
		}
	}

	if err := client.Mail(email.From); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}

	for _, to := range email.To {
		if err := client.Rcpt(to); err != nil {
			return fmt.Errorf("failed to set recipient %s: %w", to, err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to open data writer: %w", err)
	}

	if _, err := w.Write(message); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return w.Close()
}

func (p *SMTPProvider) buildMessage(email *Email) []byte {
	var b strings.Builder

	from := email.From
	if p.config.FromName != "" {
		from = fmt.Sprintf("%s <%s>", p.config.FromName, email.From)
	}

	b.WriteString(fmt.Sprintf("From: %s\r\n", from))
	b.WriteString(fmt.Sprintf("To: %s\r\n", strings.Join(email.To, ", ")))
	b.WriteString(fmt.Sprintf("Subject: %s\r\n", email.Subject))

	if email.HTMLBody != "" {
		b.WriteString("MIME-Version: 1.0\r\n")
		b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
		b.WriteString("\r\n")
		b.WriteString(email.HTMLBody)
	} else {
		b.WriteString("\r\n")
		b.WriteString(email.Body)
	}

	return []byte(b.String())
}
