package notifications

import (
	"context"
	"crypto/tls"
	"fmt"
	"html"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"bookly/internal/shared/config"
	"bookly/pkg/logger"
)

// EmailService delivers one notification as an email
type EmailService interface {
	SendNotification(ctx context.Context, notification *EmailNotification) error
}

type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string
}

// SMTPConfigFrom reads the SMTP section of the application config
func SMTPConfigFrom(cfg config.EmailConfig) *SMTPConfig {
	return &SMTPConfig{
		Host:      cfg.SMTPHost,
		Port:      cfg.SMTPPort,
		Username:  cfg.SMTPUsername,
		Password:  cfg.SMTPPassword,
		FromEmail: cfg.FromEmail,
		FromName:  cfg.FromName,
	}
}

// Configured reports whether enough is set to reach a server
func (c *SMTPConfig) Configured() bool {
	return c.Host != "" && c.Username != ""
}

func validateSMTPConfig(config *SMTPConfig) error {
	if config.Host == "" {
		return fmt.Errorf("SMTP host is required")
	}
	if config.Port <= 0 || config.Port > 65535 {
		return fmt.Errorf("SMTP port must be between 1 and 65535")
	}
	if config.Username == "" {
		return fmt.Errorf("SMTP username is required")
	}
	if config.FromEmail == "" {
		return fmt.Errorf("from email is required")
	}
	return nil
}

// SMTPEmailService sends multipart emails over STARTTLS
type SMTPEmailService struct {
	config *SMTPConfig
	log    *logger.Logger
}

func NewSMTPEmailService(config *SMTPConfig, log *logger.Logger) (*SMTPEmailService, error) {
	if err := validateSMTPConfig(config); err != nil {
		return nil, fmt.Errorf("invalid SMTP configuration: %w", err)
	}
	return &SMTPEmailService{config: config, log: log}, nil
}

func (s *SMTPEmailService) SendNotification(ctx context.Context, notification *EmailNotification) error {
	if notification.Email == "" {
		return fmt.Errorf("notification %s has no recipient email", notification.ID)
	}

	htmlBody, textBody := renderContent(notification)
	message := s.buildMessage(notification.Email, notification.Subject, htmlBody, textBody)

	auth := smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	if err := s.sendWithSTARTTLS(addr, auth, notification.Email, message); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.log.InfoContext(ctx, "Email sent", "kind", string(notification.Kind), "notification_id", notification.ID.String())
	return nil
}

func (s *SMTPEmailService) sendWithSTARTTLS(addr string, auth smtp.Auth, to string, message []byte) error {
	client, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer client.Quit()

	if err = client.StartTLS(&tls.Config{ServerName: s.config.Host}); err != nil {
		return fmt.Errorf("failed to start TLS: %w", err)
	}
	if err = client.Auth(auth); err != nil {
		return fmt.Errorf("failed to authenticate: %w", err)
	}
	if err = client.Mail(s.config.FromEmail); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err = client.Rcpt(to); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}
	if _, err = w.Write(message); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	return w.Close()
}

func (s *SMTPEmailService) buildMessage(to, subject, htmlBody, textBody string) []byte {
	boundary := "boundary_" + strconv.FormatInt(time.Now().UnixNano(), 10)

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s <%s>\r\n", s.config.FromName, s.config.FromEmail)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&b, "Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	fmt.Fprintf(&b, "Content-Type: multipart/alternative; boundary=%s\r\n\r\n", boundary)

	fmt.Fprintf(&b, "--%s\r\nContent-Type: text/plain; charset=UTF-8\r\n\r\n%s\r\n", boundary, textBody)
	fmt.Fprintf(&b, "--%s\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s\r\n", boundary, htmlBody)
	fmt.Fprintf(&b, "--%s--\r\n", boundary)
	return []byte(b.String())
}

// renderContent builds the html and text bodies for a notification
func renderContent(notification *EmailNotification) (string, string) {
	name := notification.Name
	if name == "" {
		name = "there"
	}

	if notification.Kind == KindSlotAvailable && notification.Slot != nil {
		slot := notification.Slot
		textBody := fmt.Sprintf(
			"Hi %s,\n\nA place for your party of %d opened up on %s at %s.\nBook it now before someone else does.\n\nThe Bookly Team",
			name, slot.PartySize, slot.Date, slot.Time,
		)
		htmlBody := fmt.Sprintf(
			"<h2>A place opened up</h2><p>Hi %s,</p><p>A place for your party of <strong>%d</strong> opened up on <strong>%s at %s</strong>.</p><p>Book it now before someone else does.</p><p>The Bookly Team</p>",
			html.EscapeString(name), slot.PartySize, html.EscapeString(slot.Date), html.EscapeString(slot.Time),
		)
		return htmlBody, textBody
	}

	textBody := fmt.Sprintf("Hi %s,\n\n%s\n\nThe Bookly Team", name, notification.Subject)
	htmlBody := fmt.Sprintf("<h2>%s</h2><p>Hi %s,</p><p>The Bookly Team</p>",
		html.EscapeString(notification.Subject), html.EscapeString(name))
	return htmlBody, textBody
}

// LogEmailService writes emails to the log instead of sending them
type LogEmailService struct {
	log *logger.Logger
}

func NewLogEmailService(log *logger.Logger) *LogEmailService {
	return &LogEmailService{log: log}
}

func (s *LogEmailService) SendNotification(ctx context.Context, notification *EmailNotification) error {
	_, textBody := renderContent(notification)
	s.log.InfoContext(ctx, "Email (not sent, SMTP disabled)",
		"kind", string(notification.Kind),
		"to", notification.Email,
		"subject", notification.Subject,
		"body", textBody,
	)
	return nil
}
