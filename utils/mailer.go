package utils

import (
	"fmt"
	"net/smtp"
	"strings"

	"go.uber.org/zap"
)

// SMTPConfig holds outgoing mail settings. An incomplete config turns
// sends into logged mock sends, which is what development setups use.
type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	FromName string
}

func (c SMTPConfig) Enabled() bool {
	return c.Host != "" && c.Port != "" && c.Username != "" && c.Password != ""
}

type EmailMessage struct {
	To        string
	Subject   string
	PlainBody string
	HTMLBody  string
}

const mailBoundary = "----=_BACKOFFICE_EMAIL_BOUNDARY"

// sendMail is swapped out in tests.
var sendMail = smtp.SendMail

// BuildMIMEMessage renders msg as a multipart/alternative message with a
// plain text part followed by an HTML part.
func BuildMIMEMessage(from string, msg EmailMessage) []byte {
	safe := func(s string) string {
		return strings.ReplaceAll(strings.ReplaceAll(strings.TrimSpace(s), "\r", ""), "\n", " ")
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("From: %s\r\n", safe(from)))
	sb.WriteString(fmt.Sprintf("To: %s\r\n", safe(msg.To)))
	sb.WriteString(fmt.Sprintf("Subject: %s\r\n", safe(msg.Subject)))
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString(fmt.Sprintf("Content-Type: multipart/alternative; boundary=\"%s\"\r\n\r\n", mailBoundary))

	sb.WriteString(fmt.Sprintf("--%s\r\n", mailBoundary))
	sb.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
	sb.WriteString(msg.PlainBody + "\r\n")

	sb.WriteString(fmt.Sprintf("--%s\r\n", mailBoundary))
	sb.WriteString("Content-Type: text/html; charset=utf-8\r\n\r\n")
	sb.WriteString(msg.HTMLBody + "\r\n")

	sb.WriteString(fmt.Sprintf("--%s--\r\n", mailBoundary))
	return []byte(sb.String())
}

// SendEmail delivers msg over SMTP with PLAIN auth.
func SendEmail(cfg SMTPConfig, msg EmailMessage, logger *zap.Logger) error {
	if strings.TrimSpace(msg.To) == "" {
		return fmt.Errorf("email recipient is empty")
	}
	if !cfg.Enabled() {
		logger.Info("[MOCK EMAIL] smtp not configured",
			zap.String("to", msg.To),
			zap.String("subject", msg.Subject),
		)
		return nil
	}

	from := fmt.Sprintf("%s <%s>", cfg.FromName, cfg.Username)
	auth := smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	addr := fmt.Sprintf("%s:%s", cfg.Host, cfg.Port)

	if err := sendMail(addr, auth, cfg.Username, []string{msg.To}, BuildMIMEMessage(from, msg)); err != nil {
		logger.Error("failed to send email", zap.String("to", msg.To), zap.Error(err))
		return err
	}
	logger.Info("email sent", zap.String("to", msg.To), zap.String("subject", msg.Subject))
	return nil
}
