package alerts

import (
	"crypto/tls"
	"fmt"
	"net/smtp"

	"go.uber.org/zap"

	"github.com/rajasaad7/linkboard/internal/config"
	"github.com/rajasaad7/linkboard/internal/logging"
)

var mailCfg *config.Config

// ConfigureMailer installs the SMTP settings used by SendEmail.
func ConfigureMailer(cfg *config.Config) {
	mailCfg = cfg
}

// SendEmail sends a plain text email over SMTP with TLS. Without an SMTP host
// configured the send is simulated with a log line, which keeps local and
// test environments working.
func SendEmail(env EmailEnvelope) error {
	if mailCfg == nil || mailCfg.SMTPHost == "" {
		logging.L.Info("simulated email send",
			zap.String("to", env.To),
			zap.String("subject", env.Subject))
		return nil
	}

	addr := mailCfg.SMTPHost + ":" + mailCfg.SMTPPort

	msg := fmt.Sprintf("From: %s\r\n", mailCfg.SMTPFrom)
	msg += fmt.Sprintf("To: %s\r\n", env.To)
	msg += fmt.Sprintf("Subject: %s\r\n", env.Subject)
	msg += "MIME-Version: 1.0\r\n"
	msg += "Content-Type: text/plain; charset=\"utf-8\"\r\n"
	msg += "\r\n" + env.Body + "\r\n"

	tlsConfig := &tls.Config{ServerName: mailCfg.SMTPHost}
	conn, err := tls.Dial("tcp", addr, tlsConfig)
	if err != nil {
		return fmt.Errorf("smtp dial: %w", err)
	}
	defer conn.Close()

	c, err := smtp.NewClient(conn, mailCfg.SMTPHost)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	defer c.Close()

	auth := smtp.PlainAuth("", mailCfg.SMTPUser, mailCfg.SMTPPass, mailCfg.SMTPHost)
	if err := c.Auth(auth); err != nil {
		return fmt.Errorf("smtp auth: %w", err)
	}
	if err := c.Mail(mailCfg.SMTPFrom); err != nil {
		return fmt.Errorf("smtp mail from: %w", err)
	}
	if err := c.Rcpt(env.To); err != nil {
		return fmt.Errorf("smtp rcpt to: %w", err)
	}
	wc, err := c.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}
	if _, err = wc.Write([]byte(msg)); err != nil {
		return fmt.Errorf("smtp write: %w", err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("smtp close: %w", err)
	}
	return c.Quit()
}
