package email

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"html/template"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// EmailService defines the interface for email operations
type EmailService interface {
	SendInvitationEmail(msg InvitationMessage) error
	SendClaimConfirmationEmail(toEmail, toName, claimedName string, transferred int64) error
}

// InvitationMessage carries everything an invitation email needs
type InvitationMessage struct {
	ToEmail     string
	InviterName string
	Role        string
	Token       string
	ExpiresAt   time.Time
}

// SMTPConfig holds configuration for SMTP server
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromName  string
	FromEmail string
	UseTLS    bool
	BaseURL   string // Base URL for the application
}

// EmailServiceImpl implements EmailService
type EmailServiceImpl struct {
	config SMTPConfig
	logger zerolog.Logger
	send   func(to string, msg []byte) error
}

// NewEmailService creates a new EmailService
func NewEmailService(config SMTPConfig, logger zerolog.Logger) EmailService {
	s := &EmailServiceImpl{
		config: config,
		logger: logger,
	}
	s.send = s.sendSMTP
	return s
}

func (s *EmailServiceImpl) configured() bool {
	return s.config.Host != "" && s.config.Username != "" && s.config.Password != ""
}

var invitationTemplate = template.Must(template.New("invitation").Parse(`<html>
<body>
	<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
		<h2 style="color: #333;">You're invited to the Head TA Directory</h2>
		<p>{{.InviterName}} invited you to join the directory as {{.RoleLabel}}.</p>
		<div style="text-align: center; margin: 30px 0;">
			<a href="{{.SignupURL}}" style="background-color: #4a86e8; color: white; padding: 12px 24px; text-decoration: none; border-radius: 4px; font-weight: bold;">Accept invitation</a>
		</div>
		<p>This invitation expires on {{.ExpiresAt}}.</p>
		<p>If you were not expecting this email you can ignore it.</p>
	</div>
</body>
</html>`))

var claimTemplate = template.Must(template.New("claim").Parse(`<html>
<body>
	<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
		<h2 style="color: #333;">Profile claimed</h2>
		<p>Hello {{.Name}},</p>
		<p>The profile "{{.ClaimedName}}" is now linked to your account and {{.Transferred}} TA assignment(s) were moved to you.</p>
	</div>
</body>
</html>`))

// SignupURL builds the link a new user follows to accept an invitation
func (s *EmailServiceImpl) SignupURL(token string) string {
	return strings.TrimRight(s.config.BaseURL, "/") + "/signup?token=" + token
}

// SendInvitationEmail sends the signup link to an invited person
func (s *EmailServiceImpl) SendInvitationEmail(msg InvitationMessage) error {
	signupURL := s.SignupURL(msg.Token)
	if !s.configured() {
		s.logger.Warn().
			Str("toEmail", msg.ToEmail).
			Str("signupURL", signupURL).
			Msg("SMTP not configured - invitation email not sent. Use the URL above for testing.")
		return nil
	}

	roleLabel := "a head TA"
	if msg.Role == "admin" {
		roleLabel = "an administrator"
	}

	var body bytes.Buffer
	err := invitationTemplate.Execute(&body, map[string]string{
		"InviterName": msg.InviterName,
		"RoleLabel":   roleLabel,
		"SignupURL":   signupURL,
		"ExpiresAt":   msg.ExpiresAt.UTC().Format("January 2, 2006 15:04 MST"),
	})
	if err != nil {
		return fmt.Errorf("failed to render invitation email: %w", err)
	}

	return s.sendHTMLEmail(msg.ToEmail, "You're invited to the Head TA Directory", body.String())
}

// SendClaimConfirmationEmail tells a user a placeholder profile was merged into their account
func (s *EmailServiceImpl) SendClaimConfirmationEmail(toEmail, toName, claimedName string, transferred int64) error {
	if !s.configured() {
		s.logger.Warn().
			Str("toEmail", toEmail).
			Str("claimedName", claimedName).
			Int64("transferred", transferred).
			Msg("SMTP not configured - claim confirmation email not sent.")
		return nil
	}

	var body bytes.Buffer
	err := claimTemplate.Execute(&body, map[string]interface{}{
		"Name":        toName,
		"ClaimedName": claimedName,
		"Transferred": transferred,
	})
	if err != nil {
		return fmt.Errorf("failed to render claim email: %w", err)
	}

	return s.sendHTMLEmail(toEmail, "Your Head TA Directory profile was claimed", body.String())
}

// buildMessage renders headers and body in a stable order
func (s *EmailServiceImpl) buildMessage(toEmail, subject, htmlBody string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s <%s>\r\n", s.config.FromName, s.config.FromEmail)
	fmt.Fprintf(&b, "To: %s\r\n", toEmail)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(htmlBody)
	return []byte(b.String())
}

// sendHTMLEmail sends an HTML email
func (s *EmailServiceImpl) sendHTMLEmail(toEmail, subject, htmlBody string) error {
	if err := s.send(toEmail, s.buildMessage(toEmail, subject, htmlBody)); err != nil {
		s.logger.Error().Err(err).Str("toEmail", toEmail).Str("subject", subject).Msg("Failed to send email")
		return err
	}
	return nil
}

func (s *EmailServiceImpl) sendSMTP(toEmail string, message []byte) error {
	auth := smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)
	serverAddress := s.config.Host + ":" + strconv.Itoa(s.config.Port)

	if !s.config.UseTLS {
		if err := smtp.SendMail(serverAddress, auth, s.config.FromEmail, []string{toEmail}, message); err != nil {
			return fmt.Errorf("failed to send email: %w", err)
		}
		return nil
	}

	conn, err := tls.Dial("tcp", serverAddress, &tls.Config{ServerName: s.config.Host})
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, s.config.Host)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	defer client.Quit()

	if err = client.Auth(auth); err != nil {
		return fmt.Errorf("SMTP authentication failed: %w", err)
	}
	if err = client.Mail(s.config.FromEmail); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err = client.Rcpt(toEmail); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}
	if _, err = w.Write(message); err != nil {
		return fmt.Errorf("failed to write email message: %w", err)
	}
	if err = w.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}
	return nil
}
