package email

import (
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(cfg SMTPConfig) (*EmailServiceImpl, *[]string) {
	svc := NewEmailService(cfg, zerolog.New(io.Discard)).(*EmailServiceImpl)
	var sent []string
	svc.send = func(to string, msg []byte) error {
		sent = append(sent, to+"\n"+string(msg))
		return nil
	}
	return svc, &sent
}

func TestSendInvitationEmail_Unconfigured(t *testing.T) {
	svc, sent := newTestService(SMTPConfig{BaseURL: "http://localhost:8080"})

	err := svc.SendInvitationEmail(InvitationMessage{ToEmail: "new@example.edu", Token: "tok"})
	require.NoError(t, err)
	assert.Empty(t, *sent)
}

func TestSendInvitationEmail_RendersLink(t *testing.T) {
	svc, sent := newTestService(SMTPConfig{
		Host: "smtp.example.edu", Port: 587, Username: "u", Password: "p",
		FromName: "Head TA Directory", FromEmail: "no-reply@example.edu",
		BaseURL: "https://headta.example.edu/",
	})

	err := svc.SendInvitationEmail(InvitationMessage{
		ToEmail:     "new@example.edu",
		InviterName: "Ada <Lovelace>",
		Role:        "admin",
		Token:       "abc-123",
		ExpiresAt:   time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Len(t, *sent, 1)

	msg := (*sent)[0]
	assert.True(t, strings.HasPrefix(msg, "new@example.edu\n"))
	assert.Contains(t, msg, "https://headta.example.edu/signup?token=abc-123")
	assert.Contains(t, msg, "an administrator")
	assert.Contains(t, msg, "Ada &lt;Lovelace&gt;")
	assert.Contains(t, msg, "Subject: You're invited to the Head TA Directory\r\n")
}

func TestSendClaimConfirmationEmail_PropagatesSendError(t *testing.T) {
	svc, _ := newTestService(SMTPConfig{Host: "smtp", Username: "u", Password: "p"})
	svc.send = func(string, []byte) error { return errors.New("connection refused") }

	err := svc.SendClaimConfirmationEmail("a@example.edu", "Ada", "A. Lovelace", 2)
	assert.EqualError(t, err, "connection refused")
}
