package mailer

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cyberbrief/internal/config"
	"cyberbrief/internal/retry"
)

func TestSend_NotConfigured(t *testing.T) {
	err := Send(context.Background(), config.Email{}, "subject", "body", retry.Config{MaxAttempts: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}

func TestBuildMessage(t *testing.T) {
	email := config.Email{
		From: "digest@example.com",
		To:   []string{"one@example.com", "two@example.com"},
	}

	msg := string(buildMessage(email, "CyberBrief Daily - August 25, 2026", "body text"))

	header, body, found := strings.Cut(msg, "\r\n\r\n")
	require.True(t, found, "message needs a blank line between headers and body")

	assert.Contains(t, header, "From: digest@example.com\r\n")
	assert.Contains(t, header, "To: one@example.com, two@example.com\r\n")
	assert.Contains(t, header, "Subject: CyberBrief Daily - August 25, 2026\r\n")
	assert.Contains(t, header, `charset="utf-8"`)
	assert.Equal(t, "body text", body)
}
