package provider

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"maya-backend/internal/config"
)

func TestSendPDFRequiresCredentials(t *testing.T) {
	t.Parallel()

	sm := NewSMTPMailer(testLogger(), config.SMTPConfig{Host: "smtp.example.com", Port: 587})

	path := filepath.Join(t.TempDir(), "filled.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4"), 0o644))

	err := sm.SendPDF(path)
	require.ErrorContains(t, err, "not configured")
}

func TestSendPDFRequiresExistingFile(t *testing.T) {
	t.Parallel()

	sm := NewSMTPMailer(testLogger(), config.SMTPConfig{
		Host: "smtp.example.com", Port: 587,
		Username: "maya@example.com", Password: "secret", Recipient: "case@example.com",
	})

	err := sm.SendPDF(filepath.Join(t.TempDir(), "missing.pdf"))
	require.ErrorContains(t, err, "not found")
}
