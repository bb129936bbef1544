package mailing

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageHeaders(t *testing.T) {
	s := NewSMTPSender(MailConfig{SMTPEmail: "noreply@xsj.local", SMTPSender: "Xianshiji"})

	msg := s.Message("user@example.com", "expiry digest", "<p>hi</p>")

	assert.Equal(t, []string{"user@example.com"}, msg.GetHeader("To"))
	assert.Equal(t, []string{"expiry digest"}, msg.GetHeader("Subject"))
	require.Len(t, msg.GetHeader("From"), 1)
	assert.Contains(t, msg.GetHeader("From")[0], "noreply@xsj.local")

	var buf bytes.Buffer
	_, err := msg.WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "<p>hi</p>")
}

func TestSendRejectsBadPort(t *testing.T) {
	s := NewSMTPSender(MailConfig{SMTPPort: "not-a-port"})
	assert.Error(t, s.Send("a@b.c", "s", "b"))
}
