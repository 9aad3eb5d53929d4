package mailer

import (
	"context"
	"errors"
	"net/smtp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSMTPMailer_Send(t *testing.T) {
	orig := smtpSendMail
	t.Cleanup(func() { smtpSendMail = orig })

	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg []byte
	smtpSendMail = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr = addr
		gotFrom = from
		gotTo = to
		gotMsg = msg
		return nil
	}

	m := NewSMTPMailer("smtp.shop.io", 587, "noreply@shop.io", "pass", "noreply@shop.io")
	err := m.Send(context.Background(), "buyer@shop.io", "Verify Your Email", "click the link")
	assert.NoError(t, err)
	assert.Equal(t, "smtp.shop.io:587", gotAddr)
	assert.Equal(t, "noreply@shop.io", gotFrom)
	assert.Equal(t, []string{"buyer@shop.io"}, gotTo)
	assert.Contains(t, string(gotMsg), "Subject: Verify Your Email")
	assert.Contains(t, string(gotMsg), "click the link")
}

func TestSMTPMailer_SendFailure(t *testing.T) {
	orig := smtpSendMail
	t.Cleanup(func() { smtpSendMail = orig })

	smtpSendMail = func(string, smtp.Auth, string, []string, []byte) error {
		return errors.New("connection refused")
	}

	m := NewSMTPMailer("smtp.shop.io", 587, "u", "p", "noreply@shop.io")
	err := m.Send(context.Background(), "buyer@shop.io", "s", "b")
	assert.Error(t, err)
}

func TestSMTPMailer_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m := NewSMTPMailer("smtp.shop.io", 587, "u", "p", "noreply@shop.io")
	assert.Error(t, m.Send(ctx, "buyer@shop.io", "s", "b"))
}
