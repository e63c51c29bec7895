package mailer

import (
	"testing"

	"github.com/samyuktha-jana/SAP-hackathon/internal/config"

	"github.com/stretchr/testify/assert"
)

func TestNew_DisabledIsNoop(t *testing.T) {
	m := New(config.MailConfig{Enabled: false, Host: "smtp.corp.com"})
	assert.IsType(t, Noop{}, m)
	assert.NoError(t, m.Send([]string{"a@corp.com"}, "s", "b", ""))

	m = New(config.MailConfig{Enabled: true})
	assert.IsType(t, Noop{}, m)
}

func TestNew_Enabled(t *testing.T) {
	m := New(config.MailConfig{Enabled: true, Host: "smtp.corp.com", Port: 587, From: "hub@corp.com"})
	s, ok := m.(*smtpMailer)
	if assert.True(t, ok) {
		assert.Equal(t, "hub@corp.com", s.from)
	}
	// no recipients short-circuits before dialing
	assert.NoError(t, m.Send(nil, "s", "b", ""))
}
