package mail

import (
	"context"
	"net/smtp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSMTPMailer_Send(t *testing.T) {
	m := NewSMTPMailer("smtp.example.com", 587, "user", "pass", "RoomLink <no-reply@roomlink.app>")

	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg []byte
	m.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, msg
		return nil
	}

	require.NoError(t, m.Send(context.Background(), "a@b.com", "Your code", "123456"))
	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.Equal(t, "no-reply@roomlink.app", gotFrom)
	assert.Equal(t, []string{"a@b.com"}, gotTo)
	assert.Contains(t, string(gotMsg), "Subject: Your code\r\n")
	assert.True(t, strings.HasSuffix(string(gotMsg), "\r\n\r\n123456"))
}

func TestSMTPMailer_RejectsHeaderInjection(t *testing.T) {
	m := NewSMTPMailer("smtp.example.com", 587, "", "", "x@y.z")
	m.send = func(string, smtp.Auth, string, []string, []byte) error {
		t.Fatal("should not send")
		return nil
	}

	assert.Error(t, m.Send(context.Background(), "a@b.com\r\nBcc: c@d.com", "s", "b"))
}

func TestBuildMessage(t *testing.T) {
	msg := string(BuildMessage("f@x", "t@x", "Hi", "line1\nline2", time.Unix(0, 0).UTC()))
	assert.Contains(t, msg, "From: f@x\r\n")
	assert.Contains(t, msg, "line1\r\nline2")
}
