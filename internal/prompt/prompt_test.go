package prompt

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCredentialsFromLines(t *testing.T) {
	var out bytes.Buffer
	p := NewWithIO(strings.NewReader("bob\n10.0.0.5\nsecret\n"), &out, false)

	login, address, password, err := p.Credentials()
	require.NoError(t, err)
	assert.Equal(t, "bob", login)
	assert.Equal(t, "10.0.0.5", address)
	assert.Equal(t, "secret", password)
	assert.Equal(t, "Enter SSH login: Enter SSH address: Enter SSH password: ", out.String())
}

func TestCredentialsCRLF(t *testing.T) {
	p := NewWithIO(strings.NewReader("bob\r\nhost\r\npw"), &bytes.Buffer{}, false)

	login, address, password, err := p.Credentials()
	require.NoError(t, err)
	assert.Equal(t, []string{"bob", "host", "pw"}, []string{login, address, password})
}

func TestCredentialsEOF(t *testing.T) {
	p := NewWithIO(strings.NewReader("bob\n"), &bytes.Buffer{}, false)

	_, _, _, err := p.Credentials()
	assert.ErrorIs(t, err, ErrAborted)
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"yes\n", true},
		{"Y\n", true},
		{" YES \n", true},
		{"no\n", false},
		{"\n", false},
		{"maybe\n", false},
	}
	for _, tt := range tests {
		var out bytes.Buffer
		p := NewWithIO(strings.NewReader(tt.input), &out, false)
		got, err := p.Confirm("Send key?")
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.want, got, tt.input)
		assert.Equal(t, "Send key? (yes/no): ", out.String())
	}
}
