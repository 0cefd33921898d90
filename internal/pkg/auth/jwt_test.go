package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/burger-pizza/internal/config"
)

func testManager() *SessionManager {
	cfg := config.FromEnv()
	cfg.Session.Secret = "0123456789abcdef0123456789abcdef"
	cfg.Session.TTL = time.Hour
	return NewSessionManager(cfg)
}

func TestIssueAndValidate(t *testing.T) {
	m := testManager()
	id := NewSessionID()

	token, err := m.Issue(id)
	require.NoError(t, err)

	got, err := m.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestValidateRejectsExpired(t *testing.T) {
	m := testManager()
	token, err := m.Issue("s-1")
	require.NoError(t, err)

	m.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = m.Validate(token)
	assert.Error(t, err)
}

func TestValidateRejectsOtherSecret(t *testing.T) {
	token, err := testManager().Issue("s-1")
	require.NoError(t, err)

	other := testManager()
	other.secret = []byte("ffffffffffffffffffffffffffffffff")
	_, err = other.Validate(token)
	assert.Error(t, err)
}

func TestIssueRequiresSessionID(t *testing.T) {
	_, err := testManager().Issue("")
	assert.Error(t, err)
}

func TestExtractTokenFromHeader(t *testing.T) {
	assert.Equal(t, "abc", ExtractTokenFromHeader("Bearer abc"))
	assert.Equal(t, "", ExtractTokenFromHeader("Basic abc"))
}
