package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestIssueAndVerifyToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "ctl-test-secret-0123456789")

	out, err := execute(t, "issue-token", "--subject", "acc-42", "--role", "csc_operator")
	require.NoError(t, err)
	tok := strings.TrimSpace(out)
	require.NotEmpty(t, tok)

	out, err = execute(t, "verify-token", tok)
	require.NoError(t, err)

	var got verifiedToken
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "acc-42", got.Subject)
	assert.Equal(t, "csc_operator", string(got.Role))
	assert.True(t, got.ExpiresAt.After(got.IssuedAt))
}

func TestIssueToken_TTLFlag(t *testing.T) {
	t.Setenv("JWT_SECRET", "ctl-test-secret-0123456789")

	out, err := execute(t, "issue-token", "--subject", "acc-1", "--role", "admin", "--token-ttl", "1h")
	require.NoError(t, err)

	out, err = execute(t, "verify-token", strings.TrimSpace(out))
	require.NoError(t, err)
	var got verifiedToken
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "1h0m0s", got.ExpiresAt.Sub(got.IssuedAt).String())
}

func TestIssueToken_Errors(t *testing.T) {
	t.Run("unknown role", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "ctl-test-secret-0123456789")
		_, err := execute(t, "issue-token", "--subject", "acc-1", "--role", "superuser")
		assert.Error(t, err)
	})

	t.Run("short secret", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "short")
		_, err := execute(t, "issue-token", "--subject", "acc-1", "--role", "regular")
		assert.ErrorContains(t, err, "JWT_SECRET")
	})

	t.Run("missing subject", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "ctl-test-secret-0123456789")
		_, err := execute(t, "issue-token", "--role", "regular")
		assert.Error(t, err)
	})
}

func TestVerifyToken_Rejects(t *testing.T) {
	t.Setenv("JWT_SECRET", "ctl-test-secret-0123456789")
	out, err := execute(t, "issue-token", "--subject", "acc-1", "--role", "regular")
	require.NoError(t, err)

	t.Setenv("JWT_SECRET", "another-secret-0123456789")
	_, err = execute(t, "verify-token", strings.TrimSpace(out))
	assert.Error(t, err)

	_, err = execute(t, "verify-token", "not.a.token")
	assert.Error(t, err)
}

func TestAdminRegistration_PasswordFromEnv(t *testing.T) {
	t.Setenv(adminPasswordEnv, "from-env-pass")

	reg := adminOptions{name: "Ops", email: "ops@nirmaan.example", contact: "9000000001"}.registration()
	assert.Equal(t, "from-env-pass", reg.Password)
	assert.Equal(t, "admin", string(reg.Role()))

	reg = adminOptions{password: "flag-pass"}.registration()
	assert.Equal(t, "flag-pass", reg.Password)
}
