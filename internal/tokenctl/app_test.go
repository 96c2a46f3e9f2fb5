package tokenctl

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophsession/internal/clock"
	"github.com/dmitrijs2005/gophsession/internal/common"
	"github.com/dmitrijs2005/gophsession/internal/server/auth"
	"github.com/dmitrijs2005/gophsession/internal/server/models"
	"github.com/dmitrijs2005/gophsession/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophsession/internal/server/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) (*App, *bytes.Buffer) {
	t.Helper()

	c := &clock.FixedClock{T: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	signer, err := auth.NewSigner(auth.Settings{
		Key:               "UnitTestSecretKeyUnitTestSecretKey123",
		Issuer:            "TestIssuer",
		Audience:          "TestAudience",
		ExpirationMinutes: 5,
	}, c)
	require.NoError(t, err)

	rm := repomanager.NewMemoryRepositoryManager()
	ts, err := services.NewTokenService(rm, signer, services.Options{Clock: c})
	require.NoError(t, err)

	out := &bytes.Buffer{}
	return NewApp(services.NewUserService(rm), ts, out), out
}

// field returns the value printed after "name: " in out.
func field(t *testing.T, out, name string) string {
	t.Helper()
	for _, line := range strings.Split(out, "\n") {
		if v, ok := strings.CutPrefix(line, name+": "); ok {
			return v
		}
	}
	t.Fatalf("field %q not found in %q", name, out)
	return ""
}

func TestRun_Lifecycle(t *testing.T) {
	ctx := context.Background()
	app, out := newTestApp(t)

	require.NoError(t, app.Run(ctx, []string{"add-user", "-email", "ops@test.com", "-name", "Ops", "-role", "admin"}))
	userID := strings.TrimSpace(out.String())
	require.NotEmpty(t, userID)

	out.Reset()
	require.NoError(t, app.Run(ctx, []string{"issue", "-user", userID}))
	access := field(t, out.String(), "access_token")
	refresh := field(t, out.String(), "refresh_token")

	out.Reset()
	require.NoError(t, app.Run(ctx, []string{"verify", "-access", access}))
	assert.Equal(t, userID, field(t, out.String(), "sub"))
	assert.Equal(t, "admin", field(t, out.String(), "role"))
	assert.Equal(t, "TestAudience", field(t, out.String(), "aud"))
	assert.Equal(t, "2025-06-01T12:05:00Z", field(t, out.String(), "exp"))

	out.Reset()
	require.NoError(t, app.Run(ctx, []string{"refresh", "-token=" + refresh}))
	rotated := field(t, out.String(), "refresh_token")
	assert.NotEqual(t, refresh, rotated)

	err := app.Run(ctx, []string{"refresh", "-token=" + refresh})
	assert.ErrorIs(t, err, common.ErrInvalidToken)

	out.Reset()
	require.NoError(t, app.Run(ctx, []string{"revoke", "-token=" + rotated}))
	assert.Equal(t, "revoked\n", out.String())

	err = app.Run(ctx, []string{"refresh", "-token=" + rotated})
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestRun_IgnoresServerFlags(t *testing.T) {
	app, out := newTestApp(t)

	err := app.Run(context.Background(), []string{"add-user", "-store", "memory", "-email=x@test.com", "-s", "secret"})
	require.NoError(t, err)
	assert.NotEmpty(t, strings.TrimSpace(out.String()))
}

func TestRun_Errors(t *testing.T) {
	ctx := context.Background()
	app, _ := newTestApp(t)

	tests := []struct {
		name string
		args []string
		want error
	}{
		{"no command", nil, ErrUsage},
		{"unknown command", []string{"drop-all"}, ErrUsage},
		{"issue without user", []string{"issue"}, ErrUsage},
		{"refresh without token", []string{"refresh"}, ErrUsage},
		{"revoke without token", []string{"revoke"}, ErrUsage},
		{"verify without token", []string{"verify"}, ErrUsage},
		{"add-user without email", []string{"add-user", "-name", "n"}, common.ErrInvalidArgument},
		{"issue for unknown user", []string{"issue", "-user", "missing"}, common.ErrorNotFound},
		{"verify garbage", []string{"verify", "-access", "abc"}, common.ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := app.Run(ctx, tt.args)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestRun_RevokeUnknownTokenIsNoop(t *testing.T) {
	app, out := newTestApp(t)

	require.NoError(t, app.Run(context.Background(), []string{"revoke", "-token", "never-issued"}))
	assert.Equal(t, "revoked\n", out.String())
}

func TestRun_VerifyUnverified(t *testing.T) {
	ctx := context.Background()
	app, out := newTestApp(t)

	foreign, err := auth.Sign(&models.User{ID: "u-9", Email: "f@test.com", Role: "user"}, auth.Settings{
		Key:               "AnotherSecretKeyAnotherSecretKey1234",
		Issuer:            "Elsewhere",
		Audience:          "Others",
		ExpirationMinutes: 10,
	}, time.Date(2025, 6, 1, 11, 59, 0, 0, time.UTC))
	require.NoError(t, err)

	err = app.Run(ctx, []string{"verify", "-access", foreign})
	assert.ErrorIs(t, err, common.ErrInvalidToken)

	require.NoError(t, app.Run(ctx, []string{"verify", "-unverified", "-access", foreign}))
	assert.Equal(t, "u-9", field(t, out.String(), "sub"))
	assert.Equal(t, "Elsewhere", field(t, out.String(), "iss"))
	assert.Equal(t, "2025-06-01T12:09:00Z", field(t, out.String(), "exp"))
}
