package accounts_test

import (
	"context"
	"strings"
	"testing"

	"github.com/goliatone/go-accounts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestAccountLifecycle walks the full journey: register, verify with the
// code that was delivered, login, refresh the session, recover the
// password, and login again with the new one.
func TestAccountLifecycle(t *testing.T) {
	ctx := context.Background()

	repo := newFakeManager()
	notifier := newRecordNotifier()
	otp := &stubOTP{code: "123456"}

	svc := accounts.NewLifecycleService(repo, testConfig()).
		WithOTPGenerator(otp).
		WithNotifier(notifier)

	// register
	reg, err := svc.Register(ctx, accounts.RegisterMessage{
		FirstName: "Pepe",
		LastName:  "Rone",
		Email:     "pepe@example.com",
		Password:  "secret",
	})
	require.NoError(t, err)
	require.Equal(t, accounts.RegisterOutcomeCreated, reg.Outcome)

	delivered := notifier.wait(t)
	require.True(t, strings.Contains(delivered.body, "123456"))

	// login before verification is refused
	_, err = svc.Login(ctx, accounts.LoginMessage{Email: "pepe@example.com", Password: "secret"})
	require.ErrorIs(t, err, accounts.ErrNotVerified)

	// verify with the delivered code
	verified, err := svc.VerifyOTP(ctx, accounts.VerifyOTPMessage{
		RequestType: accounts.RequestTypeRegister,
		Email:       "pepe@example.com",
		OTP:         "123456",
	})
	require.NoError(t, err)
	require.True(t, verified.IsVerified)

	// login
	login, err := svc.Login(ctx, accounts.LoginMessage{Email: "pepe@example.com", Password: "secret"})
	require.NoError(t, err)
	require.NotEmpty(t, login.Token)
	assert.Equal(t, reg.AccountID, login.AccountID)

	// refresh the session
	refreshed, err := svc.RefreshToken(ctx, accounts.RefreshTokenMessage{
		RequestType: accounts.RequestTypeRefresh,
		Token:       login.Token,
	})
	require.NoError(t, err)
	assert.NotEqual(t, login.Token, refreshed.Token)
	assert.Equal(t, reg.AccountID.String(), refreshed.AccountID)

	claims, err := svc.Tokens().Validate(refreshed.Token)
	require.NoError(t, err)
	assert.Equal(t, reg.AccountID.String(), claims.AccountID())

	// password recovery
	otp.code = "777777"
	_, err = svc.ForgotPassword(ctx, accounts.ForgotPasswordMessage{Email: "pepe@example.com"})
	require.NoError(t, err)

	recovery := notifier.wait(t)
	require.True(t, strings.Contains(recovery.body, "777777"))

	_, err = svc.ResetPassword(ctx, accounts.ResetPasswordMessage{
		Email:    "pepe@example.com",
		Password: "rotated",
	})
	require.NoError(t, err)

	// old password is dead, new one logs in
	_, err = svc.Login(ctx, accounts.LoginMessage{Email: "pepe@example.com", Password: "secret"})
	require.ErrorIs(t, err, accounts.ErrInvalidCredentials)

	again, err := svc.Login(ctx, accounts.LoginMessage{Email: "pepe@example.com", Password: "rotated"})
	require.NoError(t, err)
	assert.Equal(t, reg.AccountID, again.AccountID)
}
