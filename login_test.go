package accounts_test

import (
	"context"
	"testing"

	"github.com/goliatone/go-accounts"
	goerrors "github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginValidation(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Login(context.Background(), accounts.LoginMessage{Email: "pepe@example.com"})
	require.Error(t, err)

	var rich *goerrors.Error
	require.True(t, goerrors.As(err, &rich))
	assert.Equal(t, goerrors.CategoryValidation, rich.Category)
}

func TestLoginDoesNotLeakAccountExistence(t *testing.T) {
	svc, repo := newTestService(t)
	seedAccount(t, repo, "pepe@example.com", "secret", accounts.AccountActive, true)

	_, unknownErr := svc.Login(context.Background(), accounts.LoginMessage{
		Email:    "nobody@example.com",
		Password: "secret",
	})
	_, wrongErr := svc.Login(context.Background(), accounts.LoginMessage{
		Email:    "pepe@example.com",
		Password: "wrong",
	})

	assert.ErrorIs(t, unknownErr, accounts.ErrInvalidCredentials)
	assert.ErrorIs(t, wrongErr, accounts.ErrInvalidCredentials)
	assert.Equal(t, unknownErr.Error(), wrongErr.Error())
}

func TestLoginUnverifiedAccount(t *testing.T) {
	svc, repo := newTestService(t)
	seedAccount(t, repo, "pepe@example.com", "secret", accounts.AccountDeactive, false)

	_, err := svc.Login(context.Background(), accounts.LoginMessage{
		Email:    "pepe@example.com",
		Password: "secret",
	})
	assert.ErrorIs(t, err, accounts.ErrNotVerified)
}

func TestLoginIssuesSessionToken(t *testing.T) {
	svc, repo := newTestService(t)
	account := seedAccount(t, repo, "pepe@example.com", "secret", accounts.AccountActive, true)

	resp, err := svc.Login(context.Background(), accounts.LoginMessage{
		Email:    "pepe@example.com",
		Password: "secret",
	})
	require.NoError(t, err)
	require.NotNil(t, resp)

	assert.Equal(t, "login success", resp.Message)
	assert.Equal(t, account.ID, resp.AccountID)
	assert.Equal(t, "pepe@example.com", resp.Email)
	require.NotEmpty(t, resp.Token)

	claims, err := svc.Tokens().Validate(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, account.ID.String(), claims.AccountID())
	assert.Equal(t, "pepe@example.com", claims.AccountEmail())
}
