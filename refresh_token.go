package accounts

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation"
	goerrors "github.com/goliatone/go-errors"
)

type RefreshTokenMessage struct {
	RequestType string `json:"type"`
	Token       string `json:"token"`
	Locale      string `json:"-"`
}

func (m RefreshTokenMessage) Type() string { return "account.refresh_token" }

func (m RefreshTokenMessage) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.RequestType, validation.Required),
	)
}

type RefreshTokenResponse struct {
	Message   string `json:"message"`
	AccountID string `json:"account_id"`
	Email     string `json:"email"`
	Token     string `json:"token"`
}

// RefreshToken validates a session token and mints a replacement carrying
// the same account id and email. The embedded claims are trusted as of
// original issuance: no store lookup confirms the account still exists or
// is still ACTIVE.
func (s *LifecycleService) RefreshToken(ctx context.Context, msg RefreshTokenMessage) (*RefreshTokenResponse, error) {
	if err := msg.Validate(); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "invalid refresh payload")
	}

	if msg.RequestType != RequestTypeRefresh {
		return nil, ErrInvalidRequestType
	}

	if msg.Token == "" {
		return nil, ErrTokenNotFound
	}

	claims, err := s.tokens.Validate(msg.Token)
	if err != nil {
		// ErrTokenExpired and the malformed wraps carry their own text
		// codes; pass them through so callers can tell re-auth from
		// tampering.
		return nil, err
	}

	token, err := s.tokens.Issue(claims.AccountID(), claims.AccountEmail())
	if err != nil {
		return nil, s.fail("refresh token", err)
	}

	return &RefreshTokenResponse{
		Message:   s.resolve(msg.Locale, MsgTokenReset),
		AccountID: claims.AccountID(),
		Email:     claims.AccountEmail(),
		Token:     token,
	}, nil
}
