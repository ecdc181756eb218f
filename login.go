package accounts

import (
	"context"
	"errors"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
)

type LoginMessage struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Locale   string `json:"-"`
}

func (m LoginMessage) Type() string { return "account.login" }

func (m LoginMessage) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Email, validation.Required, is.Email),
		validation.Field(&m.Password, validation.Required),
	)
}

type LoginResponse struct {
	Message   string    `json:"message"`
	AccountID uuid.UUID `json:"account_id"`
	Email     string    `json:"email"`
	Token     string    `json:"token"`
}

// Login authenticates an email/password pair and issues a session token.
// An unknown email and a wrong password produce the same error so callers
// cannot probe for accounts; an unverified account is reported as such,
// which only a holder of valid credentials can observe.
func (s *LifecycleService) Login(ctx context.Context, msg LoginMessage) (*LoginResponse, error) {
	if err := msg.Validate(); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "invalid login payload")
	}

	account, err := s.repo.Accounts().GetByEmail(ctx, msg.Email)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, s.fail("login", err)
	}

	if err := s.hasher.ComparePasswordAndHash(msg.Password, account.PasswordHash); err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			return nil, ErrInvalidCredentials
		}
		return nil, s.fail("login", err)
	}

	if !account.IsVerified {
		return nil, ErrNotVerified
	}

	token, err := s.tokens.Issue(account.ID.String(), account.Email)
	if err != nil {
		return nil, s.fail("login", err)
	}

	return &LoginResponse{
		Message:   s.resolve(msg.Locale, MsgLoginSuccess),
		AccountID: account.ID,
		Email:     account.Email,
		Token:     token,
	}, nil
}
