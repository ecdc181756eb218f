package accounts

import (
	"context"
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type ForgotPasswordMessage struct {
	Email  string `json:"email"`
	Locale string `json:"-"`
}

func (m ForgotPasswordMessage) Type() string { return "account.forgot_password" }

func (m ForgotPasswordMessage) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Email, validation.Required, is.Email),
	)
}

type ForgotPasswordResponse struct {
	Message string `json:"message"`
}

// ForgotPassword mints a fresh code for the password recovery flow,
// overwriting any outstanding one, and sends it inline.
func (s *LifecycleService) ForgotPassword(ctx context.Context, msg ForgotPasswordMessage) (*ForgotPasswordResponse, error) {
	if err := msg.Validate(); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "invalid forgot password payload")
	}

	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	var account *Account
	var code string

	err := s.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		var err error
		if account, err = s.repo.Accounts().GetByEmailTx(ctx, tx, msg.Email); err != nil {
			if repository.IsRecordNotFound(err) {
				return ErrAccountNotFound
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to look up account")
		}

		if code, err = s.otp.Generate(s.config.OTPLength); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to generate otp")
		}

		if err := s.repo.Metadata().SetValueTx(ctx, tx, account.ID, MetaKeyOTP, code); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to store otp")
		}

		return nil
	})

	if err != nil {
		return nil, s.fail("forgot password", err)
	}

	s.notify(account.Email,
		s.resolve(msg.Locale, MsgForgotOTPSubject),
		fmt.Sprintf(s.resolve(msg.Locale, MsgForgotOTPBody), code))

	return &ForgotPasswordResponse{
		Message: s.resolve(msg.Locale, MsgOTPSent),
	}, nil
}

type ResetPasswordMessage struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Locale   string `json:"-"`
}

func (m ResetPasswordMessage) Type() string { return "account.reset_password" }

func (m ResetPasswordMessage) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Email, validation.Required, is.Email),
		validation.Field(&m.Password, validation.Required),
	)
}

type ResetPasswordResponse struct {
	Message   string    `json:"message"`
	AccountID uuid.UUID `json:"account_id"`
	Email     string    `json:"email"`
}

// ResetPassword replaces the stored hash and clears any outstanding OTP.
// The OTP is cleared, not checked: any caller that knows the email can
// reset the password, so this operation must be gated upstream.
func (s *LifecycleService) ResetPassword(ctx context.Context, msg ResetPasswordMessage) (*ResetPasswordResponse, error) {
	if err := msg.Validate(); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "invalid reset password payload")
	}

	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	hash, err := s.hasher.HashPassword(msg.Password)
	if err != nil {
		return nil, s.fail("reset password", err)
	}

	var account *Account

	err = s.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		var err error
		if account, err = s.repo.Accounts().GetByEmailTx(ctx, tx, msg.Email); err != nil {
			if repository.IsRecordNotFound(err) {
				return ErrAccountNotFound
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to look up account")
		}

		if err := s.repo.Accounts().ResetPasswordTx(ctx, tx, account.ID, hash); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to update password")
		}

		if err := s.repo.Metadata().ClearValueTx(ctx, tx, account.ID, MetaKeyOTP); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to clear otp")
		}

		return nil
	})

	if err != nil {
		return nil, s.fail("reset password", err)
	}

	return &ResetPasswordResponse{
		Message:   s.resolve(msg.Locale, MsgPasswordReset),
		AccountID: account.ID,
		Email:     account.Email,
	}, nil
}
