package accounts

import (
	"context"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"
)

type VerifyOTPMessage struct {
	RequestType string `json:"type"`
	Email       string `json:"email"`
	OTP         string `json:"otp"`
	Locale      string `json:"-"`
}

func (m VerifyOTPMessage) Type() string { return "account.verify_otp" }

func (m VerifyOTPMessage) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.RequestType, validation.Required),
		validation.Field(&m.Email, validation.Required, is.Email),
		validation.Field(&m.OTP, validation.Required),
	)
}

type VerifyOTPResponse struct {
	Message    string `json:"message"`
	IsVerified bool   `json:"is_verified"`
	LoginType  string `json:"login_type"`
}

// VerifyOTP consumes the outstanding code for an email. On a match the
// account becomes ACTIVE and verified and the code is cleared, so a second
// attempt with the same code fails. This is the only path that activates
// an account; it never moves a verified account backwards.
func (s *LifecycleService) VerifyOTP(ctx context.Context, msg VerifyOTPMessage) (*VerifyOTPResponse, error) {
	if err := msg.Validate(); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "invalid otp verification payload")
	}

	if msg.RequestType != RequestTypeRegister {
		return nil, ErrInvalidRequestType
	}

	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	err := s.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		account, err := s.repo.Accounts().GetByEmailTx(ctx, tx, msg.Email)
		if err != nil {
			if repository.IsRecordNotFound(err) {
				return ErrAccountNotFound
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to look up account")
		}

		meta, err := s.repo.Metadata().GetTx(ctx, tx, account.ID, MetaKeyOTP)
		if err != nil {
			if repository.IsRecordNotFound(err) {
				return ErrInvalidOTP
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to look up otp")
		}

		if !meta.HasValue() || !otpEqual(*meta.Value, msg.OTP) {
			return ErrInvalidOTP
		}

		if err := s.machine.Transition(account, AccountActive); err != nil {
			return err
		}

		if _, err := s.repo.Accounts().ActivateTx(ctx, tx, account.ID); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to activate account")
		}

		if err := s.repo.Metadata().ClearValueTx(ctx, tx, account.ID, MetaKeyOTP); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to clear otp")
		}

		return nil
	})

	if err != nil {
		return nil, s.fail("verify otp", err)
	}

	return &VerifyOTPResponse{
		Message:    s.resolve(msg.Locale, MsgOTPVerified),
		IsVerified: true,
		LoginType:  RequestTypeRegister,
	}, nil
}
