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

type ResendOTPMessage struct {
	RequestType string `json:"type"`
	Email       string `json:"email"`
	Template    string `json:"custom_template,omitempty"`
	Locale      string `json:"-"`
}

func (m ResendOTPMessage) Type() string { return "account.resend_otp" }

func (m ResendOTPMessage) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.RequestType, validation.Required),
		validation.Field(&m.Email, validation.Required, is.Email),
	)
}

type ResendOTPResponse struct {
	Message string `json:"message"`
}

// ResendOTP mints a fresh code and overwrites whatever was outstanding;
// despite the name, the previous code is never replayed.
func (s *LifecycleService) ResendOTP(ctx context.Context, msg ResendOTPMessage) (*ResendOTPResponse, error) {
	if err := msg.Validate(); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "invalid resend payload")
	}

	if msg.RequestType != RequestTypeForgot {
		return nil, ErrInvalidRequestType
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
		return nil, s.fail("resend otp", err)
	}

	s.notify(account.Email,
		s.resolve(msg.Locale, MsgResendOTPSubject),
		s.otpBody(msg.Locale, MsgResendOTPBody, msg.Template, code))

	return &ResendOTPResponse{
		Message: s.resolve(msg.Locale, MsgOTPSent),
	}, nil
}
