package accounts

import (
	"context"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// RegisterOutcome discriminates the three registration results.
type RegisterOutcome = string

const (
	RegisterOutcomeCreated           RegisterOutcome = "created"
	RegisterOutcomeUpdated           RegisterOutcome = "updated"
	RegisterOutcomeAlreadyRegistered RegisterOutcome = "already-registered"
)

type RegisterMessage struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone_number"`
	Password  string `json:"password"`
	RoleID    int    `json:"role_id"`
	Template  string `json:"custom_template,omitempty"`
	Locale    string `json:"-"`
}

func (m RegisterMessage) Type() string { return "account.register" }

func (m RegisterMessage) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Email, validation.Required, is.Email),
		validation.Field(&m.Password, validation.Required),
	)
}

type RegisterResponse struct {
	Outcome   RegisterOutcome `json:"outcome"`
	Message   string          `json:"message"`
	AccountID uuid.UUID       `json:"account_id"`
}

// Register creates an account for a new email, overwrites a DEACTIVE slot,
// or leaves an ACTIVE account untouched. Only the brand-new branch issues
// an OTP and a notification; the DEACTIVE overwrite keeps whatever code is
// already outstanding for that slot.
func (s *LifecycleService) Register(ctx context.Context, msg RegisterMessage) (*RegisterResponse, error) {
	if err := msg.Validate(); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "invalid registration payload")
	}

	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	hash, err := s.hasher.HashPassword(msg.Password)
	if err != nil {
		return nil, s.fail("register", err)
	}

	roleID := msg.RoleID
	if roleID == 0 {
		roleID = DefaultRoleID
	}

	resp := &RegisterResponse{}
	var created *Account
	var code string

	err = s.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		existing, err := s.repo.Accounts().GetByEmailTx(ctx, tx, msg.Email)

		switch {
		case err == nil && existing.Status == AccountActive:
			resp.Outcome = RegisterOutcomeAlreadyRegistered
			resp.Message = s.resolve(msg.Locale, MsgAlreadyRegistered)
			resp.AccountID = existing.ID
			return nil

		case err == nil:
			overwrite := &Account{
				ID:           existing.ID,
				FirstName:    msg.FirstName,
				LastName:     msg.LastName,
				Email:        msg.Email,
				Phone:        msg.Phone,
				PasswordHash: hash,
				RoleID:       roleID,
				Status:       AccountDeactive,
			}
			if _, err := s.repo.Accounts().OverwriteTx(ctx, tx, overwrite); err != nil {
				return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to overwrite account")
			}

			resp.Outcome = RegisterOutcomeUpdated
			resp.Message = s.resolve(msg.Locale, MsgAccountUpdated)
			resp.AccountID = existing.ID
			return nil

		case repository.IsRecordNotFound(err):
			account := &Account{
				FirstName:    msg.FirstName,
				LastName:     msg.LastName,
				Email:        msg.Email,
				Phone:        msg.Phone,
				PasswordHash: hash,
				RoleID:       roleID,
				Status:       AccountDeactive,
			}

			if s.config.UseHashID {
				if id, err := hashid.NewUUID(msg.Email); err == nil {
					account.ID = id
				}
			}

			if account, err = s.repo.Accounts().RegisterTx(ctx, tx, account); err != nil {
				return goerrors.Wrap(err, goerrors.CategoryConflict, "could not create account")
			}

			if code, err = s.otp.Generate(s.config.OTPLength); err != nil {
				return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to generate otp")
			}

			meta := &AccountMetadata{
				AccountID: account.ID,
				Key:       MetaKeyOTP,
				Value:     &code,
			}
			if _, err := s.repo.Metadata().CreateTx(ctx, tx, meta); err != nil {
				return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to store otp")
			}

			created = account
			resp.Outcome = RegisterOutcomeCreated
			resp.Message = s.resolve(msg.Locale, MsgAccountCreated)
			resp.AccountID = account.ID
			return nil

		default:
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to look up account")
		}
	})

	if err != nil {
		return nil, s.fail("register", err)
	}

	if created != nil && code != "" {
		s.notify(created.Email,
			s.resolve(msg.Locale, MsgRegistrationOTPSubject),
			s.otpBody(msg.Locale, MsgRegistrationOTPBody, msg.Template, code))
	}

	return resp, nil
}
