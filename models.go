package accounts

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// AccountStatus is the account's lifecycle status
type AccountStatus = string

const (
	// AccountActive marks an account that completed OTP verification
	AccountActive AccountStatus = "ACTIVE"
	// AccountDeactive marks an account that exists but has not completed
	// verification; despite the name this is not a post-active suspension
	AccountDeactive AccountStatus = "DEACTIVE"
)

// DefaultRoleID is the standard user role assigned to registrations that
// do not carry an explicit role
const DefaultRoleID = 2

// MetaKeyOTP is the reserved metadata key holding the outstanding OTP.
// At most one live value exists per account; issuing overwrites it,
// consuming clears it to NULL.
const MetaKeyOTP = "otp"

// Request type literals discriminating the OTP and token flows.
const (
	RequestTypeRegister = "REGISTER"
	RequestTypeForgot   = "FORGOT"
	RequestTypeRefresh  = "REFRESH"
)

// Account is the account model
type Account struct {
	bun.BaseModel `bun:"table:accounts,alias:acc"`
	ID            uuid.UUID     `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	FirstName     string        `bun:"first_name" json:"first_name,omitempty"`
	LastName      string        `bun:"last_name" json:"last_name,omitempty"`
	Email         string        `bun:"email,notnull,unique" json:"email,omitempty"`
	Phone         string        `bun:"phone_number" json:"phone_number,omitempty"`
	PasswordHash  string        `bun:"password_hash" json:"password_hash,omitempty"`
	RoleID        int           `bun:"role_id,notnull" json:"role_id,omitempty"`
	Status        AccountStatus `bun:"status,notnull" json:"status,omitempty"`
	IsVerified    bool          `bun:"is_verified" json:"is_verified,omitempty"`
	CreatedAt     *time.Time    `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time    `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// EnsureStatus fills the implicit DEACTIVE status on records that never
// went through verification.
func (a *Account) EnsureStatus() {
	if a.Status == "" {
		a.Status = AccountDeactive
	}
}

// AccountMetadata is an ephemeral per-account key/value entry, composite
// keyed by (AccountID, Key). The core uses it solely to hold the current
// outstanding OTP under MetaKeyOTP.
type AccountMetadata struct {
	bun.BaseModel `bun:"table:account_metadata,alias:meta"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	AccountID     uuid.UUID  `bun:"account_id,notnull,type:uuid" json:"account_id,omitempty"`
	Key           string     `bun:"key,notnull" json:"key,omitempty"`
	Value         *string    `bun:"value" json:"value,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// HasValue reports whether an outstanding value is stored.
func (m *AccountMetadata) HasValue() bool {
	return m != nil && m.Value != nil && *m.Value != ""
}
