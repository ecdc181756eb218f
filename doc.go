// Package accounts implements the credential lifecycle for a user base:
// registration, one-time-passcode verification, password recovery, login,
// and JWT session issuance/refresh.
//
// Account lifecycle:
//   - Accounts carry an AccountStatus persisted via Bun. A record starts
//     DEACTIVE (pending verification) and moves to ACTIVE when the OTP for
//     its email is consumed. Nothing in this package moves an account back.
//   - Registering an email that already exists is safe: an ACTIVE account is
//     untouched, a DEACTIVE one has its fields replaced wholesale.
//
// OTP handling:
//   - A single reserved metadata key per account holds the outstanding code.
//     Issuing a new code overwrites the previous one; consuming it or
//     completing a password reset clears it to NULL.
//
// Sessions:
//   - Tokens are signed, expiring JWTs carrying the account id and email.
//     Nothing is stored server side; refresh trusts the embedded claims and
//     mints a fresh token without touching the store.
//
// The package is transport agnostic. Every operation takes a Message struct
// and returns a typed Response or a structured error; mapping those onto
// HTTP, gRPC, or anything else is the caller's job.
package accounts
