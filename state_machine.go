package accounts

import (
	goerrors "github.com/goliatone/go-errors"
)

const textCodeInvalidTransition = "INVALID_ACCOUNT_STATE_TRANSITION"

// ErrInvalidTransition is returned when a requested status change is not allowed.
var ErrInvalidTransition = goerrors.New("invalid account state transition", goerrors.CategoryValidation).
	WithTextCode(textCodeInvalidTransition).
	WithCode(goerrors.CodeBadRequest)

// AccountStateMachine defines lifecycle transitions for accounts.
type AccountStateMachine interface {
	CanTransition(from, to AccountStatus) bool
	Transition(account *Account, target AccountStatus) error
}

type accountStateMachine struct {
	transitions map[AccountStatus]map[AccountStatus]struct{}
}

// NewAccountStateMachine returns the default transition table. The only
// move in this core is DEACTIVE to ACTIVE; nothing takes an account back.
func NewAccountStateMachine() AccountStateMachine {
	return &accountStateMachine{
		transitions: map[AccountStatus]map[AccountStatus]struct{}{
			AccountDeactive: {
				AccountActive: {},
			},
		},
	}
}

func (sm *accountStateMachine) CanTransition(from, to AccountStatus) bool {
	if from == to {
		return true
	}

	targets, ok := sm.transitions[from]
	if !ok {
		return false
	}

	_, ok = targets[to]
	return ok
}

func (sm *accountStateMachine) Transition(account *Account, target AccountStatus) error {
	if account == nil {
		return ErrAccountNotFound
	}

	account.EnsureStatus()
	if !sm.CanTransition(account.Status, target) {
		return ErrInvalidTransition
	}

	account.Status = target
	return nil
}
