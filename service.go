package accounts

import (
	"context"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
)

// LifecycleService orchestrates registration, OTP verification, password
// recovery, login, and token refresh. It is the sole mutator of Account
// and AccountMetadata records; every operation is a synchronous
// request/response unit of work.
type LifecycleService struct {
	config   Config
	repo     RepositoryManager
	hasher   PasswordAuthenticator
	otp      OTPGenerator
	tokens   TokenService
	notifier Notifier
	catalog  MessageCatalog
	machine  AccountStateMachine
	logger   Logger
}

// NewLifecycleService returns a new LifecycleService
func NewLifecycleService(repo RepositoryManager, config Config) *LifecycleService {
	config = config.WithDefaults()

	return &LifecycleService{
		config:   config,
		repo:     repo,
		hasher:   NewPasswordAuthenticator(config.BcryptCost),
		otp:      NewOTPGenerator(),
		tokens:   NewTokenService([]byte(config.SigningKey), config.TokenExpiration, config.Issuer, config.Audience, defLogger{}),
		notifier: noopNotifier{},
		catalog:  DefaultCatalog(),
		machine:  NewAccountStateMachine(),
		logger:   defLogger{},
	}
}

func (s *LifecycleService) WithLogger(logger Logger) *LifecycleService {
	s.logger = logger
	return s
}

// WithNotifier sets the channel used to deliver OTP and status messages.
func (s *LifecycleService) WithNotifier(notifier Notifier) *LifecycleService {
	if notifier != nil {
		s.notifier = notifier
	}
	return s
}

// WithCatalog replaces the builtin message catalog.
func (s *LifecycleService) WithCatalog(catalog MessageCatalog) *LifecycleService {
	if catalog != nil {
		s.catalog = catalog
	}
	return s
}

// WithOTPGenerator replaces the default crypto/rand generator.
func (s *LifecycleService) WithOTPGenerator(gen OTPGenerator) *LifecycleService {
	if gen != nil {
		s.otp = gen
	}
	return s
}

// WithTokenService replaces the default HMAC token service.
func (s *LifecycleService) WithTokenService(tokens TokenService) *LifecycleService {
	if tokens != nil {
		s.tokens = tokens
	}
	return s
}

// WithPasswordAuthenticator replaces the default bcrypt hasher.
func (s *LifecycleService) WithPasswordAuthenticator(hasher PasswordAuthenticator) *LifecycleService {
	if hasher != nil {
		s.hasher = hasher
	}
	return s
}

// WithStateMachine replaces the default transition table.
func (s *LifecycleService) WithStateMachine(machine AccountStateMachine) *LifecycleService {
	if machine != nil {
		s.machine = machine
	}
	return s
}

// Tokens returns the TokenService instance used by this service
func (s *LifecycleService) Tokens() TokenService {
	return s.tokens
}

func (s *LifecycleService) resolve(locale, key string) string {
	if locale == "" {
		locale = s.config.DefaultLocale
	}
	return s.catalog.Resolve(locale, key)
}

// otpBody renders the notification body carrying a code. A caller-supplied
// template is only honored when the service is configured for it, and it is
// treated as a format string, never as a load path.
func (s *LifecycleService) otpBody(locale, key, custom, code string) string {
	if s.config.CustomTemplates && custom != "" {
		return fmt.Sprintf(custom, code)
	}
	return fmt.Sprintf(s.resolve(locale, key), code)
}

// notify dispatches fire-and-forget; a delivery failure never rolls back
// the mutation that already happened.
func (s *LifecycleService) notify(address, subject, body string) {
	notifier := s.notifier
	logger := s.logger
	go func() {
		if err := notifier.Send(context.Background(), address, subject, body); err != nil {
			logger.Warn("notification dispatch failed", "address", address, "error", err)
		}
	}()
}

// fail maps any fault that escaped an operation into a structured error.
// Domain errors pass through untouched; everything else is recovered into
// an internal failure that never leaks its cause to the caller.
func (s *LifecycleService) fail(op string, err error) error {
	var rich *goerrors.Error
	if goerrors.As(err, &rich) {
		if rich.Category == goerrors.CategoryInternal {
			s.logger.Error(op+" internal failure", "error", err)
		}
		return rich
	}

	s.logger.Error(op+" internal failure", "error", err)
	return goerrors.Wrap(err, goerrors.CategoryInternal, op+" failed")
}
