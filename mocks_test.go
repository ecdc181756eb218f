package accounts_test

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/goliatone/go-accounts"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"golang.org/x/crypto/bcrypt"
)

// fakeStore is a map-backed stand-in for the account and metadata tables.
type fakeStore struct {
	mu           sync.Mutex
	accounts     map[string]*accounts.Account        // by email
	meta         map[string]*accounts.AccountMetadata // by accountID|key
	failNextRead error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		accounts: map[string]*accounts.Account{},
		meta:     map[string]*accounts.AccountMetadata{},
	}
}

func metaKey(accountID uuid.UUID, key string) string {
	return accountID.String() + "|" + key
}

func (s *fakeStore) metaValue(accountID uuid.UUID, key string) *string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m, ok := s.meta[metaKey(accountID, key)]; ok {
		return m.Value
	}
	return nil
}

// fakeAccounts satisfies accounts.Accounts; the embedded nil interface
// covers the repository methods the lifecycle service never touches.
type fakeAccounts struct {
	repository.Repository[*accounts.Account]
	store *fakeStore
}

func (f *fakeAccounts) GetByEmail(ctx context.Context, email string) (*accounts.Account, error) {
	return f.GetByEmailTx(ctx, nil, email)
}

func (f *fakeAccounts) GetByEmailTx(ctx context.Context, tx bun.IDB, email string) (*accounts.Account, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()

	if err := f.store.failNextRead; err != nil {
		f.store.failNextRead = nil
		return nil, err
	}

	if record, ok := f.store.accounts[email]; ok {
		return record, nil
	}
	return nil, repository.NewRecordNotFound()
}

func (f *fakeAccounts) Register(ctx context.Context, record *accounts.Account) (*accounts.Account, error) {
	return f.RegisterTx(ctx, nil, record)
}

func (f *fakeAccounts) RegisterTx(ctx context.Context, tx bun.IDB, record *accounts.Account) (*accounts.Account, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	record.EnsureStatus()
	if record.RoleID == 0 {
		record.RoleID = accounts.DefaultRoleID
	}

	f.store.accounts[record.Email] = record
	return record, nil
}

func (f *fakeAccounts) OverwriteTx(ctx context.Context, tx bun.IDB, record *accounts.Account) (*accounts.Account, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()

	for _, existing := range f.store.accounts {
		if existing.ID == record.ID {
			existing.FirstName = record.FirstName
			existing.LastName = record.LastName
			existing.Phone = record.Phone
			existing.PasswordHash = record.PasswordHash
			existing.RoleID = record.RoleID
			existing.Status = accounts.AccountDeactive
			existing.IsVerified = false
			return existing, nil
		}
	}
	return nil, repository.NewRecordNotFound()
}

func (f *fakeAccounts) ActivateTx(ctx context.Context, tx bun.IDB, id uuid.UUID) (*accounts.Account, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()

	for _, existing := range f.store.accounts {
		if existing.ID == id {
			existing.Status = accounts.AccountActive
			existing.IsVerified = true
			return existing, nil
		}
	}
	return nil, repository.NewRecordNotFound()
}

func (f *fakeAccounts) ResetPassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	return f.ResetPasswordTx(ctx, nil, id, passwordHash)
}

func (f *fakeAccounts) ResetPasswordTx(ctx context.Context, tx bun.IDB, id uuid.UUID, passwordHash string) error {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()

	for _, existing := range f.store.accounts {
		if existing.ID == id {
			existing.PasswordHash = passwordHash
			return nil
		}
	}
	return repository.NewRecordNotFound()
}

// fakeMetadata satisfies accounts.AccountMetadataStore.
type fakeMetadata struct {
	repository.Repository[*accounts.AccountMetadata]
	store *fakeStore
}

func (f *fakeMetadata) Get(ctx context.Context, accountID uuid.UUID, key string) (*accounts.AccountMetadata, error) {
	return f.GetTx(ctx, nil, accountID, key)
}

func (f *fakeMetadata) GetTx(ctx context.Context, tx bun.IDB, accountID uuid.UUID, key string) (*accounts.AccountMetadata, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()

	if record, ok := f.store.meta[metaKey(accountID, key)]; ok {
		return record, nil
	}
	return nil, repository.NewRecordNotFound()
}

func (f *fakeMetadata) CreateTx(ctx context.Context, tx bun.IDB, record *accounts.AccountMetadata, criteria ...repository.InsertCriteria) (*accounts.AccountMetadata, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	f.store.meta[metaKey(record.AccountID, record.Key)] = record
	return record, nil
}

func (f *fakeMetadata) SetValueTx(ctx context.Context, tx bun.IDB, accountID uuid.UUID, key, value string) error {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()

	if record, ok := f.store.meta[metaKey(accountID, key)]; ok {
		record.Value = &value
		return nil
	}

	f.store.meta[metaKey(accountID, key)] = &accounts.AccountMetadata{
		ID:        uuid.New(),
		AccountID: accountID,
		Key:       key,
		Value:     &value,
	}
	return nil
}

func (f *fakeMetadata) ClearValueTx(ctx context.Context, tx bun.IDB, accountID uuid.UUID, key string) error {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()

	if record, ok := f.store.meta[metaKey(accountID, key)]; ok {
		record.Value = nil
	}
	return nil
}

var (
	_ accounts.Accounts             = (*fakeAccounts)(nil)
	_ accounts.AccountMetadataStore = (*fakeMetadata)(nil)
)

// fakeManager implements accounts.RepositoryManager over the fake store.
type fakeManager struct {
	store    *fakeStore
	accounts *fakeAccounts
	metadata *fakeMetadata
}

func newFakeManager() *fakeManager {
	store := newFakeStore()
	return &fakeManager{
		store:    store,
		accounts: &fakeAccounts{store: store},
		metadata: &fakeMetadata{store: store},
	}
}

func (m *fakeManager) Validate() error { return nil }
func (m *fakeManager) MustValidate()   {}

func (m *fakeManager) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	return f(ctx, bun.Tx{})
}

func (m *fakeManager) Accounts() accounts.Accounts             { return m.accounts }
func (m *fakeManager) Metadata() accounts.AccountMetadataStore { return m.metadata }

var _ accounts.RepositoryManager = (*fakeManager)(nil)

// stubOTP returns a fixed code, recording the requested length.
type stubOTP struct {
	code       string
	err        error
	lastLength int
}

func (s *stubOTP) Generate(length int) (string, error) {
	s.lastLength = length
	if s.err != nil {
		return "", s.err
	}
	return s.code, nil
}

type notification struct {
	address string
	subject string
	body    string
}

// recordNotifier captures fire-and-forget dispatches for assertions.
type recordNotifier struct {
	ch chan notification
}

func newRecordNotifier() *recordNotifier {
	return &recordNotifier{ch: make(chan notification, 8)}
}

func (r *recordNotifier) Send(ctx context.Context, address, subject, body string) error {
	r.ch <- notification{address: address, subject: subject, body: body}
	return nil
}

func (r *recordNotifier) wait(t *testing.T) notification {
	t.Helper()
	select {
	case n := <-r.ch:
		return n
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for notification")
		return notification{}
	}
}

func (r *recordNotifier) assertSilent(t *testing.T) {
	t.Helper()
	select {
	case n := <-r.ch:
		t.Fatalf("unexpected notification to %s", n.address)
	case <-time.After(50 * time.Millisecond):
	}
}

func testConfig() accounts.Config {
	return accounts.Config{
		SigningKey:      "test-signing-key",
		TokenExpiration: 1,
		Issuer:          "accounts-test",
		OTPLength:       6,
		BcryptCost:      bcrypt.MinCost,
	}
}

func newTestService(t *testing.T) (*accounts.LifecycleService, *fakeManager) {
	t.Helper()
	repo := newFakeManager()
	svc := accounts.NewLifecycleService(repo, testConfig())
	return svc, repo
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := accounts.NewPasswordAuthenticator(bcrypt.MinCost).HashPassword(password)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	return hash
}

func seedAccount(t *testing.T, repo *fakeManager, email, password string, status accounts.AccountStatus, verified bool) *accounts.Account {
	t.Helper()
	record := &accounts.Account{
		ID:           uuid.New(),
		FirstName:    "Pepe",
		LastName:     "Rone",
		Email:        email,
		PasswordHash: hashPassword(t, password),
		RoleID:       accounts.DefaultRoleID,
		Status:       status,
		IsVerified:   verified,
	}
	repo.store.accounts[email] = record
	return record
}

func seedOTP(t *testing.T, repo *fakeManager, accountID uuid.UUID, code string) {
	t.Helper()
	repo.store.meta[metaKey(accountID, accounts.MetaKeyOTP)] = &accounts.AccountMetadata{
		ID:        uuid.New(),
		AccountID: accountID,
		Key:       accounts.MetaKeyOTP,
		Value:     &code,
	}
}
