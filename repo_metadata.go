package accounts

import (
	"context"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

var setMetadataValueSQL = `UPDATE "account_metadata" AS "meta"
SET
	"value" = ?
WHERE
	"meta"."account_id" = ?
AND "meta"."key" = ?;`

var clearMetadataValueSQL = `UPDATE "account_metadata" AS "meta"
SET
	"value" = NULL
WHERE
	"meta"."account_id" = ?
AND "meta"."key" = ?;`

// AccountMetadataStore persists ephemeral per-account key/value entries,
// composite keyed by (accountID, key).
type AccountMetadataStore interface {
	Get(ctx context.Context, accountID uuid.UUID, key string) (*AccountMetadata, error)
	GetTx(ctx context.Context, tx bun.IDB, accountID uuid.UUID, key string) (*AccountMetadata, error)
	CreateTx(ctx context.Context, tx bun.IDB, record *AccountMetadata, criteria ...repository.InsertCriteria) (*AccountMetadata, error)

	// SetValueTx overwrites the stored value without checking what was
	// there before; the entry is created when the account never had one.
	SetValueTx(ctx context.Context, tx bun.IDB, accountID uuid.UUID, key, value string) error

	// ClearValueTx nulls the stored value, keeping the entry around.
	ClearValueTx(ctx context.Context, tx bun.IDB, accountID uuid.UUID, key string) error
}

type metadataRepo struct {
	repository.Repository[*AccountMetadata]
	db *bun.DB
}

var _ AccountMetadataStore = (*metadataRepo)(nil)

func NewAccountMetadataRepository(db *bun.DB) AccountMetadataStore {
	repo := repository.NewRepository[*AccountMetadata](db, repository.ModelHandlers[*AccountMetadata]{
		NewRecord: func() *AccountMetadata { return &AccountMetadata{} },
		GetID: func(m *AccountMetadata) uuid.UUID {
			if m == nil {
				return uuid.Nil
			}
			return m.ID
		},
		SetID: func(m *AccountMetadata, id uuid.UUID) {
			if m != nil {
				m.ID = id
			}
		},
	})

	return &metadataRepo{
		Repository: repo,
		db:         db,
	}
}

func (r *metadataRepo) Get(ctx context.Context, accountID uuid.UUID, key string) (*AccountMetadata, error) {
	return r.GetTx(ctx, r.db, accountID, key)
}

func (r *metadataRepo) GetTx(ctx context.Context, tx bun.IDB, accountID uuid.UUID, key string) (*AccountMetadata, error) {
	record := &AccountMetadata{}

	err := tx.NewSelect().
		Model(record).
		Where("?TableAlias.account_id = ?", accountID).
		Where("?TableAlias.key = ?", key).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					"account_id": accountID.String(),
					"key":        key,
				})
		}
		return nil, err
	}

	return record, nil
}

func (r *metadataRepo) CreateTx(ctx context.Context, tx bun.IDB, record *AccountMetadata, criteria ...repository.InsertCriteria) (*AccountMetadata, error) {
	if record != nil && record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	return r.Repository.CreateTx(ctx, tx, record, criteria...)
}

func (r *metadataRepo) SetValueTx(ctx context.Context, tx bun.IDB, accountID uuid.UUID, key, value string) error {
	res, err := tx.NewRaw(setMetadataValueSQL, value, accountID.String(), key).Exec(ctx)
	if err != nil {
		return err
	}

	if n, err := res.RowsAffected(); err == nil && n > 0 {
		return nil
	}

	_, err = r.CreateTx(ctx, tx, &AccountMetadata{
		AccountID: accountID,
		Key:       key,
		Value:     &value,
	})
	return err
}

func (r *metadataRepo) ClearValueTx(ctx context.Context, tx bun.IDB, accountID uuid.UUID, key string) error {
	_, err := tx.NewRaw(clearMetadataValueSQL, accountID.String(), key).Exec(ctx)
	return err
}
