package creatorconnect

import (
	"context"
	"time"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

var MarkAccountVerifiedSQL = `UPDATE "accounts" AS "acct"
SET
	"email_verified" = TRUE,
	"verification_token" = NULL,
	"verification_sent_at" = NULL,
	"updated_at" = CURRENT_TIMESTAMP
WHERE
	"acct"."id" = ?
RETURNING *;`

var RotateVerificationTokenSQL = `UPDATE "accounts" AS "acct"
SET
	"verification_token" = ?,
	"verification_sent_at" = ?,
	"updated_at" = CURRENT_TIMESTAMP
WHERE
	"acct"."id" = ?
RETURNING *;`

// Accounts is the persistence surface for identity records
type Accounts interface {
	GetByID(ctx context.Context, id string, criteria ...repository.SelectCriteria) (*Account, error)
	GetByEmail(ctx context.Context, email string, criteria ...repository.SelectCriteria) (*Account, error)
	GetByEmailTx(ctx context.Context, tx bun.IDB, email string, criteria ...repository.SelectCriteria) (*Account, error)
	GetByVerificationToken(ctx context.Context, token string) (*Account, error)
	GetByVerificationTokenTx(ctx context.Context, tx bun.IDB, token string) (*Account, error)
	Create(ctx context.Context, record *Account, criteria ...repository.InsertCriteria) (*Account, error)
	CreateTx(ctx context.Context, tx bun.IDB, record *Account, criteria ...repository.InsertCriteria) (*Account, error)
	MarkVerifiedTx(ctx context.Context, tx bun.IDB, id uuid.UUID) (*Account, error)
	RotateVerificationTokenTx(ctx context.Context, tx bun.IDB, id uuid.UUID, token string, sentAt time.Time) (*Account, error)
	SetProfileReferenceTx(ctx context.Context, tx bun.IDB, id uuid.UUID, reference string) (*Account, error)
	TrackLogin(ctx context.Context, account *Account) error
	TrackLoginTx(ctx context.Context, tx bun.IDB, account *Account) error
}

type accounts struct {
	repository.Repository[*Account]
	db *bun.DB
}

var _ Accounts = (*accounts)(nil)

func NewAccountsRepository(db *bun.DB) Accounts {
	repo := repository.NewRepository[*Account](db, repository.ModelHandlers[*Account]{
		NewRecord: func() *Account { return &Account{} },
		GetID: func(a *Account) uuid.UUID {
			if a == nil {
				return uuid.Nil
			}
			return a.ID
		},
		SetID: func(a *Account, id uuid.UUID) {
			if a != nil {
				a.ID = id
			}
		},
		GetIdentifier: func() string {
			return "email"
		},
	})

	return &accounts{
		Repository: repo,
		db:         db,
	}
}

func (a *accounts) GetByEmail(ctx context.Context, email string, criteria ...repository.SelectCriteria) (*Account, error) {
	return a.GetByEmailTx(ctx, a.db, email, criteria...)
}

func (a *accounts) GetByEmailTx(ctx context.Context, tx bun.IDB, email string, criteria ...repository.SelectCriteria) (*Account, error) {
	return a.getByColumnTx(ctx, tx, "email", email, criteria...)
}

func (a *accounts) GetByVerificationToken(ctx context.Context, token string) (*Account, error) {
	return a.GetByVerificationTokenTx(ctx, a.db, token)
}

func (a *accounts) GetByVerificationTokenTx(ctx context.Context, tx bun.IDB, token string) (*Account, error) {
	return a.getByColumnTx(ctx, tx, "verification_token", token)
}

func (a *accounts) getByColumnTx(ctx context.Context, tx bun.IDB, column, value string, criteria ...repository.SelectCriteria) (*Account, error) {
	record := &Account{}
	q := tx.NewSelect().Model(record)

	for _, c := range criteria {
		q.Apply(c)
	}

	err := q.
		Where("?TableAlias."+column+" = ?", value).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					column: value,
				})
		}
		return nil, err
	}

	return record, nil
}

func (a *accounts) Create(ctx context.Context, record *Account, criteria ...repository.InsertCriteria) (*Account, error) {
	return a.CreateTx(ctx, a.db, record, criteria...)
}

func (a *accounts) CreateTx(ctx context.Context, tx bun.IDB, record *Account, criteria ...repository.InsertCriteria) (*Account, error) {
	prepareAccountDefaults(record)
	return a.Repository.CreateTx(ctx, tx, record, criteria...)
}

func (a *accounts) MarkVerifiedTx(ctx context.Context, tx bun.IDB, id uuid.UUID) (*Account, error) {
	res, err := a.Repository.RawTx(ctx, tx, MarkAccountVerifiedSQL, id.String())
	if err != nil {
		return nil, err
	}

	if len(res) == 0 {
		return nil, repository.NewRecordNotFound().
			WithMetadata(map[string]any{
				"id": id.String(),
			})
	}

	return res[0], nil
}

func (a *accounts) RotateVerificationTokenTx(ctx context.Context, tx bun.IDB, id uuid.UUID, token string, sentAt time.Time) (*Account, error) {
	res, err := a.Repository.RawTx(ctx, tx, RotateVerificationTokenSQL, token, sentAt, id.String())
	if err != nil {
		return nil, err
	}

	if len(res) == 0 {
		return nil, repository.NewRecordNotFound().
			WithMetadata(map[string]any{
				"id": id.String(),
			})
	}

	return res[0], nil
}

func (a *accounts) SetProfileReferenceTx(ctx context.Context, tx bun.IDB, id uuid.UUID, reference string) (*Account, error) {
	record := &Account{}
	record.ID = id
	record.ProfileReference = reference

	return a.Repository.UpdateTx(ctx, tx, record, repository.UpdateByID(id.String()))
}

func (a *accounts) TrackLogin(ctx context.Context, account *Account) error {
	return a.TrackLoginTx(ctx, a.db, account)
}

func (a *accounts) TrackLoginTx(ctx context.Context, tx bun.IDB, account *Account) error {
	loggedInAt := time.Now()
	_, err := tx.NewRaw(`
		UPDATE "accounts" AS "acct"
		SET
			"last_login_at" = ?
		WHERE
			("acct".id = ?);
	`, loggedInAt, account.ID).Exec(ctx)

	return err
}

func prepareAccountDefaults(record *Account) {
	if record == nil {
		return
	}

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
}
