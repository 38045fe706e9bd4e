package creatorconnect

import (
	"context"
	"database/sql"
	"errors"
	"log"

	"github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"
)

// RepositoryManager exposes all repositories
type RepositoryManager interface {
	repository.Validator
	repository.TransactionManager
	Accounts() Accounts
	Creators() Creators
	Brands() Brands
	Categories() Categories
}

type mngr struct {
	db         *bun.DB
	accounts   Accounts
	creators   Creators
	brands     Brands
	categories Categories
}

func NewRepositoryManager(db *bun.DB) RepositoryManager {
	return &mngr{
		db:         db,
		accounts:   NewAccountsRepository(db),
		creators:   NewCreatorsRepository(db),
		brands:     NewBrandsRepository(db),
		categories: NewCategoriesRepository(db),
	}
}

func (m mngr) Validate() error {
	if m.accounts == nil {
		return errors.New("repository accounts should be initialized")
	}

	if m.creators == nil {
		return errors.New("repository creators should be initialized")
	}

	if m.brands == nil {
		return errors.New("repository brands should be initialized")
	}

	if m.categories == nil {
		return errors.New("repository categories should be initialized")
	}

	return nil
}

func (m mngr) MustValidate() {
	if err := m.Validate(); err != nil {
		log.Panic(err)
	}
}

func (m mngr) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return m.db.RunInTx(ctx, opts, f)
	}
}

func (m mngr) Accounts() Accounts {
	return m.accounts
}

func (m mngr) Creators() Creators {
	return m.creators
}

func (m mngr) Brands() Brands {
	return m.brands
}

func (m mngr) Categories() Categories {
	return m.categories
}
