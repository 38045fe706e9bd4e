package creatorconnect

import (
	"context"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Creators is the persistence surface for creator profiles
type Creators interface {
	GetBySlug(ctx context.Context, slug string) (*CreatorProfile, error)
	GetBySlugTx(ctx context.Context, tx bun.IDB, slug string) (*CreatorProfile, error)
	Create(ctx context.Context, record *CreatorProfile, criteria ...repository.InsertCriteria) (*CreatorProfile, error)
	CreateTx(ctx context.Context, tx bun.IDB, record *CreatorProfile, criteria ...repository.InsertCriteria) (*CreatorProfile, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
}

// Brands is the persistence surface for brand profiles
type Brands interface {
	GetBySlug(ctx context.Context, slug string) (*BrandProfile, error)
	GetBySlugTx(ctx context.Context, tx bun.IDB, slug string) (*BrandProfile, error)
	Create(ctx context.Context, record *BrandProfile, criteria ...repository.InsertCriteria) (*BrandProfile, error)
	CreateTx(ctx context.Context, tx bun.IDB, record *BrandProfile, criteria ...repository.InsertCriteria) (*BrandProfile, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
}

// Categories lists browsable content categories
type Categories interface {
	List(ctx context.Context) ([]*Category, error)
}

type creators struct {
	repository.Repository[*CreatorProfile]
	db *bun.DB
}

var _ Creators = (*creators)(nil)

func NewCreatorsRepository(db *bun.DB) Creators {
	repo := repository.NewRepository[*CreatorProfile](db, repository.ModelHandlers[*CreatorProfile]{
		NewRecord: func() *CreatorProfile { return &CreatorProfile{} },
		GetID: func(p *CreatorProfile) uuid.UUID {
			if p == nil {
				return uuid.Nil
			}
			return p.ID
		},
		SetID: func(p *CreatorProfile, id uuid.UUID) {
			if p != nil {
				p.ID = id
			}
		},
		GetIdentifier: func() string {
			return "slug"
		},
	})

	return &creators{
		Repository: repo,
		db:         db,
	}
}

func (r *creators) GetBySlug(ctx context.Context, slug string) (*CreatorProfile, error) {
	return r.GetBySlugTx(ctx, r.db, slug)
}

func (r *creators) GetBySlugTx(ctx context.Context, tx bun.IDB, slug string) (*CreatorProfile, error) {
	record := &CreatorProfile{}
	err := tx.NewSelect().
		Model(record).
		Where("?TableAlias.slug = ?", slug).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					"slug": slug,
				})
		}
		return nil, err
	}

	return record, nil
}

func (r *creators) Create(ctx context.Context, record *CreatorProfile, criteria ...repository.InsertCriteria) (*CreatorProfile, error) {
	return r.CreateTx(ctx, r.db, record, criteria...)
}

func (r *creators) CreateTx(ctx context.Context, tx bun.IDB, record *CreatorProfile, criteria ...repository.InsertCriteria) (*CreatorProfile, error) {
	prepareCreatorDefaults(record)
	return r.Repository.CreateTx(ctx, tx, record, criteria...)
}

func (r *creators) SlugExists(ctx context.Context, slug string) (bool, error) {
	return r.db.NewSelect().
		Model((*CreatorProfile)(nil)).
		Where("?TableAlias.slug = ?", slug).
		Exists(ctx)
}

func prepareCreatorDefaults(record *CreatorProfile) {
	if record == nil {
		return
	}

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}

	if record.Status == "" {
		record.Status = StatusPending
	}
}

type brands struct {
	repository.Repository[*BrandProfile]
	db *bun.DB
}

var _ Brands = (*brands)(nil)

func NewBrandsRepository(db *bun.DB) Brands {
	repo := repository.NewRepository[*BrandProfile](db, repository.ModelHandlers[*BrandProfile]{
		NewRecord: func() *BrandProfile { return &BrandProfile{} },
		GetID: func(p *BrandProfile) uuid.UUID {
			if p == nil {
				return uuid.Nil
			}
			return p.ID
		},
		SetID: func(p *BrandProfile, id uuid.UUID) {
			if p != nil {
				p.ID = id
			}
		},
		GetIdentifier: func() string {
			return "slug"
		},
	})

	return &brands{
		Repository: repo,
		db:         db,
	}
}

func (r *brands) GetBySlug(ctx context.Context, slug string) (*BrandProfile, error) {
	return r.GetBySlugTx(ctx, r.db, slug)
}

func (r *brands) GetBySlugTx(ctx context.Context, tx bun.IDB, slug string) (*BrandProfile, error) {
	record := &BrandProfile{}
	err := tx.NewSelect().
		Model(record).
		Where("?TableAlias.slug = ?", slug).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					"slug": slug,
				})
		}
		return nil, err
	}

	return record, nil
}

func (r *brands) Create(ctx context.Context, record *BrandProfile, criteria ...repository.InsertCriteria) (*BrandProfile, error) {
	return r.CreateTx(ctx, r.db, record, criteria...)
}

func (r *brands) CreateTx(ctx context.Context, tx bun.IDB, record *BrandProfile, criteria ...repository.InsertCriteria) (*BrandProfile, error) {
	prepareBrandDefaults(record)
	return r.Repository.CreateTx(ctx, tx, record, criteria...)
}

func (r *brands) SlugExists(ctx context.Context, slug string) (bool, error) {
	return r.db.NewSelect().
		Model((*BrandProfile)(nil)).
		Where("?TableAlias.slug = ?", slug).
		Exists(ctx)
}

func prepareBrandDefaults(record *BrandProfile) {
	if record == nil {
		return
	}

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}

	if record.Status == "" {
		record.Status = StatusPending
	}
}

type categories struct {
	db *bun.DB
}

var _ Categories = (*categories)(nil)

func NewCategoriesRepository(db *bun.DB) Categories {
	return &categories{db: db}
}

func prepareCategoryDefaults(record *Category) {
	if record == nil {
		return
	}

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
}

func (r *categories) List(ctx context.Context) ([]*Category, error) {
	var records []*Category
	err := r.db.NewSelect().
		Model(&records).
		Order("name ASC").
		Scan(ctx)

	if err != nil {
		return nil, err
	}

	return records, nil
}
