package creatorconnect

import "context"

// UploadStore resolves uploaded assets to publicly reachable URLs
type UploadStore interface {
	StoreProfilePhoto(ctx context.Context, filename string) (string, error)
	StoreCompanyLogo(ctx context.Context, filename string) (string, error)
	StorePortfolioImage(ctx context.Context, filename string) (string, error)
}

const (
	placeholderProfilePhotoURL   = "https://images.unsplash.com/photo-1507003211169-0a1dd7228f2d?w=400&h=400&fit=crop&auto=format,compress"
	placeholderCompanyLogoURL    = "https://images.unsplash.com/photo-1560472354-b33ff0c44a43?w=400&h=400&fit=crop&auto=format,compress"
	placeholderPortfolioImageURL = "https://images.unsplash.com/photo-155165097587-87deedd944c3?w=600&h=400&fit=crop&auto=format,compress"
)

// PlaceholderUploadStore stands in for a real asset pipeline, every
// upload resolves to a fixed stock URL.
type PlaceholderUploadStore struct{}

var _ UploadStore = PlaceholderUploadStore{}

func (PlaceholderUploadStore) StoreProfilePhoto(ctx context.Context, filename string) (string, error) {
	return placeholderProfilePhotoURL, nil
}

func (PlaceholderUploadStore) StoreCompanyLogo(ctx context.Context, filename string) (string, error) {
	return placeholderCompanyLogoURL, nil
}

func (PlaceholderUploadStore) StorePortfolioImage(ctx context.Context, filename string) (string, error) {
	return placeholderPortfolioImageURL, nil
}
