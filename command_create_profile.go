package creatorconnect

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/nyaruka/phonenumbers"
	"github.com/uptrace/bun"
)

// ProfileForm carries the raw multipart fields of a provisioning request.
// JSON sub-fields stay unparsed so malformed payloads can be rejected
// with a validation failure instead of a server error.
type ProfileForm struct {
	CreatorName             string
	Bio                     string
	Email                   string
	ContentCategoriesJSON   string
	PlatformSpecialtiesJSON string
	ServicesOfferedJSON     string
	SocialLinksJSON         string
	FollowerRange           string
	RateRange               string

	CompanyName        string
	ContactPerson      string
	CompanyDescription string
	IndustryCategory   string
	LookingForJSON     string
	BudgetRange        string
	ProjectType        string
	Phone              string

	WebsiteURL string
	Location   string
	Tags       string

	ProfilePhotoName string
	CompanyLogoName  string
	PortfolioNames   []string
}

type ProvisionProfileMessage struct {
	AccountType string `json:"accountType"`
	UserID      string `json:"userId"`
	Form        ProfileForm
	OnResponse  func(r *ProvisionProfileResponse)
}

func (e ProvisionProfileMessage) Type() string { return "profile.provision" }

type ProvisionProfileResponse struct {
	Success bool   `json:"success"`
	Profile any    `json:"profile"`
	Slug    string `json:"slug"`
}

// profileBuilder is one marketplace side of the provisioning flow
type profileBuilder interface {
	Validate() error
	Persist(ctx context.Context, tx bun.Tx) (string, any, error)
}

type ProvisionProfileHandler struct {
	repo    RepositoryManager
	uploads UploadStore
	logger  Logger
}

func NewProvisionProfileHandler(repo RepositoryManager, uploads UploadStore) *ProvisionProfileHandler {
	if uploads == nil {
		uploads = PlaceholderUploadStore{}
	}
	return &ProvisionProfileHandler{
		repo:    repo,
		uploads: uploads,
		logger:  defLogger{},
	}
}

func (h *ProvisionProfileHandler) WithLogger(logger Logger) *ProvisionProfileHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

func (h *ProvisionProfileHandler) Execute(ctx context.Context, event ProvisionProfileMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during profile provisioning",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *ProvisionProfileHandler) execute(ctx context.Context, event ProvisionProfileMessage) error {
	if event.AccountType == "" || event.UserID == "" {
		return goerrors.New("Missing required fields", goerrors.CategoryValidation).
			WithCode(goerrors.CodeBadRequest)
	}

	if !ValidAccountKind(event.AccountType) {
		return goerrors.New("Invalid account type", goerrors.CategoryValidation).
			WithCode(goerrors.CodeBadRequest)
	}

	accountID, err := uuid.Parse(event.UserID)
	if err != nil {
		return goerrors.New("Missing required fields", goerrors.CategoryValidation).
			WithCode(goerrors.CodeBadRequest)
	}

	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	account, err := h.repo.Accounts().GetByID(ctx, accountID.String())
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return ErrUserNotFound
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to look up account")
	}

	var builder profileBuilder
	if event.AccountType == KindContentCreator {
		builder = &creatorProfileBuilder{handler: h, form: event.Form}
	} else {
		builder = &brandProfileBuilder{handler: h, form: event.Form, account: account}
	}

	if err := builder.Validate(); err != nil {
		return err
	}

	resp := &ProvisionProfileResponse{}

	// Profile insert and account backlink commit together so a
	// half-provisioned account can never be observed.
	err = h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		slug, profile, err := builder.Persist(ctx, tx)
		if err != nil {
			return err
		}

		if _, err := h.repo.Accounts().SetProfileReferenceTx(ctx, tx, account.ID, slug); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to link profile to account")
		}

		resp.Success = true
		resp.Profile = profile
		resp.Slug = slug
		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "profile provisioning transaction failed")
	}

	if event.OnResponse != nil {
		event.OnResponse(resp)
	}

	return nil
}

type creatorProfileBuilder struct {
	handler *ProvisionProfileHandler
	form    ProfileForm
}

func (b *creatorProfileBuilder) Validate() error {
	if strings.TrimSpace(b.form.CreatorName) == "" || strings.TrimSpace(b.form.Bio) == "" {
		return goerrors.New("Creator name and bio are required", goerrors.CategoryValidation).
			WithCode(goerrors.CodeBadRequest)
	}
	return nil
}

func (b *creatorProfileBuilder) Persist(ctx context.Context, tx bun.Tx) (string, any, error) {
	h := b.handler

	categories, err := parseStringList(b.form.ContentCategoriesJSON, "content_categories")
	if err != nil {
		return "", nil, err
	}
	specialties, err := parseStringList(b.form.PlatformSpecialtiesJSON, "platform_specialties")
	if err != nil {
		return "", nil, err
	}
	services, err := parseStringList(b.form.ServicesOfferedJSON, "services_offered")
	if err != nil {
		return "", nil, err
	}
	socialLinks, err := parseStringMap(b.form.SocialLinksJSON, "social_media_links")
	if err != nil {
		return "", nil, err
	}

	record := &CreatorProfile{
		Title:               b.form.CreatorName + " - Creator",
		CreatorName:         b.form.CreatorName,
		Email:               b.form.Email,
		Bio:                 b.form.Bio,
		ContentCategories:   categories,
		PlatformSpecialties: specialties,
		ServicesOffered:     services,
		SocialLinks:         socialLinks,
		WebsiteURL:          b.form.WebsiteURL,
		Location:            b.form.Location,
		Tags:                b.form.Tags,
		Status:              StatusPending,
		AvailableForWork:    true,
	}

	if option, ok := FollowerRangeOption(b.form.FollowerRange); ok {
		record.FollowerRange = option
	}
	if option, ok := RateRangeOption(b.form.RateRange); ok {
		record.RateRange = option
	}

	if b.form.ProfilePhotoName != "" {
		url, err := h.uploads.StoreProfilePhoto(ctx, b.form.ProfilePhotoName)
		if err != nil {
			return "", nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to store profile photo")
		}
		record.ProfilePhotoURL = url
	}

	for _, name := range b.form.PortfolioNames {
		url, err := h.uploads.StorePortfolioImage(ctx, name)
		if err != nil {
			return "", nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to store portfolio image")
		}
		record.PortfolioImages = append(record.PortfolioImages, url)
	}

	slug, err := h.uniqueSlug(ctx, record.Title, h.repo.Creators().SlugExists)
	if err != nil {
		return "", nil, err
	}
	record.Slug = slug

	if record, err = h.repo.Creators().CreateTx(ctx, tx, record); err != nil {
		return "", nil, goerrors.Wrap(err, goerrors.CategoryInternal, "could not create creator profile")
	}

	return record.Slug, record, nil
}

type brandProfileBuilder struct {
	handler *ProvisionProfileHandler
	form    ProfileForm
	account *Account
}

func (b *brandProfileBuilder) Validate() error {
	if strings.TrimSpace(b.form.CompanyName) == "" ||
		strings.TrimSpace(b.form.ContactPerson) == "" ||
		strings.TrimSpace(b.form.CompanyDescription) == "" {
		return goerrors.New("Company name, contact person, and description are required", goerrors.CategoryValidation).
			WithCode(goerrors.CodeBadRequest)
	}
	return nil
}

func (b *brandProfileBuilder) Persist(ctx context.Context, tx bun.Tx) (string, any, error) {
	h := b.handler

	lookingFor, err := parseStringList(b.form.LookingForJSON, "looking_for")
	if err != nil {
		return "", nil, err
	}

	record := &BrandProfile{
		Title:              b.form.CompanyName,
		CompanyName:        b.form.CompanyName,
		ContactPerson:      b.form.ContactPerson,
		Email:              b.account.Email,
		CompanyDescription: b.form.CompanyDescription,
		WebsiteURL:         b.form.WebsiteURL,
		IndustryCategory:   b.form.IndustryCategory,
		LookingFor:         lookingFor,
		Phone:              normalizePhone(b.form.Phone),
		Location:           b.form.Location,
		Tags:               b.form.Tags,
		Status:             StatusPending,
	}

	if option, ok := BudgetRangeOption(b.form.BudgetRange); ok {
		record.BudgetRange = option
	}
	if option, ok := ProjectTypeOption(b.form.ProjectType); ok {
		record.ProjectType = option
	}

	if b.form.CompanyLogoName != "" {
		url, err := h.uploads.StoreCompanyLogo(ctx, b.form.CompanyLogoName)
		if err != nil {
			return "", nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to store company logo")
		}
		record.CompanyLogoURL = url
	}

	slug, err := h.uniqueSlug(ctx, record.Title, h.repo.Brands().SlugExists)
	if err != nil {
		return "", nil, err
	}
	record.Slug = slug

	if record, err = h.repo.Brands().CreateTx(ctx, tx, record); err != nil {
		return "", nil, goerrors.Wrap(err, goerrors.CategoryInternal, "could not create brand profile")
	}

	return record.Slug, record, nil
}

func (h *ProvisionProfileHandler) uniqueSlug(ctx context.Context, title string, exists func(context.Context, string) (bool, error)) (string, error) {
	slug := Slugify(title)
	if slug == "" {
		slug = uuid.NewString()[:8]
	}

	taken, err := exists(ctx, slug)
	if err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to check slug availability")
	}
	if !taken {
		return slug, nil
	}

	return slug + "-" + uuid.NewString()[:8], nil
}

func parseStringList(raw, field string) ([]string, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	var out []string
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, malformedFieldError(field, err)
	}
	return out, nil
}

func parseStringMap(raw, field string) (map[string]string, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	out := map[string]string{}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, malformedFieldError(field, err)
	}
	return out, nil
}

func malformedFieldError(field string, err error) error {
	return goerrors.Wrap(err, goerrors.CategoryValidation, "Invalid "+field+" payload").
		WithCode(goerrors.CodeBadRequest).
		WithMetadata(map[string]any{
			"field": field,
		})
}

func normalizePhone(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	parsed, err := phonenumbers.Parse(raw, "US")
	if err != nil || !phonenumbers.IsValidNumber(parsed) {
		return raw
	}

	return phonenumbers.Format(parsed, phonenumbers.E164)
}
