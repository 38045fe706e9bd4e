package creatorconnect

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// AccountKind is the marketplace side an account belongs to
type AccountKind = string

const (
	// KindContentCreator is the creator side of the marketplace
	KindContentCreator AccountKind = "content-creator"
	// KindProductCreator is the brand side of the marketplace
	KindProductCreator AccountKind = "product-creator"
)

// ValidAccountKind reports whether k names one of the two account kinds
func ValidAccountKind(k string) bool {
	return k == KindContentCreator || k == KindProductCreator
}

// AccountKindLabel maps an account kind to its display value
func AccountKindLabel(k AccountKind) string {
	if k == KindContentCreator {
		return "Content Creator"
	}
	return "Product Creator"
}

// Account is the identity record
type Account struct {
	bun.BaseModel      `bun:"table:accounts,alias:acct"`
	ID                 uuid.UUID   `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Email              string      `bun:"email,notnull,unique" json:"email,omitempty"`
	PasswordHash       string      `bun:"password_hash,notnull" json:"-"`
	AccountType        AccountKind `bun:"account_type,notnull" json:"account_type,omitempty"`
	EmailVerified      bool        `bun:"email_verified" json:"email_verified"`
	VerificationToken  string      `bun:"verification_token,nullzero" json:"-"`
	VerificationSentAt *time.Time  `bun:"verification_sent_at,nullzero" json:"-"`
	ProfileReference   string      `bun:"profile_reference,nullzero" json:"profile_reference,omitempty"`
	LastLoginAt        *time.Time  `bun:"last_login_at,nullzero" json:"last_login_at,omitempty"`
	CreatedAt          *time.Time  `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt          *time.Time  `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// AccountSummary is the client-facing projection of an Account.
// Password hash and verification token never leave the server.
type AccountSummary struct {
	ID               string `json:"id"`
	Email            string `json:"email"`
	AccountType      string `json:"accountType"`
	ProfileReference string `json:"profileReference"`
	EmailVerified    bool   `json:"emailVerified"`
}

// GetID returns the string form of the account id
func (a *Account) GetID() string {
	if a == nil || a.ID == uuid.Nil {
		return ""
	}
	return a.ID.String()
}

// Summary builds the client-facing projection
func (a *Account) Summary() AccountSummary {
	return AccountSummary{
		ID:               a.ID.String(),
		Email:            a.Email,
		AccountType:      a.AccountType,
		ProfileReference: a.ProfileReference,
		EmailVerified:    a.EmailVerified,
	}
}

// ProfileStatus tracks moderation state of a provisioned profile
type ProfileStatus = string

const (
	// StatusPending is the initial status of every new profile
	StatusPending ProfileStatus = "pending"
	// StatusVerified marks a moderated, approved profile
	StatusVerified ProfileStatus = "verified"
	// StatusSuspended marks a profile pulled from the marketplace
	StatusSuspended ProfileStatus = "suspended"
)

// RangeOption is an enumerated range stored as {key, value}
type RangeOption struct {
	Key   string `json:"key"`
	Label string `json:"value"`
}

// IsZero reports whether the option was never selected
func (r RangeOption) IsZero() bool {
	return r.Key == "" && r.Label == ""
}

// CreatorProfile is the profile shape for content creators
type CreatorProfile struct {
	bun.BaseModel       `bun:"table:creator_profiles,alias:crp"`
	ID                  uuid.UUID         `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Slug                string            `bun:"slug,notnull,unique" json:"slug,omitempty"`
	Title               string            `bun:"title,notnull" json:"title,omitempty"`
	CreatorName         string            `bun:"creator_name,notnull" json:"creator_name,omitempty"`
	Email               string            `bun:"email" json:"email,omitempty"`
	Bio                 string            `bun:"bio,notnull" json:"bio,omitempty"`
	ProfilePhotoURL     string            `bun:"profile_photo_url" json:"profile_photo_url,omitempty"`
	ContentCategories   []string          `bun:"content_categories,type:jsonb" json:"content_categories,omitempty"`
	PlatformSpecialties []string          `bun:"platform_specialties,type:jsonb" json:"platform_specialties,omitempty"`
	FollowerRange       RangeOption       `bun:"follower_range,type:jsonb" json:"follower_count_range"`
	RateRange           RangeOption       `bun:"rate_range,type:jsonb" json:"rate_range"`
	ServicesOffered     []string          `bun:"services_offered,type:jsonb" json:"services_offered,omitempty"`
	PortfolioImages     []string          `bun:"portfolio_images,type:jsonb" json:"portfolio_images,omitempty"`
	SocialLinks         map[string]string `bun:"social_links,type:jsonb" json:"social_media_links,omitempty"`
	WebsiteURL          string            `bun:"website_url" json:"website_url,omitempty"`
	Location            string            `bun:"location" json:"location,omitempty"`
	Tags                string            `bun:"tags" json:"tags,omitempty"`
	Status              ProfileStatus     `bun:"status,notnull" json:"account_status,omitempty"`
	AvailableForWork    bool              `bun:"available_for_work" json:"available_for_work"`
	CreatedAt           *time.Time        `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt           *time.Time        `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// BrandProfile is the profile shape for product creators
type BrandProfile struct {
	bun.BaseModel      `bun:"table:brand_profiles,alias:brp"`
	ID                 uuid.UUID     `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Slug               string        `bun:"slug,notnull,unique" json:"slug,omitempty"`
	Title              string        `bun:"title,notnull" json:"title,omitempty"`
	CompanyName        string        `bun:"company_name,notnull" json:"company_name,omitempty"`
	ContactPerson      string        `bun:"contact_person,notnull" json:"contact_person,omitempty"`
	Email              string        `bun:"email" json:"email,omitempty"`
	CompanyDescription string        `bun:"company_description,notnull" json:"company_description,omitempty"`
	CompanyLogoURL     string        `bun:"company_logo_url" json:"company_logo_url,omitempty"`
	WebsiteURL         string        `bun:"website_url" json:"website_url,omitempty"`
	IndustryCategory   string        `bun:"industry_category" json:"industry_category,omitempty"`
	LookingFor         []string      `bun:"looking_for,type:jsonb" json:"looking_for,omitempty"`
	BudgetRange        RangeOption   `bun:"budget_range,type:jsonb" json:"budget_range"`
	ProjectType        RangeOption   `bun:"project_type,type:jsonb" json:"project_type"`
	Phone              string        `bun:"phone_number" json:"phone_number,omitempty"`
	Location           string        `bun:"location" json:"location,omitempty"`
	Tags               string        `bun:"tags" json:"tags,omitempty"`
	Status             ProfileStatus `bun:"status,notnull" json:"account_status,omitempty"`
	CreatedAt          *time.Time    `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt          *time.Time    `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// Category is a browsable content category
type Category struct {
	bun.BaseModel `bun:"table:categories,alias:cat"`
	ID            uuid.UUID `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Slug          string    `bun:"slug,notnull,unique" json:"slug,omitempty"`
	Name          string    `bun:"name,notnull" json:"title,omitempty"`
}

var followerRangeLabels = map[string]string{
	"micro":    "1K - 10K (Micro)",
	"mid-tier": "10K - 100K (Mid-tier)",
	"macro":    "100K - 1M (Macro)",
	"mega":     "1M+ (Mega)",
}

var rateRangeLabels = map[string]string{
	"budget":     "Under $500",
	"mid-range":  "$500 - $2,000",
	"premium":    "$2,000 - $10,000",
	"enterprise": "$10,000+",
}

var budgetRangeLabels = map[string]string{
	"under-1k": "Under $1,000",
	"1k-5k":    "$1,000 - $5,000",
	"5k-10k":   "$5,000 - $10,000",
	"10k-25k":  "$10,000 - $25,000",
	"25k-plus": "$25,000+",
}

var projectTypeLabels = map[string]string{
	"product-launch":      "Product Launch",
	"brand-awareness":     "Brand Awareness",
	"content-series":      "Content Series",
	"review-campaign":     "Review Campaign",
	"ongoing-partnership": "Ongoing Partnership",
}

// FollowerRangeOption resolves a follower tier key to its option
func FollowerRangeOption(key string) (RangeOption, bool) {
	label, ok := followerRangeLabels[key]
	return RangeOption{Key: key, Label: label}, ok
}

// RateRangeOption resolves a rate tier key to its option
func RateRangeOption(key string) (RangeOption, bool) {
	label, ok := rateRangeLabels[key]
	return RangeOption{Key: key, Label: label}, ok
}

// BudgetRangeOption resolves a budget tier key to its option
func BudgetRangeOption(key string) (RangeOption, bool) {
	label, ok := budgetRangeLabels[key]
	return RangeOption{Key: key, Label: label}, ok
}

// ProjectTypeOption resolves a project type key to its option
func ProjectTypeOption(key string) (RangeOption, bool) {
	label, ok := projectTypeLabels[key]
	return RangeOption{Key: key, Label: label}, ok
}

// Slugify turns a profile title into a URL-safe slug
func Slugify(title string) string {
	var b strings.Builder
	prevDash := true
	for _, r := range strings.ToLower(strings.TrimSpace(title)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prevDash = false
		default:
			if !prevDash {
				b.WriteByte('-')
				prevDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}
