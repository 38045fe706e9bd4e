package creatorconnect

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-repository-bun"
)

// APIController exposes the marketplace workflows over JSON endpoints
type APIController struct {
	Debug      bool
	Logger     Logger
	Repo       RepositoryManager
	Tokens     TokenService
	Mailer     Mailer
	Uploads    UploadStore
	ContextKey string

	signup    *SignupHandler
	login     *LoginHandler
	verify    *VerifyEmailHandler
	resend    *ResendVerificationHandler
	provision *ProvisionProfileHandler
	contact   *ContactCreatorHandler
}

type APIControllerOption func(*APIController) *APIController

func NewAPIController(opts ...APIControllerOption) *APIController {
	c := &APIController{
		Logger:     defLogger{},
		ContextKey: "session",
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Repo == nil {
		panic("Missing RepositoryManager in API controller...")
	}

	if c.Tokens == nil {
		panic("Missing TokenService in API controller...")
	}

	if c.Mailer == nil {
		c.Mailer = ConsoleMailer{}
	}

	if c.Uploads == nil {
		c.Uploads = PlaceholderUploadStore{}
	}

	c.signup = NewSignupHandler(c.Repo, c.Tokens, c.Mailer).WithLogger(c.Logger)
	c.login = NewLoginHandler(c.Repo, c.Tokens).WithLogger(c.Logger)
	c.verify = NewVerifyEmailHandler(c.Repo)
	c.resend = NewResendVerificationHandler(c.Repo, c.Mailer).WithLogger(c.Logger)
	c.provision = NewProvisionProfileHandler(c.Repo, c.Uploads).WithLogger(c.Logger)
	c.contact = NewContactCreatorHandler(c.Repo, c.Mailer).WithLogger(c.Logger)

	return c
}

func WithControllerDebug(debug bool) APIControllerOption {
	return func(c *APIController) *APIController {
		c.Debug = debug
		return c
	}
}

func WithControllerLogger(logger Logger) APIControllerOption {
	return func(c *APIController) *APIController {
		if logger != nil {
			c.Logger = logger
		}
		return c
	}
}

func WithControllerRepo(repo RepositoryManager) APIControllerOption {
	return func(c *APIController) *APIController {
		c.Repo = repo
		return c
	}
}

func WithControllerTokens(tokens TokenService) APIControllerOption {
	return func(c *APIController) *APIController {
		c.Tokens = tokens
		return c
	}
}

func WithControllerMailer(mailer Mailer) APIControllerOption {
	return func(c *APIController) *APIController {
		c.Mailer = mailer
		return c
	}
}

func WithControllerUploads(uploads UploadStore) APIControllerOption {
	return func(c *APIController) *APIController {
		c.Uploads = uploads
		return c
	}
}

func WithControllerContextKey(key string) APIControllerOption {
	return func(c *APIController) *APIController {
		if key != "" {
			c.ContextKey = key
		}
		return c
	}
}

// RegisterRoutes mounts the API endpoints. Routes behind guard require
// a valid bearer token.
func RegisterRoutes(app *fiber.App, controller *APIController, guard fiber.Handler) {
	auth := app.Group("/auth")
	auth.Post("/signup", controller.Signup)
	auth.Post("/login", controller.Login)
	auth.Post("/verify-email", controller.VerifyEmail)
	auth.Post("/send-verification", controller.SendVerification)
	auth.Get("/me", guard, controller.Me)

	app.Post("/profile/create", guard, controller.CreateProfile)
	app.Get("/categories", controller.ListCategories)
	app.Post("/contact", controller.Contact)
}

// SignupRequest payload
type SignupRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	AccountType string `json:"accountType"`
}

// Validate will run validation rules
func (r SignupRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Name,
			validation.Required.Error("Missing required fields"),
		),
		validation.Field(
			&r.Email,
			validation.Required.Error("Missing required fields"),
			is.Email.Error("Invalid email format"),
		),
		validation.Field(
			&r.Password,
			validation.Required.Error("Missing required fields"),
			validation.Length(6, 0).Error("Password must be at least 6 characters"),
		),
		validation.Field(
			&r.AccountType,
			validation.Required.Error("Missing required fields"),
			validation.In(KindContentCreator, KindProductCreator).Error("Invalid account type"),
		),
	)
}

func (a *APIController) Signup(c *fiber.Ctx) error {
	payload := new(SignupRequest)

	if err := c.BodyParser(payload); err != nil {
		a.Logger.Error("signup parse payload", "error", err)
		return respondFailure(c, fiber.StatusInternalServerError, "Failed to create account. Please try again.")
	}

	if err := payload.Validate(); err != nil {
		msg := firstValidationMessage(err, "name", "password", "accountType", "email")
		return respondFailure(c, fiber.StatusBadRequest, msg)
	}

	if a.Debug {
		fmt.Println("======= SIGNUP ======")
		fmt.Println(print.MaybePrettyJSON(payload))
		fmt.Println("=====================")
	}

	var res *SignupResponse
	req := SignupMessage{
		Email:       payload.Email,
		Password:    payload.Password,
		AccountType: payload.AccountType,
		OnResponse: func(r *SignupResponse) {
			res = r
		},
	}

	if err := a.signup.Execute(c.Context(), req); err != nil {
		a.Logger.Error("signup error", "error", err)
		return a.respondError(c, err, "Failed to create account. Please try again.")
	}

	return c.JSON(fiber.Map{
		"user":  res.Account,
		"token": res.Token,
	})
}

// LoginRequest payload
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate will run validation rules
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Email,
			validation.Required.Error("Email and password are required"),
			is.Email.Error("Invalid email format"),
		),
		validation.Field(
			&r.Password,
			validation.Required.Error("Email and password are required"),
		),
	)
}

func (a *APIController) Login(c *fiber.Ctx) error {
	payload := new(LoginRequest)

	if err := c.BodyParser(payload); err != nil {
		a.Logger.Error("login parse payload", "error", err)
		return respondFailure(c, fiber.StatusInternalServerError, "Login failed. Please try again.")
	}

	if err := payload.Validate(); err != nil {
		msg := firstValidationMessage(err, "password", "email")
		return respondFailure(c, fiber.StatusBadRequest, msg)
	}

	var res *LoginResponse
	req := LoginMessage{
		Email:    payload.Email,
		Password: payload.Password,
		OnResponse: func(r *LoginResponse) {
			res = r
		},
	}

	if err := a.login.Execute(c.Context(), req); err != nil {
		a.Logger.Error("login error", "error", err)
		return a.respondError(c, err, "Login failed. Please try again.")
	}

	return c.JSON(fiber.Map{
		"user":  res.Account,
		"token": res.Token,
	})
}

// VerifyEmailRequest payload
type VerifyEmailRequest struct {
	Token string `json:"token"`
}

// Validate will run validation rules
func (r VerifyEmailRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Token,
			validation.Required.Error("Verification token is required"),
		),
	)
}

func (a *APIController) VerifyEmail(c *fiber.Ctx) error {
	payload := new(VerifyEmailRequest)

	if err := c.BodyParser(payload); err != nil {
		a.Logger.Error("verify email parse payload", "error", err)
		return respondFailure(c, fiber.StatusInternalServerError, "Failed to verify email. Please try again.")
	}

	if err := payload.Validate(); err != nil {
		return respondFailure(c, fiber.StatusBadRequest, firstValidationMessage(err, "token"))
	}

	req := VerifyEmailMessage{Token: payload.Token}

	if err := a.verify.Execute(c.Context(), req); err != nil {
		a.Logger.Error("verify email error", "error", err)
		return a.respondError(c, err, "Failed to verify email. Please try again.")
	}

	return c.JSON(fiber.Map{
		"message": "Email verified successfully",
	})
}

// SendVerificationRequest payload
type SendVerificationRequest struct {
	Email string `json:"email"`
}

// Validate will run validation rules
func (r SendVerificationRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Email,
			validation.Required.Error("Email is required"),
		),
	)
}

func (a *APIController) SendVerification(c *fiber.Ctx) error {
	payload := new(SendVerificationRequest)

	if err := c.BodyParser(payload); err != nil {
		a.Logger.Error("send verification parse payload", "error", err)
		return respondFailure(c, fiber.StatusInternalServerError, "Failed to send verification email. Please try again.")
	}

	if err := payload.Validate(); err != nil {
		return respondFailure(c, fiber.StatusBadRequest, firstValidationMessage(err, "email"))
	}

	req := ResendVerificationMessage{Email: payload.Email}

	if err := a.resend.Execute(c.Context(), req); err != nil {
		a.Logger.Error("send verification error", "error", err)
		return a.respondError(c, err, "Failed to send verification email. Please try again.")
	}

	return c.JSON(fiber.Map{
		"message": "Verification email sent successfully",
	})
}

func (a *APIController) Me(c *fiber.Ctx) error {
	session, err := GetSession(c, a.ContextKey)
	if err != nil {
		return respondFailure(c, fiber.StatusUnauthorized, "Invalid or expired token")
	}

	account, err := a.Repo.Accounts().GetByID(c.Context(), session.GetUserID())
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return respondFailure(c, fiber.StatusNotFound, "User not found")
		}
		a.Logger.Error("me lookup error", "error", err)
		return respondFailure(c, fiber.StatusInternalServerError, "Failed to load account")
	}

	return c.JSON(fiber.Map{
		"user": account.Summary(),
	})
}

func (a *APIController) CreateProfile(c *fiber.Ctx) error {
	accountType := c.FormValue("accountType")
	userID := c.FormValue("userId")

	if accountType == "" || userID == "" {
		return respondFailure(c, fiber.StatusBadRequest, "Missing required fields")
	}

	session, err := GetSession(c, a.ContextKey)
	if err != nil {
		return respondFailure(c, fiber.StatusUnauthorized, "Invalid or expired token")
	}

	if session.GetUserID() != userID {
		return a.respondError(c, ErrProfileOwnershipMismatch, "Failed to create profile")
	}

	form := ProfileForm{
		CreatorName:             c.FormValue("creator_name"),
		Bio:                     c.FormValue("bio"),
		Email:                   c.FormValue("email"),
		ContentCategoriesJSON:   c.FormValue("content_categories"),
		PlatformSpecialtiesJSON: c.FormValue("platform_specialties"),
		ServicesOfferedJSON:     c.FormValue("services_offered"),
		SocialLinksJSON:         c.FormValue("social_media_links"),
		FollowerRange:           c.FormValue("follower_count_range"),
		RateRange:               c.FormValue("rate_range"),
		CompanyName:             c.FormValue("company_name"),
		ContactPerson:           c.FormValue("contact_person"),
		CompanyDescription:      c.FormValue("company_description"),
		IndustryCategory:        c.FormValue("industry_category"),
		LookingForJSON:          c.FormValue("looking_for"),
		BudgetRange:             c.FormValue("budget_range"),
		ProjectType:             c.FormValue("project_type"),
		Phone:                   c.FormValue("phone_number"),
		WebsiteURL:              c.FormValue("website_url"),
		Location:                c.FormValue("location"),
		Tags:                    c.FormValue("tags"),
	}

	if file, err := c.FormFile("profile_photo"); err == nil && file != nil {
		form.ProfilePhotoName = file.Filename
	}
	if file, err := c.FormFile("company_logo"); err == nil && file != nil {
		form.CompanyLogoName = file.Filename
	}
	form.PortfolioNames = collectPortfolioUploads(c)

	if a.Debug {
		fmt.Println("======= PROFILE CREATE ======")
		fmt.Println(print.MaybePrettyJSON(form))
		fmt.Println("=============================")
	}

	var res *ProvisionProfileResponse
	req := ProvisionProfileMessage{
		AccountType: accountType,
		UserID:      userID,
		Form:        form,
		OnResponse: func(r *ProvisionProfileResponse) {
			res = r
		},
	}

	if err := a.provision.Execute(c.Context(), req); err != nil {
		a.Logger.Error("profile create error", "error", err)
		return a.respondError(c, err, "Failed to create profile")
	}

	return c.JSON(res)
}

func collectPortfolioUploads(c *fiber.Ctx) []string {
	var names []string

	for i := 0; ; i++ {
		file, err := c.FormFile(fmt.Sprintf("portfolio_image_%d", i))
		if err != nil || file == nil {
			break
		}
		names = append(names, file.Filename)
	}

	return names
}

func (a *APIController) ListCategories(c *fiber.Ctx) error {
	records, err := a.Repo.Categories().List(c.Context())
	if err != nil {
		a.Logger.Error("categories list error", "error", err)
		return respondFailure(c, fiber.StatusInternalServerError, "Failed to fetch categories")
	}

	return c.JSON(records)
}

// ContactRequest payload
type ContactRequest struct {
	CreatorID   string `json:"creatorId"`
	Subject     string `json:"subject"`
	Message     string `json:"message"`
	CompanyName string `json:"companyName"`
	Email       string `json:"email"`
}

// Validate will run validation rules
func (r ContactRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.CreatorID, validation.Required.Error("Missing required fields")),
		validation.Field(&r.Subject, validation.Required.Error("Missing required fields")),
		validation.Field(&r.Message, validation.Required.Error("Missing required fields")),
		validation.Field(&r.CompanyName, validation.Required.Error("Missing required fields")),
		validation.Field(&r.Email, validation.Required.Error("Missing required fields")),
	)
}

func (a *APIController) Contact(c *fiber.Ctx) error {
	payload := new(ContactRequest)

	if err := c.BodyParser(payload); err != nil {
		a.Logger.Error("contact parse payload", "error", err)
		return respondFailure(c, fiber.StatusInternalServerError, "Failed to send message")
	}

	if err := payload.Validate(); err != nil {
		msg := firstValidationMessage(err, "creatorId", "subject", "message", "companyName", "email")
		return respondFailure(c, fiber.StatusBadRequest, msg)
	}

	var res *ContactCreatorResponse
	req := ContactCreatorMessage{
		CreatorID:   payload.CreatorID,
		Subject:     payload.Subject,
		Message:     payload.Message,
		CompanyName: payload.CompanyName,
		Email:       payload.Email,
		OnResponse: func(r *ContactCreatorResponse) {
			res = r
		},
	}

	if err := a.contact.Execute(c.Context(), req); err != nil {
		a.Logger.Error("contact error", "error", err)
		return a.respondError(c, err, "Failed to send message")
	}

	return c.JSON(res)
}

// respondError maps workflow failures to their status and message. Rich
// errors below 500 surface their own message, everything else gets the
// route's generic failure text.
func (a *APIController) respondError(c *fiber.Ctx, err error, fallback string) error {
	status := HTTPStatus(err)

	if status >= fiber.StatusInternalServerError {
		return respondFailure(c, status, fallback)
	}

	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return respondFailure(c, status, richErr.Message)
	}

	return respondFailure(c, status, fallback)
}

func respondFailure(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": message,
	})
}

// firstValidationMessage picks the highest-priority field failure so a
// multi-field payload reports a single stable message.
func firstValidationMessage(err error, fieldOrder ...string) string {
	if err == nil {
		return ""
	}

	fieldErrors, ok := err.(validation.Errors)
	if !ok {
		return err.Error()
	}

	for _, field := range fieldOrder {
		if fieldErr, found := fieldErrors[field]; found && fieldErr != nil {
			return fieldErr.Error()
		}
	}

	for _, fieldErr := range fieldErrors {
		if fieldErr != nil {
			return fieldErr.Error()
		}
	}

	return err.Error()
}
