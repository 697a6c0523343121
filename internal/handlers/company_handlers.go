package handlers

import (
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/AmineshOptisoft/next-crm-sub003/internal/caching"
	"github.com/AmineshOptisoft/next-crm-sub003/internal/common"
	"github.com/AmineshOptisoft/next-crm-sub003/internal/models"
	"github.com/AmineshOptisoft/next-crm-sub003/internal/repositories"
	"github.com/AmineshOptisoft/next-crm-sub003/internal/storage"
)

type CompanyHandlers struct {
	companies    repositories.CompanyRepository
	mailSettings repositories.MailSettingsRepository
	assets       storage.AssetStore
	cache        caching.CacheService
}

func NewCompanyHandlers(companies repositories.CompanyRepository, mailSettings repositories.MailSettingsRepository, assets storage.AssetStore, cache caching.CacheService) *CompanyHandlers {
	return &CompanyHandlers{companies: companies, mailSettings: mailSettings, assets: assets, cache: cache}
}

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

type companyRequest struct {
	Name     string  `json:"name"`
	Slug     string  `json:"slug"`
	Industry *string `json:"industry"`
	Website  *string `json:"website"`
	Phone    *string `json:"phone"`
	Address  *string `json:"address"`
	About    *string `json:"about"`
	Status   string  `json:"status"`
}

// Create registers a new tenant. Super admin only; enforced by the
// companies module RBAC defaults.
func (h *CompanyHandlers) Create(c echo.Context) error {
	principal, _, err := principalAndScope(c)
	if err != nil {
		return err
	}
	if !principal.IsSuperAdmin() {
		return common.NewAuthorizationError("Only super admins can create companies")
	}

	var req companyRequest
	if err := c.Bind(&req); err != nil {
		return common.NewValidationError("Invalid request format")
	}
	if err := common.ValidateRequiredString(req.Name, "name"); err != nil {
		return err
	}
	slug := strings.ToLower(strings.TrimSpace(req.Slug))
	if !slugPattern.MatchString(slug) {
		return common.NewValidationError("slug must be lowercase letters, digits and hyphens")
	}

	status := req.Status
	if status == "" {
		status = "active"
	}
	company := &models.Company{
		ID:       uuid.New(),
		Name:     strings.TrimSpace(req.Name),
		Slug:     slug,
		Industry: req.Industry,
		Website:  req.Website,
		Phone:    req.Phone,
		Address:  req.Address,
		About:    req.About,
		Status:   status,
	}
	if err := h.companies.Create(c.Request().Context(), company); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, company)
}

func (h *CompanyHandlers) Get(c echo.Context) error {
	principal, _, err := principalAndScope(c)
	if err != nil {
		return err
	}
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return err
	}
	if !principal.IsSuperAdmin() && (principal.CompanyID == nil || *principal.CompanyID != id) {
		return common.NewNotFoundError("company")
	}

	company, err := h.companies.GetByID(c.Request().Context(), id)
	if err != nil {
		return common.NewNotFoundError("company")
	}
	return c.JSON(http.StatusOK, company)
}

func (h *CompanyHandlers) Update(c echo.Context) error {
	principal, _, err := principalAndScope(c)
	if err != nil {
		return err
	}
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return err
	}
	if !principal.IsSuperAdmin() && (principal.CompanyID == nil || *principal.CompanyID != id) {
		return common.NewNotFoundError("company")
	}

	ctx := c.Request().Context()
	company, err := h.companies.GetByID(ctx, id)
	if err != nil {
		return common.NewNotFoundError("company")
	}

	var req companyRequest
	if err := c.Bind(&req); err != nil {
		return common.NewValidationError("Invalid request format")
	}
	if req.Name != "" {
		company.Name = strings.TrimSpace(req.Name)
	}
	if req.Industry != nil {
		company.Industry = req.Industry
	}
	if req.Website != nil {
		company.Website = req.Website
	}
	if req.Phone != nil {
		company.Phone = req.Phone
	}
	if req.Address != nil {
		company.Address = req.Address
	}
	if req.About != nil {
		company.About = req.About
	}
	if req.Status != "" && principal.IsSuperAdmin() {
		company.Status = req.Status
	}

	if err := h.companies.Update(ctx, company); err != nil {
		return err
	}
	if h.cache != nil {
		_ = h.cache.DeleteCompanyProfile(ctx, company.Slug)
	}
	return c.JSON(http.StatusOK, company)
}

func (h *CompanyHandlers) List(c echo.Context) error {
	principal, _, err := principalAndScope(c)
	if err != nil {
		return err
	}
	if !principal.IsSuperAdmin() {
		return common.NewAuthorizationError("Only super admins can list companies")
	}
	limit, offset := paginationParams(c)
	companies, err := h.companies.List(c.Request().Context(), limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, companies)
}

type mailSettingsRequest struct {
	Host        string `json:"host"`
	Port        int    `json:"port"`
	Username    string `json:"username"`
	Password    string `json:"password"`
	FromAddress string `json:"from_address"`
	FromName    string `json:"from_name"`
	UseStartTLS bool   `json:"use_starttls"`
}

// UpsertMailSettings stores the company's SMTP transport used by every
// campaign send.
func (h *CompanyHandlers) UpsertMailSettings(c echo.Context) error {
	principal, _, err := principalAndScope(c)
	if err != nil {
		return err
	}
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return err
	}
	if !principal.IsSuperAdmin() && (principal.CompanyID == nil || *principal.CompanyID != id) {
		return common.NewNotFoundError("company")
	}

	var req mailSettingsRequest
	if err := c.Bind(&req); err != nil {
		return common.NewValidationError("Invalid request format")
	}
	if err := common.ValidateRequiredString(req.Host, "host"); err != nil {
		return err
	}
	if err := common.ValidateRequiredString(req.FromAddress, "from_address"); err != nil {
		return err
	}
	port := req.Port
	if port == 0 {
		port = 587
	}

	settings := &models.MailSettings{
		ID:          uuid.New(),
		CompanyID:   id,
		Host:        req.Host,
		Port:        port,
		Username:    req.Username,
		Password:    req.Password,
		FromAddress: req.FromAddress,
		FromName:    req.FromName,
		UseStartTLS: req.UseStartTLS,
	}
	if err := h.mailSettings.Upsert(c.Request().Context(), settings); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, settings)
}

// UploadLogo stores the company logo in the asset store and records the
// object key on the company row.
func (h *CompanyHandlers) UploadLogo(c echo.Context) error {
	principal, _, err := principalAndScope(c)
	if err != nil {
		return err
	}
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return err
	}
	if !principal.IsSuperAdmin() && (principal.CompanyID == nil || *principal.CompanyID != id) {
		return common.NewNotFoundError("company")
	}

	ctx := c.Request().Context()
	company, err := h.companies.GetByID(ctx, id)
	if err != nil {
		return common.NewNotFoundError("company")
	}

	file, err := c.FormFile("logo")
	if err != nil {
		return common.NewValidationError("logo file is required")
	}
	src, err := file.Open()
	if err != nil {
		return common.NewValidationError("logo file could not be read")
	}
	defer src.Close()

	contentType := file.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	key, err := h.assets.UploadLogo(ctx, id, src, file.Size, contentType)
	if err != nil {
		return common.NewDependencyError("Logo upload failed", err)
	}

	company.LogoKey = &key
	if err := h.companies.Update(ctx, company); err != nil {
		return err
	}
	if h.cache != nil {
		_ = h.cache.DeleteCompanyProfile(ctx, company.Slug)
	}

	url, err := h.assets.LogoURL(ctx, key, 24*time.Hour)
	if err != nil {
		return common.NewDependencyError("Logo URL generation failed", err)
	}
	return c.JSON(http.StatusOK, map[string]string{"logo_key": key, "logo_url": url})
}
