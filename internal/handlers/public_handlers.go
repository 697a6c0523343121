package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/AmineshOptisoft/next-crm-sub003/internal/caching"
	"github.com/AmineshOptisoft/next-crm-sub003/internal/common"
	"github.com/AmineshOptisoft/next-crm-sub003/internal/models"
	"github.com/AmineshOptisoft/next-crm-sub003/internal/repositories"
	"github.com/AmineshOptisoft/next-crm-sub003/internal/storage"
)

const micrositeCacheTTL = 5 * time.Minute

// PublicHandlers serves the unauthenticated company microsite.
type PublicHandlers struct {
	companies    repositories.CompanyRepository
	serviceAreas repositories.ServiceAreaRepository
	products     repositories.ProductRepository
	zipCodes     repositories.ZipCodeRepository
	assets       storage.AssetStore
	cache        caching.CacheService
}

func NewPublicHandlers(companies repositories.CompanyRepository, serviceAreas repositories.ServiceAreaRepository, products repositories.ProductRepository, zipCodes repositories.ZipCodeRepository, assets storage.AssetStore, cache caching.CacheService) *PublicHandlers {
	return &PublicHandlers{
		companies:    companies,
		serviceAreas: serviceAreas,
		products:     products,
		zipCodes:     zipCodes,
		assets:       assets,
		cache:        cache,
	}
}

type micrositeResponse struct {
	Company      *models.Company       `json:"company"`
	LogoURL      *string               `json:"logo_url,omitempty"`
	ServiceAreas []*models.ServiceArea `json:"service_areas"`
	Products     []*models.Product     `json:"products"`
}

// CompanyProfile renders the public profile for an active company slug:
// the company record, a presigned logo URL, active service areas and
// active products. Inactive or unknown slugs are a 404.
func (h *PublicHandlers) CompanyProfile(c echo.Context) error {
	slug := c.Param("slug")
	if slug == "" {
		return common.NewValidationError("slug is required")
	}
	ctx := c.Request().Context()

	var company *models.Company
	if h.cache != nil {
		company, _ = h.cache.GetCompanyProfile(ctx, slug)
	}
	if company == nil {
		var err error
		company, err = h.companies.GetBySlug(ctx, slug)
		if err != nil {
			return common.NewNotFoundError("company")
		}
		if h.cache != nil {
			_ = h.cache.SetCompanyProfile(ctx, company, micrositeCacheTTL)
		}
	}

	areas, err := h.serviceAreas.ListActiveByCompany(ctx, company.ID)
	if err != nil {
		return err
	}
	products, err := h.products.ListActiveByCompany(ctx, company.ID)
	if err != nil {
		return err
	}

	resp := micrositeResponse{
		Company:      company,
		ServiceAreas: areas,
		Products:     products,
	}
	if company.LogoKey != nil && h.assets != nil {
		if url, err := h.assets.LogoURL(ctx, *company.LogoKey, 1*time.Hour); err == nil {
			resp.LogoURL = &url
		}
	}
	return c.JSON(http.StatusOK, resp)
}

// CheckZipCode answers whether the company services a zip code. Used by
// the microsite booking form.
func (h *PublicHandlers) CheckZipCode(c echo.Context) error {
	slug := c.Param("slug")
	code := c.QueryParam("code")
	if err := common.ValidateRequiredString(code, "code"); err != nil {
		return err
	}

	ctx := c.Request().Context()
	company, err := h.companies.GetBySlug(ctx, slug)
	if err != nil {
		return common.NewNotFoundError("company")
	}

	serviced, err := h.zipCodes.ExistsByCode(ctx, company.ID, code)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]bool{"serviced": serviced})
}
