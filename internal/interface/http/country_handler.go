package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"geoatlas/internal/application"
	"geoatlas/internal/domain/entity"
	"geoatlas/pkg/response"
	"geoatlas/pkg/validation"
)

type CountryHandler struct {
	Svc    *application.CountryService
	Logger *logrus.Logger
}

func NewCountryHandler(svc *application.CountryService, logger *logrus.Logger) *CountryHandler {
	return &CountryHandler{Svc: svc, Logger: logger}
}

type countryRequest struct {
	Name        string `json:"name" binding:"required,geoname"`
	CountryCode string `json:"country_code" binding:"required,code"`
	CurrSymbol  string `json:"curr_symbol" binding:"required,len=1"`
	PhoneCode   string `json:"phone_code" binding:"required,code"`
}

func (r countryRequest) toInput() application.CountryInput {
	return application.CountryInput{
		Name:        r.Name,
		CountryCode: r.CountryCode,
		CurrSymbol:  r.CurrSymbol,
		PhoneCode:   r.PhoneCode,
	}
}

// countryPatchRequest names the row by country_code; absent fields stay
// untouched.
type countryPatchRequest struct {
	CountryCode string  `json:"country_code" binding:"required,code"`
	Name        *string `json:"name" binding:"omitempty,geoname"`
	CurrSymbol  *string `json:"curr_symbol" binding:"omitempty,len=1"`
	PhoneCode   *string `json:"phone_code" binding:"omitempty,code"`
}

type countryResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	CountryCode string    `json:"country_code"`
	CurrSymbol  string    `json:"curr_symbol"`
	PhoneCode   string    `json:"phone_code"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toCountryResponse(c *entity.Country) countryResponse {
	return countryResponse{
		ID:          c.ID,
		Name:        c.Name,
		CountryCode: c.CountryCode,
		CurrSymbol:  c.CurrSymbol,
		PhoneCode:   c.PhoneCode,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func toCountryResponses(cs []*entity.Country) []countryResponse {
	out := make([]countryResponse, len(cs))
	for i, c := range cs {
		out[i] = toCountryResponse(c)
	}
	return out
}

func (h *CountryHandler) List(c *gin.Context) {
	countries, err := h.Svc.List(c.Request.Context(), currentUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toCountryResponses(countries), "countries", nil)
}

func (h *CountryHandler) Get(c *gin.Context) {
	country, err := h.Svc.Get(c.Request.Context(), currentUserID(c), c.Param("country_code"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toCountryResponse(country), "country", nil)
}

func (h *CountryHandler) Create(c *gin.Context) {
	var req countryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "validation failed", validation.ToDetails(err))
		return
	}
	country, err := h.Svc.Create(c.Request.Context(), currentUserID(c), req.toInput())
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, toCountryResponse(country), "country created", nil)
}

func (h *CountryHandler) Update(c *gin.Context) {
	var req countryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "validation failed", validation.ToDetails(err))
		return
	}
	country, err := h.Svc.Update(c.Request.Context(), currentUserID(c), c.Param("country_code"), req.toInput())
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toCountryResponse(country), "country updated", nil)
}

func (h *CountryHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), currentUserID(c), c.Param("country_code")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// BulkCreate inserts the whole batch atomically; any invalid item rejects
// everything with per-index errors.
func (h *CountryHandler) BulkCreate(c *gin.Context) {
	var reqs []countryRequest
	if err := c.ShouldBindJSON(&reqs); err != nil {
		response.Error[any](c, http.StatusBadRequest, "validation failed", validation.ToDetails(err))
		return
	}
	ins := make([]application.CountryInput, len(reqs))
	for i, r := range reqs {
		ins[i] = r.toInput()
	}
	countries, err := h.Svc.BulkCreate(c.Request.Context(), currentUserID(c), ins)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, toCountryResponses(countries), "countries created", nil)
}

// BulkUpdate is best-effort: valid items persist, failures come back in the
// errors list keyed by country_code, and the response is 200 either way.
func (h *CountryHandler) BulkUpdate(c *gin.Context) {
	var reqs []countryPatchRequest
	if err := c.ShouldBindJSON(&reqs); err != nil {
		response.Error[any](c, http.StatusBadRequest, "validation failed", validation.ToDetails(err))
		return
	}
	patches := make([]application.CountryPatch, len(reqs))
	for i, r := range reqs {
		patches[i] = application.CountryPatch{
			CountryCode: r.CountryCode,
			Name:        r.Name,
			CurrSymbol:  r.CurrSymbol,
			PhoneCode:   r.PhoneCode,
		}
	}
	itemErrs := h.Svc.BulkUpdate(c.Request.Context(), currentUserID(c), patches)
	response.Success(c, http.StatusOK, gin.H{"errors": itemErrs}, "bulk update finished", nil)
}
