package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"geoatlas/internal/application"
	"geoatlas/internal/domain/entity"
	repo "geoatlas/internal/domain/repository"
	"geoatlas/pkg/response"
	"geoatlas/pkg/validation"
)

type CityHandler struct {
	Svc    *application.CityService
	Logger *logrus.Logger
}

func NewCityHandler(svc *application.CityService, logger *logrus.Logger) *CityHandler {
	return &CityHandler{Svc: svc, Logger: logger}
}

type cityRequest struct {
	Name         string  `json:"name" binding:"required,geoname"`
	CityCode     string  `json:"city_code" binding:"required,code"`
	PhoneCode    string  `json:"phone_code" binding:"required,code"`
	Population   int64   `json:"population" binding:"required,gt=0"`
	AvgAge       float64 `json:"avg_age" binding:"required,gt=0"`
	AdultMales   int64   `json:"num_of_adults_males" binding:"gte=0"`
	AdultFemales int64   `json:"num_of_adults_females" binding:"gte=0"`
}

func (r cityRequest) toInput() application.CityInput {
	return application.CityInput{
		Name:         r.Name,
		CityCode:     r.CityCode,
		PhoneCode:    r.PhoneCode,
		Population:   r.Population,
		AvgAge:       r.AvgAge,
		AdultMales:   r.AdultMales,
		AdultFemales: r.AdultFemales,
	}
}

type cityResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	CityCode     string    `json:"city_code"`
	PhoneCode    string    `json:"phone_code"`
	Population   int64     `json:"population"`
	AvgAge       float64   `json:"avg_age"`
	AdultMales   int64     `json:"num_of_adults_males"`
	AdultFemales int64     `json:"num_of_adults_females"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func toCityResponse(ct *entity.City) cityResponse {
	return cityResponse{
		ID:           ct.ID,
		Name:         ct.Name,
		CityCode:     ct.CityCode,
		PhoneCode:    ct.PhoneCode,
		Population:   ct.Population,
		AvgAge:       ct.AvgAge,
		AdultMales:   ct.AdultMales,
		AdultFemales: ct.AdultFemales,
		CreatedAt:    ct.CreatedAt,
		UpdatedAt:    ct.UpdatedAt,
	}
}

func toCityResponses(cts []*entity.City) []cityResponse {
	out := make([]cityResponse, len(cts))
	for i, ct := range cts {
		out[i] = toCityResponse(ct)
	}
	return out
}

// cityFilterFromQuery parses the optional population bounds. Unparseable
// values are reported field-keyed instead of being silently dropped.
func cityFilterFromQuery(c *gin.Context) (repo.CityFilter, map[string]string) {
	var f repo.CityFilter
	errs := map[string]string{}
	for _, q := range []struct {
		name string
		dst  **int64
	}{
		{"min_population", &f.MinPopulation},
		{"max_population", &f.MaxPopulation},
	} {
		raw := c.Query(q.name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			errs[q.name] = "must be an integer"
			continue
		}
		*q.dst = &v
	}
	if len(errs) > 0 {
		return f, errs
	}
	return f, nil
}

func (h *CityHandler) List(c *gin.Context) {
	filter, qerrs := cityFilterFromQuery(c)
	if qerrs != nil {
		response.Error[any](c, http.StatusBadRequest, "validation failed", qerrs)
		return
	}
	cts, err := h.Svc.List(c.Request.Context(), currentUserID(c), c.Param("country_code"), c.Param("state_code"), filter)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toCityResponses(cts), "cities", nil)
}

// ListInCountry serves the country-wide city listing across all states.
func (h *CityHandler) ListInCountry(c *gin.Context) {
	filter, qerrs := cityFilterFromQuery(c)
	if qerrs != nil {
		response.Error[any](c, http.StatusBadRequest, "validation failed", qerrs)
		return
	}
	cts, err := h.Svc.ListInCountry(c.Request.Context(), currentUserID(c), c.Param("country_code"), filter)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toCityResponses(cts), "cities", nil)
}

func (h *CityHandler) Get(c *gin.Context) {
	ct, err := h.Svc.Get(c.Request.Context(), currentUserID(c), c.Param("country_code"), c.Param("state_code"), c.Param("city_code"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toCityResponse(ct), "city", nil)
}

func (h *CityHandler) Create(c *gin.Context) {
	var req cityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "validation failed", validation.ToDetails(err))
		return
	}
	ct, err := h.Svc.Create(c.Request.Context(), currentUserID(c), c.Param("country_code"), c.Param("state_code"), req.toInput())
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, toCityResponse(ct), "city created", nil)
}

func (h *CityHandler) Update(c *gin.Context) {
	var req cityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "validation failed", validation.ToDetails(err))
		return
	}
	ct, err := h.Svc.Update(c.Request.Context(), currentUserID(c), c.Param("country_code"), c.Param("state_code"), c.Param("city_code"), req.toInput())
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toCityResponse(ct), "city updated", nil)
}

func (h *CityHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), currentUserID(c), c.Param("country_code"), c.Param("state_code"), c.Param("city_code")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
