package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"geoatlas/internal/application"
	"geoatlas/internal/domain/entity"
	"geoatlas/pkg/response"
	"geoatlas/pkg/validation"
)

// NestedHandler serves the aggregate endpoints: a country together with its
// full subtree of states and cities read and written as one unit.
type NestedHandler struct {
	Svc    *application.NestedService
	Logger *logrus.Logger
}

func NewNestedHandler(svc *application.NestedService, logger *logrus.Logger) *NestedHandler {
	return &NestedHandler{Svc: svc, Logger: logger}
}

type nestedStateRequest struct {
	Name      string        `json:"name" binding:"required,geoname"`
	StateCode string        `json:"state_code" binding:"required,code"`
	GSTCode   *string       `json:"gst_code" binding:"omitempty,code"`
	Cities    []cityRequest `json:"cities" binding:"omitempty,dive"`
}

// nestedCountryRequest keeps states as a pointer so an absent collection is
// distinguishable from a present-empty one: on update, absent leaves the
// subtree untouched and empty deletes it.
type nestedCountryRequest struct {
	Name        string                `json:"name" binding:"required,geoname"`
	CountryCode string                `json:"country_code" binding:"required,code"`
	CurrSymbol  string                `json:"curr_symbol" binding:"required,len=1"`
	PhoneCode   string                `json:"phone_code" binding:"required,code"`
	States      *[]nestedStateRequest `json:"states" binding:"omitempty,dive"`
}

func (r nestedCountryRequest) toInput() application.NestedCountryInput {
	in := application.NestedCountryInput{
		CountryInput: application.CountryInput{
			Name:        r.Name,
			CountryCode: r.CountryCode,
			CurrSymbol:  r.CurrSymbol,
			PhoneCode:   r.PhoneCode,
		},
	}
	if r.States != nil {
		states := make([]application.NestedStateInput, len(*r.States))
		for i, sr := range *r.States {
			st := application.NestedStateInput{
				StateInput: application.StateInput{Name: sr.Name, StateCode: sr.StateCode, GSTCode: sr.GSTCode},
				Cities:     make([]application.CityInput, len(sr.Cities)),
			}
			for j, cr := range sr.Cities {
				st.Cities[j] = cr.toInput()
			}
			states[i] = st
		}
		in.States = &states
	}
	return in
}

type nestedStateResponse struct {
	stateResponse
	Cities []cityResponse `json:"cities"`
}

type nestedCountryResponse struct {
	countryResponse
	States []nestedStateResponse `json:"states"`
}

func toNestedCountryResponse(t *entity.CountryTree) nestedCountryResponse {
	out := nestedCountryResponse{
		countryResponse: toCountryResponse(&t.Country),
		States:          make([]nestedStateResponse, len(t.States)),
	}
	for i, st := range t.States {
		out.States[i] = nestedStateResponse{
			stateResponse: toStateResponse(&st.State),
			Cities:        toCityResponses(st.Cities),
		}
	}
	return out
}

func (h *NestedHandler) List(c *gin.Context) {
	trees, err := h.Svc.ListTrees(c.Request.Context(), currentUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]nestedCountryResponse, len(trees))
	for i, t := range trees {
		out[i] = toNestedCountryResponse(t)
	}
	response.Success(c, http.StatusOK, out, "countries", nil)
}

func (h *NestedHandler) Get(c *gin.Context) {
	tree, err := h.Svc.GetTree(c.Request.Context(), currentUserID(c), c.Param("country_code"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toNestedCountryResponse(tree), "country", nil)
}

func (h *NestedHandler) Create(c *gin.Context) {
	var req nestedCountryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "validation failed", validation.ToDetails(err))
		return
	}
	tree, err := h.Svc.CreateTree(c.Request.Context(), currentUserID(c), req.toInput())
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, toNestedCountryResponse(tree), "country created", nil)
}

func (h *NestedHandler) Update(c *gin.Context) {
	var req nestedCountryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "validation failed", validation.ToDetails(err))
		return
	}
	tree, err := h.Svc.UpdateTree(c.Request.Context(), currentUserID(c), c.Param("country_code"), req.toInput())
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toNestedCountryResponse(tree), "country updated", nil)
}

func (h *NestedHandler) Delete(c *gin.Context) {
	if err := h.Svc.DeleteTree(c.Request.Context(), currentUserID(c), c.Param("country_code")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
