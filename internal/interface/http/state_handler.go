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

type StateHandler struct {
	Svc    *application.StateService
	Logger *logrus.Logger
}

func NewStateHandler(svc *application.StateService, logger *logrus.Logger) *StateHandler {
	return &StateHandler{Svc: svc, Logger: logger}
}

type stateRequest struct {
	Name      string  `json:"name" binding:"required,geoname"`
	StateCode string  `json:"state_code" binding:"required,code"`
	GSTCode   *string `json:"gst_code" binding:"omitempty,code"`
}

func (r stateRequest) toInput() application.StateInput {
	return application.StateInput{Name: r.Name, StateCode: r.StateCode, GSTCode: r.GSTCode}
}

type statePatchRequest struct {
	StateCode string  `json:"state_code" binding:"required,code"`
	Name      *string `json:"name" binding:"omitempty,geoname"`
	GSTCode   *string `json:"gst_code" binding:"omitempty,code"`
}

type stateResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	StateCode string    `json:"state_code"`
	GSTCode   *string   `json:"gst_code"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toStateResponse(st *entity.State) stateResponse {
	return stateResponse{
		ID:        st.ID,
		Name:      st.Name,
		StateCode: st.StateCode,
		GSTCode:   st.GSTCode,
		CreatedAt: st.CreatedAt,
		UpdatedAt: st.UpdatedAt,
	}
}

func toStateResponses(sts []*entity.State) []stateResponse {
	out := make([]stateResponse, len(sts))
	for i, st := range sts {
		out[i] = toStateResponse(st)
	}
	return out
}

func (h *StateHandler) List(c *gin.Context) {
	sts, err := h.Svc.List(c.Request.Context(), currentUserID(c), c.Param("country_code"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toStateResponses(sts), "states", nil)
}

func (h *StateHandler) Get(c *gin.Context) {
	st, err := h.Svc.Get(c.Request.Context(), currentUserID(c), c.Param("country_code"), c.Param("state_code"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toStateResponse(st), "state", nil)
}

func (h *StateHandler) Create(c *gin.Context) {
	var req stateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "validation failed", validation.ToDetails(err))
		return
	}
	st, err := h.Svc.Create(c.Request.Context(), currentUserID(c), c.Param("country_code"), req.toInput())
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, toStateResponse(st), "state created", nil)
}

func (h *StateHandler) Update(c *gin.Context) {
	var req stateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "validation failed", validation.ToDetails(err))
		return
	}
	st, err := h.Svc.Update(c.Request.Context(), currentUserID(c), c.Param("country_code"), c.Param("state_code"), req.toInput())
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toStateResponse(st), "state updated", nil)
}

func (h *StateHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), currentUserID(c), c.Param("country_code"), c.Param("state_code")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *StateHandler) BulkCreate(c *gin.Context) {
	var reqs []stateRequest
	if err := c.ShouldBindJSON(&reqs); err != nil {
		response.Error[any](c, http.StatusBadRequest, "validation failed", validation.ToDetails(err))
		return
	}
	ins := make([]application.StateInput, len(reqs))
	for i, r := range reqs {
		ins[i] = r.toInput()
	}
	sts, err := h.Svc.BulkCreate(c.Request.Context(), currentUserID(c), c.Param("country_code"), ins)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, toStateResponses(sts), "states created", nil)
}

func (h *StateHandler) BulkUpdate(c *gin.Context) {
	var reqs []statePatchRequest
	if err := c.ShouldBindJSON(&reqs); err != nil {
		response.Error[any](c, http.StatusBadRequest, "validation failed", validation.ToDetails(err))
		return
	}
	patches := make([]application.StatePatch, len(reqs))
	for i, r := range reqs {
		patches[i] = application.StatePatch{StateCode: r.StateCode, Name: r.Name, GSTCode: r.GSTCode}
	}
	itemErrs, err := h.Svc.BulkUpdate(c.Request.Context(), currentUserID(c), c.Param("country_code"), patches)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"errors": itemErrs}, "bulk update finished", nil)
}
