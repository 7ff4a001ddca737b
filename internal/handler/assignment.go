package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/maxviazov/roster-stats-service/internal/model"
	"github.com/maxviazov/roster-stats-service/internal/service"
	"github.com/maxviazov/roster-stats-service/internal/validation"
	"github.com/maxviazov/roster-stats-service/pkg/response"
)

type AssignmentHandler struct {
	svc service.AssignmentService
}

func NewAssignmentHandler(svc service.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{svc: svc}
}

func (h *AssignmentHandler) Register(r *gin.RouterGroup) {
	g := r.Group("/assignments")
	{
		g.POST("", h.create)
		g.GET("/:id", h.getByID)
		g.PUT("/:id", h.update)
		g.POST("/:id/leave", h.leave)
		g.DELETE("/:id", h.delete)
	}
	// /api/v1/players/:id/assignments?include_inactive=true
	p := r.Group("/players")
	{
		p.GET("/:id/assignments", h.listByPlayer)
		p.GET("/:id/assignments/active", h.listActiveByPlayer)
	}
}

type leaveRequest struct {
	LeftDate time.Time `json:"left_date"`
}

func (h *AssignmentHandler) create(c *gin.Context) {
	var dto model.CreateAssignmentDTO
	if err := bindJSON(c, &dto); err != nil {
		response.WriteBadRequest(c, "body", "must be a valid assignment document")
		return
	}
	res, err := h.svc.AddPlayerToTeam(c.Request.Context(), dto, actor(c))
	response.WriteResult(c, http.StatusCreated, res, err)
}

func (h *AssignmentHandler) getByID(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	res, err := h.svc.GetAssignment(c.Request.Context(), id)
	response.WriteResult(c, http.StatusOK, res, err)
}

func (h *AssignmentHandler) update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var dto model.UpdateAssignmentDTO
	if err := bindJSON(c, &dto); err != nil {
		response.WriteBadRequest(c, "body", "must be a valid assignment document")
		return
	}
	res, err := h.svc.UpdateAssignment(c.Request.Context(), id, dto, actor(c))
	response.WriteResult(c, http.StatusOK, res, err)
}

func (h *AssignmentHandler) leave(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req leaveRequest
	if err := bindJSON(c, &req); err != nil || req.LeftDate.IsZero() {
		response.WriteBadRequest(c, validation.FieldLeftDate, "Left date is required.")
		return
	}
	res, err := h.svc.RemovePlayerFromTeam(c.Request.Context(), id, req.LeftDate, actor(c))
	response.WriteResult(c, http.StatusOK, res, err)
}

func (h *AssignmentHandler) delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	res, err := h.svc.DeleteAssignment(c.Request.Context(), id)
	response.WriteResult(c, http.StatusOK, res, err)
}

func (h *AssignmentHandler) listByPlayer(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	res, err := h.svc.GetTeamsByPlayer(c.Request.Context(), id, parseBoolQuery(c.Query("include_inactive")))
	response.WriteResult(c, http.StatusOK, res, err)
}

func (h *AssignmentHandler) listActiveByPlayer(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	res, err := h.svc.GetActiveTeamsByPlayer(c.Request.Context(), id)
	response.WriteResult(c, http.StatusOK, res, err)
}
