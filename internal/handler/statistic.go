package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/maxviazov/roster-stats-service/internal/model"
	"github.com/maxviazov/roster-stats-service/internal/service"
	"github.com/maxviazov/roster-stats-service/pkg/response"
)

type StatisticHandler struct {
	svc service.StatisticService
}

func NewStatisticHandler(svc service.StatisticService) *StatisticHandler {
	return &StatisticHandler{svc: svc}
}

func (h *StatisticHandler) Register(r *gin.RouterGroup) {
	g := r.Group("/statistics")
	{
		g.POST("", h.create)
		g.GET("/:id", h.getByID)
		g.PUT("/:id", h.update)
		g.DELETE("/:id", h.delete)
	}
	r.Group("/assignments").GET("/:id/statistics", h.listByAssignment)
	p := r.Group("/players")
	{
		p.GET("/:id/statistics", h.listByPlayer)
		p.GET("/:id/aggregates", h.aggregates)
	}
}

func (h *StatisticHandler) create(c *gin.Context) {
	var dto model.CreateStatisticDTO
	if err := bindJSON(c, &dto); err != nil {
		response.WriteBadRequest(c, "body", "must be a valid statistic document")
		return
	}
	res, err := h.svc.AddStatistic(c.Request.Context(), dto, actor(c))
	response.WriteResult(c, http.StatusCreated, res, err)
}

func (h *StatisticHandler) getByID(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	res, err := h.svc.GetStatistic(c.Request.Context(), id)
	response.WriteResult(c, http.StatusOK, res, err)
}

func (h *StatisticHandler) update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var dto model.UpdateStatisticDTO
	if err := bindJSON(c, &dto); err != nil {
		response.WriteBadRequest(c, "body", "must be a valid statistic document")
		return
	}
	res, err := h.svc.UpdateStatistic(c.Request.Context(), id, dto, actor(c))
	response.WriteResult(c, http.StatusOK, res, err)
}

func (h *StatisticHandler) delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	res, err := h.svc.DeleteStatistic(c.Request.Context(), id)
	response.WriteResult(c, http.StatusOK, res, err)
}

func (h *StatisticHandler) listByAssignment(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	res, err := h.svc.GetStatisticsByAssignment(c.Request.Context(), id)
	response.WriteResult(c, http.StatusOK, res, err)
}

func (h *StatisticHandler) listByPlayer(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	from, err := parseDateQuery(c.Query("from"))
	if err != nil {
		response.WriteBadRequest(c, "from", "must be a date (YYYY-MM-DD) or RFC 3339 timestamp")
		return
	}
	to, err := parseDateQuery(c.Query("to"))
	if err != nil {
		response.WriteBadRequest(c, "to", "must be a date (YYYY-MM-DD) or RFC 3339 timestamp")
		return
	}
	res, err := h.svc.GetStatisticsByPlayer(c.Request.Context(), id, model.DateRange{From: from, To: to})
	response.WriteResult(c, http.StatusOK, res, err)
}

// aggregates covers every assignment unless assignment_id narrows it down.
func (h *StatisticHandler) aggregates(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var assignmentID *int64
	if raw := strings.TrimSpace(c.Query("assignment_id")); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			response.WriteBadRequest(c, "assignment_id", "must be a valid integer")
			return
		}
		assignmentID = &v
	}
	res, err := h.svc.GetAggregates(c.Request.Context(), id, assignmentID)
	response.WriteResult(c, http.StatusOK, res, err)
}
