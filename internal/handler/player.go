package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/maxviazov/roster-stats-service/internal/model"
	"github.com/maxviazov/roster-stats-service/internal/repository"
	"github.com/maxviazov/roster-stats-service/internal/service"
	"github.com/maxviazov/roster-stats-service/pkg/response"
)

type PlayerHandler struct {
	svc service.PlayerService
}

func NewPlayerHandler(svc service.PlayerService) *PlayerHandler { return &PlayerHandler{svc: svc} }

func (h *PlayerHandler) Register(r *gin.RouterGroup) {
	g := r.Group("/players")
	{
		g.POST("", h.create)
		g.GET("/:id", h.getByID)
		g.PUT("/:id", h.update)
		g.DELETE("/:id", h.delete)
	}
	// Nested listing: /api/v1/users/:user_id/players
	r.Group("/users").GET("/:user_id/players", h.listByUser)
}

func (h *PlayerHandler) create(c *gin.Context) {
	var dto model.CreatePlayerDTO
	if err := bindJSON(c, &dto); err != nil {
		response.WriteBadRequest(c, "body", "must be a valid player document")
		return
	}
	res, err := h.svc.CreatePlayer(c.Request.Context(), dto, actor(c))
	response.WriteResult(c, http.StatusCreated, res, err)
}

func (h *PlayerHandler) getByID(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	res, err := h.svc.GetPlayer(c.Request.Context(), id)
	response.WriteResult(c, http.StatusOK, res, err)
}

func (h *PlayerHandler) update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var dto model.UpdatePlayerDTO
	if err := bindJSON(c, &dto); err != nil {
		response.WriteBadRequest(c, "body", "must be a valid player document")
		return
	}
	res, err := h.svc.UpdatePlayer(c.Request.Context(), id, dto, actor(c))
	response.WriteResult(c, http.StatusOK, res, err)
}

func (h *PlayerHandler) delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	res, err := h.svc.DeletePlayer(c.Request.Context(), id)
	response.WriteResult(c, http.StatusOK, res, err)
}

func (h *PlayerHandler) listByUser(c *gin.Context) {
	// Atoi errors are ignored intentionally, as 0 is a valid default for limit/offset, handled by the service layer.
	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))
	page := repository.Page{Limit: limit, Offset: offset}
	res, err := h.svc.GetPlayersByUser(c.Request.Context(), c.Param("user_id"), page)
	response.WriteResult(c, http.StatusOK, res, err)
}
