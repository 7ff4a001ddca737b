package handler

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/maxviazov/roster-stats-service/internal/service"
	"github.com/maxviazov/roster-stats-service/pkg/response"
)

// Register mounts all public routes on the given engine.
// Accepts service layer dependencies for API endpoints.
func Register(r *gin.Engine, repo Pinger, playerSvc service.PlayerService, assignmentSvc service.AssignmentService, statSvc service.StatisticService) {
	h := NewHealthHandler(repo)

	// Health probes
	r.GET("/live", h.Liveness)
	r.GET("/ready", h.Readiness)

	api := r.Group(APIV1Prefix)
	{
		health := api.Group("/health")
		{
			health.GET("/live", h.Liveness)
			health.GET("/ready", h.Readiness)
		}
		NewPlayerHandler(playerSvc).Register(api)
		NewAssignmentHandler(assignmentSvc).Register(api)
		NewStatisticHandler(statSvc).Register(api)
	}
}

// actor returns the caller's id. A blank value is passed through so the
// service rejects it as an argument-contract violation.
func actor(c *gin.Context) string {
	return strings.TrimSpace(c.GetHeader(HeaderUserID))
}

// pathID parses a numeric path parameter, writing a 400 when it is malformed.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(c.Param(name)), 10, 64)
	if err != nil {
		response.WriteBadRequest(c, name, "must be a valid integer")
		return 0, false
	}
	return id, true
}

// parseBoolQuery is a helper to flexibly parse boolean-like query parameters.
func parseBoolQuery(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "1"
}

// parseDateQuery accepts RFC 3339 timestamps or plain dates; empty means unbounded.
func parseDateQuery(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// dateFields are body keys that accept a plain YYYY-MM-DD as well as RFC 3339.
var dateFields = []string{"date_of_birth", "joined_date", "left_date", "game_date"}

// bindJSON decodes the request body into obj after widening date-only values
// to midnight UTC timestamps.
func bindJSON(c *gin.Context, obj any) error {
	body, err := c.GetRawData()
	if err != nil {
		return err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return err
	}
	changed := false
	for _, key := range dateFields {
		raw, ok := fields[key]
		if !ok {
			continue
		}
		var s string
		if json.Unmarshal(raw, &s) != nil {
			continue
		}
		d, err := time.Parse(time.DateOnly, strings.TrimSpace(s))
		if err != nil {
			continue
		}
		fields[key], _ = json.Marshal(d.UTC().Format(time.RFC3339))
		changed = true
	}
	if changed {
		if body, err = json.Marshal(fields); err != nil {
			return err
		}
	}
	return binding.JSON.BindBody(body, obj)
}
