package server

import (
	"context"
	"errors"
	"strings"

	"github.com/cloudwego/hertz/pkg/app"
	hertzserver "github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"github.com/pthm-cable/antcolony/storage"
)

// Handler serves the published state and stored generations.
type Handler struct {
	State *State
	Store storage.Store // nil disables the history endpoints
	RunID string        // run served when no run_id is given
}

// RegisterRoutes mounts the status and history endpoints on s.
func (h Handler) RegisterRoutes(s *hertzserver.Hertz) {
	s.Use(corsMiddleware())

	api := s.Group("/api")
	api.GET("/status", h.status)
	api.GET("/snapshot", h.snapshot)
	api.GET("/generations", h.generations)
	api.GET("/runs/:id", h.run)
}

func (h Handler) status(_ context.Context, ctx *app.RequestContext) {
	st, ok := h.State.Status()
	if !ok {
		writeErrorBody(ctx, consts.StatusServiceUnavailable, "not_ready", "simulation has not published yet")
		return
	}
	ctx.JSON(consts.StatusOK, st)
}

func (h Handler) snapshot(_ context.Context, ctx *app.RequestContext) {
	snap := h.State.Snapshot()
	if snap == nil {
		writeErrorBody(ctx, consts.StatusServiceUnavailable, "not_ready", "no snapshot published yet")
		return
	}
	ctx.JSON(consts.StatusOK, snap)
}

func (h Handler) generations(c context.Context, ctx *app.RequestContext) {
	if h.Store == nil {
		writeErrorBody(ctx, consts.StatusNotImplemented, "no_store", "run history is not stored")
		return
	}
	runID := strings.TrimSpace(string(ctx.Query("run_id")))
	if runID == "" {
		runID = h.RunID
	}
	if runID == "" {
		writeErrorBody(ctx, consts.StatusBadRequest, "missing_run_id", "run_id is required")
		return
	}

	gens, err := h.Store.ListGenerations(c, runID)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, map[string]any{
		"run_id":      runID,
		"generations": gens,
	})
}

func (h Handler) run(c context.Context, ctx *app.RequestContext) {
	if h.Store == nil {
		writeErrorBody(ctx, consts.StatusNotImplemented, "no_store", "run history is not stored")
		return
	}
	id := string(ctx.Param("id"))
	run, ok, err := h.Store.GetRun(c, id)
	if err != nil {
		writeError(ctx, err)
		return
	}
	if !ok {
		writeError(ctx, storage.ErrNotFound)
		return
	}
	ctx.JSON(consts.StatusOK, run)
}

func writeError(ctx *app.RequestContext, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		writeErrorBody(ctx, consts.StatusNotFound, "not_found", err.Error())
	default:
		writeErrorBody(ctx, consts.StatusInternalServerError, "internal_error", err.Error())
	}
}

func writeErrorBody(ctx *app.RequestContext, status int, code, message string) {
	ctx.JSON(status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}

func applyCORSHeaders(ctx *app.RequestContext) {
	ctx.Response.Header.Set("Access-Control-Allow-Origin", "*")
	ctx.Response.Header.Set("Access-Control-Allow-Methods", "GET,OPTIONS")
	ctx.Response.Header.Set("Access-Control-Max-Age", "600")
}

func corsMiddleware() app.HandlerFunc {
	return func(c context.Context, ctx *app.RequestContext) {
		applyCORSHeaders(ctx)
		if string(ctx.Method()) == consts.MethodOptions {
			ctx.AbortWithStatus(consts.StatusNoContent)
			return
		}
		ctx.Next(c)
	}
}
