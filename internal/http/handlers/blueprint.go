package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	types "github.com/yungbote/blueprints-backend/internal/domain"
	"github.com/yungbote/blueprints-backend/internal/http/response"
	"github.com/yungbote/blueprints-backend/internal/platform/apierr"
	"github.com/yungbote/blueprints-backend/internal/platform/ctxutil"
	"github.com/yungbote/blueprints-backend/internal/platform/logger"
	"github.com/yungbote/blueprints-backend/internal/render"
	"github.com/yungbote/blueprints-backend/internal/services"
)

const (
	MessageCreated    = "created"
	MessagePointAdded = "point added"
)

var errInvalidRequest = errors.New("invalid request")

type BlueprintHandler struct {
	log        *logger.Logger
	blueprints services.BlueprintService
}

func NewBlueprintHandler(log *logger.Logger, blueprints services.BlueprintService) *BlueprintHandler {
	return &BlueprintHandler{
		log:        log.With("handler", "BlueprintHandler"),
		blueprints: blueprints,
	}
}

type pointRequest struct {
	X *int `json:"x" binding:"required"`
	Y *int `json:"y" binding:"required"`
}

type createBlueprintRequest struct {
	Author string         `json:"author"`
	Name   string         `json:"name"`
	Points []pointRequest `json:"points" binding:"dive"`
}

// GET /api/v1/blueprints
func (h *BlueprintHandler) GetAll(c *gin.Context) {
	rows, err := h.blueprints.GetAllBlueprints(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	response.RespondOK(c, nonNil(rows))
}

// GET /api/v1/blueprints/:author
func (h *BlueprintHandler) GetByAuthor(c *gin.Context) {
	rows, err := h.blueprints.GetBlueprintsByAuthor(c.Request.Context(), c.Param("author"))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.RespondOK(c, rows)
}

// GET /api/v1/blueprints/:author/:bpname
func (h *BlueprintHandler) Get(c *gin.Context) {
	bp, err := h.blueprints.GetBlueprint(c.Request.Context(), c.Param("author"), c.Param("bpname"))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.RespondOK(c, bp)
}

// POST /api/v1/blueprints
func (h *BlueprintHandler) Create(c *gin.Context) {
	var req createBlueprintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug("create: bad body", append(ctxutil.LogFields(c.Request.Context()), "error", err)...)
		response.RespondError(c, http.StatusBadRequest, errInvalidRequest)
		return
	}
	points := make([]types.Point, 0, len(req.Points))
	for _, p := range req.Points {
		points = append(points, types.Point{X: *p.X, Y: *p.Y})
	}
	bp, err := h.blueprints.AddNewBlueprint(c.Request.Context(), req.Author, req.Name, points)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Respond(c, http.StatusCreated, MessageCreated, bp)
}

// PUT /api/v1/blueprints/:author/:bpname/points
func (h *BlueprintHandler) AddPoint(c *gin.Context) {
	var req pointRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, errInvalidRequest)
		return
	}
	bp, err := h.blueprints.AddPoint(c.Request.Context(), c.Param("author"), c.Param("bpname"), *req.X, *req.Y)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Respond(c, http.StatusAccepted, MessagePointAdded, bp)
}

// GET /api/v1/blueprints/:author/:bpname/render.png?size=512
func (h *BlueprintHandler) RenderPNG(c *gin.Context) {
	size := 0
	if raw := c.Query("size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, errInvalidRequest)
			return
		}
		size = n
	}
	bp, err := h.blueprints.GetBlueprint(c.Request.Context(), c.Param("author"), c.Param("bpname"))
	if err != nil {
		h.fail(c, err)
		return
	}
	img, err := render.NewRenderer(size).PNG(bp)
	if err != nil {
		h.log.Error("render failed", append(ctxutil.LogFields(c.Request.Context()), "blueprint", bp.Key(), "error", err)...)
		response.RespondError(c, http.StatusInternalServerError, services.ErrInternal)
		return
	}
	c.Data(http.StatusOK, "image/png", img)
}

func (h *BlueprintHandler) fail(c *gin.Context, err error) {
	response.RespondAPIError(c, StatusError(err))
}

// StatusError attaches the HTTP status for a service error.
func StatusError(err error) *apierr.Error {
	switch {
	case errors.Is(err, types.ErrBlueprintNotFound):
		return apierr.New(http.StatusNotFound, "not_found", err)
	case errors.Is(err, types.ErrBlueprintExists):
		return apierr.New(http.StatusForbidden, "already_exists", err)
	case errors.Is(err, types.ErrInvalidBlueprint):
		return apierr.New(http.StatusBadRequest, "invalid", err)
	case errors.Is(err, types.ErrPersistenceUnavailable):
		return apierr.New(http.StatusServiceUnavailable, "unavailable", err)
	default:
		return apierr.New(http.StatusInternalServerError, "internal", services.ErrInternal)
	}
}

func nonNil(rows []*types.Blueprint) []*types.Blueprint {
	if rows == nil {
		return []*types.Blueprint{}
	}
	return rows
}
