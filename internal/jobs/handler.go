package jobs

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"pdfextract-backend/internal/shared/server/middleware"
	"pdfextract-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches job routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/jobs", h.create)
	rg.GET("/jobs/:id", h.get)
}

type createRequest struct {
	UploadID string `json:"upload_id"`
	Engine   string `json:"engine"`
}

func (h *Handler) create(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "invalid request body", nil)
		return
	}

	requester := Requester{
		ID:          middleware.UserIDFromContext(c),
		DisplayName: middleware.DisplayNameFromContext(c),
	}
	job, err := h.Svc.Create(c.Request.Context(), req.UploadID, req.Engine, requester, middleware.RequestIDFromContext(c))
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			msg := "Invalid upload_id"
			if errors.Is(err, ErrInvalidEngine) {
				msg = "Invalid engine"
			}
			respond.Error(c, http.StatusBadRequest, respond.CodeValidation, msg, nil)
		case errors.Is(err, ErrForbidden):
			respond.Error(c, http.StatusForbidden, respond.CodeForbidden, "Not your upload", nil)
		default:
			respond.Internal(c, "failed to create job", err)
		}
		return
	}

	c.Set("uploadId", job.UploadID)
	c.Set("jobId", job.ID)
	respond.OK(c, CreatedResponse{JobID: job.ID, Status: job.Status})
}

func (h *Handler) get(c *gin.Context) {
	id := c.Param("id")
	c.Set("jobId", id)

	job, err := h.Svc.Get(c.Request.Context(), id, middleware.UserIDFromContext(c))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, respond.CodeNotFound, "Job not found", nil)
		case errors.Is(err, ErrForbidden):
			respond.Error(c, http.StatusForbidden, respond.CodeForbidden, "Not your job", nil)
		default:
			respond.Internal(c, "failed to fetch job", err)
		}
		return
	}
	respond.OK(c, ToView(job))
}
