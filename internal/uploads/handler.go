package uploads

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"pdfextract-backend/internal/shared/server/middleware"
	"pdfextract-backend/internal/shared/server/respond"
)

// multipartOverhead leaves room for boundaries and part headers.
const multipartOverhead = 1 << 20

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches upload routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/uploads", h.upload)
	rg.GET("/uploads/:id", h.get)
}

func (h *Handler) upload(c *gin.Context) {
	limit := h.Svc.maxBytes()
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit+multipartOverhead)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			respond.Error(c, http.StatusRequestEntityTooLarge, respond.CodeTooLarge, "PDF too large (max 20MB)", nil)
			return
		}
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "file is required", nil)
		return
	}
	if fileHeader.Size > limit {
		respond.Error(c, http.StatusRequestEntityTooLarge, respond.CodeTooLarge, "PDF too large (max 20MB)", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "unable to read file", nil)
		return
	}
	defer file.Close()

	owner := Owner{
		ID:          middleware.UserIDFromContext(c),
		DisplayName: middleware.DisplayNameFromContext(c),
	}
	u, err := h.Svc.Accept(c.Request.Context(), owner, fileHeader.Filename, fileHeader.Header.Get("Content-Type"), file)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "Only PDF files are allowed", nil)
		case errors.Is(err, ErrTooLarge):
			respond.Error(c, http.StatusRequestEntityTooLarge, respond.CodeTooLarge, "PDF too large (max 20MB)", nil)
		default:
			respond.Internal(c, "failed to store upload", err)
		}
		return
	}

	c.Set("uploadId", u.ID)
	respond.OK(c, CreatedResponse{
		UploadID: u.ID,
		Filename: u.Filename,
		Size:     u.SizeBytes,
	})
}

func (h *Handler) get(c *gin.Context) {
	id := c.Param("id")
	c.Set("uploadId", id)

	u, err := h.Svc.Get(c.Request.Context(), id, middleware.UserIDFromContext(c))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, respond.CodeNotFound, "Upload not found", nil)
		case errors.Is(err, ErrForbidden):
			respond.Error(c, http.StatusForbidden, respond.CodeForbidden, "Not your upload", nil)
		default:
			respond.Internal(c, "failed to fetch upload", err)
		}
		return
	}
	respond.OK(c, toView(u))
}
