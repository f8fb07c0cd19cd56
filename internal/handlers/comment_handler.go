package handlers

import (
	"errors"
	"net/http"

	"github.com/JeBooking/UCBE/internal/models"
	"github.com/JeBooking/UCBE/internal/services"
	"github.com/JeBooking/UCBE/pkg/urlnorm"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const maxURLLength = 2048

// anonymousDevice is used for reads that arrive without an X-Device-Id
// header; such viewers see is_liked=false everywhere.
const anonymousDevice = "anonymous"

// CommentHandler handles HTTP requests related to comments
type CommentHandler struct {
	commentService services.CommentService
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(commentService services.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

// RegisterCommentRoutes registers comment-related routes. Write routes get
// their own, stricter rate limiters.
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group, createLimiter, likeLimiter echo.MiddlewareFunc) {
	g.GET("/comments", h.GetComments)
	g.POST("/comments", h.CreateComment, createLimiter)
	g.POST("/comments/:commentId/like", h.ToggleLike, likeLimiter)
	g.DELETE("/comments/:commentId", h.DeleteComment)
}

// GetComments retrieves the threaded comments for a page URL
func (h *CommentHandler) GetComments(c echo.Context) error {
	url := c.QueryParam("url")
	if url == "" {
		return respondError(c, http.StatusBadRequest, "URL is required")
	}
	if len(url) > maxURLLength {
		return respondError(c, http.StatusBadRequest, "URL too long")
	}

	deviceID := c.Request().Header.Get("X-Device-Id")
	if deviceID == "" {
		deviceID = anonymousDevice
	}

	comments, err := h.commentService.ListThreaded(url, deviceID)
	if err != nil {
		return h.mapServiceError(c, err)
	}
	return respond(c, http.StatusOK, comments)
}

// CreateComment creates a new comment or reply
func (h *CommentHandler) CreateComment(c echo.Context) error {
	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "Validation failed: "+err.Error())
	}

	comment, err := h.commentService.CreateComment(&req)
	if err != nil {
		return h.mapServiceError(c, err)
	}
	return respond(c, http.StatusCreated, comment)
}

// ToggleLike toggles the caller's like on a comment
func (h *CommentHandler) ToggleLike(c echo.Context) error {
	commentID := c.Param("commentId")
	if _, err := uuid.Parse(commentID); err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid comment ID")
	}

	var req models.ToggleLikeRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "Validation failed: "+err.Error())
	}

	liked, err := h.commentService.ToggleLike(commentID, req.DeviceID)
	if err != nil {
		return h.mapServiceError(c, err)
	}
	return respond(c, http.StatusOK, map[string]bool{"liked": liked})
}

// DeleteComment deletes a comment owned by the caller
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	commentID := c.Param("commentId")
	if _, err := uuid.Parse(commentID); err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid comment ID")
	}

	var req models.DeleteCommentRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "Validation failed: "+err.Error())
	}

	if err := h.commentService.DeleteComment(commentID, req.DeviceID); err != nil {
		return h.mapServiceError(c, err)
	}
	return respond(c, http.StatusOK, nil)
}

// mapServiceError translates service errors into the response envelope.
// Internal details are logged, never returned.
func (h *CommentHandler) mapServiceError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, urlnorm.ErrInvalidURL):
		return respondError(c, http.StatusBadRequest, "Invalid URL format")
	case errors.Is(err, services.ErrParentNotFound):
		return respondError(c, http.StatusNotFound, "Parent comment not found")
	case errors.Is(err, services.ErrCommentNotFound):
		return respondError(c, http.StatusNotFound, "Comment not found")
	case errors.Is(err, services.ErrNotFoundOrForbidden):
		return respondError(c, http.StatusNotFound, "Comment not found or access denied")
	default:
		c.Logger().Error(err)
		return respondError(c, http.StatusInternalServerError, "Internal server error")
	}
}

func respond(c echo.Context, code int, data interface{}) error {
	return c.JSON(code, models.APIResponse{Success: true, Data: data})
}

func respondError(c echo.Context, code int, message string) error {
	return c.JSON(code, models.APIResponse{Success: false, Error: message})
}
