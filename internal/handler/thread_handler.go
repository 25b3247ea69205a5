package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"threadline/internal/services"
	"threadline/internal/transport/httpdto"
	threadline_errors "threadline/pkg/errors"
)

type ThreadHandler struct {
	service *services.ThreadService
}

func NewThreadHandler(service *services.ThreadService) *ThreadHandler {
	return &ThreadHandler{service: service}
}

// Ensure makes sure the caller has an active thread, then redirects the
// browser to the sanitized `redirect` path. Registered for both GET and POST;
// 303 turns the POST into a GET on the target.
func (h *ThreadHandler) Ensure(c *gin.Context) {
	userID, ok := services.UserIDFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "UNAUTHORIZED"))
		return
	}

	force := parseForce(c.Query("force"))
	target := resolveRedirectPath(c.Query("redirect"))

	if _, err := h.service.EnsureThread(c.Request.Context(), userID, services.EnsureInput{Force: force}); err != nil {
		status, code := statusForError(err)
		c.JSON(status, httpdto.NewErrorResponse(err.Error(), code))
		return
	}

	c.Redirect(http.StatusSeeOther, target)
}

func (h *ThreadHandler) Get(c *gin.Context) {
	userID, ok := services.UserIDFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "UNAUTHORIZED"))
		return
	}

	threadID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid thread id", "INVALID_REQUEST"))
		return
	}

	t, err := h.service.GetThread(c.Request.Context(), userID, threadID)
	if err != nil {
		status, code := statusForError(err)
		c.JSON(status, httpdto.NewErrorResponse(err.Error(), code))
		return
	}

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.FromThread(t)))
}

func (h *ThreadHandler) List(c *gin.Context) {
	userID, ok := services.UserIDFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "UNAUTHORIZED"))
		return
	}

	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))
	items, total, err := h.service.ListThreads(c.Request.Context(), userID, page, limit)
	if err != nil {
		status, code := statusForError(err)
		c.JSON(status, httpdto.NewErrorResponse(err.Error(), code))
		return
	}

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.ListThreadsResponse{
		Threads: httpdto.FromThreadSlice(items),
		Total:   total,
	}))
}

// Result is the thread result view. The previous rendering was scrapped and
// the replacement is not built yet.
func (h *ThreadHandler) Result(c *gin.Context) {
	c.JSON(http.StatusNotImplemented, httpdto.NewErrorResponse("result view is being rebuilt", "NOT_IMPLEMENTED"))
}

// resolveRedirectPath keeps redirects inside the application. Anything that
// is not a rooted path falls back to "/". "//host" is scheme-relative and
// would leave the site, so it falls back too.
func resolveRedirectPath(raw string) string {
	if raw == "" || !strings.HasPrefix(raw, "/") {
		return "/"
	}
	if strings.HasPrefix(raw, "//") || strings.HasPrefix(raw, "/\\") {
		return "/"
	}
	return raw
}

// parseForce treats exactly "1" as true, anything else as false.
func parseForce(raw string) bool {
	return raw == "1"
}

func statusForError(err error) (int, string) {
	switch {
	case errors.Is(err, threadline_errors.ErrUnauthorized):
		return http.StatusUnauthorized, "UNAUTHORIZED"
	case errors.Is(err, threadline_errors.ErrForbidden):
		return http.StatusForbidden, "FORBIDDEN"
	case errors.Is(err, threadline_errors.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, threadline_errors.ErrInvalidInput):
		return http.StatusBadRequest, "INVALID_REQUEST"
	case errors.Is(err, threadline_errors.ErrMissingConfig):
		return http.StatusInternalServerError, "CONFIG_ERROR"
	default:
		return http.StatusBadRequest, "REQUEST_FAILED"
	}
}
