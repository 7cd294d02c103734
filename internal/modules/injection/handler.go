package injection

import (
	"net/http"

	"github.com/code-injection/core/internal/middleware"
	"github.com/code-injection/core/internal/pkg/clientip"
	"github.com/code-injection/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
)

// Handler exposes the engine over HTTP: injected rendering, raw public
// retrieval and privileged execution.
type Handler struct{ engine *Engine }

func NewHandler(engine *Engine) *Handler { return &Handler{engine: engine} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, optionalAuthMW gin.HandlerFunc, cacheMW gin.HandlerFunc) {
	rg.GET("/inject/:id", optionalAuthMW, h.inject)
	rg.GET("/raw", optionalAuthMW, cacheMW, h.raw)
	rg.POST("/unsafe", optionalAuthMW, h.unsafe)
}

// inject renders a code entity for embedding into a page. Rejections render
// as empty output: a missing or broken injection must not break the page.
func (h *Handler) inject(c *gin.Context) {
	viewer := viewerFromRequest(c)
	result, rejection := h.engine.Resolve(c.Param("id"), ModeInjection, viewer)
	if rejection != nil {
		c.Data(http.StatusOK, "text/html; charset=utf-8", nil)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(result.Body))
}

// raw serves a publicly queryable code verbatim, with the entity's stored
// content type and cache directive. Every rejection maps to a plain 404.
func (h *Handler) raw(c *gin.Context) {
	identifier := c.Query("id")
	if identifier == "" {
		identifier = c.Query("raw")
	}

	viewer := viewerFromRequest(c)
	result, rejection := h.engine.Resolve(identifier, ModePublicRaw, viewer)
	if rejection != nil {
		response.NotFound(c)
		return
	}

	result.Cache.Apply(c.Writer.Header())
	c.Data(http.StatusOK, result.ContentType+"; charset=UTF-8", []byte(result.Body))
}

type unsafeDTO struct {
	Body string `json:"body" binding:"required"`
	Key  string `json:"key"`
}

// unsafe executes a payload with host privileges behind the key gate.
func (h *Handler) unsafe(c *gin.Context) {
	var dto unsafeDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	viewer := viewerFromRequest(c)
	result, rejection := h.engine.ExecuteUnsafe(dto.Body, dto.Key, viewer)
	if rejection != nil {
		response.Forbidden(c, rejection.Error())
		return
	}
	c.Data(http.StatusOK, result.ContentType+"; charset=utf-8", []byte(result.Body))
}

// viewerFromRequest assembles the engine's viewer context from the request.
func viewerFromRequest(c *gin.Context) ViewerContext {
	viewer := ViewerContext{
		IP:            clientip.FromRequest(c.Request),
		Authenticated: middleware.IsAuthenticated(c),
	}
	if uid := middleware.CurrentUserID(c); uid != "" {
		viewer.ViewerID = &uid
	}
	if post := c.Query("post"); post != "" {
		viewer.SourcePostID = &post
	}
	return viewer
}
