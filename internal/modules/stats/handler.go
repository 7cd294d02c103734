package stats

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/code-injection/core/internal/models"
	"github.com/code-injection/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
)

// statsCacheMaxAge keeps report responses fresh for five minutes.
const statsCacheMaxAge = 300 * time.Second

// CodeLookup resolves a route id onto the identifier events are keyed by.
type CodeLookup interface {
	FindByID(id string) (*models.CodeModel, error)
}

// Handler exposes activity reports for a single code.
type Handler struct {
	svc   *Service
	codes CodeLookup
}

func NewHandler(svc *Service, codes CodeLookup) *Handler {
	return &Handler{svc: svc, codes: codes}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/codes/:id/stats", authMW)
	g.GET("", h.dashboard)
	g.GET("/weekly", h.weekly)
	g.GET("/monthly", h.monthly)
}

// dashboard renders the heatmap and bar chart as an HTML fragment for
// embedding in the admin UI.
func (h *Handler) dashboard(c *gin.Context) {
	identifier, ok := h.identifier(c)
	if !ok {
		return
	}

	now := time.Now().UTC()
	start, end := WeeklyWindow(now)
	weekly, err := h.svc.ReportWeekly(identifier, start, end)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	monthly, err := h.svc.ReportMonthly(identifier, now.Year(), now.Month())
	if err != nil {
		response.InternalError(c, err)
		return
	}

	body := fmt.Sprintf(`<div class="ci-stats">%s%s<div class="ci-barchart">%s</div></div>`,
		RenderHeatmap(weekly),
		RenderColorScale(),
		RenderBarChart(monthly, barChartWidth, barChartHeight, barChartGap))

	applyCache(c)
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(body))
}

func (h *Handler) weekly(c *gin.Context) {
	identifier, ok := h.identifier(c)
	if !ok {
		return
	}

	start, end := WeeklyWindow(time.Now().UTC())
	report, err := h.svc.ReportWeekly(identifier, start, end)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	applyCache(c)
	response.OK(c, report)
}

func (h *Handler) monthly(c *gin.Context) {
	identifier, ok := h.identifier(c)
	if !ok {
		return
	}

	now := time.Now().UTC()
	year, month := now.Year(), now.Month()
	if v, ok := c.GetQuery("year"); ok {
		if parsed, err := strconv.Atoi(v); err == nil {
			year = parsed
		}
	}
	if v, ok := c.GetQuery("month"); ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 1 && parsed <= 12 {
			month = time.Month(parsed)
		}
	}

	report, err := h.svc.ReportMonthly(identifier, year, month)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	applyCache(c)
	response.OK(c, report)
}

// identifier maps the route id to the entity's title, which is what events
// are recorded under.
func (h *Handler) identifier(c *gin.Context) (string, bool) {
	entity, err := h.codes.FindByID(c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return "", false
	}
	if entity == nil {
		response.NotFound(c)
		return "", false
	}
	return entity.Title, true
}

func applyCache(c *gin.Context) {
	c.Header("Cache-Control", fmt.Sprintf("max-age=%d, public", int(statsCacheMaxAge.Seconds())))
}
