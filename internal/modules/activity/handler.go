package activity

import (
	"strconv"
	"time"

	"github.com/code-injection/core/internal/models"
	"github.com/code-injection/core/internal/pkg/pagination"
	"github.com/code-injection/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Handler exposes recorded activity to admins.
type Handler struct{ db *gorm.DB }

func NewHandler(db *gorm.DB) *Handler { return &Handler{db: db} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/activities", authMW)
	g.GET("", h.list)
	g.DELETE("", h.cleanOld)
}

type listQuery struct {
	Code string     `form:"code"`
	From *time.Time `form:"from" time_format:"2006-01-02"`
	To   *time.Time `form:"to"   time_format:"2006-01-02"`
}

func (h *Handler) list(c *gin.Context) {
	q := pagination.FromContext(c)
	var lq listQuery
	if err := c.ShouldBindQuery(&lq); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	tx := h.db.Model(&models.ActivityModel{}).Order("time DESC")
	if lq.Code != "" {
		tx = tx.Where("code_identifier = ?", lq.Code)
	}
	if lq.From != nil {
		tx = tx.Where("time >= ?", *lq.From)
	}
	if lq.To != nil {
		tx = tx.Where("time < ?", lq.To.AddDate(0, 0, 1))
	}

	var items []models.ActivityModel
	pag, err := pagination.Paginate(tx, q, &items)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Paged(c, items, pag)
}

// cleanOld removes events older than the given number of days (default 90).
func (h *Handler) cleanOld(c *gin.Context) {
	days := 90
	if v, ok := c.GetQuery("days"); ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			days = parsed
		}
	}
	cutoff := time.Now().UTC().AddDate(0, 0, -days)
	res := h.db.Where("time < ?", cutoff).Delete(&models.ActivityModel{})
	if res.Error != nil {
		response.InternalError(c, res.Error)
		return
	}
	response.OK(c, gin.H{"deleted": res.RowsAffected})
}
