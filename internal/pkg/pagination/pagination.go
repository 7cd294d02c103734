package pagination

import (
	"strconv"

	"github.com/code-injection/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	DefaultSize = 10
	MaxSize     = 100
)

// Query is a validated page request for the code and activity list
// endpoints.
type Query struct {
	Page int
	Size int
}

// FromContext reads page/size query params. Out-of-range or unparsable
// values are clamped rather than rejected: list endpoints always answer.
func FromContext(c *gin.Context) Query {
	q := Query{
		Page: intParam(c, "page", 1),
		Size: intParam(c, "size", DefaultSize),
	}
	return q.clamped()
}

func (q Query) clamped() Query {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Size < 1 {
		q.Size = DefaultSize
	}
	if q.Size > MaxSize {
		q.Size = MaxSize
	}
	return q
}

// Offset is the row offset of the page start.
func (q Query) Offset() int { return (q.Page - 1) * q.Size }

// Paginate counts the query, fetches one page into dest and builds the
// metadata for the response envelope.
func Paginate[T any](tx *gorm.DB, q Query, dest *[]T) (response.Pagination, error) {
	q = q.clamped()

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return response.Pagination{}, err
	}
	if err := tx.Offset(q.Offset()).Limit(q.Size).Find(dest).Error; err != nil {
		return response.Pagination{}, err
	}

	totalPage := int((total + int64(q.Size) - 1) / int64(q.Size))
	return response.Pagination{
		Total:       total,
		CurrentPage: q.Page,
		TotalPage:   totalPage,
		Size:        q.Size,
		HasNextPage: q.Page < totalPage,
	}, nil
}

func intParam(c *gin.Context, name string, def int) int {
	raw, ok := c.GetQuery(name)
	if !ok {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}
