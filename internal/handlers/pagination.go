package handlers

import (
	"math"

	"suurdle/internal/utils"

	"github.com/gin-gonic/gin"
)

const perPage = 8

// Pagination carries everything the list templates need to draw pager
// controls.
type Pagination struct {
	Page    int
	Pages   int
	Total   int64
	HasPrev bool
	HasNext bool
	Prev    int
	Next    int
	Search  string
}

// paginate reads ?page= and ?search= and derives offsets for a list of
// total rows.
func paginate(c *gin.Context, total int64) (Pagination, int) {
	page := utils.StringToInt(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	pages := int(math.Ceil(float64(total) / float64(perPage)))
	if pages < 1 {
		pages = 1
	}
	if page > pages {
		page = pages
	}

	p := Pagination{
		Page:    page,
		Pages:   pages,
		Total:   total,
		HasPrev: page > 1,
		HasNext: page < pages,
		Prev:    page - 1,
		Next:    page + 1,
		Search:  c.Query("search"),
	}
	return p, (page - 1) * perPage
}
