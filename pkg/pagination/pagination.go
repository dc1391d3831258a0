package pagination

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

const (
	DefaultPerPage = 20
	MaxPerPage     = 100
)

// Params holds pagination parameters extracted from a request.
type Params struct {
	Page    int
	PerPage int
}

// FromContext extracts page/per_page parameters from the echo context.
func FromContext(c echo.Context) Params {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page <= 0 {
		page = 1
	}

	perPage, _ := strconv.Atoi(c.QueryParam("per_page"))
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}

	return Params{Page: page, PerPage: perPage}
}

// Limit returns the LIMIT value for SQL queries.
func (p Params) Limit() int { return p.PerPage }

// Offset returns the OFFSET value for SQL queries.
func (p Params) Offset() int { return (p.Page - 1) * p.PerPage }

// Meta describes the position of a page within the full result set.
type Meta struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	TotalPages int `json:"total_pages"`
}

// Response wraps a paginated API response.
type Response struct {
	Data       interface{} `json:"data"`
	Pagination Meta        `json:"pagination"`
}

func NewResponse(data interface{}, total int, p Params) *Response {
	pages := total / p.PerPage
	if total%p.PerPage != 0 {
		pages++
	}
	return &Response{
		Data: data,
		Pagination: Meta{
			Total:      total,
			Page:       p.Page,
			PerPage:    p.PerPage,
			TotalPages: pages,
		},
	}
}
