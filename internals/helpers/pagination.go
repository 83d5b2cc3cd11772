package helper

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const (
	DefaultPage = 1
)

type Options struct {
	DefaultPerPage int
	MaxPerPage     int
}

// ===== Preset =====
var DefaultOpts = Options{DefaultPerPage: 20, MaxPerPage: 100}

type Params struct {
	Page      int
	PerPage   int
	SortBy    string
	SortOrder string // asc|desc
	Search    string
}

func atoiDefault(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return n
}

func firstNonEmpty(a, b string) string {
	if strings.TrimSpace(a) != "" {
		return a
	}
	return b
}

// ParseFiber reads ?page, ?per_page (alias ?limit), ?sort_by, ?order and
// ?search from the query string and normalises them against opt.
func ParseFiber(c *fiber.Ctx, defaultSortBy, defaultSortOrder string, opt Options) Params {
	page := atoiDefault(c.Query("page"), DefaultPage)
	if page < 1 {
		page = DefaultPage
	}

	per := atoiDefault(firstNonEmpty(c.Query("per_page"), c.Query("limit")), opt.DefaultPerPage)
	if per < 1 {
		per = opt.DefaultPerPage
	}
	if opt.MaxPerPage > 0 && per > opt.MaxPerPage {
		per = opt.MaxPerPage
	}

	sortBy := strings.TrimSpace(c.Query("sort_by"))
	if sortBy == "" {
		sortBy = defaultSortBy
	}

	order := strings.ToLower(strings.TrimSpace(firstNonEmpty(c.Query("order"), c.Query("sort"))))
	if order != "asc" && order != "desc" {
		order = strings.ToLower(defaultSortOrder)
		if order != "asc" && order != "desc" {
			order = "asc"
		}
	}

	return Params{
		Page:      page,
		PerPage:   per,
		SortBy:    sortBy,
		SortOrder: order,
		Search:    strings.TrimSpace(c.Query("search")),
	}
}

// Limit & Offset
func (p Params) Limit() int  { return p.PerPage }
func (p Params) Offset() int { return (p.Page - 1) * p.PerPage }

// SearchPattern is the lower-cased LIKE pattern of Search, or "" when unset.
func (p Params) SearchPattern() string {
	if p.Search == "" {
		return ""
	}
	return "%" + strings.ToLower(p.Search) + "%"
}

// SafeOrderClause resolves SortBy against a whitelist of column names and
// returns an ORDER BY expression for gorm's Order.
func (p Params) SafeOrderClause(allowed map[string]string, defaultKey string) (string, error) {
	key := p.SortBy
	if key == "" {
		key = defaultKey
	}
	col, ok := allowed[key]
	if !ok {
		col, ok = allowed[defaultKey]
		if !ok {
			return "", fmt.Errorf("no valid default sort key")
		}
	}
	dir := "ASC"
	if p.SortOrder == "desc" {
		dir = "DESC"
	}
	return col + " " + dir, nil
}

/* ===============================
   Pagination block
=================================*/

type Pagination struct {
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
	Count      int   `json:"count"` // items on this page
}

func BuildPagination(total int64, p Params, count int) Pagination {
	perPage := p.PerPage
	if perPage <= 0 {
		perPage = DefaultOpts.DefaultPerPage
	}
	page := p.Page
	if page <= 0 {
		page = DefaultPage
	}
	totalPages := int((total + int64(perPage) - 1) / int64(perPage)) // ceil
	return Pagination{
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
		Count:      count,
	}
}

// Paginate counts the rows matched by q, then loads one page of them into
// dest ordered by order. Preloads are applied to the page query only.
func Paginate(q *gorm.DB, p Params, order string, dest any, preloads ...string) (int64, error) {
	base := q.Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return 0, err
	}

	page := base.Order(order).Limit(p.Limit()).Offset(p.Offset())
	for _, rel := range preloads {
		page = page.Preload(rel)
	}
	if err := page.Find(dest).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// Page is one page of items plus its pagination block, the unit stored by
// list caches.
type Page[T any] struct {
	Items      []T        `json:"items"`
	Pagination Pagination `json:"pagination"`
}
