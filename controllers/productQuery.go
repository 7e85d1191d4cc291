package controllers

import (
	"math"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Kariqs/storefront-api/utils"
)

const (
	defaultProductPage  = 1
	defaultProductLimit = 30
	maxProductLimit     = 100
)

// likeEscaper makes % and _ in a search term match literally under ESCAPE '!'.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// query keys that are never treated as equality filters
var reservedProductParams = map[string]bool{"page": true, "sort": true, "limit": true, "name": true}

type fieldKind int

const (
	kindText fieldKind = iota
	kindInt
	kindDecimal
)

type productField struct {
	column string
	kind   fieldKind
}

// Query and sort names as clients see them, mapped to columns.
var productFields = map[string]productField{
	"id":          {"id", kindInt},
	"name":        {"name", kindText},
	"price":       {"price", kindDecimal},
	"description": {"description", kindText},
	"images":      {"images", kindText},
	"category":    {"category", kindText},
	"stock":       {"stock", kindInt},
	"createdAt":   {"created_at", kindText},
	"updatedAt":   {"updated_at", kindText},
}

type productFilter struct {
	column string
	values []any
}

type productListQuery struct {
	Page      int
	Limit     int
	PageGiven bool
	Name      string
	Filters   []productFilter
	Order     []string
}

func (q productListQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

// pastEnd reports whether an explicitly requested page lies beyond count
// rows. Callers check it before Offset, which overflows for huge pages.
func (q productListQuery) pastEnd(count int64) bool {
	return q.PageGiven && q.Page > totalPages(count, q.Limit)
}

// parseProductListQuery reads page, limit, sort, name and equality filters.
// Unknown filter fields are ignored; unknown sort fields are rejected.
func parseProductListQuery(values url.Values) (productListQuery, error) {
	q := productListQuery{
		Page:  positiveIntOr(values.Get("page"), defaultProductPage),
		Limit: positiveIntOr(values.Get("limit"), defaultProductLimit),
		Name:  strings.TrimSpace(values.Get("name")),
	}
	q.PageGiven = values.Get("page") != ""
	if q.Limit > maxProductLimit {
		q.Limit = maxProductLimit
	}

	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if reservedProductParams[key] {
			continue
		}
		field, ok := productFields[key]
		if !ok || key == "createdAt" || key == "updatedAt" {
			continue
		}
		filter := productFilter{column: field.column}
		for _, raw := range values[key] {
			value, err := parseFilterValue(field.kind, raw)
			if err != nil {
				return q, utils.ValidationError(key + " must be a number")
			}
			filter.values = append(filter.values, value)
		}
		q.Filters = append(q.Filters, filter)
	}

	order, err := parseProductSort(values.Get("sort"))
	if err != nil {
		return q, err
	}
	q.Order = order
	return q, nil
}

func parseFilterValue(kind fieldKind, raw string) (any, error) {
	switch kind {
	case kindInt:
		return strconv.Atoi(strings.TrimSpace(raw))
	case kindDecimal:
		return decimal.NewFromString(strings.TrimSpace(raw))
	default:
		return raw, nil
	}
}

// parseProductSort turns "price,-createdAt" into ORDER BY terms. Empty means
// newest first.
func parseProductSort(raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []string{"created_at DESC", "id DESC"}, nil
	}

	var order []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		direction := "ASC"
		if strings.HasPrefix(part, "-") {
			direction = "DESC"
			part = strings.TrimPrefix(part, "-")
		}
		field, ok := productFields[part]
		if !ok {
			return nil, utils.ValidationError("Cannot sort by " + part)
		}
		order = append(order, field.column+" "+direction)
	}
	return append(order, "id ASC"), nil
}

func (q productListQuery) apply(tx *gorm.DB) *gorm.DB {
	if q.Name != "" {
		tx = tx.Where("LOWER(name) LIKE ? ESCAPE '!'", "%"+likeEscaper.Replace(strings.ToLower(q.Name))+"%")
	}
	for _, f := range q.Filters {
		if len(f.values) == 1 {
			tx = tx.Where(f.column+" = ?", f.values[0])
			continue
		}
		tx = tx.Where(f.column+" IN ?", f.values)
	}
	return tx
}

func totalPages(count int64, limit int) int {
	return int(math.Ceil(float64(count) / float64(limit)))
}

func positiveIntOr(raw string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return def
	}
	return n
}
