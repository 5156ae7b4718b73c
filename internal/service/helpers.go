package service

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/backbencherstudio/danielpurcaru-project-mgt-backend/internal/apperror"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

// Pagination is a 1-based page request. Zero or negative values fall back to
// the defaults.
type Pagination struct {
	Page  int
	Limit int
}

func (p Pagination) normalize() Pagination {
	if p.Page < 1 {
		p.Page = defaultPage
	}
	if p.Limit < 1 {
		p.Limit = defaultLimit
	}
	if p.Limit > maxLimit {
		p.Limit = maxLimit
	}
	return p
}

func (p Pagination) offset() int {
	return (p.Page - 1) * p.Limit
}

type Meta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
}

func NewMeta(total int64, p Pagination) Meta {
	p = p.normalize()
	return Meta{
		Total:      total,
		Page:       p.Page,
		Limit:      p.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(p.Limit))),
	}
}

func paginate(query *gorm.DB, p Pagination) *gorm.DB {
	return query.Offset(p.offset()).Limit(p.Limit)
}

// containsInsensitive adds an OR group of case-insensitive LIKE matches.
func containsInsensitive(query *gorm.DB, search string, columns ...string) *gorm.DB {
	search = strings.TrimSpace(search)
	if search == "" || len(columns) == 0 {
		return query
	}

	pattern := "%" + strings.ToLower(search) + "%"
	clauses := make([]string, 0, len(columns))
	args := make([]any, 0, len(columns))
	for _, column := range columns {
		clauses = append(clauses, "LOWER("+column+") LIKE ?")
		args = append(args, pattern)
	}
	return query.Where("("+strings.Join(clauses, " OR ")+")", args...)
}

func normalizeRequiredString(raw string, field string) (string, error) {
	value := strings.TrimSpace(raw)
	length := utf8.RuneCountInString(value)
	if length < 1 || length > 255 {
		return "", apperror.New(apperror.CodeValidation, fmt.Sprintf("%s length must be in range 1..255", field))
	}
	return value, nil
}

func round2(value float64) float64 {
	return math.Round(value*100) / 100
}

func notFoundOr(err error, entity string, action string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.NotFound(entity)
	}
	return fmt.Errorf("%s: %w", action, err)
}

func notFoundAs(err error, message string, action string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.New(apperror.CodeNotFound, message)
	}
	return fmt.Errorf("%s: %w", action, err)
}

func mapDatabaseError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" {
			return apperror.New(apperror.CodeConflict, "resource with the same unique attributes already exists")
		}
		if pgErr.Code == "23503" {
			return apperror.New(apperror.CodeValidation, "invalid foreign key reference")
		}
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperror.New(apperror.CodeConflict, "resource with the same unique attributes already exists")
	}
	return err
}
