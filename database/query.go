package database

import (
	"context"
	"strings"

	"github.com/yeremiapane/student-records/models"
	"gorm.io/gorm"
)

// DefaultPageSize is used whenever a caller passes a non-positive size.
const DefaultPageSize = 5

// likeEscaper makes user input match literally inside a LIKE pattern.
// '!' is used instead of backslash because MySQL treats backslash as a
// string escape.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// NormalizePage clamps page to >= 1 and falls back to DefaultPageSize.
func NormalizePage(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = DefaultPageSize
	}
	return page, size
}

// PageCount is ceil(count/size). An empty table has zero pages.
func PageCount(count int64, size int) int {
	if size < 1 {
		size = DefaultPageSize
	}
	if count <= 0 {
		return 0
	}
	return int((count + int64(size) - 1) / int64(size))
}

func paginate(page, size int) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset((page - 1) * size).Limit(size)
	}
}

func nameContains(term string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if term == "" {
			return db
		}
		return db.Where("name LIKE ? ESCAPE '!'", "%"+likeEscaper.Replace(term)+"%")
	}
}

// FetchPage returns one page of records in insertion order.
func (s *Store) FetchPage(ctx context.Context, page, size int) ([]models.User, error) {
	return s.page(ctx, "fetch page", "", page, size)
}

// SearchPage is FetchPage restricted to names containing term.
func (s *Store) SearchPage(ctx context.Context, term string, page, size int) ([]models.User, error) {
	return s.page(ctx, "search page", term, page, size)
}

func (s *Store) page(ctx context.Context, op, term string, page, size int) ([]models.User, error) {
	page, size = NormalizePage(page, size)
	db, cancel := s.conn(ctx)
	defer cancel()

	var users []models.User
	err := db.Model(&models.User{}).
		Scopes(nameContains(term), paginate(page, size)).
		Order("id").
		Find(&users).Error
	if err != nil {
		return nil, wrap(op, err)
	}
	return users, nil
}

// Count returns the number of records whose name contains term, or all
// records when term is empty.
func (s *Store) Count(ctx context.Context, term string) (int64, error) {
	db, cancel := s.conn(ctx)
	defer cancel()

	var n int64
	if err := db.Model(&models.User{}).Scopes(nameContains(term)).Count(&n).Error; err != nil {
		return 0, wrap("count", err)
	}
	return n, nil
}

// TotalPages returns ceil(Count(term)/size).
func (s *Store) TotalPages(ctx context.Context, size int, term string) (int, error) {
	n, err := s.Count(ctx, term)
	if err != nil {
		return 0, err
	}
	return PageCount(n, size), nil
}
