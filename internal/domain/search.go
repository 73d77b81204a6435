package domain

import (
	"math"
	"slices"
	"strings"
)

// DefaultSearchLimit используется, если лимит выборки не сконфигурирован.
const DefaultSearchLimit = 1000

// Pagination задаёт страницу выборки. Нулевые значения означают "по умолчанию".
type Pagination struct {
	Page  int `json:"page,omitempty"`
	Limit int `json:"limit,omitempty"`
}

// Normalize подставляет значения по умолчанию: page=1, limit=defaultLimit.
func (p Pagination) Normalize(defaultLimit int) Pagination {
	if defaultLimit <= 0 {
		defaultLimit = DefaultSearchLimit
	}
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit <= 0 {
		p.Limit = defaultLimit
	}
	return p
}

// Skip возвращает количество пропускаемых записей: (page-1)*limit.
// При переполнении насыщается до math.MaxInt, то есть страница заведомо пуста.
func (p Pagination) Skip() int {
	if p.Page < 1 {
		return 0
	}
	if p.Limit > 0 && p.Page-1 > math.MaxInt/p.Limit {
		return math.MaxInt
	}
	return (p.Page - 1) * p.Limit
}

// Take возвращает размер страницы.
func (p Pagination) Take() int {
	return p.Limit
}

// SearchInput описывает фильтры выборки. Search имеет приоритет над SearchList.
type SearchInput struct {
	Search     string   `json:"search,omitempty"`
	SearchList []string `json:"searchList,omitempty"`
}

// NewSearchInput создаёт фильтр по одному значению.
func NewSearchInput(search string) SearchInput {
	return SearchInput{Search: search}
}

// NewSearchListInput создаёт фильтр по списку точных имён.
func NewSearchListInput(names ...string) SearchInput {
	return SearchInput{SearchList: names}
}

// HasSearch сообщает, задан ли одиночный токен поиска.
func (in SearchInput) HasSearch() bool {
	return in.Search != ""
}

// HasSearchList сообщает, задан ли непустой список имён.
func (in SearchInput) HasSearchList() bool {
	return len(in.SearchList) > 0
}

// ProductFilter - конкретный запрос к хранилищу продуктов.
// Пустые поля не участвуют в фильтрации.
type ProductFilter struct {
	ID           string
	CompanyID    string
	NameContains string
	Names        []string
	ActiveOnly   bool
	Skip         int
	Take         int
}

// Match проверяет продукт на соответствие фильтру (без учёта пагинации).
func (f ProductFilter) Match(p Product) bool {
	if f.ActiveOnly && !IsActive(p) {
		return false
	}
	if f.ID != "" && p.ID != f.ID {
		return false
	}
	if f.CompanyID != "" && p.CompanyID != f.CompanyID {
		return false
	}
	if f.NameContains != "" && !strings.Contains(p.Name, f.NameContains) {
		return false
	}
	if len(f.Names) > 0 && !slices.Contains(f.Names, p.Name) {
		return false
	}
	return true
}

// CompanyFilter - конкретный запрос к хранилищу компаний.
type CompanyFilter struct {
	ID           string
	NameContains string
	Names        []string
	ActiveOnly   bool
	Skip         int
	Take         int
}

// Match проверяет компанию на соответствие фильтру (без учёта пагинации).
func (f CompanyFilter) Match(c Company) bool {
	if f.ActiveOnly && !IsActive(c) {
		return false
	}
	if f.ID != "" && c.ID != f.ID {
		return false
	}
	if f.NameContains != "" && !strings.Contains(c.Name, f.NameContains) {
		return false
	}
	if len(f.Names) > 0 && !slices.Contains(f.Names, c.Name) {
		return false
	}
	return true
}

// Page применяет skip/take к уже отфильтрованной выборке.
func Page[T any](items []T, skip, take int) []T {
	if skip < 0 {
		skip = 0
	}
	if skip >= len(items) {
		return []T{}
	}
	end := len(items)
	if take > 0 && skip+take < end {
		end = skip + take
	}
	return append([]T(nil), items[skip:end]...)
}
