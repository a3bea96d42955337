package domain

import (
	"math"
	"time"
)

// SortColumn - колонка, по которой разрешена сортировка выдачи
type SortColumn string

const (
	SortByID    SortColumn = "id"
	SortByPrice SortColumn = "price"
	SortByAdded SortColumn = "added"
)

// SortDirection - направление сортировки
type SortDirection string

const (
	SortAsc  SortDirection = "ASC"
	SortDesc SortDirection = "DESC"
)

var (
	SortColumns    = []SortColumn{SortByID, SortByPrice, SortByAdded}
	SortDirections = []SortDirection{SortAsc, SortDesc}
)

type SortSpec struct {
	Column    SortColumn
	Direction SortDirection
}

// DefaultSort - сортировка, если клиент ничего не передал
var DefaultSort = []SortSpec{{Column: SortByID, Direction: SortAsc}}

// Page - параметры пагинации. Number начинается с единицы.
type Page struct {
	Size   int
	Number int
}

// Offset считает смещение как (Number-1)*Size и не уходит в минус.
// При переполнении смещение упирается в math.MaxInt: такая страница пустая.
func (p Page) Offset() int {
	if p.Number <= 1 || p.Size <= 0 {
		return 0
	}
	if p.Number-1 > math.MaxInt/p.Size {
		return math.MaxInt
	}
	return (p.Number - 1) * p.Size
}

// FilterParams - провалидированные параметры фильтрации.
// Пустые поля означают "фильтр не задан".
type FilterParams struct {
	Purpose        Purpose
	City           string
	PropertyTypes  []string
	LocationIDs    []int64
	LocationTerms  []string
	AreaMin        *float64
	AreaMax        *float64
	PriceMin       *float64
	PriceMax       *float64
	Bedrooms       []int
	StartDate      *time.Time
	EndDate        *time.Time
	PostedByAgency *bool
}

// WithoutPropertyTypes возвращает копию параметров без фильтра по типу
func (f FilterParams) WithoutPropertyTypes() FilterParams {
	f.PropertyTypes = nil
	return f
}

// ListQuery - запрос страницы объектов
type ListQuery struct {
	Filters FilterParams
	Page    Page
	Sort    []SortSpec
}

// BestQuery - запрос к рейтингу лучших предложений по районам
type BestQuery struct {
	Filters FilterParams
	Page    Page
	Limit   int
}

// SimilarQuery - поиск объектов, похожих на заданный
type SimilarQuery struct {
	PropertyID int64
	Purpose    Purpose
	Page       Page
}

// SuggestionQuery - автодополнение названий районов
type SuggestionQuery struct {
	Search string
	City   string
}
