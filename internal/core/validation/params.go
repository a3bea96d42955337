package validation

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"property-service/internal/core/domain"
	"property-service/internal/core/port"
	"strconv"
	"strings"
	"time"
)

// Значения по умолчанию для query-параметров
const (
	DefaultPageSize   = 10
	DefaultPageNumber = 1
	DefaultPurpose    = domain.PurposeForSale
	DefaultPriceMin   = 1.0
	DefaultAreaMin    = 0.0
	DefaultBestLimit  = 5
)

// Validator разбирает сырые query-параметры и возвращает неизменяемые
// значения домена. Запрос при этом не модифицируется.
type Validator struct {
	lookups port.LookupProvider
}

func NewValidator(lookups port.LookupProvider) (*Validator, error) {
	if lookups == nil {
		return nil, fmt.Errorf("validator: lookup provider cannot be nil")
	}
	return &Validator{lookups: lookups}, nil
}

// List - параметры для GET /property и /property/{city}
func (v *Validator) List(ctx context.Context, q url.Values, city string) (domain.ListQuery, error) {
	page, err := v.Page(q)
	if err != nil {
		return domain.ListQuery{}, err
	}
	sort, err := v.Sort(q)
	if err != nil {
		return domain.ListQuery{}, err
	}
	city, err = v.City(city)
	if err != nil {
		return domain.ListQuery{}, err
	}
	purpose, err := v.Purpose(ctx, q)
	if err != nil {
		return domain.ListQuery{}, err
	}

	return domain.ListQuery{
		Filters: domain.FilterParams{Purpose: purpose, City: city},
		Page:    page,
		Sort:    sort,
	}, nil
}

// Search - параметры для GET /property/search[/{city}]
func (v *Validator) Search(ctx context.Context, q url.Values, city string) (domain.ListQuery, error) {
	page, err := v.Page(q)
	if err != nil {
		return domain.ListQuery{}, err
	}
	sort, err := v.Sort(q)
	if err != nil {
		return domain.ListQuery{}, err
	}
	filters, err := v.Filters(ctx, q, city)
	if err != nil {
		return domain.ListQuery{}, err
	}
	return domain.ListQuery{Filters: filters, Page: page, Sort: sort}, nil
}

// Filters разбирает полный набор фильтров поиска
func (v *Validator) Filters(ctx context.Context, q url.Values, city string) (domain.FilterParams, error) {
	var f domain.FilterParams
	var err error

	if f.LocationTerms, err = parseLocationQuery(q); err != nil {
		return f, err
	}
	if f.City, err = v.City(city); err != nil {
		return f, err
	}
	if err = v.applyRanges(q, &f); err != nil {
		return f, err
	}
	if f.Bedrooms, err = parseBedrooms(q.Get("bedrooms")); err != nil {
		return f, err
	}
	if f.StartDate, err = parseDate("start_date", q.Get("start_date")); err != nil {
		return f, err
	}
	if f.EndDate, err = parseDate("end_date", q.Get("end_date")); err != nil {
		return f, err
	}
	if f.LocationIDs, err = parseLocationIDs(q.Get("location_ids")); err != nil {
		return f, err
	}
	if f.PostedByAgency, err = parseOptionalBool("is_posted_by_agency", q.Get("is_posted_by_agency")); err != nil {
		return f, err
	}
	if f.PropertyTypes, err = v.PropertyTypes(ctx, q); err != nil {
		return f, err
	}
	if f.Purpose, err = v.Purpose(ctx, q); err != nil {
		return f, err
	}
	return f, nil
}

// Featured - пагинация и цель сделки для рекомендованных объектов
func (v *Validator) Featured(ctx context.Context, q url.Values) (domain.Purpose, domain.Page, error) {
	page, err := v.Page(q)
	if err != nil {
		return "", domain.Page{}, err
	}
	purpose, err := v.Purpose(ctx, q)
	if err != nil {
		return "", domain.Page{}, err
	}
	return purpose, page, nil
}

// Similar - id исходного объекта, пагинация и цель сделки
func (v *Validator) Similar(ctx context.Context, q url.Values) (domain.SimilarQuery, error) {
	page, err := v.Page(q)
	if err != nil {
		return domain.SimilarQuery{}, err
	}
	id, err := ParsePropertyID(q.Get("id"))
	if err != nil {
		return domain.SimilarQuery{}, err
	}
	purpose, err := v.Purpose(ctx, q)
	if err != nil {
		return domain.SimilarQuery{}, err
	}
	return domain.SimilarQuery{PropertyID: id, Purpose: purpose, Page: page}, nil
}

// Best - фильтры рейтинга: тип, площадь, город, лимит ранга и пагинация
func (v *Validator) Best(ctx context.Context, q url.Values, city string) (domain.BestQuery, error) {
	var f domain.FilterParams
	var err error

	if f.City, err = v.City(city); err != nil {
		return domain.BestQuery{}, err
	}
	if f.AreaMin, f.AreaMax, err = parseAreaRange(q); err != nil {
		return domain.BestQuery{}, err
	}
	if f.Purpose, err = v.Purpose(ctx, q); err != nil {
		return domain.BestQuery{}, err
	}
	if f.PropertyTypes, err = v.PropertyTypes(ctx, q); err != nil {
		return domain.BestQuery{}, err
	}
	if len(q["query"]) > 1 {
		return domain.BestQuery{}, errQueryNotString()
	}
	page, err := v.Page(q)
	if err != nil {
		return domain.BestQuery{}, err
	}

	limit := DefaultBestLimit
	if raw := strings.TrimSpace(q.Get("limit")); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return domain.BestQuery{}, domain.NewValidationError("limit", "Invalid limit parameter. It must be a positive integer.")
		}
	}

	return domain.BestQuery{Filters: f, Page: page, Limit: limit}, nil
}

// Suggestions - строка автодополнения и необязательный город
func (v *Validator) Suggestions(q url.Values, city string) (domain.SuggestionQuery, error) {
	if len(q["query"]) > 1 {
		return domain.SuggestionQuery{}, errQueryNotString()
	}
	city, err := v.City(city)
	if err != nil {
		return domain.SuggestionQuery{}, err
	}
	return domain.SuggestionQuery{Search: strings.TrimSpace(q.Get("query")), City: city}, nil
}

// Page разбирает page_size и page_number: целые неотрицательные числа
func (v *Validator) Page(q url.Values) (domain.Page, error) {
	size, err := parseNonNegativeInt("page_size", q.Get("page_size"), DefaultPageSize)
	if err != nil {
		return domain.Page{}, err
	}
	number, err := parseNonNegativeInt("page_number", q.Get("page_number"), DefaultPageNumber)
	if err != nil {
		return domain.Page{}, err
	}
	return domain.Page{Size: size, Number: number}, nil
}

// Sort разбирает sort_by и sort_order, перечисленные через запятую.
// Списки должны быть одной длины.
func (v *Validator) Sort(q url.Values) ([]domain.SortSpec, error) {
	sortBy := q.Get("sort_by")
	if sortBy == "" {
		sortBy = string(domain.SortByID)
	}
	sortOrder := q.Get("sort_order")
	if sortOrder == "" {
		sortOrder = string(domain.SortAsc)
	}

	columns := splitAndTrim(sortBy, ",")
	directions := splitAndTrim(sortOrder, ",")
	if len(columns) != len(directions) {
		return nil, domain.NewValidationError("sort_by", "sort_by and sort_order must have the same number of elements")
	}

	specs := make([]domain.SortSpec, 0, len(columns))
	for i, column := range columns {
		col, ok := lookupSortColumn(column)
		if !ok {
			return nil, domain.NewValidationError("sort_by", "Invalid sort_by value %q. Valid values are: %s", column, joinSortColumns())
		}
		dir, ok := lookupSortDirection(directions[i])
		if !ok {
			return nil, domain.NewValidationError("sort_order", "Invalid sort_order value %q. Valid values are: ASC, DESC", directions[i])
		}
		specs = append(specs, domain.SortSpec{Column: col, Direction: dir})
	}
	return specs, nil
}

// Purpose проверяет purpose по списку значений, которые реально есть в данных
func (v *Validator) Purpose(ctx context.Context, q url.Values) (domain.Purpose, error) {
	purpose := strings.TrimSpace(q.Get("purpose"))
	if purpose == "" {
		purpose = string(DefaultPurpose)
	}

	known, err := v.lookups.Purposes(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to load known purposes: %w", err)
	}
	if !contains(known, purpose) {
		return "", domain.NewValidationError("purpose", "Invalid purpose parameter. It must be one of following: %s.", strings.Join(known, ","))
	}
	return domain.Purpose(purpose), nil
}

// PropertyTypes разбирает property_type: типы и категории через запятую.
// Категории раскрываются в список типов.
func (v *Validator) PropertyTypes(ctx context.Context, q url.Values) ([]string, error) {
	tokens := splitAndTrim(q.Get("property_type"), ",")
	if len(tokens) == 0 {
		return nil, nil
	}

	known, err := v.lookups.PropertyTypes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load known property types: %w", err)
	}

	for _, token := range tokens {
		if _, isCategory := domain.TypesOfCategory(token); isCategory {
			continue
		}
		if !contains(known, token) {
			accepted := append(append([]string{}, known...), domain.CategoryNames()...)
			return nil, domain.NewValidationError("property_type", "Invalid property_type parameter. It must be one of following: %s", strings.Join(accepted, ", "))
		}
	}
	return domain.ExpandPropertyTypes(tokens), nil
}

// City проверяет сегмент пути с городом; пустая строка означает "без города"
func (v *Validator) City(city string) (string, error) {
	if city == "" {
		return "", nil
	}
	if !domain.IsAvailableCity(city) {
		return "", domain.NewValidationError("city", "Invalid city parameter. It must be one of following: %s", strings.Join(domain.AvailableCities, ", "))
	}
	return city, nil
}

// ParsePropertyID разбирает положительный целочисленный id объекта
func ParsePropertyID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id < 1 {
		return 0, domain.NewValidationError("id", "Invalid property id parameter. It must be a valid number.")
	}
	return id, nil
}

func (v *Validator) applyRanges(q url.Values, f *domain.FilterParams) error {
	priceMin, err := parseNonNegativeFloat("price_min", q.Get("price_min"))
	if err != nil {
		return domain.NewValidationError("price_min", "Invalid price parameters. Both price_min and price_max must be valid numbers.")
	}
	if priceMin == nil {
		def := DefaultPriceMin
		priceMin = &def
	}
	priceMax, err := parseNonNegativeFloat("price_max", q.Get("price_max"))
	if err != nil {
		return domain.NewValidationError("price_max", "Invalid price parameters. Both price_min and price_max must be valid numbers.")
	}
	f.PriceMin, f.PriceMax = priceMin, priceMax

	f.AreaMin, f.AreaMax, err = parseAreaRange(q)
	return err
}

func parseAreaRange(q url.Values) (*float64, *float64, error) {
	invalid := func(field string) error {
		return domain.NewValidationError(field, "Invalid area parameters. Both area_min and area_max must be valid numbers (in square feet) or values with a unit (Marla, Kanal, Sq. Yd.).")
	}

	areaMin := DefaultAreaMin
	if raw := strings.TrimSpace(q.Get("area_min")); raw != "" {
		parsed, err := domain.ParseArea(raw)
		if err != nil {
			return nil, nil, invalid("area_min")
		}
		areaMin = parsed
	}

	var areaMax *float64
	if raw := strings.TrimSpace(q.Get("area_max")); raw != "" {
		parsed, err := domain.ParseArea(raw)
		if err != nil {
			return nil, nil, invalid("area_max")
		}
		areaMax = &parsed
	}
	return &areaMin, areaMax, nil
}

func parseBedrooms(raw string) ([]int, error) {
	raw = strings.TrimSpace(raw)
	switch strings.ToLower(raw) {
	case "", "all", "studio":
		return nil, nil
	}

	tokens := splitAndTrim(raw, ",")
	result := make([]int, 0, len(tokens))
	for _, token := range tokens {
		n, err := strconv.Atoi(token)
		if err != nil || n < 0 {
			return nil, domain.NewValidationError("bedrooms", "Invalid bedrooms parameter %q. It must be a valid number.", token)
		}
		result = append(result, n)
	}
	return result, nil
}

func parseLocationIDs(raw string) ([]int64, error) {
	tokens := splitAndTrim(raw, ",")
	if len(tokens) == 0 {
		return nil, nil
	}
	result := make([]int64, 0, len(tokens))
	for _, token := range tokens {
		id, err := strconv.ParseInt(token, 10, 64)
		if err != nil || id < 0 {
			return nil, domain.NewValidationError("location_ids", "Invalid location_ids parameter %q. It must be a comma separated list of numbers.", token)
		}
		result = append(result, id)
	}
	return result, nil
}

// parseLocationQuery разбирает query: несколько районов через "|"
func parseLocationQuery(q url.Values) ([]string, error) {
	if len(q["query"]) > 1 {
		return nil, errQueryNotString()
	}
	terms := splitAndTrim(q.Get("query"), "|")
	if len(terms) == 0 {
		return nil, nil
	}
	return terms, nil
}

func errQueryNotString() error {
	return domain.NewValidationError("query", "Invalid query search parameter. It must be a string.")
}

var dateLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

func parseDate(field, raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}
	return nil, domain.NewValidationError(field, "Invalid %s parameter. It must be a valid date in iso string format.", field)
}

func parseOptionalBool(field, raw string) (*bool, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, domain.NewValidationError(field, "Invalid %s parameter. It must be true or false.", field)
	}
	return &b, nil
}

func parseNonNegativeInt(field, raw string, def int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, domain.NewValidationError(field, "Invalid %s parameter. It must be a non-negative integer.", field)
	}
	return n, nil
}

func parseNonNegativeFloat(field, raw string) (*float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) || n < 0 {
		return nil, fmt.Errorf("%s: %q is not a non-negative number", field, raw)
	}
	return &n, nil
}

func lookupSortColumn(raw string) (domain.SortColumn, bool) {
	for _, c := range domain.SortColumns {
		if string(c) == raw {
			return c, true
		}
	}
	return "", false
}

func lookupSortDirection(raw string) (domain.SortDirection, bool) {
	for _, d := range domain.SortDirections {
		if string(d) == raw {
			return d, true
		}
	}
	return "", false
}

func joinSortColumns() string {
	names := make([]string, len(domain.SortColumns))
	for i, c := range domain.SortColumns {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}

// splitAndTrim делит строку и выбрасывает пустые элементы
func splitAndTrim(s, sep string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, sep)
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			result = append(result, p)
		}
	}
	return result
}

func contains(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}
