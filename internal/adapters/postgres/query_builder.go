package postgres

import (
	"fmt"
	"property-service/internal/core/domain"
	"strings"
)

// columnSQL - единственный источник имен колонок, попадающих в текст запроса.
// Enum-колонки приводятся к text, чтобы параметры передавались как обычные строки.
var columnSQL = map[domain.Column]string{
	domain.ColumnID:             "p.id",
	domain.ColumnPurpose:        "p.purpose::text",
	domain.ColumnPrice:          "p.price",
	domain.ColumnArea:           "p.area",
	domain.ColumnBedroom:        "p.bedroom",
	domain.ColumnType:           "p.type::text",
	domain.ColumnAdded:          "p.added",
	domain.ColumnCityID:         "p.city_id",
	domain.ColumnLocationID:     "p.location_id",
	domain.ColumnPostedByAgency: "p.is_posted_by_agency",
}

var sortSQL = map[domain.SortColumn]string{
	domain.SortByID:    "p.id",
	domain.SortByPrice: "p.price",
	domain.SortByAdded: "p.added",
}

type queryBuilder struct {
	conditions []string
	args       []interface{}
	argId      int
}

func newQueryBuilder() *queryBuilder {
	return &queryBuilder{
		argId: 1,
		args:  make([]interface{}, 0),
	}
}

func (qb *queryBuilder) addCondition(condition string, fieldName string, arg interface{}) {
	qb.conditions = append(qb.conditions, fmt.Sprintf(condition, fieldName, qb.argId))
	qb.args = append(qb.args, arg)
	qb.argId++
}

// nextArg резервирует номер параметра для LIMIT/OFFSET и прочих хвостов запроса
func (qb *queryBuilder) nextArg(arg interface{}) string {
	placeholder := fmt.Sprintf("$%d", qb.argId)
	qb.args = append(qb.args, arg)
	qb.argId++
	return placeholder
}

// build возвращает WHERE-часть и аргументы
func (qb *queryBuilder) build() (string, []interface{}) {
	whereClause := ""
	if len(qb.conditions) > 0 {
		whereClause = "WHERE " + strings.Join(qb.conditions, " AND ")
	}
	return whereClause, qb.args
}

// applyPredicates переводит набор условий в параметризованный SQL.
// Значения пользователя попадают только в args.
func applyPredicates(set domain.PredicateSet) (*queryBuilder, error) {
	qb := newQueryBuilder()

	for _, predicate := range set.Predicates {
		switch p := predicate.(type) {
		case domain.EqualityFilter:
			field, err := columnFor(p.Column)
			if err != nil {
				return nil, err
			}
			qb.addCondition("%s = $%d", field, p.Value)

		case domain.ExclusionFilter:
			field, err := columnFor(p.Column)
			if err != nil {
				return nil, err
			}
			qb.addCondition("%s <> $%d", field, p.Value)

		case domain.RangeFilter:
			field, err := columnFor(p.Column)
			if err != nil {
				return nil, err
			}
			if p.Min != nil {
				if p.ExclusiveMin {
					qb.addCondition("%s > $%d", field, p.Min)
				} else {
					qb.addCondition("%s >= $%d", field, p.Min)
				}
			}
			if p.Max != nil {
				qb.addCondition("%s <= $%d", field, p.Max)
			}

		case domain.SetFilter:
			field, err := columnFor(p.Column)
			if err != nil {
				return nil, err
			}
			qb.addCondition("%s = ANY($%d)", field, p.Values)

		case domain.TextSimilarityFilter:
			patterns := make([]string, 0, len(p.Terms))
			for _, term := range p.Terms {
				patterns = append(patterns, "%"+escapeLike(term)+"%")
			}
			if p.Column == domain.ColumnLocationName {
				// район ищется подзапросом, чтобы count не требовал JOIN
				qb.addCondition("%s IN (SELECT loc.id FROM locations loc WHERE loc.name ILIKE ANY($%d))", "p.location_id", patterns)
				continue
			}
			field, err := columnFor(p.Column)
			if err != nil {
				return nil, err
			}
			qb.addCondition("%s ILIKE ANY($%d)", field, patterns)

		default:
			return nil, fmt.Errorf("unsupported predicate type %T", predicate)
		}
	}

	return qb, nil
}

// orderBy строит ORDER BY; id добавляется в конец для стабильной пагинации
func orderBy(specs []domain.SortSpec) (string, error) {
	if len(specs) == 0 {
		specs = domain.DefaultSort
	}

	parts := make([]string, 0, len(specs)+1)
	hasID := false
	for _, spec := range specs {
		column, ok := sortSQL[spec.Column]
		if !ok {
			return "", fmt.Errorf("unsupported sort column %q", spec.Column)
		}
		if spec.Direction != domain.SortAsc && spec.Direction != domain.SortDesc {
			return "", fmt.Errorf("unsupported sort direction %q", spec.Direction)
		}
		if spec.Column == domain.SortByID {
			hasID = true
		}
		parts = append(parts, column+" "+string(spec.Direction))
	}
	if !hasID {
		parts = append(parts, "p.id ASC")
	}
	return "ORDER BY " + strings.Join(parts, ", "), nil
}

func columnFor(column domain.Column) (string, error) {
	field, ok := columnSQL[column]
	if !ok {
		return "", fmt.Errorf("unsupported filter column %q", column)
	}
	return field, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
