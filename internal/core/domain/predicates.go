package domain

// Column - логическое имя поля, по которому строится условие.
// Адаптер хранилища сам сопоставляет его с реальной колонкой.
type Column string

const (
	ColumnID             Column = "id"
	ColumnPurpose        Column = "purpose"
	ColumnPrice          Column = "price"
	ColumnArea           Column = "area"
	ColumnBedroom        Column = "bedroom"
	ColumnType           Column = "type"
	ColumnAdded          Column = "added"
	ColumnCityID         Column = "city_id"
	ColumnLocationID     Column = "location_id"
	ColumnLocationName   Column = "location_name"
	ColumnPostedByAgency Column = "is_posted_by_agency"
)

// Predicate - одно условие из набора, объединяемого через AND
type Predicate interface {
	Field() Column
	isPredicate()
}

// EqualityFilter: column = value
type EqualityFilter struct {
	Column Column
	Value  any
}

// RangeFilter: min <= column <= max. Nil граница не участвует.
// ExclusiveMin превращает нижнюю границу в строгую.
type RangeFilter struct {
	Column       Column
	Min          any
	Max          any
	ExclusiveMin bool
}

// SetFilter: column входит в множество значений
type SetFilter struct {
	Column Column
	Values any
}

// TextSimilarityFilter: хотя бы один из терминов встречается в значении колонки
// (без учета регистра)
type TextSimilarityFilter struct {
	Column Column
	Terms  []string
}

// ExclusionFilter: column <> value
type ExclusionFilter struct {
	Column Column
	Value  any
}

func (f EqualityFilter) Field() Column       { return f.Column }
func (f RangeFilter) Field() Column          { return f.Column }
func (f SetFilter) Field() Column            { return f.Column }
func (f TextSimilarityFilter) Field() Column { return f.Column }
func (f ExclusionFilter) Field() Column      { return f.Column }

func (EqualityFilter) isPredicate()       {}
func (RangeFilter) isPredicate()          {}
func (SetFilter) isPredicate()            {}
func (TextSimilarityFilter) isPredicate() {}
func (ExclusionFilter) isPredicate()      {}

// PredicateSet - конъюнкция условий.
// Unsatisfiable означает, что результат заведомо пуст (например, город не найден)
// и ходить в базу не нужно.
type PredicateSet struct {
	Predicates    []Predicate
	Unsatisfiable bool
}

// With возвращает новый набор с добавленным условием
func (s PredicateSet) With(p Predicate) PredicateSet {
	next := make([]Predicate, 0, len(s.Predicates)+1)
	next = append(next, s.Predicates...)
	next = append(next, p)
	return PredicateSet{Predicates: next, Unsatisfiable: s.Unsatisfiable}
}

// Without возвращает новый набор без условий по указанной колонке
func (s PredicateSet) Without(column Column) PredicateSet {
	next := make([]Predicate, 0, len(s.Predicates))
	for _, p := range s.Predicates {
		if p.Field() != column {
			next = append(next, p)
		}
	}
	return PredicateSet{Predicates: next, Unsatisfiable: s.Unsatisfiable}
}

// Has сообщает, есть ли в наборе условие по колонке
func (s PredicateSet) Has(column Column) bool {
	for _, p := range s.Predicates {
		if p.Field() == column {
			return true
		}
	}
	return false
}
