package domain

import "strings"

// Категории-псевдонимы, которые фронт может передать вместо конкретного типа
const (
	CategoryHome       = "home"
	CategoryPlot       = "plot"
	CategoryCommercial = "commercial"
)

var categoryTypes = map[string][]PropertyType{
	CategoryHome: {
		TypeHouse, TypeUpperPortion, TypeLowerPortion, TypeFlat,
		TypeRoom, TypeFarmHouse, TypePenthouse,
	},
	CategoryPlot: {
		TypePlotFile, TypePlotForm, TypeIndustrialLand,
		TypeCommercialPlot, TypeResidentialPlot, TypeAgriculturalLand,
	},
	CategoryCommercial: {
		TypeShop, TypeOffice, TypeWarehouse, TypeFactory, TypeBuilding, TypeOther,
	},
}

// CategoryNames возвращает имена категорий в стабильном порядке
func CategoryNames() []string {
	return []string{CategoryHome, CategoryPlot, CategoryCommercial}
}

// TypesOfCategory возвращает типы категории; ok=false, если это не категория
func TypesOfCategory(name string) ([]PropertyType, bool) {
	types, ok := categoryTypes[strings.ToLower(name)]
	return types, ok
}

// ExpandPropertyTypes раскрывает категории в список типов и убирает дубли.
// Порядок первого появления сохраняется.
func ExpandPropertyTypes(tokens []string) []string {
	seen := make(map[string]bool, len(tokens))
	result := make([]string, 0, len(tokens))
	add := func(t string) {
		if !seen[t] {
			seen[t] = true
			result = append(result, t)
		}
	}
	for _, token := range tokens {
		if types, ok := TypesOfCategory(token); ok {
			for _, t := range types {
				add(string(t))
			}
			continue
		}
		add(token)
	}
	return result
}
