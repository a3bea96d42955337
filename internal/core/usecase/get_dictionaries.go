package usecase

import (
	"context"
	"property-service/internal/contextkeys"
	"property-service/internal/core/domain"
	"property-service/internal/core/port"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Имена справочников, которые можно запросить
const (
	DictionaryCities        = "cities"
	DictionaryPropertyTypes = "property_types"
	DictionaryPurposes      = "purposes"
	DictionaryCategories    = "categories"
)

// GetDictionariesUseCase отдает значения фильтров вместе с подписями для интерфейса
type GetDictionariesUseCase struct {
	lookups port.LookupProvider
}

func NewGetDictionariesUseCase(lookups port.LookupProvider) *GetDictionariesUseCase {
	return &GetDictionariesUseCase{lookups: lookups}
}

// Execute возвращает запрошенные справочники; пустой names означает "все".
// Справочник, который не удалось получить, пропускается.
func (uc *GetDictionariesUseCase) Execute(ctx context.Context, names []string) (map[string][]domain.DictionaryItem, error) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case": "GetDictionaries",
		"names":    names,
	})
	ucLogger.Info("Use case started", nil)

	requested := make(map[string]bool, len(names))
	for _, name := range names {
		if name = strings.TrimSpace(name); name != "" {
			requested[name] = true
		}
	}
	want := func(name string) bool { return len(requested) == 0 || requested[name] }

	result := make(map[string][]domain.DictionaryItem)

	if want(DictionaryCities) {
		result[DictionaryCities] = toDictionary(domain.AvailableCities)
	}
	if want(DictionaryCategories) {
		result[DictionaryCategories] = toDictionary(domain.CategoryNames())
	}
	if want(DictionaryPropertyTypes) {
		types, err := uc.lookups.PropertyTypes(ctx)
		if err != nil {
			ucLogger.Error("Failed to load property types", err, nil)
		} else {
			result[DictionaryPropertyTypes] = toDictionary(types)
		}
	}
	if want(DictionaryPurposes) {
		purposes, err := uc.lookups.Purposes(ctx)
		if err != nil {
			ucLogger.Error("Failed to load purposes", err, nil)
		} else {
			result[DictionaryPurposes] = toDictionary(purposes)
		}
	}

	ucLogger.Info("Use case finished successfully", port.Fields{"dictionaries": len(result)})
	return result, nil
}

func toDictionary(values []string) []domain.DictionaryItem {
	items := make([]domain.DictionaryItem, 0, len(values))
	for _, v := range values {
		items = append(items, domain.DictionaryItem{SystemName: v, DisplayName: DisplayName(v)})
	}
	return items
}

// DisplayName делает из системного имени подпись: "for_sale" -> "For Sale"
func DisplayName(systemName string) string {
	caser := cases.Title(language.English)
	return caser.String(strings.ReplaceAll(systemName, "_", " "))
}
