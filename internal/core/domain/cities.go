package domain

// AvailableCities - фиксированный список городов, которые собирает парсер
var AvailableCities = []string{"islamabad", "rawalpindi", "lahore", "karachi"}

// IsAvailableCity проверяет точное совпадение с одним из городов
func IsAvailableCity(city string) bool {
	for _, c := range AvailableCities {
		if c == city {
			return true
		}
	}
	return false
}
