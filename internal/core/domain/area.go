package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Коэффициенты перевода местных единиц площади в квадратные футы
const (
	SqftPerKanal      = 4500.0
	SqftPerMarla      = 225.0
	SqftPerSquareYard = 9.0
)

var areaUnits = []struct {
	suffixes []string
	factor   float64
}{
	{[]string{"kanal", "kanals"}, SqftPerKanal},
	{[]string{"marla", "marlas"}, SqftPerMarla},
	{[]string{"sq. yd.", "sq.yd.", "sq yd", "sqyd", "sq. yd"}, SqftPerSquareYard},
	{[]string{"sqft", "sq. ft.", "sq ft", "sq.ft."}, 1},
}

// ParseArea переводит строку вида "5 Marla", "1 Kanal", "120 Sq. Yd." или "900"
// в квадратные футы. Число без единицы считается квадратными футами.
func ParseArea(raw string) (float64, error) {
	value := strings.ToLower(strings.TrimSpace(raw))
	if value == "" {
		return 0, fmt.Errorf("empty area value")
	}

	factor := 1.0
	for _, unit := range areaUnits {
		matched := false
		for _, suffix := range unit.suffixes {
			if strings.HasSuffix(value, suffix) {
				value = strings.TrimSpace(strings.TrimSuffix(value, suffix))
				factor = unit.factor
				matched = true
				break
			}
		}
		if matched {
			break
		}
	}

	number, err := strconv.ParseFloat(strings.ReplaceAll(value, ",", ""), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid area value %q: %w", raw, err)
	}
	if math.IsNaN(number) || math.IsInf(number, 0) || number < 0 {
		return 0, fmt.Errorf("area value %q must be a non-negative number", raw)
	}
	return number * factor, nil
}
