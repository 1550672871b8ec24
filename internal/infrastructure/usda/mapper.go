package usda

import (
	"github.com/GarrettC14/NutritionRx-sub008/internal/domain"
)

// gramsPerReference is the FDC reference amount nutrient values are given for
const gramsPerReference = 100.0

// MapNutrients converts FDC nutrient rows to internal ids.
// Rows whose code is not in the code map, or whose amount is missing,
// non-numeric or not positive, are dropped. When two rows map to the same
// internal id the later row wins.
func MapNutrients(nutrients []domain.FoodNutrient) map[domain.NutrientID]float64 {
	mapped := make(map[domain.NutrientID]float64, len(nutrients))

	for _, nutrient := range nutrients {
		id, ok := LookupNutrient(nutrient.Code())
		if !ok {
			continue
		}
		amount := nutrient.Quantity()
		if !amount.Valid || amount.Value <= 0 {
			continue
		}
		mapped[id] = amount.Value
	}

	return mapped
}

// CountAvailableNutrients returns how many mapped nutrients carry a positive
// amount. It measures data richness and filters nothing.
func CountAvailableNutrients(nutrients []domain.FoodNutrient) int {
	return len(MapNutrients(nutrients))
}

// ScaleNutrientsToServing converts per-100g values to a serving of
// servingGrams. A zero serving yields zeros over the same keys.
func ScaleNutrientsToServing(per100g map[domain.NutrientID]float64, servingGrams float64) map[domain.NutrientID]float64 {
	factor := servingGrams / gramsPerReference
	scaled := make(map[domain.NutrientID]float64, len(per100g))
	for id, value := range per100g {
		scaled[id] = value * factor
	}
	return scaled
}
