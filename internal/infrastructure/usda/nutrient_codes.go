package usda

import "github.com/GarrettC14/NutritionRx-sub008/internal/domain"

// FDC nutrient ids for the energy and macronutrient rows
const (
	NutrientIDEnergy         = 1008 // Energy (kcal)
	NutrientIDEnergyAtwater  = 2047 // Energy, Atwater general factors (kcal)
	NutrientIDEnergySpecific = 2048 // Energy, Atwater specific factors (kcal)
	NutrientIDProtein        = 1003 // Protein (g)
	NutrientIDTotalFat       = 1004 // Total lipid (g)
	NutrientIDCarbohydrate   = 1005 // Carbohydrate, by difference (g)
	NutrientIDFiber          = 1079 // Fiber, total dietary (g)
	NutrientIDSugars         = 2000 // Sugars, total including NLEA (g)
	NutrientIDSugarsLegacy   = 1063 // Sugars, Total (g)
	NutrientIDSodium         = 1093 // Sodium (mg)
)

// nutrientCodes translates FDC nutrient ids to internal ids. Several FDC
// rows can land on the same internal id; MapNutrients keeps the last one.
var nutrientCodes = map[int]domain.NutrientID{
	NutrientIDEnergy:         domain.NutrientCalories,
	NutrientIDEnergyAtwater:  domain.NutrientCalories,
	NutrientIDEnergySpecific: domain.NutrientCalories,
	NutrientIDProtein:        domain.NutrientProtein,
	NutrientIDTotalFat:       domain.NutrientTotalFat,
	1258:                     domain.NutrientSaturatedFat,
	1257:                     domain.NutrientTransFat,
	1292:                     domain.NutrientMonounsaturatedFat,
	1293:                     domain.NutrientPolyunsaturatedFat,
	1253:                     domain.NutrientCholesterol,
	NutrientIDCarbohydrate:   domain.NutrientCarbohydrates,
	NutrientIDFiber:          domain.NutrientFiber,
	NutrientIDSugars:         domain.NutrientSugars,
	NutrientIDSugarsLegacy:   domain.NutrientSugars,
	1235:                     domain.NutrientAddedSugars,
	NutrientIDSodium:         domain.NutrientSodium,
	1092:                     domain.NutrientPotassium,
	1087:                     domain.NutrientCalcium,
	1089:                     domain.NutrientIron,
	1090:                     domain.NutrientMagnesium,
	1091:                     domain.NutrientPhosphorus,
	1095:                     domain.NutrientZinc,
	1106:                     domain.NutrientVitaminA,
	1162:                     domain.NutrientVitaminC,
	1114:                     domain.NutrientVitaminD,
	1109:                     domain.NutrientVitaminE,
	1185:                     domain.NutrientVitaminK,
	1165:                     domain.NutrientThiamin,
	1166:                     domain.NutrientRiboflavin,
	1167:                     domain.NutrientNiacin,
	1175:                     domain.NutrientVitaminB6,
	1177:                     domain.NutrientFolate,
	1178:                     domain.NutrientVitaminB12,
	1057:                     domain.NutrientCaffeine,
	1018:                     domain.NutrientAlcohol,
	1051:                     domain.NutrientWater,
}

// maxNutrientCount is the number of distinct internal ids reachable
var maxNutrientCount = func() int {
	seen := make(map[domain.NutrientID]struct{}, len(nutrientCodes))
	for _, id := range nutrientCodes {
		seen[id] = struct{}{}
	}
	return len(seen)
}()

// LookupNutrient returns the internal id for an FDC nutrient id
func LookupNutrient(code int) (domain.NutrientID, bool) {
	id, ok := nutrientCodes[code]
	return id, ok
}

// MaxNutrientCount returns how many distinct nutrients a food can report
// through the code map. It is the denominator for data-richness scores.
func MaxNutrientCount() int {
	return maxNutrientCount
}
