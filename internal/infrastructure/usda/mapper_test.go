package usda

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GarrettC14/NutritionRx-sub008/internal/domain"
)

func flat(code int, value float64) domain.FoodNutrient {
	return domain.FoodNutrient{NutrientID: code, Value: domain.NewAmount(value)}
}

func nested(code int, amount float64) domain.FoodNutrient {
	return domain.FoodNutrient{Nutrient: &domain.NutrientInfo{ID: code}, Amount: domain.NewAmount(amount)}
}

func TestMapNutrients(t *testing.T) {
	tests := []struct {
		name      string
		nutrients []domain.FoodNutrient
		want      map[domain.NutrientID]float64
	}{
		{
			name: "complete macro data",
			nutrients: []domain.FoodNutrient{
				flat(NutrientIDEnergy, 149.0),
				flat(NutrientIDProtein, 7.7),
				flat(NutrientIDCarbohydrate, 11.7),
				flat(NutrientIDTotalFat, 7.9),
			},
			want: map[domain.NutrientID]float64{
				domain.NutrientCalories:      149.0,
				domain.NutrientProtein:       7.7,
				domain.NutrientCarbohydrates: 11.7,
				domain.NutrientTotalFat:      7.9,
			},
		},
		{
			name: "detail payload shape",
			nutrients: []domain.FoodNutrient{
				nested(NutrientIDSodium, 640),
				nested(NutrientIDFiber, 2.5),
			},
			want: map[domain.NutrientID]float64{
				domain.NutrientSodium: 640,
				domain.NutrientFiber:  2.5,
			},
		},
		{
			name: "drops unmapped codes",
			nutrients: []domain.FoodNutrient{
				flat(1062, 620), // energy in kJ
				flat(99999, 1),
				flat(NutrientIDProtein, 3),
			},
			want: map[domain.NutrientID]float64{
				domain.NutrientProtein: 3,
			},
		},
		{
			name: "drops zero negative and missing amounts",
			nutrients: []domain.FoodNutrient{
				flat(NutrientIDProtein, 0),
				flat(NutrientIDTotalFat, -1),
				{NutrientID: NutrientIDCarbohydrate},
				flat(NutrientIDSodium, 0.001),
			},
			want: map[domain.NutrientID]float64{
				domain.NutrientSodium: 0.001,
			},
		},
		{
			name: "last colliding row wins",
			nutrients: []domain.FoodNutrient{
				flat(NutrientIDEnergy, 100),
				flat(NutrientIDEnergyAtwater, 105),
				flat(NutrientIDEnergySpecific, 98),
			},
			want: map[domain.NutrientID]float64{
				domain.NutrientCalories: 98,
			},
		},
		{
			name:      "nil input",
			nutrients: nil,
			want:      map[domain.NutrientID]float64{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapNutrients(tt.nutrients)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMapNutrients_NonNumericAmount(t *testing.T) {
	var nutrients []domain.FoodNutrient
	err := json.Unmarshal([]byte(`[
		{"nutrientId": 1003, "value": "lots"},
		{"nutrientId": 1004, "value": null},
		{"nutrient": {"id": 1005}, "amount": 12.5}
	]`), &nutrients)
	require.NoError(t, err)

	got := MapNutrients(nutrients)

	assert.Equal(t, map[domain.NutrientID]float64{domain.NutrientCarbohydrates: 12.5}, got)
}

func TestMapNutrients_OnlyKnownKeys(t *testing.T) {
	var nutrients []domain.FoodNutrient
	for code := 1000; code < 2100; code++ {
		nutrients = append(nutrients, flat(code, 1))
	}

	got := MapNutrients(nutrients)

	known := make(map[domain.NutrientID]bool)
	for _, id := range nutrientCodes {
		known[id] = true
	}
	for id := range got {
		assert.True(t, known[id], "unexpected key %q", id)
	}
}

func TestCountAvailableNutrients(t *testing.T) {
	nutrients := []domain.FoodNutrient{
		flat(NutrientIDEnergy, 52),
		flat(NutrientIDEnergyAtwater, 50),
		flat(NutrientIDCarbohydrate, 14),
		flat(NutrientIDProtein, 0),
		flat(1062, 218),
	}

	assert.Equal(t, 2, CountAvailableNutrients(nutrients))
	assert.Equal(t, 0, CountAvailableNutrients(nil))
}

func TestMaxNutrientCount(t *testing.T) {
	assert.Equal(t, 33, MaxNutrientCount())
	assert.Less(t, MaxNutrientCount(), len(nutrientCodes), "several codes share an internal id")
}

func TestLookupNutrient(t *testing.T) {
	id, ok := LookupNutrient(NutrientIDProtein)
	assert.True(t, ok)
	assert.Equal(t, domain.NutrientProtein, id)

	_, ok = LookupNutrient(0)
	assert.False(t, ok)
}

func TestScaleNutrientsToServing(t *testing.T) {
	per100g := map[domain.NutrientID]float64{
		domain.NutrientCalories: 200,
		domain.NutrientProtein:  10,
	}

	t.Run("half serving", func(t *testing.T) {
		got := ScaleNutrientsToServing(per100g, 50)
		assert.InDelta(t, 100, got[domain.NutrientCalories], 1e-9)
		assert.InDelta(t, 5, got[domain.NutrientProtein], 1e-9)
	})

	t.Run("reference serving is identity", func(t *testing.T) {
		got := ScaleNutrientsToServing(per100g, 100)
		assert.Equal(t, per100g, got)
	})

	t.Run("zero grams yields zeros over the same keys", func(t *testing.T) {
		got := ScaleNutrientsToServing(per100g, 0)
		require.Len(t, got, len(per100g))
		for id := range per100g {
			v, ok := got[id]
			assert.True(t, ok)
			assert.Zero(t, v)
		}
	})

	t.Run("does not modify input", func(t *testing.T) {
		ScaleNutrientsToServing(per100g, 250)
		assert.Equal(t, 200.0, per100g[domain.NutrientCalories])
	})
}
