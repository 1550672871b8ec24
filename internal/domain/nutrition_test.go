package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAmount_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		input string
		want  Amount
	}{
		{`12.5`, NewAmount(12.5)},
		{`0`, NewAmount(0)},
		{`-3`, NewAmount(-3)},
		{`null`, Amount{}},
		{`"12"`, Amount{}},
		{`"n/a"`, Amount{}},
		{`{}`, Amount{}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var a Amount
			require.NoError(t, json.Unmarshal([]byte(tt.input), &a))
			assert.Equal(t, tt.want, a)
		})
	}
}

func TestAmount_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(NewAmount(1.5))
	require.NoError(t, err)
	assert.Equal(t, "1.5", string(data))

	data, err = json.Marshal(Amount{})
	require.NoError(t, err)
	assert.Equal(t, "null", string(data))
}

func TestFoodNutrient_Shapes(t *testing.T) {
	payload := `{"foodNutrients":[
		{"nutrientId":1003,"value":8.2},
		{"nutrient":{"id":1004,"unitName":"g"},"amount":3.1},
		{"nutrientId":1005,"value":null}
	]}`

	var food FoodDetailRecord
	require.NoError(t, json.Unmarshal([]byte(payload), &food))
	require.Len(t, food.FoodNutrients, 3)

	assert.Equal(t, 1003, food.FoodNutrients[0].Code())
	assert.Equal(t, NewAmount(8.2), food.FoodNutrients[0].Quantity())
	assert.Equal(t, 1004, food.FoodNutrients[1].Code())
	assert.Equal(t, NewAmount(3.1), food.FoodNutrients[1].Quantity())
	assert.False(t, food.FoodNutrients[2].Quantity().Valid)
}
