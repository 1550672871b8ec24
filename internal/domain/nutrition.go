package domain

import (
	"bytes"
	"encoding/json"
	"slices"
)

// NutrientID is the internal identifier a provider nutrient code maps to.
type NutrientID string

// Internal nutrient identifiers
const (
	NutrientCalories           NutrientID = "calories"
	NutrientProtein            NutrientID = "protein"
	NutrientTotalFat           NutrientID = "total_fat"
	NutrientSaturatedFat       NutrientID = "saturated_fat"
	NutrientTransFat           NutrientID = "trans_fat"
	NutrientMonounsaturatedFat NutrientID = "monounsaturated_fat"
	NutrientPolyunsaturatedFat NutrientID = "polyunsaturated_fat"
	NutrientCholesterol        NutrientID = "cholesterol"
	NutrientCarbohydrates      NutrientID = "carbohydrates"
	NutrientFiber              NutrientID = "fiber"
	NutrientSugars             NutrientID = "sugars"
	NutrientAddedSugars        NutrientID = "added_sugars"
	NutrientSodium             NutrientID = "sodium"
	NutrientPotassium          NutrientID = "potassium"
	NutrientCalcium            NutrientID = "calcium"
	NutrientIron               NutrientID = "iron"
	NutrientMagnesium          NutrientID = "magnesium"
	NutrientPhosphorus         NutrientID = "phosphorus"
	NutrientZinc               NutrientID = "zinc"
	NutrientVitaminA           NutrientID = "vitamin_a"
	NutrientVitaminC           NutrientID = "vitamin_c"
	NutrientVitaminD           NutrientID = "vitamin_d"
	NutrientVitaminE           NutrientID = "vitamin_e"
	NutrientVitaminK           NutrientID = "vitamin_k"
	NutrientThiamin            NutrientID = "thiamin"
	NutrientRiboflavin         NutrientID = "riboflavin"
	NutrientNiacin             NutrientID = "niacin"
	NutrientVitaminB6          NutrientID = "vitamin_b6"
	NutrientFolate             NutrientID = "folate"
	NutrientVitaminB12         NutrientID = "vitamin_b12"
	NutrientCaffeine           NutrientID = "caffeine"
	NutrientAlcohol            NutrientID = "alcohol"
	NutrientWater              NutrientID = "water"
)

// Amount is a nutrient quantity as sent by FDC. A missing, null or
// non-numeric value decodes as invalid instead of failing the payload.
type Amount struct {
	Value float64
	Valid bool
}

// NewAmount returns a valid Amount
func NewAmount(v float64) Amount {
	return Amount{Value: v, Valid: true}
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	*a = Amount{}
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return nil
	}
	*a = Amount{Value: v, Valid: true}
	return nil
}

func (a Amount) MarshalJSON() ([]byte, error) {
	if !a.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(a.Value)
}

// NutrientInfo is the nested nutrient descriptor used by detail payloads
type NutrientInfo struct {
	ID       int    `json:"id"`
	Number   string `json:"number,omitempty"`
	Name     string `json:"name,omitempty"`
	UnitName string `json:"unitName,omitempty"`
}

// FoodNutrient is a single nutrient row. Search hits use the flat
// nutrientId/value shape; detail records nest a NutrientInfo and use amount.
type FoodNutrient struct {
	NutrientID     int           `json:"nutrientId,omitempty"`
	NutrientName   string        `json:"nutrientName,omitempty"`
	NutrientNumber string        `json:"nutrientNumber,omitempty"`
	UnitName       string        `json:"unitName,omitempty"`
	Value          Amount        `json:"value,omitzero"`
	Nutrient       *NutrientInfo `json:"nutrient,omitempty"`
	Amount         Amount        `json:"amount,omitzero"`
}

// Code returns the FDC nutrient id regardless of payload shape
func (n FoodNutrient) Code() int {
	if n.NutrientID != 0 {
		return n.NutrientID
	}
	if n.Nutrient != nil {
		return n.Nutrient.ID
	}
	return 0
}

// Quantity returns the nutrient amount regardless of payload shape
func (n FoodNutrient) Quantity() Amount {
	if n.Value.Valid {
		return n.Value
	}
	return n.Amount
}

// FoodRecord is a food as returned by the FDC search endpoint
type FoodRecord struct {
	FdcID           int            `json:"fdcId"`
	Description     string         `json:"description"`
	DataType        string         `json:"dataType"`
	BrandOwner      string         `json:"brandOwner,omitempty"`
	BrandName       string         `json:"brandName,omitempty"`
	GtinUpc         string         `json:"gtinUpc,omitempty"`
	FoodCategory    string         `json:"foodCategory,omitempty"`
	ServingSize     float64        `json:"servingSize,omitempty"`
	ServingSizeUnit string         `json:"servingSizeUnit,omitempty"`
	Score           float64        `json:"score,omitempty"`
	FoodNutrients   []FoodNutrient `json:"foodNutrients,omitempty"`
}

// FoodPortion is a household measure with its gram weight
type FoodPortion struct {
	ID                 int     `json:"id"`
	Amount             float64 `json:"amount,omitempty"`
	GramWeight         float64 `json:"gramWeight"`
	Modifier           string  `json:"modifier,omitempty"`
	PortionDescription string  `json:"portionDescription,omitempty"`
}

// FoodDetailRecord is a food as returned by the FDC detail endpoints
type FoodDetailRecord struct {
	FdcID           int            `json:"fdcId"`
	Description     string         `json:"description"`
	DataType        string         `json:"dataType"`
	FoodClass       string         `json:"foodClass,omitempty"`
	PublicationDate string         `json:"publicationDate,omitempty"`
	BrandOwner      string         `json:"brandOwner,omitempty"`
	BrandName       string         `json:"brandName,omitempty"`
	GtinUpc         string         `json:"gtinUpc,omitempty"`
	Ingredients     string         `json:"ingredients,omitempty"`
	ServingSize     float64        `json:"servingSize,omitempty"`
	ServingSizeUnit string         `json:"servingSizeUnit,omitempty"`
	FoodNutrients   []FoodNutrient `json:"foodNutrients,omitempty"`
	FoodPortions    []FoodPortion  `json:"foodPortions,omitempty"`
}

// SearchOptions narrows a food search. Zero values are replaced by defaults.
type SearchOptions struct {
	DataTypes  []string `json:"dataType,omitempty"`
	PageSize   int      `json:"pageSize,omitempty"`
	PageNumber int      `json:"pageNumber,omitempty"`
}

// SearchResponse represents the response from the FDC search API
type SearchResponse struct {
	TotalHits   int          `json:"totalHits"`
	CurrentPage int          `json:"currentPage"`
	TotalPages  int          `json:"totalPages"`
	Foods       []FoodRecord `json:"foods"`
}

func cloneNutrients(nutrients []FoodNutrient) []FoodNutrient {
	if nutrients == nil {
		return nil
	}
	out := make([]FoodNutrient, len(nutrients))
	for i, n := range nutrients {
		if n.Nutrient != nil {
			info := *n.Nutrient
			n.Nutrient = &info
		}
		out[i] = n
	}
	return out
}

// Clone returns a copy that shares no memory with f
func (f FoodRecord) Clone() FoodRecord {
	f.FoodNutrients = cloneNutrients(f.FoodNutrients)
	return f
}

// Clone returns a copy that shares no memory with f
func (f *FoodDetailRecord) Clone() *FoodDetailRecord {
	if f == nil {
		return nil
	}
	out := *f
	out.FoodNutrients = cloneNutrients(f.FoodNutrients)
	if f.FoodPortions != nil {
		out.FoodPortions = slices.Clone(f.FoodPortions)
	}
	return &out
}

// CloneFoods deep-copies a search result. A nil input yields an empty slice.
func CloneFoods(foods []FoodRecord) []FoodRecord {
	out := make([]FoodRecord, len(foods))
	for i := range foods {
		out[i] = foods[i].Clone()
	}
	return out
}
