package openfoodfacts

import (
	"math"
	"strconv"

	"github.com/nutrilog/backend/internal/domain"
)

// Unit factors from the provider's gram-denominated nutriment values into
// the canonical units.
const (
	gramsToMilligrams = 1000
	gramsToMicrograms = 1_000_000
)

// MapNutriments converts an Open Food Facts nutriments map into the
// canonical per-100g profile. The provider stores sodium, cholesterol and
// most micronutrients in grams; those are converted to mg or µg here.
// Macros already match the canonical units and pass through unchanged.
// Fields absent from the payload stay nil.
func MapNutriments(nutriments map[string]interface{}) domain.NutritionProfile {
	var p domain.NutritionProfile

	p.Calories = per100g(nutriments, "energy-kcal_100g", 1)
	p.ProteinG = per100g(nutriments, "proteins_100g", 1)
	p.FatG = per100g(nutriments, "fat_100g", 1)
	p.CarbsG = per100g(nutriments, "carbohydrates_100g", 1)
	p.FiberG = per100g(nutriments, "fiber_100g", 1)
	p.SugarG = per100g(nutriments, "sugars_100g", 1)
	p.SaturatedFatG = per100g(nutriments, "saturated-fat_100g", 1)

	p.SodiumMg = per100g(nutriments, "sodium_100g", gramsToMilligrams)
	p.CholesterolMg = per100g(nutriments, "cholesterol_100g", gramsToMilligrams)
	p.PotassiumMg = per100g(nutriments, "potassium_100g", gramsToMilligrams)

	vitamins := domain.Vitamins{
		AUg:      per100g(nutriments, "vitamin-a_100g", gramsToMicrograms),
		CMg:      per100g(nutriments, "vitamin-c_100g", gramsToMilligrams),
		DUg:      per100g(nutriments, "vitamin-d_100g", gramsToMicrograms),
		EMg:      per100g(nutriments, "vitamin-e_100g", gramsToMilligrams),
		KUg:      per100g(nutriments, "vitamin-k_100g", gramsToMicrograms),
		B1Mg:     per100g(nutriments, "vitamin-b1_100g", gramsToMilligrams),
		B2Mg:     per100g(nutriments, "vitamin-b2_100g", gramsToMilligrams),
		B3Mg:     per100g(nutriments, "vitamin-pp_100g", gramsToMilligrams),
		B6Mg:     per100g(nutriments, "vitamin-b6_100g", gramsToMilligrams),
		B12Ug:    per100g(nutriments, "vitamin-b12_100g", gramsToMicrograms),
		FolateUg: per100g(nutriments, "folates_100g", gramsToMicrograms),
	}
	if vitamins != (domain.Vitamins{}) {
		p.Vitamins = &vitamins
	}

	minerals := domain.Minerals{
		CalciumMg:    per100g(nutriments, "calcium_100g", gramsToMilligrams),
		IronMg:       per100g(nutriments, "iron_100g", gramsToMilligrams),
		MagnesiumMg:  per100g(nutriments, "magnesium_100g", gramsToMilligrams),
		ZincMg:       per100g(nutriments, "zinc_100g", gramsToMilligrams),
		PhosphorusMg: per100g(nutriments, "phosphorus_100g", gramsToMilligrams),
		SeleniumUg:   per100g(nutriments, "selenium_100g", gramsToMicrograms),
	}
	if minerals != (domain.Minerals{}) {
		p.Minerals = &minerals
	}

	return p
}

// per100g extracts a nutriment value and applies a unit factor. Returns nil
// when the key is missing or the value is not a usable number.
func per100g(nutriments map[string]interface{}, key string, factor float64) *float64 {
	v, ok := extractFloat(nutriments, key)
	if !ok {
		return nil
	}
	scaled := v * factor
	return &scaled
}

// extractFloat coerces a nutriments map value to float64. The provider
// sometimes emits numbers as strings.
func extractFloat(m map[string]interface{}, key string) (float64, bool) {
	v, ok := m[key]
	if !ok {
		return 0, false
	}
	switch x := v.(type) {
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return 0, false
		}
		return x, true
	case string:
		if f, err := strconv.ParseFloat(x, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
			return f, true
		}
	}
	return 0, false
}
