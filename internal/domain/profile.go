package domain

// NutritionProfile is the canonical nutrient schema, expressed per 100 grams.
// Every field is a pointer: nil means the source did not report the nutrient,
// which is different from reporting zero. Units are fixed by the field name
// (kcal, g, mg, µg); provider mappers are the only place unit conversion
// happens.
type NutritionProfile struct {
	Calories      *float64 `json:"calories,omitempty"`
	ProteinG      *float64 `json:"protein_g,omitempty"`
	FatG          *float64 `json:"fat_g,omitempty"`
	CarbsG        *float64 `json:"carbs_g,omitempty"`
	FiberG        *float64 `json:"fiber_g,omitempty"`
	SugarG        *float64 `json:"sugar_g,omitempty"`
	SodiumMg      *float64 `json:"sodium_mg,omitempty"`
	SaturatedFatG *float64 `json:"saturated_fat_g,omitempty"`
	CholesterolMg *float64 `json:"cholesterol_mg,omitempty"`
	PotassiumMg   *float64 `json:"potassium_mg,omitempty"`

	Vitamins *Vitamins `json:"vitamins,omitempty"`
	Minerals *Minerals `json:"minerals,omitempty"`
}

// Vitamins holds the canonical vitamin breakdown per 100 grams.
type Vitamins struct {
	AUg      *float64 `json:"a_ug,omitempty"`
	CMg      *float64 `json:"c_mg,omitempty"`
	DUg      *float64 `json:"d_ug,omitempty"`
	EMg      *float64 `json:"e_mg,omitempty"`
	KUg      *float64 `json:"k_ug,omitempty"`
	B1Mg     *float64 `json:"b1_mg,omitempty"`
	B2Mg     *float64 `json:"b2_mg,omitempty"`
	B3Mg     *float64 `json:"b3_mg,omitempty"`
	B6Mg     *float64 `json:"b6_mg,omitempty"`
	B12Ug    *float64 `json:"b12_ug,omitempty"`
	FolateUg *float64 `json:"folate_ug,omitempty"`
}

// Minerals holds the canonical mineral breakdown per 100 grams.
type Minerals struct {
	CalciumMg    *float64 `json:"calcium_mg,omitempty"`
	IronMg       *float64 `json:"iron_mg,omitempty"`
	MagnesiumMg  *float64 `json:"magnesium_mg,omitempty"`
	ZincMg       *float64 `json:"zinc_mg,omitempty"`
	PhosphorusMg *float64 `json:"phosphorus_mg,omitempty"`
	SeleniumUg   *float64 `json:"selenium_ug,omitempty"`
}

// NutritionSnapshot is a profile scaled to an actual consumed portion,
// attached immutably to one food log entry. Only the ten macro-level fields
// are scaled; micronutrients are not carried into snapshots.
type NutritionSnapshot struct {
	Calories      *float64 `json:"calories,omitempty"`
	ProteinG      *float64 `json:"protein_g,omitempty"`
	FatG          *float64 `json:"fat_g,omitempty"`
	CarbsG        *float64 `json:"carbs_g,omitempty"`
	FiberG        *float64 `json:"fiber_g,omitempty"`
	SugarG        *float64 `json:"sugar_g,omitempty"`
	SodiumMg      *float64 `json:"sodium_mg,omitempty"`
	SaturatedFatG *float64 `json:"saturated_fat_g,omitempty"`
	CholesterolMg *float64 `json:"cholesterol_mg,omitempty"`
	PotassiumMg   *float64 `json:"potassium_mg,omitempty"`
}

// Float returns a pointer to v. Convenience for building profiles.
func Float(v float64) *float64 {
	return &v
}
