package usda

import (
	"github.com/nutrilog/backend/internal/domain"
)

// Nutrient numbers from the FoodData Central nutrient dictionary. Amounts
// for these codes already arrive in the canonical unit, so mapping is a
// straight carry-through; unknown codes are ignored.
const (
	NutrientEnergy       = 1008 // kcal
	NutrientProtein      = 1003 // g
	NutrientTotalFat     = 1004 // g
	NutrientCarbohydrate = 1005 // g
	NutrientFiber        = 1079 // g
	NutrientSugar        = 2000 // g
	NutrientSodium       = 1093 // mg
	NutrientSaturatedFat = 1258 // g
	NutrientCholesterol  = 1253 // mg
	NutrientPotassium    = 1092 // mg

	NutrientVitaminA   = 1106 // µg
	NutrientVitaminC   = 1162 // mg
	NutrientVitaminD   = 1114 // µg
	NutrientVitaminE   = 1109 // mg
	NutrientVitaminK   = 1185 // µg
	NutrientVitaminB1  = 1165 // mg
	NutrientVitaminB2  = 1166 // mg
	NutrientVitaminB3  = 1167 // mg
	NutrientVitaminB6  = 1175 // mg
	NutrientVitaminB12 = 1178 // µg
	NutrientFolate     = 1177 // µg

	NutrientCalcium    = 1087 // mg
	NutrientIron       = 1089 // mg
	NutrientMagnesium  = 1090 // mg
	NutrientZinc       = 1095 // mg
	NutrientPhosphorus = 1091 // mg
	NutrientSelenium   = 1103 // µg
)

// NutrientAmount is one (nutrient number, amount) pair from a food detail
// response.
type NutrientAmount struct {
	Number int
	Amount float64
}

// MapNutrients converts a flat USDA nutrient list into the canonical per-100g
// profile. Never fails; nutrients absent from the input stay nil.
func MapNutrients(nutrients []NutrientAmount) domain.NutritionProfile {
	var p domain.NutritionProfile

	for _, n := range nutrients {
		amount := n.Amount
		switch n.Number {
		case NutrientEnergy:
			p.Calories = &amount
		case NutrientProtein:
			p.ProteinG = &amount
		case NutrientTotalFat:
			p.FatG = &amount
		case NutrientCarbohydrate:
			p.CarbsG = &amount
		case NutrientFiber:
			p.FiberG = &amount
		case NutrientSugar:
			p.SugarG = &amount
		case NutrientSodium:
			p.SodiumMg = &amount
		case NutrientSaturatedFat:
			p.SaturatedFatG = &amount
		case NutrientCholesterol:
			p.CholesterolMg = &amount
		case NutrientPotassium:
			p.PotassiumMg = &amount

		case NutrientVitaminA:
			vitamins(&p).AUg = &amount
		case NutrientVitaminC:
			vitamins(&p).CMg = &amount
		case NutrientVitaminD:
			vitamins(&p).DUg = &amount
		case NutrientVitaminE:
			vitamins(&p).EMg = &amount
		case NutrientVitaminK:
			vitamins(&p).KUg = &amount
		case NutrientVitaminB1:
			vitamins(&p).B1Mg = &amount
		case NutrientVitaminB2:
			vitamins(&p).B2Mg = &amount
		case NutrientVitaminB3:
			vitamins(&p).B3Mg = &amount
		case NutrientVitaminB6:
			vitamins(&p).B6Mg = &amount
		case NutrientVitaminB12:
			vitamins(&p).B12Ug = &amount
		case NutrientFolate:
			vitamins(&p).FolateUg = &amount

		case NutrientCalcium:
			minerals(&p).CalciumMg = &amount
		case NutrientIron:
			minerals(&p).IronMg = &amount
		case NutrientMagnesium:
			minerals(&p).MagnesiumMg = &amount
		case NutrientZinc:
			minerals(&p).ZincMg = &amount
		case NutrientPhosphorus:
			minerals(&p).PhosphorusMg = &amount
		case NutrientSelenium:
			minerals(&p).SeleniumUg = &amount
		}
	}

	return p
}

func vitamins(p *domain.NutritionProfile) *domain.Vitamins {
	if p.Vitamins == nil {
		p.Vitamins = &domain.Vitamins{}
	}
	return p.Vitamins
}

func minerals(p *domain.NutritionProfile) *domain.Minerals {
	if p.Minerals == nil {
		p.Minerals = &domain.Minerals{}
	}
	return p.Minerals
}
