package usecase

import (
	"math"

	"github.com/nutrilog/backend/internal/domain"
)

// ScalePortion scales a canonical per-100g profile to an actual consumed
// portion. Only the ten macro-level fields are scaled; vitamins and minerals
// are not carried into snapshots. Calories round to an integer, everything
// else to one decimal. Nil fields stay nil. Pure: the same profile and
// portion always produce the same snapshot.
func ScalePortion(profile domain.NutritionProfile, portionG float64) domain.NutritionSnapshot {
	factor := portionG / 100

	return domain.NutritionSnapshot{
		Calories:      scaleWhole(profile.Calories, factor),
		ProteinG:      scaleTenth(profile.ProteinG, factor),
		FatG:          scaleTenth(profile.FatG, factor),
		CarbsG:        scaleTenth(profile.CarbsG, factor),
		FiberG:        scaleTenth(profile.FiberG, factor),
		SugarG:        scaleTenth(profile.SugarG, factor),
		SodiumMg:      scaleTenth(profile.SodiumMg, factor),
		SaturatedFatG: scaleTenth(profile.SaturatedFatG, factor),
		CholesterolMg: scaleTenth(profile.CholesterolMg, factor),
		PotassiumMg:   scaleTenth(profile.PotassiumMg, factor),
	}
}

// BuildSnapshot validates the portion and scales the profile. Scaling always
// starts from the 100g basis, never from an already-scaled snapshot.
func BuildSnapshot(profile domain.NutritionProfile, portionG float64) (domain.NutritionSnapshot, error) {
	if portionG < 0 || math.IsNaN(portionG) || math.IsInf(portionG, 0) {
		return domain.NutritionSnapshot{}, domain.ErrInvalidPortion
	}
	return ScalePortion(profile, portionG), nil
}

func scaleWhole(v *float64, factor float64) *float64 {
	if v == nil {
		return nil
	}
	scaled := math.Round(*v * factor)
	return &scaled
}

func scaleTenth(v *float64, factor float64) *float64 {
	if v == nil {
		return nil
	}
	scaled := math.Round(*v*factor*10) / 10
	return &scaled
}
