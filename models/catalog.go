package models

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Choice categories
const (
	CategoryRecycling           = "recycling"
	CategoryPublicTransport     = "public_transport"
	CategoryEnergySaving        = "energy_saving"
	CategoryWaterConservation   = "water_conservation"
	CategorySustainableShopping = "sustainable_shopping"
)

// ChoiceDefinition is a catalog entry for a loggable choice. Fixed at compile
// time, not per-user.
type ChoiceDefinition struct {
	ID       string `json:"id"`
	Text     string `json:"text"`
	Icon     string `json:"icon"`
	Category string `json:"category"`
}

var GoodChoices = []ChoiceDefinition{
	{ID: "recycle", Text: "Recycle paper and plastics", Icon: "ri-recycle-line", Category: CategoryRecycling},
	{ID: "publictransport", Text: "Use public transportation", Icon: "ri-bus-line", Category: CategoryPublicTransport},
	{ID: "lightoff", Text: "Turn off lights when leaving", Icon: "ri-lightbulb-flash-line", Category: CategoryEnergySaving},
	{ID: "reusablebag", Text: "Use reusable shopping bags", Icon: "ri-shopping-bag-line", Category: CategorySustainableShopping},
	{ID: "waterbottle", Text: "Use a reusable water bottle", Icon: "ri-water-flash-line", Category: CategoryWaterConservation},
	{ID: "localfood", Text: "Buy local produce", Icon: "ri-store-2-line", Category: CategorySustainableShopping},
	{ID: "digitalreceipts", Text: "Choose digital receipts", Icon: "ri-file-list-3-line", Category: CategoryRecycling},
	{ID: "walkbike", Text: "Walk or bike for short trips", Icon: "ri-bike-line", Category: CategoryPublicTransport},
	{ID: "shortshower", Text: "Take shorter showers", Icon: "ri-drop-line", Category: CategoryWaterConservation},
	{ID: "compost", Text: "Start composting food scraps", Icon: "ri-plant-fill", Category: CategoryRecycling},
	{ID: "energystar", Text: "Buy energy-efficient appliances", Icon: "ri-star-line", Category: CategoryEnergySaving},
	{ID: "meatless", Text: "Have a meatless meal", Icon: "ri-leaf-line", Category: CategorySustainableShopping},
}

var BadChoices = []ChoiceDefinition{
	{ID: "plasticbag", Text: "Use single-use plastic bags", Icon: "ri-bank-card-line", Category: CategorySustainableShopping},
	{ID: "bottledwater", Text: "Buy disposable water bottles", Icon: "ri-water-flash-line", Category: CategoryWaterConservation},
	{ID: "foodwaste", Text: "Waste food", Icon: "ri-restaurant-line", Category: CategorySustainableShopping},
	{ID: "longshower", Text: "Take extra long showers", Icon: "ri-shower-line", Category: CategoryWaterConservation},
	{ID: "driveshort", Text: "Drive for very short trips", Icon: "ri-car-line", Category: CategoryPublicTransport},
	{ID: "lighton", Text: "Leave lights on unnecessarily", Icon: "ri-lightbulb-line", Category: CategoryEnergySaving},
	{ID: "standby", Text: "Leave electronics on standby", Icon: "ri-tv-line", Category: CategoryEnergySaving},
	{ID: "excesspackaging", Text: "Buy items with excess packaging", Icon: "ri-archive-line", Category: CategoryRecycling},
	{ID: "fastfashion", Text: "Buy fast fashion clothing", Icon: "ri-t-shirt-line", Category: CategorySustainableShopping},
	{ID: "disposables", Text: "Use disposable utensils", Icon: "ri-restaurant-2-line", Category: CategoryRecycling},
}

// FindChoice looks up a catalog entry by id within one polarity. The same id
// never appears in both lists, but polarity is part of the key regardless.
func FindChoice(choiceID string, isGood bool) (ChoiceDefinition, bool) {
	catalog := BadChoices
	if isGood {
		catalog = GoodChoices
	}
	for _, c := range catalog {
		if c.ID == choiceID {
			return c, true
		}
	}
	return ChoiceDefinition{}, false
}

// Plant stages, purely level-driven. Health only affects the visual scale
// factor client-side, never the stage.
const (
	StageSeedling = "seedling"
	StageSprout   = "sprout"
	StageSapling  = "sapling"
	StageTree     = "tree"
	StageAncient  = "ancient"
)

// PlantStageThreshold maps a stage to the minimum level that unlocks it.
type PlantStageThreshold struct {
	Stage    string
	MinLevel int
	Name     string
}

// PlantStages is ordered by ascending MinLevel; the active stage is the last
// entry whose MinLevel <= level.
var PlantStages = []PlantStageThreshold{
	{Stage: StageSeedling, MinLevel: 0, Name: "Seedling"},
	{Stage: StageSprout, MinLevel: 5, Name: "Sprout"},
	{Stage: StageSapling, MinLevel: 10, Name: "Sapling"},
	{Stage: StageTree, MinLevel: 25, Name: "Tree"},
	{Stage: StageAncient, MinLevel: 50, Name: "Ancient Tree"},
}

// StageDisplayName returns the human name for a stage id.
func StageDisplayName(stage string) string {
	for _, s := range PlantStages {
		if s.Stage == stage {
			return s.Name
		}
	}
	return stage
}

var titleCaser = cases.Title(language.English)

// CategoryDisplayName turns a category tag into copy for notifications,
// e.g. "public_transport" -> "Public Transport".
func CategoryDisplayName(category string) string {
	return titleCaser.String(strings.ReplaceAll(category, "_", " "))
}
