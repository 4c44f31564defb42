package domain

// FoodEntry is one line item of a nutrition plan, and also the shape of a
// food catalog item.
type FoodEntry struct {
	Name      string `bson:"name" json:"name" yaml:"name"`
	Protein   Macro  `bson:"protein" json:"protein" yaml:"protein"`
	Carbs     Macro  `bson:"carbs" json:"carbs" yaml:"carbs"`
	Fats      Macro  `bson:"fats" json:"fats" yaml:"fats"`
	Calories  Macro  `bson:"calories" json:"calories" yaml:"calories"`
	Category  string `bson:"category,omitempty" json:"category,omitempty" yaml:"category"`
	MacroType string `bson:"macroType,omitempty" json:"macroType,omitempty" yaml:"macroType"`
}

func (f FoodEntry) DisplayName() string  { return f.Name }
func (f FoodEntry) CategoryName() string { return f.Category }

// NutritionPlan is the trainer-edited nutrition plan of one client.
// Foods may contain duplicates; line items are addressed by position.
type NutritionPlan struct {
	ProteinGoal float64     `json:"proteinGoal"`
	CalorieGoal float64     `json:"calorieGoal"`
	Foods       []FoodEntry `json:"foods"`
	Day         DayKey      `json:"day"`
}

// NutritionTotals is the elementwise macro sum over a plan's foods.
type NutritionTotals struct {
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fats     float64 `json:"fats"`
	Calories float64 `json:"calories"`
}

// SumFoods totals the macros of foods. Duplicates count once per line item.
func SumFoods(foods []FoodEntry) NutritionTotals {
	var t NutritionTotals
	for _, f := range foods {
		t.Protein += float64(f.Protein)
		t.Carbs += float64(f.Carbs)
		t.Fats += float64(f.Fats)
		t.Calories += float64(f.Calories)
	}
	return t
}
