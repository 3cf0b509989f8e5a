package agents

import (
	"fmt"
	"strings"

	"caterer/internal/models"
)

const systemPrompt = "You are an experienced Indian catering menu planner. You answer with raw JSON only, never with prose or markdown."

var categoryLabels = map[models.MenuCategory]string{
	models.CategoryStarters:   "Starters",
	models.CategoryMainCourse: "Main Course",
	models.CategoryBreads:     "Breads",
	models.CategoryRice:       "Rice",
	models.CategoryDesserts:   "Desserts",
	models.CategoryBeverages:  "Beverages",
}

// CategoryLabel returns the display name of a category
func CategoryLabel(c models.MenuCategory) string {
	if label, ok := categoryLabels[c]; ok {
		return label
	}
	return string(c)
}

const dietaryRules = `Dietary rules:
- "Veg" means no meat, no egg and no fish or seafood in any dish.
- "Jain" means vegetarian with no onion, no garlic and no root vegetables (potato, carrot, beetroot, radish, ginger).`

// BuildMenuPrompt builds the instruction for a full menu
func BuildMenuPrompt(req models.MenuRequest) string {
	var b strings.Builder
	b.WriteString("Generate a complete catering menu.\n")
	fmt.Fprintf(&b, "Event: %s\n", req.EventType)
	fmt.Fprintf(&b, "Cuisine: %s\n", req.Cuisine)
	fmt.Fprintf(&b, "Guests: %d\n", req.GuestCount)
	fmt.Fprintf(&b, "Budget: ₹%s per plate. The full menu must not cost more than ₹%s per plate.\n", req.BudgetPerPlate, req.BudgetPerPlate)
	fmt.Fprintf(&b, "Dietary preference: %s\n", orNone(req.DietaryPreference))
	fmt.Fprintf(&b, "Special notes: %s\n\n", orNone(req.SpecialRequirements))
	b.WriteString(dietaryRules)
	b.WriteString("\n\nReturn ONLY a raw JSON object with exactly these keys: ")
	keys := make([]string, len(models.MenuCategories))
	for i, c := range models.MenuCategories {
		keys[i] = fmt.Sprintf("%q", c)
	}
	b.WriteString(strings.Join(keys, ", "))
	b.WriteString(".\nEvery value is an array of plain strings (dish names only, no objects or numbers). Do not add markdown formatting.\n")
	b.WriteString(`Example: {"starters": ["item1", "item2"], "main_course": ["item1"], "breads": ["item1"], "rice": ["item1"], "desserts": ["item1"], "beverages": ["item1"]}`)
	return b.String()
}

// BuildSectionPrompt builds the instruction for five fresh items of one category
func BuildSectionPrompt(req RegenerateRequest) string {
	label := CategoryLabel(req.Category)

	var b strings.Builder
	fmt.Fprintf(&b, "Suggest exactly 5 NEW %s dishes for a %s catering menu.\n", label, req.Cuisine)
	fmt.Fprintf(&b, "Event: %s\n", req.EventType)
	fmt.Fprintf(&b, "Budget: ₹%s per plate for the whole menu.\n", req.BudgetPerPlate)
	fmt.Fprintf(&b, "Dietary preference: %s\n\n", orNone(req.DietaryPreference))
	b.WriteString(dietaryRules)
	b.WriteString("\n\n")
	if len(req.CurrentItems) > 0 {
		b.WriteString("These dishes were already shown and must NOT be suggested again:\n")
		for _, item := range req.CurrentItems {
			fmt.Fprintf(&b, "- %s\n", item)
		}
		b.WriteString("\n")
	}
	b.WriteString("Format every dish as \"<name> - ₹<amount>\" where amount is the estimated cost per person.\n")
	b.WriteString(`Return ONLY a raw JSON array of 5 strings, for example ["Paneer Tikka - ₹120", "..."]. Do not add markdown formatting.`)
	return b.String()
}

func orNone(s string) string {
	if strings.TrimSpace(s) == "" {
		return "None"
	}
	return s
}
