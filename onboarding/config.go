// Package onboarding is the diet-planning onboarding questionnaire: three
// phases of pages, the visibility rules between their fields, and the
// welcome-to-completion flow around a conditional stepper.
package onboarding

import (
	"github.com/tbxark/formstepper/conditional"
	"github.com/tbxark/formstepper/phase"
	"github.com/tbxark/formstepper/types"
)

const (
	PhaseContext phase.Name = "context"
	PhaseHealth  phase.Name = "health"
	PhaseGoals   phase.Name = "goals"
)

// Labels referenced by the visibility rules.
const (
	LabelCulturalBackground       = "Cultural Background"
	LabelCustomCulturalBackground = "Custom Cultural Background"
	LabelHasConditions            = "Do you have any medical conditions?"
	LabelMedicationsStatus        = "Medications Status"
	LabelMedicationList           = "List Your Medications"

	AddOwnCulture = "+ Add my own"
)

// ConditionLabels are the specific condition checkboxes shown once the user
// says they have a medical condition.
var ConditionLabels = []string{
	"Insulin Resistance",
	"Hypothyroidism",
	"High Cholesterol",
	"Hidradenitis Suppurativa",
}

func text(label, placeholder string, required bool) types.Field {
	return types.Field{Label: label, Kind: types.KindInput, Placeholder: placeholder, Required: required}
}

func radio(label, def string, required bool, options ...string) types.Field {
	return types.Field{Label: label, Kind: types.KindRadio, DefaultValue: def, Options: options, Required: required}
}

func checkbox(label string) types.Field {
	return types.Field{Label: label, Kind: types.KindCheckbox, DefaultValue: "false"}
}

// Config returns a fresh copy of the onboarding partition.
func Config() phase.Partition {
	return phase.Partition{
		{
			Name:  PhaseContext,
			Label: "Context",
			Pages: []types.Page{
				{
					Title: "Welcome",
					Copy:  "Hey there 👋 I'm here to help you build a diet that actually fits your life, your health, and your taste.",
					Fields: []types.Field{
						radio("Get Started", "start", true, "Sounds good, let's start", "What can you help with?", "Not now"),
					},
				},
				{
					Title: "About You",
					Copy:  "First things first—just a few quick questions about you.",
					Fields: []types.Field{
						text("Age", "e.g. 29", true),
						radio("Sex Assigned at Birth", "", true, "Male", "Female", "Other"),
						text("Height", "e.g. 179cm", true),
						text("Weight", "e.g. 135kg", true),
					},
				},
				{
					Title: "Where Do You Live?",
					Copy:  "Where in the world do you live? This helps me recommend the right ingredients, meals, and shops.",
					Fields: []types.Field{
						text("Country", "e.g. South Africa", true),
						text("City", "e.g. Johannesburg", true),
						text("Area", "e.g. Linden", false),
					},
				},
				{
					Title: "Culture & Food Background",
					Copy:  "Your cultural background can shape what's familiar and comforting. Want to tell me about yours?",
					Fields: []types.Field{
						radio(LabelCulturalBackground, "", false,
							"South Asian / Indian",
							"African / Afro-Caribbean",
							"Mediterranean",
							"Western / European",
							AddOwnCulture,
							"Skip this",
						),
						text(LabelCustomCulturalBackground, "Describe your cultural background", false),
					},
				},
			},
		},
		{
			Name:  PhaseHealth,
			Label: "Health & Habits",
			Pages: []types.Page{
				{
					Title: "Medical Conditions",
					Copy:  "I'll adjust your plan based on this info.",
					Fields: []types.Field{
						checkbox(LabelHasConditions),
						checkbox("Insulin Resistance"),
						checkbox("Hypothyroidism"),
						checkbox("High Cholesterol"),
						checkbox("Hidradenitis Suppurativa"),
						text("Other Conditions", "Add other conditions", false),
					},
				},
				{
					Title: "Medications & Supplements",
					Copy:  "Do you take any medications or supplements?",
					Fields: []types.Field{
						radio(LabelMedicationsStatus, "", true, "Yes", "No", "Prefer not to say"),
						text(LabelMedicationList, "e.g. Metformin, Vitamin D", false),
					},
				},
				{
					Title: "Current Eating Habits",
					Copy:  "What does a usual day of eating look like for you?",
					Fields: []types.Field{
						checkbox("Skip breakfast"),
						checkbox("One big meal a day"),
						checkbox("Frequent takeout or fast food"),
						checkbox("Lots of coffee, little food"),
						checkbox("High sugar or carb cravings"),
						text("Additional Details", "Add more details about your eating habits", false),
					},
				},
				{
					Title: "Food Preferences & Restrictions",
					Copy:  "Let's avoid stuff that doesn't agree with you.",
					Fields: []types.Field{
						checkbox("No gluten or wheat"),
						checkbox("No dairy"),
						checkbox("No sugar"),
						checkbox("No quinoa or grains"),
						{
							Label:   "Dietary Preference",
							Kind:    types.KindSelect,
							Options: []string{"No restrictions", "Vegetarian", "Vegan", "Pescatarian", "Halal", "Kosher"},
						},
						text("Additional Restrictions", "Any other food restrictions", false),
					},
				},
			},
		},
		{
			Name:  PhaseGoals,
			Label: "Goals & Preferences",
			Pages: []types.Page{
				{
					Title: "Your Top Goal",
					Copy:  "What's your top goal right now?",
					Fields: []types.Field{
						radio("Primary Goal", "", true,
							"Lose weight safely",
							"Reduce flare-ups or inflammation",
							"Improve energy or focus",
							"Just eat better overall",
						),
						text("Custom Goal", "Add your own goal", false),
					},
				},
				{
					Title: "Cooking Style & Time",
					Copy:  "How much time do you actually want to spend on food?",
					Fields: []types.Field{
						radio("Cooking Time Preference", "", true,
							"Under 10 mins only",
							"I can do 15–30 mins",
							"I batch cook on Sundays",
							"Microwave only life",
						),
					},
				},
				{
					Title: "Grocery Preferences",
					Copy:  "Where do you usually shop?",
					Fields: []types.Field{
						checkbox("Woolworths"),
						checkbox("Pick n Pay"),
						checkbox("Checkers"),
						checkbox("Food Lover's"),
						checkbox("Online delivery"),
						text("Other Stores", "Other stores you shop at", false),
					},
				},
				{
					Title: "Weekly Grocery Budget",
					Copy:  "What's your weekly grocery budget?",
					Fields: []types.Field{
						radio("Budget Range", "", true,
							"Tight budget (R500–R700)",
							"Moderate (R700–R1200)",
							"Flexible (R1200+)",
							"Not sure",
						),
					},
				},
				{
					Title: "Meal Plan Preferences",
					Copy:  "What do you want in your plan?",
					Fields: []types.Field{
						checkbox("Quick breakfasts"),
						checkbox("Packable lunches"),
						checkbox("Wholesome dinners"),
						checkbox("Snacks"),
						checkbox("Smoothies"),
						checkbox("Soups & broths"),
						checkbox("Anti-inflammatory meals"),
					},
				},
				{
					Title: "Confirmation",
					Copy:  "Thanks! You're all set. I'm building your personalized plan now:\n\n✓ Tailored to your health\n✓ Based on what you like\n✓ Matched to your budget & lifestyle\n✓ With a smart grocery list for your local stores",
					Fields: []types.Field{
						radio("Ready to proceed?", "build", true, "Build My Plan"),
					},
				},
			},
		},
	}
}

// Predicates hides follow-up fields until the answer they depend on is given.
func Predicates() conditional.Predicates {
	hasConditions := func(a types.Answers) bool {
		b, ok := a.Get(LabelHasConditions).AsBool()
		return ok && b
	}
	p := conditional.Predicates{
		LabelCustomCulturalBackground: func(a types.Answers) bool {
			return a.Get(LabelCulturalBackground).String() == AddOwnCulture
		},
		LabelMedicationList: func(a types.Answers) bool {
			return a.Get(LabelMedicationsStatus).String() == "Yes"
		},
	}
	for _, label := range ConditionLabels {
		p[label] = hasConditions
	}
	return p
}

// Sources lists the partition's pages as static sources in flattened order.
func Sources(p phase.Partition) []conditional.Source {
	return conditional.StaticPages(p.Flatten()...)
}
