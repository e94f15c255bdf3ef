package allergen

// Keyword sets used by the chat topic gate. Entries are lower-case and matched
// as substrings.
var (
	AllergyKeywords = []string{
		"allergy", "allergies", "ingredient", "ingredients",
		"peanut", "milk", "soy", "egg", "fish", "gluten", "wheat",
		"shellfish", "tree nuts", "dairy", "product contains", "contain",
		"cross contact", "gluten free", "lactose", "nut free",
	}

	SymptomKeywords = []string{
		"symptom", "symptoms", "reaction", "anaphylaxis", "rash", "hives",
		"swelling", "itching", "difficulty breathing", "vomiting", "diarrhea",
		"dizziness", "nausea",
	}

	GreetingPhrases = []string{
		"hi", "hello", "hey", "greetings", "good morning", "good evening",
	}
)
