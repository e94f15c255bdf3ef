package domain

import (
	"context"
	"errors"
	"strings"

	"github.com/tair/allergy-scan/internal/allergen"
)

var (
	// ErrNotFound means the upstream database has no record for the barcode
	ErrNotFound = errors.New("product not found")
	// ErrTransient covers transport, HTTP status and decode failures
	ErrTransient = errors.New("product lookup failed")
	// ErrInvalidBarcode is returned for a blank barcode
	ErrInvalidBarcode = errors.New("barcode is required")
)

// Nutriments are per-100g values; nil means the upstream did not report one
type Nutriments struct {
	Energy        *float64 `json:"energy,omitempty"`
	Proteins      *float64 `json:"proteins,omitempty"`
	Fat           *float64 `json:"fat,omitempty"`
	Carbohydrates *float64 `json:"carbohydrates,omitempty"`
}

// ProductRecord is the normalized product data used by the scanner
type ProductRecord struct {
	Barcode                  string     `json:"barcode"`
	Name                     string     `json:"name"`
	Brand                    string     `json:"brand,omitempty"`
	ImageURL                 string     `json:"image_url,omitempty"`
	IngredientsText          string     `json:"ingredients_text,omitempty"`
	IngredientsTextEn        string     `json:"ingredients_text_en,omitempty"`
	AllergensText            string     `json:"allergens,omitempty"`
	AllergensFromIngredients string     `json:"allergens_from_ingredients,omitempty"`
	AllergensHierarchy       []string   `json:"allergens_hierarchy,omitempty"`
	Nutriments               Nutriments `json:"nutriments"`
	NutriScoreGrade          string     `json:"nutriscore_grade,omitempty"`
}

// MatchText is the text the allergen matcher scans
func (p *ProductRecord) MatchText() string {
	return allergen.IngredientText(
		p.IngredientsText,
		p.AllergensText,
		p.AllergensFromIngredients,
		strings.Join(p.AllergensHierarchy, " "),
	)
}

// DisplayIngredients prefers the English ingredient list
func (p *ProductRecord) DisplayIngredients() string {
	if p.IngredientsTextEn != "" {
		return p.IngredientsTextEn
	}
	return p.IngredientsText
}

// Fetcher performs a single lookup against the product database. It returns
// ErrNotFound when the database has no record and an error wrapping
// ErrTransient for anything retryable.
type Fetcher interface {
	Fetch(ctx context.Context, barcode string) (*ProductRecord, error)
}

// Outcome is the terminal state of a lookup after retries
type Outcome string

const (
	OutcomeFound    Outcome = "found"
	OutcomeNotFound Outcome = "not_found"
	OutcomeError    Outcome = "error"
)

// User-facing messages for failed lookups
const (
	MessageNotFound = "Product not found after multiple attempts"
	MessageError    = "Error loading product. Please try again."
)

// LookupResult is what a lookup surfaces once its attempts are exhausted
type LookupResult struct {
	Barcode  string         `json:"barcode"`
	Outcome  Outcome        `json:"outcome"`
	Record   *ProductRecord `json:"product,omitempty"`
	Attempts int            `json:"attempts"`
	Err      error          `json:"-"`
}

// Message returns the text shown for a failed lookup
func (r LookupResult) Message() string {
	switch r.Outcome {
	case OutcomeNotFound:
		return MessageNotFound
	case OutcomeError:
		return MessageError
	default:
		return ""
	}
}

// AnnotatedProduct is a found product with the user's allergens it contains
type AnnotatedProduct struct {
	Product           *ProductRecord `json:"product"`
	DetectedAllergens []string       `json:"detected_allergens"`
	Ingredients       string         `json:"ingredients,omitempty"`
	Safe              bool           `json:"safe"`
}

// ScanResult is a lookup outcome plus, when found, the matcher's verdict
type ScanResult struct {
	Barcode   string            `json:"barcode"`
	Outcome   Outcome           `json:"outcome"`
	Attempts  int               `json:"attempts"`
	Annotated *AnnotatedProduct `json:"annotated,omitempty"`
	Message   string            `json:"message,omitempty"`
}
