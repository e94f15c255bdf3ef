package allergen

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrEmptyVocabulary is returned when a file defines no allergens
var ErrEmptyVocabulary = errors.New("vocabulary file defines no allergens")

// LoadCSV reads a vocabulary file with the header "Allergen,Synonyms".
// Synonyms are separated by semicolons.
func LoadCSV(path string) (Vocabulary, error) {
	f, err := os.Open(path)
	if err != nil {
		return Vocabulary{}, fmt.Errorf("failed to open vocabulary: %w", err)
	}
	defer f.Close()

	v, err := ParseCSV(f)
	if err != nil {
		return Vocabulary{}, fmt.Errorf("%s: %w", path, err)
	}
	return v, nil
}

// ParseCSV parses the vocabulary format from r
func ParseCSV(r io.Reader) (Vocabulary, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return Vocabulary{}, fmt.Errorf("failed to parse vocabulary: %w", err)
	}

	var allergens []Allergen
	for i, record := range records {
		if i == 0 && len(record) > 0 && strings.EqualFold(strings.TrimSpace(record[0]), "allergen") {
			continue
		}
		if len(record) == 0 || strings.TrimSpace(record[0]) == "" {
			continue
		}

		a := Allergen{Name: record[0]}
		if len(record) > 1 {
			a.Synonyms = strings.Split(record[1], ";")
		}
		allergens = append(allergens, a)
	}

	v := NewVocabulary(allergens)
	if v.Len() == 0 {
		return Vocabulary{}, ErrEmptyVocabulary
	}
	return v, nil
}
