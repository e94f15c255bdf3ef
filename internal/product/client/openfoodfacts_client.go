package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/tair/allergy-scan/internal/product/domain"
	"github.com/tair/allergy-scan/pkg/logger"
	"github.com/tair/allergy-scan/pkg/metrics"
)

const maxBodyBytes = 4 << 20

// OpenFoodFactsClient fetches products from the Open Food Facts v0 API
type OpenFoodFactsClient struct {
	baseURL string
	timeout time.Duration
	http    *http.Client
}

// NewOpenFoodFactsClient creates a client for baseURL. Every request is bounded by timeout.
func NewOpenFoodFactsClient(baseURL string, timeout time.Duration) *OpenFoodFactsClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &OpenFoodFactsClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		http: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport,
				otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
					return "openfoodfacts " + r.Method
				}),
			),
		},
	}
}

// offResponse is the v0 product envelope
type offResponse struct {
	Status  int         `json:"status"`
	Product *offProduct `json:"product"`
}

type offProduct struct {
	ProductName              string        `json:"product_name"`
	ImageURL                 string        `json:"image_url"`
	Brands                   string        `json:"brands"`
	IngredientsText          string        `json:"ingredients_text"`
	IngredientsTextEn        string        `json:"ingredients_text_en"`
	Allergens                string        `json:"allergens"`
	AllergensFromIngredients string        `json:"allergens_from_ingredients"`
	AllergensHierarchy       []string      `json:"allergens_hierarchy"`
	Nutriments               offNutriments `json:"nutriments"`
	NutriScoreGrade          string        `json:"nutriscore_grade"`
}

type offNutriments struct {
	Energy        flexFloat `json:"energy"`
	Proteins      flexFloat `json:"proteins"`
	Fat           flexFloat `json:"fat"`
	Carbohydrates flexFloat `json:"carbohydrates"`
}

// flexFloat accepts numbers and numeric strings; anything else decodes as absent
type flexFloat struct {
	v *float64
}

func (f *flexFloat) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		return nil
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		f.v = &v
	}
	return nil
}

// Fetch performs a single lookup
func (c *OpenFoodFactsClient) Fetch(ctx context.Context, barcode string) (*domain.ProductRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	endpoint := fmt.Sprintf("%s/api/v0/product/%s.json", c.baseURL, url.PathEscape(barcode))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", domain.ErrTransient, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "allergyscan/1.0")

	resp, err := c.http.Do(req)
	if err != nil {
		metrics.LookupAttempts.WithLabelValues("transient").Inc()
		return nil, fmt.Errorf("%w: %v", domain.ErrTransient, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		metrics.LookupAttempts.WithLabelValues("not_found").Inc()
		return nil, domain.ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		metrics.LookupAttempts.WithLabelValues("transient").Inc()
		return nil, fmt.Errorf("%w: unexpected status %d", domain.ErrTransient, resp.StatusCode)
	}

	var body offResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&body); err != nil {
		metrics.LookupAttempts.WithLabelValues("transient").Inc()
		return nil, fmt.Errorf("%w: decode response: %v", domain.ErrTransient, err)
	}

	if body.Status != 1 || body.Product == nil {
		metrics.LookupAttempts.WithLabelValues("not_found").Inc()
		logger.Debug(ctx).Str("barcode", barcode).Int("status", body.Status).Msg("Product not in database")
		return nil, domain.ErrNotFound
	}

	metrics.LookupAttempts.WithLabelValues("found").Inc()
	return normalize(barcode, body.Product), nil
}

func normalize(barcode string, p *offProduct) *domain.ProductRecord {
	return &domain.ProductRecord{
		Barcode:                  barcode,
		Name:                     p.ProductName,
		Brand:                    p.Brands,
		ImageURL:                 p.ImageURL,
		IngredientsText:          p.IngredientsText,
		IngredientsTextEn:        p.IngredientsTextEn,
		AllergensText:            p.Allergens,
		AllergensFromIngredients: p.AllergensFromIngredients,
		AllergensHierarchy:       p.AllergensHierarchy,
		Nutriments: domain.Nutriments{
			Energy:        p.Nutriments.Energy.v,
			Proteins:      p.Nutriments.Proteins.v,
			Fat:           p.Nutriments.Fat.v,
			Carbohydrates: p.Nutriments.Carbohydrates.v,
		},
		NutriScoreGrade: p.NutriScoreGrade,
	}
}

// Ping checks that the API host answers at all
func (c *OpenFoodFactsClient) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.baseURL+"/", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	if resp.StatusCode >= 500 {
		return fmt.Errorf("product API returned %d", resp.StatusCode)
	}
	return nil
}
