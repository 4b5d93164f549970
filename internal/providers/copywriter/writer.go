// Package copywriter wraps the structured text-generation calls: marketing
// copy, product suggestions for an uploaded design, and the phase-1 plan of
// the orchestrated product flow. Every call constrains the model to JSON and
// decodes the payload defensively.
package copywriter

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/Krosebrook/AIGenerateToStorefront/internal/domain"
)

// PlanHints are the optional generation hints forwarded into the plan prompt.
type PlanHints struct {
	NegativePrompt string
	AspectRatio    string
	Variations     int
}

// Writer is the copywriting contract used by handlers and the studio
// orchestrator.
type Writer interface {
	ProductDetails(ctx context.Context, productName string) (*domain.ProductDetails, error)
	SuggestProducts(ctx context.Context, image domain.SourceImage) ([]string, error)
	PlanProduct(ctx context.Context, idea string, hints PlanHints) (*domain.ProductPlan, error)
}

// normalizeDetails fills missing marketing fields from the product name and
// trims hashtag noise so the package is always usable by the publish flow.
func normalizeDetails(details domain.ProductDetails, productName string) domain.ProductDetails {
	if strings.TrimSpace(details.Title) == "" {
		details.Title = cases.Title(language.English).String(strings.TrimSpace(productName)) + " Design"
	}
	if strings.TrimSpace(details.Description) == "" {
		details.Description = "A unique AI-generated design, printed on demand."
	}
	details.Hashtags = normalizeTags(details.Hashtags)
	var ads []string
	for _, ad := range details.AdCopy {
		if ad = strings.TrimSpace(ad); ad != "" {
			ads = append(ads, ad)
		}
	}
	details.AdCopy = ads
	return details
}

func normalizeTags(tags []string) []string {
	seen := make(map[string]struct{})
	var result []string
	for _, tag := range tags {
		tag = strings.TrimSpace(strings.TrimPrefix(tag, "#"))
		if tag == "" {
			continue
		}
		key := strings.ToLower(tag)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, tag)
	}
	return result
}

// parsePayload decodes a model response that should be JSON but may arrive
// wrapped in code fences or surrounded by prose.
func parsePayload[T any](raw string) (T, error) {
	var zero T
	cleaned := ExtractJSONFragment(raw)
	if cleaned == "" {
		return zero, errors.New("empty payload")
	}
	var decoded T
	if err := json.Unmarshal([]byte(cleaned), &decoded); err != nil {
		return zero, err
	}
	return decoded, nil
}

// ExtractJSONFragment strips code fences and surrounding prose from a model
// response, returning the innermost JSON object or array.
func ExtractJSONFragment(raw string) string {
	text := strings.TrimSpace(raw)
	if text == "" {
		return ""
	}
	text = trimCodeFence(text)
	start := strings.IndexAny(text, "{[")
	end := strings.LastIndexAny(text, "]}")
	if start >= 0 && end >= start {
		text = text[start : end+1]
	}
	return strings.TrimSpace(text)
}

func trimCodeFence(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```JSON")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSpace(trimmed)
	if idx := strings.LastIndex(trimmed, "```"); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	return strings.TrimSpace(trimmed)
}
