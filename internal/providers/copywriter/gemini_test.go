package copywriter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/Krosebrook/AIGenerateToStorefront/internal/domain"
)

func textResponse(text string) geminiResponse {
	var resp geminiResponse
	resp.Candidates = append(resp.Candidates, struct {
		Content geminiContent `json:"content"`
	}{Content: geminiContent{Parts: []geminiPart{{Text: text}}}})
	return resp
}

func newTestWriter(t *testing.T, handler http.HandlerFunc) (*GeminiWriter, *httptest.Server) {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	writer, err := NewGeminiWriter(GeminiOptions{APIKey: "test-key", BaseURL: ts.URL})
	if err != nil {
		t.Fatalf("NewGeminiWriter: %v", err)
	}
	return writer, ts
}

func TestProductDetailsRequestsJSONAndDecodes(t *testing.T) {
	var captured geminiRequest
	writer, _ := newTestWriter(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("x-goog-api-key"); got != "test-key" {
			t.Fatalf("unexpected api key header: %s", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(textResponse(`{"title":"Cosmic Owl Tee","description":"Soft cotton tee.","socialMediaCaption":"New drop!","adCopy":["Buy now"],"hashtags":["#owl","owl","#space"]}`))
	})

	details, err := writer.ProductDetails(context.Background(), "Cosmic Owl T-Shirt")
	if err != nil {
		t.Fatalf("ProductDetails error: %v", err)
	}
	if details.Title != "Cosmic Owl Tee" || details.SocialMediaCaption != "New drop!" {
		t.Fatalf("unexpected details: %+v", details)
	}
	if !reflect.DeepEqual(details.Hashtags, []string{"owl", "space"}) {
		t.Fatalf("hashtags not deduped: %v", details.Hashtags)
	}
	if captured.GenerationConfig == nil || captured.GenerationConfig.ResponseMimeType != "application/json" {
		t.Fatalf("json response not requested: %+v", captured.GenerationConfig)
	}
	if !strings.Contains(captured.Contents[0].Parts[0].Text, "Cosmic Owl T-Shirt") {
		t.Fatalf("product name missing from prompt: %s", captured.Contents[0].Parts[0].Text)
	}
}

func TestProductDetailsBackfillsEmptyFields(t *testing.T) {
	writer, _ := newTestWriter(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(textResponse("```json\n{\"adCopy\":[\" \"]}\n```"))
	})

	details, err := writer.ProductDetails(context.Background(), "retro synthwave poster")
	if err != nil {
		t.Fatalf("ProductDetails error: %v", err)
	}
	if details.Title != "Retro Synthwave Poster Design" {
		t.Fatalf("fallback title = %q", details.Title)
	}
	if details.Description == "" {
		t.Fatal("fallback description missing")
	}
	if len(details.AdCopy) != 0 {
		t.Fatalf("blank ad copy kept: %v", details.AdCopy)
	}
}

func TestSuggestProductsSendsImage(t *testing.T) {
	var captured geminiRequest
	writer, _ := newTestWriter(t, func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(textResponse(`{"products":["T-Shirt"," Mug ",""]}`))
	})

	image := domain.SourceImage{Data: []byte("design"), MIMEType: "image/png"}
	products, err := writer.SuggestProducts(context.Background(), image)
	if err != nil {
		t.Fatalf("SuggestProducts error: %v", err)
	}
	if !reflect.DeepEqual(products, []string{"T-Shirt", "Mug"}) {
		t.Fatalf("unexpected products: %v", products)
	}
	parts := captured.Contents[0].Parts
	if len(parts) != 2 || parts[0].InlineData == nil || parts[0].InlineData.MIMEType != "image/png" {
		t.Fatalf("image part missing: %+v", parts)
	}
}

func TestSuggestProductsRejectsMissingImage(t *testing.T) {
	writer, err := NewGeminiWriter(GeminiOptions{APIKey: "k"})
	if err != nil {
		t.Fatalf("NewGeminiWriter: %v", err)
	}
	if _, err := writer.SuggestProducts(context.Background(), domain.SourceImage{}); err != domain.ErrMissingImage {
		t.Fatalf("expected ErrMissingImage, got %v", err)
	}
}

func TestPlanProductForwardsHints(t *testing.T) {
	var captured geminiRequest
	writer, _ := newTestWriter(t, func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(textResponse(`{"imagePrompt":"A glowing owl in a nebula","details":{"title":"Nebula Owl"}}`))
	})

	plan, err := writer.PlanProduct(context.Background(), "space owl shirt", PlanHints{
		NegativePrompt: "text, watermarks",
		AspectRatio:    "16:9",
		Variations:     3,
	})
	if err != nil {
		t.Fatalf("PlanProduct error: %v", err)
	}
	if plan.ImagePrompt != "A glowing owl in a nebula" || plan.Details.Title != "Nebula Owl" {
		t.Fatalf("unexpected plan: %+v", plan)
	}
	prompt := captured.Contents[0].Parts[0].Text
	for _, want := range []string{"space owl shirt", "text, watermarks", "16:9", "3 variations"} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q: %s", want, prompt)
		}
	}
}

func TestPlanProductWithoutPromptIsNoPlan(t *testing.T) {
	writer, _ := newTestWriter(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(textResponse(`{"imagePrompt":"  ","details":{}}`))
	})

	if _, err := writer.PlanProduct(context.Background(), "idea", PlanHints{}); err != domain.ErrNoPlan {
		t.Fatalf("expected ErrNoPlan, got %v", err)
	}
}

func TestPlanProductSurfacesAPIError(t *testing.T) {
	writer, _ := newTestWriter(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"code":429,"message":"quota exhausted"}}`))
	})

	_, err := writer.PlanProduct(context.Background(), "idea", PlanHints{})
	if err == nil || !strings.Contains(err.Error(), "quota exhausted") {
		t.Fatalf("expected API error message, got %v", err)
	}
}

func TestExtractJSONFragment(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `{"a":1}`, `{"a":1}`},
		{"fenced", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"prose", `Sure, here you go: {"a":1} hope that helps`, `{"a":1}`},
		{"array", "```\n[1,2]\n```", `[1,2]`},
		{"empty", "   ", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ExtractJSONFragment(tc.in); got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}
