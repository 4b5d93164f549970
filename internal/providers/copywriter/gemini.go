package copywriter

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Krosebrook/AIGenerateToStorefront/internal/domain"
)

// GeminiOptions configures the Gemini-backed Writer.
type GeminiOptions struct {
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client
	Logger     zerolog.Logger
}

// GeminiWriter calls the Gemini generateContent endpoint with JSON-only
// response constraints.
type GeminiWriter struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
	logger  zerolog.Logger
}

const geminiDefaultTimeout = 15 * time.Second

type geminiRequest struct {
	Contents         []geminiContent         `json:"contents"`
	GenerationConfig *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inlineData,omitempty"`
}

type geminiInlineData struct {
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"`
}

type geminiGenerationConfig struct {
	Temperature      float64 `json:"temperature,omitempty"`
	CandidateCount   int     `json:"candidateCount,omitempty"`
	ResponseMimeType string  `json:"responseMimeType,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

type geminiErrorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

type detailsPayload struct {
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	SocialMediaCaption string   `json:"socialMediaCaption"`
	AdCopy             []string `json:"adCopy"`
	Hashtags           []string `json:"hashtags"`
}

type suggestionsPayload struct {
	Products []string `json:"products"`
}

type planPayload struct {
	ImagePrompt string         `json:"imagePrompt"`
	Details     detailsPayload `json:"details"`
}

// NewGeminiWriter validates the options and returns a ready Writer.
func NewGeminiWriter(opts GeminiOptions) (*GeminiWriter, error) {
	if opts.APIKey == "" {
		return nil, errors.New("gemini api key is required")
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com/v1beta"
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = "gemini-2.5-flash"
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: geminiDefaultTimeout}
	}
	return &GeminiWriter{
		apiKey:  opts.APIKey,
		model:   model,
		baseURL: baseURL,
		client:  client,
		logger:  opts.Logger,
	}, nil
}

// ProductDetails generates the full marketing copy package for a named
// product. Missing fields are backfilled so the caller always receives
// publishable copy.
func (g *GeminiWriter) ProductDetails(ctx context.Context, productName string) (*domain.ProductDetails, error) {
	productName = strings.TrimSpace(productName)
	if productName == "" {
		return nil, domain.ErrInvalidInput
	}
	payload := geminiRequest{
		Contents: []geminiContent{{
			Role:  "user",
			Parts: []geminiPart{{Text: buildDetailsPrompt(productName)}},
		}},
		GenerationConfig: &geminiGenerationConfig{
			Temperature:      0.5,
			CandidateCount:   1,
			ResponseMimeType: "application/json",
		},
	}
	parsed, err := invokeJSON[detailsPayload](ctx, g, payload)
	if err != nil {
		return nil, err
	}
	details := normalizeDetails(domain.ProductDetails{
		Title:              parsed.Title,
		Description:        parsed.Description,
		SocialMediaCaption: parsed.SocialMediaCaption,
		AdCopy:             parsed.AdCopy,
		Hashtags:           parsed.Hashtags,
	}, productName)
	return &details, nil
}

// SuggestProducts inspects a generated design and returns merch product
// names the design would suit.
func (g *GeminiWriter) SuggestProducts(ctx context.Context, image domain.SourceImage) ([]string, error) {
	if len(image.Data) == 0 {
		return nil, domain.ErrMissingImage
	}
	payload := geminiRequest{
		Contents: []geminiContent{{
			Role: "user",
			Parts: []geminiPart{
				{InlineData: &geminiInlineData{
					MIMEType: image.MIMEType,
					Data:     base64.StdEncoding.EncodeToString(image.Data),
				}},
				{Text: buildSuggestionsPrompt()},
			},
		}},
		GenerationConfig: &geminiGenerationConfig{
			Temperature:      0.6,
			CandidateCount:   1,
			ResponseMimeType: "application/json",
		},
	}
	parsed, err := invokeJSON[suggestionsPayload](ctx, g, payload)
	if err != nil {
		return nil, err
	}
	var products []string
	for _, name := range parsed.Products {
		if name = strings.TrimSpace(name); name != "" {
			products = append(products, name)
		}
	}
	if len(products) == 0 {
		return nil, domain.ErrGenerationFailed
	}
	return products, nil
}

// PlanProduct turns a raw product idea into an image prompt plus marketing
// copy in a single call. Failures propagate to the caller so the
// orchestrated flow can abort before rendering anything.
func (g *GeminiWriter) PlanProduct(ctx context.Context, idea string, hints PlanHints) (*domain.ProductPlan, error) {
	idea = strings.TrimSpace(idea)
	if idea == "" {
		return nil, domain.ErrEmptyPrompt
	}
	payload := geminiRequest{
		Contents: []geminiContent{{
			Role:  "user",
			Parts: []geminiPart{{Text: buildPlanPrompt(idea, hints)}},
		}},
		GenerationConfig: &geminiGenerationConfig{
			Temperature:      0.7,
			CandidateCount:   1,
			ResponseMimeType: "application/json",
		},
	}
	parsed, err := invokeJSON[planPayload](ctx, g, payload)
	if err != nil {
		return nil, err
	}
	prompt := strings.TrimSpace(parsed.ImagePrompt)
	if prompt == "" {
		return nil, domain.ErrNoPlan
	}
	details := normalizeDetails(domain.ProductDetails{
		Title:              parsed.Details.Title,
		Description:        parsed.Details.Description,
		SocialMediaCaption: parsed.Details.SocialMediaCaption,
		AdCopy:             parsed.Details.AdCopy,
		Hashtags:           parsed.Details.Hashtags,
	}, idea)
	return &domain.ProductPlan{ImagePrompt: prompt, Details: details}, nil
}

func invokeJSON[T any](ctx context.Context, g *GeminiWriter, payload geminiRequest) (T, error) {
	var zero T
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		return zero, fmt.Errorf("encode request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint(), &buf)
	if err != nil {
		return zero, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", g.apiKey)
	resp, err := g.client.Do(httpReq)
	if err != nil {
		return zero, fmt.Errorf("call gemini: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 300 {
		var apiErr geminiErrorResponse
		if decodeErr := json.NewDecoder(resp.Body).Decode(&apiErr); decodeErr == nil && apiErr.Error.Message != "" {
			return zero, fmt.Errorf("gemini %d: %s", resp.StatusCode, apiErr.Error.Message)
		}
		return zero, fmt.Errorf("gemini returned status %d", resp.StatusCode)
	}
	var out geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return zero, fmt.Errorf("decode response: %w", err)
	}
	text := extractText(out)
	if text == "" {
		return zero, domain.ErrGenerationFailed
	}
	parsed, err := parsePayload[T](text)
	if err != nil {
		g.logger.Debug().Err(err).Msg("copywriter: unparseable payload")
		return zero, fmt.Errorf("parse payload: %w", err)
	}
	return parsed, nil
}

func (g *GeminiWriter) endpoint() string {
	base := strings.TrimRight(g.baseURL, "/")
	model := url.PathEscape(g.model)
	return fmt.Sprintf("%s/models/%s:generateContent", base, model)
}

func extractText(resp geminiResponse) string {
	for _, cand := range resp.Candidates {
		for _, part := range cand.Content.Parts {
			if strings.TrimSpace(part.Text) != "" {
				return part.Text
			}
		}
	}
	return ""
}

func buildDetailsPrompt(productName string) string {
	sb := &strings.Builder{}
	sb.WriteString("You are an e-commerce copywriter for a print-on-demand brand. Respond strictly with JSON matching this schema: ")
	sb.WriteString(`{"title":string,"description":string,"socialMediaCaption":string,"adCopy":string[],"hashtags":string[]}`)
	fmt.Fprintf(sb, ". Write a catchy listing title, a persuasive description, one social media caption, two short ad copy variants, and up to ten hashtags for a product named %q featuring a unique AI-generated design.", productName)
	return sb.String()
}

func buildSuggestionsPrompt() string {
	sb := &strings.Builder{}
	sb.WriteString("Look at the attached design and suggest which print-on-demand products it would look best on. Respond strictly as JSON: ")
	sb.WriteString(`{"products":string[]}`)
	sb.WriteString(". Choose from common merch such as t-shirts, mugs, posters, hoodies, stickers, phone cases, hats, notebooks, and tote bags. Return between three and six product names ordered by fit.")
	return sb.String()
}

func buildPlanPrompt(idea string, hints PlanHints) string {
	sb := &strings.Builder{}
	sb.WriteString("You are planning a print-on-demand product. Respond strictly with JSON matching this schema: ")
	sb.WriteString(`{"imagePrompt":string,"details":{"title":string,"description":string,"socialMediaCaption":string,"adCopy":string[],"hashtags":string[]}}`)
	fmt.Fprintf(sb, ". The imagePrompt must be a detailed, render-ready description of the artwork for the idea %q.", idea)
	if hints.NegativePrompt != "" {
		fmt.Fprintf(sb, " The artwork must avoid: %s.", hints.NegativePrompt)
	}
	if hints.AspectRatio != "" {
		fmt.Fprintf(sb, " The artwork will be rendered at aspect ratio %s.", hints.AspectRatio)
	}
	if hints.Variations > 1 {
		fmt.Fprintf(sb, " The prompt will render %d variations, so leave room for variety.", hints.Variations)
	}
	sb.WriteString(" The details block is the full marketing copy package for the finished product.")
	return sb.String()
}

var _ Writer = (*GeminiWriter)(nil)
