package genai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Krosebrook/AIGenerateToStorefront/internal/dataurl"
	"github.com/Krosebrook/AIGenerateToStorefront/internal/domain"
	"github.com/Krosebrook/AIGenerateToStorefront/internal/infra"
)

// Options controls how the Gemini image client is configured.
type Options struct {
	APIKey     string
	BaseURL    string
	Model      string
	HTTPClient *http.Client
	Logger     *infra.Logger
}

// Client is a facade over the Gemini generateContent endpoint for image
// editing and pure generation. Responses are normalized to data URLs so the
// rest of the pipeline never handles raw payload envelopes.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
	logger     *infra.Logger
}

// EditOptions carries the optional modifiers of an edit call.
type EditOptions struct {
	NegativePrompt string
	Brand          *domain.BrandKit
}

// GenerateOptions carries the optional modifiers of a pure-generation call.
type GenerateOptions struct {
	NegativePrompt string
	AspectRatio    string
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inlineData,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mimeType,omitempty"`
	Data     string `json:"data,omitempty"`
}

type geminiImageConfig struct {
	AspectRatio string `json:"aspectRatio,omitempty"`
}

type geminiGenerationConfig struct {
	CandidateCount     int                `json:"candidateCount,omitempty"`
	ResponseModalities []string           `json:"responseModalities,omitempty"`
	ImageConfig        *geminiImageConfig `json:"imageConfig,omitempty"`
}

type geminiGenerateContentRequest struct {
	Contents         []geminiContent         `json:"contents"`
	GenerationConfig *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiCandidate struct {
	Content      geminiContent `json:"content"`
	FinishReason string        `json:"finishReason,omitempty"`
}

type geminiGenerateContentResponse struct {
	Candidates []geminiCandidate `json:"candidates"`
}

type geminiErrorResponse struct {
	Error struct {
		Code    int    `json:"code,omitempty"`
		Message string `json:"message,omitempty"`
	} `json:"error"`
}

// NewClient constructs a Gemini image client with sane defaults. Callers may
// provide a nil HTTP client; a reusable one with a generation-sized timeout is
// created.
func NewClient(opts Options) *Client {
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}

	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com/v1beta"
	}

	model := opts.Model
	if model == "" {
		model = "gemini-2.5-flash-image"
	}

	var logger *infra.Logger
	if opts.Logger != nil {
		logger = opts.Logger
	} else {
		discard := zerolog.New(io.Discard)
		logger = &discard
	}

	return &Client{
		apiKey:     strings.TrimSpace(opts.APIKey),
		baseURL:    baseURL,
		model:      model,
		httpClient: client,
		logger:     logger,
	}
}

// Model returns the configured Gemini model identifier.
func (c *Client) Model() string {
	return c.model
}

// EditImage sends a source image plus an instruction and returns the edited
// image as a data URL. The negative prompt and brand kit modifiers are applied
// as natural-language instructions, not structured API fields.
func (c *Client) EditImage(ctx context.Context, src domain.SourceImage, prompt string, opts EditOptions) (string, error) {
	if len(src.Data) == 0 {
		return "", domain.ErrMissingImage
	}
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", domain.ErrEmptyPrompt
	}

	parts := []geminiPart{
		{InlineData: &geminiInlineData{
			MimeType: src.MIMEType,
			Data:     base64.StdEncoding.EncodeToString(src.Data),
		}},
		{Text: buildInstruction(prompt, opts.NegativePrompt, opts.Brand)},
	}
	if opts.Brand != nil && opts.Brand.HasLogo() {
		logoData, logoMIME, err := dataurl.Decode(opts.Brand.Logo)
		if err == nil {
			parts = append(parts, geminiPart{InlineData: &geminiInlineData{
				MimeType: logoMIME,
				Data:     base64.StdEncoding.EncodeToString(logoData),
			}})
		}
	}

	payload := geminiGenerateContentRequest{
		Contents: []geminiContent{{Role: "user", Parts: parts}},
		GenerationConfig: &geminiGenerationConfig{
			ResponseModalities: []string{"IMAGE"},
		},
	}

	images, err := c.invoke(ctx, payload)
	if err != nil {
		return "", err
	}
	if len(images) == 0 {
		return "", fmt.Errorf("%w: no image data returned", domain.ErrGenerationFailed)
	}
	return images[0], nil
}

// GenerateImages produces n image variations from a text prompt. n is clamped
// to the supported range and the aspect ratio normalized before the call.
func (c *Client) GenerateImages(ctx context.Context, prompt string, n int, opts GenerateOptions) ([]string, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, domain.ErrEmptyPrompt
	}
	n = domain.ClampVariations(n)

	payload := geminiGenerateContentRequest{
		Contents: []geminiContent{{
			Role:  "user",
			Parts: []geminiPart{{Text: buildInstruction(prompt, opts.NegativePrompt, nil)}},
		}},
		GenerationConfig: &geminiGenerationConfig{
			CandidateCount:     n,
			ResponseModalities: []string{"IMAGE"},
			ImageConfig:        &geminiImageConfig{AspectRatio: domain.NormalizeAspectRatio(opts.AspectRatio)},
		},
	}

	images, err := c.invoke(ctx, payload)
	if err != nil {
		return nil, err
	}
	if len(images) == 0 {
		return nil, fmt.Errorf("%w: no image data returned", domain.ErrGenerationFailed)
	}
	if len(images) > n {
		images = images[:n]
	}
	return images, nil
}

func (c *Client) invoke(ctx context.Context, payload geminiGenerateContentRequest) ([]string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	endpoint := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, url.PathEscape(c.model))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("invoke gemini: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var apiErr geminiErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error.Message != "" {
			return nil, fmt.Errorf("gemini status %d: %s", resp.StatusCode, apiErr.Error.Message)
		}
		data, _ := io.ReadAll(resp.Body)
		if len(data) > 0 {
			return nil, fmt.Errorf("gemini status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
		}
		return nil, fmt.Errorf("gemini status %d", resp.StatusCode)
	}

	var response geminiGenerateContentResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("decode gemini response: %w", err)
	}

	var images []string
	for _, candidate := range response.Candidates {
		for _, part := range candidate.Content.Parts {
			if part.InlineData == nil || part.InlineData.Data == "" {
				continue
			}
			raw, err := base64.StdEncoding.DecodeString(part.InlineData.Data)
			if err != nil {
				continue
			}
			images = append(images, dataurl.Encode(raw, part.InlineData.MimeType))
		}
	}

	c.logger.Debug().
		Str("model", c.model).
		Int("images", len(images)).
		Msg("genai: generate content completed")

	return images, nil
}

// buildInstruction folds the optional modifiers into the prompt text. This is
// prompt engineering, not a deterministic compositing guarantee.
func buildInstruction(prompt, negative string, brand *domain.BrandKit) string {
	var b strings.Builder
	b.WriteString(prompt)
	if negative = strings.TrimSpace(negative); negative != "" {
		b.WriteString(". Avoid the following in the image: ")
		b.WriteString(negative)
		b.WriteString(".")
	}
	if brand != nil {
		if brand.HasLogo() {
			b.WriteString(" Tastefully incorporate the attached brand logo into the design.")
		}
		if len(brand.Colors) > 0 {
			b.WriteString(" Use the brand color palette as a styling constraint: ")
			b.WriteString(strings.Join(brand.Colors, ", "))
			b.WriteString(".")
		}
	}
	return b.String()
}
