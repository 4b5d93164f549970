// Package news fetches design-trend headlines through Gemini's grounded
// search tool. Grounding and JSON response constraints cannot be combined,
// so the article list is extracted from free text and the consulted sources
// are read from the grounding metadata.
package news

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Krosebrook/AIGenerateToStorefront/internal/domain"
	"github.com/Krosebrook/AIGenerateToStorefront/internal/providers/copywriter"
)

// Options configures the grounded-search client.
type Options struct {
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client
	Logger     zerolog.Logger
}

// Client calls the Gemini generateContent endpoint with the search tool
// enabled.
type Client struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
	logger  zerolog.Logger
}

// Digest is one grounded news lookup: the extracted articles plus the web
// sources the model consulted.
type Digest struct {
	Articles []domain.NewsArticle     `json:"articles"`
	Sources  []domain.GroundingSource `json:"sources"`
}

const defaultTimeout = 30 * time.Second

type searchRequest struct {
	Contents []searchContent `json:"contents"`
	Tools    []searchTool    `json:"tools"`
}

type searchContent struct {
	Role  string       `json:"role"`
	Parts []searchPart `json:"parts"`
}

type searchPart struct {
	Text string `json:"text,omitempty"`
}

type searchTool struct {
	GoogleSearch struct{} `json:"google_search"`
}

type searchResponse struct {
	Candidates []struct {
		Content           searchContent `json:"content"`
		GroundingMetadata *struct {
			GroundingChunks []struct {
				Web *struct {
					URI   string `json:"uri"`
					Title string `json:"title"`
				} `json:"web"`
			} `json:"groundingChunks"`
		} `json:"groundingMetadata"`
	} `json:"candidates"`
}

type searchErrorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type articlesPayload struct {
	Articles []struct {
		Title   string `json:"title"`
		Summary string `json:"summary"`
		URL     string `json:"url"`
	} `json:"articles"`
}

// NewClient validates the options and returns a ready Client.
func NewClient(opts Options) (*Client, error) {
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
		client = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{
		apiKey:  opts.APIKey,
		model:   model,
		baseURL: baseURL,
		client:  client,
		logger:  opts.Logger,
	}, nil
}

// Latest runs a grounded search for current design and merch trends around
// the given topic and returns the digest.
func (c *Client) Latest(ctx context.Context, topic string) (*Digest, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		topic = "AI art and print-on-demand design"
	}
	payload := searchRequest{
		Contents: []searchContent{{
			Role:  "user",
			Parts: []searchPart{{Text: buildNewsPrompt(topic)}},
		}},
		Tools: []searchTool{{}},
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), &buf)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.apiKey)
	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("call gemini: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 300 {
		var apiErr searchErrorResponse
		if decodeErr := json.NewDecoder(resp.Body).Decode(&apiErr); decodeErr == nil && apiErr.Error.Message != "" {
			return nil, fmt.Errorf("gemini %d: %s", resp.StatusCode, apiErr.Error.Message)
		}
		return nil, fmt.Errorf("gemini returned status %d", resp.StatusCode)
	}
	var out searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	digest := &Digest{Sources: extractSources(out)}
	text := extractText(out)
	if text == "" {
		return nil, domain.ErrGenerationFailed
	}
	fragment := copywriter.ExtractJSONFragment(text)
	var parsed articlesPayload
	if err := json.Unmarshal([]byte(fragment), &parsed); err != nil {
		c.logger.Debug().Err(err).Msg("news: unparseable payload")
		return nil, fmt.Errorf("parse articles: %w", err)
	}
	for _, a := range parsed.Articles {
		title := strings.TrimSpace(a.Title)
		if title == "" {
			continue
		}
		digest.Articles = append(digest.Articles, domain.NewsArticle{
			Title:   title,
			Summary: strings.TrimSpace(a.Summary),
			URL:     strings.TrimSpace(a.URL),
		})
	}
	if len(digest.Articles) == 0 {
		return nil, domain.ErrGenerationFailed
	}
	return digest, nil
}

func (c *Client) endpoint() string {
	base := strings.TrimRight(c.baseURL, "/")
	model := url.PathEscape(c.model)
	return fmt.Sprintf("%s/models/%s:generateContent", base, model)
}

func extractText(resp searchResponse) string {
	for _, cand := range resp.Candidates {
		for _, part := range cand.Content.Parts {
			if strings.TrimSpace(part.Text) != "" {
				return part.Text
			}
		}
	}
	return ""
}

func extractSources(resp searchResponse) []domain.GroundingSource {
	var sources []domain.GroundingSource
	seen := make(map[string]struct{})
	for _, cand := range resp.Candidates {
		if cand.GroundingMetadata == nil {
			continue
		}
		for _, chunk := range cand.GroundingMetadata.GroundingChunks {
			if chunk.Web == nil || chunk.Web.URI == "" {
				continue
			}
			if _, ok := seen[chunk.Web.URI]; ok {
				continue
			}
			seen[chunk.Web.URI] = struct{}{}
			sources = append(sources, domain.GroundingSource{
				Title: chunk.Web.Title,
				URI:   chunk.Web.URI,
			})
		}
	}
	return sources
}

func buildNewsPrompt(topic string) string {
	sb := &strings.Builder{}
	fmt.Fprintf(sb, "Search the web for the latest news and trends about %s. ", topic)
	sb.WriteString("Summarize the five most relevant findings as JSON: ")
	sb.WriteString(`{"articles":[{"title":string,"summary":string,"url":string}]}`)
	sb.WriteString(". Keep each summary under two sentences and prefer sources from the last month.")
	return sb.String()
}
