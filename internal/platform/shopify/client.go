// Package shopify creates draft products through the Shopify Admin REST API.
package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/Krosebrook/AIGenerateToStorefront/internal/dataurl"
	"github.com/Krosebrook/AIGenerateToStorefront/internal/domain"
	"github.com/Krosebrook/AIGenerateToStorefront/internal/platform"
)

// Options configures the Shopify client. BaseURL overrides the shop domain
// endpoint and exists for tests.
type Options struct {
	ShopDomain string
	APIToken   string
	APIVersion string
	BaseURL    string
	HTTPClient *http.Client
	Logger     zerolog.Logger
}

type Client struct {
	shopDomain string
	apiToken   string
	apiVersion string
	baseURL    string
	client     *http.Client
	logger     zerolog.Logger
}

const (
	defaultTimeout    = 30 * time.Second
	defaultAPIVersion = "2024-01"
	maxTitleLength    = 255
)

type productPayload struct {
	Product productBody `json:"product"`
}

type productBody struct {
	Title       string         `json:"title"`
	BodyHTML    string         `json:"body_html"`
	Vendor      string         `json:"vendor"`
	ProductType string         `json:"product_type"`
	Status      string         `json:"status"`
	Images      []productImage `json:"images,omitempty"`
}

type productImage struct {
	Attachment string `json:"attachment"`
	Filename   string `json:"filename"`
}

type createProductResponse struct {
	Product struct {
		ID     int64  `json:"id"`
		Title  string `json:"title"`
		Handle string `json:"handle"`
	} `json:"product"`
}

type errorResponse struct {
	Errors json.RawMessage `json:"errors"`
}

// NewClient returns a Shopify client. Missing credentials are allowed; calls
// then fail with ErrNotConfigured.
func NewClient(opts Options) *Client {
	apiVersion := opts.APIVersion
	if apiVersion == "" {
		apiVersion = defaultAPIVersion
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{
		shopDomain: opts.ShopDomain,
		apiToken:   opts.APIToken,
		apiVersion: apiVersion,
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		client:     client,
		logger:     opts.Logger,
	}
}

func (c *Client) Name() domain.Platform { return domain.PlatformShopify }

func (c *Client) Configured() bool {
	return c.shopDomain != "" && c.apiToken != ""
}

func (c *Client) ConfigStatus() domain.ConfigStatus {
	if c.shopDomain == "" {
		return domain.ConfigStatus{Message: "Shopify shop domain is not configured. Set SHOPIFY_SHOP_DOMAIN."}
	}
	if c.apiToken == "" {
		return domain.ConfigStatus{Message: "Shopify admin API token is not configured. Set SHOPIFY_ADMIN_API_TOKEN."}
	}
	return domain.ConfigStatus{Configured: true, Message: fmt.Sprintf("Connected to %s", c.shopDomain)}
}

// Publish creates a draft product with the design attached as a base64 image.
// Drafts keep unreviewed AI output off the storefront.
func (c *Client) Publish(ctx context.Context, req platform.PublishRequest) (*platform.PublishResult, error) {
	if !c.Configured() {
		return nil, domain.ErrNotConfigured
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: product title is required", domain.ErrInvalidInput)
	}
	if utf8.RuneCountInString(title) > maxTitleLength {
		return nil, fmt.Errorf("%w: product title must be %d characters or less", domain.ErrInvalidInput, maxTitleLength)
	}
	productType := req.ProductType
	if productType == "" {
		productType = "Print on Demand"
	}
	payload := productPayload{Product: productBody{
		Title:       title,
		BodyHTML:    SanitizeHTML(req.Description),
		Vendor:      "AI Generated",
		ProductType: productType,
		Status:      "draft",
	}}
	if req.ImageDataURL != "" {
		payload.Product.Images = []productImage{{
			Attachment: dataurl.StripPrefix(req.ImageDataURL),
			Filename:   fmt.Sprintf("%d.png", time.Now().UnixMilli()),
		}}
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		return nil, fmt.Errorf("encode product: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.productsURL(), &buf)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Shopify-Access-Token", c.apiToken)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("call shopify: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 300 {
		return nil, c.translateError(resp)
	}
	var created createProductResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if created.Product.ID == 0 {
		return nil, fmt.Errorf("shopify returned no product")
	}
	c.logger.Info().
		Int64("product_id", created.Product.ID).
		Str("handle", created.Product.Handle).
		Msg("shopify product created")
	return &platform.PublishResult{
		Message:    fmt.Sprintf("Draft product created: %s", created.Product.Title),
		SuccessURL: c.adminProductURL(created.Product.ID),
	}, nil
}

func (c *Client) translateError(resp *http.Response) error {
	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return fmt.Errorf("authentication failed, check the Shopify admin API token")
	case http.StatusForbidden:
		return fmt.Errorf("access denied, the API token lacks the required permissions")
	case http.StatusTooManyRequests:
		return fmt.Errorf("shopify rate limit exceeded, wait a moment and retry")
	case http.StatusUnprocessableEntity:
		var body errorResponse
		if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && len(body.Errors) > 0 {
			return fmt.Errorf("invalid product data: %s", body.Errors)
		}
		return fmt.Errorf("invalid product data")
	}
	var body errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && len(body.Errors) > 0 {
		return fmt.Errorf("shopify api error %d: %s", resp.StatusCode, body.Errors)
	}
	return fmt.Errorf("shopify api error %d", resp.StatusCode)
}

func (c *Client) productsURL() string {
	if c.baseURL != "" {
		return fmt.Sprintf("%s/admin/api/%s/products.json", c.baseURL, c.apiVersion)
	}
	return fmt.Sprintf("https://%s/admin/api/%s/products.json", c.shopDomain, c.apiVersion)
}

func (c *Client) adminProductURL(productID int64) string {
	return fmt.Sprintf("https://%s/admin/products/%d", c.shopDomain, productID)
}

var (
	scriptTagRegexp    = regexp.MustCompile(`(?is)<script\b.*?</script>`)
	eventHandlerRegexp = regexp.MustCompile(`(?i)on\w+\s*=\s*["'][^"']*["']`)
)

// SanitizeHTML strips script tags and inline event handlers while leaving
// basic formatting intact. Shopify accepts HTML in body_html.
func SanitizeHTML(html string) string {
	html = scriptTagRegexp.ReplaceAllString(html, "")
	html = eventHandlerRegexp.ReplaceAllString(html, "")
	return strings.TrimSpace(html)
}

var _ platform.Publisher = (*Client)(nil)
