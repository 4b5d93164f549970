// Package etsy creates listings through the Etsy Open API v3: create the
// listing, then attach the design image with a multipart upload.
package etsy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Krosebrook/AIGenerateToStorefront/internal/dataurl"
	"github.com/Krosebrook/AIGenerateToStorefront/internal/domain"
	"github.com/Krosebrook/AIGenerateToStorefront/internal/platform"
)

// Options configures the Etsy client.
type Options struct {
	APIKey      string
	ShopID      string
	AccessToken string
	BaseURL     string
	HTTPClient  *http.Client
	Logger      zerolog.Logger
}

type Client struct {
	apiKey      string
	shopID      string
	accessToken string
	baseURL     string
	client      *http.Client
	logger      zerolog.Logger
}

const (
	defaultBaseURL = "https://openapi.etsy.com/v3"
	defaultTimeout = 60 * time.Second

	maxTitleLength = 140
	maxTags        = 13
	maxTagLength   = 20

	// Effectively unlimited stock for made-to-order products.
	listingQuantity = 999

	defaultPrice      = 25.00
	defaultTaxonomyID = 1964 // t-shirts
)

type listingPayload struct {
	Quantity        int      `json:"quantity"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	Price           float64  `json:"price"`
	WhoMade         string   `json:"who_made"`
	WhenMade        string   `json:"when_made"`
	TaxonomyID      int      `json:"taxonomy_id"`
	Type            string   `json:"type"`
	IsSupply        bool     `json:"is_supply"`
	IsCustomizable  bool     `json:"is_customizable"`
	ShouldAutoRenew bool     `json:"should_auto_renew"`
	IsTaxable       bool     `json:"is_taxable"`
	Tags            []string `json:"tags,omitempty"`
}

type listingResponse struct {
	ListingID int64  `json:"listing_id"`
	Title     string `json:"title"`
	State     string `json:"state"`
	URL       string `json:"url"`
}

// NewClient returns an Etsy client. Missing credentials are allowed; calls
// then fail with ErrNotConfigured.
func NewClient(opts Options) *Client {
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{
		apiKey:      opts.APIKey,
		shopID:      opts.ShopID,
		accessToken: opts.AccessToken,
		baseURL:     baseURL,
		client:      client,
		logger:      opts.Logger,
	}
}

func (c *Client) Name() domain.Platform { return domain.PlatformEtsy }

func (c *Client) Configured() bool {
	return c.apiKey != "" && c.shopID != "" && c.accessToken != ""
}

func (c *Client) ConfigStatus() domain.ConfigStatus {
	if c.apiKey == "" {
		return domain.ConfigStatus{Message: "Etsy API key is not configured. Set ETSY_API_KEY."}
	}
	if c.shopID == "" {
		return domain.ConfigStatus{Message: "Etsy shop ID is not configured. Set ETSY_SHOP_ID."}
	}
	if c.accessToken == "" {
		return domain.ConfigStatus{Message: "Etsy access token is not configured. Set ETSY_ACCESS_TOKEN."}
	}
	return domain.ConfigStatus{Configured: true, Message: fmt.Sprintf("Etsy connected (Shop ID: %s)", c.shopID)}
}

// Publish creates a made-to-order listing and uploads the design as the
// primary image.
func (c *Client) Publish(ctx context.Context, req platform.PublishRequest) (*platform.PublishResult, error) {
	if !c.Configured() {
		return nil, domain.ErrNotConfigured
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: product title is required", domain.ErrInvalidInput)
	}
	title = TruncateTitle(title)
	price := req.Price
	if price <= 0 {
		price = defaultPrice
	}
	payload := listingPayload{
		Quantity:        listingQuantity,
		Title:           title,
		Description:     req.Description,
		Price:           price,
		WhoMade:         "i_did",
		WhenMade:        "made_to_order",
		TaxonomyID:      defaultTaxonomyID,
		Type:            "physical",
		ShouldAutoRenew: true,
		IsTaxable:       true,
		Tags:            NormalizeTags(req.Tags),
	}

	listing, err := c.createListing(ctx, payload)
	if err != nil {
		return nil, fmt.Errorf("create listing: %w", err)
	}
	c.logger.Info().Int64("listing_id", listing.ListingID).Msg("etsy listing created")

	if err := c.uploadImage(ctx, listing.ListingID, req.ImageDataURL, title); err != nil {
		return nil, fmt.Errorf("upload image: %w", err)
	}

	successURL := listing.URL
	if successURL == "" {
		successURL = fmt.Sprintf("https://www.etsy.com/listing/%d", listing.ListingID)
	}
	return &platform.PublishResult{
		Message:    fmt.Sprintf("Listing created: %s", listing.Title),
		SuccessURL: successURL,
	}, nil
}

func (c *Client) createListing(ctx context.Context, payload listingPayload) (*listingResponse, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		return nil, fmt.Errorf("encode listing: %w", err)
	}
	url := fmt.Sprintf("%s/application/shops/%s/listings", c.baseURL, c.shopID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &buf)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	c.setAuth(httpReq)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("call etsy: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 300 {
		return nil, translateError(resp)
	}
	var listing listingResponse
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if listing.ListingID == 0 {
		return nil, fmt.Errorf("etsy returned no listing id")
	}
	return &listing, nil
}

func (c *Client) uploadImage(ctx context.Context, listingID int64, imageDataURL, altText string) error {
	data, err := dataurl.DecodeLoose(imageDataURL)
	if err != nil {
		return fmt.Errorf("decode image: %w", err)
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("image", "product.png")
	if err != nil {
		return fmt.Errorf("build form: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return fmt.Errorf("write image: %w", err)
	}
	if err := writer.WriteField("rank", strconv.Itoa(1)); err != nil {
		return fmt.Errorf("write rank: %w", err)
	}
	if altText != "" {
		if err := writer.WriteField("alt_text", altText); err != nil {
			return fmt.Errorf("write alt text: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("close form: %w", err)
	}

	url := fmt.Sprintf("%s/application/shops/%s/listings/%d/images", c.baseURL, c.shopID, listingID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())
	c.setAuth(httpReq)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("call etsy: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 300 {
		return translateError(resp)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func (c *Client) setAuth(req *http.Request) {
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
}

func translateError(resp *http.Response) error {
	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return fmt.Errorf("authentication failed, check the Etsy API key and access token")
	case http.StatusForbidden:
		return fmt.Errorf("etsy access forbidden, the OAuth scopes must include listings_w")
	case http.StatusNotFound:
		return fmt.Errorf("etsy shop or listing not found, check the shop ID")
	case http.StatusTooManyRequests:
		return fmt.Errorf("etsy rate limit exceeded, wait a moment and retry")
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("invalid listing data: %s", strings.TrimSpace(string(body)))
	}
	return fmt.Errorf("etsy api error %d", resp.StatusCode)
}

// TruncateTitle shortens a title to the listing limit, marking the cut.
// Limits count characters, not bytes, so multi-byte titles stay valid UTF-8.
func TruncateTitle(title string) string {
	runes := []rune(title)
	if len(runes) <= maxTitleLength {
		return title
	}
	return string(runes[:maxTitleLength-3]) + "..."
}

// NormalizeTags lowercases, trims, and caps tags to the listing limits.
func NormalizeTags(tags []string) []string {
	var result []string
	for _, tag := range tags {
		if len(result) == maxTags {
			break
		}
		tag = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(tag, "#")))
		if runes := []rune(tag); len(runes) > maxTagLength {
			tag = string(runes[:maxTagLength])
		}
		if tag == "" {
			continue
		}
		result = append(result, tag)
	}
	return result
}

var _ platform.Publisher = (*Client)(nil)
