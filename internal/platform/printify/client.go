// Package printify creates print-on-demand products through the Printify
// REST API: upload the design, create the product, then publish it to the
// connected sales channel.
package printify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Krosebrook/AIGenerateToStorefront/internal/dataurl"
	"github.com/Krosebrook/AIGenerateToStorefront/internal/domain"
	"github.com/Krosebrook/AIGenerateToStorefront/internal/platform"
)

// Options configures the Printify client.
type Options struct {
	APIToken   string
	ShopID     string
	BaseURL    string
	HTTPClient *http.Client
	Logger     zerolog.Logger
}

type Client struct {
	apiToken string
	shopID   string
	baseURL  string
	client   *http.Client
	logger   zerolog.Logger
}

const (
	defaultBaseURL = "https://api.printify.com/v1"
	defaultTimeout = 60 * time.Second

	defaultPrice = 25.00
)

// Blueprint IDs for the products the merch presets map to.
const (
	BlueprintTShirt    = 3
	BlueprintHoodie    = 5
	BlueprintMug       = 19
	BlueprintToteBag   = 26
	BlueprintCanvas    = 67
	BlueprintPhoneCase = 77
	BlueprintPoster    = 165
	BlueprintSticker   = 380
)

const defaultProviderID = 1 // Monster Digital

// blueprintVariants maps a blueprint to known sellable variant IDs. The
// catalog API is the authoritative source; these cover the default products.
var blueprintVariants = map[int][]int{
	BlueprintTShirt:  {45740, 45742, 45744},
	BlueprintHoodie:  {46012, 46014, 46016},
	BlueprintMug:     {12019},
	BlueprintPoster:  {18237, 18238},
	BlueprintToteBag: {31112},
}

// blueprintForProduct resolves a free-form product type to a blueprint.
func blueprintForProduct(productType string) int {
	switch {
	case containsAny(productType, "hoodie", "sweatshirt"):
		return BlueprintHoodie
	case containsAny(productType, "mug", "cup"):
		return BlueprintMug
	case containsAny(productType, "poster", "print", "wall"):
		return BlueprintPoster
	case containsAny(productType, "tote", "bag"):
		return BlueprintToteBag
	case containsAny(productType, "canvas"):
		return BlueprintCanvas
	case containsAny(productType, "sticker"):
		return BlueprintSticker
	case containsAny(productType, "phone", "case"):
		return BlueprintPhoneCase
	default:
		return BlueprintTShirt
	}
}

func containsAny(s string, subs ...string) bool {
	s = strings.ToLower(s)
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

type uploadRequest struct {
	FileName string `json:"file_name"`
	Contents string `json:"contents"`
}

type uploadResponse struct {
	ID         string `json:"id"`
	FileName   string `json:"file_name"`
	PreviewURL string `json:"preview_url"`
}

type variantPayload struct {
	ID        int  `json:"id"`
	Price     int  `json:"price"`
	IsEnabled bool `json:"is_enabled"`
}

type printAreaImage struct {
	ID    string  `json:"id"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Scale float64 `json:"scale"`
	Angle float64 `json:"angle"`
}

type placeholderPayload struct {
	Position string           `json:"position"`
	Images   []printAreaImage `json:"images"`
}

type printAreaPayload struct {
	VariantIDs   []int                `json:"variant_ids"`
	Placeholders []placeholderPayload `json:"placeholders"`
}

type productRequest struct {
	Title           string             `json:"title"`
	Description     string             `json:"description"`
	BlueprintID     int                `json:"blueprint_id"`
	PrintProviderID int                `json:"print_provider_id"`
	Variants        []variantPayload   `json:"variants"`
	PrintAreas      []printAreaPayload `json:"print_areas"`
}

type productResponse struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type publishRequest struct {
	Title       bool `json:"title"`
	Description bool `json:"description"`
	Images      bool `json:"images"`
	Variants    bool `json:"variants"`
	Tags        bool `json:"tags"`
}

// NewClient returns a Printify client. Missing credentials are allowed;
// calls then fail with ErrNotConfigured.
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
		apiToken: opts.APIToken,
		shopID:   opts.ShopID,
		baseURL:  baseURL,
		client:   client,
		logger:   opts.Logger,
	}
}

func (c *Client) Name() domain.Platform { return domain.PlatformPrintify }

func (c *Client) Configured() bool {
	return c.apiToken != "" && c.shopID != ""
}

func (c *Client) ConfigStatus() domain.ConfigStatus {
	if c.apiToken == "" {
		return domain.ConfigStatus{Message: "Printify API token is not configured. Set PRINTIFY_API_TOKEN."}
	}
	if c.shopID == "" {
		return domain.ConfigStatus{Message: "Printify shop ID is not configured. Set PRINTIFY_SHOP_ID."}
	}
	return domain.ConfigStatus{Configured: true, Message: fmt.Sprintf("Printify connected (Shop ID: %s)", c.shopID)}
}

// Publish uploads the design, creates the product, and attempts to publish
// it to the connected sales channel. A publish failure is non-fatal: the
// product already exists in Printify.
func (c *Client) Publish(ctx context.Context, req platform.PublishRequest) (*platform.PublishResult, error) {
	if !c.Configured() {
		return nil, domain.ErrNotConfigured
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: product title is required", domain.ErrInvalidInput)
	}

	uploaded, err := c.uploadImage(ctx, req.ImageDataURL, title+".png")
	if err != nil {
		return nil, fmt.Errorf("upload design: %w", err)
	}

	blueprintID := blueprintForProduct(req.ProductType)
	variantIDs := blueprintVariants[blueprintID]
	if len(variantIDs) == 0 {
		variantIDs = blueprintVariants[BlueprintTShirt]
	}
	price := req.Price
	if price <= 0 {
		price = defaultPrice
	}
	priceCents := int(math.Round(price * 100))

	variants := make([]variantPayload, 0, len(variantIDs))
	for _, id := range variantIDs {
		variants = append(variants, variantPayload{ID: id, Price: priceCents, IsEnabled: true})
	}
	product := productRequest{
		Title:           title,
		Description:     EscapeHTML(req.Description),
		BlueprintID:     blueprintID,
		PrintProviderID: defaultProviderID,
		Variants:        variants,
		PrintAreas: []printAreaPayload{{
			VariantIDs: variantIDs,
			Placeholders: []placeholderPayload{{
				Position: "front",
				Images:   []printAreaImage{{ID: uploaded.ID, X: 0.5, Y: 0.5, Scale: 1, Angle: 0}},
			}},
		}},
	}

	created, err := c.createProduct(ctx, product)
	if err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	c.logger.Info().Str("product_id", created.ID).Msg("printify product created")

	message := fmt.Sprintf("Product created: %s", created.Title)
	if err := c.publishProduct(ctx, created.ID); err != nil {
		// The product exists even when no sales channel is connected.
		c.logger.Warn().Err(err).Str("product_id", created.ID).Msg("printify publish to channel failed")
		message += " (not pushed to a sales channel)"
	}
	return &platform.PublishResult{
		Message:    message,
		SuccessURL: fmt.Sprintf("https://printify.com/app/store/products/%s", created.ID),
	}, nil
}

func (c *Client) uploadImage(ctx context.Context, imageDataURL, fileName string) (*uploadResponse, error) {
	body := uploadRequest{
		FileName: fileName,
		Contents: dataurl.StripPrefix(imageDataURL),
	}
	var out uploadResponse
	if err := c.post(ctx, c.baseURL+"/uploads/images.json", body, &out); err != nil {
		return nil, err
	}
	if out.ID == "" {
		return nil, fmt.Errorf("printify returned no upload id")
	}
	return &out, nil
}

func (c *Client) createProduct(ctx context.Context, product productRequest) (*productResponse, error) {
	url := fmt.Sprintf("%s/shops/%s/products.json", c.baseURL, c.shopID)
	var out productResponse
	if err := c.post(ctx, url, product, &out); err != nil {
		return nil, err
	}
	if out.ID == "" {
		return nil, fmt.Errorf("printify returned no product id")
	}
	return &out, nil
}

func (c *Client) publishProduct(ctx context.Context, productID string) error {
	url := fmt.Sprintf("%s/shops/%s/products/%s/publish.json", c.baseURL, c.shopID, productID)
	body := publishRequest{Title: true, Description: true, Images: true, Variants: true, Tags: true}
	return c.post(ctx, url, body, nil)
}

func (c *Client) post(ctx context.Context, url string, body, out any) error {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &buf)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiToken)
	resp, err := c.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("call printify: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 300 {
		return translateError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func translateError(resp *http.Response) error {
	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return fmt.Errorf("authentication failed, check the Printify API token")
	case http.StatusNotFound:
		return fmt.Errorf("printify resource not found, check the shop ID")
	case http.StatusConflict:
		return fmt.Errorf("product already published to this sales channel")
	case http.StatusTooManyRequests:
		return fmt.Errorf("printify rate limit exceeded, wait a moment and retry")
	case http.StatusUnprocessableEntity:
		return fmt.Errorf("invalid product data, check the product configuration")
	}
	return fmt.Errorf("printify api error %d", resp.StatusCode)
}

// EscapeHTML escapes markup for plain-text product descriptions.
func EscapeHTML(s string) string {
	replacer := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&#039;",
	)
	return replacer.Replace(s)
}

var _ platform.Publisher = (*Client)(nil)
