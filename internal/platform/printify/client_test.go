package printify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Krosebrook/AIGenerateToStorefront/internal/dataurl"
	"github.com/Krosebrook/AIGenerateToStorefront/internal/domain"
	"github.com/Krosebrook/AIGenerateToStorefront/internal/platform"
)

func TestPublishRunsUploadCreatePublish(t *testing.T) {
	var paths []string
	var createdProduct productRequest
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Fatalf("unexpected auth header: %s", got)
		}
		paths = append(paths, r.URL.Path)
		switch {
		case strings.HasSuffix(r.URL.Path, "/uploads/images.json"):
			var upload uploadRequest
			if err := json.NewDecoder(r.Body).Decode(&upload); err != nil {
				t.Fatalf("decode upload: %v", err)
			}
			if strings.Contains(upload.Contents, "base64,") {
				t.Fatalf("upload carries data URL prefix")
			}
			_, _ = w.Write([]byte(`{"id":"img-1","file_name":"x.png"}`))
		case strings.HasSuffix(r.URL.Path, "/shops/shop-9/products.json"):
			if err := json.NewDecoder(r.Body).Decode(&createdProduct); err != nil {
				t.Fatalf("decode product: %v", err)
			}
			_, _ = w.Write([]byte(`{"id":"prod-7","title":"Space Mug"}`))
		case strings.HasSuffix(r.URL.Path, "/shops/shop-9/products/prod-7/publish.json"):
			_, _ = w.Write([]byte(`{}`))
		default:
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
	}))
	defer ts.Close()

	client := NewClient(Options{APIToken: "tok", ShopID: "shop-9", BaseURL: ts.URL})
	result, err := client.Publish(context.Background(), platform.PublishRequest{
		Title:        "Space Mug",
		Description:  "A mug",
		ProductType:  "Coffee Mug",
		Price:        19.99,
		ImageDataURL: dataurl.Encode([]byte("design"), "image/png"),
	})
	if err != nil {
		t.Fatalf("Publish error: %v", err)
	}
	if len(paths) != 3 {
		t.Fatalf("expected 3 calls, got %v", paths)
	}
	if createdProduct.BlueprintID != BlueprintMug {
		t.Fatalf("blueprint = %d, want mug", createdProduct.BlueprintID)
	}
	if len(createdProduct.Variants) != 1 || createdProduct.Variants[0].Price != 1999 {
		t.Fatalf("price not in cents: %+v", createdProduct.Variants)
	}
	if createdProduct.PrintAreas[0].Placeholders[0].Images[0].ID != "img-1" {
		t.Fatalf("uploaded image not referenced: %+v", createdProduct.PrintAreas)
	}
	if !strings.Contains(result.SuccessURL, "prod-7") {
		t.Fatalf("unexpected success URL: %s", result.SuccessURL)
	}
}

func TestPublishChannelFailureIsNonFatal(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/uploads/images.json"):
			_, _ = w.Write([]byte(`{"id":"img-1"}`))
		case strings.HasSuffix(r.URL.Path, "/publish.json"):
			w.WriteHeader(http.StatusConflict)
		default:
			_, _ = w.Write([]byte(`{"id":"prod-7","title":"Tee"}`))
		}
	}))
	defer ts.Close()

	client := NewClient(Options{APIToken: "tok", ShopID: "s", BaseURL: ts.URL})
	result, err := client.Publish(context.Background(), platform.PublishRequest{Title: "Tee", ImageDataURL: dataurl.Encode([]byte("d"), "image/png")})
	if err != nil {
		t.Fatalf("publish failure should be non-fatal, got %v", err)
	}
	if !strings.Contains(result.Message, "not pushed to a sales channel") {
		t.Fatalf("message does not flag channel failure: %s", result.Message)
	}
}

func TestPublishUploadErrorAborts(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer ts.Close()

	client := NewClient(Options{APIToken: "bad", ShopID: "s", BaseURL: ts.URL})
	_, err := client.Publish(context.Background(), platform.PublishRequest{Title: "Tee", ImageDataURL: dataurl.Encode([]byte("d"), "image/png")})
	if err == nil || !strings.Contains(err.Error(), "authentication failed") {
		t.Fatalf("expected auth error, got %v", err)
	}
}

func TestPublishRejectsMissingCredentials(t *testing.T) {
	client := NewClient(Options{APIToken: "tok"})
	if client.Configured() {
		t.Fatal("client without shop ID reported configured")
	}
	_, err := client.Publish(context.Background(), platform.PublishRequest{Title: "x"})
	if !errors.Is(err, domain.ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
	if status := client.ConfigStatus(); !strings.Contains(status.Message, "PRINTIFY_SHOP_ID") {
		t.Fatalf("unexpected status: %+v", status)
	}
}

func TestBlueprintForProduct(t *testing.T) {
	cases := map[string]int{
		"Classic Hoodie":   BlueprintHoodie,
		"11oz Coffee Mug":  BlueprintMug,
		"Wall Art Poster":  BlueprintPoster,
		"Canvas Tote Bag":  BlueprintToteBag,
		"Stretched Canvas": BlueprintCanvas,
		"Sticker Pack":     BlueprintSticker,
		"Phone Case":       BlueprintPhoneCase,
		"":                 BlueprintTShirt,
		"Something Else":   BlueprintTShirt,
	}
	for in, want := range cases {
		if got := blueprintForProduct(in); got != want {
			t.Errorf("blueprintForProduct(%q) = %d, want %d", in, got, want)
		}
	}
}
