package etsy

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/Krosebrook/AIGenerateToStorefront/internal/dataurl"
	"github.com/Krosebrook/AIGenerateToStorefront/internal/domain"
	"github.com/Krosebrook/AIGenerateToStorefront/internal/platform"
)

func TestPublishCreatesListingThenUploadsImage(t *testing.T) {
	var listing listingPayload
	var imageUploaded bool
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("x-api-key"); got != "key" {
			t.Fatalf("unexpected api key header: %s", got)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Fatalf("unexpected auth header: %s", got)
		}
		switch {
		case strings.HasSuffix(r.URL.Path, "/application/shops/shop-1/listings"):
			if err := json.NewDecoder(r.Body).Decode(&listing); err != nil {
				t.Fatalf("decode listing: %v", err)
			}
			_, _ = w.Write([]byte(`{"listing_id":314,"title":"Nebula Owl","state":"draft","url":"https://www.etsy.com/listing/314"}`))
		case strings.HasSuffix(r.URL.Path, "/listings/314/images"):
			if err := r.ParseMultipartForm(1 << 20); err != nil {
				t.Fatalf("parse multipart: %v", err)
			}
			if _, _, err := r.FormFile("image"); err != nil {
				t.Fatalf("image part missing: %v", err)
			}
			if got := r.FormValue("rank"); got != "1" {
				t.Fatalf("rank = %s", got)
			}
			imageUploaded = true
			_, _ = w.Write([]byte(`{"listing_image_id":1}`))
		default:
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
	}))
	defer ts.Close()

	client := NewClient(Options{APIKey: "key", ShopID: "shop-1", AccessToken: "tok", BaseURL: ts.URL})
	result, err := client.Publish(context.Background(), platform.PublishRequest{
		Title:        "Nebula Owl",
		Description:  "A glowing owl print",
		Tags:         []string{"#Owl", "SPACE ART", strings.Repeat("x", 30)},
		ImageDataURL: dataurl.Encode([]byte("design"), "image/png"),
	})
	if err != nil {
		t.Fatalf("Publish error: %v", err)
	}
	if !imageUploaded {
		t.Fatal("image was not uploaded")
	}
	if result.SuccessURL != "https://www.etsy.com/listing/314" {
		t.Fatalf("unexpected success URL: %s", result.SuccessURL)
	}
	if listing.WhoMade != "i_did" || listing.WhenMade != "made_to_order" || listing.Quantity != 999 {
		t.Fatalf("listing defaults wrong: %+v", listing)
	}
	want := []string{"owl", "space art", strings.Repeat("x", 20)}
	if !reflect.DeepEqual(listing.Tags, want) {
		t.Fatalf("tags = %v, want %v", listing.Tags, want)
	}
}

func TestPublishRejectsMissingCredentials(t *testing.T) {
	client := NewClient(Options{APIKey: "key", ShopID: "shop-1"})
	_, err := client.Publish(context.Background(), platform.PublishRequest{Title: "x"})
	if !errors.Is(err, domain.ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
	if status := client.ConfigStatus(); status.Configured || !strings.Contains(status.Message, "ETSY_ACCESS_TOKEN") {
		t.Fatalf("unexpected status: %+v", status)
	}
}

func TestPublishTranslatesStatusCodes(t *testing.T) {
	cases := []struct {
		status int
		want   string
	}{
		{http.StatusUnauthorized, "authentication failed"},
		{http.StatusForbidden, "listings_w"},
		{http.StatusNotFound, "not found"},
		{http.StatusTooManyRequests, "rate limit"},
		{http.StatusBadRequest, "invalid listing data"},
	}
	for _, tc := range cases {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
		}))
		client := NewClient(Options{APIKey: "k", ShopID: "s", AccessToken: "t", BaseURL: ts.URL})
		_, err := client.Publish(context.Background(), platform.PublishRequest{Title: "x", ImageDataURL: dataurl.Encode([]byte("d"), "image/png")})
		ts.Close()
		if err == nil || !strings.Contains(err.Error(), tc.want) {
			t.Fatalf("status %d: expected %q in error, got %v", tc.status, tc.want, err)
		}
	}
}

func TestTruncateTitle(t *testing.T) {
	long := strings.Repeat("a", 150)
	got := TruncateTitle(long)
	if len(got) != 140 || !strings.HasSuffix(got, "...") {
		t.Fatalf("truncation wrong: len=%d suffix=%s", len(got), got[130:])
	}
	if TruncateTitle("short") != "short" {
		t.Fatal("short title modified")
	}
}

func TestTruncateTitleCountsRunes(t *testing.T) {
	// 100 characters but 200 bytes; within the 140-character limit.
	accented := strings.Repeat("é", 100)
	if got := TruncateTitle(accented); got != accented {
		t.Fatalf("title within the character limit was modified: %q", got)
	}

	long := strings.Repeat("é", 150)
	got := TruncateTitle(long)
	if !utf8.ValidString(got) {
		t.Fatalf("truncated title is invalid UTF-8: %q", got)
	}
	if n := utf8.RuneCountInString(got); n != 140 {
		t.Fatalf("truncated length = %d runes, want 140", n)
	}
	if !strings.HasSuffix(got, "...") {
		t.Fatalf("missing ellipsis: %q", got)
	}
}

func TestNormalizeTagsCapsCount(t *testing.T) {
	tags := make([]string, 0, 20)
	for i := 0; i < 20; i++ {
		tags = append(tags, "tag")
	}
	if got := NormalizeTags(tags); len(got) != 13 {
		t.Fatalf("tag count = %d, want 13", len(got))
	}

	got := NormalizeTags([]string{strings.Repeat("ö", 25)})
	if len(got) != 1 {
		t.Fatalf("tags = %v", got)
	}
	if !utf8.ValidString(got[0]) {
		t.Fatalf("capped tag is invalid UTF-8: %q", got[0])
	}
	if n := utf8.RuneCountInString(got[0]); n != 20 {
		t.Fatalf("capped tag = %d runes, want 20", n)
	}
}
