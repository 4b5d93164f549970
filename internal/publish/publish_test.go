package publish

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/Krosebrook/AIGenerateToStorefront/internal/domain"
	"github.com/Krosebrook/AIGenerateToStorefront/internal/platform"
)

type stubPublisher struct {
	name       domain.Platform
	configured bool
	result     *platform.PublishResult
	err        error
	calls      int
}

func (s *stubPublisher) Name() domain.Platform { return s.name }
func (s *stubPublisher) Configured() bool      { return s.configured }

func (s *stubPublisher) ConfigStatus() domain.ConfigStatus {
	if !s.configured {
		return domain.ConfigStatus{Message: string(s.name) + " credentials missing"}
	}
	return domain.ConfigStatus{Configured: true, Message: "connected"}
}

func (s *stubPublisher) Publish(context.Context, platform.PublishRequest) (*platform.PublishResult, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func request(platforms ...domain.Platform) Request {
	return Request{
		Platforms:     platforms,
		ComplianceAck: true,
		Product:       platform.PublishRequest{Title: "Tee", ImageDataURL: "data:image/png;base64,eA=="},
	}
}

func TestRunReturnsOneResultPerSelection(t *testing.T) {
	shopify := &stubPublisher{name: domain.PlatformShopify, configured: true, result: &platform.PublishResult{SuccessURL: "https://shop/1"}}
	printify := &stubPublisher{name: domain.PlatformPrintify, configured: true, err: errors.New("upload failed")}
	etsy := &stubPublisher{name: domain.PlatformEtsy, configured: true, result: &platform.PublishResult{SuccessURL: "https://etsy/2"}}
	o := NewOrchestrator(zerolog.Nop(), shopify, printify, etsy)

	results, err := o.Run(context.Background(), request(domain.PlatformEtsy, domain.PlatformShopify, domain.PlatformPrintify))
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	// Fixed order regardless of selection order.
	order := []domain.Platform{domain.PlatformShopify, domain.PlatformPrintify, domain.PlatformEtsy}
	for i, want := range order {
		if results[i].Platform != want {
			t.Fatalf("result %d = %s, want %s", i, results[i].Platform, want)
		}
	}
	if results[0].State != domain.PublishSucceeded || results[2].State != domain.PublishSucceeded {
		t.Fatalf("sibling failures leaked: %+v", results)
	}
	if results[1].State != domain.PublishFailed || !strings.Contains(results[1].Error, "upload failed") {
		t.Fatalf("failure not captured: %+v", results[1])
	}
	if etsy.calls != 1 {
		t.Fatalf("etsy not attempted after printify failure: %d calls", etsy.calls)
	}
}

func TestRunUnconfiguredPlatformReportsConfigMessage(t *testing.T) {
	shopify := &stubPublisher{name: domain.PlatformShopify, configured: true, result: &platform.PublishResult{}}
	etsy := &stubPublisher{name: domain.PlatformEtsy}
	o := NewOrchestrator(zerolog.Nop(), shopify, etsy)

	results, err := o.Run(context.Background(), request(domain.PlatformShopify, domain.PlatformEtsy))
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if etsy.calls != 0 {
		t.Fatal("unconfigured platform was called")
	}
	if results[1].Error != "etsy credentials missing" {
		t.Fatalf("config message not surfaced: %+v", results[1])
	}
}

func TestRunRequiresComplianceAck(t *testing.T) {
	o := NewOrchestrator(zerolog.Nop(), &stubPublisher{name: domain.PlatformShopify, configured: true})
	req := request(domain.PlatformShopify)
	req.ComplianceAck = false
	if _, err := o.Run(context.Background(), req); !errors.Is(err, domain.ErrComplianceMissing) {
		t.Fatalf("expected ErrComplianceMissing, got %v", err)
	}
}

func TestRunRequiresAtLeastOneConfiguredPlatform(t *testing.T) {
	o := NewOrchestrator(zerolog.Nop(), &stubPublisher{name: domain.PlatformShopify})
	if _, err := o.Run(context.Background(), request(domain.PlatformShopify)); !errors.Is(err, domain.ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestRunRejectsEmptyOrUnknownSelection(t *testing.T) {
	o := NewOrchestrator(zerolog.Nop(), &stubPublisher{name: domain.PlatformShopify, configured: true})
	if _, err := o.Run(context.Background(), request()); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty selection, got %v", err)
	}
	if _, err := o.Run(context.Background(), request("ebay")); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown platform, got %v", err)
	}
}

func TestStatuses(t *testing.T) {
	o := NewOrchestrator(zerolog.Nop(),
		&stubPublisher{name: domain.PlatformShopify, configured: true},
		&stubPublisher{name: domain.PlatformPrintify},
	)
	statuses := o.Statuses()
	if !statuses[domain.PlatformShopify].Configured || statuses[domain.PlatformPrintify].Configured {
		t.Fatalf("unexpected statuses: %+v", statuses)
	}
}
