package studio

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/Krosebrook/AIGenerateToStorefront/internal/domain"
	"github.com/Krosebrook/AIGenerateToStorefront/internal/providers/copywriter"
	"github.com/Krosebrook/AIGenerateToStorefront/internal/providers/genai"
)

type stubImages struct {
	mu        sync.Mutex
	edits     []string
	generates []string
	editFn    func(prompt string) (string, error)
	genFn     func(prompt string, n int) ([]string, error)
}

func (s *stubImages) EditImage(_ context.Context, _ domain.SourceImage, prompt string, _ genai.EditOptions) (string, error) {
	s.mu.Lock()
	s.edits = append(s.edits, prompt)
	s.mu.Unlock()
	if s.editFn != nil {
		return s.editFn(prompt)
	}
	return "data:image/png;base64," + prompt, nil
}

func (s *stubImages) GenerateImages(_ context.Context, prompt string, n int, _ genai.GenerateOptions) ([]string, error) {
	s.mu.Lock()
	s.generates = append(s.generates, prompt)
	s.mu.Unlock()
	if s.genFn != nil {
		return s.genFn(prompt, n)
	}
	urls := make([]string, n)
	for i := range urls {
		urls[i] = fmt.Sprintf("data:image/png;base64,%s-%d", prompt, i)
	}
	return urls, nil
}

type stubPlanner struct {
	plan *domain.ProductPlan
	err  error
}

func (s *stubPlanner) PlanProduct(context.Context, string, copywriter.PlanHints) (*domain.ProductPlan, error) {
	return s.plan, s.err
}

func newTestService(images *stubImages, planner Planner) *Service {
	return NewService(images, planner, zerolog.Nop())
}

func sourceImage() *domain.SourceImage {
	return &domain.SourceImage{Data: []byte("design"), MIMEType: "image/png", Name: "design.png"}
}

func TestRunBatchCustomPromptMakesExactlyOneCall(t *testing.T) {
	images := &stubImages{}
	svc := newTestService(images, nil)

	result, err := svc.RunBatch(context.Background(), BatchRequest{
		Source:       sourceImage(),
		CustomPrompt: "a glowing owl",
	}, nil)
	if err != nil {
		t.Fatalf("RunBatch error: %v", err)
	}
	if len(images.edits) != 1 || len(images.generates) != 0 {
		t.Fatalf("expected exactly one edit call, got edits=%d generates=%d", len(images.edits), len(images.generates))
	}
	if len(result.Images) != 1 || result.Images[0].Name != "Custom Edit" {
		t.Fatalf("unexpected result: %+v", result.Images)
	}
	if result.Status != domain.BatchSucceeded {
		t.Fatalf("status = %s", result.Status)
	}
}

func TestRunBatchContinuesPastFailedUnit(t *testing.T) {
	images := &stubImages{editFn: func(prompt string) (string, error) {
		if strings.Contains(prompt, "mug") {
			return "", errors.New("boom")
		}
		return "url-" + prompt, nil
	}}
	svc := newTestService(images, nil)

	presets := []domain.MerchPreset{
		{ID: "t-shirt", Name: "T-Shirt", Template: "shirt prompt"},
		{ID: "mug", Name: "Mug", Template: "mug prompt"},
		{ID: "poster", Name: "Poster", Template: "poster prompt"},
	}
	var updates []domain.Progress
	result, err := svc.RunBatch(context.Background(), BatchRequest{Source: sourceImage(), Presets: presets}, func(p domain.Progress) {
		updates = append(updates, p)
	})
	if err != nil {
		t.Fatalf("RunBatch error: %v", err)
	}
	if len(result.Images) != 2 {
		t.Fatalf("expected 2 results, got %d", len(result.Images))
	}
	if result.Images[0].Name != "T-Shirt" || result.Images[1].Name != "Poster" {
		t.Fatalf("order not preserved: %+v", result.Images)
	}
	if result.Status != domain.BatchPartial || len(result.Failed) != 1 {
		t.Fatalf("partial failure not flagged: status=%s failed=%v", result.Status, result.Failed)
	}
	if len(updates) != 3 || updates[2].Current != 3 || updates[2].Total != 3 {
		t.Fatalf("progress updates wrong: %+v", updates)
	}
}

func TestRunBatchAllUnitsFailing(t *testing.T) {
	images := &stubImages{editFn: func(string) (string, error) { return "", errors.New("down") }}
	svc := newTestService(images, nil)

	result, err := svc.RunBatch(context.Background(), BatchRequest{Source: sourceImage(), CustomPrompt: "x"}, nil)
	if err != nil {
		t.Fatalf("RunBatch error: %v", err)
	}
	if result.Status != domain.BatchFailed || len(result.Images) != 0 {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestRunBatchGenerateModeClampsVariations(t *testing.T) {
	images := &stubImages{}
	svc := newTestService(images, nil)

	result, err := svc.RunBatch(context.Background(), BatchRequest{
		GeneratePrompt: "an owl",
		Variations:     9,
	}, nil)
	if err != nil {
		t.Fatalf("RunBatch error: %v", err)
	}
	if len(images.generates) != 4 {
		t.Fatalf("expected 4 generation calls, got %d", len(images.generates))
	}
	if result.Images[0].Name != "Variation 1" || result.Images[3].Name != "Variation 4" {
		t.Fatalf("variation names wrong: %+v", result.Images)
	}
}

func TestRunBatchPresetsRequireSourceImage(t *testing.T) {
	svc := newTestService(&stubImages{}, nil)
	_, err := svc.RunBatch(context.Background(), BatchRequest{
		Presets: []domain.MerchPreset{{ID: "mug", Name: "Mug", Template: "p"}},
	}, nil)
	if !errors.Is(err, domain.ErrMissingImage) {
		t.Fatalf("expected ErrMissingImage, got %v", err)
	}
}

func TestRunBatchEmptyRequest(t *testing.T) {
	svc := newTestService(&stubImages{}, nil)
	if _, err := svc.RunBatch(context.Background(), BatchRequest{}, nil); !errors.Is(err, domain.ErrEmptyPrompt) {
		t.Fatalf("expected ErrEmptyPrompt, got %v", err)
	}
}

func TestOrchestrateProductRunsPhasesInSequence(t *testing.T) {
	images := &stubImages{}
	planner := &stubPlanner{plan: &domain.ProductPlan{
		ImagePrompt: "a detailed glowing owl in a nebula",
		Details:     domain.ProductDetails{Title: "Nebula Owl"},
	}}
	svc := newTestService(images, planner)

	result, err := svc.OrchestrateProduct(context.Background(), OrchestrateRequest{Idea: "space owl", Variations: 2})
	if err != nil {
		t.Fatalf("OrchestrateProduct error: %v", err)
	}
	if len(images.generates) != 1 || images.generates[0] != "a detailed glowing owl in a nebula" {
		t.Fatalf("refined prompt not used: %v", images.generates)
	}
	if len(result.Images) != 2 || result.Plan.Details.Title != "Nebula Owl" {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestOrchestrateProductAbortsWithoutPlan(t *testing.T) {
	images := &stubImages{}
	planner := &stubPlanner{err: domain.ErrNoPlan}
	svc := newTestService(images, planner)

	_, err := svc.OrchestrateProduct(context.Background(), OrchestrateRequest{Idea: "space owl"})
	if !errors.Is(err, domain.ErrNoPlan) {
		t.Fatalf("expected ErrNoPlan, got %v", err)
	}
	if len(images.generates) != 0 {
		t.Fatal("generation ran despite failed plan")
	}
}

func TestMarketingVisualsFanOut(t *testing.T) {
	images := &stubImages{}
	svc := newTestService(images, nil)

	results, err := svc.MarketingVisuals(context.Background(), *sourceImage(), nil)
	if err != nil {
		t.Fatalf("MarketingVisuals error: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 visuals, got %d", len(results))
	}
	want := []string{"Instagram Post", "Facebook Ad", "Pinterest Pin"}
	for i, name := range want {
		if results[i].Name != name {
			t.Fatalf("result %d = %s, want %s", i, results[i].Name, name)
		}
	}
}

func TestColorVariationsFailWholeOperation(t *testing.T) {
	images := &stubImages{editFn: func(prompt string) (string, error) {
		if strings.Contains(prompt, "cool") {
			return "", errors.New("down")
		}
		return "url", nil
	}}
	svc := newTestService(images, nil)

	_, err := svc.ColorVariations(context.Background(), *sourceImage(), nil)
	if err == nil || !strings.Contains(err.Error(), "Cool Palette") {
		t.Fatalf("expected whole-operation failure, got %v", err)
	}
}
