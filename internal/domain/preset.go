package domain

import (
	"fmt"
	"strings"
	"time"
)

// MerchPreset is a named, reusable prompt template describing a product
// mockup context. Built-in presets form a static catalog; custom presets are
// user-created and persisted.
type MerchPreset struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Template string `json:"template"`
	IsCustom bool   `json:"is_custom,omitempty"`
}

// BuiltinPresets is the static mockup catalog. IDs must stay unique across
// the combined built-in and custom set.
var BuiltinPresets = []MerchPreset{
	{ID: "t-shirt", Name: "T-Shirt", Template: "Create a photorealistic mockup of this design on the chest of a premium, soft cotton white t-shirt. The t-shirt should be laid flat on a clean, light gray surface with subtle, natural shadows."},
	{ID: "mug", Name: "Mug", Template: "Render this design on a glossy white ceramic coffee mug. The mockup should be photorealistic, placed on a dark wooden coffee shop table next to a window with soft, morning light creating gentle reflections."},
	{ID: "poster", Name: "Poster", Template: "Generate a photorealistic mockup of this design as a high-resolution poster inside a thin, matte black frame. The poster should be hanging on a lightly textured, off-white wall in a modern, minimalist apartment setting. The lighting should be soft and indirect, coming from a large window just out of frame. Include a softly blurred background with a hint of a vibrant green potted plant on a wooden floor, adding a touch of life to the scene."},
	{ID: "hoodie", Name: "Hoodie", Template: "Display this design on the front of a comfortable, slightly wrinkled black pullover hoodie. The mockup should show realistic fabric texture and be laid flat on a neutral, concrete-textured background."},
	{ID: "stickers", Name: "Stickers", Template: "Create a mockup of multiple die-cut vinyl stickers of this design. The stickers should have a clean white border and a glossy finish, scattered realistically on a simple, pastel-colored background."},
	{ID: "phone-case", Name: "Phone Case", Template: "Generate a mockup of this design on a sleek, matte black smartphone case (similar to an iPhone). The phone should be resting at a slight angle on a clean, minimalist desk surface next to a pair of wireless earbuds."},
	{ID: "hat", Name: "Hat", Template: "Create a photorealistic mockup of this design embroidered on the front of a classic black baseball cap. The cap should be shown from a slight front-angle view on a clean, neutral background to emphasize the design."},
	{ID: "notebook", Name: "Notebook", Template: "Generate a mockup of this design on the cover of a spiral-bound notebook. The notebook should be lying on a wooden desk next to a pen, with soft, natural lighting."},
	{ID: "tote-bag", Name: "Tote Bag", Template: "Create a photorealistic mockup of this design on a simple, minimalist canvas tote bag. The bag should be held by a person against a clean, light-colored wall, showcasing the design in a natural, lifestyle context."},
	{ID: "coloring-book", Name: "Adult Coloring Book", Template: "Convert this image into a detailed, black-and-white line art page for an adult coloring book. The final image should be presented as a crisp page in an open coloring book, with colored pencils resting nearby."},
}

// NewCustomPreset builds a user preset with a timestamp-derived id.
func NewCustomPreset(name, template string, now time.Time) (MerchPreset, error) {
	name = strings.TrimSpace(name)
	template = strings.TrimSpace(template)
	if name == "" || template == "" {
		return MerchPreset{}, fmt.Errorf("%w: preset name and template are required", ErrInvalidInput)
	}
	return MerchPreset{
		ID:       fmt.Sprintf("custom-%d", now.UnixMilli()),
		Name:     name,
		Template: template,
		IsCustom: true,
	}, nil
}

// MergePresets combines the built-in catalog with custom presets, skipping any
// custom entry whose id collides with an existing one.
func MergePresets(custom []MerchPreset) []MerchPreset {
	seen := make(map[string]struct{}, len(BuiltinPresets)+len(custom))
	merged := make([]MerchPreset, 0, len(BuiltinPresets)+len(custom))
	for _, p := range BuiltinPresets {
		seen[p.ID] = struct{}{}
		merged = append(merged, p)
	}
	for _, p := range custom {
		if _, ok := seen[p.ID]; ok {
			continue
		}
		seen[p.ID] = struct{}{}
		merged = append(merged, p)
	}
	return merged
}

// FindPreset looks an id up in the combined catalog.
func FindPreset(id string, custom []MerchPreset) (MerchPreset, bool) {
	for _, p := range MergePresets(custom) {
		if p.ID == id {
			return p, true
		}
	}
	return MerchPreset{}, false
}
