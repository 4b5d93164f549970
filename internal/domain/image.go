package domain

// SourceImage is a user-supplied or previously generated image. It is held
// only for the lifetime of the request that carries it.
type SourceImage struct {
	Data     []byte
	MIMEType string
	Name     string
}

// GeneratedImage is one unit of generation output. Batch result order is
// insertion order and is meaningful.
type GeneratedImage struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// AspectRatios lists the aspect ratios accepted by the generation API.
var AspectRatios = []string{"1:1", "16:9", "9:16", "4:3", "3:4"}

const (
	DefaultAspectRatio = "1:1"
	MinVariations      = 1
	MaxVariations      = 4
)

// ClampVariations forces a requested variation count into the supported range.
func ClampVariations(n int) int {
	if n < MinVariations {
		return MinVariations
	}
	if n > MaxVariations {
		return MaxVariations
	}
	return n
}

// ValidAspectRatio reports whether the ratio is one the generation API accepts.
func ValidAspectRatio(ratio string) bool {
	for _, r := range AspectRatios {
		if r == ratio {
			return true
		}
	}
	return false
}

// NormalizeAspectRatio returns the ratio unchanged when valid, otherwise the
// default square ratio.
func NormalizeAspectRatio(ratio string) string {
	if ValidAspectRatio(ratio) {
		return ratio
	}
	return DefaultAspectRatio
}
