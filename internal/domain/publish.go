package domain

// Platform identifies a supported commerce destination.
type Platform string

const (
	PlatformShopify  Platform = "shopify"
	PlatformPrintify Platform = "printify"
	PlatformEtsy     Platform = "etsy"
)

// PublishOrder is the fixed iteration order for multi-platform publishing.
var PublishOrder = []Platform{PlatformShopify, PlatformPrintify, PlatformEtsy}

// KnownPlatform reports whether p names a supported platform.
func KnownPlatform(p Platform) bool {
	for _, known := range PublishOrder {
		if p == known {
			return true
		}
	}
	return false
}

// PublishState is the display status of one platform's publish attempt. The
// states are progress strings, not a shared transaction: each platform runs to
// success or failure independently.
type PublishState string

const (
	PublishIdle       PublishState = "idle"
	PublishValidating PublishState = "validating"
	PublishUploading  PublishState = "uploading"
	PublishCreating   PublishState = "creating"
	PublishSucceeded  PublishState = "success"
	PublishFailed     PublishState = "failed"
)

// PlatformResult is the per-platform outcome of a publish orchestration. It
// lives only for the lifetime of the response.
type PlatformResult struct {
	Platform   Platform     `json:"platform"`
	State      PublishState `json:"state"`
	Message    string       `json:"message,omitempty"`
	Error      string       `json:"error,omitempty"`
	SuccessURL string       `json:"success_url,omitempty"`
}

// ConfigStatus tells a caller whether a platform has the credentials it needs,
// with a human-readable reason when it does not.
type ConfigStatus struct {
	Configured bool   `json:"configured"`
	Message    string `json:"message"`
}
