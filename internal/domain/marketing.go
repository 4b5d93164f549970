package domain

// ProductDetails is the AI-written marketing package for a generated product.
// It is editable by the caller before publish and never persisted on its own.
type ProductDetails struct {
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	SocialMediaCaption string   `json:"social_media_caption"`
	AdCopy             []string `json:"ad_copy"`
	Hashtags           []string `json:"hashtags"`
}

// ProductPlan is the phase-1 output of the orchestrated product flow: a
// refined image-generation prompt plus the marketing package derived from the
// user's raw idea.
type ProductPlan struct {
	ImagePrompt string         `json:"image_prompt"`
	Details     ProductDetails `json:"details"`
}

// NewsArticle is one headline extracted from a grounded-search response.
type NewsArticle struct {
	Title   string `json:"title"`
	Summary string `json:"summary"`
	URL     string `json:"url"`
}

// GroundingSource names a web source the model consulted for a grounded call.
type GroundingSource struct {
	Title string `json:"title"`
	URI   string `json:"uri"`
}
