// Package recipe defines the shared types and error taxonomy of the
// extraction pipeline. Every other package depends on recipe; recipe
// depends on nothing.
package recipe

// Supported generative-model providers.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// Defaults applied during normalization when the model output is missing
// required fields.
const (
	DefaultTitle    = "Untitled Recipe"
	DefaultServings = 4
)

// Ingredient is one line of a recipe's ingredient list. Either Text or Name
// is always non-empty after normalization.
type Ingredient struct {
	Text     string `json:"text"`
	Quantity string `json:"quantity,omitempty"`
	Unit     string `json:"unit,omitempty"`
	Name     string `json:"name"`
}

// Step is a single numbered instruction. StepNumber is always a positive
// 1-based position after normalization.
type Step struct {
	Text       string `json:"text"`
	StepNumber int    `json:"stepNumber"`
}

// ExtractedRecipe is the pipeline's sole output contract.
type ExtractedRecipe struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
	// ImageBestEffort flags image hosts that tend to refuse anonymous loads
	// (social-media CDNs). The URL is kept; the caller decides how hard to try.
	ImageBestEffort bool         `json:"imageBestEffort,omitempty"`
	Servings        int          `json:"servings"`
	PrepTime        string       `json:"prepTime,omitempty"`
	CookTime        string       `json:"cookTime,omitempty"`
	Ingredients     []Ingredient `json:"ingredients"`
	Steps           []Step       `json:"steps"`
	Tags            []string     `json:"tags,omitempty"`
}

// AcquiredContent is the intermediate result of the acquisition ladder.
// It lives for a single extraction attempt and is never cached.
type AcquiredContent struct {
	RawText           string // best available page text, empty when all strategies failed
	CandidateImageURL string // platform cover image or first OG image
	SocialCaption     string // pre-framed caption/metadata block, empty when unavailable
	ScrapeSucceeded   bool   // true when RawText came from a full-page scrape
}

// ExtractionRequest is the immutable payload handed to a provider. Exactly
// one of ContentWindow and ImageBase64 is set.
type ExtractionRequest struct {
	Prompt        string
	ContentWindow string
	ImageBase64   string
	Provider      string
	Model         string
}
