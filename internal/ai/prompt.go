package ai

import (
	"fmt"
	"strings"

	"github.com/itstoasti/Snaprecipes/recipe"
)

// ExtractionPrompt is the schema contract sent to the model. It enumerates
// every output field, mandates empty arrays over key omission, and mandates
// complete ingredient/step lists.
const ExtractionPrompt = `You are a world-class recipe extraction expert. Critically analyze the provided content and meticulously extract every piece of recipe information.
Return exactly ONE valid JSON object matching this schema structure. Do not omit any keys.
{
  "title": "recipe name",
  "description": "brief description or null",
  "imageUrl": "valid url or null",
  "servings": 4,
  "prepTime": "15 min",
  "cookTime": "30 min",
  "ingredients": [
    { "text": "full ingredient line", "quantity": "string", "unit": "string", "name": "string" }
  ],
  "steps": [
    { "text": "instruction step", "stepNumber": 1 }
  ],
  "tags": ["category list"]
}

CRITICAL RULES:
1. You MUST include EVERY key from the schema above. NEVER omit 'ingredients' or 'steps'.
2. If an array is missing from the text (e.g. no step-by-step instructions exist), you MUST output an empty array: "steps": [].
3. If an ingredient list is present but instructions are missing, you MUST STILL extract the ENTIRE ingredients list!
4. NEVER truncate or abbreviate long ingredient or step lists. Extract ALL of them.
5. For 'imageUrl', critically analyze all image URLs in the content. Select the URL that MOST clearly shows the finished food dish or recipe result. DO NOT select profile pictures, logos, avatars, or images of people. If no food image is found, return null.
6. Output raw JSON ONLY. No markdown blocks.`

// FrameContent assembles the user-visible content block: the windowed page
// text (or an apology line when scraping failed), the social caption, and
// the thumbnail hint.
func FrameContent(pageURL string, acquired recipe.AcquiredContent, windowed string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Target URL: %s\n\n", pageURL)

	if windowed != "" {
		b.WriteString("Rendered webpage content:\n\n")
		b.WriteString(windowed)
	} else {
		b.WriteString("(Webpage content could not be directly extracted due to bot protections. Rely on the social metadata below if available.)")
	}

	if acquired.SocialCaption != "" {
		b.WriteString(acquired.SocialCaption)
	}

	if acquired.CandidateImageURL != "" {
		fmt.Fprintf(&b, "\n\nIMPORTANT: The original webpage's designated thumbnail image is: %s. "+
			"If you cannot find a better photo of the finished dish in the text above, you MUST use this URL as the `imageUrl`. "+
			"Note: if it is a video thumbnail with a play button, that is perfectly fine. "+
			"DO NOT attempt to remove the play button or alter the URL. Use the URL exactly as provided.",
			acquired.CandidateImageURL)
	}

	return b.String()
}
