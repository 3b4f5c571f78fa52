package recipe

import "fmt"

// ProviderConfigError means the credential for the selected provider is
// missing. Surfaced immediately, never retried.
type ProviderConfigError struct {
	Provider string
}

func (e *ProviderConfigError) Error() string {
	return fmt.Sprintf("missing API key for provider %q", e.Provider)
}

// ProviderRequestError means the upstream model call failed or returned an
// unusable body. Status and body are kept for diagnosis.
type ProviderRequestError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *ProviderRequestError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s request failed with status %d: %s", e.Provider, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("%s request failed: %s", e.Provider, e.Body)
}

// MalformedResponseError means the model text could not be parsed as JSON
// even after the repair pass. Excerpt holds the start of the raw text.
type MalformedResponseError struct {
	Excerpt string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("could not parse model response as JSON: %q", e.Excerpt)
}

// EmptyResponseError means the parsed value carried no usable recipe content.
type EmptyResponseError struct {
	Reason string
}

func (e *EmptyResponseError) Error() string {
	return "empty model response: " + e.Reason
}
