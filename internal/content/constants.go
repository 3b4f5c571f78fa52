package content

// content processing limits
const (
	// MaxWindowChars bounds the content window sent to the model.
	MaxWindowChars = 40000

	// WindowLeadIn is how far the window reaches back before a section
	// marker, so the title and description survive the cut.
	WindowLeadIn = 2000

	// MaxDirectFetchChars bounds text kept from a direct page fetch.
	MaxDirectFetchChars = 15000

	// MinPlausibleText is the shortest scrape result treated as a real page
	// rather than an error stub or bot challenge.
	MinPlausibleText = 250

	// ExcerptLength is how much raw model text is kept for diagnostics.
	ExcerptLength = 300
)
