package doxindex

// ExtractResult holds the documentation extracted from a generated page.
type ExtractResult struct {
	// Title is the member or page title.
	Title string

	// ContentHTML is the documentation block as HTML, without page chrome.
	ContentHTML string
}

// Extractor pulls the documentation of one anchor out of a generated page.
type Extractor interface {
	// Extract returns the documentation block for anchor. An empty anchor
	// selects the main contents of the page.
	// Returns ENOTFOUND if the anchor does not exist on the page.
	Extract(html string, anchor string) (*ExtractResult, error)
}
