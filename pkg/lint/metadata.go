package lint

import (
	"fmt"
	"strings"
)

// DefaultDocsBaseURL is the hosted documentation site.
const DefaultDocsBaseURL = "https://docsniff.dev/docs/rules"

// DocsBaseURL can be overridden via config for local/offline mode.
var DocsBaseURL = DefaultDocsBaseURL

// BuildDocURL constructs a documentation URL for a rule.
func BuildDocURL(ruleID string) string {
	return fmt.Sprintf("%s/%s", DocsBaseURL, strings.ToLower(ruleID))
}

// SetDocsBaseURL overrides the default documentation base URL.
// Useful for offline mode or custom documentation sites.
func SetDocsBaseURL(url string) {
	DocsBaseURL = strings.TrimSuffix(url, "/")
}

// ResetDocsBaseURL resets to the default documentation URL.
func ResetDocsBaseURL() {
	DocsBaseURL = DefaultDocsBaseURL
}
