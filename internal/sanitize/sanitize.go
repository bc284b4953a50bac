// Package sanitize cleans user-supplied text before it is stored. Color and
// palette names are plain text, so every tag is stripped with bluemonday's
// strict policy rather than escaped on output.
package sanitize

import (
	"encoding/base64"
	"html"
	"regexp"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

// MaxProfileImageBytes caps the decoded size of an uploaded profile image.
const MaxProfileImageBytes = 5 * 1024 * 1024

var (
	policy     *bluemonday.Policy
	policyOnce sync.Once
)

// getPolicy returns the shared strict policy, initializing it on first call.
func getPolicy() *bluemonday.Policy {
	policyOnce.Do(func() {
		policy = bluemonday.StrictPolicy()
	})
	return policy
}

var whitespaceRe = regexp.MustCompile(`\s+`)

// Name strips all markup from a user-supplied name, collapses runs of
// whitespace to a single space, and trims the result. bluemonday escapes
// the text it keeps, so entities are decoded again to store the literal
// characters the user typed ("Salt & Pepper", not "Salt &amp; Pepper").
func Name(input string) string {
	if input == "" {
		return ""
	}
	clean := html.UnescapeString(getPolicy().Sanitize(input))
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(clean, " "))
}

// profileImageRe matches the data URLs browsers produce for raster uploads.
// SVG is excluded because it can carry script.
var profileImageRe = regexp.MustCompile(`^data:image/(png|jpeg|gif|webp);base64,([A-Za-z0-9+/]+={0,2})$`)

// ProfileImage validates a profile picture data URL. The empty string is
// valid and means "no picture". Returns false for anything that is not a
// base64 PNG, JPEG, GIF or WebP of at most MaxProfileImageBytes.
func ProfileImage(dataURL string) (string, bool) {
	if dataURL == "" {
		return "", true
	}
	m := profileImageRe.FindStringSubmatch(dataURL)
	if m == nil {
		return "", false
	}
	if base64.StdEncoding.DecodedLen(len(m[2])) > MaxProfileImageBytes+2 {
		return "", false
	}
	if _, err := base64.StdEncoding.DecodeString(m[2]); err != nil {
		return "", false
	}
	return dataURL, true
}
