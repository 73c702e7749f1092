package common

import "regexp"

var errorCodePattern = regexp.MustCompile(`ERR-\d{4}-[A-Za-z0-9]+`)

// ExtractErrorCode returns the first ERR-YYYY-<code> token found in text.
// Later tokens in the same text are ignored.
func ExtractErrorCode(text string) (string, bool) {
	code := errorCodePattern.FindString(text)
	return code, code != ""
}
