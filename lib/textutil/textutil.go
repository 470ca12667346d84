package textutil

import (
	"regexp"
	"strings"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

func NormalizeName(name string) string {
	name = strings.ToLower(name)
	name = strings.Trim(name, " \n\t")
	name = whitespaceRegex.ReplaceAllString(name, "")
	return name
}

// "Label : Value" -> "Value". Labelled portal fields render the label
// and value in one element separated by the first colon.
func CleanLabelled(s string) string {
	_, after, found := strings.Cut(s, ":")
	if !found {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(after)
}

// strips a trailing percent sign from attendance figures
func StripPercent(s string) string {
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
}

// dashboard values come decorated with "|" separators
func CleanValue(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "|", ""))
}

var parenRegex = regexp.MustCompile(`[()]`)

// drops the parenthesis characters themselves, the content stays
func StripParens(s string) string {
	return strings.TrimSpace(parenRegex.ReplaceAllString(s, ""))
}

// expands the single-letter gender codes the portal uses, anything
// unrecognized passes through untouched
func ExpandGender(code string) string {
	switch strings.TrimSpace(code) {
	case "M":
		return "Male"
	case "F":
		return "Female"
	}
	return strings.TrimSpace(code)
}
