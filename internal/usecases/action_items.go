package usecases

import (
	"regexp"
	"strings"
)

var actionItemMarker = regexp.MustCompile(`^(\d+\.|-|\*)`)

// ParseActionItems extracts list items that follow the first line mentioning
// "action item". Heading lines themselves are never items. Numbered ("1."),
// dash and asterisk bullets count; the marker is stripped and empty items are
// dropped. The result is never nil.
func ParseActionItems(text string) []string {
	items := []string{}
	inSection := false

	for _, line := range strings.Split(text, "\n") {
		if strings.Contains(strings.ToLower(line), "action item") {
			inSection = true
			continue
		}
		if !inSection {
			continue
		}

		trimmed := strings.TrimSpace(line)
		loc := actionItemMarker.FindStringIndex(trimmed)
		if loc == nil {
			continue
		}
		if item := strings.TrimSpace(trimmed[loc[1]:]); item != "" {
			items = append(items, item)
		}
	}
	return items
}
