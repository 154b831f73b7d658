package generate

import "strings"

const fenceMarker = "```"

// Sanitize strips markdown code fences from model output. A leading fence line
// (bare or tagged "sql") and a matching trailing fence line are treated as
// structural delimiters and removed; the fence is parsed by line rather than
// by substring replacement so content is not corrupted. Any marker left over
// after that is dropped, keeping the invariant that sanitized text never
// contains a fence marker.
func Sanitize(raw string) string {
	text := strings.TrimSpace(raw)
	if strings.HasPrefix(text, fenceMarker) {
		text = stripEnclosingFence(text)
	}
	if strings.Contains(text, fenceMarker) {
		text = strings.ReplaceAll(text, fenceMarker, "")
	}
	return strings.TrimSpace(text)
}

func stripEnclosingFence(text string) string {
	lines := strings.Split(text, "\n")
	opening := strings.TrimSpace(lines[0])
	tag := strings.ToLower(strings.TrimPrefix(opening, fenceMarker))
	if tag == "" || tag == "sql" {
		// Fence on its own line, optionally tagged for the query language.
		lines = lines[1:]
	} else {
		// Fence glued to content ("```SELECT ..."): drop just the marker.
		lines[0] = strings.TrimPrefix(lines[0], fenceMarker)
	}
	if len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == fenceMarker {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}
