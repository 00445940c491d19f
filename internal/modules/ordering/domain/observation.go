package domain

import "strings"

const observationSeparator = "\n\n---\n"

// ComposeObservations builds the final order observations from the customer's
// free-text notes and the per-line notes. It is recomputed from scratch on
// every call so edits never accumulate.
func ComposeObservations(manual string, lines []CartLine) string {
	notes := make([]string, 0, len(lines))
	for _, line := range lines {
		if note := strings.TrimSpace(line.Note); note != "" {
			notes = append(notes, note)
		}
	}
	auto := strings.Join(notes, "\n")
	manual = strings.TrimSpace(manual)

	switch {
	case manual != "" && auto != "":
		return manual + observationSeparator + auto
	case manual != "":
		return manual
	default:
		return auto
	}
}
