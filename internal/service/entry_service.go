package service

import "strings"

type EntryInput struct {
	Name string `json:"name"`
}

// ParseEntryNames reads one participant per line in seed order. Blank lines
// are ignored.
func ParseEntryNames(raw string) []EntryInput {
	var entries []EntryInput
	for _, line := range strings.Split(raw, "\n") {
		name := strings.TrimSpace(line)
		if name == "" {
			continue
		}
		entries = append(entries, EntryInput{Name: name})
	}
	return entries
}
