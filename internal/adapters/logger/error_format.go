package logger

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// messager describes an error that can report its own message without the chain.
// This matches the Message() and Metadata() methods provided by zerr.Error.
type messager interface {
	Message() string
	Metadata() map[string]any
}

// ErrorEntry is one link of an error chain.
type ErrorEntry struct {
	Message  string         `json:"message"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// collectErrorEntries flattens an error chain into entries, outermost first.
// Joined errors contribute their branches in order. Wrappers without a message
// pass their metadata on to the next entry.
func collectErrorEntries(err error) []ErrorEntry {
	var entries []ErrorEntry
	collect(err, nil, &entries)
	return entries
}

func collect(err error, pending map[string]any, entries *[]ErrorEntry) {
	for err != nil {
		if joined, ok := err.(interface{ Unwrap() []error }); ok {
			for i, branch := range joined.Unwrap() {
				if i == 0 {
					collect(branch, pending, entries)
				} else {
					collect(branch, nil, entries)
				}
			}
			return
		}

		m, ok := err.(messager)
		if !ok {
			*entries = append(*entries, ErrorEntry{Message: err.Error(), Metadata: pending})
			return
		}

		meta := m.Metadata()
		if m.Message() == "" {
			pending = mergeMetadata(pending, meta)
			err = errors.Unwrap(err)
			continue
		}

		*entries = append(*entries, ErrorEntry{Message: m.Message(), Metadata: mergeMetadata(pending, meta)})
		pending = nil
		err = errors.Unwrap(err)
	}
}

func mergeMetadata(into, from map[string]any) map[string]any {
	if into == nil && from == nil {
		return nil
	}
	out := make(map[string]any, len(into)+len(from))
	maps.Copy(out, from)
	maps.Copy(out, into)
	return out
}

// formatErrorEntries renders entries as the main error followed by a "Caused by" list.
func formatErrorEntries(entries []ErrorEntry) string {
	var lines []string

	for i, entry := range entries {
		msgLines := strings.Split(entry.Message, "\n")

		indent := "      "
		if i == 0 {
			lines = append(lines, "Error: "+msgLines[0])
			indent = "       "
		} else {
			if i == 1 {
				lines = append(lines, "", "  Caused by:")
			}
			lines = append(lines, "    → "+msgLines[0])
		}

		for _, line := range msgLines[1:] {
			lines = append(lines, indent+line)
		}
		for _, key := range slices.Sorted(maps.Keys(entry.Metadata)) {
			lines = append(lines, fmt.Sprintf("%s%s: %v", indent, key, entry.Metadata[key]))
		}
	}

	return strings.Join(lines, "\n")
}
