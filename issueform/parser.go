/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package issueform

import (
	"fmt"
	"strings"
)

// HeaderPrefix precedes every field label in a rendered issue form.
const HeaderPrefix = "### "

// MalformedInputError reports an issue body that does not follow the form.
type MalformedInputError struct {
	Header string
	Reason string
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("malformed issue body: header %q %s", e.Header, e.Reason)
}

// Between returns the text between the first occurrence of header and the
// first occurrence of next after it, with surrounding whitespace trimmed.
func Between(body, header, next string) (string, error) {
	start := strings.Index(body, header)
	if start < 0 {
		return "", &MalformedInputError{Header: header, Reason: "not found"}
	}
	rest := body[start+len(header):]
	end := strings.Index(rest, next)
	if end < 0 {
		return "", &MalformedInputError{Header: next, Reason: fmt.Sprintf("not found after %q", header)}
	}
	return strings.TrimSpace(rest[:end]), nil
}

// Sections holds the content of each form field, keyed by label.
type Sections struct {
	labels  []string
	content map[string]string
}

// Get returns the trimmed content of the field with the given label.
func (s *Sections) Get(label string) (string, error) {
	v, ok := s.content[label]
	if !ok {
		return "", &MalformedInputError{Header: HeaderPrefix + label, Reason: "is not part of the template"}
	}
	return v, nil
}

// Labels returns the field labels in form order.
func (s *Sections) Labels() []string {
	return s.labels
}

// Parse splits body into the template's sections. Each header must appear
// on a line of its own, after the header of the previous field.
func (t *Template) Parse(body string) (*Sections, error) {
	lines := strings.Split(strings.ReplaceAll(body, "\r\n", "\n"), "\n")

	starts := make([]int, len(t.labels))
	cursor := 0
	for i, label := range t.labels {
		header := t.Header(label)
		found := -1
		for j := cursor; j < len(lines); j++ {
			if strings.TrimSpace(lines[j]) == header {
				found = j
				break
			}
		}
		if found < 0 {
			reason := "not found"
			if i > 0 {
				reason = fmt.Sprintf("not found after %q", t.Header(t.labels[i-1]))
			}
			return nil, &MalformedInputError{Header: header, Reason: reason}
		}
		starts[i] = found
		cursor = found + 1
	}

	s := &Sections{
		labels:  t.labels,
		content: make(map[string]string, len(t.labels)),
	}
	for i, label := range t.labels {
		end := len(lines)
		if i+1 < len(starts) {
			end = starts[i+1]
		}
		s.content[label] = strings.TrimSpace(strings.Join(lines[starts[i]+1:end], "\n"))
	}
	return s, nil
}
