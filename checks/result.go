/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package checks

// Result collects the problems found per form field, in the order the fields
// were checked.
type Result struct {
	fields   []string
	problems map[string][]string
}

// NewResult returns an empty Result.
func NewResult() *Result {
	return &Result{problems: make(map[string][]string)}
}

// Add records problems for field. Adding a field without problems marks it
// as checked.
func (r *Result) Add(field string, problems ...string) {
	if _, ok := r.problems[field]; !ok {
		r.fields = append(r.fields, field)
		r.problems[field] = []string{}
	}
	r.problems[field] = append(r.problems[field], problems...)
}

// Fields returns the checked fields in check order.
func (r *Result) Fields() []string {
	return r.fields
}

// Problems returns the problems recorded for field.
func (r *Result) Problems(field string) []string {
	return r.problems[field]
}

// All returns every problem in check order.
func (r *Result) All() []string {
	var all []string
	for _, f := range r.fields {
		all = append(all, r.problems[f]...)
	}
	return all
}

// Passed reports whether no problems were recorded.
func (r *Result) Passed() bool {
	for _, p := range r.problems {
		if len(p) > 0 {
			return false
		}
	}
	return true
}
