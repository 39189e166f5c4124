/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package issueform splits the body of an issue created from a GitHub issue
// form into its sections.
//
// GitHub renders every form field as a level-three markdown header followed by
// the submitted value:
//
//	### Node Version
//
//	v20.11.0
//
// A Template lists the field labels in form order. Parse locates each header
// line in that order and returns the content between consecutive headers,
// keyed by label:
//
//	sections, err := issueform.DefaultTemplate().Parse(issue.GetBody())
//	if err != nil {
//	    return err // *MalformedInputError
//	}
//	node, err := sections.Get(issueform.FieldNodeVersion)
//
// A body whose headers are missing or out of order is not something the user
// can be told to fix field by field, so Parse fails with a MalformedInputError
// instead of producing partial sections.
package issueform
