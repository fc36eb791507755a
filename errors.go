/*
   Copyright 2025 The DIRPX Authors

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package faults

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for conditions that carry no structure of their own.
// Storage layers return (or wrap) these to select the matching
// classification without importing the dispatch engine.
var (
	// ErrNotFound marks a lookup whose target record does not exist.
	// Classified as 404 not_found.
	ErrNotFound = errors.New("faults: record not found")

	// ErrUnavailable marks a failure to reach the backing database at all.
	// Classified as 503 unavailable.
	ErrUnavailable = errors.New("faults: database unavailable")
)

// Violation is one schema-validation failure: the path of the offending
// field and the human-readable reason.
type Violation struct {
	Path    string
	Message string
}

// ValidationError reports that one or more fields violated the persistence
// schema. Violations keep their declaration order; the response body lists
// them in exactly that order.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	if len(e.Violations) == 0 {
		return "validation failed"
	}
	paths := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		paths[i] = v.Path
	}
	return "validation failed: " + strings.Join(paths, ", ")
}

// Issue is one schema-validator finding: the path to the value as a segment
// sequence, plus the validator's message.
type Issue struct {
	Path    []string
	Message string
}

// IssueError reports findings from a standalone schema validator (as opposed
// to the persistence schema). Issues keep their reported order; the response
// renders each path dot-joined, with an empty path rendering as "".
type IssueError struct {
	Issues []Issue
}

func (e *IssueError) Error() string {
	if len(e.Issues) == 0 {
		return "data validation failed"
	}
	paths := make([]string, len(e.Issues))
	for i, is := range e.Issues {
		paths[i] = strings.Join(is.Path, ".")
	}
	return "data validation failed: " + strings.Join(paths, ", ")
}

// CastError reports a value that could not be cast to the type a schema path
// declares, typically a malformed object ID. Any field may be absent; the
// classification renders placeholders rather than failing.
type CastError struct {
	// Path is the schema path the cast was for, e.g. "_id".
	Path string

	// Value is the offending input value.
	Value any

	// Cause is the underlying driver or decoding error, if any.
	Cause error
}

func (e *CastError) Error() string {
	return fmt.Sprintf("cast to %q failed for value (%v)", e.Path, e.Value)
}

// Unwrap returns the underlying cause, enabling errors.Is / errors.As chains.
func (e *CastError) Unwrap() error { return e.Cause }

// UnknownFieldError reports a strict-mode violation: the payload carried a
// field the schema does not define.
type UnknownFieldError struct {
	// Path is the undeclared field's path.
	Path string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("field %q is not defined in the schema", e.Path)
}

// VersionError reports an optimistic-lock failure: the document's version
// changed between read and write.
type VersionError struct {
	// DocumentID identifies the contested document, when known.
	DocumentID string
}

func (e *VersionError) Error() string {
	if e.DocumentID == "" {
		return "document version conflict"
	}
	return fmt.Sprintf("document version conflict on %q", e.DocumentID)
}

// ParallelSaveError reports that the same document was saved more than once
// in parallel.
type ParallelSaveError struct {
	// DocumentID identifies the document, when known.
	DocumentID string
}

func (e *ParallelSaveError) Error() string {
	if e.DocumentID == "" {
		return "document saved in parallel"
	}
	return fmt.Sprintf("document %q saved in parallel", e.DocumentID)
}

// DuplicateKeyError reports a unique-index violation with the violated keys
// already extracted, for storage layers that resolve the key pattern
// themselves. Keys keep their index declaration order.
//
// Driver-native duplicate-key errors classify the same way without this
// type; use it when the driver error is out of reach.
type DuplicateKeyError struct {
	// Keys lists the violated key pattern's field names, in order.
	Keys []string

	// Cause is the underlying driver error, if any.
	Cause error
}

func (e *DuplicateKeyError) Error() string {
	if len(e.Keys) == 0 {
		return "duplicate key violation"
	}
	return "duplicate key violation: " + strings.Join(e.Keys, ", ")
}

// Unwrap returns the underlying cause, enabling errors.Is / errors.As chains.
func (e *DuplicateKeyError) Unwrap() error { return e.Cause }
