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

package code

import (
	"bytes"
	"encoding"
	"errors"
	"regexp"
	"strings"
)

// Code is the canonical, validated representation of a classification code.
//
// It is a separate type (not a bare string) so that packages can declare
// exactly which values they accept and so that raw user input never mixes
// silently with normalized values.
//
// IMPORTANT: the classifier always emits a non-empty Code. The empty code is
// reserved for "no classification recorded" and never appears in a response
// produced by the chain.
type Code string

// MinLength and MaxLength bound the length of a canonical classification code.
//
// They are exported so that validation errors, tests, and mirroring packages
// can reference the same constraints.
const (
	// MinLength is the minimum length for a valid code. Requiring at least
	// 3 characters rules out ambiguous identifiers like "a" or "x1".
	MinLength = 3

	// MaxLength is the maximum length for a valid code. 64 characters fits
	// descriptive codes like "token_not_active" with room to spare while
	// preventing accidental unbounded strings.
	MaxLength = 64
)

const (
	// codeFmt is the canonical pattern for classification codes.
	//
	// Kept as a named constant so tests can reference it and so the regexp
	// below is visibly derived from this exact pattern.
	//
	// Pattern breakdown:
	//
	//	^ - start of string;
	//	[a-z] - first character must be a lowercase ASCII letter;
	//	[a-z0-9_]{2,63} - remaining characters are lowercase letters, digits
	//	                  or underscore; total length 3..64 (1 + 2..63);
	//	$ - end of string;
	//
	// IMPORTANT: the quantifier {2,63} is tied to MinLength / MaxLength.
	// Adjust both together.
	codeFmt = `^[a-z][a-z0-9_]{2,63}$`
)

var (
	// codeRe is precompiled so repeated validation (registries, hot paths)
	// does not pay the compilation cost per call.
	//
	// Valid: "not_found", "duplicate_key", "unexpected".
	// Invalid: "NotFound" (uppercase), "not-found" (dash), "x" (too short),
	// "4xx" (does not start with a letter).
	codeRe = regexp.MustCompile(codeFmt)
)

var (
	// ErrCodeInvalid is returned when a value cannot be parsed or validated
	// as a classification code.
	//
	// A dedicated sentinel lets callers and tests distinguish "bad code
	// format" from unrelated failures.
	ErrCodeInvalid = errors.New("faults: invalid code")
)

// Code round-trips through text so it can sit inside config or API structs.
var (
	_ encoding.TextMarshaler   = (*Code)(nil)
	_ encoding.TextUnmarshaler = (*Code)(nil)
)

// Empty is the zero-value code, meaning "not provided". It is valid to store
// in error structs; callers that require a canonical code should call Validate.
var Empty Code = ""

// Parse normalizes and validates a user-provided string, returning the
// canonical Code on success.
func Parse(s string) (Code, error) {
	s = Normalize(s)
	if err := validate(s); err != nil {
		return Empty, err
	}
	return Code(s), nil
}

// MustParse is the panic-on-error variant of Parse, for package-level var
// blocks and init-time declarations.
func MustParse(s string) Code {
	c, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Normalize brings an arbitrary string closer to canonical code form.
//
// It is intentionally conservative and only performs obvious, non-lossy
// transformations:
//
//   - trims surrounding spaces;
//   - lowercases the value;
//   - replaces '-' with '_';
//
// The result is NOT guaranteed valid — callers should still Parse/Validate.
func Normalize(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, "-", "_")
	return s
}

// Validate reports whether the provided Code is canonical. The empty code is
// invalid.
func Validate(c Code) error {
	return validate(string(c))
}

// String returns the canonical string representation of the code.
func (c Code) String() string {
	return string(c)
}

// MarshalText implements encoding.TextMarshaler. It refuses to marshal
// non-canonical codes.
func (c Code) MarshalText() ([]byte, error) {
	if err := Validate(c); err != nil {
		return nil, err
	}
	return []byte(c), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. The text is normalized
// and validated before assignment.
func (c *Code) UnmarshalText(text []byte) error {
	// Copy before trimming so the caller's slice is never mutated.
	s := string(bytes.TrimSpace(text))
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

func validate(s string) error {
	if !codeRe.MatchString(s) {
		return ErrCodeInvalid
	}
	return nil
}
