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
	"dirpx.dev/faults/apis"
	"dirpx.dev/faults/code"
)

// Option is a functional option for constructing or transforming an Error.
// It always takes an *Error and returns a (possibly new) *Error.
type Option func(*Error) *Error

// WithCodeOption sets the classification Code on the error being constructed.
// Intended to be used with E(...).
func WithCodeOption(c code.Code) Option {
	return func(e *Error) *Error {
		return e.WithCode(c)
	}
}

// WithFieldOption adds a single field/message body entry on construction.
// Intended to be used with E(...).
func WithFieldOption(field, msg string) Option {
	return func(e *Error) *Error {
		return e.WithField(field, msg)
	}
}

// WithItemsOption appends multiple body entries on construction.
// Intended to be used with E(...).
func WithItemsOption(items ...apis.Item) Option {
	return func(e *Error) *Error {
		return e.WithItems(items...)
	}
}

// WithCauseOption attaches a cause on construction.
// Intended to be used with E(...).
func WithCauseOption(err error) Option {
	return func(e *Error) *Error {
		return e.WithCause(err)
	}
}

// WithStackOption captures the construction-site stack trace.
// Intended to be used with E(...).
func WithStackOption() Option {
	return func(e *Error) *Error {
		return e.WithStack()
	}
}
