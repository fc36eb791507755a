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
	"fmt"
	"runtime/debug"

	"dirpx.dev/faults/apis"
	"dirpx.dev/faults/code"
)

// Error is the canonical declared application error.
//
// It carries:
//   - Status: the HTTP status the application chose for this error (required
//     for the error to be dispatched as declared; zero means "not declared");
//   - Code: optional normalized classification code;
//   - Message: human-oriented description (what went wrong);
//   - Items: structured body entries (field/message pairs or plain strings);
//   - Stack: optionally captured stack trace, for the logging side channel;
//   - Cause: wrapped underlying error for debugging / unwrapping.
//
// All mutation helpers (WithX) return a shallow copy, so Error instances
// can be safely shared and modified in a functional style.
type Error struct {
	// Status is the declared response status. The dispatcher honors any
	// value > 0 verbatim; a zero Status makes the error fall through to
	// the terminal catch-all.
	Status int

	// Code is an optional classification tag, e.g. "quota_exceeded".
	// Must be a normalized code from faults/code when set.
	Code code.Code

	// Message is a human-readable explanation. This is what ends up in the
	// "message" field of the response body.
	Message string

	// Items holds the structured entries for the response body. When empty,
	// the dispatcher falls back to a singleton entry holding Message.
	// The slice is treated as immutable: WithItem/WithItems always copy it.
	Items []apis.Item

	// Stack is a captured stack trace, if any. It feeds the logging summary
	// when stack exposure is enabled and never reaches the response body.
	Stack string

	// Cause holds the wrapped underlying error (if any). This is used for
	// errors.Is / errors.As and for debugging in lower layers.
	Cause error
}

// Compile-time proof that *Error satisfies the apis contracts the dispatcher
// probes for.
var (
	_ apis.StatusError = (*Error)(nil)
	_ apis.CodedError  = (*Error)(nil)
	_ apis.ItemsError  = (*Error)(nil)
	_ apis.StackError  = (*Error)(nil)
)

// E is a convenience constructor for Error.
//
// Usage:
//
//	return faults.E(http.StatusForbidden, "Access denied",
//	    faults.WithCodeOption(code.MustParse("permission_denied")),
//	    faults.WithFieldOption("role", "Role 'viewer' cannot delete records"),
//	)
//
// It always returns a *new* Error and applies all provided options in order.
func E(status int, msg string, opts ...Option) *Error {
	e := &Error{Status: status, Message: msg}
	for _, opt := range opts {
		e = opt(e)
	}
	return e
}

// Error implements the built-in error interface.
//
// The format is:
//
//	<message>
//
// or, when Code is present:
//
//	<code>: <message>
//
// This makes the error both human- and machine-scannable in logs.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Code != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return e.Message
}

// Unwrap returns the underlying cause, enabling errors.Is / errors.As chains.
func (e *Error) Unwrap() error { return e.Cause }

// StatusCode returns the declared response status. It implements
// apis.StatusError; a zero return means the error never declared one.
func (e *Error) StatusCode() int {
	if e == nil {
		return 0
	}
	return e.Status
}

// ErrorCode returns the classification code as a string, implementing
// apis.CodedError. Empty when no code was attached.
func (e *Error) ErrorCode() string {
	if e == nil {
		return ""
	}
	return e.Code.String()
}

// ErrorItems returns the structured body entries, implementing
// apis.ItemsError. Callers must treat the slice as read-only.
func (e *Error) ErrorItems() []apis.Item {
	if e == nil {
		return nil
	}
	return e.Items
}

// StackTrace returns the captured stack, implementing apis.StackError.
func (e *Error) StackTrace() string {
	if e == nil {
		return ""
	}
	return e.Stack
}

// WithStatus returns a shallow copy of e with the given declared status.
// The original error is not modified.
func (e *Error) WithStatus(status int) *Error {
	cp := *e
	cp.Status = status
	return &cp
}

// WithCode returns a shallow copy of e with the given Code set.
// The original error is not modified.
func (e *Error) WithCode(c code.Code) *Error {
	cp := *e
	cp.Code = c
	return &cp
}

// WithMessage returns a shallow copy of e with a replaced human message.
// Useful when you want to keep the Status/Code but present the message
// in a different language or context.
func (e *Error) WithMessage(msg string) *Error {
	cp := *e
	cp.Message = msg
	return &cp
}

// WithItem returns a shallow copy of e with one extra body entry appended.
//
// The method always copies the slice to preserve immutability. This prevents
// surprising modifications across goroutines or shared error values.
func (e *Error) WithItem(it apis.Item) *Error {
	cp := *e
	items := make([]apis.Item, len(cp.Items), len(cp.Items)+1)
	copy(items, cp.Items)
	cp.Items = append(items, it)
	return &cp
}

// WithItems returns a shallow copy of e with all provided entries appended,
// in order. If items is empty, the original error is returned unchanged.
func (e *Error) WithItems(items ...apis.Item) *Error {
	if len(items) == 0 {
		return e
	}
	cp := *e
	merged := make([]apis.Item, 0, len(cp.Items)+len(items))
	merged = append(merged, cp.Items...)
	merged = append(merged, items...)
	cp.Items = merged
	return &cp
}

// WithField is shorthand for WithItem(apis.Field(field, msg)).
func (e *Error) WithField(field, msg string) *Error {
	return e.WithItem(apis.Field(field, msg))
}

// WithCause returns a shallow copy of e with the given underlying cause
// attached. If err is nil, the original error is returned unchanged.
func (e *Error) WithCause(err error) *Error {
	if err == nil {
		return e
	}
	cp := *e
	cp.Cause = err
	return &cp
}

// WithStack returns a shallow copy of e with the current goroutine's stack
// captured. Call it at the failure site; the stack is only ever shown on
// the logging side channel.
func (e *Error) WithStack() *Error {
	cp := *e
	cp.Stack = string(debug.Stack())
	return &cp
}
