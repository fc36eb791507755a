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

package apis

// StatusError represents an error that declares its own response status.
//
// This is the contract behind the declared-application-error classification:
// any error value that answers "which HTTP status do I deserve?" with a
// truthy (> 0) value is dispatched with exactly that status, its own message,
// and its own structured entries.
//
// A zero or negative return means "no status declared" and the error falls
// through to later classifications. Adapters must not try to "fix" values
// like 200 here — a declared status below 400 is still honored verbatim, on
// the principle that the application asked for it explicitly.
type StatusError interface {
	error

	// StatusCode returns the declared response status, or 0 when the error
	// does not declare one.
	StatusCode() int
}

// CodedError represents an error that carries a well-defined, machine-readable
// classification *code*.
//
// Codes are intended to be stable and enumerable. They feed the logging
// summary and the gRPC error details; they never appear in the client-facing
// JSON body.
//
// Implementations are expected to return a *canonicalized* code string — i.e.,
// normalized to the format enforced by the faults/code package (lowercase,
// underscores, length limits, etc.). Callers should treat unknown or empty
// codes as "no code provided".
type CodedError interface {
	error

	// ErrorCode returns the machine-readable code, or "" when none is set.
	ErrorCode() string
}

// ItemsError represents an error that exposes zero or more structured body
// entries. This is how a declared application error ships per-field messages:
// when the slice is non-empty it becomes the response's errors sequence
// verbatim; when it is empty the response falls back to a singleton entry
// holding the error's message.
//
// Implementations SHOULD return a slice that is safe to iterate over and that
// will not be modified by the callee. Returning nil is allowed and simply
// means "no entries".
type ItemsError interface {
	error

	// ErrorItems returns the structured entries of the error. May return nil.
	ErrorItems() []Item
}

// StackError represents an error that carries a captured stack trace.
//
// The stack is diagnostic material for the logging side channel only; no
// adapter may copy it into a client-facing response under any configuration.
type StackError interface {
	error

	// StackTrace returns the captured stack, or "" when none was recorded.
	StackTrace() string
}
