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

// Request / payload error codes
//
// These codes describe failures in the transported request itself: the body,
// its size, or the URI. They always map to 4xx responses.
const (
	// InvalidPayload indicates that the request body claimed to be JSON but
	// could not be parsed. Emitted only for syntax-class failures that carry
	// the request-body marker; an unrelated JSON syntax error elsewhere in
	// the process does not classify here.
	//
	// Mapped to HTTP 400.
	InvalidPayload Code = "invalid_payload"

	// PayloadTooLarge indicates that the request body exceeded the maximum
	// accepted size before it could be processed.
	//
	// Mapped to HTTP 413.
	PayloadTooLarge Code = "payload_too_large"

	// MalformedURI indicates that the request URL contains invalid or
	// undecodable URI components (bad percent-escapes, invalid host).
	//
	// Mapped to HTTP 400.
	MalformedURI Code = "malformed_uri"
)

// Data / schema error codes
//
// These codes describe values that arrived intact but violate the shape the
// application expects.
const (
	// ValidationFailed indicates that one or more fields violated the
	// persistence schema. The response carries a field/message pair per
	// violation, in declaration order.
	//
	// Mapped to HTTP 400.
	ValidationFailed Code = "validation_failed"

	// InvalidID indicates that a value could not be cast to the identifier
	// or path type the schema declares, typically a malformed object ID.
	//
	// Mapped to HTTP 400.
	InvalidID Code = "invalid_id"

	// UnknownField indicates a strict-mode violation: the payload carries a
	// field the schema does not define.
	//
	// Mapped to HTTP 400.
	UnknownField Code = "unknown_field"

	// InvalidData indicates that a schema-validator run rejected the input.
	// The response carries one entry per issue with the dotted field path.
	//
	// Mapped to HTTP 400.
	InvalidData Code = "invalid_data"
)

// Storage / resource error codes
//
// These codes describe conditions reported by the database layer.
const (
	// DuplicateKey indicates a unique-index violation (server code 11000).
	// The response carries one entry per key in the violated key pattern,
	// in insertion order.
	//
	// Mapped to HTTP 409.
	DuplicateKey Code = "duplicate_key"

	// NotFound indicates that the record being accessed does not exist.
	//
	// Mapped to HTTP 404.
	NotFound Code = "not_found"

	// VersionConflict indicates that the record was concurrently modified
	// between read and write (optimistic-lock failure on the version field).
	//
	// Mapped to HTTP 409.
	VersionConflict Code = "version_conflict"

	// ParallelSave indicates that the same document was saved multiple times
	// in parallel.
	//
	// Mapped to HTTP 409.
	ParallelSave Code = "parallel_save"

	// Unavailable indicates that the database server could not be reached:
	// network failure, server-selection timeout, or a disconnected client.
	// The technical cause travels as the error cause, never in the response.
	//
	// Mapped to HTTP 503.
	Unavailable Code = "unavailable"
)

// Token error codes
//
// These codes distinguish the three token outcomes clients handle
// differently: re-authenticate, refresh, or wait.
const (
	// TokenInvalid indicates that a token is present but fails format,
	// signature, or claims verification. Expiry and activation-time
	// failures classify separately.
	//
	// Mapped to HTTP 401.
	TokenInvalid Code = "token_invalid"

	// TokenExpired indicates that the token was otherwise valid but is past
	// its expiration time.
	//
	// Mapped to HTTP 401.
	TokenExpired Code = "token_expired"

	// TokenNotActive indicates that the token's not-before time is still in
	// the future.
	//
	// Mapped to HTTP 401.
	TokenNotActive Code = "token_not_active"
)

// Fallback codes
const (
	// Declared indicates an application error that chose its own response
	// status. The status, message, and error entries all come from the
	// error value itself.
	//
	// Mapped to the status the error declares.
	Declared Code = "declared"

	// Unexpected is the terminal catch-all for error values matching no
	// other classification. Nothing about the original error reaches the
	// client.
	//
	// Mapped to HTTP 500.
	Unexpected Code = "unexpected"
)
