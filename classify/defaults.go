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

package classify

import (
	"net/http"

	"dirpx.dev/faults/apis"
	"dirpx.dev/faults/code"
	"google.golang.org/grpc/codes"
)

// defaultHTTP fixes the HTTP status each classification responds with.
// These are contract values, not tunables: clients are written against them.
var defaultHTTP = map[code.Code]int{
	// Request / payload issues.
	code.InvalidPayload:  http.StatusBadRequest,            // Body claimed JSON but could not be parsed.
	code.PayloadTooLarge: http.StatusRequestEntityTooLarge, // Body exceeded the accepted size.
	code.MalformedURI:    http.StatusBadRequest,            // Undecodable URI components.

	// Data / schema issues.
	code.ValidationFailed: http.StatusBadRequest, // Fields violated the persistence schema.
	code.InvalidID:        http.StatusBadRequest, // Value not castable to the declared path type.
	code.UnknownField:     http.StatusBadRequest, // Strict mode: field absent from the schema.
	code.InvalidData:      http.StatusBadRequest, // Standalone schema validator rejected the input.

	// Storage / resource issues.
	code.DuplicateKey:    http.StatusConflict,           // Unique-index violation.
	code.NotFound:        http.StatusNotFound,           // Record does not exist.
	code.VersionConflict: http.StatusConflict,           // Optimistic-lock failure.
	code.ParallelSave:    http.StatusConflict,           // Same document saved in parallel.
	code.Unavailable:     http.StatusServiceUnavailable, // Database unreachable.

	// Token issues.
	code.TokenInvalid:   http.StatusUnauthorized, // Malformed / bad signature / bad claims.
	code.TokenExpired:   http.StatusUnauthorized, // Past exp.
	code.TokenNotActive: http.StatusUnauthorized, // Before nbf.

	// Terminal.
	code.Unexpected: http.StatusInternalServerError, // Anything unrecognized.
}

// defaultGRPC fixes the gRPC status code the gRPC adapter uses per
// classification. Values align with canonical gRPC conventions while
// preserving the distinctions the HTTP side draws (e.g. duplicate key maps
// to AlreadyExists where other 409s map to Aborted).
var defaultGRPC = map[code.Code]codes.Code{
	// Request / payload issues.
	code.InvalidPayload:  codes.InvalidArgument,
	code.PayloadTooLarge: codes.ResourceExhausted, // Message-size family in gRPC terms.
	code.MalformedURI:    codes.InvalidArgument,

	// Data / schema issues.
	code.ValidationFailed: codes.InvalidArgument,
	code.InvalidID:        codes.InvalidArgument,
	code.UnknownField:     codes.InvalidArgument,
	code.InvalidData:      codes.InvalidArgument,

	// Storage / resource issues.
	code.DuplicateKey:    codes.AlreadyExists, // Create/update clashed on identity.
	code.NotFound:        codes.NotFound,
	code.VersionConflict: codes.Aborted, // Concurrency conflict, retryable after refresh.
	code.ParallelSave:    codes.Aborted,
	code.Unavailable:     codes.Unavailable,

	// Token issues.
	code.TokenInvalid:   codes.Unauthenticated,
	code.TokenExpired:   codes.Unauthenticated,
	code.TokenNotActive: codes.Unauthenticated,

	// Terminal.
	code.Unexpected: codes.Internal,
}

// defaultMessage fixes the body's message per classification. Exact strings
// are part of the client contract.
var defaultMessage = map[code.Code]string{
	code.InvalidPayload:   "Invalid JSON payload in request",
	code.PayloadTooLarge:  "JSON payload too large",
	code.MalformedURI:     "Malformed URI",
	code.ValidationFailed: "Schema validation failed",
	code.DuplicateKey:     "Duplicate key violation",
	code.InvalidID:        "Invalid object ID",
	code.NotFound:         "Requested resource not found",
	code.UnknownField:     "Field not defined in schema",
	code.VersionConflict:  "Concurrent modification error",
	code.ParallelSave:     "Parallel save error",
	code.Unavailable:      "Database connection error",
	code.TokenInvalid:     "Invalid token",
	code.TokenExpired:     "Expired token",
	code.TokenNotActive:   "Token not active",
	code.InvalidData:      "Data validation failed",
	code.Unexpected:       "Unexpected error.",
}

// defaultDetail fixes the single text entry of the errors sequence for the
// classifications whose body is static. Rules with per-field entries build
// them from the error value instead.
var defaultDetail = map[code.Code]string{
	code.InvalidPayload:  "The request body JSON is invalid and could not be parsed",
	code.PayloadTooLarge: "The request body data exceeds the maximum size limit",
	code.MalformedURI:    "The request URL contains invalid or malformed URI components",
	code.NotFound:        "The record being accessed does not exist in the database",
	code.ParallelSave:    "The same document cannot be saved multiple times in parallel",
	code.Unavailable:     "Unable to connect to MongoDB database server. Please try again later.",
	code.TokenInvalid:    "Provided token is invalid. Please log in again.",
	code.TokenExpired:    "Your session has expired. Please log in again to refresh.",
	code.TokenNotActive:  "The token has yet to be activated. Please try again later.",
	code.Unexpected:      "An unexpected error occurred. Please try again later.",
}

// GRPCStatus resolves the gRPC status code for a classified response.
//
// Resolution order:
//  1. per-classification default (table above);
//  2. declared and handler-produced responses derive from the HTTP status;
//  3. anything else falls back by status family.
func GRPCStatus(resp *apis.Response) codes.Code {
	if resp == nil {
		return codes.Internal
	}
	if resp.Code != code.Declared {
		if c, ok := defaultGRPC[resp.Code]; ok {
			return c
		}
	}
	return httpToGRPC(resp.StatusCode)
}

// httpToGRPC maps an HTTP status onto the closest canonical gRPC code.
// Statuses outside the table fall back to Unknown, matching the usual
// HTTP-to-gRPC transcoding tables; 5xx gaps collapse to Internal.
func httpToGRPC(status int) codes.Code {
	switch status {
	case http.StatusBadRequest:
		return codes.InvalidArgument
	case http.StatusUnauthorized:
		return codes.Unauthenticated
	case http.StatusForbidden:
		return codes.PermissionDenied
	case http.StatusNotFound, http.StatusGone:
		return codes.NotFound
	case http.StatusConflict:
		return codes.Aborted
	case http.StatusPreconditionFailed:
		return codes.FailedPrecondition
	case http.StatusRequestEntityTooLarge, http.StatusTooManyRequests:
		return codes.ResourceExhausted
	case http.StatusRequestTimeout, http.StatusGatewayTimeout:
		return codes.DeadlineExceeded
	case http.StatusNotImplemented:
		return codes.Unimplemented
	case http.StatusBadGateway, http.StatusServiceUnavailable:
		return codes.Unavailable
	case http.StatusInternalServerError:
		return codes.Internal
	}
	if status >= 500 {
		return codes.Internal
	}
	return codes.Unknown
}
