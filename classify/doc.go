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

// Package classify provides the deterministic, immutable dispatch chain that
// turns an arbitrary error value into exactly one client-safe response.
//
// # Overview
//
// Services raise errors from many layers at once: JSON decoding, URI parsing,
// schema validation, the MongoDB driver, JWT verification, and the
// application's own declared errors. Package classify resolves any such value
// into an apis.Response (HTTP status + JSON body) in a way that is:
//
//   - total — every dispatch produces exactly one response; unrecognized
//     shapes land on a terminal catch-all;
//   - ordered — rules run in a fixed precedence; the order is a semantic
//     invariant, not an implementation accident;
//   - immutable — a Classifier is a snapshot, safe for concurrent reuse;
//   - extensible — caller-supplied handlers run strictly before the
//     built-in rules, in registration order.
//
// # Dispatch model
//
// A Classifier resolves a response in the following order:
//
//  1. caller-supplied handlers (first non-nil response wins);
//  2. the built-in rules, in fixed precedence: malformed request payload,
//     oversized payload, malformed URI, schema validation, duplicate key,
//     invalid object ID, not found, unknown field, version conflict,
//     parallel save, database connectivity, invalid token, expired token,
//     inactive token, schema-validator issues;
//  3. the declared application error (any error exposing a positive status);
//  4. the terminal catch-all (500, fixed generic body).
//
// Rule tests are independent errors.Is / errors.As probes, so an error that
// could satisfy several shapes is classified by whichever rule comes first.
//
// # Logging
//
// When error logging is enabled, the chain calls the configured logger once
// per dispatch, before any rule runs, with a fixed label and a summary of the
// error (name, code, message, and — only when stack exposure is enabled — the
// carried stack). The call is observational: its outcome is discarded, and a
// panicking logger is deliberately not recovered.
//
// Logging defaults on when the APP_ENV indicator reads "development" or
// "test", and off otherwise. The indicator is read exactly once, at
// construction, through an injected env.Reader — never from process globals
// at dispatch time.
//
// # Building a classifier
//
// A Classifier is created once and reused:
//
//	c := classify.New(
//	    classify.WithLogErrors(true),
//	    classify.WithHandlers(auditHandler),
//	)
//
//	resp := c.Classify(err, req) // never nil
//
// Malformed configuration never fails construction: nil loggers fall back to
// the default sink, nil handlers are skipped, and unknown file-config keys
// are ignored.
//
// # Diagnostics
//
// For debugging and tests, the classifier's Explain method traces which
// dispatch phase claims a given error and the statuses it resolves to, and
// the package-level Rules function describes the full built-in sequence.
// Both are intended for inspection and logging, not for stable machine
// parsing.
//
// # Immutability
//
// All user-provided inputs are copied during New. After construction, the
// Classifier does not observe further changes to the caller's slices. This
// makes it safe to share a single instance across handlers, goroutines, and
// requests.
package classify
