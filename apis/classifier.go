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

import "net/http"

// Classifier is an immutable, concurrency-safe view of a resolved dispatch
// chain. It turns one error value into exactly one Response.
type Classifier interface {
	// Classify walks the chain for err and returns the first match. The
	// result is never nil: unrecognized errors land on the catch-all.
	//
	// r carries the request being served and is forwarded to custom
	// handlers; it MAY be nil when classification happens outside an HTTP
	// exchange (e.g. under the gRPC adapter). Implementations and handlers
	// must tolerate a nil request.
	Classify(err error, r *http.Request) *Response

	// Explain returns a human-readable description of how err would be
	// classified: which phase matched and the resulting statuses. It runs
	// the same dispatch as Classify (custom handlers included) but never
	// logs. Diagnostic output, not machine-parsable.
	Explain(err error) string
}

// Handler is a caller-supplied classification rule. Handlers run strictly
// before the built-in rules, in registration order; the first non-nil
// Response wins and terminates the chain.
//
// Returning nil signals "not handled, continue the chain". A Handler must
// not write to any response writer itself — emission is the dispatcher's
// job, and it happens exactly once per dispatch.
type Handler func(err error, r *http.Request) *Response

// Logger is the diagnostic sink invoked before dispatch when error logging
// is enabled. The label is a fixed tag identifying the emission point;
// details summarizes the error being classified.
//
// The return-less signature is deliberate: the dispatcher discards any
// outcome. A panicking Logger is NOT recovered — broken logging should
// surface immediately rather than be swallowed.
type Logger func(label string, details Details)
