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

// RuleDescriptor is a flat, transport-friendly description of one built-in
// classification rule.
//
// This type intentionally uses strings and plain ints (not the internal Code
// value type) so that it can live in the public "apis" layer and be consumed
// by diagnostics, documentation generators and tests.
//
// The dispatch engine exposes its rule table as a slice of descriptors in
// precedence order; the order is a semantic invariant of the chain, not a
// presentation choice.
type RuleDescriptor struct {
	// Code is the canonical classification code this rule emits,
	// e.g. "duplicate_key", "token_expired".
	Code string `json:"code"`

	// HTTPStatus is the HTTP status this rule responds with. The declared
	// application error rule reports 0 here because its status comes from
	// the error value itself.
	HTTPStatus int `json:"http_status,omitempty"`

	// GRPCCode is the gRPC status code (as integer) the gRPC adapter uses
	// for this classification. A value of 0 means OK and never appears on
	// an error rule; the declared rule reports 0 for the same reason as
	// HTTPStatus.
	GRPCCode int `json:"grpc_code,omitempty"`

	// Message is the fixed response message of this rule. Rules whose
	// message comes from the error value report the empty string.
	Message string `json:"message,omitempty"`
}
