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

// BodyError marks an error as originating from reading or decoding the
// request body.
//
// The marker is the disambiguation signal for the malformed-payload
// classification: a JSON syntax error only maps to "invalid request payload"
// when it provably came from the body. Without the marker, syntax-class
// identity alone would over-match — a syntax error from any unrelated JSON
// source in the process would masquerade as a bad request.
//
// Wrap at the read site (httpx.DecodeJSON does this for you) and the
// classification takes care of the rest.
type BodyError struct {
	Err error
}

// FromBody wraps err with the request-body marker. A nil err returns nil.
func FromBody(err error) error {
	if err == nil {
		return nil
	}
	return &BodyError{Err: err}
}

func (e *BodyError) Error() string {
	return "request body: " + e.Err.Error()
}

// Unwrap exposes the wrapped decode error so syntax-class checks can run
// against the full chain.
func (e *BodyError) Unwrap() error { return e.Err }
