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

package httpx

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"dirpx.dev/faults"
)

// DefaultBodyLimit caps request bodies read by DecodeJSON.
const DefaultBodyLimit int64 = 1 << 20 // 1 MiB

// DecodeJSON reads the request body into v under DefaultBodyLimit.
// See DecodeJSONLimit.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	return DecodeJSONLimit(w, r, v, DefaultBodyLimit)
}

// DecodeJSONLimit reads at most limit bytes of the request body and decodes
// exactly one JSON document into v. A non-positive limit falls back to
// DefaultBodyLimit.
//
// Every failure comes back marked with body provenance, so handing it to the
// classifier yields the right client fault: malformed or empty bodies map to
// the invalid-payload response, oversized bodies to payload-too-large. The
// size cap also hardens the connection via http.MaxBytesReader.
func DecodeJSONLimit(w http.ResponseWriter, r *http.Request, v any, limit int64) error {
	if limit <= 0 {
		limit = DefaultBodyLimit
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		return faults.FromBody(err)
	}
	if dec.More() {
		// A second document (or trailing garbage) makes the body malformed
		// as a whole, even though the first document parsed.
		return faults.FromBody(fmt.Errorf("body must contain a single JSON document: %w", io.ErrUnexpectedEOF))
	}
	return nil
}
