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

// Package httpx serves classified errors over HTTP.
//
// The center is Handler: it owns one frozen classifier and emits its
// responses. Handlers written against HandlerFunc return errors instead of
// writing failure bodies themselves:
//
//	h := httpx.New(classify.WithEnv("production"))
//
//	mux.Handle("/users", h.Middleware(h.Wrap(func(w http.ResponseWriter, r *http.Request) error {
//		var in createUser
//		if err := httpx.DecodeJSON(w, r, &in); err != nil {
//			return err
//		}
//		u, err := store.Create(r.Context(), in)
//		if err != nil {
//			return err // driver errors, declared errors — all classified
//		}
//		return json.NewEncoder(w).Encode(u)
//	})))
//
// Around that sit the usual pipeline pieces: Recover turns panics into
// classified responses, RequestID threads an identifier through header and
// context, DecodeJSON marks body errors with their provenance so they rank
// as client faults, and Middleware stacks them in the conventional order.
package httpx
