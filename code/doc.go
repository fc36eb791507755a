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

// Package code provides parsing, normalization and validation for faults
// classification codes.
//
// A "code" is the machine-readable tag the classifier attaches to every
// response it produces, such as "not_found", "duplicate_key" or "unexpected".
// Codes are meant to be:
//
//   - short and stable;
//   - lowercased;
//   - underscore-separated (not dash-separated);
//   - suitable for logs, metrics labels, and gRPC error details.
//
// The classifier emits exactly one code per dispatch, drawn from the
// registry in codes.go. The empty code means "no classification recorded"
// and never appears in a produced response.
//
// This package defines the canonical representation and the functions that
// convert arbitrary user input to that canonical form.
package code
