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

package adapter

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"dirpx.dev/faults"
)

// FromSchemaResult converts a gojsonschema validation result into a
// *faults.IssueError carrying one issue per schema violation, in the order
// the validator reported them. A nil or valid result converts to nil.
//
// The returned error classifies as a data-validation response, with each
// violation's dotted document path rendered as the field name.
func FromSchemaResult(result *gojsonschema.Result) error {
	if result == nil || result.Valid() {
		return nil
	}
	issues := make([]faults.Issue, 0, len(result.Errors()))
	for _, re := range result.Errors() {
		issues = append(issues, faults.Issue{
			Path:    splitField(re.Field()),
			Message: re.Description(),
		})
	}
	return &faults.IssueError{Issues: issues}
}

// splitField turns gojsonschema's dotted field context ("address.street",
// "items.0.price") into path segments. The synthetic "(root)" context means
// the violation concerns the document itself and maps to an empty path.
func splitField(field string) []string {
	if field == "" || field == "(root)" {
		return nil
	}
	return strings.Split(field, ".")
}

// ValidateBytes validates a JSON document against a JSON Schema, both
// provided as raw bytes.
//
// Violations come back as a *faults.IssueError, ready for classification.
// Failures of the validation machinery itself (unparseable schema or
// document) are reported as plain wrapped errors and fall through to the
// catch-all instead.
func ValidateBytes(schema, document []byte) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schema),
		gojsonschema.NewBytesLoader(document),
	)
	if err != nil {
		return fmt.Errorf("adapter: validate document: %w", err)
	}
	return FromSchemaResult(result)
}
