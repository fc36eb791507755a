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

// Details is the structured summary handed to the logger before dispatch.
// This is a *view type* — small, transport-friendly, and suitable for any
// logging backend.
//
// We keep it in apis so that logger adapters and the dispatch engine can
// speak about "details" without importing each other.
//
// Every field is best-effort: a value the error does not carry stays empty
// and is omitted from serialized forms.
type Details struct {
	// Name identifies the error family, typically the dynamic Go type of
	// the error value (e.g. "faults.ValidationError", "*url.Error").
	Name string `json:"name,omitempty"`

	// Code is the error's own machine-readable code, when the error
	// declares one through the CodedError interface. This is the code the
	// error carries, which may differ from the classification the chain
	// later assigns.
	Code string `json:"code,omitempty"`

	// Message is the error's message (err.Error()).
	Message string `json:"message,omitempty"`

	// Stack is the captured stack trace. It is populated only when stack
	// exposure is enabled AND the error carries a non-empty stack. It never
	// reaches a client-facing response; the logging side channel is its
	// only outlet.
	Stack string `json:"stack,omitempty"`
}
