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

import (
	"encoding/json"

	"dirpx.dev/faults/code"
)

// Response is the final product of one dispatch: a transport status plus the
// client-safe body. Keeping it here (in apis) allows the HTTP and gRPC
// adapters, custom handlers and tests to share the same struct.
//
// The StatusCode is expressed in HTTP terms; the gRPC adapter derives its own
// status from Code. Code itself is a classification tag for logs and error
// details — it is NOT part of the serialized body.
type Response struct {
	// StatusCode is the HTTP status to set, always >= 400.
	StatusCode int `json:"status_code"`

	// Code is the machine-readable classification the chain assigned.
	// Implementations SHOULD store only normalized, validated codes here.
	Code code.Code `json:"code"`

	// Body is the JSON payload sent to the client.
	Body Body `json:"body"`
}

// Body is the client-facing JSON envelope.
//
// Success is always false — this system only ever handles the error path.
// The field is serialized anyway so that clients can branch on a single
// uniform envelope shape for both outcomes.
type Body struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Errors  []Item `json:"errors"`
}

// Item is one entry of the body's errors sequence. On the wire it is either
// a bare string:
//
//	"The request body JSON is invalid and could not be parsed"
//
// or a field/message object:
//
//	{"field": "email", "message": "Record with field 'email' already exists"}
//
// The two shapes are fixed per classification rule, so Item records which
// one it is at construction time. Use Text or Field to build one; the zero
// Item marshals as "".
type Item struct {
	field   string
	message string
	fielded bool
}

// Text returns an Item that marshals as a bare string.
func Text(message string) Item {
	return Item{message: message}
}

// Field returns an Item that marshals as a {"field", "message"} object.
// An empty field name still produces the object shape.
func Field(field, message string) Item {
	return Item{field: field, message: message, fielded: true}
}

// Fielded reports whether the Item marshals as a field/message object.
func (it Item) Fielded() bool {
	return it.fielded
}

// FieldName returns the field path, empty for text items.
func (it Item) FieldName() string {
	return it.field
}

// Message returns the human-readable message.
func (it Item) Message() string {
	return it.message
}

// MarshalJSON implements json.Marshaler, producing the shape selected at
// construction time.
func (it Item) MarshalJSON() ([]byte, error) {
	if !it.fielded {
		return json.Marshal(it.message)
	}
	return json.Marshal(struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	}{Field: it.field, Message: it.message})
}

var _ json.Marshaler = Item{}
