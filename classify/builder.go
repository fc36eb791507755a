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

package classify

import (
	"dirpx.dev/faults/apis"
	"dirpx.dev/faults/env"
)

type builder struct {
	// user-provided adjustments (resolved against defaults in New)

	// logErrors is tri-state: nil means "derive from the environment
	// indicator", a non-nil value is an explicit caller decision.
	logErrors *bool

	// exposeStack widens the logging summary with the error's stack trace.
	// It never affects the response body.
	exposeStack bool

	// logger receives the pre-dispatch summary. Nil falls back to the
	// default stderr sink.
	logger apis.Logger

	// handlers are the caller rules, kept in registration order.
	handlers []apis.Handler

	// reader supplies the environment indicator for the logErrors default.
	reader env.Reader
}

// newBuilder creates a builder with the ambient OS environment wired in.
// Everything else starts unset and resolves to defaults in New.
func newBuilder() *builder {
	return &builder{
		reader: env.OSReader{},
	}
}
