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
	"errors"
	"fmt"
	"net/http"
	"strings"

	"dirpx.dev/faults/apis"
	"dirpx.dev/faults/code"
	"dirpx.dev/faults/env"
	"dirpx.dev/faults/logx"
)

const (
	// LogLabel is the label every diagnostic record is logged under.
	LogLabel = "unhandled error"

	// EnvKey is the environment variable consulted once, at construction,
	// for the logging default when WithLogErrors is not given. Values
	// "development" and "test" enable logging; everything else (including
	// absence) disables it.
	EnvKey = "APP_ENV"
)

// New builds a classifier from the given options and freezes it.
//
// Construction cannot fail: every option has a safe default and inputs are
// taken as-is, so there is no error to return. All environment reads happen
// here, never during classification.
//
// IMPORTANT: the returned classifier is immutable. Options applied to one
// New call never affect classifiers built earlier or later.
func New(opts ...Option) apis.Classifier {
	b := newBuilder()
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	return b.freeze()
}

// freeze resolves every setting to its final value and copies the mutable
// inputs, detaching the chain from the builder and from caller-held slices.
func (b *builder) freeze() *chain {
	ch := &chain{
		exposeStack: b.exposeStack,
		logger:      b.logger,
		handlers:    append([]apis.Handler(nil), b.handlers...),
	}
	if b.logErrors != nil {
		ch.logErrors = *b.logErrors
	} else {
		ch.logErrors = defaultLogErrors(b.reader)
	}
	if ch.logger == nil {
		ch.logger = logx.Default()
	}
	return ch
}

// defaultLogErrors derives the logging default from the runtime environment
// indicator: on in development and test, off everywhere else.
func defaultLogErrors(reader env.Reader) bool {
	switch reader.Getenv(EnvKey) {
	case "development", "test":
		return true
	default:
		return false
	}
}

// chain is a frozen classifier: the dispatch pipeline with every setting
// resolved. It holds no mutable state, so a single chain may serve any
// number of goroutines.
type chain struct {
	logErrors   bool
	exposeStack bool
	logger      apis.Logger
	handlers    []apis.Handler
}

var _ apis.Classifier = (*chain)(nil)

// Classify runs the dispatch pipeline and returns exactly one response.
//
// Phases, in order:
//  1. diagnostic logging, when enabled;
//  2. user handlers, in registration order, first non-nil response wins;
//  3. built-in rules, in precedence order;
//  4. self-declared statuses;
//  5. the terminal catch-all.
//
// The pipeline is total: every input, nil included, produces a failure
// response. Classify never writes anything itself and never panics on its
// own behalf — though a panicking user handler or logger propagates, since
// swallowing it would hide a bug in the caller's code.
func (ch *chain) Classify(err error, r *http.Request) *apis.Response {
	if ch.logErrors {
		ch.logger(LogLabel, summarize(err, ch.exposeStack))
	}
	resp, _ := ch.resolve(err, r)
	return resp
}

// origin records which dispatch phase produced a response, for diagnostics.
type origin struct {
	source string    // "handler", "builtin", "declared" or "fallback"
	index  int       // handler position, when source is "handler"
	rule   code.Code // matched classification, when source is "builtin"
}

// resolve walks phases 2-5 of the pipeline and reports both the response and
// where it came from. The logging phase stays in Classify: resolving is pure.
func (ch *chain) resolve(err error, r *http.Request) (*apis.Response, origin) {
	for i, h := range ch.handlers {
		if h == nil {
			continue
		}
		if resp := h(err, r); resp != nil {
			return resp, origin{source: "handler", index: i}
		}
	}
	if err != nil {
		for _, ru := range builtins {
			if items, ok := ru.match(err); ok {
				return respond(ru.c, items), origin{source: "builtin", rule: ru.c}
			}
		}
		if resp, ok := declared(err); ok {
			return resp, origin{source: "declared"}
		}
	}
	return unexpected(), origin{source: "fallback", rule: code.Unexpected}
}

// summarize projects an error into the diagnostic record handed to the
// logger. The stack is included only when stack exposure is on and the error
// carries one; a nil error yields an empty record rather than a panic.
func summarize(err error, exposeStack bool) apis.Details {
	if err == nil {
		return apis.Details{}
	}
	d := apis.Details{
		Name:    typeName(err),
		Message: err.Error(),
	}
	var coded apis.CodedError
	if errors.As(err, &coded) {
		d.Code = coded.ErrorCode()
	}
	if exposeStack {
		var stacked apis.StackError
		if errors.As(err, &stacked) {
			d.Stack = stacked.StackTrace()
		}
	}
	return d
}

// typeName renders the error's dynamic type without the pointer marker, so
// *faults.Error and faults.Error log under the same name.
func typeName(err error) string {
	return strings.TrimPrefix(fmt.Sprintf("%T", err), "*")
}
