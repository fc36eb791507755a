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
	"context"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/google/uuid"
)

// panicError carries a recovered panic value together with the stack captured
// at the recovery site.
//
// The wrapper deliberately stays transparent to classification: Unwrap hands
// the original error (when the panic value was one) to the recognizers, so a
// panic with a recognized or declared error classifies exactly as a returned
// one would. Only the stack is added, on the logging side channel.
type panicError struct {
	value any
	err   error
	stack []byte
}

func newPanicError(v any) *panicError {
	pe := &panicError{value: v, stack: debug.Stack()}
	if err, ok := v.(error); ok {
		pe.err = err
	}
	return pe
}

func (p *panicError) Error() string {
	if p.err != nil {
		return "panic: " + p.err.Error()
	}
	return fmt.Sprintf("panic: %v", p.value)
}

// Unwrap exposes the panicked error, if the panic value was one.
func (p *panicError) Unwrap() error { return p.err }

// StackTrace returns the stack captured where the panic was recovered.
func (p *panicError) StackTrace() string { return string(p.stack) }

// Recover returns middleware that converts panics in next into classified
// responses instead of crashing the connection's goroutine.
//
// http.ErrAbortHandler is re-panicked untouched: aborting the response is
// that value's documented contract.
func (h *Handler) Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			v := recover()
			if v == nil {
				return
			}
			if v == http.ErrAbortHandler {
				panic(v)
			}
			h.ServeError(w, r, newPanicError(v))
		}()
		next.ServeHTTP(w, r)
	})
}

// RequestIDHeader is the header RequestID consults and echoes.
const RequestIDHeader = "X-Request-ID"

type ctxKey int

const requestIDKey ctxKey = iota

// RequestID ensures every request carries an identifier: an incoming header
// value wins, otherwise a fresh UUID is minted. The identifier is echoed on
// the response and stored in the request context for handlers and loggers.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		ctx := context.WithValue(r.Context(), requestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequestIDFrom extracts the identifier RequestID stored in ctx.
func RequestIDFrom(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(requestIDKey).(string)
	return id, ok
}

// Middleware is the standard stack in one call: request identifiers on the
// outside, panic recovery inside.
func (h *Handler) Middleware(next http.Handler) http.Handler {
	return RequestID(h.Recover(next))
}
