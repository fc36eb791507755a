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
	"net/http"

	"dirpx.dev/faults/apis"
	"dirpx.dev/faults/classify"
)

// Handler turns classified errors into HTTP responses. It owns one frozen
// classifier; everything the handler emits goes through it.
type Handler struct {
	classifier apis.Classifier
}

// New builds a Handler around a classifier configured by opts. Like
// classify.New, construction cannot fail.
func New(opts ...classify.Option) *Handler {
	return &Handler{classifier: classify.New(opts...)}
}

// FromClassifier wraps an existing classifier. A nil classifier gets the
// default chain, keeping the handler total.
func FromClassifier(c apis.Classifier) *Handler {
	if c == nil {
		c = classify.New()
	}
	return &Handler{classifier: c}
}

// Classifier exposes the underlying chain, e.g. for the gRPC adapter or for
// Explain diagnostics.
func (h *Handler) Classifier() apis.Classifier { return h.classifier }

// Classify resolves err without writing anything. The request may be nil.
func (h *Handler) Classify(err error, r *http.Request) *apis.Response {
	return h.classifier.Classify(err, r)
}

// ServeError classifies err and writes the response: status line, JSON body,
// nothing else. It writes exactly once per call; pair it with Wrap when the
// handler itself may have started a response already.
func (h *Handler) ServeError(w http.ResponseWriter, r *http.Request, err error) {
	writeResponse(w, h.classifier.Classify(err, r))
}

func writeResponse(w http.ResponseWriter, resp *apis.Response) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(resp.StatusCode)
	// The body is plain strings and bools; marshaling cannot fail.
	b, _ := json.Marshal(resp.Body)
	_, _ = w.Write(b)
}

// HandlerFunc is an http handler that reports failures instead of writing
// them. Return the error and let Wrap emit the response.
type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

// Wrap adapts fn into a standard http.Handler: a nil return means fn wrote
// its own (successful) response; a non-nil return is classified and emitted.
//
// IMPORTANT: if fn both writes response data and returns an error, the
// emission is skipped — appending a second response to a started one would
// corrupt the stream. The started response stands as-is.
func (h *Handler) Wrap(fn HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ow := &observedWriter{ResponseWriter: w}
		err := fn(ow, r)
		if err == nil {
			return
		}
		if ow.wrote {
			return
		}
		h.ServeError(w, r, err)
	})
}

// observedWriter records whether any part of a response went out.
type observedWriter struct {
	http.ResponseWriter
	wrote bool
}

func (o *observedWriter) WriteHeader(status int) {
	o.wrote = true
	o.ResponseWriter.WriteHeader(status)
}

func (o *observedWriter) Write(b []byte) (int, error) {
	o.wrote = true
	return o.ResponseWriter.Write(b)
}

// Unwrap exposes the underlying writer for http.ResponseController, keeping
// flush and hijack reachable through the wrapper.
func (o *observedWriter) Unwrap() http.ResponseWriter { return o.ResponseWriter }
