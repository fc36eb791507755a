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
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"

	"dirpx.dev/faults"
	"dirpx.dev/faults/apis"
	"dirpx.dev/faults/classify"
)

// quiet builds a handler with logging off so tests stay silent regardless of
// the ambient environment.
func quiet(opts ...classify.Option) *Handler {
	return New(append([]classify.Option{classify.WithLogErrors(false)}, opts...)...)
}

func TestServeError_WritesClassifiedResponse(t *testing.T) {
	t.Parallel()

	h := quiet()
	req := httptest.NewRequest(http.MethodGet, "/users/42", nil)
	rec := httptest.NewRecorder()

	h.ServeError(rec, req, mongo.ErrNoDocuments)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	require.JSONEq(t,
		`{"success":false,"message":"Requested resource not found","errors":["The record being accessed does not exist in the database"]}`,
		rec.Body.String())
}

func TestServeError_DeclaredError(t *testing.T) {
	t.Parallel()

	h := quiet()
	req := httptest.NewRequest(http.MethodPost, "/orders", nil)
	rec := httptest.NewRecorder()

	h.ServeError(rec, req, faults.E(422, "Cannot process entity",
		faults.WithFieldOption("state", "is not allowed")))

	assert.Equal(t, 422, rec.Code)
	require.JSONEq(t,
		`{"success":false,"message":"Cannot process entity","errors":[{"field":"state","message":"is not allowed"}]}`,
		rec.Body.String())
}

func TestServeError_CatchAllForUnknown(t *testing.T) {
	t.Parallel()

	h := quiet()
	rec := httptest.NewRecorder()
	h.ServeError(rec, httptest.NewRequest(http.MethodGet, "/", nil), errors.New("mystery"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	require.JSONEq(t,
		`{"success":false,"message":"Unexpected error.","errors":["An unexpected error occurred. Please try again later."]}`,
		rec.Body.String())
}

func TestWrap_ErrorReturnIsEmitted(t *testing.T) {
	t.Parallel()

	h := quiet()
	handler := h.Wrap(func(_ http.ResponseWriter, _ *http.Request) error {
		return mongo.ErrNoDocuments
	})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Requested resource not found")
}

func TestWrap_NilReturnLeavesResponseAlone(t *testing.T) {
	t.Parallel()

	h := quiet()
	handler := h.Wrap(func(w http.ResponseWriter, _ *http.Request) error {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"7"}`))
		return nil
	})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/users", nil))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, `{"id":"7"}`, rec.Body.String())
}

func TestWrap_StartedResponseIsNotCorrupted(t *testing.T) {
	t.Parallel()

	h := quiet()
	handler := h.Wrap(func(w http.ResponseWriter, _ *http.Request) error {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("partial"))
		return errors.New("failed halfway")
	})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stream", nil))

	// The handler's own output stands; no second body is appended.
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "partial", rec.Body.String())
}

func TestFromClassifier_NilGetsDefaultChain(t *testing.T) {
	t.Parallel()

	h := FromClassifier(nil)
	rec := httptest.NewRecorder()
	h.ServeError(rec, httptest.NewRequest(http.MethodGet, "/", nil), errors.New("x"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHandler_CustomRuleSeesRequest(t *testing.T) {
	t.Parallel()

	h := quiet(classify.WithHandlers(func(err error, r *http.Request) *apis.Response {
		if r != nil && r.URL.Path == "/legal" {
			return &apis.Response{
				StatusCode: 451,
				Body:       apis.Body{Success: false, Message: "blocked", Errors: []apis.Item{apis.Text("unavailable for legal reasons")}},
			}
		}
		return nil
	}))

	rec := httptest.NewRecorder()
	h.ServeError(rec, httptest.NewRequest(http.MethodGet, "/legal", nil), errors.New("x"))
	assert.Equal(t, 451, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeError(rec, httptest.NewRequest(http.MethodGet, "/other", nil), errors.New("x"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestClassify_DoesNotWrite(t *testing.T) {
	t.Parallel()

	h := quiet()
	resp := h.Classify(mongo.ErrNoDocuments, nil)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.NotNil(t, h.Classifier())
}
