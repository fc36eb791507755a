package classify

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"google.golang.org/grpc/codes"

	"dirpx.dev/faults"
	"dirpx.dev/faults/apis"
	"dirpx.dev/faults/code"
	"dirpx.dev/faults/env"
)

// quiet builds a classifier with logging forced off so tests stay silent and
// independent of the ambient environment.
func quiet(opts ...Option) apis.Classifier {
	return New(append([]Option{WithLogErrors(false)}, opts...)...)
}

func wantStatus(t *testing.T, resp *apis.Response, status int, c code.Code, message string) {
	t.Helper()
	if resp == nil {
		t.Fatal("Classify returned nil response")
	}
	if resp.StatusCode != status || resp.Code != c || resp.Body.Message != message {
		t.Fatalf("got status=%d code=%q message=%q; want status=%d code=%q message=%q",
			resp.StatusCode, resp.Code, resp.Body.Message, status, c, message)
	}
	if resp.Body.Success {
		t.Fatalf("success must be false on every classified response")
	}
}

func wantText(t *testing.T, it apis.Item, message string) {
	t.Helper()
	if it.Fielded() || it.Message() != message {
		t.Fatalf("item = (fielded=%v, message=%q), want text %q", it.Fielded(), it.Message(), message)
	}
}

func wantField(t *testing.T, it apis.Item, field, message string) {
	t.Helper()
	if !it.Fielded() || it.FieldName() != field || it.Message() != message {
		t.Fatalf("item = (fielded=%v, field=%q, message=%q), want field=%q message=%q",
			it.Fielded(), it.FieldName(), it.Message(), field, message)
	}
}

func TestClassify_InvalidPayload_RequiresBodyProvenance(t *testing.T) {
	ch := quiet()

	var v map[string]any
	synErr := json.Unmarshal([]byte(`{"a":`), &v)
	if synErr == nil {
		t.Fatal("expected a json decode error")
	}

	// Wrapped at the body boundary → client fault.
	resp := ch.Classify(faults.FromBody(synErr), nil)
	wantStatus(t, resp, 400, code.InvalidPayload, "Invalid JSON payload in request")
	if len(resp.Body.Errors) != 1 {
		t.Fatalf("errors len = %d, want 1", len(resp.Body.Errors))
	}
	wantText(t, resp.Body.Errors[0], "The request body JSON is invalid and could not be parsed")

	// The same error without body provenance must not classify as a client
	// fault: it could come from any JSON source in the process.
	resp = ch.Classify(synErr, nil)
	wantStatus(t, resp, 500, code.Unexpected, "Unexpected error.")
}

func TestClassify_InvalidPayload_SyntaxClassVariants(t *testing.T) {
	ch := quiet()

	var target struct{ N int }
	typeErr := json.Unmarshal([]byte(`{"N":"not a number"}`), &target)
	if typeErr == nil {
		t.Fatal("expected an unmarshal type error")
	}

	tests := []struct {
		name string
		err  error
	}{
		{name: "empty body", err: faults.FromBody(io.EOF)},
		{name: "truncated body", err: faults.FromBody(io.ErrUnexpectedEOF)},
		{name: "type mismatch", err: faults.FromBody(typeErr)},
		{name: "wrapped deeper", err: fmt.Errorf("decode request: %w", faults.FromBody(io.ErrUnexpectedEOF))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := ch.Classify(tt.err, nil)
			wantStatus(t, resp, 400, code.InvalidPayload, "Invalid JSON payload in request")
		})
	}
}

func TestClassify_PayloadTooLarge(t *testing.T) {
	ch := quiet()
	err := fmt.Errorf("read body: %w", &http.MaxBytesError{Limit: 64})
	resp := ch.Classify(err, nil)
	wantStatus(t, resp, 413, code.PayloadTooLarge, "JSON payload too large")
	if len(resp.Body.Errors) != 1 {
		t.Fatalf("errors len = %d, want 1", len(resp.Body.Errors))
	}
	wantText(t, resp.Body.Errors[0], "The request body data exceeds the maximum size limit")
}

func TestClassify_MalformedURI(t *testing.T) {
	ch := quiet()

	tests := []struct {
		name string
		err  error
		hit  bool
	}{
		{name: "escape error", err: url.EscapeError("%zz"), hit: true},
		{name: "invalid host error", err: url.InvalidHostError("<"), hit: true},
		{name: "parse op", err: &url.Error{Op: "parse", URL: "://x", Err: errors.New("missing protocol scheme")}, hit: true},
		{name: "wrapped escape error", err: fmt.Errorf("route: %w", url.EscapeError("%q")), hit: true},
		// A transport failure travels in the same type; the Op guard keeps
		// it out of the client-fault classification.
		{name: "transport op", err: &url.Error{Op: "Get", URL: "http://db", Err: errors.New("connection refused")}, hit: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := ch.Classify(tt.err, nil)
			if tt.hit {
				wantStatus(t, resp, 400, code.MalformedURI, "Malformed URI")
				wantText(t, resp.Body.Errors[0], "The request URL contains invalid or malformed URI components")
			} else {
				wantStatus(t, resp, 500, code.Unexpected, "Unexpected error.")
			}
		})
	}
}

func TestClassify_ValidationFailed_PerFieldOrder(t *testing.T) {
	ch := quiet()
	err := &faults.ValidationError{Violations: []faults.Violation{
		{Path: "name", Message: "Path `name` is required."},
		{Path: "email", Message: "Path `email` is invalid."},
		{Path: "age", Message: "Path `age` must be at least 18."},
	}}
	resp := ch.Classify(err, nil)
	wantStatus(t, resp, 400, code.ValidationFailed, "Schema validation failed")
	if len(resp.Body.Errors) != 3 {
		t.Fatalf("errors len = %d, want 3", len(resp.Body.Errors))
	}
	wantField(t, resp.Body.Errors[0], "name", "Path `name` is required.")
	wantField(t, resp.Body.Errors[1], "email", "Path `email` is invalid.")
	wantField(t, resp.Body.Errors[2], "age", "Path `age` must be at least 18.")
}

func TestClassify_DuplicateKey_FromShapedError(t *testing.T) {
	ch := quiet()
	err := &faults.DuplicateKeyError{Keys: []string{"email", "tenant_id"}}
	resp := ch.Classify(err, nil)
	wantStatus(t, resp, 409, code.DuplicateKey, "Duplicate key violation")
	if len(resp.Body.Errors) != 2 {
		t.Fatalf("errors len = %d, want 2", len(resp.Body.Errors))
	}
	wantField(t, resp.Body.Errors[0], "email", "Record with field 'email' already exists")
	wantField(t, resp.Body.Errors[1], "tenant_id", "Record with field 'tenant_id' already exists")
}

// dupWriteException fabricates the driver error a unique-index violation
// produces, with the server's write-error document attached raw.
func dupWriteException(t testing.TB, keys bson.D) mongo.WriteException {
	t.Helper()
	doc := bson.D{
		{Key: "index", Value: int32(0)},
		{Key: "code", Value: int32(11000)},
		{Key: "errmsg", Value: "E11000 duplicate key error collection: app.users"},
	}
	if keys != nil {
		doc = append(doc, bson.E{Key: "keyPattern", Value: keys})
	}
	raw, err := bson.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal write error doc: %v", err)
	}
	return mongo.WriteException{WriteErrors: mongo.WriteErrors{{
		Code: 11000,
		Raw:  bson.Raw(raw),
	}}}
}

func TestClassify_DuplicateKey_FromDriverError(t *testing.T) {
	ch := quiet()

	we := dupWriteException(t, bson.D{{Key: "email", Value: int32(1)}, {Key: "created_at", Value: int32(-1)}})
	resp := ch.Classify(we, nil)
	wantStatus(t, resp, 409, code.DuplicateKey, "Duplicate key violation")
	if len(resp.Body.Errors) != 2 {
		t.Fatalf("errors len = %d, want 2", len(resp.Body.Errors))
	}
	// Key-pattern order, not lexical order.
	wantField(t, resp.Body.Errors[0], "email", "Record with field 'email' already exists")
	wantField(t, resp.Body.Errors[1], "created_at", "Record with field 'created_at' already exists")
}

func TestClassify_DuplicateKey_NoKeyPattern(t *testing.T) {
	ch := quiet()

	// A duplicate-key error whose raw document carries no keyPattern still
	// classifies; the entry list just comes out empty.
	we := dupWriteException(t, nil)
	resp := ch.Classify(we, nil)
	wantStatus(t, resp, 409, code.DuplicateKey, "Duplicate key violation")
	if resp.Body.Errors == nil || len(resp.Body.Errors) != 0 {
		t.Fatalf("errors = %v, want empty non-nil", resp.Body.Errors)
	}
	b, err := json.Marshal(resp.Body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	if !strings.Contains(string(b), `"errors":[]`) {
		t.Fatalf("body must render an empty errors array, got %s", b)
	}
}

func TestClassify_InvalidID(t *testing.T) {
	ch := quiet()

	resp := ch.Classify(&faults.CastError{Path: "author", Value: "zzz"}, nil)
	wantStatus(t, resp, 400, code.InvalidID, "Invalid object ID")
	wantField(t, resp.Body.Errors[0], "author", "Value (zzz) is not valid for author")

	// A bare driver hex error carries neither path nor value.
	resp = ch.Classify(fmt.Errorf("parse id: %w", primitive.ErrInvalidHex), nil)
	wantStatus(t, resp, 400, code.InvalidID, "Invalid object ID")
	wantField(t, resp.Body.Errors[0], "_id", "Value () is not valid for _id")
}

func TestClassify_NotFound(t *testing.T) {
	ch := quiet()
	for _, err := range []error{
		mongo.ErrNoDocuments,
		fmt.Errorf("load user: %w", mongo.ErrNoDocuments),
		faults.ErrNotFound,
	} {
		resp := ch.Classify(err, nil)
		wantStatus(t, resp, 404, code.NotFound, "Requested resource not found")
		wantText(t, resp.Body.Errors[0], "The record being accessed does not exist in the database")
	}
}

func TestClassify_UnknownField(t *testing.T) {
	ch := quiet()
	resp := ch.Classify(&faults.UnknownFieldError{Path: "nickname"}, nil)
	wantStatus(t, resp, 400, code.UnknownField, "Field not defined in schema")
	wantField(t, resp.Body.Errors[0], "nickname", "The field 'nickname' does not exist in the schema")
}

func TestClassify_VersionConflict(t *testing.T) {
	ch := quiet()
	resp := ch.Classify(&faults.VersionError{DocumentID: "650f"}, nil)
	wantStatus(t, resp, 409, code.VersionConflict, "Concurrent modification error")
	wantField(t, resp.Body.Errors[0], "_v",
		"The record being modified has been concurrently modified. Refresh and try again.")
}

func TestClassify_ParallelSave(t *testing.T) {
	ch := quiet()
	resp := ch.Classify(&faults.ParallelSaveError{}, nil)
	wantStatus(t, resp, 409, code.ParallelSave, "Parallel save error")
	wantText(t, resp.Body.Errors[0], "The same document cannot be saved multiple times in parallel")
}

func TestClassify_Unavailable(t *testing.T) {
	ch := quiet()
	for _, err := range []error{
		mongo.CommandError{Message: "dial tcp: connection refused", Labels: []string{"NetworkError"}},
		mongo.ErrClientDisconnected,
		fmt.Errorf("ping: %w", faults.ErrUnavailable),
	} {
		resp := ch.Classify(err, nil)
		wantStatus(t, resp, 503, code.Unavailable, "Database connection error")
		wantText(t, resp.Body.Errors[0], "Unable to connect to MongoDB database server. Please try again later.")
	}
}

func TestClassify_TokenRules(t *testing.T) {
	ch := quiet()

	tests := []struct {
		name    string
		err     error
		code    code.Code
		message string
		detail  string
	}{
		{
			name: "malformed", err: jwt.ErrTokenMalformed,
			code: code.TokenInvalid, message: "Invalid token",
			detail: "Provided token is invalid. Please log in again.",
		},
		{
			name: "bad signature", err: fmt.Errorf("verify: %w", jwt.ErrTokenSignatureInvalid),
			code: code.TokenInvalid, message: "Invalid token",
			detail: "Provided token is invalid. Please log in again.",
		},
		{
			name: "bad audience joined with claims sentinel",
			err:  errors.Join(jwt.ErrTokenInvalidClaims, jwt.ErrTokenInvalidAudience),
			code: code.TokenInvalid, message: "Invalid token",
			detail: "Provided token is invalid. Please log in again.",
		},
		{
			// The library folds expiry into its claims-invalid sentinel;
			// expiry must still win its own classification.
			name: "expired joined with claims sentinel",
			err:  errors.Join(jwt.ErrTokenInvalidClaims, jwt.ErrTokenExpired),
			code: code.TokenExpired, message: "Expired token",
			detail: "Your session has expired. Please log in again to refresh.",
		},
		{
			name: "expired bare", err: jwt.ErrTokenExpired,
			code: code.TokenExpired, message: "Expired token",
			detail: "Your session has expired. Please log in again to refresh.",
		},
		{
			name: "not yet valid joined with claims sentinel",
			err:  errors.Join(jwt.ErrTokenInvalidClaims, jwt.ErrTokenNotValidYet),
			code: code.TokenNotActive, message: "Token not active",
			detail: "The token has yet to be activated. Please try again later.",
		},
		{
			name: "not yet valid bare", err: jwt.ErrTokenNotValidYet,
			code: code.TokenNotActive, message: "Token not active",
			detail: "The token has yet to be activated. Please try again later.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := ch.Classify(tt.err, nil)
			wantStatus(t, resp, 401, tt.code, tt.message)
			if len(resp.Body.Errors) != 1 {
				t.Fatalf("errors len = %d, want 1", len(resp.Body.Errors))
			}
			wantText(t, resp.Body.Errors[0], tt.detail)
		})
	}
}

func TestClassify_InvalidData_PathJoin(t *testing.T) {
	ch := quiet()
	err := &faults.IssueError{Issues: []faults.Issue{
		{Path: []string{"user", "address", "zip"}, Message: "must match pattern"},
		{Path: []string{"name"}, Message: "is required"},
		{Path: nil, Message: "document is invalid"},
	}}
	resp := ch.Classify(err, nil)
	wantStatus(t, resp, 400, code.InvalidData, "Data validation failed")
	if len(resp.Body.Errors) != 3 {
		t.Fatalf("errors len = %d, want 3", len(resp.Body.Errors))
	}
	wantField(t, resp.Body.Errors[0], "user.address.zip", "must match pattern")
	wantField(t, resp.Body.Errors[1], "name", "is required")
	wantField(t, resp.Body.Errors[2], "", "document is invalid")
}

type statusErr struct {
	status int
	msg    string
}

func (e *statusErr) Error() string   { return e.msg }
func (e *statusErr) StatusCode() int { return e.status }

type httpStatusErr struct{ status int }

func (e *httpStatusErr) Error() string   { return "declared via HTTPStatus" }
func (e *httpStatusErr) HTTPStatus() int { return e.status }

type httpCodeErr struct{ status int }

func (e *httpCodeErr) Error() string { return "declared via HTTPCode" }
func (e *httpCodeErr) HTTPCode() int { return e.status }

type itemsStatusErr struct {
	status int
	msg    string
	items  []apis.Item
}

func (e *itemsStatusErr) Error() string           { return e.msg }
func (e *itemsStatusErr) StatusCode() int         { return e.status }
func (e *itemsStatusErr) ErrorItems() []apis.Item { return e.items }

func TestClassify_Declared(t *testing.T) {
	ch := quiet()

	// Package error value: status, message and entries travel together.
	resp := ch.Classify(faults.E(422, "Cannot process entity", faults.WithFieldOption("state", "is not allowed")), nil)
	wantStatus(t, resp, 422, code.Declared, "Cannot process entity")
	wantField(t, resp.Body.Errors[0], "state", "is not allowed")

	// Without entries the message doubles as the sole entry.
	resp = ch.Classify(faults.E(418, "I'm a teapot"), nil)
	wantStatus(t, resp, 418, code.Declared, "I'm a teapot")
	if len(resp.Body.Errors) != 1 {
		t.Fatalf("errors len = %d, want 1", len(resp.Body.Errors))
	}
	wantText(t, resp.Body.Errors[0], "I'm a teapot")

	// Foreign error types declaring a status under the common spellings.
	resp = ch.Classify(&statusErr{status: 402, msg: "payment required"}, nil)
	wantStatus(t, resp, 402, code.Declared, "payment required")

	resp = ch.Classify(&httpStatusErr{status: 403}, nil)
	wantStatus(t, resp, 403, code.Declared, "declared via HTTPStatus")

	resp = ch.Classify(&httpCodeErr{status: 410}, nil)
	wantStatus(t, resp, 410, code.Declared, "declared via HTTPCode")

	// A non-positive status is not a declaration.
	resp = ch.Classify(&statusErr{status: 0, msg: "zero"}, nil)
	wantStatus(t, resp, 500, code.Unexpected, "Unexpected error.")
}

func TestClassify_DeclaredForeignItems(t *testing.T) {
	ch := quiet()

	// A foreign declared error shipping its own entries: they are used
	// verbatim, not replaced by the message singleton.
	resp := ch.Classify(&itemsStatusErr{
		status: 402,
		msg:    "plan limit exceeded",
		items: []apis.Item{
			apis.Field("seats", "no seats left on the current plan"),
			apis.Field("projects", "project quota exhausted"),
		},
	}, nil)
	wantStatus(t, resp, 402, code.Declared, "plan limit exceeded")
	if len(resp.Body.Errors) != 2 {
		t.Fatalf("errors len = %d, want 2", len(resp.Body.Errors))
	}
	wantField(t, resp.Body.Errors[0], "seats", "no seats left on the current plan")
	wantField(t, resp.Body.Errors[1], "projects", "project quota exhausted")

	// Without entries the message doubles as the sole entry, exactly as for
	// the package error value.
	resp = ch.Classify(&itemsStatusErr{status: 402, msg: "plan limit exceeded"}, nil)
	wantStatus(t, resp, 402, code.Declared, "plan limit exceeded")
	if len(resp.Body.Errors) != 1 {
		t.Fatalf("errors len = %d, want 1", len(resp.Body.Errors))
	}
	wantText(t, resp.Body.Errors[0], "plan limit exceeded")
}

func TestClassify_BuiltinBeatsDeclared(t *testing.T) {
	ch := quiet()

	// The error declares 418 but wraps a recognized storage condition;
	// recognition outranks declaration.
	err := faults.E(418, "teapot storage", faults.WithCauseOption(mongo.ErrNoDocuments))
	resp := ch.Classify(err, nil)
	wantStatus(t, resp, 404, code.NotFound, "Requested resource not found")
}

func TestClassify_DuplicateKeyBeatsUnavailable(t *testing.T) {
	ch := quiet()

	// One driver error can satisfy both recognizers (duplicate-key code plus
	// a network label); table order decides.
	raw, err := bson.Marshal(bson.D{{Key: "keyPattern", Value: bson.D{{Key: "email", Value: int32(1)}}}})
	if err != nil {
		t.Fatalf("marshal raw: %v", err)
	}
	ce := mongo.CommandError{Code: 11000, Labels: []string{"NetworkError"}, Raw: bson.Raw(raw)}
	resp := ch.Classify(ce, nil)
	wantStatus(t, resp, 409, code.DuplicateKey, "Duplicate key violation")
	wantField(t, resp.Body.Errors[0], "email", "Record with field 'email' already exists")
}

func TestClassify_ValidationBeatsDuplicateKey(t *testing.T) {
	ch := quiet()

	// One chain carrying both a schema violation and a duplicate-key driver
	// error; validation sits first in the table and wins.
	err := errors.Join(
		&faults.ValidationError{Violations: []faults.Violation{{Path: "email", Message: "is required"}}},
		mongo.CommandError{Code: 11000},
	)
	resp := ch.Classify(err, nil)
	wantStatus(t, resp, 400, code.ValidationFailed, "Schema validation failed")
	wantField(t, resp.Body.Errors[0], "email", "is required")
}

func TestClassify_CustomHandlers(t *testing.T) {
	teapot := &apis.Response{
		StatusCode: 451,
		Code:       code.Declared,
		Body:       apis.Body{Success: false, Message: "blocked", Errors: []apis.Item{apis.Text("unavailable for legal reasons")}},
	}

	var order []int
	ch := quiet(WithHandlers(
		func(err error, _ *http.Request) *apis.Response {
			order = append(order, 0)
			return nil // pass
		},
		nil, // skipped
		func(err error, _ *http.Request) *apis.Response {
			order = append(order, 2)
			return teapot
		},
		func(err error, _ *http.Request) *apis.Response {
			order = append(order, 3) // never reached
			return nil
		},
	))

	// The error would match a built-in rule, but the handler gets it first.
	resp := ch.Classify(mongo.ErrNoDocuments, nil)
	if resp != teapot {
		t.Fatalf("handler response must be returned as-is")
	}
	if len(order) != 2 || order[0] != 0 || order[1] != 2 {
		t.Fatalf("handler invocation order = %v, want [0 2]", order)
	}

	// When every handler passes, dispatch continues into the built-ins.
	ch2 := quiet(WithHandlers(func(err error, _ *http.Request) *apis.Response { return nil }))
	resp = ch2.Classify(mongo.ErrNoDocuments, nil)
	wantStatus(t, resp, 404, code.NotFound, "Requested resource not found")
}

func TestClassify_HandlerReceivesRequest(t *testing.T) {
	req := &http.Request{Method: http.MethodDelete}
	var seen *http.Request
	ch := quiet(WithHandlers(func(_ error, r *http.Request) *apis.Response {
		seen = r
		return nil
	}))
	_ = ch.Classify(errors.New("x"), req)
	if seen != req {
		t.Fatalf("handler must receive the request verbatim; got %p want %p", seen, req)
	}
}

func TestClassify_Totality(t *testing.T) {
	ch := quiet()

	for _, err := range []error{nil, errors.New("mystery"), fmt.Errorf("wrapped: %w", errors.New("mystery"))} {
		resp := ch.Classify(err, nil)
		wantStatus(t, resp, 500, code.Unexpected, "Unexpected error.")
		if len(resp.Body.Errors) != 1 {
			t.Fatalf("errors len = %d, want 1", len(resp.Body.Errors))
		}
		wantText(t, resp.Body.Errors[0], "An unexpected error occurred. Please try again later.")
	}

	b, err := json.Marshal(quiet().Classify(nil, nil).Body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	want := `{"success":false,"message":"Unexpected error.","errors":["An unexpected error occurred. Please try again later."]}`
	if string(b) != want {
		t.Fatalf("catch-all body JSON:\n got %s\nwant %s", b, want)
	}
}

// recordingLogger is a concurrency-safe apis.Logger capture.
type recordingLogger struct {
	mu      sync.Mutex
	labels  []string
	details []apis.Details
}

func (r *recordingLogger) log(label string, d apis.Details) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.labels = append(r.labels, label)
	r.details = append(r.details, d)
}

func (r *recordingLogger) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.labels)
}

func TestClassify_Logging_ExplicitGate(t *testing.T) {
	rec := &recordingLogger{}
	on := New(WithLogErrors(true), WithLogger(rec.log))

	on.Classify(mongo.ErrNoDocuments, nil)
	on.Classify(nil, nil)
	if rec.count() != 2 {
		t.Fatalf("logger calls = %d, want 2 (one per dispatch, nil error included)", rec.count())
	}
	if rec.labels[0] != LogLabel {
		t.Fatalf("label = %q, want %q", rec.labels[0], LogLabel)
	}
	if rec.details[0].Name != "errors.errorString" || rec.details[0].Message != "mongo: no documents in result" {
		t.Fatalf("details = %+v, want name/message of the classified error", rec.details[0])
	}
	if rec.details[1] != (apis.Details{}) {
		t.Fatalf("nil error must log empty details, got %+v", rec.details[1])
	}

	rec2 := &recordingLogger{}
	off := New(WithLogErrors(false), WithLogger(rec2.log))
	off.Classify(mongo.ErrNoDocuments, nil)
	if rec2.count() != 0 {
		t.Fatalf("logger calls = %d, want 0 when logging is off", rec2.count())
	}
}

func TestClassify_Logging_EnvironmentDefault(t *testing.T) {
	tests := []struct {
		indicator string
		want      bool
	}{
		{indicator: "development", want: true},
		{indicator: "test", want: true},
		{indicator: "production", want: false},
		{indicator: "staging", want: false},
		{indicator: "", want: false},
		{indicator: "Development", want: false}, // exact match only
	}
	for _, tt := range tests {
		t.Run("env "+tt.indicator, func(t *testing.T) {
			rec := &recordingLogger{}
			ch := New(WithEnv(tt.indicator), WithLogger(rec.log))
			ch.Classify(errors.New("x"), nil)
			if got := rec.count() == 1; got != tt.want {
				t.Fatalf("indicator %q: logged=%v, want %v", tt.indicator, got, tt.want)
			}
		})
	}
}

func TestClassify_Logging_RunsBeforeHandlers(t *testing.T) {
	rec := &recordingLogger{}
	ch := New(
		WithLogErrors(true),
		WithLogger(rec.log),
		WithHandlers(func(error, *http.Request) *apis.Response {
			return &apis.Response{StatusCode: 400, Body: apis.Body{Message: "handled"}}
		}),
	)
	ch.Classify(errors.New("x"), nil)
	if rec.count() != 1 {
		t.Fatalf("logger calls = %d, want 1 even when a handler matches", rec.count())
	}
}

func TestClassify_Logging_StackExposure(t *testing.T) {
	withStack := faults.E(500, "boom", faults.WithStackOption())

	rec := &recordingLogger{}
	hidden := New(WithLogErrors(true), WithLogger(rec.log), WithExposeStack(false))
	hidden.Classify(withStack, nil)
	if rec.details[0].Stack != "" {
		t.Fatalf("stack must stay out of details when exposure is off")
	}

	rec2 := &recordingLogger{}
	shown := New(WithLogErrors(true), WithLogger(rec2.log), WithExposeStack(true))
	resp := shown.Classify(withStack, nil)
	if rec2.details[0].Stack == "" {
		t.Fatalf("stack must reach details when exposure is on")
	}

	// Exposure never widens the response body.
	b, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshal response: %v", err)
	}
	if strings.Contains(string(b), "goroutine") {
		t.Fatalf("stack leaked into the response body: %s", b)
	}
}

func TestClassify_LoggerPanicPropagates(t *testing.T) {
	ch := New(
		WithLogErrors(true),
		WithLogger(func(string, apis.Details) { panic("broken sink") }),
	)
	defer func() {
		if recover() == nil {
			t.Fatal("a panicking logger must not be swallowed")
		}
	}()
	ch.Classify(errors.New("x"), nil)
}

// countingReader counts environment lookups.
type countingReader struct {
	n int
	v string
}

func (c *countingReader) Getenv(string) string {
	c.n++
	return c.v
}

func TestNew_EnvironmentReadOnce(t *testing.T) {
	cr := &countingReader{v: "development"}
	rec := &recordingLogger{}
	ch := New(WithEnvReader(cr), WithLogger(rec.log))
	if cr.n != 1 {
		t.Fatalf("env reads after New = %d, want 1", cr.n)
	}
	for i := 0; i < 100; i++ {
		ch.Classify(errors.New("x"), nil)
	}
	if cr.n != 1 {
		t.Fatalf("env reads after dispatches = %d, want still 1", cr.n)
	}

	// An explicit decision makes the environment irrelevant.
	cr2 := &countingReader{v: "development"}
	_ = New(WithLogErrors(false), WithEnvReader(cr2))
	if cr2.n != 0 {
		t.Fatalf("env reads with explicit WithLogErrors = %d, want 0", cr2.n)
	}

	var _ env.Reader = cr
}

func TestClassify_ResponsesAreIndependent(t *testing.T) {
	ch := quiet()
	a := ch.Classify(mongo.ErrNoDocuments, nil)
	b := ch.Classify(mongo.ErrNoDocuments, nil)
	if a == b {
		t.Fatal("each dispatch must yield a fresh response")
	}
	a.Body.Message = "mutated"
	a.Body.Errors[0] = apis.Text("mutated")
	if b.Body.Message != "Requested resource not found" {
		t.Fatalf("mutating one response leaked into another: %q", b.Body.Message)
	}
	wantText(t, b.Body.Errors[0], "The record being accessed does not exist in the database")
}

func TestExplain_Sources(t *testing.T) {
	ch := quiet()

	exp := ch.Explain(mongo.ErrNoDocuments)
	for _, frag := range []string{`source=builtin`, `code="not_found"`, "http: 404", "grpc: NOTFOUND(5)"} {
		if !strings.Contains(exp, frag) {
			t.Fatalf("Explain must include %q:\n%s", frag, exp)
		}
	}

	exp = ch.Explain(faults.E(422, "cannot process"))
	for _, frag := range []string{`source=declared`, "http: 422"} {
		if !strings.Contains(exp, frag) {
			t.Fatalf("Explain must include %q:\n%s", frag, exp)
		}
	}

	exp = ch.Explain(errors.New("mystery"))
	for _, frag := range []string{`source=fallback`, `code="unexpected"`, "http: 500", "grpc: INTERNAL(13)"} {
		if !strings.Contains(exp, frag) {
			t.Fatalf("Explain must include %q:\n%s", frag, exp)
		}
	}

	handled := quiet(WithHandlers(
		func(error, *http.Request) *apis.Response { return nil },
		func(error, *http.Request) *apis.Response {
			return &apis.Response{StatusCode: 451, Body: apis.Body{Message: "blocked"}}
		},
	))
	exp = handled.Explain(errors.New("x"))
	if !strings.Contains(exp, "source=handler index=1") {
		t.Fatalf("Explain must attribute the matching handler:\n%s", exp)
	}
}

func TestRules_DescribesFullSequence(t *testing.T) {
	rules := Rules()
	if len(rules) != len(builtins)+2 {
		t.Fatalf("rules len = %d, want %d", len(rules), len(builtins)+2)
	}
	first := rules[0]
	if first.Code != "invalid_payload" || first.HTTPStatus != 400 {
		t.Fatalf("first rule = %+v, want invalid_payload/400", first)
	}
	declaredAt := rules[len(rules)-2]
	if declaredAt.Code != "declared" || declaredAt.HTTPStatus != 0 || declaredAt.Message != "" {
		t.Fatalf("declared descriptor = %+v, want zero statuses", declaredAt)
	}
	last := rules[len(rules)-1]
	if last.Code != "unexpected" || last.HTTPStatus != 500 || last.GRPCCode != int(codes.Internal) {
		t.Fatalf("terminal descriptor = %+v", last)
	}

	// Mutating the returned slice must not poison later calls.
	rules[0].HTTPStatus = 999
	if Rules()[0].HTTPStatus != 400 {
		t.Fatal("Rules must return an independent slice")
	}
}

func TestGRPCStatus_Resolution(t *testing.T) {
	ch := quiet()

	tests := []struct {
		name string
		resp *apis.Response
		want codes.Code
	}{
		{name: "nil response", resp: nil, want: codes.Internal},
		{name: "builtin not found", resp: ch.Classify(mongo.ErrNoDocuments, nil), want: codes.NotFound},
		{name: "builtin payload too large", resp: ch.Classify(&http.MaxBytesError{Limit: 1}, nil), want: codes.ResourceExhausted},
		{name: "builtin duplicate key", resp: ch.Classify(&faults.DuplicateKeyError{}, nil), want: codes.AlreadyExists},
		{name: "declared mapped family", resp: ch.Classify(faults.E(404, "gone"), nil), want: codes.NotFound},
		{name: "declared odd status", resp: ch.Classify(faults.E(418, "teapot"), nil), want: codes.Unknown},
		{name: "foreign code falls back by status", resp: &apis.Response{StatusCode: 503, Code: code.Code("custom_thing")}, want: codes.Unavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GRPCStatus(tt.resp); got != tt.want {
				t.Fatalf("GRPCStatus = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConcurrency_Classify(t *testing.T) {
	ch := New(
		WithLogErrors(true),
		WithLogger((&recordingLogger{}).log),
		WithHandlers(func(err error, _ *http.Request) *apis.Response { return nil }),
	)
	we := dupWriteException(t, bson.D{{Key: "email", Value: int32(1)}})
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 2000; j++ {
				_ = ch.Classify(mongo.ErrNoDocuments, nil)
				_ = ch.Classify(we, nil)
				_ = ch.Classify(nil, nil)
				_ = ch.Classify(faults.E(422, "cannot process"), nil)
			}
		}()
	}
	wg.Wait()
}

func BenchmarkClassify_BuiltinHit(t *testing.B) {
	ch := quiet()
	t.ReportAllocs()
	for i := 0; i < t.N; i++ {
		_ = ch.Classify(mongo.ErrNoDocuments, nil)
	}
}

func BenchmarkClassify_DriverDuplicateKey(t *testing.B) {
	ch := quiet()
	we := dupWriteException(t, bson.D{{Key: "email", Value: int32(1)}})
	t.ReportAllocs()
	for i := 0; i < t.N; i++ {
		_ = ch.Classify(we, nil)
	}
}

func BenchmarkClassify_Declared(t *testing.B) {
	ch := quiet()
	err := faults.E(422, "cannot process")
	t.ReportAllocs()
	for i := 0; i < t.N; i++ {
		_ = ch.Classify(err, nil)
	}
}

func BenchmarkClassify_Fallback(t *testing.B) {
	ch := quiet()
	err := errors.New("mystery")
	t.ReportAllocs()
	for i := 0; i < t.N; i++ {
		_ = ch.Classify(err, nil)
	}
}

// Ensure the frozen chain implements apis.Classifier.
func TestChain_InterfaceSatisfaction(t *testing.T) {
	var _ apis.Classifier = (*chain)(nil)
}
