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
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"dirpx.dev/faults"
	"dirpx.dev/faults/apis"
	"dirpx.dev/faults/code"
)

// rule couples a classification with its recognizer. A recognizer inspects
// the full error chain and, on a match, returns the per-error entries for the
// response body. A nil entry slice means "use the classification's fixed
// detail text".
type rule struct {
	c     code.Code
	match func(err error) ([]apis.Item, bool)
}

// builtins is the fixed recognition sequence. Order is the precedence
// contract: the first matching rule wins, so more specific conditions sit
// above the broader ones they would otherwise be shadowed by (duplicate key
// above generic storage failures, token expiry above generic token
// invalidity via the exclusion inside matchTokenInvalid).
//
// IMPORTANT: this table is consulted after user handlers and is never
// mutated at runtime. Extending it is a code change, not configuration.
var builtins = []rule{
	{code.InvalidPayload, matchInvalidPayload},
	{code.PayloadTooLarge, matchPayloadTooLarge},
	{code.MalformedURI, matchMalformedURI},
	{code.ValidationFailed, matchValidationFailed},
	{code.DuplicateKey, matchDuplicateKey},
	{code.InvalidID, matchInvalidID},
	{code.NotFound, matchNotFound},
	{code.UnknownField, matchUnknownField},
	{code.VersionConflict, matchVersionConflict},
	{code.ParallelSave, matchParallelSave},
	{code.Unavailable, matchUnavailable},
	{code.TokenInvalid, matchTokenInvalid},
	{code.TokenExpired, matchTokenExpired},
	{code.TokenNotActive, matchTokenNotActive},
	{code.InvalidData, matchInvalidData},
}

// respond assembles the response for a built-in classification from the
// default tables. Entries arriving nil fall back to the classification's
// fixed detail text; entries arriving empty stay empty.
func respond(c code.Code, items []apis.Item) *apis.Response {
	if items == nil {
		if detail, ok := defaultDetail[c]; ok {
			items = []apis.Item{apis.Text(detail)}
		} else {
			items = []apis.Item{}
		}
	}
	return &apis.Response{
		StatusCode: defaultHTTP[c],
		Code:       c,
		Body: apis.Body{
			Success: false,
			Message: defaultMessage[c],
			Errors:  items,
		},
	}
}

// matchInvalidPayload recognizes a JSON decode failure that provably came
// from the request body: a syntax-class error inside a faults.BodyError
// wrapper. Syntax-class identity alone is not enough — without the wrapper a
// JSON error from any other source would misclassify as a client fault.
func matchInvalidPayload(err error) ([]apis.Item, bool) {
	var be *faults.BodyError
	if !errors.As(err, &be) {
		return nil, false
	}
	return nil, isSyntaxClass(be.Err)
}

// isSyntaxClass reports whether err is one of the decode failures a malformed
// JSON body produces: a syntax error, a type mismatch against the target, or
// a body that ends mid-value (or is empty outright).
func isSyntaxClass(err error) bool {
	var syn *json.SyntaxError
	if errors.As(err, &syn) {
		return true
	}
	var typ *json.UnmarshalTypeError
	if errors.As(err, &typ) {
		return true
	}
	return errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF)
}

// matchPayloadTooLarge recognizes a body rejected by a size cap, as
// http.MaxBytesReader reports it.
func matchPayloadTooLarge(err error) ([]apis.Item, bool) {
	var mbe *http.MaxBytesError
	return nil, errors.As(err, &mbe)
}

// matchMalformedURI recognizes undecodable URI components. url.Error is
// consulted only for Op "parse": the same type carries transport failures
// from url.Client operations, and those are not client faults.
func matchMalformedURI(err error) ([]apis.Item, bool) {
	var esc url.EscapeError
	if errors.As(err, &esc) {
		return nil, true
	}
	var host url.InvalidHostError
	if errors.As(err, &host) {
		return nil, true
	}
	var ue *url.Error
	if errors.As(err, &ue) && ue.Op == "parse" {
		return nil, true
	}
	return nil, false
}

// matchValidationFailed recognizes persistence-schema violations and renders
// one entry per violated field, in declaration order.
func matchValidationFailed(err error) ([]apis.Item, bool) {
	var ve *faults.ValidationError
	if !errors.As(err, &ve) {
		return nil, false
	}
	items := make([]apis.Item, 0, len(ve.Violations))
	for _, v := range ve.Violations {
		items = append(items, apis.Field(v.Path, v.Message))
	}
	return items, true
}

// matchDuplicateKey recognizes unique-index violations, both the pre-shaped
// faults.DuplicateKeyError and the raw driver write errors, and renders one
// entry per violated key in key-pattern order. A driver error whose key
// pattern cannot be recovered still classifies, with an empty entry list.
func matchDuplicateKey(err error) ([]apis.Item, bool) {
	var dke *faults.DuplicateKeyError
	if errors.As(err, &dke) {
		items := make([]apis.Item, 0, len(dke.Keys))
		for _, key := range dke.Keys {
			items = append(items, duplicateKeyItem(key))
		}
		return items, true
	}
	if !mongo.IsDuplicateKeyError(err) {
		return nil, false
	}
	items := make([]apis.Item, 0, 1)
	for _, key := range keyPatternFields(err) {
		items = append(items, duplicateKeyItem(key))
	}
	return items, true
}

func duplicateKeyItem(key string) apis.Item {
	return apis.Field(key, fmt.Sprintf("Record with field '%s' already exists", key))
}

// keyPatternFields digs the violated index's key pattern out of a driver
// duplicate-key error and returns its field names in pattern order. Errors
// that carry no keyPattern document yield nothing.
func keyPatternFields(err error) []string {
	var raws []bson.Raw

	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, w := range we.WriteErrors {
			raws = append(raws, w.Raw)
		}
	}
	var bwe mongo.BulkWriteException
	if errors.As(err, &bwe) {
		for _, w := range bwe.WriteErrors {
			raws = append(raws, w.Raw)
		}
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) {
		raws = append(raws, ce.Raw)
	}

	var fields []string
	for _, raw := range raws {
		val, lookupErr := raw.LookupErr("keyPattern")
		if lookupErr != nil {
			continue
		}
		doc, ok := val.DocumentOK()
		if !ok {
			continue
		}
		elems, elemsErr := doc.Elements()
		if elemsErr != nil {
			continue
		}
		for _, el := range elems {
			key, keyErr := el.KeyErr()
			if keyErr != nil {
				continue
			}
			fields = append(fields, key)
		}
	}
	return fields
}

// matchInvalidID recognizes values that cannot be cast to the type a schema
// path declares — most commonly a malformed object ID. The pre-shaped
// faults.CastError carries path and value; a bare driver hex error still
// classifies, attributed to "_id" with the value unknown.
func matchInvalidID(err error) ([]apis.Item, bool) {
	var ce *faults.CastError
	if errors.As(err, &ce) {
		return []apis.Item{castItem(ce.Path, ce.Value)}, true
	}
	if errors.Is(err, primitive.ErrInvalidHex) {
		return []apis.Item{castItem("_id", nil)}, true
	}
	return nil, false
}

func castItem(path string, value any) apis.Item {
	rendered := ""
	if value != nil {
		rendered = fmt.Sprint(value)
	}
	return apis.Field(path, fmt.Sprintf("Value (%s) is not valid for %s", rendered, path))
}

// matchNotFound recognizes lookups whose target does not exist, via either
// the driver's no-documents sentinel or the package's own.
func matchNotFound(err error) ([]apis.Item, bool) {
	return nil, errors.Is(err, mongo.ErrNoDocuments) || errors.Is(err, faults.ErrNotFound)
}

// matchUnknownField recognizes strict-mode schema violations.
func matchUnknownField(err error) ([]apis.Item, bool) {
	var ufe *faults.UnknownFieldError
	if !errors.As(err, &ufe) {
		return nil, false
	}
	msg := fmt.Sprintf("The field '%s' does not exist in the schema", ufe.Path)
	return []apis.Item{apis.Field(ufe.Path, msg)}, true
}

// matchVersionConflict recognizes optimistic-lock failures. The entry is
// pinned to the version field "_v" regardless of which document clashed.
func matchVersionConflict(err error) ([]apis.Item, bool) {
	var ve *faults.VersionError
	if !errors.As(err, &ve) {
		return nil, false
	}
	const msg = "The record being modified has been concurrently modified. Refresh and try again."
	return []apis.Item{apis.Field("_v", msg)}, true
}

// matchParallelSave recognizes the same document being saved more than once
// in parallel.
func matchParallelSave(err error) ([]apis.Item, bool) {
	var pse *faults.ParallelSaveError
	return nil, errors.As(err, &pse)
}

// matchUnavailable recognizes failures to reach the database at all: driver
// network errors, use after disconnect, and the package's own sentinel.
func matchUnavailable(err error) ([]apis.Item, bool) {
	if mongo.IsNetworkError(err) {
		return nil, true
	}
	return nil, errors.Is(err, mongo.ErrClientDisconnected) || errors.Is(err, faults.ErrUnavailable)
}

// matchTokenInvalid recognizes every token defect that is not expiry or
// prematurity: malformed tokens, bad signatures, unverifiable tokens, and
// claim validation failures. Expiry and not-yet-valid are excluded here even
// though the library folds them into its claims-invalid sentinel — they have
// classifications of their own, and this rule runs first.
func matchTokenInvalid(err error) ([]apis.Item, bool) {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed),
		errors.Is(err, jwt.ErrTokenSignatureInvalid),
		errors.Is(err, jwt.ErrTokenUnverifiable),
		errors.Is(err, jwt.ErrTokenRequiredClaimMissing),
		errors.Is(err, jwt.ErrTokenInvalidAudience),
		errors.Is(err, jwt.ErrTokenInvalidIssuer),
		errors.Is(err, jwt.ErrTokenInvalidSubject),
		errors.Is(err, jwt.ErrTokenInvalidId),
		errors.Is(err, jwt.ErrTokenUsedBeforeIssued):
		return nil, true
	case errors.Is(err, jwt.ErrTokenInvalidClaims):
		expiryClass := errors.Is(err, jwt.ErrTokenExpired) || errors.Is(err, jwt.ErrTokenNotValidYet)
		return nil, !expiryClass
	}
	return nil, false
}

// matchTokenExpired recognizes tokens past their expiry claim.
func matchTokenExpired(err error) ([]apis.Item, bool) {
	return nil, errors.Is(err, jwt.ErrTokenExpired)
}

// matchTokenNotActive recognizes tokens presented before their not-before
// claim.
func matchTokenNotActive(err error) ([]apis.Item, bool) {
	return nil, errors.Is(err, jwt.ErrTokenNotValidYet)
}

// matchInvalidData recognizes standalone schema-validator findings and
// renders one entry per issue, path segments dot-joined, in reported order.
func matchInvalidData(err error) ([]apis.Item, bool) {
	var ie *faults.IssueError
	if !errors.As(err, &ie) {
		return nil, false
	}
	items := make([]apis.Item, 0, len(ie.Issues))
	for _, issue := range ie.Issues {
		items = append(items, apis.Field(strings.Join(issue.Path, "."), issue.Message))
	}
	return items, true
}

// declared resolves errors that carry their own HTTP status. The package's
// own error value is preferred since it also carries message and entries;
// otherwise any error exposing a positive status through StatusCode,
// HTTPStatus, or HTTPCode is honored, taking entries from an ErrorItems
// implementation when it offers any and falling back to the error text as
// the sole entry. Non-positive statuses do not count as declared.
func declared(err error) (*apis.Response, bool) {
	status := 0
	message := ""
	var items []apis.Item

	var fe *faults.Error
	switch {
	case errors.As(err, &fe) && fe.Status > 0:
		status = fe.Status
		message = fe.Message
		if len(fe.Items) > 0 {
			items = append([]apis.Item(nil), fe.Items...)
		}
	default:
		st, ok := declaredStatus(err)
		if !ok {
			return nil, false
		}
		status = st
		message = err.Error()
		var ie apis.ItemsError
		if errors.As(err, &ie) {
			if own := ie.ErrorItems(); len(own) > 0 {
				items = append([]apis.Item(nil), own...)
			}
		}
	}

	if items == nil {
		items = []apis.Item{apis.Text(message)}
	}
	return &apis.Response{
		StatusCode: status,
		Code:       code.Declared,
		Body: apis.Body{
			Success: false,
			Message: message,
			Errors:  items,
		},
	}, true
}

// declaredStatus probes the error chain for a self-declared positive HTTP
// status under the status-method spellings in circulation.
func declaredStatus(err error) (int, bool) {
	var se apis.StatusError
	if errors.As(err, &se) && se.StatusCode() > 0 {
		return se.StatusCode(), true
	}
	var hs interface{ HTTPStatus() int }
	if errors.As(err, &hs) && hs.HTTPStatus() > 0 {
		return hs.HTTPStatus(), true
	}
	var hc interface{ HTTPCode() int }
	if errors.As(err, &hc) && hc.HTTPCode() > 0 {
		return hc.HTTPCode(), true
	}
	return 0, false
}

// unexpected is the terminal classification. Every error reaches it when
// nothing above recognized the chain; it discloses nothing about the cause.
func unexpected() *apis.Response {
	return respond(code.Unexpected, nil)
}
