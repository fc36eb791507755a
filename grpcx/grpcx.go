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

package grpcx

import (
	"context"
	"strconv"
	"strings"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc"
	gstatus "google.golang.org/grpc/status"
	"google.golang.org/protobuf/protoadapt"

	"dirpx.dev/faults/apis"
	"dirpx.dev/faults/classify"
)

// Domain is the error-info domain stamped on classified statuses.
const Domain = "dirpx.dev"

// UnaryServerInterceptor returns an interceptor that runs handler errors
// through the classifier and renders them as gRPC statuses with structured
// details attached.
//
// Errors that already carry a gRPC status pass through untouched — the
// handler made a transport-level decision and re-classifying it would
// destroy it. A nil classifier gets the default chain.
func UnaryServerInterceptor(c apis.Classifier) grpc.UnaryServerInterceptor {
	if c == nil {
		c = classify.New()
	}
	return func(ctx context.Context, req any, _ *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		resp, err := handler(ctx, req)
		if err == nil {
			return resp, nil
		}
		if _, ok := gstatus.FromError(err); ok {
			return nil, err
		}
		return nil, Convert(c, err)
	}
}

// Convert classifies err and renders the result as a gRPC status error.
//
// The status code comes from the classification's gRPC projection and the
// message from the response body. Two details ride along: an ErrorInfo
// naming the classification (with the HTTP projection in its metadata), and
// a BadRequest listing the fielded entries, when any exist.
func Convert(c apis.Classifier, err error) error {
	r := c.Classify(err, nil)
	st := gstatus.New(classify.GRPCStatus(r), r.Body.Message)

	details := []protoadapt.MessageV1{&errdetails.ErrorInfo{
		Reason: strings.ToUpper(r.Code.String()),
		Domain: Domain,
		Metadata: map[string]string{
			"http_status": strconv.Itoa(r.StatusCode),
		},
	}}
	if br := badRequest(r.Body.Errors); br != nil {
		details = append(details, br)
	}

	// Attach details when possible; the bare status still stands otherwise.
	if with, derr := st.WithDetails(details...); derr == nil {
		return with.Err()
	}
	return st.Err()
}

// badRequest renders the fielded entries as a BadRequest detail, preserving
// order. Bodies without fielded entries yield nil.
func badRequest(items []apis.Item) *errdetails.BadRequest {
	var violations []*errdetails.BadRequest_FieldViolation
	for _, it := range items {
		if !it.Fielded() {
			continue
		}
		violations = append(violations, &errdetails.BadRequest_FieldViolation{
			Field:       it.FieldName(),
			Description: it.Message(),
		})
	}
	if len(violations) == 0 {
		return nil
	}
	return &errdetails.BadRequest{FieldViolations: violations}
}

// ExtractErrorInfo pulls the classification detail out of a gRPC error, if
// present. Useful in tests and client code.
func ExtractErrorInfo(err error) (*errdetails.ErrorInfo, bool) {
	if err == nil {
		return nil, false
	}
	st, ok := gstatus.FromError(err)
	if !ok {
		return nil, false
	}
	for _, d := range st.Details() {
		if info, ok := d.(*errdetails.ErrorInfo); ok {
			return info, true
		}
	}
	return nil, false
}

// ExtractBadRequest pulls the field-violation detail out of a gRPC error, if
// present.
func ExtractBadRequest(err error) (*errdetails.BadRequest, bool) {
	if err == nil {
		return nil, false
	}
	st, ok := gstatus.FromError(err)
	if !ok {
		return nil, false
	}
	for _, d := range st.Details() {
		if br, ok := d.(*errdetails.BadRequest); ok {
			return br, true
		}
	}
	return nil, false
}
