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
	"fmt"
	"strings"

	"google.golang.org/grpc/codes"

	"dirpx.dev/faults/apis"
	"dirpx.dev/faults/code"
)

// Explain produces a textual trace of how err would be classified: the error
// identity, the phase that matched, and the statuses the response carries.
//
// This is primarily a diagnostic tool. It performs the same dispatch as
// Classify — custom handlers run, so they should stay side-effect free — but
// it never logs.
//
// Example output:
//
//	error="faults.ValidationError" message="validation failed: name"
//	rule: source=builtin code="validation_failed"
//	http: 400
//	grpc: INVALIDARGUMENT(3)
//
// Notes:
//   - source ∈ {handler | builtin | declared | fallback}
//   - handler lines carry the matching handler's registration index
func (ch *chain) Explain(err error) string {
	var b strings.Builder
	if err == nil {
		_, _ = fmt.Fprintln(&b, "error=<nil>")
	} else {
		_, _ = fmt.Fprintf(&b, "error=%q message=%q\n", typeName(err), err.Error())
	}

	resp, o := ch.resolve(err, nil)
	switch o.source {
	case "handler":
		_, _ = fmt.Fprintf(&b, "rule: source=handler index=%d\n", o.index)
	case "builtin", "fallback":
		_, _ = fmt.Fprintf(&b, "rule: source=%s code=%q\n", o.source, o.rule)
	case "declared":
		_, _ = fmt.Fprintln(&b, "rule: source=declared")
	default:
		// Defensive: unexpected source.
		_, _ = fmt.Fprintln(&b, "rule: source=unknown")
	}

	g := GRPCStatus(resp)
	_, _ = fmt.Fprintf(&b, "http: %d\n", resp.StatusCode)
	_, _ = fmt.Fprintf(&b, "grpc: %s\n", grpcLabel(g))

	return strings.TrimSuffix(b.String(), "\n")
}

// grpcLabel renders a gRPC code the way diagnostics print it: NAME(number).
func grpcLabel(c codes.Code) string {
	return fmt.Sprintf("%s(%d)", strings.ToUpper(c.String()), int(c))
}

// Rules describes the full built-in precedence sequence, one descriptor per
// classification in match order, with the declared and terminal rules
// appended. The declared rule reports zero statuses and an empty message:
// those come from the error itself.
//
// The slice is freshly allocated on every call; mutating it affects nothing.
func Rules() []apis.RuleDescriptor {
	out := make([]apis.RuleDescriptor, 0, len(builtins)+2)
	for _, ru := range builtins {
		out = append(out, descriptor(ru.c))
	}
	out = append(out, apis.RuleDescriptor{Code: code.Declared.String()})
	out = append(out, descriptor(code.Unexpected))
	return out
}

func descriptor(c code.Code) apis.RuleDescriptor {
	return apis.RuleDescriptor{
		Code:       c.String(),
		HTTPStatus: defaultHTTP[c],
		GRPCCode:   int(defaultGRPC[c]),
		Message:    defaultMessage[c],
	}
}
