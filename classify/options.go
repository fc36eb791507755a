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

// Option configures the Classifier at build time.
// All options are applied to an internal builder and then frozen into
// an immutable Classifier.
type Option func(*builder)

// WithLogErrors decides explicitly whether the chain logs each dispatched
// error. Without this option the decision derives from the environment
// indicator: logging is on for "development" and "test", off otherwise.
func WithLogErrors(v bool) Option {
	return func(b *builder) { b.logErrors = &v }
}

// WithExposeStack widens the logging summary with the error's captured stack
// trace, when it carries one. The response body is unaffected under every
// configuration — stacks never reach clients.
func WithExposeStack(v bool) Option {
	return func(b *builder) { b.exposeStack = v }
}

// WithLogger replaces the default stderr diagnostic sink. A nil logger is
// ignored and the default stays in place.
func WithLogger(l apis.Logger) Option {
	return func(b *builder) {
		if l != nil {
			b.logger = l
		}
	}
}

// WithHandlers appends caller-supplied rules to the front of the chain.
// Handlers run before every built-in rule, in the order given here; the
// first non-nil response wins. Nil entries are skipped at dispatch.
func WithHandlers(hs ...apis.Handler) Option {
	return func(b *builder) { b.handlers = append(b.handlers, hs...) }
}

// WithEnvReader replaces the source of the environment indicator used for
// the logErrors default. A nil reader is ignored.
func WithEnvReader(r env.Reader) Option {
	return func(b *builder) {
		if r != nil {
			b.reader = r
		}
	}
}

// WithEnv pins the environment indicator to a fixed value, bypassing the
// process environment entirely. Equivalent to
// WithEnvReader(env.Static{EnvKey: indicator}).
func WithEnv(indicator string) Option {
	return func(b *builder) { b.reader = env.Static{EnvKey: indicator} }
}
