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

package logx

import (
	"sync"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"

	"dirpx.dev/faults/apis"
)

var (
	defaultOnce sync.Once
	defaultZap  *zap.Logger
)

// defaultLogger builds the shared fallback sink: JSON-encoded zap on stderr.
// Built once; every classifier constructed without an explicit logger shares
// it.
func defaultLogger() *zap.Logger {
	defaultOnce.Do(func() {
		cfg := zap.NewProductionConfig()
		cfg.OutputPaths = []string{"stderr"}
		// Every dispatch must produce its record; sampling would drop some.
		cfg.Sampling = nil
		// The diagnostic record carries its own stack when one is wanted.
		cfg.DisableStacktrace = true
		cfg.DisableCaller = true
		defaultZap = zap.Must(cfg.Build())
	})
	return defaultZap
}

// Default returns the fallback diagnostic sink: structured records at error
// level on stderr.
func Default() apis.Logger {
	return FromZap(defaultLogger())
}

// FromZap adapts a zap logger into a diagnostic sink. Records are emitted at
// error level with the label as the message; empty detail fields are
// omitted. A nil logger yields a no-op sink.
func FromZap(l *zap.Logger) apis.Logger {
	if l == nil {
		l = zap.NewNop()
	}
	return func(label string, d apis.Details) {
		fields := make([]zap.Field, 0, 4)
		if d.Name != "" {
			fields = append(fields, zap.String("name", d.Name))
		}
		if d.Code != "" {
			fields = append(fields, zap.String("code", d.Code))
		}
		if d.Message != "" {
			fields = append(fields, zap.String("message", d.Message))
		}
		if d.Stack != "" {
			fields = append(fields, zap.String("stack", d.Stack))
		}
		l.Error(label, fields...)
	}
}

// FromLogr adapts a logr logger into a diagnostic sink, for applications
// standardized on the logr interface rather than on zap directly.
func FromLogr(l logr.Logger) apis.Logger {
	return func(label string, d apis.Details) {
		kv := make([]any, 0, 8)
		if d.Name != "" {
			kv = append(kv, "name", d.Name)
		}
		if d.Code != "" {
			kv = append(kv, "code", d.Code)
		}
		if d.Message != "" {
			kv = append(kv, "message", d.Message)
		}
		if d.Stack != "" {
			kv = append(kv, "stack", d.Stack)
		}
		l.Error(nil, label, kv...)
	}
}

// NewLogr returns a logr view of the fallback sink, so application code and
// the classifier can share one destination.
func NewLogr() logr.Logger {
	return zapr.NewLogger(defaultLogger())
}
