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

	"gopkg.in/yaml.v3"

	"dirpx.dev/faults/env"
)

// fileConfig is the YAML shape FromYAML accepts. Pointer fields distinguish
// "absent" from "set to the zero value", so a config file only overrides what
// it actually mentions.
type fileConfig struct {
	LogErrors   *bool  `yaml:"log_errors"`
	ExposeStack *bool  `yaml:"expose_stack"`
	Env         string `yaml:"env"`
}

// FromYAML parses a YAML settings document into an Option, letting a config
// file drive the same knobs the With* options cover. Unknown keys are
// ignored, so the document may live inside a larger application config.
//
// Example document:
//
//	log_errors: true
//	expose_stack: false
//	env: development
//
// A non-empty env pins the environment indicator, replacing the process
// environment lookup. Handlers and loggers cannot be expressed in YAML; wire
// those with WithHandlers and WithLogger alongside the returned Option.
func FromYAML(data []byte) (Option, error) {
	var cfg fileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("classify: parse yaml config: %w", err)
	}
	return func(b *builder) {
		if cfg.LogErrors != nil {
			v := *cfg.LogErrors
			b.logErrors = &v
		}
		if cfg.ExposeStack != nil {
			b.exposeStack = *cfg.ExposeStack
		}
		if cfg.Env != "" {
			b.reader = env.Static{EnvKey: cfg.Env}
		}
	}, nil
}
