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

package env

import "os"

// Reader abstracts environment variable access so construction-time lookups
// can be substituted in tests without touching the process environment.
type Reader interface {
	// Getenv returns the value of the variable named by key, or "" when it
	// is unset. Unset and set-to-empty are deliberately indistinguishable,
	// matching os.Getenv.
	Getenv(key string) string
}

// OSReader reads from the process environment via the standard os package.
// The zero value is ready to use.
type OSReader struct{}

// Getenv returns the value of the environment variable named by key.
func (OSReader) Getenv(key string) string {
	return os.Getenv(key)
}

// Static is a fixed in-memory environment. Lookups never touch the process
// environment, which makes it the reader of choice for tests and for
// configuration that pins the environment indicator explicitly.
type Static map[string]string

// Getenv returns the mapped value for key, or "" when absent.
func (s Static) Getenv(key string) string {
	return s[key]
}
