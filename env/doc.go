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

// Package env abstracts environment variable reads behind a small interface.
//
// The classifier consults the environment exactly once, at construction, to
// derive its logging default. Hiding that read behind Reader keeps
// construction deterministic in tests: inject a Static map instead of
// mutating the process environment with os.Setenv, which does not compose
// with t.Parallel.
package env
