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

// Package logx adapts real logging backends to the diagnostic sink the
// classifier expects.
//
// The sink contract (apis.Logger) is a single function, so any backend fits;
// this package covers the two in common use — zap and logr — plus a shared
// stderr default for classifiers built without an explicit logger.
package logx
