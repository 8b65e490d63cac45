/*
Copyright 2025 The Application Catalog Manager contributors.

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

// Package model holds the plain-Go representation of CloudTruth projects
// and parameters, independent of both the wire (CRD) types and the
// concrete ParameterSource implementation.
package model

// Parameter is a single key/value pair from a CloudTruth project. It is
// immutable once produced by a ParameterSource.
type Parameter struct {
	Key    string
	Value  string
	Secret bool
}

// Project is a named collection of parameters, optionally linked to a
// parent project. Later entries in Parameters override earlier ones with
// the same key.
type Project struct {
	Name       string
	Parameters []Parameter
	// Parent is the name of this project's parent project, or "" if it
	// has none. A non-empty Parent is not guaranteed to resolve to a
	// known project (it may be absent or dangling).
	Parent string
}
