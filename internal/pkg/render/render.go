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

// Package render executes the configMapTemplate/secretTemplate strings
// of a ProjectMapping against a project's flattened parameter set.
package render

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

// Context is the closed set of values a template may reference. Field
// names are part of the external template contract and must not
// change; ProjectHeirarchy keeps the historical misspelling of
// "hierarchy" used by the wire format this tool is compatible with.
type Context struct {
	Project          string
	ProjectHeirarchy map[string]any
	Parameters       map[string]string
	ParameterOrigins map[string]string
	Debug            bool
}

// Error wraps a template parse or execution failure with the name of
// the field (configMapTemplate/secretTemplate) it came from.
type Error struct {
	Field string
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Render parses and executes tpl as a text/template with sprig's
// function map, against ctx. field names the template's origin
// (configMapTemplate or secretTemplate) for error reporting.
//
// missingkey=error turns a template reference to an absent parameter
// (e.g. {{.Parameters.dbhost}} when "dbhost" was never set for this
// project) into an execution error rather than a silent "<no value>",
// matching spec.md §7's TemplateError ("malformed template or missing
// context variable").
func Render(field, tpl string, ctx Context) (string, error) {
	t, err := template.New(field).Option("missingkey=error").Funcs(sprig.TxtFuncMap()).Parse(tpl)
	if err != nil {
		return "", &Error{Field: field, Err: fmt.Errorf("parse: %w", err)}
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, ctx); err != nil {
		return "", &Error{Field: field, Err: fmt.Errorf("execute: %w", err)}
	}

	return buf.String(), nil
}
