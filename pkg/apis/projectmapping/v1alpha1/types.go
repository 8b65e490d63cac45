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

package v1alpha1

const (
	// ProjectMappingResourceName is the plural name of the ProjectMapping resource.
	ProjectMappingResourceName = "projectmappings"

	// ProjectMappingKindName is the kind name of the ProjectMapping resource.
	ProjectMappingKindName = "ProjectMapping"
)

// Scope distinguishes the single root ProjectMapping from the override
// ProjectMappings that patch it.
type Scope string

const (
	// ScopeRoot marks the single ProjectMapping that seeds the effective
	// spec for every project. Exactly one ProjectMapping in the cluster
	// must carry this scope.
	ScopeRoot Scope = "root"

	// ScopeOverride marks a ProjectMapping that shallow-merges its set
	// fields over the accumulator for projects matching its selector.
	ScopeOverride Scope = "override"
)

const (
	// ManagedByLabelKey is the label used to mark resources as owned by
	// this controller.
	ManagedByLabelKey = "app.kubernetes.io/managed-by"

	// ManagedByLabelValue is the value of ManagedByLabelKey on resources
	// created by this controller.
	ManagedByLabelValue = "paramsync"
)

const (
	// DefaultConfigMapTemplate is injected by the mutating webhook when a
	// ProjectMapping leaves configMapTemplate empty.
	DefaultConfigMapTemplate = `apiVersion: v1
kind: ConfigMap
metadata:
  name: "{{ .Project }}"
  labels:
    app.kubernetes.io/managed-by: paramsync
data:
{{- range $k, $v := .Parameters }}
  {{ $k }}: {{ $v | quote }}
{{- end }}
`

	// DefaultSecretTemplate is injected by the mutating webhook when a
	// ProjectMapping leaves secretTemplate empty.
	DefaultSecretTemplate = `apiVersion: v1
kind: Secret
metadata:
  name: "{{ .Project }}"
  labels:
    app.kubernetes.io/managed-by: paramsync
data:
{{- range $k, $v := .Parameters }}
  {{ $k }}: {{ $v | quote }}
{{- end }}
`
)
