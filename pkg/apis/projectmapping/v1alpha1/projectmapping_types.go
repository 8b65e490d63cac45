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

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// ProjectMappingSpec declares which CloudTruth projects to project into
// the cluster, how to name the generated resources, and which templates
// to render. Exactly one ProjectMapping in the cluster carries
// scope=root; all others are overrides that shallow-merge their set
// fields over the root in declared order.
type ProjectMappingSpec struct {
	// Scope is either "root" or "override". Exactly one ProjectMapping
	// in the cluster must have scope=root.
	//
	// +kubebuilder:validation:Enum=root;override
	Scope Scope `json:"scope"`

	// ProjectSelector is a regular expression matched against project
	// names. An empty selector matches every project.
	//
	// +optional
	ProjectSelector string `json:"projectSelector,omitempty"`

	// Skip excludes matching projects from output entirely.
	//
	// +optional
	Skip bool `json:"skip,omitempty"`

	// SkipSecrets omits secret parameters and the Secret manifest for
	// matching projects.
	//
	// +optional
	SkipSecrets bool `json:"skipSecrets,omitempty"`

	// IncludedProjects names additional projects whose parameters are
	// inherited, in order, as if they were parents of the matching
	// project. Overrides replace this list wholesale; it does not
	// concatenate across overrides.
	//
	// +optional
	IncludedProjects []string `json:"includedProjects,omitempty"`

	// ConfigMapTemplate renders the ConfigMap manifest for a project. If
	// empty after composition, no ConfigMap is generated for matching
	// projects.
	//
	// +optional
	ConfigMapTemplate string `json:"configMapTemplate,omitempty"`

	// SecretTemplate renders the Secret manifest for a project. If empty
	// after composition, no Secret is generated for matching projects.
	//
	// +optional
	SecretTemplate string `json:"secretTemplate,omitempty"`

	// ResourceName overrides the default resource name (the project
	// name) via template.
	//
	// +optional
	ResourceName string `json:"resourceName,omitempty"`

	// ResourceNamespace overrides the gateway's default namespace via
	// template.
	//
	// +optional
	ResourceNamespace string `json:"resourceNamespace,omitempty"`
}

// ProjectMappingStatus defines the observed state of ProjectMapping.
type ProjectMappingStatus struct {
	// ObservedGeneration is the most recent generation observed by the
	// controller.
	//
	// +optional
	ObservedGeneration int64 `json:"observedGeneration,omitempty"`
}

// +genclient
// +genclient:nonNamespaced
// +kubebuilder:object:root=true
// +kubebuilder:resource:scope=Cluster,shortName=pmap
// +kubebuilder:subresource:status
// +kubebuilder:printcolumn:JSONPath=".spec.scope",name="Scope",type="string"
// +kubebuilder:printcolumn:JSONPath=".spec.projectSelector",name="Selector",type="string"
// +kubebuilder:printcolumn:JSONPath=".metadata.creationTimestamp",name="Age",type="date"

// ProjectMapping is the Schema for the projectmappings API. It declares
// how CloudTruth projects are projected into ConfigMap/Secret resources.
type ProjectMapping struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   ProjectMappingSpec   `json:"spec,omitempty"`
	Status ProjectMappingStatus `json:"status,omitempty"`
}

// +kubebuilder:object:root=true

// ProjectMappingList contains a list of ProjectMapping.
type ProjectMappingList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`

	Items []ProjectMapping `json:"items"`
}

// IsRoot reports whether this ProjectMapping carries scope=root.
func (p *ProjectMapping) IsRoot() bool {
	return p.Spec.Scope == ScopeRoot
}
