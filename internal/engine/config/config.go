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

// Package config composes the ordered list of ProjectMapping specs
// retrieved from the cluster into a root spec plus overrides, and
// resolves the effective spec for a given project name.
//
// This mirrors the precedence pattern already used by the teacher's
// ApplicationCatalog.ResolveChartURL/ResolveChartCredentials
// (version-level > chart-level > global > default): here, later
// overrides win per field, in declared order, over the root.
package config

import (
	"errors"
	"fmt"
	"regexp"

	projectmappingv1alpha1 "k8c.io/paramsync/pkg/apis/projectmapping/v1alpha1"
)

// ErrInvalid is wrapped by Load when the set of ProjectMapping documents
// does not have exactly one scope=root entry.
var ErrInvalid = errors.New("invalid project mapping configuration")

// EffectiveSpec is the plain-Go, already-merged form of a
// ProjectMappingSpec that the engine operates on.
type EffectiveSpec struct {
	ProjectSelector   string
	Skip              bool
	SkipSecrets       bool
	IncludedProjects  []string
	ConfigMapTemplate string
	SecretTemplate    string
	ResourceName      string
	ResourceNamespace string

	selector *regexp.Regexp
}

// Matches reports whether name matches this spec's ProjectSelector. An
// empty selector matches everything.
func (s EffectiveSpec) Matches(name string) bool {
	if s.selector == nil {
		return true
	}
	return s.selector.MatchString(name)
}

// Config holds exactly one root spec and zero or more override specs in
// declared order.
type Config struct {
	root      projectmappingv1alpha1.ProjectMappingSpec
	overrides []projectmappingv1alpha1.ProjectMappingSpec
}

// Load validates that docs contains exactly one scope=root
// ProjectMapping and returns a Config with overrides in declared
// (input) order. Declared order for overrides is the order the cluster
// returned the documents in; callers that need a stable secondary order
// should sort docs by name before calling Load.
func Load(docs []projectmappingv1alpha1.ProjectMapping) (*Config, error) {
	var root *projectmappingv1alpha1.ProjectMappingSpec
	var overrides []projectmappingv1alpha1.ProjectMappingSpec

	for i := range docs {
		spec := docs[i].Spec
		switch spec.Scope {
		case projectmappingv1alpha1.ScopeRoot:
			if root != nil {
				return nil, fmt.Errorf("%w: multiple ProjectMapping documents have scope=root", ErrInvalid)
			}
			s := spec
			root = &s
		case projectmappingv1alpha1.ScopeOverride:
			overrides = append(overrides, spec)
		default:
			return nil, fmt.Errorf("%w: ProjectMapping %q has unknown scope %q", ErrInvalid, docs[i].Name, spec.Scope)
		}
	}

	if root == nil {
		return nil, fmt.Errorf("%w: no ProjectMapping document has scope=root", ErrInvalid)
	}

	return &Config{root: *root, overrides: overrides}, nil
}

// SpecFor returns the effective spec for project name: start from root,
// then shallow-merge each matching override's set fields over the
// accumulator, in declared order. List-valued fields (IncludedProjects)
// replace rather than concatenate, per spec.md §9's resolved open
// question.
func (c *Config) SpecFor(name string) (EffectiveSpec, error) {
	acc, err := toEffective(c.root)
	if err != nil {
		return EffectiveSpec{}, fmt.Errorf("root spec: %w", err)
	}

	for i, ov := range c.overrides {
		ovEff, err := toEffective(ov)
		if err != nil {
			return EffectiveSpec{}, fmt.Errorf("override %d: %w", i, err)
		}
		if !ovEff.Matches(name) {
			continue
		}
		merge(&acc, ov)
	}

	return acc, nil
}

// RootSkipSecrets reports the root spec's SkipSecrets value, used by
// the engine to decide whether the ProjectGraph needs to fetch secret
// parameters at all (spec.md §4.6 step 3).
func (c *Config) RootSkipSecrets() bool {
	return c.root.SkipSecrets
}

// MatchesAnyIncludedProjects reports whether name appears in the
// IncludedProjects list of the root spec or of any override, whatever
// those specs' selectors match (used by the engine to decide whether a
// project reachable only via included_projects should still be
// processed).
func (c *Config) MatchesAnyIncludedProjects(name string) bool {
	rootEff, err := toEffective(c.root)
	if err == nil {
		for _, inc := range rootEff.IncludedProjects {
			if inc == name {
				return true
			}
		}
	}

	for _, ov := range c.overrides {
		ovEff, err := toEffective(ov)
		if err != nil {
			continue
		}
		for _, inc := range ovEff.IncludedProjects {
			if inc == name {
				return true
			}
		}
	}
	return false
}

func toEffective(spec projectmappingv1alpha1.ProjectMappingSpec) (EffectiveSpec, error) {
	eff := EffectiveSpec{
		ProjectSelector:   spec.ProjectSelector,
		Skip:              spec.Skip,
		SkipSecrets:       spec.SkipSecrets,
		IncludedProjects:  spec.IncludedProjects,
		ConfigMapTemplate: spec.ConfigMapTemplate,
		SecretTemplate:    spec.SecretTemplate,
		ResourceName:      spec.ResourceName,
		ResourceNamespace: spec.ResourceNamespace,
	}

	if spec.ProjectSelector != "" {
		re, err := regexp.Compile(spec.ProjectSelector)
		if err != nil {
			return EffectiveSpec{}, fmt.Errorf("invalid projectSelector %q: %w", spec.ProjectSelector, err)
		}
		eff.selector = re
	}

	return eff, nil
}

// merge shallow-merges override's set fields over acc, field by field.
// "Set" means non-zero-value for scalars; IncludedProjects and the
// template/name/namespace strings replace acc's value wholesale when
// the override specifies them at all (an override's job is to *be* the
// new value for the fields it names).
func merge(acc *EffectiveSpec, override projectmappingv1alpha1.ProjectMappingSpec) {
	if override.ProjectSelector != "" {
		acc.ProjectSelector = override.ProjectSelector
		if re, err := regexp.Compile(override.ProjectSelector); err == nil {
			acc.selector = re
		}
	}
	if override.Skip {
		acc.Skip = true
	}
	if override.SkipSecrets {
		acc.SkipSecrets = true
	}
	if override.IncludedProjects != nil {
		acc.IncludedProjects = override.IncludedProjects
	}
	if override.ConfigMapTemplate != "" {
		acc.ConfigMapTemplate = override.ConfigMapTemplate
	}
	if override.SecretTemplate != "" {
		acc.SecretTemplate = override.SecretTemplate
	}
	if override.ResourceName != "" {
		acc.ResourceName = override.ResourceName
	}
	if override.ResourceNamespace != "" {
		acc.ResourceNamespace = override.ResourceNamespace
	}
}
