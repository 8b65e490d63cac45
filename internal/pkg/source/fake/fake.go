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

// Package fake provides an in-memory ParameterSource for tests.
package fake

import (
	"context"
	"fmt"

	"k8c.io/paramsync/internal/engine/model"
)

// Source is a fixed, in-memory ParameterSource. Names determines
// enumeration order; Projects holds the full (unfiltered) parameter set
// per project name.
type Source struct {
	Names    []string
	Projects map[string]model.Project

	// ProjectErr, if set, is returned by Project for the named project.
	ProjectErr map[string]error
	// NamesErr, if set, is returned by ProjectNames instead of Names.
	NamesErr error
}

// New builds an empty fake Source.
func New() *Source {
	return &Source{Projects: map[string]model.Project{}}
}

// Add registers a project and appends it to the enumeration order.
func (s *Source) Add(p model.Project) *Source {
	if _, exists := s.Projects[p.Name]; !exists {
		s.Names = append(s.Names, p.Name)
	}
	s.Projects[p.Name] = p
	return s
}

func (s *Source) ProjectNames(_ context.Context) ([]string, error) {
	if s.NamesErr != nil {
		return nil, s.NamesErr
	}
	return s.Names, nil
}

func (s *Source) Project(_ context.Context, name string, wantSecrets bool) (model.Project, error) {
	if err := s.ProjectErr[name]; err != nil {
		return model.Project{}, err
	}

	p, ok := s.Projects[name]
	if !ok {
		return model.Project{}, fmt.Errorf("fake source: unknown project %q", name)
	}

	if wantSecrets {
		return p, nil
	}

	filtered := model.Project{Name: p.Name, Parent: p.Parent}
	for _, param := range p.Parameters {
		if !param.Secret {
			filtered.Parameters = append(filtered.Parameters, param)
		}
	}
	return filtered, nil
}
