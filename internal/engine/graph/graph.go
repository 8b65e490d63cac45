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

// Package graph builds an in-memory model of CloudTruth projects and
// their parent links, and flattens a project's parameter hierarchy.
package graph

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"k8c.io/paramsync/internal/engine/model"
	"k8c.io/paramsync/internal/pkg/source"
)

// Graph is a name -> Project mapping rebuilt fresh every reconciliation
// tick. Nothing in Graph is persisted across ticks.
type Graph struct {
	projects map[string]model.Project
	order    []string
	log      *zap.SugaredLogger
}

// Build enumerates project names from src and fetches each project's
// parameters, omitting secret parameters when wantSecrets is false. A
// failure enumerating names aborts the build; a failure fetching a
// single project's parameters is logged and that project is skipped
// (its dependents still resolve it as a dangling ancestor). The source's
// enumeration order is preserved for Names(), per spec.md §5's ordering
// guarantee ("projects are processed in the order returned by the
// source").
func Build(ctx context.Context, src source.Source, wantSecrets bool, log *zap.SugaredLogger) (*Graph, error) {
	names, err := src.ProjectNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate projects: %w", err)
	}

	g := &Graph{projects: make(map[string]model.Project, len(names)), log: log}

	for _, name := range names {
		p, err := src.Project(ctx, name, wantSecrets)
		if err != nil {
			log.Warnw("failed to fetch project, skipping", "project", name, "error", err)
			continue
		}
		g.projects[name] = p
		g.order = append(g.order, name)
	}

	return g, nil
}

// Names returns every project name present in the graph, in the order
// the source returned them.
func (g *Graph) Names() []string {
	names := make([]string, len(g.order))
	copy(names, g.order)
	return names
}

// Has reports whether the graph has a project with the given name.
func (g *Graph) Has(name string) bool {
	_, ok := g.projects[name]
	return ok
}

// ancestry returns the chain of project names from the deepest ancestor
// of name down to and including name itself. A cycle is broken at the
// first repeated name; breaking a cycle is logged as a warning, not
// treated as an error.
func (g *Graph) ancestry(name string) []string {
	seen := map[string]bool{}
	var chain []string

	cur := name
	for cur != "" {
		if seen[cur] {
			g.log.Warnw("cycle detected while resolving project ancestry, breaking", "project", name, "repeated", cur)
			break
		}
		seen[cur] = true
		chain = append(chain, cur)

		p, ok := g.projects[cur]
		if !ok {
			break
		}
		cur = p.Parent
	}

	// Reverse in place: chain was built leaf-first, callers want
	// deepest-ancestor-first.
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}

// Hierarchy builds the nested {self: {parent: {grandparent: {}}}} tree
// used as the project_heirarchy template context key (spelling preserved
// per the external template contract). included lists additional
// projects; each one's own ancestry chain is nested beneath the
// innermost node of name's chain (name itself when it has no parent,
// otherwise its deepest ancestor), side by side with the other
// included chains.
func (g *Graph) Hierarchy(name string, included []string) map[string]any {
	chain := g.ancestry(name)
	tree := map[string]any{}
	leaf := tree

	// chain is deepest-ancestor-first; walk it in reverse (name first)
	// to build the nesting from the root node inward.
	for i := len(chain) - 1; i >= 0; i-- {
		next := map[string]any{}
		leaf[chain[i]] = next
		leaf = next
	}

	for _, inc := range included {
		incChain := g.ancestry(inc)
		cursor := leaf
		for i := len(incChain) - 1; i >= 0; i-- {
			next := map[string]any{}
			cursor[incChain[i]] = next
			cursor = next
		}
	}

	return tree
}

// Flatten produces the effective parameter map, parameter-origin map,
// and per-key secret flag for project, per the resolution order in
// spec.md §4.5:
//  1. project's own ancestry chain, deepest ancestor first, ending at
//     project.
//  2. each name in included, in declared order, each with its own
//     ancestry chain applied first.
//
// Later writes win. The origin of a value contributed via an
// included-projects entry N is formatted "<project> (<N>)"; values from
// project's own ancestry are attributed directly to the contributing
// ancestor's name. secrets[key] reports whether the winning value for
// key came from a Parameter with Secret=true, so callers can split the
// flattened view into the non-secret and secret-only projections
// spec.md §4.6 renders separately.
func (g *Graph) Flatten(name string, included []string) (values, origins map[string]string, secrets map[string]bool) {
	values = map[string]string{}
	origins = map[string]string{}
	secrets = map[string]bool{}

	for _, ancestor := range g.ancestry(name) {
		applyParams(values, origins, secrets, g.projects[ancestor], ancestor, "")
	}

	for _, inc := range included {
		for _, ancestor := range g.ancestry(inc) {
			applyParams(values, origins, secrets, g.projects[ancestor], name, inc)
		}
	}

	return values, origins, secrets
}

// applyParams writes p's parameters into values/origins/secrets. origin
// is formatted "<attributeTo> (<via>)" when via is non-empty (an
// included-projects contribution), or plain attributeTo otherwise.
func applyParams(values, origins map[string]string, secrets map[string]bool, p model.Project, attributeTo, via string) {
	origin := attributeTo
	if via != "" {
		origin = fmt.Sprintf("%s (%s)", attributeTo, via)
	}

	for _, param := range p.Parameters {
		values[param.Key] = param.Value
		origins[param.Key] = origin
		secrets[param.Key] = param.Secret
	}
}
