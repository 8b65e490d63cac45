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

// Package engine implements ReconcileEngine.Apply, the orchestration
// of one full reconciliation pass (spec.md §4.6).
package engine

import (
	"context"
	"encoding/base64"

	"go.uber.org/zap"

	"k8c.io/paramsync/internal/engine/config"
	"k8c.io/paramsync/internal/engine/graph"
	"k8c.io/paramsync/internal/pkg/kubernetes"
	"k8c.io/paramsync/internal/pkg/render"
	"k8c.io/paramsync/internal/pkg/source"
)

// ReconcileEngine orchestrates the load-config/fetch-projects/build-graph/
// render-and-apply pipeline that is run once per poll tick.
type ReconcileEngine struct {
	Gateway kubernetes.Gateway
	Source  source.Source
	Log     *zap.SugaredLogger
	// Debug is surfaced to templates as the "debug" context key
	// (spec.md §6), mirroring the process-wide debug logging flag.
	Debug bool
}

// Apply performs one full reconciliation pass. Per spec.md §4.6 step 1,
// a ConfigError (missing/duplicate root ProjectMapping) makes the tick
// a no-op rather than a fatal error: Apply always returns nil so the
// caller (the poll loop) never treats a tick as terminal.
func (e *ReconcileEngine) Apply(ctx context.Context) error {
	docs, err := e.Gateway.GetProjectMappings(ctx)
	if err != nil {
		e.Log.Errorw("failed to load project mappings, skipping tick", "error", err)
		return nil
	}

	cfg, err := config.Load(docs)
	if err != nil {
		e.Log.Errorw("invalid project mapping configuration, skipping tick", "error", err)
		return nil
	}

	g, err := graph.Build(ctx, e.Source, !cfg.RootSkipSecrets(), e.Log)
	if err != nil {
		e.Log.Errorw("failed to enumerate projects, skipping tick", "error", err)
		return nil
	}

	for _, name := range g.Names() {
		e.applyProject(ctx, cfg, g, name)
	}

	return nil
}

// applyProject renders and applies the ConfigMap and (optionally)
// Secret for a single project. Failures are logged with the project
// name and do not propagate, per spec.md §4.6 step 5 / §7.
func (e *ReconcileEngine) applyProject(ctx context.Context, cfg *config.Config, g *graph.Graph, name string) {
	log := e.Log.With("project", name)

	spec, err := cfg.SpecFor(name)
	if err != nil {
		log.Errorw("failed to resolve effective spec", "error", err)
		return
	}

	if !spec.Matches(name) && !cfg.MatchesAnyIncludedProjects(name) {
		return
	}
	if spec.Skip {
		return
	}

	values, origins, secretFlags := g.Flatten(name, spec.IncludedProjects)
	hierarchy := g.Hierarchy(name, spec.IncludedProjects)

	nonSecret := map[string]string{}
	secretOnly := map[string]string{}
	for k, v := range values {
		if secretFlags[k] {
			secretOnly[k] = v
		} else {
			nonSecret[k] = v
		}
	}

	baseCtx := render.Context{
		Project:          name,
		ProjectHeirarchy: hierarchy,
		ParameterOrigins: origins,
		Debug:            e.Debug,
	}

	if spec.ConfigMapTemplate != "" {
		ctx2 := baseCtx
		ctx2.Parameters = nonSecret
		if err := e.renderAndApply(ctx, "configMapTemplate", spec.ConfigMapTemplate, spec, ctx2, log); err != nil {
			log.Errorw("failed to render/apply ConfigMap", "error", err)
		}
	}

	if !spec.SkipSecrets && spec.SecretTemplate != "" {
		ctx2 := baseCtx
		ctx2.Parameters = base64EncodeValues(secretOnly)
		if err := e.renderAndApply(ctx, "secretTemplate", spec.SecretTemplate, spec, ctx2, log); err != nil {
			log.Errorw("failed to render/apply Secret", "error", err)
		}
	}
}

func (e *ReconcileEngine) renderAndApply(ctx context.Context, field, tpl string, spec config.EffectiveSpec, rctx render.Context, log *zap.SugaredLogger) error {
	doc, err := render.Render(field, tpl, rctx)
	if err != nil {
		return err
	}

	obj, err := kubernetes.ParseManifest(doc)
	if err != nil {
		return err
	}
	if obj == nil {
		return nil
	}

	if spec.ResourceName != "" {
		renderedName, err := render.Render("resourceName", spec.ResourceName, rctx)
		if err != nil {
			return err
		}
		obj.SetName(renderedName)
	}
	if spec.ResourceNamespace != "" {
		renderedNamespace, err := render.Render("resourceNamespace", spec.ResourceNamespace, rctx)
		if err != nil {
			return err
		}
		obj.SetNamespace(renderedNamespace)
	}

	_, err = kubernetes.ApplyManifest(ctx, e.Gateway, obj, log)
	return err
}

func base64EncodeValues(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = base64.StdEncoding.EncodeToString([]byte(v))
	}
	return out
}
