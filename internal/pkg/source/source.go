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

// Package source defines the ParameterSource contract: the boundary to
// the external configuration service ("CloudTruth"). No concrete REST
// client ships in this repository; CLI wiring of a real client is an
// external collaborator (spec.md §1).
package source

import (
	"context"

	"k8c.io/paramsync/internal/engine/model"
)

// Source enumerates project names and, per project, yields parameters
// and an optional parent reference. Implementations are eventually
// consistent: every reconciliation tick re-queries from scratch, and no
// state is cached between calls.
type Source interface {
	// ProjectNames returns the names of every project currently known to
	// the configuration service.
	ProjectNames(ctx context.Context) ([]string, error)

	// Project returns the parameters and parent of a single project. If
	// wantSecrets is false, parameters with Secret=true are omitted.
	Project(ctx context.Context, name string, wantSecrets bool) (model.Project, error)
}
