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

package kubernetes

import (
	"context"
	"errors"
	"testing"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	projectmappingv1alpha1 "k8c.io/paramsync/pkg/apis/projectmapping/v1alpha1"
)

func TestGetProjectMappingsListsAll(t *testing.T) {
	root := &projectmappingv1alpha1.ProjectMapping{
		ObjectMeta: metav1.ObjectMeta{Name: "root"},
		Spec:       projectmappingv1alpha1.ProjectMappingSpec{Scope: projectmappingv1alpha1.ScopeRoot},
	}
	override := &projectmappingv1alpha1.ProjectMapping{
		ObjectMeta: metav1.ObjectMeta{Name: "override"},
		Spec:       projectmappingv1alpha1.ProjectMappingSpec{Scope: projectmappingv1alpha1.ScopeOverride},
	}
	gw := newTestGateway(t, false, root, override)

	docs, err := gw.GetProjectMappings(context.Background())
	if err != nil {
		t.Fatalf("GetProjectMappings() error = %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("got %d documents, want 2", len(docs))
	}
}

func TestWatchProjectMappingsCanBeStopped(t *testing.T) {
	gw := newTestGateway(t, false)

	w, err := gw.WatchProjectMappings(context.Background())
	if err != nil {
		t.Fatalf("WatchProjectMappings() error = %v", err)
	}
	// Stop must be safe to call exactly once and must not hang or panic.
	w.Stop()
}

func TestEnsureNamespaceIsIdempotent(t *testing.T) {
	gw := newTestGateway(t, false)

	if err := gw.EnsureNamespace(context.Background(), "team-a"); err != nil {
		t.Fatalf("EnsureNamespace() first call error = %v", err)
	}
	if err := gw.EnsureNamespace(context.Background(), "team-a"); err != nil {
		t.Fatalf("EnsureNamespace() second call error = %v", err)
	}
}

func TestEnsureNamespaceDryRunMakesNoWrites(t *testing.T) {
	gw := newTestGateway(t, true)

	if err := gw.EnsureNamespace(context.Background(), "team-a"); err != nil {
		t.Fatalf("EnsureNamespace() error = %v", err)
	}
	if _, err := gw.GetResource(context.Background(), corev1.SchemeGroupVersion.WithKind("Namespace"), "team-a", ""); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected namespace team-a not to exist after dry-run EnsureNamespace, got err = %v", err)
	}
}
