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

// Package kubernetes implements ClusterGateway: the thin abstraction
// over the Kubernetes API that the reconcile engine drives everything
// else through. ApplyResource's update path reuses the teacher's
// PatchObject helper (client.go), generalized from the teacher's typed,
// single-kind callers to the arbitrary-kind, arbitrary-manifest world
// this controller needs (a rendered manifest can be a ConfigMap, a
// Secret, or anything else a template author chooses to emit).
package kubernetes

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/apimachinery/pkg/watch"
	ctrlruntimeclient "sigs.k8s.io/controller-runtime/pkg/client"

	projectmappingv1alpha1 "k8c.io/paramsync/pkg/apis/projectmapping/v1alpha1"
)

// ErrNotFound is returned by GetResource when the resource does not
// exist, distinct from transport errors per spec.md §4.2.
var ErrNotFound = errors.New("resource not found")

// Gateway is the ClusterGateway contract (spec.md §4.2): fetch,
// apply (create-or-update), namespace-ensure, ownership check, and
// watch/list of ProjectMapping documents.
type Gateway interface {
	// GetResource fetches the object identified by gvk/name/namespace.
	// Returns an error wrapping ErrNotFound when absent.
	GetResource(ctx context.Context, gvk schema.GroupVersionKind, name, namespace string) (*unstructured.Unstructured, error)

	// ApplyResource creates obj if it does not exist, or updates it in
	// place (preserving resourceVersion) if it does. A no-op in dry-run
	// mode, in which case the write that would have been made is logged.
	ApplyResource(ctx context.Context, obj *unstructured.Unstructured) error

	// EnsureNamespace creates namespace ns if absent; idempotent.
	EnsureNamespace(ctx context.Context, ns string) error

	// UnderManagement reports whether obj carries this controller's
	// ownership label.
	UnderManagement(obj *unstructured.Unstructured) bool

	// WatchProjectMappings opens a watch stream of ProjectMapping
	// change notices. Callers must call Stop() on the returned
	// watch.Interface exactly once.
	WatchProjectMappings(ctx context.Context) (watch.Interface, error)

	// GetProjectMappings lists every ProjectMapping document currently
	// present in the cluster.
	GetProjectMappings(ctx context.Context) ([]projectmappingv1alpha1.ProjectMapping, error)

	// DefaultNamespace is the namespace used for resources whose
	// rendered manifest does not specify one.
	DefaultNamespace() string

	// DryRun reports whether writes are currently suppressed.
	DryRun() bool
}

type clusterGateway struct {
	client    ctrlruntimeclient.WithWatch
	namespace string
	dryRun    bool
	log       *zap.SugaredLogger
}

// New builds a Gateway backed by a controller-runtime client. client
// must have both the core v1 and projectmapping v1alpha1 types
// registered in its scheme.
func New(client ctrlruntimeclient.WithWatch, defaultNamespace string, dryRun bool, log *zap.SugaredLogger) Gateway {
	return &clusterGateway{client: client, namespace: defaultNamespace, dryRun: dryRun, log: log}
}

func (g *clusterGateway) GetResource(ctx context.Context, gvk schema.GroupVersionKind, name, namespace string) (*unstructured.Unstructured, error) {
	obj := &unstructured.Unstructured{}
	obj.SetGroupVersionKind(gvk)

	key := ctrlruntimeclient.ObjectKey{Name: name, Namespace: namespace}
	if err := g.client.Get(ctx, key, obj); err != nil {
		if apierrors.IsNotFound(err) {
			return nil, fmt.Errorf("%s %s/%s: %w", gvk.Kind, namespace, name, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get %s %s/%s: %w", gvk.Kind, namespace, name, err)
	}
	return obj, nil
}

func (g *clusterGateway) ApplyResource(ctx context.Context, obj *unstructured.Unstructured) error {
	if g.dryRun {
		g.log.Infow("dry-run: would write resource", "kind", obj.GetKind(), "name", obj.GetName(), "namespace", obj.GetNamespace())
		return nil
	}

	existing := &unstructured.Unstructured{}
	existing.SetGroupVersionKind(obj.GroupVersionKind())
	err := g.client.Get(ctx, ctrlruntimeclient.ObjectKey{Name: obj.GetName(), Namespace: obj.GetNamespace()}, existing)
	switch {
	case apierrors.IsNotFound(err):
		return g.client.Create(ctx, obj)
	case err != nil:
		return fmt.Errorf("failed to get existing %s %s/%s: %w", obj.GetKind(), obj.GetNamespace(), obj.GetName(), err)
	}

	resourceVersion := existing.GetResourceVersion()
	desired := obj.Object
	return PatchObject(ctx, g.client, existing, func() {
		existing.Object = desired
		existing.SetResourceVersion(resourceVersion)
	})
}

func (g *clusterGateway) EnsureNamespace(ctx context.Context, ns string) error {
	if g.dryRun {
		g.log.Infow("dry-run: would ensure namespace", "namespace", ns)
		return nil
	}

	existing := &corev1.Namespace{}
	err := g.client.Get(ctx, ctrlruntimeclient.ObjectKey{Name: ns}, existing)
	if err == nil {
		return nil
	}
	if !apierrors.IsNotFound(err) {
		return fmt.Errorf("failed to get namespace %q: %w", ns, err)
	}

	return g.client.Create(ctx, &corev1.Namespace{
		ObjectMeta: metav1.ObjectMeta{Name: ns},
	})
}

func (g *clusterGateway) UnderManagement(obj *unstructured.Unstructured) bool {
	labels := obj.GetLabels()
	if labels == nil {
		return false
	}
	return labels[projectmappingv1alpha1.ManagedByLabelKey] == projectmappingv1alpha1.ManagedByLabelValue
}

func (g *clusterGateway) WatchProjectMappings(ctx context.Context) (watch.Interface, error) {
	list := &projectmappingv1alpha1.ProjectMappingList{}
	w, err := g.client.Watch(ctx, list)
	if err != nil {
		return nil, fmt.Errorf("failed to watch project mappings: %w", err)
	}
	return w, nil
}

func (g *clusterGateway) GetProjectMappings(ctx context.Context) ([]projectmappingv1alpha1.ProjectMapping, error) {
	list := &projectmappingv1alpha1.ProjectMappingList{}
	if err := g.client.List(ctx, list); err != nil {
		return nil, fmt.Errorf("failed to list project mappings: %w", err)
	}
	return list.Items, nil
}

func (g *clusterGateway) DefaultNamespace() string { return g.namespace }

func (g *clusterGateway) DryRun() bool { return g.dryRun }
