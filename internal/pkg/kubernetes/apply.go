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
	"fmt"
	"reflect"

	"go.uber.org/zap"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"sigs.k8s.io/yaml"

	projectmappingv1alpha1 "k8c.io/paramsync/pkg/apis/projectmapping/v1alpha1"
)

// ParseManifest decodes a single rendered YAML document into an
// unstructured object. An empty or whitespace-only manifest yields a
// nil object and no error: per spec.md §4.6, an empty render result
// means "nothing to apply" for that project/kind.
func ParseManifest(doc string) (*unstructured.Unstructured, error) {
	trimmed := stripBlank(doc)
	if trimmed == "" {
		return nil, nil
	}

	obj := &unstructured.Unstructured{}
	if err := yaml.Unmarshal([]byte(doc), &obj.Object); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	if obj.GetKind() == "" {
		return nil, errors.New("manifest is missing kind")
	}
	if obj.GetName() == "" {
		return nil, errors.New("manifest is missing metadata.name")
	}
	return obj, nil
}

func stripBlank(s string) string {
	for _, r := range s {
		if r != ' ' && r != '\t' && r != '\n' && r != '\r' {
			return s
		}
	}
	return ""
}

// ApplyManifest implements the drift-aware kube_apply protocol of
// spec.md §4.3: fetch the existing object, compare the fields this
// controller owns, and create/skip/update accordingly. gw's
// DefaultNamespace is used when obj declares none. Returns the action taken,
// for caller-side logging ("Creating", "Skipping (not under
// management)", "Skipping identical", "Updating").
func ApplyManifest(ctx context.Context, gw Gateway, obj *unstructured.Unstructured, log *zap.SugaredLogger) (string, error) {
	if obj.GetNamespace() == "" {
		obj.SetNamespace(gw.DefaultNamespace())
	}

	if err := gw.EnsureNamespace(ctx, obj.GetNamespace()); err != nil {
		return "", fmt.Errorf("failed to ensure namespace %q: %w", obj.GetNamespace(), err)
	}

	labels := obj.GetLabels()
	if labels == nil {
		labels = map[string]string{}
	}
	labels[projectmappingv1alpha1.ManagedByLabelKey] = projectmappingv1alpha1.ManagedByLabelValue
	obj.SetLabels(labels)

	existing, err := gw.GetResource(ctx, obj.GroupVersionKind(), obj.GetName(), obj.GetNamespace())
	switch {
	case errors.Is(err, ErrNotFound):
		log.Infow("Creating", "kind", obj.GetKind(), "name", obj.GetName(), "namespace", obj.GetNamespace())
		if err := gw.ApplyResource(ctx, obj); err != nil {
			return "", fmt.Errorf("failed to create %s %s/%s: %w", obj.GetKind(), obj.GetNamespace(), obj.GetName(), err)
		}
		return "Creating", nil

	case err != nil:
		return "", fmt.Errorf("failed to get %s %s/%s: %w", obj.GetKind(), obj.GetNamespace(), obj.GetName(), err)
	}

	if !gw.UnderManagement(existing) {
		log.Infow("Skipping (not under kubetruth management)", "kind", obj.GetKind(), "name", obj.GetName(), "namespace", obj.GetNamespace())
		return "Skipping (not under kubetruth management)", nil
	}

	if structurallyEqual(existing, obj) {
		log.Infow("Skipping identical", "kind", obj.GetKind(), "name", obj.GetName(), "namespace", obj.GetNamespace())
		return "Skipping identical", nil
	}

	log.Infow("Updating", "kind", obj.GetKind(), "name", obj.GetName(), "namespace", obj.GetNamespace())
	obj.SetResourceVersion(existing.GetResourceVersion())
	if err := gw.ApplyResource(ctx, obj); err != nil {
		return "", fmt.Errorf("failed to update %s %s/%s: %w", obj.GetKind(), obj.GetNamespace(), obj.GetName(), err)
	}
	return "Updating", nil
}

// structurallyEqual compares only the fields this controller manages:
// labels, annotations, and data/stringData. Server-populated fields
// (resourceVersion, uid, creationTimestamp, status, ...) are ignored,
// matching spec.md §4.3's equality definition.
func structurallyEqual(existing, desired *unstructured.Unstructured) bool {
	if !reflect.DeepEqual(existing.GetLabels(), desired.GetLabels()) {
		return false
	}
	if !reflect.DeepEqual(existing.GetAnnotations(), desired.GetAnnotations()) {
		return false
	}

	for _, field := range []string{"data", "stringData"} {
		a, aFound, _ := unstructured.NestedMap(existing.Object, field)
		b, bFound, _ := unstructured.NestedMap(desired.Object, field)
		if aFound != bFound {
			return false
		}
		if !reflect.DeepEqual(a, b) {
			return false
		}
	}

	return true
}
