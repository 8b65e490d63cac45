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
	"testing"

	"go.uber.org/zap"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	ctrlruntimeclient "sigs.k8s.io/controller-runtime/pkg/client"
	ctrlruntimefakeclient "sigs.k8s.io/controller-runtime/pkg/client/fake"

	projectmappingv1alpha1 "k8c.io/paramsync/pkg/apis/projectmapping/v1alpha1"
)

func newTestGateway(t *testing.T, dryRun bool, objects ...ctrlruntimeclient.Object) Gateway {
	t.Helper()

	scheme := runtime.NewScheme()
	if err := corev1.AddToScheme(scheme); err != nil {
		t.Fatalf("failed to add corev1 to scheme: %v", err)
	}
	if err := projectmappingv1alpha1.AddToScheme(scheme); err != nil {
		t.Fatalf("failed to add projectmappingv1alpha1 to scheme: %v", err)
	}

	fakeClient := ctrlruntimefakeclient.NewClientBuilder().
		WithScheme(scheme).
		WithObjects(objects...).
		Build()

	return New(fakeClient, "default", dryRun, zap.NewNop().Sugar())
}

func configMapManifest(name, namespace, value string) string {
	return "apiVersion: v1\nkind: ConfigMap\nmetadata:\n  name: " + name + "\n  namespace: " + namespace + "\ndata:\n  key: " + value + "\n"
}

func TestApplyManifestCreatesWhenAbsent(t *testing.T) {
	gw := newTestGateway(t, false)

	obj, err := ParseManifest(configMapManifest("proj1", "default", "value1"))
	if err != nil {
		t.Fatalf("ParseManifest() error = %v", err)
	}

	action, err := ApplyManifest(context.Background(), gw, obj, zap.NewNop().Sugar())
	if err != nil {
		t.Fatalf("ApplyManifest() error = %v", err)
	}
	if action != "Creating" {
		t.Errorf("action = %q, want Creating", action)
	}

	got, err := gw.GetResource(context.Background(), obj.GroupVersionKind(), "proj1", "default")
	if err != nil {
		t.Fatalf("GetResource() error = %v", err)
	}
	if !gw.UnderManagement(got) {
		t.Errorf("created resource is not marked under management")
	}
}

func TestApplyManifestSkipsIdentical(t *testing.T) {
	existing := &corev1.ConfigMap{
		ObjectMeta: metav1.ObjectMeta{
			Name:      "proj1",
			Namespace: "default",
			Labels:    map[string]string{projectmappingv1alpha1.ManagedByLabelKey: projectmappingv1alpha1.ManagedByLabelValue},
		},
		Data: map[string]string{"key": "value1"},
	}
	gw := newTestGateway(t, false, existing)

	obj, err := ParseManifest(configMapManifest("proj1", "default", "value1"))
	if err != nil {
		t.Fatalf("ParseManifest() error = %v", err)
	}

	action, err := ApplyManifest(context.Background(), gw, obj, zap.NewNop().Sugar())
	if err != nil {
		t.Fatalf("ApplyManifest() error = %v", err)
	}
	if action != "Skipping identical" {
		t.Errorf("action = %q, want Skipping identical", action)
	}
}

func TestApplyManifestSkipsUnmanaged(t *testing.T) {
	existing := &corev1.ConfigMap{
		ObjectMeta: metav1.ObjectMeta{Name: "proj1", Namespace: "default"},
		Data:       map[string]string{"key": "someone-elses-value"},
	}
	gw := newTestGateway(t, false, existing)

	obj, err := ParseManifest(configMapManifest("proj1", "default", "value1"))
	if err != nil {
		t.Fatalf("ParseManifest() error = %v", err)
	}

	action, err := ApplyManifest(context.Background(), gw, obj, zap.NewNop().Sugar())
	if err != nil {
		t.Fatalf("ApplyManifest() error = %v", err)
	}
	if action != "Skipping (not under kubetruth management)" {
		t.Errorf("action = %q, want the not-under-management skip", action)
	}

	got, err := gw.GetResource(context.Background(), obj.GroupVersionKind(), "proj1", "default")
	if err != nil {
		t.Fatalf("GetResource() error = %v", err)
	}
	if got.Object["data"].(map[string]interface{})["key"] != "someone-elses-value" {
		t.Errorf("unmanaged resource was overwritten")
	}
}

func TestApplyManifestUpdatesWhenDiffering(t *testing.T) {
	existing := &corev1.ConfigMap{
		ObjectMeta: metav1.ObjectMeta{
			Name:      "proj1",
			Namespace: "default",
			Labels:    map[string]string{projectmappingv1alpha1.ManagedByLabelKey: projectmappingv1alpha1.ManagedByLabelValue},
		},
		Data: map[string]string{"key": "old-value"},
	}
	gw := newTestGateway(t, false, existing)

	obj, err := ParseManifest(configMapManifest("proj1", "default", "new-value"))
	if err != nil {
		t.Fatalf("ParseManifest() error = %v", err)
	}

	action, err := ApplyManifest(context.Background(), gw, obj, zap.NewNop().Sugar())
	if err != nil {
		t.Fatalf("ApplyManifest() error = %v", err)
	}
	if action != "Updating" {
		t.Errorf("action = %q, want Updating", action)
	}
}

func TestApplyManifestDryRunMakesNoWrites(t *testing.T) {
	gw := newTestGateway(t, true)

	obj, err := ParseManifest(configMapManifest("proj1", "default", "value1"))
	if err != nil {
		t.Fatalf("ParseManifest() error = %v", err)
	}

	if _, err := ApplyManifest(context.Background(), gw, obj, zap.NewNop().Sugar()); err != nil {
		t.Fatalf("ApplyManifest() error = %v", err)
	}

	_, err = gw.GetResource(context.Background(), obj.GroupVersionKind(), "proj1", "default")
	if err == nil {
		t.Errorf("expected no resource to exist after dry-run apply")
	}
}

func TestParseManifestEmptyIsNoop(t *testing.T) {
	obj, err := ParseManifest("   \n\t\n")
	if err != nil {
		t.Fatalf("ParseManifest() error = %v", err)
	}
	if obj != nil {
		t.Errorf("expected nil object for blank manifest, got %v", obj)
	}
}
