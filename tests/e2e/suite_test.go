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

package e2e_test

import (
	"context"
	"errors"
	"time"

	projectmappingv1alpha1 "k8c.io/paramsync/pkg/apis/projectmapping/v1alpha1"

	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/e2e-framework/klient"
	"sigs.k8s.io/e2e-framework/klient/wait"
)

var errClientNotInitialized = errors.New("client is not initialized")

type suite struct {
	client client.Client
}

func (s *suite) withClient(kl klient.Client) error {
	scheme := runtime.NewScheme()

	cl, err := client.New(kl.RESTConfig(), client.Options{Scheme: scheme})
	if err != nil {
		return err
	}

	schemeAdders := []func(*runtime.Scheme) error{
		corev1.AddToScheme,
		projectmappingv1alpha1.AddToScheme,
	}

	for _, addToScheme := range schemeAdders {
		err = addToScheme(scheme)
		if err != nil {
			return err
		}
	}

	s.client = cl
	return nil
}

// cleanupAllProjectMappings deletes every ProjectMapping document so
// each test starts from a clean root/override set; exactly one
// scope=root document is allowed cluster-wide (spec.md §4.1), so a
// leftover from a prior test would make every following test's Create
// fail admission.
func (s *suite) cleanupAllProjectMappings(ctx context.Context) error {
	if s.client == nil {
		return errClientNotInitialized
	}

	return waitFor(ctx, func(ctx context.Context) (bool, error) {
		mappings := projectmappingv1alpha1.ProjectMappingList{}
		err := s.client.List(ctx, &mappings)
		if err != nil {
			return false, err
		}

		for _, m := range mappings.Items {
			err := s.client.Delete(ctx, &m)
			if err != nil && !apierrors.IsNotFound(err) {
				return false, nil
			}
		}

		err = s.client.List(ctx, &mappings)
		if err != nil {
			return false, err
		}

		return len(mappings.Items) == 0, nil
	})
}

// cleanupManagedResources deletes every ConfigMap/Secret this
// controller's ownership label identifies as managed, across every
// namespace a test may have used.
func (s *suite) cleanupManagedResources(ctx context.Context) error {
	if s.client == nil {
		return errClientNotInitialized
	}

	sel := client.MatchingLabels{
		projectmappingv1alpha1.ManagedByLabelKey: projectmappingv1alpha1.ManagedByLabelValue,
	}

	return waitFor(ctx, func(ctx context.Context) (bool, error) {
		cms := corev1.ConfigMapList{}
		if err := s.client.List(ctx, &cms, sel); err != nil {
			return false, err
		}
		for _, cm := range cms.Items {
			if err := s.client.Delete(ctx, &cm); err != nil && !apierrors.IsNotFound(err) {
				return false, nil
			}
		}

		secrets := corev1.SecretList{}
		if err := s.client.List(ctx, &secrets, sel); err != nil {
			return false, err
		}
		for _, sec := range secrets.Items {
			if err := s.client.Delete(ctx, &sec); err != nil && !apierrors.IsNotFound(err) {
				return false, nil
			}
		}

		if err := s.client.List(ctx, &cms, sel); err != nil {
			return false, err
		}
		if err := s.client.List(ctx, &secrets, sel); err != nil {
			return false, err
		}
		return len(cms.Items) == 0 && len(secrets.Items) == 0, nil
	})
}

func (s *suite) cleanup(ctx context.Context) error {
	if err := s.cleanupAllProjectMappings(ctx); err != nil {
		return err
	}
	return s.cleanupManagedResources(ctx)
}

const (
	timeout  = time.Minute * 1
	interval = time.Second * 1
)

func waitFor(ctx context.Context, f func(ctx context.Context) (bool, error)) error {
	err := wait.For(
		f,
		wait.WithTimeout(timeout),
		wait.WithInterval(interval),
		wait.WithContext(ctx),
	)

	return err
}
