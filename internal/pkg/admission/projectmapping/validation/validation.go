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

// Package validation provides a validating admission webhook for
// ProjectMapping. It enforces, at admission time, the two invariants
// that internal/engine/config.Load would otherwise only catch at the
// next reconciliation tick: exactly one scope=root document, and a
// syntactically valid projectSelector regular expression.
package validation

import (
	"context"
	"fmt"
	"net/http"
	"regexp"

	"go.uber.org/zap"

	projectmappingv1alpha1 "k8c.io/paramsync/pkg/apis/projectmapping/v1alpha1"

	admissionv1 "k8s.io/api/admission/v1"
	"k8s.io/apimachinery/pkg/runtime"
	ctrl "sigs.k8s.io/controller-runtime"
	ctrlruntimeclient "sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/webhook"
	"sigs.k8s.io/controller-runtime/pkg/webhook/admission"
)

const (
	// WebhookPath is the HTTP path for this webhook.
	WebhookPath = "/validate-cloudtruth-k8c-io-v1alpha1-projectmapping"
)

// AdmissionHandler handles validating admission requests for ProjectMapping.
type AdmissionHandler struct {
	log     *zap.SugaredLogger
	decoder admission.Decoder
	client  ctrlruntimeclient.Client
}

// NewAdmissionHandler creates a new AdmissionHandler.
func NewAdmissionHandler(log *zap.SugaredLogger, scheme *runtime.Scheme, client ctrlruntimeclient.Client) *AdmissionHandler {
	return &AdmissionHandler{
		log:     log,
		decoder: admission.NewDecoder(scheme),
		client:  client,
	}
}

// SetupWebhookWithManager registers the webhook with the manager.
func (h *AdmissionHandler) SetupWebhookWithManager(mgr ctrl.Manager) {
	mgr.GetWebhookServer().Register(WebhookPath, &webhook.Admission{Handler: h})
}

// Handle validates ProjectMapping documents on Create and Update.
func (h *AdmissionHandler) Handle(ctx context.Context, req admission.Request) admission.Response {
	log := h.log.With("uid", req.UID, "name", req.Name, "operation", req.Operation)

	switch req.Operation {
	case admissionv1.Create, admissionv1.Update:
		return h.handleValidation(ctx, log, req)
	case admissionv1.Delete:
		log.Debug("Allowing delete operation without validation")
		return admission.Allowed("delete operations do not require validation")
	default:
		log.Debugw("Allowing operation without validation", "operation", req.Operation)
		return admission.Allowed(fmt.Sprintf("%q operations do not require validation", req.Operation))
	}
}

func (h *AdmissionHandler) handleValidation(ctx context.Context, log *zap.SugaredLogger, req admission.Request) admission.Response {
	mapping := &projectmappingv1alpha1.ProjectMapping{}
	if err := h.decoder.Decode(req, mapping); err != nil {
		return admission.Errored(http.StatusBadRequest, fmt.Errorf("failed to decode request: %w", err))
	}

	switch mapping.Spec.Scope {
	case projectmappingv1alpha1.ScopeRoot, projectmappingv1alpha1.ScopeOverride:
	default:
		return admission.Denied(fmt.Sprintf("spec.scope must be %q or %q, got %q", projectmappingv1alpha1.ScopeRoot, projectmappingv1alpha1.ScopeOverride, mapping.Spec.Scope))
	}

	if mapping.Spec.ProjectSelector != "" {
		if _, err := regexp.Compile(mapping.Spec.ProjectSelector); err != nil {
			return admission.Denied(fmt.Sprintf("spec.projectSelector is not a valid regular expression: %v", err))
		}
	}

	if mapping.IsRoot() {
		if conflict, err := h.findConflictingRoot(ctx, mapping.Name); err != nil {
			log.Errorw("Failed to check for conflicting root ProjectMapping", "error", err)
			return admission.Errored(http.StatusInternalServerError, fmt.Errorf("failed to validate scope uniqueness: %w", err))
		} else if conflict != "" {
			return admission.Denied(fmt.Sprintf("ProjectMapping %q already has scope=root; exactly one root document is allowed", conflict))
		}
	}

	log.Debug("Validation passed")
	return admission.Allowed("valid ProjectMapping")
}

// findConflictingRoot returns the name of another scope=root
// ProjectMapping in the cluster, if one exists besides selfName.
func (h *AdmissionHandler) findConflictingRoot(ctx context.Context, selfName string) (string, error) {
	list := &projectmappingv1alpha1.ProjectMappingList{}
	if err := h.client.List(ctx, list); err != nil {
		return "", fmt.Errorf("failed to list project mappings: %w", err)
	}

	for i := range list.Items {
		item := &list.Items[i]
		if item.Name == selfName {
			continue
		}
		if item.IsRoot() {
			return item.Name, nil
		}
	}
	return "", nil
}
