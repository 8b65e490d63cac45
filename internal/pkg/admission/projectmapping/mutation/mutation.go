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

// Package mutation provides a mutating admission webhook for
// ProjectMapping. It injects the default ConfigMap/Secret templates
// when a document leaves them empty.
package mutation

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	projectmappingv1alpha1 "k8c.io/paramsync/pkg/apis/projectmapping/v1alpha1"

	admissionv1 "k8s.io/api/admission/v1"
	"k8s.io/apimachinery/pkg/runtime"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/webhook"
	"sigs.k8s.io/controller-runtime/pkg/webhook/admission"
)

const (
	// WebhookPath is the HTTP path for this webhook.
	WebhookPath = "/mutate-cloudtruth-k8c-io-v1alpha1-projectmapping"
)

// AdmissionHandler handles mutating admission requests for ProjectMapping.
type AdmissionHandler struct {
	log     *zap.SugaredLogger
	decoder admission.Decoder
}

// NewAdmissionHandler creates a new AdmissionHandler.
func NewAdmissionHandler(log *zap.SugaredLogger, scheme *runtime.Scheme) *AdmissionHandler {
	return &AdmissionHandler{
		log:     log,
		decoder: admission.NewDecoder(scheme),
	}
}

// SetupWebhookWithManager registers the webhook with the manager.
func (h *AdmissionHandler) SetupWebhookWithManager(mgr ctrl.Manager) {
	mgr.GetWebhookServer().Register(WebhookPath, &webhook.Admission{Handler: h})
}

// Handle applies defaulting on Create and Update operations.
func (h *AdmissionHandler) Handle(_ context.Context, req admission.Request) admission.Response {
	log := h.log.With("uid", req.UID, "name", req.Name, "operation", req.Operation)

	switch req.Operation {
	case admissionv1.Create, admissionv1.Update:
		return h.handleMutation(log, req)
	default:
		log.Debugw("Allowing operation without mutation", "operation", req.Operation)
		return admission.Allowed(fmt.Sprintf("%q operations do not require mutation", req.Operation))
	}
}

func (h *AdmissionHandler) handleMutation(log *zap.SugaredLogger, req admission.Request) admission.Response {
	mapping := &projectmappingv1alpha1.ProjectMapping{}
	if err := h.decoder.Decode(req, mapping); err != nil {
		return admission.Errored(http.StatusBadRequest, fmt.Errorf("failed to decode request: %w", err))
	}

	if mapping.Spec.ConfigMapTemplate == "" {
		mapping.Spec.ConfigMapTemplate = projectmappingv1alpha1.DefaultConfigMapTemplate
		log.Debug("Injected default configMapTemplate")
	}
	if mapping.Spec.SecretTemplate == "" {
		mapping.Spec.SecretTemplate = projectmappingv1alpha1.DefaultSecretTemplate
		log.Debug("Injected default secretTemplate")
	}

	mutatedData, err := json.Marshal(mapping)
	if err != nil {
		return admission.Errored(http.StatusInternalServerError, fmt.Errorf("failed to marshal mutated object: %w", err))
	}

	return admission.PatchResponseFromRaw(req.Object.Raw, mutatedData)
}
