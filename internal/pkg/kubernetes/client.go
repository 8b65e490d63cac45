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

	ctrlruntimeclient "sigs.k8s.io/controller-runtime/pkg/client"
)

// PatchObject applies modify to obj and sends the result to the API
// server as a merge patch against obj's pre-modify state, so that
// fields this controller never touches (server-populated status,
// another controller's annotations) survive untouched.
func PatchObject(ctx context.Context, client ctrlruntimeclient.Client, obj ctrlruntimeclient.Object, modify func()) error {
	if modify == nil {
		return nil
	}

	oldObj := obj.DeepCopyObject().(ctrlruntimeclient.Object)
	modify()
	return client.Patch(ctx, obj, ctrlruntimeclient.MergeFrom(oldObj))
}
