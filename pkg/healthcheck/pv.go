/*
Copyright 2023 The WKO Authors.

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

package healthcheck

import (
	"context"
	"fmt"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/labels"

	"github.com/wko-dev/wko/pkg/logging"
)

// domainUIDLabel marks persistent volumes with the domainUID they serve.
const domainUIDLabel = "weblogic.domainUID"

// VerifyPersistentVolumes checks the persistent volumes labeled for the given
// domainUID: at least one must exist, and each must allow ReadWriteMany
// access so every server pod of the domain can mount it. Missing or
// misconfigured volumes are warnings, not errors; the run stays conclusive.
// Returns false when any diagnostic was raised.
func (c *Checker) VerifyPersistentVolumes(ctx context.Context, domainUID string) (bool, error) {
	selector := labels.SelectorFromSet(labels.Set{domainUIDLabel: domainUID}).String()
	list, err := c.kubeClient.CoreV1().PersistentVolumes().List(ctx, metav1.ListOptions{LabelSelector: selector})
	if err != nil {
		return false, fmt.Errorf("listing persistent volumes for domainUID %q: %w", domainUID, err)
	}

	if len(list.Items) == 0 {
		c.diagnostics.Warning(logging.PersistentVolumeNotFound, logging.DomainUIDKey, domainUID)
		return false, nil
	}

	healthy := true
	for i := range list.Items {
		pv := &list.Items[i]
		if hasAccessMode(pv, corev1.ReadWriteMany) {
			continue
		}
		healthy = false
		c.diagnostics.Warning(logging.PersistentVolumeAccessModeFailed,
			logging.PersistentVolumeKey, pv.Name, logging.DomainUIDKey, domainUID)
	}
	return healthy, nil
}

func hasAccessMode(pv *corev1.PersistentVolume, mode corev1.PersistentVolumeAccessMode) bool {
	for _, m := range pv.Spec.AccessModes {
		if m == mode {
			return true
		}
	}
	return false
}
