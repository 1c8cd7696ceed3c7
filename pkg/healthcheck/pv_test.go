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
	"testing"

	"github.com/stretchr/testify/require"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	fakeclient "k8s.io/client-go/kubernetes/fake"

	"github.com/wko-dev/wko/pkg/logging"
)

func persistentVolume(name, domainUID string, modes ...corev1.PersistentVolumeAccessMode) *corev1.PersistentVolume {
	return &corev1.PersistentVolume{
		ObjectMeta: metav1.ObjectMeta{
			Name:   name,
			Labels: map[string]string{domainUIDLabel: domainUID},
		},
		Spec: corev1.PersistentVolumeSpec{AccessModes: modes},
	}
}

func TestVerifyPersistentVolumes(t *testing.T) {
	for name, tc := range map[string]struct {
		volumes      []*corev1.PersistentVolume
		wantHealthy  bool
		wantWarnings []string
	}{
		"read-write-many volume": {
			volumes:     []*corev1.PersistentVolume{persistentVolume("pv1", "uid1", corev1.ReadWriteMany)},
			wantHealthy: true,
		},
		"no volume for the domainUID": {
			volumes:      []*corev1.PersistentVolume{persistentVolume("pv1", "other", corev1.ReadWriteMany)},
			wantHealthy:  false,
			wantWarnings: []string{logging.PersistentVolumeNotFound},
		},
		"wrong access mode": {
			volumes:      []*corev1.PersistentVolume{persistentVolume("pv1", "uid1", corev1.ReadWriteOnce)},
			wantHealthy:  false,
			wantWarnings: []string{logging.PersistentVolumeAccessModeFailed},
		},
		"one good volume does not excuse a bad one": {
			volumes: []*corev1.PersistentVolume{
				persistentVolume("pv1", "uid1", corev1.ReadWriteMany),
				persistentVolume("pv2", "uid1", corev1.ReadOnlyMany),
			},
			wantHealthy:  false,
			wantWarnings: []string{logging.PersistentVolumeAccessModeFailed},
		},
	} {
		t.Run(name, func(t *testing.T) {
			var objects []runtime.Object
			for _, pv := range tc.volumes {
				objects = append(objects, pv)
			}
			client := fakeclient.NewSimpleClientset(objects...)

			sink := &recordingSink{}
			checker, err := NewChecker(Config{
				KubeClient:        client,
				OperatorNamespace: "operator",
				Diagnostics:       sink,
			})
			require.NoError(t, err)

			healthy, err := checker.VerifyPersistentVolumes(context.Background(), "uid1")
			require.NoError(t, err)
			require.Equal(t, tc.wantHealthy, healthy)
			require.ElementsMatch(t, tc.wantWarnings, sink.messages().List())
		})
	}
}
