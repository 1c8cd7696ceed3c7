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

	apiextensionsv1 "k8s.io/apiextensions-apiserver/pkg/apis/apiextensions/v1"
	apiextensionsfake "k8s.io/apiextensions-apiserver/pkg/client/clientset/clientset/fake"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	fakeclient "k8s.io/client-go/kubernetes/fake"
)

func domainsCRD(established bool) *apiextensionsv1.CustomResourceDefinition {
	status := apiextensionsv1.ConditionFalse
	if established {
		status = apiextensionsv1.ConditionTrue
	}
	return &apiextensionsv1.CustomResourceDefinition{
		ObjectMeta: metav1.ObjectMeta{Name: domainsCRDName},
		Status: apiextensionsv1.CustomResourceDefinitionStatus{
			Conditions: []apiextensionsv1.CustomResourceDefinitionCondition{
				{Type: apiextensionsv1.Established, Status: status},
			},
		},
	}
}

func TestVerifyDomainCRD(t *testing.T) {
	for name, tc := range map[string]struct {
		crd     *apiextensionsv1.CustomResourceDefinition
		wantErr string
	}{
		"established": {
			crd: domainsCRD(true),
		},
		"not established": {
			crd:     domainsCRD(false),
			wantErr: "not established",
		},
		"not installed": {
			wantErr: "not installed",
		},
	} {
		t.Run(name, func(t *testing.T) {
			apiextensionsClient := apiextensionsfake.NewSimpleClientset()
			if tc.crd != nil {
				apiextensionsClient = apiextensionsfake.NewSimpleClientset(tc.crd)
			}

			checker, err := NewChecker(Config{
				KubeClient:          fakeclient.NewSimpleClientset(),
				APIExtensionsClient: apiextensionsClient,
				OperatorNamespace:   "operator",
			})
			require.NoError(t, err)

			err = checker.VerifyDomainCRD(context.Background())
			if tc.wantErr != "" {
				require.ErrorContains(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestVerifyDomainCRDRequiresClient(t *testing.T) {
	checker, err := NewChecker(Config{
		KubeClient:        fakeclient.NewSimpleClientset(),
		OperatorNamespace: "operator",
	})
	require.NoError(t, err)

	require.ErrorContains(t, checker.VerifyDomainCRD(context.Background()), "no apiextensions client")
}
