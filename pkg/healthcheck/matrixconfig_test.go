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
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadMatrixConfig(t *testing.T) {
	config, err := LoadMatrixConfig([]byte(`
namespaced:
- resources: ["configmaps", "pods"]
  verbs: ["get", "list", "watch"]
- resources: ["jobs//batch"]
  verbs: ["create", "delete"]
cluster:
- resources: ["domains//weblogic.oracle"]
  verbs: ["get", "list", "watch", "update", "patch"]
`))
	require.NoError(t, err)

	namespaced, cluster, err := config.Matrices()
	require.NoError(t, err)

	require.Len(t, namespaced.Expand("ns1"), 2*3+1*2)
	require.Len(t, cluster.Expand(""), 5)

	require.Equal(t, MustParseResourceRef("jobs//batch"), namespaced.Rules[1].Resources[0])
}

func TestLoadMatrixConfigRejectsUnknownVerb(t *testing.T) {
	_, err := LoadMatrixConfig([]byte(`
namespaced:
- resources: ["pods"]
  verbs: ["destroy"]
`))
	require.ErrorContains(t, err, "unknown verb")
}

func TestLoadMatrixConfigRejectsMalformedResource(t *testing.T) {
	_, err := LoadMatrixConfig([]byte(`
cluster:
- resources: ["a/b/c/d"]
  verbs: ["get"]
`))
	require.ErrorIs(t, err, ErrInvalidResourceRef)
}

func TestLoadMatrixConfigRejectsEmptyRule(t *testing.T) {
	_, err := LoadMatrixConfig([]byte(`
namespaced:
- resources: ["pods"]
  verbs: []
`))
	require.ErrorContains(t, err, "at least one resource and one verb")
}

func TestLoadMatrixConfigRejectsUnknownFields(t *testing.T) {
	_, err := LoadMatrixConfig([]byte(`
namespaced:
- resources: ["pods"]
  verbs: ["get"]
  nonResourceURLs: ["/healthz"]
`))
	require.Error(t, err)
}
