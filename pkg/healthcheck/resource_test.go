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

func TestParseResourceRef(t *testing.T) {
	for name, tc := range map[string]struct {
		in      string
		want    ResourceRef
		wantErr bool
	}{
		"bare resource": {
			in:   "pods",
			want: ResourceRef{Resource: "pods"},
		},
		"resource with subresource": {
			in:   "pods/log",
			want: ResourceRef{Resource: "pods", Subresource: "log"},
		},
		"empty subresource with API group": {
			in:   "jobs//batch",
			want: ResourceRef{Resource: "jobs", APIGroup: "batch"},
		},
		"subresource and API group": {
			in:   "domains/status/weblogic.oracle",
			want: ResourceRef{Resource: "domains", Subresource: "status", APIGroup: "weblogic.oracle"},
		},
		"empty string": {
			in:      "",
			wantErr: true,
		},
		"leading separator": {
			in:      "/log",
			wantErr: true,
		},
		"too many segments": {
			in:      "domains/status/weblogic.oracle/extra",
			wantErr: true,
		},
	} {
		t.Run(name, func(t *testing.T) {
			got, err := ParseResourceRef(tc.in)
			if tc.wantErr {
				require.ErrorIs(t, err, ErrInvalidResourceRef)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestResourceRefRoundTrip(t *testing.T) {
	for _, in := range []string{
		"pods",
		"pods/log",
		"pods/exec",
		"jobs//batch",
		"domains/status/weblogic.oracle",
		"customresourcedefinitions//apiextensions.k8s.io",
	} {
		ref, err := ParseResourceRef(in)
		require.NoError(t, err)
		require.Equal(t, in, ref.String())
	}
}

func TestResourceRefRuleForm(t *testing.T) {
	require.Equal(t, "pods", MustParseResourceRef("pods").RuleForm())
	require.Equal(t, "pods/log", MustParseResourceRef("pods/log").RuleForm())
	require.Equal(t, "jobs", MustParseResourceRef("jobs//batch").RuleForm())
	require.Equal(t, "domains/status", MustParseResourceRef("domains/status/weblogic.oracle").RuleForm())
}

func TestMustParseResourceRefPanics(t *testing.T) {
	require.Panics(t, func() {
		MustParseResourceRef("a/b/c/d")
	})
}
