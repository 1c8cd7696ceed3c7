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
	"fmt"

	authorizationv1 "k8s.io/api/authorization/v1"
	"k8s.io/apimachinery/pkg/util/sets"
)

// AccessRule pairs a set of resources with the verbs the operator must be
// able to perform on each of them.
type AccessRule struct {
	Resources []ResourceRef
	Verbs     []Verb
}

// AccessMatrix is an ordered list of access rules for one scope. It expands
// into the set of individual permission checks a verification run performs.
type AccessMatrix struct {
	Rules []AccessRule
}

// AccessRequirement is a single required permission check. An empty
// Namespace means the check is cluster-scoped.
type AccessRequirement struct {
	Namespace string
	Resource  ResourceRef
	Verb      Verb
}

func (r AccessRequirement) String() string {
	if r.Namespace == "" {
		return fmt.Sprintf("%s %s", r.Verb, r.Resource)
	}
	return fmt.Sprintf("%s %s in namespace %q", r.Verb, r.Resource, r.Namespace)
}

// ResourceAttributes returns the attributes of a SelfSubjectAccessReview for
// this requirement.
func (r AccessRequirement) ResourceAttributes() *authorizationv1.ResourceAttributes {
	return &authorizationv1.ResourceAttributes{
		Namespace:   r.Namespace,
		Verb:        string(r.Verb),
		Resource:    r.Resource.Resource,
		Subresource: r.Resource.Subresource,
		Group:       r.Resource.APIGroup,
	}
}

func (r AccessRequirement) key() string {
	return r.Namespace + "|" + r.Resource.String() + "|" + string(r.Verb)
}

// Expand returns the requirement set of the matrix for the given namespace,
// in matrix order with duplicates removed. Pass an empty namespace to expand
// a cluster-scoped matrix.
func (m AccessMatrix) Expand(namespace string) []AccessRequirement {
	seen := sets.NewString()
	var requirements []AccessRequirement
	for _, rule := range m.Rules {
		for _, resource := range rule.Resources {
			for _, verb := range rule.Verbs {
				req := AccessRequirement{Namespace: namespace, Resource: resource, Verb: verb}
				if seen.Has(req.key()) {
					continue
				}
				seen.Insert(req.key())
				requirements = append(requirements, req)
			}
		}
	}
	return requirements
}

func mustParseRefs(refs ...string) []ResourceRef {
	out := make([]ResourceRef, 0, len(refs))
	for _, ref := range refs {
		out = append(out, MustParseResourceRef(ref))
	}
	return out
}

// NamespaceAccessMatrix returns the permissions the operator needs in every
// namespace it manages domains in.
func NamespaceAccessMatrix() AccessMatrix {
	return AccessMatrix{Rules: []AccessRule{
		{
			Resources: mustParseRefs("configmaps", "events", "jobs//batch", "pods", "services"),
			Verbs:     crudVerbs,
		},
		{
			Resources: mustParseRefs("secrets"),
			Verbs:     readWatchVerbs,
		},
		{
			Resources: mustParseRefs("pods/log"),
			Verbs:     readOnlyVerbs,
		},
		{
			Resources: mustParseRefs("pods/exec", "tokenreviews//authentication.k8s.io", "selfsubjectrulesreviews//authorization.k8s.io"),
			Verbs:     createOnlyVerbs,
		},
	}}
}

// ClusterAccessMatrix returns the cluster-scoped permissions the operator
// needs regardless of which namespaces it manages.
func ClusterAccessMatrix() AccessMatrix {
	return AccessMatrix{Rules: []AccessRule{
		{
			Resources: mustParseRefs("customresourcedefinitions//apiextensions.k8s.io"),
			Verbs:     crudVerbs,
		},
		{
			Resources: mustParseRefs("domains//weblogic.oracle", "domains/status/weblogic.oracle"),
			Verbs:     readUpdateVerbs,
		},
		{
			Resources: mustParseRefs("namespaces"),
			Verbs:     readWatchVerbs,
		},
	}}
}
