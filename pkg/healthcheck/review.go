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

	authorizationv1 "k8s.io/api/authorization/v1"
	rbacv1 "k8s.io/api/rbac/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	authorizationv1client "k8s.io/client-go/kubernetes/typed/authorization/v1"
	"k8s.io/klog/v2"
)

// reviewer decides which requirements of one scope are granted. The returned
// slice is parallel to reqs. An error means the query itself failed, not that
// access was denied.
type reviewer interface {
	allowed(ctx context.Context, reqs []AccessRequirement) ([]bool, error)
}

// perCheckReviewer issues one SelfSubjectAccessReview per requirement,
// sequentially, and takes the allowed flag of each response.
type perCheckReviewer struct {
	client authorizationv1client.AuthorizationV1Interface
}

func (r *perCheckReviewer) allowed(ctx context.Context, reqs []AccessRequirement) ([]bool, error) {
	granted := make([]bool, len(reqs))
	for i, req := range reqs {
		review := &authorizationv1.SelfSubjectAccessReview{
			Spec: authorizationv1.SelfSubjectAccessReviewSpec{
				ResourceAttributes: req.ResourceAttributes(),
			},
		}
		response, err := r.client.SelfSubjectAccessReviews().Create(ctx, review, metav1.CreateOptions{})
		if err != nil {
			return nil, fmt.Errorf("access review for %s: %w", req, err)
		}
		granted[i] = response.Status.Allowed
	}
	return granted, nil
}

// rulesReviewer issues a single SelfSubjectRulesReview for the scope of the
// given requirements and matches each requirement against the returned rules.
type rulesReviewer struct {
	client authorizationv1client.AuthorizationV1Interface

	// operatorNamespace anchors the review for cluster-scoped requirements:
	// a rules review is always namespace-bound, and rules granted through
	// cluster roles are visible in any namespace, including the operator's own.
	operatorNamespace string
}

func (r *rulesReviewer) allowed(ctx context.Context, reqs []AccessRequirement) ([]bool, error) {
	if len(reqs) == 0 {
		return nil, nil
	}
	namespace := reqs[0].Namespace
	if namespace == "" {
		namespace = r.operatorNamespace
	}
	review := &authorizationv1.SelfSubjectRulesReview{
		Spec: authorizationv1.SelfSubjectRulesReviewSpec{Namespace: namespace},
	}
	response, err := r.client.SelfSubjectRulesReviews().Create(ctx, review, metav1.CreateOptions{})
	if err != nil {
		return nil, fmt.Errorf("rules review in namespace %q: %w", namespace, err)
	}
	if response.Status.Incomplete {
		klog.FromContext(ctx).Info("rules review returned an incomplete rule set, denials may be spurious",
			"namespace", namespace, "evaluationError", response.Status.EvaluationError)
	}

	granted := make([]bool, len(reqs))
	for i, req := range reqs {
		granted[i] = anyRuleCovers(response.Status.ResourceRules, req)
	}
	return granted, nil
}

func anyRuleCovers(rules []authorizationv1.ResourceRule, req AccessRequirement) bool {
	for _, rule := range rules {
		if ruleCovers(rule, req) {
			return true
		}
	}
	return false
}

// ruleCovers reports whether a granted rule covers the requirement. A rule
// matches on all three axes: API group (exact or wildcard), resource (exact
// on the "resource/subresource" rule form, or wildcard) and verb (exact or
// wildcard).
func ruleCovers(rule authorizationv1.ResourceRule, req AccessRequirement) bool {
	return containsOrWildcard(rule.APIGroups, req.Resource.APIGroup, rbacv1.APIGroupAll) &&
		containsOrWildcard(rule.Resources, req.Resource.RuleForm(), rbacv1.ResourceAll) &&
		containsOrWildcard(rule.Verbs, string(req.Verb), rbacv1.VerbAll)
}

func containsOrWildcard(granted []string, want, wildcard string) bool {
	for _, g := range granted {
		if g == wildcard || g == want {
			return true
		}
	}
	return false
}
