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

// Package healthcheck verifies, before the operator starts managing domains,
// that its service account holds every permission it needs in each target
// namespace and cluster-wide, and that the cluster is in a state the operator
// can work with.
package healthcheck

import (
	"context"
	"errors"
	"time"

	apiextensionsclient "k8s.io/apiextensions-apiserver/pkg/client/clientset/clientset"
	"k8s.io/client-go/dynamic"
	"k8s.io/client-go/kubernetes"
	"k8s.io/klog/v2"
	"k8s.io/utils/pointer"

	"github.com/wko-dev/wko/pkg/logging"
)

const componentName = "preflight"

// Config configures a Checker.
type Config struct {
	KubeClient kubernetes.Interface

	// DynamicClient is optional; when set it enables domainUID uniqueness
	// verification across the target namespaces.
	DynamicClient dynamic.Interface

	// APIExtensionsClient is optional; when set it enables verification that
	// the domains CRD is installed and established.
	APIExtensionsClient apiextensionsclient.Interface

	// OperatorNamespace is the namespace the operator itself runs in. It
	// anchors cluster-scoped rules reviews.
	OperatorNamespace string

	// TargetNamespaces are the namespaces the operator manages domains in,
	// verified sequentially in this order.
	TargetNamespaces []string

	// NamespaceMatrix and ClusterMatrix override the built-in access
	// matrices. Nil selects the defaults.
	NamespaceMatrix *AccessMatrix
	ClusterMatrix   *AccessMatrix

	// ContinueOnNamespaceDenial keeps verifying the remaining target
	// namespaces after one of them had denials, so a single run reports
	// every gap. Defaults to true. Cluster scope is always verified.
	ContinueOnNamespaceDenial *bool

	// Diagnostics receives denial warnings. Defaults to a LogSink.
	Diagnostics DiagnosticSink
}

// Checker verifies the operator's required access set.
type Checker struct {
	kubeClient          kubernetes.Interface
	dynamicClient       dynamic.Interface
	apiextensionsClient apiextensionsclient.Interface

	operatorNamespace string
	targetNamespaces  []string

	namespaceMatrix AccessMatrix
	clusterMatrix   AccessMatrix

	continueOnNamespaceDenial bool
	diagnostics               DiagnosticSink
}

// NewChecker returns a Checker for the given configuration.
func NewChecker(config Config) (*Checker, error) {
	if config.KubeClient == nil {
		return nil, errors.New("a kube client is required")
	}
	if config.OperatorNamespace == "" {
		return nil, errors.New("the operator namespace is required")
	}

	c := &Checker{
		kubeClient:                config.KubeClient,
		dynamicClient:             config.DynamicClient,
		apiextensionsClient:       config.APIExtensionsClient,
		operatorNamespace:         config.OperatorNamespace,
		targetNamespaces:          config.TargetNamespaces,
		namespaceMatrix:           NamespaceAccessMatrix(),
		clusterMatrix:             ClusterAccessMatrix(),
		continueOnNamespaceDenial: pointer.BoolDeref(config.ContinueOnNamespaceDenial, true),
		diagnostics:               config.Diagnostics,
	}
	if config.NamespaceMatrix != nil {
		c.namespaceMatrix = *config.NamespaceMatrix
	}
	if config.ClusterMatrix != nil {
		c.clusterMatrix = *config.ClusterMatrix
	}
	if c.diagnostics == nil {
		c.diagnostics = LogSink{Logger: logging.WithComponent(klog.Background(), componentName)}
	}
	return c, nil
}

// Result reports the outcome of one verification run.
type Result struct {
	// Strategy is the verification method that was used.
	Strategy Strategy
	// Checked is the number of requirements that were evaluated.
	Checked int
	// Denials lists every requirement the subject is not granted, in
	// evaluation order.
	Denials []AccessRequirement
}

// Healthy reports whether every evaluated requirement was granted.
func (r *Result) Healthy() bool {
	return len(r.Denials) == 0
}

// VerifyAccess verifies the full required access set: every target namespace
// in order, then cluster scope. The verification strategy is chosen from the
// server version. Denials do not short-circuit; the run keeps evaluating so
// every gap surfaces in one pass. An error means a query itself failed and
// the run is inconclusive.
func (c *Checker) VerifyAccess(ctx context.Context) (*Result, error) {
	serverVersion, err := ServerVersion(c.kubeClient.Discovery())
	if err != nil {
		return nil, err
	}
	return c.VerifyAccessWithStrategy(ctx, SelectStrategy(serverVersion))
}

// VerifyAccessWithStrategy is VerifyAccess with the strategy pinned by the
// caller instead of derived from the server version.
func (c *Checker) VerifyAccessWithStrategy(ctx context.Context, strategy Strategy) (*Result, error) {
	start := time.Now()
	defer func() {
		verificationDuration.Observe(time.Since(start).Seconds())
	}()

	logger := logging.WithComponent(klog.FromContext(ctx), componentName)
	logger.V(2).Info("verifying operator access", logging.StrategyKey, strategy.String())

	rev := c.reviewer(strategy)
	result := &Result{Strategy: strategy}

	for _, namespace := range c.targetNamespaces {
		denied, err := c.verifyScope(ctx, rev, c.namespaceMatrix.Expand(namespace), result)
		if err != nil {
			return nil, err
		}
		if denied && !c.continueOnNamespaceDenial {
			logger.V(2).Info("stopping namespace verification after a denial", logging.NamespaceKey, namespace)
			break
		}
	}
	if _, err := c.verifyScope(ctx, rev, c.clusterMatrix.Expand(""), result); err != nil {
		return nil, err
	}

	logger.V(2).Info("access verification finished", "checked", result.Checked, "denied", len(result.Denials))
	return result, nil
}

func (c *Checker) reviewer(strategy Strategy) reviewer {
	if strategy == BulkRulesReview {
		return &rulesReviewer{
			client:            c.kubeClient.AuthorizationV1(),
			operatorNamespace: c.operatorNamespace,
		}
	}
	return &perCheckReviewer{client: c.kubeClient.AuthorizationV1()}
}

func (c *Checker) verifyScope(ctx context.Context, rev reviewer, reqs []AccessRequirement, result *Result) (denied bool, err error) {
	granted, err := rev.allowed(ctx, reqs)
	if err != nil {
		return false, err
	}
	for i, req := range reqs {
		result.Checked++
		if granted[i] {
			continue
		}
		denied = true
		result.Denials = append(result.Denials, req)
		c.warnDenied(req)
	}
	return denied, nil
}

func (c *Checker) warnDenied(req AccessRequirement) {
	fields := []interface{}{
		logging.VerbKey, string(req.Verb),
		logging.ResourceKey, req.Resource.Resource,
		logging.SubresourceKey, req.Resource.Subresource,
		logging.APIGroupKey, req.Resource.APIGroup,
	}
	if req.Namespace != "" {
		accessDenials.WithLabelValues(scopeNamespace).Inc()
		c.diagnostics.Warning(logging.AccessDeniedInNamespace,
			append([]interface{}{logging.NamespaceKey, req.Namespace}, fields...)...)
		return
	}
	accessDenials.WithLabelValues(scopeCluster).Inc()
	c.diagnostics.Warning(logging.AccessDenied, fields...)
}
