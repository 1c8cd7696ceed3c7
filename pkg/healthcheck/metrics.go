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
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	compbasemetrics "k8s.io/component-base/metrics"
	"k8s.io/component-base/metrics/legacyregistry"
)

const (
	scopeNamespace = "namespace"
	scopeCluster   = "cluster"
)

var (
	verificationDuration = compbasemetrics.NewHistogram(
		&compbasemetrics.HistogramOpts{
			Name: "preflight_verification_duration_seconds",
			Help: "Duration distribution in seconds of full access verification runs.",
			// From 5ms to ~20s; per-check runs issue one API call per requirement.
			Buckets:        prometheus.ExponentialBuckets(.005, 2, 13),
			StabilityLevel: compbasemetrics.ALPHA,
		},
	)

	accessDenials = compbasemetrics.NewCounterVec(
		&compbasemetrics.CounterOpts{
			Name:           "preflight_access_denials_total",
			Help:           "Number of required permissions the operator was denied, by scope.",
			StabilityLevel: compbasemetrics.ALPHA,
		},
		[]string{"scope"},
	)
)

var registerMetrics sync.Once

// Register metrics.
func Register() {
	registerMetrics.Do(func() {
		legacyregistry.MustRegister(verificationDuration)
		legacyregistry.MustRegister(accessDenials)
	})
}

func init() {
	Register()
}
