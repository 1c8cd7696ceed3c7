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

	"sigs.k8s.io/yaml"
)

// MatrixConfig is the on-disk form of an access matrix override. It lets a
// deployment adjust the required permission set without a rebuild, e.g. when
// the operator is granted a dedicated namespace with a reduced role.
//
// Example:
//
//	namespaced:
//	- resources: ["configmaps", "pods"]
//	  verbs: ["get", "list", "watch"]
//	cluster:
//	- resources: ["domains//weblogic.oracle"]
//	  verbs: ["get", "list", "watch", "update", "patch"]
type MatrixConfig struct {
	Namespaced []MatrixRuleConfig `json:"namespaced,omitempty"`
	Cluster    []MatrixRuleConfig `json:"cluster,omitempty"`
}

// MatrixRuleConfig is one rule of a MatrixConfig. Resources use the compact
// reference form understood by ParseResourceRef.
type MatrixRuleConfig struct {
	Resources []string `json:"resources"`
	Verbs     []string `json:"verbs"`
}

// LoadMatrixConfig parses and validates a YAML matrix override.
func LoadMatrixConfig(data []byte) (*MatrixConfig, error) {
	config := &MatrixConfig{}
	if err := yaml.UnmarshalStrict(data, config); err != nil {
		return nil, fmt.Errorf("unmarshalling access matrix config: %w", err)
	}
	if _, err := compileRules(config.Namespaced); err != nil {
		return nil, fmt.Errorf("namespaced rules: %w", err)
	}
	if _, err := compileRules(config.Cluster); err != nil {
		return nil, fmt.Errorf("cluster rules: %w", err)
	}
	return config, nil
}

// Matrices converts the config into expandable access matrices.
func (c *MatrixConfig) Matrices() (namespaced, cluster AccessMatrix, err error) {
	namespaced.Rules, err = compileRules(c.Namespaced)
	if err != nil {
		return AccessMatrix{}, AccessMatrix{}, fmt.Errorf("namespaced rules: %w", err)
	}
	cluster.Rules, err = compileRules(c.Cluster)
	if err != nil {
		return AccessMatrix{}, AccessMatrix{}, fmt.Errorf("cluster rules: %w", err)
	}
	return namespaced, cluster, nil
}

func compileRules(rules []MatrixRuleConfig) ([]AccessRule, error) {
	var compiled []AccessRule
	for i, rule := range rules {
		if len(rule.Resources) == 0 || len(rule.Verbs) == 0 {
			return nil, fmt.Errorf("rule %d must list at least one resource and one verb", i)
		}
		out := AccessRule{}
		for _, resource := range rule.Resources {
			ref, err := ParseResourceRef(resource)
			if err != nil {
				return nil, fmt.Errorf("rule %d: %w", i, err)
			}
			out.Resources = append(out.Resources, ref)
		}
		for _, verb := range rule.Verbs {
			v, err := ParseVerb(verb)
			if err != nil {
				return nil, fmt.Errorf("rule %d: %w", i, err)
			}
			out.Verbs = append(out.Verbs, v)
		}
		compiled = append(compiled, out)
	}
	return compiled, nil
}
