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

	"k8s.io/apimachinery/pkg/util/version"
	"k8s.io/client-go/discovery"
)

// Strategy is the method used to verify the required access set.
type Strategy int

const (
	// PerCheckReview issues one SelfSubjectAccessReview per requirement and
	// takes the allowed flag of each response. It works on any server version.
	PerCheckReview Strategy = iota
	// BulkRulesReview issues a single SelfSubjectRulesReview per scope and
	// matches every requirement against the returned rules.
	BulkRulesReview
)

func (s Strategy) String() string {
	switch s {
	case PerCheckReview:
		return "SelfSubjectAccessReview"
	case BulkRulesReview:
		return "SelfSubjectRulesReview"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// rulesReviewMinVersion is the oldest server version whose authorization API
// serves SelfSubjectRulesReview.
var rulesReviewMinVersion = version.MustParseGeneric("1.8")

// SelectStrategy picks the verification method the given server version
// supports. This is a capability gate only; there is no fallback from one
// strategy to the other within a run.
func SelectStrategy(serverVersion *version.Version) Strategy {
	if serverVersion.AtLeast(rulesReviewMinVersion) {
		return BulkRulesReview
	}
	return PerCheckReview
}

// ServerVersion fetches the cluster version through discovery and parses it.
func ServerVersion(client discovery.ServerVersionInterface) (*version.Version, error) {
	info, err := client.ServerVersion()
	if err != nil {
		return nil, fmt.Errorf("fetching server version: %w", err)
	}
	v, err := version.ParseGeneric(info.GitVersion)
	if err != nil {
		return nil, fmt.Errorf("parsing server version %q: %w", info.GitVersion, err)
	}
	return v, nil
}
