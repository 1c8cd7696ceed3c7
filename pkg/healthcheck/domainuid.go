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
	"errors"
	"fmt"
	"sort"
	"strings"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime/schema"

	"github.com/wko-dev/wko/pkg/logging"
)

// domainsGVR locates the domain custom resources the operator manages.
var domainsGVR = schema.GroupVersionResource{Group: "weblogic.oracle", Version: "v1", Resource: "domains"}

// VerifyDomainUIDUniqueness lists every domain across the target namespaces
// and raises a diagnostic for each domainUID claimed by more than one domain.
// DomainUIDs key persistent volume labels and server identities cluster-wide,
// so they must be unique even across namespaces. Returns false when any
// duplicate was found.
func (c *Checker) VerifyDomainUIDUniqueness(ctx context.Context) (bool, error) {
	if c.dynamicClient == nil {
		return false, errors.New("no dynamic client configured")
	}

	domainsByUID := map[string][]string{}
	for _, namespace := range c.targetNamespaces {
		list, err := c.dynamicClient.Resource(domainsGVR).Namespace(namespace).List(ctx, metav1.ListOptions{})
		if err != nil {
			return false, fmt.Errorf("listing domains in namespace %q: %w", namespace, err)
		}
		for _, domain := range list.Items {
			uid := domainUID(&domain)
			domainsByUID[uid] = append(domainsByUID[uid], domain.GetNamespace()+"/"+domain.GetName())
		}
	}

	uids := make([]string, 0, len(domainsByUID))
	for uid := range domainsByUID {
		uids = append(uids, uid)
	}
	sort.Strings(uids)

	unique := true
	for _, uid := range uids {
		domains := domainsByUID[uid]
		if len(domains) <= 1 {
			continue
		}
		unique = false
		c.diagnostics.Warning(logging.DomainUIDUniquenessFailed,
			logging.DomainUIDKey, uid, "domains", strings.Join(domains, ", "))
	}
	return unique, nil
}

// domainUID returns the domain's spec.domainUID, defaulting to the resource
// name the way the operator does when the field is unset.
func domainUID(domain *unstructured.Unstructured) string {
	uid, found, err := unstructured.NestedString(domain.Object, "spec", "domainUID")
	if err != nil || !found || uid == "" {
		return domain.GetName()
	}
	return uid
}
