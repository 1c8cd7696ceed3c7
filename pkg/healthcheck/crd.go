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

	apiextensionshelpers "k8s.io/apiextensions-apiserver/pkg/apihelpers"
	apiextensionsv1 "k8s.io/apiextensions-apiserver/pkg/apis/apiextensions/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// domainsCRDName is the CRD backing the domain resources the operator manages.
const domainsCRDName = "domains.weblogic.oracle"

// VerifyDomainCRD confirms the domains CRD is installed and established. The
// operator cannot reconcile anything without it, so a missing or unready CRD
// is an error rather than a warning diagnostic.
func (c *Checker) VerifyDomainCRD(ctx context.Context) error {
	if c.apiextensionsClient == nil {
		return errors.New("no apiextensions client configured")
	}
	crd, err := c.apiextensionsClient.ApiextensionsV1().CustomResourceDefinitions().Get(ctx, domainsCRDName, metav1.GetOptions{})
	if apierrors.IsNotFound(err) {
		return fmt.Errorf("the %s custom resource definition is not installed", domainsCRDName)
	}
	if err != nil {
		return fmt.Errorf("fetching the %s custom resource definition: %w", domainsCRDName, err)
	}
	if !apiextensionshelpers.IsCRDConditionTrue(crd, apiextensionsv1.Established) {
		return fmt.Errorf("the %s custom resource definition is not established", domainsCRDName)
	}
	return nil
}
