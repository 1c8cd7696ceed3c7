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
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidResourceRef is returned when a compact resource reference cannot
// be parsed.
var ErrInvalidResourceRef = errors.New("invalid resource reference")

// ResourceRef identifies a resource targeted by an access check, optionally
// qualified by a subresource and an API group. The compact string form is
// "resource", "resource/subresource" or "resource/subresource/apiGroup". The
// subresource segment may be empty, e.g. "jobs//batch" references the jobs
// resource of the batch group with no subresource.
type ResourceRef struct {
	Resource    string
	Subresource string
	APIGroup    string
}

// ParseResourceRef parses the compact string form of a ResourceRef. Splitting
// is positional: segment 0 is the resource, segment 1 the subresource and
// segment 2 the API group. References with more than three segments or an
// empty resource segment are rejected rather than truncated; the references
// are static configuration, so a malformed one is a configuration error that
// must not silently turn into a check against the wrong resource.
func ParseResourceRef(s string) (ResourceRef, error) {
	segments := strings.Split(s, "/")
	if len(segments) > 3 || segments[0] == "" {
		return ResourceRef{}, fmt.Errorf("%w: %q", ErrInvalidResourceRef, s)
	}
	ref := ResourceRef{Resource: segments[0]}
	if len(segments) > 1 {
		ref.Subresource = segments[1]
	}
	if len(segments) > 2 {
		ref.APIGroup = segments[2]
	}
	return ref, nil
}

// MustParseResourceRef is like ParseResourceRef but panics on malformed
// input. It is intended for the built-in access matrices.
func MustParseResourceRef(s string) ResourceRef {
	ref, err := ParseResourceRef(s)
	if err != nil {
		panic(err)
	}
	return ref
}

// String returns the compact form, such that ParseResourceRef(r.String()) == r.
func (r ResourceRef) String() string {
	switch {
	case r.APIGroup != "":
		return r.Resource + "/" + r.Subresource + "/" + r.APIGroup
	case r.Subresource != "":
		return r.Resource + "/" + r.Subresource
	default:
		return r.Resource
	}
}

// RuleForm returns the resource name as it appears in RBAC rules:
// "resource/subresource" when a subresource is set, the bare resource
// otherwise. The API group is carried separately in rules.
func (r ResourceRef) RuleForm() string {
	if r.Subresource == "" {
		return r.Resource
	}
	return r.Resource + "/" + r.Subresource
}
