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

	"k8s.io/apimachinery/pkg/util/sets"
)

// Verb is one of the RBAC verbs the operator requires. It is a closed set so
// that a typo in a matrix cannot silently create a requirement no rule will
// ever cover.
type Verb string

const (
	VerbGet              Verb = "get"
	VerbList             Verb = "list"
	VerbWatch            Verb = "watch"
	VerbCreate           Verb = "create"
	VerbUpdate           Verb = "update"
	VerbPatch            Verb = "patch"
	VerbDelete           Verb = "delete"
	VerbDeleteCollection Verb = "deletecollection"
)

var knownVerbs = sets.NewString(
	string(VerbGet),
	string(VerbList),
	string(VerbWatch),
	string(VerbCreate),
	string(VerbUpdate),
	string(VerbPatch),
	string(VerbDelete),
	string(VerbDeleteCollection),
)

// ParseVerb validates s against the closed verb set.
func ParseVerb(s string) (Verb, error) {
	if !knownVerbs.Has(s) {
		return "", fmt.Errorf("unknown verb %q, expected one of %v", s, knownVerbs.List())
	}
	return Verb(s), nil
}

// Canonical verb groups of the built-in access matrices.
var (
	crudVerbs       = []Verb{VerbGet, VerbList, VerbWatch, VerbCreate, VerbUpdate, VerbPatch, VerbDelete, VerbDeleteCollection}
	readWatchVerbs  = []Verb{VerbGet, VerbList, VerbWatch}
	readOnlyVerbs   = []Verb{VerbGet, VerbList}
	readUpdateVerbs = []Verb{VerbGet, VerbList, VerbWatch, VerbUpdate, VerbPatch}
	createOnlyVerbs = []Verb{VerbCreate}
)
