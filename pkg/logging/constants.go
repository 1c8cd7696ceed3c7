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

// Package logging supplies common constants to ensure consistent use of structured logs.
package logging

import (
	"github.com/go-logr/logr"
)

const (
	// ComponentKey is used to identify the operator component writing a log.
	ComponentKey = "component"

	// NamespaceKey is used to specify the namespace a log is related to.
	NamespaceKey = "namespace"
	// ResourceKey is used to specify the resource of an access check.
	ResourceKey = "resource"
	// SubresourceKey is used to specify the subresource of an access check.
	SubresourceKey = "subresource"
	// APIGroupKey is used to specify the API group of an access check.
	APIGroupKey = "apiGroup"
	// VerbKey is used to specify the verb of an access check.
	VerbKey = "verb"
	// StrategyKey is used to expose the verification strategy of a run.
	StrategyKey = "strategy"

	// DomainUIDKey is used to specify the domainUID a log is related to.
	DomainUIDKey = "domainUID"
	// PersistentVolumeKey is used to specify a persistent volume by name.
	PersistentVolumeKey = "persistentVolume"
)

// Warning diagnostics raised during preflight verification. Each is emitted
// with the structured fields that identify the failing check.
const (
	// AccessDenied is raised when a required cluster-scoped permission is
	// missing. The operator cannot start without it.
	AccessDenied = "operator is not authorized for a required cluster-scoped operation"
	// AccessDeniedInNamespace is raised when a required permission is missing
	// in one target namespace. The operator may still manage the others.
	AccessDeniedInNamespace = "operator is not authorized for a required operation in a target namespace"
	// DomainUIDUniquenessFailed is raised when two domains share a domainUID.
	DomainUIDUniquenessFailed = "multiple domains share the same domainUID"
	// PersistentVolumeAccessModeFailed is raised when a domain's persistent
	// volume does not allow ReadWriteMany access.
	PersistentVolumeAccessModeFailed = "persistent volume for the domain does not allow ReadWriteMany access"
	// PersistentVolumeNotFound is raised when no persistent volume carries
	// the domainUID label of a domain that requires one.
	PersistentVolumeNotFound = "no persistent volume found for the domainUID"
)

// WithComponent adds the component name to the logger.
func WithComponent(logger logr.Logger, component string) logr.Logger {
	return logger.WithValues(ComponentKey, component)
}

// WithNamespace adds the namespace to the logger.
func WithNamespace(logger logr.Logger, namespace string) logr.Logger {
	return logger.WithValues(NamespaceKey, namespace)
}
