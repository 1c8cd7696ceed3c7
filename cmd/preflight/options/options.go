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

package options

import (
	"errors"
	"os"

	"github.com/spf13/pflag"

	"k8s.io/component-base/config"
	"k8s.io/component-base/logs"
)

type Options struct {
	QPS   float32
	Burst int

	Kubeconfig string
	Context    string

	OperatorNamespace string
	TargetNamespaces  []string

	AccessMatrixFile          string
	ContinueOnNamespaceDenial bool
	SkipCRDCheck              bool
	DomainUIDs                []string

	Logs *logs.Options
}

func NewOptions() *Options {
	// Default to -v=2
	logs := logs.NewOptions()
	logs.Config.Verbosity = config.VerbosityLevel(2)

	return &Options{
		QPS:                       30,
		Burst:                     20,
		OperatorNamespace:         os.Getenv("POD_NAMESPACE"),
		TargetNamespaces:          []string{"default"},
		ContinueOnNamespaceDenial: true,
		Logs:                      logs,
	}
}

func (options *Options) AddFlags(fs *pflag.FlagSet) {
	fs.Float32Var(&options.QPS, "qps", options.QPS, "QPS to use when talking to the API server.")
	fs.IntVar(&options.Burst, "burst", options.Burst, "Burst to use when talking to the API server.")
	fs.StringVar(&options.Kubeconfig, "kubeconfig", options.Kubeconfig, "Kubeconfig file for the cluster. If not set, the in-cluster configuration will be used.")
	fs.StringVar(&options.Context, "context", options.Context, "Context to use in the kubeconfig file, instead of the current context.")
	fs.StringVar(&options.OperatorNamespace, "operator-namespace", options.OperatorNamespace, "Namespace the operator runs in. Defaults to the POD_NAMESPACE environment variable.")
	fs.StringSliceVarP(&options.TargetNamespaces, "target-namespaces", "n", options.TargetNamespaces, "Namespaces the operator manages domains in, verified in order.")
	fs.StringVar(&options.AccessMatrixFile, "access-matrix-file", options.AccessMatrixFile, "YAML file overriding the built-in required access matrices.")
	fs.BoolVar(&options.ContinueOnNamespaceDenial, "continue-on-namespace-denial", options.ContinueOnNamespaceDenial, "Keep verifying the remaining target namespaces after one of them had denials.")
	fs.BoolVar(&options.SkipCRDCheck, "skip-crd-check", options.SkipCRDCheck, "Skip verifying that the domains custom resource definition is installed.")
	fs.StringSliceVar(&options.DomainUIDs, "domain-uids", options.DomainUIDs, "DomainUIDs whose persistent volumes should be verified.")

	options.Logs.AddFlags(fs)
}

func (options *Options) Complete() error {
	return nil
}

func (options *Options) Validate() error {
	if options.OperatorNamespace == "" {
		return errors.New("--operator-namespace is required when POD_NAMESPACE is not set")
	}
	if len(options.TargetNamespaces) == 0 {
		return errors.New("at least one target namespace is required")
	}
	return nil
}
