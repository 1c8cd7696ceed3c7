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

package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	apiextensionsclient "k8s.io/apiextensions-apiserver/pkg/client/clientset/clientset"
	genericapiserver "k8s.io/apiserver/pkg/server"
	"k8s.io/client-go/dynamic"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
	"k8s.io/klog/v2"

	preflightoptions "github.com/wko-dev/wko/cmd/preflight/options"
	"github.com/wko-dev/wko/pkg/healthcheck"
	"github.com/wko-dev/wko/pkg/logging"
)

func NewPreflightCommand() *cobra.Command {
	options := preflightoptions.NewOptions()
	preflightCommand := &cobra.Command{
		Use:   "preflight",
		Short: "Verify the operator's access before it starts managing domains",
		Long: heredoc.Doc(`
			Preflight verifies that the operator's service account holds every
			permission it needs in each target namespace and cluster-wide, that
			the domains custom resource definition is installed, and that domain
			persistent volumes are usable. Each missing permission is reported
			as a warning; the command exits non-zero when any check failed.
		`),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := options.Logs.ValidateAndApply(nil); err != nil {
				return err
			}
			if err := options.Complete(); err != nil {
				return err
			}
			if err := options.Validate(); err != nil {
				return err
			}

			ctx := genericapiserver.SetupSignalContext()
			return Run(ctx, options)
		},
	}

	options.AddFlags(preflightCommand.Flags())

	return preflightCommand
}

func Run(ctx context.Context, options *preflightoptions.Options) error {
	logger := logging.WithComponent(klog.FromContext(ctx), "preflight")

	restConfig, err := restConfigFor(options)
	if err != nil {
		return err
	}
	restConfig.QPS = options.QPS
	restConfig.Burst = options.Burst

	kubeClient, err := kubernetes.NewForConfig(restConfig)
	if err != nil {
		return err
	}
	apiextensionsClient, err := apiextensionsclient.NewForConfig(restConfig)
	if err != nil {
		return err
	}
	dynamicClient, err := dynamic.NewForConfig(restConfig)
	if err != nil {
		return err
	}

	checkerConfig := healthcheck.Config{
		KubeClient:                kubeClient,
		DynamicClient:             dynamicClient,
		APIExtensionsClient:       apiextensionsClient,
		OperatorNamespace:         options.OperatorNamespace,
		TargetNamespaces:          options.TargetNamespaces,
		ContinueOnNamespaceDenial: &options.ContinueOnNamespaceDenial,
	}
	if options.AccessMatrixFile != "" {
		data, err := os.ReadFile(options.AccessMatrixFile)
		if err != nil {
			return fmt.Errorf("reading access matrix file: %w", err)
		}
		matrixConfig, err := healthcheck.LoadMatrixConfig(data)
		if err != nil {
			return err
		}
		namespaced, cluster, err := matrixConfig.Matrices()
		if err != nil {
			return err
		}
		if len(namespaced.Rules) > 0 {
			checkerConfig.NamespaceMatrix = &namespaced
		}
		if len(cluster.Rules) > 0 {
			checkerConfig.ClusterMatrix = &cluster
		}
	}

	checker, err := healthcheck.NewChecker(checkerConfig)
	if err != nil {
		return err
	}

	var errs error

	result, err := checker.VerifyAccess(ctx)
	if err != nil {
		return err
	}
	if !result.Healthy() {
		errs = multierr.Append(errs, fmt.Errorf("%d of %d required permissions denied", len(result.Denials), result.Checked))
	}

	if !options.SkipCRDCheck {
		if err := checker.VerifyDomainCRD(ctx); err != nil {
			errs = multierr.Append(errs, err)
		}
	}

	unique, err := checker.VerifyDomainUIDUniqueness(ctx)
	if err != nil {
		return multierr.Append(errs, err)
	}
	if !unique {
		errs = multierr.Append(errs, fmt.Errorf("domainUIDs are not unique across the target namespaces"))
	}

	for _, domainUID := range options.DomainUIDs {
		healthy, err := checker.VerifyPersistentVolumes(ctx, domainUID)
		if err != nil {
			return multierr.Append(errs, err)
		}
		if !healthy {
			errs = multierr.Append(errs, fmt.Errorf("persistent volumes for domainUID %q are not usable", domainUID))
		}
	}

	if errs != nil {
		return fmt.Errorf("preflight failed: %w", errs)
	}
	logger.Info("preflight passed", "checked", result.Checked, logging.StrategyKey, result.Strategy.String())
	return nil
}

func restConfigFor(options *preflightoptions.Options) (*rest.Config, error) {
	if options.Kubeconfig == "" && options.Context == "" {
		return rest.InClusterConfig()
	}
	return clientcmd.NewNonInteractiveDeferredLoadingClientConfig(
		&clientcmd.ClientConfigLoadingRules{ExplicitPath: options.Kubeconfig},
		&clientcmd.ConfigOverrides{CurrentContext: options.Context},
	).ClientConfig()
}
