/*
Copyright 2025 The Application Catalog Manager contributors.

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

package main

import (
	"context"
	"flag"
	"strings"
	"time"

	"github.com/go-logr/zapr"
	"go.uber.org/zap"

	"k8c.io/paramsync/internal/engine"
	"k8c.io/paramsync/internal/pkg/kubernetes"
	aclog "k8c.io/paramsync/internal/pkg/log"
	"k8c.io/paramsync/internal/pkg/poll"
	"k8c.io/paramsync/internal/pkg/source"
	projectmappingv1alpha1 "k8c.io/paramsync/pkg/apis/projectmapping/v1alpha1"

	"k8s.io/apimachinery/pkg/runtime"
	utilruntime "k8s.io/apimachinery/pkg/util/runtime"
	clientgoscheme "k8s.io/client-go/kubernetes/scheme"
	ctrl "sigs.k8s.io/controller-runtime"
	ctrlruntimeclient "sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/client/config"
	"sigs.k8s.io/controller-runtime/pkg/healthz"
	ctrlruntimelog "sigs.k8s.io/controller-runtime/pkg/log"
	"sigs.k8s.io/controller-runtime/pkg/manager"
	metricsserver "sigs.k8s.io/controller-runtime/pkg/metrics/server"
)

var scheme = runtime.NewScheme()

func init() {
	utilruntime.Must(clientgoscheme.AddToScheme(scheme))
	utilruntime.Must(projectmappingv1alpha1.AddToScheme(scheme))
}

type flags struct {
	reconciliationInterval time.Duration
	healthProbeAddress     string
	metricsAddress         string
	namespace              string
	dryRun                 bool
	sourceDriver           string
	sourceConfig           string
}

func main() {
	var f flags
	logFlags := aclog.NewDefaultOptions()
	logFlags.AddFlags(flag.CommandLine)

	flag.DurationVar(&f.reconciliationInterval, "reconciliation-interval", 1*time.Minute, "Interval for reconciling ProjectMappings")
	flag.StringVar(&f.healthProbeAddress, "health-probe-address", "127.0.0.1:8085", "The address on which the liveness check on /healthz and readiness check on /readyz will be available")
	flag.StringVar(&f.metricsAddress, "metrics-address", "127.0.0.1:8080", "The address on which Prometheus metrics will be available under /metrics")
	flag.StringVar(&f.namespace, "namespace", "default", "The namespace used for resources whose rendered manifest specifies none")
	flag.BoolVar(&f.dryRun, "dry-run", false, "Log the actions that would be taken without writing to the cluster")
	flag.StringVar(&f.sourceDriver, "source-driver", "", "Name of the registered ParameterSource driver to use (see internal/pkg/source.Register)")
	flag.StringVar(&f.sourceConfig, "source-config", "", "Comma-separated key=value pairs passed to the ParameterSource driver")

	flag.Parse()

	rawLog := aclog.New(logFlags.Debug, logFlags.Format)
	l := rawLog.Sugar()
	ctrlruntimelog.SetLogger(zapr.NewLogger(rawLog.WithOptions(zap.AddCallerSkip(1))))

	src, err := source.New(f.sourceDriver, parseSourceConfig(f.sourceConfig))
	if err != nil {
		l.Fatalf("Failed to build ParameterSource: %v", err)
	}

	options := manager.Options{
		Scheme:                 scheme,
		LeaderElection:         false,
		HealthProbeBindAddress: f.healthProbeAddress,
		Metrics: metricsserver.Options{
			BindAddress: f.metricsAddress,
		},
	}

	mgr, err := manager.New(config.GetConfigOrDie(), options)
	if err != nil {
		l.Fatalf("Failed to create manager: %v", err)
	}

	if err := mgr.AddHealthzCheck("healthz", healthz.Ping); err != nil {
		l.Fatalf("Failed to set up health check: %v", err)
	}
	if err := mgr.AddReadyzCheck("readyz", healthz.Ping); err != nil {
		l.Fatalf("Failed to set up ready check: %v", err)
	}

	// A separate, uncached client is used here rather than mgr.GetClient():
	// the manager's cached client does not implement client.WithWatch, and
	// the poll loop needs Watch() directly on ProjectMapping (spec.md §4.7).
	watchClient, err := ctrlruntimeclient.NewWithWatch(mgr.GetConfig(), ctrlruntimeclient.Options{Scheme: scheme})
	if err != nil {
		l.Fatalf("Failed to create watch client: %v", err)
	}

	re := &engine.ReconcileEngine{
		Gateway: kubernetes.New(watchClient, f.namespace, f.dryRun, l.Named("gateway")),
		Source:  src,
		Log:     l.Named("engine"),
		Debug:   logFlags.Debug,
	}

	runnable := manager.RunnableFunc(func(ctx context.Context) error {
		l.Infow("Starting reconciliation loop", "interval", f.reconciliationInterval, "dryRun", f.dryRun)
		poll.Run(ctx, f.reconciliationInterval, re.Gateway.WatchProjectMappings, func(ctx context.Context) {
			_ = re.Apply(ctx)
		}, l.Named("pollloop"))
		return nil
	})

	if err := mgr.Add(runnable); err != nil {
		l.Fatalf("Failed to register reconciliation loop: %v", err)
	}

	if err := mgr.Start(ctrl.SetupSignalHandler()); err != nil {
		l.Fatalf("Failed to start manager: %v", err)
	}
}

// parseSourceConfig turns "k=v,k2=v2" into a map, the same flat shape a
// ParameterSource driver's Factory receives.
func parseSourceConfig(s string) map[string]string {
	cfg := map[string]string{}
	if s == "" {
		return cfg
	}
	for _, pair := range strings.Split(s, ",") {
		k, v, found := strings.Cut(pair, "=")
		if !found {
			continue
		}
		cfg[k] = v
	}
	return cfg
}
