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

package poll

import (
	"context"
	"time"

	"go.uber.org/zap"
	"k8s.io/apimachinery/pkg/watch"
)

// WatchOpener opens a fresh watch stream of ProjectMapping change
// notices, in the shape of ClusterGateway.WatchProjectMappings.
type WatchOpener func(ctx context.Context) (watch.Interface, error)

// Run implements PollLoop.with_polling (spec.md §4.7): alternates body
// with an interruptible sleep of interval, woken early either by a
// notice on the watch stream or by ctx cancellation. Every opened
// watcher is Stop()'d exactly once per iteration (via defer, so a
// panic inside body still releases it). body panics are caught,
// logged, and do not terminate the loop; Run itself only returns when
// ctx is cancelled.
func Run(ctx context.Context, interval time.Duration, openWatch WatchOpener, body func(ctx context.Context), log *zap.SugaredLogger) {
	sleeper := NewInterruptibleSleep()

	for {
		if ctx.Err() != nil {
			return
		}

		runIteration(ctx, interval, openWatch, body, sleeper, log)

		if ctx.Err() != nil {
			return
		}
	}
}

func runIteration(ctx context.Context, interval time.Duration, openWatch WatchOpener, body func(ctx context.Context), sleeper *InterruptibleSleep, log *zap.SugaredLogger) {
	watcher, err := openWatch(ctx)
	if err != nil {
		log.Errorw("failed to open project mapping watch, will retry next tick", "error", err)
	} else {
		defer watcher.Stop()
		go relayWatchEvents(watcher, sleeper)
	}

	runBody(ctx, body, log)

	ctxDone := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			sleeper.Interrupt()
		case <-ctxDone:
		}
	}()
	sleeper.Sleep(interval)
	close(ctxDone)
}

// relayWatchEvents interrupts sleeper on the first notice from
// watcher, then returns; the watcher itself keeps running (and is
// stopped by the caller) so further events in the same iteration are
// simply not relayed again until the next tick opens a fresh watch.
func relayWatchEvents(watcher watch.Interface, sleeper *InterruptibleSleep) {
	for range watcher.ResultChan() {
		sleeper.Interrupt()
		return
	}
}

// runBody invokes body, recovering from and logging any panic so a
// single bad tick never terminates the poll loop.
func runBody(ctx context.Context, body func(ctx context.Context), log *zap.SugaredLogger) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorw("reconciliation tick panicked, continuing", "panic", r)
		}
	}()
	body(ctx)
}
