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

package source

import (
	"fmt"
	"sync"
)

// Factory builds a Source from a flat string config (typically
// populated from environment variables or flags by the caller).
type Factory func(config map[string]string) (Source, error)

var (
	registryMu sync.Mutex
	registry   = map[string]Factory{}
)

// Register makes a named Source implementation available to
// cmd/controller's -source-driver flag. Driver packages call this from
// an init() func, the way database/sql drivers register themselves;
// this repository ships no concrete CloudTruth driver, only the
// interface and the fake used in tests (spec.md §1's external
// collaborator boundary), so the registry is empty until an operator
// links one in.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if factory == nil {
		panic("source: Register factory is nil")
	}
	if _, exists := registry[name]; exists {
		panic("source: Register called twice for driver " + name)
	}
	registry[name] = factory
}

// New builds the named driver's Source. It returns an error naming
// every registered driver when name is unknown, so a misconfigured
// -source-driver flag fails fast with an actionable message rather than
// a nil-pointer panic deep in the poll loop.
func New(name string, config map[string]string) (Source, error) {
	registryMu.Lock()
	factory, ok := registry[name]
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	registryMu.Unlock()

	if !ok {
		return nil, fmt.Errorf("source: no driver registered as %q (registered: %v); this binary ships no concrete ParameterSource implementation, link one in via source.Register", name, names)
	}
	return factory(config)
}
