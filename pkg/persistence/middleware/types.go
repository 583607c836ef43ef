// Package middleware provides composable JobStore wrappers for data at rest.
// Prescribing documents carry patient-adjacent metadata, so deployments can
// layer PII masking and envelope encryption in front of any backend.
package middleware

import "github.com/aretw0/scribe/pkg/ports"

// Middleware allows wrapping a JobStore to add behavior.
type Middleware func(ports.JobStore) ports.JobStore

// Chain applies middlewares left to right, so the first one is the outermost.
func Chain(store ports.JobStore, mws ...Middleware) ports.JobStore {
	for i := len(mws) - 1; i >= 0; i-- {
		store = mws[i](store)
	}
	return store
}
