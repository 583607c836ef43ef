/*
Package observability bridges Scribe's lifecycle hooks to Prometheus.

It defines the metric set for the ingestion pipeline and the narration
sequencer, and a LifecycleHooks adapter so the core packages stay free of any
metrics dependency.
*/
package observability
