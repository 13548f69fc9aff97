/*
Package observability turns simulation lifecycle events into logs and metrics.

Both LogHooks and Metrics.Hooks return domain.LifecycleHooks that can be merged
and passed to viability.WithLifecycleHooks.
*/
package observability
