// Package summary produces a short human-readable summary of the task list.
// It is built as a strict fallback chain: an optional external provider is
// attempted exactly once per invocation, and any provider failure is
// resolved by substituting a deterministic locally computed summary, so a
// non-empty result is always returned. No cross-call state is kept; this is
// not a circuit breaker.
package summary
