// Package core provides the foundational domain types shared across
// agentcall. It defines:
//
//   - TurnMonitor (shared, atomically updated model-invocation budget)
//   - The error taxonomy (TurnBudgetExceededError, ModelInvocationError)
//   - Content / Part (normalized role-based conversation segments)
//   - Transcript / Entry (observable, append-only run log)
//
// The package intentionally keeps implementation concerns (model providers,
// sessions, agents, tools) out of scope so that higher layers can depend on
// it without cycles.
package core
