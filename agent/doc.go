// Package agent implements the agent-as-tool composition engine: named
// agents wrapping a conversational session, exposable as tools callable by
// other agents, recursively, under a shared turn budget.
//
// Design principles:
//   - The turn budget is one shared TurnMonitor instance, broadcast by
//     reference across every agent reachable through agent-tool edges at the
//     start of each top-level run
//   - Budget and model failures propagate raw at the top-level Run boundary,
//     but degrade into in-band tool results at every agent-tool boundary so
//     a parent agent can still produce a best-effort answer
//   - Agents are configured once and live for the process lifetime; their
//     sessions accumulate conversation history across runs until an explicit
//     reset
package agent
