// Package engine implements the reasoning-verification pipeline:
// expression parsing, collaborator invocation, response interpretation,
// local verification and confidence scoring.

package engine

// AgentState represents the current operational state of the agent.
type AgentState string

const (
	StateIdle       AgentState = "idle"
	StateProcessing AgentState = "processing"
	StateReasoning  AgentState = "reasoning"
	StateVerifying  AgentState = "verifying"
	StateCompleted  AgentState = "completed"
	StateError      AgentState = "error"
)

// Terminal reports whether the state ends a request pass. Completed and
// Error are terminal for the current request only; ProcessRequest
// overwrites the state at entry, so a new request always starts from
// Processing regardless of how the previous one ended.
func (s AgentState) Terminal() bool {
	return s == StateCompleted || s == StateError
}
