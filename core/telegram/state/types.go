package state

// State identifies which free-text input, if any, the bot expects from a user.
type State string

const (
	// StateIdle indicates there is no active conversation with the user.
	StateIdle State = "idle"
)

// Store keeps one State per user. Implementations must be safe for concurrent use.
type Store interface {
	// Get returns the user's state, or StateIdle when none is recorded.
	Get(userID int64) State
	// Set records the state; StateIdle removes the record.
	Set(userID int64, st State)
	// Take returns the current state and resets the user to idle in one step.
	Take(userID int64) State
	// Clear resets the user to idle.
	Clear(userID int64)
}
