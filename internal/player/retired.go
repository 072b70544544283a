package player

// Retired is the durable record of a player whose dog was pulled from its
// session for exceeding the idle-retirement threshold. It is what
// internal/leaderboard persists and ranks. ID is the in-process player id
// at the moment of retirement, carried along so a replayed retirement
// (e.g. after a crash between save and acknowledgement) does not insert a
// duplicate row.
type Retired struct {
	ID         int
	Name       string
	Score      int
	PlayTimeMs int64
}
