package fogdto

// BoardView is one perspective of a game, ready for the presenter.
type BoardView struct {
	GameID      string
	Perspective string
	// Placement is the FEN piece-placement field of what this perspective sees.
	Placement  string
	Turn       string
	MoveCount  int
	Fogged     int
	Finished   bool
	Outcome    string
	BoardImage []byte
}
