package model

type Player struct {
	ID   string `json:"id"`
	Side Side   `json:"side"`
}

// Seats records which player plays each side. An empty ID means the seat is
// open.
type Seats struct {
	White Player `json:"white"`
	Black Player `json:"black"`
}

// Seat gives playerID the first open seat, white before black.
func (s *Seats) Seat(playerID string) (Side, bool) {
	if side, ok := s.SideOf(playerID); ok {
		return side, true
	}
	if s.White.ID == "" {
		s.White = Player{ID: playerID, Side: White}
		return White, true
	}
	if s.Black.ID == "" {
		s.Black = Player{ID: playerID, Side: Black}
		return Black, true
	}
	return 0, false
}

func (s *Seats) SideOf(playerID string) (Side, bool) {
	switch {
	case playerID == "":
		return 0, false
	case s.White.ID == playerID:
		return White, true
	case s.Black.ID == playerID:
		return Black, true
	}
	return 0, false
}

// Empty reports whether nobody has been seated, i.e. the board is shared.
func (s *Seats) Empty() bool {
	return s.White.ID == "" && s.Black.ID == ""
}
