package model

type ClickOutcome string

const (
	ClickIgnored   ClickOutcome = "ignored"
	ClickSelected  ClickOutcome = "selected"
	ClickMoved     ClickOutcome = "moved"
	ClickIllegal   ClickOutcome = "illegal"
	ClickWrongTurn ClickOutcome = "wrongTurn"
)

type ClickResult struct {
	Outcome ClickOutcome `json:"outcome"`
	From    *Square      `json:"from,omitempty"`
	To      Square       `json:"to"`
	Verdict MoveVerdict  `json:"verdict"`
}

// Game drives a board through select-then-move clicks. It is not safe for
// concurrent use.
type Game struct {
	board    *Board
	selected *Square
	onCommit func(*Board)
}

func NewGame(b *Board) *Game {
	if b == nil {
		b = NewBoard()
	}
	return &Game{board: b}
}

// OnCommit registers fn to run after every committed move. fn must not keep
// the board past its return.
func (g *Game) OnCommit(fn func(*Board)) {
	g.onCommit = fn
}

// Board returns a copy of the current board.
func (g *Game) Board() *Board {
	return g.board.Clone()
}

func (g *Game) Turn() Side {
	return g.board.turn
}

// Selection returns the selected square, if any.
func (g *Game) Selection() (Square, bool) {
	if g.selected == nil {
		return Square{}, false
	}
	return *g.selected, true
}

// Selected returns the live piece under the selection, if any.
func (g *Game) Selected() (Piece, bool) {
	sq, ok := g.Selection()
	if !ok {
		return Piece{}, false
	}
	p, _, ok := g.board.PieceAt(sq)
	return p, ok
}

func (g *Game) ClearSelection() {
	g.selected = nil
}

// Click handles one click on sq. With nothing selected a click on a live
// piece selects it. With a selection, any click on the board attempts the
// move and clears the selection whatever the outcome.
func (g *Game) Click(sq Square) ClickResult {
	res := ClickResult{Outcome: ClickIgnored, To: sq}
	if !sq.Valid() {
		return res
	}

	if g.selected == nil {
		if g.board.Occupied(sq) {
			sel := sq
			g.selected = &sel
			res.Outcome = ClickSelected
		}
		return res
	}

	from := *g.selected
	g.selected = nil
	res.From = &from

	res.Verdict = Validate(g.board, from, sq)
	switch err := g.board.Apply(from, sq, res.Verdict); err {
	case nil:
		res.Outcome = ClickMoved
		if g.onCommit != nil {
			g.onCommit(g.board)
		}
	case ErrNotYourTurn:
		res.Outcome = ClickWrongTurn
	default:
		res.Outcome = ClickIllegal
	}
	return res
}

// Move selects from and clicks to, discarding any earlier selection.
func (g *Game) Move(from, to Square) ClickResult {
	g.selected = nil
	if res := g.Click(from); res.Outcome != ClickSelected {
		return ClickResult{Outcome: ClickIgnored, From: &from, To: to}
	}
	return g.Click(to)
}
