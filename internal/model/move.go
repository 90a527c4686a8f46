package model

// Move is a from/to pair as sent by clients.
type Move struct {
	From Square `json:"from"`
	To   Square `json:"to"`
}

func (m Move) String() string {
	return m.From.String() + "-" + m.To.String()
}
