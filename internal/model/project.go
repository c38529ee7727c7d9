package model

// Project is a named handle on one board snapshot
type Project struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Color string `json:"color,omitempty"`
}

// BoardKey returns the persistence key of the project's board.
func (p *Project) BoardKey() string {
	return BoardKey(p.ID)
}
