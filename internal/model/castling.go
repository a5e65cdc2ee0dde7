package model

const (
	kingHomeCol      = 4
	queenSideRookCol = 0
	kingSideRookCol  = 7
)

type CastlingRights struct {
	KingSide  bool `json:"kingSide"`
	QueenSide bool `json:"queenSide"`
}

// Castling holds both colors' rights. Rights only ever go from true to false.
type Castling struct {
	White CastlingRights `json:"white"`
	Black CastlingRights `json:"black"`
}

func fullCastling() Castling {
	return Castling{
		White: CastlingRights{KingSide: true, QueenSide: true},
		Black: CastlingRights{KingSide: true, QueenSide: true},
	}
}

func (c *Castling) For(color Color) CastlingRights {
	if color == White {
		return c.White
	}
	return c.Black
}

func (c *Castling) rights(color Color) *CastlingRights {
	if color == White {
		return &c.White
	}
	return &c.Black
}

func (c *Castling) revokeAll(color Color) {
	r := c.rights(color)
	r.KingSide = false
	r.QueenSide = false
}

// revokeCorner drops the right tied to the rook corner at col, if any.
func (c *Castling) revokeCorner(color Color, col int) {
	r := c.rights(color)
	switch col {
	case queenSideRookCol:
		r.QueenSide = false
	case kingSideRookCol:
		r.KingSide = false
	}
}

// sanitize drops rights whose king or rook is not on its home square.
func (c *Castling) sanitize(board *Board) {
	for _, color := range []Color{White, Black} {
		row := homeRow(color)
		if board[row][kingHomeCol] != (Piece{Type: King, Color: color}) {
			c.revokeAll(color)
			continue
		}
		rook := Piece{Type: Rook, Color: color}
		if board[row][queenSideRookCol] != rook {
			c.revokeCorner(color, queenSideRookCol)
		}
		if board[row][kingSideRookCol] != rook {
			c.revokeCorner(color, kingSideRookCol)
		}
	}
}
