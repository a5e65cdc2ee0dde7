package model

func (g *Game) findKing(color Color) (Position, bool) {
	king := Piece{Type: King, Color: color}
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			if g.board[row][col] == king {
				return Position{Row: row, Col: col}, true
			}
		}
	}
	return Position{}, false
}

// InCheck reports whether color's king is attacked. A side without a king
// counts as in check.
func (g *Game) InCheck(color Color) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.inCheck(color)
}

func (g *Game) inCheck(color Color) bool {
	pos, ok := g.findKing(color)
	if !ok {
		return true
	}
	return g.isUnderAttack(pos, color.Opponent())
}

// IsUnderAttack reports whether any piece of attacker has a geometrically
// legal move onto square, ignoring whether that move would expose the
// attacker's own king.
func (g *Game) IsUnderAttack(square Position, attacker Color) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.isUnderAttack(square, attacker)
}

func (g *Game) isUnderAttack(square Position, attacker Color) bool {
	if !square.InBounds() {
		return false
	}
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			piece := g.board[row][col]
			if piece.IsEmpty() || piece.Color != attacker {
				continue
			}
			if g.isValidMove(Position{Row: row, Col: col}, square, piece) {
				return true
			}
		}
	}
	return false
}

// leavesKingSafe plays from->to on the board, tests color's king and puts
// both squares back before returning.
func (g *Game) leavesKingSafe(from, to Position, color Color) bool {
	piece := g.board.at(from)
	target := g.board.at(to)
	g.board.set(to, piece)
	g.board.set(from, Piece{})
	defer func() {
		g.board.set(from, piece)
		g.board.set(to, target)
	}()
	return !g.inCheck(color)
}

func (g *Game) isCheckmate(color Color) bool {
	if !g.inCheck(color) {
		return false
	}
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			piece := g.board[row][col]
			if piece.IsEmpty() || piece.Color != color {
				continue
			}
			if g.hasLegalMove(Position{Row: row, Col: col}, piece) {
				return false
			}
		}
	}
	return true
}

func (g *Game) legalMovesFor(from Position, piece Piece) []Position {
	moves := []Position{}
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			to := Position{Row: row, Col: col}
			if g.isValidMove(from, to, piece) && g.leavesKingSafe(from, to, piece.Color) {
				moves = append(moves, to)
			}
		}
	}
	return moves
}

func (g *Game) hasLegalMove(from Position, piece Piece) bool {
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			to := Position{Row: row, Col: col}
			if g.isValidMove(from, to, piece) && g.leavesKingSafe(from, to, piece.Color) {
				return true
			}
		}
	}
	return false
}
