package model

// Geometric move rules. None of these look at whether the mover's own king
// ends up attacked; that filter lives in attack.go.

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func sign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}

func pawnDirection(c Color) int {
	if c == White {
		return -1
	}
	return 1
}

func pawnStartRow(c Color) int {
	if c == White {
		return 6
	}
	return 1
}

// promotionRow is the opponent's back rank for a pawn of color c.
func promotionRow(c Color) int {
	return homeRow(c.Opponent())
}

func (g *Game) isValidMove(from, to Position, piece Piece) bool {
	if from == to {
		return false
	}
	target := g.board.at(to)
	if !target.IsEmpty() && target.Color == piece.Color {
		return false
	}

	switch piece.Type {
	case Pawn:
		return g.validatePawn(from, to, piece.Color, target)
	case Rook:
		return g.validateRook(from, to)
	case Knight:
		return validateKnight(from, to)
	case Bishop:
		return g.validateBishop(from, to)
	case Queen:
		return g.validateQueen(from, to)
	case King:
		return g.validateKing(from, to, piece.Color)
	default:
		return false
	}
}

// isPathClear walks the straight or diagonal line between from and to,
// exclusive of both ends.
func (g *Game) isPathClear(from, to Position) bool {
	dRow := sign(to.Row - from.Row)
	dCol := sign(to.Col - from.Col)
	pos := Position{Row: from.Row + dRow, Col: from.Col + dCol}
	for pos != to {
		if !g.board.at(pos).IsEmpty() {
			return false
		}
		pos = Position{Row: pos.Row + dRow, Col: pos.Col + dCol}
	}
	return true
}

func (g *Game) validatePawn(from, to Position, color Color, target Piece) bool {
	dir := pawnDirection(color)
	dRow := to.Row - from.Row
	dCol := abs(to.Col - from.Col)

	if dCol == 0 && dRow == dir && target.IsEmpty() {
		return true
	}
	if dCol == 0 && dRow == 2*dir && from.Row == pawnStartRow(color) && target.IsEmpty() &&
		g.board[from.Row+dir][from.Col].IsEmpty() {
		return true
	}
	// en passant is never legal
	return dCol == 1 && dRow == dir && !target.IsEmpty() && target.Color != color
}

func (g *Game) validateRook(from, to Position) bool {
	if from.Row != to.Row && from.Col != to.Col {
		return false
	}
	return g.isPathClear(from, to)
}

func validateKnight(from, to Position) bool {
	dRow := abs(to.Row - from.Row)
	dCol := abs(to.Col - from.Col)
	return (dRow == 2 && dCol == 1) || (dRow == 1 && dCol == 2)
}

func (g *Game) validateBishop(from, to Position) bool {
	if abs(to.Row-from.Row) != abs(to.Col-from.Col) {
		return false
	}
	return g.isPathClear(from, to)
}

func (g *Game) validateQueen(from, to Position) bool {
	straight := from.Row == to.Row || from.Col == to.Col
	diagonal := abs(to.Row-from.Row) == abs(to.Col-from.Col)
	if !straight && !diagonal {
		return false
	}
	return g.isPathClear(from, to)
}

func (g *Game) validateKing(from, to Position, color Color) bool {
	dRow := abs(to.Row - from.Row)
	dCol := abs(to.Col - from.Col)
	if dRow <= 1 && dCol <= 1 {
		return true
	}
	if dRow == 0 && dCol == 2 {
		return g.validateCastle(from, to, color)
	}
	return false
}

// validateCastle checks everything about a castling move except the landing
// square, which the self-check simulation in Move covers. The board-only
// preconditions run before any attack scan.
func (g *Game) validateCastle(from, to Position, color Color) bool {
	row := homeRow(color)
	if from.Row != row || from.Col != kingHomeCol {
		return false
	}
	rights := g.castling.For(color)

	var rookCol, transitCol int
	var between []int
	switch to.Col {
	case 6:
		if !rights.KingSide {
			return false
		}
		rookCol, transitCol, between = kingSideRookCol, 5, []int{5, 6}
	case 2:
		if !rights.QueenSide {
			return false
		}
		rookCol, transitCol, between = queenSideRookCol, 3, []int{1, 2, 3}
	default:
		return false
	}

	for _, col := range between {
		if !g.board[row][col].IsEmpty() {
			return false
		}
	}
	if g.board[row][rookCol] != (Piece{Type: Rook, Color: color}) {
		return false
	}
	if g.inCheck(color) {
		return false
	}
	return !g.isUnderAttack(Position{Row: row, Col: transitCol}, color.Opponent())
}
