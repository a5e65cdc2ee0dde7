package model

// snapshot is the full engine state before a committed move.
type snapshot struct {
	board    Board
	toMove   Color
	status   GameStatus
	captured CapturedPieces
	castling Castling
	lastMove *Ply
}

func (g *Game) pushSnapshot() {
	g.history = append(g.history, snapshot{
		board:    g.board,
		toMove:   g.toMove,
		status:   g.status,
		captured: g.captured.clone(),
		castling: g.castling,
		lastMove: g.lastMove.clone(),
	})
}

func (g *Game) popSnapshot() (snapshot, bool) {
	if len(g.history) == 0 {
		return snapshot{}, false
	}
	last := g.history[len(g.history)-1]
	g.history = g.history[:len(g.history)-1]
	return last, true
}

func (p *Ply) clone() *Ply {
	if p == nil {
		return nil
	}
	cp := *p
	if p.CapturedPiece != nil {
		captured := *p.CapturedPiece
		cp.CapturedPiece = &captured
	}
	if p.CastleRookMove != nil {
		rook := *p.CastleRookMove
		cp.CastleRookMove = &rook
	}
	return &cp
}
