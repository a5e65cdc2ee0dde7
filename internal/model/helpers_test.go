package model

import (
	"sort"
	"testing"
)

// sq converts algebraic "e2" into a Position.
func sq(name string) Position {
	return Position{Row: 8 - int(name[1]-'0'), Col: int(name[0] - 'a')}
}

func w(t PieceType) Piece { return Piece{Type: t, Color: White} }
func b(t PieceType) Piece { return Piece{Type: t, Color: Black} }

func setup(t *testing.T, toMove Color, castling Castling, pieces map[string]Piece) *Game {
	t.Helper()
	var board Board
	for name, piece := range pieces {
		board.set(sq(name), piece)
	}
	g, err := NewGameFromBoard(board, toMove, castling)
	if err != nil {
		t.Fatalf("NewGameFromBoard: %v", err)
	}
	return g
}

func play(t *testing.T, g *Game, moves ...string) MoveResult {
	t.Helper()
	var res MoveResult
	for _, mv := range moves {
		var err error
		res, err = g.MakeMove(MoveRequest{From: sq(mv[:2]), To: sq(mv[2:4])})
		if err != nil || !res.Accepted() {
			t.Fatalf("move %s: result=%s err=%v", mv, res, err)
		}
	}
	return res
}

func countMoves(all []PieceMoves) int {
	n := 0
	for _, pm := range all {
		n += len(pm.Moves)
	}
	return n
}

func names(moves []Position) []string {
	out := make([]string, 0, len(moves))
	for _, m := range moves {
		out = append(out, m.String())
	}
	sort.Strings(out)
	return out
}
