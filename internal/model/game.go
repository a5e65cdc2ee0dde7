package model

import (
	"fmt"
	"sync"
)

// Game is one chess rules engine instance. Exported methods lock; the
// lowercase helpers they call assume the lock is held.
type Game struct {
	mu       sync.Mutex
	board    Board
	toMove   Color
	status   GameStatus
	captured CapturedPieces
	castling Castling
	lastMove *Ply
	history  []snapshot
}

// GameState is the read-only view handed to the presentation layer.
type GameState struct {
	Board          [][]*Piece     `json:"board"`
	ToMove         Color          `json:"toMove"`
	Status         GameStatus     `json:"status"`
	IsCheck        bool           `json:"isCheck"`
	Winner         *Color         `json:"winner"`
	CapturedPieces CapturedPieces `json:"capturedPieces"`
	Castling       Castling       `json:"castling"`
	LastMove       *Ply           `json:"lastMove"`
	CanUndo        bool           `json:"canUndo"`
}

// CapturedPieces lists, per color, the pieces that color has taken, in
// capture order.
type CapturedPieces struct {
	White []Piece `json:"white"`
	Black []Piece `json:"black"`
}

// PieceMoves pairs an origin square with its legal destinations.
type PieceMoves struct {
	From  Position   `json:"from"`
	Moves []Position `json:"moves"`
}

func newCapturedPieces() CapturedPieces {
	return CapturedPieces{
		White: make([]Piece, 0),
		Black: make([]Piece, 0),
	}
}

func (c CapturedPieces) clone() CapturedPieces {
	return CapturedPieces{
		White: append(make([]Piece, 0, len(c.White)), c.White...),
		Black: append(make([]Piece, 0, len(c.Black)), c.Black...),
	}
}

func (c *CapturedPieces) add(by Color, piece Piece) {
	if by == White {
		c.White = append(c.White, piece)
	} else {
		c.Black = append(c.Black, piece)
	}
}

func NewGame() *Game {
	g := &Game{}
	g.reset()
	return g
}

// NewGameFromBoard sets up an arbitrary position. Castling rights whose king
// or rook is off its home square are dropped, and the status is computed
// for the side to move.
func NewGameFromBoard(board Board, toMove Color, castling Castling) (*Game, error) {
	if toMove != White && toMove != Black {
		return nil, fmt.Errorf("%w: unknown side to move %q", ErrInvalidPosition, toMove)
	}
	kings := map[Color]int{}
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			piece := board[row][col]
			if piece.IsEmpty() {
				continue
			}
			if !piece.Type.IsValid() || (piece.Color != White && piece.Color != Black) {
				return nil, fmt.Errorf("%w: bad piece at %s", ErrInvalidPosition, Position{Row: row, Col: col})
			}
			if piece.Type == King {
				kings[piece.Color]++
			}
		}
	}
	for color, n := range kings {
		if n > 1 {
			return nil, fmt.Errorf("%w: %d %s kings", ErrInvalidPosition, n, color)
		}
	}

	castling.sanitize(&board)
	g := &Game{
		board:    board,
		toMove:   toMove,
		captured: newCapturedPieces(),
		castling: castling,
		history:  make([]snapshot, 0),
	}
	g.status = g.computeStatus(toMove)
	return g, nil
}

// Reset discards everything and returns to the standard starting position.
func (g *Game) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.reset()
}

// ResetState resets and returns the fresh state under one lock.
func (g *Game) ResetState() GameState {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.reset()
	return g.state()
}

func (g *Game) reset() {
	g.board = newBoard()
	g.toMove = White
	g.status = StatusPlaying
	g.captured = newCapturedPieces()
	g.castling = fullCastling()
	g.lastMove = nil
	g.history = make([]snapshot, 0)
}

func (g *Game) Board() Board {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.board
}

func (g *Game) ToMove() Color {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.toMove
}

func (g *Game) Status() GameStatus {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.status
}

func (g *Game) CapturedPieces() CapturedPieces {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.captured.clone()
}

func (g *Game) CastlingRights() Castling {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.castling
}

func (g *Game) HistoryLen() int {
	g.mu.Lock()
	defer g.mu.Unlock()

	return len(g.history)
}

func (g *Game) GetState() GameState {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.state()
}

func (g *Game) state() GameState {
	state := GameState{
		Board:          g.board.Grid(),
		ToMove:         g.toMove,
		Status:         g.status,
		IsCheck:        g.status != StatusPlaying,
		CapturedPieces: g.captured.clone(),
		Castling:       g.castling,
		LastMove:       g.lastMove.clone(),
		CanUndo:        len(g.history) > 0,
	}
	if g.status == StatusCheckmate {
		winner := g.toMove.Opponent()
		state.Winner = &winner
	}
	return state
}

// MakeMove attempts a move for the side to move. A rejected attempt returns
// ResultRejected with the cause and leaves the game untouched, as does
// ResultPromotionNeeded, which asks the caller to repeat the request with
// Promotion set.
func (g *Game) MakeMove(move MoveRequest) (MoveResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.makeMove(move)
}

// MakeMoveState is MakeMove plus the state right after it, read under the
// same lock.
func (g *Game) MakeMoveState(move MoveRequest) (MoveResult, GameState, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	result, err := g.makeMove(move)
	return result, g.state(), err
}

func (g *Game) makeMove(move MoveRequest) (MoveResult, error) {
	if err := g.validateMove(move); err != nil {
		return ResultRejected, err
	}

	piece := g.board.at(move.From)
	promotes := piece.Type == Pawn && move.To.Row == promotionRow(piece.Color)
	if promotes && move.Promotion == "" {
		return ResultPromotionNeeded, nil
	}

	if !g.leavesKingSafe(move.From, move.To, g.toMove) {
		return ResultRejected, ErrSelfCheck
	}

	g.pushSnapshot()
	g.executeMove(move, promotes)
	return resultFor(g.status), nil
}

func (g *Game) validateMove(move MoveRequest) error {
	if g.status == StatusCheckmate {
		return ErrGameOver
	}
	if !move.From.InBounds() || !move.To.InBounds() {
		return ErrOutOfBounds
	}
	piece := g.board.at(move.From)
	if piece.IsEmpty() {
		return ErrNoPiece
	}
	if piece.Color != g.toMove {
		return ErrNotYourTurn
	}
	if !g.isValidMove(move.From, move.To, piece) {
		return fmt.Errorf("%w: %s %s to %s", ErrIllegalMove, piece.Type, move.From, move.To)
	}
	return nil
}

func (g *Game) executeMove(move MoveRequest, promotes bool) {
	piece := g.board.at(move.From)
	ply := &Ply{Piece: piece, From: move.From, To: move.To}

	if target := g.board.at(move.To); !target.IsEmpty() {
		g.captured.add(piece.Color, target)
		if target.Type == Rook && move.To.Row == homeRow(target.Color) {
			g.castling.revokeCorner(target.Color, move.To.Col)
		}
		ply.CapturedPiece = &target
	}

	if piece.Type == King && abs(move.To.Col-move.From.Col) == 2 {
		ply.CastleRookMove = g.handleCastle(move)
	}

	switch piece.Type {
	case King:
		g.castling.revokeAll(piece.Color)
	case Rook:
		g.castling.revokeCorner(piece.Color, move.From.Col)
	}

	g.board.set(move.To, piece)
	g.board.set(move.From, Piece{})

	if promotes {
		// any kind is accepted here, including king and pawn
		g.board.set(move.To, Piece{Type: move.Promotion, Color: piece.Color})
		ply.Promotion = move.Promotion
	}

	g.lastMove = ply
	g.switchTurn()
	g.status = g.computeStatus(g.toMove)
}

// handleCastle moves the rook; the king itself is moved by the caller.
func (g *Game) handleCastle(move MoveRequest) *CastleRookMove {
	row := move.From.Row
	rookFrom, rookTo := kingSideRookCol, 5
	if move.To.Col < move.From.Col {
		rookFrom, rookTo = queenSideRookCol, 3
	}
	rookMove := &CastleRookMove{
		From: Position{Row: row, Col: rookFrom},
		To:   Position{Row: row, Col: rookTo},
	}
	g.board.set(rookMove.To, g.board.at(rookMove.From))
	g.board.set(rookMove.From, Piece{})
	return rookMove
}

func (g *Game) switchTurn() {
	g.toMove = g.toMove.Opponent()
}

func (g *Game) computeStatus(color Color) GameStatus {
	if !g.inCheck(color) {
		return StatusPlaying
	}
	if g.isCheckmate(color) {
		return StatusCheckmate
	}
	return StatusCheck
}

// LegalMoves lists the destinations the piece on from may move to. It is
// empty unless the piece belongs to the side to move.
func (g *Game) LegalMoves(from Position) []Position {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !from.InBounds() {
		return []Position{}
	}
	piece := g.board.at(from)
	if piece.IsEmpty() || piece.Color != g.toMove {
		return []Position{}
	}
	return g.legalMovesFor(from, piece)
}

// AllLegalMoves lists every piece of the side to move that has at least one
// legal destination, in row-major order of origin.
func (g *Game) AllLegalMoves() []PieceMoves {
	g.mu.Lock()
	defer g.mu.Unlock()

	all := []PieceMoves{}
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			piece := g.board[row][col]
			if piece.IsEmpty() || piece.Color != g.toMove {
				continue
			}
			from := Position{Row: row, Col: col}
			if moves := g.legalMovesFor(from, piece); len(moves) > 0 {
				all = append(all, PieceMoves{From: from, Moves: moves})
			}
		}
	}
	return all
}

// Undo restores the state from before the last committed move. It returns
// false when there is nothing to undo.
func (g *Game) Undo() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.undo()
}

// UndoState is Undo plus the resulting state, read under the same lock.
func (g *Game) UndoState() (bool, GameState) {
	g.mu.Lock()
	defer g.mu.Unlock()

	ok := g.undo()
	return ok, g.state()
}

func (g *Game) undo() bool {
	last, ok := g.popSnapshot()
	if !ok {
		return false
	}
	g.board = last.board
	g.toMove = last.toMove
	g.status = last.status
	g.captured = last.captured
	g.castling = last.castling
	g.lastMove = last.lastMove
	return true
}
