package model

import "fmt"

type PieceType string

const (
	King   PieceType = "king"
	Queen  PieceType = "queen"
	Rook   PieceType = "rook"
	Bishop PieceType = "bishop"
	Knight PieceType = "knight"
	Pawn   PieceType = "pawn"
)

// IsValid reports whether p names one of the six piece kinds.
func (p PieceType) IsValid() bool {
	switch p {
	case King, Queen, Rook, Bishop, Knight, Pawn:
		return true
	}
	return false
}

type Color string

const (
	White Color = "white"
	Black Color = "black"
)

func (c Color) Opponent() Color {
	if c == White {
		return Black
	}
	return White
}

// Piece is an immutable value. The zero Piece marks an empty square.
type Piece struct {
	Type  PieceType `json:"type"`
	Color Color     `json:"color"`
}

func (p Piece) IsEmpty() bool {
	return p.Type == ""
}

type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (p Position) InBounds() bool {
	return p.Row >= 0 && p.Row < 8 && p.Col >= 0 && p.Col < 8
}

func (p Position) String() string {
	if !p.InBounds() {
		return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
	}
	return fmt.Sprintf("%c%d", 'a'+p.Col, 8-p.Row)
}

// Board is indexed [row][col]. Copying a Board copies every square.
type Board [8][8]Piece

func (b *Board) at(p Position) Piece {
	return b[p.Row][p.Col]
}

func (b *Board) set(p Position, piece Piece) {
	b[p.Row][p.Col] = piece
}

// Grid converts the board to rows of nullable pieces for the presentation layer.
func (b Board) Grid() [][]*Piece {
	grid := make([][]*Piece, 8)
	for row := 0; row < 8; row++ {
		grid[row] = make([]*Piece, 8)
		for col := 0; col < 8; col++ {
			if piece := b[row][col]; !piece.IsEmpty() {
				grid[row][col] = &piece
			}
		}
	}
	return grid
}

func homeRow(c Color) int {
	if c == White {
		return 7
	}
	return 0
}

func newBoard() Board {
	var board Board
	backRank := [8]PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}
	for i := 0; i < 8; i++ {
		board[0][i] = Piece{Type: backRank[i], Color: Black}
		board[1][i] = Piece{Type: Pawn, Color: Black}
		board[6][i] = Piece{Type: Pawn, Color: White}
		board[7][i] = Piece{Type: backRank[i], Color: White}
	}
	return board
}
