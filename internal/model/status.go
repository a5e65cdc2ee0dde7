package model

type GameStatus string

const (
	StatusPlaying   GameStatus = "playing"
	StatusCheck     GameStatus = "check"
	StatusCheckmate GameStatus = "checkmate"
)

// MoveResult is the outcome class of a move attempt.
type MoveResult string

const (
	ResultPlaying         MoveResult = "PLAYING"
	ResultCheck           MoveResult = "CHECK"
	ResultCheckmate       MoveResult = "CHECKMATE"
	ResultPromotionNeeded MoveResult = "PROMOTION_NEEDED"
	ResultRejected        MoveResult = "REJECTED"
)

// Accepted reports whether the move was committed.
func (r MoveResult) Accepted() bool {
	return r == ResultPlaying || r == ResultCheck || r == ResultCheckmate
}

func resultFor(status GameStatus) MoveResult {
	switch status {
	case StatusCheck:
		return ResultCheck
	case StatusCheckmate:
		return ResultCheckmate
	default:
		return ResultPlaying
	}
}
