package controller

import (
	"strings"

	"github.com/benbeisheim/hotseat-chess/internal/model"
	"github.com/benbeisheim/hotseat-chess/internal/msgcat"
)

func colorName(c model.Color) string {
	s := string(c)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// stateNotice is the line shown under the board for a given state.
func stateNotice(cat *msgcat.Catalog, state model.GameState) string {
	switch state.Status {
	case model.StatusCheckmate:
		winner := ""
		if state.Winner != nil {
			winner = colorName(*state.Winner)
		}
		return cat.MustRender("status.checkmate", map[string]string{"Winner": winner})
	case model.StatusCheck:
		return cat.MustRender("status.check", map[string]string{"Turn": colorName(state.ToMove)})
	default:
		return cat.MustRender("status.playing", map[string]string{"Turn": colorName(state.ToMove)})
	}
}

func moveNotice(cat *msgcat.Catalog, result model.MoveResult, moveErr error, state model.GameState) string {
	switch result {
	case model.ResultPromotionNeeded:
		return cat.MustRender("move.promotion", nil)
	case model.ResultRejected:
		reason := "unknown reason"
		if moveErr != nil {
			reason = moveErr.Error()
		}
		return cat.MustRender("move.rejected", map[string]string{"Reason": reason})
	default:
		return stateNotice(cat, state)
	}
}
