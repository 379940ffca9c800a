package handler

import (
	"context"
	"strings"

	tele "gopkg.in/telebot.v3"
)

// handleText feeds free-text messages into the generation flow. Text from
// users without an active flow is ordinary conversation and is left alone.
func (h *Handler) handleText(c tele.Context) error {
	userID := c.Sender().ID
	text := strings.TrimSpace(c.Text())

	// Ignore commands (starting with /)
	if strings.HasPrefix(text, "/") {
		return nil
	}

	reply, handled := h.generator.HandleText(context.Background(), userID, text)
	if !handled {
		return nil
	}

	if h.generator.InProgress(userID) {
		return c.Send(reply, cancelMarkup())
	}
	return c.Send(reply, backMarkup())
}
