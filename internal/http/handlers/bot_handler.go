// Conversation HTTP handler.
//
// POST /updates accepts one chat update per request and returns the engine's
// reply. Three shapes are accepted:
//
//	{"user_id": "42", "start": true, "name": "Ann"}
//	{"user_id": "42", "action": "find_dogs"}
//	{"user_id": "42", "text": "terrier"}
//
// Ignored text yields 204 No Content.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-dog-catalog/internal/bot"
)

// ConversationEngine is the bot engine contract consumed by BotHandlers.
type ConversationEngine interface {
	HandleStart(ctx context.Context, userID, name string) bot.Reply
	HandleAction(ctx context.Context, userID string, action bot.Action) (bot.Reply, error)
	HandleText(ctx context.Context, userID, text string) (bot.Reply, bool)
}

// BotHandlers exposes the conversation engine over HTTP.
type BotHandlers struct {
	engine ConversationEngine
}

// NewBot constructs BotHandlers bound to engine.
func NewBot(engine ConversationEngine) *BotHandlers {
	return &BotHandlers{engine: engine}
}

// UpdateRequest is one chat update.
type UpdateRequest struct {
	UserID string  `json:"user_id" binding:"required" example:"42"`
	Start  bool    `json:"start,omitempty"`
	Name   string  `json:"name,omitempty" example:"Ann"`
	Action string  `json:"action,omitempty" example:"find_dogs"`
	Text   *string `json:"text,omitempty" example:"terrier"`
}

// PostUpdate godoc
// @ID          postUpdate
// @Summary     Deliver a chat update
// @Description Routes a start command, a menu action or a text message to the user's conversation.
// @Tags        Bot
// @Accept      json
// @Produce     json
// @Param       body  body  handlers.UpdateRequest  true  "Update"
// @Success     200  {object}  bot.Reply
// @Success     204  "Text ignored in the current state"
// @Failure     400  {object}  handlers.ErrorResponse  "Malformed update"
// @Router      /updates [post]
func (h *BotHandlers) PostUpdate(c *gin.Context) {
	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.UserID) == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid update: user_id is required")
		return
	}
	ctx := c.Request.Context()

	switch {
	case req.Start:
		ok(c, http.StatusOK, h.engine.HandleStart(ctx, req.UserID, req.Name))

	case req.Action != "":
		reply, err := h.engine.HandleAction(ctx, req.UserID, bot.Action(req.Action))
		if errors.Is(err, bot.ErrUnknownAction) {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
			return
		}
		if err != nil {
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
			return
		}
		ok(c, http.StatusOK, reply)

	case req.Text != nil:
		reply, handled := h.engine.HandleText(ctx, req.UserID, *req.Text)
		if !handled {
			c.Status(http.StatusNoContent)
			return
		}
		ok(c, http.StatusOK, reply)

	default:
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid update: one of start, action or text is required")
	}
}
