package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/lancerhub/lancerhub_be/internal/logger"
	"github.com/lancerhub/lancerhub_be/internal/realtime"
	"github.com/lancerhub/lancerhub_be/internal/session"
	"github.com/lancerhub/lancerhub_be/internal/store"
	"github.com/lancerhub/lancerhub_be/internal/workflow"
)

type MessageHandler struct {
	Store    *store.Store
	Engine   *workflow.Engine
	Hub      *realtime.Hub
	RDB      *redis.Client
	Resolver *session.Resolver
}

func NewMessageHandler(st *store.Store, engine *workflow.Engine, hub *realtime.Hub, rdb *redis.Client, resolver *session.Resolver) *MessageHandler {
	return &MessageHandler{Store: st, Engine: engine, Hub: hub, RDB: rdb, Resolver: resolver}
}

// List returns every message the caller sent or received.
func (h *MessageHandler) List(c *fiber.Ctx) error {
	uid, err := getUserUUID(c)
	if err != nil {
		return fiber.ErrUnauthorized
	}

	messages, err := h.Store.ListMessagesForUser(c.Context(), uid)
	if err != nil {
		return respondErr(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    messages,
	})
}

// ListWith returns the two-way history between the caller and one profile.
func (h *MessageHandler) ListWith(c *fiber.Ctx) error {
	uid, err := getUserUUID(c)
	if err != nil {
		return fiber.ErrUnauthorized
	}
	other, err := uuid.Parse(c.Params("userId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "invalid user ID",
		})
	}

	messages, err := h.Store.ListConversation(c.Context(), uid, other)
	if err != nil {
		return respondErr(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    messages,
	})
}

func (h *MessageHandler) UnreadCount(c *fiber.Ctx) error {
	uid, err := getUserUUID(c)
	if err != nil {
		return fiber.ErrUnauthorized
	}

	n, err := h.Store.CountUnread(c.Context(), uid)
	if err != nil {
		return respondErr(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    fiber.Map{"unread": n},
	})
}

type SendMessageReq struct {
	RecipientID string  `json:"recipient_id"`
	Content     string  `json:"content"`
	JobID       *string `json:"job_id"`
	ProposalID  *string `json:"proposal_id"`
}

func (h *MessageHandler) Send(c *fiber.Ctx) error {
	actor, err := loadActor(c, h.Store)
	if err != nil {
		return respondErr(c, err)
	}

	var req SendMessageReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "invalid body",
		})
	}

	recipientID, err := uuid.Parse(req.RecipientID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "invalid recipient ID",
		})
	}

	draft := workflow.MessageDraft{
		SenderID:    actor.ID,
		RecipientID: recipientID,
		Content:     req.Content,
	}
	if req.JobID != nil && *req.JobID != "" {
		jid, err := uuid.Parse(*req.JobID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "invalid job ID",
			})
		}
		draft.JobID = &jid
	}
	if req.ProposalID != nil && *req.ProposalID != "" {
		pid, err := uuid.Parse(*req.ProposalID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "invalid proposal ID",
			})
		}
		draft.ProposalID = &pid
	}

	msg, err := h.Engine.SendMessage(c.Context(), actor, draft)
	if err != nil {
		return respondErr(c, err)
	}

	event := fiber.Map{"type": "new_message", "message": msg}
	h.Hub.SendToPair(msg.SenderID, msg.RecipientID, event)
	realtime.PublishToPair(c.Context(), h.RDB, msg.SenderID.String(), msg.RecipientID.String(), event)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    msg,
	})
}

// MarkRead sets read_at once; only the recipient may do it.
func (h *MessageHandler) MarkRead(c *fiber.Ctx) error {
	uid, err := getUserUUID(c)
	if err != nil {
		return fiber.ErrUnauthorized
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "invalid message ID",
		})
	}

	msg, err := h.Engine.MarkMessageRead(c.Context(), uid, id)
	if err != nil {
		return respondErr(c, err)
	}

	event := fiber.Map{"type": "message_read", "message": msg}
	h.Hub.SendToPair(msg.SenderID, msg.RecipientID, event)
	realtime.PublishToPair(c.Context(), h.RDB, msg.SenderID.String(), msg.RecipientID.String(), event)

	return c.JSON(fiber.Map{
		"success": true,
		"data":    msg,
	})
}

// WebSocketHandler authenticates via the token query param and keeps the
// connection registered with the hub until the peer goes away.
func (h *MessageHandler) WebSocketHandler(c *websocket.Conn) {
	state, err := h.Resolver.Resolve(context.Background(), c.Query("token"))
	if err != nil || !state.Authenticated() {
		c.Close()
		return
	}

	client := &realtime.Client{
		ID:     uuid.New().String(),
		UserID: state.IdentityID,
		Conn:   realtime.NewWebSocketConn(c),
		Send:   make(chan []byte, 256),
	}

	h.Hub.RegisterClient(client)
	defer h.Hub.UnregisterClient(client)

	go func() {
		for msg := range client.Send {
			if err := c.WriteMessage(websocket.TextMessage, msg); err != nil {
				logger.L().Debug("websocket write failed", zap.Error(err))
				return
			}
		}
	}()

	for {
		var payload map[string]interface{}
		if err := c.ReadJSON(&payload); err != nil {
			break
		}
		if msgType, ok := payload["type"].(string); ok && msgType == "pong" {
			continue
		}
	}
}
