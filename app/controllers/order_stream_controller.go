package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/honeyshop/pkg/ctx"
)

// Streamer registers a websocket connection for a user.
type Streamer interface {
	Serve(w http.ResponseWriter, r *http.Request, userID uint)
}

// OrderStreamController serves GET /api/ws/orders. The connection receives
// a JSON message whenever one of the caller's orders changes status.
type OrderStreamController struct {
	hub Streamer
}

func NewOrderStreamController(hub Streamer) *OrderStreamController {
	return &OrderStreamController{hub: hub}
}

func (h *OrderStreamController) Connect(c *ctx.Context) {
	h.hub.Serve(c.W, c.R, c.UserID())
}
