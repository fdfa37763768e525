package ws

import (
	"encoding/json"
	"sync"
	"time"

	"goldmine/internal/logger"
)

// BalanceEvent is pushed to a user's connected clients whenever a ledger
// operation changes their balance.
type BalanceEvent struct {
	Type      string    `json:"type"`
	Balance   float64   `json:"balance"`
	TxType    string    `json:"tx_type"`
	Amount    float64   `json:"amount"`
	Timestamp time.Time `json:"timestamp"`
}

// Hub tracks connected wallet-stream clients per user and fans balance
// events out to them. Implements service.BalanceNotifier.
type Hub struct {
	mu      sync.RWMutex
	clients map[int64]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[int64]map[*Client]struct{}),
	}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[c.UserID] == nil {
		h.clients[c.UserID] = make(map[*Client]struct{})
	}
	h.clients[c.UserID][c] = struct{}{}
}

func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if conns, ok := h.clients[c.UserID]; ok {
		if _, ok := conns[c]; ok {
			delete(conns, c)
			close(c.Send)
			if len(conns) == 0 {
				delete(h.clients, c.UserID)
			}
		}
	}
}

// NotifyBalance pushes a balance-change event to every connection the user
// has open. Slow clients are dropped rather than blocking the ledger path.
func (h *Hub) NotifyBalance(userID int64, balance float64, txType string, amount float64) {
	event := BalanceEvent{
		Type:      "balance",
		Balance:   balance,
		TxType:    txType,
		Amount:    amount,
		Timestamp: time.Now().UTC(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		logger.Error("ws: marshal balance event failed", "error", err)
		return
	}

	// Send while holding the read lock; Unregister needs the write lock, so
	// a channel can't be closed under us mid-send.
	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.clients[userID] {
		select {
		case c.Send <- payload:
		default:
			// send buffer full; drop the laggard
			go h.Unregister(c)
		}
	}
}
