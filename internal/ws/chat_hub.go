package ws

import (
	"encoding/json"
	"sync"
)

// ChatRoom is one room per booking (guest + host).
type ChatRoom struct {
	BookingID uint
	GuestID   uint
	HostID    uint
	clients   map[*Client]struct{}
	mu        sync.RWMutex
}

func NewChatRoom(bookingID, guestID, hostID uint) *ChatRoom {
	return &ChatRoom{
		BookingID: bookingID,
		GuestID:   guestID,
		HostID:    hostID,
		clients:   make(map[*Client]struct{}),
	}
}

func (r *ChatRoom) Member(userID uint) bool {
	return userID == r.GuestID || userID == r.HostID
}

func (r *ChatRoom) Join(c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients[c] = struct{}{}
}

func (r *ChatRoom) Leave(c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.clients, c)
}

func (r *ChatRoom) ClientCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients)
}

func (r *ChatRoom) Broadcast(from *Client, payload interface{}) {
	data, _ := json.Marshal(payload)
	r.mu.RLock()
	clients := make([]*Client, 0, len(r.clients))
	for c := range r.clients {
		if c != from {
			clients = append(clients, c)
		}
	}
	r.mu.RUnlock()
	for _, c := range clients {
		select {
		case c.Send <- data:
		default:
		}
	}
}

// ChatHub holds all chat rooms by booking ID.
type ChatHub struct {
	mu    sync.RWMutex
	rooms map[uint]*ChatRoom
}

func NewChatHub() *ChatHub {
	return &ChatHub{rooms: make(map[uint]*ChatRoom)}
}

func (h *ChatHub) GetOrCreateRoom(bookingID, guestID, hostID uint) *ChatRoom {
	h.mu.Lock()
	defer h.mu.Unlock()
	if r, ok := h.rooms[bookingID]; ok {
		return r
	}
	r := NewChatRoom(bookingID, guestID, hostID)
	h.rooms[bookingID] = r
	return r
}

func (h *ChatHub) GetRoom(bookingID uint) *ChatRoom {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.rooms[bookingID]
}

func (h *ChatHub) RemoveRoom(bookingID uint) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.rooms, bookingID)
}
