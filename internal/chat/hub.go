package chat

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"log/slog"

	"realtime-chat/internal/app"
	"realtime-chat/pkg/metrics"
)

// Nickname bounds after trimming, in runes.
const (
	nicknameMin = 2
	nicknameMax = 20
)

// Hub owns every room and membership record and fans chat traffic out to
// room occupants. All state lives behind one mutex; each connection's
// read loop feeds frames in one at a time, so per-connection ordering is
// arrival order.
type Hub struct {
	log *slog.Logger

	origins []string
	buffer  int
	ping    time.Duration

	mu    sync.Mutex
	state *roomState

	now func() time.Time
}

// NewHub builds an empty hub from config
func NewHub(logger *slog.Logger, cfg app.Config) *Hub {
	return &Hub{
		log:     logger,
		origins: cfg.WSOrigins,
		buffer:  cfg.SendBuffer,
		ping:    cfg.PingInterval,
		state:   newRoomStateTable(),
		now:     time.Now,
	}
}

// Members reports the sorted distinct nicknames currently in roomID.
// Empty for rooms nobody occupies.
func (h *Hub) Members(roomID string) []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state.membersOf(roomID)
}

// delivery is one outbound frame with its recipients.
type delivery struct {
	to  []Client
	msg Outbound
}

// HandleFrame processes one inbound frame from c. Every failure mode is
// answered on c alone; nothing a client sends can disturb the hub or
// other connections.
func (h *Hub) HandleFrame(c Client, data []byte) {
	in, err := DecodeInbound(data)
	if err != nil {
		metrics.ProtocolErrors.Inc()
		h.deliver(delivery{to: []Client{c}, msg: newErrorFrame(err.Error())})
		return
	}

	switch m := in.(type) {
	case JoinRoom:
		h.handleJoin(c, m)
	case SendMessage:
		h.handleSend(c, m)
	}
}

// handleJoin validates, moves c into the room, and emits the snapshot +
// join notification. A connection already in a room leaves it first, so
// the old room hears member_left before the new one hears member_joined.
func (h *Hub) handleJoin(c Client, m JoinRoom) {
	roomID := strings.TrimSpace(m.RoomID)
	nickname := strings.TrimSpace(m.Nickname)

	if roomID == "" {
		h.deliver(delivery{to: []Client{c}, msg: newErrorFrame("roomId is required")})
		return
	}
	if n := utf8.RuneCountInString(nickname); n < nicknameMin || n > nicknameMax {
		h.deliver(delivery{to: []Client{c}, msg: newErrorFrame("nickname must be 2-20 characters")})
		return
	}

	h.mu.Lock()
	var out []delivery
	if prev, ok := h.state.leave(c); ok {
		if remaining := h.state.connsIn(prev.roomID); len(remaining) > 0 {
			out = append(out, delivery{
				to:  remaining,
				msg: newMemberLeft(prev.roomID, prev.nickname, h.state.membersOf(prev.roomID)),
			})
		}
	}
	h.state.join(c, roomID, nickname)
	members := h.state.membersOf(roomID)
	out = append(out,
		delivery{to: []Client{c}, msg: newRoomState(roomID, members)},
		delivery{to: h.state.connsIn(roomID), msg: newMemberJoined(roomID, nickname, members)},
	)
	rooms := h.state.roomCount()
	h.mu.Unlock()

	metrics.ActiveRooms.Set(float64(rooms))
	h.deliver(out...)
	h.log.Debug("hub.join", "conn", c.ID(), "room", roomID, "nickname", nickname)
}

// handleSend relays one chat line to c's room. The message carries the
// nickname recorded at join time and a hub-side id and clock, never
// anything the sender claimed about itself.
func (h *Hub) handleSend(c Client, m SendMessage) {
	text := strings.TrimSpace(m.Text)

	h.mu.Lock()
	sender, joined := h.state.metaOf(c)
	var conns []Client
	if joined && text != "" {
		conns = h.state.connsIn(sender.roomID)
	}
	h.mu.Unlock()

	if !joined {
		h.deliver(delivery{to: []Client{c}, msg: newErrorFrame("must join a room before sending")})
		return
	}
	if text == "" {
		// Deliberate no-op, not a protocol violation.
		return
	}

	now := h.now()
	h.deliver(delivery{to: conns, msg: ChatMessage{
		Type:      typeMessage,
		RoomID:    sender.roomID,
		ID:        now.UnixMilli(),
		Sender:    sender.nickname,
		Text:      text,
		Timestamp: now.Format("15:04"),
	}})
	metrics.MessagesBroadcast.Inc()
}

// Disconnect runs the leave path for c. ServeWS calls it exactly once
// per connection, however the transport ended; for a connection that
// never joined it is a no-op.
func (h *Hub) Disconnect(c Client) {
	h.mu.Lock()
	prev, ok := h.state.leave(c)
	var out []delivery
	if ok {
		if remaining := h.state.connsIn(prev.roomID); len(remaining) > 0 {
			out = append(out, delivery{
				to:  remaining,
				msg: newMemberLeft(prev.roomID, prev.nickname, h.state.membersOf(prev.roomID)),
			})
		}
	}
	rooms := h.state.roomCount()
	h.mu.Unlock()

	metrics.ActiveRooms.Set(float64(rooms))
	h.deliver(out...)
	if ok {
		h.log.Debug("hub.leave", "conn", c.ID(), "room", prev.roomID, "nickname", prev.nickname)
	}
}

// deliver encodes each frame once and enqueues it per recipient. A full
// send buffer means the consumer stopped draining; closing it turns the
// problem into that connection's own disconnect instead of a stall.
func (h *Hub) deliver(ds ...delivery) {
	for _, d := range ds {
		b, err := json.Marshal(d.msg)
		if err != nil {
			h.log.Error("hub.encode", "err", err)
			continue
		}
		for _, c := range d.to {
			if !c.Enqueue(b) {
				h.log.Warn("hub.send.drop", "conn", c.ID())
				_ = c.Close()
			}
		}
	}
}

// ServeWS handles a new /ws connection for its whole lifetime.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	ws, err := Accept(w, r, h.origins)
	if err != nil {
		h.log.Error("ws.accept", "err", err)
		return
	}

	c := NewConn(ws, h.buffer, h.ping)
	metrics.ActiveConnections.Inc()
	h.log.Debug("ws.connect", "conn", c.ID())

	go c.WriteLoop(ctx)

	for {
		data, ok := c.Read(ctx)
		if !ok {
			break
		}
		h.HandleFrame(c, data)
	}

	h.Disconnect(c)
	metrics.ActiveConnections.Dec()
	_ = c.Close()
}
