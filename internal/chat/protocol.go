package chat

import (
	"encoding/json"
	"errors"
)

// Wire type tags, client -> hub
const (
	typeJoinRoom    = "join_room"
	typeSendMessage = "send_message"
)

// Wire type tags, hub -> client
const (
	typeRoomState    = "room_state"
	typeMemberJoined = "member_joined"
	typeMemberLeft   = "member_left"
	typeMessage      = "message"
	typeError        = "error"
)

var (
	errBadFrame    = errors.New("invalid message format")
	errUnknownType = errors.New("unknown message type")
)

// Inbound is one decoded client frame.
type Inbound interface{ inbound() }

// JoinRoom asks to enter a room under a nickname.
type JoinRoom struct {
	RoomID   string
	Nickname string
}

// SendMessage carries one chat line. The roomId/nickname fields a client
// may put on the wire are dropped here; the hub trusts only its own
// record of who the sender is.
type SendMessage struct {
	Text string
}

func (JoinRoom) inbound()    {}
func (SendMessage) inbound() {}

// inboundFrame is the raw superset shape of every client frame.
type inboundFrame struct {
	Type     string `json:"type"`
	RoomID   string `json:"roomId"`
	Nickname string `json:"nickname"`
	Text     string `json:"text"`
}

// DecodeInbound parses a client frame into its variant. Malformed JSON
// and unrecognized type tags are distinct error paths.
func DecodeInbound(data []byte) (Inbound, error) {
	var f inboundFrame
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, errBadFrame
	}
	switch f.Type {
	case typeJoinRoom:
		return JoinRoom{RoomID: f.RoomID, Nickname: f.Nickname}, nil
	case typeSendMessage:
		return SendMessage{Text: f.Text}, nil
	default:
		return nil, errUnknownType
	}
}

// Outbound is one hub frame ready for encoding.
type Outbound interface{ outbound() }

// RoomState is the membership snapshot sent privately to a new joiner.
type RoomState struct {
	Type    string   `json:"type"`
	RoomID  string   `json:"roomId"`
	Members []string `json:"members"`
}

// MemberJoined announces a join to the whole room, joiner included.
type MemberJoined struct {
	Type     string   `json:"type"`
	RoomID   string   `json:"roomId"`
	Nickname string   `json:"nickname"`
	Members  []string `json:"members"`
}

// MemberLeft announces a departure to the remaining members.
type MemberLeft struct {
	Type     string   `json:"type"`
	RoomID   string   `json:"roomId"`
	Nickname string   `json:"nickname"`
	Members  []string `json:"members"`
}

// ChatMessage is a chat line stamped by the hub and fanned out to the
// room, sender included.
type ChatMessage struct {
	Type      string `json:"type"`
	RoomID    string `json:"roomId"`
	ID        int64  `json:"id"`
	Sender    string `json:"sender"`
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
}

// ErrorFrame is sent privately to the offending connection only.
type ErrorFrame struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func (RoomState) outbound()    {}
func (MemberJoined) outbound() {}
func (MemberLeft) outbound()   {}
func (ChatMessage) outbound()  {}
func (ErrorFrame) outbound()   {}

func newRoomState(roomID string, members []string) RoomState {
	return RoomState{Type: typeRoomState, RoomID: roomID, Members: members}
}

func newMemberJoined(roomID, nickname string, members []string) MemberJoined {
	return MemberJoined{Type: typeMemberJoined, RoomID: roomID, Nickname: nickname, Members: members}
}

func newMemberLeft(roomID, nickname string, members []string) MemberLeft {
	return MemberLeft{Type: typeMemberLeft, RoomID: roomID, Nickname: nickname, Members: members}
}

func newErrorFrame(msg string) ErrorFrame {
	return ErrorFrame{Type: typeError, Message: msg}
}
