package chat

import "sort"

// meta is what the hub records about a joined connection. A connection
// belongs to at most one room at a time.
type meta struct {
	roomID   string
	nickname string
}

// roomState is the conn<->room bookkeeping: per-connection metadata and
// per-room connection sets, always updated as a pair. Not safe for
// concurrent use; the hub serializes access behind its lock.
type roomState struct {
	members map[Client]meta
	rooms   map[string]map[Client]struct{} // roomID -> connection set
}

func newRoomStateTable() *roomState {
	return &roomState{
		members: map[Client]meta{},
		rooms:   map[string]map[Client]struct{}{},
	}
}

// join records c in roomID under nickname. The caller must have run
// leave first if c was already a member somewhere.
func (s *roomState) join(c Client, roomID, nickname string) {
	s.members[c] = meta{roomID: roomID, nickname: nickname}
	set := s.rooms[roomID]
	if set == nil {
		set = map[Client]struct{}{}
		s.rooms[roomID] = set
	}
	set[c] = struct{}{}
}

// leave removes c from both sides of the mapping, deleting the room
// when its set empties. ok is false if c never joined.
func (s *roomState) leave(c Client) (meta, bool) {
	m, ok := s.members[c]
	if !ok {
		return meta{}, false
	}
	delete(s.members, c)
	if set := s.rooms[m.roomID]; set != nil {
		delete(set, c)
		if len(set) == 0 {
			delete(s.rooms, m.roomID)
		}
	}
	return m, true
}

// metaOf returns c's membership record, if any.
func (s *roomState) metaOf(c Client) (meta, bool) {
	m, ok := s.members[c]
	return m, ok
}

// membersOf computes the distinct nicknames in roomID, sorted ascending.
// Two connections sharing a nickname collapse to one entry.
func (s *roomState) membersOf(roomID string) []string {
	set := s.rooms[roomID]
	seen := map[string]struct{}{}
	out := make([]string, 0, len(set))
	for c := range set {
		nick := s.members[c].nickname
		if _, dup := seen[nick]; !dup {
			seen[nick] = struct{}{}
			out = append(out, nick)
		}
	}
	sort.Strings(out)
	return out
}

// connsIn snapshots the connections currently in roomID.
func (s *roomState) connsIn(roomID string) []Client {
	set := s.rooms[roomID]
	out := make([]Client, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	return out
}

func (s *roomState) roomCount() int { return len(s.rooms) }
