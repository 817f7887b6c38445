package chat

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateJoinLeavePair(t *testing.T) {
	s := newRoomStateTable()
	c := &fakeClient{id: "a"}

	s.join(c, "lobby", "Ann")
	m, ok := s.metaOf(c)
	require.True(t, ok)
	assert.Equal(t, "lobby", m.roomID)
	assert.Equal(t, "Ann", m.nickname)
	assert.Len(t, s.connsIn("lobby"), 1)

	prev, ok := s.leave(c)
	require.True(t, ok)
	assert.Equal(t, "Ann", prev.nickname)

	_, ok = s.metaOf(c)
	assert.False(t, ok, "metadata and room set must go together")
	assert.Zero(t, s.roomCount(), "empty room must be removed")
}

func TestStateLeaveWithoutJoin(t *testing.T) {
	s := newRoomStateTable()
	_, ok := s.leave(&fakeClient{id: "a"})
	assert.False(t, ok)
}

func TestMembersOfSortedAndDistinct(t *testing.T) {
	s := newRoomStateTable()
	nicks := []string{"zoe", "Ann", "mia", "Ann", "bob"}
	for i, n := range nicks {
		s.join(&fakeClient{id: fmt.Sprintf("c%d", i)}, "lobby", n)
	}

	assert.Equal(t, []string{"Ann", "bob", "mia", "zoe"}, s.membersOf("lobby"))
	assert.Len(t, s.connsIn("lobby"), 5, "duplicate nicknames still count as connections")
}

func TestMembersOfUnknownRoomIsEmpty(t *testing.T) {
	s := newRoomStateTable()
	assert.Empty(t, s.membersOf("ghost"))
	assert.Empty(t, s.connsIn("ghost"))
}

func TestStateManyRoomsStayIsolated(t *testing.T) {
	s := newRoomStateTable()
	a := &fakeClient{id: "a"}
	b := &fakeClient{id: "b"}
	s.join(a, "red", "Ann")
	s.join(b, "blue", "Bob")

	assert.Equal(t, 2, s.roomCount())
	assert.Equal(t, []string{"Ann"}, s.membersOf("red"))
	assert.Equal(t, []string{"Bob"}, s.membersOf("blue"))

	s.leave(a)
	assert.Equal(t, 1, s.roomCount())
	assert.Empty(t, s.membersOf("red"))
	assert.Equal(t, []string{"Bob"}, s.membersOf("blue"))
}
