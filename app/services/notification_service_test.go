package services

import (
	"testing"

	"github.com/shashiranjanraj/inbox/app/models"
	"github.com/shashiranjanraj/inbox/pkg/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPusher struct {
	userIDs  []uint
	payloads [][]byte
}

func (p *recordingPusher) SendToUser(userID uint, data []byte) {
	p.userIDs = append(p.userIDs, userID)
	p.payloads = append(p.payloads, data)
}

func TestNotificationFeed(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")

	first, err := f.notify.Append(alice.ID, models.NotificationWelcome, "Welcome", "hi", 0)
	require.NoError(t, err)
	_, err = f.notify.Append(alice.ID, models.NotificationLogin, "New login", "", 0)
	require.NoError(t, err)
	_, err = f.notify.Append(bob.ID, models.NotificationWelcome, "Welcome", "hi", 0)
	require.NoError(t, err)

	// Feed is per user, in creation order.
	feed, err := f.notify.List(alice.ID)
	require.NoError(t, err)
	require.Len(t, feed, 2)
	assert.Equal(t, "Welcome", feed[0].Title)
	assert.Equal(t, "New login", feed[1].Title)

	summary, err := f.notify.Unread(alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), summary.Count)
	assert.True(t, summary.HasUnread)

	require.NoError(t, f.notify.MarkRead(first.ID, alice.ID))
	summary, err = f.notify.Unread(alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), summary.Count)

	// Ownership checks.
	assert.ErrorIs(t, f.notify.MarkRead(first.ID, bob.ID), ErrForbidden)
	assert.ErrorIs(t, f.notify.Delete(first.ID, bob.ID), ErrForbidden)
	assert.ErrorIs(t, f.notify.MarkRead(9999, alice.ID), ErrNotFound)

	require.NoError(t, f.notify.Delete(first.ID, alice.ID))
	require.NoError(t, f.notify.DeleteAll(alice.ID))

	feed, err = f.notify.List(alice.ID)
	require.NoError(t, err)
	assert.Empty(t, feed)

	// Bob's feed is untouched.
	feed, err = f.notify.List(bob.ID)
	require.NoError(t, err)
	assert.Len(t, feed, 1)
}

func TestAppendPushesToPusher(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "alice")

	pusher := &recordingPusher{}
	svc := NewNotificationService(f.notifications, pusher)

	n, err := svc.Append(alice.ID, models.NotificationReservation, "Reservation confirmed", "", 0)
	require.NoError(t, err)

	require.Len(t, pusher.userIDs, 1)
	assert.Equal(t, alice.ID, pusher.userIDs[0])
	assert.Contains(t, string(pusher.payloads[0]), "Reservation confirmed")
	assert.NotZero(t, n.ID)
}

func TestListenersWriteFeedEntries(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "alice")
	g := f.group(t, alice, "flatshare")

	f.notify.RegisterListeners()
	t.Cleanup(event.Flush)

	event.Fire(EventInviteSent, InviteEvent{Group: g, Invitee: alice})

	feed, err := f.notify.List(alice.ID)
	require.NoError(t, err)

	var invite *models.Notification
	for i := range feed {
		if feed[i].Kind == models.NotificationInvite {
			invite = &feed[i]
		}
	}
	require.NotNil(t, invite, "invite listener should append a feed entry")
	assert.Equal(t, g.ID, invite.GroupID)
	assert.Contains(t, invite.Message, g.Name)
}
