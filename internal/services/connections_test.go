package services

import (
	"context"
	"testing"

	"github.com/anonto42/proconnect/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendConnectionRequest(t *testing.T) {
	ctx := context.Background()

	t.Run("pending in both directions", func(t *testing.T) {
		e := newEnv(t)
		ada, bob := e.user(t, "Ada"), e.user(t, "Bob")

		conn, err := e.connService.SendConnectionRequest(ctx, ada, bob.ID)
		require.NoError(t, err)
		assert.Equal(t, models.ConnectionPending, conn.Status)
		assert.Equal(t, 1, e.notifications.count(bob, models.NotificationConnectionRequest))

		_, err = e.connService.SendConnectionRequest(ctx, ada, bob.ID)
		assert.ErrorIs(t, err, ErrAlreadyPending)
		_, err = e.connService.SendConnectionRequest(ctx, bob, ada.ID)
		assert.ErrorIs(t, err, ErrAlreadyPending)

		aView, err := e.connService.ConnectionStatus(ctx, ada.ID, bob.ID)
		require.NoError(t, err)
		assert.Equal(t, "pending_sent", aView.Status)
		bView, err := e.connService.ConnectionStatus(ctx, bob.ID, ada.ID)
		require.NoError(t, err)
		assert.Equal(t, "pending_received", bView.Status)
	})

	t.Run("invalid targets", func(t *testing.T) {
		e := newEnv(t)
		ada := e.user(t, "Ada")
		acme := e.company(t, "Acme")

		_, err := e.connService.SendConnectionRequest(ctx, ada, ada.ID)
		assert.ErrorIs(t, err, ErrSelfAction)
		_, err = e.connService.SendConnectionRequest(ctx, ada, 404)
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = e.connService.SendConnectionRequest(ctx, acme, ada.ID)
		assert.ErrorIs(t, err, ErrUsersOnly)
	})

	t.Run("already connected", func(t *testing.T) {
		e := newEnv(t)
		ada, bob := e.user(t, "Ada"), e.user(t, "Bob")
		e.connections.connect(t, ada.ID, bob.ID)

		_, err := e.connService.SendConnectionRequest(ctx, bob, ada.ID)
		assert.ErrorIs(t, err, ErrAlreadyConnected)
	})
}

func TestRespondToRequest(t *testing.T) {
	ctx := context.Background()

	t.Run("accept makes the pair symmetric", func(t *testing.T) {
		e := newEnv(t)
		ada, bob := e.user(t, "Ada"), e.user(t, "Bob")
		conn, err := e.connService.SendConnectionRequest(ctx, ada, bob.ID)
		require.NoError(t, err)

		_, err = e.connService.RespondToRequest(ctx, ada, conn.ID, true)
		assert.ErrorIs(t, err, ErrNotOwner)

		accepted, err := e.connService.RespondToRequest(ctx, bob, conn.ID, true)
		require.NoError(t, err)
		assert.Equal(t, models.ConnectionAccepted, accepted.Status)
		assert.NotNil(t, accepted.RespondedAt)
		assert.Equal(t, 1, e.notifications.count(ada, models.NotificationConnectionAccepted))

		for _, pair := range [][2]models.AccountRef{{ada, bob}, {bob, ada}} {
			ids, err := e.connService.AcceptedConnectionIDs(ctx, pair[0].ID)
			require.NoError(t, err)
			assert.Equal(t, []uint{pair[1].ID}, ids)
		}

		_, err = e.connService.RespondToRequest(ctx, bob, conn.ID, false)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("rejected pair can ask again", func(t *testing.T) {
		e := newEnv(t)
		ada, bob := e.user(t, "Ada"), e.user(t, "Bob")
		conn, err := e.connService.SendConnectionRequest(ctx, ada, bob.ID)
		require.NoError(t, err)

		_, err = e.connService.RespondToRequest(ctx, bob, conn.ID, false)
		require.NoError(t, err)
		assert.Equal(t, 0, e.notifications.count(ada, models.NotificationConnectionAccepted))

		status, err := e.connService.ConnectionStatus(ctx, ada.ID, bob.ID)
		require.NoError(t, err)
		assert.Equal(t, "rejected", status.Status)

		again, err := e.connService.SendConnectionRequest(ctx, bob, ada.ID)
		require.NoError(t, err)
		assert.NotEqual(t, conn.ID, again.ID)

		pending, err := e.connService.ListPendingRequests(ctx, ada.ID)
		require.NoError(t, err)
		require.Len(t, pending, 1)
		assert.Equal(t, "Bob", pending[0].Counterpart.Name)
	})

	t.Run("unknown request", func(t *testing.T) {
		e := newEnv(t)
		ada := e.user(t, "Ada")
		_, err := e.connService.RespondToRequest(ctx, ada, 99, true)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestRemoveConnection(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	ada, bob, cy := e.user(t, "Ada"), e.user(t, "Bob"), e.user(t, "Cy")

	conn, err := e.connService.SendConnectionRequest(ctx, ada, bob.ID)
	require.NoError(t, err)
	_, err = e.connService.RespondToRequest(ctx, bob, conn.ID, true)
	require.NoError(t, err)
	_, err = e.connService.SendConnectionRequest(ctx, cy, bob.ID)
	require.NoError(t, err)

	require.NoError(t, e.connService.RemoveConnection(ctx, bob, ada.ID))

	status, err := e.connService.ConnectionStatus(ctx, ada.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, "none", status.Status)
	assert.Equal(t, 0, e.notifications.count(ada, models.NotificationConnectionAccepted))
	assert.Equal(t, 1, e.notifications.count(bob, models.NotificationConnectionRequest), "other pairs keep their notifications")

	assert.ErrorIs(t, e.connService.RemoveConnection(ctx, bob, ada.ID), ErrNotFound)

	sent, err := e.connService.ListSentRequests(ctx, cy.ID)
	require.NoError(t, err)
	assert.Len(t, sent, 1)
}
