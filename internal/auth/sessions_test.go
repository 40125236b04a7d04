package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/prabhata303-del/Dd/internal/models"
)

func TestSessionHubDeliversToAllSubscribers(t *testing.T) {
	hub := newSessionHub()

	var got1, got2 []*models.Session
	hub.subscribe(func(s *models.Session) { got1 = append(got1, s) })
	hub.subscribe(func(s *models.Session) { got2 = append(got2, s) })

	sess := &models.Session{UID: "u1"}
	hub.publish(sess)
	hub.publish(nil)

	assert.Equal(t, []*models.Session{sess, nil}, got1)
	assert.Equal(t, []*models.Session{sess, nil}, got2)
}

func TestSessionHubUnsubscribeStopsDelivery(t *testing.T) {
	hub := newSessionHub()

	var got []*models.Session
	cancel := hub.subscribe(func(s *models.Session) { got = append(got, s) })

	hub.publish(&models.Session{UID: "u1"})
	cancel()
	cancel() // idempotent
	hub.publish(&models.Session{UID: "u2"})

	assert.Len(t, got, 1)
	assert.Equal(t, "u1", got[0].UID)
}

func TestSessionHubPublishWithoutSubscribers(t *testing.T) {
	hub := newSessionHub()
	assert.NotPanics(t, func() { hub.publish(&models.Session{UID: "u1"}) })
}
