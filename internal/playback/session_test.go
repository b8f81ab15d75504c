package playback

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClockSession_StateMachine(t *testing.T) {
	player := NewClockPlayer()
	session := player.NewSession("http://localhost/uploads/audio/track.mp3", nil)

	assert.False(t, session.Playing())
	assert.Equal(t, "http://localhost/uploads/audio/track.mp3", session.Source())

	session.Play()
	assert.True(t, session.Playing())

	// Redundant Play is a no-op.
	session.Play()
	assert.True(t, session.Playing())

	session.Pause()
	assert.False(t, session.Playing())

	session.Release()
	assert.False(t, session.Playing())

	// A released session stays dead.
	session.Play()
	assert.False(t, session.Playing())
}

func TestClockSession_PositionAdvancesOnlyWhilePlaying(t *testing.T) {
	session := NewClockPlayer().NewSession("track", nil)

	assert.Zero(t, session.Position())

	session.Play()
	time.Sleep(20 * time.Millisecond)
	session.Pause()

	paused := session.Position()
	assert.Greater(t, paused, time.Duration(0))

	// Paused position is frozen.
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, paused, session.Position())

	session.Play()
	time.Sleep(20 * time.Millisecond)
	assert.Greater(t, session.Position(), paused)
}
