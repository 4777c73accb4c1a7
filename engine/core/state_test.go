package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStateStore_UpdateMergesNonNilFields(t *testing.T) {
	s := NewStateStore()
	s.Update(StatePatch{DysonHealth: Ptr(900.0), Wave: Ptr(3)})
	s.Update(StatePatch{Score: Ptr(250)})

	st := s.Get()
	assert.Equal(t, 900.0, st.DysonHealth)
	assert.Equal(t, 3, st.Wave)
	assert.Equal(t, 250, st.Score)
	assert.Equal(t, 1, st.Level)
}

func TestStateStore_GetReturnsCopy(t *testing.T) {
	s := NewStateStore()
	st := s.Get()
	st.Score = 1000
	assert.Equal(t, 0, s.Get().Score)
}

func TestStateStore_GameOverIsSticky(t *testing.T) {
	s := NewStateStore()

	assert.True(t, s.SetGameOver())
	assert.False(t, s.SetGameOver())

	s.Update(StatePatch{IsGameOver: Ptr(false)})
	assert.True(t, s.Get().IsGameOver)

	s.Reset()
	assert.False(t, s.Get().IsGameOver)
}

func TestStateStore_ResetRestoresInitial(t *testing.T) {
	s := NewStateStore()
	s.SetInitial(GameState{Level: 1, DysonHealth: 1000, DysonMaxHealth: 1000})
	s.AddScore(300)
	s.Update(StatePatch{DysonHealth: Ptr(10.0), IsPaused: Ptr(true)})

	s.Reset()

	st := s.Get()
	assert.Equal(t, 0, st.Score)
	assert.Equal(t, 1000.0, st.DysonHealth)
	assert.False(t, st.IsPaused)
}
