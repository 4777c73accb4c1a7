package core

// GameState is the aggregate snapshot polled by the HUD
type GameState struct {
	Score           int     `json:"score"`
	DysonHealth     float64 `json:"dysonHealth"`
	DysonMaxHealth  float64 `json:"dysonMaxHealth"`
	DysonShield     float64 `json:"dysonShield"`
	DysonMaxShield  float64 `json:"dysonMaxShield"`
	PlayerHealth    float64 `json:"playerHealth"`
	PlayerMaxHealth float64 `json:"playerMaxHealth"`
	Wave            int     `json:"wave"`
	Level           int     `json:"level"`
	IsGameOver      bool    `json:"isGameOver"`
	IsPaused        bool    `json:"isPaused"`
}

// StatePatch is a partial update; nil fields are left alone
type StatePatch struct {
	Score           *int
	DysonHealth     *float64
	DysonMaxHealth  *float64
	DysonShield     *float64
	DysonMaxShield  *float64
	PlayerHealth    *float64
	PlayerMaxHealth *float64
	Wave            *int
	Level           *int
	IsGameOver      *bool
	IsPaused        *bool
}

// WaveInfo is the wave director's public state
type WaveInfo struct {
	CurrentWave        int     `json:"currentWave"`
	TotalEnemiesInWave int     `json:"totalEnemiesInWave"`
	EnemiesRemaining   int     `json:"enemiesRemaining"`
	ActiveEnemyCount   int     `json:"activeEnemyCount"`
	WaveActive         bool    `json:"waveActive"`
	CooldownActive     bool    `json:"cooldownActive"`
	CooldownRemaining  float64 `json:"cooldownRemaining"`
}

// StateStore holds the single GameState. Game over is sticky: only
// Reset clears it.
type StateStore struct {
	state   GameState
	initial GameState
}

func NewStateStore() *StateStore {
	initial := GameState{Level: 1}
	return &StateStore{state: initial, initial: initial}
}

// Get returns a copy of the current state
func (s *StateStore) Get() GameState {
	return s.state
}

// Update merges the non-nil fields of p
func (s *StateStore) Update(p StatePatch) {
	st := &s.state
	if p.Score != nil {
		st.Score = *p.Score
	}
	if p.DysonHealth != nil {
		st.DysonHealth = *p.DysonHealth
	}
	if p.DysonMaxHealth != nil {
		st.DysonMaxHealth = *p.DysonMaxHealth
	}
	if p.DysonShield != nil {
		st.DysonShield = *p.DysonShield
	}
	if p.DysonMaxShield != nil {
		st.DysonMaxShield = *p.DysonMaxShield
	}
	if p.PlayerHealth != nil {
		st.PlayerHealth = *p.PlayerHealth
	}
	if p.PlayerMaxHealth != nil {
		st.PlayerMaxHealth = *p.PlayerMaxHealth
	}
	if p.Wave != nil {
		st.Wave = *p.Wave
	}
	if p.Level != nil {
		st.Level = *p.Level
	}
	if p.IsGameOver != nil && *p.IsGameOver {
		st.IsGameOver = true
	}
	if p.IsPaused != nil {
		st.IsPaused = *p.IsPaused
	}
}

// AddScore adds n points
func (s *StateStore) AddScore(n int) {
	s.state.Score += n
}

// SetGameOver raises the game over flag. It returns true only for the
// call that actually changed it.
func (s *StateStore) SetGameOver() bool {
	if s.state.IsGameOver {
		return false
	}
	s.state.IsGameOver = true
	return true
}

// SetInitial replaces the values Reset returns to
func (s *StateStore) SetInitial(g GameState) {
	s.initial = g
}

// Reset returns to the initial values
func (s *StateStore) Reset() {
	s.state = s.initial
}

// Ptr is a helper for building patches
func Ptr[T any](v T) *T { return &v }
