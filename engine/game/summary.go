package game

import (
	"fmt"

	"github.com/1siamBot/dyson-siege/engine/core"
)

// WaveLine summarizes wave progress in one line
func WaveLine(w core.WaveInfo) string {
	switch {
	case w.CooldownActive:
		return fmt.Sprintf("WAVE %d CLEARED  NEXT IN %.1fs", w.CurrentWave, w.CooldownRemaining)
	case w.WaveActive:
		return fmt.Sprintf("WAVE %d  HOSTILES %d/%d", w.CurrentWave, w.EnemiesRemaining, w.TotalEnemiesInWave)
	}
	return "STANDBY"
}

// SummaryLines are the end-of-run statistics
func SummaryLines(st core.GameState, elapsed float64) []string {
	s := int(elapsed)
	return []string{
		fmt.Sprintf("Score:         %6d", st.Score),
		fmt.Sprintf("Wave reached:  %6d", st.Wave),
		fmt.Sprintf("Level:         %6d", st.Level),
		fmt.Sprintf("Time survived: %3d:%02d", s/60, s%60),
	}
}
