package audio

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/1siamBot/dyson-siege/engine/core"
)

// SoundID identifies a sound effect
type SoundID string

const (
	SndLaser     SoundID = "laser"
	SndHit       SoundID = "hit"
	SndExplosion SoundID = "explosion"
	SndImpact    SoundID = "impact"
	SndAlarm     SoundID = "alarm"
	SndWave      SoundID = "wave"
	SndLevelUp   SoundID = "levelUp"
	SndGameOver  SoundID = "gameOver"
)

type recipe struct {
	from, to float64
	dur      time.Duration
	wave     Wave
	gain     float64
	global   bool // ignores distance
}

var recipes = map[SoundID]recipe{
	SndLaser:     {from: 1400, to: 600, dur: 90 * time.Millisecond, wave: WaveSquare, gain: 0.25},
	SndHit:       {from: 300, to: 200, dur: 60 * time.Millisecond, wave: WaveSine, gain: 0.5},
	SndExplosion: {dur: 600 * time.Millisecond, wave: WaveNoise, gain: 0.8},
	SndImpact:    {from: 120, to: 60, dur: 150 * time.Millisecond, wave: WaveSine, gain: 0.6, global: true},
	SndAlarm:     {from: 880, to: 660, dur: 200 * time.Millisecond, wave: WaveSquare, gain: 0.35, global: true},
	SndWave:      {from: 660, dur: 120 * time.Millisecond, wave: WaveChime, gain: 0.3, global: true},
	SndLevelUp:   {from: 440, to: 1320, dur: 500 * time.Millisecond, wave: WaveSine, gain: 0.6, global: true},
	SndGameOver:  {from: 400, to: 80, dur: 1500 * time.Millisecond, wave: WaveSine, gain: 0.7, global: true},
}

// maxVoices caps concurrent sounds; beam ticks would otherwise pile up
const maxVoices = 24

// AudioManager turns simulation events into sound
type AudioManager struct {
	MasterVolume float64
	SFXVolume    float64
	MaxDistance  float64

	mu          sync.Mutex
	unmuted     float64
	mixer       *beep.Mixer
	listener    core.Vec3
	initialized bool
}

func NewAudioManager() *AudioManager {
	return &AudioManager{
		MasterVolume: 1.0,
		SFXVolume:    0.8,
		MaxDistance:  500,
		mixer:        &beep.Mixer{},
	}
}

// Init opens the speaker and starts the mixer
func (am *AudioManager) Init() error {
	am.mu.Lock()
	defer am.mu.Unlock()
	if am.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(50*time.Millisecond)); err != nil {
		return err
	}
	speaker.Play(am.mixer)
	am.initialized = true
	return nil
}

// Close silences everything and releases the speaker
func (am *AudioManager) Close() {
	am.mu.Lock()
	defer am.mu.Unlock()
	if !am.initialized {
		return
	}
	speaker.Clear()
	speaker.Close()
	am.initialized = false
}

// SetListener moves the point sounds are heard from
func (am *AudioManager) SetListener(p core.Vec3) {
	am.mu.Lock()
	am.listener = p
	am.mu.Unlock()
}

// SetVolume sets master volume (0-1)
func (am *AudioManager) SetVolume(v float64) {
	am.mu.Lock()
	am.MasterVolume = max(0, min(1, v))
	am.mu.Unlock()
}

// ToggleMute silences output or restores the volume it had before
// muting. It reports whether output is now muted.
func (am *AudioManager) ToggleMute() bool {
	am.mu.Lock()
	defer am.mu.Unlock()
	if am.MasterVolume > 0 {
		am.unmuted, am.MasterVolume = am.MasterVolume, 0
		return true
	}
	am.MasterVolume = am.unmuted
	if am.MasterVolume == 0 {
		am.MasterVolume = 1
	}
	return false
}

// SoundFor maps a simulation event to its sound
func SoundFor(t core.EventType) (SoundID, bool) {
	switch t {
	case core.EvtShotFired:
		return SndLaser, true
	case core.EvtEnemyHit:
		return SndHit, true
	case core.EvtEnemyDestroyed:
		return SndExplosion, true
	case core.EvtStructureHit:
		return SndImpact, true
	case core.EvtPlayerHit:
		return SndAlarm, true
	case core.EvtWaveStarted:
		return SndWave, true
	case core.EvtWaveCompleted:
		return SndLevelUp, true
	case core.EvtGameOver:
		return SndGameOver, true
	}
	return "", false
}

// Attach subscribes the manager to every event that has a sound
func (am *AudioManager) Attach(subscribe func(core.EventType, core.EventHandler)) {
	for _, t := range []core.EventType{
		core.EvtShotFired,
		core.EvtEnemyHit,
		core.EvtEnemyDestroyed,
		core.EvtStructureHit,
		core.EvtPlayerHit,
		core.EvtWaveStarted,
		core.EvtWaveCompleted,
		core.EvtGameOver,
	} {
		snd, _ := SoundFor(t)
		subscribe(t, func(e core.Event) {
			am.PlaySFX(snd, e.Pos)
		})
	}
}

// Streamer builds the streamer for id at the given volume
func Streamer(id SoundID, vol float64) beep.Streamer {
	r, ok := recipes[id]
	if !ok {
		return nil
	}
	if r.wave == WaveChime {
		chime, err := NewChime(r.from, r.dur)
		if err != nil {
			return nil
		}
		return withVolume(chime, vol*r.gain)
	}
	return withVolume(NewTone(r.from, r.to, r.dur, r.wave), vol*r.gain)
}

// PlaySFX plays a sound effect at a world position. It reports whether
// anything was queued.
func (am *AudioManager) PlaySFX(id SoundID, at core.Vec3) bool {
	am.mu.Lock()
	defer am.mu.Unlock()
	if !am.initialized {
		return false
	}
	vol := am.calcVolume(id, at)
	if vol <= 0 {
		return false
	}
	s := Streamer(id, vol)
	if s == nil {
		return false
	}

	speaker.Lock()
	defer speaker.Unlock()
	if am.mixer.Len() >= maxVoices {
		return false
	}
	am.mixer.Add(s)
	return true
}

// calcVolume computes volume based on distance from the listener
func (am *AudioManager) calcVolume(id SoundID, at core.Vec3) float64 {
	base := am.SFXVolume * am.MasterVolume
	if r, ok := recipes[id]; ok && r.global {
		return base
	}
	if am.MaxDistance <= 0 {
		return base
	}
	dist := at.DistanceTo(am.listener)
	if dist >= am.MaxDistance {
		return 0
	}
	return (1.0 - dist/am.MaxDistance) * base
}

// Duration returns how long id plays
func Duration(id SoundID) time.Duration {
	return recipes[id].dur
}
