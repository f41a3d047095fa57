package state

import "time"

// Speed limits in ticks per second.
const (
	MinSpeed = 0.5
	MaxSpeed = 500
)

// Playback paces a live run: while playing it releases ticks at Speed per
// second of wall clock.
type Playback struct {
	Speed   float64 // Ticks per second
	Playing bool

	pending float64 // Fractional ticks carried between frames
	last    time.Time
}

// NewPlayback creates a paused playback at speed ticks per second.
func NewPlayback(speed float64) *Playback {
	p := &Playback{}
	p.SetSpeed(speed)
	return p
}

// TogglePlay starts or stops playback at time now.
func (p *Playback) TogglePlay(now time.Time) {
	if p.Playing {
		p.Pause()
		return
	}
	p.Play(now)
}

// Play starts playback at time now.
func (p *Playback) Play(now time.Time) {
	p.Playing = true
	p.pending = 0
	p.last = now
}

// Pause stops playback.
func (p *Playback) Pause() {
	p.Playing = false
	p.pending = 0
}

// Due returns how many ticks should run for the time elapsed since the last
// call. It returns 0 while paused.
func (p *Playback) Due(now time.Time) int {
	if !p.Playing {
		return 0
	}
	elapsed := now.Sub(p.last).Seconds()
	p.last = now
	if elapsed <= 0 {
		return 0
	}
	p.pending += elapsed * p.Speed
	n := int(p.pending)
	p.pending -= float64(n)
	return n
}

// SetSpeed sets ticks per second, clamped to [MinSpeed, MaxSpeed].
func (p *Playback) SetSpeed(speed float64) {
	p.Speed = min(max(speed, MinSpeed), MaxSpeed)
}

// Faster and Slower scale the speed by 1.5.
func (p *Playback) Faster() { p.SetSpeed(p.Speed * 1.5) }

func (p *Playback) Slower() { p.SetSpeed(p.Speed / 1.5) }
