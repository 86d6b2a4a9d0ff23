package skycity

import "math"

// SkyCycle turns elapsed show time into an environment blend factor:
// 0 is full day, 1 is full night. The cycle walks four windows in order
// (day, day-to-night, night, night-to-day) and wraps at their sum.
// Transitions ease with smoothstep; steady windows hold their endpoint.
type SkyCycle struct {
	cfg SkyConfig
}

// NewSkyCycle builds the cycle. Non-positive windows are treated as zero
// length and skipped instantly.
func NewSkyCycle(cfg SkyConfig) *SkyCycle {
	if cfg.DayDuration < 0 {
		cfg.DayDuration = 0
	}
	if cfg.DayToNightTransition < 0 {
		cfg.DayToNightTransition = 0
	}
	if cfg.NightDuration < 0 {
		cfg.NightDuration = 0
	}
	if cfg.NightToDayTransition < 0 {
		cfg.NightToDayTransition = 0
	}
	return &SkyCycle{cfg: cfg}
}

// Period returns the full cycle length in seconds.
func (s *SkyCycle) Period() float64 {
	return s.cfg.DayDuration + s.cfg.DayToNightTransition +
		s.cfg.NightDuration + s.cfg.NightToDayTransition
}

// Blend returns the night blend in [0, 1] for the given elapsed time.
// A zero-length cycle is permanent day.
func (s *SkyCycle) Blend(elapsed float64) float64 {
	period := s.Period()
	if period <= 0 {
		return 0
	}

	t := math.Mod(elapsed, period)
	if t < 0 {
		t += period
	}

	if t < s.cfg.DayDuration {
		return 0
	}
	t -= s.cfg.DayDuration

	if t < s.cfg.DayToNightTransition {
		return smoothstep(t / s.cfg.DayToNightTransition)
	}
	t -= s.cfg.DayToNightTransition

	if t < s.cfg.NightDuration {
		return 1
	}
	t -= s.cfg.NightDuration

	return smoothstep(1 - t/s.cfg.NightToDayTransition)
}
