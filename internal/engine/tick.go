// Package engine provides the day-based game loop and the game state it advances.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync/atomic"
	"time"
)

// Calendar cadences, in game days.
const (
	DaysPerWeek  = 7
	DaysPerMonth = 28
)

// Clock drives the game forward one day at a time.
type Clock struct {
	Day      int           // Last day processed; the first step runs day 1
	Interval time.Duration // Real time per game day at speed 1

	running atomic.Bool
	speed   atomic.Uint64 // float64 bits; see Speed

	// Callbacks for each layer, populated during setup.
	OnDay   func(day int)
	OnWeek  func(day int) // Every 7 days
	OnMonth func(day int) // Every 28 days
}

// NewClock creates a clock with default settings.
func NewClock() *Clock {
	c := &Clock{Interval: 2 * time.Second}
	c.SetSpeed(1)
	return c
}

// Speed is the multiplier: 1.0 = one day per Interval, 0 = paused.
func (c *Clock) Speed() float64 {
	return math.Float64frombits(c.speed.Load())
}

// SetSpeed changes the multiplier. Safe to call while Run is looping.
func (c *Clock) SetSpeed(v float64) {
	c.speed.Store(math.Float64bits(v))
}

// Running reports whether Run is looping.
func (c *Clock) Running() bool {
	return c.running.Load()
}

// Run advances days until ctx is cancelled or Stop is called.
func (c *Clock) Run(ctx context.Context) {
	c.running.Store(true)
	defer c.running.Store(false)
	slog.Info("game clock started", "day", c.Day, "speed", c.Speed())

	for c.running.Load() {
		speed := c.Speed()
		if speed <= 0 {
			// Paused; check again shortly.
			if !sleep(ctx, 100*time.Millisecond) {
				break
			}
			continue
		}

		start := time.Now()
		c.Step()

		elapsed := time.Since(start)
		target := time.Duration(float64(c.Interval) / speed)
		if elapsed < target && !sleep(ctx, target-elapsed) {
			break
		}
	}

	slog.Info("game clock stopped", "day", c.Day)
}

// Stop halts the loop after the current day.
func (c *Clock) Stop() {
	c.running.Store(false)
}

// Step advances the game by one day.
func (c *Clock) Step() {
	c.Day++

	if c.OnDay != nil {
		c.OnDay(c.Day)
	}
	if c.Day%DaysPerWeek == 0 && c.OnWeek != nil {
		c.OnWeek(c.Day)
	}
	if c.Day%DaysPerMonth == 0 && c.OnMonth != nil {
		c.OnMonth(c.Day)
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// GameDate returns the calendar date of a game day. Day 1 is start.
func GameDate(start time.Time, day int) time.Time {
	return start.AddDate(0, 0, max(0, day-1))
}

// DayLabel returns a human-readable label such as "Day 12 (Mon 12 May 2028)".
func DayLabel(start time.Time, day int) string {
	return fmt.Sprintf("Day %d (%s)", day, GameDate(start, day).Format("Mon 2 Jan 2006"))
}
