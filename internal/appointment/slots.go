package appointment

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrBadClinicWindow = errors.New("clinic close must be after open")

// Grid is the fixed daily grid of bookable slot start times, formatted
// as zero-padded HH:MM. The clinic window and granularity are process
// configuration, not per-doctor data.
type Grid struct {
	slots  []string
	member map[string]struct{}
}

// NewGrid builds the grid from an open time (inclusive), a close time
// (exclusive) and a slot length in minutes.
func NewGrid(open, close string, stepMinutes int) (*Grid, error) {
	start, err := parseClock(open)
	if err != nil {
		return nil, fmt.Errorf("clinic open: %w", err)
	}
	end, err := parseClock(close)
	if err != nil {
		return nil, fmt.Errorf("clinic close: %w", err)
	}
	if stepMinutes <= 0 {
		return nil, fmt.Errorf("slot length must be positive, got %d", stepMinutes)
	}
	if end <= start {
		return nil, ErrBadClinicWindow
	}

	g := &Grid{member: make(map[string]struct{})}
	for cur := start; cur < end; cur += stepMinutes {
		slot := fmt.Sprintf("%02d:%02d", cur/60, cur%60)
		g.slots = append(g.slots, slot)
		g.member[slot] = struct{}{}
	}

	return g, nil
}

// Slots returns the full grid in ascending order.
func (g *Grid) Slots() []string {
	out := make([]string, len(g.slots))
	copy(out, g.slots)
	return out
}

// Contains reports whether the token is a valid slot start time.
func (g *Grid) Contains(slot string) bool {
	_, ok := g.member[slot]
	return ok
}

// Availability subtracts the occupied set from the grid. Available
// slots come back in ascending order; booked slots keep the order the
// store returned them in.
func (g *Grid) Availability(booked []string) Availability {
	occupied := make(map[string]struct{}, len(booked))
	for _, s := range booked {
		occupied[s] = struct{}{}
	}

	available := make([]string, 0, len(g.slots))
	for _, s := range g.slots {
		if _, taken := occupied[s]; !taken {
			available = append(available, s)
		}
	}

	if booked == nil {
		booked = []string{}
	}
	return Availability{AvailableSlots: available, BookedSlots: booked}
}

// parseClock converts "HH:MM" to minutes since midnight.
func parseClock(v string) (int, error) {
	parts := strings.Split(v, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("malformed time %q, want HH:MM", v)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("malformed hour in %q", v)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("malformed minute in %q", v)
	}
	return hour*60 + minute, nil
}
