package appointment

import (
	"errors"
	"testing"
)

func TestNewGridFullDay(t *testing.T) {
	grid, err := NewGrid("09:00", "17:00", 30)
	if err != nil {
		t.Fatalf("build grid: %v", err)
	}

	slots := grid.Slots()
	if len(slots) != 16 {
		t.Fatalf("expected 16 slots, got %d: %v", len(slots), slots)
	}
	if slots[0] != "09:00" {
		t.Errorf("expected first slot 09:00, got %s", slots[0])
	}
	if slots[len(slots)-1] != "16:30" {
		t.Errorf("expected last slot 16:30, got %s", slots[len(slots)-1])
	}
	// Close time is exclusive.
	if grid.Contains("17:00") {
		t.Error("17:00 should not be bookable")
	}
	if !grid.Contains("12:30") {
		t.Error("12:30 should be bookable")
	}
	if grid.Contains("09:15") {
		t.Error("09:15 is off the grid and should not be bookable")
	}
}

func TestNewGridRejectsBadWindows(t *testing.T) {
	cases := []struct {
		name  string
		open  string
		close string
		step  int
	}{
		{"close before open", "17:00", "09:00", 30},
		{"close equals open", "09:00", "09:00", 30},
		{"zero step", "09:00", "17:00", 0},
		{"negative step", "09:00", "17:00", -30},
		{"malformed open", "nine", "17:00", 30},
		{"malformed close", "09:00", "25:00", 30},
		{"missing minutes", "09", "17:00", 30},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewGrid(tc.open, tc.close, tc.step); err == nil {
				t.Errorf("NewGrid(%q, %q, %d) should fail", tc.open, tc.close, tc.step)
			}
		})
	}

	_, err := NewGrid("17:00", "09:00", 30)
	if !errors.Is(err, ErrBadClinicWindow) {
		t.Errorf("expected ErrBadClinicWindow, got %v", err)
	}
}

func TestGridAvailability(t *testing.T) {
	grid, err := NewGrid("09:00", "11:00", 30)
	if err != nil {
		t.Fatalf("build grid: %v", err)
	}

	av := grid.Availability([]string{"09:30", "10:30"})
	want := []string{"09:00", "10:00"}
	if len(av.AvailableSlots) != len(want) {
		t.Fatalf("expected %v available, got %v", want, av.AvailableSlots)
	}
	for i, s := range want {
		if av.AvailableSlots[i] != s {
			t.Errorf("available[%d] = %s, want %s", i, av.AvailableSlots[i], s)
		}
	}
	if len(av.BookedSlots) != 2 {
		t.Errorf("expected 2 booked slots, got %v", av.BookedSlots)
	}
}

func TestGridAvailabilityEmptyDay(t *testing.T) {
	grid, err := NewGrid("09:00", "10:00", 30)
	if err != nil {
		t.Fatalf("build grid: %v", err)
	}

	av := grid.Availability(nil)
	if len(av.AvailableSlots) != 2 {
		t.Fatalf("expected full grid available, got %v", av.AvailableSlots)
	}
	if av.BookedSlots == nil {
		t.Error("booked slots should marshal as [] not null")
	}
	if len(av.BookedSlots) != 0 {
		t.Errorf("expected no booked slots, got %v", av.BookedSlots)
	}
}

func TestGridAvailabilityFullyBooked(t *testing.T) {
	grid, err := NewGrid("09:00", "10:00", 30)
	if err != nil {
		t.Fatalf("build grid: %v", err)
	}

	av := grid.Availability([]string{"09:00", "09:30"})
	if len(av.AvailableSlots) != 0 {
		t.Errorf("expected no available slots, got %v", av.AvailableSlots)
	}
}
