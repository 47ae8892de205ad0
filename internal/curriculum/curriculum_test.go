package curriculum

import (
	"testing"
	"time"
)

func TestWeekFallsBackToWeekOne(t *testing.T) {
	for _, n := range []int{0, -3, 9, 100} {
		if got := Week(n); got.Number != 1 {
			t.Errorf("Week(%d).Number = %d, want 1", n, got.Number)
		}
	}
	if got := Week(5); got.Number != 5 {
		t.Errorf("Week(5).Number = %d, want 5", got.Number)
	}
}

func TestAllWeeksAreComplete(t *testing.T) {
	all := All()
	if len(all) != TotalWeeks {
		t.Fatalf("got %d weeks, want %d", len(all), TotalWeeks)
	}
	for i, w := range all {
		if w.Number != i+1 {
			t.Errorf("week %d numbered %d", i+1, w.Number)
		}
		if w.Level == "" || w.Title == "" {
			t.Errorf("week %d missing level or title", w.Number)
		}
		if len(w.Topics) == 0 {
			t.Errorf("week %d has no topics", w.Number)
		}
		for _, topic := range w.Topics {
			if topic.Name == "" || topic.LocalName == "" {
				t.Errorf("week %d has an incomplete topic: %+v", w.Number, topic)
			}
		}
	}
}

func TestWeekAtWrapsModuloCycle(t *testing.T) {
	cases := []struct {
		at   time.Time
		want int
	}{
		{time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), 1},  // epoch day
		{time.Date(2025, 1, 7, 23, 0, 0, 0, time.UTC), 1}, // last day of week 1
		{time.Date(2025, 1, 8, 0, 0, 0, 0, time.UTC), 2},
		{time.Date(2025, 2, 19, 0, 0, 0, 0, time.UTC), 8}, // day 49
		{time.Date(2025, 2, 26, 0, 0, 0, 0, time.UTC), 1}, // day 56, new cycle
		{time.Date(2024, 12, 25, 0, 0, 0, 0, time.UTC), 1},
	}
	for _, tc := range cases {
		if got := WeekAt(tc.at); got.Number != tc.want {
			t.Errorf("WeekAt(%s).Number = %d, want %d", tc.at.Format("2006-01-02"), got.Number, tc.want)
		}
	}
}
