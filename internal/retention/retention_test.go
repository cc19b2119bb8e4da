package retention

import (
	"math"
	"testing"
	"time"
)

var now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func daysAgo(d float64) *time.Time {
	t := now.Add(-time.Duration(d * 24 * float64(time.Hour)))
	return &t
}

func TestFactor_NeverReviewed(t *testing.T) {
	if got := Factor(nil, 5.0, now); got != 1.0 {
		t.Errorf("Factor(nil) = %f, want 1.0", got)
	}
}

func TestFactor_JustReviewed(t *testing.T) {
	got := Factor(daysAgo(0), 5.0, now)
	if math.Abs(got-1.0) > 1e-9 {
		t.Errorf("Factor(now) = %f, want ~1.0", got)
	}
}

func TestFactor_DecayCurve(t *testing.T) {
	// One stability period elapsed: R = e^-1.
	got := Factor(daysAgo(5), 5.0, now)
	want := math.Exp(-1)
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("Factor(5 days, S=5) = %f, want %f", got, want)
	}
}

func TestFactor_ClampsDegenerateStability(t *testing.T) {
	// stability <= 0 falls back to InitialStability, never panics
	// or divides by zero.
	got := Factor(daysAgo(1), 0, now)
	want := math.Exp(-1 / InitialStability)
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("Factor with zero stability = %f, want %f", got, want)
	}
}

func TestFactor_FutureReviewClampsToZeroDays(t *testing.T) {
	future := now.Add(24 * time.Hour)
	if got := Factor(&future, 5.0, now); got != 1.0 {
		t.Errorf("Factor(future review) = %f, want 1.0", got)
	}
}

func TestEffectiveMastery_Statuses(t *testing.T) {
	tests := []struct {
		name       string
		days       float64
		stability  float64
		wantStatus Status
	}{
		{"fresh review is current", 0, 5, StatusCurrent},
		{"one day on strong memory is current", 1, 10, StatusCurrent},
		{"partially faded is aging", 3, 5, StatusAging},
		{"long faded is expired", 20, 5, StatusExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := EffectiveMastery(1.0, daysAgo(tt.days), tt.stability, now)
			if res.Status != tt.wantStatus {
				t.Errorf("days=%v stability=%v: status = %s, want %s (factor %f)",
					tt.days, tt.stability, res.Status, tt.wantStatus, res.RetentionFactor)
			}
			if math.Abs(res.EffectiveMastery-res.RetentionFactor) > 1e-9 {
				t.Errorf("raw mastery 1.0 should make effective == factor")
			}
		})
	}
}

func TestEffectiveMastery_ScalesRaw(t *testing.T) {
	res := EffectiveMastery(0.5, nil, 5.0, now)
	if res.EffectiveMastery != 0.5 || res.RetentionFactor != 1.0 {
		t.Errorf("never reviewed: got %+v", res)
	}
	if res.Status != StatusCurrent {
		t.Errorf("full retention must be current, got %s", res.Status)
	}
}

func TestStatusFor_Boundaries(t *testing.T) {
	tests := []struct {
		factor float64
		want   Status
	}{
		{1.0, StatusCurrent},
		{0.8, StatusCurrent},
		{0.79, StatusAging},
		{0.5, StatusAging},
		{0.49, StatusExpired},
		{0.0, StatusExpired},
	}
	for _, tt := range tests {
		if got := StatusFor(tt.factor); got != tt.want {
			t.Errorf("StatusFor(%v) = %s, want %s", tt.factor, got, tt.want)
		}
	}
}

func TestUpdateStability_Grows(t *testing.T) {
	s := UpdateStability(InitialStability, daysAgo(0.5), now)
	if s <= InitialStability {
		t.Errorf("stability after successful retrieval = %f, want > %f", s, InitialStability)
	}
}

func TestUpdateStability_EarlyReviewBeatsLateReview(t *testing.T) {
	early := UpdateStability(5.0, daysAgo(1), now)
	late := UpdateStability(5.0, daysAgo(30), now)
	if early <= late {
		t.Errorf("review while retention is high must grow stability more: early=%f late=%f", early, late)
	}
}

func TestUpdateStability_DiminishingReturns(t *testing.T) {
	// The multiplicative growth factor shrinks as stability rises.
	lowGrowth := UpdateStability(2.0, daysAgo(0), now) / 2.0
	highGrowth := UpdateStability(50.0, daysAgo(0), now) / 50.0
	if highGrowth >= lowGrowth {
		t.Errorf("growth ratio must fall with stability: low=%f high=%f", lowGrowth, highGrowth)
	}
}

func TestUpdateStability_ExactFormula(t *testing.T) {
	// S=8, reviewed 4 days ago: R = e^-0.5.
	r := math.Exp(-0.5)
	want := 8.0 * (1.2*math.Pow(8.0, -0.25)*math.Exp(1.5*r) + 0.1)
	got := UpdateStability(8.0, daysAgo(4), now)
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("UpdateStability = %f, want %f", got, want)
	}
}

func TestDaysUntilExpiry(t *testing.T) {
	d := DaysUntilExpiry(10.0, 0.9)
	if d == nil {
		t.Fatal("expected a day count while retention is above the aging threshold")
	}
	want := -10.0 * math.Log(AgingThreshold)
	if math.Abs(*d-want) > 1e-9 {
		t.Errorf("DaysUntilExpiry = %f, want %f", *d, want)
	}
}

func TestDaysUntilExpiry_AlreadyBelow(t *testing.T) {
	if d := DaysUntilExpiry(10.0, 0.5); d != nil {
		t.Errorf("retention at the threshold must return nil, got %f", *d)
	}
	if d := DaysUntilExpiry(10.0, 0.2); d != nil {
		t.Errorf("retention below the threshold must return nil, got %f", *d)
	}
}
