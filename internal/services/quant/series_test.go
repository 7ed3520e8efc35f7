package quant

import (
	"errors"
	"math"
	"testing"

	"StockPulse/internal/domain/models"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestSMA(t *testing.T) {
	xs := []float64{1, 2, 3, 4, 5}
	got, err := SMA(xs, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !almostEqual(got, 3) {
		t.Fatalf("unexpected sma %v", got)
	}

	got, err = SMA(xs, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !almostEqual(got, 4.5) {
		t.Fatalf("unexpected trailing sma %v", got)
	}
}

func TestSMAInsufficient(t *testing.T) {
	_, err := SMA([]float64{1, 2}, 5)
	if !errors.Is(err, ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData, got %v", err)
	}
}

func TestPctChangeReturns(t *testing.T) {
	got, err := PctChangeReturns([]float64{100, 110, 99})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("unexpected length %d", len(got))
	}
	if !almostEqual(got[0], 0.1) {
		t.Fatalf("unexpected first return %v", got[0])
	}
	if !almostEqual(got[1], -0.1) {
		t.Fatalf("unexpected second return %v", got[1])
	}
}

func TestPctChangeReturnsZeroDivisor(t *testing.T) {
	_, err := PctChangeReturns([]float64{0, 100})
	if !errors.Is(err, ErrZeroDivisor) {
		t.Fatalf("expected ErrZeroDivisor, got %v", err)
	}
}

func TestSampleStd(t *testing.T) {
	// sample std of {2, 4} is sqrt(2)
	got, err := SampleStd([]float64{2, 4})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !almostEqual(got, math.Sqrt2) {
		t.Fatalf("unexpected std %v", got)
	}

	got, err = SampleStd([]float64{5, 5, 5, 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 0 {
		t.Fatalf("expected zero std for constant series, got %v", got)
	}
}

func TestSampleStdInsufficient(t *testing.T) {
	_, err := SampleStd([]float64{1})
	if !errors.Is(err, ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData, got %v", err)
	}
}

func TestTail(t *testing.T) {
	xs := []float64{1, 2, 3}
	if got := Tail(xs, 2); len(got) != 2 || got[0] != 2 {
		t.Fatalf("unexpected tail %v", got)
	}
	if got := Tail(xs, 10); len(got) != 3 {
		t.Fatalf("expected full slice, got %v", got)
	}
}

func TestClosesVolumes(t *testing.T) {
	bars := []models.PriceBar{
		{Close: 10, Volume: 100},
		{Close: 11, Volume: 200},
	}
	if got := Closes(bars); len(got) != 2 || got[1] != 11 {
		t.Fatalf("unexpected closes %v", got)
	}
	if got := Volumes(bars); len(got) != 2 || got[0] != 100 {
		t.Fatalf("unexpected volumes %v", got)
	}
}
