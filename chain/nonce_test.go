package chain

import (
	"errors"
	"testing"
	"time"
)

func TestNewNonce_HighBitsTrackTime(t *testing.T) {
	before := time.Now().UnixMilli() + 20_000
	nonce := NewNonce()
	after := time.Now().UnixMilli() + 20_000

	ms := int64(nonce >> 20)
	if ms < before || ms > after {
		t.Errorf("high bits = %d, want within [%d, %d]", ms, before, after)
	}
}

func TestNewNonce_MonotonicAcrossMilliseconds(t *testing.T) {
	first := NewNonce()
	time.Sleep(2 * time.Millisecond)
	second := NewNonce()

	if second>>20 <= first>>20 {
		t.Errorf("high bits did not advance: %d then %d", first>>20, second>>20)
	}
}

func TestNewNonceInRange_LowBitsStayInRange(t *testing.T) {
	tests := []struct {
		name   string
		lo, hi int64
	}{
		{"perp range", PerpNonceMin, PerpNonceMax},
		{"spot range", SpotNonceMin, SpotNonceMax},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for i := 0; i < 10_000; i++ {
				nonce, err := NewNonceInRange(tt.lo, tt.hi)
				if err != nil {
					t.Fatalf("NewNonceInRange returned error: %v", err)
				}
				low := int64(nonce & (1<<20 - 1))
				if low < tt.lo || low >= tt.hi {
					t.Fatalf("low bits = %d, want within [%d, %d)", low, tt.lo, tt.hi)
				}
			}
		})
	}
}

func TestNewNonceInRange_RejectsInvalidRanges(t *testing.T) {
	tests := []struct {
		name   string
		lo, hi int64
	}{
		{"empty range", 1000, 1000},
		{"inverted range", 30000, 1000},
		{"negative lo", -1, 1000},
		{"hi exceeds low bits", 0, 1 << 21},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewNonceInRange(tt.lo, tt.hi)
			if !errors.Is(err, ErrInvalidNonceRange) {
				t.Errorf("NewNonceInRange(%d, %d) error = %v, want ErrInvalidNonceRange", tt.lo, tt.hi, err)
			}
		})
	}
}
