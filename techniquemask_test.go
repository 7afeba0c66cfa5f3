package main

import "testing"

func TestTechniqueMaskHas(t *testing.T) {
	m := MaskHammerOn | MaskVibrato | MaskAccent

	cases := []struct {
		bit  TechniqueMask
		want bool
	}{
		{MaskHammerOn, true},
		{MaskVibrato, true},
		{MaskAccent, true},
		{MaskPullOff, false},
		{MaskChord, false},
		{MaskChordPanel, false},
	}

	for _, c := range cases {
		if got := m.Has(c.bit); got != c.want {
			t.Errorf("Has(%#x): got %v, want %v", uint32(c.bit), got, c.want)
		}
	}
}

func TestTechniqueMaskZeroValueHasNoBits(t *testing.T) {
	var m TechniqueMask
	if m.Has(MaskChord) {
		t.Error("zero-value TechniqueMask should not report any bit set")
	}
}

func TestTechniqueMaskHighBitChordPanel(t *testing.T) {
	// MaskChordPanel sets bit 31; make sure it survives as unsigned and
	// Has() doesn't get tripped up by sign extension anywhere upstream.
	m := MaskChordPanel
	if !m.Has(MaskChordPanel) {
		t.Error("MaskChordPanel bit should be set")
	}
	if m.Has(MaskParent) {
		t.Error("MaskChordPanel alone should not report MaskParent")
	}
}
