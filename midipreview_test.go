package main

import (
	"bytes"
	"testing"
)

func TestExportMidiPreviewRejectsVocals(t *testing.T) {
	song := &SongData{Vocals: []Vocal{{Time: 0, Note: 60, Length: 1, Lyric: "la"}}}
	if _, err := ExportMidiPreview(song, nil); err == nil {
		t.Fatal("expected an error exporting a vocals SongData")
	}
}

func TestExportMidiPreviewRejectsNoArrangements(t *testing.T) {
	song := &SongData{}
	if _, err := ExportMidiPreview(song, nil); err == nil {
		t.Fatal("expected an error exporting a SongData with no arrangements")
	}
}

func TestExportMidiPreviewProducesValidSMF(t *testing.T) {
	song := &SongData{
		BPMBeats: []BPMBeat{
			{Time: 0, Measure: 1},
			{Time: 0.5, Measure: 1},
			{Time: 1.0, Measure: 2},
		},
		Metadata: Metadata{Tuning: []int16{0, 0, 0, 0, 0, 0}},
		Arrangements: []Arrangement{
			{
				Difficulty: 0,
				Notes: []Note{
					{Time: 0, String: 0, Fret: 2, Sustain: 0.5, ChordID: -1},
					{Time: 0.75, String: 1, Fret: 0, Mask: MaskHammerOn, ChordID: -1},
				},
			},
		},
	}

	tempo := 140.0
	overlay := &ManifestOverlay{AverageTempo: &tempo}

	data, err := ExportMidiPreview(song, overlay)
	if err != nil {
		t.Fatalf("ExportMidiPreview: %v", err)
	}
	if len(data) < 14 || !bytes.HasPrefix(data, []byte("MThd")) {
		n := len(data)
		if n > 4 {
			n = 4
		}
		t.Fatalf("expected a standard MIDI file header, got %d bytes starting %q", len(data), data[:n])
	}
}

func TestMidiNoteForAppliesTuningOffset(t *testing.T) {
	song := &SongData{Metadata: Metadata{Tuning: []int16{-2, 0, 0, 0, 0, 0}}}
	note := midiNoteFor(song, 0, 0)
	if note != uint8(standardTuningOpenStringMidi[0]-2) {
		t.Fatalf("expected tuning offset applied, got %d", note)
	}
}

func TestMidiNoteForClampsToValidRange(t *testing.T) {
	song := &SongData{}
	if note := midiNoteFor(song, 0, 255); note != 127 {
		t.Fatalf("expected note clamped to 127, got %d", note)
	}
	if note := midiNoteFor(song, 5, 0); note > 127 {
		t.Fatalf("low string open note should stay in range, got %d", note)
	}
}

func TestTickTimelineExtrapolatesPastLastBeat(t *testing.T) {
	song := &SongData{BPMBeats: []BPMBeat{{Time: 0}, {Time: 1}}}
	tl := newTickTimeline(song)

	atLast := tl.ticksAt(1)
	past := tl.ticksAt(2)
	if past <= atLast {
		t.Fatalf("expected extrapolated tick past the last beat to advance, got %d <= %d", past, atLast)
	}
}

func TestProgramForPartPicksBassForLowTuning(t *testing.T) {
	song := &SongData{Metadata: Metadata{Tuning: []int16{0, 0, 0, 0, 0, -24}}}
	if got := programForPart(song); got != bassProgram {
		t.Fatalf("expected bassProgram for deeply dropped low string, got %d", got)
	}
	guitarSong := &SongData{Metadata: Metadata{Tuning: []int16{0, 0, 0, 0, 0, 0}}}
	if got := programForPart(guitarSong); got != guitarProgram {
		t.Fatalf("expected guitarProgram for standard tuning, got %d", got)
	}
}
