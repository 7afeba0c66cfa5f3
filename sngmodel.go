package main

// SongData is the fully decoded, in-memory form of one SNG arrangement or
// vocals file (spec §3). It is produced fresh by ParseSng for every call and
// is never cached across requests — the caller owns it.
type SongData struct {
	BPMBeats         []BPMBeat
	Phrases          []Phrase
	ChordTemplates   []ChordTemplate
	ChordNotes       []ChordNotes
	Vocals           []Vocal
	SymbolHeaders    []SymbolHeader
	SymbolTextures   []SymbolTexture
	SymbolDefinitions []SymbolDefinition
	PhraseIterations []PhraseIteration
	PhraseExtraInfos []PhraseExtraInfo
	NLinkedDifficulties []NLinkedDifficulty
	Actions          []Action
	Events           []Event
	Tones            []Tone
	DNAs             []DNA
	Sections         []Section
	Arrangements     []Arrangement
	Metadata         Metadata
}

// IsVocals reports whether this SongData represents a vocals file rather
// than an instrumental arrangement (spec §4.8: vocals XML is chosen
// whenever SongData.vocals is non-empty).
func (s *SongData) IsVocals() bool { return len(s.Vocals) > 0 }

// BPMBeat is one entry of the BPM/beat timeline.
type BPMBeat struct {
	Time            float32
	Measure         int32
	Beat            int32
	PhraseIteration int32
	Mask            int32
}

const ebeatMeasureMask int32 = 0x01

// Phrase is one named difficulty-gated phrase definition.
type Phrase struct {
	Solo                 int8
	Disparity            int8
	Ignore               int8
	MaxDifficulty        int32
	PhraseIterationLinks int32
	Name                 string
}

// ChordTemplate is a chord shape: per-string fret/finger/note, plus a name
// used for display and for deriving the "-arp"/"-nop" suffix (spec §4.8).
type ChordTemplate struct {
	Mask    uint32
	Frets   [6]uint8 // 0xFF == absent
	Fingers [6]uint8 // 0xFF == absent
	Notes   [6]int32
	Name    string
}

// DisplayName appends "-arp" for mask 1, "-nop" for mask 2, per spec §4.8.
func (c *ChordTemplate) DisplayName() string {
	switch c.Mask {
	case 1:
		return c.Name + "-arp"
	case 2:
		return c.Name + "-nop"
	default:
		return c.Name
	}
}

// BendValue is one bend keyframe: a time and a step amount (in whole steps).
type BendValue struct {
	Time float32
	Step float32
	Unk  int32
}

// ChordNotes carries the per-string technique mask and bend data backing a
// chord-note reference on a Note (spec §4.6 "ChordNotes").
type ChordNotes struct {
	Mask            [6]uint32
	BendValues      [6][]BendValue
	SlideTo         [6]int8
	SlideUnpitchTo  [6]int8
	Vibrato         [6]int16
}

// Vocal is a single lyric event (spec §4.8 "Vocals XML").
type Vocal struct {
	Time   float32
	Note   int32
	Length float32
	Lyric  string
}

// SymbolHeader, SymbolTexture, and SymbolDefinition back the lyric glyph
// rendering used by the vocals pipeline; present only when Vocals is
// non-empty (spec §3).
type SymbolHeader struct {
	Unk1, Unk2, Unk3, Unk4 int32
}

type SymbolTexture struct {
	Font                     string
	FontPathLength           int32
	Width, Height            int32
	CharWidth, CharHeight    float32
}

type SymbolDefinition struct {
	Symbol               string
	Outer, Inner          [4]float32
}

// PhraseIteration is one occurrence of a Phrase in the timeline, carrying
// the per-difficulty-level "hero levels" used by the XML's heroLevels block.
type PhraseIteration struct {
	PhraseID       int32
	StartTime      float32
	NextPhraseTime float32
	Difficulty     [3]int32
}

// PhraseExtraInfo carries additional per-phrase-iteration difficulty data.
type PhraseExtraInfo struct {
	PhraseID   int32
	Difficulty int32
	Empty      int32
	LevelJump  int8
	Redundant  int16
}

// NLinkedDifficulty groups phrase ids that share a difficulty level break.
type NLinkedDifficulty struct {
	LevelBreak int32
	PhraseIDs  []int32
}

// Action is a timed scripted action (e.g. a crowd or camera cue).
type Action struct {
	Time float32
	Name string
}

// Event is a timed named event (section starts, applause cues, etc).
type Event struct {
	Time float32
	Name string
}

// Tone is a tone-change marker.
type Tone struct {
	Time   float32
	ToneID int32
}

// DNA is a riff-repeater density marker.
type DNA struct {
	Time  float32
	DnaID int32
}

// Section is one named arrangement section (e.g. "Verse 1").
type Section struct {
	Name      string
	Number    int32
	StartTime float32
	EndTime   float32
}

// Anchor is a fret-hand position marker.
type Anchor struct {
	StartTime float32
	EndTime   float32
	Width     float32
	FretID    uint8
}

// AnchorExtension is a secondary fret-hand position marker within an anchor's span.
type AnchorExtension struct {
	BeatTime float32
	FretID   uint8
}

// Fingerprint is a chord-shape time span; handshape and arpeggio
// fingerprints share this shape and differ only in provenance (spec §4.8,
// §9 "merging two heterogeneous streams").
type Fingerprint struct {
	ChordID       int32
	StartTime     float32
	EndTime       float32
	FirstNoteTime float32
	LastNoteTime  float32
}

// Note is one fretted event: either a single note, or (when ChordID >= 0 and
// the CHORD bit is set) a chord reference (spec §4.8 "Level emission").
type Note struct {
	Time            float32
	String          int8
	Fret            uint8
	Sustain         float32
	Mask            TechniqueMask
	MaxBend         float32
	BendValues      []BendValue
	SlideTo         uint8 // 0xFF == absent
	SlideUnpitchTo  uint8 // 0xFF == absent
	LeftHand        int16 // -1 == absent
	Tap             int8
	PickDirection   int8
	Vibrato         int16
	ChordID         int32 // -1 == not a chord
	ChordNotesID    int32 // -1 == no per-string bend data
}

// HasChord reports whether this note is a chord reference per spec §4.8:
// "has chord id and CHORD bit set".
func (n *Note) HasChord() bool {
	return n.ChordID >= 0 && n.Mask.Has(MaskChord)
}

// ArrangementStats holds the three parallel per-iteration statistics arrays,
// each independently length-prefixed (spec §3).
type ArrangementStats struct {
	AverageNotesPerIteration []float32
	NotesInIterationA        []int32
	NotesInIterationB        []int32
}

// Arrangement is one difficulty's worth of chart data.
type Arrangement struct {
	Difficulty            int32
	Anchors               []Anchor
	AnchorExtensions       []AnchorExtension
	HandshapeFingerprints  []Fingerprint
	ArpeggioFingerprints   []Fingerprint
	Notes                 []Note
	Stats                  ArrangementStats
}

// HandShape is the merged, time-sorted view over handshape and arpeggio
// fingerprints emitted as <handShape> (spec §4.8).
type HandShape struct {
	ChordID   int32
	StartTime float32
	EndTime   float32
}

// MergedHandShapes merges the arrangement's handshape and arpeggio
// fingerprint streams and sorts by StartTime ascending, stable with respect
// to insertion order among ties (spec §4.8).
func (a *Arrangement) MergedHandShapes() []HandShape {
	out := make([]HandShape, 0, len(a.HandshapeFingerprints)+len(a.ArpeggioFingerprints))
	for _, f := range a.HandshapeFingerprints {
		out = append(out, HandShape{ChordID: f.ChordID, StartTime: f.StartTime, EndTime: f.EndTime})
	}
	for _, f := range a.ArpeggioFingerprints {
		out = append(out, HandShape{ChordID: f.ChordID, StartTime: f.StartTime, EndTime: f.EndTime})
	}
	stableSortByStartTime(out)
	return out
}

func stableSortByStartTime(hs []HandShape) {
	// Simple stable insertion sort: the inputs are small (a handful of
	// chord spans per arrangement), and stability with respect to
	// insertion order among ties is part of the contract (spec §4.8).
	for i := 1; i < len(hs); i++ {
		v := hs[i]
		j := i - 1
		for j >= 0 && hs[j].StartTime > v.StartTime {
			hs[j+1] = hs[j]
			j--
		}
		hs[j+1] = v
	}
}

// Metadata is the terminal SNG section (spec §4.6).
type Metadata struct {
	MaxScore              float64
	MaxNotesAndChords     float64
	MaxNotesAndChordsReal float64
	PointsPerNote         float64
	FirstBeatLength       float32
	StartTime             float32
	CapoFretID            int8
	LastConversionDateTime string
	Part                  uint16
	SongLength            float32
	Tuning                []int16
	FirstNoteTime         float32
	LastNoteTime          float32
	MaxDifficulty         int32
}
