package main

import (
	"bytes"
	"encoding/binary"
	"testing"
)

// sngBufBuilder assembles a decoded SNG section stream by hand, mirroring
// the field order sngparser.go expects section by section.
type sngBufBuilder struct {
	buf bytes.Buffer
}

func (b *sngBufBuilder) u32(v uint32)   { binary.Write(&b.buf, binary.LittleEndian, v) }
func (b *sngBufBuilder) i32(v int32)    { binary.Write(&b.buf, binary.LittleEndian, v) }
func (b *sngBufBuilder) u16(v uint16)   { binary.Write(&b.buf, binary.LittleEndian, v) }
func (b *sngBufBuilder) i16(v int16)    { binary.Write(&b.buf, binary.LittleEndian, v) }
func (b *sngBufBuilder) f32(v float32)  { binary.Write(&b.buf, binary.LittleEndian, v) }
func (b *sngBufBuilder) f64(v float64)  { binary.Write(&b.buf, binary.LittleEndian, v) }
func (b *sngBufBuilder) i8(v int8)      { b.buf.WriteByte(byte(v)) }
func (b *sngBufBuilder) u8(v uint8)     { b.buf.WriteByte(v) }
func (b *sngBufBuilder) count(n int)    { b.u32(uint32(n)) }
func (b *sngBufBuilder) fixed32(s string) {
	field := make([]byte, 32)
	copy(field, s)
	b.buf.Write(field)
}
func (b *sngBufBuilder) bytes() []byte { return b.buf.Bytes() }

// note writes one Note record in the on-disk field order readNotes expects
// (spec §4.6), including the fields the in-memory Note type doesn't keep
// (secondary flags, dedup hash, anchor fret/width, phrase id/iteration id,
// fingerprint ids, next/prev/parent iteration note) so this fixture
// exercises the full ~73-byte-class record width, not just the subset the
// struct surfaces.
func (b *sngBufBuilder) note(mask uint32, t float32, str int8, fret uint8, chordID, chordNotesID int32, slideTo, slideUnpitchTo, leftHand uint8, tap, pickDirection int8, vibrato int16, sustain, maxBend float32, bends []BendValue) {
	b.u32(mask)
	b.u32(0) // secondary flags, unused
	b.u32(0) // dedup hash, unused
	b.f32(t)
	b.i8(str)
	b.u8(fret)
	b.u8(0xFF) // anchor fret id, unused
	b.u8(0)    // anchor width, unused
	b.i32(chordID)
	b.i32(chordNotesID)
	b.i8(0)  // phrase id, unused
	b.i32(0) // phrase iteration id, unused
	b.i16(0) // fingerprint id 0, unused
	b.i16(0) // fingerprint id 1, unused
	b.i16(-1) // next iteration note, unused
	b.i16(-1) // prev iteration note, unused
	b.i16(-1) // parent prev note, unused
	b.u8(slideTo)
	b.u8(slideUnpitchTo)
	b.u8(leftHand)
	b.i8(tap)
	b.i8(pickDirection)
	b.i8(0) // slap, redundant with mask
	b.i8(0) // pluck, redundant with mask
	b.i16(vibrato)
	b.f32(sustain)
	b.f32(maxBend)
	b.count(len(bends))
	for _, bv := range bends {
		b.f32(bv.Time)
		b.f32(bv.Step)
		b.i32(bv.Unk)
	}
}

// emptyMetadata writes a zero-valued Metadata section with no tuning
// entries, the minimum legal terminal section.
func (b *sngBufBuilder) emptyMetadata() {
	b.f64(0) // MaxScore
	b.f64(0) // MaxNotesAndChords
	b.f64(0) // MaxNotesAndChordsReal
	b.f64(0) // PointsPerNote
	b.f32(0) // FirstBeatLength
	b.f32(0) // StartTime
	b.i8(0)  // CapoFretID
	b.fixed32("")
	b.u16(0) // Part
	b.f32(0) // SongLength
	b.count(0) // tuning count
	b.f32(0) // FirstNoteTime
	b.f32(0) // LastNoteTime
	b.i32(0) // MaxDifficulty
}

// buildMinimalInstrumentalSng builds a complete, otherwise-empty
// instrumental SNG buffer with one Phrase and one ChordTemplate, to
// exercise both a variable-length section and the fixed32 name field.
func buildMinimalInstrumentalSng() []byte {
	var b sngBufBuilder

	b.count(0) // BPMBeats

	b.count(1) // Phrases
	b.i8(1)    // Solo
	b.i8(0)    // Disparity
	b.i8(0)    // Ignore
	b.u8(0)    // padding
	b.i32(3)   // MaxDifficulty
	b.i32(-1)  // PhraseIterationLinks
	b.fixed32("riff")

	b.count(1) // ChordTemplates
	b.u32(1)   // Mask (arpeggio suffix)
	for i := 0; i < 6; i++ {
		b.u8(0xFF)
	} // Frets: all absent
	for i := 0; i < 6; i++ {
		b.u8(0xFF)
	} // Fingers: all absent
	for i := 0; i < 6; i++ {
		b.i32(-1)
	} // Notes
	b.fixed32("Em")

	b.count(0) // ChordNotes
	b.count(0) // Vocals (no vocals, symbol sections skipped)
	b.count(0) // PhraseIterations
	b.count(0) // PhraseExtraInfos
	b.count(0) // NLinkedDifficulties
	b.count(0) // Actions
	b.count(0) // Events
	b.count(0) // Tones
	b.count(0) // DNAs
	b.count(0) // Sections
	b.count(0) // Arrangements

	b.emptyMetadata()

	return b.bytes()
}

func TestParseSngMinimalInstrumental(t *testing.T) {
	song, err := ParseSng(buildMinimalInstrumentalSng())
	if err != nil {
		t.Fatalf("ParseSng: %v", err)
	}

	if song.IsVocals() {
		t.Error("expected IsVocals() false with no vocal entries")
	}

	if len(song.Phrases) != 1 {
		t.Fatalf("expected 1 phrase, got %d", len(song.Phrases))
	}
	p := song.Phrases[0]
	if p.Name != "riff" {
		t.Errorf("Phrase.Name: got %q, want %q", p.Name, "riff")
	}
	if p.MaxDifficulty != 3 {
		t.Errorf("Phrase.MaxDifficulty: got %d, want 3", p.MaxDifficulty)
	}

	if len(song.ChordTemplates) != 1 {
		t.Fatalf("expected 1 chord template, got %d", len(song.ChordTemplates))
	}
	ct := song.ChordTemplates[0]
	if ct.DisplayName() != "Em-arp" {
		t.Errorf("ChordTemplate.DisplayName(): got %q, want %q", ct.DisplayName(), "Em-arp")
	}
}

func TestParseSngTrailingBytes(t *testing.T) {
	data := buildMinimalInstrumentalSng()
	data = append(data, 0x00)

	_, err := ParseSng(data)
	if err == nil {
		t.Fatal("expected an error for a buffer with one trailing byte")
	}
	tb, ok := err.(*TrailingBytes)
	if !ok {
		t.Fatalf("expected *TrailingBytes, got %T (%v)", err, err)
	}
	if tb.Remaining != 1 {
		t.Errorf("TrailingBytes.Remaining: got %d, want 1", tb.Remaining)
	}
}

func TestParseSngTruncatedBufferFails(t *testing.T) {
	data := buildMinimalInstrumentalSng()
	_, err := ParseSng(data[:len(data)-1])
	if err == nil {
		t.Fatal("expected an error for a buffer missing its final byte")
	}
}

func TestParseSngVocalsTriggersSymbolSections(t *testing.T) {
	var b sngBufBuilder
	b.count(0) // BPMBeats
	b.count(0) // Phrases
	b.count(0) // ChordTemplates
	b.count(0) // ChordNotes

	b.count(1) // Vocals
	b.f32(1.5) // Time
	b.i32(60)  // Note
	b.f32(0.5) // Length
	lyric := make([]byte, vocalLyricFieldSize)
	copy(lyric, "la")
	b.buf.Write(lyric)

	b.count(0) // SymbolHeaders
	b.count(0) // SymbolTextures
	b.count(0) // SymbolDefinitions

	b.count(0) // PhraseIterations
	b.count(0) // PhraseExtraInfos
	b.count(0) // NLinkedDifficulties
	b.count(0) // Actions
	b.count(0) // Events
	b.count(0) // Tones
	b.count(0) // DNAs
	b.count(0) // Sections
	b.count(0) // Arrangements
	b.emptyMetadata()

	song, err := ParseSng(b.bytes())
	if err != nil {
		t.Fatalf("ParseSng: %v", err)
	}
	if !song.IsVocals() {
		t.Fatal("expected IsVocals() true with one vocal entry")
	}
	if song.Vocals[0].Lyric != "la" {
		t.Errorf("Vocal.Lyric: got %q, want %q", song.Vocals[0].Lyric, "la")
	}
}

func TestChordTemplateDisplayNameSuffixes(t *testing.T) {
	cases := []struct {
		mask uint32
		want string
	}{
		{0, "Em"},
		{1, "Em-arp"},
		{2, "Em-nop"},
		{3, "Em"},
	}
	for _, c := range cases {
		ct := ChordTemplate{Mask: c.mask, Name: "Em"}
		if got := ct.DisplayName(); got != c.want {
			t.Errorf("DisplayName() with mask %d: got %q, want %q", c.mask, got, c.want)
		}
	}
}

func TestNoteHasChord(t *testing.T) {
	cases := []struct {
		chordID int32
		mask    TechniqueMask
		want    bool
	}{
		{0, MaskChord, true},
		{-1, MaskChord, false},
		{0, 0, false},
	}
	for _, c := range cases {
		n := Note{ChordID: c.chordID, Mask: c.mask}
		if got := n.HasChord(); got != c.want {
			t.Errorf("HasChord() with ChordID=%d Mask=%#x: got %v, want %v", c.chordID, uint32(c.mask), got, c.want)
		}
	}
}

// TestParseSngArrangementWithNotes builds a non-empty Arrangement (one
// anchor, one anchor extension, one handshape and one arpeggio
// fingerprint, and two notes — one of them bearing a bend) so readNotes,
// readAnchors, readAnchorExtensions and readFingerprints all actually run,
// and confirms the terminal "consumed exactly the whole buffer" invariant
// still holds against the ~73-byte-class Note record width (see DESIGN.md's
// Open Question resolution for the field accounting).
func TestParseSngArrangementWithNotes(t *testing.T) {
	var b sngBufBuilder
	b.count(0) // BPMBeats
	b.count(0) // Phrases
	b.count(0) // ChordTemplates
	b.count(0) // ChordNotes
	b.count(0) // Vocals
	b.count(0) // PhraseIterations
	b.count(0) // PhraseExtraInfos
	b.count(0) // NLinkedDifficulties
	b.count(0) // Actions
	b.count(0) // Events
	b.count(0) // Tones
	b.count(0) // DNAs
	b.count(0) // Sections

	b.count(1) // Arrangements
	b.i32(0)   // Difficulty

	b.count(1) // Anchors
	b.f32(0)   // StartTime
	b.f32(1.5) // EndTime
	b.f32(4)   // Width
	b.u8(2)    // FretID

	b.count(1) // AnchorExtensions
	b.f32(0.5) // BeatTime
	b.u8(2)    // FretID

	b.count(1) // HandshapeFingerprints
	b.i32(0)   // ChordID
	b.f32(0)   // StartTime
	b.f32(1.5) // EndTime
	b.f32(0)   // FirstNoteTime
	b.f32(1.5) // LastNoteTime

	b.count(0) // ArpeggioFingerprints

	b.count(2) // Notes
	b.note(MaskHammerOn, 0, 0, 2, -1, -1, 0, 0, 0, 0, 0, 0, 0.5, 0, nil)
	b.note(MaskBend, 0.75, 1, 5, -1, -1, 0, 0, 0, 0, 0, 0, 0.25, 1.0,
		[]BendValue{{Time: 0.8, Step: 1.0, Unk: 0}})

	b.count(0) // AverageNotesPerIteration
	b.count(0) // NotesInIterationA
	b.count(0) // NotesInIterationB

	b.emptyMetadata()

	song, err := ParseSng(b.bytes())
	if err != nil {
		t.Fatalf("ParseSng: %v", err)
	}
	if len(song.Arrangements) != 1 {
		t.Fatalf("expected 1 arrangement, got %d", len(song.Arrangements))
	}
	arr := song.Arrangements[0]

	if len(arr.Anchors) != 1 || arr.Anchors[0].FretID != 2 {
		t.Fatalf("unexpected anchors: %+v", arr.Anchors)
	}
	if len(arr.AnchorExtensions) != 1 || arr.AnchorExtensions[0].BeatTime != 0.5 {
		t.Fatalf("unexpected anchor extensions: %+v", arr.AnchorExtensions)
	}
	if len(arr.HandshapeFingerprints) != 1 || arr.HandshapeFingerprints[0].LastNoteTime != 1.5 {
		t.Fatalf("unexpected handshape fingerprints: %+v", arr.HandshapeFingerprints)
	}

	if len(arr.Notes) != 2 {
		t.Fatalf("expected 2 notes, got %d", len(arr.Notes))
	}
	n0, n1 := arr.Notes[0], arr.Notes[1]
	if n0.Fret != 2 || n0.Sustain != 0.5 {
		t.Errorf("Notes[0]: got Fret=%d Sustain=%v, want Fret=2 Sustain=0.5", n0.Fret, n0.Sustain)
	}
	if n1.String != 1 || n1.Fret != 5 || n1.MaxBend != 1.0 {
		t.Errorf("Notes[1]: got String=%d Fret=%d MaxBend=%v, want String=1 Fret=5 MaxBend=1.0", n1.String, n1.Fret, n1.MaxBend)
	}
	if len(n1.BendValues) != 1 || n1.BendValues[0].Time != 0.8 || n1.BendValues[0].Step != 1.0 {
		t.Fatalf("unexpected bend values on Notes[1]: %+v", n1.BendValues)
	}
}

func TestArrangementMergedHandShapesSortedStable(t *testing.T) {
	arr := &Arrangement{
		HandshapeFingerprints: []Fingerprint{
			{ChordID: 1, StartTime: 5},
			{ChordID: 2, StartTime: 1},
		},
		ArpeggioFingerprints: []Fingerprint{
			{ChordID: 3, StartTime: 1},
		},
	}

	merged := arr.MergedHandShapes()
	if len(merged) != 3 {
		t.Fatalf("expected 3 merged hand shapes, got %d", len(merged))
	}
	if merged[0].StartTime != 1 || merged[1].StartTime != 1 {
		t.Fatalf("expected the two StartTime==1 entries first, got %+v", merged)
	}
	// stable: handshape's ChordID 2 (inserted first) precedes arpeggio's ChordID 3.
	if merged[0].ChordID != 2 || merged[1].ChordID != 3 {
		t.Errorf("expected stable tie-break by insertion order, got ChordIDs %d, %d", merged[0].ChordID, merged[1].ChordID)
	}
	if merged[2].ChordID != 1 {
		t.Errorf("expected the StartTime==5 entry last, got ChordID %d", merged[2].ChordID)
	}
}
