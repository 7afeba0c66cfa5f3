package main

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strconv"
)

// EmitXML produces the arrangement XML (or the simpler vocals XML) from a
// parsed SongData plus an optional manifest overlay, choosing the shape by
// SongData.vocals.empty() per spec §4.8.
func EmitXML(song *SongData, overlay *ManifestOverlay) ([]byte, error) {
	if song.IsVocals() {
		return emitVocalsXML(song)
	}
	return emitInstrumentalXML(song, overlay)
}

// kv is one XML attribute, built up conditionally by the emitter functions
// below rather than via struct tags, because most attributes here are
// present only when a technique-flag bit or sentinel check passes (spec
// §4.8) — condition logic is far more readable as plain Go `if` statements
// building a slice than as zero-value struct-tag omission.
type kv struct {
	Key, Val string
}

func a(key, val string) kv { return kv{key, val} }

// xmlW is a small indenting writer, in the same spirit as tonelib.go's
// writeScoreXML (buffer + xml.Header + manual indentation) but built around
// explicit open/close calls so that deeply conditional attribute sets don't
// have to fight struct-tag marshaling.
type xmlW struct {
	buf    bytes.Buffer
	depth  int
	stack  []string
}

func newXMLWriter() *xmlW {
	w := &xmlW{}
	w.buf.WriteString(xml.Header)
	return w
}

func (w *xmlW) indent() {
	for i := 0; i < w.depth; i++ {
		w.buf.WriteString("  ")
	}
}

func escapeAttr(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

func escapeText(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

func (w *xmlW) writeAttrs(attrs []kv) {
	for _, kv := range attrs {
		fmt.Fprintf(&w.buf, " %s=\"%s\"", kv.Key, escapeAttr(kv.Val))
	}
}

// open writes an opening tag and pushes the name onto the stack.
func (w *xmlW) open(tag string, attrs ...kv) {
	w.indent()
	w.buf.WriteString("<" + tag)
	w.writeAttrs(attrs)
	w.buf.WriteString(">\n")
	w.stack = append(w.stack, tag)
	w.depth++
}

// close pops the stack and writes the matching closing tag.
func (w *xmlW) close() {
	w.depth--
	tag := w.stack[len(w.stack)-1]
	w.stack = w.stack[:len(w.stack)-1]
	w.indent()
	w.buf.WriteString("</" + tag + ">\n")
}

// selfClose writes a complete, attribute-only leaf element.
func (w *xmlW) selfClose(tag string, attrs ...kv) {
	w.indent()
	w.buf.WriteString("<" + tag)
	w.writeAttrs(attrs)
	w.buf.WriteString("/>\n")
}

// empty writes an empty container element with no attributes, e.g. <notes/>.
func (w *xmlW) empty(tag string) {
	w.selfClose(tag)
}

// textElement writes <tag>text</tag> on one line.
func (w *xmlW) textElement(tag, text string) {
	w.indent()
	fmt.Fprintf(&w.buf, "<%s>%s</%s>\n", tag, escapeText(text), tag)
}

func fmt3(v float32) string {
	return fmt.Sprintf("%.3f", v)
}

// bendFormat is the "shortest" (non-fixed) representation spec §4.8 asks
// for on a single note's `bend` attribute.
func bendFormat(v float32) string {
	return strconv.FormatFloat(float64(v), 'f', -1, 32)
}

func boolAttr(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func intAttr(v int) string { return strconv.Itoa(v) }

// ---- vocals XML ------------------------------------------------------

func emitVocalsXML(song *SongData) ([]byte, error) {
	w := newXMLWriter()
	w.open("vocals", a("count", intAttr(len(song.Vocals))))
	for _, v := range song.Vocals {
		w.selfClose("vocal",
			a("time", fmt3(v.Time)),
			a("note", intAttr(int(v.Note))),
			a("length", fmt3(v.Length)),
			a("lyric", v.Lyric),
		)
	}
	w.close()
	return w.buf.Bytes(), nil
}

// ---- instrumental XML -------------------------------------------------

func emitInstrumentalXML(song *SongData, overlay *ManifestOverlay) ([]byte, error) {
	if overlay == nil {
		overlay = &ManifestOverlay{}
	}
	w := newXMLWriter()
	w.open("song", a("version", "8"))

	emitHeader(w, song, overlay)
	emitPhrases(w, song)
	emitPhraseIterations(w, song)
	emitNewLinkedDiffs(w, song)
	emitPhraseProperties(w, song)
	emitChordTemplates(w, song)
	emitEbeats(w, song)
	emitTones(w, overlay, song)
	emitSections(w, song)
	emitEvents(w, song)
	emitTranscriptionTrack(w)
	emitLevels(w, song)

	w.close() // song
	return w.buf.Bytes(), nil
}

func emitHeader(w *xmlW, song *SongData, overlay *ManifestOverlay) {
	m := song.Metadata

	w.textElement("title", overlay.Title)
	w.textElement("arrangement", overlay.Arrangement)
	w.textElement("part", strconv.Itoa(int(m.Part)))
	w.textElement("offset", fmt3(-m.StartTime))
	w.textElement("centOffset", fmtOptFloat(overlay.CentOffset, "0"))
	w.textElement("songLength", fmt3(m.SongLength))
	w.textElement("songNameSort", overlay.SongNameSort)
	w.textElement("startBeat", fmt3(m.StartTime))
	w.textElement("averageTempo", fmtAverageTempo(overlay.AverageTempo))

	tuningAttrs := make([]kv, 6)
	for i := 0; i < 6; i++ {
		var v int16
		if i < len(m.Tuning) {
			v = m.Tuning[i]
		}
		tuningAttrs[i] = a(fmt.Sprintf("string%d", i), intAttr(int(v)))
	}
	w.selfClose("tuning", tuningAttrs...)

	capo := int(m.CapoFretID)
	if capo < 0 {
		capo = 0
	}
	w.textElement("capo", intAttr(capo))

	w.textElement("artistName", overlay.ArtistName)
	w.textElement("artistNameSort", overlay.ArtistNameSort)
	w.textElement("albumName", overlay.AlbumName)
	w.textElement("albumNameSort", overlay.AlbumNameSort)
	w.textElement("albumYear", overlay.AlbumYear)
	w.textElement("crowdSpeed", "1")

	emitArrangementProperties(w, overlay.Properties)

	w.textElement("lastConversionDateTime", m.LastConversionDateTime)
}

func fmtOptFloat(v *float64, def string) string {
	if v == nil {
		return def
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// fmtAverageTempo picks the overlay value when present, else the fixed
// 120.0 default (spec §9 open question: this follows the overlay-or-120.0
// variant, not the first-beat-length derivation, since that can divide by
// zero).
func fmtAverageTempo(v *float64) string {
	if v == nil {
		return "120.0"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

var arrangementPropertyOrder = []struct {
	name string
	get  func(ArrangementProperties) bool
}{
	{"represent", func(p ArrangementProperties) bool { return p.Represent }},
	{"bonusArr", func(p ArrangementProperties) bool { return p.BonusArr }},
	{"standardTuning", func(p ArrangementProperties) bool { return p.StandardTuning }},
	{"nonStandardChords", func(p ArrangementProperties) bool { return p.NonStandardChords }},
	{"barreChords", func(p ArrangementProperties) bool { return p.BarreChords }},
	{"powerChords", func(p ArrangementProperties) bool { return p.PowerChords }},
	{"dropDPower", func(p ArrangementProperties) bool { return p.DropDPower }},
	{"openChords", func(p ArrangementProperties) bool { return p.OpenChords }},
	{"fingerPicking", func(p ArrangementProperties) bool { return p.FingerPicking }},
	{"pickDirection", func(p ArrangementProperties) bool { return p.PickDirection }},
	{"doubleStops", func(p ArrangementProperties) bool { return p.DoubleStops }},
	{"palmMutes", func(p ArrangementProperties) bool { return p.PalmMutes }},
	{"harmonics", func(p ArrangementProperties) bool { return p.Harmonics }},
	{"pinchHarmonics", func(p ArrangementProperties) bool { return p.PinchHarmonics }},
	{"hopo", func(p ArrangementProperties) bool { return p.Hopo }},
	{"tremolo", func(p ArrangementProperties) bool { return p.Tremolo }},
	{"slides", func(p ArrangementProperties) bool { return p.Slides }},
	{"unpitchedSlides", func(p ArrangementProperties) bool { return p.UnpitchedSlides }},
	{"bends", func(p ArrangementProperties) bool { return p.Bends }},
	{"tapping", func(p ArrangementProperties) bool { return p.Tapping }},
	{"vibrato", func(p ArrangementProperties) bool { return p.Vibrato }},
	{"fretHandMutes", func(p ArrangementProperties) bool { return p.FretHandMutes }},
	{"slapPop", func(p ArrangementProperties) bool { return p.SlapPop }},
	{"twoFingerPicking", func(p ArrangementProperties) bool { return p.TwoFingerPicking }},
	{"fifthsAndOctaves", func(p ArrangementProperties) bool { return p.FifthsAndOctaves }},
	{"syncopation", func(p ArrangementProperties) bool { return p.Syncopation }},
	{"bassPick", func(p ArrangementProperties) bool { return p.BassPick }},
	{"sustain", func(p ArrangementProperties) bool { return p.Sustain }},
	{"pathLead", func(p ArrangementProperties) bool { return p.PathLead }},
	{"pathRhythm", func(p ArrangementProperties) bool { return p.PathRhythm }},
	{"pathBass", func(p ArrangementProperties) bool { return p.PathBass }},
}

func emitArrangementProperties(w *xmlW, p ArrangementProperties) {
	attrs := make([]kv, len(arrangementPropertyOrder))
	for i, f := range arrangementPropertyOrder {
		attrs[i] = a(f.name, boolAttr(f.get(p)))
	}
	w.selfClose("arrangementProperties", attrs...)
}

func emitPhrases(w *xmlW, song *SongData) {
	w.open("phrases", a("count", intAttr(len(song.Phrases))))
	for _, p := range song.Phrases {
		w.selfClose("phrase",
			a("disparity", intAttr(int(p.Disparity))),
			a("ignore", intAttr(int(p.Ignore))),
			a("maxDifficulty", intAttr(int(p.MaxDifficulty))),
			a("name", p.Name),
			a("solo", intAttr(int(p.Solo))),
		)
	}
	w.close()
}

func emitPhraseIterations(w *xmlW, song *SongData) {
	w.open("phraseIterations", a("count", intAttr(len(song.PhraseIterations))))
	for _, pi := range song.PhraseIterations {
		hasHero := pi.Difficulty[0] > 0 || pi.Difficulty[1] > 0 || pi.Difficulty[2] > 0
		if !hasHero {
			w.selfClose("phraseIteration",
				a("time", fmt3(pi.StartTime)),
				a("phraseId", intAttr(int(pi.PhraseID))),
			)
			continue
		}
		w.open("phraseIteration",
			a("time", fmt3(pi.StartTime)),
			a("phraseId", intAttr(int(pi.PhraseID))),
		)
		w.open("heroLevels")
		for diff := 0; diff < 3; diff++ {
			if pi.Difficulty[diff] > 0 {
				w.selfClose("heroLevel",
					a("difficulty", intAttr(diff)),
					a("hero", intAttr(int(pi.Difficulty[diff]))),
				)
			}
		}
		w.close() // heroLevels
		w.close() // phraseIteration
	}
	w.close()
}

func emitNewLinkedDiffs(w *xmlW, song *SongData) {
	w.open("newLinkedDiffs", a("count", intAttr(len(song.NLinkedDifficulties))))
	for _, nld := range song.NLinkedDifficulties {
		w.open("newLinkedDiff", a("ratio", "1.000"))
		for _, id := range nld.PhraseIDs {
			w.selfClose("nld_phrase", a("id", intAttr(int(id))))
		}
		w.close()
	}
	w.close()
}

func emitPhraseProperties(w *xmlW, song *SongData) {
	w.open("phraseProperties", a("count", intAttr(len(song.PhraseExtraInfos))))
	for _, pe := range song.PhraseExtraInfos {
		w.selfClose("phraseProperty",
			a("phraseId", intAttr(int(pe.PhraseID))),
			a("difficulty", intAttr(int(pe.Difficulty))),
			a("empty", intAttr(int(pe.Empty))),
			a("levelJump", intAttr(int(pe.LevelJump))),
			a("redundant", intAttr(int(pe.Redundant))),
		)
	}
	w.close()
}

func emitChordTemplates(w *xmlW, song *SongData) {
	w.open("chordTemplates", a("count", intAttr(len(song.ChordTemplates))))
	for i, c := range song.ChordTemplates {
		attrs := []kv{
			a("chordId", intAttr(i)),
			a("displayName", c.DisplayName()),
			a("name", c.Name),
		}
		for s := 0; s < 6; s++ {
			if c.Fingers[s] != 0xFF {
				attrs = append(attrs, a(fmt.Sprintf("finger%d", s), intAttr(int(c.Fingers[s]))))
			}
		}
		for s := 0; s < 6; s++ {
			if c.Frets[s] != 0xFF {
				attrs = append(attrs, a(fmt.Sprintf("fret%d", s), intAttr(int(c.Frets[s]))))
			}
		}
		w.selfClose("chordTemplate", attrs...)
	}
	w.close()
}

func emitEbeats(w *xmlW, song *SongData) {
	w.open("ebeats", a("count", intAttr(len(song.BPMBeats))))
	for _, b := range song.BPMBeats {
		attrs := []kv{a("time", fmt3(b.Time))}
		if b.Mask&ebeatMeasureMask != 0 {
			attrs = append(attrs, a("measure", intAttr(int(b.Measure))))
		}
		w.selfClose("ebeat", attrs...)
	}
	w.close()
}

func emitTones(w *xmlW, overlay *ManifestOverlay, song *SongData) {
	if overlay.ToneBase != "" {
		w.textElement("tonebase", overlay.ToneBase)
	}
	if overlay.ToneA != "" {
		w.textElement("toneA", overlay.ToneA)
	}
	if overlay.ToneB != "" {
		w.textElement("toneB", overlay.ToneB)
	}
	if overlay.ToneC != "" {
		w.textElement("toneC", overlay.ToneC)
	}
	if overlay.ToneD != "" {
		w.textElement("toneD", overlay.ToneD)
	}

	w.open("tones", a("count", intAttr(len(song.Tones))))
	for _, t := range song.Tones {
		w.selfClose("tone", a("time", fmt3(t.Time)), a("id", intAttr(int(t.ToneID))))
	}
	w.close()
}

func emitSections(w *xmlW, song *SongData) {
	w.open("sections", a("count", intAttr(len(song.Sections))))
	for _, s := range song.Sections {
		w.selfClose("section",
			a("name", s.Name),
			a("number", intAttr(int(s.Number))),
			a("startTime", fmt3(s.StartTime)),
			a("endTime", fmt3(s.EndTime)),
		)
	}
	w.close()
}

func emitEvents(w *xmlW, song *SongData) {
	w.open("events", a("count", intAttr(len(song.Events))))
	for _, e := range song.Events {
		w.selfClose("event", a("time", fmt3(e.Time)), a("code", e.Name))
	}
	w.close()
}

func emitTranscriptionTrack(w *xmlW) {
	w.open("transcriptionTrack", a("difficulty", "-1"))
	w.empty("notes")
	w.empty("anchors")
	w.empty("handShapes")
	w.empty("events")
	w.close()
}

func emitLevels(w *xmlW, song *SongData) {
	w.open("levels", a("count", intAttr(len(song.Arrangements))))
	for _, arr := range song.Arrangements {
		emitLevel(w, song, &arr)
	}
	w.close()
}

func emitLevel(w *xmlW, song *SongData, arr *Arrangement) {
	w.open("level", a("difficulty", intAttr(int(arr.Difficulty))))

	var singles, chords []Note
	for _, n := range arr.Notes {
		if n.HasChord() {
			chords = append(chords, n)
		} else {
			singles = append(singles, n)
		}
	}

	w.open("notes", a("count", intAttr(len(singles))))
	for i := range singles {
		emitSingleNote(w, &singles[i])
	}
	w.close()

	w.open("chords", a("count", intAttr(len(chords))))
	for i := range chords {
		emitChordNote(w, song, &chords[i])
	}
	w.close()

	w.open("anchors", a("count", intAttr(len(arr.Anchors))))
	for _, anc := range arr.Anchors {
		w.selfClose("anchor",
			a("time", fmt3(anc.StartTime)),
			a("fret", intAttr(int(anc.FretID))),
			a("width", fmt3(anc.Width)),
		)
	}
	w.close()

	merged := arr.MergedHandShapes()
	w.open("handShapes", a("count", intAttr(len(merged))))
	for _, hs := range merged {
		w.selfClose("handShape",
			a("chordId", intAttr(int(hs.ChordID))),
			a("startTime", fmt3(hs.StartTime)),
			a("endTime", fmt3(hs.EndTime)),
		)
	}
	w.close()

	w.close() // level
}

func emitSingleNoteAttrs(n *Note) []kv {
	attrs := []kv{
		a("time", fmt3(n.Time)),
		a("string", intAttr(int(n.String))),
		a("fret", intAttr(int(n.Fret))),
	}
	if n.Sustain > 0 {
		attrs = append(attrs, a("sustain", fmt3(n.Sustain)))
	}
	if n.Mask.Has(MaskParent) {
		attrs = append(attrs, a("linkNext", "1"))
	}
	if n.Mask.Has(MaskAccent) {
		attrs = append(attrs, a("accent", "1"))
	}
	if len(n.BendValues) > 0 {
		attrs = append(attrs, a("bend", bendFormat(n.MaxBend)))
	}
	if n.Mask.Has(MaskHammerOn) {
		attrs = append(attrs, a("hammerOn", "1"))
	}
	if n.Mask.Has(MaskHarmonic) {
		attrs = append(attrs, a("harmonic", "1"))
	}
	if n.Mask.Has(MaskHammerOn) || n.Mask.Has(MaskPullOff) {
		attrs = append(attrs, a("hopo", "1"))
	}
	if n.Mask.Has(MaskIgnore) {
		attrs = append(attrs, a("ignore", "1"))
	}
	if n.LeftHand >= 0 {
		attrs = append(attrs, a("leftHand", intAttr(int(n.LeftHand))))
	}
	if n.Mask.Has(MaskMute) {
		attrs = append(attrs, a("mute", "1"))
	}
	if n.Mask.Has(MaskPalmMute) {
		attrs = append(attrs, a("palmMute", "1"))
	}
	if n.Mask.Has(MaskPluck) {
		attrs = append(attrs, a("pluck", "1"))
	}
	if n.Mask.Has(MaskPullOff) {
		attrs = append(attrs, a("pullOff", "1"))
	}
	if n.Mask.Has(MaskSlap) {
		attrs = append(attrs, a("slap", "1"))
	}
	if n.Mask.Has(MaskSlide) && n.SlideTo != 0xFF {
		attrs = append(attrs, a("slideTo", intAttr(int(n.SlideTo))))
	}
	if n.Mask.Has(MaskTremolo) {
		attrs = append(attrs, a("tremolo", "1"))
	}
	if n.Mask.Has(MaskPinchHarmonic) {
		attrs = append(attrs, a("harmonicPinch", "1"))
	}
	if n.PickDirection > 0 {
		attrs = append(attrs, a("pickDirection", intAttr(int(n.PickDirection))))
	}
	if n.Mask.Has(MaskRightHand) {
		attrs = append(attrs, a("rightHand", "1"))
	}
	if n.Mask.Has(MaskSlideUnpitchedTo) && n.SlideUnpitchTo != 0xFF {
		attrs = append(attrs, a("slideUnpitchTo", intAttr(int(n.SlideUnpitchTo))))
	}
	if n.Mask.Has(MaskTap) {
		attrs = append(attrs, a("tap", intAttr(maxInt(0, int(n.Tap)))))
	}
	if n.Mask.Has(MaskVibrato) && n.Vibrato > 0 {
		attrs = append(attrs, a("vibrato", intAttr(int(n.Vibrato))))
	}
	return attrs
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func emitBendValues(w *xmlW, values []BendValue) {
	if len(values) == 0 {
		return
	}
	w.open("bendValues", a("count", intAttr(len(values))))
	for _, bv := range values {
		attrs := []kv{a("time", fmt3(bv.Time))}
		if absf(bv.Step) > 1e-6 {
			attrs = append(attrs, a("step", bendFormat(bv.Step)))
		}
		w.selfClose("bendValue", attrs...)
	}
	w.close()
}

func absf(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func emitSingleNote(w *xmlW, n *Note) {
	attrs := emitSingleNoteAttrs(n)
	if len(n.BendValues) == 0 {
		w.selfClose("note", attrs...)
		return
	}
	w.open("note", attrs...)
	emitBendValues(w, n.BendValues)
	w.close()
}

func emitChordNote(w *xmlW, song *SongData, n *Note) {
	attrs := []kv{
		a("time", fmt3(n.Time)),
		a("chordId", intAttr(int(n.ChordID))),
	}
	if n.Mask.Has(MaskParent) {
		attrs = append(attrs, a("linkNext", "1"))
	}
	if n.Mask.Has(MaskAccent) {
		attrs = append(attrs, a("accent", "1"))
	}
	if n.Mask.Has(MaskFretHandMute) {
		attrs = append(attrs, a("fretHandMute", "1"))
	}
	if n.Mask.Has(MaskHighDensity) {
		attrs = append(attrs, a("highDensity", "1"))
	}
	if n.Mask.Has(MaskIgnore) {
		attrs = append(attrs, a("ignore", "1"))
	}
	if n.Mask.Has(MaskPalmMute) {
		attrs = append(attrs, a("palmMute", "1"))
	}
	if n.Mask.Has(MaskHammerOn) || n.Mask.Has(MaskPullOff) {
		attrs = append(attrs, a("hopo", "1"))
	}

	var children []Note
	if n.Mask.Has(MaskChordPanel) && int(n.ChordID) < len(song.ChordTemplates) {
		children = expandChordNotes(song, n)
	}

	if len(children) == 0 {
		w.selfClose("chord", attrs...)
		return
	}
	w.open("chord", attrs...)
	for i := range children {
		emitChordNoteChild(w, song, &children[i])
	}
	w.close()
}

// expandChordNotes builds the up-to-six <chordNote> children of a chord,
// indexed by string 0..5 against the chord template, per spec §4.8's worked
// example (mask 0x80000002, template frets [-1,0,2,2,2,-1] yields four
// children for strings 1..4).
func expandChordNotes(song *SongData, n *Note) []Note {
	tmpl := song.ChordTemplates[n.ChordID]

	var cn *ChordNotes
	if n.ChordNotesID >= 0 && int(n.ChordNotesID) < len(song.ChordNotes) {
		cn = &song.ChordNotes[n.ChordNotesID]
	}

	out := make([]Note, 0, 6)
	for s := 0; s < 6; s++ {
		if tmpl.Frets[s] == 0xFF {
			continue
		}
		child := Note{
			Time:    n.Time,
			String:  int8(s),
			Fret:    tmpl.Frets[s],
			LeftHand: -1,
		}
		if tmpl.Fingers[s] != 0xFF {
			child.LeftHand = int16(tmpl.Fingers[s])
		}
		if cn != nil {
			child.Mask = TechniqueMask(cn.Mask[s])
			child.SlideTo = byteFromInt8(cn.SlideTo[s])
			child.SlideUnpitchTo = byteFromInt8(cn.SlideUnpitchTo[s])
			child.Vibrato = cn.Vibrato[s]
			child.BendValues = cn.BendValues[s]
			if len(child.BendValues) > 0 {
				child.MaxBend = maxBendStep(child.BendValues)
			}
		}
		out = append(out, child)
	}
	return out
}

func byteFromInt8(v int8) uint8 { return uint8(v) }

func maxBendStep(values []BendValue) float32 {
	var max float32
	for _, v := range values {
		if v.Step > max {
			max = v.Step
		}
	}
	return max
}

func emitChordNoteChild(w *xmlW, song *SongData, n *Note) {
	// emitSingleNoteAttrs already covers time/string/fret/sustain/leftHand
	// plus every technique attribute; reuse it whole rather than
	// duplicating the sustain/leftHand checks here.
	attrs := emitSingleNoteAttrs(n)

	if len(n.BendValues) == 0 {
		w.selfClose("chordNote", attrs...)
		return
	}
	w.open("chordNote", attrs...)
	emitBendValues(w, n.BendValues)
	w.close()
}
