package main

import (
	"bytes"
	"fmt"
	"log"
	"os"
	"sort"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

// midiTicksPerQuarter is the export resolution; arbitrary but generous
// enough that fret-hand-muted 32nd notes don't collide on rounding.
const midiTicksPerQuarter = 480

// guitarProgram/bassProgram are GM program numbers (channel 0, General
// Midi Overdriven Guitar / Electric Bass (finger)), chosen by arrangement
// part rather than hardcoded per-instrument chart tracks.
const (
	guitarProgram uint8 = 29
	bassProgram   uint8 = 33
)

// standardTuningOpenStringMidi gives the open-string MIDI note for
// standard guitar tuning, string 0 (high E) through string 5 (low E);
// SongData.Metadata.Tuning offsets and the fretted note are added on top.
var standardTuningOpenStringMidi = [6]int{64, 59, 55, 50, 45, 40}

// minGateTicks is the minimum note length used for hammer-on/pull-off
// notes and any note with no declared sustain, so adjacent notes never
// render as a single held tone.
const minGateTicks = 30

// guitarNoteEvent is a single fretted-note on or off, already resolved to
// an absolute MIDI tick and key. Unlike a raw smf.Message, the on/off
// intent is a field on the event itself rather than something a reader
// has to recover by introspecting the message, which is what lets
// orderForPlayback below sort without decoding anything.
type guitarNoteEvent struct {
	tick   uint32
	key    uint8
	noteOn bool
}

// tickTimeline maps arrangement seconds to MIDI ticks off the SNG's own
// beat timeline, extrapolating past the last known beat with its final
// inter-beat spacing.
type tickTimeline struct {
	times []float32
	ticks []uint32
}

func newTickTimeline(song *SongData) *tickTimeline {
	tl := &tickTimeline{}
	for i, b := range song.BPMBeats {
		tl.times = append(tl.times, b.Time)
		tl.ticks = append(tl.ticks, uint32(i)*midiTicksPerQuarter)
	}
	if len(tl.times) == 0 {
		tl.times = []float32{0}
		tl.ticks = []uint32{0}
	}
	return tl
}

func (tl *tickTimeline) ticksAt(t float32) uint32 {
	n := len(tl.times)
	if t <= tl.times[0] {
		return tl.ticks[0]
	}
	for i := 1; i < n; i++ {
		if t <= tl.times[i] {
			span := tl.times[i] - tl.times[i-1]
			if span <= 0 {
				return tl.ticks[i-1]
			}
			frac := (t - tl.times[i-1]) / span
			return tl.ticks[i-1] + uint32(frac*float32(midiTicksPerQuarter))
		}
	}
	// past the last known beat: extrapolate with the final spacing.
	if n == 1 {
		return tl.ticks[0] + uint32((t-tl.times[0])*midiTicksPerQuarter)
	}
	lastSpanSeconds := tl.times[n-1] - tl.times[n-2]
	if lastSpanSeconds <= 0 {
		return tl.ticks[n-1]
	}
	beatsPast := (t - tl.times[n-1]) / lastSpanSeconds
	return tl.ticks[n-1] + uint32(beatsPast*float32(midiTicksPerQuarter))
}

// programForPart picks the GM instrument from the tuning alone; the
// metadata part id is not consulted. Lacking a reliable bass flag in
// SongData, arrangements whose lowest string (index 5) is tuned more than
// an octave (12 semitones) below standard are treated as bass.
func programForPart(song *SongData) uint8 {
	if len(song.Metadata.Tuning) >= 6 && song.Metadata.Tuning[5] < -12 {
		return bassProgram
	}
	return guitarProgram
}

func midiNoteFor(song *SongData, stringIdx int8, fret uint8) uint8 {
	if int(stringIdx) < 0 || int(stringIdx) >= len(standardTuningOpenStringMidi) {
		return 60
	}
	note := standardTuningOpenStringMidi[stringIdx] + int(fret)
	if int(stringIdx) < len(song.Metadata.Tuning) {
		note += int(song.Metadata.Tuning[stringIdx])
	}
	if note < 0 {
		note = 0
	}
	if note > 127 {
		note = 127
	}
	return uint8(note)
}

// noteGateTicks resolves how long a fretted note should ring: its declared
// sustain if present, clamped short for hammer-ons and pull-offs so a
// following note is never swallowed by an overlong gate, else the minimum
// gate.
func noteGateTicks(n *Note, startTick, defaultEndTick uint32) uint32 {
	endTick := defaultEndTick
	if n.Mask.Has(MaskHammerOn) || n.Mask.Has(MaskPullOff) {
		if endTick > startTick+minGateTicks {
			endTick = startTick + minGateTicks
		}
	}
	if endTick <= startTick {
		endTick = startTick + 1
	}
	return endTick
}

// arrangementEvents walks one arrangement's single and chord notes into an
// unordered stream of note on/off events, expanding chords against their
// template the same way xmlemit.go's expandChordNotes does.
func arrangementEvents(song *SongData, arr *Arrangement, tl *tickTimeline) []guitarNoteEvent {
	var events []guitarNoteEvent

	push := func(n *Note) {
		key := midiNoteFor(song, n.String, n.Fret)
		startTick := tl.ticksAt(n.Time)

		defaultEndTick := startTick + minGateTicks
		if n.Sustain > 0 {
			defaultEndTick = tl.ticksAt(n.Time + n.Sustain)
		}
		endTick := noteGateTicks(n, startTick, defaultEndTick)

		events = append(events, guitarNoteEvent{tick: startTick, key: key, noteOn: true})
		events = append(events, guitarNoteEvent{tick: endTick, key: key, noteOn: false})
	}

	for i := range arr.Notes {
		n := &arr.Notes[i]
		if n.HasChord() {
			for _, child := range expandChordNotes(song, n) {
				c := child
				push(&c)
			}
			continue
		}
		push(n)
	}

	return events
}

// orderForPlayback sorts events into MIDI write order: ascending tick, and
// at equal ticks a note-off before any note-on, so a fret released at the
// same instant a new one is fretted never sounds as a doubled note.
func orderForPlayback(events []guitarNoteEvent) {
	sort.Slice(events, func(i, j int) bool {
		if events[i].tick != events[j].tick {
			return events[i].tick < events[j].tick
		}
		return !events[i].noteOn && events[j].noteOn
	})
}

// renderTrack turns an ordered event stream into a named, General-MIDI
// track: track name, program change, then the note events as relative
// deltas, ending in an end-of-track meta event.
func renderTrack(name string, channel, program uint8, events []guitarNoteEvent) smf.Track {
	track := smf.Track{}
	track = append(track, smf.Event{Delta: 0, Message: smf.Message(smf.MetaTrackSequenceName(name))})
	track = append(track, smf.Event{Delta: 0, Message: smf.Message(midi.ProgramChange(channel, program))})

	var lastTick uint32
	for _, ev := range events {
		var msg smf.Message
		if ev.noteOn {
			msg = smf.Message(midi.NoteOn(channel, ev.key, 100))
		} else {
			msg = smf.Message(midi.NoteOff(channel, ev.key))
		}
		track = append(track, smf.Event{Delta: ev.tick - lastTick, Message: msg})
		lastTick = ev.tick
	}
	track = append(track, smf.Event{Delta: 0, Message: smf.EOT})
	return track
}

// renderTempoTrack builds the tempo/time-signature track from either the
// overlay's declared average tempo or a fixed 120 BPM fallback — the
// arrangement SNG data itself carries beat times, not a tempo map, so
// there is no "extract tempo from source MIDI" step here the way the
// teacher's chart-to-MIDI path has one.
func renderTempoTrack(averageTempo *float64) smf.Track {
	bpm := 120.0
	if averageTempo != nil && *averageTempo > 0 {
		bpm = *averageTempo
	}

	track := smf.Track{}
	track = append(track, smf.Event{Delta: 0, Message: smf.Message(smf.MetaTempo(bpm))})
	track = append(track, smf.Event{Delta: 0, Message: smf.Message(smf.MetaTimeSig(4, 4, 24, 8))})
	track = append(track, smf.Event{Delta: 0, Message: smf.Message(smf.MetaTrackSequenceName("Tempo"))})
	track = append(track, smf.Event{Delta: 0, Message: smf.EOT})
	return track
}

// ExportMidiPreview renders a scratch, one-track-per-arrangement MIDI file
// from a parsed SongData so a player can audition a CDLC arrangement in
// any DAW, without the OGG/WEM audio pipeline (spec Non-goals exclude the
// audio converter; this never touches it).
func ExportMidiPreview(song *SongData, overlay *ManifestOverlay) ([]byte, error) {
	if song.IsVocals() {
		return nil, fmt.Errorf("midi preview: song is a vocals file, not an instrumental arrangement")
	}
	if len(song.Arrangements) == 0 {
		return nil, fmt.Errorf("midi preview: no arrangements to export")
	}

	file := smf.NewSMF1()
	file.TimeFormat = smf.MetricTicks(midiTicksPerQuarter)

	var tempo *float64
	if overlay != nil {
		tempo = overlay.AverageTempo
	}
	file.Add(renderTempoTrack(tempo))

	tl := newTickTimeline(song)
	program := programForPart(song)
	tracksAdded := 0
	for i := range song.Arrangements {
		arr := &song.Arrangements[i]
		events := arrangementEvents(song, arr, tl)
		if len(events) == 0 {
			log.Printf("midi preview: skipping arrangement %d: no notes", arr.Difficulty)
			continue
		}
		orderForPlayback(events)
		name := fmt.Sprintf("Arrangement %d", arr.Difficulty)
		file.Add(renderTrack(name, 0, program, events))
		tracksAdded++
	}
	if tracksAdded == 0 {
		return nil, fmt.Errorf("midi preview: no arrangement produced any notes")
	}

	var buf bytes.Buffer
	if _, err := file.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("error writing MIDI file: %w", err)
	}
	return buf.Bytes(), nil
}

// writeMidiPreviewFile is a small convenience used by Archive.ExportMidiPreview
// to land the rendered bytes on disk.
func writeMidiPreviewFile(outPath string, data []byte) error {
	return os.WriteFile(outPath, data, 0o644)
}
