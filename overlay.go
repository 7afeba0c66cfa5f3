package main

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// ArrangementProperties mirrors the ~31 boolean-as-int flags nested under a
// manifest's Attributes.ArrangementProperties (spec §3). Every field is
// independently optional and defaults to false.
type ArrangementProperties struct {
	Represent         bool
	BonusArr          bool
	StandardTuning    bool
	NonStandardChords bool
	BarreChords       bool
	PowerChords       bool
	DropDPower        bool
	OpenChords        bool
	FingerPicking     bool
	PickDirection     bool
	DoubleStops       bool
	PalmMutes         bool
	Harmonics         bool
	PinchHarmonics    bool
	Hopo              bool
	Tremolo           bool
	Slides            bool
	UnpitchedSlides   bool
	Bends             bool
	Tapping           bool
	Vibrato           bool
	FretHandMutes     bool
	SlapPop           bool
	TwoFingerPicking  bool
	FifthsAndOctaves  bool
	Syncopation       bool
	BassPick          bool
	Sustain           bool
	PathLead          bool
	PathRhythm        bool
	PathBass          bool
}

// ManifestOverlay is the optional song-level metadata harvested from a JSON
// attribute bag (spec §4.7). Every field is independently optional.
type ManifestOverlay struct {
	Title          string
	Arrangement    string
	ArtistName     string
	ArtistNameSort string
	AlbumName      string
	AlbumNameSort  string
	SongNameSort   string
	AlbumYear      string
	CentOffset     *float64
	AverageTempo   *float64
	ToneBase       string
	ToneA          string
	ToneB          string
	ToneC          string
	ToneD          string
	Properties     ArrangementProperties
}

// ParseManifestOverlay implements spec §4.7's contract: given a UTF-8 JSON
// text (possibly with a BOM), resolve root.Entries (or "entries"), take one
// sub-object, read its Attributes, and harvest known keys under
// either PascalCase or camelCase (first match wins). Any missing or
// wrong-typed field is left at its zero value rather than erroring.
// Entries is decoded into a Go map, so JSON order is not kept: when it
// holds several sub-objects, which one is used is not defined.
func ParseManifestOverlay(data []byte) (*ManifestOverlay, error) {
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})

	var root map[string]interface{}
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, err
	}

	entriesRaw, ok := lookupCI(root, "Entries")
	if !ok {
		return &ManifestOverlay{}, nil
	}
	entries, ok := entriesRaw.(map[string]interface{})
	if !ok || len(entries) == 0 {
		return &ManifestOverlay{}, nil
	}

	var first map[string]interface{}
	for _, v := range entries {
		if m, ok := v.(map[string]interface{}); ok {
			first = m
			break
		}
	}
	if first == nil {
		return &ManifestOverlay{}, nil
	}

	attrsRaw, ok := lookupCI(first, "Attributes")
	if !ok {
		return &ManifestOverlay{}, nil
	}
	attrs, ok := attrsRaw.(map[string]interface{})
	if !ok {
		return &ManifestOverlay{}, nil
	}

	overlay := &ManifestOverlay{
		Title:          getString(attrs, "SongName", "songName"),
		Arrangement:    getString(attrs, "Arrangement", "arrangement"),
		ArtistName:     getString(attrs, "ArtistName", "artistName"),
		ArtistNameSort: getString(attrs, "ArtistNameSort", "artistNameSort"),
		AlbumName:      getString(attrs, "AlbumName", "albumName"),
		AlbumNameSort:  getString(attrs, "AlbumNameSort", "albumNameSort"),
		SongNameSort:   getString(attrs, "SongNameSort", "songNameSort"),
		AlbumYear:      getString(attrs, "AlbumYear", "albumYear"),
		CentOffset:     getFloatPtr(attrs, "CentOffset", "centOffset"),
		AverageTempo:   getFloatPtr(attrs, "SongAverageTempo", "songAverageTempo"),
		ToneBase:       getString(attrs, "Tone_Base", "tone_Base"),
		ToneA:          getString(attrs, "Tone_A", "tone_A"),
		ToneB:          getString(attrs, "Tone_B", "tone_B"),
		ToneC:          getString(attrs, "Tone_C", "tone_C"),
		ToneD:          getString(attrs, "Tone_D", "tone_D"),
	}

	if apRaw, ok := lookupCI(attrs, "ArrangementProperties"); ok {
		if ap, ok := apRaw.(map[string]interface{}); ok {
			overlay.Properties = harvestArrangementProperties(ap)
		}
	}

	return overlay, nil
}

func harvestArrangementProperties(ap map[string]interface{}) ArrangementProperties {
	b := func(pascal string) bool { return getBool(ap, pascal, lowerFirst(pascal)) }
	return ArrangementProperties{
		Represent:         b("Represent"),
		BonusArr:          b("BonusArr"),
		StandardTuning:    b("StandardTuning"),
		NonStandardChords: b("NonStandardChords"),
		BarreChords:       b("BarreChords"),
		PowerChords:       b("PowerChords"),
		DropDPower:        b("DropDPower"),
		OpenChords:        b("OpenChords"),
		FingerPicking:     b("FingerPicking"),
		PickDirection:     b("PickDirection"),
		DoubleStops:       b("DoubleStops"),
		PalmMutes:         b("PalmMutes"),
		Harmonics:         b("Harmonics"),
		PinchHarmonics:    b("PinchHarmonics"),
		Hopo:              b("Hopo"),
		Tremolo:           b("Tremolo"),
		Slides:            b("Slides"),
		UnpitchedSlides:   b("UnpitchedSlides"),
		Bends:             b("Bends"),
		Tapping:           b("Tapping"),
		Vibrato:           b("Vibrato"),
		FretHandMutes:     b("FretHandMutes"),
		SlapPop:           b("SlapPop"),
		TwoFingerPicking:  b("TwoFingerPicking"),
		FifthsAndOctaves:  b("FifthsAndOctaves"),
		Syncopation:       b("Syncopation"),
		BassPick:          b("BassPick"),
		Sustain:           b("Sustain"),
		PathLead:          b("PathLead"),
		PathRhythm:        b("PathRhythm"),
		PathBass:          b("PathBass"),
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

// lookupCI looks up a key case-insensitively (spec §4.7's "entries"/
// "Entries" alternate).
func lookupCI(m map[string]interface{}, key string) (interface{}, bool) {
	if v, ok := m[key]; ok {
		return v, true
	}
	lower := strings.ToLower(key)
	for k, v := range m {
		if strings.ToLower(k) == lower {
			return v, true
		}
	}
	return nil, false
}

func getString(m map[string]interface{}, keys ...string) string {
	for _, k := range keys {
		if v, ok := lookupCI(m, k); ok {
			if s, ok := v.(string); ok {
				return s
			}
		}
	}
	return ""
}

func getFloatPtr(m map[string]interface{}, keys ...string) *float64 {
	for _, k := range keys {
		if v, ok := lookupCI(m, k); ok {
			switch n := v.(type) {
			case float64:
				return &n
			case string:
				// some manifests encode numeric fields as strings.
				if f, err := strconv.ParseFloat(n, 64); err == nil {
					return &f
				}
			}
		}
	}
	return nil
}

func getBool(m map[string]interface{}, keys ...string) bool {
	for _, k := range keys {
		if v, ok := lookupCI(m, k); ok {
			switch b := v.(type) {
			case bool:
				return b
			case float64:
				return b != 0
			case string:
				return b == "1" || strings.EqualFold(b, "true")
			}
		}
	}
	return false
}
