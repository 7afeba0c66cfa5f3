package main

import "testing"

const sampleManifestJSON = `{
  "Entries": {
    "1234567890": {
      "Attributes": {
        "SongName": "Test Song",
        "ArtistName": "Test Artist",
        "AlbumYear": "2024",
        "SongAverageTempo": 142.5,
        "CentOffset": "-3.2",
        "Tone_Base": "Lead Tone",
        "ArrangementProperties": {
          "BarreChords": 1,
          "PowerChords": true,
          "OpenChords": "true",
          "PathBass": 0
        }
      }
    }
  }
}`

func TestParseManifestOverlayHappyPath(t *testing.T) {
	overlay, err := ParseManifestOverlay([]byte(sampleManifestJSON))
	if err != nil {
		t.Fatalf("ParseManifestOverlay: %v", err)
	}

	if overlay.Title != "Test Song" {
		t.Errorf("Title: got %q, want %q", overlay.Title, "Test Song")
	}
	if overlay.ArtistName != "Test Artist" {
		t.Errorf("ArtistName: got %q, want %q", overlay.ArtistName, "Test Artist")
	}
	if overlay.ToneBase != "Lead Tone" {
		t.Errorf("ToneBase: got %q, want %q", overlay.ToneBase, "Lead Tone")
	}

	if overlay.AverageTempo == nil || *overlay.AverageTempo != 142.5 {
		t.Errorf("AverageTempo: got %v, want 142.5", overlay.AverageTempo)
	}

	// CentOffset is encoded as a numeric string; getFloatPtr must parse it.
	if overlay.CentOffset == nil || *overlay.CentOffset != -3.2 {
		t.Errorf("CentOffset: got %v, want -3.2", overlay.CentOffset)
	}

	if !overlay.Properties.BarreChords {
		t.Error("Properties.BarreChords: expected true from numeric 1")
	}
	if !overlay.Properties.PowerChords {
		t.Error("Properties.PowerChords: expected true from bool true")
	}
	if !overlay.Properties.OpenChords {
		t.Error("Properties.OpenChords: expected true from string \"true\"")
	}
	if overlay.Properties.PathBass {
		t.Error("Properties.PathBass: expected false from numeric 0")
	}
}

func TestParseManifestOverlayStripsBOM(t *testing.T) {
	withBOM := append([]byte{0xEF, 0xBB, 0xBF}, []byte(sampleManifestJSON)...)
	overlay, err := ParseManifestOverlay(withBOM)
	if err != nil {
		t.Fatalf("ParseManifestOverlay with BOM: %v", err)
	}
	if overlay.Title != "Test Song" {
		t.Errorf("Title: got %q, want %q", overlay.Title, "Test Song")
	}
}

func TestParseManifestOverlayLowerCaseEntries(t *testing.T) {
	data := `{"entries": {"x": {"attributes": {"songName": "Lower Case Song"}}}}`
	overlay, err := ParseManifestOverlay([]byte(data))
	if err != nil {
		t.Fatalf("ParseManifestOverlay: %v", err)
	}
	if overlay.Title != "Lower Case Song" {
		t.Errorf("Title: got %q, want %q", overlay.Title, "Lower Case Song")
	}
}

func TestParseManifestOverlayMissingEntriesReturnsZeroValue(t *testing.T) {
	overlay, err := ParseManifestOverlay([]byte(`{}`))
	if err != nil {
		t.Fatalf("ParseManifestOverlay: %v", err)
	}
	if overlay.Title != "" || overlay.AverageTempo != nil {
		t.Errorf("expected a zero-value overlay, got %+v", overlay)
	}
}

func TestParseManifestOverlayInvalidJSON(t *testing.T) {
	if _, err := ParseManifestOverlay([]byte(`not json`)); err == nil {
		t.Error("expected an error for invalid JSON")
	}
}

func TestGetBoolVariants(t *testing.T) {
	m := map[string]interface{}{
		"A": true,
		"B": float64(0),
		"C": "TRUE",
		"D": "0",
	}
	cases := []struct {
		key  string
		want bool
	}{
		{"A", true},
		{"B", false},
		{"C", true},
		{"D", false},
		{"Missing", false},
	}
	for _, c := range cases {
		if got := getBool(m, c.key); got != c.want {
			t.Errorf("getBool(%q): got %v, want %v", c.key, got, c.want)
		}
	}
}
