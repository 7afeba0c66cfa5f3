package main

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
)

// Archive is the public facade over a PSARC container: open/close, entry
// enumeration, extraction, and the two conversion pipelines (spec §4.9).
// It owns exactly one file handle and is not safe for concurrent mutation
// (spec §5); the mutex below guards extract calls against each other while
// still allowing concurrent read-only queries against the immutable tables.
type Archive struct {
	mu     sync.Mutex
	path   string
	reader *ContainerReader
}

// Open parses header, TOC, and names eagerly. It is idempotent: calling
// Open again on an already-open Archive is a no-op.
func (a *Archive) Open(path string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.reader != nil {
		return nil
	}

	r, err := openContainer(path)
	if err != nil {
		return err
	}
	a.path = path
	a.reader = r
	return nil
}

// Close releases the file handle and clears all tables. It is idempotent.
func (a *Archive) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.reader == nil {
		return nil
	}
	err := a.reader.close()
	a.reader = nil
	return err
}

func (a *Archive) requireOpen() error {
	if a.reader == nil {
		return fmt.Errorf("archive is not open")
	}
	return nil
}

// FileList returns every entry's name in TOC order, including the synthetic
// "NamesBlock.bin" entry 0.
func (a *Archive) FileList() []string {
	if a.reader == nil {
		return nil
	}
	out := make([]string, len(a.reader.entries))
	for i, e := range a.reader.entries {
		out[i] = e.Name
	}
	return out
}

func (a *Archive) FileCount() int {
	if a.reader == nil {
		return 0
	}
	return len(a.reader.entries)
}

func (a *Archive) FileExists(name string) bool {
	if a.reader == nil {
		return false
	}
	return a.reader.indexOfName(name) >= 0
}

// Entry returns the FileEntry at a given index.
func (a *Archive) Entry(index int) (FileEntry, error) {
	if err := a.requireOpen(); err != nil {
		return FileEntry{}, err
	}
	if index < 0 || index >= len(a.reader.entries) {
		return FileEntry{}, fmt.Errorf("entry index %d out of range", index)
	}
	return a.reader.entries[index], nil
}

// EntryByName returns the FileEntry with the given name.
func (a *Archive) EntryByName(name string) (FileEntry, error) {
	if err := a.requireOpen(); err != nil {
		return FileEntry{}, err
	}
	i := a.reader.indexOfName(name)
	if i < 0 {
		return FileEntry{}, fmt.Errorf("no such entry: %q", name)
	}
	return a.reader.entries[i], nil
}

// Stat is a convenience wrapper over EntryByName; see SPEC_FULL.md
// "Supplemented features" for why this is exposed alongside Entry.
func (a *Archive) Stat(name string) (FileEntry, error) {
	return a.EntryByName(name)
}

// ExtractFile returns the bytes of a single named entry.
func (a *Archive) ExtractFile(name string) ([]byte, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.requireOpen(); err != nil {
		return nil, err
	}
	i := a.reader.indexOfName(name)
	if i < 0 {
		return nil, fmt.Errorf("no such entry: %q", name)
	}
	return a.reader.ExtractByIndex(i)
}

// ExtractFileTo extracts a single named entry directly to outPath.
func (a *Archive) ExtractFileTo(name, outPath string) error {
	data, err := a.ExtractFile(name)
	if err != nil {
		return err
	}
	return writeFileCreatingDirs(outPath, data)
}

// ExtractAll extracts every entry into dir, in TOC order, aggregating
// per-entry failures rather than aborting.
func (a *Archive) ExtractAll(dir string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.requireOpen(); err != nil {
		return err
	}
	return a.reader.ExtractAll(dir)
}

// ConvertSng parses every SNG entry and emits the corresponding arrangement
// XML, overlaying song metadata from whichever manifest JSON entry best
// matches the SNG's basename (spec §4.9).
func (a *Archive) ConvertSng(dir string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.requireOpen(); err != nil {
		return err
	}

	manifests := a.collectManifestNames()

	var failures []EntryFailure
	for i, e := range a.reader.entries {
		if !isSngEntry(e.Name) {
			continue
		}

		data, err := a.reader.ExtractByIndex(i)
		if err != nil {
			failures = append(failures, EntryFailure{Name: e.Name, Err: err})
			continue
		}

		song, err := ParseSng(data)
		if err != nil {
			failures = append(failures, EntryFailure{Name: e.Name, Err: err})
			continue
		}

		stem := stemName(e.Name)
		overlay := a.findOverlayFor(stem, manifests)

		xmlBytes, err := EmitXML(song, overlay)
		if err != nil {
			failures = append(failures, EntryFailure{Name: e.Name, Err: err})
			continue
		}

		outPath := filepath.Join(dir, "songs", "arr", stem+".xml")
		if err := writeFileCreatingDirs(outPath, xmlBytes); err != nil {
			failures = append(failures, EntryFailure{Name: e.Name, Err: err})
		}
	}

	if len(failures) > 0 {
		return &PartialExtraction{Failures: failures}
	}
	return nil
}

func stemName(name string) string {
	base := filepath.Base(name)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func (a *Archive) collectManifestNames() []string {
	var names []string
	for _, e := range a.reader.entries {
		if strings.Contains(e.Name, "songs_dlc_") && strings.HasSuffix(strings.ToLower(e.Name), ".json") {
			names = append(names, e.Name)
		}
	}
	return names
}

// findOverlayFor matches an SNG's stem name against manifest JSON entries'
// basenames, case-insensitively, preferring an exact stem match and falling
// back to a substring match (spec §4.9).
func (a *Archive) findOverlayFor(stem string, manifests []string) *ManifestOverlay {
	lowerStem := strings.ToLower(stem)

	var substringMatch string
	for _, name := range manifests {
		manifestStem := strings.ToLower(stemName(name))
		if manifestStem == lowerStem {
			return a.loadOverlay(name)
		}
		if substringMatch == "" && (strings.Contains(manifestStem, lowerStem) || strings.Contains(lowerStem, manifestStem)) {
			substringMatch = name
		}
	}
	if substringMatch != "" {
		return a.loadOverlay(substringMatch)
	}
	return nil
}

func (a *Archive) loadOverlay(manifestName string) *ManifestOverlay {
	i := a.reader.indexOfName(manifestName)
	if i < 0 {
		return nil
	}
	data, err := a.reader.ExtractByIndex(i)
	if err != nil {
		return nil
	}
	overlay, err := ParseManifestOverlay(data)
	if err != nil {
		return nil
	}
	return overlay
}

// ExportMidiPreview renders a scratch MIDI file per SNG arrangement entry
// into dir, named after the entry's stem (spec SPEC_FULL.md "Supplemented
// features" #1). Vocals SNGs are skipped since there is no pitched
// arrangement to render.
func (a *Archive) ExportMidiPreview(dir string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.requireOpen(); err != nil {
		return err
	}

	manifests := a.collectManifestNames()

	var failures []EntryFailure
	for i, e := range a.reader.entries {
		if !isSngEntry(e.Name) {
			continue
		}

		data, err := a.reader.ExtractByIndex(i)
		if err != nil {
			failures = append(failures, EntryFailure{Name: e.Name, Err: err})
			continue
		}

		song, err := ParseSng(data)
		if err != nil {
			failures = append(failures, EntryFailure{Name: e.Name, Err: err})
			continue
		}
		if song.IsVocals() {
			continue
		}

		stem := stemName(e.Name)
		overlay := a.findOverlayFor(stem, manifests)

		midiBytes, err := ExportMidiPreview(song, overlay)
		if err != nil {
			failures = append(failures, EntryFailure{Name: e.Name, Err: err})
			continue
		}

		outPath := filepath.Join(dir, "songs", "arr", stem+".mid")
		if err := writeMidiPreviewFile(outPath, midiBytes); err != nil {
			failures = append(failures, EntryFailure{Name: e.Name, Err: err})
		}
	}

	if len(failures) > 0 {
		return &PartialExtraction{Failures: failures}
	}
	return nil
}

// ConvertAudio delegates each WEM/BNK entry's bytes to an external Wwise
// conversion tool; the tool itself is out of scope (spec §1) and is
// invoked as a plain subprocess, matching the collaborator contract.
func (a *Archive) ConvertAudio(dir string, converter string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.requireOpen(); err != nil {
		return err
	}
	if converter == "" {
		converter = "ww2ogg"
	}

	var failures []EntryFailure
	for i, e := range a.reader.entries {
		lower := strings.ToLower(e.Name)
		if !strings.HasSuffix(lower, ".wem") && !strings.HasSuffix(lower, ".bnk") {
			continue
		}

		data, err := a.reader.ExtractByIndex(i)
		if err != nil {
			failures = append(failures, EntryFailure{Name: e.Name, Err: err})
			continue
		}

		inPath := filepath.Join(dir, filepath.FromSlash(e.Name))
		if err := writeFileCreatingDirs(inPath, data); err != nil {
			failures = append(failures, EntryFailure{Name: e.Name, Err: err})
			continue
		}

		outPath := strings.TrimSuffix(inPath, filepath.Ext(inPath)) + ".ogg"
		cmd := exec.Command(converter, inPath, "-o", outPath)
		if err := cmd.Run(); err != nil {
			failures = append(failures, EntryFailure{Name: e.Name, Err: fmt.Errorf("audio conversion: %w", err)})
		}
	}

	if len(failures) > 0 {
		return &PartialExtraction{Failures: failures}
	}
	return nil
}
