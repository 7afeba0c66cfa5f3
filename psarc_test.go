package main

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

func TestIsSngEntry(t *testing.T) {
	cases := []struct {
		name string
		want bool
	}{
		{"songs/bin/generic/song_lead.sng", true},
		{"songs/bin/generic/song_vocals.sng", true},
		{"songs/bin/generic/song_lead.sng.bak", false},
		{"audio/song.wem", false},
		{"songs/bin/generic/readme.txt", false},
	}

	for _, c := range cases {
		if got := isSngEntry(c.name); got != c.want {
			t.Errorf("isSngEntry(%q): got %v, want %v", c.name, got, c.want)
		}
	}
}

func TestStemName(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"songs/bin/generic/song_lead.sng", "song_lead"},
		{"manifests/songs_dlc_song/song_lead.json", "song_lead"},
		{"noext", "noext"},
	}

	for _, c := range cases {
		if got := stemName(c.name); got != c.want {
			t.Errorf("stemName(%q): got %q, want %q", c.name, got, c.want)
		}
	}
}

func TestArchiveHeaderTocEncrypted(t *testing.T) {
	h := ArchiveHeader{ArchiveFlags: tocEncryptedFlag}
	if !h.tocEncrypted() {
		t.Error("expected tocEncrypted() true when the flag bit is set")
	}
	h2 := ArchiveHeader{ArchiveFlags: 0}
	if h2.tocEncrypted() {
		t.Error("expected tocEncrypted() false when no flags are set")
	}
}

func TestContainerReaderCompressionTag(t *testing.T) {
	c := &ContainerReader{}
	copy(c.header.Compression[:], "zlib")
	if got := c.compressionTag(); got != "zlib" {
		t.Errorf("compressionTag(): got %q, want %q", got, "zlib")
	}
}

// writeTestPsarc builds a minimal, valid two-entry PSARC archive (a names
// manifest plus one uncompressed data entry) and writes it to a temp file,
// returning its path. Both entries fit in a single raw (z_len == 0) block.
func writeTestPsarc(t *testing.T) string {
	t.Helper()

	const blockSize = 16
	manifest := []byte("data.bin\n")
	payload := []byte("hello world")

	if len(manifest) > blockSize || len(payload) > blockSize {
		t.Fatal("test fixture data must fit in one block")
	}

	var toc []byte
	appendEntry := func(startChunk uint32, length, offset uint64) {
		toc = append(toc, make([]byte, 16)...) // MD5, ignored
		var u32 [4]byte
		binary.BigEndian.PutUint32(u32[:], startChunk)
		toc = append(toc, u32[:]...)
		var lenBuf, offBuf [4]byte
		binary.BigEndian.PutUint32(lenBuf[:], uint32(length))
		binary.BigEndian.PutUint32(offBuf[:], uint32(offset))
		toc = append(toc, lenBuf[:]...)
		toc = append(toc, offBuf[:]...)
	}

	const entrySize = 28 // 16 + 4 + 4 + 4, b = 4
	const headerSize = psarcHeaderSize
	tocBodyLen := 2*entrySize + 2*2 // 2 entries + 2 z_len uint16s
	dataStart := headerSize + tocBodyLen

	appendEntry(0, uint64(len(manifest)), uint64(dataStart))
	appendEntry(1, uint64(len(payload)), uint64(dataStart+blockSize))

	toc = append(toc, 0x00, 0x00) // z_len for entry 0's chunk: 0 == raw block
	toc = append(toc, 0x00, 0x00) // z_len for entry 1's chunk

	var buf []byte
	var u32 [4]byte
	writeU32 := func(v uint32) { binary.BigEndian.PutUint32(u32[:], v); buf = append(buf, u32[:]...) }

	writeU32(psarcMagic)
	buf = append(buf, 0x00, 0x01) // version major 1
	buf = append(buf, 0x00, 0x04) // version minor 4
	buf = append(buf, []byte("zlib")...)
	writeU32(uint32(headerSize + len(toc)))
	writeU32(entrySize)
	writeU32(2) // file count
	writeU32(blockSize)
	writeU32(0) // archive flags: no TOC encryption

	buf = append(buf, toc...)

	block0 := make([]byte, blockSize)
	copy(block0, manifest)
	block1 := make([]byte, blockSize)
	copy(block1, payload)
	buf = append(buf, block0...)
	buf = append(buf, block1...)

	path := filepath.Join(t.TempDir(), "test.psarc")
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		t.Fatalf("writing test psarc: %v", err)
	}
	return path
}

func TestOpenContainerRoundTrip(t *testing.T) {
	path := writeTestPsarc(t)

	c, err := openContainer(path)
	if err != nil {
		t.Fatalf("openContainer: %v", err)
	}
	defer c.close()

	if len(c.entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(c.entries))
	}
	if c.entries[0].Name != "NamesBlock.bin" {
		t.Errorf("entry 0 name: got %q, want %q", c.entries[0].Name, "NamesBlock.bin")
	}
	if c.entries[1].Name != "data.bin" {
		t.Errorf("entry 1 name: got %q, want %q", c.entries[1].Name, "data.bin")
	}

	data, err := c.ExtractByIndex(1)
	if err != nil {
		t.Fatalf("ExtractByIndex(1): %v", err)
	}
	if string(data) != "hello world" {
		t.Errorf("ExtractByIndex(1): got %q, want %q", data, "hello world")
	}
}

func TestOpenContainerRejectsBadMagic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.psarc")
	if err := os.WriteFile(path, make([]byte, psarcHeaderSize), 0o644); err != nil {
		t.Fatalf("writing bad psarc: %v", err)
	}

	_, err := openContainer(path)
	if err == nil {
		t.Fatal("expected an error for a zeroed header")
	}
	if _, ok := err.(*InvalidMagic); !ok {
		t.Errorf("expected *InvalidMagic, got %T (%v)", err, err)
	}
}

func TestArchiveViaPublicFacade(t *testing.T) {
	path := writeTestPsarc(t)

	var a Archive
	if err := a.Open(path); err != nil {
		t.Fatalf("Archive.Open: %v", err)
	}
	defer a.Close()

	if a.FileCount() != 2 {
		t.Errorf("FileCount(): got %d, want 2", a.FileCount())
	}
	if !a.FileExists("data.bin") {
		t.Error("expected FileExists(\"data.bin\") to be true")
	}

	data, err := a.ExtractFile("data.bin")
	if err != nil {
		t.Fatalf("ExtractFile: %v", err)
	}
	if string(data) != "hello world" {
		t.Errorf("ExtractFile: got %q, want %q", data, "hello world")
	}
}
