package main

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const (
	psarcMagic       uint32 = 0x50534152 // "PSAR"
	psarcHeaderSize         = 32
	wantMajor        uint16 = 1
	wantMinor        uint16 = 4
	tocEncryptedFlag uint32 = 0x04
)

// ArchiveHeader is the fixed 32-byte, big-endian PSARC header (spec §3).
type ArchiveHeader struct {
	Magic          uint32
	VersionMajor   uint16
	VersionMinor   uint16
	Compression    [4]byte
	TocLength      uint32
	TocEntrySize   uint32
	FileCount      uint32
	BlockSize      uint32
	ArchiveFlags   uint32
}

func (h *ArchiveHeader) tocEncrypted() bool {
	return h.ArchiveFlags&tocEncryptedFlag != 0
}

// FileEntry is the logical, named view of one TOC entry (spec §3).
type FileEntry struct {
	Name             string
	Offset           uint64
	UncompressedSize uint64
	StartChunkIndex  uint32
}

// ContainerReader holds the parsed header, TOC, and chunk-length table for
// one open PSARC file. Entry bytes are produced lazily by ExtractByIndex.
type ContainerReader struct {
	file   *os.File
	header ArchiveHeader

	entries    []FileEntry
	zLengths   []uint16
}

func openContainer(path string) (*ContainerReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &OpenFailed{Path: path, Err: err}
	}

	c := &ContainerReader{file: f}
	if err := c.readHeader(); err != nil {
		f.Close()
		return nil, err
	}
	if err := c.readTOC(); err != nil {
		f.Close()
		return nil, err
	}
	if err := c.assignNames(); err != nil {
		f.Close()
		return nil, err
	}
	return c, nil
}

func (c *ContainerReader) close() error {
	if c.file == nil {
		return nil
	}
	err := c.file.Close()
	c.file = nil
	c.entries = nil
	c.zLengths = nil
	return err
}

func (c *ContainerReader) readHeader() error {
	buf := make([]byte, psarcHeaderSize)
	if _, err := io.ReadFull(c.file, buf); err != nil {
		return fmt.Errorf("reading header: %w", err)
	}

	r := NewBinaryReader(buf)
	magic, _ := r.ReadU32(binary.BigEndian)
	if magic != psarcMagic {
		return &InvalidMagic{Got: magic}
	}
	major, _ := r.ReadU16(binary.BigEndian)
	minor, _ := r.ReadU16(binary.BigEndian)
	if major != wantMajor || minor != wantMinor {
		return &UnsupportedVersion{Major: major, Minor: minor}
	}
	compTag, _ := r.ReadBytes(4)
	tocLength, _ := r.ReadU32(binary.BigEndian)
	tocEntrySize, _ := r.ReadU32(binary.BigEndian)
	fileCount, _ := r.ReadU32(binary.BigEndian)
	blockSize, _ := r.ReadU32(binary.BigEndian)
	flags, _ := r.ReadU32(binary.BigEndian)

	c.header = ArchiveHeader{
		Magic:        magic,
		VersionMajor: major,
		VersionMinor: minor,
		TocLength:    tocLength,
		TocEntrySize: tocEntrySize,
		FileCount:    fileCount,
		BlockSize:    blockSize,
		ArchiveFlags: flags,
	}
	copy(c.header.Compression[:], compTag)
	return nil
}

func (c *ContainerReader) compressionTag() string {
	return strings.TrimRight(string(c.header.Compression[:]), "\x00")
}

func (c *ContainerReader) readTOC() error {
	remaining := int(c.header.TocLength) - psarcHeaderSize
	if remaining < 0 {
		return &TruncatedTOC{Declared: int(c.header.TocLength), Available: 0}
	}

	raw := make([]byte, remaining)
	n, err := io.ReadFull(c.file, raw)
	if err != nil && err != io.ErrUnexpectedEOF {
		return fmt.Errorf("reading TOC: %w", err)
	}
	if n < remaining {
		return &TruncatedTOC{Declared: remaining, Available: n}
	}

	if c.header.tocEncrypted() {
		raw, err = DecryptTOC(raw)
		if err != nil {
			return err
		}
	}

	entrySize := int(c.header.TocEntrySize)
	if entrySize < 20 || entrySize%2 != 0 {
		return &InvalidTocEntrySize{N: entrySize}
	}
	b := (entrySize - 20) / 2
	if b < 1 || b > 8 {
		return &InvalidTocEntrySize{N: entrySize}
	}

	r := NewBinaryReader(raw)
	count := int(c.header.FileCount)
	entries := make([]FileEntry, count)
	for i := 0; i < count; i++ {
		if _, err := r.ReadBytes(16); err != nil { // MD5, ignored
			return &TruncatedTOC{Declared: remaining, Available: r.Position()}
		}
		startChunk, err := r.ReadU32(binary.BigEndian)
		if err != nil {
			return &TruncatedTOC{Declared: remaining, Available: r.Position()}
		}
		length, err := r.ReadUint(b)
		if err != nil {
			return &TruncatedTOC{Declared: remaining, Available: r.Position()}
		}
		offset, err := r.ReadUint(b)
		if err != nil {
			return &TruncatedTOC{Declared: remaining, Available: r.Position()}
		}
		entries[i] = FileEntry{
			Offset:           offset,
			UncompressedSize: length,
			StartChunkIndex:  startChunk,
		}
	}

	zCount := r.Remaining() / 2
	zLengths := make([]uint16, zCount)
	for i := 0; i < zCount; i++ {
		v, err := r.ReadU16(binary.BigEndian)
		if err != nil {
			return &TruncatedTOC{Declared: remaining, Available: r.Position()}
		}
		zLengths[i] = v
	}

	c.entries = entries
	c.zLengths = zLengths
	return nil
}

// assignNames extracts entry 0 (the names manifest), splits it on '\n',
// trims whitespace, and assigns the results to entries 1..n-1 in order.
// Entry 0 itself keeps the synthetic name "NamesBlock.bin" (spec §3, §4.4).
func (c *ContainerReader) assignNames() error {
	if len(c.entries) == 0 {
		return nil
	}
	c.entries[0].Name = "NamesBlock.bin"

	raw, err := c.extractByIndexRaw(0)
	if err != nil {
		return fmt.Errorf("reading names manifest: %w", err)
	}

	var names []string
	for _, line := range strings.Split(string(raw), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		names = append(names, line)
	}

	for i := 1; i < len(c.entries); i++ {
		if i-1 < len(names) {
			c.entries[i].Name = names[i-1]
		}
	}
	return nil
}

// extractByIndexRaw implements spec §4.4's ExtractByIndex, without the
// SNG-unwrap post-processing step (applied separately by the caller so that
// assignNames, which reads entry 0, never triggers it).
func (c *ContainerReader) extractByIndexRaw(i int) ([]byte, error) {
	e := &c.entries[i]
	needed := e.UncompressedSize
	out := make([]byte, 0, needed)

	if _, err := c.file.Seek(int64(e.Offset), io.SeekStart); err != nil {
		return nil, fmt.Errorf("seeking to entry %d: %w", i, err)
	}

	chunkIdx := int(e.StartChunkIndex)
	blockSize := int(c.header.BlockSize)
	br := bufio.NewReaderSize(c.file, blockSize+4096)

	for uint64(len(out)) < needed {
		if chunkIdx >= len(c.zLengths) {
			return nil, &ChunkIndexOutOfRange{Index: chunkIdx, Table: len(c.zLengths)}
		}
		z := int(c.zLengths[chunkIdx])
		chunkIdx++

		if z == 0 {
			block := make([]byte, blockSize)
			n, err := io.ReadFull(br, block)
			if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
				return nil, fmt.Errorf("reading uncompressed block: %w", err)
			}
			out = append(out, block[:n]...)
			continue
		}

		raw := make([]byte, z)
		n, err := io.ReadFull(br, raw)
		if err != nil || n != z {
			return nil, &ShortRead{Offset: int(e.Offset), Need: z, Got: n}
		}

		remainingNeeded := needed - uint64(len(out))
		expected := blockSize
		if remainingNeeded < uint64(blockSize) {
			expected = int(remainingNeeded)
		}

		decompressed := c.decompressChunk(raw, expected)
		if decompressed == nil {
			decompressed = raw
		}
		out = append(out, decompressed...)
	}

	if uint64(len(out)) > needed {
		out = out[:needed]
	}
	return out, nil
}

func (c *ContainerReader) decompressChunk(raw []byte, expected int) []byte {
	switch c.compressionTag() {
	case "zlib":
		return InflateZlib(raw, expected)
	case "lzma":
		return InflateLZMA(raw, expected)
	default:
		if out := InflateZlib(raw, expected); out != nil {
			return out
		}
		return InflateLZMA(raw, expected)
	}
}

const sngPathMarker = "songs/bin/generic/"

func isSngEntry(name string) bool {
	return strings.Contains(name, sngPathMarker) && strings.HasSuffix(name, ".sng")
}

// ExtractByIndex implements spec §4.4 step 4: SNG entries are unwrapped
// before being returned to the caller.
func (c *ContainerReader) ExtractByIndex(i int) ([]byte, error) {
	if i < 0 || i >= len(c.entries) {
		return nil, fmt.Errorf("entry index %d out of range", i)
	}
	raw, err := c.extractByIndexRaw(i)
	if err != nil {
		return nil, err
	}
	if isSngEntry(c.entries[i].Name) {
		return DecodeSng(raw)
	}
	return raw, nil
}

func (c *ContainerReader) indexOfName(name string) int {
	for i := range c.entries {
		if c.entries[i].Name == name {
			return i
		}
	}
	return -1
}

// ExtractAll walks entries in TOC order, writing each to dir, and aggregates
// any per-entry failures instead of aborting (spec §4.4).
func (c *ContainerReader) ExtractAll(dir string) error {
	var failures []EntryFailure
	for i := range c.entries {
		name := c.entries[i].Name
		if name == "" {
			continue
		}
		data, err := c.ExtractByIndex(i)
		if err != nil {
			failures = append(failures, EntryFailure{Name: name, Err: err})
			continue
		}
		outPath := filepath.Join(dir, filepath.FromSlash(name))
		if err := writeFileCreatingDirs(outPath, data); err != nil {
			failures = append(failures, EntryFailure{Name: name, Err: err})
		}
	}
	if len(failures) > 0 {
		return &PartialExtraction{Failures: failures}
	}
	return nil
}

func writeFileCreatingDirs(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return &WriteFailed{Path: path, Err: err}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return &WriteFailed{Path: path, Err: err}
	}
	return nil
}
