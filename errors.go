package main

import "fmt"

// OpenFailed means the filesystem could not open the archive at all.
type OpenFailed struct {
	Path string
	Err  error
}

func (e *OpenFailed) Error() string { return fmt.Sprintf("open %q: %v", e.Path, e.Err) }
func (e *OpenFailed) Unwrap() error { return e.Err }

// InvalidMagic means the header's magic number was not "PSAR".
type InvalidMagic struct{ Got uint32 }

func (e *InvalidMagic) Error() string {
	return fmt.Sprintf("invalid PSARC magic: got 0x%08X", e.Got)
}

// UnsupportedVersion means the header declared a version other than 1.4.
type UnsupportedVersion struct{ Major, Minor uint16 }

func (e *UnsupportedVersion) Error() string {
	return fmt.Sprintf("unsupported PSARC version %d.%d (only 1.4 is supported)", e.Major, e.Minor)
}

// TruncatedTOC means fewer bytes were available than the header's declared TOC length.
type TruncatedTOC struct{ Declared, Available int }

func (e *TruncatedTOC) Error() string {
	return fmt.Sprintf("truncated TOC: declared %d bytes, only %d available", e.Declared, e.Available)
}

// InvalidTocEntrySize means toc_entry_size failed the (n-20) even / b-in-range invariant.
type InvalidTocEntrySize struct{ N int }

func (e *InvalidTocEntrySize) Error() string {
	return fmt.Sprintf("invalid TOC entry size %d (must be 20 + 2b with b in 1..8)", e.N)
}

// ChunkIndexOutOfRange means an entry's chunk walk ran off the end of the z_lengths table.
type ChunkIndexOutOfRange struct {
	Index, Table int
}

func (e *ChunkIndexOutOfRange) Error() string {
	return fmt.Sprintf("chunk index %d out of range (table has %d entries)", e.Index, e.Table)
}

// ShortRead means fewer bytes were read from the archive file than a chunk required.
type ShortRead struct {
	Offset, Need, Got int
}

func (e *ShortRead) Error() string {
	return fmt.Sprintf("short read at offset %d: need %d, got %d", e.Offset, e.Need, e.Got)
}

// DecompressionFailure is used only where no raw-fallback applies (the SNG
// inner zlib stream); container-level chunk failures fall back to raw
// passthrough instead of raising this.
type DecompressionFailure struct{ Context string }

func (e *DecompressionFailure) Error() string {
	return fmt.Sprintf("decompression failed: %s", e.Context)
}

// WriteFailed means writing an extracted entry (or converted file) to disk failed.
type WriteFailed struct {
	Path string
	Err  error
}

func (e *WriteFailed) Error() string { return fmt.Sprintf("write %q: %v", e.Path, e.Err) }
func (e *WriteFailed) Unwrap() error { return e.Err }

// EntryFailure is one entry's failure inside a PartialExtraction.
type EntryFailure struct {
	Name string
	Err  error
}

// PartialExtraction aggregates per-entry failures from ExtractAll / ConvertSng;
// the loop that produced it otherwise ran to completion.
type PartialExtraction struct {
	Failures []EntryFailure
}

func (e *PartialExtraction) Error() string {
	return fmt.Sprintf("%d of the requested entries failed", len(e.Failures))
}

// ReadPastEnd and TrailingBytes (SNG parser faults) are declared in
// binreader.go and sngparser.go respectively, next to the code that raises
// them; CryptoFailure lives in psarccrypto.go for the same reason.
