// SPDX-License-Identifier: BSD-3-Clause

// Package wearlevel implements an append-log-and-consolidate virtual flash
// region: a byte-addressable region of size V, backed by a block device of
// size V+L, where writes are absorbed by a compact append-only log and only
// occasionally folded back into a CRC-guarded consolidated image. This
// bounds write latency and spreads wear across the log area instead of
// rewriting the whole image on every configuration change.
package wearlevel

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"sync"

	"github.com/openhmk/hmkcore/internal/capability"
)

const (
	flashEmptyByte = 0xFF
	emptyWord      = uint32(0xFFFFFFFF)

	// maxEntryBytes is the largest residue a single log entry can carry;
	// longer writes are chunked into multiple consecutive entries.
	maxEntryBytes = 6
)

// WearLevel is a RAM cache of the virtual region plus the bookkeeping needed
// to append log entries and consolidate them on demand. The zero value is
// not usable; construct with New.
type WearLevel struct {
	mu sync.Mutex

	dev capability.FlashDevice

	virtualSize int // V
	logSize     int // L

	imageWords       int // V/4
	logCapacityWords int // L/4 - 1
	logOffsetBytes   int64

	cache          []byte
	logCursorWords int

	initialized bool
}

// New constructs a WearLevel over dev, presenting a virtual region of
// virtualSize bytes with a log area of logSize bytes. virtualSize must be
// word-aligned and logSize must be word-aligned and large enough to hold at
// least one two-word log entry.
func New(dev capability.FlashDevice, virtualSize, logSize int) (*WearLevel, error) {
	if virtualSize <= 0 || virtualSize%4 != 0 {
		return nil, fmt.Errorf("%w: virtual size %d not word-aligned", ErrInvalidSize, virtualSize)
	}
	if virtualSize > 8192 {
		return nil, fmt.Errorf("%w: virtual size %d exceeds the 13-bit log address range", ErrInvalidSize, virtualSize)
	}
	if logSize <= 0 || logSize%4 != 0 {
		return nil, fmt.Errorf("%w: log size %d not word-aligned", ErrInvalidSize, logSize)
	}
	logCapacityWords := logSize/4 - 1
	if logCapacityWords < 2 {
		return nil, fmt.Errorf("%w: log area too small for any entry", ErrInvalidSize)
	}

	w := &WearLevel{
		dev:              dev,
		virtualSize:      virtualSize,
		logSize:          logSize,
		imageWords:       virtualSize / 4,
		logCapacityWords: logCapacityWords,
		logOffsetBytes:   int64(virtualSize) + 4,
		cache:            make([]byte, virtualSize),
	}
	return w, nil
}

// Init reads the consolidated image, verifies its CRC32, and replays the
// append log on top of it. Idempotent: calling Init again re-reads from the
// backing device and discards any unconsolidated in-RAM mutations.
func (w *WearLevel) Init() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.dev.ReadAt(0, w.cache); err != nil {
		return err
	}

	var crcBuf [4]byte
	if err := w.dev.ReadAt(int64(w.virtualSize), crcBuf[:]); err != nil {
		return err
	}
	storedCRC := binary.LittleEndian.Uint32(crcBuf[:])

	if crc32.ChecksumIEEE(w.cache) != storedCRC {
		for i := range w.cache {
			w.cache[i] = flashEmptyByte
		}
		if err := w.consolidateForceLocked(); err != nil {
			return err
		}
	}

	cursor, err := w.replayLogLocked()
	if err != nil {
		return err
	}
	w.logCursorWords = cursor
	w.initialized = true
	return nil
}

func (w *WearLevel) replayLogLocked() (int, error) {
	word := make([]byte, 4)
	idx := 0
	for idx < w.logCapacityWords {
		off := w.logOffsetBytes + int64(idx*4)
		if err := w.dev.ReadAt(off, word); err != nil {
			return 0, err
		}
		head := binary.LittleEndian.Uint32(word)
		if head == emptyWord {
			break
		}

		addr := int(head & 0x1FFF)
		length := int((head >> 13) & 0x7)
		data := [maxEntryBytes]byte{
			byte(head >> 16),
			byte(head >> 24),
		}
		consumed := 1
		if length > 2 {
			off2 := w.logOffsetBytes + int64((idx+1)*4)
			word2 := make([]byte, 4)
			if err := w.dev.ReadAt(off2, word2); err != nil {
				return 0, err
			}
			w2 := binary.LittleEndian.Uint32(word2)
			data[2] = byte(w2)
			data[3] = byte(w2 >> 8)
			data[4] = byte(w2 >> 16)
			data[5] = byte(w2 >> 24)
			consumed = 2
		}

		if addr < 0 || length < 1 || length > maxEntryBytes || addr+length > w.virtualSize {
			break
		}
		copy(w.cache[addr:addr+length], data[:length])
		idx += consumed
	}
	return idx, nil
}

// Read copies buf's length worth of bytes starting at addr from the cache.
// Infallible given addr+len(buf) <= V.
func (w *WearLevel) Read(addr int, buf []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.initialized {
		return ErrNotInitialized
	}
	if addr < 0 || addr+len(buf) > w.virtualSize {
		return ErrOutOfRange
	}
	copy(buf, w.cache[addr:addr+len(buf)])
	return nil
}

// Write persists data at addr. Identical head/tail bytes against the
// current cache are trimmed before appending log entries, so idempotent
// writes (same bytes already present) do not grow the log.
func (w *WearLevel) Write(addr int, data []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.initialized {
		return ErrNotInitialized
	}
	if addr < 0 || addr+len(data) > w.virtualSize {
		return ErrOutOfRange
	}
	if len(data) == 0 {
		return nil
	}

	start, end := 0, len(data)
	for start < end && data[start] == w.cache[addr+start] {
		start++
	}
	for end > start && data[end-1] == w.cache[addr+end-1] {
		end--
	}
	if start == end {
		return nil
	}

	residueAddr := addr + start
	residue := data[start:end]
	copy(w.cache[residueAddr:residueAddr+len(residue)], residue)

	for off := 0; off < len(residue); off += maxEntryBytes {
		chunk := residue[off:min(off+maxEntryBytes, len(residue))]
		if err := w.appendEntryLocked(residueAddr+off, chunk); err != nil {
			return err
		}
	}
	return nil
}

func (w *WearLevel) appendEntryLocked(addr int, chunk []byte) error {
	wordsNeeded := 1
	if len(chunk) > 2 {
		wordsNeeded = 2
	}
	if w.logCursorWords+wordsNeeded > w.logCapacityWords {
		if err := w.consolidateForceLocked(); err != nil {
			return fmt.Errorf("%w: %w", ErrConsolidateFailed, err)
		}
		if w.logCursorWords+wordsNeeded > w.logCapacityWords {
			return fmt.Errorf("%w: log area cannot hold a single entry", ErrInvalidSize)
		}
	}

	var d [maxEntryBytes]byte
	copy(d[:], chunk)

	head := uint32(addr&0x1FFF) | uint32(len(chunk)&0x7)<<13 | uint32(d[0])<<16 | uint32(d[1])<<24
	var headBuf [4]byte
	binary.LittleEndian.PutUint32(headBuf[:], head)
	headOff := w.logOffsetBytes + int64(w.logCursorWords*4)
	if err := w.dev.WriteAt(headOff, headBuf[:]); err != nil {
		return err
	}
	w.logCursorWords++

	if wordsNeeded == 2 {
		tail := uint32(d[2]) | uint32(d[3])<<8 | uint32(d[4])<<16 | uint32(d[5])<<24
		var tailBuf [4]byte
		binary.LittleEndian.PutUint32(tailBuf[:], tail)
		tailOff := w.logOffsetBytes + int64(w.logCursorWords*4)
		if err := w.dev.WriteAt(tailOff, tailBuf[:]); err != nil {
			return err
		}
		w.logCursorWords++
	}
	return nil
}

// Erase resets the virtual region to the flash-empty value and consolidates.
func (w *WearLevel) Erase() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	for i := range w.cache {
		w.cache[i] = flashEmptyByte
	}
	return w.consolidateForceLocked()
}

func (w *WearLevel) consolidateForceLocked() error {
	sectorSize := int64(w.dev.SectorSize())
	totalBytes := int64(w.virtualSize) + int64(w.logSize)
	for off := int64(0); off < totalBytes; off += sectorSize {
		if err := w.dev.EraseSector(off); err != nil {
			return err
		}
	}
	if err := w.dev.WriteAt(0, w.cache); err != nil {
		return err
	}
	var crcBuf [4]byte
	binary.LittleEndian.PutUint32(crcBuf[:], crc32.ChecksumIEEE(w.cache))
	if err := w.dev.WriteAt(int64(w.virtualSize), crcBuf[:]); err != nil {
		return err
	}
	w.logCursorWords = 0
	return nil
}
