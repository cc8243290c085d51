// SPDX-License-Identifier: BSD-3-Clause

// Package simflash implements internal/capability.FlashDevice against a
// regular host file, for the hosted simulator and for tests. Reads and
// writes go through golang.org/x/sys/unix.Pread/Pwrite so the device can be
// exercised concurrently without an explicit seek+read/write race.
package simflash

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"github.com/openhmk/hmkcore/internal/capability"
)

const emptyByte = 0xFF

var _ capability.FlashDevice = (*Device)(nil)

// Device is a file-backed flash simulator. Sector 0 is the lowest address.
type Device struct {
	f          *os.File
	sectorSize int
	sectors    int
}

// Open opens (creating if necessary) a flash image file of sectorCount *
// sectorSize bytes at path. A freshly created file is initialized to the
// flash-empty value throughout.
func Open(path string, sectorSize, sectorCount int) (*Device, error) {
	size := int64(sectorSize) * int64(sectorCount)

	existing, statErr := os.Stat(path)
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o600)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpenFailed, err)
	}

	d := &Device{f: f, sectorSize: sectorSize, sectors: sectorCount}

	if statErr != nil || existing.Size() != size {
		if err := f.Truncate(size); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("%w: %w", ErrOpenFailed, err)
		}
		if err := d.fillAll(emptyByte); err != nil {
			_ = f.Close()
			return nil, err
		}
	}

	return d, nil
}

func (d *Device) fillAll(b byte) error {
	buf := make([]byte, d.sectorSize)
	for i := range buf {
		buf[i] = b
	}
	for s := 0; s < d.sectors; s++ {
		if _, err := unix.Pwrite(int(d.f.Fd()), buf, int64(s*d.sectorSize)); err != nil {
			return fmt.Errorf("%w: %w", ErrWriteFailed, err)
		}
	}
	return nil
}

// Close releases the backing file handle.
func (d *Device) Close() error {
	return d.f.Close()
}

// SectorSize implements capability.FlashDevice.
func (d *Device) SectorSize() int { return d.sectorSize }

// SectorCount implements capability.FlashDevice.
func (d *Device) SectorCount() int { return d.sectors }

// ReadAt implements capability.FlashDevice.
func (d *Device) ReadAt(off int64, buf []byte) error {
	n, err := unix.Pread(int(d.f.Fd()), buf, off)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrReadFailed, err)
	}
	if n != len(buf) {
		return fmt.Errorf("%w: short read", ErrReadFailed)
	}
	return nil
}

// WriteAt implements capability.FlashDevice.
func (d *Device) WriteAt(off int64, data []byte) error {
	n, err := unix.Pwrite(int(d.f.Fd()), data, off)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}
	if n != len(data) {
		return fmt.Errorf("%w: short write", ErrWriteFailed)
	}
	return nil
}

// EraseSector implements capability.FlashDevice.
func (d *Device) EraseSector(off int64) error {
	sector := off / int64(d.sectorSize)
	buf := make([]byte, d.sectorSize)
	for i := range buf {
		buf[i] = emptyByte
	}
	if _, err := unix.Pwrite(int(d.f.Fd()), buf, sector*int64(d.sectorSize)); err != nil {
		return fmt.Errorf("%w: %w", ErrEraseFailed, err)
	}
	return nil
}
