// Package segment overlays a sector/chunk view on a seekable byte
// source. A chunk is sectors-per-chunk consecutive sectors; a sector is
// a fixed-width big-endian integer read straight from the file.
package segment

import (
	"io"
	"math/big"

	"golang.org/x/xerrors"

	"github.com/F483/heartbeat/lib/crypto/field"
)

type SectorView struct {
	src        io.ReadSeeker
	sectorSize uint32
	sectors    uint32
	length     int64
}

// NewSectorView measures src and fixes the sector geometry. The source
// position afterwards is unspecified; every read seeks absolutely.
func NewSectorView(src io.ReadSeeker, sectorSize, sectorsPerChunk uint32) (*SectorView, error) {
	if sectorSize == 0 || sectorsPerChunk == 0 {
		return nil, xerrors.New("sector geometry must be nonzero")
	}

	length, err := src.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, xerrors.Errorf("measuring source: %w", err)
	}

	return &SectorView{
		src:        src,
		sectorSize: sectorSize,
		sectors:    sectorsPerChunk,
		length:     length,
	}, nil
}

func (v *SectorView) Length() int64 {
	return v.length
}

func (v *SectorView) SectorSize() uint32 {
	return v.sectorSize
}

func (v *SectorView) SectorsPerChunk() uint32 {
	return v.sectors
}

// ChunkCount returns how many chunks cover the source, counting a final
// partial chunk.
func (v *SectorView) ChunkCount() uint32 {
	chunkSize := int64(v.sectorSize) * int64(v.sectors)
	return uint32((v.length + chunkSize - 1) / chunkSize)
}

// Sector reads sector j of chunk i as an integer in [0, 2^(8*sectorSize)).
// Reads past end of file are zero-padded on the right, so the final
// partial chunk extends with zero sectors.
func (v *SectorView) Sector(i, j uint32) (*big.Int, error) {
	offset := int64(i)*int64(v.sectorSize)*int64(v.sectors) + int64(j)*int64(v.sectorSize)

	buf := make([]byte, v.sectorSize)
	if offset < v.length {
		if _, err := v.src.Seek(offset, io.SeekStart); err != nil {
			return nil, xerrors.Errorf("seeking sector (%d,%d): %w", i, j, err)
		}
		if _, err := io.ReadFull(v.src, buf); err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
			return nil, xerrors.Errorf("reading sector (%d,%d): %w", i, j, err)
		}
	}

	return field.Decode(buf), nil
}
