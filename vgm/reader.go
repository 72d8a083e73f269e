// Package vgm reads VGM sound logs: the header, GD3 tags, data blocks and
// the command stream, decoded one command at a time.
package vgm

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

var (
	// ErrBadMagic is returned when the data does not start with "Vgm ".
	ErrBadMagic = errors.New("vgm: invalid header magic")
	// ErrTruncated is returned when the header or a command runs past the
	// end of the data. Interpretation must stop: later commands cannot be
	// framed reliably.
	ErrTruncated = errors.New("vgm: unexpected end of data")
)

const (
	headerMinSize     = 0x40
	defaultDataOffset = 0x40
)

// Header holds the fields of the VGM header this tool uses.
type Header struct {
	Version       uint32 // BCD, e.g. 0x171
	SN76489Clock  uint32
	YM2612Clock   uint32
	GD3Offset     uint32 // absolute, 0 when absent
	TotalSamples  uint32
	LoopOffset    uint32 // absolute, 0 when absent
	LoopSamples   uint32
	Rate          uint32
	DataOffset    uint32 // absolute start of the command stream
	EndOfFile     uint32 // absolute
	NTSCFrameWait int    // default 0x62 wait
	PALFrameWait  int    // default 0x63 wait
}

// DataBlock is a type-tagged payload from a 0x67 command.
type DataBlock struct {
	Type uint8
	Data []byte
}

// Reader decodes a VGM command stream held in memory.
type Reader struct {
	data   []byte
	pos    int
	header Header
	blocks []DataBlock
	done   bool
}

// Open reads path from fs, inflating it first if it is gzip-compressed
// (.vgz). A nil fs reads from the OS filesystem.
func Open(fs afero.Fs, path string) (*Reader, error) {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	raw, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	r, err := NewReader(raw)
	if err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}
	return r, nil
}

// NewReader validates the header of data and positions the reader at the
// first command. Gzip-compressed input is inflated transparently.
func NewReader(data []byte) (*Reader, error) {
	if len(data) >= 2 && data[0] == 0x1F && data[1] == 0x8B {
		gz, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, errors.Wrap(err, "vgz")
		}
		defer gz.Close()
		data, err = io.ReadAll(gz)
		if err != nil {
			return nil, errors.Wrap(err, "vgz")
		}
	}

	if len(data) < 4 || !bytes.Equal(data[0:4], []byte("Vgm ")) {
		return nil, ErrBadMagic
	}
	if len(data) < headerMinSize {
		return nil, errors.Wrap(ErrTruncated, "header")
	}

	h := Header{
		Version:       binary.LittleEndian.Uint32(data[0x08:0x0C]),
		SN76489Clock:  binary.LittleEndian.Uint32(data[0x0C:0x10]),
		TotalSamples:  binary.LittleEndian.Uint32(data[0x18:0x1C]),
		LoopSamples:   binary.LittleEndian.Uint32(data[0x20:0x24]),
		Rate:          binary.LittleEndian.Uint32(data[0x24:0x28]),
		EndOfFile:     relative(data, 0x04),
		GD3Offset:     relative(data, 0x14),
		LoopOffset:    relative(data, 0x1C),
		DataOffset:    defaultDataOffset,
		NTSCFrameWait: 735,
		PALFrameWait:  882,
	}

	// Before 1.10 the YM2413 clock field doubled as the YM2612/YM2151 clock.
	if h.Version >= 0x110 {
		h.YM2612Clock = binary.LittleEndian.Uint32(data[0x2C:0x30])
	} else {
		h.YM2612Clock = binary.LittleEndian.Uint32(data[0x10:0x14])
	}
	if h.Version >= 0x150 {
		if off := relative(data, 0x34); off != 0 {
			h.DataOffset = off
		}
	}
	if int(h.DataOffset) > len(data) {
		return nil, errors.Wrapf(ErrTruncated, "data offset 0x%X beyond %d bytes", h.DataOffset, len(data))
	}

	return &Reader{
		data:   data,
		pos:    int(h.DataOffset),
		header: h,
	}, nil
}

// relative decodes a header pointer stored relative to its own position.
func relative(data []byte, at int) uint32 {
	v := binary.LittleEndian.Uint32(data[at : at+4])
	if v == 0 {
		return 0
	}
	return uint32(at) + v
}

// Header returns the parsed header.
func (r *Reader) Header() Header {
	return r.header
}

// Offset returns the position of the next command in the file.
func (r *Reader) Offset() int {
	return r.pos
}

// DataBlocks returns every data block read so far, in stream order.
func (r *Reader) DataBlocks() []DataBlock {
	return r.blocks
}

// DataBlockOfType returns the most recently read data block of type t.
func (r *Reader) DataBlockOfType(t uint8) ([]byte, bool) {
	for i := len(r.blocks) - 1; i >= 0; i-- {
		if r.blocks[i].Type == t {
			return r.blocks[i].Data, true
		}
	}
	return nil, false
}

// Next decodes the next command. It returns io.EOF after the end-of-data
// command (0x66) has been returned or the data is exhausted, and an error
// wrapping ErrTruncated when a command's operands are cut short.
func (r *Reader) Next() (Command, error) {
	if r.done || r.pos >= r.end() {
		r.done = true
		return nil, io.EOF
	}

	at := r.pos
	op := r.data[at]

	if op == 0x67 {
		return r.readDataBlock()
	}

	n := argCount(op)
	if at+1+n > r.end() {
		r.done = true
		return nil, errors.Wrapf(ErrTruncated, "command 0x%02X at offset 0x%X", op, at)
	}
	args := r.data[at+1 : at+1+n]
	r.pos = at + 1 + n

	switch {
	case op == 0x4F:
		return GGStereo{Value: args[0]}, nil
	case op == 0x50:
		return PSGWrite{Value: args[0]}, nil
	case op == 0x52 || op == 0x53:
		return YM2612Write{Port: op & 1, Reg: args[0], Value: args[1]}, nil
	case op == 0x61:
		return Wait{Samples: binary.LittleEndian.Uint16(args)}, nil
	case op == 0x62:
		return WaitFrame{}, nil
	case op == 0x63:
		return WaitFrame{PAL: true}, nil
	case op == 0x64:
		return WaitOverride{Target: args[0], Samples: binary.LittleEndian.Uint16(args[1:])}, nil
	case op == 0x66:
		r.done = true
		return End{}, nil
	case op&0xF0 == 0x70:
		return WaitShort{Samples: op&0x0F + 1}, nil
	case op&0xF0 == 0x80:
		return DACWrite{Wait: op & 0x0F}, nil
	case op == 0xE0:
		return PCMSeek{Offset: binary.LittleEndian.Uint32(args)}, nil
	}
	return Unknown{Op: op, Args: args}, nil
}

// readDataBlock handles 0x67 0x66 tt ssssssss <data>.
func (r *Reader) readDataBlock() (Command, error) {
	at := r.pos
	if at+7 > r.end() {
		r.done = true
		return nil, errors.Wrapf(ErrTruncated, "data block header at offset 0x%X", at)
	}
	if r.data[at+1] != 0x66 {
		r.done = true
		return nil, errors.Wrapf(ErrTruncated, "data block at offset 0x%X missing 0x66 guard", at)
	}
	typ := r.data[at+2]
	size := int(binary.LittleEndian.Uint32(r.data[at+3:at+7]) & 0x7FFFFFFF)
	start := at + 7
	if start+size > r.end() {
		r.done = true
		return nil, errors.Wrapf(ErrTruncated, "data block of %d bytes at offset 0x%X", size, at)
	}
	r.blocks = append(r.blocks, DataBlock{Type: typ, Data: r.data[start : start+size]})
	r.pos = start + size
	return DataBlockLoaded{Type: typ, Index: len(r.blocks) - 1, Size: size}, nil
}

// end is the exclusive end of the command stream. The GD3 tag, when it
// follows the commands, is not part of the stream.
func (r *Reader) end() int {
	end := len(r.data)
	if eof := int(r.header.EndOfFile); eof > int(r.header.DataOffset) && eof < end {
		end = eof
	}
	if gd3 := int(r.header.GD3Offset); gd3 >= int(r.header.DataOffset) && gd3 < end {
		end = gd3
	}
	return end
}
