package vgm

import (
	"bytes"
	"encoding/binary"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding/unicode"
)

// GD3 holds the track metadata tag. Strings come in English/Japanese pairs.
type GD3 struct {
	TrackEN, TrackJP   string
	GameEN, GameJP     string
	SystemEN, SystemJP string
	AuthorEN, AuthorJP string
	Date               string
	Ripper             string
	Notes              string
}

// ErrNoGD3 is returned by Tags when the file carries no GD3 tag.
var ErrNoGD3 = errors.New("vgm: no GD3 tag")

const gd3FieldCount = 11

// Tags decodes the GD3 tag referenced by the header.
func (r *Reader) Tags() (GD3, error) {
	off := int(r.header.GD3Offset)
	if off == 0 {
		return GD3{}, ErrNoGD3
	}
	if off+12 > len(r.data) || !bytes.Equal(r.data[off:off+4], []byte("Gd3 ")) {
		return GD3{}, errors.Wrapf(ErrNoGD3, "no tag at offset 0x%X", off)
	}
	size := int(binary.LittleEndian.Uint32(r.data[off+8 : off+12]))
	body := r.data[off+12:]
	if size < len(body) {
		body = body[:size]
	}

	fields, err := decodeGD3Strings(body)
	if err != nil {
		return GD3{}, err
	}
	return GD3{
		TrackEN:  fields[0],
		TrackJP:  fields[1],
		GameEN:   fields[2],
		GameJP:   fields[3],
		SystemEN: fields[4],
		SystemJP: fields[5],
		AuthorEN: fields[6],
		AuthorJP: fields[7],
		Date:     fields[8],
		Ripper:   fields[9],
		Notes:    fields[10],
	}, nil
}

// decodeGD3Strings splits body into null-terminated UTF-16LE strings.
// Missing trailing fields decode as empty.
func decodeGD3Strings(body []byte) ([gd3FieldCount]string, error) {
	var out [gd3FieldCount]string
	dec := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder()

	field := 0
	start := 0
	for i := 0; i+1 < len(body) && field < gd3FieldCount; i += 2 {
		if body[i] != 0 || body[i+1] != 0 {
			continue
		}
		s, err := dec.Bytes(body[start:i])
		if err != nil {
			return out, errors.Wrapf(err, "gd3 field %d", field)
		}
		out[field] = string(s)
		field++
		start = i + 2
	}
	return out, nil
}
