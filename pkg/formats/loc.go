// Package formats provides parsers for packed game data formats.
// LOC (localization container) format parser for string tables.
package formats

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/Faultbox/pakview/pkg/encoding"
)

// LOC format errors.
var (
	ErrMalformedContainer = errors.New("malformed localization container")
)

const (
	locHeaderSize = 16
	locRecordSize = 12
	locSizeSize   = 8
)

// LocHeader holds the fields of the fixed 16-byte container header.
type LocHeader struct {
	SizesTableOffset uint32 // Offset of the per-id size/offset table
	ItemCount        uint32 // Number of name records after the header
}

// LocRecord is a name record following the header.
type LocRecord struct {
	NameOffset    uint32 // Name start before the per-id padding term
	NameLenPlus1  uint32 // Name byte length plus one
	ItemID        uint32 // Index into the sizes table
	PayloadLength uint32 // Payload length in 16-bit code units
	PayloadOffset uint32 // Payload offset relative to the payload region
}

// LocEntry is one decoded localization item.
type LocEntry struct {
	Name   string // UTF-8 display name
	ItemID uint32 // Item id from the record
	Data   []byte // Raw payload (UTF-16LE code units)
}

// Text returns the payload decoded as UTF-8.
func (e LocEntry) Text() (string, error) {
	return DecodeLocText(e.Data)
}

// DecodeLocText converts a localization payload to a UTF-8 string.
func DecodeLocText(payload []byte) (string, error) {
	return encoding.UTF16LEToUTF8(payload)
}

// ParseLocHeader reads the container header.
func ParseLocHeader(data []byte) (LocHeader, error) {
	if len(data) < locHeaderSize {
		return LocHeader{}, fmt.Errorf("%w: header needs %d bytes, have %d",
			ErrMalformedContainer, locHeaderSize, len(data))
	}
	return LocHeader{
		SizesTableOffset: binary.LittleEndian.Uint32(data[4:]),
		ItemCount:        binary.LittleEndian.Uint32(data[12:]),
	}, nil
}

// DecodeLocalization decodes every record of a localization container.
// Any offset running past the buffer fails the whole container.
func DecodeLocalization(data []byte) ([]LocEntry, error) {
	header, err := ParseLocHeader(data)
	if err != nil {
		return nil, err
	}

	size := uint64(len(data))
	count := uint64(header.ItemCount)
	sizesOff := uint64(header.SizesTableOffset)
	if locHeaderSize+count*locRecordSize > size {
		return nil, fmt.Errorf("%w: %d records overrun %d-byte buffer",
			ErrMalformedContainer, count, size)
	}
	payloadBase := locSizeSize + sizesOff + count*locSizeSize

	entries := make([]LocEntry, 0, count)
	for i := uint64(0); i < count; i++ {
		rec, err := readLocRecord(data, i, sizesOff)
		if err != nil {
			return nil, err
		}

		if rec.NameLenPlus1 == 0 {
			return nil, fmt.Errorf("%w: record %d has zero name length", ErrMalformedContainer, i)
		}
		nameStart := uint64(rec.NameOffset) + locRecordSize*uint64(rec.ItemID)
		nameEnd := nameStart + uint64(rec.NameLenPlus1) - 1
		if nameEnd > size {
			return nil, fmt.Errorf("%w: record %d name [%d:%d] past end %d",
				ErrMalformedContainer, i, nameStart, nameEnd, size)
		}

		payloadStart := payloadBase + uint64(rec.PayloadOffset)
		payloadEnd := payloadStart + uint64(rec.PayloadLength)*2
		if payloadEnd > size {
			return nil, fmt.Errorf("%w: record %d payload [%d:%d] past end %d",
				ErrMalformedContainer, i, payloadStart, payloadEnd, size)
		}

		entries = append(entries, LocEntry{
			Name:   string(data[nameStart:nameEnd]),
			ItemID: rec.ItemID,
			Data:   bytes.Clone(data[payloadStart:payloadEnd]),
		})
	}
	return entries, nil
}

func readLocRecord(data []byte, i, sizesOff uint64) (LocRecord, error) {
	off := locHeaderSize + i*locRecordSize
	rec := LocRecord{
		NameOffset:   binary.LittleEndian.Uint32(data[off:]),
		NameLenPlus1: binary.LittleEndian.Uint32(data[off+4:]),
		ItemID:       binary.LittleEndian.Uint32(data[off+8:]),
	}

	sizeOff := sizesOff + uint64(rec.ItemID)*locSizeSize
	if sizeOff+locSizeSize > uint64(len(data)) {
		return LocRecord{}, fmt.Errorf("%w: record %d size entry at %d past end %d",
			ErrMalformedContainer, i, sizeOff, len(data))
	}
	rec.PayloadLength = binary.LittleEndian.Uint32(data[sizeOff:])
	rec.PayloadOffset = binary.LittleEndian.Uint32(data[sizeOff+4:])
	return rec, nil
}
