// Package formats provides parsers for packed game data formats.
// DDS container synthesis around raw block-compressed pixel data.
package formats

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// DDS format errors.
var (
	ErrSizeExceeded     = errors.New("declared texture size exceeds pixel data")
	ErrInvalidVariant   = errors.New("invalid compression variant")
	ErrInvalidDDSMagic  = errors.New("invalid DDS magic: expected 'DDS '")
	ErrTruncatedDDSData = errors.New("truncated DDS data")
)

// DDS header layout constants.
const (
	DDSMagic          = "DDS "
	DDSHeaderSize     = 124 // dwSize of DDS_HEADER
	DDSPixelFormatLen = 32
	DDSFileHeaderSize = 4 + DDSHeaderSize

	ddsFlagsCaps        = 0x1
	ddsFlagsHeight      = 0x2
	ddsFlagsWidth       = 0x4
	ddsFlagsPixelFormat = 0x1000
	ddsFlagsLinearSize  = 0x80000
	ddsPixelFourCC      = 0x4
	ddsCapsTexture      = 0x1000
)

// Offsets inside the 128-byte file header.
const (
	ddsOffSize        = 4
	ddsOffFlags       = 8
	ddsOffHeight      = 12
	ddsOffWidth       = 16
	ddsOffLinearSize  = 20
	ddsOffPixelFormat = 76
	ddsOffFourCC      = ddsOffPixelFormat + 8
	ddsOffCaps        = ddsOffPixelFormat + DDSPixelFormatLen
)

// TextureVariant selects the block compression: 1..5 map to DXT1..DXT5.
type TextureVariant int

// Supported variants.
const (
	VariantDXT1 TextureVariant = iota + 1
	VariantDXT2
	VariantDXT3
	VariantDXT4
	VariantDXT5
)

// Valid reports whether v is in 1..5.
func (v TextureVariant) Valid() bool {
	return v >= VariantDXT1 && v <= VariantDXT5
}

// FourCC returns the pixel-format code, e.g. "DXT1".
func (v TextureVariant) FourCC() string {
	return fmt.Sprintf("DXT%d", int(v))
}

// String returns the FourCC, or Unknown(n) for invalid variants.
func (v TextureVariant) String() string {
	if !v.Valid() {
		return fmt.Sprintf("Unknown(%d)", int(v))
	}
	return v.FourCC()
}

// DeclaredTextureSize returns the payload size for a texture: one byte per
// pixel, halved for the 4-bits-per-pixel DXT1 variant.
func DeclaredTextureSize(width, height uint32, variant TextureVariant) uint64 {
	size := uint64(width) * uint64(height)
	if variant == VariantDXT1 {
		size /= 2
	}
	return size
}

// SynthesizeDDS wraps the last DeclaredTextureSize bytes of pixels in a DDS
// header. It returns ErrSizeExceeded when the selection needs more bytes
// than pixels holds.
func SynthesizeDDS(pixels []byte, width, height uint32, variant TextureVariant) ([]byte, error) {
	if !variant.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidVariant, int(variant))
	}

	declared := DeclaredTextureSize(width, height, variant)
	if declared > uint64(len(pixels)) {
		return nil, fmt.Errorf("%w: %dx%d %s needs %d bytes, have %d",
			ErrSizeExceeded, width, height, variant, declared, len(pixels))
	}

	out := make([]byte, DDSFileHeaderSize+int(declared))
	copy(out[0:4], DDSMagic)
	binary.LittleEndian.PutUint32(out[ddsOffSize:], DDSHeaderSize)
	binary.LittleEndian.PutUint32(out[ddsOffFlags:],
		ddsFlagsCaps|ddsFlagsHeight|ddsFlagsWidth|ddsFlagsPixelFormat|ddsFlagsLinearSize)
	binary.LittleEndian.PutUint32(out[ddsOffHeight:], height)
	binary.LittleEndian.PutUint32(out[ddsOffWidth:], width)
	binary.LittleEndian.PutUint32(out[ddsOffLinearSize:], uint32(declared))
	// depth, mip count and reserved1[11] stay zero

	binary.LittleEndian.PutUint32(out[ddsOffPixelFormat:], DDSPixelFormatLen)
	binary.LittleEndian.PutUint32(out[ddsOffPixelFormat+4:], ddsPixelFourCC)
	copy(out[ddsOffFourCC:ddsOffFourCC+4], variant.FourCC())
	// bit count and channel masks stay zero

	binary.LittleEndian.PutUint32(out[ddsOffCaps:], ddsCapsTexture)
	// caps2..4 and reserved2 stay zero

	copy(out[DDSFileHeaderSize:], pixels[len(pixels)-int(declared):])
	return out, nil
}

// DDSInfo is the subset of a DDS header needed to describe a texture.
type DDSInfo struct {
	Width      uint32
	Height     uint32
	LinearSize uint32
	FourCC     string
}

// ParseDDSHeader reads the header of a DDS file.
func ParseDDSHeader(data []byte) (DDSInfo, error) {
	if len(data) < DDSFileHeaderSize {
		return DDSInfo{}, ErrTruncatedDDSData
	}
	if string(data[0:4]) != DDSMagic {
		return DDSInfo{}, ErrInvalidDDSMagic
	}
	return DDSInfo{
		Width:      binary.LittleEndian.Uint32(data[ddsOffWidth:]),
		Height:     binary.LittleEndian.Uint32(data[ddsOffHeight:]),
		LinearSize: binary.LittleEndian.Uint32(data[ddsOffLinearSize:]),
		FourCC:     string(data[ddsOffFourCC : ddsOffFourCC+4]),
	}, nil
}
