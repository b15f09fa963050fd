// Package png implements the PNG carrier: sequential, row-major,
// channel-interleaved LSB embedding and extraction over an RGBA
// raster's raw sample buffer. Embed and Extract operate on the already
// outer-framed payload (length prefix plus Reed-Solomon-encoded body);
// package steg is responsible for producing and consuming that frame.
package png

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/draw"
	"image/png"

	"github.com/mirseo/updrm/errs"
	"github.com/mirseo/updrm/ulog"
)

// Embed decodes carrier as a PNG, overwrites the low bit of each raw
// RGBA sample (in row-major, channel-interleaved order) with the next
// bit of f2 (least-significant-bit first within each byte of f2), and
// re-encodes the result as PNG. Samples beyond len(f2)*8 are untouched.
func Embed(carrier []byte, f2 []byte) ([]byte, error) {
	rgba, err := decodeRGBA(carrier)
	if err != nil {
		return nil, err
	}

	capacityBits := len(rgba.Pix)
	requiredBits := 8 * len(f2)
	ulog.Logger.Debug().
		Int("capacity_bits", capacityBits).
		Int("required_bits", requiredBits).
		Msg("steg/png: embedding")

	if requiredBits > capacityBits {
		return nil, errs.New(errs.InsufficientCapacity, "png.Embed", nil)
	}

	writeBits(rgba.Pix, f2)

	var out bytes.Buffer
	if err := png.Encode(&out, rgba); err != nil {
		return nil, errs.New(errs.CarrierCodecFailure, "png.Embed", err)
	}
	return out.Bytes(), nil
}

// Extract decodes carrier as a PNG, reads the 64-bit outer length
// prefix, bound-checks it against the carrier's actual bit capacity,
// and returns the length prefix concatenated with the declared number
// of payload bytes (i.e. the full outer frame, ready for frame.Unpack64).
func Extract(carrier []byte) ([]byte, error) {
	rgba, err := decodeRGBA(carrier)
	if err != nil {
		return nil, err
	}

	capacityBits := uint64(len(rgba.Pix))
	const lenPrefixBits = 64
	if capacityBits < lenPrefixBits {
		return nil, errs.New(errs.TruncatedCarrier, "png.Extract", nil)
	}

	lenBytes := readBits(rgba.Pix, 0, 8)
	declaredLen := binary.BigEndian.Uint64(lenBytes)

	// Bound-check declaredLen against capacity before ever multiplying it
	// by 8 or adding to it: a hostile header (e.g. declaredLen =
	// 2^64-1) would silently wrap either computation around uint64's
	// range and defeat the check, and for values like 2^61 the wrapped
	// comparison could pass while int(8+declaredLen) remains a huge,
	// unwrapped number, driving readBits into a multi-exabyte allocation.
	// Dividing capacity down to a maximum declaredLen first keeps both
	// sides of the comparison, and the later length conversion, within
	// safe range.
	maxDeclaredLen := (capacityBits - lenPrefixBits) / 8
	if declaredLen > maxDeclaredLen {
		return nil, errs.New(errs.TruncatedCarrier, "png.Extract", nil)
	}

	return readBits(rgba.Pix, 0, int(8+declaredLen)), nil
}

// decodeRGBA decodes a PNG and normalizes it to *image.NRGBA, whose Pix
// field is exactly the tightly-packed 4*W*H-byte raw raster buffer the
// spec's sample-order invariant refers to. NRGBA (straight, not
// premultiplied, alpha) is used rather than image.RGBA because the PNG
// encoder writes *image.NRGBA's Pix bytes verbatim; *image.RGBA's
// premultiplied alpha would be silently re-derived on encode and could
// perturb the very low bits this package embeds into, breaking the
// round-trip property the spec's Open Question 3 calls out.
func decodeRGBA(carrier []byte) (*image.NRGBA, error) {
	img, err := png.Decode(bytes.NewReader(carrier))
	if err != nil {
		return nil, errs.New(errs.CarrierCodecFailure, "png.decodeRGBA", err)
	}

	if nrgba, ok := img.(*image.NRGBA); ok && nrgba.Stride == 4*nrgba.Bounds().Dx() {
		return nrgba, nil
	}

	bounds := img.Bounds()
	nrgba := image.NewNRGBA(bounds)
	draw.Draw(nrgba, bounds, img, bounds.Min, draw.Src)
	return nrgba, nil
}

// writeBits writes data into pix starting at bit offset 0, one bit per
// byte of pix, least-significant-bit first within each byte of data.
func writeBits(pix []byte, data []byte) {
	for k := 0; k < len(data)*8; k++ {
		byteIdx := k / 8
		bitIdx := k % 8
		bit := (data[byteIdx] >> uint(bitIdx)) & 1
		pix[k] = (pix[k] &^ 1) | bit
	}
}

// readBits reads n bytes from pix starting at bitOffset, one bit per
// byte of pix, least-significant-bit first within each output byte.
func readBits(pix []byte, bitOffset, n int) []byte {
	out := make([]byte, n)
	for k := 0; k < n*8; k++ {
		byteIdx := k / 8
		bitIdx := k % 8
		bit := pix[bitOffset+k] & 1
		out[byteIdx] |= bit << uint(bitIdx)
	}
	return out
}
