// Package filetype classifies a carrier's bytes by magic number. It is
// the sole authority on carrier type within updrm: there is no
// file-extension dispatch anywhere else in the module.
package filetype

import "bytes"

// Type identifies a supported (or unsupported) carrier format.
type Type int

const (
	// Unsupported means the bytes did not match any known carrier magic.
	Unsupported Type = iota
	// PNG means the bytes begin with the PNG signature.
	PNG
	// PDF means the bytes begin with the PDF header.
	PDF
)

func (t Type) String() string {
	switch t {
	case PNG:
		return "PNG"
	case PDF:
		return "PDF"
	default:
		return "Unsupported"
	}
}

var (
	pngMagic = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}
	pdfMagic = []byte("%PDF")
)

// Detect classifies data by its leading magic bytes. It never returns
// an error: bytes that match neither magic are simply Unsupported.
func Detect(data []byte) Type {
	if len(data) >= len(pngMagic) && bytes.Equal(data[:len(pngMagic)], pngMagic) {
		return PNG
	}
	if len(data) >= len(pdfMagic) && bytes.Equal(data[:len(pdfMagic)], pdfMagic) {
		return PDF
	}
	return Unsupported
}
