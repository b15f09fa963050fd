package steg

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mirseo/updrm/errs"
)

func writeTestPNG(t *testing.T, path string, width, height int) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: uint8(x ^ y), A: 255})
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

// writeTestPDF writes a syntactically valid, Resources-free PDF with
// pageCount pages to path, so Write must exercise steg/pdf's own
// per-page Resources/XObject/ExtGState creation. Object offsets for the
// xref table are tracked as the buffer is built, not hardcoded.
func writeTestPDF(t *testing.T, path string, pageCount int) {
	t.Helper()

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n%\xE2\xE3\xCF\xD3\n")

	var offsets []int
	writeObj := func(objNum int, body string) {
		offsets = append(offsets, buf.Len())
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", objNum, body)
	}

	writeObj(1, "<< /Type /Catalog /Pages 2 0 R >>")

	kids := ""
	for i := 0; i < pageCount; i++ {
		if i > 0 {
			kids += " "
		}
		kids += fmt.Sprintf("%d 0 R", 3+i)
	}
	writeObj(2, fmt.Sprintf("<< /Type /Pages /Kids [ %s ] /Count %d >>", kids, pageCount))

	for i := 0; i < pageCount; i++ {
		writeObj(3+i, "<< /Type /Page /Parent 2 0 R /MediaBox [0 0 200 200] >>")
	}

	total := 2 + pageCount
	xrefOffset := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", total+1)
	buf.WriteString("0000000000 65535 f\r\n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n\r\n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\n", total+1)
	fmt.Fprintf(&buf, "startxref\n%d\n%%%%EOF", xrefOffset)

	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

// TestWriteReadRoundTripPDF exercises spec.md §8 scenario 5: a 2-page
// PDF carrier, both pages carrying /UpdrmImg, read recovering the
// original payload.
func TestWriteReadRoundTripPDF(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "carrier.pdf")
	writeTestPDF(t, path, 2)

	require.NoError(t, Write(path, "X"))

	got, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("X"), got)
}

func TestWriteReadRoundTripPNG(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "carrier.png")
	writeTestPNG(t, path, 128, 128)

	err := Write(path, "hello, updrm")
	require.NoError(t, err)

	got, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello, updrm"), got)
}

func TestWriteReadEmptyPayload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "carrier.png")
	writeTestPNG(t, path, 64, 64)

	require.NoError(t, Write(path, []byte{}))

	got, err := Read(path)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestWriteUnsupportedInputType(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "carrier.png")
	writeTestPNG(t, path, 64, 64)

	err := Write(path, 42)
	assertKind(t, err, errs.UnsupportedInputType)
}

func TestWriteUnsupportedCarrier(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "carrier.bin")
	require.NoError(t, os.WriteFile(path, []byte("not a known carrier"), 0o644))

	err := Write(path, "payload")
	assertKind(t, err, errs.UnsupportedCarrier)
}

func TestWriteInsufficientCapacity(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "carrier.png")
	writeTestPNG(t, path, 4, 4) // tiny carrier, nowhere near enough bit capacity

	err := Write(path, bytes.Repeat([]byte{0x01}, 10000))
	assertKind(t, err, errs.InsufficientCapacity)
}

func TestWriteIsAtomicOnEmbedFailure(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "carrier.png")
	writeTestPNG(t, path, 4, 4)
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	err = Write(path, bytes.Repeat([]byte{0x01}, 10000))
	require.Error(t, err)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after, "a failed Write must not modify the carrier on disk")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no leftover temp file should remain after a failed Write")
}

func TestDefaultParamsMatchesShardConstants(t *testing.T) {
	p := DefaultParams()
	assert.Equal(t, 10, p.DataShards)
	assert.Equal(t, 4, p.ParityShards)
}

func assertKind(t *testing.T, err error, want errs.Kind) {
	t.Helper()
	require.Error(t, err)
	e, ok := err.(*errs.Error)
	require.True(t, ok, "expected *errs.Error, got %T", err)
	assert.Equal(t, want, e.Kind)
}
