// Package pdf implements the PDF carrier: it injects a near-transparent
// grayscale image XObject (and the 1%-opacity graphics state needed to
// paint it invisibly) into every page of a PDF document, and later
// locates and decodes that image to recover the payload it carries.
//
// Per spec.md §9 Open Question 1, the image XObject's dictionary names
// /FlateDecode as its filter but the stream's raw bytes are the literal
// PNG-encoded pixel buffer, uninterpreted by that filter. Both Embed and
// Extract read/write the stream's raw bytes directly rather than asking
// pdfcpu to apply or reverse FlateDecode, so the two sides agree.
package pdf

import (
	"bytes"
	"encoding/binary"
	stdimage "image"
	stdpng "image/png"
	"math"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/mirseo/updrm/errs"
	"github.com/mirseo/updrm/ulog"
)

const (
	imageResourceName = "UpdrmImg"
	gsResourceName    = "UpdrmGS"
	opacity           = 0.01
	placementMatrix   = "10 0 0 10 50 50"
)

// Embed injects the image XObject and ExtGState carrying f2 into every
// page of carrier and returns the serialized document.
func Embed(carrier []byte, f2 []byte) ([]byte, error) {
	ctx, err := readContext(carrier)
	if err != nil {
		return nil, err
	}
	xRefTable := ctx.XRefTable

	side := int(math.Ceil(math.Sqrt(float64(len(f2)))))
	if side == 0 {
		side = 1
	}
	pngBytes, err := grayscaleSquarePNG(f2, side)
	if err != nil {
		return nil, errs.New(errs.CarrierCodecFailure, "pdf.Embed", err)
	}

	imgRef, err := newImageXObject(xRefTable, pngBytes, side, side)
	if err != nil {
		return nil, errs.New(errs.CarrierCodecFailure, "pdf.Embed", err)
	}

	gsRef, err := newExtGState(xRefTable, opacity)
	if err != nil {
		return nil, errs.New(errs.CarrierCodecFailure, "pdf.Embed", err)
	}

	ulog.Logger.Debug().
		Int("pages", xRefTable.PageCount).
		Int("image_side", side).
		Msg("steg/pdf: injecting into every page")

	for pageNr := 1; pageNr <= xRefTable.PageCount; pageNr++ {
		if err := injectIntoPage(xRefTable, pageNr, imgRef, gsRef); err != nil {
			return nil, errs.New(errs.CarrierCodecFailure, "pdf.Embed", err)
		}
	}

	var out bytes.Buffer
	if err := api.WriteContext(ctx, &out); err != nil {
		return nil, errs.New(errs.CarrierCodecFailure, "pdf.Embed", err)
	}
	return out.Bytes(), nil
}

// Extract locates the first page whose /Resources/XObject contains
// /UpdrmImg, decodes its stream as a grayscale PNG, and returns the
// leading 8-byte big-endian length of E concatenated with E itself
// (i.e. the outer frame, ready for frame.Unpack64).
func Extract(carrier []byte) ([]byte, error) {
	ctx, err := readContext(carrier)
	if err != nil {
		return nil, err
	}
	xRefTable := ctx.XRefTable

	for pageNr := 1; pageNr <= xRefTable.PageCount; pageNr++ {
		pageDict, _, err := xRefTable.PageDict(pageNr, false)
		if err != nil {
			continue
		}

		raw, found, err := findImagePayload(xRefTable, pageDict)
		if err != nil {
			return nil, errs.New(errs.CarrierCodecFailure, "pdf.Extract", err)
		}
		if !found {
			continue
		}

		pixels, err := grayscalePixels(raw)
		if err != nil {
			return nil, errs.New(errs.CarrierCodecFailure, "pdf.Extract", err)
		}

		if len(pixels) < 8 {
			return nil, errs.New(errs.TruncatedCarrier, "pdf.Extract", nil)
		}
		declared := binary.BigEndian.Uint64(pixels[:8])
		if uint64(len(pixels)) < 8+declared {
			return nil, errs.New(errs.TruncatedCarrier, "pdf.Extract", nil)
		}
		return pixels[:8+declared], nil
	}

	return nil, errs.New(errs.PayloadAbsent, "pdf.Extract", nil)
}

func readContext(carrier []byte) (*model.Context, error) {
	conf := model.NewDefaultConfiguration()
	ctx, err := api.ReadContext(bytes.NewReader(carrier), conf)
	if err != nil {
		return nil, errs.New(errs.CarrierCodecFailure, "pdf.readContext", err)
	}
	return ctx, nil
}

// newImageXObject allocates a new indirect object holding the image
// stream dictionary. Content and Raw are both set to pngBytes directly:
// this stream is never actually flate-encoded, per the package doc.
func newImageXObject(xRefTable *model.XRefTable, pngBytes []byte, w, h int) (*types.IndirectRef, error) {
	d := types.Dict{
		"Type":             types.Name("XObject"),
		"Subtype":          types.Name("Image"),
		"Width":            types.Integer(w),
		"Height":           types.Integer(h),
		"ColorSpace":       types.Name("DeviceGray"),
		"BitsPerComponent": types.Integer(8),
		"Filter":           types.Name("FlateDecode"),
		"Length":           types.Integer(len(pngBytes)),
	}
	sd := types.StreamDict{
		Dict:    d,
		Content: pngBytes,
		Raw:     pngBytes,
	}
	return xRefTable.IndRefForNewObject(sd)
}

func newExtGState(xRefTable *model.XRefTable, ca float64) (*types.IndirectRef, error) {
	d := types.Dict{
		"Type": types.Name("ExtGState"),
		"ca":   types.Float(ca),
	}
	return xRefTable.IndRefForNewObject(d)
}

func injectIntoPage(xRefTable *model.XRefTable, pageNr int, imgRef, gsRef *types.IndirectRef) error {
	pageDict, _, err := xRefTable.PageDict(pageNr, false)
	if err != nil {
		return err
	}

	resources := resourcesDict(pageDict)
	xobjects := subDict(resources, "XObject")
	xobjects[imageResourceName] = *imgRef

	extGStates := subDict(resources, "ExtGState")
	extGStates[gsResourceName] = *gsRef

	content := []byte("q /" + gsResourceName + " gs " + placementMatrix + " cm /" + imageResourceName + " Do Q\n")
	contentDict := types.StreamDict{
		Dict:    types.Dict{"Length": types.Integer(len(content))},
		Content: content,
		Raw:     content,
	}
	contentRef, err := xRefTable.IndRefForNewObject(contentDict)
	if err != nil {
		return err
	}
	appendContentStream(pageDict, contentRef)
	return nil
}

func resourcesDict(pageDict types.Dict) types.Dict {
	if d, ok := pageDict.DictEntry("Resources"); ok && d != nil {
		return d
	}
	d := types.Dict{}
	pageDict["Resources"] = d
	return d
}

func subDict(parent types.Dict, key string) types.Dict {
	if d, ok := parent.DictEntry(key); ok && d != nil {
		return d
	}
	d := types.Dict{}
	parent[key] = d
	return d
}

func appendContentStream(pageDict types.Dict, newRef *types.IndirectRef) {
	existing, ok := pageDict["Contents"]
	if !ok {
		pageDict["Contents"] = types.Array{*newRef}
		return
	}
	if arr, ok := existing.(types.Array); ok {
		pageDict["Contents"] = append(arr, *newRef)
		return
	}
	pageDict["Contents"] = types.Array{existing, *newRef}
}

func findImagePayload(xRefTable *model.XRefTable, pageDict types.Dict) ([]byte, bool, error) {
	resources, ok := pageDict.DictEntry("Resources")
	if !ok {
		return nil, false, nil
	}
	xobjects, ok := resources.DictEntry("XObject")
	if !ok {
		return nil, false, nil
	}
	ref, ok := xobjects[imageResourceName]
	if !ok {
		return nil, false, nil
	}

	indRef, ok := ref.(types.IndirectRef)
	if !ok {
		return nil, false, nil
	}

	obj, err := xRefTable.Dereference(indRef)
	if err != nil {
		return nil, false, err
	}
	sd, ok := obj.(types.StreamDict)
	if !ok {
		return nil, false, nil
	}
	return sd.Raw, true, nil
}

// grayscaleSquarePNG builds a side x side 8-bit grayscale PNG whose
// pixel buffer is f2 padded with zeros.
func grayscaleSquarePNG(f2 []byte, side int) ([]byte, error) {
	img := stdimage.NewGray(stdimage.Rect(0, 0, side, side))
	copy(img.Pix, f2)

	var buf bytes.Buffer
	if err := stdpng.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// grayscalePixels decodes raw as a PNG and returns its 8-bit grayscale
// pixel buffer.
func grayscalePixels(raw []byte) ([]byte, error) {
	img, err := stdpng.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}

	if gray, ok := img.(*stdimage.Gray); ok && gray.Stride == gray.Bounds().Dx() {
		return gray.Pix, nil
	}

	bounds := img.Bounds()
	gray := stdimage.NewGray(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			gray.Set(x, y, img.At(x, y))
		}
	}
	return gray.Pix, nil
}
