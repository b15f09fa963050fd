// Package steg is the orchestrator: it composes frame, shard and the two
// carrier codecs (steg/png, steg/pdf) into the two operations a host
// exposes, Write and Read.
package steg

import (
	"os"
	"path/filepath"

	"github.com/mirseo/updrm/errs"
	"github.com/mirseo/updrm/filetype"
	"github.com/mirseo/updrm/frame"
	"github.com/mirseo/updrm/shard"
	"github.com/mirseo/updrm/steg/pdf"
	"github.com/mirseo/updrm/steg/png"
	"github.com/mirseo/updrm/ulog"
)

// Params collects the pipeline's configurable constants. The zero value
// is not meaningful; use DefaultParams. DataShards/ParityShards mirror
// shard.DataShards/shard.ParityShards for callers that want to log or
// display them; they are not independently adjustable, since the shard
// codec's wire format is fixed at D=10, P=4 (see DESIGN.md Open
// Question O3 for why these are not exposed as CLI flags).
type Params struct {
	DataShards   int
	ParityShards int
}

// DefaultParams returns the spec's fixed pipeline parameters.
func DefaultParams() Params {
	return Params{DataShards: shard.DataShards, ParityShards: shard.ParityShards}
}

// Write coerces data to bytes, builds the inner and outer frames,
// dispatches to the carrier's embedder by detecting the file at path,
// and atomically overwrites path with the result.
func Write(path string, data any) error {
	raw, err := coerce(data)
	if err != nil {
		return err
	}

	f1 := frame.Pack32(raw)
	e, err := shard.Encode(f1)
	if err != nil {
		return err
	}
	f2 := frame.Pack64(e)

	carrier, err := os.ReadFile(path)
	if err != nil {
		return errs.New(errs.IoFailure, "steg.Write", err)
	}

	typ := filetype.Detect(carrier)
	ulog.Logger.Debug().
		Str("path", path).
		Str("carrier_type", typ.String()).
		Int("payload_bytes", len(raw)).
		Int("encoded_bytes", len(e)).
		Msg("steg: writing payload")

	var embedded []byte
	switch typ {
	case filetype.PNG:
		embedded, err = png.Embed(carrier, f2)
	case filetype.PDF:
		embedded, err = pdf.Embed(carrier, f2)
	default:
		return errs.New(errs.UnsupportedCarrier, "steg.Write", nil)
	}
	if err != nil {
		return err
	}

	return atomicWrite(path, embedded)
}

// Read detects the carrier at path, dispatches to the matching
// extractor, RS-reconstructs F1, and returns the inner payload.
func Read(path string) ([]byte, error) {
	carrier, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.New(errs.IoFailure, "steg.Read", err)
	}

	typ := filetype.Detect(carrier)
	ulog.Logger.Debug().
		Str("path", path).
		Str("carrier_type", typ.String()).
		Msg("steg: reading payload")

	var f2 []byte
	switch typ {
	case filetype.PNG:
		f2, err = png.Extract(carrier)
	case filetype.PDF:
		f2, err = pdf.Extract(carrier)
	default:
		return nil, errs.New(errs.UnsupportedCarrier, "steg.Read", nil)
	}
	if err != nil {
		return nil, err
	}

	e, _, err := frame.Unpack64(f2)
	if err != nil {
		return nil, err
	}

	f1, err := shard.Decode(e, nil)
	if err != nil {
		return nil, err
	}

	raw, _, err := frame.Unpack32(f1)
	if err != nil {
		return nil, err
	}
	return raw, nil
}

// coerce implements the write-time input coercion rule: a string is
// UTF-8 encoded to bytes, a []byte is used directly, anything else is
// rejected. This mirrors original_source/src/lib.rs's
// data.extract::<String>() / data.extract::<Vec<u8>>() fallback chain.
func coerce(data any) ([]byte, error) {
	switch v := data.(type) {
	case string:
		return []byte(v), nil
	case []byte:
		return v, nil
	default:
		return nil, errs.New(errs.UnsupportedInputType, "steg.Write", nil)
	}
}

// atomicWrite writes content to a temp file in path's directory and
// renames it over path, so a crash mid-write never corrupts the
// original carrier.
func atomicWrite(path string, content []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".updrm-*.tmp")
	if err != nil {
		return errs.New(errs.IoFailure, "steg.Write", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errs.New(errs.IoFailure, "steg.Write", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errs.New(errs.IoFailure, "steg.Write", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return errs.New(errs.IoFailure, "steg.Write", err)
	}
	return nil
}
