// Package shard partitions a framed payload into fixed-length data and
// parity shards and wraps github.com/klauspost/reedsolomon with that
// convention, so callers work in terms of a single concatenated byte
// sequence rather than a [][]byte shard matrix.
package shard

import (
	"github.com/klauspost/reedsolomon"

	"github.com/mirseo/updrm/errs"
)

const (
	// DataShards is the number of systematic (data-carrying) shards.
	DataShards = 10
	// ParityShards is the number of Reed-Solomon parity shards.
	ParityShards = 4
	// TotalShards is DataShards + ParityShards.
	TotalShards = DataShards + ParityShards
)

// Encode partitions f1 into DataShards equal-length chunks (the last
// zero-padded), computes ParityShards parity shards over them, and
// returns the concatenation of all TotalShards shards.
func Encode(f1 []byte) ([]byte, error) {
	shardLen := ceilDiv(len(f1), DataShards)
	if shardLen == 0 {
		shardLen = 1
	}

	shards := make([][]byte, TotalShards)
	for i := 0; i < DataShards; i++ {
		shards[i] = make([]byte, shardLen)
		start := i * shardLen
		if start < len(f1) {
			end := start + shardLen
			if end > len(f1) {
				end = len(f1)
			}
			copy(shards[i], f1[start:end])
		}
	}
	for i := DataShards; i < TotalShards; i++ {
		shards[i] = make([]byte, shardLen)
	}

	enc, err := reedsolomon.New(DataShards, ParityShards)
	if err != nil {
		return nil, errs.New(errs.RsFailure, "shard.Encode", err)
	}
	if err := enc.Encode(shards); err != nil {
		return nil, errs.New(errs.RsFailure, "shard.Encode", err)
	}

	e := make([]byte, 0, TotalShards*shardLen)
	for _, s := range shards {
		e = append(e, s...)
	}
	return e, nil
}

// Decode splits e into TotalShards equal-length shards, marks the
// shards named in absent as missing, asks the Reed-Solomon kernel to
// reconstruct them, and returns the concatenation of the first
// DataShards reconstructed shards (i.e. the framed payload, possibly
// with trailing zero padding that the caller's inner frame strips).
//
// absent may be nil; the current Orchestrator always reads every shard
// as present, since a lossless carrier does not drop bytes. The
// parameter exists so callers that can detect damaged shards (e.g. via
// a per-shard checksum) may mark them absent to enable true erasure
// decoding, per the shard-codec's extension point.
func Decode(e []byte, absent []int) ([]byte, error) {
	if len(e)%TotalShards != 0 {
		return nil, errs.New(errs.MisalignedEncoding, "shard.Decode", nil)
	}
	shardLen := len(e) / TotalShards

	shards := make([][]byte, TotalShards)
	for i := 0; i < TotalShards; i++ {
		shards[i] = e[i*shardLen : (i+1)*shardLen]
	}
	for _, idx := range absent {
		if idx >= 0 && idx < TotalShards {
			shards[idx] = nil
		}
	}

	enc, err := reedsolomon.New(DataShards, ParityShards)
	if err != nil {
		return nil, errs.New(errs.RsFailure, "shard.Decode", err)
	}
	if err := enc.Reconstruct(shards); err != nil {
		return nil, errs.New(errs.RsFailure, "shard.Decode", err)
	}

	f1 := make([]byte, 0, DataShards*shardLen)
	for i := 0; i < DataShards; i++ {
		f1 = append(f1, shards[i]...)
	}
	return f1, nil
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
