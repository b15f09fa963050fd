package shard

import (
	"bytes"
	"testing"

	"github.com/mirseo/updrm/errs"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cases := [][]byte{
		{0x00, 0x00, 0x00, 0x00},
		[]byte("\x00\x00\x00\x05hello"),
		bytes.Repeat([]byte{0xAA}, 10004),
	}
	for _, f1 := range cases {
		e, err := Encode(f1)
		if err != nil {
			t.Fatalf("Encode failed: %v", err)
		}
		if len(e)%TotalShards != 0 {
			t.Fatalf("expected |E| divisible by %d, got %d", TotalShards, len(e))
		}

		got, err := Decode(e, nil)
		if err != nil {
			t.Fatalf("Decode failed: %v", err)
		}
		if !bytes.Equal(got[:len(f1)], f1) {
			t.Errorf("Decode(Encode(f1))[:len(f1)] != f1")
		}
	}
}

func TestShardAlignment(t *testing.T) {
	f1 := []byte{0x00, 0x00, 0x00, 0x00}
	e, err := Encode(f1)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	// ceil(4/10) = 1, so |E| = 14 * 1 = 14.
	if len(e) != 14 {
		t.Errorf("expected |E| = 14, got %d", len(e))
	}
}

func TestDecodeMisalignedEncoding(t *testing.T) {
	_, err := Decode(make([]byte, 13), nil)
	e, ok := err.(*errs.Error)
	if !ok || e.Kind != errs.MisalignedEncoding {
		t.Fatalf("expected MisalignedEncoding, got %v", err)
	}
}

func TestDecodeWithAbsentShardsReconstructs(t *testing.T) {
	f1 := bytes.Repeat([]byte{0x42}, 1000)
	e, err := Encode(f1)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	shardLen := len(e) / TotalShards
	damaged := make([]byte, len(e))
	copy(damaged, e)
	// Zero out shard index 3 to simulate a damaged data shard.
	for i := 3 * shardLen; i < 4*shardLen; i++ {
		damaged[i] = 0
	}

	got, err := Decode(damaged, []int{3})
	if err != nil {
		t.Fatalf("Decode with absent shard failed: %v", err)
	}
	if !bytes.Equal(got[:len(f1)], f1) {
		t.Error("reconstruction with one marked-absent shard did not recover the original data")
	}
}

func TestEncodeShardLenIsCeilDivision(t *testing.T) {
	f1 := make([]byte, 21) // ceil(21/10) = 3
	e, err := Encode(f1)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if len(e) != TotalShards*3 {
		t.Errorf("expected shard length 3, got total |E|=%d", len(e))
	}
}
