package frame

import (
	"bytes"
	"testing"

	"github.com/mirseo/updrm/errs"
)

func TestPack32UnpackIdempotence(t *testing.T) {
	cases := [][]byte{
		nil,
		{},
		[]byte("hello"),
		bytes.Repeat([]byte{0xAA}, 10000),
	}
	for _, r := range cases {
		packed := Pack32(r)
		got, rest, err := Unpack32(packed)
		if err != nil {
			t.Fatalf("Unpack32 failed: %v", err)
		}
		if !bytes.Equal(got, r) && !(len(got) == 0 && len(r) == 0) {
			t.Errorf("Unpack32(Pack32(%v)) = %v, want %v", r, got, r)
		}
		if len(rest) != 0 {
			t.Errorf("expected no trailing bytes, got %d", len(rest))
		}
	}
}

func TestPack64UnpackIdempotence(t *testing.T) {
	r := bytes.Repeat([]byte{0x01, 0x02}, 5000)
	packed := Pack64(r)
	got, rest, err := Unpack64(packed)
	if err != nil {
		t.Fatalf("Unpack64 failed: %v", err)
	}
	if !bytes.Equal(got, r) {
		t.Error("Unpack64(Pack64(r)) != r")
	}
	if len(rest) != 0 {
		t.Errorf("expected no trailing bytes, got %d", len(rest))
	}
}

func TestUnpack32TruncatedFrame(t *testing.T) {
	_, _, err := Unpack32([]byte{0x00, 0x01})
	assertKind(t, err, errs.TruncatedFrame)
}

func TestUnpack64TruncatedFrame(t *testing.T) {
	_, _, err := Unpack64([]byte{0x00, 0x01, 0x02})
	assertKind(t, err, errs.TruncatedFrame)
}

func TestUnpackLengthMismatch(t *testing.T) {
	// Declares a 100-byte payload but only supplies 2.
	b := Pack32([]byte("xy"))
	binaryOverwriteLength(b, 100)
	_, _, err := Unpack32(b)
	assertKind(t, err, errs.LengthMismatch)
}

func TestPack32EmptyRoundTrip(t *testing.T) {
	packed := Pack32(nil)
	if len(packed) != 4 {
		t.Fatalf("expected 4-byte packed empty frame, got %d", len(packed))
	}
	got, rest, err := Unpack32(packed)
	if err != nil {
		t.Fatalf("Unpack32 failed: %v", err)
	}
	if len(got) != 0 || len(rest) != 0 {
		t.Errorf("expected empty payload and no trailing bytes, got %v / %v", got, rest)
	}
}

func assertKind(t *testing.T, err error, want errs.Kind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error of kind %v, got nil", want)
	}
	e, ok := err.(*errs.Error)
	if !ok {
		t.Fatalf("expected *errs.Error, got %T", err)
	}
	if e.Kind != want {
		t.Errorf("expected Kind %v, got %v", want, e.Kind)
	}
}

func binaryOverwriteLength(b []byte, n uint32) {
	b[0] = byte(n >> 24)
	b[1] = byte(n >> 16)
	b[2] = byte(n >> 8)
	b[3] = byte(n)
}
