package filetype

import "testing"

func TestDetectPNG(t *testing.T) {
	data := append([]byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}, []byte("rest of file")...)
	if got := Detect(data); got != PNG {
		t.Errorf("Detect() = %v, want PNG", got)
	}
}

func TestDetectPDF(t *testing.T) {
	data := []byte("%PDF-1.7\n...")
	if got := Detect(data); got != PDF {
		t.Errorf("Detect() = %v, want PDF", got)
	}
}

func TestDetectUnsupported(t *testing.T) {
	cases := [][]byte{
		[]byte("FOO\n"),
		[]byte(""),
		[]byte{0x89, 0x50},
		[]byte("%PD"),
	}
	for _, data := range cases {
		if got := Detect(data); got != Unsupported {
			t.Errorf("Detect(%q) = %v, want Unsupported", data, got)
		}
	}
}

func TestTypeString(t *testing.T) {
	if PNG.String() != "PNG" || PDF.String() != "PDF" || Unsupported.String() != "Unsupported" {
		t.Error("unexpected Type.String() output")
	}
}
