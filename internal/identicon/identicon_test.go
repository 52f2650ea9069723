package identicon

import (
	"encoding/base64"
	"strings"
	"testing"
)

func TestGenerateDeterministic(t *testing.T) {
	gen := New()

	first, err := gen.Generate("0x00a329c0648769a73afac7f9381e08fb43dbea72")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	second, err := gen.Generate("0x00a329c0648769a73afac7f9381e08fb43dbea72")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if first != second {
		t.Fatal("same seed produced different identicons")
	}

	other, err := gen.Generate("0x1111111111111111111111111111111111111111")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if other == first {
		t.Fatal("different seeds produced identical identicons")
	}
}

func TestGenerateDataURLShape(t *testing.T) {
	gen := New()
	url, err := gen.Generate("0xabc")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	const prefix = "data:image/png;base64,"
	if !strings.HasPrefix(url, prefix) {
		t.Fatalf("expected PNG data URL, got %q", url[:min(len(url), 40)])
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(url, prefix))
	if err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	// PNG magic bytes
	if len(raw) < 8 || raw[0] != 0x89 || string(raw[1:4]) != "PNG" {
		t.Fatal("payload is not a PNG image")
	}
}
