package model

import "testing"

func TestShortLabelExtraction(t *testing.T) {
	l := Label{Text: "BBC Radio 1", ShortMask: DefaultShortMask("BBC Radio 1")}
	if got := l.ShortLabel(); got != "BBC Radi" {
		t.Fatalf("ShortLabel() = %q, want %q", got, "BBC Radi")
	}
}

func TestPaddedTextTruncatesAndPads(t *testing.T) {
	short := Label{Text: "Hi"}
	padded := short.PaddedText()
	if padded[0] != 'H' || padded[1] != 'i' || padded[2] != ' ' {
		t.Fatalf("unexpected padding: %q", padded)
	}

	long := Label{Text: "This label text is far too long for DAB"}
	paddedLong := long.PaddedText()
	if len(paddedLong) != LabelMaxLen {
		t.Fatalf("expected fixed width %d, got %d", LabelMaxLen, len(paddedLong))
	}
}

func TestEBULatinEncodeReplacesNonASCII(t *testing.T) {
	out := EBULatinEncode("Café")
	if out[len(out)-1] != '?' {
		t.Fatalf("expected trailing accented rune replaced with '?', got %q", out)
	}
}
