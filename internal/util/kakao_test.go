package util

import (
	"strings"
	"testing"
)

func TestSeeMoreFoldsBody(t *testing.T) {
	out := SeeMore("Header", "line one\nline two")
	if !strings.HasPrefix(out, "Header"+KakaoZeroWidthSpace) {
		t.Fatalf("header must precede padding: %q", out[:20])
	}
	if got := strings.Count(out, KakaoZeroWidthSpace); got != KakaoSeeMorePadding {
		t.Fatalf("padding count = %d", got)
	}
	if !strings.HasSuffix(out, "\nline one\nline two") {
		t.Fatalf("body missing")
	}
}

func TestSeeMoreStripsDuplicateHeader(t *testing.T) {
	out := SeeMore("Header", "Header\n\nbody")
	if strings.Count(out, "Header") != 1 {
		t.Fatalf("header duplicated: %q", out)
	}
	if !strings.HasSuffix(out, "\nbody") {
		t.Fatalf("body missing")
	}
}

func TestSeeMoreEmptyBody(t *testing.T) {
	if out := SeeMore(" Header ", "  "); out != "Header" {
		t.Fatalf("got %q", out)
	}
}
