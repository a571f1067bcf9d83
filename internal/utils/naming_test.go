package utils

import (
	"math"
	"testing"
)

func TestDownloadName(t *testing.T) {
	cases := []struct{ file, ext, want string }{
		{"Roboto-Flex-Variable.ttf", "ttf", "Roboto-Flex-Variable-Custom.ttf"},
		{"Roboto-Flex-Variable.ttf", "woff2", "Roboto-Flex-Variable-Custom.woff2"},
		{"Inter.var.otf", ".ttf", "Inter.var-Custom.ttf"},
		{"NoExt", "ttf", "NoExt-Custom.ttf"},
	}
	for _, c := range cases {
		if got := DownloadName(c.file, c.ext); got != c.want {
			t.Fatalf("DownloadName(%q,%q)=%q want %q", c.file, c.ext, got, c.want)
		}
	}
}

func TestValidAxisTag(t *testing.T) {
	for _, tag := range []string{"wght", "wdth", "GRAD", "opsz", "ital", "X"} {
		if !ValidAxisTag(tag) {
			t.Fatalf("expected %q to be valid", tag)
		}
	}
	for _, tag := range []string{"", "weight", "wg t", "w=1", "-o", "wgh\n", "ü"} {
		if ValidAxisTag(tag) {
			t.Fatalf("expected %q to be invalid", tag)
		}
	}
}

func TestFinite(t *testing.T) {
	if !Finite(400) || Finite(math.NaN()) || Finite(math.Inf(-1)) {
		t.Fatalf("Finite misclassified")
	}
}
