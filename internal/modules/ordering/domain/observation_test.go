package domain

import "testing"

func TestComposeObservations(t *testing.T) {
	lines := []CartLine{
		{Note: " Bitoque: sem guarnição "},
		{Note: ""},
		{Note: "   "},
		{Note: "Frango: Grátis: Arroz"},
	}

	cases := []struct {
		name     string
		manual   string
		lines    []CartLine
		expected string
	}{
		{name: "both", manual: " sem sal ", lines: lines, expected: "sem sal\n\n---\nBitoque: sem guarnição\nFrango: Grátis: Arroz"},
		{name: "manual only", manual: "tocar à campainha", lines: nil, expected: "tocar à campainha"},
		{name: "auto only", manual: "  ", lines: lines, expected: "Bitoque: sem guarnição\nFrango: Grátis: Arroz"},
		{name: "none", manual: "", lines: []CartLine{{Note: " "}}, expected: ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ComposeObservations(tc.manual, tc.lines); got != tc.expected {
				t.Fatalf("expected %q got %q", tc.expected, got)
			}
		})
	}
}

func TestComposeObservationsIsDeterministic(t *testing.T) {
	lines := []CartLine{{Note: "A: sem guarnição"}, {Note: "B: Grátis: Arroz"}}
	first := ComposeObservations("nota", lines)
	for i := 0; i < 3; i++ {
		if again := ComposeObservations("nota", lines); again != first {
			t.Fatalf("compose output drifted: %q vs %q", first, again)
		}
	}
}
