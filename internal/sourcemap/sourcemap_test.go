package sourcemap

import (
	"strings"
	"testing"

	"github.com/starlight-tv/bsc/internal/lexer"
)

func TestEncodeSegmentsRoundTripShape(t *testing.T) {
	b := NewBuilder("out.brs")
	b.Add(0, 0, "in.bs", lexer.Range{Start: lexer.Position{Line: 1, Column: 0}})
	b.Add(0, 4, "in.bs", lexer.Range{Start: lexer.Position{Line: 1, Column: 4}})
	b.Add(1, 0, "in.bs", lexer.Range{Start: lexer.Position{Line: 2, Column: 0}})

	segs := b.EncodeSegments()
	if !strings.Contains(segs, ";") {
		t.Fatalf("expected a ';' line separator in %q", segs)
	}
	if !strings.Contains(segs, ",") {
		t.Fatalf("expected a ',' segment separator in %q", segs)
	}
}

func TestJSONIncludesSources(t *testing.T) {
	b := NewBuilder("out.brs")
	b.Add(0, 0, "in.bs", lexer.Range{Start: lexer.Position{Line: 1, Column: 0}})
	js := b.JSON()
	if !strings.Contains(js, `"in.bs"`) {
		t.Fatalf("expected source file name in JSON: %s", js)
	}
	if !strings.Contains(js, `"version":3`) {
		t.Fatalf("expected version 3 in JSON: %s", js)
	}
}
