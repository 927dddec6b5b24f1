package transpiler

import (
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"

	"github.com/starlight-tv/bsc/internal/parser"
)

// TestTranspileSnapshots pins the lowered output for a handful of
// representative S-dialect inputs, the way the teacher's fixture harness
// uses go-snaps to pin interpreter output.
func TestTranspileSnapshots(t *testing.T) {
	cases := map[string]string{
		"assignment":    "x = 1 + 2 * 3\n",
		"if_else":       "if x > 0 then\nprint \"positive\"\nelse\nprint \"non-positive\"\nend if\n",
		"for_each":      "for each item in items\nprint item\nend for\n",
		"class_extends": "class Dog extends Animal\npublic sub bark()\nprint \"woof\"\nend sub\nend class\n",
	}

	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			prog, bag := parser.Parse(src, name+".bs")
			if bag.HasErrors() {
				t.Fatalf("unexpected parse errors in %s: %v", name, bag.All())
			}
			result := New(name+".bs", name+".brs").Transpile(prog)
			snaps.MatchSnapshot(t, result.Code)
		})
	}
}
