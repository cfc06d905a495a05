package jack

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPreprocess(t *testing.T) {
	cases := []struct {
		name   string
		input  string
		expect string
	}{
		{
			name:   "strips trailing line comment",
			input:  "let x = 1; // comment\n",
			expect: "let x = 1;",
		},
		{
			name:   "drops a comment-only line",
			input:  "/* comment */\nlet x = 1;",
			expect: "let x = 1;",
		},
		{
			name:   "block comment spans multiple lines",
			input:  "let x = 1;\n/* multi\nline\ncomment */\nlet y = 2;",
			expect: "let x = 1;let y = 2;",
		},
		{
			name:   "doc comment form is stripped the same way",
			input:  "/** API doc */\nclass Main {\n}",
			expect: "class Main {}",
		},
		{
			name:   "double slash inside a block comment is not a line comment",
			input:  "/* // inner */\nlet x = 1;",
			expect: "let x = 1;",
		},
		{
			name:   "blank lines are dropped",
			input:  "let x = 1;\n\n\nlet y = 2;",
			expect: "let x = 1;let y = 2;",
		},
		{
			name:   "two block comments on separate lines both stripped",
			input:  "/* one */\na\n/* two */\nb",
			expect: "ab",
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.expect, Preprocess(c.input))
		})
	}
}
