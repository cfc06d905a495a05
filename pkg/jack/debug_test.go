package jack

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteTokenXMLEscapesAndNamesTags(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "Main.jack")

	tokens := []Token{
		{TokenKeyword, "class"},
		{TokenSymbol, "<"},
		{TokenIdentifier, "Main"},
	}
	require.NoError(t, writeTokenXML(src, tokens))

	out, err := os.ReadFile(filepath.Join(dir, "MainT.xml"))
	require.NoError(t, err)

	body := string(out)
	assert.Contains(t, body, "<keyword> class </keyword>")
	assert.Contains(t, body, "<symbol> &lt; </symbol>")
	assert.Contains(t, body, "<identifier> Main </identifier>")
}

func TestWriteTreeXMLWritesClassShape(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "Point.jack")

	class := &Class{
		Name: "Point",
		ClassVarDecs: []ClassVarDec{
			{Kind: ClassVarField, Type: "int", Names: []string{"x", "y"}},
		},
		Subroutines: []SubroutineDec{
			{Kind: SubroutineMethod, ReturnType: "void", Name: "move", Parameters: []Parameter{{Type: "int", Name: "dx"}}},
		},
	}
	require.NoError(t, writeTreeXML(src, class))

	out, err := os.ReadFile(filepath.Join(dir, "Point.xml"))
	require.NoError(t, err)

	body := string(out)
	assert.Contains(t, body, "<identifier> Point </identifier>")
	assert.Contains(t, body, "<classVarDec>")
	assert.Contains(t, body, "<identifier> x </identifier>")
	assert.Contains(t, body, "<symbol> , </symbol>")
	assert.Contains(t, body, "<subroutineDec>")
	assert.Contains(t, body, "<identifier> move </identifier>")
}
