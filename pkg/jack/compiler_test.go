package jack

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const simpleClassSrc = `
class Main {
	function void main() {
		do Output.printInt(1);
		return;
	}
}
`

func TestCompileFileProducesJoinedVMText(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Main.jack")
	require.NoError(t, os.WriteFile(path, []byte(simpleClassSrc), 0o644))

	c := NewCompiler()
	result := c.CompileFile(path)

	require.Nil(t, result.Err)
	assert.Equal(t, path, result.Filename)
	assert.Contains(t, result.VMText, "function Main.main 0")
	assert.Contains(t, result.VMText, "call Output.printInt 1")
}

func TestCompileFilePropagatesLexErrorOnMissingFile(t *testing.T) {
	c := NewCompiler()
	result := c.CompileFile(filepath.Join(t.TempDir(), "missing.jack"))
	require.NotNil(t, result.Err)
}

func TestCompileFileToDiskWritesSiblingVMFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Main.jack")
	require.NoError(t, os.WriteFile(path, []byte(simpleClassSrc), 0o644))

	c := NewCompiler()
	require.Nil(t, c.CompileFileToDisk(path))

	out, err := os.ReadFile(filepath.Join(dir, "Main.vm"))
	require.NoError(t, err)
	assert.Contains(t, string(out), "function Main.main 0")
}

func TestCompileDirectoryCompilesEveryJackFileConcurrently(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Main.jack"), []byte(simpleClassSrc), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Other.jack"), []byte(`
		class Other {
			function void run() {
				return;
			}
		}
	`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignore me"), 0o644))

	c := NewCompiler()
	require.NoError(t, c.CompileDirectory(context.Background(), dir))

	_, err := os.Stat(filepath.Join(dir, "Main.vm"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "Other.vm"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "notes.vm"))
	assert.True(t, os.IsNotExist(err))
}

func TestCompileDirectoryFailsIfAnyFileFails(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Bad.jack"), []byte("class {"), 0o644))

	c := NewCompiler()
	assert.Error(t, c.CompileDirectory(context.Background(), dir))
}
