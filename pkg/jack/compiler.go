package jack

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Compiler runs the four-stage pipeline (preprocess, lex, parse, generate)
// over one or more source files. Each file is compiled to completion
// independently; no mutable state spans files, so directory mode fans out
// one goroutine per file via errgroup.
type Compiler struct {
	// EmitXML enables the optional diagnostic token/tree dump alongside the
	// normal VM output (spec.md §6's "optional debug writer").
	EmitXML bool
}

func NewCompiler() *Compiler {
	return &Compiler{}
}

// Result is the outcome of compiling a single file.
type Result struct {
	Filename string
	VMText   string
	Err      *CompileError
}

// CompileFile runs preprocessing, tokenization, parsing and code generation
// over one source file and returns the joined VM text.
func (c *Compiler) CompileFile(path string) Result {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Result{Filename: path, Err: newLexError(path, err.Error())}
	}

	className := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	cleaned := Preprocess(string(raw))

	tokens, lexErr := Lex(path, cleaned)
	if lexErr != nil {
		return Result{Filename: path, Err: lexErr}
	}

	stream := NewTokenStream(path, tokens)

	if c.EmitXML {
		if err := writeTokenXML(path, tokens); err != nil {
			return Result{Filename: path, Err: newEmitError(path, err.Error())}
		}
		stream.Reset()
	}

	parser := NewParser(path, stream)
	class, parseErr := parser.ParseClass()
	if parseErr != nil {
		return Result{Filename: path, Err: parseErr}
	}

	if c.EmitXML {
		if err := writeTreeXML(path, class); err != nil {
			return Result{Filename: path, Err: newEmitError(path, err.Error())}
		}
	}

	gen := NewGenerator(path, className, parser.classTable)
	lines, genErr := gen.GenerateClass(class)
	if genErr != nil {
		return Result{Filename: path, Err: genErr}
	}

	vm := strings.Join(lines, "\n")
	if vm != "" {
		vm += "\n"
	}

	return Result{Filename: path, VMText: vm}
}

// CompileFileToDisk compiles one file and writes the VM text to a sibling
// file with the same stem and a ".vm" extension.
func (c *Compiler) CompileFileToDisk(path string) *CompileError {
	result := c.CompileFile(path)
	if result.Err != nil {
		return result.Err
	}

	outPath := strings.TrimSuffix(path, filepath.Ext(path)) + ".vm"
	if err := os.WriteFile(outPath, []byte(result.VMText), 0o644); err != nil {
		return newEmitError(path, err.Error())
	}

	return nil
}

// CompileDirectory compiles every direct child of dir with a ".jack"
// extension, independently and concurrently: per spec.md §5, no shared
// mutable state spans files, so a goroutine per file is safe.
func (c *Compiler) CompileDirectory(ctx context.Context, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}

	g, _ := errgroup.WithContext(ctx)
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".jack" {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		g.Go(func() error {
			if cerr := c.CompileFileToDisk(path); cerr != nil {
				return cerr
			}
			return nil
		})
	}

	return g.Wait()
}
