package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.jackc.dev/pkg/jack"
)

func main() {
	var emitXML bool

	root := &cobra.Command{
		Use:   "jackc <file.jack|directory>",
		Short: "Compile source files to VM text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(args[0], emitXML)
		},
	}

	root.Flags().BoolVar(&emitXML, "xml", false, "emit diagnostic token/tree XML dumps alongside the VM output")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(target string, emitXML bool) error {
	info, err := os.Stat(target)
	if err != nil {
		return err
	}

	compiler := jack.NewCompiler()
	compiler.EmitXML = emitXML

	if info.IsDir() {
		return compiler.CompileDirectory(context.Background(), target)
	}

	if filepath.Ext(target) != ".jack" {
		return fmt.Errorf("expected a .jack file or a directory, got %q", target)
	}

	if cerr := compiler.CompileFileToDisk(target); cerr != nil {
		return cerr
	}

	return nil
}
