// Command blitshaderc compiles shader sources to SPIR-V binaries.
//
// Every file under the given directories whose extension names a stage
// (.vert, .frag or .comp) is compiled, and the binary is written next to it
// as <file>.spv. Each module must define a "main" entry point for its stage.
//
// Usage:
//
//	blitshaderc [-v] dir...
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/gogpu/blit/shader"
)

func main() {
	verbose := flag.Bool("v", false, "log every compiled file")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: blitshaderc [-v] dir...\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	if *verbose {
		shader.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	total, err := compileDirs(flag.Args())
	if err != nil {
		log.Fatalf("blitshaderc: %v", err)
	}
	log.Printf("Compiled %d shader(s)\n", total)
}

// compileDirs compiles every shader tree in dirs and returns the number of
// binaries written.
func compileDirs(dirs []string) (int, error) {
	total := 0
	for _, dir := range dirs {
		outputs, err := shader.CompileTree(dir)
		total += len(outputs)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
