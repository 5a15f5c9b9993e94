// Command assembler compiles QVM assembly source into a bytecode image.
package main

import (
	"fmt"
	"os"

	"quarkvm/vm"
)

func main() {
	if len(os.Args) != 3 {
		fmt.Fprintln(os.Stderr, "usage: assembler <input.qasm> <output.qvm>")
		os.Exit(1)
	}

	inPath, outPath := os.Args[1], os.Args[2]

	source, err := os.ReadFile(inPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "could not read", inPath, ":", err)
		os.Exit(1)
	}

	program, err := qvm.AssembleSource(string(source))
	if err != nil {
		fmt.Fprintln(os.Stderr, "assemble error:", err)
		os.Exit(1)
	}

	if err := qvm.WriteProgramFile(outPath, program); err != nil {
		fmt.Fprintln(os.Stderr, "could not write", outPath, ":", err)
		os.Exit(1)
	}
}
