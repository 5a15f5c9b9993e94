// Command machine loads and executes a QVM bytecode image.
package main

import (
	"flag"
	"fmt"
	"os"

	"quarkvm/vm"
)

func main() {
	debugMode := flag.Bool("debug", false, "run in single-step debug mode")
	stackSize := flag.Int("stack", 0, "evaluation stack capacity (0 = default)")
	flag.Parse()

	args := flag.Args()
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "usage: machine [-debug] [-stack N] <program.qvm>")
		os.Exit(1)
	}

	program, err := qvm.ReadProgramFile(args[0])
	if err != nil {
		fmt.Fprintln(os.Stderr, "could not read", args[0], ":", err)
		os.Exit(1)
	}

	m := qvm.NewVM(program, *stackSize)
	if *debugMode {
		m.RunDebug()
	} else {
		m.Run()
	}

	os.Exit(m.ExitCode())
}
