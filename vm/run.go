package qvm

import (
	"bufio"
	"fmt"
	"os"
	"runtime/debug"
	"strconv"
	"strings"
)

// getDefaultRecoverFunc turns an internal panic (out-of-range slice
// access, etc.) into a fatal errcode (so ExitCode reports failure) and a
// one-line diagnostic naming the offending instruction.
func getDefaultRecoverFunc(vm *VM) func() {
	return func() {
		if r := recover(); r != nil {
			err := vm.errcode
			if err == nil {
				err = errSegmentationFault
			}
			vm.errcode = err
			pc := vm.pc
			if pc > 0 {
				pc--
			}
			fmt.Fprintf(os.Stderr, "%s at instruction %d: %s\n", err, pc, vm.formatInstruction(pc))
		}
	}
}

func (vm *VM) formatInstruction(pc uint16) string {
	if int(pc) < len(vm.program) {
		return vm.program[pc].String()
	}
	return ""
}

// Run executes the loaded program to completion (or to a fatal error),
// disabling the GC for the duration of the tight instruction loop — heap
// growth happens through ALLOC/ALLOC_RAW/PUSH_STR/REF, not
// general-purpose allocation, so the collector has nothing useful to do
// here.
func (vm *VM) Run() {
	key, ok := os.LookupEnv("GOGC")
	gcPercent := 100
	if ok {
		if v, err := strconv.Atoi(key); err == nil {
			gcPercent = v
		}
	}

	defer getDefaultRecoverFunc(vm)()
	defer debug.SetGCPercent(gcPercent)
	debug.SetGCPercent(-1)

	for {
		vm.execNextInstruction()
		if vm.errcode != nil {
			if vm.errcode != errProgramFinished {
				fmt.Fprintln(os.Stderr, vm.errcode)
			}
			return
		}
	}
}

// ExitCode returns the process exit status this run should report: the
// STD_SYSCALL 0 exit code if one was set, 0 on clean fall-through, 1 on
// any other fatal errcode.
func (vm *VM) ExitCode() int {
	switch vm.errcode {
	case nil, errProgramFinished:
		return vm.exitCode
	default:
		return 1
	}
}

// RunDebug is a single-step REPL: n/next single-steps, r/run free-runs,
// b/break toggles a breakpoint, program dumps the loaded instruction
// stream.
func (vm *VM) RunDebug() {
	defer getDefaultRecoverFunc(vm)()

	fmt.Println("Commands:\n\tn or next: execute next instruction\n\tr or run: run program\n\tb or break <addr>: toggle breakpoint")
	vm.printCurrentState()

	reader := bufio.NewReader(os.Stdin)
	waitForInput := true
	breakpoints := make(map[uint16]struct{})
	lastBreak := int32(-1)

	for {
		line := ""
		if waitForInput {
			fmt.Print("\n->")
			line, _ = reader.ReadString('\n')
			line = strings.ToLower(strings.TrimSpace(line))
		} else if _, hit := breakpoints[vm.pc]; hit && lastBreak != int32(vm.pc) {
			fmt.Println("breakpoint")
			vm.printCurrentState()
			waitForInput = true
			lastBreak = int32(vm.pc)
			continue
		}

		switch {
		case !waitForInput || line == "n" || line == "next":
			lastBreak = -1
			vm.execNextInstruction()
			if waitForInput {
				vm.printCurrentState()
			}
			if vm.errcode != nil {
				if vm.errcode != errProgramFinished {
					fmt.Println(vm.errcode)
				}
				return
			}
		case line == "program":
			vm.printProgram()
		case line == "r" || line == "run":
			waitForInput = false
		case strings.HasPrefix(line, "b"):
			arg := strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(line, "break"), "b"))
			addr, err := strconv.Atoi(arg)
			if err != nil {
				fmt.Println("unknown address:", err)
				continue
			}
			if _, ok := breakpoints[uint16(addr)]; ok {
				delete(breakpoints, uint16(addr))
			} else {
				breakpoints[uint16(addr)] = struct{}{}
			}
		}
	}
}

func (vm *VM) printCurrentState() {
	if instr := vm.formatInstruction(vm.pc); instr != "" {
		fmt.Printf("  next instruction> %d: %s\n", vm.pc, instr)
	}
	fmt.Println("  stack>", vm.stack)
	fmt.Println("  call stack>", vm.callStack)
}

func (vm *VM) printProgram() {
	for i, instr := range vm.program {
		fmt.Printf(" %d: %s\n", i, instr)
	}
}
