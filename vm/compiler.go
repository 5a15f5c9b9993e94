package qvm

import (
	"fmt"

	"github.com/x448/float16"
)

// Compile runs the two-pass assembler: build a label table, then
// emit a flattened Instruction stream, resolving Variable names against
// either the label table or a bump-allocated constant-pool slot table.
// If a label named "main" is present, a CALL main is prepended at index
// 0 — the label table is built with that prefix already accounted for
// (pass 1 starts its instruction counter at 1 when main is present) so
// no post-hoc address rewrite is needed.
func Compile(nodes []ASTNode) ([]Instruction, error) {
	hasMain := false
	for _, n := range nodes {
		if l, ok := n.(LabelNode); ok && l.Name == "main" {
			hasMain = true
			break
		}
	}

	labels := make(map[string]uint16)
	counter := uint16(0)
	if hasMain {
		counter = 1
	}
	for _, n := range nodes {
		switch v := n.(type) {
		case InstrNode:
			counter++
		case LabelNode:
			labels[v.Name] = counter
		}
	}

	consts := make(map[string]uint16)
	constCounter := uint16(0)

	instructions := make([]Instruction, 0, len(nodes))
	for _, n := range nodes {
		instr, ok := n.(InstrNode)
		if !ok {
			continue
		}

		args, err := flattenArgs(instr, labels, consts, &constCounter)
		if err != nil {
			return nil, err
		}
		instructions = append(instructions, Instruction{Op: instr.Op, Args: args})
	}

	if hasMain {
		mainAddr, ok := labels["main"]
		if !ok {
			return nil, fmt.Errorf("internal error: main label missing after pass 1")
		}
		prefixed := make([]Instruction, 0, len(instructions)+1)
		prefixed = append(prefixed, Instruction{Op: CALL, Args: []Word{WordFromU16(mainAddr)}})
		prefixed = append(prefixed, instructions...)
		instructions = prefixed
	}

	return instructions, nil
}

func flattenArgs(instr InstrNode, labels, consts map[string]uint16, constCounter *uint16) ([]Word, error) {
	words := make([]Word, 0, len(instr.Args)+1)
	for _, a := range instr.Args {
		switch a.Kind {
		case ArgNumber:
			if a.IsFloat {
				words = append(words, WordFromF16(float16.Fromfloat32(float32(a.NumVal))))
			} else {
				words = append(words, WordFromU16(uint16(a.NumVal)))
			}
		case ArgString:
			runes := []rune(a.Str)
			words = append(words, WordFromU16(uint16(len(runes))))
			for _, r := range runes {
				words = append(words, WordFromChar(r))
			}
		case ArgVariable:
			if addr, ok := labels[a.Str]; ok {
				words = append(words, WordFromU16(addr))
				continue
			}
			slot, ok := consts[a.Str]
			if !ok {
				slot = *constCounter
				consts[a.Str] = slot
				*constCounter++
			}
			words = append(words, WordFromU16(slot))
		default:
			return nil, fmt.Errorf("%w: instruction %s line %d", errUnexpectedArgument, instr.Op, instr.Line)
		}
	}
	return words, nil
}

// AssembleSource runs the full lex -> parse -> compile pipeline over one
// source buffer.
func AssembleSource(source string) ([]Instruction, error) {
	lexer := NewLexer(source)
	tokens, err := lexer.Lex()
	if err != nil {
		return nil, err
	}

	parser := NewParser(tokens)
	nodes, err := parser.Parse()
	if err != nil {
		return nil, err
	}

	return Compile(nodes)
}
