package qvm

import "errors"

// Runtime fatal conditions, as plain sentinel errors rather than a
// custom error-code framework.
var (
	errProgramFinished     = errors.New("ran out of instructions")
	errStackOverflow       = errors.New("stack overflow")
	errStackUnderflow      = errors.New("stack underflow")
	errSegmentationFault   = errors.New("segmentation fault")
	errDivisionByZero      = errors.New("division by zero")
	errUnknownInstruction  = errors.New("instruction not recognized")
	errCallStackUnderflow  = errors.New("return with empty call stack")
	errPoolOutOfRange      = errors.New("constant pool index out of range")
	errUnknownFD           = errors.New("unknown file descriptor")
	errUnknownLibrary      = errors.New("unknown library handle")
	errMissingSymbol       = errors.New("missing library symbol")
	errUnsupportedFFIArg   = errors.New("unsupported FFI argument tag")
	errIO                  = errors.New("input-output error")
	errUnsupportedSyscall  = errors.New("raw syscalls not supported on this platform")
)

// Lex/Parse/Compile/Codec errors carry their own offending-position context
// via fmt.Errorf("%w", ...) wrapping rather than a dedicated error-kind enum.
var (
	errEOFWithNoTokens          = errors.New("no tokens produced from source")
	errInvalidNumber            = errors.New("invalid number")
	errUnexpectedCharacter      = errors.New("unexpected character")
	errUnterminatedString       = errors.New("unterminated string literal")
	errUnexpectedEOF            = errors.New("unexpected end of input")
	errUnexpectedToken          = errors.New("unexpected token")
	errInvalidInstructionFormat = errors.New("invalid instruction format")
	errUnexpectedArgument       = errors.New("argument kind not allowed here")
	errUnknownOpcodeTag         = errors.New("unknown opcode tag")
	errUnknownWordTag           = errors.New("unknown word tag")
)
