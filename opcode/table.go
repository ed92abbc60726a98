package opcode

import "github.com/gojvm/corevm/thread"

// Standard JVM opcode values used by the demo dispatch table.
const (
	OpNop             uint8 = 0
	OpIConstM1        uint8 = 2
	OpBiPush          uint8 = 16
	OpSiPush          uint8 = 17
	OpInvokeVirtual   uint8 = 182
	OpInvokeSpecial   uint8 = 183
	OpInvokeStatic    uint8 = 184
	OpInvokeInterface uint8 = 185
	OpInvokeDynamic   uint8 = 186
	OpReturn          uint8 = 177
	OpAReturn         uint8 = 176
	OpIReturn         uint8 = 172
	OpAThrow          uint8 = 191
)

// DemoTable is a minimal OpcodeTable sufficient to run cmd/corevmdemo's toy
// method body. It is explicitly not a general bytecode interpreter: most of
// the 256 opcodes are unmapped.
type DemoTable struct {
	invoker NativeInvoker
}

// NativeInvoker is how the demo table pushes a NativeFrame or resolves the
// callee method for an invoke opcode. cmd/corevmdemo supplies an invoker
// that does nothing, since its toy method body contains no invoke opcode.
type NativeInvoker interface {
	Invoke(th *thread.Thread, caller *thread.BytecodeFrame, classIndex uint16)
}

// NewDemoTable builds a dispatch table backed by invoker for invoke
// opcodes.
func NewDemoTable(invoker NativeInvoker) *DemoTable {
	return &DemoTable{invoker: invoker}
}

var _ thread.OpcodeTable = (*DemoTable)(nil)

func (t *DemoTable) Dispatch(op uint8) (thread.OpcodeFunc, bool) {
	switch op {
	case OpNop:
		return opNop, true
	case OpIConstM1:
		return opIConstM1, true
	case OpBiPush:
		return opBiPush, true
	case OpSiPush:
		return opSiPush, true
	case OpInvokeStatic, OpInvokeVirtual, OpInvokeSpecial:
		return t.invokeFn(), true
	case OpReturn:
		return opReturn, true
	case OpIReturn, OpAReturn:
		return opValueReturn, true
	case OpAThrow:
		return opAThrow, true
	default:
		return nil, false
	}
}

func opNop(th *thread.Thread, f *thread.BytecodeFrame, code []byte, pc int) {
	f.PC++
}

func opIConstM1(th *thread.Thread, f *thread.BytecodeFrame, code []byte, pc int) {
	f.Stack = append(f.Stack, int32(-1))
	f.PC++
}

func opBiPush(th *thread.Thread, f *thread.BytecodeFrame, code []byte, pc int) {
	f.Stack = append(f.Stack, int32(int8(code[pc+1])))
	f.PC += 2
}

func opSiPush(th *thread.Thread, f *thread.BytecodeFrame, code []byte, pc int) {
	v := int16(code[pc+1])<<8 | int16(code[pc+2])
	f.Stack = append(f.Stack, int32(v))
	f.PC += 3
}

func (t *DemoTable) invokeFn() thread.OpcodeFunc {
	return func(th *thread.Thread, f *thread.BytecodeFrame, code []byte, pc int) {
		classIndex := uint16(code[pc+1])<<8 | uint16(code[pc+2])
		t.invoker.Invoke(th, f, classIndex)
		f.ReturnToThreadLoop = true
	}
}

func opReturn(th *thread.Thread, f *thread.BytecodeFrame, code []byte, pc int) {
	th.AsyncReturn(nil, nil)
	f.ReturnToThreadLoop = true
}

func opValueReturn(th *thread.Thread, f *thread.BytecodeFrame, code []byte, pc int) {
	var rv any
	if len(f.Stack) > 0 {
		rv = f.Stack[len(f.Stack)-1]
	}
	th.AsyncReturn(rv, nil)
	f.ReturnToThreadLoop = true
}

func opAThrow(th *thread.Thread, f *thread.BytecodeFrame, code []byte, pc int) {
	var exc any
	if len(f.Stack) > 0 {
		exc = f.Stack[len(f.Stack)-1]
	}
	th.ThrowException(exc)
	f.ReturnToThreadLoop = true
}
