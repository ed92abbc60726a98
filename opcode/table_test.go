package opcode

import (
	"testing"

	"github.com/gojvm/corevm/thread"
)

type recordingInvoker struct {
	th         *thread.Thread
	classIndex uint16
	calls      int
}

func (r *recordingInvoker) Invoke(th *thread.Thread, caller *thread.BytecodeFrame, classIndex uint16) {
	r.th = th
	r.classIndex = classIndex
	r.calls++
}

func TestDemoTableDispatchKnownOpcodes(t *testing.T) {
	table := NewDemoTable(&recordingInvoker{})
	known := []uint8{OpNop, OpIConstM1, OpBiPush, OpSiPush, OpInvokeStatic, OpInvokeVirtual, OpInvokeSpecial, OpReturn, OpIReturn, OpAReturn, OpAThrow}
	for _, op := range known {
		if _, ok := table.Dispatch(op); !ok {
			t.Errorf("Dispatch(%d) not found, want a registered handler", op)
		}
	}
}

func TestDemoTableDispatchUnknownOpcode(t *testing.T) {
	table := NewDemoTable(&recordingInvoker{})
	if _, ok := table.Dispatch(0xFE); ok {
		t.Fatal("Dispatch(0xFE) should be unregistered in the demo table")
	}
}

func TestOpBiPushSignExtends(t *testing.T) {
	f := thread.NewBytecodeFrame(nil, nil, nil, nil)
	code := []byte{OpBiPush, 0xFF} // -1 as a signed byte
	opBiPush(nil, f, code, 0)
	if len(f.Stack) != 1 || f.Stack[0] != int32(-1) {
		t.Fatalf("stack = %v, want [-1]", f.Stack)
	}
	if f.PC != 2 {
		t.Fatalf("pc = %d, want 2", f.PC)
	}
}

func TestOpSiPushWidens16Bits(t *testing.T) {
	f := thread.NewBytecodeFrame(nil, nil, nil, nil)
	code := []byte{OpSiPush, 0x01, 0x02}
	opSiPush(nil, f, code, 0)
	if len(f.Stack) != 1 || f.Stack[0] != int32(0x0102) {
		t.Fatalf("stack = %v, want [258]", f.Stack)
	}
	if f.PC != 3 {
		t.Fatalf("pc = %d, want 3", f.PC)
	}
}

func TestInvokeFnDelegatesToInvoker(t *testing.T) {
	invoker := &recordingInvoker{}
	table := NewDemoTable(invoker)
	fn, ok := table.Dispatch(OpInvokeVirtual)
	if !ok {
		t.Fatal("expected invokevirtual to be registered")
	}
	f := thread.NewBytecodeFrame(nil, nil, nil, nil)
	code := []byte{OpInvokeVirtual, 0x00, 0x07}
	fn(nil, f, code, 0)

	if invoker.calls != 1 {
		t.Fatalf("invoker called %d times, want 1", invoker.calls)
	}
	if invoker.classIndex != 7 {
		t.Fatalf("classIndex = %d, want 7", invoker.classIndex)
	}
	if !f.ReturnToThreadLoop {
		t.Fatal("invoke opcode must set ReturnToThreadLoop")
	}
}

func TestLayoutOfKnownAndUnknown(t *testing.T) {
	if l, ok := LayoutOf(OpBiPush); !ok || l != LayoutInt8Value {
		t.Fatalf("LayoutOf(OpBiPush) = (%v, %v), want (LayoutInt8Value, true)", l, ok)
	}
	if _, ok := LayoutOf(0xFE); ok {
		t.Fatal("LayoutOf(0xFE) should be unknown in the demo table")
	}
}

func TestWidthOfInvokeFamily(t *testing.T) {
	tests := []struct {
		op   uint8
		want int
	}{
		{OpInvokeInterface, InvokeInterfaceWidth},
		{OpInvokeVirtual, OrdinaryInvokeWidth},
		{OpInvokeStatic, OrdinaryInvokeWidth},
		{OpInvokeSpecial, OrdinaryInvokeWidth},
		{OpInvokeDynamic, OrdinaryInvokeWidth},
	}
	for _, tc := range tests {
		got, ok := WidthOf(tc.op)
		if !ok || got != tc.want {
			t.Errorf("WidthOf(%d) = (%d, %v), want (%d, true)", tc.op, got, ok, tc.want)
		}
	}
	if _, ok := WidthOf(OpNop); ok {
		t.Fatal("WidthOf(OpNop) should be false, nop is not an invoke")
	}
}
