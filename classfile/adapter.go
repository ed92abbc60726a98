package classfile

import (
	"fmt"

	"github.com/gojvm/corevm/thread"
)

// MethodHandle adapts a (ClassFile, MethodInfo) pair into thread's
// MethodMetadata contract (spec.md section 6): access flags, descriptor,
// and exception-table-driven handler resolution come straight from the
// parsed class, closing the loop scenario S4/S5 describe without needing
// any bytecode-semantics knowledge.
type MethodHandle struct {
	class    *ClassFile
	method   *MethodInfo
	loader   thread.ClassLoader
	lock     thread.Monitor
	nativeFn thread.NativeFunction
}

// NewMethodHandle wraps method (declared on class) for consumption by the
// thread package. loader resolves catch types referenced by the method's
// exception table; lock is consulted only when the method is synchronized;
// nativeFn is non-nil only for native methods.
func NewMethodHandle(class *ClassFile, method *MethodInfo, loader thread.ClassLoader, lock thread.Monitor, nativeFn thread.NativeFunction) *MethodHandle {
	return &MethodHandle{class: class, method: method, loader: loader, lock: lock, nativeFn: nativeFn}
}

var _ thread.MethodMetadata = (*MethodHandle)(nil)

func (h *MethodHandle) Name() string {
	return h.method.Name(h.class.ConstantPool)
}

func (h *MethodHandle) Descriptor() string {
	return h.method.Descriptor(h.class.ConstantPool)
}

// ReturnDescriptor extracts the return type character(s) trailing the
// closing paren of a method descriptor, e.g. "(ILjava/lang/String;)J" -> "J".
func (h *MethodHandle) ReturnDescriptor() string {
	desc := h.Descriptor()
	for i := 0; i < len(desc); i++ {
		if desc[i] == ')' {
			return desc[i+1:]
		}
	}
	return desc
}

func (h *MethodHandle) IsNative() bool       { return h.method.IsNative() }
func (h *MethodHandle) IsAbstract() bool     { return h.method.IsAbstract() }
func (h *MethodHandle) IsSynchronized() bool { return h.method.IsSynchronized() }
func (h *MethodHandle) IsInterface() bool    { return h.class.IsInterface() }

func (h *MethodHandle) ClassLoader() thread.ClassLoader { return h.loader }

func (h *MethodHandle) CodeAttribute() (thread.CodeAttribute, bool) {
	code := h.method.GetCodeAttribute(h.class.ConstantPool)
	if code == nil {
		return nil, false
	}
	return &CodeAttributeHandle{code: code, cp: h.class.ConstantPool}, true
}

func (h *MethodHandle) MethodLock(th *thread.Thread, frame *thread.BytecodeFrame) thread.Monitor {
	return h.lock
}

func (h *MethodHandle) NativeFunction() (thread.NativeFunction, bool) {
	if h.nativeFn == nil {
		return nil, false
	}
	return h.nativeFn, true
}

// ConvertArgs is a pass-through: argument marshalling by descriptor is
// bytecode/object-model territory (out of scope, spec.md section 1). A real
// embedder replaces this with descriptor-driven unboxing.
func (h *MethodHandle) ConvertArgs(th *thread.Thread, args []any) []any {
	return args
}

// CodeAttributeHandle adapts classfile's CodeAttribute (constant-pool
// indexed) into thread's CodeAttribute (resolved names), resolving each
// exception handler's catch-type index on every ExceptionTable call.
type CodeAttributeHandle struct {
	code *CodeAttribute
	cp   ConstantPool
}

var _ thread.CodeAttribute = (*CodeAttributeHandle)(nil)

func (c *CodeAttributeHandle) Code() []byte { return c.code.Code }

func (c *CodeAttributeHandle) MaxStack() int  { return int(c.code.MaxStack) }
func (c *CodeAttributeHandle) MaxLocals() int { return int(c.code.MaxLocals) }

func (c *CodeAttributeHandle) ExceptionTable() []thread.ExceptionTableEntry {
	out := make([]thread.ExceptionTableEntry, len(c.code.ExceptionTable))
	for i, entry := range c.code.ExceptionTable {
		catchType := ""
		if entry.CatchType != 0 {
			catchType = c.cp.GetClassName(entry.CatchType)
		}
		out[i] = thread.ExceptionTableEntry{
			StartPC:   int(entry.StartPC),
			EndPC:     int(entry.EndPC),
			HandlerPC: int(entry.HandlerPC),
			CatchType: catchType,
		}
	}
	return out
}

// String satisfies fmt.Stringer for log-friendly method identity.
func (h *MethodHandle) String() string {
	return fmt.Sprintf("%s.%s%s", h.class.ClassName(), h.Name(), h.Descriptor())
}
