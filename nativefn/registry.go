// Package nativefn generalizes the native-method registry pattern to the
// corevm Frame/Thread types: a lookup table keyed by "class.method"
// followed directly by the descriptor (e.g. "Math.sqrt(D)D"), mapping onto
// thread.NativeFunction.
package nativefn

import "github.com/gojvm/corevm/thread"

// Registry is a lookup table of native methods keyed by
// "className.methodName" + descriptor.
type Registry struct {
	methods map[string]thread.NativeFunction
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{methods: map[string]thread.NativeFunction{}}
}

func key(className, methodName, descriptor string) string {
	return className + "." + methodName + descriptor
}

// Register adds fn under the given class/method/descriptor key, overwriting
// any existing registration (later registrations win, matching the
// teacher's registry behaviour).
func (r *Registry) Register(className, methodName, descriptor string, fn thread.NativeFunction) {
	r.methods[key(className, methodName, descriptor)] = fn
}

// Lookup finds a previously registered native function.
func (r *Registry) Lookup(className, methodName, descriptor string) (thread.NativeFunction, bool) {
	fn, ok := r.methods[key(className, methodName, descriptor)]
	return fn, ok
}

// Count returns the number of registered natives, for diagnostics.
func (r *Registry) Count() int { return len(r.methods) }
