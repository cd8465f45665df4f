package stack

// Frame is one call site of a captured stack, as V8 describes it to
// "Error.prepareStackTrace".
type Frame struct {
	Filename     string
	Line         int // 1-based
	Column       int // 1-based
	FunctionName string
	MethodName   string
	TypeName     string

	IsNative      bool
	IsTopLevel    bool
	IsConstructor bool
	IsAsync       bool
	IsPromiseAll  bool
	PromiseIndex  int

	// The runtime's own rendering of the frame, used when it cannot be remapped
	Raw string
}
