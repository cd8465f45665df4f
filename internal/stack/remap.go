package stack

import (
	"fmt"
	"strings"

	"github.com/jymfony/scriba/internal/transform"
)

// Frames of this function are an artifact of lazy construction and never
// shown.
const LazyConstructHelper = "_construct_jobject"

// Formatter renders an error message and its frames into the text of
// "error.stack".
type Formatter func(message string, frames []Frame) string

// Remap renders the stack with every frame translated back to the original
// source. Frames of native code or of files without a registered source map
// are kept as the runtime rendered them. When no frame could be translated
// and "previous" is set, previous is returned unchanged.
func (r *Registry) Remap(message string, frames []Frame, previous *string) string {
	remapped := false
	lines := make([]string, 0, len(frames))

	for _, frame := range frames {
		if frame.FunctionName == LazyConstructHelper {
			continue
		}
		line, ok := r.remapFrame(frame)
		remapped = remapped || ok
		lines = append(lines, line)
	}

	if previous != nil && !remapped {
		return *previous
	}
	return message + "\n\n    at " + strings.Join(lines, "\n    at ")
}

// Hook returns a formatter that remaps stacks. The output of the previously
// installed formatter, if any, is the fallback.
func (r *Registry) Hook(prev Formatter) Formatter {
	return func(message string, frames []Frame) string {
		var previous *string
		if prev != nil {
			text := prev(message, frames)
			previous = &text
		}
		return r.Remap(message, frames, previous)
	}
}

func (r *Registry) remapFrame(frame Frame) (string, bool) {
	if frame.IsNative {
		return frame.Raw, false
	}
	sm, ok := r.Lookup(frame.Filename)
	if !ok {
		return frame.Raw, false
	}

	mapping := sm.Find(int32(frame.Line-1), int32(frame.Column-1))
	if mapping == nil {
		return frame.Raw, false
	}

	location := fmt.Sprintf("%s:%d:%d", frame.Filename, mapping.OriginalLine+1, mapping.OriginalColumn+1)

	name := frame.FunctionName
	if sm.HasSourceContent(mapping.SourceIndex) {
		if original, ok := sm.OriginalFunctionName(name); ok {
			name = original
		}
	}
	if transform.IsAnonymousName(name) {
		name = ""
	}

	sb := strings.Builder{}
	if frame.IsAsync {
		sb.WriteString("async ")
	}
	if frame.IsPromiseAll {
		fmt.Fprintf(&sb, "Promise.all (index %d) ", frame.PromiseIndex)
	}
	sb.WriteString(renderCall(frame, name, location))
	return sb.String(), true
}

func renderCall(frame Frame, name string, location string) string {
	var call string

	switch {
	case frame.IsConstructor:
		if name == "" {
			name = "<anonymous>"
		}
		call = "new " + name

	case !frame.IsTopLevel:
		if name == "" {
			method := frame.MethodName
			if method == "" {
				method = "<anonymous>"
			}
			if frame.TypeName != "" {
				call = frame.TypeName + "."
			}
			call += method
			break
		}
		if frame.TypeName != "" && !strings.HasPrefix(name, frame.TypeName) {
			call = frame.TypeName + "."
		}
		call += name
		if frame.MethodName != "" && !strings.HasSuffix(name, frame.MethodName) {
			call += " [as " + frame.MethodName + "]"
		}

	case name != "":
		call = name

	default:
		return location
	}

	return call + " (" + location + ")"
}
