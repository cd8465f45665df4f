package stack

import (
	"strconv"
	"strings"

	"github.com/dlclark/regexp2"
)

var (
	frameLine = regexp2.MustCompile(
		`^\s*at (?<async>async )?(?:Promise\.all \(index (?<index>\d+)\)|(?<new>new )?(?<call>.+?) \((?<loc>[^()]+)\)|(?<bare>[^\s()]+))\s*$`,
		regexp2.None)

	location = regexp2.MustCompile(`^(?<file>.+):(?<line>\d+):(?<column>\d+)$`, regexp2.None)

	callSite = regexp2.MustCompile(
		`^(?:(?<type>[^\s.\[\]]+)\.)?(?<fn>.+?)(?: \[as (?<method>[^\]]+)\])?$`,
		regexp2.None)
)

// ParseV8Stack splits the text of "error.stack" into the message and its
// frames. Lines that do not look like frames belong to the message as long
// as no frame has been seen yet, and are dropped afterwards.
func ParseV8Stack(text string) (string, []Frame) {
	var message []string
	var frames []Frame

	for _, line := range strings.Split(text, "\n") {
		frame, ok := parseFrame(line)
		if !ok {
			if frames == nil {
				message = append(message, line)
			}
			continue
		}
		frames = append(frames, frame)
	}

	return strings.TrimRight(strings.Join(message, "\n"), "\n"), frames
}

func parseFrame(line string) (Frame, bool) {
	m, err := frameLine.FindStringMatch(line)
	if err != nil || m == nil {
		return Frame{}, false
	}

	frame := Frame{Raw: strings.TrimPrefix(strings.TrimSpace(line), "at ")}
	frame.IsAsync = matched(m, "async")

	if matched(m, "index") {
		frame.IsPromiseAll = true
		frame.PromiseIndex, _ = strconv.Atoi(group(m, "index"))
		frame.IsNative = true
		return frame, true
	}

	if matched(m, "bare") {
		frame.IsTopLevel = true
		parseLocation(&frame, group(m, "bare"))
		return frame, true
	}

	frame.IsConstructor = matched(m, "new")
	parseLocation(&frame, group(m, "loc"))
	parseCallSite(&frame, group(m, "call"))
	return frame, true
}

func parseLocation(frame *Frame, text string) {
	if text == "native" {
		frame.IsNative = true
		return
	}

	m, err := location.FindStringMatch(text)
	if err != nil || m == nil {
		frame.Filename = text
		return
	}
	frame.Filename = group(m, "file")
	frame.Line, _ = strconv.Atoi(group(m, "line"))
	frame.Column, _ = strconv.Atoi(group(m, "column"))
}

func parseCallSite(frame *Frame, call string) {
	m, err := callSite.FindStringMatch(call)
	if err != nil || m == nil {
		frame.FunctionName = call
		frame.IsTopLevel = true
		return
	}

	fn := group(m, "fn")
	if fn == "<anonymous>" {
		fn = ""
	}

	if frame.IsConstructor {
		frame.FunctionName = call
		return
	}

	if !matched(m, "type") {
		frame.FunctionName = fn
		frame.IsTopLevel = true
		return
	}

	frame.TypeName = group(m, "type")
	frame.FunctionName = fn
	frame.MethodName = fn
	if matched(m, "method") {
		frame.MethodName = group(m, "method")
	}
}

func matched(m *regexp2.Match, name string) bool {
	g := m.GroupByName(name)
	return g != nil && len(g.Captures) > 0
}

func group(m *regexp2.Match, name string) string {
	if !matched(m, name) {
		return ""
	}
	return m.GroupByName(name).String()
}
