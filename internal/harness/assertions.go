package harness

import (
	"fmt"
	"slices"
	"strings"
)

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string
	Expected string
	Actual   string
	Trace    []TraceEvent
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nFull trace:\n")
		for _, event := range e.Trace {
			if event.Type == EventInvocation {
				fmt.Fprintf(&buf, "  [%d] %s\n", event.Seq, invocationName(event))
			}
		}
	}

	return buf.String()
}

func invocationName(e TraceEvent) string {
	if e.Window != "" {
		return "window " + e.Window
	}
	return e.Call
}

func evaluateAssertion(result *Result, a Assertion) error {
	switch a.Type {
	case AssertTraceContains:
		return assertTraceContains(result.Trace, a)
	case AssertTraceOrder:
		return assertTraceOrder(result.Trace, a)
	case AssertTraceCount:
		return assertTraceCount(result.Trace, a)
	case AssertFinalState:
		return assertFinalState(result.Serials, a)
	case AssertFilesWritten:
		return assertFilesWritten(result.Files, a)
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

func calls(trace []TraceEvent) []string {
	var out []string
	for _, event := range trace {
		if event.Type == EventInvocation && event.Call != "" {
			out = append(out, event.Call)
		}
	}
	return out
}

func assertTraceContains(trace []TraceEvent, a Assertion) error {
	if slices.Contains(calls(trace), a.Call) {
		return nil
	}
	return &AssertionError{
		Type:     AssertTraceContains,
		Expected: fmt.Sprintf("call %s", a.Call),
		Actual:   "not found in trace",
		Trace:    trace,
	}
}

// assertTraceOrder checks that calls appear in the given order. Other calls
// may appear in between.
func assertTraceOrder(trace []TraceEvent, a Assertion) error {
	seen := calls(trace)
	pos := 0
	for _, want := range a.Calls {
		idx := slices.Index(seen[pos:], want)
		if idx < 0 {
			return &AssertionError{
				Type:     AssertTraceOrder,
				Expected: fmt.Sprintf("calls in order: %v", a.Calls),
				Actual:   fmt.Sprintf("%s not found after position %d", want, pos),
				Trace:    trace,
			}
		}
		pos += idx + 1
	}
	return nil
}

func assertTraceCount(trace []TraceEvent, a Assertion) error {
	count := 0
	for _, c := range calls(trace) {
		if c == a.Call {
			count++
		}
	}
	if count != a.Count {
		return &AssertionError{
			Type:     AssertTraceCount,
			Expected: fmt.Sprintf("%d occurrences of %s", a.Count, a.Call),
			Actual:   fmt.Sprintf("%d occurrences", count),
			Trace:    trace,
		}
	}
	return nil
}

func assertFinalState(serials []string, a Assertion) error {
	want := a.Serials
	if want == nil {
		want = []string{}
	}
	if slices.Equal(serials, want) {
		return nil
	}
	return &AssertionError{
		Type:     AssertFinalState,
		Expected: fmt.Sprintf("stored serials %v", want),
		Actual:   fmt.Sprintf("stored serials %v", serials),
	}
}

func assertFilesWritten(files []string, a Assertion) error {
	if len(files) == a.Count {
		return nil
	}
	return &AssertionError{
		Type:     AssertFilesWritten,
		Expected: fmt.Sprintf("%d documents", a.Count),
		Actual:   fmt.Sprintf("%d documents %v", len(files), files),
	}
}
