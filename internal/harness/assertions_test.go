package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTrace() []TraceEvent {
	ok := true
	return []TraceEvent{
		{Seq: 1, Type: EventInvocation, Call: "save-submission"},
		{Seq: 2, Type: EventCompletion, Success: &ok},
		{Seq: 3, Type: EventInvocation, Window: "open"},
		{Seq: 4, Type: EventCompletion, Success: &ok},
		{Seq: 5, Type: EventInvocation, Call: "get-submissions"},
		{Seq: 6, Type: EventCompletion, Success: &ok},
		{Seq: 7, Type: EventInvocation, Call: "save-submission"},
		{Seq: 8, Type: EventCompletion, Success: &ok},
	}
}

func TestAssertTraceContains(t *testing.T) {
	trace := sampleTrace()

	assert.NoError(t, assertTraceContains(trace, Assertion{Call: "get-submissions"}))

	err := assertTraceContains(trace, Assertion{Call: "print-to-pdf"})
	var ae *AssertionError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, AssertTraceContains, ae.Type)
	assert.Contains(t, err.Error(), "[3] window open")
}

func TestAssertTraceOrder(t *testing.T) {
	trace := sampleTrace()

	assert.NoError(t, assertTraceOrder(trace, Assertion{Calls: []string{"save-submission", "get-submissions"}}))
	assert.NoError(t, assertTraceOrder(trace, Assertion{Calls: []string{"get-submissions", "save-submission"}}),
		"the second save follows the get")
	assert.NoError(t, assertTraceOrder(trace, Assertion{Calls: []string{"save-submission", "save-submission"}}))

	err := assertTraceOrder(trace, Assertion{Calls: []string{"get-submissions", "get-submissions"}})
	assert.ErrorContains(t, err, "get-submissions not found after position 2")

	err = assertTraceOrder(trace, Assertion{Calls: []string{"clear-submissions"}})
	assert.Error(t, err)
}

func TestAssertTraceCount(t *testing.T) {
	trace := sampleTrace()

	assert.NoError(t, assertTraceCount(trace, Assertion{Call: "save-submission", Count: 2}))
	assert.NoError(t, assertTraceCount(trace, Assertion{Call: "print-to-pdf", Count: 0}))

	err := assertTraceCount(trace, Assertion{Call: "save-submission", Count: 1})
	assert.ErrorContains(t, err, "Expected: 1 occurrences of save-submission")
	assert.ErrorContains(t, err, "Actual: 2 occurrences")
}

func TestAssertFinalState(t *testing.T) {
	assert.NoError(t, assertFinalState([]string{}, Assertion{}))
	assert.NoError(t, assertFinalState([]string{"a", "b"}, Assertion{Serials: []string{"a", "b"}}))
	assert.Error(t, assertFinalState([]string{"b", "a"}, Assertion{Serials: []string{"a", "b"}}))
	assert.Error(t, assertFinalState([]string{"a"}, Assertion{}))
}

func TestAssertFilesWritten(t *testing.T) {
	assert.NoError(t, assertFilesWritten(nil, Assertion{Count: 0}))
	assert.ErrorContains(t, assertFilesWritten([]string{"form-1.pdf"}, Assertion{Count: 0}), "1 documents [form-1.pdf]")
}
