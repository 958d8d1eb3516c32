package harness

// Trace event types.
const (
	EventInvocation = "invocation"
	EventCompletion = "completion"
)

// TraceEvent is one invocation or completion in a scenario trace.
type TraceEvent struct {
	Seq     int64  `json:"seq"`
	Type    string `json:"type"`
	Call    string `json:"call,omitempty"`
	Window  string `json:"window,omitempty"`
	Payload any    `json:"payload,omitempty"`

	Success *bool  `json:"success,omitempty"`
	Error   string `json:"error,omitempty"`
	Path    string `json:"path,omitempty"`
	Count   *int   `json:"count,omitempty"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when every expect clause and assertion held.
	Pass bool `json:"pass"`

	// Trace holds every invocation and completion in order.
	Trace []TraceEvent `json:"trace"`

	// Errors holds expectation and assertion failures.
	Errors []string `json:"errors,omitempty"`

	// Serials are the stored serial numbers after the flow, in storage order.
	Serials []string `json:"serials"`

	// Files are the base names of documents written during the run.
	Files []string `json:"files"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:    true,
		Trace:   []TraceEvent{},
		Errors:  []string{},
		Serials: []string{},
		Files:   []string{},
	}
}

// AddError records a failure and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

func (r *Result) addInvocation(seq int64, step Step) {
	event := TraceEvent{
		Seq:    seq,
		Type:   EventInvocation,
		Call:   step.Call,
		Window: step.Window,
	}
	if step.Payload != nil {
		event.Payload = step.Payload
	}
	r.Trace = append(r.Trace, event)
}

func (r *Result) addCompletion(seq int64, success bool, errMsg, path string, count *int) {
	r.Trace = append(r.Trace, TraceEvent{
		Seq:     seq,
		Type:    EventCompletion,
		Success: &success,
		Error:   errMsg,
		Path:    path,
		Count:   count,
	})
}
