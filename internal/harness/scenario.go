package harness

import (
	"bytes"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/talhahasanzia/entrifi/internal/boundary"
)

// Scenario is a scripted sequence of boundary calls and window actions.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Window opens the application window before setup runs.
	Window bool `yaml:"window,omitempty"`

	// Setup establishes initial state. Every setup step must succeed.
	Setup []Step `yaml:"setup,omitempty"`

	// Flow is the traced part of the scenario.
	Flow []Step `yaml:"flow"`

	// Assertions validate the final trace and state.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Step is either a boundary call or a window action.
type Step struct {
	// Call is a boundary channel name.
	Call string `yaml:"call,omitempty"`

	// Window is one of open, focus, close or minimize.
	Window string `yaml:"window,omitempty"`

	// Payload is sent as the JSON request body of Call.
	Payload map[string]any `yaml:"payload,omitempty"`

	// Expect validates the step's envelope. Nil skips validation.
	Expect *Expect `yaml:"expect,omitempty"`
}

// Expect specifies the expected envelope of a step.
type Expect struct {
	Success bool `yaml:"success"`

	// Error must equal the envelope error exactly when set.
	Error string `yaml:"error,omitempty"`

	// Count is the expected length of the returned submission list.
	Count *int `yaml:"count,omitempty"`

	// Path is the expected base name of the written document.
	Path string `yaml:"path,omitempty"`
}

// Assertion validates the trace or final state.
type Assertion struct {
	Type string `yaml:"type"`

	// Call is used by trace_contains and trace_count.
	Call string `yaml:"call,omitempty"`

	// Calls is the expected order for trace_order.
	Calls []string `yaml:"calls,omitempty"`

	// Count is used by trace_count and files_written.
	Count int `yaml:"count,omitempty"`

	// Serials is the exact stored serial list for final_state.
	Serials []string `yaml:"serials,omitempty"`
}

// Assertion type constants.
const (
	AssertTraceContains = "trace_contains"
	AssertTraceOrder    = "trace_order"
	AssertTraceCount    = "trace_count"
	AssertFinalState    = "final_state"
	AssertFilesWritten  = "files_written"
)

// Window actions.
const (
	WindowOpen     = "open"
	WindowFocus    = "focus"
	WindowClose    = "close"
	WindowMinimize = "minimize"
)

var windowActions = []string{WindowOpen, WindowFocus, WindowClose, WindowMinimize}

// LoadScenario reads and parses a scenario YAML file. Unknown fields are
// rejected.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses and validates scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Flow) == 0 {
		return fmt.Errorf("flow list is required and must be non-empty")
	}

	for i, step := range s.Setup {
		if err := validateStep(fmt.Sprintf("setup[%d]", i), step); err != nil {
			return err
		}
	}
	for i, step := range s.Flow {
		if err := validateStep(fmt.Sprintf("flow[%d]", i), step); err != nil {
			return err
		}
	}
	for i, a := range s.Assertions {
		if err := validateAssertion(i, a); err != nil {
			return err
		}
	}
	return nil
}

func validateStep(where string, step Step) error {
	switch {
	case step.Call == "" && step.Window == "":
		return fmt.Errorf("%s: one of call or window is required", where)
	case step.Call != "" && step.Window != "":
		return fmt.Errorf("%s: call and window are mutually exclusive", where)
	case step.Window != "" && !slices.Contains(windowActions, step.Window):
		return fmt.Errorf("%s: unknown window action %q", where, step.Window)
	case step.Window != "" && step.Payload != nil:
		return fmt.Errorf("%s: window actions take no payload", where)
	case step.Call != "" && !slices.Contains(boundary.Channels, step.Call):
		return fmt.Errorf("%s: unknown call %q", where, step.Call)
	}
	return nil
}

func validateAssertion(index int, a Assertion) error {
	switch a.Type {
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	case AssertTraceContains:
		if a.Call == "" {
			return fmt.Errorf("assertions[%d]: call is required for trace_contains", index)
		}
	case AssertTraceOrder:
		if len(a.Calls) == 0 {
			return fmt.Errorf("assertions[%d]: calls list is required for trace_order", index)
		}
	case AssertTraceCount:
		if a.Call == "" {
			return fmt.Errorf("assertions[%d]: call is required for trace_count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for trace_count", index)
		}
	case AssertFinalState:
		// An absent serials list asserts an empty store.
	case AssertFilesWritten:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for files_written", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
