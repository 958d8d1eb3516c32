// Package harness runs boundary scenarios described in YAML and compares
// their traces against golden files.
//
// # Scenario Format
//
//	name: scenario_name
//	description: "What this scenario validates"
//	window: true            # open the window before setup
//	setup:
//	  - call: save-submission
//	    payload: { serialNumber: "r1", ... }
//	flow:
//	  - call: get-submissions
//	    expect:
//	      success: true
//	      count: 1
//	  - window: close
//	assertions:
//	  - type: trace_count
//	    call: save-submission
//	    count: 1
//	  - type: final_state
//	    serials: ["r1"]
//
// A step either issues a boundary call (call) or drives the window manager
// (window: open, focus, close, minimize). Setup steps must succeed.
//
// # Assertion Types
//
//   - trace_contains: a call appears in the trace
//   - trace_order: calls appear in the given order
//   - trace_count: a call appears exactly N times
//   - final_state: the stored submissions have exactly the given serials
//   - files_written: the number of documents written to the output dir
//
// # Deterministic Testing
//
// Every scenario runs against a fresh store in a temp directory, a fake
// clock frozen at 2023-11-14T22:13:20Z that advances one second per step,
// and a recording opener, so traces and file names are identical across
// runs. Document paths are reduced to their base name in the trace.
package harness
