// Package boundary is the request surface between the sandboxed UI and the
// privileged host.
//
// The UI reaches persisted state and host capabilities only through the
// named calls in this package. Every call returns an Envelope; a failure is
// a normal return value with Success false and a human-readable Error, never
// a Go error or a panic crossing the boundary.
//
// Host implements Service in-process. The ipc package carries the same
// calls over a local socket and provides a remote-proxy Service for the UI.
package boundary
