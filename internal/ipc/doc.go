// Package ipc carries boundary calls between the UI and the host over a
// local socket.
//
// The host side is an echo server exposing:
//
//	POST /invoke/:channel   boundary call, JSON envelope response
//	POST /window/focus      focus the window if one is Active
//	POST /window/open       get or create the window
//	POST /window/close      close the Active window
//	GET  /metrics           Prometheus exposition
//
// Client is the UI-side remote proxy and implements boundary.Service.
package ipc
