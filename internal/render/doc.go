// Package render turns what the window shows into a page-formatted PDF and
// writes it to a temporary file for the host shell to open.
//
// Pages are A4 with half-inch margins and a painted background by default.
// Detail pages follow the submission dialog: the fixed fields, then the
// reason's extra fields in schema order, then notes. List pages show the
// submission table newest first.
package render
