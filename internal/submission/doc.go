// Package submission defines the records a signed-in user creates through the
// entry form.
//
// A Record is built in UI memory at submit time, checked with ValidateDraft,
// and sent once across the boundary to be appended. After that it is never
// edited; the collection only grows by append or is emptied as a whole.
//
// Ordering is insertion order. NewestFirst derives the display order by
// timestamp and is never persisted.
package submission
