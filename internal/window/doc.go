// Package window owns the single application window.
//
// A Manager moves its window through NoWindow -> Creating -> Active ->
// Closed. At most one window is Active; asking for a window while one is
// Active focuses it instead of creating another. After Close the next
// GetOrCreate starts a new window.
//
// All transitions are serialized by the Manager's mutex.
package window
