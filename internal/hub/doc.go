// Package hub implements the single-process broadcast fan-out that pushes
// task-added events to every connected subscriber. Delivery is best-effort:
// slow subscribers are dropped on backpressure instead of blocking the
// write path, and no backlog is kept for late joiners.
package hub
