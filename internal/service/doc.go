// Package service composes the store, broadcast, and summarization layers
// into the operations the API exposes. It owns the commit-then-broadcast
// ordering on the write path and the never-fails contract of summarize.
package service
