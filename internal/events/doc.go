// Package events defines the event types exchanged between the write path
// and the broadcast layer, and the Publisher interface the write path
// depends on. Keeping the interface here lets services publish events
// without direct knowledge of the transport, and lets tests substitute a
// recording publisher for the real hub.
package events
