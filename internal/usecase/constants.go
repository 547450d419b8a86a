package usecase

const (
	// DefaultQueueSize is the capacity of the channel between decoding and processing.
	// Decoding blocks once this many records are waiting.
	DefaultQueueSize = 1024
)
