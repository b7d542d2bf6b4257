package utils

import (
	"sync"

	"github.com/jhchoi91066/system-trading-sub000/src/models"
)

// -----------------------------------------------------------------------------
// NotificationRing is a fixed-size circular buffer of monitor notifications.
// The sync layer keeps its list unbounded; this ring is the display-side cap,
// overwriting the oldest entry once full. True ring buffer - no resizing.
// -----------------------------------------------------------------------------

type NotificationRing struct {
	mu       sync.RWMutex
	data     []models.MNotification
	capacity int
	index    int // Next write position
	size     int // Current number of elements
}

// -----------------------------------------------------------------------------

// NewNotificationRing creates a new ring with fixed capacity
func NewNotificationRing(capacity int) *NotificationRing {
	if capacity <= 0 {
		capacity = DefaultNotificationHistory
	}

	return &NotificationRing{
		data:     make([]models.MNotification, capacity),
		capacity: capacity,
		index:    0,
		size:     0,
	}
}

// -----------------------------------------------------------------------------

// Append adds one notification, overwriting the oldest when full
func (nr *NotificationRing) Append(n models.MNotification) {
	nr.mu.Lock()
	defer nr.mu.Unlock()

	nr.data[nr.index] = n
	nr.index = (nr.index + 1) % nr.capacity

	// Update size (never exceeds capacity)
	if nr.size < nr.capacity {
		nr.size++
	}
}

// -----------------------------------------------------------------------------

// Latest returns up to n most recent notifications, newest first
func (nr *NotificationRing) Latest(n int) []models.MNotification {
	nr.mu.RLock()
	defer nr.mu.RUnlock()

	if nr.size == 0 || n <= 0 {
		return []models.MNotification{}
	}

	count := n
	if n > nr.size {
		count = nr.size
	}

	result := make([]models.MNotification, count)

	// Newest element sits at index-1; walk backwards from there
	for i := 0; i < count; i++ {
		idx := (nr.index - 1 - i + nr.capacity) % nr.capacity
		result[i] = nr.data[idx]
	}

	return result
}

// -----------------------------------------------------------------------------

// All returns every retained notification, newest first
func (nr *NotificationRing) All() []models.MNotification {
	return nr.Latest(nr.Size())
}

// -----------------------------------------------------------------------------

// Size returns current number of elements
func (nr *NotificationRing) Size() int {
	nr.mu.RLock()
	defer nr.mu.RUnlock()
	return nr.size
}

// -----------------------------------------------------------------------------

// Capacity returns ring capacity (fixed)
func (nr *NotificationRing) Capacity() int {
	return nr.capacity
}

// -----------------------------------------------------------------------------

// IsFull returns whether the ring is full
func (nr *NotificationRing) IsFull() bool {
	nr.mu.RLock()
	defer nr.mu.RUnlock()
	return nr.size == nr.capacity
}

// -----------------------------------------------------------------------------

// Clear resets the ring
func (nr *NotificationRing) Clear() {
	nr.mu.Lock()
	defer nr.mu.Unlock()
	nr.index = 0
	nr.size = 0
}
