package scans

import "time"

// Event is one scan reported by a courier device.
type Event struct {
	OrderID   string
	Status    string
	Problem   string
	Comment   string
	ScannedAt time.Time
}
