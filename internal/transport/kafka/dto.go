package kafka

import (
	"strings"
	"time"

	"delivery-tracker/internal/service/scans"
)

// EventDTO is the wire form of a scan event.
type EventDTO struct {
	OrderID   string    `json:"order_id"`
	Status    string    `json:"status,omitempty"`
	Problem   string    `json:"problem,omitempty"`
	Comment   string    `json:"comment,omitempty"`
	ScannedAt time.Time `json:"scanned_at,omitempty"`
}

// ToDomain converts EventDTO to scans.Event
func ToDomain(dto EventDTO) scans.Event {
	return scans.Event{
		OrderID:   strings.TrimSpace(dto.OrderID),
		Status:    strings.TrimSpace(dto.Status),
		Problem:   strings.TrimSpace(dto.Problem),
		Comment:   strings.TrimSpace(dto.Comment),
		ScannedAt: dto.ScannedAt,
	}
}
