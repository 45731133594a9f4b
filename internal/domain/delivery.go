package domain

import (
	"fmt"
	"strings"
	"time"

	"delivery-tracker/internal/apperr"
)

// Delivery - struct representing a single package delivery row.
type Delivery struct {
	ID               string
	OrderID          string
	CustomerEmail    string
	Type             DeliveryType
	Quantity         int
	SerialNumber     string
	Status           DeliveryStatus
	Problem          DeliveryProblem
	Comment          string
	CreatedAt        time.Time
	UpdatedAt        time.Time
	DeliveryPersonID string
	Address          string
	Phone            string
	Schedule         string
	BusinessName     string
}

// View is a delivery with its derived age and priority. Never persisted.
type View struct {
	Delivery
	AgeDays  int
	Priority Priority
}

// StatusChange carries the fields a status update may touch.
type StatusChange struct {
	Status  DeliveryStatus
	Problem DeliveryProblem
	Comment string
}

// Normalize trims input and clears the problem kind when status is not problem.
func (c StatusChange) Normalize() StatusChange {
	c.Status = DeliveryStatus(strings.TrimSpace(string(c.Status)))
	c.Problem = DeliveryProblem(strings.TrimSpace(string(c.Problem)))
	c.Comment = strings.TrimSpace(c.Comment)
	if c.Status != StatusProblem {
		c.Problem = ""
	}
	return c
}

// Validate checks the status/problem/comment rules.
func (c StatusChange) Validate() error {
	if c.Status == "" {
		return fmt.Errorf("%w: status is required", apperr.ErrInvalid)
	}
	if !c.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", apperr.ErrInvalid, c.Status)
	}
	if c.Status != StatusProblem {
		return nil
	}
	if c.Problem == "" {
		return fmt.Errorf("%w: problem kind is required for status %q", apperr.ErrInvalid, StatusProblem)
	}
	if !c.Problem.Valid() {
		return fmt.Errorf("%w: unknown problem kind %q", apperr.ErrInvalid, c.Problem)
	}
	if c.Problem == ProblemOther && strings.TrimSpace(c.Comment) == "" {
		return fmt.Errorf("%w: comment is required for problem %q", apperr.ErrInvalid, ProblemOther)
	}
	return nil
}

// StatusChange extracts the status part of a delivery.
func (d Delivery) StatusChange() StatusChange {
	return StatusChange{Status: d.Status, Problem: d.Problem, Comment: d.Comment}
}

// Validate checks a delivery before it is created.
func (d Delivery) Validate() error {
	if strings.TrimSpace(d.OrderID) == "" {
		return fmt.Errorf("%w: order id is required", apperr.ErrInvalid)
	}
	if !d.Type.Valid() {
		return fmt.Errorf("%w: unknown delivery type %q", apperr.ErrInvalid, d.Type)
	}
	if d.Quantity < 1 {
		return fmt.Errorf("%w: quantity must be at least 1", apperr.ErrInvalid)
	}
	return d.StatusChange().Validate()
}

// WithStatus returns a copy of d with the change and update time applied.
func (d Delivery) WithStatus(c StatusChange, at time.Time) Delivery {
	d.Status = c.Status
	d.Problem = c.Problem
	d.Comment = c.Comment
	d.UpdatedAt = at
	return d
}
