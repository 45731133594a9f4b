package handlers

import (
	"time"

	"delivery-tracker/internal/domain"
)

type registerRequest struct {
	OrderID          string     `json:"order_id" validate:"required,max=64"`
	CustomerEmail    string     `json:"customer_email" validate:"omitempty,email"`
	DeliveryType     string     `json:"delivery_type" validate:"omitempty,max=64"`
	Quantity         int        `json:"quantity" validate:"omitempty,min=1,max=100000"`
	SerialNumber     string     `json:"serial_number" validate:"omitempty,max=128"`
	Status           string     `json:"status" validate:"omitempty,oneof=pending delivered problem"`
	Problem          string     `json:"problem" validate:"omitempty,max=64"`
	Comment          string     `json:"comment" validate:"omitempty,max=1000"`
	CreatedAt        *time.Time `json:"created_at"`
	DeliveryPersonID string     `json:"delivery_person_id" validate:"omitempty,max=64"`
	Address          string     `json:"address" validate:"omitempty,max=256"`
	Phone            string     `json:"phone" validate:"omitempty,max=32"`
	Schedule         string     `json:"schedule" validate:"omitempty,max=128"`
	BusinessName     string     `json:"business_name" validate:"omitempty,max=128"`
}

type statusRequest struct {
	Status  string `json:"status" validate:"required,oneof=pending delivered problem"`
	Problem string `json:"problem" validate:"omitempty,max=64"`
	Comment string `json:"comment" validate:"omitempty,max=1000"`
}

type deliveryResponse struct {
	ID               string     `json:"id"`
	OrderID          string     `json:"order_id"`
	CustomerEmail    string     `json:"customer_email,omitempty"`
	DeliveryType     string     `json:"delivery_type"`
	Quantity         int        `json:"quantity"`
	SerialNumber     string     `json:"serial_number,omitempty"`
	Status           string     `json:"status"`
	Problem          string     `json:"problem,omitempty"`
	Comment          string     `json:"comment,omitempty"`
	CreatedAt        *time.Time `json:"created_at,omitempty"`
	UpdatedAt        *time.Time `json:"updated_at,omitempty"`
	DeliveryPersonID string     `json:"delivery_person_id,omitempty"`
	Address          string     `json:"address,omitempty"`
	Phone            string     `json:"phone,omitempty"`
	Schedule         string     `json:"schedule,omitempty"`
	BusinessName     string     `json:"business_name,omitempty"`
	AgeDays          *int       `json:"age_days,omitempty"`
	Priority         string     `json:"priority,omitempty"`
}

type priorityResponse struct {
	Days     int    `json:"days"`
	Priority string `json:"priority"`
}

func (r registerRequest) toDomain() domain.Delivery {
	d := domain.Delivery{
		OrderID:          r.OrderID,
		CustomerEmail:    r.CustomerEmail,
		Type:             domain.DeliveryType(r.DeliveryType),
		Quantity:         r.Quantity,
		SerialNumber:     r.SerialNumber,
		Status:           domain.DeliveryStatus(r.Status),
		Problem:          domain.DeliveryProblem(r.Problem),
		Comment:          r.Comment,
		DeliveryPersonID: r.DeliveryPersonID,
		Address:          r.Address,
		Phone:            r.Phone,
		Schedule:         r.Schedule,
		BusinessName:     r.BusinessName,
	}
	if r.CreatedAt != nil {
		d.CreatedAt = r.CreatedAt.UTC()
	}
	return d
}

func (r statusRequest) toDomain() domain.StatusChange {
	return domain.StatusChange{
		Status:  domain.DeliveryStatus(r.Status),
		Problem: domain.DeliveryProblem(r.Problem),
		Comment: r.Comment,
	}
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func toDeliveryResponse(d domain.Delivery) deliveryResponse {
	return deliveryResponse{
		ID:               d.ID,
		OrderID:          d.OrderID,
		CustomerEmail:    d.CustomerEmail,
		DeliveryType:     string(d.Type),
		Quantity:         d.Quantity,
		SerialNumber:     d.SerialNumber,
		Status:           string(d.Status),
		Problem:          string(d.Problem),
		Comment:          d.Comment,
		CreatedAt:        timePtr(d.CreatedAt),
		UpdatedAt:        timePtr(d.UpdatedAt),
		DeliveryPersonID: d.DeliveryPersonID,
		Address:          d.Address,
		Phone:            d.Phone,
		Schedule:         d.Schedule,
		BusinessName:     d.BusinessName,
	}
}

func toViewResponse(v domain.View) deliveryResponse {
	resp := toDeliveryResponse(v.Delivery)
	days := v.AgeDays
	resp.AgeDays = &days
	resp.Priority = string(v.Priority)
	return resp
}

func toViewResponses(views []domain.View) []deliveryResponse {
	out := make([]deliveryResponse, 0, len(views))
	for _, v := range views {
		out = append(out, toViewResponse(v))
	}
	return out
}
