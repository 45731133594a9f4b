package domain

type (
	// DeliveryStatus represents the lifecycle state of a delivery.
	DeliveryStatus string
	// DeliveryType represents what is being delivered.
	DeliveryType string
	// DeliveryProblem represents why a delivery could not be completed.
	DeliveryProblem string
	// Priority is the urgency bucket derived from a delivery's age.
	Priority string
)

// List of possible delivery statuses
const (
	StatusPending   DeliveryStatus = "pending"
	StatusDelivered DeliveryStatus = "delivered"
	StatusProblem   DeliveryStatus = "problem"
)

// List of possible delivery types
const (
	TypePaperRolls          DeliveryType = "rollos_papel"
	TypeSalesTerminal       DeliveryType = "terminal_point_venta"
	TypeDeliveryTerminal    DeliveryType = "terminal_point_delivery"
	TypeReplacementTerminal DeliveryType = "terminal_point_recambio"
	TypeOther               DeliveryType = "otro"
)

// List of possible delivery problems
const (
	ProblemRecipientAbsent DeliveryProblem = "destinatario_ausente"
	ProblemWrongAddress    DeliveryProblem = "direccion_incorrecta"
	ProblemDamagedPackage  DeliveryProblem = "paquete_dañado"
	ProblemCustomerRefusal DeliveryProblem = "rechazo_cliente"
	ProblemOther           DeliveryProblem = "otro"
)

// List of priority buckets
const (
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

var allowedStatuses = [...]DeliveryStatus{
	StatusPending, StatusDelivered, StatusProblem,
}

var allowedTypes = [...]DeliveryType{
	TypePaperRolls, TypeSalesTerminal, TypeDeliveryTerminal, TypeReplacementTerminal, TypeOther,
}

var allowedProblems = [...]DeliveryProblem{
	ProblemRecipientAbsent, ProblemWrongAddress, ProblemDamagedPackage, ProblemCustomerRefusal, ProblemOther,
}

// Valid checks if the DeliveryStatus is valid
func (s DeliveryStatus) Valid() bool {
	for _, v := range allowedStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Valid checks if the DeliveryType is valid
func (t DeliveryType) Valid() bool {
	for _, v := range allowedTypes {
		if t == v {
			return true
		}
	}
	return false
}

// Valid checks if the DeliveryProblem is valid
func (p DeliveryProblem) Valid() bool {
	for _, v := range allowedProblems {
		if p == v {
			return true
		}
	}
	return false
}

// Terminal reports whether the status closes the delivery (anything but pending).
func (s DeliveryStatus) Terminal() bool {
	return s != StatusPending
}
