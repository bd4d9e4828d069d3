package model

// ProductionStatus tracks where a manufacturing order stands on the plant floor.
type ProductionStatus string

const (
	// StatusProceso is the default state for every new order.
	StatusProceso    ProductionStatus = "PROCESO"
	StatusAsignado   ProductionStatus = "ASIGNADO"
	StatusConfeccion ProductionStatus = "CONFECCION"
)

// Valid reports whether s is one of the known production states.
func (s ProductionStatus) Valid() bool {
	switch s {
	case StatusProceso, StatusAsignado, StatusConfeccion:
		return true
	}
	return false
}
