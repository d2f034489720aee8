package entity

import "time"

// Facility representa un centro de atención de la red (clínica u hospital dental).
// Su nombre es el valor usado por el selector de centro en todos los listados.
type Facility struct {
	ID        string
	Name      string
	Code      string // código único del centro
	Region    string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
