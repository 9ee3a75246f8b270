package models

// Pessoa is a row of the pessoas table.
type Pessoa struct {
	ID     int64
	Nome   string
	Email  string
	Senha  string
	Cidade *string
	Activo bool
}
