package dto

type CrearMesaRequest struct {
	Numero    int    `json:"numero"    validate:"required,min=1"`
	Capacidad int    `json:"capacidad" validate:"required,min=1"`
	Piso      string `json:"piso"      validate:"required,oneof='Piso 1' 'Piso 2'"`
	Forma     string `json:"forma"     validate:"omitempty,oneof=mesa-cuadrada mesa-redonda mesa-larga"`
	PosX      int    `json:"pos_x"     validate:"min=0,max=90"`
	PosY      int    `json:"pos_y"     validate:"min=0,max=90"`
}

type ActualizarMesaRequest struct {
	Capacidad *int    `json:"capacidad" validate:"omitempty,min=1"`
	Piso      *string `json:"piso"      validate:"omitempty,oneof='Piso 1' 'Piso 2'"`
	Forma     *string `json:"forma"     validate:"omitempty,oneof=mesa-cuadrada mesa-redonda mesa-larga"`
	PosX      *int    `json:"pos_x"     validate:"omitempty,min=0,max=90"`
	PosY      *int    `json:"pos_y"     validate:"omitempty,min=0,max=90"`
}

type MesaResponse struct {
	ID        string `json:"id"`
	Numero    int    `json:"numero"`
	Capacidad int    `json:"capacidad"`
	Piso      string `json:"piso"`
	Forma     string `json:"forma"`
	PosX      int    `json:"pos_x"`
	PosY      int    `json:"pos_y"`
}
