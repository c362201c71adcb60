package dto

type RegistrarAsistenciaRequest struct {
	EmpleadoID string  `json:"empleado_id" validate:"required,uuid"`
	Nota       *string `json:"nota"`
}

// AsistenciaResponse carries a non-blocking Advertencia when the check-in
// happened after the punctuality cutoff without an excuse note. The record is
// saved either way.
type AsistenciaResponse struct {
	ID          string  `json:"id"`
	Empleado    string  `json:"empleado"`
	Fecha       string  `json:"fecha"`
	HoraEntrada string  `json:"hora_entrada"`
	Puntual     bool    `json:"puntual"`
	Nota        *string `json:"nota,omitempty"`
	Advertencia string  `json:"advertencia,omitempty"`
}

type ResumenAsistencia struct {
	Fecha     string `json:"fecha"`
	Presentes int    `json:"presentes"`
	Puntuales int    `json:"puntuales"`
	Atrasos   int    `json:"atrasos"`
}
