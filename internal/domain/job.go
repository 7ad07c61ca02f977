package domain

import "time"

// Valores válidos para o progresso de um job. O campo é nulo enquanto
// nenhum desenvolvedor foi atribuído.
const (
	ProgressOngoing   = "ongoing"
	ProgressCompleted = "completed"
)

// Formatos textuais de data de expiração aceitos e emitidos pela API.
const (
	ExpirationDateLayout      = "02/01/2006 15:04"
	ExpirationDateShortLayout = "02/01/06 15:04"
)

// Job representa um trabalho publicado por um contratante.
// ContractorID é definido no servidor na criação e nunca muda; DeveloperID
// é opcional e, ao ser definido, transiciona Progress para "ongoing".
type Job struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	Price           float64   `json:"price"`
	DifficultyLevel string    `json:"difficulty_level"`
	ExpirationDate  time.Time `json:"-"` // Serializado como string dd/mm/aa hh:mm
	Progress        *string   `json:"progress"`
	ContractorID    string    `json:"contractor_id"`
	DeveloperID     *string   `json:"developer_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// FormattedExpirationDate devolve a data de expiração no formato da API.
func (j Job) FormattedExpirationDate() string {
	return j.ExpirationDate.Format(ExpirationDateShortLayout)
}

// IsAssigned informa se o job já possui um desenvolvedor atribuído.
func (j Job) IsAssigned() bool {
	return j.DeveloperID != nil && *j.DeveloperID != ""
}

// IsValidProgress valida um valor de progresso explícito.
func IsValidProgress(value string) bool {
	return value == ProgressOngoing || value == ProgressCompleted
}

// JobCreation representa o payload de criação de um job. Todos os campos
// são obrigatórios; contractor_id nunca é aceito do cliente.
type JobCreation struct {
	Name            string  `json:"name"`
	Description     string  `json:"description"`
	Price           float64 `json:"price"`
	DifficultyLevel string  `json:"difficulty_level"`
	ExpirationDate  string  `json:"expiration_date"` // dd/mm/aaaa hh:mm ou dd/mm/aa hh:mm
}

// JobUpdate representa o payload de atualização parcial de um job.
// DeveloperEmail, quando presente, é resolvido para o id do desenvolvedor
// e dispara a transição de progresso para "ongoing".
type JobUpdate struct {
	Name            *string  `json:"name,omitempty"`
	Description     *string  `json:"description,omitempty"`
	Price           *float64 `json:"price,omitempty"`
	DifficultyLevel *string  `json:"difficulty_level,omitempty"`
	ExpirationDate  *string  `json:"expiration_date,omitempty"`
	Progress        *string  `json:"progress,omitempty"`
	DeveloperEmail  *string  `json:"developer,omitempty"`
}

// Empty informa se a atualização não contém nenhum campo reconhecido.
func (u JobUpdate) Empty() bool {
	return u.Name == nil && u.Description == nil && u.Price == nil &&
		u.DifficultyLevel == nil && u.ExpirationDate == nil &&
		u.Progress == nil && u.DeveloperEmail == nil
}

// ProgressFilter descreve o filtro opcional de progresso nas listagens paginadas.
// Set indica se o filtro foi informado; Null filtra jobs sem progresso definido.
type ProgressFilter struct {
	Set   bool
	Null  bool
	Value string
}
