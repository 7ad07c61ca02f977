package domain

import "time"

// UserRole é um tipo string para representar o papel do usuário no sistema.
type UserRole string

// Constantes para os papéis de usuário (boas práticas)
const (
	RoleContractor UserRole = "contractor"
	RoleDeveloper  UserRole = "developer"
)

// Contractor representa a entidade do contratante (quem publica os jobs).
type Contractor struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Oculta o hash da senha no JSON de resposta
	CNPJ         *string   `json:"cnpj,omitempty"` // Opcional, formato 00.000.000/0000-00
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Developer representa a entidade do desenvolvedor (quem executa os jobs).
type Developer struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Birthdate    time.Time `json:"-"` // Serializado como string no formato dd/mm/aaaa
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// BirthdateLayout é o formato textual de data de nascimento aceito e emitido pela API.
const BirthdateLayout = "02/01/2006"

// FormattedBirthdate devolve a data de nascimento já no formato da API.
func (d Developer) FormattedBirthdate() string {
	return d.Birthdate.Format(BirthdateLayout)
}

// Identity é a variante etiquetada que unifica os dois tipos de usuário.
// Um email pertence a no máximo uma identidade entre as duas tabelas; a
// resolução consulta ambas e devolve exatamente uma variante preenchida.
type Identity struct {
	Role       UserRole
	Contractor *Contractor
	Developer  *Developer
}

// ID devolve o identificador da variante preenchida.
func (i Identity) ID() string {
	if i.Role == RoleContractor && i.Contractor != nil {
		return i.Contractor.ID
	}
	if i.Role == RoleDeveloper && i.Developer != nil {
		return i.Developer.ID
	}
	return ""
}

// Email devolve o email da variante preenchida.
func (i Identity) Email() string {
	if i.Role == RoleContractor && i.Contractor != nil {
		return i.Contractor.Email
	}
	if i.Role == RoleDeveloper && i.Developer != nil {
		return i.Developer.Email
	}
	return ""
}

// PasswordHash devolve o hash de senha da variante preenchida.
func (i Identity) PasswordHash() string {
	if i.Role == RoleContractor && i.Contractor != nil {
		return i.Contractor.PasswordHash
	}
	if i.Role == RoleDeveloper && i.Developer != nil {
		return i.Developer.PasswordHash
	}
	return ""
}

// Actor representa a identidade autenticada extraída do token JWT.
// Toda operação de negócio recebe o ator explicitamente, nunca de estado global.
type Actor struct {
	ID    string
	Email string
	Role  UserRole
}

// ContractorRegistration representa o payload de entrada para o cadastro de contratante.
type ContractorRegistration struct {
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Password string  `json:"password"`
	CNPJ     *string `json:"cnpj,omitempty"`
}

// ContractorUpdate representa o payload de atualização parcial do contratante.
// Campos nil não são alterados.
type ContractorUpdate struct {
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Password *string `json:"password,omitempty"`
	CNPJ     *string `json:"cnpj,omitempty"`
}

// Empty informa se a atualização não contém nenhum campo reconhecido.
func (u ContractorUpdate) Empty() bool {
	return u.Name == nil && u.Email == nil && u.Password == nil && u.CNPJ == nil
}

// DeveloperRegistration representa o payload de entrada para o cadastro de desenvolvedor.
// Technologies é aplicado com sucesso parcial: nomes fora do catálogo são
// reportados de volta sem impedir o cadastro.
type DeveloperRegistration struct {
	Name         string   `json:"name"`
	Email        string   `json:"email"`
	Password     string   `json:"password"`
	Birthdate    string   `json:"birthdate"` // dd/mm/aaaa
	Technologies []string `json:"technologies,omitempty"`
}

// DeveloperUpdate representa o payload de atualização parcial do desenvolvedor.
type DeveloperUpdate struct {
	Name         *string  `json:"name,omitempty"`
	Email        *string  `json:"email,omitempty"`
	Password     *string  `json:"password,omitempty"`
	Birthdate    *string  `json:"birthdate,omitempty"`
	Technologies []string `json:"technologies,omitempty"` // nil = não alterar
}

// Empty informa se a atualização não contém nenhum campo reconhecido.
func (u DeveloperUpdate) Empty() bool {
	return u.Name == nil && u.Email == nil && u.Password == nil &&
		u.Birthdate == nil && u.Technologies == nil
}

// DeveloperProfile agrega o desenvolvedor às suas tecnologias resolvidas,
// como devolvido pelos endpoints de perfil e listagem.
type DeveloperProfile struct {
	Developer
	BirthdateFormatted string   `json:"birthdate"`
	Technologies       []string `json:"technologies"`
}

// NewDeveloperProfile monta o perfil serializável a partir da entidade e dos nomes de tecnologia.
func NewDeveloperProfile(dev Developer, techs []string) DeveloperProfile {
	if techs == nil {
		techs = []string{}
	}
	return DeveloperProfile{
		Developer:          dev,
		BirthdateFormatted: dev.FormattedBirthdate(),
		Technologies:       techs,
	}
}
