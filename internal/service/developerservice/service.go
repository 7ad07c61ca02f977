package developerservice

import (
	"context"
	"time"

	"gojobs/internal/domain"
	apperror "gojobs/internal/errors"
	"gojobs/internal/pkg/logger"
	"gojobs/internal/service/identityservice"
)

// DeveloperRepository define o contrato que o Serviço de Desenvolvedores
// espera da camada de Persistência.
type DeveloperRepository interface {
	Create(ctx context.Context, developer domain.Developer) (domain.Developer, error)
	FindByID(ctx context.Context, id string) (domain.Developer, error)
	FindByEmail(ctx context.Context, email string) (domain.Developer, error)
	FindAll(ctx context.Context) ([]domain.Developer, error)
	Update(ctx context.Context, developer domain.Developer) (domain.Developer, error)
	Delete(ctx context.Context, id string) error
}

// IdentityService é a fatia do registro de identidade usada pelo perfil de desenvolvedor.
type IdentityService interface {
	GuardNewEmail(ctx context.Context, email string, role domain.UserRole) error
	GuardEmailCrossRole(ctx context.Context, email string, role domain.UserRole) error
	HashPassword(plaintext string) (string, error)
}

// TechService é a fatia da associação desenvolvedor-tecnologia usada pelo perfil.
type TechService interface {
	ReplaceTechnologies(ctx context.Context, developerID string, names []string) (domain.TechReplacement, error)
	ListTechnologies(ctx context.Context, developerID string) ([]string, error)
}

// Service implementa o CRUD de perfil do desenvolvedor, incluindo o conjunto
// de tecnologias mantido com a política de sucesso parcial.
type Service struct {
	repo     DeveloperRepository
	identity IdentityService
	techs    TechService
	logger   logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço de Desenvolvedores.
func NewService(repo DeveloperRepository, identity IdentityService, techs TechService, logger logger.Logger) *Service {
	return &Service{repo: repo, identity: identity, techs: techs, logger: logger}
}

// Register cadastra um novo desenvolvedor. Tecnologias fora do catálogo não
// impedem o cadastro: o subconjunto resolvido é aplicado e os nomes não
// resolvidos voltam no resultado para o chamador reportar.
func (s *Service) Register(ctx context.Context, registration domain.DeveloperRegistration) (domain.DeveloperProfile, domain.TechReplacement, error) {
	s.logger.Debug("Iniciando cadastro de desenvolvedor no serviço.", map[string]interface{}{"email": registration.Email})

	if registration.Name == "" || registration.Email == "" || registration.Password == "" || registration.Birthdate == "" {
		return domain.DeveloperProfile{}, domain.TechReplacement{}, apperror.NewValidationError("Desenvolvedor deve ser criado com name, email, password e birthdate.")
	}

	if !identityservice.ValidEmail(registration.Email) {
		return domain.DeveloperProfile{}, domain.TechReplacement{}, apperror.NewValidationError("O email deve conter @ e ponto.")
	}

	if !identityservice.ValidPassword(registration.Password) {
		return domain.DeveloperProfile{}, domain.TechReplacement{}, apperror.NewValidationError("A senha deve ter de 6 a 20 caracteres, com ao menos um número, maiúscula, minúscula e um caractere especial.")
	}

	birthdate, err := time.Parse(domain.BirthdateLayout, registration.Birthdate)
	if err != nil {
		return domain.DeveloperProfile{}, domain.TechReplacement{}, apperror.NewValidationError("A data de nascimento deve estar no formato dd/mm/aaaa.")
	}

	// Unicidade de email entre desenvolvedores E contratantes.
	if err := s.identity.GuardNewEmail(ctx, registration.Email, domain.RoleDeveloper); err != nil {
		s.logger.Warn("Cadastro de desenvolvedor barrado pela checagem de email.", map[string]interface{}{"email": registration.Email, "error": err.Error()})
		return domain.DeveloperProfile{}, domain.TechReplacement{}, err
	}

	hashedPassword, err := s.identity.HashPassword(registration.Password)
	if err != nil {
		return domain.DeveloperProfile{}, domain.TechReplacement{}, err
	}

	newDeveloper := domain.Developer{
		Name:         registration.Name,
		Email:        registration.Email,
		PasswordHash: hashedPassword,
		Birthdate:    birthdate,
	}

	created, err := s.repo.Create(ctx, newDeveloper)
	if err != nil {
		s.logger.Error("Falha ao criar desenvolvedor no repositório.", err)
		return domain.DeveloperProfile{}, domain.TechReplacement{}, err
	}

	replacement, err := s.techs.ReplaceTechnologies(ctx, created.ID, registration.Technologies)
	if err != nil {
		// O desenvolvedor já foi criado; falha de infraestrutura nos vínculos
		// não desfaz o cadastro, apenas é propagada.
		s.logger.Error("Falha ao aplicar tecnologias do novo desenvolvedor.", err)
		return domain.DeveloperProfile{}, domain.TechReplacement{}, err
	}

	s.logger.Info("Desenvolvedor cadastrado com sucesso.", map[string]interface{}{
		"id":                created.ID,
		"email":             created.Email,
		"techs_applied":     len(replacement.Applied),
		"techs_unavailable": len(replacement.Unresolved),
	})
	return domain.NewDeveloperProfile(created, replacement.Applied), replacement, nil
}

// GetProfile busca o perfil do desenvolvedor autenticado, com suas tecnologias.
func (s *Service) GetProfile(ctx context.Context, actor domain.Actor) (domain.DeveloperProfile, error) {
	developer, err := s.repo.FindByID(ctx, actor.ID)
	if err != nil {
		return domain.DeveloperProfile{}, err
	}

	techs, err := s.techs.ListTechnologies(ctx, developer.ID)
	if err != nil {
		return domain.DeveloperProfile{}, err
	}

	return domain.NewDeveloperProfile(developer, techs), nil
}

// ListAll devolve a listagem pública de desenvolvedores com suas tecnologias.
func (s *Service) ListAll(ctx context.Context) ([]domain.DeveloperProfile, error) {
	developers, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	profiles := make([]domain.DeveloperProfile, 0, len(developers))
	for _, developer := range developers {
		techs, err := s.techs.ListTechnologies(ctx, developer.ID)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, domain.NewDeveloperProfile(developer, techs))
	}
	return profiles, nil
}

// UpdateProfile aplica uma atualização parcial ao perfil do desenvolvedor.
// Tecnologias seguem a mesma política de sucesso parcial do cadastro.
func (s *Service) UpdateProfile(ctx context.Context, actor domain.Actor, update domain.DeveloperUpdate) (domain.DeveloperProfile, domain.TechReplacement, error) {
	s.logger.Debug("Iniciando atualização de perfil de desenvolvedor no serviço.", map[string]interface{}{"id": actor.ID})

	if update.Empty() {
		return domain.DeveloperProfile{}, domain.TechReplacement{}, apperror.NewValidationError("Envie ao menos um destes campos para atualizar: name, email, password, birthdate ou technologies.")
	}

	developer, err := s.repo.FindByID(ctx, actor.ID)
	if err != nil {
		return domain.DeveloperProfile{}, domain.TechReplacement{}, err
	}

	if update.Birthdate != nil {
		birthdate, err := time.Parse(domain.BirthdateLayout, *update.Birthdate)
		if err != nil {
			return domain.DeveloperProfile{}, domain.TechReplacement{}, apperror.NewValidationError("A data de nascimento deve estar no formato dd/mm/aaaa.")
		}
		developer.Birthdate = birthdate
	}

	if update.Email != nil {
		if !identityservice.ValidEmail(*update.Email) {
			return domain.DeveloperProfile{}, domain.TechReplacement{}, apperror.NewValidationError("Você enviou um email inválido. Use este modelo: teste@gmail.com.")
		}
		if err := s.identity.GuardEmailCrossRole(ctx, *update.Email, domain.RoleDeveloper); err != nil {
			return domain.DeveloperProfile{}, domain.TechReplacement{}, err
		}
		developer.Email = *update.Email
	}

	if update.Password != nil {
		if !identityservice.ValidPassword(*update.Password) {
			return domain.DeveloperProfile{}, domain.TechReplacement{}, apperror.NewValidationError("A senha deve ter de 6 a 20 caracteres, com ao menos um número, maiúscula, minúscula e um caractere especial.")
		}
		hashedPassword, err := s.identity.HashPassword(*update.Password)
		if err != nil {
			return domain.DeveloperProfile{}, domain.TechReplacement{}, err
		}
		developer.PasswordHash = hashedPassword
	}

	if update.Name != nil {
		if *update.Name == "" {
			return domain.DeveloperProfile{}, domain.TechReplacement{}, apperror.NewValidationError("O nome do desenvolvedor não pode ser vazio.")
		}
		developer.Name = *update.Name
	}

	replacement := domain.TechReplacement{Applied: []string{}, Unresolved: []string{}}
	if update.Technologies != nil {
		replacement, err = s.techs.ReplaceTechnologies(ctx, developer.ID, update.Technologies)
		if err != nil {
			return domain.DeveloperProfile{}, domain.TechReplacement{}, err
		}
	}

	updated, err := s.repo.Update(ctx, developer)
	if err != nil {
		s.logger.Error("Falha ao atualizar desenvolvedor no repositório.", err)
		return domain.DeveloperProfile{}, domain.TechReplacement{}, err
	}

	techs, err := s.techs.ListTechnologies(ctx, updated.ID)
	if err != nil {
		return domain.DeveloperProfile{}, domain.TechReplacement{}, err
	}

	s.logger.Info("Perfil de desenvolvedor atualizado.", map[string]interface{}{"id": updated.ID})
	return domain.NewDeveloperProfile(updated, techs), replacement, nil
}

// DeleteProfile exclui a conta do desenvolvedor autenticado.
func (s *Service) DeleteProfile(ctx context.Context, actor domain.Actor) error {
	s.logger.Debug("Iniciando exclusão de perfil de desenvolvedor no serviço.", map[string]interface{}{"id": actor.ID})

	if err := s.repo.Delete(ctx, actor.ID); err != nil {
		s.logger.Error("Falha ao excluir desenvolvedor no repositório.", err)
		return err
	}

	s.logger.Info("Perfil de desenvolvedor excluído.", map[string]interface{}{"id": actor.ID})
	return nil
}
