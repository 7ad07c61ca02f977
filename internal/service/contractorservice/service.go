package contractorservice

import (
	"context"
	"errors"

	"gojobs/internal/domain"
	apperror "gojobs/internal/errors"
	"gojobs/internal/pkg/logger"
	"gojobs/internal/service/identityservice"
)

// ContractorRepository define o contrato que o Serviço de Contratantes
// espera da camada de Persistência.
type ContractorRepository interface {
	Create(ctx context.Context, contractor domain.Contractor) (domain.Contractor, error)
	FindByID(ctx context.Context, id string) (domain.Contractor, error)
	FindByEmail(ctx context.Context, email string) (domain.Contractor, error)
	FindByCNPJ(ctx context.Context, cnpj string) (domain.Contractor, error)
	FindAll(ctx context.Context) ([]domain.Contractor, error)
	Update(ctx context.Context, contractor domain.Contractor) (domain.Contractor, error)
	Delete(ctx context.Context, id string) error
}

// IdentityService é a fatia do registro de identidade usada pelo perfil de contratante.
type IdentityService interface {
	GuardNewEmail(ctx context.Context, email string, role domain.UserRole) error
	GuardEmailCrossRole(ctx context.Context, email string, role domain.UserRole) error
	HashPassword(plaintext string) (string, error)
}

// Service implementa o CRUD de perfil do contratante sobre o Registro de Identidade.
type Service struct {
	repo     ContractorRepository
	identity IdentityService
	logger   logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço de Contratantes.
func NewService(repo ContractorRepository, identity IdentityService, logger logger.Logger) *Service {
	return &Service{repo: repo, identity: identity, logger: logger}
}

// Register cadastra um novo contratante após as validações de formato e
// as checagens de unicidade nas duas tabelas.
func (s *Service) Register(ctx context.Context, registration domain.ContractorRegistration) (domain.Contractor, error) {
	s.logger.Debug("Iniciando cadastro de contratante no serviço.", map[string]interface{}{"email": registration.Email})

	if registration.Name == "" || registration.Email == "" || registration.Password == "" {
		return domain.Contractor{}, apperror.NewValidationError("Contratante deve ser criado com name, email e password; CNPJ é opcional.")
	}

	if !identityservice.ValidPassword(registration.Password) {
		return domain.Contractor{}, apperror.NewValidationError("A senha deve ter de 6 a 20 caracteres, com ao menos um número, maiúscula, minúscula e um caractere especial.")
	}

	if !identityservice.ValidEmail(registration.Email) {
		return domain.Contractor{}, apperror.NewValidationError("O email deve conter @ e ponto.")
	}

	if registration.CNPJ != nil {
		if !identityservice.ValidCNPJ(*registration.CNPJ) {
			return domain.Contractor{}, apperror.NewValidationError("O CNPJ deve estar neste formato: 00.000.000/0000-00.")
		}
		if _, err := s.repo.FindByCNPJ(ctx, *registration.CNPJ); err == nil {
			return domain.Contractor{}, apperror.NewConflictError("Você já se cadastrou com este CNPJ como contratante.")
		} else if !isNotFound(err) {
			return domain.Contractor{}, err
		}
	}

	// Unicidade de email entre contratantes E desenvolvedores.
	if err := s.identity.GuardNewEmail(ctx, registration.Email, domain.RoleContractor); err != nil {
		s.logger.Warn("Cadastro de contratante barrado pela checagem de email.", map[string]interface{}{"email": registration.Email, "error": err.Error()})
		return domain.Contractor{}, err
	}

	hashedPassword, err := s.identity.HashPassword(registration.Password)
	if err != nil {
		return domain.Contractor{}, err
	}

	newContractor := domain.Contractor{
		Name:         registration.Name,
		Email:        registration.Email,
		PasswordHash: hashedPassword,
		CNPJ:         registration.CNPJ,
	}

	created, err := s.repo.Create(ctx, newContractor)
	if err != nil {
		s.logger.Error("Falha ao criar contratante no repositório.", err)
		return domain.Contractor{}, err
	}

	s.logger.Info("Contratante cadastrado com sucesso.", map[string]interface{}{"id": created.ID, "email": created.Email})
	return created, nil
}

// GetProfile busca o perfil do contratante autenticado.
func (s *Service) GetProfile(ctx context.Context, actor domain.Actor) (domain.Contractor, error) {
	return s.repo.FindByID(ctx, actor.ID)
}

// ListAll devolve a listagem pública de contratantes.
func (s *Service) ListAll(ctx context.Context) ([]domain.Contractor, error) {
	return s.repo.FindAll(ctx)
}

// UpdateProfile aplica uma atualização parcial ao perfil do contratante,
// revalidando cada campo alterado contra as mesmas regras do cadastro.
func (s *Service) UpdateProfile(ctx context.Context, actor domain.Actor, update domain.ContractorUpdate) (domain.Contractor, error) {
	s.logger.Debug("Iniciando atualização de perfil de contratante no serviço.", map[string]interface{}{"id": actor.ID})

	if update.Empty() {
		return domain.Contractor{}, apperror.NewValidationError("Envie ao menos um destes campos para atualizar: name, email, password ou cnpj.")
	}

	contractor, err := s.repo.FindByID(ctx, actor.ID)
	if err != nil {
		return domain.Contractor{}, err
	}

	if update.Email != nil {
		if !identityservice.ValidEmail(*update.Email) {
			return domain.Contractor{}, apperror.NewValidationError("Você enviou um email inválido. Use este modelo: teste@gmail.com.")
		}
		// No update, só o papel oposto é checado aqui; duplicidade no mesmo
		// papel é barrada pela unique constraint (que exclui o próprio registro).
		if err := s.identity.GuardEmailCrossRole(ctx, *update.Email, domain.RoleContractor); err != nil {
			return domain.Contractor{}, err
		}
		contractor.Email = *update.Email
	}

	if update.Password != nil {
		if !identityservice.ValidPassword(*update.Password) {
			return domain.Contractor{}, apperror.NewValidationError("A senha deve ter de 6 a 20 caracteres, com ao menos um número, maiúscula, minúscula e um caractere especial.")
		}
		hashedPassword, err := s.identity.HashPassword(*update.Password)
		if err != nil {
			return domain.Contractor{}, err
		}
		contractor.PasswordHash = hashedPassword
	}

	if update.CNPJ != nil {
		if !identityservice.ValidCNPJ(*update.CNPJ) {
			return domain.Contractor{}, apperror.NewValidationError("O CNPJ deve estar neste formato: 00.000.000/0000-00.")
		}
		contractor.CNPJ = update.CNPJ
	}

	if update.Name != nil {
		if *update.Name == "" {
			return domain.Contractor{}, apperror.NewValidationError("O nome do contratante não pode ser vazio.")
		}
		contractor.Name = *update.Name
	}

	updated, err := s.repo.Update(ctx, contractor)
	if err != nil {
		s.logger.Error("Falha ao atualizar contratante no repositório.", err)
		return domain.Contractor{}, err
	}

	s.logger.Info("Perfil de contratante atualizado.", map[string]interface{}{"id": updated.ID})
	return updated, nil
}

// DeleteProfile exclui a conta do contratante autenticado.
func (s *Service) DeleteProfile(ctx context.Context, actor domain.Actor) error {
	s.logger.Debug("Iniciando exclusão de perfil de contratante no serviço.", map[string]interface{}{"id": actor.ID})

	if err := s.repo.Delete(ctx, actor.ID); err != nil {
		s.logger.Error("Falha ao excluir contratante no repositório.", err)
		return err
	}

	s.logger.Info("Perfil de contratante excluído.", map[string]interface{}{"id": actor.ID})
	return nil
}

// isNotFound informa se o erro da cadeia é um NotFoundError tipado.
func isNotFound(err error) bool {
	var notFoundErr *apperror.NotFoundError
	return errors.As(err, &notFoundErr)
}
