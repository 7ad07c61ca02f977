package techservice

import (
	"context"
	"errors"

	"gojobs/internal/domain"
	apperror "gojobs/internal/errors"
	"gojobs/internal/pkg/logger"
)

// TechRepository define o contrato que o Serviço de Tecnologias espera da
// camada de Persistência (catálogo + tabela de vínculo).
type TechRepository interface {
	FindByName(ctx context.Context, name string) (domain.Tech, error)
	ReplaceLinks(ctx context.Context, developerID string, techIDs []string) error
	ListByDeveloper(ctx context.Context, developerID string) ([]domain.Tech, error)
}

// Service implementa o Catálogo de Tecnologias e a Associação
// desenvolvedor-tecnologia (substituição total com sucesso parcial).
type Service struct {
	repo   TechRepository
	logger logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço de Tecnologias.
func NewService(repo TechRepository, logger logger.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Resolve busca um nome no catálogo fixo. Match exato; o mesmo caminho é
// usado na criação e na atualização de perfil.
func (s *Service) Resolve(ctx context.Context, name string) (domain.Tech, error) {
	return s.repo.FindByName(ctx, name)
}

// ReplaceTechnologies substitui o conjunto de tecnologias do desenvolvedor
// pelo conjunto resolvido a partir dos nomes pedidos.
//
// Política de sucesso parcial: nomes fora do catálogo são devolvidos em
// Unresolved sem bloquear a aplicação do subconjunto resolvido. O delete +
// insert só acontece quando ao menos um nome resolve; com conjunto resolvido
// vazio (incluindo a lista vazia), os vínculos existentes ficam intocados.
func (s *Service) ReplaceTechnologies(ctx context.Context, developerID string, names []string) (domain.TechReplacement, error) {
	s.logger.Debug("Iniciando substituição de tecnologias no serviço.", map[string]interface{}{
		"developer_id":    developerID,
		"total_requested": len(names),
	})

	result := domain.TechReplacement{Applied: []string{}, Unresolved: []string{}}
	var techIDs []string
	resolved := make(map[string]bool)

	for _, name := range names {
		tech, err := s.repo.FindByName(ctx, name)
		if err != nil {
			if isNotFound(err) {
				result.Unresolved = append(result.Unresolved, name)
				continue
			}
			return domain.TechReplacement{}, err
		}
		// Nomes repetidos resolvem para o mesmo ID; o vínculo é único por
		// par (developer_id, tech_id) e só entra uma vez.
		if resolved[tech.ID] {
			continue
		}
		resolved[tech.ID] = true
		techIDs = append(techIDs, tech.ID)
		result.Applied = append(result.Applied, tech.Name)
	}

	if len(techIDs) == 0 {
		// Nada resolveu (ou lista vazia): não tocar nos vínculos existentes.
		s.logger.Debug("Nenhuma tecnologia resolvida, vínculos mantidos.", map[string]interface{}{"developer_id": developerID})
		return result, nil
	}

	if err := s.repo.ReplaceLinks(ctx, developerID, techIDs); err != nil {
		s.logger.Error("Falha ao substituir vínculos de tecnologia no repositório.", err)
		return domain.TechReplacement{}, err
	}

	s.logger.Info("Tecnologias do desenvolvedor substituídas.", map[string]interface{}{
		"developer_id": developerID,
		"applied":      len(result.Applied),
		"unresolved":   len(result.Unresolved),
	})
	return result, nil
}

// ListTechnologies devolve os nomes das tecnologias vinculadas ao
// desenvolvedor. Lista vazia, não erro, quando não há vínculos.
func (s *Service) ListTechnologies(ctx context.Context, developerID string) ([]string, error) {
	techs, err := s.repo.ListByDeveloper(ctx, developerID)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(techs))
	for _, tech := range techs {
		names = append(names, tech.Name)
	}
	return names, nil
}

// isNotFound informa se o erro da cadeia é um NotFoundError tipado.
func isNotFound(err error) bool {
	var notFoundErr *apperror.NotFoundError
	return errors.As(err, &notFoundErr)
}
