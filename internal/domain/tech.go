package domain

// Tech representa uma tecnologia do catálogo fixo (tabela de referência).
// O catálogo é apenas leitura em tempo de execução; a carga é feita via migration.
type Tech struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// TechReplacement é o resultado da substituição do conjunto de tecnologias
// de um desenvolvedor. A política é de sucesso parcial: Applied contém os
// nomes aplicados e Unresolved os nomes que não existem no catálogo.
type TechReplacement struct {
	Applied    []string `json:"technologies"`
	Unresolved []string `json:"technologies_not_available,omitempty"`
}
