package entity

import "time"

// Producer representa o produtor rural dono dos rascunhos e documentos fiscais.
type Producer struct {
	ID                string
	Name              string
	TaxID             string // CPF ou CNPJ (somente dígitos)
	StateRegistration string // inscrição estadual
	UF                string // sigla da UF (ex: "MT")
	UFCode            string // código IBGE da UF, 2 dígitos (ex: "51") — usado na chave de acesso
	Municipality      string
	Regime            string // simples | lucro_presumido | lucro_real | produtor_pf
	Email             string
	Phone             string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
