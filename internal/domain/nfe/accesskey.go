// Package nfe: geração e validação da chave de acesso do documento fiscal
// eletrônico. A chave tem 45 caracteres numéricos: 44 dígitos de dados em
// concatenação de largura fixa com zeros à esquerda, mais 1 dígito verificador
// módulo 11.
//
// Composição dos 44 dígitos: UF (2) · AAMM da emissão (4) · CPF/CNPJ do
// emitente (14) · modelo (2) · série (3) · número sequencial (9) · tipo de
// emissão (1) · código numérico aleatório (9).
//
// Unicidade: o código aleatório não é conferido contra chaves anteriores; a
// unicidade na prática vem do número sequencial + AAMM. Garantia fraca
// assumida, não criptográfica.
package nfe

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"
)

// Larguras fixas dos campos da chave.
const (
	KeyDataDigits = 44 // dígitos de dados
	KeyTotal      = 45 // dados + dígito verificador
	nonceDigits   = 9
	nonceMax      = 1_000_000_000 // 10^9 (código aleatório de 9 dígitos)
)

// pesos do módulo 11: ciclo repetido alinhado à posição do dígito (índice 0 à
// esquerda).
var keyWeights = [12]int{4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2, 1}

// KeyParams dados do documento que compõem a chave de acesso.
type KeyParams struct {
	UFCode       string    // código IBGE da UF, 2 dígitos
	Issue        time.Time // usada como AAMM (ano+mês da emissão)
	IssuerTaxID  string    // CPF/CNPJ do emitente (até 14 dígitos; completado com zeros)
	Model        string    // modelo do documento, 2 dígitos (ex: "55")
	Series       string    // série, 3 dígitos
	Number       int64     // número sequencial, até 9 dígitos
	EmissionType string    // tipo de emissão, 1 dígito
	// Nonce código numérico aleatório. Negativo = sortear.
	Nonce int64
}

// Generate monta os 44 dígitos de dados, calcula o dígito verificador e
// devolve a chave completa de 45 caracteres.
func Generate(p KeyParams) (string, error) {
	uf := onlyDigits(p.UFCode)
	if len(uf) != 2 {
		return "", fmt.Errorf("nfe: código da UF deve ter 2 dígitos, recebido %q", p.UFCode)
	}
	taxID := onlyDigits(p.IssuerTaxID)
	if taxID == "" || len(taxID) > 14 {
		return "", fmt.Errorf("nfe: CPF/CNPJ do emitente inválido: %q", p.IssuerTaxID)
	}
	model := onlyDigits(p.Model)
	if len(model) != 2 {
		return "", fmt.Errorf("nfe: modelo deve ter 2 dígitos, recebido %q", p.Model)
	}
	series := onlyDigits(p.Series)
	if series == "" || len(series) > 3 {
		return "", fmt.Errorf("nfe: série inválida: %q", p.Series)
	}
	if p.Number <= 0 || p.Number > 999_999_999 {
		return "", fmt.Errorf("nfe: número sequencial fora da faixa: %d", p.Number)
	}
	emis := onlyDigits(p.EmissionType)
	if len(emis) != 1 {
		return "", fmt.Errorf("nfe: tipo de emissão deve ter 1 dígito, recebido %q", p.EmissionType)
	}
	if p.Issue.IsZero() {
		return "", fmt.Errorf("nfe: data de emissão é obrigatória")
	}
	nonce := p.Nonce
	if nonce < 0 {
		nonce = rand.Int64N(nonceMax)
	}
	if nonce >= nonceMax {
		return "", fmt.Errorf("nfe: código aleatório fora da faixa: %d", nonce)
	}

	data := uf +
		p.Issue.Format("0601") + // AAMM
		padLeft(taxID, 14) +
		model +
		padLeft(series, 3) +
		fmt.Sprintf("%09d", p.Number) +
		emis +
		fmt.Sprintf("%0*d", nonceDigits, nonce)
	if len(data) != KeyDataDigits {
		return "", fmt.Errorf("nfe: composição da chave com %d dígitos, esperado %d", len(data), KeyDataDigits)
	}

	dv, err := ComputeCheckDigit(data)
	if err != nil {
		return "", err
	}
	return data + string(dv), nil
}

// ComputeCheckDigit calcula o dígito verificador módulo 11 dos 44 dígitos de
// dados: cada dígito é multiplicado pelo peso do ciclo na sua posição, a soma
// é reduzida mod 11; resto < 2 → dígito 0, senão 11 − resto.
func ComputeCheckDigit(data string) (byte, error) {
	if len(data) != KeyDataDigits {
		return 0, fmt.Errorf("nfe: dígito verificador exige %d dígitos, recebidos %d", KeyDataDigits, len(data))
	}
	var sum int
	for i := 0; i < len(data); i++ {
		c := data[i]
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("nfe: caractere não numérico na posição %d: %q", i, c)
		}
		sum += int(c-'0') * keyWeights[i%len(keyWeights)]
	}
	remainder := sum % 11
	if remainder < 2 {
		return '0', nil
	}
	return byte('0' + (11 - remainder)), nil
}

// Validate verifica comprimento, conteúdo numérico e dígito verificador de uma
// chave completa.
func Validate(key string) error {
	if len(key) != KeyTotal {
		return fmt.Errorf("nfe: chave deve ter %d caracteres, recebidos %d", KeyTotal, len(key))
	}
	dv, err := ComputeCheckDigit(key[:KeyDataDigits])
	if err != nil {
		return err
	}
	if key[KeyDataDigits] != dv {
		return fmt.Errorf("nfe: dígito verificador inválido: esperado %c, recebido %c", dv, key[KeyDataDigits])
	}
	return nil
}

// padLeft completa s com zeros à esquerda até n caracteres.
func padLeft(s string, n int) string {
	if len(s) >= n {
		return s
	}
	return strings.Repeat("0", n-len(s)) + s
}

// onlyDigits deixa apenas dígitos 0-9.
func onlyDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
