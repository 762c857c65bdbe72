package nfe_test

import (
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrofiscal/agrofiscal-api/internal/domain/nfe"
)

// ──────────────────────────────────────────────────────────────────────────────
// Vetores exatos calculados manualmente com o ciclo de pesos
// [4,3,2,9,8,7,6,5,4,3,2,1] alinhado à posição e redução módulo 11.
// Se alguém alterar a ordem de concatenação, os pesos ou a regra do resto,
// estes testes falham imediatamente.
// ──────────────────────────────────────────────────────────────────────────────

func TestComputeCheckDigit_VetoresExatos(t *testing.T) {
	cases := []struct {
		name string
		data string
		want byte
	}{
		{"documento MT 2026", "51260304252011000110550010000000421073412986", '8'},
		{"documento SP 2025", "35251212345678000195550010000000011000000001", '0'},
		{"todos zeros", strings.Repeat("0", 44), '0'},
		{"todos noves", strings.Repeat("9", 44), '5'},
		{"todos uns", strings.Repeat("1", 44), '3'},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dv, err := nfe.ComputeCheckDigit(tc.data)
			require.NoError(t, err)
			assert.Equal(t, tc.want, dv, "dígito verificador deve bater com o vetor de referência")
		})
	}
}

func TestComputeCheckDigit_EntradaInvalida(t *testing.T) {
	_, err := nfe.ComputeCheckDigit("123")
	assert.Error(t, err, "menos de 44 dígitos deve retornar erro")

	_, err = nfe.ComputeCheckDigit(strings.Repeat("1", 43) + "X")
	assert.Error(t, err, "caractere não numérico deve retornar erro")
}

func baseParams() nfe.KeyParams {
	return nfe.KeyParams{
		UFCode:       "51",
		Issue:        time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC),
		IssuerTaxID:  "04.252.011/0001-10",
		Model:        "55",
		Series:       "1",
		Number:       42,
		EmissionType: "1",
		Nonce:        73412986,
	}
}

func TestGenerate_ComposicaoDeterminista(t *testing.T) {
	key, err := nfe.Generate(baseParams())
	require.NoError(t, err)

	assert.Len(t, key, nfe.KeyTotal)
	assert.Equal(t, "51260304252011000110550010000000421073412986", key[:nfe.KeyDataDigits],
		"os 44 dígitos de dados devem seguir a composição de largura fixa")
	assert.Equal(t, byte('8'), key[nfe.KeyDataDigits])
	assert.NoError(t, nfe.Validate(key))
}

// TestGenerate_InvarianteDV gera um volume grande de chaves com parâmetros
// aleatórios e verifica que checkDigit(chave[0:44]) == chave[44] para todas.
func TestGenerate_InvarianteDV(t *testing.T) {
	ufs := []string{"11", "23", "31", "35", "41", "43", "50", "51", "52"}
	for i := 0; i < 1500; i++ {
		p := nfe.KeyParams{
			UFCode:       ufs[rand.IntN(len(ufs))],
			Issue:        time.Date(2020+rand.IntN(10), time.Month(1+rand.IntN(12)), 1+rand.IntN(28), 0, 0, 0, 0, time.UTC),
			IssuerTaxID:  "12345678000195",
			Model:        "55",
			Series:       "001",
			Number:       1 + rand.Int64N(999_999_999),
			EmissionType: "1",
			Nonce:        -1, // sortear
		}
		key, err := nfe.Generate(p)
		require.NoError(t, err)
		require.Len(t, key, nfe.KeyTotal)

		dv, err := nfe.ComputeCheckDigit(key[:nfe.KeyDataDigits])
		require.NoError(t, err)
		require.Equal(t, dv, key[nfe.KeyDataDigits],
			"toda chave gerada deve passar na verificação do dígito: %s", key)
		require.NoError(t, nfe.Validate(key))
	}
}

func TestGenerate_ParametrosInvalidos(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*nfe.KeyParams)
	}{
		{"UF com 1 dígito", func(p *nfe.KeyParams) { p.UFCode = "5" }},
		{"emitente sem dígitos", func(p *nfe.KeyParams) { p.IssuerTaxID = "abc" }},
		{"modelo inválido", func(p *nfe.KeyParams) { p.Model = "555" }},
		{"série longa demais", func(p *nfe.KeyParams) { p.Series = "1234" }},
		{"número zero", func(p *nfe.KeyParams) { p.Number = 0 }},
		{"número acima de 9 dígitos", func(p *nfe.KeyParams) { p.Number = 1_000_000_000 }},
		{"tipo de emissão vazio", func(p *nfe.KeyParams) { p.EmissionType = "" }},
		{"emissão zerada", func(p *nfe.KeyParams) { p.Issue = time.Time{} }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := baseParams()
			tc.mutate(&p)
			_, err := nfe.Generate(p)
			assert.Error(t, err)
		})
	}
}

func TestValidate_ChaveAdulterada(t *testing.T) {
	key, err := nfe.Generate(baseParams())
	require.NoError(t, err)

	// troca um dígito de dados sem recalcular o DV
	tampered := []byte(key)
	if tampered[10] == '9' {
		tampered[10] = '0'
	} else {
		tampered[10]++
	}
	assert.Error(t, nfe.Validate(string(tampered)), "chave adulterada deve falhar na validação")

	assert.Error(t, nfe.Validate(key[:40]), "comprimento errado deve falhar")
}
