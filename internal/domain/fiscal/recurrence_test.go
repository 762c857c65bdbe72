package fiscal_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrofiscal/agrofiscal-api/internal/domain"
	"github.com/agrofiscal/agrofiscal-api/internal/domain/entity"
	"github.com/agrofiscal/agrofiscal-api/internal/domain/fiscal"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func monthly(day int) entity.Obligation {
	return entity.Obligation{Name: "Funrural (GPS)", Recurrence: entity.RecurrenceMonthly, DueDay: day, Active: true}
}

// Janela de 90 dias com template mensal dia 20: exatamente uma ocorrência por
// mês tocado, todas no dia 20.
func TestExpand_MensalJanela90Dias(t *testing.T) {
	start := date(2025, time.January, 10)
	end := start.AddDate(0, 0, 90) // 2025-04-10

	occs, err := fiscal.Expand(monthly(20), start, end)
	require.NoError(t, err)

	require.Len(t, occs, 3)
	assert.Equal(t, date(2025, time.January, 20), occs[0].DueDate)
	assert.Equal(t, date(2025, time.February, 20), occs[1].DueDate)
	assert.Equal(t, date(2025, time.March, 20), occs[2].DueDate)
	for _, occ := range occs {
		assert.Equal(t, 20, occ.DueDate.Day())
	}
}

// O vencimento do primeiro mês anterior à abertura da janela é pulado: avança
// um mês em vez de emitir ocorrência fora da janela.
func TestExpand_MensalPrimeiroMesJaVencido(t *testing.T) {
	start := date(2025, time.January, 25)
	end := date(2025, time.March, 5)

	occs, err := fiscal.Expand(monthly(20), start, end)
	require.NoError(t, err)

	require.Len(t, occs, 1)
	assert.Equal(t, date(2025, time.February, 20), occs[0].DueDate)
}

// Dia 31 em fevereiro deve ajustar ao último dia do mês, nunca falhar.
func TestExpand_DiaAjustadoEmMesCurto(t *testing.T) {
	occs, err := fiscal.Expand(monthly(31), date(2025, time.February, 1), date(2025, time.February, 28))
	require.NoError(t, err)
	require.Len(t, occs, 1)
	assert.Equal(t, date(2025, time.February, 28), occs[0].DueDate)

	// ano bissexto
	occs, err = fiscal.Expand(monthly(31), date(2024, time.February, 1), date(2024, time.March, 1))
	require.NoError(t, err)
	require.Len(t, occs, 1)
	assert.Equal(t, date(2024, time.February, 29), occs[0].DueDate)
}

// Trimestral: apenas meses de índice 0-based múltiplo de 3 (jan, abr, jul, out);
// âncora no meio do trimestre ajusta para o próximo mês da grade.
func TestExpand_TrimestralAjustaParaGrade(t *testing.T) {
	tpl := entity.Obligation{Name: "IRPJ/CSLL", Recurrence: entity.RecurrenceQuarterly, DueDay: 30, Active: true}

	occs, err := fiscal.Expand(tpl, date(2025, time.February, 15), date(2025, time.August, 15))
	require.NoError(t, err)

	require.Len(t, occs, 2)
	assert.Equal(t, date(2025, time.April, 30), occs[0].DueDate)
	assert.Equal(t, date(2025, time.July, 30), occs[1].DueDate)
}

func TestExpand_TrimestralAnoCompleto(t *testing.T) {
	tpl := entity.Obligation{Name: "IRPJ/CSLL", Recurrence: entity.RecurrenceQuarterly, DueDay: 10, Active: true}

	occs, err := fiscal.Expand(tpl, date(2025, time.January, 1), date(2025, time.December, 31))
	require.NoError(t, err)

	require.Len(t, occs, 4)
	months := []time.Month{time.January, time.April, time.July, time.October}
	for i, occ := range occs {
		assert.Equal(t, months[i], occ.DueDate.Month())
		assert.Equal(t, 10, occ.DueDate.Day())
	}
}

// Anual: se a data do ano corrente precede a janela, usa o ano seguinte.
func TestExpand_AnualRolaParaProximoAno(t *testing.T) {
	tpl := entity.Obligation{
		Name: "IRPF", Recurrence: entity.RecurrenceAnnual,
		DueMonth: time.May, DueDay: 31, Active: true,
	}

	occs, err := fiscal.Expand(tpl, date(2025, time.June, 1), date(2026, time.June, 1))
	require.NoError(t, err)

	require.Len(t, occs, 1)
	assert.Equal(t, date(2026, time.May, 31), occs[0].DueDate)
}

func TestExpand_AnualDentroDoAno(t *testing.T) {
	tpl := entity.Obligation{
		Name: "DITR", Recurrence: entity.RecurrenceAnnual,
		DueMonth: time.September, DueDay: 30, Active: true,
	}

	occs, err := fiscal.Expand(tpl, date(2025, time.January, 1), date(2025, time.December, 31))
	require.NoError(t, err)
	require.Len(t, occs, 1)
	assert.Equal(t, date(2025, time.September, 30), occs[0].DueDate)
}

// Única: uma ocorrência se a data fixa cai na janela, senão nenhuma.
func TestExpand_UnicaDentroEForaDaJanela(t *testing.T) {
	fixed := date(2026, time.December, 31)
	tpl := entity.Obligation{Name: "CAR", Recurrence: entity.RecurrenceOnce, FixedDate: &fixed, Active: true}

	occs, err := fiscal.Expand(tpl, date(2026, time.December, 1), date(2027, time.January, 31))
	require.NoError(t, err)
	require.Len(t, occs, 1)
	assert.Equal(t, fixed, occs[0].DueDate)

	occs, err = fiscal.Expand(tpl, date(2025, time.January, 1), date(2025, time.December, 31))
	require.NoError(t, err)
	assert.Empty(t, occs, "data fixa fora da janela não gera ocorrência")
}

// Única sem data fixa é template inválido: erro, nunca uma data inferida de
// DueMonth/DueDay (a inferência perderia datas do ano seguinte em janelas que
// cruzam a virada).
func TestExpand_UnicaSemDataFixaRetornaErro(t *testing.T) {
	tpl := entity.Obligation{
		Name: "CAR", Recurrence: entity.RecurrenceOnce,
		DueMonth: time.March, DueDay: 15, Active: true,
	}

	occs, err := fiscal.Expand(tpl, date(2025, time.January, 1), date(2025, time.December, 31))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, occs)

	// Janela que cruza a virada do ano: mesmo resultado, nenhuma data fabricada.
	_, err = fiscal.Expand(tpl, date(2025, time.December, 15), date(2026, time.January, 31))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Recorrência desconhecida: erro identificável, nunca pânico — o chamador pula
// o template e segue o lote.
func TestExpand_RecorrenciaDesconhecida(t *testing.T) {
	tpl := entity.Obligation{Name: "???", Recurrence: "semestral", DueDay: 10}
	_, err := fiscal.Expand(tpl, date(2025, time.January, 1), date(2025, time.December, 31))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnknownRecurrence)
}

func TestExpand_JanelaInvertida(t *testing.T) {
	_, err := fiscal.Expand(monthly(10), date(2025, time.March, 1), date(2025, time.January, 1))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Determinismo: duas chamadas com argumentos idênticos produzem o mesmo conjunto.
func TestExpand_Determinista(t *testing.T) {
	start := date(2025, time.January, 1)
	end := date(2027, time.December, 31)

	a, err := fiscal.Expand(monthly(15), start, end)
	require.NoError(t, err)
	b, err := fiscal.Expand(monthly(15), start, end)
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Len(t, a, 36)
}

// Teto de iteração: janela absurda não trava nem estoura o limite de 10 anos.
func TestExpand_TetoDezAnos(t *testing.T) {
	occs, err := fiscal.Expand(monthly(1), date(2025, time.January, 1), date(2100, time.January, 1))
	require.NoError(t, err)
	assert.LessOrEqual(t, len(occs), 120)
}

func TestApplyReference_Status(t *testing.T) {
	ref := date(2025, time.March, 10)
	occs := []fiscal.Occurrence{
		{DueDate: date(2025, time.March, 8)},  // vencida há 2 dias
		{DueDate: date(2025, time.March, 10)}, // vence hoje
		{DueDate: date(2025, time.March, 15)}, // em 5 dias
		{DueDate: date(2025, time.March, 17)}, // em 7 dias (limite urgente)
		{DueDate: date(2025, time.March, 18)}, // em 8 dias
	}
	occs = fiscal.ApplyReference(occs, ref)

	assert.Equal(t, fiscal.OccurrenceOverdue, occs[0].Status)
	assert.Equal(t, -2, occs[0].DaysRemaining)
	assert.Equal(t, fiscal.OccurrenceOverdue, occs[1].Status)
	assert.Equal(t, 0, occs[1].DaysRemaining)
	assert.Equal(t, fiscal.OccurrenceUrgent, occs[2].Status)
	assert.Equal(t, 5, occs[2].DaysRemaining)
	assert.Equal(t, fiscal.OccurrenceUrgent, occs[3].Status)
	assert.Equal(t, fiscal.OccurrenceNormal, occs[4].Status)
}

// Referência com hora quebrada: dias restantes usam teto, então faltando
// 4 dias e meia hora conta como 5 dias.
func TestApplyReference_ArredondaParaCima(t *testing.T) {
	ref := time.Date(2025, time.March, 10, 23, 30, 0, 0, time.UTC)
	occs := fiscal.ApplyReference([]fiscal.Occurrence{{DueDate: date(2025, time.March, 15)}}, ref)
	assert.Equal(t, 5, occs[0].DaysRemaining)
}

func TestCatalog_ForRegime(t *testing.T) {
	cat := fiscal.DefaultCatalog()
	require.NotZero(t, cat.Len())

	pf := cat.ForRegime(entity.RegimePF)
	for _, o := range pf {
		assert.True(t, o.AppliesTo(entity.RegimePF), "obrigação %q não se aplica ao regime PF", o.Name)
		assert.True(t, o.Active)
	}

	var names []string
	for _, o := range pf {
		names = append(names, o.Name)
	}
	assert.Contains(t, names, "IRPF — atividade rural")
	assert.NotContains(t, names, "DCTFWeb", "obrigação exclusiva de PJ não deve aparecer para PF")
}
