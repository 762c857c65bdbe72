package draft

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrofiscal/agrofiscal-api/internal/application/dto"
	"github.com/agrofiscal/agrofiscal-api/internal/domain"
	"github.com/agrofiscal/agrofiscal-api/internal/domain/entity"
	"github.com/agrofiscal/agrofiscal-api/internal/domain/repository"
	"github.com/agrofiscal/agrofiscal-api/pkg/logger"
)

// fakeDraftRepo repositório em memória. GetForUpdate devolve uma cópia e
// Update grava de volta, imitando a semântica ler-dentro-da-transação.
type fakeDraftRepo struct {
	drafts    map[string]*entity.Draft
	items     map[string][]entity.DraftItem
	createErr error // simula falha de insert dentro da transação
}

func newFakeDraftRepo() *fakeDraftRepo {
	return &fakeDraftRepo{
		drafts: map[string]*entity.Draft{},
		items:  map[string][]entity.DraftItem{},
	}
}

func (f *fakeDraftRepo) Create(d *entity.Draft, items []entity.DraftItem) error {
	if f.createErr != nil {
		return f.createErr
	}
	cp := *d
	f.drafts[d.ID] = &cp
	f.items[d.ID] = append([]entity.DraftItem(nil), items...)
	return nil
}

func (f *fakeDraftRepo) GetByID(id string) (*entity.Draft, error) {
	d, ok := f.drafts[id]
	if !ok {
		return nil, nil
	}
	cp := *d
	return &cp, nil
}

func (f *fakeDraftRepo) GetForUpdate(id string) (*entity.Draft, error) {
	return f.GetByID(id)
}

func (f *fakeDraftRepo) Update(d *entity.Draft) error {
	cp := *d
	f.drafts[d.ID] = &cp
	return nil
}

func (f *fakeDraftRepo) ReplaceItems(draftID string, items []entity.DraftItem) error {
	f.items[draftID] = append([]entity.DraftItem(nil), items...)
	return nil
}

func (f *fakeDraftRepo) GetItems(draftID string) ([]entity.DraftItem, error) {
	return append([]entity.DraftItem(nil), f.items[draftID]...), nil
}

func (f *fakeDraftRepo) ListByProducer(producerID string, status entity.DraftStatus) ([]*entity.Draft, error) {
	var out []*entity.Draft
	for _, d := range f.drafts {
		if d.ProducerID != producerID {
			continue
		}
		if status != "" && d.Status != status {
			continue
		}
		cp := *d
		out = append(out, &cp)
	}
	return out, nil
}

type fakeDocRepo struct {
	docs     map[string]*entity.FiscalDocument
	items    map[string][]entity.DocumentItem
	sequence int64
}

func newFakeDocRepo() *fakeDocRepo {
	return &fakeDocRepo{
		docs:  map[string]*entity.FiscalDocument{},
		items: map[string][]entity.DocumentItem{},
	}
}

func (f *fakeDocRepo) Create(doc *entity.FiscalDocument, items []entity.DocumentItem) error {
	cp := *doc
	f.docs[doc.ID] = &cp
	f.items[doc.ID] = append([]entity.DocumentItem(nil), items...)
	return nil
}

func (f *fakeDocRepo) GetByID(id string) (*entity.FiscalDocument, error) {
	d, ok := f.docs[id]
	if !ok {
		return nil, nil
	}
	cp := *d
	return &cp, nil
}

func (f *fakeDocRepo) GetItems(documentID string) ([]entity.DocumentItem, error) {
	return append([]entity.DocumentItem(nil), f.items[documentID]...), nil
}

func (f *fakeDocRepo) NextNumber() (int64, error) {
	f.sequence++
	return f.sequence, nil
}

func (f *fakeDocRepo) ListByProducer(producerID string) ([]*entity.FiscalDocument, error) {
	var out []*entity.FiscalDocument
	for _, d := range f.docs {
		if d.ProducerID == producerID {
			cp := *d
			out = append(out, &cp)
		}
	}
	return out, nil
}

// fakeTxRunner executa o callback diretamente sobre os repositórios em
// memória, sem transação real.
type fakeTxRunner struct {
	drafts *fakeDraftRepo
	docs   *fakeDocRepo
	runs   int
}

func (f *fakeTxRunner) Run(_ context.Context, fn func(
	drafts repository.DraftRepository,
	docs repository.DocumentRepository,
) error) error {
	f.runs++
	return fn(f.drafts, f.docs)
}

type fakeProducerRepo struct {
	producers map[string]*entity.Producer
}

func (f *fakeProducerRepo) Create(p *entity.Producer) error { f.producers[p.ID] = p; return nil }
func (f *fakeProducerRepo) GetByID(id string) (*entity.Producer, error) {
	return f.producers[id], nil
}
func (f *fakeProducerRepo) GetByTaxID(taxID string) (*entity.Producer, error) {
	for _, p := range f.producers {
		if p.TaxID == taxID {
			return p, nil
		}
	}
	return nil, nil
}
func (f *fakeProducerRepo) List() ([]*entity.Producer, error) { return nil, nil }

type fixture struct {
	uc       *UseCase
	finalize *FinalizeUseCase
	drafts   *fakeDraftRepo
	docs     *fakeDocRepo
	tx       *fakeTxRunner
}

func newFixture() *fixture {
	drafts := newFakeDraftRepo()
	docs := newFakeDocRepo()
	tx := &fakeTxRunner{drafts: drafts, docs: docs}
	producers := &fakeProducerRepo{producers: map[string]*entity.Producer{
		"prod-1": {
			ID: "prod-1", Name: "Fazenda Boa Vista", TaxID: "04252011000110",
			UF: "MT", UFCode: "51", Regime: entity.RegimePF,
		},
		"prod-2": {
			ID: "prod-2", Name: "Sítio Santa Fé", TaxID: "98765432000188",
			UF: "GO", UFCode: "52", Regime: entity.RegimeSimples,
		},
	}}
	log := logger.New(logger.Config{Env: "production", Level: "error"})
	emission := EmissionConfig{Model: "55", Series: "001", EmissionType: "1"}
	return &fixture{
		uc:       NewUseCase(tx, drafts, producers, log),
		finalize: NewFinalizeUseCase(tx, producers, emission, log),
		drafts:   drafts,
		docs:     docs,
		tx:       tx,
	}
}

func validCreateRequest() dto.CreateDraftRequest {
	return dto.CreateDraftRequest{
		DraftHeaderRequest: dto.DraftHeaderRequest{
			Kind:              "saida",
			OperationCode:     "5102",
			Nature:            "Venda de produção própria",
			CounterpartyName:  "Cooperativa Agroverde",
			CounterpartyTaxID: "12345678000195",
			DestinationUF:     "mt",
			IssueDate:         "2026-03-10",
		},
		Items: []dto.DraftItemRequest{
			{
				Description: "Soja em grãos",
				NCM:         "12019000",
				Unit:        "SC",
				Quantity:    decimal.NewFromInt(10),
				UnitPrice:   decimal.RequireFromString("5.00"),
				ICMSRate:    decimal.RequireFromString("0.12"),
			},
			{
				Description: "Milho em grãos",
				NCM:         "10059010",
				Unit:        "SC",
				Quantity:    decimal.NewFromInt(3),
				UnitPrice:   decimal.RequireFromString("2.00"),
				ICMSRate:    decimal.RequireFromString("0.12"),
			},
		},
	}
}

func TestCreateCalculaTotaisEComecaEmRascunho(t *testing.T) {
	fx := newFixture()

	resp, err := fx.uc.Create(context.Background(), "prod-1", validCreateRequest())
	require.NoError(t, err)

	assert.Equal(t, "rascunho", resp.Status)
	assert.True(t, decimal.RequireFromString("56.00").Equal(resp.TotalValue),
		"total deve ser a soma dos itens (10×5.00 + 3×2.00): %s", resp.TotalValue)
	assert.Contains(t, resp.TemporaryKey, "RAS-")
	assert.Equal(t, "MT", resp.DestinationUF)
	require.Len(t, resp.Items, 2)
	assert.True(t, decimal.RequireFromString("50.00").Equal(resp.Items[0].LineTotal))
	assert.True(t, decimal.RequireFromString("6.00").Equal(resp.Items[0].ICMSValue),
		"ICMS da linha = 50.00 × 0.12")
}

// Cabeçalho e itens entram na mesma transação: falha de insert não deixa
// rascunho parcial para trás.
func TestCreateExecutaDentroDeTransacao(t *testing.T) {
	fx := newFixture()
	fx.drafts.createErr = assert.AnError

	_, err := fx.uc.Create(context.Background(), "prod-1", validCreateRequest())
	require.Error(t, err)
	assert.Equal(t, 1, fx.tx.runs, "o insert deve passar pelo runner transacional")
	assert.Empty(t, fx.drafts.drafts, "nenhum rascunho parcial persistido")
	assert.Empty(t, fx.drafts.items)
}

func TestCreateProdutorInexistente(t *testing.T) {
	fx := newFixture()

	_, err := fx.uc.Create(context.Background(), "fantasma", validCreateRequest())
	assert.ErrorIs(t, err, domain.ErrProducerNotFound)
}

func TestCreateItemInvalido(t *testing.T) {
	fx := newFixture()
	in := validCreateRequest()
	in.Items[0].Quantity = decimal.Zero

	_, err := fx.uc.Create(context.Background(), "prod-1", in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUpdateSubstituiItensERecalculaTotal(t *testing.T) {
	fx := newFixture()
	created, err := fx.uc.Create(context.Background(), "prod-1", validCreateRequest())
	require.NoError(t, err)

	resp, err := fx.uc.Update(context.Background(), created.ID, "prod-1", dto.UpdateDraftRequest{
		Items: []dto.DraftItemRequest{
			{Description: "Soja em grãos", Unit: "SC",
				Quantity: decimal.NewFromInt(4), UnitPrice: decimal.RequireFromString("25.00")},
		},
	})
	require.NoError(t, err)

	assert.True(t, decimal.RequireFromString("100.00").Equal(resp.TotalValue))
	require.Len(t, resp.Items, 1)
}

func TestUpdateNaoEditavel(t *testing.T) {
	fx := newFixture()
	created, err := fx.uc.Create(context.Background(), "prod-1", validCreateRequest())
	require.NoError(t, err)
	_, err = fx.uc.Submit(context.Background(), created.ID, "prod-1")
	require.NoError(t, err)

	_, err = fx.uc.Update(context.Background(), created.ID, "prod-1", dto.UpdateDraftRequest{})
	assert.ErrorIs(t, err, domain.ErrDraftNotEditable)
}

func TestUpdateDeOutroProdutor(t *testing.T) {
	fx := newFixture()
	created, err := fx.uc.Create(context.Background(), "prod-1", validCreateRequest())
	require.NoError(t, err)

	_, err = fx.uc.Update(context.Background(), created.ID, "prod-2", dto.UpdateDraftRequest{})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestSubmitSemCamposObrigatorios(t *testing.T) {
	fx := newFixture()
	in := validCreateRequest()
	in.CounterpartyName = ""
	in.CounterpartyTaxID = ""
	created, err := fx.uc.Create(context.Background(), "prod-1", in)
	require.NoError(t, err)

	_, err = fx.uc.Submit(context.Background(), created.ID, "prod-1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// o envio inválido não muda o status
	stored, _ := fx.drafts.GetByID(created.ID)
	assert.Equal(t, entity.DraftStatusDraft, stored.Status)
}

func TestReviewDevolveComFeedbackEEdicaoLimpa(t *testing.T) {
	fx := newFixture()
	created, err := fx.uc.Create(context.Background(), "prod-1", validCreateRequest())
	require.NoError(t, err)
	_, err = fx.uc.Submit(context.Background(), created.ID, "prod-1")
	require.NoError(t, err)

	reviewed, err := fx.uc.Review(context.Background(), created.ID, "cont-1", dto.ReviewDraftRequest{
		Decision:    "revisao_solicitada",
		Feedback:    "NCM do item 1 incorreto",
		Corrections: map[string]string{"itens[0].ncm": "12011000"},
	})
	require.NoError(t, err)
	assert.Equal(t, "revisao_solicitada", reviewed.Status)
	assert.Equal(t, "NCM do item 1 incorreto", reviewed.ReviewFeedback)
	assert.Equal(t, "cont-1", reviewed.ContadorID)

	// editar o rascunho devolvido limpa o feedback e volta para rascunho
	edited, err := fx.uc.Update(context.Background(), created.ID, "prod-1", dto.UpdateDraftRequest{})
	require.NoError(t, err)
	assert.Equal(t, "rascunho", edited.Status)
	assert.Empty(t, edited.ReviewFeedback)
	assert.Empty(t, edited.SuggestedCorrections)
}

func TestReviewForaDeEnviado(t *testing.T) {
	fx := newFixture()
	created, err := fx.uc.Create(context.Background(), "prod-1", validCreateRequest())
	require.NoError(t, err)

	_, err = fx.uc.Review(context.Background(), created.ID, "cont-1", dto.ReviewDraftRequest{Decision: "aprovado"})
	var transErr *domain.InvalidTransitionError
	require.ErrorAs(t, err, &transErr)
	assert.Equal(t, "rascunho", transErr.Current)
}

func TestGetRespeitaPosse(t *testing.T) {
	fx := newFixture()
	created, err := fx.uc.Create(context.Background(), "prod-1", validCreateRequest())
	require.NoError(t, err)

	_, err = fx.uc.Get(created.ID, "prod-2", false)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	// revisor enxerga rascunho de qualquer produtor
	resp, err := fx.uc.Get(created.ID, "cont-1", true)
	require.NoError(t, err)
	assert.Equal(t, created.ID, resp.ID)
}

func TestListFiltraPorStatus(t *testing.T) {
	fx := newFixture()
	first, err := fx.uc.Create(context.Background(), "prod-1", validCreateRequest())
	require.NoError(t, err)
	_, err = fx.uc.Create(context.Background(), "prod-1", validCreateRequest())
	require.NoError(t, err)
	_, err = fx.uc.Submit(context.Background(), first.ID, "prod-1")
	require.NoError(t, err)

	submitted, err := fx.uc.List("prod-1", "enviado")
	require.NoError(t, err)
	require.Len(t, submitted, 1)
	assert.Equal(t, first.ID, submitted[0].ID)

	all, err := fx.uc.List("prod-1", "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
