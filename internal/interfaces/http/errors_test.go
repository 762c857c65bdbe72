package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrofiscal/agrofiscal-api/internal/application/dto"
	"github.com/agrofiscal/agrofiscal-api/internal/domain"
	"github.com/agrofiscal/agrofiscal-api/internal/domain/entity"
)

// appThatFails monta uma rota que sempre responde com o erro dado, para
// exercitar o mapeamento erro de domínio → status HTTP.
func appThatFails(err error) *fiber.App {
	app := fiber.New()
	app.Get("/boom", func(c *fiber.Ctx) error {
		return respondError(c, err)
	})
	return app
}

func TestRespondError_MapeiaErrosDeDominio(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"entrada inválida", domain.ErrInvalidInput, http.StatusBadRequest, "VALIDATION"},
		{"não encontrado", domain.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"produtor não encontrado", domain.ErrProducerNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"acesso negado", domain.ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
		{"recurso duplicado", domain.ErrDuplicate, http.StatusConflict, "DUPLICATE"},
		{"rascunho não editável", domain.ErrDraftNotEditable, http.StatusConflict, "NOT_EDITABLE"},
		{
			"transição inválida",
			&domain.InvalidTransitionError{Current: "rascunho", Event: "revisar"},
			http.StatusConflict,
			"INVALID_TRANSITION",
		},
		{
			"pré-condição violada",
			&domain.PreconditionError{Current: "finalizado", Event: "finalizar", Reason: "documento já emitido"},
			http.StatusConflict,
			"PRECONDITION_FAILED",
		},
		{"erro desconhecido", assert.AnError, http.StatusInternalServerError, "INTERNAL"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := appThatFails(tc.err)
			req := httptest.NewRequest(http.MethodGet, "/boom", nil)
			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tc.wantStatus, resp.StatusCode)

			var body dto.ErrorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tc.wantCode, body.Code)
			assert.NotEmpty(t, body.Message)
		})
	}
}

// O detalhe da transição deve chegar ao cliente para orientar a correção.
func TestRespondError_TransicaoInvalidaIncluiEstadoAtual(t *testing.T) {
	app := appThatFails(&domain.InvalidTransitionError{
		Current: string(entity.DraftStatusFinalized),
		Event:   "editar",
	})
	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Contains(t, body.Message, string(entity.DraftStatusFinalized))
}
