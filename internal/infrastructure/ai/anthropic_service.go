package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/agrofiscal/agrofiscal-api/internal/application/dto"
	"github.com/agrofiscal/agrofiscal-api/internal/application/ports"
)

// Verificação em tempo de compilação de que AnthropicService implementa o porto.
var _ ports.ItemExtractor = (*AnthropicService)(nil)

const (
	anthropicMessagesURL = "https://api.anthropic.com/v1/messages"
	anthropicVersion     = "2023-06-01"

	anthropicSystemPrompt = `Você é um assistente fiscal de produtores rurais no Brasil, especialista em notas fiscais de produtor.
O usuário envia um texto livre (nota manuscrita, mensagem, lista de venda) descrevendo mercadorias vendidas ou compradas.
Devolva SOMENTE um array JSON válido (sem markdown, sem blocos de código` + " ```json" + `) com esta estrutura exata:
[
  {
    "descricao": "<descrição da mercadoria>",
    "ncm": "<código NCM de 8 dígitos, ou string vazia se incerto>",
    "unidade": "<unidade: KG, SC, TON, UN, L, CX>",
    "quantidade": "<número como string, ponto decimal>",
    "valor_unitario": "<número como string, ponto decimal>"
  }
]

Regras:
- Um elemento por mercadoria distinta mencionada no texto.
- quantidade e valor_unitario sempre como string numérica ("150", "92.50"); se o texto só der o total, divida pelo volume.
- ncm: só preencha com certeza alta (soja em grãos = 12019000, milho em grãos = 10059010); senão deixe "".
- Não inclua texto fora do array JSON.`
)

// AnthropicService adaptador que implementa ItemExtractor usando a Messages
// API da Anthropic (Claude) via net/http; não exige o SDK oficial.
type AnthropicService struct {
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewAnthropicService constrói o adaptador.
// model costuma ser "claude-3-5-haiku-20241022".
// apiKey vazio faz as chamadas falharem com erro descritivo, nunca panic.
func NewAnthropicService(apiKey, model string) *AnthropicService {
	return &AnthropicService{
		apiKey: apiKey,
		model:  model,
		httpClient: &http.Client{
			// timeout de rede de 25 s; o use case ainda impõe um
			// context.WithTimeout de 10 s por cima
			Timeout: 25 * time.Second,
		},
	}
}

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	System    string             `json:"system"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// jsonArrayRe captura o primeiro array JSON do texto, mesmo que o modelo o
// envolva em prosa.
var jsonArrayRe = regexp.MustCompile(`(?s)\[.*\]`)

// ExtractItems envia o texto livre ao modelo e devolve os itens sugeridos.
func (s *AnthropicService) ExtractItems(ctx context.Context, text string) ([]dto.ExtractedItem, error) {
	if s.apiKey == "" {
		return nil, fmt.Errorf("AI: ANTHROPIC_API_KEY não configurado")
	}

	payload := anthropicRequest{
		Model:     s.model,
		MaxTokens: 1024,
		System:    anthropicSystemPrompt,
		Messages: []anthropicMessage{
			{Role: "user", Content: text},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("AI: serializar request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, anthropicMessagesURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("AI: criar HTTP request: %w", err)
	}
	req.Header.Set("x-api-key", s.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)
	req.Header.Set("content-type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("AI: timeout ou cancelamento: %w", ctx.Err())
		}
		return nil, fmt.Errorf("AI: chamada HTTP falhou: %w", err)
	}
	defer resp.Body.Close()

	rawBody, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return nil, fmt.Errorf("AI: ler resposta: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp anthropicResponse
		if jsonErr := json.Unmarshal(rawBody, &errResp); jsonErr == nil && errResp.Error != nil {
			return nil, fmt.Errorf("AI: Anthropic error (%s): %s", errResp.Error.Type, errResp.Error.Message)
		}
		return nil, fmt.Errorf("AI: Anthropic HTTP %d: %s", resp.StatusCode, string(rawBody))
	}

	var anthResp anthropicResponse
	if err := json.Unmarshal(rawBody, &anthResp); err != nil {
		return nil, fmt.Errorf("AI: desserializar resposta Anthropic: %w", err)
	}
	if len(anthResp.Content) == 0 {
		return nil, fmt.Errorf("AI: resposta vazia do modelo")
	}

	cleanJSON := extractJSONArray(anthResp.Content[0].Text)
	if cleanJSON == "" {
		return nil, fmt.Errorf("AI: nenhum array JSON na resposta do modelo (resposta: %s)", anthResp.Content[0].Text)
	}

	var items []dto.ExtractedItem
	if err := json.Unmarshal([]byte(cleanJSON), &items); err != nil {
		return nil, fmt.Errorf("AI: parsear itens extraídos: %w (JSON extraído: %s)", err, cleanJSON)
	}
	return items, nil
}

// extractJSONArray extrai o primeiro array JSON bem formado de um texto livre:
// remove blocos markdown e captura do primeiro '[' ao último ']'.
func extractJSONArray(text string) string {
	text = strings.TrimSpace(text)
	if idx := strings.Index(text, "```"); idx != -1 {
		after := text[idx+3:]
		if nl := strings.Index(after, "\n"); nl != -1 {
			after = after[nl+1:]
		}
		if close := strings.LastIndex(after, "```"); close != -1 {
			after = after[:close]
		}
		text = strings.TrimSpace(after)
	}
	return jsonArrayRe.FindString(text)
}
