// Package notify: despacho de lembretes da agenda via webhook HTTP. O gateway
// do outro lado (WhatsApp, e-mail, push) fica fora deste serviço.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/agrofiscal/agrofiscal-api/internal/application/ports"
	"github.com/agrofiscal/agrofiscal-api/internal/domain/fiscal"
)

var _ ports.ReminderNotifier = (*WebhookNotifier)(nil)

// WebhookNotifier envia cada lembrete como POST JSON para a URL configurada.
type WebhookNotifier struct {
	url        string
	httpClient *http.Client
}

// NewWebhookNotifier constrói o notificador.
func NewWebhookNotifier(url string) *WebhookNotifier {
	return &WebhookNotifier{
		url:        url,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// reminderPayload corpo enviado ao gateway de mensagens.
type reminderPayload struct {
	ProducerID    string `json:"produtor_id"`
	Obligation    string `json:"obrigacao"`
	Description   string `json:"descricao,omitempty"`
	DueDate       string `json:"vencimento"`
	DaysRemaining int    `json:"dias_restantes"`
	LeadDays      int    `json:"antecedencia_dias"`
	Message       string `json:"mensagem"`
}

// Notify envia o lembrete. Status fora de 2xx conta como erro.
func (n *WebhookNotifier) Notify(ctx context.Context, producerID string, r fiscal.Reminder) error {
	occ := r.Occurrence
	payload := reminderPayload{
		ProducerID:    producerID,
		Obligation:    occ.Obligation.Name,
		Description:   occ.Obligation.Description,
		DueDate:       occ.DueDate.Format("2006-01-02"),
		DaysRemaining: occ.DaysRemaining,
		LeadDays:      r.LeadDays,
		Message: fmt.Sprintf("Lembrete: %s vence em %s.",
			occ.Obligation.Name, occ.DueDate.Format("02/01/2006")),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("notify: serializar lembrete: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("notify: criar request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("notify: enviar webhook: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4*1024))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("notify: webhook respondeu HTTP %d", resp.StatusCode)
	}
	return nil
}
