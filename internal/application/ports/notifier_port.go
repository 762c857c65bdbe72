package ports

import (
	"context"

	"github.com/agrofiscal/agrofiscal-api/internal/domain/fiscal"
)

// ReminderNotifier define o porto de saída para o despacho de lembretes de
// obrigações. O adaptador concreto (webhook HTTP, mock) decide o transporte.
type ReminderNotifier interface {
	// Notify envia um lembrete para o produtor. Erro não interrompe o lote:
	// o caso de uso registra e contabiliza o lembrete como ignorado.
	Notify(ctx context.Context, producerID string, r fiscal.Reminder) error
}
