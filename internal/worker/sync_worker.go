package worker

import (
	"context"
	"fmt"
	"log/slog"

	"ledgerd/internal/amqp"
	"ledgerd/internal/sheets"
)

// SyncWorker mirrors recorded transactions into a Google Sheets spreadsheet.
type SyncWorker struct {
	appender sheets.TransactionAppender
}

func NewSyncWorker(appender sheets.TransactionAppender) *SyncWorker {
	return &SyncWorker{appender: appender}
}

// HandleSyncMessage processes a single transaction sync message from AMQP.
// The message carries the full transaction, so no store lookup is needed.
func (w *SyncWorker) HandleSyncMessage(ctx context.Context, msg *amqp.TransactionMessage) error {
	tx := msg.Transaction

	slog.InfoContext(ctx, "Processing sync message",
		"transaction_id", tx.ID,
		"category", tx.Category)

	ref, err := w.appender.Append(ctx, tx)
	if err != nil {
		return fmt.Errorf("append transaction to sheets: %w", err)
	}

	slog.InfoContext(ctx, "Synced transaction to sheets",
		"transaction_id", tx.ID,
		"row_ref", ref)

	return nil
}
