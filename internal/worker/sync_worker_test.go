package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"ledgerd/internal/amqp"
	"ledgerd/internal/core"
)

type fakeAppender struct {
	appended []core.Transaction
	err      error
}

func (f *fakeAppender) Append(_ context.Context, tx core.Transaction) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.appended = append(f.appended, tx)
	return "Transactions!A2:F2", nil
}

func TestHandleSyncMessageAppendsTransaction(t *testing.T) {
	app := &fakeAppender{}
	w := NewSyncWorker(app)

	msg := amqp.NewTransactionMessage(core.Transaction{
		ID:        "tx-1",
		Amount:    -42.50,
		Category:  "food",
		Timestamp: time.Now(),
	})

	if err := w.HandleSyncMessage(context.Background(), msg); err != nil {
		t.Fatalf("HandleSyncMessage() error = %v", err)
	}
	if len(app.appended) != 1 {
		t.Fatalf("appended %d transactions, want 1", len(app.appended))
	}
	if app.appended[0].ID != "tx-1" {
		t.Errorf("appended ID = %v, want tx-1", app.appended[0].ID)
	}
}

func TestHandleSyncMessagePropagatesAppendError(t *testing.T) {
	app := &fakeAppender{err: errors.New("quota exceeded")}
	w := NewSyncWorker(app)

	msg := amqp.NewTransactionMessage(core.Transaction{ID: "tx-2", Amount: 10, Category: "salary"})

	if err := w.HandleSyncMessage(context.Background(), msg); err == nil {
		t.Fatal("HandleSyncMessage() error = nil, want append error")
	}
}
