package sheets

import (
	"context"

	"ledgerd/internal/core"
)

// Ports for outbound adapters.
type TransactionAppender interface {
	Append(ctx context.Context, tx core.Transaction) (rowRef string, err error)
}
