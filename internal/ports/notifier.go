package ports

import "context"

// Notifier delivers a text message to a chat. Delivery is best-effort,
// single attempt; callers log failures and move on.
type Notifier interface {
	Send(ctx context.Context, chatID int64, text string) error
}
