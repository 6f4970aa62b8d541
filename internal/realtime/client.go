package realtime

import (
	"sync"

	"github.com/google/uuid"

	"github.com/yungbote/blueprints-backend/internal/platform/logger"
)

type SSEClient struct {
	ID       uuid.UUID
	Channels map[string]bool
	Outbound chan SSEMessage
	done     chan struct{}
	Logger   *logger.Logger

	stopOnce  sync.Once
	closeOnce sync.Once
}

// stop ends the client's stream without releasing its outbound channel.
func (c *SSEClient) stop() {
	c.stopOnce.Do(func() { close(c.done) })
}
