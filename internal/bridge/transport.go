package bridge

import "sync"

// QueueTransport копит исходящие сообщения, пока встраивающее приложение
// не заберет их опросом HTTP-эндпоинта.
type QueueTransport struct {
	mu    sync.Mutex
	queue []Message
}

// NewQueueTransport создает новый экземпляр QueueTransport.
func NewQueueTransport() *QueueTransport {
	return &QueueTransport{}
}

// Send ставит сообщение в очередь на доставку.
func (t *QueueTransport) Send(msg Message) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.queue = append(t.queue, msg)
	return nil
}

// Drain забирает все накопленные сообщения и очищает очередь.
func (t *QueueTransport) Drain() []Message {
	t.mu.Lock()
	defer t.mu.Unlock()
	msgs := t.queue
	t.queue = nil
	return msgs
}
