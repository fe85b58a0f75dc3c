package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultTimeout - время ожидания ответа встраивающего приложения.
const DefaultTimeout = 45 * time.Second

const purchaseMessageType = "purchase_init"

// Transport отправляет сообщения встраивающему приложению.
type Transport interface {
	Send(msg Message) error
}

// Message - исходящее сообщение мосту. Ответ сопоставляется
// с запросом по requestId, а не по типу сообщения.
type Message struct {
	Type      string        `json:"type"`
	RequestID string        `json:"requestId"`
	Props     PurchaseProps `json:"props"`
}

// PurchaseProps описывает запрашиваемую покупку.
type PurchaseProps struct {
	ProductID   string `json:"product_id"`
	ProductType string `json:"product_type"`
}

// InboundMessage - входящее сообщение от встраивающего приложения.
type InboundMessage struct {
	Type      string           `json:"type"`
	RequestID string           `json:"requestId"`
	Response  PurchaseResponse `json:"response"`
}

// PurchaseResponse - ответ магазина на запрос покупки.
type PurchaseResponse struct {
	Status        bool   `json:"status"`
	Message       string `json:"message,omitempty"`
	TransactionID string `json:"transactionId,omitempty"`
	Receipt       string `json:"receipt,omitempty"`
}

// PurchaseResult - успешный итог покупки.
type PurchaseResult struct {
	TransactionID string
	Receipt       string
}

// Bridge сопоставляет запросы покупок с ответами встраивающего приложения.
// Каждый запрос ждет на собственном канале по своему requestId, поэтому
// одновременные покупки не затирают друг друга.
type Bridge struct {
	transport Transport
	timeout   time.Duration

	mu      sync.Mutex
	pending map[string]chan PurchaseResponse
}

// NewBridge создает новый экземпляр Bridge.
// Нулевой timeout заменяется на DefaultTimeout.
func NewBridge(transport Transport, timeout time.Duration) *Bridge {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Bridge{
		transport: transport,
		timeout:   timeout,
		pending:   make(map[string]chan PurchaseResponse),
	}
}

// Available сообщает, подключен ли мост к встраивающему приложению.
func (b *Bridge) Available() bool {
	return b != nil && b.transport != nil
}

// Purchase отправляет запрос покупки и ждет сопоставленный ответ.
// По истечении таймаута ожидание снимается с учета и возвращается
// повторяемая ошибка Timeout.
func (b *Bridge) Purchase(ctx context.Context, productID string) (*PurchaseResult, error) {
	if !b.Available() {
		return nil, &Error{Kind: Unavailable}
	}

	requestID := uuid.New().String()
	respCh := make(chan PurchaseResponse, 1)

	b.mu.Lock()
	b.pending[requestID] = respCh
	b.mu.Unlock()

	msg := Message{
		Type:      purchaseMessageType,
		RequestID: requestID,
		Props: PurchaseProps{
			ProductID:   productID,
			ProductType: "auto-renewable-subscription",
		},
	}
	if err := b.transport.Send(msg); err != nil {
		b.unregister(requestID)
		return nil, &Error{Kind: Unavailable, Message: err.Error()}
	}

	timer := time.NewTimer(b.timeout)
	defer timer.Stop()

	select {
	case resp := <-respCh:
		return resultFromResponse(resp)
	case <-timer.C:
		b.unregister(requestID)
		return nil, &Error{Kind: Timeout}
	case <-ctx.Done():
		b.unregister(requestID)
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, &Error{Kind: Timeout, Message: ctx.Err().Error()}
		}
		return nil, &Error{Kind: Cancelled, Message: ctx.Err().Error()}
	}
}

// HandleInbound разбирает входящее сообщение и доставляет его ожидающему запросу.
func (b *Bridge) HandleInbound(raw []byte) error {
	var inbound InboundMessage
	if err := json.Unmarshal(raw, &inbound); err != nil {
		return &Error{Kind: Malformed, Message: err.Error()}
	}
	if inbound.Type != purchaseMessageType || inbound.RequestID == "" {
		return &Error{Kind: Malformed, Message: "unknown message type or missing requestId"}
	}

	b.mu.Lock()
	respCh, ok := b.pending[inbound.RequestID]
	if ok {
		delete(b.pending, inbound.RequestID)
	}
	b.mu.Unlock()

	if !ok {
		return fmt.Errorf("no pending purchase request for id %s", inbound.RequestID)
	}
	respCh <- inbound.Response
	return nil
}

// PendingCount возвращает число запросов, ожидающих ответа.
func (b *Bridge) PendingCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.pending)
}

func (b *Bridge) unregister(requestID string) {
	b.mu.Lock()
	delete(b.pending, requestID)
	b.mu.Unlock()
}

func resultFromResponse(resp PurchaseResponse) (*PurchaseResult, error) {
	if resp.Status {
		if resp.Receipt == "" || resp.TransactionID == "" {
			return nil, &Error{Kind: Malformed, Message: "successful response without receipt or transactionId"}
		}
		return &PurchaseResult{
			TransactionID: resp.TransactionID,
			Receipt:       resp.Receipt,
		}, nil
	}
	if strings.Contains(strings.ToLower(resp.Message), "cancel") {
		return nil, &Error{Kind: Cancelled}
	}
	return nil, &Error{Kind: Rejected, Message: resp.Message}
}
