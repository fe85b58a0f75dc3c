package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

type recordingTransport struct {
	mu   sync.Mutex
	sent []Message
}

func (t *recordingTransport) Send(msg Message) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sent = append(t.sent, msg)
	return nil
}

func (t *recordingTransport) messages() []Message {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Message(nil), t.sent...)
}

func respond(t *testing.T, b *Bridge, requestID string, resp PurchaseResponse) {
	t.Helper()
	raw, err := json.Marshal(InboundMessage{
		Type:      "purchase_init",
		RequestID: requestID,
		Response:  resp,
	})
	if err != nil {
		t.Fatalf("marshal inbound: %v", err)
	}
	if err := b.HandleInbound(raw); err != nil {
		t.Fatalf("HandleInbound: %v", err)
	}
}

func TestPurchaseSuccess(t *testing.T) {
	transport := &recordingTransport{}
	b := NewBridge(transport, time.Second)

	done := make(chan struct{})
	var result *PurchaseResult
	var purchaseErr error
	go func() {
		defer close(done)
		result, purchaseErr = b.Purchase(context.Background(), "01")
	}()

	requestID := waitForMessage(t, transport)
	respond(t, b, requestID, PurchaseResponse{
		Status:        true,
		TransactionID: "txn-1",
		Receipt:       "receipt-data",
	})
	<-done

	if purchaseErr != nil {
		t.Fatalf("Purchase() error = %v", purchaseErr)
	}
	if result.TransactionID != "txn-1" || result.Receipt != "receipt-data" {
		t.Errorf("Purchase() = %+v, want txn-1/receipt-data", result)
	}

	msgs := transport.messages()
	if len(msgs) != 1 {
		t.Fatalf("sent %d messages, want 1", len(msgs))
	}
	if msgs[0].Type != "purchase_init" || msgs[0].Props.ProductID != "01" {
		t.Errorf("sent message = %+v", msgs[0])
	}
	if msgs[0].Props.ProductType != "auto-renewable-subscription" {
		t.Errorf("product type = %q", msgs[0].Props.ProductType)
	}
	if b.PendingCount() != 0 {
		t.Errorf("pending count = %d after settled purchase, want 0", b.PendingCount())
	}
}

func TestPurchaseTimeoutDeregistersListener(t *testing.T) {
	transport := &recordingTransport{}
	b := NewBridge(transport, 20*time.Millisecond)

	// Несколько циклов таймаута подряд не должны оставлять висящих ожиданий.
	for i := 0; i < 5; i++ {
		_, err := b.Purchase(context.Background(), "02")
		var bridgeErr *Error
		if !errors.As(err, &bridgeErr) || bridgeErr.Kind != Timeout {
			t.Fatalf("iteration %d: error = %v, want Timeout", i, err)
		}
		if !bridgeErr.Retryable() {
			t.Errorf("iteration %d: timeout error is not retryable", i)
		}
		if b.PendingCount() != 0 {
			t.Fatalf("iteration %d: pending count = %d, want 0", i, b.PendingCount())
		}
	}
}

func TestPurchaseUnavailableWithoutTransport(t *testing.T) {
	b := NewBridge(nil, time.Second)

	_, err := b.Purchase(context.Background(), "01")
	if KindOf(err) != Unavailable {
		t.Errorf("error = %v, want Unavailable", err)
	}
}

func TestPurchaseCancelled(t *testing.T) {
	transport := &recordingTransport{}
	b := NewBridge(transport, time.Second)

	done := make(chan error, 1)
	go func() {
		_, err := b.Purchase(context.Background(), "01")
		done <- err
	}()

	requestID := waitForMessage(t, transport)
	respond(t, b, requestID, PurchaseResponse{Status: false, Message: "user cancelled the purchase"})

	if err := <-done; KindOf(err) != Cancelled {
		t.Errorf("error = %v, want Cancelled", err)
	}
}

func TestPurchaseContextCancelIsNotRetryable(t *testing.T) {
	transport := &recordingTransport{}
	b := NewBridge(transport, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := b.Purchase(ctx, "01")
		done <- err
	}()

	waitForMessage(t, transport)
	cancel()

	err := <-done
	// Отказ вызывающего - не таймаут: повторять покупку нельзя.
	if KindOf(err) != Cancelled {
		t.Fatalf("error = %v, want Cancelled", err)
	}
	var bridgeErr *Error
	if errors.As(err, &bridgeErr) && bridgeErr.Retryable() {
		t.Error("cancelled purchase must not be retryable")
	}
	if b.PendingCount() != 0 {
		t.Errorf("pending count = %d after cancellation, want 0", b.PendingCount())
	}
}

func TestPurchaseContextDeadlineIsTimeout(t *testing.T) {
	transport := &recordingTransport{}
	b := NewBridge(transport, time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := b.Purchase(ctx, "01")
	if KindOf(err) != Timeout {
		t.Fatalf("error = %v, want Timeout", err)
	}
}

func TestPurchaseRejected(t *testing.T) {
	transport := &recordingTransport{}
	b := NewBridge(transport, time.Second)

	done := make(chan error, 1)
	go func() {
		_, err := b.Purchase(context.Background(), "01")
		done <- err
	}()

	requestID := waitForMessage(t, transport)
	respond(t, b, requestID, PurchaseResponse{Status: false, Message: "payment declined"})

	if err := <-done; KindOf(err) != Rejected {
		t.Errorf("error = %v, want Rejected", err)
	}
}

func TestConcurrentPurchasesCorrelateByRequestID(t *testing.T) {
	transport := &recordingTransport{}
	b := NewBridge(transport, time.Second)

	const n = 4
	results := make(chan string, n)
	for i := 0; i < n; i++ {
		go func(i int) {
			res, err := b.Purchase(context.Background(), "01")
			if err != nil {
				results <- err.Error()
				return
			}
			results <- res.TransactionID
		}(i)
	}

	deadline := time.After(time.Second)
	for b.PendingCount() < n {
		select {
		case <-deadline:
			t.Fatalf("pending count = %d, want %d", b.PendingCount(), n)
		default:
			time.Sleep(time.Millisecond)
		}
	}

	// Отвечаем каждому запросу его собственным transactionId.
	for i, msg := range transport.messages() {
		respond(t, b, msg.RequestID, PurchaseResponse{
			Status:        true,
			TransactionID: fmt.Sprintf("txn-%d", i),
			Receipt:       "receipt",
		})
	}

	seen := make(map[string]bool)
	for i := 0; i < n; i++ {
		seen[<-results] = true
	}
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("txn-%d", i)
		if !seen[id] {
			t.Errorf("missing result %s, got %v", id, seen)
		}
	}
}

func TestHandleInboundMalformed(t *testing.T) {
	b := NewBridge(&recordingTransport{}, time.Second)

	tests := []struct {
		name string
		raw  string
	}{
		{"not json", "{not json"},
		{"unknown type", `{"type":"unknown","requestId":"abc"}`},
		{"missing request id", `{"type":"purchase_init","response":{"status":true}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := b.HandleInbound([]byte(tt.raw))
			if KindOf(err) != Malformed {
				t.Errorf("HandleInbound(%s) error = %v, want Malformed", tt.raw, err)
			}
		})
	}
}

func TestHandleInboundUnknownRequest(t *testing.T) {
	b := NewBridge(&recordingTransport{}, time.Second)

	err := b.HandleInbound([]byte(`{"type":"purchase_init","requestId":"nope","response":{"status":true}}`))
	if err == nil {
		t.Fatal("HandleInbound() = nil, want error for unknown request")
	}
	if KindOf(err) != 0 {
		t.Errorf("unknown request should not map to a bridge error kind, got %v", KindOf(err))
	}
}

func TestSuccessWithoutReceiptIsMalformed(t *testing.T) {
	transport := &recordingTransport{}
	b := NewBridge(transport, time.Second)

	done := make(chan error, 1)
	go func() {
		_, err := b.Purchase(context.Background(), "01")
		done <- err
	}()

	requestID := waitForMessage(t, transport)
	respond(t, b, requestID, PurchaseResponse{Status: true})

	if err := <-done; KindOf(err) != Malformed {
		t.Errorf("error = %v, want Malformed", err)
	}
}

func TestQueueTransportDrain(t *testing.T) {
	transport := NewQueueTransport()
	for i := 0; i < 3; i++ {
		if err := transport.Send(Message{Type: "purchase_init", RequestID: fmt.Sprintf("r%d", i)}); err != nil {
			t.Fatalf("Send: %v", err)
		}
	}

	msgs := transport.Drain()
	if len(msgs) != 3 {
		t.Fatalf("Drain() returned %d messages, want 3", len(msgs))
	}
	if again := transport.Drain(); len(again) != 0 {
		t.Errorf("second Drain() returned %d messages, want 0", len(again))
	}
}

func waitForMessage(t *testing.T, transport *recordingTransport) string {
	t.Helper()
	deadline := time.After(time.Second)
	for {
		msgs := transport.messages()
		if len(msgs) > 0 {
			return msgs[len(msgs)-1].RequestID
		}
		select {
		case <-deadline:
			t.Fatal("no message sent to transport")
		default:
			time.Sleep(time.Millisecond)
		}
	}
}
