package payments

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func verifyHandler(t *testing.T, status int, productID string) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode verify request: %v", err)
		}
		if req["password"] == "" {
			t.Error("verify request without shared secret")
		}

		resp := map[string]interface{}{"status": status}
		if status == 0 {
			resp["latest_receipt_info"] = []map[string]string{
				{
					"product_id":      productID,
					"transaction_id":  "txn-42",
					"expires_date_ms": "1735689600000",
				},
			}
		}
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			t.Errorf("encode verify response: %v", err)
		}
	}
}

func TestValidateReceipt(t *testing.T) {
	srv := httptest.NewServer(verifyHandler(t, 0, "01"))
	defer srv.Close()

	validator := NewAppStoreValidator("secret")
	validator.URL = srv.URL

	info, err := validator.Validate(context.Background(), "receipt-data")
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if info.ProductID != "01" || info.TransactionID != "txn-42" {
		t.Errorf("Validate() = %+v", info)
	}
	if info.ExpiresAt.IsZero() {
		t.Error("ExpiresAt is zero, want parsed expires_date_ms")
	}
}

func TestValidateReceiptSandboxRetry(t *testing.T) {
	sandbox := httptest.NewServer(verifyHandler(t, 0, "02"))
	defer sandbox.Close()

	prod := httptest.NewServer(verifyHandler(t, sandboxReceiptStatus, ""))
	defer prod.Close()

	validator := NewAppStoreValidator("secret")
	validator.URL = prod.URL
	validator.SandboxURL = sandbox.URL

	info, err := validator.Validate(context.Background(), "receipt-data")
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if info.ProductID != "02" {
		t.Errorf("ProductID = %q, want 02", info.ProductID)
	}
}

func TestValidateReceiptRejected(t *testing.T) {
	srv := httptest.NewServer(verifyHandler(t, 21003, ""))
	defer srv.Close()

	validator := NewAppStoreValidator("secret")
	validator.URL = srv.URL

	if _, err := validator.Validate(context.Background(), "bad-receipt"); err == nil {
		t.Fatal("Validate() = nil error, want rejection")
	}
}
