package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

const (
	appStoreVerifyURL        = "https://buy.itunes.apple.com/verifyReceipt"
	appStoreSandboxVerifyURL = "https://sandbox.itunes.apple.com/verifyReceipt"

	// Магазин возвращает этот статус, когда боевой эндпоинт получил
	// чек из песочницы: нужно повторить запрос на песочницу.
	sandboxReceiptStatus = 21007
)

// ReceiptInfo - разобранные данные подтвержденного чека покупки.
type ReceiptInfo struct {
	ProductID     string
	TransactionID string
	ExpiresAt     time.Time
}

// ReceiptValidator проверяет чек покупки на стороне сервера.
type ReceiptValidator interface {
	Validate(ctx context.Context, receiptData string) (*ReceiptInfo, error)
}

// AppStoreValidator - реализация ReceiptValidator через эндпоинт verifyReceipt.
type AppStoreValidator struct {
	URL          string
	SandboxURL   string
	SharedSecret string
	Client       *http.Client
}

// NewAppStoreValidator создает новый экземпляр AppStoreValidator.
func NewAppStoreValidator(sharedSecret string) *AppStoreValidator {
	return &AppStoreValidator{
		URL:          appStoreVerifyURL,
		SandboxURL:   appStoreSandboxVerifyURL,
		SharedSecret: sharedSecret,
		Client:       &http.Client{Timeout: 15 * time.Second},
	}
}

type verifyResponse struct {
	Status            int `json:"status"`
	LatestReceiptInfo []struct {
		ProductID     string `json:"product_id"`
		TransactionID string `json:"transaction_id"`
		ExpiresDateMS string `json:"expires_date_ms"`
	} `json:"latest_receipt_info"`
}

// Validate отправляет чек на проверку. Активация подписки возможна
// только при нулевом статусе ответа.
func (v *AppStoreValidator) Validate(ctx context.Context, receiptData string) (*ReceiptInfo, error) {
	resp, err := v.verify(ctx, v.URL, receiptData)
	if err != nil {
		return nil, err
	}
	if resp.Status == sandboxReceiptStatus {
		resp, err = v.verify(ctx, v.SandboxURL, receiptData)
		if err != nil {
			return nil, err
		}
	}
	if resp.Status != 0 {
		return nil, fmt.Errorf("receipt rejected with status %d", resp.Status)
	}
	if len(resp.LatestReceiptInfo) == 0 {
		return nil, fmt.Errorf("receipt verified but contains no transactions")
	}

	latest := resp.LatestReceiptInfo[0]
	info := &ReceiptInfo{
		ProductID:     latest.ProductID,
		TransactionID: latest.TransactionID,
	}
	if ms, err := strconv.ParseInt(latest.ExpiresDateMS, 10, 64); err == nil {
		info.ExpiresAt = time.UnixMilli(ms).UTC()
	}
	return info, nil
}

func (v *AppStoreValidator) verify(ctx context.Context, url, receiptData string) (*verifyResponse, error) {
	body, err := json.Marshal(map[string]string{
		"receipt-data": receiptData,
		"password":     v.SharedSecret,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	httpResp, err := v.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("verify receipt: %w", err)
	}
	defer httpResp.Body.Close()

	var resp verifyResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("decode receipt verification response: %w", err)
	}
	return &resp, nil
}
