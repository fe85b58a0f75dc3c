package payments

import (
	"fmt"
	"time"

	"github.com/senyabanana/freelance-service/internal/models"
)

// Коды продуктов, зарегистрированные в листинге мобильного магазина.
// Должны совпадать со значениями в листинге, рантайм их не проверяет.
const (
	MonthlyProductCode   = "01"
	SixMonthsProductCode = "02"
	MessagesProductCode  = "03"
)

// ProductTable сопоставляет тарифный план коду продукта магазина
// и идентификатору цены процессинга.
type ProductTable struct {
	prices map[models.SubscriptionPlan]string
}

// NewProductTable создает таблицу продуктов из идентификаторов цен конфигурации.
func NewProductTable(monthlyPriceID, sixMonthsPriceID, messagesPriceID string) *ProductTable {
	return &ProductTable{
		prices: map[models.SubscriptionPlan]string{
			models.MonthlyPlan:   monthlyPriceID,
			models.SixMonthsPlan: sixMonthsPriceID,
			models.MessagesPlan:  messagesPriceID,
		},
	}
}

// PriceID возвращает идентификатор цены процессинга для плана.
func (t *ProductTable) PriceID(plan models.SubscriptionPlan) (string, error) {
	priceID, ok := t.prices[plan]
	if !ok || priceID == "" {
		return "", fmt.Errorf("no price configured for plan %q", plan)
	}
	return priceID, nil
}

// StoreProductID возвращает код продукта магазина для плана.
func (t *ProductTable) StoreProductID(plan models.SubscriptionPlan) (string, error) {
	switch plan {
	case models.MonthlyPlan:
		return MonthlyProductCode, nil
	case models.SixMonthsPlan:
		return SixMonthsProductCode, nil
	case models.MessagesPlan:
		return MessagesProductCode, nil
	}
	return "", fmt.Errorf("plan %q is not purchasable", plan)
}

// PlanForStoreProduct возвращает план по коду продукта магазина.
func PlanForStoreProduct(productID string) (models.SubscriptionPlan, error) {
	switch productID {
	case MonthlyProductCode:
		return models.MonthlyPlan, nil
	case SixMonthsProductCode:
		return models.SixMonthsPlan, nil
	case MessagesProductCode:
		return models.MessagesPlan, nil
	}
	return "", fmt.Errorf("unknown store product %q", productID)
}

// PlanDuration возвращает срок действия оплаченного плана.
func PlanDuration(plan models.SubscriptionPlan) time.Duration {
	switch plan {
	case models.SixMonthsPlan:
		return 180 * 24 * time.Hour
	default:
		return 30 * 24 * time.Hour
	}
}
