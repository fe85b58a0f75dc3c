package models

type PaymentMethod string // Канал оплаты, выбранный по платформе клиента

const (
	MobileInAppPurchase PaymentMethod = "mobile_iap"    // Покупка через нативный мост встраивающего приложения
	WebProcessor        PaymentMethod = "web_processor" // Оплата через веб-процессинг
)

// PlatformInfo описывает платформу клиента, вычисленную по строке User-Agent.
// Значение не сохраняется и не меняется после вычисления.
type PlatformInfo struct {
	IsIOS           bool   `json:"isIOS"`
	IsAndroid       bool   `json:"isAndroid"`
	IsMobile        bool   `json:"isMobile"`
	IsWeb           bool   `json:"isWeb"`
	IsEmbeddedShell bool   `json:"isEmbeddedShell"`
	UserAgent       string `json:"userAgent"`
}
