package platform

import (
	"regexp"
	"strings"

	"github.com/senyabanana/freelance-service/internal/models"
)

var (
	iosRe     = regexp.MustCompile(`(?i)iphone|ipad|ipod|\bios\b`)
	androidRe = regexp.MustCompile(`(?i)android`)
	// Маркер встраивающего приложения вида "App{1.0}" в User-Agent.
	shellRe = regexp.MustCompile(`App\{[^}]*\}`)
)

// Detect классифицирует платформу клиента по строке User-Agent.
// Чистая функция без побочных эффектов и сетевых вызовов.
// iOS проверяется первым: если вдруг совпали оба шаблона, побеждает iOS.
// Пустой User-Agent дает isWeb=true - всегда откатываемся к веб-каналу.
func Detect(userAgent string, maxTouchPoints int) models.PlatformInfo {
	if userAgent == "" {
		return models.PlatformInfo{IsWeb: true}
	}

	info := models.PlatformInfo{UserAgent: userAgent}

	info.IsIOS = iosRe.MatchString(userAgent)
	// iPadOS в режиме "запрашивать версию для ПК" представляется как Macintosh,
	// но отдает несколько точек касания.
	if !info.IsIOS && strings.Contains(userAgent, "Macintosh") && maxTouchPoints > 1 {
		info.IsIOS = true
	}
	if !info.IsIOS {
		info.IsAndroid = androidRe.MatchString(userAgent)
	}

	info.IsMobile = info.IsIOS || info.IsAndroid
	info.IsWeb = !info.IsMobile
	info.IsEmbeddedShell = shellRe.MatchString(userAgent)

	return info
}

// SelectPaymentMethod выбирает канал оплаты по платформе клиента.
// Нативный мост доступен только внутри встраивающего приложения на iOS;
// во всех остальных случаях выбирается веб-процессинг.
func SelectPaymentMethod(info models.PlatformInfo) models.PaymentMethod {
	if info.IsIOS && info.IsEmbeddedShell {
		return models.MobileInAppPurchase
	}
	return models.WebProcessor
}
