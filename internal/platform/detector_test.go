package platform

import (
	"testing"

	"github.com/senyabanana/freelance-service/internal/models"
)

const (
	iosShellUA     = "Mozilla/5.0 iOS(iPhoCPU iPhone OS 16_6 like Mac OS X) App{1.0} Mobile/15E148"
	androidShellUA = "Mozilla/5.0 android(Linux; Android; K) App{1.0} Mobile Safari/537.36"
	iosSafariUA    = "Mozilla/5.0 (iPhone; CPU iPhone OS 16_6 like Mac OS X) Version/16.6 Mobile/15E148 Safari/604.1"
	androidWebUA   = "Mozilla/5.0 (Linux; Android 13; Pixel 7) AppleWebKit/537.36 Chrome/117.0 Mobile Safari/537.36"
	desktopUA      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 Chrome/117.0 Safari/537.36"
	ipadDesktopUA  = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 Version/16.6 Safari/605.1.15"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name        string
		userAgent   string
		touchPoints int
		want        models.PlatformInfo
	}{
		{
			name:      "ios inside embedded shell",
			userAgent: iosShellUA,
			want: models.PlatformInfo{
				IsIOS:           true,
				IsMobile:        true,
				IsEmbeddedShell: true,
				UserAgent:       iosShellUA,
			},
		},
		{
			name:      "android inside embedded shell",
			userAgent: androidShellUA,
			want: models.PlatformInfo{
				IsAndroid:       true,
				IsMobile:        true,
				IsEmbeddedShell: true,
				UserAgent:       androidShellUA,
			},
		},
		{
			name:      "ios safari without shell",
			userAgent: iosSafariUA,
			want: models.PlatformInfo{
				IsIOS:     true,
				IsMobile:  true,
				UserAgent: iosSafariUA,
			},
		},
		{
			name:      "android browser without shell",
			userAgent: androidWebUA,
			want: models.PlatformInfo{
				IsAndroid: true,
				IsMobile:  true,
				UserAgent: androidWebUA,
			},
		},
		{
			name:      "generic desktop browser",
			userAgent: desktopUA,
			want: models.PlatformInfo{
				IsWeb:     true,
				UserAgent: desktopUA,
			},
		},
		{
			name:        "ipad reporting desktop ua with touch points",
			userAgent:   ipadDesktopUA,
			touchPoints: 5,
			want: models.PlatformInfo{
				IsIOS:     true,
				IsMobile:  true,
				UserAgent: ipadDesktopUA,
			},
		},
		{
			name:        "real macintosh without touch points",
			userAgent:   ipadDesktopUA,
			touchPoints: 0,
			want: models.PlatformInfo{
				IsWeb:     true,
				UserAgent: ipadDesktopUA,
			},
		},
		{
			name:      "empty user agent falls open to web",
			userAgent: "",
			want: models.PlatformInfo{
				IsWeb: true,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Detect(tt.userAgent, tt.touchPoints)
			if got != tt.want {
				t.Errorf("Detect() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestSelectPaymentMethod(t *testing.T) {
	tests := []struct {
		name        string
		userAgent   string
		touchPoints int
		want        models.PaymentMethod
	}{
		{"ios in shell routes to in-app purchase", iosShellUA, 0, models.MobileInAppPurchase},
		{"android in shell stays on web processor", androidShellUA, 0, models.WebProcessor},
		{"ios safari stays on web processor", iosSafariUA, 0, models.WebProcessor},
		{"android browser stays on web processor", androidWebUA, 0, models.WebProcessor},
		{"desktop stays on web processor", desktopUA, 0, models.WebProcessor},
		{"empty user agent stays on web processor", "", 0, models.WebProcessor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SelectPaymentMethod(Detect(tt.userAgent, tt.touchPoints))
			if got != tt.want {
				t.Errorf("SelectPaymentMethod() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSelectPaymentMethodRequiresBothFlags(t *testing.T) {
	tests := []struct {
		name string
		info models.PlatformInfo
		want models.PaymentMethod
	}{
		{"ios with shell", models.PlatformInfo{IsIOS: true, IsEmbeddedShell: true}, models.MobileInAppPurchase},
		{"ios without shell", models.PlatformInfo{IsIOS: true}, models.WebProcessor},
		{"shell without ios", models.PlatformInfo{IsAndroid: true, IsEmbeddedShell: true}, models.WebProcessor},
		{"plain web", models.PlatformInfo{IsWeb: true}, models.WebProcessor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SelectPaymentMethod(tt.info); got != tt.want {
				t.Errorf("SelectPaymentMethod(%+v) = %v, want %v", tt.info, got, tt.want)
			}
		})
	}
}
