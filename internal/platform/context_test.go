package platform

import (
	"testing"

	"github.com/senyabanana/freelance-service/internal/models"
)

func TestNewContext(t *testing.T) {
	pc := NewContext(func() models.PlatformInfo {
		return Detect(iosShellUA, 0)
	})

	if pc.PaymentMethod != models.MobileInAppPurchase {
		t.Errorf("PaymentMethod = %v, want %v", pc.PaymentMethod, models.MobileInAppPurchase)
	}
	if !pc.Platform.IsIOS || !pc.Platform.IsEmbeddedShell {
		t.Errorf("Platform = %+v, want ios inside embedded shell", pc.Platform)
	}
	if pc.Fallback {
		t.Error("Fallback = true, want false")
	}
}

func TestNewContextNeverPropagatesPanic(t *testing.T) {
	pc := NewContext(func() models.PlatformInfo {
		panic("detector blew up")
	})

	if pc.PaymentMethod != models.WebProcessor {
		t.Errorf("PaymentMethod = %v, want %v", pc.PaymentMethod, models.WebProcessor)
	}
	if !pc.Platform.IsWeb {
		t.Errorf("Platform = %+v, want web fallback", pc.Platform)
	}
	if pc.Platform.IsIOS || pc.Platform.IsAndroid || pc.Platform.IsMobile || pc.Platform.IsEmbeddedShell {
		t.Errorf("Platform = %+v, want all mobile flags false", pc.Platform)
	}
	if !pc.Fallback {
		t.Error("Fallback = false, want true")
	}
}

func TestNewContextRepeatedFallbacks(t *testing.T) {
	for i := 0; i < 10; i++ {
		pc := NewContext(func() models.PlatformInfo {
			panic(i)
		})
		if pc.PaymentMethod != models.WebProcessor {
			t.Fatalf("iteration %d: PaymentMethod = %v, want %v", i, pc.PaymentMethod, models.WebProcessor)
		}
	}
}
