package baseline

import (
	"testing"
	"time"

	"github.com/opensource-finance/shrike/internal/domain"
)

func legitEvent() domain.TransactionEvent {
	return domain.TransactionEvent{
		Timestamp:         time.Date(2025, 1, 1, 14, 0, 0, 0, time.UTC),
		Amount:            900,
		Type:              "P2P",
		Channel:           "Manual_VPA",
		NetworkType:       "4G",
		ReceiverID:        "U00042",
		GeoJump:           3,
		AmountChangeRatio: 1.1,
	}
}

func TestNewRejectsNonBoolExpression(t *testing.T) {
	_, err := New([]Rule{{Typology: "X", Expression: `amount + 1.0`}})
	if err == nil {
		t.Fatal("expected error for non-bool expression")
	}
}

func TestNewRejectsBadSyntax(t *testing.T) {
	_, err := New([]Rule{{Typology: "X", Expression: `amount >`}})
	if err == nil {
		t.Fatal("expected compile error")
	}
}

func TestDefaultRules(t *testing.T) {
	d, err := New(DefaultRules())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.RulesCount() != 6 {
		t.Fatalf("expected 6 compiled rules, got %d", d.RulesCount())
	}

	t.Run("Legit", func(t *testing.T) {
		ev := legitEvent()
		if got := d.Predict(&ev, false, false); got != domain.LabelLegit {
			t.Errorf("expected Legit, got %s", got)
		}
	})

	t.Run("QRScam", func(t *testing.T) {
		ev := legitEvent()
		ev.Channel = "QR_Scan"
		ev.GeoJump = 900
		if got := d.Predict(&ev, false, false); got != domain.TypologyQRScam {
			t.Errorf("expected QR_Scam, got %s", got)
		}
	})

	t.Run("VPAMimicryWinsOverCollect", func(t *testing.T) {
		// Matches both the mimicry and collect-request rules; order decides.
		ev := legitEvent()
		ev.Type = "Collect_Request"
		ev.ReceiverID = "sbi.support@upi"
		ev.Amount = 3500
		if got := d.Predict(&ev, false, true); got != domain.TypologyVPAMimicry {
			t.Errorf("expected VPA_Mimicry, got %s", got)
		}
	})

	t.Run("SIMSwapLateNight", func(t *testing.T) {
		ev := legitEvent()
		ev.Timestamp = time.Date(2025, 1, 1, 2, 30, 0, 0, time.UTC)
		ev.GeoJump = 1500
		if got := d.Predict(&ev, true, false); got != domain.TypologySIMSwapATO {
			t.Errorf("expected SIM_Swap_ATO, got %s", got)
		}
	})

	t.Run("IdentityTheftDaytime", func(t *testing.T) {
		ev := legitEvent()
		ev.GeoJump = 1500
		if got := d.Predict(&ev, true, false); got != domain.TypologyIdentityTheft {
			t.Errorf("expected Identity_Theft, got %s", got)
		}
	})

	t.Run("PhishingMule", func(t *testing.T) {
		ev := legitEvent()
		ev.ReceiverID = "UR_PHISH_MULE"
		if got := d.Predict(&ev, false, false); got != domain.TypologyPhishing {
			t.Errorf("expected Phishing, got %s", got)
		}
	})
}
