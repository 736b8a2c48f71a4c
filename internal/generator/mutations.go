package generator

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/opensource-finance/shrike/internal/domain"
	"github.com/opensource-finance/shrike/internal/regime"
)

// Receiver handle used by phishing mule routing.
const phishMuleReceiver = "UR_PHISH_MULE"

// Impersonation handles used by VPA mimicry.
var mimicryHandles = []string{
	"sbi.support@upi",
	"axis.kyc@upi",
	"paytm.rewards@upi",
}

// builtinTypologies returns the default mutation table.
func builtinTypologies() map[string]Spec {
	return map[string]Spec{
		domain.TypologyPhishing:           {Mutate: mutatePhishing},
		domain.TypologyQRScam:             {Mutate: mutateQRScam},
		domain.TypologyCollectRequestScam: {Mutate: mutateCollectRequestScam},
		domain.TypologyIdentityTheft:      {Mutate: mutateIdentityTheft},
		domain.TypologySIMSwapATO:         {Mutate: mutateSIMSwapATO, TakeoverDevice: true},
		domain.TypologyVPAMimicry:         {Mutate: mutateVPAMimicry},
	}
}

// mutatePhishing routes the amount to a mule handle, scaled by the
// regime's amount multiplier.
func mutatePhishing(ev *domain.TransactionEvent, p regime.Params, rng *rand.Rand) {
	ev.Channel = pick(rng, "Intent_Link", "Manual_VPA")
	ev.Amount = math.Round(ev.AvgTransactionValue * uniform(rng, p.AmountMultiplierLow, p.AmountMultiplierHigh))
	ev.ReceiverID = phishMuleReceiver
}

// mutateQRScam forces the QR channel with a regime-scaled location jump.
func mutateQRScam(ev *domain.TransactionEvent, p regime.Params, rng *rand.Rand) {
	ev.Channel = "QR_Scan"
	ev.Type = pick(rng, "P2M", "P2P")
	ev.GeoJump = intBetween(rng, p.GeoJumpLow, p.GeoJumpHigh)
	ev.Amount = float64(intBetween(rng, 800, 12000))
}

// mutateCollectRequestScam abuses the collect-request flow for mid-size pulls.
func mutateCollectRequestScam(ev *domain.TransactionEvent, p regime.Params, rng *rand.Rand) {
	ev.Type = "Collect_Request"
	ev.Amount = float64(intBetween(rng, 3000, 25000))
}

// mutateIdentityTheft uses an ephemeral device at late-night hours.
func mutateIdentityTheft(ev *domain.TransactionEvent, p regime.Params, rng *rand.Rand) {
	ev.DeviceID = fmt.Sprintf("D_NEW_%d", intBetween(rng, 100, 999))
	ev.Timestamp = withHour(ev.Timestamp, intBetween(rng, 1, 4))
	ev.GeoJump = intBetween(rng, p.GeoJumpLow, p.GeoJumpHigh)
	ev.Amount = math.Round(ev.AvgTransactionValue * uniform(rng, p.AmountMultiplierLow, p.AmountMultiplierHigh))
}

// mutateSIMSwapATO is a takeover: the new device persists on the account.
func mutateSIMSwapATO(ev *domain.TransactionEvent, p regime.Params, rng *rand.Rand) {
	ev.DeviceID = fmt.Sprintf("NEW_DEV_%d", intBetween(rng, 1000, 9999))
	ev.Timestamp = withHour(ev.Timestamp, intBetween(rng, 1, 4))
	ev.GeoJump = intBetween(rng, p.GeoJumpLow, p.GeoJumpHigh)
	ev.Amount = math.Round(ev.AvgTransactionValue * uniform(rng, p.AmountMultiplierLow, p.AmountMultiplierHigh))
}

// mutateVPAMimicry substitutes an impersonation handle with amounts small
// enough to pass as legit.
func mutateVPAMimicry(ev *domain.TransactionEvent, p regime.Params, rng *rand.Rand) {
	ev.ReceiverID = mimicryHandles[rng.Intn(len(mimicryHandles))]
	ev.Type = "Collect_Request"
	ev.Amount = float64(intBetween(rng, 800, 4000))
}

func pick(rng *rand.Rand, options ...string) string {
	return options[rng.Intn(len(options))]
}

func uniform(rng *rand.Rand, low, high float64) float64 {
	return low + rng.Float64()*(high-low)
}

// intBetween draws uniformly from [low, high] inclusive.
func intBetween(rng *rand.Rand, low, high int) int {
	return low + rng.Intn(high-low+1)
}

// withHour replaces the hour of ts, keeping date and sub-hour components.
func withHour(ts time.Time, hour int) time.Time {
	return time.Date(ts.Year(), ts.Month(), ts.Day(), hour, ts.Minute(), ts.Second(), ts.Nanosecond(), ts.Location())
}
