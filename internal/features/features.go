// Package features maps a raw event plus account state into the fixed
// schema consumed by the online learner. Extraction is read-only: it uses
// only information available before the event's effects were recorded.
package features

import (
	"strings"

	"github.com/opensource-finance/shrike/internal/account"
	"github.com/opensource-finance/shrike/internal/domain"
)

// Numeric feature names.
const (
	FeatAmount            = "Amount"
	FeatSenderAccountAge  = "Sender_Account_Age"
	FeatAvgTxnValue       = "Avg_Transaction_Value"
	FeatGeoJump           = "Geo_Jump"
	FeatTxnCount1h        = "Txn_Count_1h"
	FeatAmountChangeRatio = "Amount_Change_Ratio"
	FeatTimeSinceLast     = "Time_Since_Last_Txn"
	FeatFirstTimeReceiver = "Is_First_Time_Receiver"
	FeatHourOfDay         = "Hour_of_Day"
	FeatNewDevice         = "Is_New_Device"
	FeatVPAKeywordMatch   = "VPA_Keyword_Match"
)

// Categorical feature names.
const (
	FeatTransactionType = "Transaction_Type"
	FeatChannel         = "Channel"
	FeatNetworkType     = "Network_Type"
)

// NumericNames lists numeric features in manifest order.
func NumericNames() []string {
	return []string{
		FeatAmount,
		FeatSenderAccountAge,
		FeatAvgTxnValue,
		FeatGeoJump,
		FeatTxnCount1h,
		FeatAmountChangeRatio,
		FeatTimeSinceLast,
		FeatFirstTimeReceiver,
		FeatHourOfDay,
		FeatNewDevice,
		FeatVPAKeywordMatch,
	}
}

// CategoricalNames lists categorical features in manifest order.
func CategoricalNames() []string {
	return []string{FeatTransactionType, FeatChannel, FeatNetworkType}
}

// Vector is one extracted observation.
type Vector struct {
	Numeric     map[string]float64
	Categorical map[string]string
}

// suspiciousKeywords flag impersonation-style receiver handles.
var suspiciousKeywords = []string{"support", "care", "kyc"}

// Extractor derives feature vectors from events and account state.
type Extractor struct {
	accounts *account.Store
	keywords []string
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithKeywords extends the suspicious-keyword set, e.g. with
// brand-impersonation terms.
func WithKeywords(extra ...string) Option {
	return func(e *Extractor) {
		for _, kw := range extra {
			e.keywords = append(e.keywords, strings.ToLower(kw))
		}
	}
}

// NewExtractor creates an extractor over the run's account store.
func NewExtractor(accounts *account.Store, opts ...Option) *Extractor {
	e := &Extractor{
		accounts: accounts,
		keywords: append([]string(nil), suspiciousKeywords...),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract builds the feature vector for an event. The event's velocity and
// recency fields were captured pre-record by the generator; the device
// comparison uses the sender's trusted device reference.
func (e *Extractor) Extract(ev *domain.TransactionEvent) Vector {
	newDevice := 0.0
	if st := e.accounts.Get(ev.SenderID); st != nil && ev.DeviceID != st.TrustedDevice {
		newDevice = 1.0
	}

	return Vector{
		Numeric: map[string]float64{
			FeatAmount:            ev.Amount,
			FeatSenderAccountAge:  float64(ev.SenderAccountAge),
			FeatAvgTxnValue:       ev.AvgTransactionValue,
			FeatGeoJump:           float64(ev.GeoJump),
			FeatTxnCount1h:        float64(ev.TxnCount1h),
			FeatAmountChangeRatio: ev.AmountChangeRatio,
			FeatTimeSinceLast:     float64(ev.TimeSinceLastSecs),
			FeatFirstTimeReceiver: float64(ev.FirstTimeReceiver),
			FeatHourOfDay:         float64(ev.Timestamp.Hour()),
			FeatNewDevice:         newDevice,
			FeatVPAKeywordMatch:   e.keywordMatch(ev.ReceiverID),
		},
		Categorical: map[string]string{
			FeatTransactionType: ev.Type,
			FeatChannel:         ev.Channel,
			FeatNetworkType:     ev.NetworkType,
		},
	}
}

func (e *Extractor) keywordMatch(receiver string) float64 {
	r := strings.ToLower(receiver)
	for _, kw := range e.keywords {
		if strings.Contains(r, kw) {
			return 1.0
		}
	}
	return 0.0
}
