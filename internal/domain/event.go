// Package domain defines the core interfaces and types for Shrike.
package domain

import (
	"time"
)

// SimulationStart is the wall-clock origin of simulated time.
// Tick t corresponds to SimulationStart + t minutes.
var SimulationStart = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

// TransactionEvent is a single generated payment event. Immutable once
// generated; the velocity and recency fields are captured from account
// state as it was before this event was recorded.
type TransactionEvent struct {
	// Core identifiers
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`

	// Financial details
	Amount float64 `json:"amount"`

	// Transaction shape
	Type        string `json:"type"`
	Channel     string `json:"channel"`
	NetworkType string `json:"networkType"`

	// Parties and device
	SenderID   string `json:"senderId"`
	ReceiverID string `json:"receiverId"`
	DeviceID   string `json:"deviceId"`

	// Location signal: distance in km from the sender's last known location
	GeoJump int `json:"geoJump"`

	// Receiver novelty flag (forced to 1 on fraud mutations)
	FirstTimeReceiver int `json:"firstTimeReceiver"`

	// Sender baseline attributes at generation time
	SenderAccountAge    int     `json:"senderAccountAge"`
	AvgTransactionValue float64 `json:"avgTransactionValue"`

	// Velocity and recency, computed from pre-event state
	TxnCount1h        int     `json:"txnCount1h"`
	AmountChangeRatio float64 `json:"amountChangeRatio"`
	TimeSinceLastSecs int64   `json:"timeSinceLastSecs"`
}

// LabeledEvent pairs an event with its ground-truth label.
// This is the row shape of the accumulated dataset.
type LabeledEvent struct {
	TransactionEvent
	Label string `json:"label"`
}

// LabelLegit is the ground-truth label for non-fraudulent events.
// All other labels are typology names registered with the generator.
const LabelLegit = "Legit"

// Built-in fraud typology names.
const (
	TypologyPhishing           = "Phishing"
	TypologyQRScam             = "QR_Scam"
	TypologyCollectRequestScam = "Collect_Request_Scam"
	TypologyIdentityTheft      = "Identity_Theft"
	TypologySIMSwapATO         = "SIM_Swap_ATO"
	TypologyVPAMimicry         = "VPA_Mimicry"
)

// Categorical vocabularies of the generated stream.
var (
	TransactionTypes = []string{"P2P", "P2M", "Bill_Pay", "Collect_Request"}
	Channels         = []string{"QR_Scan", "Intent_Link", "Manual_VPA"}
	NetworkTypes     = []string{"4G", "5G", "Public_WiFi"}
)
