// Package generator produces the synthetic transaction stream: one event
// per simulated minute, with fraud events mutated by typology-specific
// rules drawn from the active regime.
package generator

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/opensource-finance/shrike/internal/account"
	"github.com/opensource-finance/shrike/internal/domain"
	"github.com/opensource-finance/shrike/internal/regime"
)

// Mutation rewrites a baseline event into a fraud pattern. Mutations are
// pure over their inputs: they may read regime params and draw from rng,
// but must not touch account state.
type Mutation func(ev *domain.TransactionEvent, p regime.Params, rng *rand.Rand)

// Spec describes a registered typology.
type Spec struct {
	Mutate Mutation

	// TakeoverDevice persists the mutated device on the sender's account,
	// modeling a compromised account rather than a one-off spoof.
	TakeoverDevice bool
}

// Generator produces labeled transaction events. Not safe for concurrent
// use; the driver loop is its only caller.
type Generator struct {
	accounts *account.Store
	schedule *regime.Schedule
	baseRate float64
	rng      *rand.Rand

	typologies map[string]Spec
}

// New creates a generator with the built-in typologies registered.
func New(accounts *account.Store, schedule *regime.Schedule, baseRate float64, rng *rand.Rand) *Generator {
	g := &Generator{
		accounts:   accounts,
		schedule:   schedule,
		baseRate:   baseRate,
		rng:        rng,
		typologies: make(map[string]Spec),
	}
	for name, spec := range builtinTypologies() {
		g.Register(name, spec)
	}
	return g
}

// Register adds or replaces a typology. New fraud patterns extend the
// table; existing mutations are never branched into.
func (g *Generator) Register(name string, spec Spec) {
	g.typologies[name] = spec
}

// ValidateSchedule checks that every typology named by the schedule's
// regimes has a registered mutation. Called before the run starts.
func (g *Generator) ValidateSchedule(lastMinute int) error {
	seen := make(map[string]bool)
	for t := 0; t <= lastMinute; t++ {
		for _, name := range g.schedule.Current(t).ActiveTypologies {
			if !seen[name] {
				seen[name] = true
				if _, ok := g.typologies[name]; !ok {
					return fmt.Errorf("typology %q has no registered mutation", name)
				}
			}
		}
	}
	return nil
}

// Generate produces the event for simulated minute t. Velocity and recency
// features are captured from account state before the event is recorded,
// so an event never leaks into its own features.
func (g *Generator) Generate(t int) domain.LabeledEvent {
	now := domain.SimulationStart.Add(time.Duration(t) * time.Minute)

	ids := g.accounts.IDs()
	senderIdx := g.rng.Intn(len(ids))
	sender := g.accounts.Get(ids[senderIdx])

	params := g.schedule.Current(t)
	prob := regime.FraudProbability(t, g.baseRate, g.rng)
	isFraud := g.rng.Float64() < prob

	label := domain.LabelLegit
	if isFraud {
		label = params.ActiveTypologies[g.rng.Intn(len(params.ActiveTypologies))]
	}

	ev := domain.TransactionEvent{
		ID:                  newEventID(g.rng),
		Timestamp:           now,
		Amount:              math.Round(g.rng.NormFloat64()*200 + sender.AvgTxnValue),
		Type:                "P2P",
		Channel:             "Manual_VPA",
		NetworkType:         domain.NetworkTypes[g.rng.Intn(len(domain.NetworkTypes))],
		SenderID:            sender.ID,
		ReceiverID:          ids[pickOther(g.rng, len(ids), senderIdx)],
		DeviceID:            sender.DeviceID,
		GeoJump:             g.rng.Intn(11),
		FirstTimeReceiver:   0,
		SenderAccountAge:    sender.Age,
		AvgTransactionValue: sender.AvgTxnValue,
	}

	var spec Spec
	if isFraud {
		ev.FirstTimeReceiver = 1
		spec = g.typologies[label]
		if spec.Mutate != nil {
			spec.Mutate(&ev, params, g.rng)
		}
	}

	ev.TxnCount1h = g.accounts.VelocityCount(sender.ID, ev.Timestamp)
	ev.AmountChangeRatio = g.accounts.AmountChangeRatio(sender.ID, ev.Amount)
	ev.TimeSinceLastSecs = g.accounts.TimeSinceLast(sender.ID, ev.Timestamp)

	g.accounts.Record(sender.ID, ev.Amount, ev.Timestamp)
	if isFraud && spec.TakeoverDevice {
		g.accounts.SetDevice(sender.ID, ev.DeviceID)
	}

	return domain.LabeledEvent{TransactionEvent: ev, Label: label}
}

// newEventID draws a UUID from the run's random source so seeded runs
// reproduce identical datasets.
func newEventID(rng *rand.Rand) string {
	id, err := uuid.NewRandomFromReader(rng)
	if err != nil {
		// rand.Rand.Read never fails
		panic(err)
	}
	return id.String()
}

// pickOther draws uniformly from [0, n) excluding skip.
func pickOther(rng *rand.Rand, n, skip int) int {
	if n == 1 {
		return skip
	}
	i := rng.Intn(n - 1)
	if i >= skip {
		i++
	}
	return i
}
