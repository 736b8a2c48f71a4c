// Package export writes end-of-run artifacts: the labeled dataset as CSV,
// the learning curve as a PNG chart, and a terminal summary table.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/opensource-finance/shrike/internal/domain"
	"github.com/wcharczuk/go-chart/v2"
)

// csvHeader is the column order of the exported dataset.
var csvHeader = []string{
	"Transaction_ID",
	"Timestamp",
	"Amount",
	"Transaction_Type",
	"Channel",
	"Network_Type",
	"Sender_ID",
	"Receiver_ID",
	"Device_ID",
	"Geo_Jump",
	"Is_First_Time_Receiver",
	"Sender_Account_Age",
	"Avg_Transaction_Value",
	"Txn_Count_1h",
	"Amount_Change_Ratio",
	"Time_Since_Last_Txn",
	"Fraud_Type",
}

// WriteCSV exports the labeled dataset to path.
func WriteCSV(path string, events []domain.LabeledEvent) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create dataset file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write dataset header: %w", err)
	}

	for i := range events {
		ev := &events[i]
		row := []string{
			ev.ID,
			ev.Timestamp.Format(time.RFC3339),
			strconv.FormatFloat(ev.Amount, 'f', 2, 64),
			ev.Type,
			ev.Channel,
			ev.NetworkType,
			ev.SenderID,
			ev.ReceiverID,
			ev.DeviceID,
			strconv.Itoa(ev.GeoJump),
			strconv.Itoa(ev.FirstTimeReceiver),
			strconv.Itoa(ev.SenderAccountAge),
			strconv.FormatFloat(ev.AvgTransactionValue, 'f', 2, 64),
			strconv.Itoa(ev.TxnCount1h),
			strconv.FormatFloat(ev.AmountChangeRatio, 'f', 2, 64),
			strconv.FormatInt(ev.TimeSinceLastSecs, 10),
			ev.Label,
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write dataset row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush dataset: %w", err)
	}
	return nil
}

// RenderCurve draws the running macro F1 curve to a PNG file. Curves with
// fewer than two points cannot be plotted and are skipped silently.
func RenderCurve(path string, curve []float64) error {
	if len(curve) < 2 {
		return nil
	}

	xs := make([]float64, len(curve))
	for i := range curve {
		xs[i] = float64(i + 1)
	}

	graph := chart.Chart{
		Title: "Online Learning Accuracy",
		XAxis: chart.XAxis{
			Name: "Scored Events",
		},
		YAxis: chart.YAxis{
			Name: "Macro F1",
			Range: &chart.ContinuousRange{
				Min: 0,
				Max: 1,
			},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "Macro F1",
				XValues: xs,
				YValues: curve,
			},
		},
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	defer f.Close()

	if err := graph.Render(chart.PNG, f); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}

// PrintSummary renders the run summary as a table.
func PrintSummary(w io.Writer, run *domain.Run) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Metric", "Value"})
	table.Append([]string{"Run ID", run.ID})
	table.Append([]string{"Accounts", strconv.Itoa(run.Accounts)})
	table.Append([]string{"Simulated Hours", strconv.Itoa(run.Hours)})
	table.Append([]string{"Base Fraud Rate", strconv.FormatFloat(run.BaseFraudRate, 'f', 4, 64)})
	table.Append([]string{"Seed", strconv.FormatInt(run.Seed, 10)})
	table.Append([]string{"Events", strconv.Itoa(run.Events)})
	table.Append([]string{"Fraud Events", strconv.Itoa(run.FraudEvents)})
	table.Append([]string{"Scored Ticks", strconv.Itoa(run.ScoredTicks)})
	table.Append([]string{"Final Macro F1", strconv.FormatFloat(run.FinalMacroF1, 'f', 4, 64)})
	table.Append([]string{"Baseline Macro F1", strconv.FormatFloat(run.BaselineF1, 'f', 4, 64)})
	table.Append([]string{"Duration", run.FinishedAt.Sub(run.StartedAt).Round(time.Millisecond).String()})
	table.Render()
}
