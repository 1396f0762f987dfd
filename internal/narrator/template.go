package narrator

import (
	"fmt"
	"strings"

	"aerox/internal/decision/models"
	"aerox/internal/decision/ports"
)

// FallbackAssessment builds a deterministic risk narrative from the scores
// alone. Used whenever the gateway is unreachable or returns garbage.
func FallbackAssessment(scores models.RiskScores) models.RiskAssessment {
	intent := "moderate"
	if scores.IntentScore < 0.4 {
		intent = "low"
	}
	capacity := "moderate"
	if scores.CapacityScore > 0.6 {
		capacity = "good"
	}

	return models.RiskAssessment{
		RiskSummary: fmt.Sprintf(
			"Intent score %.2f indicates %s fraud risk. Capacity score %.2f shows %s credit quality.",
			scores.IntentScore, intent, scores.CapacityScore, capacity),
		KeyRiskFactors: []string{
			fmt.Sprintf("Intent score %.2f", scores.IntentScore),
			fmt.Sprintf("Capacity score %.2f", scores.CapacityScore),
			fmt.Sprintf("30-day default probability %.1f%%", scores.PD30d*100),
		},
		MitigatingFactors: []string{
			fmt.Sprintf("7-day default probability %.1f%%", scores.PD7d*100),
		},
		Recommendation: "Consider shortened settlement or partial upfront to reduce exposure window.",
	}
}

// FallbackMessage builds a deterministic customer message listing the
// offered options. The option labels in the message always match the
// generated option IDs.
func FallbackMessage(dc ports.DecisionContext) models.CustomerMessage {
	var sb strings.Builder

	name := dc.Booking.CompanyName
	if name == "" {
		name = dc.Booking.CompanyID
	}
	fmt.Fprintf(&sb, "Hi %s,\n\n", name)
	fmt.Fprintf(&sb, "Your %s booking (%s) is ready, but it exceeds your available credit.\n",
		formatAmount(dc.Booking.BookingAmount), dc.Booking.Route)
	sb.WriteString("We can approve it with one of these options:\n")

	buttons := make([]string, 0, len(dc.Options)+1)
	for _, opt := range dc.Options {
		fmt.Fprintf(&sb, "\nOption %s: %s\n", opt.OptionID, opt.Description)
		switch opt.Kind {
		case models.KindShortenedSettlement:
			fmt.Fprintf(&sb, "  Full %s approved, settle in %d days.\n",
				formatAmount(opt.ApprovedAmount), opt.SettlementDays)
		case models.KindUpfrontPayment:
			fmt.Fprintf(&sb, "  Pay %s upfront, balance in %d days.\n",
				formatAmount(opt.UpfrontAmount), opt.SettlementDays)
		case models.KindPartialApproval:
			fmt.Fprintf(&sb, "  %s approved now, settle in %d days.\n",
				formatAmount(opt.ApprovedAmount), opt.SettlementDays)
		}
		buttons = append(buttons, "Select "+opt.OptionID)
	}
	buttons = append(buttons, "Support")

	labels := make([]string, len(dc.Options))
	for i, opt := range dc.Options {
		labels[i] = opt.OptionID
	}
	fmt.Fprintf(&sb, "\nReply %s to proceed, or click Support for help.\n", strings.Join(labels, ", "))
	sb.WriteString("\n— AEROX Credit Team")

	return models.CustomerMessage{
		Subject:    fmt.Sprintf("Credit Options for %s Booking", formatAmount(dc.Booking.BookingAmount)),
		Body:       sb.String(),
		CTAButtons: buttons,
	}
}

// formatAmount renders a rupee amount with thousands separators, matching
// the notation used across customer communications.
func formatAmount(v float64) string {
	whole := fmt.Sprintf("%.0f", v)
	neg := strings.HasPrefix(whole, "-")
	if neg {
		whole = whole[1:]
	}
	var parts []string
	for len(whole) > 3 {
		parts = append([]string{whole[len(whole)-3:]}, parts...)
		whole = whole[:len(whole)-3]
	}
	parts = append([]string{whole}, parts...)
	out := "₹" + strings.Join(parts, ",")
	if neg {
		out = "-" + out
	}
	return out
}
