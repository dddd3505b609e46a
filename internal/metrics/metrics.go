// Package metrics exposes Prometheus counters for ledger operations.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Disbursements counts successful disbursements.
	Disbursements = promauto.NewCounter(prometheus.CounterOpts{
		Name: "agristock_disbursements_total",
		Help: "Successful goods disbursements.",
	})

	// StockAdditions counts successful restocks.
	StockAdditions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "agristock_stock_additions_total",
		Help: "Successful stock intake operations.",
	})

	// ReturnTransitions counts return status transitions by target status.
	ReturnTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "agristock_return_transitions_total",
		Help: "Return record status transitions.",
	}, []string{"status"})

	// LoansOpened counts successful asset borrows.
	LoansOpened = promauto.NewCounter(prometheus.CounterOpts{
		Name: "agristock_loans_opened_total",
		Help: "Asset loans opened.",
	})

	// LoansClosed counts successful asset returns.
	LoansClosed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "agristock_loans_closed_total",
		Help: "Asset loans closed.",
	})

	// RequestDecisions counts terminal approval request decisions.
	RequestDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "agristock_request_decisions_total",
		Help: "Approval request decisions by outcome.",
	}, []string{"decision"})

	// CommandFailures counts failed ledger commands by command and reason.
	CommandFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "agristock_command_failures_total",
		Help: "Failed ledger commands.",
	}, []string{"command", "reason"})

	// Inconsistencies counts detected ledger inconsistencies. Any increase
	// signals state corruption and needs operator attention; alert on it.
	Inconsistencies = promauto.NewCounter(prometheus.CounterOpts{
		Name: "agristock_ledger_inconsistencies_total",
		Help: "Detected ledger inconsistencies (data-integrity alarm).",
	})
)
