package payroll

const (
	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
	PaymentStatusOnHold  = "on_hold"

	OutcomeSuccess = "success"
	OutcomeSkipped = "skipped"
	OutcomeFailed  = "failed"

	JobMonthlyPayroll = "payroll_monthly"

	JobStatusRunning   = "running"
	JobStatusCompleted = "completed"
	JobStatusFailed    = "failed"

	AuditActionSlipGenerated = "payroll.slip.generated"
	AuditActionSlipStatus    = "payroll.slip.status"
	AuditActionBatchRun      = "payroll.batch.run"
	AuditEntitySlip          = "payroll_slip"
	AuditEntityPeriod        = "payroll_period"
)

// statusTransitions lists the payment statuses reachable from each status.
var statusTransitions = map[string][]string{
	PaymentStatusPending: {PaymentStatusPaid, PaymentStatusOnHold},
	PaymentStatusOnHold:  {PaymentStatusPending, PaymentStatusPaid},
}

// canTransition also accepts an unchanged status so remarks can be edited on
// their own.
func canTransition(from, to string) bool {
	if from == to {
		return from == PaymentStatusPending || from == PaymentStatusPaid || from == PaymentStatusOnHold
	}
	for _, candidate := range statusTransitions[from] {
		if candidate == to {
			return true
		}
	}
	return false
}
