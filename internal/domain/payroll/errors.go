package payroll

import (
	"errors"
	"fmt"
)

var (
	ErrProfileNotFound         = errors.New("no active salary profile for period")
	ErrDuplicateSlip           = errors.New("payroll slip already exists for period")
	ErrSlipNotFound            = errors.New("payroll slip not found")
	ErrInvalidPeriod           = errors.New("period must be in YYYY-MM format")
	ErrInvalidStatusTransition = errors.New("payment status transition not allowed")
	ErrInvalidEmployeeID       = errors.New("employee id is required")
)

// PersistenceError wraps any other store failure with the operation and
// employee it happened for.
type PersistenceError struct {
	Op         string
	EmployeeID string
	Err        error
}

func (e *PersistenceError) Error() string {
	if e.EmployeeID == "" {
		return fmt.Sprintf("payroll %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("payroll %s for employee %s: %v", e.Op, e.EmployeeID, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// persistence wraps err unless it is one of the domain sentinels.
func persistence(op, employeeID string, err error) error {
	if err == nil {
		return nil
	}
	for _, sentinel := range []error{ErrProfileNotFound, ErrDuplicateSlip, ErrSlipNotFound, ErrInvalidStatusTransition} {
		if errors.Is(err, sentinel) {
			return err
		}
	}
	return &PersistenceError{Op: op, EmployeeID: employeeID, Err: err}
}
