package payroll

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

type daEntry struct {
	EffectiveFrom time.Time
	EffectiveTo   *time.Time
	Amount        float64
	IsActive      bool
}

type memStore struct {
	mu         sync.Mutex
	profiles   []Profile
	profileErr error
	da         []daEntry
	daCalls    int
	attendance map[string]AttendanceSummary
	slips      []Slip
	insertErrs map[string]error
	runs       map[string]string
	runDetails map[string]any
	nextRunID  int
}

func newMemStore(profiles ...Profile) *memStore {
	return &memStore{
		profiles:   profiles,
		attendance: map[string]AttendanceSummary{},
		insertErrs: map[string]error{},
		runs:       map[string]string{},
		runDetails: map[string]any{},
	}
}

func (m *memStore) GetActiveProfile(ctx context.Context, employeeID string, period Period) (Profile, error) {
	if m.profileErr != nil {
		return Profile{}, m.profileErr
	}
	var best *Profile
	for i := range m.profiles {
		p := m.profiles[i]
		if p.EmployeeID != employeeID || !p.Covers(period) {
			continue
		}
		if best == nil || p.EffectiveFrom.After(best.EffectiveFrom) {
			best = &p
		}
	}
	if best == nil {
		return Profile{}, ErrProfileNotFound
	}
	return *best, nil
}

func (m *memStore) ListActiveProfiles(ctx context.Context, period Period) ([]Profile, error) {
	if m.profileErr != nil {
		return nil, m.profileErr
	}
	var out []Profile
	seen := map[string]bool{}
	for _, p := range m.profiles {
		if !p.Covers(period) || seen[p.EmployeeID] {
			continue
		}
		seen[p.EmployeeID] = true
		out = append(out, p)
	}
	return out, nil
}

func (m *memStore) GetActiveDA(ctx context.Context, date time.Time) (float64, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.daCalls++
	if err := ctx.Err(); err != nil {
		return 0, false, err
	}
	for _, entry := range m.da {
		if !entry.IsActive || entry.EffectiveFrom.After(date) {
			continue
		}
		if entry.EffectiveTo != nil && entry.EffectiveTo.Before(date) {
			continue
		}
		return entry.Amount, true, nil
	}
	return 0, false, nil
}

func (m *memStore) Summary(ctx context.Context, employeeID string, period Period) (AttendanceSummary, error) {
	return m.attendance[employeeID+"/"+period.String()], nil
}

func (m *memStore) InsertSlip(ctx context.Context, slip Slip) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.insertErrs[slip.EmployeeID]; err != nil {
		return "", err
	}
	for _, existing := range m.slips {
		if existing.EmployeeID == slip.EmployeeID && existing.Period == slip.Period {
			return "", ErrDuplicateSlip
		}
	}
	m.slips = append(m.slips, slip)
	return slip.ID, nil
}

func (m *memStore) GetSlip(ctx context.Context, slipID string) (Slip, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, slip := range m.slips {
		if slip.ID == slipID {
			return slip, nil
		}
	}
	return Slip{}, ErrSlipNotFound
}

func (m *memStore) ListSlips(ctx context.Context, period Period) ([]Slip, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Slip
	for _, slip := range m.slips {
		if slip.Period == period {
			out = append(out, slip)
		}
	}
	return out, nil
}

func (m *memStore) UpdateSlipStatus(ctx context.Context, slipID, from, to, remarks string) (Slip, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.slips {
		if m.slips[i].ID != slipID {
			continue
		}
		if m.slips[i].PaymentStatus != from {
			return Slip{}, ErrInvalidStatusTransition
		}
		m.slips[i].PaymentStatus = to
		m.slips[i].Remarks = remarks
		return m.slips[i], nil
	}
	return Slip{}, ErrSlipNotFound
}

func (m *memStore) CreateJobRun(ctx context.Context, jobType string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextRunID++
	id := fmt.Sprintf("run-%d", m.nextRunID)
	m.runs[id] = JobStatusRunning
	return id, nil
}

func (m *memStore) UpdateJobRun(ctx context.Context, runID, status string, details any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.runs[runID]; !ok {
		return errors.New("unknown run")
	}
	m.runs[runID] = status
	m.runDetails[runID] = details
	return nil
}

type auditEntry struct {
	ActorID  string
	Action   string
	EntityID string
}

type memAudit struct {
	entries []auditEntry
}

func (a *memAudit) Record(ctx context.Context, actorID, action, entityType, entityID, requestID string, before, after any) error {
	a.entries = append(a.entries, auditEntry{ActorID: actorID, Action: action, EntityID: entityID})
	return nil
}

type countingObserver struct {
	slips   map[string]int
	batches int
}

func (o *countingObserver) ObserveSlip(outcome string) {
	if o.slips == nil {
		o.slips = map[string]int{}
	}
	o.slips[outcome]++
}

func (o *countingObserver) ObserveBatch(period Period, elapsed time.Duration) {
	o.batches++
}

func testProfile(employeeID string, gross float64) Profile {
	return Profile{
		ID:            "profile-" + employeeID,
		EmployeeID:    employeeID,
		EmployeeName:  "Employee " + employeeID,
		SalaryType:    "monthly",
		Gross:         gross,
		PFApplicable:  true,
		PTApplicable:  true,
		EffectiveFrom: time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
		IsActive:      true,
	}
}
