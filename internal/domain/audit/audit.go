package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"salaryengine/internal/platform/querier"
)

type Event struct {
	ID         string          `json:"id"`
	ActorID    string          `json:"actorId"`
	Action     string          `json:"action"`
	EntityType string          `json:"entityType"`
	EntityID   string          `json:"entityId"`
	RequestID  string          `json:"requestId"`
	CreatedAt  time.Time       `json:"createdAt"`
	Before     json.RawMessage `json:"before,omitempty"`
	After      json.RawMessage `json:"after,omitempty"`
}

type Filter struct {
	Action     string
	EntityType string
	EntityID   string
	ActorUser  string
}

// Service writes and reads audit_events rows for payroll changes.
type Service struct {
	DB querier.Querier
}

func New(db querier.Querier) *Service {
	return &Service{DB: db}
}

func (s *Service) Record(ctx context.Context, actorID, action, entityType, entityID, requestID string, before, after any) error {
	beforeJSON, err := marshalState(before)
	if err != nil {
		return fmt.Errorf("marshal before state: %w", err)
	}
	afterJSON, err := marshalState(after)
	if err != nil {
		return fmt.Errorf("marshal after state: %w", err)
	}

	_, err = s.DB.Exec(ctx, `
    INSERT INTO audit_events (actor_user_id, action, entity_type, entity_id, before_json, after_json, request_id)
    VALUES ($1,$2,$3,$4,$5,$6,$7)
  `, nullIfEmpty(actorID), action, entityType, entityID, beforeJSON, afterJSON, nullIfEmpty(requestID))
	return err
}

func (s *Service) Count(ctx context.Context, filter Filter) (int, error) {
	query, args := buildBaseQuery("SELECT COUNT(1)", filter)
	var total int
	if err := s.DB.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (s *Service) List(ctx context.Context, filter Filter, includeDetails bool, limit, offset int) ([]Event, error) {
	selectCols := "id, COALESCE(actor_user_id, ''), action, entity_type, entity_id, COALESCE(request_id, ''), created_at"
	if includeDetails {
		selectCols += ", before_json, after_json"
	}
	query, args := buildBaseQuery("SELECT "+selectCols, filter)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var evt Event
		dest := []any{&evt.ID, &evt.ActorID, &evt.Action, &evt.EntityType, &evt.EntityID, &evt.RequestID, &evt.CreatedAt}
		if includeDetails {
			dest = append(dest, &evt.Before, &evt.After)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		out = append(out, evt)
	}
	return out, rows.Err()
}

func buildBaseQuery(prefix string, filter Filter) (string, []any) {
	query := prefix + " FROM audit_events WHERE 1=1"
	var args []any
	add := func(column, value string) {
		if value == "" {
			return
		}
		args = append(args, value)
		query += fmt.Sprintf(" AND %s = $%d", column, len(args))
	}
	add("action", filter.Action)
	add("entity_type", filter.EntityType)
	add("entity_id", filter.EntityID)
	add("actor_user_id", filter.ActorUser)
	return query, args
}

func marshalState(state any) ([]byte, error) {
	if state == nil {
		return nil, nil
	}
	return json.Marshal(state)
}

func nullIfEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}
