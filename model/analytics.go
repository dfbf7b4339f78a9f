package model

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	glContext "dev.modforge.gg/platform/modforge-shared/context"
	_ "github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/gofrs/uuid"
	googleUUID "github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// AggregateEvent is one recorded aggregate mutation, rating submitted, vote
// cast, favorite toggled, lesson completed.
type AggregateEvent struct {
	Id        uuid.UUID `json:"id,omitempty"`
	EntityId  uuid.UUID `json:"entityId,omitempty"`
	UserId    uuid.UUID `json:"userId,omitempty"`
	Event     string    `json:"event,omitempty"`
	Timestamp time.Time `json:"timestamp,omitempty"`
	Payload   string    `json:"data,omitempty"`
}

func (e AggregateEvent) String() string {
	var out = "{"
	out += "id: " + e.Id.String() + ", "
	out += "entityId: " + e.EntityId.String() + ", "
	out += "userId: " + e.UserId.String() + ", "
	out += "event: " + e.Event + ", "
	out += "timestamp: " + e.Timestamp.Format("2006-01-02 15:04:05") + ", "
	out += "payload: " + e.Payload + ", "
	out += "}"
	return out
}

type AggregateEventBatch Batch[AggregateEvent]

type AggregateEventRequest struct {
	EntityId uuid.UUID `json:"entityId"`
	UserId   uuid.UUID `json:"userId"`
	Event    string    `json:"event"`
	Payload  any       `json:"data,omitempty"`
}

// ReportAggregateEvent writes one aggregate mutation into the analytics
// store.
func ReportAggregateEvent(ctx context.Context, request AggregateEventRequest) error {
	clickhouse, ok := ctx.Value(glContext.Clickhouse).(driver.Conn)
	if !ok || clickhouse == nil {
		return ErrNoDatabase
	}

	bytes, err := json.Marshal(request.Payload)
	if err != nil {
		logrus.Errorf("failed to marshal payload: %v", err)
		return fmt.Errorf("failed to report event")
	}

	q := `INSERT INTO aggregate_events (id, entity_id, user_id, event, payload)
	VALUES	($1, $2, $3, $4, $5)`
	err = clickhouse.Exec(ctx, q,
		googleUUID.NewString(),
		request.EntityId.String(),
		request.UserId.String(),
		request.Event,
		string(bytes),
	)

	if err != nil {
		logrus.Errorf("failed to insert: %v", err)
		return fmt.Errorf("failed to report event")
	}

	return nil
}

type IndexAggregateEventRequest struct {
	Offset   *int64  `json:"offset,omitempty"`
	Limit    *int64  `json:"limit,omitempty"`
	EntityId *string `json:"entityId,omitempty"`
	UserId   *string `json:"userId,omitempty"`
	Event    *string `json:"event,omitempty"`
}

// IndexAggregateEvent lists recorded aggregate mutations, admins only.
func IndexAggregateEvent(ctx context.Context, requester *User, request IndexAggregateEventRequest) (b *AggregateEventBatch, err error) {
	if requester == nil || requester.Id == uuid.Nil {
		return nil, ErrNoRequester
	}

	if !requester.IsAdmin {
		return nil, ErrNoPermission
	}

	c, ok := ctx.Value(glContext.Clickhouse).(driver.Conn)
	if !ok || c == nil {
		return nil, ErrNoDatabase
	}

	var batch = AggregateEventBatch{
		Offset: 0,
		Limit:  100,
		Total:  0,
	}

	if request.Offset != nil && *request.Offset >= 0 {
		batch.Offset = *request.Offset
	}

	if request.Limit != nil && *request.Limit > 0 && *request.Limit <= 100 {
		batch.Limit = *request.Limit
	}

	var (
		qt       string
		qtArgNum = 0
		q        string
		qArgNum  = 0
		args     = make([]any, 0)
	)

	qt = `select count(id) from aggregate_events where true`
	q = `select id, entity_id, user_id, event, timestamp, payload from aggregate_events where true`

	var entityIdUuid uuid.UUID
	if request.EntityId != nil {
		entityIdUuid = uuid.FromStringOrNil(*request.EntityId)
	}
	if request.EntityId != nil && !entityIdUuid.IsNil() {
		qtArgNum++
		qt += ` and entity_id = $` + strconv.Itoa(qtArgNum)
		qArgNum++
		q += ` and entity_id = $` + strconv.Itoa(qArgNum)
		args = append(args, *request.EntityId)
	}

	var userIdUuid uuid.UUID
	if request.UserId != nil {
		userIdUuid = uuid.FromStringOrNil(*request.UserId)
	}
	if request.UserId != nil && !userIdUuid.IsNil() {
		qtArgNum++
		qt += ` and user_id = $` + strconv.Itoa(qtArgNum)
		qArgNum++
		q += ` and user_id = $` + strconv.Itoa(qArgNum)
		args = append(args, *request.UserId)
	}

	if request.Event != nil && *request.Event != "" {
		qtArgNum++
		qt += ` and event = $` + strconv.Itoa(qtArgNum)
		qArgNum++
		q += ` and event = $` + strconv.Itoa(qArgNum)
		args = append(args, *request.Event)
	}

	row := c.QueryRow(ctx, qt, args...)
	if err = row.Scan(&batch.Total); err != nil {
		return nil, err
	}

	qArgNum += 2
	q += ` order by timestamp desc limit $` + strconv.Itoa(qArgNum-1) + ` offset $` + strconv.Itoa(qArgNum)
	args = append(args, batch.Limit, batch.Offset)

	rows, err := c.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			e         AggregateEvent
			id        string
			entityId  string
			userId    string
			timestamp time.Time
		)
		if err = rows.Scan(&id, &entityId, &userId, &e.Event, &timestamp, &e.Payload); err != nil {
			return nil, err
		}
		e.Id = uuid.FromStringOrNil(id)
		e.EntityId = uuid.FromStringOrNil(entityId)
		e.UserId = uuid.FromStringOrNil(userId)
		e.Timestamp = timestamp
		batch.Entities = append(batch.Entities, e)
	}

	return &batch, nil
}

type SystemLogRequest struct {
	Service   string    `json:"service" query:"service"`
	Timestamp time.Time `json:"timestamp" query:"timestamp"`
	Level     string    `json:"level" query:"level"`
	Message   string    `json:"message" query:"message"`
	Payload   any       `json:"data" query:"data"`
}

// ReportSystemLog writes one log entry into the syslog table, used by the
// logrus hook.
func ReportSystemLog(ctx context.Context, event SystemLogRequest) error {
	clickhouse, ok := ctx.Value(glContext.Clickhouse).(driver.Conn)
	if !ok {
		return fmt.Errorf("failed to get clickhouse client from context")
	}

	bytes, err := json.Marshal(event.Payload)
	if err != nil {
		logrus.Errorf("failed to marshal payload: %v", err)
		return fmt.Errorf("failed to report event")
	}

	q := `INSERT INTO syslog (service, message, level, payload)
	VALUES	($1, $2, $3, $4)`
	err = clickhouse.Exec(ctx, q,
		event.Service,
		event.Message,
		event.Level,
		string(bytes),
	)

	if err != nil {
		logrus.Errorf("failed to insert: %v", err)
		return fmt.Errorf("failed to report event")
	}

	return nil
}
