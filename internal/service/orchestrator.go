package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/gfmarinho/absence-messaging/internal/client"
	"github.com/gfmarinho/absence-messaging/internal/model"
	"github.com/gfmarinho/absence-messaging/internal/phone"
	"github.com/gfmarinho/absence-messaging/internal/repo"
	"github.com/gfmarinho/absence-messaging/internal/template"
)

type GatewaySender interface {
	Send(ctx context.Context, number, message string) client.SendResult
}

// Orchestrator runs one dispatch batch: render, send, record, one student at
// a time. Students are independent; a failure only degrades its own outcome.
type Orchestrator struct {
	gateway GatewaySender
	records repo.DispatchRepository
	log     zerolog.Logger
}

func NewOrchestrator(gateway GatewaySender, records repo.DispatchRepository, log zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		gateway: gateway,
		records: records,
		log:     log,
	}
}

// DispatchBatch produces one outcome per flagged student, in input order.
func (o *Orchestrator) DispatchBatch(ctx context.Context, date, series string, students []model.FlaggedStudent, tmpl string) []model.DispatchOutcome {
	outcomes := make([]model.DispatchOutcome, 0, len(students))
	for _, st := range students {
		outcomes = append(outcomes, o.dispatchOne(ctx, date, series, st, tmpl))
	}
	return outcomes
}

func (o *Orchestrator) dispatchOne(ctx context.Context, date, series string, st model.FlaggedStudent, tmpl string) model.DispatchOutcome {
	number := phone.Normalize(st.Phone)
	if number == "" {
		o.log.Warn().Str("student", st.Student).Msg("skipping student without phone number")
		return model.DispatchOutcome{
			Student: st.Student,
			Skipped: true,
			Detail:  "skipped: missing phone",
		}
	}

	message := template.Render(tmpl, st.Student, st.Guardian)

	res := o.gateway.Send(ctx, number, message)

	status := model.Sent
	if !res.OK {
		status = model.Failed
		o.log.Warn().Str("student", st.Student).Str("number", number).Str("detail", res.Detail).Msg("gateway send failed")
	}

	// The record is the audit trail, so it gets written whether or not the
	// send went through.
	id, err := o.records.Create(ctx, model.DispatchRecord{
		Student:  st.Student,
		Series:   series,
		Date:     date,
		Guardian: st.Guardian,
		Phone:    number,
		Status:   status,
	})
	if err != nil {
		// A send without a record cannot be proven; report the student as
		// failed even when the gateway accepted the message.
		o.log.Error().Err(err).Str("student", st.Student).Msg("failed to record dispatch")
		return model.DispatchOutcome{
			Student: st.Student,
			Status:  model.Failed,
			Detail:  fmt.Sprintf("failed to record dispatch: %v", err),
		}
	}

	return model.DispatchOutcome{
		Student:  st.Student,
		RecordID: id,
		Status:   status,
		Detail:   res.Detail,
	}
}
