package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/gfmarinho/absence-messaging/internal/model"
	"github.com/gfmarinho/absence-messaging/internal/phone"
	"github.com/gfmarinho/absence-messaging/internal/repo"
)

// Correlator matches inbound replies, identified only by sender number, to
// the newest outstanding dispatch record for that number. Invoked once per
// webhook call, possibly concurrently with itself and with a running batch;
// the store's conditional update is what keeps racing attaches safe.
type Correlator struct {
	records repo.DispatchRepository
	log     zerolog.Logger
}

func NewCorrelator(records repo.DispatchRepository, log zerolog.Logger) *Correlator {
	return &Correlator{records: records, log: log}
}

// Correlate normalizes the sender id and attaches the reply to the most
// recently created awaiting-reply record. Losing the attach race to a
// concurrent correlation triggers one re-selection; an unmatched reply is
// not an error, only storage failures are.
func (c *Correlator) Correlate(ctx context.Context, rawFrom, body string) (model.CorrelationOutcome, error) {
	out := model.CorrelationOutcome{
		Number: phone.Normalize(rawFrom),
		Body:   body,
	}
	if out.Number == "" {
		c.log.Warn().Str("from", rawFrom).Msg("inbound reply with unusable sender id")
		return out, nil
	}

	for attempt := 0; attempt < 2; attempt++ {
		candidates, err := c.records.FindAwaitingReply(ctx, out.Number)
		if err != nil {
			return out, err
		}
		if len(candidates) == 0 {
			break
		}

		newest := candidates[0]
		ok, err := c.records.AttachReply(ctx, newest.ID, body)
		if err != nil {
			return out, err
		}
		if ok {
			id := newest.ID
			out.MatchedRecordID = &id
			c.log.Info().Int64("record_id", id).Str("number", out.Number).Msg("reply correlated")
			return out, nil
		}
		// Lost the race; re-select once against whatever is still open.
	}

	c.log.Info().Str("number", out.Number).Msg("inbound reply unmatched")
	return out, nil
}
