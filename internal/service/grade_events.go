package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

// GradeSubject is the NATS subject grade events are published on.
const GradeSubject = "gradehub.grades.recorded"

// GradeEvent is emitted whenever an assessment score lands in a marks
// document. Downstream consumers (notifications, analytics) subscribe to it.
type GradeEvent struct {
	Kind         string    `json:"kind"`
	AssessmentID uint      `json:"assessment_id"`
	EnrollmentNo string    `json:"enrollment_no"`
	Marks        float64   `json:"marks"`
	TotalMarks   float64   `json:"total_marks"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// GradePublisher pushes grade events to interested consumers.
type GradePublisher interface {
	PublishGradeRecorded(ctx context.Context, event GradeEvent) error
}

type natsGradePublisher struct {
	conn   *nats.Conn
	logger zerolog.Logger
}

// NewNATSGradePublisher builds a publisher backed by a NATS connection.
func NewNATSGradePublisher(conn *nats.Conn, logger zerolog.Logger) GradePublisher {
	return &natsGradePublisher{
		conn:   conn,
		logger: logger.With().Str("component", "grade_publisher").Logger(),
	}
}

func (p *natsGradePublisher) PublishGradeRecorded(_ context.Context, event GradeEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode grade event: %w", err)
	}

	if err := p.conn.Publish(GradeSubject, data); err != nil {
		return fmt.Errorf("failed to publish grade event: %w", err)
	}

	p.logger.Debug().
		Str("enrollment_no", event.EnrollmentNo).
		Str("kind", event.Kind).
		Msg("grade event published")

	return nil
}

type nopGradePublisher struct{}

// NewNopGradePublisher returns a publisher that drops every event. Used when
// no broker is configured.
func NewNopGradePublisher() GradePublisher {
	return nopGradePublisher{}
}

func (nopGradePublisher) PublishGradeRecorded(context.Context, GradeEvent) error {
	return nil
}
