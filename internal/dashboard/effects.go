package dashboard

import (
	"context"

	"marketadmin/internal/model"
)

// ==================== Effects & events ====================

// Effect a gateway call prepared by the controller; safe to run on any goroutine
type Effect func(ctx context.Context) Event

// Event the outcome of an Effect, applied by Controller.Handle on the owning goroutine
type Event interface {
	isEvent()
}

// LoadedEvent a collection fetch finished
type LoadedEvent struct {
	Kind       model.EntityKind
	Generation uint64
	Records    []model.Record
	Err        error
}

// SubmittedEvent a create or update finished
type SubmittedEvent struct {
	Kind   model.EntityKind
	Ticket uint64
	Create bool
	Err    error
}

// DeletedEvent a confirmed delete finished
type DeletedEvent struct {
	Kind model.EntityKind
	ID   int64
	Err  error
}

// ApprovedEvent an approval finished
type ApprovedEvent struct {
	ID  int64
	Err error
}

func (LoadedEvent) isEvent()    {}
func (SubmittedEvent) isEvent() {}
func (DeletedEvent) isEvent()   {}
func (ApprovedEvent) isEvent()  {}

// Run drives effects to completion on the calling goroutine, including every follow-up they cause
func Run(ctx context.Context, c *Controller, effects ...Effect) {
	queue := append([]Effect(nil), effects...)
	for len(queue) > 0 {
		eff := queue[0]
		queue = queue[1:]
		if eff == nil {
			continue
		}
		queue = append(queue, c.Handle(eff(ctx))...)
	}
}
