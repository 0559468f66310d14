package dashboard

import (
	"errors"

	"marketadmin/internal/model"
)

// CanApprove approve is offered only with the capability and only before the product is approved
func CanApprove(caps Capabilities, p model.Product) bool {
	return caps.Approve && p.Status.Valid() && !p.Status.Terminal()
}

// Approval tracks approvals on the wire, one product per call
type Approval struct {
	inFlight map[int64]bool
}

// Begin refuses disabled approvals and a second approval of the same product while one is pending
func (a *Approval) Begin(caps Capabilities, p model.Product) error {
	if !CanApprove(caps, p) {
		return ErrApproveNotAllowed
	}
	if a.inFlight[p.ID] {
		return ErrApprovalInFlight
	}
	if a.inFlight == nil {
		a.inFlight = map[int64]bool{}
	}
	a.inFlight[p.ID] = true
	return nil
}

// Complete the call for id resolved, whatever the outcome
func (a *Approval) Complete(id int64) {
	delete(a.inFlight, id)
}

// Pending an approval for id is on the wire
func (a *Approval) Pending(id int64) bool {
	return a.inFlight[id]
}

func (a *Approval) reset() {
	a.inFlight = nil
}

var (
	ErrApproveNotAllowed = errors.New("approve is not available for this product")
	ErrApprovalInFlight  = errors.New("approval already in progress")
)
