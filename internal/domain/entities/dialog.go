package entities

import "time"

// DialogLifetime is how long a chooser message waits for a reaction.
const DialogLifetime = 60 * time.Second

type DialogPurpose int

const (
	PurposeSwitchEvent DialogPurpose = iota + 1
	PurposePosition
)

// Dialog is a short-lived chooser message expecting exactly one reaction from its owner.
type Dialog struct {
	Message  MessageRef
	OwnerID  string
	Purpose  DialogPurpose
	Location *Location // PurposePosition only
	Expiry   time.Time

	stop func() bool
}

func NewSwitchDialog(msg MessageRef, ownerID string, now time.Time) *Dialog {
	return &Dialog{Message: msg, OwnerID: ownerID, Purpose: PurposeSwitchEvent, Expiry: now.Add(DialogLifetime)}
}

func NewPositionDialog(msg MessageRef, ownerID string, loc *Location, now time.Time) *Dialog {
	return &Dialog{Message: msg, OwnerID: ownerID, Purpose: PurposePosition, Location: loc, Expiry: now.Add(DialogLifetime)}
}

// OnCancel registers the function stopping the expiry timer.
func (d *Dialog) OnCancel(stop func() bool) {
	d.stop = stop
}

// Cancel stops the expiry timer. Calling it more than once is a no-op.
func (d *Dialog) Cancel() {
	if d.stop == nil {
		return
	}
	d.stop()
	d.stop = nil
}
