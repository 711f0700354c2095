package integration

import (
	"context"
	"errors"
)

var (
	ErrUnknownTarget = errors.New("unknown sync target")
	ErrNotConfigured = errors.New("integration is not configured")
)

// Sync targets accepted by the sync endpoints and the assistant
const (
	TargetAll      = "all"
	TargetOutlook  = "outlook"
	TargetOneDrive = "onedrive"
	TargetGmail    = "gmail"
	TargetTimeTree = "timetree"
)

// Source is an external service whose data can be synchronized.
// Sync returns a one-line human readable summary; when it also returns
// an error the summary is the failure line shown to the user.
type Source interface {
	Name() string
	Configured() bool
	Sync(ctx context.Context) (string, error)
}
