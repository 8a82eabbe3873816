package pipeline

import (
	"context"
	"errors"
	"io/fs"

	errs "github.com/matzehuels/steamvent/pkg/errors"
	netio "github.com/matzehuels/steamvent/pkg/io"
	"github.com/matzehuels/steamvent/pkg/network"
	"github.com/matzehuels/steamvent/pkg/search"
)

// Classify attaches an error code to errors from the loading and search
// packages so that the CLI and API can report them uniformly. Errors that
// already carry a code, context errors and nil are returned unchanged.
func Classify(err error) error {
	if err == nil || errs.GetCode(err) != "" {
		return err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	switch {
	case errors.Is(err, fs.ErrNotExist):
		return errs.Wrap(errs.ErrCodeFileNotFound, err, "file not found")
	case errors.Is(err, netio.ErrSyntax):
		return errs.Wrap(errs.ErrCodeInvalidFormat, err, "malformed input")
	case errors.Is(err, network.ErrInvalidValveID),
		errors.Is(err, network.ErrDuplicateValve),
		errors.Is(err, network.ErrNegativeFlowRate),
		errors.Is(err, network.ErrUnknownTunnel):
		return errs.Wrap(errs.ErrCodeInvalidNetwork, err, "invalid network")
	case errors.Is(err, search.ErrUnknownOrigin):
		return errs.Wrap(errs.ErrCodeUnknownValve, err, "unknown origin")
	case errors.Is(err, search.ErrInvalidBudget):
		return errs.Wrap(errs.ErrCodeInvalidBudget, err, "invalid budget")
	case errors.Is(err, search.ErrTooManyValves):
		return errs.Wrap(errs.ErrCodeTooLarge, err, "network too large")
	default:
		return errs.Wrap(errs.ErrCodeInternal, err, "internal error")
	}
}
