package wrap

import (
	"context"
	"errors"
)

// Error attaches the LogCtx carried by ctx to err so the logging site can
// recover it with ErrorCtx. An error that already carries a LogCtx is
// returned as-is: the innermost wrap saw the most enriched context.
func Error(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}

	var e *errorWithLogCtx
	if errors.As(err, &e) {
		return err
	}

	c := LogCtx{}
	if x, ok := ctx.Value(LogCtxKey).(LogCtx); ok {
		c = x
	}
	return &errorWithLogCtx{
		err:    err,
		logCtx: c,
	}
}
