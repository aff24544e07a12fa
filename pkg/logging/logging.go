package logging

import (
	"context"

	"go.uber.org/zap"
)

type Logger interface {
	Log(ctx context.Context, msg string, keyvals ...interface{})
}

type logger struct {
	zap *zap.SugaredLogger
}

// NewLogger returns an error on hardware error.
func NewLogger() (Logger, error) {
	l, err := zap.NewProduction(zap.AddCaller(), zap.AddCallerSkip(1))
	if err != nil {
		return nil, err
	}

	return logger{
		zap: l.Sugar(),
	}, nil
}

func (l logger) Log(_ context.Context, msg string, keyvals ...interface{}) {
	l.zap.Infow(msg, keyvals...)
}
