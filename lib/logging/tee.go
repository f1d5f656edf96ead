// Copyright 2026 The Scire Authors
// SPDX-License-Identifier: Apache-2.0

package logging

import (
	"context"
	"errors"
	"log/slog"
)

// TeeHandler sends each record to every handler enabled for its
// level.
type TeeHandler struct {
	handlers []slog.Handler
}

// Tee combines handlers.
func Tee(handlers ...slog.Handler) *TeeHandler {
	return &TeeHandler{handlers: handlers}
}

func (t *TeeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range t.handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (t *TeeHandler) Handle(ctx context.Context, record slog.Record) error {
	var errs []error
	for _, handler := range t.handlers {
		if handler.Enabled(ctx, record.Level) {
			errs = append(errs, handler.Handle(ctx, record.Clone()))
		}
	}
	return errors.Join(errs...)
}

func (t *TeeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	derived := make([]slog.Handler, len(t.handlers))
	for index, handler := range t.handlers {
		derived[index] = handler.WithAttrs(attrs)
	}
	return &TeeHandler{handlers: derived}
}

func (t *TeeHandler) WithGroup(name string) slog.Handler {
	derived := make([]slog.Handler, len(t.handlers))
	for index, handler := range t.handlers {
		derived[index] = handler.WithGroup(name)
	}
	return &TeeHandler{handlers: derived}
}
