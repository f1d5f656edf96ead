// Copyright 2026 The Scire Authors
// SPDX-License-Identifier: Apache-2.0

package logging

import (
	"context"
	"log/slog"
	"strings"
)

// Redacted replaces a masked secret.
const Redacted = "[REDACTED]"

// MaskingHandler rewrites records so that no registered secret reaches
// the wrapped handler. Empty secrets are ignored.
type MaskingHandler struct {
	inner    slog.Handler
	replacer *strings.Replacer
}

// NewMaskingHandler wraps inner. With no non-empty secrets the records
// pass through unchanged.
func NewMaskingHandler(inner slog.Handler, secrets ...string) *MaskingHandler {
	var pairs []string
	for _, secret := range secrets {
		if secret != "" {
			pairs = append(pairs, secret, Redacted)
		}
	}
	handler := &MaskingHandler{inner: inner}
	if len(pairs) > 0 {
		handler.replacer = strings.NewReplacer(pairs...)
	}
	return handler
}

func (h *MaskingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *MaskingHandler) Handle(ctx context.Context, record slog.Record) error {
	if h.replacer == nil {
		return h.inner.Handle(ctx, record)
	}
	masked := slog.NewRecord(record.Time, record.Level, h.replacer.Replace(record.Message), record.PC)
	record.Attrs(func(attr slog.Attr) bool {
		masked.AddAttrs(h.mask(attr))
		return true
	})
	return h.inner.Handle(ctx, masked)
}

func (h *MaskingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if h.replacer == nil {
		return &MaskingHandler{inner: h.inner.WithAttrs(attrs)}
	}
	masked := make([]slog.Attr, len(attrs))
	for i, attr := range attrs {
		masked[i] = h.mask(attr)
	}
	return &MaskingHandler{inner: h.inner.WithAttrs(masked), replacer: h.replacer}
}

func (h *MaskingHandler) WithGroup(name string) slog.Handler {
	return &MaskingHandler{inner: h.inner.WithGroup(name), replacer: h.replacer}
}

func (h *MaskingHandler) mask(attr slog.Attr) slog.Attr {
	value := attr.Value.Resolve()
	switch value.Kind() {
	case slog.KindString:
		return slog.String(attr.Key, h.replacer.Replace(value.String()))
	case slog.KindGroup:
		group := value.Group()
		masked := make([]any, len(group))
		for i, member := range group {
			masked[i] = h.mask(member)
		}
		return slog.Group(attr.Key, masked...)
	case slog.KindAny:
		if err, ok := value.Any().(error); ok {
			return slog.String(attr.Key, h.replacer.Replace(err.Error()))
		}
	}
	return slog.Attr{Key: attr.Key, Value: value}
}
