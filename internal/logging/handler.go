package logging

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

// ObjectKey is the attribute that selects the log object of a slog record.
const ObjectKey = "object"

type slogHandler struct {
	module *Module
	object string
	attrs  string
	group  string
}

// Handler returns a slog.Handler that prints through the module as object.
// A logger derived with With(ObjectKey, name) prints as that object instead.
// Objects that are not added to the module use the built-in object's mask.
func (m *Module) Handler(object string) slog.Handler {
	if object == "" {
		object = DefaultObject
	}
	return &slogHandler{module: m, object: object}
}

func (h *slogHandler) mask() Mask {
	if o := h.module.find(h.object); o != nil {
		return o.mask
	}
	return h.module.object.mask
}

func (h *slogHandler) Enabled(_ context.Context, l slog.Level) bool {
	h.module.mu.Lock()
	defer h.module.mu.Unlock()
	return h.mask().Has(levelOf(l))
}

func (h *slogHandler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder
	b.WriteString(r.Message)
	b.WriteString(h.attrs)
	r.Attrs(func(a slog.Attr) bool {
		appendAttr(&b, h.group, a)
		return true
	})

	h.module.mu.Lock()
	defer h.module.mu.Unlock()
	level := levelOf(r.Level)
	if !h.mask().Has(level) {
		return nil
	}
	h.module.emit(h.object, level, b.String())
	return nil
}

func (h *slogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	var b strings.Builder
	b.WriteString(h.attrs)
	for _, a := range attrs {
		if a.Key == ObjectKey && h.group == "" {
			clone.object = a.Value.String()
			continue
		}
		appendAttr(&b, h.group, a)
	}
	clone.attrs = b.String()
	return &clone
}

func (h *slogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.group = qualify(h.group, name)
	return &clone
}

func qualify(group, key string) string {
	if group == "" {
		return key
	}
	return group + "." + key
}

func appendAttr(b *strings.Builder, group string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	if a.Value.Kind() == slog.KindGroup {
		prefix := group
		if a.Key != "" {
			prefix = qualify(group, a.Key)
		}
		for _, ga := range a.Value.Group() {
			appendAttr(b, prefix, ga)
		}
		return
	}

	value := a.Value.String()
	if strings.ContainsAny(value, " \t\n\"=") || value == "" {
		value = strconv.Quote(value)
	}
	fmt.Fprintf(b, " %s=%s", qualify(group, a.Key), value)
}
