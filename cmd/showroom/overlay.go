package main

import (
	"log/slog"

	"github.com/Carmen-Shannon/oxy-showroom/engine/game_object"
	"github.com/Carmen-Shannon/oxy-showroom/engine/selection"
)

// logOverlay stands in for a product detail panel by logging what it would show.
type logOverlay struct {
	logger *slog.Logger
	open   map[selection.Key]string
}

func (o *logOverlay) Show(key selection.Key, obj game_object.GameObject) {
	if o.open == nil {
		o.open = make(map[selection.Key]string)
	}
	product, part := describe(obj)
	o.open[key] = product
	o.logger.Info("overlay open", "product", product, "part", part, "copy", key.Index, "panels", len(o.open))
}

func (o *logOverlay) Hide(key selection.Key, _ game_object.GameObject) {
	product, ok := o.open[key]
	if !ok {
		return
	}
	delete(o.open, key)
	o.logger.Info("overlay closed", "product", product, "copy", key.Index, "panels", len(o.open))
}

func describe(obj game_object.GameObject) (product, part string) {
	if obj == nil {
		return "unknown", "unknown"
	}
	part = obj.Name()
	product = part
	if m := obj.Model(); m != nil {
		product = m.Name()
	}
	return product, part
}
