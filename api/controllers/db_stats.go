package controllers

import (
	"net/http"

	"github.com/angelmondragon/boq-builder/api/responses"
	"github.com/angelmondragon/boq-builder/pkg/db"
)

// StatsSource exposes query statistics collected by the storage layer.
type StatsSource interface {
	Stats() db.Stats
	ResetStats()
}

// DBStats reports per-operation query counts and timings.
func DBStats(src StatsSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, src.Stats())
	}
}

// ResetDBStats clears the collected statistics.
func ResetDBStats(src StatsSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		src.ResetStats()
		responses.WriteNoContent(w)
	}
}
