package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"high-hand-board/server/classify"
	"high-hand-board/server/session"
	"high-hand-board/server/store"
)

// Router wires the JSON API. The store may be nil; only /api/history
// depends on it.
func Router(cls *classify.Classifier, sess *session.Session, db *store.DB) http.Handler {
	r := chi.NewRouter()

	r.Get("/api/health", func(w http.ResponseWriter, req *http.Request) {
		out := map[string]any{"ok": true}
		if db != nil {
			out["db"] = db.Ping(req.Context()) == nil
		}
		writeJSON(w, out)
	})

	// Free-text classification without touching session state.
	r.Post("/api/classify", func(w http.ResponseWriter, req *http.Request) {
		var in struct {
			Text string `json:"text"`
		}
		if err := json.NewDecoder(req.Body).Decode(&in); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		hand, err := cls.Classify(req.Context(), in.Text)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadGateway)
			return
		}
		if hand == nil {
			writeJSON(w, map[string]any{"match": false})
			return
		}
		writeJSON(w, map[string]any{"match": true, "hand": hand})
	})

	r.Get("/api/session", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, sess.State())
	})
	r.Post("/api/session/start", func(w http.ResponseWriter, req *http.Request) {
		sess.Start()
		writeJSON(w, sess.State())
	})
	r.Post("/api/session/pause", func(w http.ResponseWriter, req *http.Request) {
		sess.Pause()
		writeJSON(w, sess.State())
	})
	r.Post("/api/session/reset", func(w http.ResponseWriter, req *http.Request) {
		sess.Reset()
		writeJSON(w, sess.State())
	})

	r.Route("/api/hands", func(r chi.Router) {
		// Ledger snapshot, newest first.
		r.Get("/", func(w http.ResponseWriter, req *http.Request) {
			entries := sess.Entries()
			for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
				entries[i], entries[j] = entries[j], entries[i]
			}
			writeJSON(w, map[string]any{"rows": entries})
		})

		// Record a payout: append to the ledger and close the chase.
		r.Post("/", func(w http.ResponseWriter, req *http.Request) {
			var in struct {
				Player      string  `json:"player"`
				Description string  `json:"description"`
				Amount      float64 `json:"amount"`
			}
			if err := json.NewDecoder(req.Body).Decode(&in); err != nil {
				http.Error(w, "bad json", http.StatusBadRequest)
				return
			}
			if in.Player == "" {
				http.Error(w, "missing player", http.StatusBadRequest)
				return
			}
			e := sess.Record(req.Context(), in.Player, in.Description, in.Amount)
			writeJSONStatus(w, http.StatusCreated, e)
		})

		// Candidate hand vs the current best.
		r.Post("/submit", func(w http.ResponseWriter, req *http.Request) {
			var in struct {
				Player string `json:"player"`
				Text   string `json:"text"`
			}
			if err := json.NewDecoder(req.Body).Decode(&in); err != nil {
				http.Error(w, "bad json", http.StatusBadRequest)
				return
			}
			hand, lead, err := sess.Submit(req.Context(), in.Player, in.Text)
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadGateway)
				return
			}
			writeJSON(w, map[string]any{"match": hand != nil, "newBest": lead, "hand": hand})
		})

		r.Delete("/{id}", func(w http.ResponseWriter, req *http.Request) {
			id, err := strconv.ParseInt(chi.URLParam(req, "id"), 10, 64)
			if err != nil {
				http.Error(w, "bad id", http.StatusBadRequest)
				return
			}
			if !sess.Delete(id) {
				http.Error(w, "no such entry", http.StatusNotFound)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		})
	})

	r.Get("/api/stats", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, sess.Stats())
	})

	// All-time rows from the audit trail.
	r.Get("/api/history", func(w http.ResponseWriter, req *http.Request) {
		if db == nil {
			http.Error(w, "history disabled (no database)", http.StatusServiceUnavailable)
			return
		}
		ctx := req.Context()
		limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))
		rows, err := db.ListHighHands(ctx, limit)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		hist, err := db.RankHistogram(ctx)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, map[string]any{"rows": rows, "byRank": hist})
	})

	// Live SSE stream of session events.
	r.Get("/api/live", func(w http.ResponseWriter, req *http.Request) {
		ctx := req.Context()
		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "stream unsupported", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")

		subID, ch := sess.Subscribe()
		defer sess.Unsubscribe(subID)

		// Push headers out before the first event so clients see the
		// stream open immediately.
		flusher.Flush()

		heartbeat := time.NewTicker(15 * time.Second)
		defer heartbeat.Stop()

		enc := json.NewEncoder(w)
		for {
			select {
			case <-ctx.Done():
				return
			case <-heartbeat.C:
				fmt.Fprint(w, ": ping\n\n")
				flusher.Flush()
			case ev, open := <-ch:
				if !open {
					return
				}
				fmt.Fprintf(w, "event: %s\ndata: ", ev.Type)
				_ = enc.Encode(ev)
				fmt.Fprint(w, "\n")
				flusher.Flush()
			}
		}
	})

	return r
}

func writeJSON(w http.ResponseWriter, v any) {
	writeJSONStatus(w, http.StatusOK, v)
}

func writeJSONStatus(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
