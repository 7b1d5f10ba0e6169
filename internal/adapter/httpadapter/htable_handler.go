package httpadapter

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/AutoCookies/pomai-htable/shared/ds/htable"
)

// writeKeyError maps validation failures to 400 and everything else to 500.
func writeKeyError(w http.ResponseWriter, err error) {
	if errors.Is(err, htable.ErrInvalidKey) || errors.Is(err, htable.ErrEmptyKey) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	http.Error(w, err.Error(), http.StatusInternalServerError)
}

// handleHealth returns basic server status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	health := map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().Unix(),
		"items":     s.store.Len(),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(health)
}

// handlePut stores the request body against the key
func (s *Server) handlePut(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]
	if key == "" {
		http.Error(w, "missing key", http.StatusBadRequest)
		return
	}

	const maxSize = 10 * 1024 * 1024 // 10MB limit
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "read body failed or too large", http.StatusBadRequest)
		return
	}

	if err := s.store.Put(key, body); err != nil {
		writeKeyError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// handleGet retrieves a value
func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]
	if key == "" {
		http.Error(w, "missing key", http.StatusBadRequest)
		return
	}

	v, ok, err := s.store.Get(key)
	if err != nil {
		writeKeyError(w, err)
		return
	}
	if !ok {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Write(v)
}

// handleHead checks presence without returning the value
func (s *Server) handleHead(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]

	ok, err := s.store.Has(key)
	if err != nil {
		writeKeyError(w, err)
		return
	}
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// handleKeys lists every live key
func (s *Server) handleKeys(w http.ResponseWriter, r *http.Request) {
	keys := s.store.Keys()
	if keys == nil {
		keys = []string{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"count": len(keys),
		"keys":  keys,
	})
}

// handleStats reports per-shard occupancy
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.store.Stats())
}
