// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers implements the JSON API: site generation and the image
// proxy, the user's sites, the admin review queue, and authentication.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"stackify/internal/middleware"
)

// maxBodyBytes caps JSON request bodies. Saved sites carry full HTML blocks.
const maxBodyBytes = 4 << 20

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

// decodeJSON reads a size-limited JSON body into dst, rejecting trailing data.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("decode request body: unexpected trailing data")
	}
	return nil
}

// idParam parses the {id} URL parameter. On failure it writes a 400 and
// returns false.
func idParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid site id")
		return uuid.Nil, false
	}
	return id, true
}

// currentUserID returns the authenticated user's id, or uuid.Nil.
func currentUserID(r *http.Request) uuid.UUID {
	if claims := middleware.ClaimsFromCtx(r.Context()); claims != nil {
		return claims.UserID()
	}
	return uuid.Nil
}
