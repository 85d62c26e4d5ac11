package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pawmart/pawmart/internal/auth"
	"github.com/pawmart/pawmart/internal/gate"
	"github.com/pawmart/pawmart/internal/metrics"
	"github.com/pawmart/pawmart/internal/store"
)

// petsHandler provides REST handlers for the pet registry.
type petsHandler struct {
	pets           store.PetStoreIface
	gate           *gate.Gate
	allowAnonymous bool
}

// List returns all registered pets.
// GET /api/pets
//
// @Summary      List pets
// @Description  Returns all registered pets, newest first.
// @Tags         Pets
// @Produce      json
// @Success      200  {object}  PetListResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /pets [get]
func (h *petsHandler) List(w http.ResponseWriter, r *http.Request) {
	pets, err := h.pets.ListAll(r.Context())
	if err != nil {
		log.Printf("api: list pets: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}

	resp := PetListResponse{Pets: make([]PetResponse, 0, len(pets))}
	for _, p := range pets {
		resp.Pets = append(resp.Pets, toPetResponse(p))
	}
	writeJSON(w, http.StatusOK, resp)
}

// Get returns a single pet by ID.
// GET /api/pets/{id}
//
// @Summary      Get a pet
// @Tags         Pets
// @Produce      json
// @Param        id   path      string  true  "Pet ID"
// @Success      200  {object}  PetResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /pets/{id} [get]
func (h *petsHandler) Get(w http.ResponseWriter, r *http.Request) {
	pet, err := h.pets.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "no such pet", "NOT_FOUND")
			return
		}
		log.Printf("api: get pet: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}
	writeJSON(w, http.StatusOK, toPetResponse(pet))
}

// Create registers a new pet. When a session is present the caller becomes the
// owner; without one, creation is accepted only if the deployment allows
// anonymous pets, and the record is then permanently ownerless (and immutable).
// POST /api/pets
//
// @Summary      Register a pet
// @Tags         Pets
// @Accept       json
// @Produce      json
// @Param        body  body      CreatePetRequest  true  "Pet to register"
// @Success      201   {object}  PetResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      500   {object}  ErrorResponse
// @Router       /pets [post]
func (h *petsHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil && !h.allowAnonymous {
		writeError(w, http.StatusUnauthorized, "authentication required", "AUTH_REQUIRED")
		return
	}

	var req CreatePetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
		return
	}

	name := store.SanitizeText(req.Name)
	if err := store.ValidatePet(name); err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "BAD_REQUEST")
		return
	}

	var ownerID *string
	if user != nil {
		ownerID = &user.ID
	}

	pet, err := h.pets.Create(r.Context(), name, store.SanitizeText(req.Breed), store.SanitizeText(req.Bio), req.Photos, ownerID)
	if err != nil {
		log.Printf("api: create pet: %v", err)
		metrics.MutationsTotal.WithLabelValues("pets", "error").Inc()
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}

	metrics.MutationsTotal.WithLabelValues("pets", "created").Inc()
	writeJSON(w, http.StatusCreated, toPetResponse(pet))
}

// Update modifies a pet's profile. Owner only; the id and owner fields can
// never be changed regardless of what the payload carries. Omitting photos
// keeps the current set; supplying a list replaces it, and the dropped
// locators are then removed from the asset store best-effort.
// PUT /api/pets/{id}
//
// @Summary      Update a pet
// @Tags         Pets
// @Accept       json
// @Produce      json
// @Param        id    path      string            true  "Pet ID"
// @Param        body  body      UpdatePetRequest  true  "Fields to update"
// @Success      200   {object}  PetResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Failure      500   {object}  ErrorResponse
// @Router       /pets/{id} [put]
func (h *petsHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())

	owned, err := h.pets.GetWithOwner(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "no such pet", "NOT_FOUND")
			return
		}
		log.Printf("api: fetch pet for update: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}

	if err := h.gate.Authorize(owned, user); err != nil {
		metrics.MutationsTotal.WithLabelValues("pets", "denied").Inc()
		writeError(w, http.StatusForbidden, "not the owner", "FORBIDDEN")
		return
	}

	var req UpdatePetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
		return
	}

	name := store.SanitizeText(req.Name)
	if err := store.ValidatePet(name); err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "BAD_REQUEST")
		return
	}

	photos := owned.Photos
	if req.Photos != nil {
		photos = *req.Photos
	}

	pet, err := h.pets.Update(r.Context(), owned.ID, name, store.SanitizeText(req.Breed), store.SanitizeText(req.Bio), photos)
	if err != nil {
		log.Printf("api: update pet %s: %v", owned.ID, err)
		metrics.MutationsTotal.WithLabelValues("pets", "error").Inc()
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}

	h.gate.CleanupURLs(r.Context(), droppedURLs(owned.Photos, pet.Photos))

	metrics.MutationsTotal.WithLabelValues("pets", "updated").Inc()
	writeJSON(w, http.StatusOK, toPetResponse(pet))
}

// Delete removes a pet and then its stored photos. Owner only. Photo removal
// is best-effort: the response reflects the record deletion alone.
// DELETE /api/pets/{id}
//
// @Summary      Delete a pet
// @Tags         Pets
// @Produce      json
// @Param        id   path      string  true  "Pet ID"
// @Success      200  {object}  PetResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /pets/{id} [delete]
func (h *petsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())

	owned, err := h.pets.GetWithOwner(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "no such pet", "NOT_FOUND")
			return
		}
		log.Printf("api: fetch pet for delete: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}

	if err := h.gate.Authorize(owned, user); err != nil {
		metrics.MutationsTotal.WithLabelValues("pets", "denied").Inc()
		writeError(w, http.StatusForbidden, "not the owner", "FORBIDDEN")
		return
	}

	if err := h.pets.Delete(r.Context(), owned.ID); err != nil {
		log.Printf("api: delete pet %s: %v", owned.ID, err)
		metrics.MutationsTotal.WithLabelValues("pets", "error").Inc()
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}

	// Record is gone; photo cleanup cannot change the outcome now.
	h.gate.Cleanup(r.Context(), owned)

	metrics.MutationsTotal.WithLabelValues("pets", "deleted").Inc()
	writeJSON(w, http.StatusOK, toPetResponse(&owned.Pet))
}

// droppedURLs returns the locators present in old but not in updated.
func droppedURLs(old, updated []string) []string {
	kept := make(map[string]bool, len(updated))
	for _, u := range updated {
		kept[u] = true
	}
	var dropped []string
	for _, u := range old {
		if !kept[u] {
			dropped = append(dropped, u)
		}
	}
	return dropped
}

func toPetResponse(p *store.Pet) PetResponse {
	photos := p.Photos
	if photos == nil {
		photos = []string{}
	}
	return PetResponse{
		ID:        p.ID,
		Name:      p.Name,
		Breed:     p.Breed,
		Bio:       p.Bio,
		Photos:    photos,
		OwnerID:   p.OwnerID,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
