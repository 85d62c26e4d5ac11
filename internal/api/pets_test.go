package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/pawmart/pawmart/internal/api"
	"github.com/pawmart/pawmart/internal/store"
)

func TestPetsListAndGetArePublic(t *testing.T) {
	env := newTestEnv(t, false)
	owner := seedUser(t, env, "google", "sub-1")
	pet, err := env.Pets.Create(context.Background(), "Rex", "Lab", "", nil, &owner.ID)
	if err != nil {
		t.Fatalf("seed pet: %v", err)
	}

	var list api.PetListResponse
	resp := doJSON(t, env, http.MethodGet, "/api/pets", nil, &list)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list status = %d", resp.StatusCode)
	}
	if len(list.Pets) != 1 || list.Pets[0].Name != "Rex" {
		t.Errorf("list = %+v", list)
	}

	var got api.PetResponse
	resp = doJSON(t, env, http.MethodGet, "/api/pets/"+pet.ID, nil, &got)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get status = %d", resp.StatusCode)
	}
	if got.ID != pet.ID {
		t.Errorf("got pet %q, want %q", got.ID, pet.ID)
	}

	resp = doJSON(t, env, http.MethodGet, "/api/pets/missing", nil, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("missing pet status = %d, want 404", resp.StatusCode)
	}
}

func TestPetCreateRequiresAuthByDefault(t *testing.T) {
	env := newTestEnv(t, false)

	var errResp api.ErrorResponse
	resp := doJSON(t, env, http.MethodPost, "/api/pets", api.CreatePetRequest{Name: "Rex"}, &errResp)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}
	if errResp.Code != "AUTH_REQUIRED" {
		t.Errorf("code = %q, want AUTH_REQUIRED", errResp.Code)
	}
}

func TestPetCreateAnonymousWhenAllowed(t *testing.T) {
	env := newTestEnv(t, true)

	var created api.PetResponse
	resp := doJSON(t, env, http.MethodPost, "/api/pets", api.CreatePetRequest{Name: "Stray"}, &created)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}
	if created.OwnerID != nil {
		t.Errorf("owner_id = %v, want nil for anonymous creation", *created.OwnerID)
	}

	// Ownerless records are frozen: even a logged-in user cannot mutate them.
	user := seedUser(t, env, "google", "sub-1")
	login(t, env, user)
	resp = doJSON(t, env, http.MethodPut, "/api/pets/"+created.ID, api.UpdatePetRequest{Name: "Claimed"}, nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("update of ownerless pet status = %d, want 403", resp.StatusCode)
	}
	resp = doJSON(t, env, http.MethodDelete, "/api/pets/"+created.ID, nil, nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("delete of ownerless pet status = %d, want 403", resp.StatusCode)
	}
}

func TestPetCreateAuthenticated(t *testing.T) {
	env := newTestEnv(t, false)
	user := seedUser(t, env, "google", "sub-1")
	login(t, env, user)

	var created api.PetResponse
	resp := doJSON(t, env, http.MethodPost, "/api/pets", api.CreatePetRequest{
		Name:   "  <b>Rex</b>  ",
		Breed:  "Labrador",
		Photos: []string{"/uploads/rex.jpg"},
	}, &created)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}
	if created.Name != "Rex" {
		t.Errorf("name = %q, want sanitized Rex", created.Name)
	}
	if created.OwnerID == nil || *created.OwnerID != user.ID {
		t.Errorf("owner_id = %v, want caller's ID", created.OwnerID)
	}

	resp = doJSON(t, env, http.MethodPost, "/api/pets", api.CreatePetRequest{Name: "<i></i>"}, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("empty-after-sanitize name status = %d, want 400", resp.StatusCode)
	}
}

func TestPetUpdateIgnoresInjectedIdentityFields(t *testing.T) {
	env := newTestEnv(t, false)
	owner := seedUser(t, env, "google", "sub-1")
	other := seedUser(t, env, "google", "sub-2")
	pet, err := env.Pets.Create(context.Background(), "Rex", "", "", nil, &owner.ID)
	if err != nil {
		t.Fatalf("seed pet: %v", err)
	}
	login(t, env, owner)

	// Raw payload smuggles id and owner_id; both must be dropped.
	body := strings.NewReader(`{"name":"Rexford","id":"evil-id","owner_id":"` + other.ID + `"}`)
	req, err := http.NewRequest(http.MethodPut, env.Server.URL+"/api/pets/"+pet.ID, body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := env.Client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var updated api.PetResponse
	if err := json.NewDecoder(resp.Body).Decode(&updated); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if updated.ID != pet.ID {
		t.Errorf("id changed to %q", updated.ID)
	}
	if updated.OwnerID == nil || *updated.OwnerID != owner.ID {
		t.Errorf("owner_id = %v, want unchanged %q", updated.OwnerID, owner.ID)
	}
	if updated.Name != "Rexford" {
		t.Errorf("name = %q, want Rexford", updated.Name)
	}
}

func TestPetUpdateAuthorization(t *testing.T) {
	env := newTestEnv(t, false)
	owner := seedUser(t, env, "google", "sub-1")
	stranger := seedUser(t, env, "google", "sub-2")
	pet, err := env.Pets.Create(context.Background(), "Rex", "", "", nil, &owner.ID)
	if err != nil {
		t.Fatalf("seed pet: %v", err)
	}

	// No session: 401 from middleware, before any ownership logic.
	resp := doJSON(t, env, http.MethodPut, "/api/pets/"+pet.ID, api.UpdatePetRequest{Name: "X"}, nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("unauthenticated status = %d, want 401", resp.StatusCode)
	}

	// Wrong user: 403.
	login(t, env, stranger)
	var errResp api.ErrorResponse
	resp = doJSON(t, env, http.MethodPut, "/api/pets/"+pet.ID, api.UpdatePetRequest{Name: "X"}, &errResp)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("stranger status = %d, want 403", resp.StatusCode)
	}
	if errResp.Code != "FORBIDDEN" {
		t.Errorf("code = %q, want FORBIDDEN", errResp.Code)
	}

	// Denied update must not have touched the record.
	got, err := env.Pets.GetByID(context.Background(), pet.ID)
	if err != nil {
		t.Fatalf("reload pet: %v", err)
	}
	if got.Name != "Rex" {
		t.Errorf("name = %q after denied update, want Rex", got.Name)
	}

	// Owner: 200.
	logout(t, env)
	login(t, env, owner)
	resp = doJSON(t, env, http.MethodPut, "/api/pets/"+pet.ID, api.UpdatePetRequest{Name: "Rexford"}, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("owner status = %d, want 200", resp.StatusCode)
	}

	// Missing record: 404, not 403.
	resp = doJSON(t, env, http.MethodPut, "/api/pets/missing", api.UpdatePetRequest{Name: "X"}, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("missing status = %d, want 404", resp.StatusCode)
	}
}

func TestPetUpdatePhotoFieldSemantics(t *testing.T) {
	env := newTestEnv(t, false)
	owner := seedUser(t, env, "google", "sub-1")
	pet, err := env.Pets.Create(context.Background(), "Rex", "", "",
		[]string{"/uploads/a.jpg", "/uploads/b.jpg"}, &owner.ID)
	if err != nil {
		t.Fatalf("seed pet: %v", err)
	}
	login(t, env, owner)

	// Omitted photos field: the stored set survives untouched.
	var updated api.PetResponse
	resp := doJSON(t, env, http.MethodPut, "/api/pets/"+pet.ID, api.UpdatePetRequest{Name: "Rexford"}, &updated)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("omit-photos status = %d, want 200", resp.StatusCode)
	}
	if len(updated.Photos) != 2 {
		t.Fatalf("photos = %v, want original pair kept", updated.Photos)
	}
	if len(env.Assets.deleted) != 0 {
		t.Errorf("cleaned %d assets on a photo-less update, want 0", len(env.Assets.deleted))
	}

	// Replacement list: the set is swapped and the dropped locator is removed
	// from the asset store.
	resp = doJSON(t, env, http.MethodPut, "/api/pets/"+pet.ID, api.UpdatePetRequest{
		Name:   "Rexford",
		Photos: &[]string{"/uploads/a.jpg", "/uploads/c.jpg"},
	}, &updated)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("replace-photos status = %d, want 200", resp.StatusCode)
	}
	if len(updated.Photos) != 2 {
		t.Fatalf("photos = %v, want replacement pair", updated.Photos)
	}
	if len(env.Assets.deleted) != 1 || env.Assets.deleted[0] != "/uploads/b.jpg" {
		t.Errorf("cleaned = %v, want just the dropped locator", env.Assets.deleted)
	}

	// Explicit empty list clears the set and removes everything it dropped.
	resp = doJSON(t, env, http.MethodPut, "/api/pets/"+pet.ID, api.UpdatePetRequest{
		Name:   "Rexford",
		Photos: &[]string{},
	}, &updated)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("clear-photos status = %d, want 200", resp.StatusCode)
	}
	if len(updated.Photos) != 0 {
		t.Fatalf("photos = %v, want empty set", updated.Photos)
	}
	if len(env.Assets.deleted) != 3 {
		t.Errorf("cleaned %d assets in total, want 3", len(env.Assets.deleted))
	}
}

func TestPetDeleteReturnsRecordAndCleansAssets(t *testing.T) {
	env := newTestEnv(t, false)
	owner := seedUser(t, env, "google", "sub-1")
	pet, err := env.Pets.Create(context.Background(), "Rex", "", "",
		[]string{"/uploads/a.jpg", "/uploads/b.jpg"}, &owner.ID)
	if err != nil {
		t.Fatalf("seed pet: %v", err)
	}
	login(t, env, owner)

	var deleted api.PetResponse
	resp := doJSON(t, env, http.MethodDelete, "/api/pets/"+pet.ID, nil, &deleted)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if deleted.ID != pet.ID || deleted.Name != "Rex" {
		t.Errorf("deleted = %+v, want the removed record", deleted)
	}

	if _, err := env.Pets.GetByID(context.Background(), pet.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("pet still present after delete: %v", err)
	}
	if len(env.Assets.deleted) != 2 {
		t.Errorf("cleaned %d assets, want 2", len(env.Assets.deleted))
	}
}

func TestPetDeleteSucceedsDespiteAssetFailures(t *testing.T) {
	env := newTestEnv(t, false)
	owner := seedUser(t, env, "google", "sub-1")
	pet, err := env.Pets.Create(context.Background(), "Rex", "", "",
		[]string{"/uploads/a.jpg", "/uploads/b.jpg"}, &owner.ID)
	if err != nil {
		t.Fatalf("seed pet: %v", err)
	}
	env.Assets.failOn["/uploads/a.jpg"] = true
	login(t, env, owner)

	resp := doJSON(t, env, http.MethodDelete, "/api/pets/"+pet.ID, nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200 even when asset cleanup fails", resp.StatusCode)
	}
	if _, err := env.Pets.GetByID(context.Background(), pet.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("pet still present after delete: %v", err)
	}
	if len(env.Assets.deleted) != 1 {
		t.Errorf("cleaned %d assets, want the non-failing one", len(env.Assets.deleted))
	}
}
