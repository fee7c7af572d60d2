// Package laceworktest runs an in-memory stand-in for the Lacework v2 api
// covering access tokens, AlertChannels, AlertProfiles and CloudAccounts.
package laceworktest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const Token = "_test_bearer_token"

// Request is a request as the server received it.
type Request struct {
	Method string
	Path   string
	Header http.Header
	Body   map[string]interface{}
}

type collectionSpec struct {
	idField       string
	clientIds     bool            // id taken from the create body
	updateMethods map[string]bool // verbs accepted on /{collection}/{id}
	patchDeny     []string        // fields rejected in a PATCH body
	objectData    bool            // data must be an object
	serverFields  func() map[string]interface{}
}

var collectionSpecs = map[string]collectionSpec{
	"AlertChannels": {
		idField:       "intgGuid",
		updateMethods: map[string]bool{http.MethodPut: true},
		serverFields:  integrationFields,
	},
	"AlertProfiles": {
		idField:       "alertProfileId",
		clientIds:     true,
		updateMethods: map[string]bool{http.MethodPatch: true},
		patchDeny:     []string{"alertProfileId", "extends"},
		serverFields:  profileFields,
	},
	"CloudAccounts": {
		idField:       "intgGuid",
		updateMethods: map[string]bool{http.MethodPatch: true, http.MethodPut: true},
		objectData:    true,
		serverFields:  integrationFields,
	},
}

func integrationFields() map[string]interface{} {
	return map[string]interface{}{
		"createdOrUpdatedBy":   "test@lacework.net",
		"createdOrUpdatedTime": time.Now().UTC().Format(time.RFC3339),
		"isOrg":                float64(0),
		"props":                map[string]interface{}{"createdBy": "test@lacework.net"},
		"state":                map[string]interface{}{"ok": true},
	}
}

func profileFields() map[string]interface{} {
	return map[string]interface{}{
		"fields":          []interface{}{map[string]interface{}{"name": "_OCCURRENCE"}},
		"descriptionKeys": []interface{}{map[string]interface{}{"name": "_OCCURRENCE", "spec": "{{_OCCURRENCE}}"}},
	}
}

type Server struct {
	*httptest.Server

	// OmitEmptyData makes an empty list respond with {} instead of {"data": []}.
	OmitEmptyData bool

	mu       sync.Mutex
	store    map[string][]map[string]interface{}
	requests []Request
}

func NewServer() *Server {
	s := &Server{
		store: make(map[string][]map[string]interface{}),
	}

	r := chi.NewRouter()
	r.Use(s.record)
	r.Post("/api/v2/access/tokens", s.handleToken)
	r.Route("/api/v2/{collection}", func(r chi.Router) {
		r.Use(s.authorize)
		r.Get("/", s.handleList)
		r.Post("/", s.handleCreate)
		r.Get("/{id}", s.handleGet)
		r.Put("/{id}", s.handleUpdate)
		r.Patch("/{id}", s.handleUpdate)
		r.Delete("/{id}", s.handleDelete)
	})

	s.Server = httptest.NewServer(r)
	return s
}

// Requests returns every request received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// ResourceRequests returns the requests other than token exchanges.
func (s *Server) ResourceRequests() []Request {
	var out []Request
	for _, r := range s.Requests() {
		if strings.HasSuffix(r.Path, "/access/tokens") {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Seed stores an entity as if it had been created.
func (s *Server) Seed(collection string, entity map[string]interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store[collection] = append(s.store[collection], copyMap(entity))
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewReader(raw))
		var body map[string]interface{}
		if len(raw) > 0 {
			_ = json.Unmarshal(raw, &body)
		}
		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Method: r.Method,
			Path:   r.URL.Path,
			Header: r.Header.Clone(),
			Body:   body,
		})
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) authorize(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+Token {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		if _, ok := collectionSpecs[chi.URLParam(r, "collection")]; !ok {
			writeError(w, http.StatusNotFound, "Not Found")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	var req struct {
		KeyId string `json:"keyId"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)
	if r.Header.Get("X-LW-UAKS") == "" || req.KeyId == "" {
		writeError(w, http.StatusUnauthorized, "Invalid api key")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"token":     Token,
		"expiresAt": time.Now().Add(time.Hour).UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	collection := chi.URLParam(r, "collection")
	s.mu.Lock()
	items := make([]interface{}, 0, len(s.store[collection]))
	for _, entity := range s.store[collection] {
		items = append(items, copyMap(entity))
	}
	s.mu.Unlock()

	if len(items) == 0 && s.OmitEmptyData {
		writeJSON(w, http.StatusOK, map[string]interface{}{})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": items})
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	collection := chi.URLParam(r, "collection")
	spec := collectionSpecs[collection]

	var body map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if msg, ok := validateData(spec, body); !ok {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if spec.clientIds {
		id, _ := body[spec.idField].(string)
		if id == "" {
			writeError(w, http.StatusBadRequest, spec.idField+" is required")
			return
		}
		if _, found := s.find(collection, id); found {
			writeError(w, http.StatusConflict, "Conflict: "+id+" already exists")
			return
		}
	} else {
		body[spec.idField] = strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	}

	entity := spec.serverFields()
	for key, value := range body {
		entity[key] = value
	}
	s.store[collection] = append(s.store[collection], entity)
	writeJSON(w, http.StatusCreated, map[string]interface{}{"data": copyMap(entity)})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	collection, id := chi.URLParam(r, "collection"), chi.URLParam(r, "id")
	s.mu.Lock()
	defer s.mu.Unlock()

	i, found := s.find(collection, id)
	if !found {
		writeError(w, http.StatusNotFound, "Not Found: "+id)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": copyMap(s.store[collection][i])})
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	collection, id := chi.URLParam(r, "collection"), chi.URLParam(r, "id")
	spec := collectionSpecs[collection]

	if !spec.updateMethods[r.Method] {
		writeError(w, http.StatusMethodNotAllowed, r.Method+" not supported on "+collection)
		return
	}

	var body map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if r.Method == http.MethodPatch {
		for _, field := range spec.patchDeny {
			if _, present := body[field]; present {
				writeError(w, http.StatusBadRequest, field+" cannot be patched")
				return
			}
		}
	}
	if msg, ok := validateData(spec, body); !ok {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i, found := s.find(collection, id)
	if !found {
		writeError(w, http.StatusNotFound, "Not Found: "+id)
		return
	}

	current := s.store[collection][i]
	var updated map[string]interface{}
	if r.Method == http.MethodPut {
		updated = spec.serverFields()
		for key, value := range body {
			updated[key] = value
		}
	} else {
		updated = copyMap(current)
		for key, value := range body {
			updated[key] = value
		}
	}
	updated[spec.idField] = current[spec.idField]
	if extends, ok := current["extends"]; ok {
		updated["extends"] = extends
	}
	s.store[collection][i] = updated
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": copyMap(updated)})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	collection, id := chi.URLParam(r, "collection"), chi.URLParam(r, "id")
	s.mu.Lock()
	defer s.mu.Unlock()

	i, found := s.find(collection, id)
	if !found {
		writeError(w, http.StatusNotFound, "Not Found: "+id)
		return
	}
	items := s.store[collection]
	s.store[collection] = append(items[:i:i], items[i+1:]...)
	w.WriteHeader(http.StatusNoContent)
}

// find must be called with s.mu held.
func (s *Server) find(collection, id string) (int, bool) {
	field := collectionSpecs[collection].idField
	for i, entity := range s.store[collection] {
		if entity[field] == id {
			return i, true
		}
	}
	return -1, false
}

func validateData(spec collectionSpec, body map[string]interface{}) (string, bool) {
	if !spec.objectData {
		return "", true
	}
	if data, present := body["data"]; present {
		if _, ok := data.(map[string]interface{}); !ok {
			return "data must be an object", false
		}
	}
	return "", true
}

func copyMap(m map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for key, value := range m {
		out[key] = value
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{"message": message})
}
