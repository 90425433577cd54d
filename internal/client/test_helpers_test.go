// ABOUTME: Shared test harness for client facade tests
// ABOUTME: Runs a fake backend over httptest with counters for request assertions

package client

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/openhealth/carebridge/internal/api"
	"github.com/openhealth/carebridge/internal/kvstore"
	"github.com/openhealth/carebridge/internal/session"
)

// fakeBackend is an in-memory stand-in for the REST backend.
type fakeBackend struct {
	mu          sync.Mutex
	patient     api.PatientRecord
	provider    api.ProviderOverview
	users       []api.UserRecord
	nextUserID  int64
	getPatients int
	putPatients int
	getUsers    int
	failCount   int // next N requests answer 500
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		patient: api.PatientRecord{
			Profile: api.Profile{ID: 1, Name: "Ada Park", Age: 34, Allergies: "pollen", Medications: "none"},
			Goals: []api.GoalEntry{
				{Date: "2024-01-01", Steps: 5000, Water: 1.5, Sleep: 6},
			},
			Dashboard: api.Dashboard{
				Goals:     api.DailyGoals{Steps: 5000, Water: 1.5, Sleep: 6},
				Reminders: []api.Reminder{{Title: "Checkup", Date: "2024-02-01"}},
				HealthTip: "Stretch in the morning.",
			},
		},
		provider: api.ProviderOverview{
			Patients: []api.ProviderPatient{{ID: 1, Name: "Ada Park", Status: "stable"}},
		},
		users: []api.UserRecord{
			{ID: 7, Name: "Ada Park", Email: "ada@example.com", Password: "hunter2", Role: session.RolePatient},
			{ID: 8, Name: "Dr. Osei", Email: "osei@example.com", Password: "scalpel", Role: session.RoleProvider},
		},
		nextUserID: 100,
	}
}

func (b *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/patient", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		if b.failCount > 0 {
			b.failCount--
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		switch r.Method {
		case http.MethodGet:
			b.getPatients++
			json.NewEncoder(w).Encode(b.patient)
		case http.MethodPut:
			b.putPatients++
			var record api.PatientRecord
			if err := json.NewDecoder(r.Body).Decode(&record); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			b.patient = record
			json.NewEncoder(w).Encode(b.patient)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})

	mux.HandleFunc("/provider", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		json.NewEncoder(w).Encode(b.provider)
	})

	mux.HandleFunc("/users", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		switch r.Method {
		case http.MethodGet:
			b.getUsers++
			email := r.URL.Query().Get("email")
			password, hasPassword := r.URL.Query()["password"]
			matches := []api.UserRecord{}
			for _, u := range b.users {
				if u.Email != email {
					continue
				}
				if hasPassword && u.Password != password[0] {
					continue
				}
				matches = append(matches, u)
			}
			json.NewEncoder(w).Encode(matches)
		case http.MethodPost:
			var payload api.NewUser
			if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			created := api.UserRecord{
				ID: b.nextUserID, Name: payload.Name, Email: payload.Email,
				Password: payload.Password, Role: payload.Role,
			}
			b.nextUserID++
			b.users = append(b.users, created)
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(created)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})

	return mux
}

// testEnv bundles a wired client with its backend and session storage.
type testEnv struct {
	client   *Client
	backend  *fakeBackend
	sessions *session.Store
	kv       *kvstore.MemoryStore
}

// newTestEnv wires a client against a fresh fake backend.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	backend := newFakeBackend()
	srv := httptest.NewServer(backend.handler())
	t.Cleanup(srv.Close)

	kv := kvstore.NewMemoryStore()
	sessions := session.NewStore(kv)
	apiClient := api.NewClient(srv.URL, func() string { return sessions.Current().Token })
	issuer := session.NewTokenIssuer([]byte("test-secret"))

	return &testEnv{
		client:   New(apiClient, sessions, issuer, 30*time.Second),
		backend:  backend,
		sessions: sessions,
		kv:       kv,
	}
}
