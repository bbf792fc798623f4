package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sakif/jobtrack/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// authedRequest builds a request carrying the bearer token.
func authedRequest(method, target, token, body string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, bytes.NewBufferString(body))
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

// createApplication creates a record through the handler and returns it.
func (e *testEnv) createApplication(t *testing.T, token, body string) model.Application {
	t.Helper()

	protected := e.requireAuth(http.HandlerFunc(e.apps.HandleCreate))
	rr := httptest.NewRecorder()
	protected.ServeHTTP(rr, authedRequest(http.MethodPost, "/api/applications", token, body))
	require.Equal(t, http.StatusCreated, rr.Code, "create failed: %s", rr.Body.String())

	var app model.Application
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&app))
	return app
}

// =========================================================================
// CREATE
// =========================================================================

func TestApplicationHandler_HandleCreate(t *testing.T) {
	t.Run("valid application", func(t *testing.T) {
		env := newTestEnv(t)
		token := env.register(t, "Sam", "sam@example.com", "secret1")

		body := `{"company":"Acme Corp","role":"Go Developer","status":"Applied","appliedDate":"2024-03-10","source":"Referral","notes":"sent CV"}`
		app := env.createApplication(t, token, body)

		assert.NotEmpty(t, app.ID)
		assert.Equal(t, "Acme Corp", app.Company)
		assert.Equal(t, model.StatusApplied, app.Status)
		assert.Equal(t, "2024-03-10", app.AppliedDate)
		assert.Equal(t, "sent CV", app.Notes)
	})

	t.Run("notes are optional", func(t *testing.T) {
		env := newTestEnv(t)
		token := env.register(t, "Sam", "sam@example.com", "secret1")

		body := `{"company":"Acme","role":"Dev","status":"Applied","appliedDate":"2024-03-10","source":"LinkedIn"}`
		app := env.createApplication(t, token, body)

		assert.Equal(t, "", app.Notes)
	})

	t.Run("validation failure collects every bad field", func(t *testing.T) {
		env := newTestEnv(t)
		token := env.register(t, "Sam", "sam@example.com", "secret1")

		protected := env.requireAuth(http.HandlerFunc(env.apps.HandleCreate))
		body := `{"company":"","role":"","status":"Ghosted","appliedDate":"10/03/2024","source":""}`
		rr := httptest.NewRecorder()
		protected.ServeHTTP(rr, authedRequest(http.MethodPost, "/api/applications", token, body))

		assert.Equal(t, http.StatusBadRequest, rr.Code)

		var res struct {
			Errors map[string]string `json:"errors"`
		}
		assert.NoError(t, json.NewDecoder(rr.Body).Decode(&res))
		for _, field := range []string{"company", "role", "status", "appliedDate", "source"} {
			assert.Contains(t, res.Errors, field)
		}
	})

	t.Run("rejected without a token", func(t *testing.T) {
		env := newTestEnv(t)

		protected := env.requireAuth(http.HandlerFunc(env.apps.HandleCreate))
		body := `{"company":"Acme","role":"Dev","status":"Applied","appliedDate":"2024-03-10","source":"Web"}`
		rr := httptest.NewRecorder()
		protected.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/applications", bytes.NewBufferString(body)))

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

// =========================================================================
// LIST
// =========================================================================

func TestApplicationHandler_HandleList(t *testing.T) {
	t.Run("returns only the caller's records, newest first", func(t *testing.T) {
		env := newTestEnv(t)
		aliceToken := env.register(t, "Alice", "alice@example.com", "secret1")
		bobToken := env.register(t, "Bob", "bob@example.com", "secret1")

		env.createApplication(t, aliceToken, `{"company":"Old","role":"Dev","status":"Applied","appliedDate":"2024-01-05","source":"Web"}`)
		env.createApplication(t, aliceToken, `{"company":"New","role":"Dev","status":"Applied","appliedDate":"2024-03-20","source":"Web"}`)
		env.createApplication(t, bobToken, `{"company":"Bobs","role":"Dev","status":"Applied","appliedDate":"2024-02-02","source":"Web"}`)

		protected := env.requireAuth(http.HandlerFunc(env.apps.HandleList))
		rr := httptest.NewRecorder()
		protected.ServeHTTP(rr, authedRequest(http.MethodGet, "/api/applications", aliceToken, ""))

		assert.Equal(t, http.StatusOK, rr.Code)

		var apps []model.Application
		assert.NoError(t, json.NewDecoder(rr.Body).Decode(&apps))
		require.Len(t, apps, 2)
		assert.Equal(t, "New", apps[0].Company)
		assert.Equal(t, "Old", apps[1].Company)
	})

	t.Run("empty list serializes as [] not null", func(t *testing.T) {
		env := newTestEnv(t)
		token := env.register(t, "Sam", "sam@example.com", "secret1")

		protected := env.requireAuth(http.HandlerFunc(env.apps.HandleList))
		rr := httptest.NewRecorder()
		protected.ServeHTTP(rr, authedRequest(http.MethodGet, "/api/applications", token, ""))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `[]`, rr.Body.String())
	})
}

// =========================================================================
// UPDATE
// =========================================================================

func TestApplicationHandler_HandleUpdate(t *testing.T) {
	t.Run("updates an owned record", func(t *testing.T) {
		env := newTestEnv(t)
		token := env.register(t, "Sam", "sam@example.com", "secret1")
		app := env.createApplication(t, token, `{"company":"Acme","role":"Dev","status":"Applied","appliedDate":"2024-03-10","source":"Web"}`)

		protected := env.requireAuth(http.HandlerFunc(env.apps.HandleUpdate))
		body := `{"company":"Acme","role":"Dev","status":"Offer","appliedDate":"2024-03-10","source":"Web","notes":"they called!"}`
		req := authedRequest(http.MethodPut, "/api/applications/"+app.ID, token, body)
		req.SetPathValue("id", app.ID)
		rr := httptest.NewRecorder()
		protected.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var updated model.Application
		assert.NoError(t, json.NewDecoder(rr.Body).Decode(&updated))
		assert.Equal(t, app.ID, updated.ID)
		assert.Equal(t, model.StatusOffer, updated.Status)
		assert.Equal(t, "they called!", updated.Notes)
	})

	t.Run("another user's record is a 404", func(t *testing.T) {
		env := newTestEnv(t)
		aliceToken := env.register(t, "Alice", "alice@example.com", "secret1")
		bobToken := env.register(t, "Bob", "bob@example.com", "secret1")
		app := env.createApplication(t, aliceToken, `{"company":"Secret","role":"Dev","status":"Applied","appliedDate":"2024-03-10","source":"Web"}`)

		protected := env.requireAuth(http.HandlerFunc(env.apps.HandleUpdate))
		body := `{"company":"Hijacked","role":"Dev","status":"Applied","appliedDate":"2024-03-10","source":"Web"}`
		req := authedRequest(http.MethodPut, "/api/applications/"+app.ID, bobToken, body)
		req.SetPathValue("id", app.ID)
		rr := httptest.NewRecorder()
		protected.ServeHTTP(rr, req)

		// Not 403 — a record you don't own looks like it doesn't exist
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("unknown id is a 404", func(t *testing.T) {
		env := newTestEnv(t)
		token := env.register(t, "Sam", "sam@example.com", "secret1")

		protected := env.requireAuth(http.HandlerFunc(env.apps.HandleUpdate))
		body := `{"company":"Acme","role":"Dev","status":"Applied","appliedDate":"2024-03-10","source":"Web"}`
		req := authedRequest(http.MethodPut, "/api/applications/nope", token, body)
		req.SetPathValue("id", "nope")
		rr := httptest.NewRecorder()
		protected.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

// =========================================================================
// DELETE
// =========================================================================

func TestApplicationHandler_HandleDelete(t *testing.T) {
	t.Run("deletes an owned record", func(t *testing.T) {
		env := newTestEnv(t)
		token := env.register(t, "Sam", "sam@example.com", "secret1")
		app := env.createApplication(t, token, `{"company":"Acme","role":"Dev","status":"Applied","appliedDate":"2024-03-10","source":"Web"}`)

		protected := env.requireAuth(http.HandlerFunc(env.apps.HandleDelete))
		req := authedRequest(http.MethodDelete, "/api/applications/"+app.ID, token, "")
		req.SetPathValue("id", app.ID)
		rr := httptest.NewRecorder()
		protected.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNoContent, rr.Code)
		assert.Empty(t, rr.Body.String())

		// And it's gone from the list
		list := env.requireAuth(http.HandlerFunc(env.apps.HandleList))
		listRR := httptest.NewRecorder()
		list.ServeHTTP(listRR, authedRequest(http.MethodGet, "/api/applications", token, ""))
		assert.JSONEq(t, `[]`, listRR.Body.String())
	})

	t.Run("another user's record is a 404", func(t *testing.T) {
		env := newTestEnv(t)
		aliceToken := env.register(t, "Alice", "alice@example.com", "secret1")
		bobToken := env.register(t, "Bob", "bob@example.com", "secret1")
		app := env.createApplication(t, aliceToken, `{"company":"Secret","role":"Dev","status":"Applied","appliedDate":"2024-03-10","source":"Web"}`)

		protected := env.requireAuth(http.HandlerFunc(env.apps.HandleDelete))
		req := authedRequest(http.MethodDelete, "/api/applications/"+app.ID, bobToken, "")
		req.SetPathValue("id", app.ID)
		rr := httptest.NewRecorder()
		protected.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

// =========================================================================
// ANALYTICS
// =========================================================================

func TestAnalyticsHandler_HandleAnalytics(t *testing.T) {
	t.Run("aggregates the caller's applications", func(t *testing.T) {
		env := newTestEnv(t)
		token := env.register(t, "Sam", "sam@example.com", "secret1")

		env.createApplication(t, token, `{"company":"A","role":"Dev","status":"Offer","appliedDate":"2024-01-15","source":"Web"}`)
		env.createApplication(t, token, `{"company":"B","role":"Dev","status":"Applied","appliedDate":"2024-01-20","source":"Web"}`)
		env.createApplication(t, token, `{"company":"C","role":"Dev","status":"Interview","appliedDate":"2024-02-01","source":"Web"}`)

		protected := env.requireAuth(http.HandlerFunc(env.analytics.HandleAnalytics))
		rr := httptest.NewRecorder()
		protected.ServeHTTP(rr, authedRequest(http.MethodGet, "/api/analytics", token, ""))

		assert.Equal(t, http.StatusOK, rr.Code)

		var snap model.AnalyticsSnapshot
		assert.NoError(t, json.NewDecoder(rr.Body).Decode(&snap))

		assert.Equal(t, 3, snap.Totals.Total)
		assert.Equal(t, 1, snap.Totals.Interviews)
		assert.Equal(t, 1, snap.Totals.Offers)
		assert.InDelta(t, 33.3, snap.Totals.OfferRate, 0.001)
		assert.InDelta(t, 33.3, snap.Totals.InterviewRate, 0.001)

		// byStatus always lists all four statuses, in a fixed order
		require.Len(t, snap.ByStatus, 4)
		assert.Equal(t, model.StatusApplied, snap.ByStatus[0].Status)
		assert.Equal(t, model.StatusRejected, snap.ByStatus[3].Status)

		// byMonth ascending
		require.Len(t, snap.ByMonth, 2)
		assert.Equal(t, model.MonthCount{Month: "2024-01", Count: 2}, snap.ByMonth[0])
		assert.Equal(t, model.MonthCount{Month: "2024-02", Count: 1}, snap.ByMonth[1])
	})

	t.Run("empty account gets a zeroed snapshot, not an error", func(t *testing.T) {
		env := newTestEnv(t)
		token := env.register(t, "Sam", "sam@example.com", "secret1")

		protected := env.requireAuth(http.HandlerFunc(env.analytics.HandleAnalytics))
		rr := httptest.NewRecorder()
		protected.ServeHTTP(rr, authedRequest(http.MethodGet, "/api/analytics", token, ""))

		assert.Equal(t, http.StatusOK, rr.Code)

		var snap model.AnalyticsSnapshot
		assert.NoError(t, json.NewDecoder(rr.Body).Decode(&snap))
		assert.Equal(t, 0, snap.Totals.Total)
		assert.Equal(t, float64(0), snap.Totals.OfferRate)
		assert.Len(t, snap.ByStatus, 4)
		assert.Empty(t, snap.ByMonth)
	})
}
