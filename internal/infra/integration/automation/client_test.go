package automation

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xavierca1/recruitica/internal/entity"
)

const inner = `{"emailSubject":"S","emailBody":"B","clientList":[{"name":"Jane Doe","email":"jane@x.com","company":"Acme"}]}`

var envelopes = map[string]string{
	"array-output":        `[{"output":` + inner + `}]`,
	"object-output":       `{"output":` + inner + `}`,
	"array-response-body": `[{"response":{"body":` + inner + `}}]`,
	"canonical":           inner,
}

func TestNormalizeDraftAllShapesAgree(t *testing.T) {
	want := &entity.Draft{
		Subject:  "S",
		Body:     "B",
		Contacts: []entity.Contact{{Name: "Jane Doe", Email: "jane@x.com", Company: "Acme"}},
	}

	for name, raw := range envelopes {
		t.Run(name, func(t *testing.T) {
			var body any
			require.NoError(t, json.Unmarshal([]byte(raw), &body))

			got, shape, err := normalizeDraft(body)
			require.NoError(t, err)
			assert.Equal(t, name, shape)
			assert.Equal(t, want, got)
		})
	}
}

func TestNormalizeDraftRejectsUnknownShapes(t *testing.T) {
	cases := map[string]string{
		"data wrapper":      `{"data":` + inner + `}`,
		"empty array":       `[]`,
		"string":            `"hello"`,
		"output not object": `{"output":"S"}`,
		"empty output":      `{"output":{}}`,
		"array of strings":  `["S","B"]`,
	}

	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			var body any
			require.NoError(t, json.Unmarshal([]byte(raw), &body))

			got, _, err := normalizeDraft(body)
			assert.ErrorIs(t, err, ErrUnrecognizedResponseShape)
			assert.Nil(t, got)
		})
	}
}

func TestNormalizeDraftShapePriority(t *testing.T) {
	// Both output and canonical keys are present; output wins.
	raw := `{"output":{"emailSubject":"from output","emailBody":"B"},"emailSubject":"outer","emailBody":"outer"}`
	var body any
	require.NoError(t, json.Unmarshal([]byte(raw), &body))

	got, shape, err := normalizeDraft(body)
	require.NoError(t, err)
	assert.Equal(t, "object-output", shape)
	assert.Equal(t, "from output", got.Subject)
}

func TestNormalizeDraftHTMLFirst(t *testing.T) {
	raw := `[{"response":{"body":{"html":"<html><head><title>Meet John</title></head><body>Hi</body></html>","contacts":[{"name":"Jane","email":"jane@x.com","company":"Acme"}]}}}]`
	var body any
	require.NoError(t, json.Unmarshal([]byte(raw), &body))

	got, _, err := normalizeDraft(body)
	require.NoError(t, err)
	assert.Equal(t, "Meet John", got.Subject)
	assert.Contains(t, got.Body, "<title>Meet John</title>")
	require.Len(t, got.Contacts, 1)
	assert.Equal(t, "Jane", got.Contacts[0].Name)

	raw = `{"html":"<p>No title</p>"}`
	require.NoError(t, json.Unmarshal([]byte(raw), &body))
	got, _, err = normalizeDraft(body)
	require.NoError(t, err)
	assert.Equal(t, entity.DefaultEmailSubject, got.Subject)
	assert.Empty(t, got.Contacts)
}

func TestGenerateDraftPostsRequest(t *testing.T) {
	var got DraftRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(envelopes["array-output"]))
	}))
	defer srv.Close()

	c := NewClient(Config{DraftURL: srv.URL}, zap.NewNop())
	draft, err := c.GenerateDraft(t.Context(), DraftRequest{
		CandidateName: "John Smith",
		Contacts:      []entity.Contact{{Name: "Jane Doe", Email: "jane@x.com", Company: "Acme"}},
	})
	require.NoError(t, err)

	assert.Equal(t, "S", draft.Subject)
	assert.Equal(t, "John Smith", got.CandidateName)
	assert.Nil(t, got.KeynotesFile)
	require.Len(t, got.Contacts, 1)
}

func TestGenerateDraftKeynotesNullOnTheWire(t *testing.T) {
	var raw map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		w.Write([]byte(inner))
	}))
	defer srv.Close()

	c := NewClient(Config{DraftURL: srv.URL}, zap.NewNop())
	_, err := c.GenerateDraft(t.Context(), DraftRequest{CandidateName: "John"})
	require.NoError(t, err)

	v, ok := raw["keynotesFile"]
	assert.True(t, ok)
	assert.Nil(t, v)
	assert.Equal(t, []any{}, raw["contacts"])
}

func TestGenerateDraftTimeoutIsDistinct(t *testing.T) {
	release := make(chan struct{})
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer slow.Close()
	defer close(release)

	c := NewClient(Config{DraftURL: slow.URL, Timeout: 50 * time.Millisecond}, zap.NewNop())
	_, err := c.GenerateDraft(t.Context(), DraftRequest{CandidateName: "John"})

	assert.ErrorIs(t, err, ErrTimedOut)
	assert.NotErrorIs(t, err, ErrNetwork)
}

func TestGenerateDraftStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("boom"))
	}))
	defer srv.Close()

	c := NewClient(Config{DraftURL: srv.URL}, zap.NewNop())
	_, err := c.GenerateDraft(t.Context(), DraftRequest{CandidateName: "John"})

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
	assert.ErrorIs(t, err, ErrNetwork)
	assert.NotErrorIs(t, err, ErrTimedOut)
}

func TestGenerateDraftNonJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Workflow was started"))
	}))
	defer srv.Close()

	c := NewClient(Config{DraftURL: srv.URL}, zap.NewNop())
	_, err := c.GenerateDraft(t.Context(), DraftRequest{CandidateName: "John"})
	assert.ErrorIs(t, err, ErrUnrecognizedResponseShape)
}

func TestGenerateDraftNotConfigured(t *testing.T) {
	c := NewClient(Config{}, zap.NewNop())
	_, err := c.GenerateDraft(t.Context(), DraftRequest{})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestFinalizePostsCanonicalDraft(t *testing.T) {
	var raw map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	c := NewClient(Config{FinalizeURL: srv.URL}, zap.NewNop())
	err := c.Finalize(t.Context(), entity.Draft{
		Subject:  "Candidate Introduction",
		Body:     "<p>Hi</p>",
		Contacts: []entity.Contact{{Name: "Jane", Email: "jane@x.com", Company: "Acme"}},
	})
	require.NoError(t, err)

	assert.Equal(t, "Candidate Introduction", raw["emailSubject"])
	assert.Equal(t, "<p>Hi</p>", raw["emailBody"])
	assert.Len(t, raw["clientList"], 1)
}
