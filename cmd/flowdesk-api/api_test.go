package main

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dukex/flowdesk/pkg/otelhelper"
	"github.com/dukex/flowdesk/pkg/persistence/file"
	"github.com/dukex/flowdesk/pkg/registry"
	"github.com/dukex/flowdesk/pkg/web"
	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestApp(t *testing.T) *fiber.App {
	t.Helper()

	api := NewAPI(
		slog.Default(),
		file.NewPersistence(t.TempDir()),
		registry.Default(slog.Default()),
		nil,
		otelhelper.NoopTracer(),
	)

	return api.App()
}

func get(t *testing.T, app *fiber.App, path string) (int, []byte) {
	t.Helper()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil))
	require.NoError(t, err)

	defer func() {
		err := resp.Body.Close()
		if err != nil {
			t.Logf("Failed to close response body: %v", err)
		}
	}()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp.StatusCode, body
}

func TestAPI_RootEndpoint(t *testing.T) {
	t.Parallel()

	status, body := get(t, setupTestApp(t), "/")

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Flowdesk API", string(body))
}

func TestAPI_Liveness(t *testing.T) {
	t.Parallel()

	status, body := get(t, setupTestApp(t), "/livez")

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "OK", string(body))
}

func TestAPI_GetFlows_Empty(t *testing.T) {
	t.Parallel()

	status, body := get(t, setupTestApp(t), "/flows")
	require.Equal(t, http.StatusOK, status)

	var resp web.ListFlowsResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	assert.Empty(t, resp.Flows)
	assert.Zero(t, resp.TotalCount)
}

func TestAPI_CreateAndSummarize(t *testing.T) {
	t.Parallel()

	app := setupTestApp(t)

	payload, err := json.Marshal(web.CreateFlowRequest{
		Name:           "Welcome",
		OrganizationID: "org-1",
		EventID:        "event-1",
		Triggers:       []web.ItemRequest{{Type: "newRegistration"}},
		Actions: []web.ItemRequest{
			{Type: "sendEmail", Details: map[string]any{"subject": "Welcome aboard"}},
			{Type: "sendNotification", Details: map[string]any{"message": "New attendee"}},
		},
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/flows", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	status, body := get(t, app, "/dashboard/summary")
	require.Equal(t, http.StatusOK, status)

	var summary web.SummaryResponse
	require.NoError(t, json.Unmarshal(body, &summary))

	assert.Equal(t, 1, summary.TotalFlows)
	require.Len(t, summary.TopActions, 2)
	assert.Equal(t, "email", summary.TopActions[0].Type)
	assert.Equal(t, "notification", summary.TopActions[1].Type)
}
