package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dukex/flowdesk/pkg/models"
	"github.com/dukex/flowdesk/pkg/persistence/file"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) string {
	t.Helper()

	var out bytes.Buffer

	app := NewApp()
	app.Writer = &out

	err := app.Run(context.Background(), append([]string{"flowdesk"}, args...))
	require.NoError(t, err)

	return out.String()
}

func seed(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	repo := file.NewPersistence(dir).FlowRepository()
	amount := 3
	now := time.Now().UTC()

	flows := []*models.Flow{
		{
			ID:             "flow-1",
			Name:           "Early reminder",
			OrganizationID: "org-1",
			Active:         true,
			Triggers: []*models.Trigger{
				models.NewTrigger("t1", models.DateDetails{Reference: "start", Direction: "before", Amount: &amount, Unit: "days"}),
			},
			Actions: []*models.Action{
				models.NewAction("a1", models.EmailDetails{Subject: "Three days to go"}),
			},
			CreatedAt: now,
			UpdatedAt: now,
		},
		{
			ID:             "flow-2",
			Name:           "Welcome",
			OrganizationID: "org-1",
			Triggers:       []*models.Trigger{models.NewTrigger("t2", models.RegistrationDetails{})},
			Actions: []*models.Action{
				models.NewAction("a2", models.EmailDetails{Subject: "Welcome"}),
				models.NewAction("a3", models.NotificationDetails{Message: "New attendee"}),
			},
			CreatedAt: now,
			UpdatedAt: now,
		},
	}

	for _, flow := range flows {
		require.NoError(t, repo.Save(context.Background(), flow))
	}

	return "file://" + dir
}

func TestDescribeTrigger(t *testing.T) {
	out := run(t, "describe", "trigger", "--type", "numOfAttendees", "--details", `{"operator":"lt","value":10,"valueType":"percentage"}`)

	assert.Contains(t, out, "Type:        attendee-count")
	assert.Contains(t, out, "Title:       Attendee Count")
	assert.Contains(t, out, "Description: When attendance less than 10%")
	assert.Contains(t, out, "Summary:     < 10%")
}

func TestDescribeAction(t *testing.T) {
	out := run(t, "describe", "action", "--type", "fileShare", "--details", `{"fileId":"f-1","status":"public"}`)

	assert.Contains(t, out, "Icon:        share-2")
	assert.Contains(t, out, "Description: Share file (ID: f-1) with public access")
	assert.Contains(t, out, "Summary:     public access")
}

func TestDescribe_InvalidDetails(t *testing.T) {
	app := NewApp()
	app.Writer = &bytes.Buffer{}

	err := app.Run(context.Background(), []string{"flowdesk", "describe", "action", "--type", "email", "--details", "[1,2]"})
	require.Error(t, err)
}

func TestCatalog(t *testing.T) {
	out := run(t, "catalog")

	assert.Contains(t, out, "Triggers:")
	assert.Contains(t, out, "attendee-count")
	assert.Contains(t, out, "Actions:")
	assert.Contains(t, out, "description-change")
}

func TestFlowsList(t *testing.T) {
	url := seed(t)

	out := run(t, "flows", "list", "--database-url", url, "--organization-id", "org-1")

	assert.Contains(t, out, "Flows (2 of 2):")
	assert.Contains(t, out, "Early reminder (flow-1) [active]")
	assert.Contains(t, out, "3 days before event start")
	assert.Contains(t, out, `Send email with subject "Welcome"`)
	assert.Less(t, bytes.Index([]byte(out), []byte("Early reminder")), bytes.Index([]byte(out), []byte("Welcome (")))
}

func TestSummary(t *testing.T) {
	url := seed(t)

	out := run(t, "summary", "--database-url", url)

	assert.Contains(t, out, "Flows: 2 total, 1 active, 0 templates")
	assert.Contains(t, out, "Send Email")
	assert.Contains(t, out, "Registration")

	out = run(t, "summary", "--database-url", url, "--active-only")
	assert.Contains(t, out, "Flows: 1 total, 1 active, 0 templates")
}

func TestFlowsImport(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "flows.yaml")

	err := os.WriteFile(path, []byte(`
organization_id: org-7
flows:
  - name: Welcome
    triggers:
      - type: newRegistration
    actions:
      - type: sendNotification
        details:
          message: Someone joined
`), 0o600)
	require.NoError(t, err)

	url := "file://" + filepath.Join(dir, "data")

	out := run(t, "flows", "import", "--database-url", url, path)
	assert.Contains(t, out, "Imported Welcome (")

	out = run(t, "flows", "list", "--database-url", url, "--organization-id", "org-7")
	assert.Contains(t, out, "Flows (1 of 1):")
	assert.Contains(t, out, `Send notification: "Someone joined"`)
}

func TestFlowsImport_MissingFile(t *testing.T) {
	app := NewApp()
	app.Writer = &bytes.Buffer{}

	err := app.Run(context.Background(), []string{"flowdesk", "flows", "import", "--database-url", "file://" + t.TempDir()})
	require.ErrorIs(t, err, errMissingFile)
}
