package api

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alertdash/alertdash-server/internal/archive/archivetest"
	"github.com/alertdash/alertdash-server/internal/domain"
)

func TestDashboard_NoArchive(t *testing.T) {
	ts := setupTestServer(t)

	w := ts.get("/")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	body := w.Body.String()
	assert.Contains(t, body, "Upload an alert export archive")
	assert.Contains(t, body, `action="/upload?variant=bot-activity"`)
	assert.NotContains(t, body, `class="error"`)
}

func TestDashboard_BotActivity(t *testing.T) {
	ts := setupTestServer(t)
	require.Equal(t, http.StatusCreated, ts.upload(t, "/api/v1/archives", archivetest.Example(t)).Code)

	w := ts.get("/")

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `src="/charts/bot-activity/primary"`)
	assert.Contains(t, body, `src="/charts/bot-activity/activity"`)
	assert.Contains(t, body, "Bot messages")
	assert.Contains(t, body, "<td>hi</td>")
	assert.Contains(t, body, "<td>hello</td>")
	assert.Contains(t, body, "<th>Day of week</th>")
	assert.Contains(t, body, `<option value="bot-activity" selected>`)
}

func TestDashboard_SubtypeSelection(t *testing.T) {
	ts := setupTestServer(t)
	require.Equal(t, http.StatusCreated, ts.upload(t, "/api/v1/archives", archivetest.Example(t)).Code)

	w := ts.get("/?variant=subtypes-by-date&subtype=bot_message")

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `<option value="bot_message" selected>`)
	assert.Contains(t, body, `<option value="message">`)
	assert.Contains(t, body, `src="/charts/subtypes-by-date/primary?subtype=bot_message"`)
	assert.Contains(t, body, `class="heatmap"`)
	assert.NotContains(t, body, "<td>hello</td>")
}

func TestDashboard_VariantSections(t *testing.T) {
	ts := setupTestServer(t)
	require.Equal(t, http.StatusCreated, ts.upload(t, "/api/v1/archives", archivetest.Example(t)).Code)

	tests := []struct {
		variant domain.Variant
		want    []string
		absent  []string
	}{
		{domain.VariantRecordCounts, []string{"<th>Records</th>", "<td>2024-01-01.json</td>"}, []string{`class="heatmap"`}},
		{domain.VariantBotTexts, []string{"Bot message texts", `class="bar"`}, []string{"Bot activity by hour"}},
		{domain.VariantDisplayNames, []string{`class="heatmap"`, "<th>Display name</th>"}, []string{"Bot messages"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.variant), func(t *testing.T) {
			w := ts.get("/?variant=" + string(tt.variant))

			require.Equal(t, http.StatusOK, w.Code)
			body := w.Body.String()
			for _, s := range tt.want {
				assert.Contains(t, body, s)
			}
			for _, s := range tt.absent {
				assert.NotContains(t, body, s)
			}
		})
	}
}

func TestDashboard_UnknownVariant(t *testing.T) {
	ts := setupTestServer(t)
	require.Equal(t, http.StatusCreated, ts.upload(t, "/api/v1/archives", archivetest.Example(t)).Code)

	w := ts.get("/?variant=pie")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "VALIDATION")
	assert.Contains(t, body, "unknown variant")
}

func TestDashboard_PipelineErrorShowsPanel(t *testing.T) {
	ts := setupTestServer(t)
	bad := archivetest.Zip(t, map[string]string{"alerts/2024-01-01.json": `{"not":"an array"}`})
	require.Equal(t, http.StatusCreated, ts.upload(t, "/api/v1/archives", bad).Code)

	w := ts.get("/")

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "MALFORMED_JSON")
}

func TestDashboard_TruncatesRawTable(t *testing.T) {
	ts := setupTestServer(t)

	records := make([]string, MaxTableRows+1)
	for i := range records {
		records[i] = fmt.Sprintf(`{"subtype":"message","text":"row %d"}`, i)
	}
	big := archivetest.Zip(t, map[string]string{
		"alerts/2024-01-01.json": "[" + strings.Join(records, ",") + "]",
	})
	require.Equal(t, http.StatusCreated, ts.upload(t, "/api/v1/archives", big).Code)

	w := ts.get("/?variant=subtypes")

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, fmt.Sprintf("Showing the first %d of %d rows.", MaxTableRows, MaxTableRows+1))
	assert.Contains(t, body, "<td>row 499</td>")
	assert.NotContains(t, body, "<td>row 500</td>")
}

func TestDashboard_SelectsUnusualSubtypes(t *testing.T) {
	ts := setupTestServer(t)
	data := archivetest.Zip(t, map[string]string{
		"alerts/2024-01-01.json": `[
			{"subtype":"","text":"empty"},
			{"subtype":"bot_message","text":"bot"},
			{"subtype":"a,b","text":"comma"},
			{"subtype":" padded","text":"padded"}
		]`,
	})
	require.Equal(t, http.StatusCreated, ts.upload(t, "/api/v1/archives", data).Code)

	texts := []string{"empty", "bot", "comma", "padded"}
	tests := []struct {
		name   string
		query  string
		option string
		want   string
	}{
		{"empty subtype", "subtype=", `<option value="" selected>`, "empty"},
		{"comma in subtype", "subtype=a%2Cb", `<option value="a,b" selected>`, "comma"},
		{"leading space", "subtype=%20padded", `<option value=" padded" selected>`, "padded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := ts.get("/?variant=subtypes&" + tt.query)

			require.Equal(t, http.StatusOK, w.Code)
			body := w.Body.String()
			assert.Contains(t, body, tt.option)
			for _, text := range texts {
				if text == tt.want {
					assert.Contains(t, body, "<td>"+text+"</td>")
				} else {
					assert.NotContains(t, body, "<td>"+text+"</td>")
				}
			}
		})
	}
}
