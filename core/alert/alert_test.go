package alert

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/proctor/core"
)

func TestFilter_status(t *testing.T) {
	alerts := []Alert{{ID: "1", Status: "open"}, {ID: "2", Status: "resolved"}}

	got := Filter(alerts, QueryFilter{Status: "open"})
	require.Len(t, got, 1)
	assert.Equal(t, core.ID("1"), got[0].ID)
}

func TestFilter(t *testing.T) {
	alerts := []Alert{
		{ID: "1", Title: "Face not detected", Severity: "HIGH", Status: "open"},
		{ID: "2", Title: "Tab switch", Message: "left the exam window", Severity: "low", Status: "resolved"},
		{ID: "3", Title: "Second person", Severity: "", Status: ""},
		{ID: "4", Title: "Phone detected", Severity: "critical", Status: "open"},
	}
	tests := []struct {
		name   string
		filter QueryFilter
		want   []core.ID
	}{
		{name: "empty keeps order", filter: QueryFilter{}, want: []core.ID{"1", "2", "3", "4"}},
		{name: "search title", filter: QueryFilter{Search: "DETECTED"}, want: []core.ID{"1", "4"}},
		{name: "search message", filter: QueryFilter{Search: "window"}, want: []core.ID{"2"}},
		{name: "severity case-insensitive", filter: QueryFilter{Severity: "high"}, want: []core.ID{"1"}},
		{name: "blank severity falls back to low", filter: QueryFilter{Severity: "Low"}, want: []core.ID{"2", "3"}},
		{name: "blank status falls back to open", filter: QueryFilter{Status: "OPEN"}, want: []core.ID{"1", "3", "4"}},
		{name: "unknown severity", filter: QueryFilter{Severity: "urgent"}, want: []core.ID{}},
		{name: "combined", filter: QueryFilter{Search: "detected", Severity: "critical", Status: "open"}, want: []core.ID{"4"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := make([]core.ID, 0)
			for _, a := range Filter(alerts, tt.filter) {
				got = append(got, a.ID)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestQueryFilter_Values(t *testing.T) {
	assert.Equal(t, "q=abc", QueryFilter{Search: "abc"}.Values().Encode())
	assert.Equal(t, "severity=high&status=open", QueryFilter{Severity: "high", Status: "open"}.Values().Encode())
}

type repoStub struct {
	resolved Resolution
	err      error
}

func (r *repoStub) List(context.Context, QueryFilter) ([]Alert, error) { return nil, r.err }

func (r *repoStub) Resolve(_ context.Context, id core.ID, res Resolution) (Alert, error) {
	r.resolved = res
	return Alert{ID: id, Status: StatusResolved, Note: res.Note}, r.err
}

func TestService_Resolve(t *testing.T) {
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	repo := &repoStub{}
	svc := NewService(repo, validate, translator)
	ctx := context.Background()

	res := svc.Resolve(ctx, "4", "  checked the recording ")
	require.True(t, res.OK)
	assert.Equal(t, "checked the recording", repo.resolved.Note)
	assert.False(t, res.Data.IsOpen())

	res = svc.Resolve(ctx, "4", strings.Repeat("x", 501))
	require.False(t, res.OK)
	assert.Contains(t, res.Detail.Fields, "note")

	repo.err = &core.APIError{Status: http.StatusConflict, Message: "alert already resolved"}
	res = svc.Resolve(ctx, "4", "")
	require.False(t, res.OK)
	assert.Equal(t, http.StatusConflict, res.Detail.Status)
	assert.False(t, res.Detail.Unauthenticated())

	res2 := svc.List(ctx, QueryFilter{})
	require.False(t, res2.OK)
	assert.Equal(t, "alert already resolved", res2.Detail.Message)
}
