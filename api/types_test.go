package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/Tabo-ecom/grandline-go/api"
	"github.com/stretchr/testify/require"
)

func TestAdAccountNormalizesBothFieldSpellings(t *testing.T) {
	tests := []struct {
		name     string
		payload  string
		wantID   string
		wantName string
	}{
		{"modern keys", `{"id":"act_1","name":"Main"}`, "act_1", "Main"},
		{"legacy keys", `{"account_id":"act_2","account_name":"Backup"}`, "act_2", "Backup"},
		{"name falls back to id", `{"id":"act_3"}`, "act_3", "act_3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var account api.AdAccount
			require.NoError(t, json.Unmarshal([]byte(tt.payload), &account))
			require.Equal(t, tt.wantID, account.ID)
			require.Equal(t, tt.wantName, account.Name)
		})
	}
}

func TestUploadResultNormalizesRowCountKeys(t *testing.T) {
	var modern api.UploadResult
	require.NoError(t, json.Unmarshal([]byte(`{"file_id":1,"rows_inserted":50,"country":"CO"}`), &modern))
	require.Equal(t, 50, modern.Rows)

	var legacy api.UploadResult
	require.NoError(t, json.Unmarshal([]byte(`{"file_id":2,"row_count":30}`), &legacy))
	require.Equal(t, 30, legacy.Rows)
}

func TestFBAccountsAcceptsBothEnvelopes(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"wrapped", `{"accounts":[{"id":"act_1","name":"Main"}]}`},
		{"bare array", `[{"account_id":"act_1","account_name":"Main"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setupTestFixture(t, func(w http.ResponseWriter, r *http.Request) {
				require.Equal(t, api.RouteAdsFBAccounts, r.URL.Path)
				_, _ = w.Write([]byte(tt.payload))
			})

			accounts, err := f.client.FBAccounts(context.Background())
			require.NoError(t, err)
			require.Len(t, accounts, 1)
			require.Equal(t, "act_1", accounts[0].ID)
			require.Equal(t, "Main", accounts[0].Name)
		})
	}
}

func TestDashboardReportEmpty(t *testing.T) {
	var missingKPIs api.DashboardReport
	require.NoError(t, json.Unmarshal([]byte(`{}`), &missingKPIs))
	require.True(t, missingKPIs.Empty())

	var zeroTotal api.DashboardReport
	require.NoError(t, json.Unmarshal([]byte(`{"kpis":{"n_total":0}}`), &zeroTotal))
	require.True(t, zeroTotal.Empty())

	var populated api.DashboardReport
	require.NoError(t, json.Unmarshal([]byte(`{"kpis":{"n_total":12,"gross_revenue":990.5}}`), &populated))
	require.False(t, populated.Empty())
	require.Equal(t, 990.5, populated.KPIs.GrossRevenue)
}
