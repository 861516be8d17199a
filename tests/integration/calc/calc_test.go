package calc

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/PickAim/jarvis-backend/internal/testutil"
	"github.com/PickAim/jarvis-backend/tests/integration"
)

const (
	UnitEconomyURL = "/access/calc/unit-economy"
	RequestsURL    = "/access/calc/requests"
)

func Test_Calc(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	loginUser := func(t *testing.T, s integration.Services, email string) (access, imprint string) {
		t.Helper()

		err := s.AuthService.Register(t.Context(), email, "", "Valid123!pass")
		require.NoError(t, err)

		triple, err := s.AuthService.Login(t.Context(), email, "Valid123!pass", "")
		require.NoError(t, err)

		return triple.Access.Value, triple.Imprint
	}

	do := func(t *testing.T, method, url, data, access, imprint string) *http.Response {
		t.Helper()

		var body io.Reader
		if data != "" {
			body = strings.NewReader(data)
		}
		req, err := http.NewRequest(method, url, body)
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/json")
		req.AddCookie(&http.Cookie{Name: "cookie_access_token", Value: access})
		req.AddCookie(&http.Cookie{Name: "cookie_imprint_token", Value: imprint})

		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		return resp
	}

	t.Run("unit economy without auth fails", func(t *testing.T) {
		integration.RunTx(pg.Pool, t, func(srvURL string, _ integration.Services) {
			data := `{"buy_price": "100", "sell_price": "500"}`

			resp, err := http.Post(srvURL+UnitEconomyURL, "application/json", strings.NewReader(data))
			require.NoError(t, err)
			_ = resp.Body.Close()

			require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		})
	})

	t.Run("unit economy ok", func(t *testing.T) {
		integration.RunTx(pg.Pool, t, func(srvURL string, s integration.Services) {
			access, imprint := loginUser(t, s, "calc@example.com")

			data := `{
				"buy_price": "100",
				"pack_cost": "10",
				"transit_price": "100",
				"transit_count": 10,
				"sell_price": "300",
				"commission_rate": "0.15",
				"logistics_cost": "20"
			}`
			resp := do(t, http.MethodPost, srvURL+UnitEconomyURL, data, access, imprint)
			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()

			require.Equalf(t, http.StatusOK, resp.StatusCode, "not expected code. Body: %s", string(body))

			var result struct {
				UnitCost   decimal.Decimal `json:"unit_cost"`
				Commission decimal.Decimal `json:"commission"`
				Profit     decimal.Decimal `json:"profit"`
			}
			require.NoError(t, json.Unmarshal(body, &result))
			require.True(t, result.UnitCost.Equal(decimal.RequireFromString("120")), "unit cost = %s", result.UnitCost)
			require.True(t, result.Commission.Equal(decimal.RequireFromString("45")), "commission = %s", result.Commission)
			require.True(t, result.Profit.Equal(decimal.RequireFromString("115")), "profit = %s", result.Profit)
		})
	})

	t.Run("saved request appears in history and can be deleted", func(t *testing.T) {
		integration.RunTx(pg.Pool, t, func(srvURL string, s integration.Services) {
			access, imprint := loginUser(t, s, "history@example.com")

			data := `{
				"buy_price": "100",
				"sell_price": "300",
				"name": "my calc",
				"save": true
			}`
			resp := do(t, http.MethodPost, srvURL+UnitEconomyURL, data, access, imprint)
			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			_ = resp.Body.Close()
			require.Equalf(t, http.StatusOK, resp.StatusCode, "not expected code. Body: %s", string(body))

			// Request should be listed
			resp = do(t, http.MethodGet, srvURL+RequestsURL, "", access, imprint)
			body, err = io.ReadAll(resp.Body)
			require.NoError(t, err)
			_ = resp.Body.Close()
			require.Equalf(t, http.StatusOK, resp.StatusCode, "not expected code. Body: %s", string(body))

			var items []struct {
				ID   int64  `json:"id"`
				Kind string `json:"kind"`
				Name string `json:"name"`
			}
			require.NoError(t, json.Unmarshal(body, &items))
			require.Len(t, items, 1)
			require.Equal(t, "unit_economy", items[0].Kind)
			require.Equal(t, "my calc", items[0].Name)

			// And deleted by its owner
			deleteURL := fmt.Sprintf("%s%s/%d", srvURL, RequestsURL, items[0].ID)
			resp = do(t, http.MethodDelete, deleteURL, "", access, imprint)
			_ = resp.Body.Close()
			require.Equal(t, http.StatusOK, resp.StatusCode)

			resp = do(t, http.MethodGet, srvURL+RequestsURL, "", access, imprint)
			body, err = io.ReadAll(resp.Body)
			require.NoError(t, err)
			_ = resp.Body.Close()
			require.JSONEq(t, `[]`, string(body))
		})
	})

	t.Run("foreign request can not be deleted by basic user", func(t *testing.T) {
		integration.RunTx(pg.Pool, t, func(srvURL string, s integration.Services) {
			ownerAccess, ownerImprint := loginUser(t, s, "owner@example.com")
			otherAccess, otherImprint := loginUser(t, s, "other@example.com")

			data := `{"buy_price": "100", "sell_price": "300", "save": true}`
			resp := do(t, http.MethodPost, srvURL+UnitEconomyURL, data, ownerAccess, ownerImprint)
			_ = resp.Body.Close()
			require.Equal(t, http.StatusOK, resp.StatusCode)

			resp = do(t, http.MethodGet, srvURL+RequestsURL, "", ownerAccess, ownerImprint)
			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			_ = resp.Body.Close()

			var items []struct {
				ID int64 `json:"id"`
			}
			require.NoError(t, json.Unmarshal(body, &items))
			require.Len(t, items, 1)

			deleteURL := fmt.Sprintf("%s%s/%d", srvURL, RequestsURL, items[0].ID)
			resp = do(t, http.MethodDelete, deleteURL, "", otherAccess, otherImprint)
			body, err = io.ReadAll(resp.Body)
			require.NoError(t, err)
			_ = resp.Body.Close()

			require.Equalf(t, http.StatusForbidden, resp.StatusCode, "not expected code. Body: %s", string(body))
			require.Contains(t, string(body), "PERMISSION_DENIED")
		})
	})

	t.Run("unknown request kind fails", func(t *testing.T) {
		integration.RunTx(pg.Pool, t, func(srvURL string, s integration.Services) {
			access, imprint := loginUser(t, s, "kinds@example.com")

			resp := do(t, http.MethodGet, srvURL+RequestsURL+"?kind=unknown", "", access, imprint)
			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			_ = resp.Body.Close()

			require.Equalf(t, http.StatusBadRequest, resp.StatusCode, "not expected code. Body: %s", string(body))
			require.Contains(t, string(body), "INVALID_REQUEST_KIND")
		})
	})
}
