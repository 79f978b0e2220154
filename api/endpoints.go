package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/pkg/errors"
)

// Route paths for the backend API.
const (
	RouteAuthLogin       = "/api/auth/login"
	RouteAuthRegister    = "/api/auth/register"
	RouteAuthMe          = "/api/auth/me"
	RouteAuthOrg         = "/api/auth/org"
	RouteAuthUsers       = "/api/auth/users"
	RouteAuthStores      = "/api/auth/stores"
	RouteAuthCredentials = "/api/auth/credentials"

	RouteFilesUpload    = "/api/files/upload"
	RouteFilesList      = "/api/files/list"
	RouteFiles          = "/api/files"
	RouteFilesCountries = "/api/files/countries"

	RouteOpsDashboard        = "/api/ops/dashboard"
	RouteOpsWheel            = "/api/ops/wheel"
	RouteOpsBerry            = "/api/ops/berry"
	RouteOpsShip             = "/api/ops/ship"
	RouteOpsExpenses         = "/api/ops/expenses"
	RouteOpsAlerts           = "/api/ops/alerts"
	RouteOpsProductMappings  = "/api/ops/product-mappings"
	RouteOpsCampaignMappings = "/api/ops/campaign-mappings"

	RouteAdsFBAccounts     = "/api/ads/fb/accounts"
	RouteAdsFBInsights     = "/api/ads/fb/insights"
	RouteAdsFBDailySpend   = "/api/ads/fb/daily-spend"
	RouteAdsFBSaveAccounts = "/api/ads/fb/save-accounts"

	RouteCurrencyRates = "/api/currency/rates"
)

// Login exchanges credentials for a bearer token. The call is exempt from
// the forced-expiry handling: a 401 here is a credential rejection and
// leaves the stored session untouched. The returned token is NOT stored;
// that is the auth controller's decision.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	body := map[string]string{"email": email, "password": password}
	var resp struct {
		Token string `json:"token"`
	}
	if err := c.post(ctx, RouteAuthLogin, body, &resp, asLoginAttempt()); err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", errors.Wrap(ErrMalformedResponse, "login response carried no token")
	}
	return resp.Token, nil
}

// Register creates an organization and its first user. Same exemption and
// token-handling contract as Login.
func (c *Client) Register(ctx context.Context, form RegisterForm) (string, error) {
	var resp struct {
		Token string `json:"token"`
	}
	if err := c.post(ctx, RouteAuthRegister, form, &resp, asLoginAttempt()); err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", errors.Wrap(ErrMalformedResponse, "register response carried no token")
	}
	return resp.Token, nil
}

func (c *Client) Me(ctx context.Context) (*User, error) {
	var user User
	if err := c.get(ctx, RouteAuthMe, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) Org(ctx context.Context) (*Organization, error) {
	var org Organization
	if err := c.get(ctx, RouteAuthOrg, nil, &org); err != nil {
		return nil, err
	}
	return &org, nil
}

func (c *Client) UpdateOrg(ctx context.Context, update OrgUpdate) (*Organization, error) {
	var org Organization
	if err := c.patch(ctx, RouteAuthOrg, update, &org); err != nil {
		return nil, err
	}
	return &org, nil
}

func (c *Client) Users(ctx context.Context) ([]User, error) {
	var users []User
	if err := c.get(ctx, RouteAuthUsers, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *Client) CreateUser(ctx context.Context, user NewUser) error {
	return c.post(ctx, RouteAuthUsers, user, nil)
}

func (c *Client) Stores(ctx context.Context) ([]StoreFront, error) {
	var stores []StoreFront
	if err := c.get(ctx, RouteAuthStores, nil, &stores); err != nil {
		return nil, err
	}
	return stores, nil
}

func (c *Client) CreateStore(ctx context.Context, store NewStoreFront) error {
	return c.post(ctx, RouteAuthStores, store, nil)
}

func (c *Client) Credentials(ctx context.Context) ([]Credential, error) {
	var creds []Credential
	if err := c.get(ctx, RouteAuthCredentials, nil, &creds); err != nil {
		return nil, err
	}
	return creds, nil
}

func (c *Client) SaveCredential(ctx context.Context, cred NewCredential) error {
	return c.post(ctx, RouteAuthCredentials, cred, nil)
}

func (c *Client) DeleteCredential(ctx context.Context, id int64) error {
	return c.delete(ctx, fmt.Sprintf("%s/%d", RouteAuthCredentials, id))
}

func (c *Client) Files(ctx context.Context) ([]FileInfo, error) {
	var files []FileInfo
	if err := c.get(ctx, RouteFilesList, nil, &files); err != nil {
		return nil, err
	}
	return files, nil
}

func (c *Client) DeleteFile(ctx context.Context, id int64) error {
	return c.delete(ctx, fmt.Sprintf("%s/%d", RouteFiles, id))
}

// Countries lists the countries present in the uploaded data, used to
// populate the country filter.
func (c *Client) Countries(ctx context.Context) ([]string, error) {
	var countries []string
	if err := c.get(ctx, RouteFilesCountries, nil, &countries); err != nil {
		return nil, err
	}
	return countries, nil
}

func (c *Client) Dashboard(ctx context.Context, params url.Values) (*DashboardReport, error) {
	var report DashboardReport
	if err := c.get(ctx, RouteOpsDashboard, params, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

func (c *Client) Wheel(ctx context.Context, params url.Values) (*WheelReport, error) {
	var report WheelReport
	if err := c.get(ctx, RouteOpsWheel, params, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

func (c *Client) Berry(ctx context.Context, params url.Values) (*BerryReport, error) {
	var report BerryReport
	if err := c.get(ctx, RouteOpsBerry, params, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

func (c *Client) Ship(ctx context.Context, params url.Values) (*ShipReport, error) {
	var report ShipReport
	if err := c.get(ctx, RouteOpsShip, params, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

func (c *Client) AddExpense(ctx context.Context, expense Expense) error {
	return c.post(ctx, RouteOpsExpenses, expense, nil)
}

func (c *Client) DeleteExpense(ctx context.Context, id int64) error {
	return c.delete(ctx, fmt.Sprintf("%s/%d", RouteOpsExpenses, id))
}

// ResolveAlert marks an alert as handled. Pages re-fetch their report after
// a successful resolve.
func (c *Client) ResolveAlert(ctx context.Context, id int64) error {
	return c.patch(ctx, fmt.Sprintf("%s/%d/resolve", RouteOpsAlerts, id), nil, nil)
}

func (c *Client) ProductMappings(ctx context.Context, country string) ([]ProductMapping, error) {
	params := url.Values{}
	params.Set("country", country)
	var mappings []ProductMapping
	if err := c.get(ctx, RouteOpsProductMappings, params, &mappings); err != nil {
		return nil, err
	}
	return mappings, nil
}

func (c *Client) SaveProductMappings(ctx context.Context, mappings []ProductMapping) error {
	return c.post(ctx, RouteOpsProductMappings, mappings, nil)
}

func (c *Client) CampaignMappings(ctx context.Context) ([]CampaignMapping, error) {
	var mappings []CampaignMapping
	if err := c.get(ctx, RouteOpsCampaignMappings, nil, &mappings); err != nil {
		return nil, err
	}
	return mappings, nil
}

func (c *Client) SaveCampaignMappings(ctx context.Context, mappings []CampaignMapping) error {
	return c.post(ctx, RouteOpsCampaignMappings, mappings, nil)
}

func (c *Client) FBAccounts(ctx context.Context) ([]AdAccount, error) {
	var list adAccountList
	if err := c.get(ctx, RouteAdsFBAccounts, nil, &list); err != nil {
		return nil, err
	}
	return list.Accounts, nil
}

func (c *Client) FBInsights(ctx context.Context, params url.Values) (*AdInsights, error) {
	var insights AdInsights
	if err := c.get(ctx, RouteAdsFBInsights, params, &insights); err != nil {
		return nil, err
	}
	return &insights, nil
}

func (c *Client) FBDailySpend(ctx context.Context, params url.Values) ([]DailySpend, error) {
	var spend []DailySpend
	if err := c.get(ctx, RouteAdsFBDailySpend, params, &spend); err != nil {
		return nil, err
	}
	return spend, nil
}

func (c *Client) SaveFBAccounts(ctx context.Context, accountIDs []string) error {
	body := map[string][]string{"account_ids": accountIDs}
	return c.post(ctx, RouteAdsFBSaveAccounts, body, nil)
}

func (c *Client) Rates(ctx context.Context, base string) (*RateTable, error) {
	params := url.Values{}
	params.Set("base", base)
	var table RateTable
	if err := c.get(ctx, RouteCurrencyRates, params, &table); err != nil {
		return nil, err
	}
	return &table, nil
}
