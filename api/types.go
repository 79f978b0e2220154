package api

import "encoding/json"

// User is the authenticated identity returned by /api/auth/me.
type User struct {
	ID          int64  `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
}

// Organization is the tenant scoping all business data to one account.
type Organization struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	MainCurrency string `json:"main_currency"`
}

// OrgUpdate carries the mutable organization fields for PATCH /api/auth/org.
// Nil fields are omitted and left untouched by the backend.
type OrgUpdate struct {
	Name         *string `json:"name,omitempty"`
	MainCurrency *string `json:"main_currency,omitempty"`
}

// RegisterForm is the self-service registration payload.
type RegisterForm struct {
	Email        string `json:"email"`
	Password     string `json:"password"`
	DisplayName  string `json:"display_name"`
	OrgName      string `json:"org_name"`
	MainCurrency string `json:"main_currency"`
}

// NewUser is the payload for inviting a user into the organization.
type NewUser struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
}

// StoreFront is a connected sales channel.
type StoreFront struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// NewStoreFront registers a sales channel.
type NewStoreFront struct {
	Name string `json:"name"`
}

// Credential is a stored third-party platform token (e.g. Facebook).
type Credential struct {
	ID       int64          `json:"id"`
	Platform string         `json:"platform"`
	Label    string         `json:"label"`
	Extra    map[string]any `json:"extra_data"`
}

// NewCredential is the payload for saving a platform credential. Label and
// Extra are optional and sent as null when empty.
type NewCredential struct {
	Platform string         `json:"platform"`
	Token    string         `json:"token"`
	Label    *string        `json:"label"`
	Extra    map[string]any `json:"extra_data"`
}

// FileInfo describes an uploaded orders file.
type FileInfo struct {
	ID       int64  `json:"id"`
	FileName string `json:"file_name"`
	Country  string `json:"country"`
	RowCount int    `json:"row_count"`
	DateMin  string `json:"date_min"`
	DateMax  string `json:"date_max"`
}

// UploadResult is the outcome of an orders-file upload. The backend has
// reported the inserted row count under two different keys across versions;
// both decode into Rows.
type UploadResult struct {
	FileID  int64
	Rows    int
	Country string
}

func (r *UploadResult) UnmarshalJSON(data []byte) error {
	var raw struct {
		FileID       int64  `json:"file_id"`
		RowsInserted int    `json:"rows_inserted"`
		RowCount     int    `json:"row_count"`
		Country      string `json:"country"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	r.FileID = raw.FileID
	r.Rows = raw.RowsInserted
	if r.Rows == 0 {
		r.Rows = raw.RowCount
	}
	r.Country = raw.Country
	return nil
}

// DashboardReport is the command-center payload. A nil KPIs block or a zero
// total order count signals an empty window.
type DashboardReport struct {
	KPIs           *DashboardKPIs `json:"kpis"`
	DailyBreakdown []DailyEntry   `json:"daily_breakdown"`
	Alerts         *AlertGroups   `json:"alerts"`
}

// Empty reports whether the window holds no order data.
func (r *DashboardReport) Empty() bool {
	return r == nil || r.KPIs == nil || r.KPIs.NTotal == 0
}

type DashboardKPIs struct {
	GrossRevenue float64 `json:"gross_revenue"`
	NTotal       int     `json:"n_total"`
	NDelivered   int     `json:"n_delivered"`
	NTransit     int     `json:"n_transit"`
	NReturned    int     `json:"n_returned"`
	NCancelled   int     `json:"n_cancelled"`
	DeliveryRate float64 `json:"delivery_rate"`
	RealProfit   float64 `json:"real_profit"`
	MarginPct    float64 `json:"margin_pct"`
}

type DailyEntry struct {
	Date         string  `json:"date"`
	GrossRevenue float64 `json:"gross_revenue"`
	RealProfit   float64 `json:"real_profit"`
}

type AlertGroups struct {
	Finance   []Alert `json:"finance"`
	Logistics []Alert `json:"logistics"`
	Ads       []Alert `json:"ads"`
}

type Alert struct {
	ID       int64  `json:"id"`
	Message  string `json:"message"`
	Severity string `json:"severity"`
}

// WheelReport is the revenue-velocity payload.
type WheelReport struct {
	KPIs           *WheelKPIs   `json:"kpis"`
	Velocity       *Velocity    `json:"velocity"`
	MonthlyGoal    *MonthlyGoal `json:"monthly_goal"`
	DailyBreakdown []DailyEntry `json:"daily_breakdown"`
}

type WheelKPIs struct {
	NetRevenue float64 `json:"net_revenue"`
	AOV        float64 `json:"aov"`
}

type Velocity struct {
	AvgDailyRevenue float64 `json:"avg_daily_revenue"`
	AvgDailyOrders  float64 `json:"avg_daily_orders"`
}

type MonthlyGoal struct {
	DaysLeft int  `json:"days_left"`
	OnTrack  bool `json:"on_track"`
}

// BerryReport is the profitability payload.
type BerryReport struct {
	KPIs          *BerryKPIs       `json:"kpis"`
	Waterfall     []WaterfallEntry `json:"waterfall"`
	ExpensesTotal float64          `json:"expenses_total"`
}

type BerryKPIs struct {
	RealProfit float64 `json:"real_profit"`
	MarginPct  float64 `json:"margin_pct"`
}

type WaterfallEntry struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// ShipReport is the logistics funnel payload.
type ShipReport struct {
	Funnel *ShipFunnel `json:"funnel"`
	ByCity []CityStat  `json:"by_city"`
}

type ShipFunnel struct {
	Dispatched int `json:"dispatched"`
	InTransit  int `json:"in_transit"`
	Delivered  int `json:"delivered"`
	Returned   int `json:"returned"`
}

type CityStat struct {
	City         string  `json:"city"`
	Orders       int     `json:"orders"`
	DeliveryRate float64 `json:"delivery_rate"`
}

// Expense is a recurring fixed cost tracked against profit.
type Expense struct {
	Concept string  `json:"concept"`
	Amount  float64 `json:"amount"`
}

// ProductMapping links a spreadsheet product name to a product group.
type ProductMapping struct {
	Product string `json:"product"`
	Group   string `json:"group"`
	Country string `json:"country"`
}

// CampaignMapping links an ad campaign to a product group.
type CampaignMapping struct {
	Campaign string `json:"campaign"`
	Group    string `json:"group"`
}

// AdInsights is the ad-performance payload.
type AdInsights struct {
	Campaigns    []Campaign `json:"campaigns"`
	TotalRevenue float64    `json:"total_revenue"`
}

type Campaign struct {
	CampaignName string  `json:"campaign_name"`
	Spend        float64 `json:"spend"`
	Purchases    int     `json:"purchases"`
	ROAS         float64 `json:"roas"`
	CPA          float64 `json:"cpa"`
}

type DailySpend struct {
	Date  string  `json:"date"`
	Spend float64 `json:"spend"`
}

// AdAccount is a Facebook ad account. The backend has served the id under
// both "id" and "account_id", and the name under both "name" and
// "account_name"; decoding normalizes to one shape.
type AdAccount struct {
	ID   string
	Name string
}

func (a *AdAccount) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID          string `json:"id"`
		AccountID   string `json:"account_id"`
		Name        string `json:"name"`
		AccountName string `json:"account_name"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	a.ID = raw.ID
	if a.ID == "" {
		a.ID = raw.AccountID
	}
	a.Name = raw.Name
	if a.Name == "" {
		a.Name = raw.AccountName
	}
	if a.Name == "" {
		a.Name = a.ID
	}
	return nil
}

// adAccountList tolerates both response envelopes: {"accounts": [...]} and
// a bare top-level array.
type adAccountList struct {
	Accounts []AdAccount
}

func (l *adAccountList) UnmarshalJSON(data []byte) error {
	var wrapped struct {
		Accounts []AdAccount `json:"accounts"`
	}
	if err := json.Unmarshal(data, &wrapped); err == nil {
		l.Accounts = wrapped.Accounts
		return nil
	}
	var bare []AdAccount
	if err := json.Unmarshal(data, &bare); err != nil {
		return err
	}
	l.Accounts = bare
	return nil
}

// RateTable holds currency conversion rates against a base currency.
type RateTable struct {
	Base  string             `json:"base"`
	Rates map[string]float64 `json:"rates"`
}
