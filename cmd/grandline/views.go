package main

import (
	"context"
	"fmt"
	"sort"

	"github.com/Tabo-ecom/grandline-go/api"
	"github.com/Tabo-ecom/grandline-go/view"
)

// renderLoader runs one fetch through the tri-state loader and prints the
// outcome, mirroring the Loading / Error / Ready-or-Empty contract.
func renderLoader[T any](ctx context.Context, loader *view.Loader[T], fetch func(context.Context) (T, error), render func(T)) error {
	loader.Load(ctx, fetch)

	snap := loader.Snapshot()
	switch snap.Phase {
	case view.PhaseError:
		return fmt.Errorf("could not load view: %w", snap.Err)
	case view.PhaseReady:
		if snap.Empty {
			fmt.Println("No data yet. Upload your first orders file to see this view.")
			return nil
		}
		render(snap.Data)
		return nil
	}
	return fmt.Errorf("view stuck in %s", snap.Phase)
}

func (app *application) dashboard(ctx context.Context, args []string) error {
	if err := app.requireAuth(); err != nil {
		return err
	}
	filters, err := parseFilters("dashboard", args)
	if err != nil {
		return err
	}

	loader := view.NewLoader(view.WithEmptyCheck((*api.DashboardReport).Empty))
	return renderLoader(ctx, loader,
		func(ctx context.Context) (*api.DashboardReport, error) {
			return app.client.Dashboard(ctx, filters.Params())
		},
		func(report *api.DashboardReport) {
			k := report.KPIs
			fmt.Printf("Command Center, last %d days\n\n", filters.Days())
			fmt.Printf("  Gross revenue:    %12.2f\n", k.GrossRevenue)
			fmt.Printf("  Orders shipped:   %12d\n", k.NTotal)
			fmt.Printf("  Orders delivered: %12d  (%.1f%% rate)\n", k.NDelivered, k.DeliveryRate)
			fmt.Printf("  Net real profit:  %12.2f  (%.1f%% margin)\n\n", k.RealProfit, k.MarginPct)
			printAlerts(report.Alerts)
		})
}

func printAlerts(groups *api.AlertGroups) {
	if groups == nil {
		return
	}
	for _, group := range []struct {
		title  string
		alerts []api.Alert
	}{
		{"FINANCE", groups.Finance},
		{"LOGISTICS", groups.Logistics},
		{"ADS", groups.Ads},
	} {
		if len(group.alerts) == 0 {
			continue
		}
		fmt.Printf("  %s alerts:\n", group.title)
		for _, a := range group.alerts {
			fmt.Printf("    [%d] (%s) %s\n", a.ID, a.Severity, a.Message)
		}
	}
}

func (app *application) resolveAlert(ctx context.Context, args []string) error {
	if err := app.requireAuth(); err != nil {
		return err
	}
	id, err := parseID(args, "resolve-alert")
	if err != nil {
		return err
	}
	if err := app.client.ResolveAlert(ctx, id); err != nil {
		return err
	}
	fmt.Printf("Alert %d resolved.\n\n", id)
	// Mutations are followed by an immediate re-fetch of the owning view.
	return app.dashboard(ctx, nil)
}

func (app *application) wheel(ctx context.Context, args []string) error {
	if err := app.requireAuth(); err != nil {
		return err
	}
	filters, err := parseFilters("wheel", args)
	if err != nil {
		return err
	}

	loader := view.NewLoader(view.WithEmptyCheck(func(r *api.WheelReport) bool {
		return r == nil || r.KPIs == nil
	}))
	return renderLoader(ctx, loader,
		func(ctx context.Context) (*api.WheelReport, error) {
			return app.client.Wheel(ctx, filters.Params())
		},
		func(report *api.WheelReport) {
			fmt.Printf("Revenue Wheel, last %d days\n\n", filters.Days())
			fmt.Printf("  Net revenue: %12.2f\n", report.KPIs.NetRevenue)
			fmt.Printf("  AOV:         %12.2f\n", report.KPIs.AOV)
			if v := report.Velocity; v != nil {
				fmt.Printf("  Velocity:    %12.2f/day  (%.0f orders/day)\n", v.AvgDailyRevenue, v.AvgDailyOrders)
			}
			if g := report.MonthlyGoal; g != nil {
				track := "behind pace"
				if g.OnTrack {
					track = "on track"
				}
				fmt.Printf("  Monthly goal: %d days left, %s\n", g.DaysLeft, track)
			}
		})
}

func (app *application) berry(ctx context.Context, args []string) error {
	if err := app.requireAuth(); err != nil {
		return err
	}
	filters, err := parseFilters("berry", args)
	if err != nil {
		return err
	}

	loader := view.NewLoader(view.WithEmptyCheck(func(r *api.BerryReport) bool {
		return r == nil || r.KPIs == nil
	}))
	return renderLoader(ctx, loader,
		func(ctx context.Context) (*api.BerryReport, error) {
			return app.client.Berry(ctx, filters.Params())
		},
		func(report *api.BerryReport) {
			fmt.Printf("Profitability, last %d days\n\n", filters.Days())
			fmt.Printf("  Net real profit: %12.2f  (%.1f%% margin)\n", report.KPIs.RealProfit, report.KPIs.MarginPct)
			fmt.Printf("  Fixed expenses:  %12.2f/month\n", report.ExpensesTotal)
			if len(report.Waterfall) > 0 {
				fmt.Println("  Waterfall:")
				for _, entry := range report.Waterfall {
					fmt.Printf("    %-24s %12.2f\n", entry.Name, entry.Value)
				}
			}
		})
}

func (app *application) ship(ctx context.Context, args []string) error {
	if err := app.requireAuth(); err != nil {
		return err
	}
	filters, err := parseFilters("ship", args)
	if err != nil {
		return err
	}

	loader := view.NewLoader(view.WithEmptyCheck(func(r *api.ShipReport) bool {
		return r == nil || r.Funnel == nil
	}))
	return renderLoader(ctx, loader,
		func(ctx context.Context) (*api.ShipReport, error) {
			return app.client.Ship(ctx, filters.Params())
		},
		func(report *api.ShipReport) {
			f := report.Funnel
			fmt.Printf("Logistics Funnel, last %d days\n\n", filters.Days())
			fmt.Printf("  Dispatched: %6d\n", f.Dispatched)
			fmt.Printf("  In transit: %6d\n", f.InTransit)
			fmt.Printf("  Delivered:  %6d\n", f.Delivered)
			fmt.Printf("  Returned:   %6d\n", f.Returned)
			if len(report.ByCity) > 0 {
				fmt.Println("\n  Top cities:")
				for i, city := range report.ByCity {
					if i == 8 {
						break
					}
					fmt.Printf("    %-20s %5d orders  %.1f%% delivered\n", city.City, city.Orders, city.DeliveryRate)
				}
			}
		})
}

func (app *application) ads(ctx context.Context, args []string) error {
	if err := app.requireAuth(); err != nil {
		return err
	}
	filters, err := parseFilters("ads", args)
	if err != nil {
		return err
	}

	loader := view.NewLoader(view.WithEmptyCheck(func(r *api.AdInsights) bool {
		return r == nil || len(r.Campaigns) == 0
	}))
	return renderLoader(ctx, loader,
		func(ctx context.Context) (*api.AdInsights, error) {
			return app.client.FBInsights(ctx, filters.Params())
		},
		func(insights *api.AdInsights) {
			var totalSpend float64
			for _, c := range insights.Campaigns {
				totalSpend += c.Spend
			}
			fmt.Printf("Ads, last %d days\n\n", filters.Days())
			fmt.Printf("  Total spend: %12.2f\n", totalSpend)
			if totalSpend > 0 && insights.TotalRevenue > 0 {
				fmt.Printf("  Global ROAS: %11.1fx\n", insights.TotalRevenue/totalSpend)
			}
			fmt.Printf("  Campaigns:   %12d\n\n", len(insights.Campaigns))

			campaigns := append([]api.Campaign(nil), insights.Campaigns...)
			sort.Slice(campaigns, func(i, j int) bool { return campaigns[i].ROAS > campaigns[j].ROAS })
			for _, c := range campaigns {
				fmt.Printf("  %-32s spend %10.2f  CPA %8.2f  ROAS %.1fx\n", c.CampaignName, c.Spend, c.CPA, c.ROAS)
			}
		})
}

func (app *application) spend(ctx context.Context, args []string) error {
	if err := app.requireAuth(); err != nil {
		return err
	}
	filters, err := parseFilters("spend", args)
	if err != nil {
		return err
	}

	loader := view.NewLoader(view.WithEmptyCheck(func(entries []api.DailySpend) bool {
		return len(entries) == 0
	}))
	return renderLoader(ctx, loader,
		func(ctx context.Context) ([]api.DailySpend, error) {
			return app.client.FBDailySpend(ctx, filters.Params())
		},
		func(entries []api.DailySpend) {
			fmt.Printf("Daily ad spend, last %d days\n\n", filters.Days())
			for _, e := range entries {
				fmt.Printf("  %s  %10.2f\n", e.Date, e.Spend)
			}
		})
}
