package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/Tabo-ecom/grandline-go/api"
	"github.com/Tabo-ecom/grandline-go/auth"
	"github.com/Tabo-ecom/grandline-go/filter"
	"github.com/Tabo-ecom/grandline-go/session"
)

type application struct {
	client     *api.Client
	controller *auth.Controller
	tokens     session.Repo
}

func (app *application) dispatch(ctx context.Context, command string, args []string) error {
	switch command {
	case "login":
		return app.login(ctx, args)
	case "register":
		return app.register(ctx)
	case "logout":
		app.controller.Logout()
		fmt.Println("Logged out.")
		return nil
	case "whoami":
		return app.whoami(ctx)
	case "dashboard":
		return app.dashboard(ctx, args)
	case "wheel":
		return app.wheel(ctx, args)
	case "berry":
		return app.berry(ctx, args)
	case "ship":
		return app.ship(ctx, args)
	case "ads":
		return app.ads(ctx, args)
	case "spend":
		return app.spend(ctx, args)
	case "upload":
		return app.upload(ctx, args)
	case "files":
		return app.files(ctx)
	case "delete-file":
		return app.deleteFile(ctx, args)
	case "resolve-alert":
		return app.resolveAlert(ctx, args)
	case "rates":
		return app.rates(ctx, args)
	default:
		usage()
		return fmt.Errorf("unknown command %q", command)
	}
}

func (app *application) requireAuth() error {
	if app.controller.State() != auth.StateAuthenticated {
		return fmt.Errorf("not logged in, run: grandline login <email>")
	}
	return nil
}

func (app *application) login(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: grandline login <email>")
	}
	password := os.Getenv("GRANDLINE_PASSWORD")
	if password == "" {
		var err error
		password, err = promptLine("Password: ")
		if err != nil {
			return err
		}
	}
	if err := app.controller.Login(ctx, args[0], password); err != nil {
		return err
	}
	user, org, _ := app.controller.Identity()
	fmt.Printf("Welcome %s (%s, %s)\n", user.DisplayName, org.Name, org.MainCurrency)
	return nil
}

func (app *application) register(ctx context.Context) error {
	var form api.RegisterForm
	for _, field := range []struct {
		prompt string
		dest   *string
	}{
		{"Email: ", &form.Email},
		{"Password: ", &form.Password},
		{"Display name: ", &form.DisplayName},
		{"Organization name: ", &form.OrgName},
		{"Main currency [COP]: ", &form.MainCurrency},
	} {
		value, err := promptLine(field.prompt)
		if err != nil {
			return err
		}
		*field.dest = value
	}
	if form.MainCurrency == "" {
		form.MainCurrency = "COP"
	}
	if err := app.controller.Register(ctx, form); err != nil {
		return err
	}
	user, org, _ := app.controller.Identity()
	fmt.Printf("Organization %s created. Welcome %s.\n", org.Name, user.DisplayName)
	return nil
}

func (app *application) whoami(ctx context.Context) error {
	if err := app.requireAuth(); err != nil {
		return err
	}
	user, org, _ := app.controller.Identity()
	fmt.Printf("User:         %s <%s> (%s)\n", user.DisplayName, user.Email, user.Role)
	fmt.Printf("Organization: %s (%s)\n", org.Name, org.MainCurrency)

	if token, err := app.tokens.Get(); err == nil && token != "" {
		if exp, err := session.Expiry(token); err == nil {
			fmt.Printf("Session ends: %s\n", exp.Local().Format("2006-01-02 15:04"))
		}
	}

	// Supplementary lists are best-effort and never block the page.
	if stores, err := app.client.Stores(ctx); err == nil && len(stores) > 0 {
		fmt.Println("Stores:")
		for _, s := range stores {
			fmt.Printf("  [%d] %s\n", s.ID, s.Name)
		}
	}
	if creds, err := app.client.Credentials(ctx); err == nil && len(creds) > 0 {
		fmt.Println("Credentials:")
		for _, c := range creds {
			fmt.Printf("  [%d] %s %s\n", c.ID, c.Platform, c.Label)
		}
	}
	return nil
}

func (app *application) upload(ctx context.Context, args []string) error {
	if err := app.requireAuth(); err != nil {
		return err
	}
	if len(args) < 1 {
		return fmt.Errorf("usage: grandline upload <path>")
	}
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	result, err := app.client.UploadOrders(ctx, filepath.Base(args[0]), f)
	if err != nil {
		return err
	}
	country := result.Country
	if country == "" {
		country = "Auto"
	}
	fmt.Printf("Uploaded: %d orders, country %s\n", result.Rows, country)
	return nil
}

func (app *application) files(ctx context.Context) error {
	if err := app.requireAuth(); err != nil {
		return err
	}
	files, err := app.client.Files(ctx)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Println("No files uploaded yet.")
		return nil
	}
	for _, f := range files {
		country := f.Country
		if country == "" {
			country = "-"
		}
		fmt.Printf("[%d] %s  %d orders  %s  %s → %s\n", f.ID, f.FileName, f.RowCount, country, f.DateMin, f.DateMax)
	}
	return nil
}

func (app *application) deleteFile(ctx context.Context, args []string) error {
	if err := app.requireAuth(); err != nil {
		return err
	}
	id, err := parseID(args, "delete-file")
	if err != nil {
		return err
	}
	if err := app.client.DeleteFile(ctx, id); err != nil {
		return err
	}
	fmt.Println("Deleted.")
	return app.files(ctx)
}

func (app *application) rates(ctx context.Context, args []string) error {
	if err := app.requireAuth(); err != nil {
		return err
	}
	base := "COP"
	if len(args) > 0 {
		base = args[0]
	}
	table, err := app.client.Rates(ctx, base)
	if err != nil {
		return err
	}
	fmt.Printf("Rates (base %s):\n", table.Base)
	for currency, rate := range table.Rates {
		fmt.Printf("  %s  %.4f\n", currency, rate)
	}
	return nil
}

// parseFilters consumes the shared view flags and returns the filter state.
func parseFilters(command string, args []string) (*filter.Filters, error) {
	fs := flag.NewFlagSet(command, flag.ContinueOnError)
	days := fs.Int("days", int(filter.Window3), "reporting window: 3, 7, 15 or 30 days")
	country := fs.String("country", "", "country filter")
	store := fs.String("store", "", "store id filter")
	group := fs.String("group", "", "product group filter")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	filters := filter.New()
	if err := filters.SetDays(filter.Window(*days)); err != nil {
		return nil, err
	}
	filters.SetCountry(*country)
	filters.SetStore(*store)
	filters.SetProductGroup(*group)
	return filters, nil
}

func parseID(args []string, command string) (int64, error) {
	if len(args) < 1 {
		return 0, fmt.Errorf("usage: grandline %s <id>", command)
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", args[0])
	}
	return id, nil
}
