package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/common-nighthawk/go-figure"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/Tabo-ecom/grandline-go/api"
	"github.com/Tabo-ecom/grandline-go/auth"
	"github.com/Tabo-ecom/grandline-go/internal/config"
	"github.com/Tabo-ecom/grandline-go/session/filestore"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatalf("Error: %s\n", err)
	}
}

func run(args []string) (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from panic: %v\n", r)
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	_ = godotenv.Load()
	c := config.New()

	logger := newLogger()
	tokens := filestore.New(c.GetTokenPath())

	var controller *auth.Controller
	client, err := api.New(
		c.GetAPIBaseURL(),
		tokens,
		api.WithHTTPClient(&http.Client{Timeout: c.GetHTTPTimeout()}),
		api.WithLogger(logger),
		api.WithBreaker(api.DefaultBreakerSettings("grandline-backend")),
		api.WithSessionExpiredFunc(func() {
			if controller != nil {
				controller.HandleSessionExpired()
			}
		}),
	)
	if err != nil {
		return fmt.Errorf("api.New: %w", err)
	}

	controller, err = auth.New(client, tokens, auth.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("auth.New: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if len(args) == 0 || args[0] == "help" {
		displayAppname(c.GetAppName())
		usage()
		return nil
	}

	if err := controller.Initialize(ctx); err != nil {
		return fmt.Errorf("controller.Initialize: %w", err)
	}

	app := &application{client: client, controller: controller, tokens: tokens}
	return app.dispatch(ctx, args[0], args[1:])
}

func newLogger() zerolog.Logger {
	// Keep terminal output clean unless asked for more.
	level := zerolog.WarnLevel
	if os.Getenv("GRANDLINE_VERBOSE") != "" {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}

func usage() {
	fmt.Print(`Usage: grandline <command> [flags]

Session:
  login <email>           authenticate (password read from stdin)
  register                create an organization and first user
  logout                  end the session
  whoami                  show the authenticated identity

Views (all accept -days 3|7|15|30 -country XX -store ID -group NAME):
  dashboard               command-center KPIs and alerts
  wheel                   revenue velocity
  berry                   profitability
  ship                    logistics funnel
  ads                     ad campaign insights
  spend                   daily ad spend

Data:
  upload <path>           upload an orders spreadsheet
  files                   list uploaded files
  delete-file <id>        delete an uploaded file
  resolve-alert <id>      resolve an alert and re-fetch the dashboard
  rates <base>            currency rates
`)
}

// promptLine reads one line from stdin, used for interactive credentials.
func promptLine(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
