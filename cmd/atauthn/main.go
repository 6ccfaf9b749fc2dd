package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/bluesky-social/atauthn/identity"
	"github.com/bluesky-social/atauthn/oauth"

	"github.com/carlmjohnson/versioninfo"
	cli "github.com/urfave/cli/v2"
)

func main() {
	if err := run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(-1)
	}
}

func run(args []string) error {

	app := cli.App{
		Name:    "atauthn",
		Usage:   "atproto OAuth login bootstrap tool",
		Version: versioninfo.Short(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "username",
				Aliases:  []string{"u"},
				Usage:    "account to log in as (handle or DID)",
				Required: true,
				EnvVars:  []string{"ATAUTHN_USERNAME", "USERNAME"},
			},
			&cli.StringFlag{
				Name:    "app-url",
				Usage:   "hostname the client metadata and callback are served from",
				Value:   "localhost",
				EnvVars: []string{"ATAUTHN_APP_URL", "APP_URL"},
			},
			&cli.StringFlag{
				Name:    "plc-host",
				Usage:   "method, hostname, and port of PLC registry",
				Value:   identity.DefaultPLCURL,
				EnvVars: []string{"ATP_PLC_HOST"},
			},
			&cli.StringFlag{
				Name:    "scope",
				Usage:   "space-separated OAuth scopes to request",
				Value:   oauth.DefaultScope,
				EnvVars: []string{"ATAUTHN_SCOPE"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "log verbosity level (eg: warn, info, debug)",
				Value:   "info",
				EnvVars: []string{"ATAUTHN_LOG_LEVEL", "GO_LOG_LEVEL", "LOG_LEVEL"},
			},
		},
		Action: runAuthFlow,
	}
	return app.Run(args)
}

func configLogger(cctx *cli.Context) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cctx.String("log-level")) {
	case "error":
		level = slog.LevelError
	case "warn":
		level = slog.LevelWarn
	case "debug":
		level = slog.LevelDebug
	default:
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
	return logger
}

func runAuthFlow(cctx *cli.Context) error {
	ctx := context.Background()
	logger := configLogger(cctx)

	dir := identity.DefaultDirectory()
	if plcHost := cctx.String("plc-host"); plcHost != identity.DefaultPLCURL {
		res := identity.NewResolver()
		res.PLCURL = plcHost
		cache := identity.NewCacheDirectory(res, 10_000, time.Hour*24, time.Minute*2)
		dir = &cache
	}

	app := oauth.NewClientApp(cctx.String("app-url"))
	app.Scope = cctx.String("scope")
	app.Dir = dir
	app.Logger = logger

	res, err := app.StartAuthFlow(ctx, cctx.String("username"))
	if err != nil {
		return err
	}

	fmt.Printf("DID:\t\t%s\n", res.DID)
	fmt.Printf("PDS:\t\t%s\n", res.PDSURL)
	fmt.Printf("Auth Server:\t%s\n", res.AuthServer.Issuer)
	fmt.Printf("State:\t\t%s\n", res.State)
	fmt.Printf("PKCE Verifier:\t%s\n", res.PKCEVerifier)
	fmt.Printf("Request URI:\t%s (expires in %ds)\n", res.RequestURI, res.ExpiresIn)
	fmt.Println()
	fmt.Println("Open this URL in a browser to continue the login:")
	fmt.Println(res.AuthorizationURL)
	return nil
}
