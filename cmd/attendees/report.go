package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	meetup "github.com/meetup-tools/attendee-sync"
	"github.com/meetup-tools/attendee-sync/internal/config"
	"github.com/meetup-tools/attendee-sync/internal/reconcile"
	"github.com/meetup-tools/attendee-sync/internal/tokens"
)

var runReport = &cli.Command{
	Name:  "report",
	Usage: "fetch event tickets and produce the merged attendee report",
	Flags: append([]cli.Flag{
		&cli.StringFlag{
			Name:     "event-id",
			Usage:    "event to fetch tickets for",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "pro-network-id",
			Usage: "pro network id passed through to the query variables",
		},
		&cli.StringFlag{
			Name:  "query",
			Usage: "path to the graphql query document",
			Value: "query.graphql",
		},
		&cli.StringFlag{
			Name:     "roster",
			Usage:    "path to the roster csv export",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "first-name-column",
			Usage: "roster column holding first names",
			Value: reconcile.DefaultFirstNameColumn,
		},
		&cli.StringFlag{
			Name:  "last-name-column",
			Usage: "roster column holding last names",
			Value: reconcile.DefaultLastNameColumn,
		},
		&cli.StringFlag{
			Name:  "output-dir",
			Usage: "directory the report artifacts are written to",
			Value: "outputs",
		},
	}, storeFlags...),
	Action: reportAction,
}

func reportAction(cmd *cli.Context) error {
	ctx := cmd.Context
	log := slog.Default()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log.Info("loaded configuration", "config", cfg)

	store, err := newStore(cmd)
	if err != nil {
		return err
	}

	gateway, err := meetup.NewClient(meetup.ClientArgs{
		ClientKey:    cfg.ClientKey,
		ClientSecret: cfg.ClientSecret,
	})
	if err != nil {
		return err
	}

	queryClient := meetup.NewQueryClient(meetup.QueryClientArgs{})

	pair, err := loadTokens(ctx, cfg, store, gateway, queryClient, log)
	if err != nil {
		return err
	}

	queryText, err := os.ReadFile(cmd.String("query"))
	if err != nil {
		return fmt.Errorf("could not read query document: %w", err)
	}

	variables := map[string]any{
		"eventId": cmd.String("event-id"),
	}

	if pn := cmd.String("pro-network-id"); pn != "" {
		variables["proNetworkId"] = pn
	}

	doc, err := queryClient.Do(ctx, string(queryText), pair.AccessToken, variables)
	if err != nil {
		return err
	}

	now := time.Now()
	outputDir := cmd.String("output-dir")

	rawPath, err := reconcile.SaveJSON(outputDir, "event_response", doc, now)
	if err != nil {
		return err
	}

	log.Info("saved raw query response", "path", rawPath)

	if errs, ok := doc["errors"]; ok {
		return fmt.Errorf("graphql query returned errors: %v", errs)
	}

	tickets, err := reconcile.TicketsFromResponse(doc)
	if err != nil {
		return err
	}

	log.Info("extracted tickets", "count", len(tickets))

	roster, err := reconcile.LoadRosterCSV(cmd.String("roster"), reconcile.RosterOptions{
		FirstNameColumn: cmd.String("first-name-column"),
		LastNameColumn:  cmd.String("last-name-column"),
	})
	if err != nil {
		return err
	}

	log.Info("loaded roster", "rows", len(roster.Rows))

	report := reconcile.Merge(tickets, roster)

	csvPath, err := reconcile.SaveCSV(outputDir, "merged_attendees", report, now)
	if err != nil {
		return err
	}

	xlsxPath, err := reconcile.SaveExcel(outputDir, "merged_attendees", report, now)
	if err != nil {
		return err
	}

	log.Info("saved merged attendee report", "rows", len(report.Rows), "csv", csvPath, "xlsx", xlsxPath)

	return nil
}

// loadTokens returns a live token pair: the stored pair when it still probes
// valid (refreshing if needed), falling back to a fresh signed-assertion
// exchange when authorization is required.
func loadTokens(
	ctx context.Context,
	cfg *config.Config,
	store tokens.Store,
	gateway *meetup.Client,
	queryClient *meetup.QueryClient,
	log *slog.Logger,
) (*meetup.TokenPair, error) {
	manager := tokens.NewManager(store, queryClient, gateway, log)

	pair, err := manager.LoadValid(ctx)
	if err == nil {
		return pair, nil
	}

	if !errors.Is(err, meetup.ErrAuthorizationRequired) {
		return nil, err
	}

	log.Info("no usable stored tokens, exchanging signed assertion")

	builder, err := meetup.NewAssertionBuilder(meetup.AssertionBuilderArgs{
		ClientKey:      cfg.ClientKey,
		MemberID:       cfg.AuthorizedMemberID,
		SigningKeyID:   cfg.SigningKeyID,
		PrivateKeyPath: cfg.PrivateKeyPath,
	})
	if err != nil {
		return nil, err
	}

	assertion, err := builder.SignedAssertion()
	if err != nil {
		return nil, err
	}

	pair, err = gateway.ExchangeAssertion(ctx, assertion)
	if err != nil {
		return nil, fmt.Errorf("assertion exchange failed (run `attendees authorize` for the interactive flow): %w", err)
	}

	if err := store.Save(pair); err != nil {
		return nil, err
	}

	return pair, nil
}
