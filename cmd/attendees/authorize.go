package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	slogecho "github.com/samber/slog-echo"
	"github.com/urfave/cli/v2"

	meetup "github.com/meetup-tools/attendee-sync"
	"github.com/meetup-tools/attendee-sync/internal/config"
)

var runAuthorize = &cli.Command{
	Name:  "authorize",
	Usage: "run the interactive authorization-code fallback flow",
	Flags: append([]cli.Flag{
		&cli.StringFlag{
			Name:  "listen",
			Usage: "address for the local callback server",
			Value: "127.0.0.1:7070",
		},
		&cli.DurationFlag{
			Name:  "wait",
			Usage: "how long to wait for the authorization callback",
			Value: 5 * time.Minute,
		},
	}, storeFlags...),
	Action: authorizeAction,
}

func authorizeAction(cmd *cli.Context) error {
	log := slog.Default()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	store, err := newStore(cmd)
	if err != nil {
		return err
	}

	client, err := meetup.NewClient(meetup.ClientArgs{
		ClientKey:    cfg.ClientKey,
		ClientSecret: cfg.ClientSecret,
	})
	if err != nil {
		return err
	}

	listen := cmd.String("listen")
	state := uuid.NewString()
	redirectURI := fmt.Sprintf("http://%s/callback", listen)

	done := make(chan error, 1)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(slogecho.New(log))

	e.GET("/callback", func(c echo.Context) error {
		if c.QueryParam("state") != state {
			done <- fmt.Errorf("callback state did not match")
			return c.String(http.StatusBadRequest, "state mismatch")
		}

		code := c.QueryParam("code")
		if code == "" {
			done <- fmt.Errorf("callback carried no authorization code")
			return c.String(http.StatusBadRequest, "missing code")
		}

		pair, err := client.ExchangeAuthorizationCode(c.Request().Context(), code)
		if err != nil {
			done <- err
			return c.String(http.StatusBadGateway, "token exchange failed")
		}

		if err := store.Save(pair); err != nil {
			done <- err
			return c.String(http.StatusInternalServerError, "could not save tokens")
		}

		done <- nil
		return c.String(http.StatusOK, "authorization complete, you can close this tab")
	})

	go func() {
		if err := e.Start(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
			done <- err
		}
	}()

	fmt.Println("open this url in your browser to authorize:")
	fmt.Println(client.AuthorizeURL(redirectURI, state))

	select {
	case err = <-done:
	case <-time.After(cmd.Duration("wait")):
		err = fmt.Errorf("timed out waiting for the authorization callback")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if serr := e.Shutdown(shutdownCtx); serr != nil && err == nil {
		err = serr
	}

	if err != nil {
		return err
	}

	log.Info("tokens saved", "store", cmd.String("tokens"))

	return nil
}
