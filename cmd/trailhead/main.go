/*
Command trailhead runs a small trailhead app.

Run directly, it begins a web server; cf. [ranger.Ranger.Guide].
Run by a web server as a CGI script, it handles the one request it was invoked for
and exits with the status of handling it.
Named with an "nph-" prefix, it writes the status line itself.
*/
package main

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cgi"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xy-planning-network/trailhead"
	"github.com/xy-planning-network/trailhead/bundle"
	"github.com/xy-planning-network/trailhead/config"
	"github.com/xy-planning-network/trailhead/http/req"
	"github.com/xy-planning-network/trailhead/http/resp"
	"github.com/xy-planning-network/trailhead/http/router"
	"github.com/xy-planning-network/trailhead/http/session"
	"github.com/xy-planning-network/trailhead/logger"
	"github.com/xy-planning-network/trailhead/ranger"
)

//go:embed views
var views embed.FS

type signup struct {
	Email string `schema:"email" validate:"required,email"`
	Name  string `schema:"name" validate:"required"`
}

func main() {
	if err := config.LoadEnv(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	rng, err := ranger.New(ranger.WithViews(views), ranger.WithBundles(application(), admin()))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if _, ok := os.LookupEnv("GATEWAY_INTERFACE"); ok {
		os.Exit(serveCGI(rng, filepath.Base(os.Args[0]), cgiEnv(), os.Stdin, os.Stdout))
	}

	if err := rng.Guide(); err != nil {
		os.Exit(1)
	}
}

func cgiEnv() map[string]string {
	env := make(map[string]string)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			env[k] = v
		}
	}

	return env
}

// serveCGI handles the request described by the CGI variables in env,
// returning the exit status of running it.
// Scripts named with an "nph-" prefix write the status line themselves.
func serveCGI(rng *ranger.Ranger, name string, env map[string]string, stdin io.Reader, stdout io.Writer) int {
	r, err := cgi.RequestFromMap(env)
	if err != nil {
		rng.Logger().Error(err.Error(), nil)
		return 1
	}

	if r.ContentLength > 0 {
		r.Body = io.NopCloser(io.LimitReader(stdin, r.ContentLength))
	}

	t := resp.NewCGITransport(stdout)
	if strings.HasPrefix(name, "nph-") {
		t = resp.NewStreamTransport(stdout, r.Proto)
	}

	code := rng.Run(t, r)
	if err := t.Flush(); err != nil {
		rng.Logger().Error(err.Error(), &logger.LogContext{Caller: logger.CurrentCaller()})
		return 1
	}

	return code
}

func application() bundle.Bundle {
	return bundle.Bundle{
		Name: bundle.DefaultBundle,
		Routes: func(rt *router.Router) {
			rt.Get("/", welcome)
			rt.Get("/time", now)
			rt.Post("/signup", signUp)
		},
	}
}

func admin() bundle.Bundle {
	return bundle.Bundle{
		Name:     "admin",
		Location: "views/admin",
		Boot: func(h bundle.Host) error {
			h.Logger().Debug("admin bundle started", nil)
			return nil
		},
		Routes: func(rt *router.Router) {
			rt.Get("/dashboard", func(c *req.Context) (any, error) {
				return c.Responder.View("admin::dashboard", nil)
			})
		},
	}
}

func welcome(c *req.Context) (any, error) {
	greeting := "Welcome"
	if name := c.Get("name"); name != "" {
		greeting += ", " + name
	}

	flashes := session.Wrap(c.Session).Flashes()
	if len(flashes) > 0 {
		greeting += ". " + flashes[0].Msg
	}

	return c.Responder.View("trailhead::welcome", greeting)
}

func now(c *req.Context) (any, error) {
	return c.Now().Format(time.RFC3339), nil
}

func signUp(c *req.Context) (any, error) {
	var s signup
	err := c.Bind(&s)

	var verrs req.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		b, err := json.Marshal(verrs)
		if err != nil {
			return nil, err
		}

		return c.Responder.Make(
			b,
			resp.Code(http.StatusUnprocessableEntity),
			resp.Headers(map[string]string{"Content-Type": "application/json"}),
		), nil
	case errors.Is(err, trailhead.ErrBadAny):
		return nil, err
	case err != nil:
		return c.Responder.Status(http.StatusBadRequest), nil
	}

	session.Wrap(c.Session).AddFlash(session.Flash{Class: session.FlashSuccess, Msg: "Thanks for signing up, " + s.Name})

	return c.Responder.Redirect("/", http.StatusSeeOther), nil
}
