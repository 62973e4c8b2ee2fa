package main

import (
	"flag"
	"log"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"

	"github.com/tfsdev/tfs/pager"
)

// volumeServer guards a Manager shared between the cron checkpoint job and
// the debug HTTP inspector. pager.Manager has no internal locking of its
// own (spec.md §6 leaves concurrency to the caller), so every access here
// goes through mu.
type volumeServer struct {
	mu   sync.Mutex
	m    *pager.Manager
	path string
}

func (v *volumeServer) checkpoint() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if err := v.m.Commit(); err != nil {
		log.Printf("checkpoint commit failed: %v", err)
	}
}

func (v *volumeServer) handleHealthz(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

func (v *volumeServer) handleSuperpage(c echo.Context) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	superpage, ok := v.m.Superpage()
	if !ok {
		return c.JSON(http.StatusOK, map[string]any{"superpage": nil})
	}
	return c.JSON(http.StatusOK, map[string]any{"superpage": superpage.String()})
}

func runServe(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	path := fs.String("path", "tfs.img", "volume file to serve")
	configPath := fs.String("config", "tfsctl.yaml", "YAML config file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return errors.Wrap(err, "load config")
	}

	m, raw, err := openVolume(*configPath, *path)
	if err != nil {
		return err
	}
	defer raw.Close()

	v := &volumeServer{m: m, path: *path}

	c := cron.New()
	if _, err := c.AddFunc(cfg.CheckpointEvery, v.checkpoint); err != nil {
		return errors.Wrapf(err, "schedule checkpoint %q", cfg.CheckpointEvery)
	}
	c.Start()
	defer c.Stop()

	e := echo.New()
	e.HideBanner = true
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Response().Header().Set("X-Request-Id", uuid.New().String())
			return next(c)
		}
	})
	e.GET("/healthz", v.handleHealthz)
	e.GET("/superpage", v.handleSuperpage)

	return e.Start(cfg.ListenAddr)
}
