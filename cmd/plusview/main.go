package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mbegonja/plusview/internal/api"
	"github.com/mbegonja/plusview/internal/config"
	"github.com/mbegonja/plusview/internal/controller"
	"github.com/mbegonja/plusview/internal/debug"
	"github.com/mbegonja/plusview/internal/filter"
	"github.com/mbegonja/plusview/internal/logging"
	"github.com/mbegonja/plusview/internal/model"
	"github.com/mbegonja/plusview/internal/render"
	"github.com/mbegonja/plusview/internal/store"
	"github.com/mbegonja/plusview/internal/ui"
)

func main() {
	apiFlag := flag.String("api", "", "API base URL (overrides config)")
	collectionFlag := flag.String("collection", "", "collection to browse (overrides config)")
	latest := flag.Int("latest", 0, "print the N most recent items and exit")
	offline := flag.Bool("offline", false, "browse the cached copy without touching the network")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *apiFlag != "" {
		cfg.API.BaseURL = *apiFlag
	}
	collection := cfg.API.DefaultCollection
	if *collectionFlag != "" {
		collection = *collectionFlag
	}
	timeout := time.Duration(cfg.API.TimeoutSeconds) * time.Second

	if err := logging.Init(); err != nil {
		log.Fatalf("Failed to initialize logging: %v", err)
	}
	defer logging.Close()

	client := api.NewClient(cfg.API.BaseURL, timeout)

	var cache *store.Store
	if cfg.Cache.Enabled || *offline {
		cache, err = store.Open(cfg.CachePath())
		if err != nil {
			if *offline {
				log.Fatalf("Failed to open cache: %v", err)
			}
			logging.Warn("Cache unavailable, continuing without it", "error", err)
		} else {
			defer cache.Close()
		}
	}

	if *latest > 0 {
		if err := printLatest(client, cache, collection, *latest, *offline, timeout); err != nil {
			log.Fatalf("Failed to load %s: %v", collection, err)
		}
		return
	}

	list := controller.NewList(collection, cfg.API.PageSize, logging.WithPrefix("controller"))
	events := debug.NewBuffer(debug.DefaultCapacity)

	// fetchPage: one page request, or a cache read in offline mode.
	// Offline serves the whole cached collection as a bare array, so
	// the controller runs in client mode with local filtering.
	fetchPage := func(req controller.Request) tea.Cmd {
		return func() tea.Msg {
			if *offline {
				items, cachedAt, err := cache.LoadCollection(req.Collection)
				if err != nil {
					return ui.PageFetched{Req: req, Err: err}
				}
				logging.Info("Serving cached collection",
					"collection", req.Collection, "items", len(items), "cached_at", cachedAt)
				return ui.PageFetched{Req: req, Page: &api.Page{Shape: api.ShapeBareArray, Items: items}}
			}

			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()
			page, err := client.FetchPage(ctx, req.Collection, req.Query)
			if err == nil && cache != nil && req.Initial && req.Query.Search == "" && len(req.Query.Tags) == 0 {
				if saveErr := cache.SaveCollection(req.Collection, page.Items); saveErr != nil {
					logging.Warn("Failed to update cache", "error", saveErr)
				}
			}
			// An unreachable site on the very first load falls back to
			// the cached copy when one exists.
			if err != nil && cache != nil && req.Initial {
				if items, cachedAt, cacheErr := cache.LoadCollection(req.Collection); cacheErr == nil && len(items) > 0 {
					logging.Warn("Initial fetch failed, serving cached copy",
						"collection", req.Collection, "cached_at", cachedAt, "error", err)
					return ui.PageFetched{Req: req, Page: &api.Page{Shape: api.ShapeBareArray, Items: items}}
				}
			}
			return ui.PageFetched{Req: req, Page: page, Err: err}
		}
	}

	// deleteItem: the admin delete, only reachable after an explicit
	// confirmation in the UI.
	deleteItem := func(collection, id string) tea.Cmd {
		return func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()
			err := client.Delete(ctx, collection, id)
			if err == nil && cache != nil {
				if cacheErr := cache.DeleteItem(collection, id); cacheErr != nil {
					logging.Warn("Failed to remove cached item", "id", id, "error", cacheErr)
				}
			}
			return ui.ItemDeleted{Collection: collection, ID: id, Err: err}
		}
	}

	app := ui.NewApp(list, fetchPage, deleteItem, ui.Options{
		Density:   cfg.UI.DensityMode,
		TagColors: cfg.UI.TagColors,
		Events:    events,
	})

	program := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		log.Printf("Error running program: %v", err)
	}
}

// printLatest dumps the n most recent items as plain text, the
// headless counterpart of the interactive browser.
func printLatest(client *api.Client, cache *store.Store, collection string, n int, offline bool, timeout time.Duration) error {
	var items []model.Item

	if offline {
		cached, _, err := cache.LoadCollection(collection)
		if err != nil {
			return err
		}
		items = cached
	} else {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		page, err := client.FetchPage(ctx, collection, api.Query{Page: 1, Limit: n, Sort: "date"})
		if err != nil {
			return err
		}
		items = page.Items
	}

	items = filter.SortItems(items, "date")
	if len(items) > n {
		items = items[:n]
	}

	text := render.NewText(os.Stdout, logging.Logger)
	if err := text.Render(items, render.Replace); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	return nil
}
