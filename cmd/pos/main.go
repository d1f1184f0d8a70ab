package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"fashionpos/internal/catalog"
	"fashionpos/internal/client"
	"fashionpos/internal/config"
	"fashionpos/internal/pos/cart"
	"fashionpos/internal/pos/checkout"
	"fashionpos/internal/pos/draft"
	"fashionpos/internal/pos/scan"
	"fashionpos/internal/pos/session"
	"fashionpos/internal/pos/substitute"
	"fashionpos/internal/printer"
	"fashionpos/internal/store"
)

func main() {
	var initialScan string
	flag.StringVar(&initialScan, "scan", "", "barcode to process at startup")
	flag.Parse()

	cfg := config.Load()
	logger := log.New(os.Stderr, "[pos] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	st, err := store.Open(cfg.StorePath, logger)
	if err != nil {
		logger.Fatalf("open local store: %v", err)
	}

	api := client.New(cfg.APIBaseURL, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	snapshot := catalog.NewSnapshot()
	refresher := catalog.NewRefresher(snapshot, api, cfg.CatalogRefresh, logger)
	if err := refresher.RefreshOnce(ctx); err != nil {
		logger.Printf("initial catalog fetch failed, selling from an empty snapshot: %v", err)
	}
	go refresher.Run(ctx)

	engine := cart.New(st, logger)
	engine.Restore()

	drafts := draft.New(st, logger)
	drafts.Restore()

	resolver := substitute.New(snapshot, engine)

	printers := []printer.Transport{
		printer.NewUSB(cfg.USBPrinterPath),
		printer.NewBluetooth(cfg.BTPrinterPath),
	}
	orchestrator := checkout.New(engine, drafts, api, printers, logger)

	sess := session.New(snapshot, engine, drafts, resolver, orchestrator, logger)

	// A dedicated scanner device feeds the cart directly; scans typed at the
	// terminal go through the session's scan command instead.
	var listener *scan.Listener
	if cfg.ScannerPath != "" {
		dev, err := os.Open(cfg.ScannerPath)
		if err != nil {
			logger.Printf("scanner %s unavailable: %v", cfg.ScannerPath, err)
		} else {
			defer dev.Close()
			decoder := scan.NewDecoder(cfg.ScanWindow, func(code string) {
				sess.Scan(code, os.Stdout)
			})
			gate := func() bool { return !orchestrator.Submitting() }
			listener = scan.NewListener(decoder, dev, gate, logger)
			go listener.Run(ctx)
		}
	}

	// A code captured before startup (a held label, a re-scan after a crash)
	// rides the listener's one-shot carry; without a scanner it goes straight
	// through the session.
	if initialScan != "" {
		if listener != nil {
			listener.Carry(initialScan)
		} else {
			sess.Scan(initialScan, os.Stdout)
		}
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		sess.Run(ctx, os.Stdin, os.Stdout)
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case <-done:
	}
	cancel()
}
