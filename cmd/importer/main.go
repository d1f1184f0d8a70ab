package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"fashionpos/internal/config"
	"fashionpos/internal/db"
	"fashionpos/internal/importer"
	variantrepo "fashionpos/internal/repository/variant"
)

func main() {
	var filePath string
	flag.StringVar(&filePath, "file", "", "Path to supplier stock sheet CSV")
	flag.Parse()

	if filePath == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.Load()
	logger := log.New(os.Stdout, "[importer] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	f, err := os.Open(filePath)
	if err != nil {
		logger.Fatalf("open file: %v", err)
	}
	defer f.Close()

	imp := importer.NewCSVImporter(f, variantrepo.NewPostgres(pool, logger))

	start := time.Now()
	count, err := imp.Run(ctx)
	if err != nil {
		logger.Fatalf("import failed: %v", err)
	}

	fmt.Printf("Imported %d variants in %s\n", count, time.Since(start).Truncate(time.Millisecond))
}
