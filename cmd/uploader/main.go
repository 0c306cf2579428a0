// Command uploader bulk-loads historical draw records from a CSV file
// into the lottery_draws table. Rows whose date is already present
// are skipped, so re-running on the same file is safe.
package main

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"lottoapi/internal/config"
	"lottoapi/internal/models"
	"lottoapi/internal/repository"
)

func main() {
	filePath := flag.String("file", "", "path to the draw CSV file")
	configPath := flag.String("config", "", "directory containing config.yml (optional)")
	flag.Parse()

	if *filePath == "" {
		flag.Usage()
		os.Exit(2)
	}

	var paths []string
	if *configPath != "" {
		paths = append(paths, *configPath)
	}
	cfg, err := config.Load(paths...)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := gorm.Open(mysql.Open(cfg.DB.DSN()), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	repo := repository.NewGormDrawRepository(db)

	uploaded, skipped, failed, err := upload(context.Background(), repo, *filePath)
	if err != nil {
		log.Fatalf("Upload failed: %v", err)
	}
	fmt.Printf("Upload complete: %d uploaded, %d skipped, %d failed\n", uploaded, skipped, failed)
	if failed > 0 {
		os.Exit(1)
	}
}

func upload(ctx context.Context, repo repository.DrawRepository, path string) (uploaded, skipped, failed int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, 0, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err != nil {
		return 0, 0, 0, fmt.Errorf("read CSV header: %w", err)
	}

	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return uploaded, skipped, failed, fmt.Errorf("read CSV line %d: %w", line, err)
		}

		draw, err := models.ParseDrawRow(header, record)
		if err != nil {
			log.Printf("Line %d: skipping malformed record: %v", line, err)
			failed++
			continue
		}

		switch err := repo.Create(ctx, draw); {
		case errors.Is(err, repository.ErrDrawExists):
			log.Printf("Record for %s already exists, skipping...", draw.Date)
			skipped++
		case err != nil:
			log.Printf("Line %d: insert failed: %v", line, err)
			failed++
		default:
			uploaded++
		}
	}
	return uploaded, skipped, failed, nil
}
