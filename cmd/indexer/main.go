package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/wsb360/aiclassify/internal/config"
	"github.com/wsb360/aiclassify/internal/driver"
	"github.com/wsb360/aiclassify/internal/index"
	"github.com/wsb360/aiclassify/internal/llm"
	"github.com/wsb360/aiclassify/internal/taxonomy"
)

// Bulk loader: streams reference materials out of MySQL in batches, embeds
// them, and upserts them into the Memgraph vector index.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using defaults")
	}

	cfgPath := flag.String("config", "config/config.toml", "path to the TOML config")
	batchSize := flag.Int("batch", 1000, "rows per batch")
	reset := flag.Bool("reset", false, "delete existing materials before loading")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Printf("Could not load %s: %v. Using defaults with env overrides", *cfgPath, err)
		cfg = config.Default()
	}
	if v := os.Getenv("LLM_API_KEY"); v != "" {
		cfg.LLM.APIKey = v
	}
	if v := os.Getenv("MYSQL_PASSWORD"); v != "" {
		cfg.MySQL.Password = v
	}
	if v := os.Getenv("MEMGRAPH_URI"); v != "" {
		cfg.Memgraph.URI = v
	}

	ctx := context.Background()

	source, err := taxonomy.NewMySQLSource(cfg.MySQL)
	if err != nil {
		log.Fatalf("Failed to connect to MySQL: %v", err)
	}
	defer source.Close()

	d, err := driver.NewMemgraphDriver(cfg.Memgraph.URI, cfg.Memgraph.User, cfg.Memgraph.Password, cfg.Memgraph.IndexName, cfg.Memgraph.Dimension)
	if err != nil {
		log.Fatalf("Failed to connect to Memgraph: %v", err)
	}
	defer d.Close(ctx)

	_, embedder, err := llm.NewClient(ctx, cfg.LLM)
	if err != nil {
		log.Fatalf("Failed to initialize LLM client: %v", err)
	}
	if embedder == nil {
		log.Fatalf("Provider %q has no embedding support; the indexer needs one", cfg.LLM.Provider)
	}

	if *reset {
		if _, err := d.ExecuteQuery(ctx, driver.DeleteMaterialsQuery, nil); err != nil {
			log.Fatalf("Failed to delete existing materials: %v", err)
		}
		log.Println("Deleted existing materials")
	}

	if err := d.BuildIndices(ctx); err != nil {
		log.Fatalf("Failed to build indices: %v", err)
	}

	idx := index.NewMemgraphIndex(d, embedder, cfg.Memgraph.IndexName)

	total, err := source.MaterialCount(ctx)
	if err != nil {
		log.Fatalf("Failed to count materials: %v", err)
	}
	if total == 0 {
		log.Println("No materials to process")
		return
	}

	batches := (total + *batchSize - 1) / *batchSize
	log.Printf("Loading %d materials in %d batches of %d", total, batches, *batchSize)

	processed := 0
	failed := 0
	start := time.Now()

	for batch := 0; batch < batches; batch++ {
		offset := batch * *batchSize

		materials, err := source.Materials(ctx, offset, *batchSize)
		if err != nil {
			log.Printf("Batch %d fetch failed: %v", batch+1, err)
			failed += *batchSize
			continue
		}
		if len(materials) == 0 {
			break
		}

		added, err := idx.Add(ctx, materials)
		if err != nil {
			log.Printf("Batch %d load failed: %v", batch+1, err)
			failed += len(materials)
			continue
		}

		processed += added
		failed += len(materials) - added

		if (batch+1)%10 == 0 {
			elapsed := time.Since(start).Seconds()
			log.Printf("Progress: %d/%d loaded, %d failed, %.1f rows/s", processed, total, failed, float64(processed)/elapsed)
		}
	}

	elapsed := time.Since(start)
	log.Printf("Done: %d loaded, %d failed in %s", processed, failed, elapsed.Round(time.Second))

	if res, err := d.ExecuteQuery(ctx, driver.CountMaterialsQuery, nil); err != nil {
		log.Printf("Could not count indexed materials: %v", err)
	} else if len(res.Records) > 0 {
		if total, ok := res.Records[0].AsMap()["total"].(int64); ok {
			log.Printf("Index now holds %d materials", total)
		}
	}
}
