package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/siherrmann/checkmate"
	"github.com/siherrmann/checkmate/helper"
	"github.com/siherrmann/checkmate/model"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatalf("usage: %s <document.pdf>", os.Args[0])
	}
	documentPath := os.Args[1]

	// Start a test PostgreSQL container
	teardown, dbPort, err := helper.MustStartPostgresContainer()
	if err != nil {
		log.Fatalf("Failed to start PostgreSQL container: %v", err)
	}
	defer teardown(context.Background())

	// Create database configuration using the container port
	dbConfig := &helper.DatabaseConfiguration{
		Host:     "localhost",
		Port:     dbPort,
		Database: "database",
		Username: "user",
		Password: "password",
		Schema:   "public",
		SSLMode:  "disable",
	}

	c, err := checkmate.NewCheckmate(dbConfig, 384, "./data/checklists")
	if err != nil {
		log.Fatalf("Failed to create checkmate: %v", err)
	}
	defer c.Close()

	// Set up the default pipeline (pdftotext extraction + window chunking + embeddings)
	if err := c.UseDefaultPipeline(); err != nil {
		log.Fatalf("Failed to set up pipeline: %v", err)
	}

	ctx := context.Background()

	// Ingest the PDF into the target collection
	fmt.Println("Ingesting document...")
	result, err := c.Ingest(ctx, model.CollectionTarget, documentPath)
	if err != nil {
		log.Fatalf("Failed to ingest document: %v", err)
	}
	if result.Status != model.IngestSuccess {
		log.Fatalf("Ingestion failed: %s", result.Error)
	}
	fmt.Printf("Ingested %d chunks from %s\n", result.ChunksCount, result.Filename)

	// List all files in the collection
	files, err := c.ListFiles(model.CollectionTarget)
	if err != nil {
		log.Fatalf("Failed to list files: %v", err)
	}
	fmt.Printf("\nFiles in target collection:\n")
	for _, file := range files {
		fmt.Printf("  %s (%d chunks, %d pages)\n", file.Filename, file.ChunkCount, file.PageCount)
	}

	// Perform a semantic search over the document
	queryText := "What are the retention requirements?"
	fmt.Printf("\nQuerying: %s\n", queryText)

	chunks, err := c.Search(ctx, model.CollectionTarget, queryText, 5, "")
	if err != nil {
		log.Fatalf("Failed to search: %v", err)
	}

	fmt.Printf("\nFound %d results:\n", len(chunks))
	for i, chunk := range chunks {
		fmt.Printf("\n--- Result %d ---\n", i+1)
		fmt.Printf("Distance: %.4f\n", chunk.Distance)
		fmt.Printf("Content: %s\n", chunk.Content)
	}

	fmt.Println("\nBasic example completed successfully!")
}
