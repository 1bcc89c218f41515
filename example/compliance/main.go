package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/siherrmann/checkmate"
	"github.com/siherrmann/checkmate/core/judge"
	"github.com/siherrmann/checkmate/helper"
	"github.com/siherrmann/checkmate/model"
)

func main() {
	if len(os.Args) < 3 {
		log.Fatalf("usage: %s <checklist.pdf> <document.pdf>", os.Args[0])
	}
	checklistPath := os.Args[1]
	documentPath := os.Args[2]

	apiKey := os.Getenv("ANTHROPIC_API_KEY")
	if apiKey == "" {
		log.Fatal("ANTHROPIC_API_KEY must be set")
	}

	// Start a test PostgreSQL container
	teardown, dbPort, err := helper.MustStartPostgresContainer()
	if err != nil {
		log.Fatalf("Failed to start PostgreSQL container: %v", err)
	}
	defer teardown(context.Background())

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

	if err := c.UseDefaultPipeline(); err != nil {
		log.Fatalf("Failed to set up pipeline: %v", err)
	}

	// Wire the Anthropic judge for compliance checking
	complete, err := judge.AnthropicCompleter(apiKey, "claude-sonnet-4-20250514")
	if err != nil {
		log.Fatalf("Failed to create completer: %v", err)
	}
	if err := c.UseJudge(complete); err != nil {
		log.Fatalf("Failed to set up judge: %v", err)
	}

	ctx := context.Background()

	// Ingest checklist and target document into their collections
	fmt.Println("=== Ingesting Documents ===")
	results, err := c.IngestBatch(ctx, model.CollectionTemplate, []string{checklistPath})
	if err != nil {
		log.Fatalf("Failed to ingest checklist: %v", err)
	}
	for _, result := range results {
		fmt.Printf("Checklist '%s': %s (%d chunks)\n", result.Filename, result.Status, result.ChunksCount)
	}

	targetResult, err := c.Ingest(ctx, model.CollectionTarget, documentPath)
	if err != nil {
		log.Fatalf("Failed to ingest document: %v", err)
	}
	fmt.Printf("Document '%s': %s (%d chunks)\n", targetResult.Filename, targetResult.Status, targetResult.ChunksCount)

	// 1. Item-by-item comparison of the document against the checklist
	fmt.Println("\n=== 1. Compliance Comparison ===")
	reportText, err := c.ComplianceReportText(ctx, results[0].Filename, targetResult.Filename)
	if err != nil {
		log.Fatalf("Comparison failed: %v", err)
	}
	fmt.Println(reportText)

	// 2. Generate a reusable checklist template from the checklist document
	fmt.Println("=== 2. Checklist Generation ===")
	template, err := c.GenerateChecklist(ctx, results[0].Filename)
	if err != nil {
		log.Fatalf("Checklist generation failed: %v", err)
	}
	fmt.Printf("Generated template '%s' with %d questions and %d conditions\n",
		template.Name, len(template.Questions), len(template.Conditions))

	// 3. Run the generated template against the target document
	fmt.Println("\n=== 3. Checklist Run ===")
	checklistResult, err := c.RunChecklist(ctx, template.ID, targetResult.Filename)
	if err != nil {
		log.Fatalf("Checklist run failed: %v", err)
	}

	for _, answer := range checklistResult.Answers {
		fmt.Printf("Q: %s\nA: %s (confidence: %s)\n\n", answer.QuestionText, answer.Answer, answer.Confidence)
	}
	for _, evaluation := range checklistResult.Evaluations {
		fmt.Printf("Condition: %s\nMet: %v (confidence: %s)\n\n", evaluation.ConditionText, evaluation.IsMet, evaluation.Confidence)
	}
	fmt.Printf("Overall compliance: %v (%.2f%%)\n", checklistResult.OverallCompliance, checklistResult.CompliancePercentage)

	fmt.Println("\nCompliance example completed successfully!")
}
