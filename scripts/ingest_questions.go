package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"strings"

	"ai-interviewer/internal/config"
	"ai-interviewer/internal/models"
	"ai-interviewer/internal/repositories"
	"ai-interviewer/internal/services"
)

// Bulk-loads a JSON question file into a company's bank, creating the company
// when it does not exist yet. The file holds an array of parsed questions:
//
//	[{"text": "...", "options": ["...", "..."], "answer": "A", "section": "General"}]
func main() {
	companyName := flag.String("company", "", "company name to load questions into")
	questionsPath := flag.String("file", "./questions.json", "path to the questions JSON file")
	flag.Parse()

	if *companyName == "" {
		log.Fatal("❌ -company is required")
	}

	log.Println("🚀 Starting question ingestion...")

	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}
	companyRepo := repositories.NewCompanyRepository(db)

	// Initialize services
	geminiService, err := services.NewGeminiService(cfg.Gemini.APIKey)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Gemini: %v", err)
	}

	questionIndex, err := services.NewQuestionIndex(
		cfg.Qdrant.URL,
		cfg.Qdrant.APIKey,
		cfg.Qdrant.Collection,
	)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Qdrant: %v", err)
	}

	if err := questionIndex.InitCollection(); err != nil {
		log.Fatalf("❌ Failed to initialize collection: %v", err)
	}

	companyService := services.NewCompanyService(companyRepo, geminiService, questionIndex)

	ctx := context.Background()

	// Read the questions file
	log.Printf("📄 Reading: %s", *questionsPath)
	data, err := os.ReadFile(*questionsPath)
	if err != nil {
		log.Fatalf("❌ Failed to read questions file: %v", err)
	}

	var questions []models.ParsedQuestion
	if err := json.Unmarshal(data, &questions); err != nil {
		log.Fatalf("❌ Failed to parse questions file: %v", err)
	}
	log.Printf("✅ Loaded %d question(s) from file", len(questions))

	// Find or create the company
	company, err := companyRepo.FindByName(*companyName)
	if err != nil {
		log.Printf("ℹ️ Company %q not found, creating it", *companyName)
		company, err = companyService.CreateCompany(ctx, *companyName, "", "ingest-script")
		if err != nil {
			log.Fatalf("❌ Failed to create company: %v", err)
		}
	}

	// Import with dedup
	log.Printf("🔄 Importing questions into %q...", company.Name)
	result, err := companyService.AddQuestions(ctx, company.ID, questions)
	if err != nil {
		log.Fatalf("❌ Import failed: %v", err)
	}

	// Summary
	log.Println("\n" + strings.Repeat("=", 60))
	log.Printf("📊 Ingestion Summary:")
	log.Printf("   ✅ Added: %d questions", result.Added)
	log.Printf("   ⚠️ Skipped: %d questions", result.Skipped)
	log.Println(strings.Repeat("=", 60))

	log.Println("✅ Question ingestion finished!")
}
