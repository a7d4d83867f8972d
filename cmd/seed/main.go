package main

import (
	"context"
	"log"
	"time"

	"posts-api/db"
	"posts-api/repository"
	"posts-api/validation"
)

var samplePosts = []validation.CreatePostInput{
	{
		Title:     "Getting Started with React",
		Content:   "React is a JavaScript library for building user interfaces. This post walks through components, props and state.",
		Published: true,
	},
	{
		Title:     "Understanding REST APIs",
		Content:   "REST is an architectural style for distributed systems. We cover resources, verbs and status codes.",
		Published: true,
	},
	{
		Title:     "Draft: Database Indexing Notes",
		Content:   "Rough notes on btree vs GIN indexes and when a trigram index pays off for substring search.",
		Published: false,
	},
	{
		Title:     "Pagination Done Right",
		Content:   "Offset pagination is fine for small tables. Count first, then window, and keep the ordering deterministic.",
		Published: true,
	},
	{
		Title:     "Draft: Error Envelope Design",
		Content:   "One envelope for every failure. Clients should never see a stack trace or a driver error string.",
		Published: false,
	},
}

func main() {
	config, err := db.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	if err := db.Migrate(db.MigrateConfig{DBURL: config.DBURL}); err != nil {
		log.Fatalf("Error migrating database: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	repo := repository.NewPostRepository(db.DB)
	for _, input := range samplePosts {
		post, err := repo.Create(ctx, input)
		if err != nil {
			log.Fatalf("Error seeding post %q: %v", input.Title, err)
		}
		log.Printf("Seeded post %d: %s (published=%t)", post.ID, post.Title, post.Published)
	}

	published, err := repo.CountPublished(ctx)
	if err != nil {
		log.Fatalf("Error counting published posts: %v", err)
	}
	drafts, err := repo.CountDrafts(ctx)
	if err != nil {
		log.Fatalf("Error counting drafts: %v", err)
	}
	log.Printf("Seed complete: %d published, %d drafts", published, drafts)
}
