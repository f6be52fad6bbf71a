// Command seed fills the database with groups and fake demo content.
package main

import (
	"context"
	"flag"
	"log"

	"yatube/internal/bootstrap"
	"yatube/internal/config"
	"yatube/internal/seed"

	"github.com/joho/godotenv"
)

func main() {
	numUsers := flag.Int("users", 20, "Number of users to create")
	numPosts := flag.Int("posts", 150, "Number of posts to create")
	numComments := flag.Int("comments", 300, "Number of comments to create")
	maxFollows := flag.Int("follows", 5, "Maximum number of authors each user follows")
	shouldClean := flag.Bool("clean", false, "Delete existing content before seeding")
	randomSeed := flag.Int64("seed", 0, "Random seed for reproducible content (0 = random)")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()
	db, rdb, err := bootstrap.InitRuntime(ctx, cfg, bootstrap.Options{})
	if err != nil {
		log.Fatalf("Failed to initialize runtime: %v", err)
	}
	if rdb != nil {
		defer rdb.Close()
	}

	log.Printf("Target: %d users, %d posts, %d comments, clean=%v", *numUsers, *numPosts, *numComments, *shouldClean)

	res, err := seed.NewSeeder(db).Run(ctx, seed.Options{
		NumUsers:    *numUsers,
		NumPosts:    *numPosts,
		NumComments: *numComments,
		MaxFollows:  *maxFollows,
		ShouldClean: *shouldClean,
		RandomSeed:  *randomSeed,
	})
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Printf("Created %d groups, %d users, %d posts, %d comments, %d follows",
		res.Groups, res.Users, res.Posts, res.Comments, res.Follows)
	log.Printf("All generated users have the password: %s", seed.DefaultPassword)
}
