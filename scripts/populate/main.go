package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"sosmed/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Fills a dev database with fake users, posts and comments.
func main() {
	userCount := flag.Int("users", 10, "number of users to create")
	postCount := flag.Int("posts", 3, "posts per user")
	commentCount := flag.Int("comments", 2, "comments per post")
	flag.Parse()

	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		log.Fatal("DB_DSN not set in environment")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("open db: %v", err)
	}

	var users []models.User
	for i := 0; i < *userCount; i++ {
		hpw, err := bcrypt.GenerateFromPassword([]byte(gofakeit.Password(true, true, true, false, false, 16)), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("bcrypt: %v", err)
		}
		user := models.User{
			Username:       gofakeit.Username(),
			HashedPassword: hpw,
			FirstName:      gofakeit.FirstName(),
			LastName:       gofakeit.LastName(),
			City:           gofakeit.City(),
			State:          gofakeit.State(),
			Country:        gofakeit.Country(),
		}
		if err := db.Create(&user).Error; err != nil {
			log.Printf("skipping user %s: %v", user.Username, err)
			continue
		}
		users = append(users, user)
	}

	posts := 0
	comments := 0
	for _, user := range users {
		for i := 0; i < *postCount; i++ {
			post := models.Post{
				AuthorID:     user.ID,
				Text:         gofakeit.Sentence(12),
				PostDate:     time.Now(),
				IsPublicPost: true,
			}
			if err := db.Create(&post).Error; err != nil {
				continue
			}
			posts++
			for j := 0; j < *commentCount; j++ {
				commenter := users[gofakeit.Number(0, len(users)-1)]
				comment := models.Comment{
					PostID:          post.ID,
					AuthorID:        commenter.ID,
					Text:            gofakeit.Sentence(8),
					PostDate:        time.Now(),
					IsPublicComment: true,
				}
				if err := db.Create(&comment).Error; err == nil {
					comments++
				}
			}
		}
	}
	fmt.Printf("created %d users, %d posts, %d comments\n", len(users), posts, comments)
}
