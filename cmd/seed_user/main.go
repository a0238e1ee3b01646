package main

import (
	"context"
	"flag"
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"

	"taskboard/internal/db"
	"taskboard/internal/domain"
	"taskboard/internal/repository"
	"taskboard/internal/service"
)

func main() {
	email := flag.String("email", "dev@example.com", "user email")
	password := flag.String("password", "devpassword", "user password")
	name := flag.String("name", "Dev User", "display name")
	flag.Parse()

	// expects DATABASE_URL env var
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL not set")
	}

	pool := db.Connect(dsn)
	defer pool.Close()

	repo := repository.NewProfileRepository(pool)
	ctx := context.Background()

	var u *domain.User
	existing, err := repo.GetByEmail(ctx, *email)
	if err == nil {
		u = &existing.User
		log.Printf("user already exists id=%s\n", u.ID)
	} else {
		hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("hash password: %v", err)
		}

		u = &domain.User{
			Email: *email,
			Name:  *name,
			Role:  domain.RoleMember,
		}
		// seeded users skip email confirmation
		if err := repo.Create(ctx, u, string(hash), true); err != nil {
			log.Fatalf("create user failed: %v", err)
		}
		log.Printf("user created id=%s\n", u.ID)
	}

	// verify read
	u2, err := repo.GetByID(ctx, u.ID)
	if err != nil {
		log.Fatalf("get by id failed: %v", err)
	}
	log.Printf("fetched user id=%s email=%s name=%s created_at=%v\n", u2.ID, u2.Email, u2.Name, u2.CreatedAt)

	// initialize JWT and print token
	service.InitJWT()
	token, err := service.GenerateJWT(u2.ID)
	if err != nil {
		log.Fatalf("failed to generate token: %v", err)
	}
	log.Printf("token=%s\n", token)
}
