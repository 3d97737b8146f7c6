// seed registers a demo teacher, a demo student and one class in the local
// dev database. Existing accounts are left untouched.
// Run: go run ./cmd/seed
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"

	"github.com/ErlanBelekov/classroom/internal/domain"
	"github.com/ErlanBelekov/classroom/internal/email"
	"github.com/ErlanBelekov/classroom/internal/hasher"
	"github.com/ErlanBelekov/classroom/internal/infrastructure/postgres"
	"github.com/ErlanBelekov/classroom/internal/usecase"
	"github.com/ErlanBelekov/classroom/internal/validation"
)

const defaultPassword = "Classroom1!"

type seedUser struct {
	name, firstSurname, email, tuition string
}

var users = []seedUser{
	{"MARIA JOSE", "HERNANDEZ", "teacher@classroom.local", "P.000001"},
	{"ANA", "LOPEZ", "student@classroom.local", "A.000001"},
}

func main() {
	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set, run: direnv allow")
	}
	password := os.Getenv("SEED_PASSWORD")
	if password == "" {
		password = defaultPassword
	}

	pool, err := postgres.NewPool(ctx, dbURL, postgres.WithApplicationName("classroom-seed"))
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	validators := validation.New(validation.MustCatalog("en"))
	userRepo := postgres.NewUserRepository(pool)
	registrar := usecase.NewUserUsecase(userRepo, hasher.NewBcrypt(hasher.DefaultCost), email.NewSender("local", "", "", logger), validators, logger, "http://localhost:8080")

	var teacher *domain.PublicUser
	for _, u := range users {
		r, err := registrar.AddUser(ctx, map[string]any{
			"name":          u.name,
			"first_surname": u.firstSurname,
			"email":         u.email,
			"password":      password,
			"tuition":       u.tuition,
		})
		if err != nil {
			log.Fatalf("add %s: %v", u.email, err)
		}
		if r.IsErr() {
			fmt.Printf("skip   %-28s %v\n", u.email, r.Error())
		} else {
			fmt.Printf("create %-28s role=%s id=%s\n", u.email, r.Value().Role, r.Value().ID)
		}

		if domain.RoleForTuition(u.tuition) == domain.RoleTeacher {
			existing, err := userRepo.FindByEmail(ctx, u.email)
			if err != nil || existing == nil {
				log.Fatalf("load teacher %s: %v", u.email, err)
			}
			pub := existing.Public()
			teacher = &pub
		}
	}

	if teacher == nil {
		return
	}
	classes := usecase.NewClassUsecase(postgres.NewClassRepository(pool), validators)
	r, err := classes.AddClass(ctx, *teacher, map[string]any{"name": "Matemáticas I", "subject": "Matemáticas"})
	if err != nil {
		log.Fatalf("add class: %v", err)
	}
	if r.IsErr() {
		fmt.Printf("skip   class %v\n", r.Error())
		return
	}
	fmt.Printf("create class %q code=%s\n", r.Value().Name, r.Value().Code)
}
