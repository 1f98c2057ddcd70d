package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"time"

	"github.com/classmark/gradebook/internal/config"
	"github.com/classmark/gradebook/internal/database"
	"github.com/classmark/gradebook/internal/gradebook"
	"github.com/classmark/gradebook/internal/logger"
	"github.com/classmark/gradebook/internal/model"
	"github.com/classmark/gradebook/internal/repository"
	"github.com/classmark/gradebook/internal/service"
)

func main() {
	teacher := flag.String("teacher", "", "Username of an existing teacher who will own the class")
	className := flag.String("class", "Demo", "Class name")
	count := flag.Int("students", 25, "Number of demo students to create")
	password := flag.String("password", "student", "Password for every demo student")
	withAssignment := flag.Bool("assignment", true, "Also issue a demo assignment to the class")
	flag.Parse()

	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	if *teacher == "" {
		log.Fatal().Msg("-teacher is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	userRepo := repository.NewUserRepository(pool)
	classRepo := repository.NewClassRepository(pool)
	assignmentRepo := repository.NewAssignmentRepository(pool)

	// Seeding never touches Redis; a nil client disables the cache.
	authService := service.NewAuthService(cfg, nil)
	userService := service.NewUserService(userRepo, classRepo, authService, log)
	classService := service.NewClassService(classRepo, userRepo, log)
	assignmentService := service.NewAssignmentService(assignmentRepo, classRepo, userRepo,
		repository.NewGradebookCache(nil, 0, log), log)

	owner, err := userRepo.GetByUsername(ctx, *teacher)
	if err != nil {
		log.Fatal().Err(err).Str("teacher", *teacher).Msg("Teacher not found")
	}
	if !owner.IsTeacher {
		log.Fatal().Str("teacher", *teacher).Msg("User is not a teacher")
	}
	p := model.Principal{Username: owner.Username, IsTeacher: true}

	fmt.Printf("=== Seeding %d students into %q ===\n", *count, *className)

	isTeacher := false
	ids := make([]string, 0, *count)
	for i := 1; i <= *count; i++ {
		username := fmt.Sprintf("%s-student%02d", *teacher, i)
		_, err := userService.Register(ctx, model.RegisterRequest{
			Username:  username,
			Password:  *password,
			FirstName: "Student",
			LastName:  fmt.Sprintf("%02d", i),
			IsTeacher: &isTeacher,
		})
		if err != nil && !errors.Is(err, gradebook.ErrExists) {
			log.Error().Err(err).Str("username", username).Msg("Failed to create student")
			continue
		}
		ids = append(ids, username)
	}

	class, err := classService.Create(ctx, p, model.CreateClassRequest{ClassName: *className, UserIDs: ids})
	if errors.Is(err, gradebook.ErrExists) {
		class, err = classService.ModifyRoster(ctx, p, *className, model.ModifyRosterRequest{AddIDs: ids})
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to seed class")
	}
	fmt.Printf("Class %q has %d students\n", class.Name, len(class.StudentIDs))

	if !*withAssignment {
		return
	}

	now := time.Now()
	due := now.AddDate(0, 0, 7)
	a, err := assignmentService.Create(ctx, p, model.AssignmentDef{
		Title:        "Welcome Worksheet",
		Subject:      "General",
		ClassName:    class.Name,
		Points:       10,
		Goals:        "Get familiar with the gradebook.",
		Instructions: "Complete the worksheet and hand it in.",
		AssignDate:   model.DayDate{Weekday: int(now.Weekday()), Date: now.Format(time.DateOnly)},
		DueDate:      model.DayDate{Weekday: int(due.Weekday()), Date: due.Format(time.DateOnly)},
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create demo assignment")
	}
	fmt.Printf("Assignment %s issued to %d students\n", a.ID, len(a.GradingEntries))
}
