package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/classmark/gradebook/internal/config"
	"github.com/classmark/gradebook/internal/database"
	"github.com/classmark/gradebook/internal/logger"
	"github.com/classmark/gradebook/internal/model"
	"github.com/classmark/gradebook/internal/repository"
	"github.com/classmark/gradebook/internal/service"
	"golang.org/x/term"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Initialize Service ────────────────────────────────────────────
	authService := service.NewAuthService(cfg, nil)
	userService := service.NewUserService(
		repository.NewUserRepository(pool),
		repository.NewClassRepository(pool),
		authService,
		log,
	)

	// ─── CLI Input ─────────────────────────────────────────────────────
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("=== Create New Teacher ===")

	fmt.Print("Enter Username: ")
	username, _ := reader.ReadString('\n')
	username = strings.TrimSpace(username)
	if username == "" {
		fmt.Println("Error: Username is required")
		return
	}

	fmt.Print("Enter First Name: ")
	firstName, _ := reader.ReadString('\n')

	fmt.Print("Enter Last Name: ")
	lastName, _ := reader.ReadString('\n')

	fmt.Print("Enter Password: ")
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		fmt.Println("\nError reading password")
		return
	}
	password := string(bytePassword)
	fmt.Println() // Newline after password input
	if len(password) < 3 || len(password) > 72 || password != strings.TrimSpace(password) {
		fmt.Println("Error: Password must be 3-72 characters without surrounding whitespace")
		return
	}

	// ─── Logic ─────────────────────────────────────────────────────────
	isTeacher := true
	user, err := userService.Register(ctx, model.RegisterRequest{
		Username:  username,
		Password:  password,
		FirstName: firstName,
		LastName:  lastName,
		IsTeacher: &isTeacher,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create teacher")
	}

	fmt.Printf("\nSuccess! Teacher '%s' created.\n", user.Username)
}
