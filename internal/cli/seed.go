package cli

import (
	"context"
	"errors"
	"log"

	"learngenix_backend/internal/config"
	"learngenix_backend/internal/model"
	"learngenix_backend/internal/repository"
	"learngenix_backend/internal/service"
	"learngenix_backend/internal/util"
	"learngenix_backend/pkg/authprovider"
	"learngenix_backend/pkg/database"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// 演示账号，密码统一为 password
var demoUsers = []service.RegisterRequest{
	{Email: "student@test.com", Password: "password", Name: "Estudiante Demo", Role: model.Student},
	{Email: "teacher@test.com", Password: "password", Name: "Profesor Demo", Role: model.Teacher},
	{Email: "admin@test.com", Password: "password", Name: "Admin Demo", Role: model.Admin},
}

func newSeedCmd(configDir *string) *cobra.Command {
	var withUsers bool
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert the default catalog and demo users",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(*configDir)
			if err != nil {
				return err
			}

			db, err := database.InitDB(&cfg.Database)
			if err != nil {
				return err
			}
			defer database.Close(db)

			if err := database.Migrate(db); err != nil {
				return err
			}
			if err := database.SeedCatalog(db); err != nil {
				return err
			}
			log.Println("Catalog seeded")

			if !withUsers {
				return nil
			}
			return seedUsers(cmd.Context(), cfg, db)
		},
	}
	cmd.Flags().BoolVar(&withUsers, "users", true, "also create the demo accounts")
	return cmd
}

func seedUsers(ctx context.Context, cfg *config.Config, db *gorm.DB) error {
	store, err := authprovider.New(cfg, db)
	if err != nil {
		return err
	}
	authService := service.NewAuthService(repository.NewUserRepository(db), store, service.NewStorageService(cfg), cfg)

	for _, req := range demoUsers {
		if _, err := authService.Register(ctx, req); err != nil {
			// 已存在的账号跳过，保证可重复执行
			if errors.Is(err, util.ErrEmailRegistered) {
				log.Printf("User %s already exists, skipped", req.Email)
				continue
			}
			return err
		}
		log.Printf("User %s created", req.Email)
	}
	return nil
}
