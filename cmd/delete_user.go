package cmd

import (
	"context"
	"log"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"taskflow.dev/taskflow/internal/blob"
	config "taskflow.dev/taskflow/internal/configs"
	"taskflow.dev/taskflow/internal/logging"
	repository "taskflow.dev/taskflow/internal/repositories"
	"taskflow.dev/taskflow/internal/services"
)

// Back-office removal. Everything the user owns goes with them; tasks they
// were merely assigned to survive unassigned.
var deleteUserCmd = &cobra.Command{
	Use:   "delete-user <user-id>",
	Short: "Delete a user and everything they own",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil {
			log.Println(".env file not found, using environment variables")
		}

		userID, err := strconv.ParseUint(args[0], 10, 32)
		if err != nil {
			return err
		}

		cfg := config.Load()
		logger := logging.New(cfg.LogFile)
		database := config.NewDatabaseClient(cfg.DatabaseDSN)

		store, err := blob.NewDiskStore(cfg.UploadDir)
		if err != nil {
			return err
		}

		userService := services.NewUserService(repository.NewUserRepository(database), store, logger)
		if err := userService.DeleteUser(context.Background(), uint(userID)); err != nil {
			return err
		}

		logger.WithField("user_id", userID).Info("user deleted")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteUserCmd)
}
