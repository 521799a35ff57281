package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"lrsync/internal/credentials"
)

func authStatusAction(ctx context.Context, cmd *cli.Command) error {
	if err := loadConfig(); err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg := cfgManager.GetConfig()

	store, err := credentials.NewStore(cfg.CredentialsPath, encryptionKey(cfg))
	if err != nil {
		return fmt.Errorf("open credentials store: %w", err)
	}

	tok, err := store.Load()
	if err != nil {
		fmt.Printf("Credentials: unreadable (%v)\n", err)
		fmt.Println("Private galleries will be skipped.")
		return nil
	}
	if tok == nil {
		fmt.Println("Credentials: none stored.")
		fmt.Println("Private galleries will be skipped.")
		return nil
	}
	if tok.Expired() {
		fmt.Printf("Credentials: expired at %s.\n", tok.ExpiresAt.Format("2006-01-02 15:04:05 MST"))
		fmt.Println("Private galleries will be skipped.")
		return nil
	}

	fmt.Printf("Credentials: valid until %s.\n", tok.ExpiresAt.Format("2006-01-02 15:04:05 MST"))
	return nil
}

func configPathAction(ctx context.Context, cmd *cli.Command) error {
	if err := loadConfig(); err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	fmt.Println(cfgManager.GetConfigPath())
	return nil
}
