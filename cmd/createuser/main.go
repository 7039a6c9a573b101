package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/sanctionlog/internal/flagx"
	"github.com/dmitrijs2005/sanctionlog/internal/server/admin"
	"github.com/dmitrijs2005/sanctionlog/internal/server/config"
	"github.com/dmitrijs2005/sanctionlog/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/sanctionlog/internal/server/services"
)

func main() {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(admin.ExitFail)
	}

	open := func(ctx context.Context) (admin.UserCreator, func() error, error) {
		db, m, err := repomanager.Open(ctx, cfg.DatabaseDSN)
		if err != nil {
			return nil, nil, err
		}
		return services.NewUserService(db, m), db.Close, nil
	}

	args := flagx.Positional(os.Args[1:], config.KnownFlags())
	os.Exit(admin.Run(ctx, args, open, admin.TerminalPassword, os.Stdout, os.Stderr))
}
