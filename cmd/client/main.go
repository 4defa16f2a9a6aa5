package main

import (
	"context"
	"os"

	"github.com/avoronkov/authcore/internal/buildinfo"
	"github.com/avoronkov/authcore/internal/client/cli"
	"github.com/avoronkov/authcore/internal/client/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	app := cli.NewApp(cfg)

	app.Run(ctx)

}
