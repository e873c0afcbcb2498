package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/payslip/internal/clock"
	"github.com/smallbiznis/payslip/internal/config"
	"github.com/smallbiznis/payslip/internal/observability"
	"github.com/smallbiznis/payslip/internal/server"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		clock.Module,
		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
