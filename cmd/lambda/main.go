package main

import (
	"log"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/awmpietro/golang-vcd-transaction-case/internal/app"
	"github.com/awmpietro/golang-vcd-transaction-case/internal/config"
	"github.com/awmpietro/golang-vcd-transaction-case/internal/config/cache"
	"github.com/awmpietro/golang-vcd-transaction-case/internal/detect"
	"github.com/awmpietro/golang-vcd-transaction-case/internal/transport/lambdatransport"
)

func main() {
	cfg := config.Load()

	gate := detect.NewAsyncGateObserver(detect.NewGateLogger(log.Default()), cfg.ObsBuffer)
	defer gate.Close()

	c := cache.NewInMemory(cfg.CacheMaxItems)
	svc := app.NewService(config.ParseInterfacesBytes, c, app.WithEngineOptions(detect.WithGateObserver(gate)))
	h := lambdatransport.NewHandler(svc)

	lambda.Start(h.Extract)
}
