package main

import (
	"log"
	"net/http"

	"github.com/awmpietro/golang-vcd-transaction-case/internal/app"
	"github.com/awmpietro/golang-vcd-transaction-case/internal/config"
	"github.com/awmpietro/golang-vcd-transaction-case/internal/config/cache"
	"github.com/awmpietro/golang-vcd-transaction-case/internal/transport/httptransport"
)

func main() {
	cfg := config.Load()

	c := cache.NewInMemory(cfg.CacheMaxItems)
	svc := app.NewService(config.ParseInterfacesBytes, c)
	h := httptransport.NewHandler(svc, cfg.MaxTraceBytes)

	mux := http.NewServeMux()
	mux.HandleFunc("/extract", h.Extract)

	log.Printf("listening on %s", cfg.HTTPAddr)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, mux))
}
