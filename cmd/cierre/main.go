// cmd/cierre/main.go — Cierra una caja desde la terminal.
// Uso: go run cmd/cierre/main.go <idmovimiento> <conteo.json>
//
// conteo.json tiene la misma forma que el body de POST /v1/caja/{id}/cierre:
//
//	{"conteo": {"1000": 5, "50000": 2}, "detalles": [{"etiqueta": "vale", "monto": 1500}]}
//
// El token del backend se toma de POS_BACKEND_TOKEN.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"arqueogw/internal/arqueo"
	"arqueogw/internal/backend"
	"arqueogw/internal/config"
	"arqueogw/internal/dto"
	"arqueogw/internal/journal"
	"arqueogw/internal/service"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	if len(os.Args) != 3 {
		fmt.Fprintln(os.Stderr, "uso: cierre <idmovimiento> <conteo.json>")
		os.Exit(2)
	}

	movimientoID, err := strconv.ParseInt(os.Args[1], 10, 64)
	if err != nil || movimientoID <= 0 {
		log.Fatal().Str("arg", os.Args[1]).Msg("idmovimiento inválido")
	}

	data, err := os.ReadFile(os.Args[2])
	if err != nil {
		log.Fatal().Err(err).Msg("no se pudo leer el archivo de conteo")
	}
	var req dto.CierreRequest
	if err := json.Unmarshal(data, &req); err != nil {
		log.Fatal().Err(err).Msg("conteo.json inválido")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	client := backend.NewHTTPClient(cfg.BackendURL, time.Duration(cfg.BackendTimeoutSec)*time.Second, nil)
	svc := service.NewCierreService(client, journal.Noop{}, nil)

	ctx := backend.WithToken(context.Background(), os.Getenv("POS_BACKEND_TOKEN"))

	resp, err := svc.Cerrar(ctx, movimientoID, req)
	if err != nil {
		var mismatch *arqueo.MismatchError
		if errors.As(err, &mismatch) {
			fmt.Printf("El arqueo no cuadra (%s)\n", mismatch.Clasificacion)
			fmt.Printf("  esperado:   %s\n", mismatch.Esperado.StringFixed(2))
			fmt.Printf("  contado:    %s\n", mismatch.Contado.StringFixed(2))
			fmt.Printf("  diferencia: %s\n", mismatch.Diferencia.StringFixed(2))
			os.Exit(1)
		}
		log.Fatal().Err(err).Msg("cierre fallido")
	}

	fmt.Printf("Caja cerrada — movimiento %d, total %s (%s)\n",
		resp.MovimientoID, resp.Total.StringFixed(2), resp.Diferencia.Clasificacion)
}
