package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"time"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog/log"

	"github.com/gestaoseminario/api/internal/config"
)

const migrationsDir = "migrations"

func main() {
	flag.Usage = usage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}

	db, err := sql.Open("postgres", cfg.DBDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("abrindo conexão com o banco")
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		log.Fatal().Err(err).Msg("banco de dados inacessível")
	}

	switch args[0] {
	case "up":
		if err := goose.Up(db, migrationsDir); err != nil {
			log.Fatal().Err(err).Msg("aplicando migrações")
		}
		fmt.Println("migrações aplicadas")
	case "down":
		if err := goose.Down(db, migrationsDir); err != nil {
			log.Fatal().Err(err).Msg("revertendo migração")
		}
		fmt.Println("última migração revertida")
	case "status":
		if err := goose.Status(db, migrationsDir); err != nil {
			log.Fatal().Err(err).Msg("status das migrações")
		}
	default:
		fmt.Printf("comando desconhecido: %s\n", args[0])
		flag.Usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("uso: migrator [up|down|status]")
	fmt.Println("  up     - aplica todas as migrações pendentes")
	fmt.Println("  down   - reverte a última migração")
	fmt.Println("  status - mostra o estado de cada migração")
}
