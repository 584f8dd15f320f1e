package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/gestaoseminario/api/internal/auth"
	"github.com/gestaoseminario/api/internal/config"
	"github.com/gestaoseminario/api/internal/db"
	"github.com/gestaoseminario/api/internal/permissao"
)

// Perfis criados pelo bootstrap. O Organizador opera a agenda sem mexer em
// contas nem no catálogo; o Participante só consulta.
var perfilPadrao = map[string]func(permissao.Definicao) bool{
	"Administrador": func(permissao.Definicao) bool { return true },
	"Organizador": func(d permissao.Definicao) bool {
		switch d.Modulo {
		case "locais", "eventos", "cursos", "relatorios":
			return true
		}
		return false
	},
	"Participante": func(d permissao.Definicao) bool {
		if d.Modulo != "locais" && d.Modulo != "eventos" && d.Modulo != "cursos" {
			return false
		}
		c := string(d.Codigo)
		return strings.HasSuffix(c, "_LISTAR") || strings.HasSuffix(c, "_VISUALIZAR")
	},
}

func main() {
	email := flag.String("email", os.Getenv("ADMIN_EMAIL"), "e-mail do administrador inicial")
	senha := flag.String("senha", os.Getenv("ADMIN_SENHA"), "senha do administrador inicial")
	flag.Parse()

	if err := run(*email, *senha); err != nil {
		log.Fatal().Err(err).Msg("seed encerrado com erro")
	}
}

func run(adminEmail, adminSenha string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DBDSN)
	if err != nil {
		return fmt.Errorf("db: %w", err)
	}
	defer pool.Close()

	if err := seedPermissoes(ctx, pool); err != nil {
		return fmt.Errorf("permissões: %w", err)
	}
	if err := seedPerfis(ctx, pool); err != nil {
		return fmt.Errorf("perfis: %w", err)
	}
	if adminEmail != "" && adminSenha != "" {
		if err := seedAdmin(ctx, pool, adminEmail, adminSenha); err != nil {
			return fmt.Errorf("administrador: %w", err)
		}
	} else {
		log.Info().Msg("e-mail/senha do administrador não informados; usuário inicial não criado")
	}

	log.Info().Msg("seed concluído")
	return nil
}

// seedPermissoes garante o catálogo padrão; códigos já existentes ficam
// como estão.
func seedPermissoes(ctx context.Context, pool *pgxpool.Pool) error {
	for _, def := range permissao.Padrao() {
		_, err := pool.Exec(ctx,
			`INSERT INTO permissoes (nome, codigo, modulo, descricao)
			 VALUES ($1, $2, $3, $4)
			 ON CONFLICT (codigo) DO NOTHING`,
			def.Nome, string(def.Codigo), def.Modulo, def.Descricao)
		if err != nil {
			return err
		}
	}
	return nil
}

func seedPerfis(ctx context.Context, pool *pgxpool.Pool) error {
	for nome, filtro := range perfilPadrao {
		var perfilID uuid.UUID
		err := pool.QueryRow(ctx,
			`INSERT INTO perfis (nome, descricao)
			 VALUES ($1, $2)
			 ON CONFLICT (nome) DO UPDATE SET atualizado_em = NOW()
			 RETURNING id`,
			nome, "Perfil "+nome).Scan(&perfilID)
		if err != nil {
			return err
		}

		for _, def := range permissao.Padrao() {
			if !filtro(def) {
				continue
			}
			_, err := pool.Exec(ctx,
				`INSERT INTO perfis_permissoes (perfil_id, permissao_id)
				 SELECT $1, id FROM permissoes WHERE codigo = $2
				 ON CONFLICT DO NOTHING`,
				perfilID, string(def.Codigo))
			if err != nil {
				return err
			}
		}
		log.Info().Str("perfil", nome).Msg("perfil garantido")
	}
	return nil
}

func seedAdmin(ctx context.Context, pool *pgxpool.Pool, email, senha string) error {
	hash, err := auth.Hash(senha)
	if err != nil {
		return err
	}

	_, err = pool.Exec(ctx,
		`INSERT INTO usuarios (nome, email, senha_hash, perfil_id, ativo)
		 SELECT 'Administrador', $1, $2, id, TRUE FROM perfis WHERE nome = $3
		 ON CONFLICT (email) DO NOTHING`,
		strings.ToLower(strings.TrimSpace(email)), hash, permissao.PerfilAdministrador)
	if err != nil {
		return err
	}
	log.Info().Str("email", email).Msg("administrador garantido")
	return nil
}
