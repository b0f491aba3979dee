package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Batatao343/buser-simulador/internal/config"
	"github.com/Batatao343/buser-simulador/internal/server"
	"github.com/Batatao343/buser-simulador/internal/util"
)

var (
	port    = flag.Int("port", 0, "porta do serviço (config.toml tem prioridade quando define port)")
	devMode = flag.Bool("dev", false, "modo de desenvolvimento")
	dataDir = flag.String("dataDir", "", "diretório de dados (sobrepõe o arquivo de configuração)")
)

func main() {
	flag.Parse()

	fmt.Println("==========================================")
	fmt.Println("  Simulador de Cancelamento de Rotas")
	fmt.Println("==========================================")

	cfg, info, err := config.LoadConfigWithInfo()
	if err != nil {
		log.Printf("Falha ao carregar a configuração, usando os padrões: %v", err)
		cfg = config.DefaultConfig()
		info = config.LoadConfigInfo{}
	}

	// Parâmetros de linha de comando sobrepõem a configuração
	if *port > 0 && !info.PortSpecified {
		cfg.Server.Port = *port
	}
	if *devMode {
		cfg.Server.DevMode = true
	}
	if *dataDir != "" {
		cfg.Data.DataDir = *dataDir
	}

	resolvedDataDir, err := config.EnsureDataDir(cfg)
	if err != nil {
		log.Printf("Falha ao criar o diretório de dados: %v", err)
	} else {
		fmt.Printf("Diretório de dados: %s\n", resolvedDataDir)
	}

	srv := server.NewServer(cfg)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	url := fmt.Sprintf("http://localhost:%d", cfg.Server.Port)

	go func() {
		fmt.Printf("Serviço iniciando na porta %d ...\n", cfg.Server.Port)
		if err := srv.Run(addr); err != nil {
			log.Fatalf("Falha ao iniciar o serviço: %v", err)
		}
	}()

	if !cfg.Server.DevMode {
		fmt.Printf("Abrindo o navegador: %s\n", url)
		if err := util.OpenBrowserWithFallback(url); err != nil {
			fmt.Printf("Não foi possível abrir o navegador, acesse manualmente: %s\n", url)
		}
	} else {
		fmt.Printf("Modo de desenvolvimento: acesse %s\n", url)
	}

	fmt.Println("\nPressione Ctrl+C para encerrar...")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("\nEncerrando o serviço...")
	if err := srv.Close(); err != nil {
		log.Printf("Falha ao fechar o banco de dados: %v", err)
	}
}
