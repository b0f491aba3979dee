package config

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// AppConfig configuração da aplicação
type AppConfig struct {
	Server   ServerConfig   `toml:"server"`
	Data     DataConfig     `toml:"data"`
	Business BusinessConfig `toml:"business"`
}

// ServerConfig configuração do servidor
type ServerConfig struct {
	Port    int  `toml:"port"`
	DevMode bool `toml:"dev_mode"`
}

// DataConfig configuração de dados
type DataConfig struct {
	DataDir string `toml:"data_dir"`
}

// BusinessConfig parâmetros de negócio da simulação
type BusinessConfig struct {
	// Fração do cash-repasse mantida quando a viagem é cancelada (0 = zera)
	CancelCashFactor float64 `toml:"cancel_cash_factor"`

	// Metas mensais usadas na meta diluída acumulada
	GMVMonthlyTarget  float64 `toml:"gmv_monthly_target"`
	CashMonthlyTarget float64 `toml:"cash_monthly_target"`

	// Janela do check de cancelamento, em horas a partir de agora
	CheckWindowStartHours int `toml:"check_window_start_hours"`
	CheckWindowEndHours   int `toml:"check_window_end_hours"`
}

// LoadConfigInfo metadados do carregamento da configuração
type LoadConfigInfo struct {
	PortSpecified bool
}

// DefaultConfig configuração padrão
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:    20280,
			DevMode: false,
		},
		Data: DataConfig{
			DataDir: "data",
		},
		Business: BusinessConfig{
			CancelCashFactor:      0.0,
			GMVMonthlyTarget:      600000,
			CashMonthlyTarget:     300000,
			CheckWindowStartHours: 48,
			CheckWindowEndHours:   72,
		},
	}
}

func isPortSpecifiedInToml(data []byte) bool {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return false
	}

	serverAny, ok := raw["server"]
	if !ok {
		return false
	}

	serverMap, ok := serverAny.(map[string]any)
	if !ok {
		return false
	}

	_, ok = serverMap["port"]
	return ok
}

// GetExeDir diretório do executável
func GetExeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// LoadConfigWithInfo carrega config.toml e devolve metadados do carregamento
func LoadConfigWithInfo() (*AppConfig, LoadConfigInfo, error) {
	info := LoadConfigInfo{}
	config := DefaultConfig()

	exeDir, err := GetExeDir()
	if err != nil {
		// sem diretório do executável, usa o diretório atual
		exeDir = "."
	}

	configPath := filepath.Join(exeDir, "config.toml")

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			// arquivo de configuração ausente, segue com o padrão
			return config, info, nil
		}
		return nil, info, err
	}

	info.PortSpecified = isPortSpecifiedInToml(data)

	if err := toml.Unmarshal(data, config); err != nil {
		return nil, info, err
	}

	// Variável de ambiente sobrepõe o diretório de dados (E2E / execução local)
	if v := os.Getenv("SIMULADOR_DATA_DIR"); v != "" {
		config.Data.DataDir = v
	}

	return config, info, nil
}

// LoadConfig carrega a configuração de config.toml
// O arquivo fica no mesmo diretório do executável
func LoadConfig() (*AppConfig, error) {
	config, _, err := LoadConfigWithInfo()
	return config, err
}

// SaveConfig grava a configuração em config.toml
func SaveConfig(config *AppConfig) error {
	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}

	configPath := filepath.Join(exeDir, "config.toml")

	data, err := toml.Marshal(config)
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0644)
}

// EnsureDataDir garante que o diretório de dados existe
// O diretório fica no mesmo diretório do executável
func EnsureDataDir(config *AppConfig) (string, error) {
	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}

	dataDir := config.Data.DataDir
	if !filepath.IsAbs(dataDir) {
		dataDir = filepath.Join(exeDir, dataDir)
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", err
	}

	// Subdiretórios de trabalho
	subdirs := []string{"uploads", "exports"}
	for _, subdir := range subdirs {
		path := filepath.Join(dataDir, subdir)
		if err := os.MkdirAll(path, 0755); err != nil {
			return "", err
		}
	}

	return dataDir, nil
}
