package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	App           App           `mapstructure:",squash"`
	Server        Server        `mapstructure:",squash"`
	Database      Database      `mapstructure:",squash"`
	Dashboard     Dashboard     `mapstructure:",squash"`
	Goals         Goals         `mapstructure:",squash"`
	DailySnapshot DailySnapshot `mapstructure:",squash"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
}

type Server struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

type Database struct {
	DSN      string `mapstructure:"-"`
	Driver   string `mapstructure:"database_driver"`
	Password string `mapstructure:"database_password"`
	URL      string `mapstructure:"database_url"`
	User     string `mapstructure:"database_user"`
}

// Dashboard parametriza o pipeline de agregação. As duas variantes do painel
// original (janela de 365 ou 60 dias, fontes opcionais ligadas ou não)
// viraram configuração de uma implementação única.
type Dashboard struct {
	SellerAllowList            []string      `mapstructure:"dashboard_seller_allowlist"`
	LookbackDays               int           `mapstructure:"dashboard_lookback_days"`
	RecentUpdateDays           int           `mapstructure:"dashboard_recent_update_days"`
	RequestTimeout             time.Duration `mapstructure:"dashboard_request_timeout"`
	StageClosedSourceEnabled   bool          `mapstructure:"dashboard_stage_closed_source_enabled"`
	RecentUpdatedSourceEnabled bool          `mapstructure:"dashboard_recent_updated_source_enabled"`
	BudgetSourceEnabled        bool          `mapstructure:"dashboard_budget_source_enabled"`
}

// Goals carrega as metas fixas de venda. SellerGoals mapeia um fragmento de
// nome (minúsculas) para a meta individual daquele vendedor.
type Goals struct {
	TotalSalesGoal float64            `mapstructure:"goals_total_sales"`
	SellerGoalsRaw []string           `mapstructure:"goals_by_seller"`
	SellerGoals    map[string]float64 `mapstructure:"-"`
}

type DailySnapshot struct {
	CronSchedule string `mapstructure:"daily_snapshot_cron"`
	Enabled      bool   `mapstructure:"daily_snapshot_enabled"`
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)

	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_URL", "localhost:5432/dashboard")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "root")

	// Vendedores exibidos no painel (filtro por substring de nome)
	viper.SetDefault("DASHBOARD_SELLER_ALLOWLIST", "Elaine,Julia,Maria Vitória")
	viper.SetDefault("DASHBOARD_LOOKBACK_DAYS", 365)    // Janela para vendas fechadas
	viper.SetDefault("DASHBOARD_RECENT_UPDATE_DAYS", 60) // Janela da rede de segurança por updated_at
	viper.SetDefault("DASHBOARD_REQUEST_TIMEOUT", "10s")
	viper.SetDefault("DASHBOARD_STAGE_CLOSED_SOURCE_ENABLED", true)
	viper.SetDefault("DASHBOARD_RECENT_UPDATED_SOURCE_ENABLED", true)
	viper.SetDefault("DASHBOARD_BUDGET_SOURCE_ENABLED", true)

	// Metas fixas do painel (em reais)
	viper.SetDefault("GOALS_TOTAL_SALES", 500000)
	viper.SetDefault("GOALS_BY_SELLER", "maria:150000,elaine:100000,julia:350000")

	viper.SetDefault("DAILY_SNAPSHOT_CRON", "55 23 * * *") // Fim do dia
	viper.SetDefault("DAILY_SNAPSHOT_ENABLED", false)

	viper.SetDefault("LOG_LEVEL", "debug")
}

func NewConfig() (*Config, error) {
	loadEnvFile() // ONLY LOCAL

	config := &Config{}

	SetDefaults()

	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logrus.Info("Usando variáveis carregadas pelo godotenv (viper não conseguiu ler .env):", err)
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	config.Goals.SellerGoals, err = parseSellerGoals(config.Goals.SellerGoalsRaw)
	if err != nil {
		return nil, err
	}

	config.Database.DSN = fmt.Sprintf(
		"%s://%s:%s@%s",
		config.Database.Driver,
		config.Database.User,
		config.Database.Password,
		config.Database.URL,
	)

	return config, nil
}

// Validate confere as credenciais obrigatórias do banco antes do boot.
// O erro carrega a instrução de correção exibida no log fatal.
func (c *Config) Validate() error {
	if c.Database.URL == "" || c.Database.User == "" {
		return fmt.Errorf(
			"banco de dados não configurado: defina DATABASE_URL, DATABASE_USER e DATABASE_PASSWORD no arquivo .env ou nas variáveis de ambiente",
		)
	}

	if len(c.Dashboard.SellerAllowList) == 0 {
		return fmt.Errorf("DASHBOARD_SELLER_ALLOWLIST não pode ser vazia")
	}

	return nil
}

// parseSellerGoals interpreta entradas "fragmento:valor" vindas de
// GOALS_BY_SELLER (ex.: "maria:150000,julia:350000")
func parseSellerGoals(entries []string) (map[string]float64, error) {
	goals := make(map[string]float64, len(entries))

	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		fragment, rawValue, found := strings.Cut(entry, ":")
		if !found {
			return nil, fmt.Errorf("meta individual inválida %q: esperado formato nome:valor", entry)
		}

		value, err := strconv.ParseFloat(strings.TrimSpace(rawValue), 64)
		if err != nil {
			return nil, fmt.Errorf("meta individual inválida %q: %w", entry, err)
		}

		goals[strings.ToLower(strings.TrimSpace(fragment))] = value
	}

	return goals, nil
}

// Função auxiliar para carregar o arquivo .env usando godotenv
func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Não foi possível obter o diretório atual:", err)
		return
	}

	locations := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(filepath.Dir(cwd), ".env"),
		filepath.Join(cwd, "../.env"),
		filepath.Join(cwd, "../../.env"),
	}

	for _, location := range locations {
		if err := godotenv.Load(location); err == nil {
			logrus.Info("Arquivo .env carregado de:", location)
			return
		}
	}

	logrus.Warn("Nenhum arquivo .env encontrado, usando apenas variáveis de ambiente")
}
