package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const (
	RecordStoreMongo    = "mongo"
	RecordStorePostgres = "postgres"
)

type Config struct {
	App          App          `mapstructure:",squash"`
	Server       Server       `mapstructure:",squash"`
	RecordStore  RecordStore  `mapstructure:",squash"`
	Database     Database     `mapstructure:",squash"`
	Mongo        Mongo        `mapstructure:",squash"`
	Auth         Auth         `mapstructure:",squash"`
	Analytics    Analytics    `mapstructure:",squash"`
	ReportExport ReportExport `mapstructure:",squash"`
}

type Server struct {
	Host           string   `mapstructure:"host"`
	Port           string   `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"cors_allowed_origins"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
}

// RecordStore escolhe o backend de onde os registros brutos são lidos
type RecordStore struct {
	Driver string `mapstructure:"record_store_driver"`
}

type Database struct {
	DSN      string `mapstructure:"-"`
	Driver   string `mapstructure:"database_driver"`
	Password string `mapstructure:"database_password"`
	URL      string `mapstructure:"database_url"`
	User     string `mapstructure:"database_user"`
	Table    string `mapstructure:"database_records_table"`
}

type Mongo struct {
	URI            string        `mapstructure:"mongo_uri"`
	Database       string        `mapstructure:"mongo_database"`
	ConnectTimeout time.Duration `mapstructure:"mongo_connect_timeout"`
	MaxPoolSize    uint64        `mapstructure:"mongo_max_pool_size"`
}

type Auth struct {
	Secret string `mapstructure:"auth_secret"`
}

// Analytics concentra todos os valores padrão usados pelo pipeline de relatórios
type Analytics struct {
	LoadTimeout                 time.Duration `mapstructure:"analytics_load_timeout"`
	DefaultCommissionPct        float64       `mapstructure:"analytics_default_commission_pct"`
	AnomalyThreshold            float64       `mapstructure:"analytics_anomaly_threshold"`
	TopLeadsLimit               int           `mapstructure:"analytics_top_leads_limit"`
	ConversionCriticalPct       float64       `mapstructure:"analytics_conversion_critical_pct"`
	ConversionWarningPct        float64       `mapstructure:"analytics_conversion_warning_pct"`
	PipelineCriticalValue       float64       `mapstructure:"analytics_pipeline_critical_value"`
	PipelineWarningValue        float64       `mapstructure:"analytics_pipeline_warning_value"`
	ForecastMinConfidence       float64       `mapstructure:"analytics_forecast_min_confidence"`
	OverdueTasksCritical        int           `mapstructure:"analytics_overdue_tasks_critical"`
	SalesCycleWarningDays       float64       `mapstructure:"analytics_sales_cycle_warning_days"`
	RegressionConfidence        []float64     `mapstructure:"analytics_regression_confidence"`
	FallbackConfidence          []float64     `mapstructure:"analytics_fallback_confidence"`
	FallbackGrowthMultipliers   []float64     `mapstructure:"analytics_fallback_growth_multipliers"`
	LeadScoreHotThreshold       int           `mapstructure:"analytics_lead_score_hot"`
	LeadScoreWarmThreshold      int           `mapstructure:"analytics_lead_score_warm"`
	LeadScoreBudgetHigh         float64       `mapstructure:"analytics_lead_budget_high"`
	LeadScoreBudgetMedium       float64       `mapstructure:"analytics_lead_budget_medium"`
	LeadScoreInteractionsHigh   int           `mapstructure:"analytics_lead_interactions_high"`
	LeadScoreInteractionsMedium int           `mapstructure:"analytics_lead_interactions_medium"`

	// pesos por origem e por tipo de interesse, no formato "hot:25,warm:15"
	LeadScoreSourceWeights   map[string]int `mapstructure:"analytics_lead_source_weights"`
	LeadScoreInterestWeights map[string]int `mapstructure:"analytics_lead_interest_weights"`
	LeadScoreUnknownWeight   int            `mapstructure:"analytics_lead_unknown_weight"`

	// pontos por faixa (alta, média, baixa)
	LeadScoreBudgetPoints      []int `mapstructure:"analytics_lead_budget_points"`
	LeadScoreInteractionPoints []int `mapstructure:"analytics_lead_interaction_points"`
}

type ReportExport struct {
	CronSchedule string   `mapstructure:"report_export_cron"`
	Enabled      bool     `mapstructure:"report_export_enabled"`
	Tenants      []string `mapstructure:"report_export_tenants"`
	Range        string   `mapstructure:"report_export_range"`
	Dir          string   `mapstructure:"report_export_dir"`
}

// DefaultAnalytics retorna a configuração padrão do pipeline, útil fora do viper (testes, scripts)
func DefaultAnalytics() Analytics {
	return Analytics{
		LoadTimeout:                 20 * time.Second,
		DefaultCommissionPct:        2.5,
		AnomalyThreshold:            2,
		TopLeadsLimit:               5,
		ConversionCriticalPct:       10,
		ConversionWarningPct:        20,
		PipelineCriticalValue:       100000,
		PipelineWarningValue:        500000,
		ForecastMinConfidence:       60,
		OverdueTasksCritical:        5,
		SalesCycleWarningDays:       90,
		RegressionConfidence:        []float64{75, 65, 55},
		FallbackConfidence:          []float64{50, 40, 30},
		FallbackGrowthMultipliers:   []float64{1.1, 1.2, 1.3},
		LeadScoreHotThreshold:       80,
		LeadScoreWarmThreshold:      60,
		LeadScoreBudgetHigh:         300000,
		LeadScoreBudgetMedium:       150000,
		LeadScoreInteractionsHigh:   5,
		LeadScoreInteractionsMedium: 2,
		LeadScoreSourceWeights:      map[string]int{"hot": 25, "warm": 15, "cold": 5},
		LeadScoreInterestWeights:    map[string]int{"investimento": 35, "compra": 25, "venda": 20, "aluguel": 15},
		LeadScoreUnknownWeight:      10,
		LeadScoreBudgetPoints:       []int{30, 20, 10},
		LeadScoreInteractionPoints:  []int{25, 15, 5},
	}
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173")

	viper.SetDefault("RECORD_STORE_DRIVER", RecordStoreMongo)

	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_URL", "localhost:5432/crm?sslmode=disable")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "root")
	viper.SetDefault("DATABASE_RECORDS_TABLE", "crm_records")

	viper.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	viper.SetDefault("MONGO_DATABASE", "crm")
	viper.SetDefault("MONGO_CONNECT_TIMEOUT", "5s")
	viper.SetDefault("MONGO_MAX_POOL_SIZE", 50)

	viper.SetDefault("AUTH_SECRET", "your_secret_key")

	defaults := DefaultAnalytics()
	viper.SetDefault("ANALYTICS_LOAD_TIMEOUT", defaults.LoadTimeout.String())           // timeout total da carga
	viper.SetDefault("ANALYTICS_DEFAULT_COMMISSION_PCT", defaults.DefaultCommissionPct) // comissão quando o negócio não informa
	viper.SetDefault("ANALYTICS_ANOMALY_THRESHOLD", defaults.AnomalyThreshold)          // z-score mínimo
	viper.SetDefault("ANALYTICS_TOP_LEADS_LIMIT", defaults.TopLeadsLimit)
	viper.SetDefault("ANALYTICS_CONVERSION_CRITICAL_PCT", defaults.ConversionCriticalPct)
	viper.SetDefault("ANALYTICS_CONVERSION_WARNING_PCT", defaults.ConversionWarningPct)
	viper.SetDefault("ANALYTICS_PIPELINE_CRITICAL_VALUE", defaults.PipelineCriticalValue)
	viper.SetDefault("ANALYTICS_PIPELINE_WARNING_VALUE", defaults.PipelineWarningValue)
	viper.SetDefault("ANALYTICS_FORECAST_MIN_CONFIDENCE", defaults.ForecastMinConfidence)
	viper.SetDefault("ANALYTICS_OVERDUE_TASKS_CRITICAL", defaults.OverdueTasksCritical)
	viper.SetDefault("ANALYTICS_SALES_CYCLE_WARNING_DAYS", defaults.SalesCycleWarningDays)
	viper.SetDefault("ANALYTICS_REGRESSION_CONFIDENCE", "75,65,55")
	viper.SetDefault("ANALYTICS_FALLBACK_CONFIDENCE", "50,40,30")
	viper.SetDefault("ANALYTICS_FALLBACK_GROWTH_MULTIPLIERS", "1.1,1.2,1.3")
	viper.SetDefault("ANALYTICS_LEAD_SCORE_HOT", defaults.LeadScoreHotThreshold)
	viper.SetDefault("ANALYTICS_LEAD_SCORE_WARM", defaults.LeadScoreWarmThreshold)
	viper.SetDefault("ANALYTICS_LEAD_BUDGET_HIGH", defaults.LeadScoreBudgetHigh)
	viper.SetDefault("ANALYTICS_LEAD_BUDGET_MEDIUM", defaults.LeadScoreBudgetMedium)
	viper.SetDefault("ANALYTICS_LEAD_INTERACTIONS_HIGH", defaults.LeadScoreInteractionsHigh)
	viper.SetDefault("ANALYTICS_LEAD_INTERACTIONS_MEDIUM", defaults.LeadScoreInteractionsMedium)
	viper.SetDefault("ANALYTICS_LEAD_SOURCE_WEIGHTS", formatWeights(defaults.LeadScoreSourceWeights))
	viper.SetDefault("ANALYTICS_LEAD_INTEREST_WEIGHTS", formatWeights(defaults.LeadScoreInterestWeights))
	viper.SetDefault("ANALYTICS_LEAD_UNKNOWN_WEIGHT", defaults.LeadScoreUnknownWeight) // origem ou interesse fora das tabelas
	viper.SetDefault("ANALYTICS_LEAD_BUDGET_POINTS", "30,20,10")
	viper.SetDefault("ANALYTICS_LEAD_INTERACTION_POINTS", "25,15,5")

	viper.SetDefault("REPORT_EXPORT_CRON", "0 6 * * *") // Todos os dias às 6h da manhã
	viper.SetDefault("REPORT_EXPORT_ENABLED", false)
	viper.SetDefault("REPORT_EXPORT_TENANTS", "")
	viper.SetDefault("REPORT_EXPORT_RANGE", "30d")
	viper.SetDefault("REPORT_EXPORT_DIR", "exports")

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
	} else {
		logrus.Info("Arquivo .env lido pelo Viper com sucesso")
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(decodeHook()))
	if err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
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

// Validate verifica combinações que o pipeline não consegue usar
func (c *Config) Validate() error {
	switch c.RecordStore.Driver {
	case RecordStoreMongo, RecordStorePostgres:
	default:
		return fmt.Errorf("config: driver de registros inválido: %q", c.RecordStore.Driver)
	}

	a := c.Analytics
	if len(a.RegressionConfidence) != 3 || len(a.FallbackConfidence) != 3 || len(a.FallbackGrowthMultipliers) != 3 {
		return fmt.Errorf("config: tabelas de previsão devem ter 3 valores (30/60/90 dias)")
	}

	if a.AnomalyThreshold <= 0 {
		return fmt.Errorf("config: limiar de anomalia deve ser positivo")
	}

	if a.LoadTimeout <= 0 {
		return fmt.Errorf("config: timeout de carga deve ser positivo")
	}

	if err := validateWeights("origem", a.LeadScoreSourceWeights); err != nil {
		return err
	}
	if err := validateWeights("interesse", a.LeadScoreInterestWeights); err != nil {
		return err
	}
	if a.LeadScoreUnknownWeight < 0 {
		return fmt.Errorf("config: peso de categoria desconhecida não pode ser negativo")
	}
	if err := validatePoints("orçamento", a.LeadScoreBudgetPoints); err != nil {
		return err
	}
	if err := validatePoints("interações", a.LeadScoreInteractionPoints); err != nil {
		return err
	}

	return nil
}

func validateWeights(name string, weights map[string]int) error {
	if len(weights) == 0 {
		return fmt.Errorf("config: pesos de %s do lead não informados", name)
	}
	for key, weight := range weights {
		if weight < 0 {
			return fmt.Errorf("config: peso de %s %q não pode ser negativo", name, key)
		}
	}
	return nil
}

func validatePoints(name string, points []int) error {
	if len(points) != 3 {
		return fmt.Errorf("config: pontos de %s do lead devem ter 3 valores (alta/média/baixa)", name)
	}
	for _, p := range points {
		if p < 0 {
			return fmt.Errorf("config: pontos de %s do lead não podem ser negativos", name)
		}
	}
	return nil
}

func decodeHook() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		stringToWeightsHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)
}

// stringToWeightsHookFunc converte "chave:peso,chave:peso" em map[string]int
func stringToWeightsHookFunc() mapstructure.DecodeHookFuncType {
	target := reflect.TypeOf(map[string]int{})
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if from.Kind() != reflect.String || to != target {
			return data, nil
		}
		return parseWeights(data.(string))
	}
}

func parseWeights(raw string) (map[string]int, error) {
	weights := make(map[string]int)
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}

		key, value, ok := strings.Cut(pair, ":")
		if !ok {
			return nil, fmt.Errorf("config: peso inválido %q, esperado chave:valor", pair)
		}

		weight, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return nil, fmt.Errorf("config: peso inválido %q: %w", pair, err)
		}
		weights[strings.ToLower(strings.TrimSpace(key))] = weight
	}
	return weights, nil
}

func formatWeights(weights map[string]int) string {
	keys := make([]string, 0, len(weights))
	for key := range weights {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, key := range keys {
		pairs = append(pairs, key+":"+strconv.Itoa(weights[key]))
	}
	return strings.Join(pairs, ",")
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
		filepath.Join(cwd, "../../.env"),
	}

	for _, location := range locations {
		logrus.Debug("Tentando carregar .env de:", location)
		err := godotenv.Load(location)
		if err == nil {
			logrus.Info("Arquivo .env carregado com sucesso de:", location)
			return
		}
	}

	logrus.Warn("Não foi possível carregar o arquivo .env de nenhuma localização conhecida")
}
