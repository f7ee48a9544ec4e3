package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultPassword       = "ilovefulfil"
	DefaultTitle          = "Fulfil Inventory EDA Dashboard"
	DefaultDocs           = "This dashboard explores Fulfil's inventory and sales data from March 25–April 12, 2020.\n- For questions, contact the Fulfil Data Team."
	DefaultHistogramBins  = 50
	DefaultTopDepartments = 15
)

// Presentation YAML fayldan o'qiladigan ko'rinish sozlamalari
type Presentation struct {
	Title          string `yaml:"title"`
	Docs           string `yaml:"docs"`
	HistogramBins  int    `yaml:"histogram_bins"`
	TopDepartments int    `yaml:"top_departments"`
}

// Config ilovaning konfiguratsiyasi
type Config struct {
	TelegramToken  string
	Password       string
	GeminiAPIKey   string
	ActionDBPath   string
	MaxUploadBytes int64
	SessionTTL     time.Duration
	SweepSchedule  string
	MetricsAddr    string
	ConfigPath     string
	Presentation   Presentation
}

// Load konfiguratsiyani yuklash
func Load() (*Config, error) {
	// .env faylini yuklash (mavjud bo'lsa)
	_ = godotenv.Load()

	config := &Config{
		TelegramToken:  os.Getenv("TELEGRAM_BOT_TOKEN"),
		Password:       DefaultPassword,
		GeminiAPIKey:   os.Getenv("GEMINI_API_KEY"),
		ActionDBPath:   "data/actions.db",
		MaxUploadBytes: 20 * 1024 * 1024,
		SessionTTL:     24 * time.Hour,
		SweepSchedule:  "*/30 * * * *",
		MetricsAddr:    os.Getenv("METRICS_ADDR"),
		ConfigPath:     "dashboard.yaml",
		Presentation: Presentation{
			Title:          DefaultTitle,
			Docs:           DefaultDocs,
			HistogramBins:  DefaultHistogramBins,
			TopDepartments: DefaultTopDepartments,
		},
	}

	if password, ok := os.LookupEnv("DASHBOARD_PASSWORD"); ok && password != "" {
		config.Password = password
	}

	if dbPath, ok := os.LookupEnv("ACTION_DB_PATH"); ok {
		config.ActionDBPath = strings.TrimSpace(dbPath) // bo'sh = in-memory
	}

	if raw := os.Getenv("MAX_UPLOAD_MB"); raw != "" {
		mb, err := strconv.Atoi(raw)
		if err != nil || mb <= 0 {
			return nil, fmt.Errorf("MAX_UPLOAD_MB noto'g'ri formatda: %q", raw)
		}
		config.MaxUploadBytes = int64(mb) * 1024 * 1024
	}

	if raw := os.Getenv("SESSION_TTL"); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil || ttl <= 0 {
			return nil, fmt.Errorf("SESSION_TTL noto'g'ri formatda: %q", raw)
		}
		config.SessionTTL = ttl
	}

	if schedule := os.Getenv("SESSION_SWEEP_SCHEDULE"); schedule != "" {
		config.SweepSchedule = schedule
	}

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		config.ConfigPath = path
	}
	if err := loadPresentation(config.ConfigPath, &config.Presentation); err != nil {
		return nil, err
	}

	// Validatsiya
	if config.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN environment variable bo'sh")
	}

	return config, nil
}

// loadPresentation YAML fayl bo'lmasa default qiymatlar qoladi
func loadPresentation(path string, p *Presentation) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%s o'qilmadi: %w", path, err)
	}

	var fromFile Presentation
	if err := yaml.Unmarshal(data, &fromFile); err != nil {
		return fmt.Errorf("%s parse xatosi: %w", path, err)
	}

	if fromFile.Title != "" {
		p.Title = fromFile.Title
	}
	if fromFile.Docs != "" {
		p.Docs = strings.TrimSpace(fromFile.Docs)
	}
	if fromFile.HistogramBins > 0 {
		p.HistogramBins = fromFile.HistogramBins
	}
	if fromFile.TopDepartments > 0 {
		p.TopDepartments = fromFile.TopDepartments
	}
	return nil
}

// InsightsEnabled Gemini kaliti berilganmi
func (c *Config) InsightsEnabled() bool {
	return c.GeminiAPIKey != ""
}
