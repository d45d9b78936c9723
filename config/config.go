package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"pothole-tracker/internal/domain/entity"
)

// Имена реализаций хранилища снимков
const (
	ImageStoreFile = "file"
	ImageStoreS3   = "s3"
)

type Config struct {
	TelegramToken string
	HTTPAddr      string

	DetectorBackend string
	Detection       entity.DetectionConfig
	BoxColor        string
	Label           string

	ReportsFile string
	OutputDir   string
	KeepHistory bool

	ImageStore string
	S3         S3
}

// S3 параметры хранилища снимков в бакете
type S3 struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	Secure    bool
}

type lookupFunc func(key string) (string, bool)

func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	return load(os.LookupEnv)
}

// FromFile читает настройки только из указанного .env файла, не трогая окружение процесса
func FromFile(path string) (*Config, error) {
	env, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	return load(func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	})
}

func load(lookup lookupFunc) (*Config, error) {
	p := parser{lookup: lookup}

	cfg := &Config{
		TelegramToken:   p.str("TELEGRAM_TOKEN", ""),
		HTTPAddr:        p.str("HTTP_ADDR", ":8080"),
		DetectorBackend: p.str("DETECTOR_BACKEND", "native"),
		BoxColor:        p.str("POTHOLE_BOX_COLOR", "#FF0000"),
		Label:           p.str("POTHOLE_LABEL", "Pothole"),
		ReportsFile:     p.str("REPORTS_FILE", "reports.csv"),
		OutputDir:       p.str("OUTPUT_DIR", "static"),
		KeepHistory:     p.boolean("KEEP_HISTORY", false),
		ImageStore:      p.str("IMAGE_STORE", ImageStoreFile),
		S3: S3{
			Endpoint:  p.str("S3_ENDPOINT", ""),
			AccessKey: p.str("S3_ACCESS_KEY", ""),
			SecretKey: p.str("S3_SECRET_KEY", ""),
			Bucket:    p.str("S3_BUCKET", ""),
			Region:    p.str("S3_REGION", "us-east-1"),
			Secure:    p.boolean("S3_SECURE", true),
		},
	}

	d := entity.DefaultDetectionConfig()
	d.Width = p.integer("POTHOLE_WIDTH", d.Width)
	d.Height = p.integer("POTHOLE_HEIGHT", d.Height)
	d.TopCropFraction = p.float("POTHOLE_TOP_CROP", d.TopCropFraction)
	d.MinArea = p.integer("POTHOLE_MIN_AREA", d.MinArea)
	d.MaxAreaFraction = p.float("POTHOLE_MAX_AREA_FRACTION", d.MaxAreaFraction)
	d.MinAspect = p.float("POTHOLE_MIN_ASPECT", d.MinAspect)
	d.MaxAspect = p.float("POTHOLE_MAX_ASPECT", d.MaxAspect)
	d.MorphKernel = p.integer("POTHOLE_MORPH_KERNEL", d.MorphKernel)
	d.CloseIterations = p.integer("POTHOLE_CLOSE_ITERATIONS", d.CloseIterations)
	d.OpenIterations = p.integer("POTHOLE_OPEN_ITERATIONS", d.OpenIterations)
	d.BlurKernel = p.integer("POTHOLE_BLUR_KERNEL", d.BlurKernel)
	cfg.Detection = d

	if p.err != nil {
		return nil, p.err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate проверяет согласованность настроек
func (c *Config) Validate() error {
	if c.TelegramToken == "" && c.HTTPAddr == "" {
		return &entity.ConfigurationError{Field: "telegram_token", Reason: "either TELEGRAM_TOKEN or HTTP_ADDR is required"}
	}
	switch c.DetectorBackend {
	case "native", "gocv":
	default:
		return &entity.ConfigurationError{Field: "detector_backend", Reason: fmt.Sprintf("unknown backend %q", c.DetectorBackend)}
	}
	switch c.ImageStore {
	case ImageStoreFile:
	case ImageStoreS3:
		if c.S3.Endpoint == "" || c.S3.Bucket == "" {
			return &entity.ConfigurationError{Field: "image_store", Reason: "S3_ENDPOINT and S3_BUCKET are required for s3"}
		}
	default:
		return &entity.ConfigurationError{Field: "image_store", Reason: fmt.Sprintf("unknown store %q", c.ImageStore)}
	}

	return c.Detection.Validate()
}

// parser запоминает первую ошибку разбора
type parser struct {
	lookup lookupFunc
	err    error
}

func (p *parser) str(key, def string) string {
	if v, ok := p.lookup(key); ok {
		return v
	}
	return def
}

func (p *parser) integer(key string, def int) int {
	v, ok := p.lookup(key)
	if !ok || v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		p.fail(key, err)
		return def
	}
	return n
}

func (p *parser) float(key string, def float64) float64 {
	v, ok := p.lookup(key)
	if !ok || v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		p.fail(key, err)
		return def
	}
	return f
}

func (p *parser) boolean(key string, def bool) bool {
	v, ok := p.lookup(key)
	if !ok || v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		p.fail(key, err)
		return def
	}
	return b
}

func (p *parser) fail(key string, err error) {
	if p.err == nil {
		p.err = fmt.Errorf("%s: %w", key, err)
	}
}
