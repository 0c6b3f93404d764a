package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"
)

// Configはアプリ全体の設定
type Config struct {
	Port  string // サーバーポート（10000）
	GoEnv string // development/test/production

	DatabaseURL string // DATABASE_URL か POSTGRES_* から組み立てる
	DBDebug     bool   // SQLログ
	DBSeed      bool   // 起動時に初期データを入れる

	SecretKey string        // JWT署名シークレット
	TokenTTL  time.Duration // JWTの有効期限（24h）

	CORSOrigins     []string      // 許可するオリジン
	RateLimitWindow time.Duration // 15m
	RateLimitMax    int           // window内の最大リクエスト数
	BodyLimit       string        // 1M

	StaticDir       string // ./static
	StaticURLPrefix string // /static

	CacheDriver     string        // memory/redis
	CacheTTL        time.Duration // 30s
	CacheMaxEntries int
	CacheMaxBytes   int64
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	RedisNamespace  string

	CookieSecure bool

	AdminEmail    string
	AdminPassword string

	LogLevel string // debug/info/warn/error
}

func (c Config) IsProduction() bool { return c.GoEnv == EnvProduction }
func (c Config) IsTest() bool       { return c.GoEnv == EnvTest }

// Loadは環境変数
func Load() (Config, error) {
	return LoadFrom(os.Getenv)
}

// LoadFrom は getenv から読み込んで既定値と検証を行う
func LoadFrom(getenv func(string) string) (Config, error) {
	env := envReader{get: getenv}

	cfg := Config{
		Port:  env.str("PORT", "10000"),
		GoEnv: env.str("GO_ENV", EnvDevelopment),

		DBDebug: env.boolean("DB_DEBUG", false),
		DBSeed:  env.boolean("DB_SEED", false),

		SecretKey: getenv("SECRET_KEY"),
		TokenTTL:  env.duration("TOKEN_TTL", 24*time.Hour),

		CORSOrigins:     splitList(env.str("CORS_ORIGINS", "*")),
		RateLimitWindow: env.duration("RATE_LIMIT_WINDOW", 15*time.Minute),
		RateLimitMax:    env.integer("RATE_LIMIT_MAX", 500),
		BodyLimit:       env.str("BODY_LIMIT", "1M"),

		StaticDir:       env.str("STATIC_DIR", "./static"),
		StaticURLPrefix: strings.TrimRight(env.str("STATIC_URL_PREFIX", "/static"), "/"),

		CacheDriver:     strings.ToLower(env.str("CACHE_DRIVER", "memory")),
		CacheTTL:        env.duration("CACHE_TTL", 30*time.Second),
		CacheMaxEntries: env.integer("CACHE_MAX_ENTRIES", 1000),
		CacheMaxBytes:   int64(env.integer("CACHE_MAX_BYTES", 8<<20)),
		RedisAddr:       getenv("REDIS_ADDR"),
		RedisPassword:   getenv("REDIS_PASSWORD"),
		RedisDB:         env.integer("REDIS_DB", 0),
		RedisNamespace:  env.str("REDIS_NAMESPACE", "onlinestore:"),

		AdminEmail:    getenv("ADMIN_EMAIL"),
		AdminPassword: getenv("ADMIN_PASSWORD"),

		LogLevel: strings.ToLower(env.str("LOG_LEVEL", "info")),
	}
	cfg.CookieSecure = env.boolean("COOKIE_SECURE", cfg.GoEnv == EnvProduction)
	cfg.DatabaseURL = databaseURL(getenv)

	if len(env.errs) > 0 {
		return Config{}, env.errs[0]
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	//必須チェック
	switch c.GoEnv {
	case EnvDevelopment, EnvTest, EnvProduction:
	default:
		return fmt.Errorf("GO_ENV must be one of development, test, production")
	}
	if len(c.SecretKey) < 10 {
		return fmt.Errorf("SECRET_KEY is required (min 10 chars)")
	}
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("PORT must be number: %w", err)
	}
	if c.RateLimitMax < 1 {
		return fmt.Errorf("RATE_LIMIT_MAX must be positive")
	}
	if c.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive")
	}

	switch c.CacheDriver {
	case "memory":
		if c.CacheMaxEntries < 1 {
			return fmt.Errorf("CACHE_MAX_ENTRIES must be positive")
		}
		if c.CacheMaxBytes < 1 {
			return fmt.Errorf("CACHE_MAX_BYTES must be positive")
		}
	case "redis":
		if c.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR is required when CACHE_DRIVER=redis")
		}
	default:
		return fmt.Errorf("CACHE_DRIVER must be memory or redis")
	}
	if c.CacheTTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be positive")
	}

	if (c.AdminEmail == "") != (c.AdminPassword == "") {
		return fmt.Errorf("ADMIN_EMAIL and ADMIN_PASSWORD must be set together")
	}
	return nil
}

// DATABASE_URL があれば最優先で使う
func databaseURL(getenv func(string) string) string {
	if dsn := getenv("DATABASE_URL"); dsn != "" {
		return dsn
	}

	env := envReader{get: getenv}
	host := env.str("POSTGRES_HOST", "localhost")
	port := env.str("POSTGRES_PORT", "5432")
	user := env.str("POSTGRES_USER", "postgres")
	pass := env.str("POSTGRES_PASSWORD", "postgres")
	name := env.str("POSTGRES_DB", "onlinestore")
	ssl := env.str("POSTGRES_SSLMODE", "disable")

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(user, pass),
		Host:     host + ":" + port,
		Path:     name,
		RawQuery: "sslmode=" + url.QueryEscape(ssl),
	}
	return u.String()
}

type envReader struct {
	get  func(string) string
	errs []error
}

func (r *envReader) str(key, def string) string {
	v := strings.TrimSpace(r.get(key))
	if v == "" {
		return def
	}
	return v
}

func (r *envReader) integer(key string, def int) int {
	v := strings.TrimSpace(r.get(key))
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s must be number: %w", key, err))
		return def
	}
	return i
}

func (r *envReader) boolean(key string, def bool) bool {
	v := strings.TrimSpace(r.get(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s must be bool: %w", key, err))
		return def
	}
	return b
}

// "30s" のようなGoの書式か、秒数の整数
func (r *envReader) duration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(r.get(key))
	if v == "" {
		return def
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s must be duration: %w", key, err))
		return def
	}
	return d
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
