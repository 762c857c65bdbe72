package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Config agrupa a configuração da aplicação (leitura via Viper de env e
// opcionalmente arquivo).
type Config struct {
	App    AppConfig
	DB     DBConfig
	JWT    JWTConfig
	HTTP   HTTPConfig
	NFe    NFeConfig
	Agenda AgendaConfig
	AI     AIConfig
	Notify NotifyConfig
}

// AppConfig configuração geral da aplicação.
type AppConfig struct {
	Env  string // development, staging, production
	Name string
}

// NFeConfig parâmetros fixos de emissão usados na chave de acesso.
type NFeConfig struct {
	Model        string // modelo do documento ("55")
	Series       string // série padrão de emissão
	EmissionType string // tipo de emissão (1 dígito)
}

// AgendaConfig parâmetros da agenda de obrigações.
type AgendaConfig struct {
	DefaultWindowDays int   // janela padrão de expansão de ocorrências
	DefaultLeadDays   []int // antecedências padrão dos lembretes
}

// AIConfig integração com o serviço de extração de itens (Anthropic).
type AIConfig struct {
	AnthropicAPIKey string
	AnthropicModel  string
}

// NotifyConfig canal de saída de lembretes (webhook do gateway de mensagens).
type NotifyConfig struct {
	WebhookURL string // vazio = despacho desabilitado
}

// DBConfig configuração do PostgreSQL. Se DatabaseURL não estiver vazio, é
// usado como connection string completo.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
}

// ConnectionString devolve o DSN a usar: DATABASE_URL se definido, senão o
// construído com DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN monta o connection string do PostgreSQL com URL encoding para
// caracteres especiais na senha.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// JWTConfig configuração de JWT.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
}

// HTTPConfig configuração do servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devolve o endereço de escuta (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Load lê a configuração de variáveis de ambiente (e opcionalmente de
// arquivo .env). As env vars têm prioridade.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // arquivo é opcional

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:  getString(v, "APP_ENV", "development"),
			Name: getString(v, "APP_NAME", "agrofiscal-api"),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "agrofiscal"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 60),
			Issuer:     getString(v, "JWT_ISSUER", "agrofiscal"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		NFe: NFeConfig{
			Model:        getString(v, "NFE_MODEL", "55"),
			Series:       getString(v, "NFE_SERIES", "001"),
			EmissionType: getString(v, "NFE_EMISSION_TYPE", "1"),
		},
		Agenda: AgendaConfig{
			DefaultWindowDays: getInt(v, "AGENDA_WINDOW_DAYS", 90),
			DefaultLeadDays:   parseLeadDays(getString(v, "AGENDA_LEAD_DAYS", "1,7,15")),
		},
		AI: AIConfig{
			AnthropicAPIKey: getString(v, "ANTHROPIC_API_KEY", ""),
			AnthropicModel:  getString(v, "ANTHROPIC_MODEL", "claude-3-5-haiku-20241022"),
		},
		Notify: NotifyConfig{
			WebhookURL: getString(v, "NOTIFY_WEBHOOK_URL", ""),
		},
	}

	return cfg, nil
}

// parseLeadDays converte "1,7,15" na lista de antecedências; valores inválidos
// são ignorados.
func parseLeadDays(s string) []int {
	var out []int
	for _, part := range strings.Split(s, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 0 {
			continue
		}
		out = append(out, n)
	}
	return out
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case string:
			n, _ := strconv.Atoi(v.GetString(key))
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}
