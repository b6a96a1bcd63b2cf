package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

type LLMConfig struct {
	Provider         string  `toml:"provider"`
	Model            string  `toml:"model"`
	EmbeddingModel   string  `toml:"embedding_model"`
	APIKey           string  `toml:"api_key"`
	BaseURL          string  `toml:"base_url"`
	EmbeddingBaseURL string  `toml:"embedding_base_url"`
	Temperature      float32 `toml:"temperature"`
	MaxTokens        int     `toml:"max_tokens"`
}

type MySQLConfig struct {
	Host          string `toml:"host"`
	Port          int    `toml:"port"`
	User          string `toml:"user"`
	Password      string `toml:"password"`
	Database      string `toml:"database"`
	Charset       string `toml:"charset"`
	CategoryTable string `toml:"category_table"`
	MaterialTable string `toml:"material_table"`
}

// DSN renders the go-sql-driver connection string.
func (c MySQLConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=true",
		c.User, c.Password, c.Host, c.Port, c.Database, c.Charset)
}

type MemgraphConfig struct {
	URI       string `toml:"uri"`
	User      string `toml:"user"`
	Password  string `toml:"password"`
	IndexName string `toml:"index_name"`
	Dimension int    `toml:"dimension"`
}

// ClassifyConfig holds the retrieval ranking knobs: a generous K so the
// quantile filter is meaningful, a fixed low-confidence floor, and the
// quantile cutoff with a minimum advancing count.
type ClassifyConfig struct {
	TopK            int     `toml:"top_k"`
	SimilarityFloor float64 `toml:"similarity_floor"`
	Quantile        float64 `toml:"quantile"`
	MinAdvance      int     `toml:"min_advance"`
}

// ClassifyPrompts overrides the built-in prompt templates. Each template is
// rendered with fmt.Sprintf; see internal/core/navigator and
// internal/core/arbiter for the argument order.
type ClassifyPrompts struct {
	Level1    string `toml:"level1"`
	Level2    string `toml:"level2"`
	Level3    string `toml:"level3"`
	Arbitrate string `toml:"arbitrate"`
}

type ConcurrencyConfig struct {
	BatchClassify int `toml:"batch_classify"`
}

type Config struct {
	LLM         LLMConfig         `toml:"llm"`
	MySQL       MySQLConfig       `toml:"mysql"`
	Memgraph    MemgraphConfig    `toml:"memgraph"`
	Classify    ClassifyConfig    `toml:"classify"`
	Prompts     ClassifyPrompts   `toml:"prompts"`
	Concurrency ConcurrencyConfig `toml:"concurrency"`
}

// Default returns the configuration used when no file is present. LLM and
// database credentials still have to come from the file or environment
// overrides.
func Default() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider:       "openai",
			Model:          "qwen3-max",
			EmbeddingModel: "bge",
			Temperature:    0.3,
			MaxTokens:      256,
		},
		MySQL: MySQLConfig{
			Host:          "localhost",
			Port:          3306,
			Charset:       "utf8mb4",
			CategoryTable: "hdl_category",
			MaterialTable: "hdl_material_pure",
		},
		Memgraph: MemgraphConfig{
			URI:       "bolt://localhost:7687",
			IndexName: "material_categories_b",
			Dimension: 1024,
		},
		Classify: ClassifyConfig{
			TopK:            100,
			SimilarityFloor: 0.5,
			Quantile:        0.9,
			MinAdvance:      2,
		},
		Concurrency: ConcurrencyConfig{
			BatchClassify: 4,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	return cfg, nil
}
